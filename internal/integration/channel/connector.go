package channel

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/mwalczyk-dev/ragbot-backend/internal/config"
	"github.com/mwalczyk-dev/ragbot-backend/internal/entity"
	"github.com/mwalczyk-dev/ragbot-backend/internal/integration/common"
	pkghttp "github.com/mwalczyk-dev/ragbot-backend/pkg/http"
	"go.uber.org/zap"
)

// Connector delivers generated answers back into the originating
// conversation. Delivery is a one-way notification: the inbound HTTP
// exchange is already finished by the time a reply is posted, and a
// failed delivery only loses that one answer.
type Connector struct {
	config    config.ChannelConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.ChannelConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Send posts text as a reply to the given activity, authorized with the
// outbound bearer token. The reply swaps from and recipient and points
// replyToId at the original activity.
func (c *Connector) Send(ctx context.Context, activity *entity.Activity, token *entity.AuthToken, text string) error {
	replyURL, err := ReplyURL(activity)
	if err != nil {
		return err
	}

	reply := activity.Reply(text)

	ctxzap.Debug(ctx, "sending reply activity",
		zap.String("url", replyURL),
		zap.String("conversation_id", activity.Conversation.ID),
		zap.String("reply_to_id", reply.ReplyToID),
	)

	opts := []pkghttp.RequestOpt{
		pkghttp.WithURL(replyURL),
		pkghttp.WithHeader("Authorization", "Bearer "+token.AccessToken),
	}

	if err := c.connector.DoRequest(ctx, http.MethodPost, "", reply, nil, opts...); err != nil {
		return fmt.Errorf("post reply to conversation %s: %w", activity.Conversation.ID, err)
	}

	ctxzap.Info(ctx, "reply delivered",
		zap.String("conversation_id", activity.Conversation.ID),
		zap.String("reply_to_id", reply.ReplyToID),
	)

	return nil
}

// ReplyURL builds the conversation endpoint for replying to an activity:
// {serviceUrl}/v3/conversations/{conversationId}/activities/{activityId}.
func ReplyURL(activity *entity.Activity) (string, error) {
	if activity.ServiceURL == "" || activity.Conversation == nil || activity.Conversation.ID == "" {
		return "", entity.ErrMissingReplyInfo
	}

	base := strings.TrimRight(activity.ServiceURL, "/")
	return fmt.Sprintf("%s/v3/conversations/%s/activities/%s",
		base,
		url.PathEscape(activity.Conversation.ID),
		url.PathEscape(activity.ID),
	), nil
}
