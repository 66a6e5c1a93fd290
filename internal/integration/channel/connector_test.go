package channel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mwalczyk-dev/ragbot-backend/internal/config"
	"github.com/mwalczyk-dev/ragbot-backend/internal/entity"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func incomingActivity(serviceURL string) *entity.Activity {
	return &entity.Activity{
		Type:         entity.ActivityTypeMessage,
		ID:           "42",
		ServiceURL:   serviceURL,
		From:         &entity.ChannelAccount{ID: "A", Name: "user"},
		Recipient:    &entity.ChannelAccount{ID: "B", Name: "bot"},
		Conversation: &entity.ConversationAccount{ID: "C"},
		Text:         "What ingredients for soup?",
	}
}

func outboundToken() *entity.AuthToken {
	return &entity.AuthToken{
		AccessToken: "outbound-token",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

func TestSendPostsReplyToConversationEndpoint(t *testing.T) {
	var gotPath, gotAuth string
	var gotReply entity.Activity

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReply))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	connector := NewConnector(config.ChannelConnectorConfig{}, zap.NewNop())

	err := connector.Send(context.Background(), incomingActivity(srv.URL), outboundToken(), "Carrots and onions.")
	require.NoError(t, err)

	require.Equal(t, "/v3/conversations/C/activities/42", gotPath)
	require.Equal(t, "Bearer outbound-token", gotAuth)

	// from and recipient are swapped, the reply points at the original.
	require.Equal(t, entity.ActivityTypeMessage, gotReply.Type)
	require.Equal(t, "B", gotReply.From.ID)
	require.Equal(t, "A", gotReply.Recipient.ID)
	require.Equal(t, "C", gotReply.Conversation.ID)
	require.Equal(t, "42", gotReply.ReplyToID)
	require.Equal(t, "Carrots and onions.", gotReply.Text)
}

func TestSendNormalizesTrailingSlash(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	connector := NewConnector(config.ChannelConnectorConfig{}, zap.NewNop())

	// Channels commonly send serviceUrl with a trailing slash.
	err := connector.Send(context.Background(), incomingActivity(srv.URL+"/"), outboundToken(), "answer")
	require.NoError(t, err)
	require.Equal(t, "/v3/conversations/C/activities/42", gotPath)
}

func TestSendReportsHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	connector := NewConnector(config.ChannelConnectorConfig{}, zap.NewNop())

	err := connector.Send(context.Background(), incomingActivity(srv.URL), outboundToken(), "answer")
	require.Error(t, err)
}

func TestReplyURLRequiresConversationAndServiceURL(t *testing.T) {
	activity := incomingActivity("https://smba.example.com")
	activity.Conversation = nil

	_, err := ReplyURL(activity)
	require.ErrorIs(t, err, entity.ErrMissingReplyInfo)

	activity = incomingActivity("")
	_, err = ReplyURL(activity)
	require.ErrorIs(t, err, entity.ErrMissingReplyInfo)
}

func TestOriginalActivityIsNotMutated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	connector := NewConnector(config.ChannelConnectorConfig{}, zap.NewNop())

	activity := incomingActivity(srv.URL)
	require.NoError(t, connector.Send(context.Background(), activity, outboundToken(), "answer"))

	require.Equal(t, "A", activity.From.ID)
	require.Equal(t, "B", activity.Recipient.ID)
	require.Equal(t, "What ingredients for soup?", activity.Text)
	require.Empty(t, activity.ReplyToID)
}
