package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/mwalczyk-dev/ragbot-backend/internal/entity"
	"github.com/mwalczyk-dev/ragbot-backend/internal/pkg/logger"
	"github.com/mwalczyk-dev/ragbot-backend/internal/pkg/response"
	"go.uber.org/zap"
)

type Handler struct {
	usecase ChatUsecase
}

func NewHandler(usecase ChatUsecase) *Handler {
	return &Handler{
		usecase: usecase,
	}
}

// Messages handles POST /api/messages - an activity pushed by the channel.
// The response only reports whether the message was accepted; the answer
// itself is delivered back into the conversation asynchronously.
func (h *Handler) Messages(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Messages")

	var activity entity.Activity
	if err := json.NewDecoder(r.Body).Decode(&activity); err != nil {
		ctxzap.Error(ctx, "failed to decode activity", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid activity payload")
		return
	}

	token := bearerToken(r)
	if token == "" || !h.usecase.Authenticate(ctx, token) {
		ctxzap.Warn(ctx, "rejected unauthenticated activity",
			zap.String("activity_id", activity.ID),
			zap.String("channel_id", activity.ChannelID),
		)
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctxzap.Info(ctx, "activity accepted",
		zap.String("activity_id", activity.ID),
		zap.String("conversation_id", conversationID(&activity)),
	)

	// The pipeline outlives the inbound connection: the reply travels over
	// a side channel, so cancellation is detached and only the logger and
	// a fresh correlation id come along.
	pipelineCtx := logger.AddFields(context.WithoutCancel(ctx),
		zap.String("pipeline_id", uuid.NewString()),
		zap.String("action", "Messages-async"),
	)

	go func() {
		if err := h.usecase.Process(pipelineCtx, &activity); err != nil {
			ctxzap.Error(pipelineCtx, "chat pipeline failed", zap.Error(err))
			return
		}
		ctxzap.Info(pipelineCtx, "chat pipeline completed")
	}()

	response.JSON(w, http.StatusAccepted, map[string]string{
		"status": "accepted",
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func conversationID(activity *entity.Activity) string {
	if activity.Conversation == nil {
		return ""
	}
	return activity.Conversation.ID
}
