package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mwalczyk-dev/ragbot-backend/internal/entity"
	"github.com/stretchr/testify/require"
)

type fakeUsecase struct {
	mu            sync.Mutex
	authenticated bool
	processed     chan *entity.Activity

	lastToken string
}

func newFakeUsecase(authenticated bool) *fakeUsecase {
	return &fakeUsecase{
		authenticated: authenticated,
		processed:     make(chan *entity.Activity, 1),
	}
}

func (f *fakeUsecase) Authenticate(_ context.Context, token string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastToken = token
	return f.authenticated
}

func (f *fakeUsecase) Process(_ context.Context, activity *entity.Activity) error {
	f.processed <- activity
	return nil
}

func activityBody(t *testing.T) string {
	t.Helper()

	body, err := json.Marshal(entity.Activity{
		Type:         entity.ActivityTypeMessage,
		ID:           "42",
		ServiceURL:   "https://smba.example.com",
		From:         &entity.ChannelAccount{ID: "A"},
		Recipient:    &entity.ChannelAccount{ID: "B"},
		Conversation: &entity.ConversationAccount{ID: "C"},
		Text:         "What ingredients for soup?",
	})
	require.NoError(t, err)
	return string(body)
}

func postMessages(handler *Handler, body, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/messages", strings.NewReader(body))
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	rec := httptest.NewRecorder()
	handler.Messages(rec, req)
	return rec
}

func TestMessagesAcceptsAndProcessesAsync(t *testing.T) {
	usecase := newFakeUsecase(true)
	handler := NewHandler(usecase)

	rec := postMessages(handler, activityBody(t), "Bearer inbound-token")

	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "accepted", resp["status"])

	select {
	case activity := <-usecase.processed:
		require.Equal(t, "42", activity.ID)
		require.Equal(t, "What ingredients for soup?", activity.Text)
	case <-time.After(time.Second):
		t.Fatal("pipeline was never started")
	}

	require.Equal(t, "inbound-token", usecase.lastToken)
}

func TestMessagesRejectsMalformedBody(t *testing.T) {
	usecase := newFakeUsecase(true)
	handler := NewHandler(usecase)

	rec := postMessages(handler, "{not json", "Bearer inbound-token")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, usecase.processed)
}

func TestMessagesRejectsInvalidToken(t *testing.T) {
	usecase := newFakeUsecase(false)
	handler := NewHandler(usecase)

	rec := postMessages(handler, activityBody(t), "Bearer bad-token")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, usecase.processed)
}

func TestMessagesRejectsMissingAuthorizationHeader(t *testing.T) {
	usecase := newFakeUsecase(true)
	handler := NewHandler(usecase)

	rec := postMessages(handler, activityBody(t), "")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, usecase.processed)
	// Authenticate is never consulted without a bearer token.
	require.Empty(t, usecase.lastToken)
}

func TestMessagesRejectsNonBearerScheme(t *testing.T) {
	usecase := newFakeUsecase(true)
	handler := NewHandler(usecase)

	rec := postMessages(handler, activityBody(t), "Basic dXNlcjpwYXNz")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, usecase.processed)
}
