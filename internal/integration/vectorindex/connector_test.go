package vectorindex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mwalczyk-dev/ragbot-backend/internal/config"
	"github.com/mwalczyk-dev/ragbot-backend/internal/entity"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newConnectorFor(srvURL string) *Connector {
	cfg := config.VectorIndexConnectorConfig{
		QueryEndpoint: "/api/query",
		Table:         "recipes",
	}
	cfg.Url = srvURL
	return NewConnector(cfg, zap.NewNop())
}

func TestNearestOneReturnsTopMatch(t *testing.T) {
	var gotReq entity.VectorQueryRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/query", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(entity.VectorQueryResponse{
			Matches: []entity.VectorMatch{{Item: "Soup needs carrots and onions.", Distance: 0.12}},
		})
	}))
	defer srv.Close()

	connector := newConnectorFor(srv.URL)

	got, err := connector.NearestOne(context.Background(), []float32{0.1, 0.2, 0.3})
	require.NoError(t, err)
	require.Equal(t, "Soup needs carrots and onions.", got.Text)

	// Always a top-1 query against the configured table.
	require.Equal(t, 1, gotReq.Limit)
	require.Equal(t, "recipes", gotReq.Table)
	require.Equal(t, []float32{0.1, 0.2, 0.3}, gotReq.Vector)
}

func TestNearestOneEmptyIndexIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"matches":[]}`))
	}))
	defer srv.Close()

	connector := newConnectorFor(srv.URL)

	_, err := connector.NearestOne(context.Background(), []float32{0.1})
	require.ErrorIs(t, err, entity.ErrContextNotFound)
}

func TestNearestOnePropagatesIndexFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	connector := newConnectorFor(srv.URL)

	_, err := connector.NearestOne(context.Background(), []float32{0.1})
	require.Error(t, err)
	require.NotErrorIs(t, err, entity.ErrContextNotFound)
}
