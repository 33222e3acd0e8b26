package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"tiles/experiments/metrics"
	"tiles/game"
	"tiles/searcher"
)

func post(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/bestmove", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := NewServer(searcher.NewScheduler(searcher.WithMaxWorkers(4)), 40, 1)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestBestMove(t *testing.T) {
	t.Run("returns the winning move", func(t *testing.T) {
		run := func(ctx context.Context, req searcher.BatchRequest, m metrics.Collector) (uint64, error) {
			if req.First == game.Down {
				return 100, nil
			}
			return 1, nil
		}
		s := NewServer(searcher.NewScheduler(searcher.WithMaxWorkers(8), searcher.WithRunner(run)), 40, 1)

		rec := post(t, s, `{"grid":[[2,2,0,0],[0,0,0,0],[0,0,0,0],[0,0,0,4]],"iterations":80,"workers":2}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp BestMoveResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "down", resp.Move)
		require.Equal(t, 3, resp.Index)
		require.Equal(t, [game.NumDirections]uint64{2, 2, 2, 200}, resp.Scores)
		require.NotEmpty(t, resp.Task)
	})

	t.Run("uses defaults for missing budget", func(t *testing.T) {
		var mu sync.Mutex
		var budgets []int
		run := func(ctx context.Context, req searcher.BatchRequest, m metrics.Collector) (uint64, error) {
			mu.Lock()
			defer mu.Unlock()
			budgets = append(budgets, req.Iterations)
			return 0, nil
		}
		s := NewServer(searcher.NewScheduler(searcher.WithMaxWorkers(4), searcher.WithRunner(run)), 40, 1)

		rec := post(t, s, `{"grid":[[2,0,0,0]]}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.Len(t, budgets, 4, "One batch per move with the default worker count")
		require.Equal(t, 10, budgets[0], "Default budget 40 split over 4 moves")
	})

	cases := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed body", `{"grid":`, http.StatusBadRequest},
		{"negative budget", `{"grid":[[2]],"iterations":-5}`, http.StatusBadRequest},
		{"tile too large", `{"grid":[[65536]]}`, http.StatusUnprocessableEntity},
		{"more batches than units", `{"grid":[[2]],"workers":3}`, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewServer(searcher.NewScheduler(searcher.WithMaxWorkers(4), searcher.WithSeed(1)), 40, 1)
			rec := post(t, s, tc.body)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.NotEmpty(t, resp.Error)
		})
	}

	t.Run("fault maps to server error", func(t *testing.T) {
		run := func(ctx context.Context, req searcher.BatchRequest, m metrics.Collector) (uint64, error) {
			panic("crashed")
		}
		s := NewServer(searcher.NewScheduler(searcher.WithMaxWorkers(4), searcher.WithRunner(run)), 40, 1)
		rec := post(t, s, `{"grid":[[2]]}`)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
