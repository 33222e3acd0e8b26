package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"tiles/experiments/metrics"
	"tiles/game"
	"tiles/searcher/agent"
)

// RemoteAdvisor asks an advisor server for moves over HTTP.
type RemoteAdvisor struct {
	URL        string
	Client     *http.Client
	Iterations int
	Workers    int
}

// FindMove posts the grid to /bestmove and decodes the recommended move
func (a RemoteAdvisor) FindMove(ctx context.Context, state *game.GameState) (game.Direction, metrics.SearchMetric, error) {
	payload := agent.BestMoveRequest{
		Grid:       state.Grid(),
		Iterations: a.Iterations,
		Workers:    a.Workers,
	}
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return game.Left, metrics.SearchMetric{}, err
	}

	url := strings.TrimRight(a.URL, "/") + "/bestmove"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return game.Left, metrics.SearchMetric{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := a.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return game.Left, metrics.SearchMetric{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		out, _ := io.ReadAll(resp.Body)
		return game.Left, metrics.SearchMetric{}, fmt.Errorf("advisor returned status %d: %s", resp.StatusCode, bytes.TrimSpace(out))
	}

	var out agent.BestMoveResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return game.Left, metrics.SearchMetric{}, fmt.Errorf("decoding advisor response: %w", err)
	}
	move, err := game.ParseDirection(out.Move)
	if err != nil {
		return game.Left, metrics.SearchMetric{}, err
	}
	return move, metrics.SearchMetric{Workers: a.Workers, Iterations: a.Iterations}, nil
}
