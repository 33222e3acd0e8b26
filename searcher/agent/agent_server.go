package agent

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"tiles/game"
	"tiles/searcher"
)

// Server exposes a scheduler over HTTP.
type Server struct {
	r          *chi.Mux
	scheduler  *searcher.Scheduler
	iterations int
	workers    int
}

func NewServer(scheduler *searcher.Scheduler, iterations, workers int) *Server {
	s := &Server{
		r:          chi.NewRouter(),
		scheduler:  scheduler,
		iterations: iterations,
		workers:    workers,
	}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(requestLogger)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(60 * time.Second))

	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Post("/bestmove", s.handleBestMove)

	return s
}

// Start serves HTTP on addr.
func (s *Server) Start(addr string) error {
	log.Info().Str("addr", addr).Msg("starting advisor server")
	return http.ListenAndServe(addr, s.r)
}

func (s *Server) Router() chi.Router { return s.r }

func (s *Server) handleBestMove(w http.ResponseWriter, r *http.Request) {
	var req BestMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request: "+err.Error())
		return
	}
	if req.Iterations == 0 {
		req.Iterations = s.iterations
	}
	if req.Workers == 0 {
		req.Workers = s.workers
	}

	// The request state never spawns tiles, the source only satisfies the constructor.
	state := game.NewGameStateFromGrid(req.Grid, rand.New(rand.NewSource(0)))
	result, err := s.scheduler.Search(r.Context(), state, req.Iterations, req.Workers)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, BestMoveResponse{
		Move:   result.Move.String(),
		Index:  int(result.Move),
		Scores: result.Scores,
		Task:   result.TaskID,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, searcher.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrEncodingOverflow):
		return http.StatusUnprocessableEntity
	case errors.Is(err, searcher.ErrPoolExhausted):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// requestLogger logs one line per request with zerolog.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Str("request_id", chimw.GetReqID(r.Context())).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}
