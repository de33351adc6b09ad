package http

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/reshetovitsme/streamboard/internal/modules/board/domain"
	boardService "github.com/reshetovitsme/streamboard/internal/modules/board/service"
	feedService "github.com/reshetovitsme/streamboard/internal/modules/feed/service"
	"github.com/reshetovitsme/streamboard/internal/shared/config"
	"github.com/reshetovitsme/streamboard/internal/shared/errors"
	"github.com/samber/oops"
	sloghttp "github.com/samber/slog-http"
)

var boardTemplate = template.Must(template.New("board").Funcs(sprig.FuncMap()).Parse(boardHTML))

// Server serves the channel board over HTTP
type Server struct {
	cfg          *config.Config
	boardService *boardService.Service
	feedService  *feedService.Service
	logger       *slog.Logger
	server       *http.Server
}

// New creates a new HTTP server
func New(cfg *config.Config, boardService *boardService.Service, feedService *feedService.Service) *Server {
	return &Server{
		cfg:          cfg,
		boardService: boardService,
		feedService:  feedService,
		logger:       slog.Default(),
	}
}

// SetLogger sets the logger
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Handler returns the routed handler wrapped in logging and recovery middleware
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleBoard)
	mux.HandleFunc("GET /api/channels", s.handleChannels)
	mux.HandleFunc("GET /api/channels/{id}", s.handleChannel)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	mux.HandleFunc("GET /rss", s.handleRSSFeed)
	mux.HandleFunc("GET /health", s.handleHealth)

	handler := sloghttp.Recovery(mux)
	return sloghttp.New(s.logger)(handler)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.cfg.HTTPPort)
	s.logger.Info("Board server starting", "addr", addr)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2*s.cfg.Timeout() + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := s.server.ListenAndServe(); err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

type boardPage struct {
	*domain.Board
	Filter  domain.Filter
	Label   string
	Shown   []domain.Entry
	Filters []domain.Filter
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	board, err := s.boardService.Load(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	page := boardPage{
		Board:   board,
		Filter:  filter,
		Label:   filter.Label(),
		Shown:   board.Filter(filter),
		Filters: []domain.Filter{domain.FilterAll, domain.FilterOnline, domain.FilterOffline, domain.FilterNonExistent},
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := boardTemplate.Execute(w, page); err != nil {
		s.logger.Error("Error rendering board", "error", err)
	}
}

type channelsResponse struct {
	Filter domain.Filter `json:"filter"`
	*domain.Board
}

func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	board, err := s.boardService.Load(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	filtered := *board
	filtered.Entries = board.Filter(filter)
	writeJSON(w, http.StatusOK, channelsResponse{Filter: filter, Board: &filtered})
}

func (s *Server) handleChannel(w http.ResponseWriter, r *http.Request) {
	entry, err := s.boardService.Entry(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	board, err := s.boardService.Refresh(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, channelsResponse{Filter: domain.FilterAll, Board: board})
}

func (s *Server) handleRSSFeed(w http.ResponseWriter, r *http.Request) {
	baseURL := fmt.Sprintf("%s://%s", getScheme(r), r.Host)

	feed, err := s.feedService.GenerateFeed(r.Context(), baseURL)
	if err != nil {
		s.writeError(w, err)
		return
	}

	rss, err := feed.ToRss()
	if err != nil {
		s.logger.Error("Error converting feed to RSS", "error", err)
		http.Error(w, "Failed to generate RSS", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=60")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(rss))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok", "loaded": false}
	if board, ok := s.boardService.Current(); ok {
		resp["loaded"] = true
		resp["refresh_state"] = board.State
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case stdErrors.Is(err, errors.ErrInvalidFilter):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case stdErrors.Is(err, errors.ErrChannelNotFound):
		http.Error(w, "Channel not configured", http.StatusNotFound)
	case stdErrors.Is(err, errors.ErrTransportUnavailable):
		s.logger.Error("Streaming API unavailable", "error", err)
		http.Error(w, "Streaming service unavailable", http.StatusBadGateway)
	default:
		s.logger.Error("Request failed", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func parseFilter(r *http.Request) (domain.Filter, error) {
	raw := r.URL.Query().Get("filter")
	if raw == "" {
		return domain.FilterAll, nil
	}
	filter, err := domain.ParseFilter(raw)
	if err != nil {
		return "", oops.With("filter", raw).Wrap(stdErrors.Join(errors.ErrInvalidFilter, err))
	}
	return filter, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
