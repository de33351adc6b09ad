package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/reshetovitsme/streamboard/internal/modules/board/domain"
	channelDomain "github.com/reshetovitsme/streamboard/internal/modules/channel/domain"
	"github.com/samber/oops"
)

// Aggregator resolves the channel records shown on the board
type Aggregator interface {
	ResolveExistence(ctx context.Context) (channelDomain.ResultSet, error)
	ResolveStatus(ctx context.Context) (channelDomain.ResultSet, error)
	Channel(channelID string) (channelDomain.Record, error)
	State() channelDomain.RefreshState
	Invalidate()
}

// Service sequences the aggregation batches and keeps the last rendered board
type Service struct {
	aggregator Aggregator
	logger     *slog.Logger
	now        func() time.Time
	board      *domain.Board
	mu         sync.RWMutex
}

// New creates a new board service
func New(aggregator Aggregator) *Service {
	return &Service{
		aggregator: aggregator,
		logger:     slog.Default(),
		now:        time.Now,
	}
}

// SetLogger sets the logger
func (s *Service) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Load resolves existence, then status of the existing channels, then
// renders the result. Both batches are one-shot, so once they completed
// Load only re-renders the cached records.
func (s *Service) Load(ctx context.Context) (*domain.Board, error) {
	if _, err := s.aggregator.ResolveExistence(ctx); err != nil {
		return nil, oops.In("board").With("stage", "existence").Wrap(err)
	}

	rs, err := s.aggregator.ResolveStatus(ctx)
	if err != nil {
		return nil, oops.In("board").With("stage", "status").Wrap(err)
	}

	board := domain.NewBoard(rs, s.aggregator.State(), s.now())

	s.mu.Lock()
	s.board = board
	s.mu.Unlock()

	return board, nil
}

// Entry loads the board and returns the row of one configured channel
func (s *Service) Entry(ctx context.Context, channelID string) (domain.Entry, error) {
	if _, err := s.Load(ctx); err != nil {
		return domain.Entry{}, err
	}
	record, err := s.aggregator.Channel(channelID)
	if err != nil {
		return domain.Entry{}, oops.In("board").With("channel_id", channelID).Wrap(err)
	}
	return domain.NewEntry(record), nil
}

// Refresh drops the cached batches and loads the board again
func (s *Service) Refresh(ctx context.Context) (*domain.Board, error) {
	s.aggregator.Invalidate()
	board, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Board refreshed",
		"channels", len(board.Entries),
		"online", board.Count(domain.FilterOnline),
		"non_existent", board.Count(domain.FilterNonExistent),
	)
	return board, nil
}

// Current returns the last rendered board, if any
func (s *Service) Current() (*domain.Board, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board, s.board != nil
}
