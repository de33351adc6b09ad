package repository

import (
	"sync"

	"github.com/reshetovitsme/streamboard/internal/modules/channel/domain"
	"github.com/reshetovitsme/streamboard/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// MemoryStorage implements channel.Repository in process memory
type MemoryStorage struct {
	order   []string
	records map[string]domain.Record
	mu      sync.RWMutex
}

// NewMemoryStorage creates an empty in-memory channel repository
func NewMemoryStorage() Repository {
	return &MemoryStorage{
		records: make(map[string]domain.Record),
	}
}

func (s *MemoryStorage) SaveAll(records []domain.Record) error {
	unique := lo.UniqBy(records, func(r domain.Record) string { return r.ID })
	if len(unique) != len(records) {
		return oops.In("channel-repository").With("count", len(records)).Errorf("duplicate channel id in batch")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		if _, ok := s.records[r.ID]; !ok {
			s.order = append(s.order, r.ID)
		}
		s.records[r.ID] = r
	}
	return nil
}

func (s *MemoryStorage) GetChannel(channelID string) (domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[channelID]
	if !ok {
		return domain.Record{}, oops.With("channel_id", channelID).Wrap(errors.ErrChannelNotFound)
	}
	return r, nil
}

func (s *MemoryStorage) Snapshot() domain.ResultSet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.NewResultSet(lo.Map(s.order, func(id string, _ int) domain.Record {
		return s.records[id]
	})...)
}
