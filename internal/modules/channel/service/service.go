package service

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/reshetovitsme/streamboard/internal/modules/channel/client"
	"github.com/reshetovitsme/streamboard/internal/modules/channel/domain"
	channelRepo "github.com/reshetovitsme/streamboard/internal/modules/channel/repository"
	"github.com/reshetovitsme/streamboard/internal/shared/config"
	"github.com/reshetovitsme/streamboard/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
	"golang.org/x/sync/singleflight"
)

const (
	batchExistence = "existence"
	batchStatus    = "status"
)

// Fetcher is the streaming API as seen by the aggregator
type Fetcher interface {
	FetchChannel(ctx context.Context, channelID string) (*client.Profile, error)
	FetchStream(ctx context.Context, channelID string) (*client.StreamStatus, error)
}

// Service aggregates existence and live status of the configured channels.
// Each refresh fans out one request per channel, waits for every request to
// settle and only then publishes the whole batch to the repository.
type Service struct {
	channels    []string
	fetcher     Fetcher
	channelRepo channelRepo.Repository
	logger      *slog.Logger
	now         func() time.Time
	state       domain.RefreshState
	generation  uint64
	mu          sync.RWMutex
	batches     singleflight.Group
}

// New creates a new channel aggregator
func New(cfg *config.Config, fetcher Fetcher, channelRepo channelRepo.Repository) *Service {
	return &Service{
		channels:    lo.Uniq(cfg.Channels),
		fetcher:     fetcher,
		channelRepo: channelRepo,
		logger:      slog.Default(),
		now:         time.Now,
	}
}

// SetLogger sets the logger
func (s *Service) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// SetClock replaces the time source used to stamp refreshes
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Channel returns the published record of one configured channel
func (s *Service) Channel(channelID string) (domain.Record, error) {
	record, err := s.channelRepo.GetChannel(channelID)
	if err != nil {
		return domain.Record{}, oops.In("channel-aggregator").Wrap(err)
	}
	return record, nil
}

// State returns the refresh gates
func (s *Service) State() domain.RefreshState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// ResultSet returns the records published so far
func (s *Service) ResultSet() domain.ResultSet {
	return s.channelRepo.Snapshot()
}

// Invalidate clears both refresh gates so the next resolve calls fetch again.
// Published records stay readable until the next batch replaces them. Batches
// still in flight are discarded when they settle.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = domain.RefreshState{}
	s.generation++
}

func (s *Service) snapshotState() (domain.RefreshState, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.generation
}

// ResolveExistence checks every configured channel against the API. Once a
// batch completed, later calls return the published records without any
// request until Invalidate is called.
func (s *Service) ResolveExistence(ctx context.Context) (domain.ResultSet, error) {
	if err := s.resolveOnce(ctx, batchExistence, domain.RefreshState.ExistenceResolved, s.fetchExistence); err != nil {
		return domain.ResultSet{}, err
	}
	return s.channelRepo.Snapshot(), nil
}

// ResolveStatus fetches the live status of every channel that resolved as
// existent. Non existent channels get no request.
func (s *Service) ResolveStatus(ctx context.Context) (domain.ResultSet, error) {
	if err := s.resolveOnce(ctx, batchStatus, domain.RefreshState.StatusResolved, s.fetchStatus); err != nil {
		return domain.ResultSet{}, err
	}
	return s.channelRepo.Snapshot(), nil
}

type batchFunc func(ctx context.Context, generation uint64) error

// resolveOnce runs fetch unless the gate is already set. Concurrent callers
// share a single in-flight batch per generation. The batch is detached from
// the caller's cancellation, so a caller that gives up only stops waiting.
func (s *Service) resolveOnce(ctx context.Context, batch string, resolved func(domain.RefreshState) bool, fetch batchFunc) error {
	state, generation := s.snapshotState()
	if resolved(state) {
		return nil
	}

	detached := context.WithoutCancel(ctx)
	flight := s.batches.DoChan(fmt.Sprintf("%s/%d", batch, generation), func() (any, error) {
		if state, current := s.snapshotState(); resolved(state) || current != generation {
			return nil, nil
		}
		return nil, fetch(detached, generation)
	})

	select {
	case res := <-flight:
		return res.Err
	case <-ctx.Done():
		return oops.In("channel-aggregator").With("batch", batch).Wrap(ctx.Err())
	}
}

// publish commits a settled batch and stamps its gate, unless the batch was
// superseded by Invalidate while it ran
func (s *Service) publish(batch string, generation uint64, records []domain.Record, stamp func(*domain.RefreshState, time.Time)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation {
		s.logger.Debug("Discarding superseded batch", "batch", batch, "generation", generation)
		return false, nil
	}
	if err := s.channelRepo.SaveAll(records); err != nil {
		return false, oops.In("channel-aggregator").With("batch", batch).Wrap(err)
	}
	stamp(&s.state, s.now())
	return true, nil
}

type existenceOutcome struct {
	profile *client.Profile
	err     error
}

func (s *Service) fetchExistence(ctx context.Context, generation uint64) error {
	if s.fetcher == nil {
		return oops.In("channel-aggregator").With("batch", batchExistence).Wrap(errors.ErrTransportUnavailable)
	}

	outcomes := make([]existenceOutcome, len(s.channels))
	var wg sync.WaitGroup
	for i, channelID := range s.channels {
		wg.Add(1)
		go func(idx int, id string) {
			defer wg.Done()
			profile, err := s.fetcher.FetchChannel(ctx, id)
			outcomes[idx] = existenceOutcome{profile: profile, err: err}
		}(i, channelID)
	}
	wg.Wait()

	errs := lo.Map(outcomes, func(o existenceOutcome, _ int) error { return o.err })
	if allTransportFailures(errs) {
		return oops.In("channel-aggregator").
			With("batch", batchExistence, "channels", len(s.channels)).
			Wrap(stdErrors.Join(errors.ErrTransportUnavailable, errs[0]))
	}

	records := lo.Map(outcomes, func(o existenceOutcome, idx int) domain.Record {
		id := s.channels[idx]
		record := domain.NewRecord(id)
		if o.err != nil || o.profile == nil {
			s.logger.Debug("Channel does not exist", "channel_id", id, "error", o.err)
			record.Existence = domain.ExistenceNonExistent
			return record
		}
		record.Existence = domain.ExistenceExistent
		record.DisplayName = o.profile.DisplayName
		record.LogoURL = o.profile.Logo
		record.ProfileURL = o.profile.URL
		return record
	})

	// fresh records carry no status, so the status gate has to go too
	published, err := s.publish(batchExistence, generation, records, func(state *domain.RefreshState, now time.Time) {
		state.LastExistenceRefresh = now
		state.LastStatusRefresh = time.Time{}
	})
	if err != nil || !published {
		return err
	}
	s.logger.Info("Channel existence resolved",
		"channels", len(records),
		"existent", lo.CountBy(records, domain.Record.Existent),
	)
	return nil
}

type statusOutcome struct {
	status *client.StreamStatus
	err    error
}

func (s *Service) fetchStatus(ctx context.Context, generation uint64) error {
	if state, _ := s.snapshotState(); !state.ExistenceResolved() {
		s.logger.Debug("Skipping status batch, existence not resolved")
		return nil
	}

	existent := s.channelRepo.Snapshot().Existent()
	if len(existent) > 0 && s.fetcher == nil {
		return oops.In("channel-aggregator").With("batch", batchStatus).Wrap(errors.ErrTransportUnavailable)
	}

	outcomes := make([]statusOutcome, len(existent))
	var wg sync.WaitGroup
	for i, record := range existent {
		wg.Add(1)
		go func(idx int, id string) {
			defer wg.Done()
			status, err := s.fetcher.FetchStream(ctx, id)
			outcomes[idx] = statusOutcome{status: status, err: err}
		}(i, record.ID)
	}
	wg.Wait()

	errs := lo.Map(outcomes, func(o statusOutcome, _ int) error { return o.err })
	if allTransportFailures(errs) {
		return oops.In("channel-aggregator").
			With("batch", batchStatus, "channels", len(existent)).
			Wrap(stdErrors.Join(errors.ErrTransportUnavailable, errs[0]))
	}

	records := lo.Map(outcomes, func(o statusOutcome, idx int) domain.Record {
		record := existent[idx]
		record.StatusDescription = ""
		switch {
		case o.err != nil || o.status == nil:
			s.logger.Warn("Failed to fetch stream status", "channel_id", record.ID, "error", o.err)
			record.Status = domain.StatusUnknown
		case o.status.Live():
			record.Status = domain.StatusOnline
			record.StatusDescription = o.status.Stream.Channel.Status
		default:
			record.Status = domain.StatusOffline
		}
		return record
	})

	published, err := s.publish(batchStatus, generation, records, func(state *domain.RefreshState, now time.Time) {
		state.LastStatusRefresh = now
	})
	if err != nil || !published {
		return err
	}
	s.logger.Info("Channel status resolved",
		"requested", len(records),
		"online", lo.CountBy(records, domain.Record.Online),
	)
	return nil
}

// allTransportFailures is true when a non empty batch got no answer at all
func allTransportFailures(errs []error) bool {
	return len(errs) > 0 && lo.EveryBy(errs, client.IsTransportError)
}
