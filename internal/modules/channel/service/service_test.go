package service

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/reshetovitsme/streamboard/internal/modules/channel/client"
	"github.com/reshetovitsme/streamboard/internal/modules/channel/domain"
	channelRepo "github.com/reshetovitsme/streamboard/internal/modules/channel/repository"
	"github.com/reshetovitsme/streamboard/internal/shared/config"
	sharedErrors "github.com/reshetovitsme/streamboard/internal/shared/errors"
)

var errRefused = errors.Join(sharedErrors.ErrTransport, errors.New("dial tcp: connection refused"))

// fakeAPI is a Fetcher answering from fixed tables. When hold is set every
// request blocks until its channel id (or "stream:" + id) is released. A
// request whose context is done fails at transport level, like the client.
type fakeAPI struct {
	profiles map[string]*client.Profile
	streams  map[string]*client.StreamStatus
	failures map[string]error

	hold    map[string]chan struct{}
	started chan string

	channelCalls atomic.Int32
	streamCalls  atomic.Int32
	mu           sync.Mutex
	streamIDs    []string
}

func (f *fakeAPI) wait(ctx context.Context, id string) error {
	if f.started != nil {
		f.started <- id
	}
	if gate, ok := f.hold[id]; ok {
		select {
		case <-gate:
		case <-ctx.Done():
		}
	}
	if err := ctx.Err(); err != nil {
		return errors.Join(sharedErrors.ErrTransport, err)
	}
	return nil
}

func (f *fakeAPI) FetchChannel(ctx context.Context, id string) (*client.Profile, error) {
	f.channelCalls.Add(1)
	if err := f.wait(ctx, id); err != nil {
		return nil, err
	}
	if err, ok := f.failures[id]; ok {
		return nil, err
	}
	if p, ok := f.profiles[id]; ok {
		return p, nil
	}
	return nil, &client.StatusError{StatusCode: 422, Message: "Channel '" + id + "' does not exist"}
}

func (f *fakeAPI) FetchStream(ctx context.Context, id string) (*client.StreamStatus, error) {
	f.streamCalls.Add(1)
	f.mu.Lock()
	f.streamIDs = append(f.streamIDs, id)
	f.mu.Unlock()
	if err := f.wait(ctx, "stream:"+id); err != nil {
		return nil, err
	}
	if err, ok := f.failures["stream:"+id]; ok {
		return nil, err
	}
	if s, ok := f.streams[id]; ok {
		return s, nil
	}
	return &client.StreamStatus{}, nil
}

func live(status string) *client.StreamStatus {
	return &client.StreamStatus{Stream: &client.Stream{Channel: client.StreamChannel{Status: status}}}
}

func newService(api Fetcher, channels ...string) *Service {
	s := New(&config.Config{Channels: channels}, api, channelRepo.NewMemoryStorage())
	s.SetClock(func() time.Time { return time.Date(2016, 5, 24, 12, 0, 0, 0, time.UTC) })
	return s
}

func TestResolveExistence(t *testing.T) {
	api := &fakeAPI{
		profiles: map[string]*client.Profile{
			"alpha": {DisplayName: "Alpha", Logo: "http://img/alpha.png", URL: "http://tv/alpha"},
		},
	}
	s := newService(api, "alpha", "bogus")

	rs, err := s.ResolveExistence(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.NewResultSet(
		domain.Record{
			ID:          "alpha",
			Existence:   domain.ExistenceExistent,
			DisplayName: "Alpha",
			LogoURL:     "http://img/alpha.png",
			ProfileURL:  "http://tv/alpha",
			Status:      domain.StatusUnknown,
		},
		domain.Record{ID: "bogus", Existence: domain.ExistenceNonExistent, Status: domain.StatusUnknown},
	)
	if !reflect.DeepEqual(rs, want) {
		t.Errorf("result set = %+v, want %+v", rs.Records(), want.Records())
	}
	if !s.State().ExistenceResolved() {
		t.Error("existence gate not stamped")
	}
	if s.State().StatusResolved() {
		t.Error("status gate stamped by the existence batch")
	}
}

func TestResolveExistenceNeverLeavesUnknown(t *testing.T) {
	api := &fakeAPI{
		profiles: map[string]*client.Profile{"a": {}, "c": {}},
		failures: map[string]error{"d": errRefused, "e": errors.New("boom")},
	}
	channels := []string{"a", "b", "c", "d", "e"}
	s := newService(api, channels...)

	rs, err := s.ResolveExistence(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := rs.IDs(); !reflect.DeepEqual(got, channels) {
		t.Fatalf("ids = %v, want %v", got, channels)
	}
	for _, r := range rs.Records() {
		if r.Existence == domain.ExistenceUnknown {
			t.Errorf("%s left unknown", r.ID)
		}
		if !r.Existent() && (r.DisplayName != "" || r.LogoURL != "" || r.ProfileURL != "") {
			t.Errorf("non existent %s carries profile data: %+v", r.ID, r)
		}
	}
	if d, _ := rs.Get("d"); d.Existence != domain.ExistenceNonExistent {
		t.Errorf("a single transport failure must map to non existent, got %s", d.Existence)
	}
}

func TestResolveExistenceIsOneShot(t *testing.T) {
	api := &fakeAPI{profiles: map[string]*client.Profile{"alpha": {DisplayName: "Alpha"}}}
	s := newService(api, "alpha", "bogus")
	ctx := context.Background()

	first, err := s.ResolveExistence(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.ResolveExistence(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := api.channelCalls.Load(); got != 2 {
		t.Errorf("channel requests = %d, want 2", got)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second result differs: %+v vs %+v", first.Records(), second.Records())
	}
}

func TestResolveExistenceWaitsForEveryChannel(t *testing.T) {
	channels := []string{"a", "b", "c"}
	api := &fakeAPI{
		profiles: map[string]*client.Profile{"a": {}, "c": {}},
		hold:     map[string]chan struct{}{"a": make(chan struct{}), "b": make(chan struct{}), "c": make(chan struct{})},
		started:  make(chan string, len(channels)),
	}
	s := newService(api, channels...)

	done := make(chan error, 1)
	go func() {
		_, err := s.ResolveExistence(context.Background())
		done <- err
	}()

	for range channels {
		<-api.started
	}
	close(api.hold["b"])
	close(api.hold["c"])

	select {
	case <-done:
		t.Fatal("batch completed before every request settled")
	case <-time.After(20 * time.Millisecond):
	}
	if s.ResultSet().Len() != 0 {
		t.Error("records published before the batch settled")
	}

	close(api.hold["a"])
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ResultSet().Len() != 3 {
		t.Errorf("published %d records, want 3", s.ResultSet().Len())
	}
}

func TestResolveExistenceOrderIndependent(t *testing.T) {
	channels := []string{"a", "b", "c", "d"}
	run := func(releaseOrder []string) domain.ResultSet {
		hold := make(map[string]chan struct{})
		for _, id := range channels {
			hold[id] = make(chan struct{})
		}
		api := &fakeAPI{
			profiles: map[string]*client.Profile{"a": {DisplayName: "A"}, "d": {DisplayName: "D"}},
			failures: map[string]error{"c": errRefused},
			hold:     hold,
			started:  make(chan string, len(channels)),
		}
		s := newService(api, channels...)

		done := make(chan domain.ResultSet, 1)
		go func() {
			rs, err := s.ResolveExistence(context.Background())
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			done <- rs
		}()
		for range channels {
			<-api.started
		}
		for _, id := range releaseOrder {
			close(hold[id])
		}
		return <-done
	}

	forward := run([]string{"a", "b", "c", "d"})
	backward := run([]string{"d", "c", "b", "a"})
	shuffled := run([]string{"c", "a", "d", "b"})

	if !reflect.DeepEqual(forward, backward) || !reflect.DeepEqual(forward, shuffled) {
		t.Errorf("results depend on settlement order:\n%+v\n%+v\n%+v", forward.Records(), backward.Records(), shuffled.Records())
	}
}

func TestResolveExistenceTotalTransportFailure(t *testing.T) {
	api := &fakeAPI{failures: map[string]error{"a": errRefused, "b": errRefused}}
	s := newService(api, "a", "b")

	_, err := s.ResolveExistence(context.Background())
	if !errors.Is(err, sharedErrors.ErrTransportUnavailable) {
		t.Fatalf("error = %v, want ErrTransportUnavailable", err)
	}
	if s.State().ExistenceResolved() {
		t.Error("gate stamped after a fatal batch")
	}
	if s.ResultSet().Len() != 0 {
		t.Error("fatal batch published records")
	}

	// The failed batch is retried on the next call
	api.failures = nil
	api.profiles = map[string]*client.Profile{"a": {}}
	if _, err := s.ResolveExistence(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := api.channelCalls.Load(); got != 4 {
		t.Errorf("channel requests = %d, want 4", got)
	}
}

func TestResolveExistenceWithoutFetcher(t *testing.T) {
	s := New(&config.Config{Channels: []string{"a"}}, nil, channelRepo.NewMemoryStorage())

	if _, err := s.ResolveExistence(context.Background()); !errors.Is(err, sharedErrors.ErrTransportUnavailable) {
		t.Errorf("error = %v, want ErrTransportUnavailable", err)
	}
}

func TestConcurrentCallersShareOneBatch(t *testing.T) {
	channels := []string{"a", "b"}
	api := &fakeAPI{
		profiles: map[string]*client.Profile{"a": {}, "b": {}},
		hold:     map[string]chan struct{}{"a": make(chan struct{}), "b": make(chan struct{})},
		started:  make(chan string, 2*len(channels)),
	}
	s := newService(api, channels...)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.ResolveExistence(context.Background()); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	for range channels {
		<-api.started
	}
	close(api.hold["a"])
	close(api.hold["b"])
	wg.Wait()

	if got := api.channelCalls.Load(); got != int32(len(channels)) {
		t.Errorf("channel requests = %d, want %d", got, len(channels))
	}
}

func TestResolveStatus(t *testing.T) {
	api := &fakeAPI{
		profiles: map[string]*client.Profile{"alpha": {DisplayName: "Alpha"}, "sleepy": {}, "flaky": {}},
		streams:  map[string]*client.StreamStatus{"alpha": live("Playing X")},
		failures: map[string]error{"stream:flaky": &client.StatusError{StatusCode: 503}},
	}
	s := newService(api, "alpha", "bogus", "sleepy", "flaky")
	ctx := context.Background()

	if _, err := s.ResolveExistence(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rs, err := s.ResolveStatus(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	alpha, _ := rs.Get("alpha")
	if alpha.Status != domain.StatusOnline || alpha.StatusDescription != "Playing X" {
		t.Errorf("alpha = %+v, want online with description", alpha)
	}
	sleepy, _ := rs.Get("sleepy")
	if sleepy.Status != domain.StatusOffline || sleepy.StatusDescription != "" {
		t.Errorf("sleepy = %+v, want offline", sleepy)
	}
	flaky, _ := rs.Get("flaky")
	if flaky.Status != domain.StatusUnknown {
		t.Errorf("flaky = %+v, want unknown status", flaky)
	}
	bogus, _ := rs.Get("bogus")
	if bogus.Status != domain.StatusUnknown || bogus.StatusDescription != "" {
		t.Errorf("bogus = %+v, non existent must carry no status", bogus)
	}

	for _, id := range api.streamIDs {
		if id == "bogus" {
			t.Error("stream requested for a non existent channel")
		}
	}
	if got := api.streamCalls.Load(); got != 3 {
		t.Errorf("stream requests = %d, want 3", got)
	}

	if _, err := s.ResolveStatus(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := api.streamCalls.Load(); got != 3 {
		t.Errorf("stream requests after cached call = %d, want 3", got)
	}
}

func TestResolveStatusTotalTransportFailure(t *testing.T) {
	api := &fakeAPI{
		profiles: map[string]*client.Profile{"a": {}, "b": {}},
		failures: map[string]error{"stream:a": errRefused, "stream:b": errRefused},
	}
	s := newService(api, "a", "b")
	ctx := context.Background()

	if _, err := s.ResolveExistence(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := s.ResolveStatus(ctx)
	if !errors.Is(err, sharedErrors.ErrTransportUnavailable) {
		t.Fatalf("error = %v, want ErrTransportUnavailable", err)
	}
	if s.State().StatusResolved() {
		t.Error("status gate stamped after a fatal batch")
	}
}

func TestResolveStatusWithNoExistentChannels(t *testing.T) {
	api := &fakeAPI{}
	s := newService(api, "ghost")
	ctx := context.Background()

	if _, err := s.ResolveExistence(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.ResolveStatus(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if api.streamCalls.Load() != 0 {
		t.Error("stream requested without existent channels")
	}
	if !s.State().StatusResolved() {
		t.Error("empty status batch must still complete")
	}
}

func TestInvalidateRefetches(t *testing.T) {
	api := &fakeAPI{
		profiles: map[string]*client.Profile{"alpha": {}},
		streams:  map[string]*client.StreamStatus{"alpha": live("first")},
	}
	s := newService(api, "alpha")
	ctx := context.Background()

	if _, err := s.ResolveExistence(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ResolveStatus(ctx); err != nil {
		t.Fatal(err)
	}

	s.Invalidate()
	if s.State().ExistenceResolved() || s.State().StatusResolved() {
		t.Fatal("gates still set after Invalidate")
	}

	// alpha disappeared meanwhile
	api.profiles = nil
	if _, err := s.ResolveExistence(ctx); err != nil {
		t.Fatal(err)
	}
	rs, err := s.ResolveStatus(ctx)
	if err != nil {
		t.Fatal(err)
	}

	alpha, _ := rs.Get("alpha")
	if alpha.Existence != domain.ExistenceNonExistent || alpha.Status != domain.StatusUnknown || alpha.StatusDescription != "" {
		t.Errorf("alpha = %+v, stale status kept on a non existent channel", alpha)
	}
	if got := api.channelCalls.Load(); got != 2 {
		t.Errorf("channel requests = %d, want 2", got)
	}
}

func TestInvalidateDuringStatusBatch(t *testing.T) {
	api := &fakeAPI{
		profiles: map[string]*client.Profile{"alpha": {DisplayName: "Alpha"}},
		streams:  map[string]*client.StreamStatus{"alpha": live("Playing X")},
		hold:     map[string]chan struct{}{"stream:alpha": make(chan struct{})},
		started:  make(chan string, 8),
	}
	s := newService(api, "alpha")
	ctx := context.Background()

	if _, err := s.ResolveExistence(ctx); err != nil {
		t.Fatal(err)
	}
	<-api.started

	done := make(chan error, 1)
	go func() {
		_, err := s.ResolveStatus(ctx)
		done <- err
	}()
	<-api.started

	// a refresh lands while the status batch is still running
	s.Invalidate()
	close(api.hold["stream:alpha"])
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.State().StatusResolved() {
		t.Fatal("superseded status batch stamped its gate")
	}

	if _, err := s.ResolveExistence(ctx); err != nil {
		t.Fatal(err)
	}
	rs, err := s.ResolveStatus(ctx)
	if err != nil {
		t.Fatal(err)
	}

	alpha, _ := rs.Get("alpha")
	if alpha.Status != domain.StatusOnline || alpha.StatusDescription != "Playing X" {
		t.Errorf("alpha = %+v, want online after the refresh", alpha)
	}
	if got := api.streamCalls.Load(); got != 2 {
		t.Errorf("stream requests = %d, want 2", got)
	}
}

func TestCancelledCallerDoesNotFailSharedBatch(t *testing.T) {
	channels := []string{"a", "b"}
	api := &fakeAPI{
		profiles: map[string]*client.Profile{"a": {}, "b": {}},
		hold:     map[string]chan struct{}{"a": make(chan struct{}), "b": make(chan struct{})},
		started:  make(chan string, 2*len(channels)),
	}
	s := newService(api, channels...)

	leaving, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := s.ResolveExistence(leaving)
		first <- err
	}()
	for range channels {
		<-api.started
	}

	second := make(chan error, 1)
	go func() {
		_, err := s.ResolveExistence(context.Background())
		second <- err
	}()

	cancel()
	select {
	case err := <-first:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("cancelled caller error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("cancelled caller kept waiting for the batch")
	}

	close(api.hold["a"])
	close(api.hold["b"])
	if err := <-second; err != nil {
		t.Fatalf("remaining caller failed: %v", err)
	}

	rs := s.ResultSet()
	for _, id := range channels {
		if r, _ := rs.Get(id); !r.Existent() {
			t.Errorf("%s = %+v, want existent", id, r)
		}
	}
	if got := api.channelCalls.Load(); got != int32(len(channels)) {
		t.Errorf("channel requests = %d, want %d", got, len(channels))
	}
}
