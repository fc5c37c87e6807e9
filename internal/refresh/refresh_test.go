package refresh_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhannywi/surfwax-iss/internal/domain"
	"github.com/dhannywi/surfwax-iss/internal/observability"
	"github.com/dhannywi/surfwax-iss/internal/refresh"
	"github.com/dhannywi/surfwax-iss/internal/store"
)

const testSourceURL = "https://example.com/ISS.OEM_J2K_EPH.xml"

type mockFetcher struct {
	mu    sync.Mutex
	data  []byte
	err   error
	calls int
}

func (m *mockFetcher) Fetch(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.data, nil
}

func (m *mockFetcher) SourceURL() string { return testSourceURL }

func (m *mockFetcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockFetcher) set(data []byte, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	m.err = err
}

type mockAnnouncer struct {
	mu    sync.Mutex
	err   error
	calls int
	last  *domain.Dataset
}

func (m *mockAnnouncer) AnnounceRefresh(_ context.Context, ds *domain.Dataset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.last = ds
	return m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadOEMFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "data", "mock", "iss_oem_sample.xml"))
	require.NoError(t, err)
	return data
}

func newService(st *store.Store, fetcher refresh.Fetcher, announcer refresh.Announcer, interval time.Duration) *refresh.Service {
	return refresh.New(st, fetcher, announcer, discardLogger(), observability.NewMetricsForTesting(), interval)
}

func TestReload_InstallsDataset(t *testing.T) {
	st := store.New()
	fetcher := &mockFetcher{data: loadOEMFixture(t)}
	announcer := &mockAnnouncer{}
	svc := newService(st, fetcher, announcer, 0)

	ds, err := svc.Reload(context.Background())
	require.NoError(t, err)

	require.Len(t, ds.StateVectors, 8)
	assert.Equal(t, testSourceURL, ds.Source)
	assert.False(t, ds.FetchedAt.IsZero())

	stored, err := st.Snapshot()
	require.NoError(t, err)
	assert.Same(t, ds, stored)

	assert.Equal(t, 1, announcer.calls)
	assert.Same(t, ds, announcer.last)
}

func TestReload_FetchErrorKeepsPriorDataset(t *testing.T) {
	st := store.New()
	fetcher := &mockFetcher{data: loadOEMFixture(t)}
	svc := newService(st, fetcher, nil, 0)

	prior, err := svc.Reload(context.Background())
	require.NoError(t, err)

	fetcher.set(nil, errors.New("connection refused"))

	_, err = svc.Reload(context.Background())
	require.ErrorIs(t, err, domain.ErrUpstream)
	assert.Contains(t, err.Error(), "connection refused")

	stored, err := st.Snapshot()
	require.NoError(t, err)
	assert.Same(t, prior, stored)
}

func TestReload_ParseErrorKeepsPriorDataset(t *testing.T) {
	st := store.New()
	fetcher := &mockFetcher{data: loadOEMFixture(t)}
	svc := newService(st, fetcher, nil, 0)

	prior, err := svc.Reload(context.Background())
	require.NoError(t, err)

	fetcher.set([]byte("<html>503 Service Unavailable</html>"), nil)

	_, err = svc.Reload(context.Background())
	require.ErrorIs(t, err, domain.ErrParse)

	stored, err := st.Snapshot()
	require.NoError(t, err)
	assert.Same(t, prior, stored)
}

func TestReload_FailureLeavesEmptyStoreEmpty(t *testing.T) {
	st := store.New()
	fetcher := &mockFetcher{err: errors.New("dns failure")}
	svc := newService(st, fetcher, nil, 0)

	_, err := svc.Reload(context.Background())
	require.ErrorIs(t, err, domain.ErrUpstream)
	assert.False(t, st.Loaded())
}

func TestReload_AnnouncerFailureDoesNotFailReload(t *testing.T) {
	st := store.New()
	fetcher := &mockFetcher{data: loadOEMFixture(t)}
	announcer := &mockAnnouncer{err: errors.New("broker unreachable")}
	svc := newService(st, fetcher, announcer, 0)

	_, err := svc.Reload(context.Background())
	require.NoError(t, err)
	assert.True(t, st.Loaded())
	assert.Equal(t, 1, announcer.calls)
}

func TestReload_NilAnnouncer(t *testing.T) {
	st := store.New()
	svc := newService(st, &mockFetcher{data: loadOEMFixture(t)}, nil, 0)

	_, err := svc.Reload(context.Background())
	require.NoError(t, err)
}

func TestCheckReadiness(t *testing.T) {
	st := store.New()
	svc := newService(st, &mockFetcher{data: loadOEMFixture(t)}, nil, 0)

	require.Error(t, svc.CheckReadiness(context.Background()))

	_, err := svc.Reload(context.Background())
	require.NoError(t, err)
	require.NoError(t, svc.CheckReadiness(context.Background()))
}

func TestRun_DisabledWithoutInterval(t *testing.T) {
	st := store.New()
	fetcher := &mockFetcher{data: loadOEMFixture(t)}
	svc := newService(st, fetcher, nil, 0)

	require.NoError(t, svc.Run(context.Background()))
	assert.Equal(t, 0, fetcher.callCount())
}

func TestRun_ReloadsOnCadence(t *testing.T) {
	st := store.New()
	fetcher := &mockFetcher{data: loadOEMFixture(t)}
	svc := newService(st, fetcher, nil, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	require.NoError(t, svc.Run(ctx))

	assert.GreaterOrEqual(t, fetcher.callCount(), 2)
	assert.True(t, st.Loaded())
}

func TestRun_BacksOffAfterFailure(t *testing.T) {
	st := store.New()
	fetcher := &mockFetcher{err: errors.New("feed down")}
	svc := newService(st, fetcher, nil, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()

	require.NoError(t, svc.Run(ctx))

	// The first attempt fails ~10ms in; backoff then holds the next try a
	// full second out, past the context deadline.
	assert.Equal(t, 1, fetcher.callCount())
	assert.False(t, st.Loaded())
}

func TestReload_SerializesConcurrentCallers(t *testing.T) {
	st := store.New()
	fetcher := &mockFetcher{data: loadOEMFixture(t)}
	svc := newService(st, fetcher, nil, 0)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Reload(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 4, fetcher.callCount())
	assert.True(t, st.Loaded())
}
