package retrieval_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-catalog-cache/catalog"
	"github.com/goliatone/go-catalog-cache/internal/searchinfra"
	"github.com/goliatone/go-catalog-cache/pkg/testsupport"
	"github.com/goliatone/go-catalog-cache/retrieval"
	"github.com/goliatone/go-catalog-cache/search"
)

// mockStore is an in-memory cache.Store that records calls and can be told
// to fail reads or writes.
type mockStore struct {
	mu     sync.Mutex
	calls  []string
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		data: make(map[string][]byte),
		ttls: make(map[string]time.Duration),
	}
}

func (m *mockStore) recordCall(method string) {
	m.calls = append(m.calls, method)
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordCall("Get")
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mockStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordCall("Set")
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = append([]byte(nil), value...)
	m.ttls[key] = ttl
	return nil
}

func (m *mockStore) Ping(context.Context) error { return nil }

func (m *mockStore) Close() error { return nil }

func (m *mockStore) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.data))
	for k := range m.data {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (m *mockStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

func (m *mockStore) put(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

func (m *mockStore) fail(getErr, setErr error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getErr, m.setErr = getErr, setErr
}

// countingIndex wraps the in-memory index, recording every round trip.
type countingIndex struct {
	*searchinfra.Memory

	mu    sync.Mutex
	calls []string
	err   error
}

func (c *countingIndex) record(call string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
	return c.err
}

func (c *countingIndex) Get(ctx context.Context, index, id string) ([]byte, bool, error) {
	if err := c.record("get " + index); err != nil {
		return nil, false, err
	}
	return c.Memory.Get(ctx, index, id)
}

func (c *countingIndex) Search(ctx context.Context, index string, req search.Request) ([][]byte, error) {
	if err := c.record("search " + index); err != nil {
		return nil, err
	}
	return c.Memory.Search(ctx, index, req)
}

func (c *countingIndex) MultiGet(ctx context.Context, index string, ids []string) ([][]byte, error) {
	if err := c.record("mget " + index); err != nil {
		return nil, err
	}
	return c.Memory.MultiGet(ctx, index, ids)
}

func (c *countingIndex) getCalls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func (c *countingIndex) clearCalls() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = nil
}

func (c *countingIndex) failWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// recorder collects cache outcomes per kind.
type recorder struct {
	mu     sync.Mutex
	events map[catalog.Kind][]retrieval.CacheOutcome
	index  []string
}

func newRecorder() *recorder {
	return &recorder{events: make(map[catalog.Kind][]retrieval.CacheOutcome)}
}

func (r *recorder) CacheEvent(kind catalog.Kind, outcome retrieval.CacheOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[kind] = append(r.events[kind], outcome)
}

func (r *recorder) IndexRequest(index, operation string, _ time.Duration, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.index = append(r.index, operation+" "+index)
}

func (r *recorder) outcomes(kind catalog.Kind) []retrieval.CacheOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]retrieval.CacheOutcome(nil), r.events[kind]...)
}

type fixture struct {
	index *countingIndex
	store *mockStore
	rec   *recorder

	films   *retrieval.FilmService
	genres  *retrieval.GenreService
	persons *retrieval.PersonService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mem := searchinfra.NewMemory()
	require.NoError(t, mem.Load(testsupport.LoadCatalog(t).Documents()))

	f := &fixture{
		index: &countingIndex{Memory: mem},
		store: newMockStore(),
		rec:   newRecorder(),
	}
	opts := []retrieval.Option{retrieval.WithRecorder(f.rec)}

	var err error
	f.films, err = retrieval.NewFilmService(f.index, f.store, opts...)
	require.NoError(t, err)
	f.genres, err = retrieval.NewGenreService(f.index, f.store, opts...)
	require.NoError(t, err)
	f.persons, err = retrieval.NewPersonService(f.index, f.store, opts...)
	require.NoError(t, err)
	return f
}

func filmIDs(films []*catalog.Film) []string {
	out := make([]string, 0, len(films))
	for _, f := range films {
		out = append(out, f.UUID)
	}
	return out
}
