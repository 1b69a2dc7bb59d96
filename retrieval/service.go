package retrieval

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/catalog"
	"github.com/goliatone/go-catalog-cache/search"
)

// errSourceAbsent tells cachedList that the entity a list hangs off does not
// exist. The list is reported empty and nothing is written to the cache.
var errSourceAbsent = errors.New("retrieval: source entity absent")

// Option configures a service.
type Option func(*backend)

// WithLogger sets the logger. Cache degradation is logged at warn level.
func WithLogger(logger *zap.Logger) Option {
	return func(b *backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(b *backend) {
		if r != nil {
			b.recorder = r
		}
	}
}

// WithKeySerializer replaces the default cache key serializer.
func WithKeySerializer(k cache.KeySerializer) Option {
	return func(b *backend) {
		if k != nil {
			b.keys = k
		}
	}
}

// WithTTL sets the lifetime of cache entries. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(b *backend) {
		if ttl > 0 {
			b.ttl = ttl
		}
	}
}

// backend bundles the collaborators every service shares.
type backend struct {
	index    Index
	store    cache.Store
	keys     cache.KeySerializer
	logger   *zap.Logger
	recorder Recorder
	ttl      time.Duration
}

func newBackend(index Index, store cache.Store, opts []Option) (*backend, error) {
	if index == nil {
		return nil, errors.New("retrieval: index is required")
	}
	if store == nil {
		return nil, errors.New("retrieval: cache store is required")
	}
	b := &backend{
		index:    index,
		store:    store,
		keys:     cache.NewDefaultKeySerializer(),
		logger:   zap.NewNop(),
		recorder: nopRecorder{},
		ttl:      cache.TTL,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// lookup reads key from the cache. Read errors are reported as a miss.
func (b *backend) lookup(ctx context.Context, kind catalog.Kind, key string) ([]byte, bool) {
	data, found, err := b.store.Get(ctx, key)
	switch {
	case err != nil:
		b.recorder.CacheEvent(kind, CacheReadError)
		b.logger.Warn("cache read failed, falling back to index",
			zap.String("key", key), zap.Error(err))
		return nil, false
	case !found:
		b.recorder.CacheEvent(kind, CacheMiss)
		return nil, false
	}
	return data, true
}

// discard records a cached payload that could not be decoded.
func (b *backend) discard(kind catalog.Kind, key string, err error) {
	b.recorder.CacheEvent(kind, CacheDecodeFail)
	b.logger.Warn("discarding undecodable cache entry",
		zap.String("key", key), zap.Error(err))
}

// remember writes data under key. Failures are logged and dropped.
func (b *backend) remember(ctx context.Context, kind catalog.Kind, key string, data []byte) {
	if err := b.store.Set(ctx, key, data, b.ttl); err != nil {
		b.recorder.CacheEvent(kind, CacheWriteError)
		b.logger.Warn("cache write failed",
			zap.String("key", key), zap.Error(err))
	}
}

// timed runs one index call and reports its duration.
func (b *backend) timed(index, operation string, call func() error) error {
	start := time.Now()
	err := call()
	b.recorder.IndexRequest(index, operation, time.Since(start), err)
	return err
}

// namespace returns the key prefix of an operation on kind,
// e.g. "film::get_by_id".
func namespace(kind catalog.Kind, operation string) string {
	return toSnake(kind.String()) + cache.KeySeparator + toSnake(operation)
}

// Service implements cache-aside reads for one entity kind.
type Service[T catalog.Entity] struct {
	*backend
	kind catalog.Kind
}

// NewService builds a service for kind. T must be the type the codec
// produces for kind, e.g. *catalog.Film for catalog.KindFilm.
func NewService[T catalog.Entity](kind catalog.Kind, index Index, store cache.Store, opts ...Option) (*Service[T], error) {
	probe, err := catalog.New(kind)
	if err != nil {
		return nil, err
	}
	if _, err := catalog.As[T](probe); err != nil {
		return nil, errors.Wrapf(err, "retrieval: service for %s", kind)
	}

	b, err := newBackend(index, store, opts)
	if err != nil {
		return nil, err
	}
	return &Service[T]{backend: b, kind: kind}, nil
}

// Kind returns the entity kind served.
func (s *Service[T]) Kind() catalog.Kind {
	return s.kind
}

// GetByID returns the entity with the given id. found is false when the
// index has no such document or the document is malformed; neither case
// is cached.
func (s *Service[T]) GetByID(ctx context.Context, id string) (T, bool, error) {
	var zero T
	key := s.keys.SerializeKey(namespace(s.kind, "GetByID"), id)

	if data, ok := s.lookup(ctx, s.kind, key); ok {
		entity, err := catalog.DecodeCached(s.kind, data)
		if err == nil {
			var typed T
			if typed, err = catalog.As[T](entity); err == nil {
				s.recorder.CacheEvent(s.kind, CacheHit)
				return typed, true, nil
			}
		}
		s.discard(s.kind, key, err)
	}

	index := s.kind.Index()
	var (
		raw   []byte
		found bool
	)
	err := s.timed(index, "get", func() (err error) {
		raw, found, err = s.index.Get(ctx, index, id)
		return err
	})
	if err != nil {
		return zero, false, errors.Wrapf(err, "retrieval: get %s %q", s.kind, id)
	}
	if !found {
		return zero, false, nil
	}

	entity, err := catalog.DecodeSource(s.kind, raw)
	if err != nil {
		if errors.Is(err, catalog.ErrMalformedRecord) {
			s.logger.Warn("malformed index record treated as absent",
				zap.String("index", index), zap.String("id", id), zap.Error(err))
			return zero, false, nil
		}
		return zero, false, err
	}
	typed, err := catalog.As[T](entity)
	if err != nil {
		return zero, false, err
	}

	if data, err := catalog.EncodeCached(entity); err == nil {
		s.remember(ctx, s.kind, key, data)
	} else {
		s.logger.Warn("cannot encode entity for cache", zap.String("key", key), zap.Error(err))
	}
	return typed, true, nil
}

// Search runs a full text query. Empty text lists the whole index in its
// natural order. The result, empty or not, is cached per text and page.
func (s *Service[T]) Search(ctx context.Context, q Query) ([]T, error) {
	q = q.Normalized()
	key := s.keys.SerializeKey(namespace(s.kind, "Search"), q.Text, q.Page, q.Size)
	req := search.Request{Query: search.FullText(q.Text)}.Paginate(q.Page, q.Size)

	return cachedList[T](ctx, s.backend, s.kind, key, func(ctx context.Context) ([][]byte, error) {
		return s.searchIndex(ctx, s.kind.Index(), req)
	})
}

func (b *backend) searchIndex(ctx context.Context, index string, req search.Request) ([][]byte, error) {
	var raws [][]byte
	err := b.timed(index, "search", func() (err error) {
		raws, err = b.index.Search(ctx, index, req)
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "retrieval: search %s", index)
	}
	return raws, nil
}

func (b *backend) multiGet(ctx context.Context, index string, ids []string) ([][]byte, error) {
	var raws [][]byte
	err := b.timed(index, "mget", func() (err error) {
		raws, err = b.index.MultiGet(ctx, index, ids)
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "retrieval: multi-get %s", index)
	}
	return raws, nil
}

// cachedList is the cache-aside path shared by every list operation.
// kind is the kind of the listed entities, which is not always the kind of
// the service asking (a person's films are films).
func cachedList[E catalog.Entity](ctx context.Context, b *backend, kind catalog.Kind, key string, fetch func(context.Context) ([][]byte, error)) ([]E, error) {
	if data, ok := b.lookup(ctx, kind, key); ok {
		items, err := decodeList[E](kind, data)
		if err == nil {
			b.recorder.CacheEvent(kind, CacheHit)
			return items, nil
		}
		b.discard(kind, key, err)
	}

	raws, err := fetch(ctx)
	if err != nil {
		if errors.Is(err, errSourceAbsent) {
			return []E{}, nil
		}
		return nil, err
	}

	entities, skipped, err := catalog.DecodeSources(kind, raws)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		b.logger.Warn("malformed index records dropped from result",
			zap.String("key", key), zap.Int("skipped", skipped))
	}

	items, err := typedList[E](entities)
	if err != nil {
		return nil, err
	}

	if data, err := catalog.EncodeCachedList(items); err == nil {
		b.remember(ctx, kind, key, data)
	} else {
		b.logger.Warn("cannot encode list for cache", zap.String("key", key), zap.Error(err))
	}
	return items, nil
}

func decodeList[E catalog.Entity](kind catalog.Kind, data []byte) ([]E, error) {
	entities, err := catalog.DecodeCachedList(kind, data)
	if err != nil {
		return nil, err
	}
	return typedList[E](entities)
}

func typedList[E catalog.Entity](entities []catalog.Entity) ([]E, error) {
	out := make([]E, 0, len(entities))
	for _, e := range entities {
		typed, err := catalog.As[E](e)
		if err != nil {
			return nil, err
		}
		out = append(out, typed)
	}
	return out, nil
}
