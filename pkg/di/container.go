package di

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/internal/cacheinfra"
	"github.com/goliatone/go-catalog-cache/internal/config"
	"github.com/goliatone/go-catalog-cache/internal/metrics"
	"github.com/goliatone/go-catalog-cache/internal/searchinfra"
	"github.com/goliatone/go-catalog-cache/retrieval"
)

// Container owns the process wide collaborators: the cache store, the
// index, the metrics registry and the three catalog services built on them.
// Connections are opened once in NewContainer and released by Close.
type Container struct {
	cfg      config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	store cache.Store
	index retrieval.Index

	films   *retrieval.FilmService
	genres  *retrieval.GenreService
	persons *retrieval.PersonService

	closers []func() error
}

// Option customizes a Container.
type Option func(*Container)

// WithLogger sets the logger shared by every component.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithStore uses store instead of building one from configuration.
// The caller keeps ownership of it.
func WithStore(store cache.Store) Option {
	return func(c *Container) {
		c.store = store
	}
}

// WithIndex uses index instead of building one from configuration.
// The caller keeps ownership of it.
func WithIndex(index retrieval.Index) Option {
	return func(c *Container) {
		c.index = index
	}
}

// NewContainer wires the container described by cfg.
func NewContainer(cfg config.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "di: invalid configuration")
	}

	c := &Container{
		cfg:      cfg,
		logger:   zap.NewNop(),
		registry: prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.metrics = metrics.New(c.registry)

	if err := c.init(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) init() error {
	if c.store == nil {
		store, err := c.newStore()
		if err != nil {
			return err
		}
		c.store = store
	}
	if c.index == nil {
		index, err := c.newIndex()
		if err != nil {
			return err
		}
		c.index = index
	}

	opts := []retrieval.Option{
		retrieval.WithLogger(c.logger),
		retrieval.WithRecorder(c.metrics),
		retrieval.WithTTL(c.cfg.Cache.TTL),
	}

	var err error
	if c.films, err = retrieval.NewFilmService(c.index, c.store, opts...); err != nil {
		return err
	}
	if c.genres, err = retrieval.NewGenreService(c.index, c.store, opts...); err != nil {
		return err
	}
	if c.persons, err = retrieval.NewPersonService(c.index, c.store, opts...); err != nil {
		return err
	}
	return nil
}

func (c *Container) newStore() (cache.Store, error) {
	cc := c.cfg.Cache.Store()

	switch cc.Backend {
	case cache.BackendMemory:
		store, err := cacheinfra.NewSturdycStore(cacheinfra.Config{
			Capacity:           cc.Capacity,
			NumShards:          cc.NumShards,
			TTL:                cc.TTL,
			EvictionPercentage: cc.EvictionPercentage,
			EvictionInterval:   cc.EvictionInterval,
		})
		if err != nil {
			return nil, errors.Wrap(err, "di: in-process cache")
		}
		c.logger.Info("cache store ready", zap.String("backend", string(cc.Backend)))
		return store, nil

	case cache.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     c.cfg.Redis.Addr(),
			Password: c.cfg.Redis.Password,
			DB:       c.cfg.Redis.DB,
		})
		c.closers = append(c.closers, client.Close)

		store, err := cacheinfra.NewRedisStore(client, cacheinfra.RedisConfig{
			Prefix:       cc.Prefix,
			QueryTimeout: cc.QueryTimeout,
		})
		if err != nil {
			return nil, errors.Wrap(err, "di: redis cache")
		}
		c.logger.Info("cache store ready",
			zap.String("backend", string(cc.Backend)),
			zap.String("addr", c.cfg.Redis.Addr()))
		return store, nil
	}
	return nil, errors.Newf("di: unsupported cache backend %q", cc.Backend)
}

func (c *Container) newIndex() (retrieval.Index, error) {
	switch c.cfg.Index.Backend {
	case config.IndexMemory:
		mem := searchinfra.NewMemory()
		if path := c.cfg.Index.SeedFile; path != "" {
			if err := mem.LoadFile(path); err != nil {
				return nil, errors.Wrap(err, "di: seed memory index")
			}
		}
		c.logger.Info("index ready", zap.String("backend", string(c.cfg.Index.Backend)))
		return mem, nil

	case config.IndexElastic:
		client, err := searchinfra.NewElasticClient(c.cfg.Elastic.URL())
		if err != nil {
			return nil, errors.Wrap(err, "di: elasticsearch client")
		}
		es, err := searchinfra.NewElastic(client, searchinfra.ElasticConfig{
			RequestTimeout: c.cfg.Elastic.RequestTimeout,
		})
		if err != nil {
			return nil, errors.Wrap(err, "di: elasticsearch index")
		}
		c.logger.Info("index ready",
			zap.String("backend", string(c.cfg.Index.Backend)),
			zap.String("url", c.cfg.Elastic.URL()))
		return es, nil
	}
	return nil, errors.Newf("di: unsupported index backend %q", c.cfg.Index.Backend)
}

// Films returns the film service.
func (c *Container) Films() *retrieval.FilmService { return c.films }

// Genres returns the genre service.
func (c *Container) Genres() *retrieval.GenreService { return c.genres }

// Persons returns the person service.
func (c *Container) Persons() *retrieval.PersonService { return c.persons }

// Store returns the cache store in use.
func (c *Container) Store() cache.Store { return c.store }

// Index returns the index in use.
func (c *Container) Index() retrieval.Index { return c.index }

// Metrics returns the collectors recorded by the services.
func (c *Container) Metrics() *metrics.Metrics { return c.metrics }

// Registry returns the registry to expose on /metrics.
func (c *Container) Registry() *prometheus.Registry { return c.registry }

// Logger returns the shared logger.
func (c *Container) Logger() *zap.Logger { return c.logger }

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() config.Config { return c.cfg }

// Ping checks the cache store and the index.
func (c *Container) Ping(ctx context.Context) error {
	var err error
	if c.store != nil {
		if perr := c.store.Ping(ctx); perr != nil {
			err = errors.CombineErrors(err, errors.Wrap(perr, "cache"))
		}
	}
	if c.index != nil {
		if perr := c.index.Ping(ctx); perr != nil {
			err = errors.CombineErrors(err, errors.Wrap(perr, "index"))
		}
	}
	return err
}

// Close releases the connections opened by NewContainer, newest first.
// It is safe to call more than once.
func (c *Container) Close() error {
	var err error
	for i := len(c.closers) - 1; i >= 0; i-- {
		err = errors.CombineErrors(err, c.closers[i]())
	}
	c.closers = nil
	return err
}
