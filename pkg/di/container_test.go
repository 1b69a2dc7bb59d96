package di

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/internal/cacheinfra"
	"github.com/goliatone/go-catalog-cache/internal/config"
	"github.com/goliatone/go-catalog-cache/internal/searchinfra"
	"github.com/goliatone/go-catalog-cache/pkg/testsupport"
	"github.com/goliatone/go-catalog-cache/retrieval"
)

func seedFile(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot resolve test file location")
	}
	return filepath.Join(filepath.Dir(file), "..", "testsupport", "testdata", "catalog.json")
}

func memoryConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load() failed: %v", err)
	}
	cfg.Cache.Backend = string(cache.BackendMemory)
	cfg.Index.Backend = config.IndexMemory
	cfg.Index.SeedFile = seedFile(t)
	return *cfg
}

func TestNewContainer_MemoryBackends(t *testing.T) {
	container, err := NewContainer(memoryConfig(t))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	defer container.Close()

	if _, ok := container.Store().(*cacheinfra.SturdycStore); !ok {
		t.Errorf("expected in-process store, got %T", container.Store())
	}
	if _, ok := container.Index().(*searchinfra.Memory); !ok {
		t.Errorf("expected memory index, got %T", container.Index())
	}
	if container.Films() == nil || container.Genres() == nil || container.Persons() == nil {
		t.Fatal("container should build all three services")
	}
	if container.Logger() == nil || container.Metrics() == nil || container.Registry() == nil {
		t.Error("container should provide logger, metrics and registry")
	}
	if container.Config().Index.Backend != config.IndexMemory {
		t.Errorf("expected stored config, got %+v", container.Config().Index)
	}

	ctx := context.Background()
	if err := container.Ping(ctx); err != nil {
		t.Errorf("Ping() failed: %v", err)
	}

	film, found, err := container.Films().GetByID(ctx, testsupport.FilmStarWarsID)
	if err != nil || !found {
		t.Fatalf("GetByID() found=%v err=%v", found, err)
	}
	if film.Title != "Star Wars" {
		t.Errorf("unexpected film %q", film.Title)
	}
}

func TestNewContainer_RedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := memoryConfig(t)
	cfg.Cache.Backend = string(cache.BackendRedis)
	cfg.Cache.Prefix = "catalog"
	port, err := strconv.Atoi(mr.Port())
	if err != nil {
		t.Fatalf("bad miniredis port %q: %v", mr.Port(), err)
	}
	cfg.Redis.Host = mr.Host()
	cfg.Redis.Port = port

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}

	ctx := context.Background()
	if _, ok := container.Store().(*cacheinfra.RedisStore); !ok {
		t.Fatalf("expected redis store, got %T", container.Store())
	}

	genres, err := container.Genres().List(ctx, 1, 10)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(genres) != 5 {
		t.Errorf("expected 5 genres, got %d", len(genres))
	}

	key := "catalog:genre::list::1::10"
	if !mr.Exists(key) {
		t.Errorf("expected %s in redis, have %v", key, mr.Keys())
	}
	if ttl := mr.TTL(key); ttl != cache.TTL {
		t.Errorf("expected ttl %v, got %v", cache.TTL, ttl)
	}

	if err := container.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
	if err := container.Close(); err != nil {
		t.Errorf("second Close() failed: %v", err)
	}
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Cache.TTL = 0

	if _, err := NewContainer(cfg); err == nil {
		t.Fatal("expected error for zero TTL")
	}
}

func TestNewContainer_MissingSeedFile(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Index.SeedFile = filepath.Join(t.TempDir(), "missing.json")

	if _, err := NewContainer(cfg); err == nil {
		t.Fatal("expected error for missing seed file")
	}
}

var errIndexDown = errors.New("index down")

type failingIndex struct {
	*searchinfra.Memory
}

func (failingIndex) Ping(context.Context) error { return errIndexDown }

func TestContainer_InjectedCollaborators(t *testing.T) {
	store, err := cacheinfra.NewSturdycStore(cacheinfra.DefaultConfig())
	if err != nil {
		t.Fatalf("NewSturdycStore() failed: %v", err)
	}
	index := failingIndex{Memory: searchinfra.NewMemory()}

	container, err := NewContainer(memoryConfig(t), WithStore(store), WithIndex(index), WithLogger(nil))
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}
	defer container.Close()

	if container.Store() != store {
		t.Error("expected injected store")
	}
	var _ retrieval.Index = container.Index()

	err = container.Ping(context.Background())
	if err == nil {
		t.Fatal("expected ping to report the index failure")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	films, err := container.Films().Search(ctx, retrieval.Query{Text: "star"})
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(films) != 0 {
		t.Errorf("expected empty result from empty index, got %d", len(films))
	}
}
