package retrieval

import (
	"time"

	"github.com/goliatone/go-catalog-cache/catalog"
)

// CacheOutcome classifies a cache interaction.
type CacheOutcome string

const (
	CacheHit        CacheOutcome = "hit"
	CacheMiss       CacheOutcome = "miss"
	CacheReadError  CacheOutcome = "read_error"
	CacheDecodeFail CacheOutcome = "decode_error"
	CacheWriteError CacheOutcome = "write_error"
)

// Recorder receives cache and index observations.
type Recorder interface {
	CacheEvent(kind catalog.Kind, outcome CacheOutcome)
	IndexRequest(index, operation string, elapsed time.Duration, err error)
}

type nopRecorder struct{}

func (nopRecorder) CacheEvent(catalog.Kind, CacheOutcome) {}
func (nopRecorder) IndexRequest(string, string, time.Duration, error) {}
