package retrieval

import (
	"context"

	"github.com/goliatone/go-catalog-cache/search"
)

// Index is the read side of the full-text index.
//
// A missing index or document is reported as absent (found=false or an
// empty result), never as an error. Errors mean the index could not be
// queried at all.
type Index interface {
	// Get returns the raw source of one document.
	Get(ctx context.Context, index, id string) ([]byte, bool, error)
	// Search returns the raw sources of the hits of req, in hit order.
	Search(ctx context.Context, index string, req search.Request) ([][]byte, error)
	// MultiGet returns the raw sources of the documents that exist,
	// in the order of ids. Missing ids are dropped.
	MultiGet(ctx context.Context, index string, ids []string) ([][]byte, error)
	Ping(ctx context.Context) error
}
