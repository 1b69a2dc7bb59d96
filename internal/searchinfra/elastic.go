package searchinfra

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/goliatone/go-catalog-cache/search"
)

// DefaultRequestTimeout bounds a single index request.
const DefaultRequestTimeout = 5 * time.Second

// ElasticConfig tunes the Elasticsearch adapter.
type ElasticConfig struct {
	RequestTimeout time.Duration
}

// Elastic reads documents from Elasticsearch.
// The client is owned by the caller; Close does not release it.
type Elastic struct {
	client *elasticsearch.Client
	cfg    ElasticConfig
}

// NewElasticClient opens a client for the given node addresses.
func NewElasticClient(addresses ...string) (*elasticsearch.Client, error) {
	if len(addresses) == 0 {
		return nil, errors.New("searchinfra: at least one elasticsearch address is required")
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: addresses})
	if err != nil {
		return nil, errors.Wrap(err, "searchinfra: create elasticsearch client")
	}
	return client, nil
}

// NewElastic wraps an existing client.
func NewElastic(client *elasticsearch.Client, cfg ElasticConfig) (*Elastic, error) {
	if client == nil {
		return nil, errors.New("searchinfra: elasticsearch client is required")
	}
	if cfg.RequestTimeout < 0 {
		return nil, errors.Newf("searchinfra: request timeout must not be negative, got %s", cfg.RequestTimeout)
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	return &Elastic{client: client, cfg: cfg}, nil
}

type getResponse struct {
	Found  bool            `json:"found"`
	Source json.RawMessage `json:"_source"`
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

type mgetResponse struct {
	Docs []getResponse `json:"docs"`
}

// Get fetches one document by id.
func (e *Elastic) Get(ctx context.Context, index, id string) ([]byte, bool, error) {
	ctx, cancel := e.requestCtx(ctx)
	defer cancel()

	res, err := e.client.Get(index, id, e.client.Get.WithContext(ctx))
	if err != nil {
		return nil, false, errors.Wrapf(err, "searchinfra: get %s/%s", index, id)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if res.IsError() {
		return nil, false, responseError(res, "get %s/%s", index, id)
	}

	var doc getResponse
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, false, errors.Wrapf(err, "searchinfra: decode get %s/%s", index, id)
	}
	if !doc.Found || len(doc.Source) == 0 {
		return nil, false, nil
	}
	return doc.Source, true, nil
}

// Search runs req against index.
func (e *Elastic) Search(ctx context.Context, index string, req search.Request) ([][]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrapf(err, "searchinfra: encode search on %s", index)
	}

	ctx, cancel := e.requestCtx(ctx)
	defer cancel()

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(index),
		e.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "searchinfra: search %s", index)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return [][]byte{}, nil
	}
	if res.IsError() {
		return nil, responseError(res, "search %s", index)
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrapf(err, "searchinfra: decode search on %s", index)
	}

	out := make([][]byte, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		out = append(out, hit.Source)
	}
	return out, nil
}

// MultiGet fetches the documents with the given ids. Documents reported
// as not found are dropped.
func (e *Elastic) MultiGet(ctx context.Context, index string, ids []string) ([][]byte, error) {
	if len(ids) == 0 {
		return [][]byte{}, nil
	}

	body, err := json.Marshal(map[string][]string{"ids": ids})
	if err != nil {
		return nil, errors.Wrapf(err, "searchinfra: encode mget on %s", index)
	}

	ctx, cancel := e.requestCtx(ctx)
	defer cancel()

	res, err := e.client.Mget(
		bytes.NewReader(body),
		e.client.Mget.WithContext(ctx),
		e.client.Mget.WithIndex(index),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "searchinfra: mget %s", index)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return [][]byte{}, nil
	}
	if res.IsError() {
		return nil, responseError(res, "mget %s", index)
	}

	var parsed mgetResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrapf(err, "searchinfra: decode mget on %s", index)
	}

	out := make([][]byte, 0, len(parsed.Docs))
	for _, doc := range parsed.Docs {
		if doc.Found && len(doc.Source) > 0 {
			out = append(out, doc.Source)
		}
	}
	return out, nil
}

// Ping checks that the cluster answers.
func (e *Elastic) Ping(ctx context.Context) error {
	ctx, cancel := e.requestCtx(ctx)
	defer cancel()

	res, err := e.client.Ping(e.client.Ping.WithContext(ctx))
	if err != nil {
		return errors.Wrap(err, "searchinfra: ping")
	}
	defer res.Body.Close()

	if res.IsError() {
		return responseError(res, "ping")
	}
	return nil
}

// Close is a no-op; the client belongs to the caller.
func (e *Elastic) Close() error {
	return nil
}

func (e *Elastic) requestCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, e.cfg.RequestTimeout)
}

func responseError(res *esapi.Response, format string, args ...any) error {
	detail, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	err := errors.Newf("searchinfra: elasticsearch returned %s: %s", res.Status(), bytes.TrimSpace(detail))
	return errors.Wrapf(err, format, args...)
}
