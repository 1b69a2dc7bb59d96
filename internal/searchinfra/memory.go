package searchinfra

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/goliatone/go-catalog-cache/search"
)

// ErrUnsupportedQuery is returned when a query node has no in-memory evaluation.
var ErrUnsupportedQuery = errors.New("searchinfra: unsupported query node")

// Memory is an in-process index that evaluates search queries over
// JSON documents. Documents are keyed by their "uuid" field.
type Memory struct {
	mu      sync.RWMutex
	indices map[string]*memoryIndex
}

type memoryIndex struct {
	order []string
	docs  map[string]memoryDoc
}

type memoryDoc struct {
	raw    []byte
	fields map[string]any
}

// NewMemory returns an empty index.
func NewMemory() *Memory {
	return &Memory{indices: make(map[string]*memoryIndex)}
}

// Put stores or replaces a document.
func (m *Memory) Put(index string, raw []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return errors.Wrapf(err, "searchinfra: decode document for %s", index)
	}
	id, _ := fields["uuid"].(string)
	if id == "" {
		return errors.Newf("searchinfra: document for %s has no uuid", index)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	idx, ok := m.indices[index]
	if !ok {
		idx = &memoryIndex{docs: make(map[string]memoryDoc)}
		m.indices[index] = idx
	}
	if _, exists := idx.docs[id]; !exists {
		idx.order = append(idx.order, id)
	}
	idx.docs[id] = memoryDoc{raw: append([]byte(nil), raw...), fields: fields}
	return nil
}

// Load stores every document of every index in docs.
func (m *Memory) Load(docs map[string][][]byte) error {
	for index, raws := range docs {
		for _, raw := range raws {
			if err := m.Put(index, raw); err != nil {
				return err
			}
		}
	}
	return nil
}

// LoadFile loads a JSON document mapping index names to document lists,
// e.g. {"movies": [...], "genres": [...]}.
func (m *Memory) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "searchinfra: read seed file")
	}
	var seed map[string][]json.RawMessage
	if err := json.Unmarshal(data, &seed); err != nil {
		return errors.Wrapf(err, "searchinfra: decode seed file %s", path)
	}
	docs := make(map[string][][]byte, len(seed))
	for index, raws := range seed {
		for _, raw := range raws {
			docs[index] = append(docs[index], raw)
		}
	}
	return m.Load(docs)
}

func (m *Memory) Get(_ context.Context, index, id string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, ok := m.indices[index]
	if !ok {
		return nil, false, nil
	}
	doc, ok := idx.docs[id]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), doc.raw...), true, nil
}

func (m *Memory) Search(_ context.Context, index string, req search.Request) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, ok := m.indices[index]
	if !ok {
		return [][]byte{}, nil
	}

	var hits []memoryDoc
	for _, id := range idx.order {
		doc := idx.docs[id]
		matched := true
		if req.Query != nil {
			var err error
			if matched, err = evaluate(req.Query, doc.fields); err != nil {
				return nil, err
			}
		}
		if matched {
			hits = append(hits, doc)
		}
	}

	for i := len(req.Sort) - 1; i >= 0; i-- {
		sortDocs(hits, req.Sort[i])
	}

	from, size := req.From, req.Size
	if from < 0 {
		from = 0
	}
	if from >= len(hits) || size <= 0 {
		return [][]byte{}, nil
	}
	end := from + size
	if end > len(hits) {
		end = len(hits)
	}

	out := make([][]byte, 0, end-from)
	for _, doc := range hits[from:end] {
		out = append(out, append([]byte(nil), doc.raw...))
	}
	return out, nil
}

func (m *Memory) MultiGet(_ context.Context, index string, ids []string) ([][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([][]byte, 0, len(ids))
	idx, ok := m.indices[index]
	if !ok {
		return out, nil
	}
	for _, id := range ids {
		if doc, ok := idx.docs[id]; ok {
			out = append(out, append([]byte(nil), doc.raw...))
		}
	}
	return out, nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }

func evaluate(q search.Query, doc map[string]any) (bool, error) {
	switch q := q.(type) {
	case search.MatchAll:
		return true, nil
	case search.QueryString:
		return matchesText(q.Query, doc), nil
	case search.Match:
		for _, v := range resolve(doc, strings.Split(q.Field, ".")) {
			if s, ok := v.(string); ok && strings.EqualFold(s, q.Value) {
				return true, nil
			}
		}
		return false, nil
	case search.Bool:
		return evaluateBool(q, doc)
	case search.Nested:
		// Each element of the nested list is matched on its own, under the
		// full dotted path, so clauses on the same element must agree.
		for _, elem := range resolveList(doc, strings.Split(q.Path, ".")) {
			ok, err := evaluate(q.Query, wrap(q.Path, elem))
			if err != nil || ok {
				return ok, err
			}
		}
		return false, nil
	default:
		return false, errors.Wrapf(ErrUnsupportedQuery, "%T", q)
	}
}

func evaluateBool(b search.Bool, doc map[string]any) (bool, error) {
	for _, clause := range b.Must {
		ok, err := evaluate(clause, doc)
		if err != nil || !ok {
			return false, err
		}
	}

	required := b.MinimumShouldMatch
	if required == 0 && len(b.Must) == 0 && len(b.Should) > 0 {
		required = 1
	}
	if required == 0 {
		return true, nil
	}

	matched := 0
	for _, clause := range b.Should {
		ok, err := evaluate(clause, doc)
		if err != nil {
			return false, err
		}
		if ok {
			matched++
		}
	}
	return matched >= required, nil
}

// matchesText reports whether any term of text occurs in any string value.
func matchesText(text string, doc map[string]any) bool {
	terms := strings.Fields(strings.ToLower(text))
	if len(terms) == 0 {
		return true
	}
	var values []string
	collectStrings(doc, &values)
	for _, term := range terms {
		for _, v := range values {
			if strings.Contains(strings.ToLower(v), term) {
				return true
			}
		}
	}
	return false
}

func collectStrings(v any, out *[]string) {
	switch v := v.(type) {
	case string:
		*out = append(*out, v)
	case []any:
		for _, item := range v {
			collectStrings(item, out)
		}
	case map[string]any:
		for _, item := range v {
			collectStrings(item, out)
		}
	}
}

// resolve returns the leaf values at path, flattening lists on the way.
func resolve(v any, path []string) []any {
	if len(path) == 0 {
		if list, ok := v.([]any); ok {
			return list
		}
		return []any{v}
	}
	switch v := v.(type) {
	case map[string]any:
		return resolve(v[path[0]], path[1:])
	case []any:
		var out []any
		for _, item := range v {
			out = append(out, resolve(item, path)...)
		}
		return out
	default:
		return nil
	}
}

func resolveList(doc map[string]any, path []string) []any {
	var out []any
	for _, v := range resolve(doc, path) {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}

func wrap(path string, elem any) map[string]any {
	parts := strings.Split(path, ".")
	var v any = elem
	for i := len(parts) - 1; i >= 0; i-- {
		v = map[string]any{parts[i]: v}
	}
	return v.(map[string]any)
}

// sortDocs orders docs by one field, stable. Documents without a value for
// the field always go last, whatever the direction.
func sortDocs(docs []memoryDoc, s search.Sort) {
	path := strings.Split(s.Field, ".")
	key := func(d memoryDoc) any {
		values := resolve(d.fields, path)
		if len(values) == 0 {
			return nil
		}
		return values[0]
	}

	sort.SliceStable(docs, func(i, j int) bool {
		a, b := key(docs[i]), key(docs[j])
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		c := compare(a, b)
		if s.Order == search.Desc {
			return c > 0
		}
		return c < 0
	})
}

func compare(a, b any) int {
	switch a := a.(type) {
	case float64:
		if b, ok := b.(float64); ok {
			switch {
			case a < b:
				return -1
			case a > b:
				return 1
			}
			return 0
		}
	case string:
		if b, ok := b.(string); ok {
			return strings.Compare(a, b)
		}
	case bool:
		if b, ok := b.(bool); ok && a != b {
			if !a {
				return -1
			}
			return 1
		}
		return 0
	}
	return 0
}
