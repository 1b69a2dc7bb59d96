package search

import (
	"encoding/json"
)

// Query is a node of the query tree sent to the index.
// Source returns the Elasticsearch DSL form of the node.
type Query interface {
	Source() map[string]any
}

// MatchAll matches every document.
type MatchAll struct{}

func (MatchAll) Source() map[string]any {
	return map[string]any{"match_all": map[string]any{}}
}

// QueryString is a free text query over all indexed text fields.
type QueryString struct {
	Query string
}

func (q QueryString) Source() map[string]any {
	return map[string]any{"query_string": map[string]any{"query": q.Query}}
}

// Match is a full text match on a single field.
type Match struct {
	Field string
	Value string
}

func (m Match) Source() map[string]any {
	return map[string]any{"match": map[string]any{m.Field: m.Value}}
}

// Bool combines clauses. Must clauses are AND-ed; Should clauses are OR-ed
// and at least MinimumShouldMatch of them must hold when set.
type Bool struct {
	Must               []Query
	Should             []Query
	MinimumShouldMatch int
}

func (b Bool) Source() map[string]any {
	body := map[string]any{}
	if len(b.Must) > 0 {
		body["must"] = sources(b.Must)
	}
	if len(b.Should) > 0 {
		body["should"] = sources(b.Should)
	}
	if b.MinimumShouldMatch > 0 {
		body["minimum_should_match"] = b.MinimumShouldMatch
	}
	return map[string]any{"bool": body}
}

// Nested applies Query to the elements of the sub-list at Path.
type Nested struct {
	Path  string
	Query Query
}

func (n Nested) Source() map[string]any {
	return map[string]any{"nested": map[string]any{
		"path":  n.Path,
		"query": n.Query.Source(),
	}}
}

// Order is a sort direction.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// Sort orders results by a single field.
type Sort struct {
	Field string
	Order Order
}

func (s Sort) Source() map[string]any {
	return map[string]any{s.Field: map[string]any{"order": string(s.Order)}}
}

// Request is a paginated search against one index.
// A nil Query and an empty Sort are omitted from the request body.
type Request struct {
	Query Query
	Sort  []Sort
	From  int
	Size  int
}

// Source returns the request body in Elasticsearch DSL.
func (r Request) Source() map[string]any {
	body := map[string]any{
		"from": r.From,
		"size": r.Size,
	}
	if r.Query != nil {
		body["query"] = r.Query.Source()
	}
	if len(r.Sort) > 0 {
		clauses := make([]any, 0, len(r.Sort))
		for _, s := range r.Sort {
			clauses = append(clauses, s.Source())
		}
		body["sort"] = clauses
	}
	return body
}

// MarshalJSON encodes the request body.
func (r Request) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Source())
}

func sources(queries []Query) []any {
	out := make([]any, 0, len(queries))
	for _, q := range queries {
		out = append(out, q.Source())
	}
	return out
}
