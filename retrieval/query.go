package retrieval

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-catalog-cache/search"
)

// SortableFields lists the film fields a listing may be sorted by.
var SortableFields = []string{search.RatingField}

// Query describes a search or listing request.
//
// Text is the free text for Search. Sort and Genre apply to film listings:
// Sort is a field name, optionally prefixed with "-" for descending order,
// and Genre filters by genre name. Zero Page and Size mean defaults.
type Query struct {
	Text  string
	Page  int
	Size  int
	Sort  string
	Genre string
}

// Normalized returns q with page and size defaulted.
func (q Query) Normalized() Query {
	q.Page, q.Size = search.Normalize(q.Page, q.Size)
	return q
}

// Validate rejects sort fields outside SortableFields. Services do not call
// it; the request boundary does, before the query reaches a service.
func (q Query) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Sort, validation.By(func(any) error {
			return ValidateSort(q.Sort)
		})),
	)
}

// ValidateSort checks a sort spec against SortableFields.
// The empty spec is valid and means index order.
func ValidateSort(spec string) error {
	if spec == "" {
		return nil
	}
	allowed := make([]any, 0, len(SortableFields))
	for _, f := range SortableFields {
		allowed = append(allowed, f)
	}
	return validation.Validate(search.SortField(spec),
		validation.Required,
		validation.In(allowed...).Error("is not a sortable field"),
	)
}
