package search

import "strings"

const (
	// DefaultPage is used when the caller passes no page or a page below 1.
	DefaultPage = 1
	// DefaultPageSize is used when the caller passes no size or a size below 1.
	DefaultPageSize = 50

	// DescendingMarker prefixes a sort field to request descending order.
	DescendingMarker = "-"

	// RatingField is the film rating field in the movies index.
	RatingField = "imdb_rating"

	genrePath = "genre"
)

// Normalize replaces missing or non-positive pagination values with defaults.
func Normalize(page, size int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if size < 1 {
		size = DefaultPageSize
	}
	return page, size
}

// Page converts a page number and page size into the from/size window
// of the index request. Both values are normalized first.
func Page(page, size int) (from, limit int) {
	page, size = Normalize(page, size)
	return (page - 1) * size, size
}

// Paginate returns a copy of r windowed to the given page.
func (r Request) Paginate(page, size int) Request {
	r.From, r.Size = Page(page, size)
	return r
}

// FullText builds a free text query. Empty text matches every document.
func FullText(text string) Query {
	if strings.TrimSpace(text) == "" {
		return MatchAll{}
	}
	return QueryString{Query: text}
}

// ParseSort reads a sort spec such as "-imdb_rating". A leading "-" means
// descending, anything else ascending. ok is false for an empty spec.
func ParseSort(spec string) (Sort, bool) {
	if spec == "" {
		return Sort{}, false
	}
	if strings.HasPrefix(spec, DescendingMarker) {
		field := strings.TrimPrefix(spec, DescendingMarker)
		if field == "" {
			return Sort{}, false
		}
		return Sort{Field: field, Order: Desc}, true
	}
	return Sort{Field: spec, Order: Asc}, true
}

// SortField returns the field of a sort spec without the direction marker.
func SortField(spec string) string {
	return strings.TrimPrefix(spec, DescendingMarker)
}

// GenreNameFilter matches films that have a genre with the given name.
func GenreNameFilter(name string) Query {
	return nestedGenre(Bool{Must: []Query{Match{Field: "genre.name", Value: name}}})
}

// GenreIDFilter matches films that have a genre with the given id.
func GenreIDFilter(id string) Query {
	return nestedGenre(Bool{Must: []Query{Match{Field: "genre.uuid", Value: id}}})
}

// SharedGenres matches films that share at least one of the genre names.
// With no names nothing can be shared and the query matches nothing.
func SharedGenres(names []string) Query {
	should := make([]Query, 0, len(names))
	for _, name := range names {
		should = append(should, Match{Field: "genre.name", Value: name})
	}
	return nestedGenre(Bool{Should: should, MinimumShouldMatch: 1})
}

// Listing builds the film listing request: optional sort, optional genre
// name filter. Absent parts are left out of the request entirely.
func Listing(sortSpec, genre string, page, size int) Request {
	var r Request
	if s, ok := ParseSort(sortSpec); ok {
		r.Sort = []Sort{s}
	}
	if genre != "" {
		r.Query = GenreNameFilter(genre)
	}
	return r.Paginate(page, size)
}

func nestedGenre(b Bool) Query {
	return Nested{Path: genrePath, Query: b}
}
