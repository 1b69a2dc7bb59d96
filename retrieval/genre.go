package retrieval

import (
	"context"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/catalog"
	"github.com/goliatone/go-catalog-cache/search"
)

// GenreService serves genres and the films filed under a genre.
type GenreService struct {
	*Service[*catalog.Genre]
}

// NewGenreService builds a GenreService on the genres index.
func NewGenreService(index Index, store cache.Store, opts ...Option) (*GenreService, error) {
	svc, err := NewService[*catalog.Genre](catalog.KindGenre, index, store, opts...)
	if err != nil {
		return nil, err
	}
	return &GenreService{Service: svc}, nil
}

// List returns a page of genres in index order.
func (s *GenreService) List(ctx context.Context, page, size int) ([]*catalog.Genre, error) {
	page, size = search.Normalize(page, size)
	key := s.keys.SerializeKey(namespace(s.kind, "List"), page, size)
	req := search.Request{Query: search.MatchAll{}}.Paginate(page, size)

	return cachedList[*catalog.Genre](ctx, s.backend, s.kind, key, func(ctx context.Context) ([][]byte, error) {
		return s.searchIndex(ctx, s.kind.Index(), req)
	})
}

// Films returns a page of films of the genre genreID, best rated first.
func (s *GenreService) Films(ctx context.Context, genreID string, page, size int) ([]*catalog.Film, error) {
	page, size = search.Normalize(page, size)
	key := s.keys.SerializeKey(namespace(s.kind, "Films"), genreID, page, size)
	req := search.Request{
		Query: search.GenreIDFilter(genreID),
		Sort:  []search.Sort{{Field: search.RatingField, Order: search.Desc}},
	}.Paginate(page, size)

	return cachedList[*catalog.Film](ctx, s.backend, catalog.KindFilm, key, func(ctx context.Context) ([][]byte, error) {
		return s.searchIndex(ctx, catalog.KindFilm.Index(), req)
	})
}
