package retrieval

import (
	"context"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/catalog"
	"github.com/goliatone/go-catalog-cache/search"
)

// FilmService serves films: lookup, search, listing and similar films.
type FilmService struct {
	*Service[*catalog.Film]
}

// NewFilmService builds a FilmService on the movies index.
func NewFilmService(index Index, store cache.Store, opts ...Option) (*FilmService, error) {
	svc, err := NewService[*catalog.Film](catalog.KindFilm, index, store, opts...)
	if err != nil {
		return nil, err
	}
	return &FilmService{Service: svc}, nil
}

// List returns a page of films, optionally sorted (q.Sort) and filtered by
// genre name (q.Genre). q.Text is ignored. The sort field is not checked
// here; see ValidateSort.
func (s *FilmService) List(ctx context.Context, q Query) ([]*catalog.Film, error) {
	q = q.Normalized()
	key := s.keys.SerializeKey(namespace(s.kind, "List"), q.Sort, q.Genre, q.Page, q.Size)
	req := search.Listing(q.Sort, q.Genre, q.Page, q.Size)

	return cachedList[*catalog.Film](ctx, s.backend, s.kind, key, func(ctx context.Context) ([][]byte, error) {
		return s.searchIndex(ctx, s.kind.Index(), req)
	})
}

// Similar returns films sharing at least one genre with the film filmID.
// The film itself may be part of the result. An unknown film yields an
// empty result that is not cached.
func (s *FilmService) Similar(ctx context.Context, filmID string, page, size int) ([]*catalog.Film, error) {
	page, size = search.Normalize(page, size)
	key := s.keys.SerializeKey(namespace(s.kind, "Similar"), filmID, page, size)

	return cachedList[*catalog.Film](ctx, s.backend, s.kind, key, func(ctx context.Context) ([][]byte, error) {
		film, found, err := s.GetByID(ctx, filmID)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, errSourceAbsent
		}

		genres := film.GenreNames()
		if len(genres) == 0 {
			return [][]byte{}, nil
		}
		req := search.Request{Query: search.SharedGenres(genres)}.Paginate(page, size)
		return s.searchIndex(ctx, s.kind.Index(), req)
	})
}
