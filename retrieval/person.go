package retrieval

import (
	"context"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/catalog"
)

// PersonService serves persons and their filmography.
type PersonService struct {
	*Service[*catalog.Person]
}

// NewPersonService builds a PersonService on the persons index.
func NewPersonService(index Index, store cache.Store, opts ...Option) (*PersonService, error) {
	svc, err := NewService[*catalog.Person](catalog.KindPerson, index, store, opts...)
	if err != nil {
		return nil, err
	}
	return &PersonService{Service: svc}, nil
}

// Films resolves the films of a person: the person document gives the
// film ids, which are then fetched in one multi-get. Ids missing from the
// movies index are dropped. An unknown person yields an empty result that
// is not cached; a person without films yields a cached empty result.
func (s *PersonService) Films(ctx context.Context, personID string) ([]*catalog.Film, error) {
	key := s.keys.SerializeKey(namespace(s.kind, "Films"), personID)

	return cachedList[*catalog.Film](ctx, s.backend, catalog.KindFilm, key, func(ctx context.Context) ([][]byte, error) {
		person, found, err := s.GetByID(ctx, personID)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, errSourceAbsent
		}
		if len(person.FilmIDs) == 0 {
			return [][]byte{}, nil
		}
		return s.multiGet(ctx, catalog.KindFilm.Index(), person.FilmIDs)
	})
}
