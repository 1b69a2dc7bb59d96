package catalog

import (
	"github.com/cockroachdb/errors"
)

// Kind tags the entity types served by the catalog.
type Kind string

const (
	KindFilm   Kind = "Film"
	KindGenre  Kind = "Genre"
	KindPerson Kind = "Person"
)

// Index returns the name of the search index holding documents of this kind.
func (k Kind) Index() string {
	switch k {
	case KindFilm:
		return "movies"
	case KindGenre:
		return "genres"
	case KindPerson:
		return "persons"
	default:
		return ""
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k.Index() != ""
}

func (k Kind) String() string {
	return string(k)
}

// Entity is implemented by every catalog record type.
// The set is closed: only types in this package satisfy it.
type Entity interface {
	EntityID() string
	EntityKind() Kind
	normalize() error
}

// GenreRef is the short genre form embedded in films.
type GenreRef struct {
	UUID string `json:"uuid" msgpack:"uuid"`
	Name string `json:"name" msgpack:"name"`
}

// PersonRef is the short person form embedded in films.
type PersonRef struct {
	UUID     string `json:"uuid" msgpack:"uuid"`
	FullName string `json:"full_name" msgpack:"full_name"`
}

// Film is a film work document from the movies index.
type Film struct {
	UUID        string      `json:"uuid" msgpack:"uuid"`
	Title       string      `json:"title" msgpack:"title"`
	IMDbRating  *float64    `json:"imdb_rating" msgpack:"imdb_rating"`
	Description *string     `json:"description" msgpack:"description"`
	Genre       []GenreRef  `json:"genre" msgpack:"genre"`
	Directors   []PersonRef `json:"directors" msgpack:"directors"`
	Actors      []PersonRef `json:"actors" msgpack:"actors"`
	Writers     []PersonRef `json:"writers" msgpack:"writers"`
}

func (f *Film) EntityID() string { return f.UUID }
func (f *Film) EntityKind() Kind { return KindFilm }

// GenreNames returns the names of the film genres in document order.
func (f *Film) GenreNames() []string {
	names := make([]string, 0, len(f.Genre))
	for _, g := range f.Genre {
		names = append(names, g.Name)
	}
	return names
}

// checkSource rejects index documents without the genre and credit lists.
// The lists may be empty but not absent or null.
func (f *Film) checkSource() error {
	switch {
	case f.Genre == nil:
		return missingField(KindFilm, "genre")
	case f.Directors == nil:
		return missingField(KindFilm, "directors")
	case f.Actors == nil:
		return missingField(KindFilm, "actors")
	case f.Writers == nil:
		return missingField(KindFilm, "writers")
	}
	return nil
}

func (f *Film) normalize() error {
	if f.UUID == "" {
		return missingField(KindFilm, "uuid")
	}
	if f.Title == "" {
		return missingField(KindFilm, "title")
	}
	if f.Genre == nil {
		f.Genre = []GenreRef{}
	}
	if f.Directors == nil {
		f.Directors = []PersonRef{}
	}
	if f.Actors == nil {
		f.Actors = []PersonRef{}
	}
	if f.Writers == nil {
		f.Writers = []PersonRef{}
	}
	return nil
}

// Genre is a genre document from the genres index.
type Genre struct {
	UUID        string  `json:"uuid" msgpack:"uuid"`
	Name        string  `json:"name" msgpack:"name"`
	Description *string `json:"description" msgpack:"description"`
	Popularity  *int    `json:"popularity" msgpack:"popularity"`
}

func (g *Genre) EntityID() string { return g.UUID }
func (g *Genre) EntityKind() Kind { return KindGenre }

func (g *Genre) normalize() error {
	if g.UUID == "" {
		return missingField(KindGenre, "uuid")
	}
	if g.Name == "" {
		return missingField(KindGenre, "name")
	}
	return nil
}

// Role is the participation of a person in film works.
type Role string

const (
	RoleActor    Role = "actor"
	RoleDirector Role = "director"
	RoleWriter   Role = "writer"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleActor, RoleDirector, RoleWriter:
		return true
	}
	return false
}

// Person is a person document from the persons index.
type Person struct {
	UUID     string   `json:"uuid" msgpack:"uuid"`
	FullName string   `json:"full_name" msgpack:"full_name"`
	FilmIDs  []string `json:"film_ids" msgpack:"film_ids"`
	Role     *Role    `json:"role" msgpack:"role"`
}

func (p *Person) EntityID() string { return p.UUID }
func (p *Person) EntityKind() Kind { return KindPerson }

func (p *Person) normalize() error {
	if p.UUID == "" {
		return missingField(KindPerson, "uuid")
	}
	if p.FullName == "" {
		return missingField(KindPerson, "full_name")
	}
	if p.Role != nil && !p.Role.Valid() {
		return errors.Wrapf(ErrMalformedRecord, "%s: unknown role %q", KindPerson, string(*p.Role))
	}
	return nil
}

func missingField(kind Kind, field string) error {
	return errors.Wrapf(ErrMalformedRecord, "%s: missing required field %q", kind, field)
}
