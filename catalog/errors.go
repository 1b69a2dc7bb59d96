package catalog

// FilmError enumerates the outcomes of film lookups that reach the user.
type FilmError int

const (
	FilmNoItemForRequest FilmError = iota + 1
	FilmItemNotFound
	FilmNoSimilar
	FilmWrongSortParameter
)

func (e FilmError) Error() string {
	switch e {
	case FilmNoItemForRequest:
		return "film: no item for request"
	case FilmItemNotFound:
		return "film: item not found"
	case FilmNoSimilar:
		return "film: no similar films"
	case FilmWrongSortParameter:
		return "film: wrong sort parameter"
	}
	return "film: unknown error"
}

// GenreError enumerates the outcomes of genre lookups that reach the user.
type GenreError int

const (
	GenreNoItem GenreError = iota + 1
	GenreItemNotFound
	GenreNoPopularFilms
)

func (e GenreError) Error() string {
	switch e {
	case GenreNoItem:
		return "genre: no item"
	case GenreItemNotFound:
		return "genre: item not found"
	case GenreNoPopularFilms:
		return "genre: no popular films"
	}
	return "genre: unknown error"
}

// PersonError enumerates the outcomes of person lookups that reach the user.
type PersonError int

const (
	PersonNoItem PersonError = iota + 1
	PersonItemNotFound
	PersonFilmsNotFound
)

func (e PersonError) Error() string {
	switch e {
	case PersonNoItem:
		return "person: no item"
	case PersonItemNotFound:
		return "person: item not found"
	case PersonFilmsNotFound:
		return "person: films not found"
	}
	return "person: unknown error"
}
