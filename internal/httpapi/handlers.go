package httpapi

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/goliatone/go-catalog-cache/catalog"
	"github.com/goliatone/go-catalog-cache/retrieval"
)

// Query parameter names.
const (
	ParamQuery       = "query"
	ParamPageNumber  = "page[number]"
	ParamPageSize    = "page[size]"
	ParamSort        = "sort"
	ParamGenreFilter = "filter[genre]"
)

// FilmShort is the film shape returned by list endpoints.
type FilmShort struct {
	UUID       string   `json:"uuid"`
	Title      string   `json:"title"`
	IMDbRating *float64 `json:"imdb_rating"`
}

func shortFilms(films []*catalog.Film) []FilmShort {
	out := make([]FilmShort, 0, len(films))
	for _, f := range films {
		out = append(out, FilmShort{UUID: f.UUID, Title: f.Title, IMDbRating: f.IMDbRating})
	}
	return out
}

// SearchFilms handles GET /films/search.
func (h *Handler) SearchFilms(w http.ResponseWriter, r *http.Request) {
	q, ok := pageQuery(w, r)
	if !ok {
		return
	}
	q.Text = r.URL.Query().Get(ParamQuery)

	films, err := h.films.Search(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(films) == 0 {
		reject(w, catalog.FilmNoItemForRequest)
		return
	}
	respondJSON(w, r, http.StatusOK, shortFilms(films))
}

// ListFilms handles GET /films.
func (h *Handler) ListFilms(w http.ResponseWriter, r *http.Request) {
	q, ok := pageQuery(w, r)
	if !ok {
		return
	}
	q.Sort = r.URL.Query().Get(ParamSort)
	q.Genre = r.URL.Query().Get(ParamGenreFilter)
	if err := q.Validate(); err != nil {
		reject(w, catalog.FilmWrongSortParameter)
		return
	}

	films, err := h.films.List(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(films) == 0 {
		reject(w, catalog.FilmNoItemForRequest)
		return
	}
	respondJSON(w, r, http.StatusOK, shortFilms(films))
}

// GetFilm handles GET /films/{id}.
func (h *Handler) GetFilm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		reject(w, catalog.FilmItemNotFound)
		return
	}

	film, found, err := h.films.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !found {
		reject(w, catalog.FilmItemNotFound)
		return
	}
	respondJSON(w, r, http.StatusOK, film)
}

// SimilarFilms handles GET /films/{id}/similar.
func (h *Handler) SimilarFilms(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		reject(w, catalog.FilmNoSimilar)
		return
	}
	q, ok := pageQuery(w, r)
	if !ok {
		return
	}

	films, err := h.films.Similar(r.Context(), id, q.Page, q.Size)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(films) == 0 {
		reject(w, catalog.FilmNoSimilar)
		return
	}
	respondJSON(w, r, http.StatusOK, shortFilms(films))
}

// ListGenres handles GET /genres.
func (h *Handler) ListGenres(w http.ResponseWriter, r *http.Request) {
	q, ok := pageQuery(w, r)
	if !ok {
		return
	}

	genres, err := h.genres.List(r.Context(), q.Page, q.Size)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(genres) == 0 {
		reject(w, catalog.GenreNoItem)
		return
	}
	respondJSON(w, r, http.StatusOK, genres)
}

// GetGenre handles GET /genres/{id}.
func (h *Handler) GetGenre(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		reject(w, catalog.GenreItemNotFound)
		return
	}

	genre, found, err := h.genres.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !found {
		reject(w, catalog.GenreItemNotFound)
		return
	}
	respondJSON(w, r, http.StatusOK, genre)
}

// PopularFilms handles GET /genres/{id}/popular.
func (h *Handler) PopularFilms(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		reject(w, catalog.GenreNoPopularFilms)
		return
	}
	q, ok := pageQuery(w, r)
	if !ok {
		return
	}

	films, err := h.genres.Films(r.Context(), id, q.Page, q.Size)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(films) == 0 {
		reject(w, catalog.GenreNoPopularFilms)
		return
	}
	respondJSON(w, r, http.StatusOK, shortFilms(films))
}

// SearchPersons handles GET /persons/search.
func (h *Handler) SearchPersons(w http.ResponseWriter, r *http.Request) {
	q, ok := pageQuery(w, r)
	if !ok {
		return
	}
	q.Text = r.URL.Query().Get(ParamQuery)

	persons, err := h.persons.Search(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(persons) == 0 {
		reject(w, catalog.PersonNoItem)
		return
	}
	respondJSON(w, r, http.StatusOK, persons)
}

// GetPerson handles GET /persons/{id}.
func (h *Handler) GetPerson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		reject(w, catalog.PersonItemNotFound)
		return
	}

	person, found, err := h.persons.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !found {
		reject(w, catalog.PersonItemNotFound)
		return
	}
	respondJSON(w, r, http.StatusOK, person)
}

// PersonFilms handles GET /persons/{id}/film.
func (h *Handler) PersonFilms(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		reject(w, catalog.PersonFilmsNotFound)
		return
	}

	films, err := h.persons.Films(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(films) == 0 {
		reject(w, catalog.PersonFilmsNotFound)
		return
	}
	respondJSON(w, r, http.StatusOK, shortFilms(films))
}

// fail logs an index failure and answers 500.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("catalog request failed",
		zap.String("request_id", r.Header.Get(RequestIDHeader)),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	respondError(w, http.StatusInternalServerError, internalErrorMessage)
}

// pathID returns the {id} route variable when it is a well formed UUID.
func pathID(r *http.Request) (string, bool) {
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// pageQuery reads the pagination parameters. Absent values are left zero
// for the services to default; malformed ones are answered with 422.
func pageQuery(w http.ResponseWriter, r *http.Request) (retrieval.Query, bool) {
	var q retrieval.Query
	values := r.URL.Query()

	for _, p := range []struct {
		name string
		dst  *int
	}{
		{ParamPageNumber, &q.Page},
		{ParamPageSize, &q.Size},
	} {
		raw := values.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, p.name+" must be an integer")
			return q, false
		}
		*p.dst = n
	}
	return q, true
}
