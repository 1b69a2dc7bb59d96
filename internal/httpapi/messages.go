package httpapi

import (
	"net/http"

	"github.com/goliatone/go-catalog-cache/catalog"
)

// messages holds the user facing text of every catalog outcome.
var messages = map[error]string{
	catalog.FilmNoItemForRequest:   "No films found based on your request",
	catalog.FilmItemNotFound:       "The film is not found",
	catalog.FilmNoSimilar:          "No similar films found",
	catalog.FilmWrongSortParameter: "Wrong sort parameter",

	catalog.GenreNoItem:         "No genres found",
	catalog.GenreItemNotFound:   "The genre is not found",
	catalog.GenreNoPopularFilms: "No popular films for the genre",

	catalog.PersonNoItem:        "No persons found",
	catalog.PersonItemNotFound:  "The person is not found",
	catalog.PersonFilmsNotFound: "No films found for this person",
}

const internalErrorMessage = "Internal server error"

func messageFor(outcome error) string {
	if msg, ok := messages[outcome]; ok {
		return msg
	}
	return outcome.Error()
}

func statusFor(outcome error) int {
	if outcome == catalog.FilmWrongSortParameter {
		return http.StatusBadRequest
	}
	return http.StatusNotFound
}
