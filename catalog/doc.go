// Package catalog defines the read-only entities served by the catalog
// (films, genres and persons) and the codec that turns raw records into them.
//
// # Kinds
//
// Every entity carries a Kind tag. The tag selects both the search index the
// entity lives in (Kind.Index) and the constructor used when decoding:
//
//	KindFilm   -> "movies"
//	KindGenre  -> "genres"
//	KindPerson -> "persons"
//
// The registry is a static map; there is no runtime type lookup by name.
//
// # Formats
//
// Index documents arrive as JSON and are decoded with DecodeSource.
// Cache payloads are msgpack and go through EncodeCached / DecodeCached
// (single entities) or EncodeCachedList / DecodeCachedList (ordered lists).
// Decoding an index record and decoding the same record after a cache round
// trip yield equal values: empty embedded lists on films always come back
// as empty, non-nil slices.
//
// # Errors
//
// ErrUnknownKind marks a wiring mistake. ErrMalformedRecord marks a record
// that lacks a required field; callers treat such a record as absent. A film
// index document must carry genre, directors, actors and writers, possibly
// empty.
//
// FilmError, GenreError and PersonError are closed sets of outcome kinds.
// They carry no user-facing text; the HTTP boundary maps them to messages.
package catalog
