// Package retrieval implements cache-aside reads of catalog entities.
//
// Every read goes to the cache store first. On a miss the index is queried
// once, the result is decoded, written back with a fixed TTL and returned.
// The cache is advisory: read errors count as misses and write errors are
// logged and dropped, while index errors are returned to the caller.
//
// Keys are built by a cache.KeySerializer from a namespace made of the
// entity kind and the operation, followed by every parameter of the call:
//
//	film::get_by_id::"<id>"
//	film::search::"<text>"::<page>::<size>
//	film::list::"<sort>"::"<genre>"::<page>::<size>
//	film::similar::"<film id>"::<page>::<size>
//	genre::list::<page>::<size>
//	genre::films::"<genre id>"::<page>::<size>
//	person::films::"<person id>"
//
// Page and size are normalized before the key is built, so a call with
// zero values shares its entry with a call using the defaults.
//
// Lists are cached even when empty. A single entity that the index does
// not have is never cached, and neither is a list derived from one.
package retrieval
