// Package cache defines the byte store used by the retrieval services and
// the key serializer that names its entries.
//
// # Overview
//
// This package exports two interfaces and the configuration of their
// implementations:
//
//   - Store: a string-keyed byte store with expiring keys
//   - KeySerializer: builds stable cache keys from a namespace and arguments
//
// Implementations of Store live in internal/cacheinfra: a Redis adapter for
// shared deployments and an in-process sturdyc adapter for local runs and
// tests. Config.Backend selects one of them.
//
// # Store Contract
//
// Get reports found=false on a miss. Errors are returned unchanged; a Store
// never decides that an unreachable backend is a miss. That decision belongs
// to the caller, which in this module always treats a cache error as a miss
// and keeps serving from the index.
//
// Every entry is written with the same lifetime, TTL (300 seconds), unless
// Config.TTL overrides it for the whole process.
//
// # Key Serialization Strategy
//
// The default key serializer joins the namespace and one segment per
// argument with KeySeparator:
//
//	serializer := cache.NewDefaultKeySerializer()
//	key := serializer.SerializeKey("film::search", "star wars", 1, 50)
//	// film::search::"star wars"::1::50
//
// Segments are produced by reflection:
//
//   - Strings: Go quoted, so user text can never contain a bare separator
//   - Numbers and bools: strconv formatting
//   - Nil values and nil pointers: "nil"; other pointers are dereferenced
//   - Anything else: "json:" followed by its JSON encoding, or a type-named
//     fallback when JSON fails
//
// Two different argument lists never produce the same key, and equal
// argument lists always do. Namespaces are written verbatim and must not
// contain KeySeparator.
//
// # Custom Key Serializers
//
// A custom KeySerializer can be passed to the services, for instance to
// version every key so a release with a new payload layout starts cold:
//
//	type VersionedKeySerializer struct {
//		version string
//		next    cache.KeySerializer
//	}
//
//	func (s VersionedKeySerializer) SerializeKey(namespace string, args ...any) string {
//		return s.version + cache.KeySeparator + s.next.SerializeKey(namespace, args...)
//	}
//
// It must keep the injectivity guarantee above for the keys it is given.
package cache
