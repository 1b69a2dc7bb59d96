// Package search builds the queries the catalog sends to its full-text index.
//
// A Request carries a small query tree (MatchAll, QueryString, Nested, Bool,
// Match), an optional sort and a page window. Source renders it as an
// Elasticsearch request body; the in-memory index walks the same tree.
//
// Pagination is page/size based. Values below 1 fall back to DefaultPage
// and DefaultPageSize, and the window starts at (page-1)*size.
package search
