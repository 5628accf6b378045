// Package search coordinates a full-text query over the periodical corpus.
//
// # Overview
//
// The search package sits between the HTTP layers (web UI and JSON API) and
// the storage layer. It sanitizes and validates the user's term, runs the
// FTS5 query with pagination and an optional magazine filter, caches result
// counts, and attaches a highlighted preview snippet to every hit.
//
// # Architecture
//
// Two main components:
//
//   - Term handling: FormatTerm strips characters FTS5 would reject and
//     ValidateTerm enforces the accepted length range, so the raw query
//     string from a form or URL can be passed in as-is.
//   - Service: executes searches against storage.Storage and builds
//     previews through preview.Builder.
//
// Counting matches is the expensive part of a query over a large corpus, so
// the service keeps a small TTL cache of per-term (and per-term-per-magazine)
// counts and facet lists. Hits and previews are always computed fresh.
//
// # Usage
//
//	service := search.NewService(store, previews, search.Options{
//		PerPage:  10,
//		CacheTTL: 15 * time.Minute,
//	})
//	params, err := search.ParseParams(r.URL.Query(), "")
//	results, err := service.Search(params)
package search
