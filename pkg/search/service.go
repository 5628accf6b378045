package search

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mcostache/hemeroteca/pkg/log"
	"github.com/mcostache/hemeroteca/pkg/preview"
	"github.com/mcostache/hemeroteca/pkg/storage"
)

// Params carries one search request: the raw query string as the user typed
// it, an optional magazine filter, and the pagination position.
type Params struct {
	// Query is the raw, unsanitized term. The service formats and
	// validates it before querying.
	Query string

	// Magazine restricts hits to one magazine by name. Empty means all.
	Magazine string

	// Page is the 1-based result page.
	Page int

	// PerPage overrides the service's configured page size when positive.
	PerPage int
}

// Facet is the number of matching pages in one magazine, used to render
// the filter links next to the results.
type Facet struct {
	Magazine string
	Count    int
}

// Hit is one result row: the matched page's publication details plus the
// highlighted preview snippet, ready for rendering.
type Hit struct {
	Magazine   string `json:"magazine"`
	Year       string `json:"year"`
	Number     string `json:"number"`
	Page       string `json:"page"`
	NumberLink string `json:"number_link,omitempty"`
	PageID     int64  `json:"page_id"`
	Preview    string `json:"preview"`
}

// Results is one page of search results with pagination metadata.
type Results struct {
	// Term is the sanitized term the query actually ran with.
	Term string

	// Magazine echoes the filter, empty when searching all magazines.
	Magazine string

	Hits   []Hit
	Facets []Facet

	// TotalCount is the number of matching pages across all result pages,
	// honoring the magazine filter.
	TotalCount int

	TotalPages int
	Page       int
	PerPage    int
	HasMore    bool
}

// Options configures a Service.
type Options struct {
	// PerPage is the default result page size.
	PerPage int

	// CacheTTL bounds how long match counts and facets are reused.
	CacheTTL time.Duration

	// AcceptedSpecials lists extra characters FormatTerm keeps in terms.
	AcceptedSpecials string
}

// Service executes corpus searches. It is safe for concurrent use.
type Service struct {
	store            *storage.Storage
	previews         *preview.Builder
	cache            *countCache
	perPage          int
	acceptedSpecials string
	logger           *log.Logger
}

// NewService creates a search service over store, using previews to build
// the highlighted snippet for each hit.
func NewService(store *storage.Storage, previews *preview.Builder, opts Options) *Service {
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = 10
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &Service{
		store:            store,
		previews:         previews,
		cache:            newCountCache(ttl),
		perPage:          perPage,
		acceptedSpecials: opts.AcceptedSpecials,
		logger:           log.ForService("search"),
	}
}

// ParseParams reads search parameters from an HTTP query string. It accepts
// both the web form's names (search_box, magazine_filter) and the API's
// short names (q, magazine). Missing or invalid page numbers default to 1.
func ParseParams(queryParams map[string][]string) Params {
	params := Params{Page: 1}

	first := func(keys ...string) string {
		for _, key := range keys {
			if vs := queryParams[key]; len(vs) > 0 && vs[0] != "" {
				return vs[0]
			}
		}
		return ""
	}

	params.Query = first("q", "search_box")
	params.Magazine = first("magazine", "magazine_filter")

	if parsed, err := strconv.Atoi(first("page")); err == nil && parsed > 0 {
		params.Page = parsed
	}
	if parsed, err := strconv.Atoi(first("per_page")); err == nil && parsed > 0 {
		params.PerPage = parsed
	}

	return params
}

// Search sanitizes and validates the term, then returns one page of hits
// with previews, the magazine facets, and pagination metadata. A term whose
// sanitized form falls outside the accepted length range returns
// ErrTermLength.
func (s *Service) Search(params Params) (*Results, error) {
	term := FormatTerm(params.Query, s.acceptedSpecials)
	if err := ValidateTerm(term); err != nil {
		return nil, err
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	perPage := params.PerPage
	if perPage <= 0 {
		perPage = s.perPage
	}

	facets, err := s.facets(term)
	if err != nil {
		return nil, err
	}

	count, err := s.countMatches(term, params.Magazine)
	if err != nil {
		return nil, err
	}

	totalPages := (count + perPage - 1) / perPage

	results := &Results{
		Term:       term,
		Magazine:   params.Magazine,
		Facets:     facets,
		TotalCount: count,
		TotalPages: totalPages,
		Page:       page,
		PerPage:    perPage,
		HasMore:    page < totalPages,
	}
	if count == 0 {
		return results, nil
	}

	offset := (page - 1) * perPage
	hits, err := s.store.SearchPages(term, params.Magazine, perPage, offset)
	if err != nil {
		return nil, fmt.Errorf("searching pages: %w", err)
	}

	pageIDs := make([]int64, len(hits))
	for i, h := range hits {
		pageIDs[i] = h.PageID
	}
	previews := s.previews.ForPages(term, pageIDs)

	results.Hits = make([]Hit, len(hits))
	for i, h := range hits {
		results.Hits[i] = Hit{
			Magazine:   h.Magazine,
			Year:       h.Year,
			Number:     h.Number,
			Page:       h.Page,
			NumberLink: h.NumberLink,
			PageID:     h.PageID,
			Preview:    previews[i].HTML,
		}
	}

	return results, nil
}

// Count returns the cached total match count for a sanitized term without
// fetching hits. Used by the stats endpoint.
func (s *Service) Count(term, magazine string) (int, error) {
	if err := ValidateTerm(term); err != nil {
		return 0, err
	}
	return s.countMatches(term, magazine)
}

func (s *Service) countMatches(term, magazine string) (int, error) {
	key := term
	if magazine != "" {
		key = magazine + "\x00" + term
	}

	if count, ok := s.cache.count(key); ok {
		s.logger.Debugf("count cache hit for %q", key)
		return count, nil
	}

	count, err := s.store.CountMatches(term, magazine)
	if err != nil {
		return 0, fmt.Errorf("counting matches: %w", err)
	}
	s.cache.setCount(key, count)
	return count, nil
}

func (s *Service) facets(term string) ([]Facet, error) {
	if facets, ok := s.cache.facetList(term); ok {
		s.logger.Debugf("facet cache hit for %q", term)
		return facets, nil
	}

	stored, err := s.store.MagazineFacets(term)
	if err != nil {
		return nil, fmt.Errorf("fetching facets: %w", err)
	}

	facets := make([]Facet, len(stored))
	for i, f := range stored {
		facets[i] = Facet{Magazine: f.Magazine, Count: f.Count}
	}
	s.cache.setFacetList(term, facets)
	return facets, nil
}
