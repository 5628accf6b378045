package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/mcostache/hemeroteca/pkg/search"
	"github.com/mcostache/hemeroteca/pkg/version"
)

func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	params := search.ParseParams(r.URL.Query())

	// API requires a query parameter
	if params.Query == "" {
		s.writeError(w, http.StatusBadRequest, "Missing query parameter", "Query parameter 'q' is required")
		return
	}

	results, err := s.service.Search(params)
	if errors.Is(err, search.ErrTermLength) {
		s.writeError(w, http.StatusBadRequest, "Invalid query", err.Error())
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Search failed", err.Error())
		return
	}

	hits := results.Hits
	if hits == nil {
		hits = []search.Hit{}
	}
	facets := make([]FacetResponse, len(results.Facets))
	for i, f := range results.Facets {
		facets[i] = FacetResponse{Magazine: f.Magazine, Count: f.Count}
	}

	response := SearchResponse{
		Query:      results.Term,
		Magazine:   results.Magazine,
		Hits:       hits,
		Facets:     facets,
		TotalCount: results.TotalCount,
		Page:       results.Page,
		PerPage:    results.PerPage,
		TotalPages: results.TotalPages,
		HasMore:    results.HasMore,
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) HandleListMagazines(w http.ResponseWriter, r *http.Request) {
	magazines, err := s.store.Magazines()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to list magazines", err.Error())
		return
	}

	responses := make([]MagazineResponse, len(magazines))
	for i, m := range magazines {
		responses[i] = MagazineResponse{ID: m.ID, Name: m.Name, Link: m.Link}
	}

	s.writeJSON(w, http.StatusOK, ListMagazinesResponse{
		Magazines: responses,
		Count:     len(responses),
	})
}

func (s *Server) HandleMagazineDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid path", "Magazine id must be an integer")
		return
	}

	name, err := s.store.MagazineName(id)
	if errors.Is(err, sql.ErrNoRows) {
		s.writeError(w, http.StatusNotFound, "Magazine not found", fmt.Sprintf("Magazine %d does not exist", id))
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to load magazine", err.Error())
		return
	}

	details, err := s.store.MagazineDetails(id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to load magazine", err.Error())
		return
	}

	years := make([]YearResponse, len(details))
	for i, d := range details {
		years[i] = YearResponse{Year: d.Year, Numbers: d.Numbers, Pages: d.Pages}
	}

	s.writeJSON(w, http.StatusOK, MagazineDetailsResponse{
		ID:    id,
		Name:  name,
		Years: years,
	})
}

func (s *Server) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to get stats", err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.APIVersion(),
	}

	s.writeJSON(w, http.StatusOK, health)
}
