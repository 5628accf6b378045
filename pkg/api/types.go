package api

import (
	"time"

	"github.com/mcostache/hemeroteca/pkg/search"
)

type MagazineResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Link string `json:"link,omitempty"`
}

type ListMagazinesResponse struct {
	Magazines []MagazineResponse `json:"magazines"`
	Count     int                `json:"count"`
}

type YearResponse struct {
	Year    string `json:"year"`
	Numbers int    `json:"numbers"`
	Pages   int    `json:"pages"`
}

type MagazineDetailsResponse struct {
	ID    int64          `json:"id"`
	Name  string         `json:"name"`
	Years []YearResponse `json:"years"`
}

type FacetResponse struct {
	Magazine string `json:"magazine"`
	Count    int    `json:"count"`
}

type SearchResponse struct {
	Query      string          `json:"query"`
	Magazine   string          `json:"magazine,omitempty"`
	Hits       []search.Hit    `json:"hits"`
	Facets     []FacetResponse `json:"facets"`
	TotalCount int             `json:"total_count"`
	Page       int             `json:"page"`
	PerPage    int             `json:"per_page"`
	TotalPages int             `json:"total_pages"`
	HasMore    bool            `json:"has_more"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}
