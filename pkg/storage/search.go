package storage

import (
	"database/sql"
	"fmt"
)

// Hit is one full-text search result: the page that matched and the
// publication details needed to present it.
type Hit struct {
	Magazine   string
	Year       string
	Number     string
	Page       string
	NumberLink string
	PageID     int64
}

// Facet is the number of matching pages inside one magazine.
type Facet struct {
	Magazine string
	Count    int
}

// MatchExpression builds the FTS5 MATCH argument for a sanitized term: a
// quoted phrase with prefix matching, so "originea speciilor" matches
// "originea speciilor" and "originea speciilorul" but not reordered words.
func MatchExpression(term string) string {
	return `"` + term + `"*`
}

const hitQuery = `
	SELECT m.name, y.year, n.number, p.page, n.link, p.id
	FROM magazines m
	JOIN magazine_years y ON y.magazine_id = m.id
	JOIN magazine_numbers n ON n.magazine_year_id = y.id
	JOIN pages p ON p.magazine_number_id = n.id
	JOIN pages_fts f ON f.rowid = p.id
	WHERE pages_fts MATCH ?`

// SearchPages returns one page of hits for term. With a non-empty magazine
// filter only that magazine's pages are returned. Hits are ordered by
// magazine, year, issue and page so results read in publication order.
func (s *Storage) SearchPages(term, magazine string, limit, offset int) ([]Hit, error) {
	query := hitQuery
	args := []any{MatchExpression(term)}

	if magazine != "" {
		query += " AND m.name = ?"
		args = append(args, magazine)
	}
	query += " ORDER BY m.name, y.year, n.number, p.page LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying pages: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		var link sql.NullString
		if err := rows.Scan(&h.Magazine, &h.Year, &h.Number, &h.Page, &link, &h.PageID); err != nil {
			return nil, fmt.Errorf("scanning hit: %w", err)
		}
		h.NumberLink = link.String
		hits = append(hits, h)
	}

	return hits, rows.Err()
}

// CountMatches returns the total number of pages matching term, optionally
// restricted to one magazine.
func (s *Storage) CountMatches(term, magazine string) (int, error) {
	query := `
	SELECT COUNT(*)
	FROM magazines m
	JOIN magazine_years y ON y.magazine_id = m.id
	JOIN magazine_numbers n ON n.magazine_year_id = y.id
	JOIN pages p ON p.magazine_number_id = n.id
	JOIN pages_fts f ON f.rowid = p.id
	WHERE pages_fts MATCH ?`
	args := []any{MatchExpression(term)}

	if magazine != "" {
		query += " AND m.name = ?"
		args = append(args, magazine)
	}

	var count int
	if err := s.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting matches: %w", err)
	}
	return count, nil
}

// MagazineFacets returns, per magazine, how many of its pages match term.
// Magazines without matches are omitted.
func (s *Storage) MagazineFacets(term string) ([]Facet, error) {
	query := `
	SELECT m.name, COUNT(*)
	FROM magazines m
	JOIN magazine_years y ON y.magazine_id = m.id
	JOIN magazine_numbers n ON n.magazine_year_id = y.id
	JOIN pages p ON p.magazine_number_id = n.id
	JOIN pages_fts f ON f.rowid = p.id
	WHERE pages_fts MATCH ?
	GROUP BY m.name
	ORDER BY m.name`

	rows, err := s.db.Query(query, MatchExpression(term))
	if err != nil {
		return nil, fmt.Errorf("querying facets: %w", err)
	}
	defer rows.Close()

	var facets []Facet
	for rows.Next() {
		var f Facet
		if err := rows.Scan(&f.Magazine, &f.Count); err != nil {
			return nil, fmt.Errorf("scanning facet: %w", err)
		}
		facets = append(facets, f)
	}

	return facets, rows.Err()
}

// PageContent returns the raw OCR transcription of one page. It implements
// preview.ContentSource.
func (s *Storage) PageContent(pageID int64) (string, error) {
	var content string
	err := s.db.QueryRow("SELECT content FROM pages WHERE id = ?", pageID).Scan(&content)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("page %d not found", pageID)
	}
	if err != nil {
		return "", fmt.Errorf("fetching page %d: %w", pageID, err)
	}
	return content, nil
}

// Magazines lists every magazine in the corpus, ordered by name.
func (s *Storage) Magazines() ([]Magazine, error) {
	rows, err := s.db.Query("SELECT id, name, COALESCE(link, '') FROM magazines ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying magazines: %w", err)
	}
	defer rows.Close()

	var magazines []Magazine
	for rows.Next() {
		var m Magazine
		if err := rows.Scan(&m.ID, &m.Name, &m.Link); err != nil {
			return nil, fmt.Errorf("scanning magazine: %w", err)
		}
		magazines = append(magazines, m)
	}

	return magazines, rows.Err()
}

// MagazineName resolves a magazine id to its name. A missing id returns
// sql.ErrNoRows.
func (s *Storage) MagazineName(id int64) (string, error) {
	var name string
	if err := s.db.QueryRow("SELECT name FROM magazines WHERE id = ?", id).Scan(&name); err != nil {
		return "", err
	}
	return name, nil
}

// YearDetails summarizes one publication year of a magazine.
type YearDetails struct {
	Year    string
	Numbers int
	Pages   int
}

// MagazineDetails returns, for every year of one magazine, how many distinct
// issues and digitized pages the corpus holds.
func (s *Storage) MagazineDetails(magazineID int64) ([]YearDetails, error) {
	query := `
	SELECT y.year, COUNT(DISTINCT n.id), COUNT(p.id)
	FROM magazine_years y
	JOIN magazine_numbers n ON n.magazine_year_id = y.id
	JOIN pages p ON p.magazine_number_id = n.id
	WHERE y.magazine_id = ?
	GROUP BY y.year
	ORDER BY y.year`

	rows, err := s.db.Query(query, magazineID)
	if err != nil {
		return nil, fmt.Errorf("querying magazine details: %w", err)
	}
	defer rows.Close()

	var details []YearDetails
	for rows.Next() {
		var d YearDetails
		if err := rows.Scan(&d.Year, &d.Numbers, &d.Pages); err != nil {
			return nil, fmt.Errorf("scanning year details: %w", err)
		}
		details = append(details, d)
	}

	return details, rows.Err()
}
