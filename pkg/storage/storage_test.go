package storage

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
)

func testStorage(t *testing.T) *Storage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if err := s.InitSchema(); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}
	return s
}

// seedCorpus loads a small two-magazine corpus:
//
//	Natura (1905): no. 1 with pages 1-2, no. 2 with page 1
//	Albina (1898): no. 5 with page 3
func seedCorpus(t *testing.T, s *Storage) {
	t.Helper()

	err := s.ImportMagazines([]Magazine{
		{ID: 1, Name: "Natura", Link: "https://example.org/natura"},
		{ID: 2, Name: "Albina", Link: ""},
	})
	if err != nil {
		t.Fatalf("ImportMagazines: %v", err)
	}

	err = s.ImportYears([]MagazineYear{
		{ID: 10, MagazineID: 1, Year: "1905"},
		{ID: 20, MagazineID: 2, Year: "1898"},
	})
	if err != nil {
		t.Fatalf("ImportYears: %v", err)
	}

	err = s.ImportNumbers([]MagazineNumber{
		{ID: 100, MagazineYearID: 10, Number: "1", Link: "https://example.org/natura/1905/1"},
		{ID: 101, MagazineYearID: 10, Number: "2"},
		{ID: 200, MagazineYearID: 20, Number: "5"},
	})
	if err != nil {
		t.Fatalf("ImportNumbers: %v", err)
	}

	err = s.ImportPages([]Page{
		{ID: 1000, MagazineNumberID: 100, Page: "1", Content: "Darwin a scris despre originea speciilor"},
		{ID: 1001, MagazineNumberID: 100, Page: "2", Content: "despre plante si animale"},
		{ID: 1002, MagazineNumberID: 101, Page: "1", Content: "o noua recenzie despre Darwin"},
		{ID: 2000, MagazineNumberID: 200, Page: "3", Content: "stiri agricole din acest an"},
	})
	if err != nil {
		t.Fatalf("ImportPages: %v", err)
	}
}

func TestInitSchemaIdempotent(t *testing.T) {
	s := testStorage(t)
	if err := s.InitSchema(); err != nil {
		t.Fatalf("second InitSchema: %v", err)
	}
}

func TestStats(t *testing.T) {
	s := testStorage(t)
	seedCorpus(t, s)

	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	want := map[string]int{
		"magazines":        2,
		"magazine_years":   2,
		"magazine_numbers": 3,
		"pages":            4,
	}
	for table, count := range want {
		if stats[table] != count {
			t.Errorf("stats[%s] = %d, want %d", table, stats[table], count)
		}
	}
}

func TestSearchPages(t *testing.T) {
	s := testStorage(t)
	seedCorpus(t, s)

	hits, err := s.SearchPages("darwin", "", 10, 0)
	if err != nil {
		t.Fatalf("SearchPages: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}

	first := hits[0]
	if first.Magazine != "Natura" || first.Year != "1905" || first.Number != "1" || first.Page != "1" {
		t.Errorf("unexpected first hit: %+v", first)
	}
	if first.NumberLink != "https://example.org/natura/1905/1" {
		t.Errorf("NumberLink = %q", first.NumberLink)
	}
	if first.PageID != 1000 {
		t.Errorf("PageID = %d, want 1000", first.PageID)
	}

	if hits[1].PageID != 1002 {
		t.Errorf("second hit PageID = %d, want 1002", hits[1].PageID)
	}
}

func TestSearchPagesPrefixMatch(t *testing.T) {
	s := testStorage(t)
	seedCorpus(t, s)

	// "speci" matches "speciilor" through the trailing prefix operator.
	hits, err := s.SearchPages("speci", "", 10, 0)
	if err != nil {
		t.Fatalf("SearchPages: %v", err)
	}
	if len(hits) != 1 || hits[0].PageID != 1000 {
		t.Fatalf("got %+v, want single hit for page 1000", hits)
	}
}

func TestSearchPagesPhrase(t *testing.T) {
	s := testStorage(t)
	seedCorpus(t, s)

	// The words appear on page 1000 but only adjacent and in order.
	hits, err := s.SearchPages("originea speciilor", "", 10, 0)
	if err != nil {
		t.Fatalf("SearchPages: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1", len(hits))
	}

	hits, err = s.SearchPages("speciilor originea", "", 10, 0)
	if err != nil {
		t.Fatalf("SearchPages: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("reversed phrase matched %d pages, want 0", len(hits))
	}
}

func TestSearchPagesMagazineFilter(t *testing.T) {
	s := testStorage(t)
	seedCorpus(t, s)

	hits, err := s.SearchPages("despre", "Natura", 10, 0)
	if err != nil {
		t.Fatalf("SearchPages: %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("got %d hits, want 3", len(hits))
	}
	for _, h := range hits {
		if h.Magazine != "Natura" {
			t.Errorf("hit from %q leaked through the filter", h.Magazine)
		}
	}

	hits, err = s.SearchPages("despre", "Albina", 10, 0)
	if err != nil {
		t.Fatalf("SearchPages: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("got %d hits for Albina, want 0", len(hits))
	}
}

func TestSearchPagesPagination(t *testing.T) {
	s := testStorage(t)
	seedCorpus(t, s)

	page1, err := s.SearchPages("despre", "", 2, 0)
	if err != nil {
		t.Fatalf("SearchPages: %v", err)
	}
	page2, err := s.SearchPages("despre", "", 2, 2)
	if err != nil {
		t.Fatalf("SearchPages: %v", err)
	}
	if len(page1) != 2 || len(page2) != 1 {
		t.Fatalf("got %d + %d hits, want 2 + 1", len(page1), len(page2))
	}
	if page1[0].PageID == page2[0].PageID {
		t.Error("pagination returned a duplicate hit")
	}
}

func TestCountMatches(t *testing.T) {
	s := testStorage(t)
	seedCorpus(t, s)

	count, err := s.CountMatches("despre", "")
	if err != nil {
		t.Fatalf("CountMatches: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}

	count, err = s.CountMatches("despre", "Natura")
	if err != nil {
		t.Fatalf("CountMatches: %v", err)
	}
	if count != 3 {
		t.Errorf("filtered count = %d, want 3", count)
	}

	count, err = s.CountMatches("inexistent", "")
	if err != nil {
		t.Fatalf("CountMatches: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestMagazineFacets(t *testing.T) {
	s := testStorage(t)
	seedCorpus(t, s)

	facets, err := s.MagazineFacets("despre")
	if err != nil {
		t.Fatalf("MagazineFacets: %v", err)
	}
	if len(facets) != 1 {
		t.Fatalf("got %d facets, want 1", len(facets))
	}
	if facets[0].Magazine != "Natura" || facets[0].Count != 3 {
		t.Errorf("facet = %+v, want Natura/3", facets[0])
	}
}

func TestPageContent(t *testing.T) {
	s := testStorage(t)
	seedCorpus(t, s)

	content, err := s.PageContent(1001)
	if err != nil {
		t.Fatalf("PageContent: %v", err)
	}
	if content != "despre plante si animale" {
		t.Errorf("content = %q", content)
	}

	if _, err := s.PageContent(9999); err == nil {
		t.Error("expected error for missing page")
	}
}

func TestMagazines(t *testing.T) {
	s := testStorage(t)
	seedCorpus(t, s)

	magazines, err := s.Magazines()
	if err != nil {
		t.Fatalf("Magazines: %v", err)
	}
	if len(magazines) != 2 {
		t.Fatalf("got %d magazines, want 2", len(magazines))
	}
	// Ordered by name.
	if magazines[0].Name != "Albina" || magazines[1].Name != "Natura" {
		t.Errorf("order = %q, %q", magazines[0].Name, magazines[1].Name)
	}
}

func TestMagazineName(t *testing.T) {
	s := testStorage(t)
	seedCorpus(t, s)

	name, err := s.MagazineName(1)
	if err != nil {
		t.Fatalf("MagazineName: %v", err)
	}
	if name != "Natura" {
		t.Errorf("name = %q", name)
	}

	if _, err := s.MagazineName(99); err != sql.ErrNoRows {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestMagazineDetails(t *testing.T) {
	s := testStorage(t)
	seedCorpus(t, s)

	details, err := s.MagazineDetails(1)
	if err != nil {
		t.Fatalf("MagazineDetails: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("got %d years, want 1", len(details))
	}
	d := details[0]
	if d.Year != "1905" || d.Numbers != 2 || d.Pages != 3 {
		t.Errorf("details = %+v, want 1905/2/3", d)
	}
}

func TestMatchExpression(t *testing.T) {
	got := MatchExpression("originea speciilor")
	if got != `"originea speciilor"*` {
		t.Errorf("MatchExpression = %q", got)
	}
}

func TestCheckIntegrity(t *testing.T) {
	s := testStorage(t)
	seedCorpus(t, s)

	if err := s.CheckIntegrity(true); err != nil {
		t.Errorf("quick check: %v", err)
	}
	if err := s.CheckIntegrity(false); err != nil {
		t.Errorf("full check: %v", err)
	}
}

func TestOptimizeAndMaintenance(t *testing.T) {
	s := testStorage(t)
	seedCorpus(t, s)

	if err := s.Optimize(); err != nil {
		t.Errorf("Optimize: %v", err)
	}
	if err := s.Analyze(); err != nil {
		t.Errorf("Analyze: %v", err)
	}
	if err := s.Vacuum(); err != nil {
		t.Errorf("Vacuum: %v", err)
	}
	if err := s.WALCheckpoint(); err != nil {
		t.Errorf("WALCheckpoint: %v", err)
	}
}

func TestRebuildFTS(t *testing.T) {
	s := testStorage(t)
	seedCorpus(t, s)

	if err := s.RebuildFTS(); err != nil {
		t.Fatalf("RebuildFTS: %v", err)
	}

	// Search still works after a rebuild.
	hits, err := s.SearchPages("darwin", "", 10, 0)
	if err != nil {
		t.Fatalf("SearchPages: %v", err)
	}
	if len(hits) != 2 {
		t.Errorf("got %d hits after rebuild, want 2", len(hits))
	}
}

func TestImportPagesEmpty(t *testing.T) {
	s := testStorage(t)

	if err := s.ImportPages(nil); err != nil {
		t.Fatalf("ImportPages(nil): %v", err)
	}
}

func TestImportRollsBackOnError(t *testing.T) {
	s := testStorage(t)
	seedCorpus(t, s)

	// Duplicate primary key in the second row fails the whole batch.
	err := s.ImportMagazines([]Magazine{
		{ID: 50, Name: "Revista Noua"},
		{ID: 1, Name: "Natura"},
	})
	if err == nil {
		t.Fatal("expected import error")
	}
	if !strings.Contains(err.Error(), "inserting magazine 1") {
		t.Errorf("err = %v", err)
	}

	magazines, err := s.Magazines()
	if err != nil {
		t.Fatalf("Magazines: %v", err)
	}
	if len(magazines) != 2 {
		t.Errorf("got %d magazines after failed import, want 2", len(magazines))
	}
}
