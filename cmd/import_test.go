package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/mcostache/hemeroteca/pkg/storage"
)

func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()

	configPath := filepath.Join(dir, "config.toml")
	dbPath := filepath.Join(dir, "corpus.db")
	content := "database_path = '" + dbPath + "'\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return configPath
}

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func writeGzippedCSV(t *testing.T, dir, name, content string) {
	t.Helper()

	f, err := os.Create(filepath.Join(dir, name+".gz"))
	if err != nil {
		t.Fatalf("creating %s.gz: %v", name, err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(content)); err != nil {
		t.Fatalf("compressing %s: %v", name, err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("closing gzip stream: %v", err)
	}
}

func writeTestCorpus(t *testing.T, dir string) {
	t.Helper()

	writeCSV(t, dir, "magazines.csv",
		"id,name,link\n1,Natura,https://example.org/natura\n")
	writeCSV(t, dir, "magazine_years.csv",
		"id,magazine_id,year,link\n10,1,1905,\n")
	writeCSV(t, dir, "magazine_numbers.csv",
		"id,magazine_year_id,number,link\n100,10,1,https://example.org/natura/1905/1\n")
	// Pages are where the bulk of the data lives, so exports gzip them.
	writeGzippedCSV(t, dir, "pages.csv",
		"id,magazine_number_id,page,content\n1000,100,1,\"Darwin a scris despre originea speciilor\"\n")
}

func TestImportCorpus(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestConfig(t, dir)
	corpusDir := filepath.Join(dir, "corpus")
	if err := os.Mkdir(corpusDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeTestCorpus(t, corpusDir)

	if err := importCorpus(configPath, corpusDir, false); err != nil {
		t.Fatalf("importCorpus: %v", err)
	}

	store, err := storage.Open(filepath.Join(dir, "corpus.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	hits, err := store.SearchPages("darwin", "", 10, 0)
	if err != nil {
		t.Fatalf("SearchPages: %v", err)
	}
	if len(hits) != 1 || hits[0].Magazine != "Natura" {
		t.Fatalf("hits = %+v", hits)
	}
}

func TestImportCorpusRefusesNonEmpty(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestConfig(t, dir)
	corpusDir := filepath.Join(dir, "corpus")
	if err := os.Mkdir(corpusDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeTestCorpus(t, corpusDir)

	if err := importCorpus(configPath, corpusDir, false); err != nil {
		t.Fatalf("first import: %v", err)
	}

	err := importCorpus(configPath, corpusDir, false)
	if err == nil || !strings.Contains(err.Error(), "already contains") {
		t.Fatalf("second import err = %v", err)
	}
}

func TestImportCorpusMissingFile(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestConfig(t, dir)
	corpusDir := filepath.Join(dir, "corpus")
	if err := os.Mkdir(corpusDir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	err := importCorpus(configPath, corpusDir, false)
	if err == nil || !strings.Contains(err.Error(), "magazines.csv") {
		t.Fatalf("err = %v", err)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{42, "42"},
		{1500, "1.5K"},
		{2500000, "2.5M"},
	}
	for _, tt := range tests {
		if got := formatNumber(tt.n); got != tt.want {
			t.Errorf("formatNumber(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
