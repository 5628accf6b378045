package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/mcostache/hemeroteca/pkg/config"
	"github.com/mcostache/hemeroteca/pkg/storage"
	"github.com/urfave/cli/v3"
)

// The loader expects one CSV file per corpus table, optionally gzipped.
var corpusFiles = []string{
	"magazines.csv",
	"magazine_years.csv",
	"magazine_numbers.csv",
	"pages.csv",
}

// ImportCommand creates the import command
func ImportCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Load a corpus from CSV exports into the database",
		ArgsUsage: "<directory>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Import into a database that already contains pages",
				Value: false,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one directory argument")
			}
			return importCorpus(c.String("config"), c.Args().First(), c.Bool("force"))
		},
	}
}

// importCorpus loads the four corpus CSV files from dir. The files must be
// imported in hierarchy order so foreign keys resolve.
func importCorpus(configPath, dir string, force bool) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Printf("Warning: failed to close database: %v\n", err)
		}
	}()

	if err := store.InitSchema(); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	stats, err := store.Stats()
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}
	if stats["pages"] > 0 && !force {
		return fmt.Errorf("database at %s already contains %d pages, use --force to import anyway", cfg.DatabasePath, stats["pages"])
	}

	for _, name := range corpusFiles {
		path, err := resolveCorpusFile(dir, name)
		if err != nil {
			return err
		}

		records, err := readCSV(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		count, err := importRecords(store, name, records)
		if err != nil {
			return fmt.Errorf("importing %s: %w", path, err)
		}
		fmt.Printf("Imported %d rows from %s\n", count, filepath.Base(path))
	}

	fmt.Println("Running ANALYZE...")
	if err := store.Analyze(); err != nil {
		return fmt.Errorf("analyzing database: %w", err)
	}

	return nil
}

// resolveCorpusFile finds name or name.gz inside dir.
func resolveCorpusFile(dir, name string) (string, error) {
	plain := filepath.Join(dir, name)
	if _, err := os.Stat(plain); err == nil {
		return plain, nil
	}
	gzipped := plain + ".gz"
	if _, err := os.Stat(gzipped); err == nil {
		return gzipped, nil
	}
	return "", fmt.Errorf("neither %s nor %s.gz found in %s", name, name, dir)
}

// readCSV reads all records from a CSV file, transparently decompressing
// .gz files. The first row is treated as a header and skipped.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		defer func() {
			_ = gz.Close()
		}()
		r = gz
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file is empty")
	}
	return records[1:], nil
}

func importRecords(store *storage.Storage, name string, records [][]string) (int, error) {
	switch name {
	case "magazines.csv":
		magazines := make([]storage.Magazine, len(records))
		for i, rec := range records {
			if len(rec) < 2 {
				return 0, fmt.Errorf("row %d: expected at least 2 fields, got %d", i+1, len(rec))
			}
			id, err := strconv.ParseInt(rec[0], 10, 64)
			if err != nil {
				return 0, fmt.Errorf("row %d: bad id %q", i+1, rec[0])
			}
			magazines[i] = storage.Magazine{ID: id, Name: rec[1], Link: field(rec, 2)}
		}
		return len(magazines), store.ImportMagazines(magazines)

	case "magazine_years.csv":
		years := make([]storage.MagazineYear, len(records))
		for i, rec := range records {
			if len(rec) < 3 {
				return 0, fmt.Errorf("row %d: expected at least 3 fields, got %d", i+1, len(rec))
			}
			id, err := strconv.ParseInt(rec[0], 10, 64)
			if err != nil {
				return 0, fmt.Errorf("row %d: bad id %q", i+1, rec[0])
			}
			magazineID, err := strconv.ParseInt(rec[1], 10, 64)
			if err != nil {
				return 0, fmt.Errorf("row %d: bad magazine id %q", i+1, rec[1])
			}
			years[i] = storage.MagazineYear{ID: id, MagazineID: magazineID, Year: rec[2], Link: field(rec, 3)}
		}
		return len(years), store.ImportYears(years)

	case "magazine_numbers.csv":
		numbers := make([]storage.MagazineNumber, len(records))
		for i, rec := range records {
			if len(rec) < 3 {
				return 0, fmt.Errorf("row %d: expected at least 3 fields, got %d", i+1, len(rec))
			}
			id, err := strconv.ParseInt(rec[0], 10, 64)
			if err != nil {
				return 0, fmt.Errorf("row %d: bad id %q", i+1, rec[0])
			}
			yearID, err := strconv.ParseInt(rec[1], 10, 64)
			if err != nil {
				return 0, fmt.Errorf("row %d: bad year id %q", i+1, rec[1])
			}
			numbers[i] = storage.MagazineNumber{ID: id, MagazineYearID: yearID, Number: rec[2], Link: field(rec, 3)}
		}
		return len(numbers), store.ImportNumbers(numbers)

	case "pages.csv":
		pages := make([]storage.Page, len(records))
		for i, rec := range records {
			if len(rec) < 4 {
				return 0, fmt.Errorf("row %d: expected 4 fields, got %d", i+1, len(rec))
			}
			id, err := strconv.ParseInt(rec[0], 10, 64)
			if err != nil {
				return 0, fmt.Errorf("row %d: bad id %q", i+1, rec[0])
			}
			numberID, err := strconv.ParseInt(rec[1], 10, 64)
			if err != nil {
				return 0, fmt.Errorf("row %d: bad number id %q", i+1, rec[1])
			}
			pages[i] = storage.Page{ID: id, MagazineNumberID: numberID, Page: rec[2], Content: rec[3]}
		}
		return len(pages), store.ImportPages(pages)
	}

	return 0, fmt.Errorf("unknown corpus file %s", name)
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}
