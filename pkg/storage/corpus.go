package storage

import (
	"database/sql"
	"fmt"
)

// Magazine, MagazineYear, MagazineNumber and Page mirror the rows of the
// corpus tables. A magazine has years, a year has numbers (issues), a
// number has pages; each page carries the OCR transcription of one
// physical page.
type Magazine struct {
	ID   int64
	Name string
	Link string
}

type MagazineYear struct {
	ID         int64
	MagazineID int64
	Year       string
	Link       string
}

type MagazineNumber struct {
	ID             int64
	MagazineYearID int64
	Number         string
	Link           string
}

type Page struct {
	ID               int64
	MagazineNumberID int64
	Page             string
	Content          string
}

// ImportMagazines inserts magazine rows in one transaction.
func (s *Storage) ImportMagazines(magazines []Magazine) error {
	return s.inTx("magazines", func(tx *sql.Tx) error {
		for _, m := range magazines {
			if _, err := tx.Exec(
				"INSERT INTO magazines (id, name, link) VALUES (?, ?, ?)",
				m.ID, m.Name, m.Link,
			); err != nil {
				return fmt.Errorf("inserting magazine %d: %w", m.ID, err)
			}
		}
		return nil
	})
}

// ImportYears inserts magazine-year rows in one transaction.
func (s *Storage) ImportYears(years []MagazineYear) error {
	return s.inTx("magazine years", func(tx *sql.Tx) error {
		for _, y := range years {
			if _, err := tx.Exec(
				"INSERT INTO magazine_years (id, magazine_id, year, link) VALUES (?, ?, ?, ?)",
				y.ID, y.MagazineID, y.Year, y.Link,
			); err != nil {
				return fmt.Errorf("inserting year %d: %w", y.ID, err)
			}
		}
		return nil
	})
}

// ImportNumbers inserts magazine-number rows in one transaction.
func (s *Storage) ImportNumbers(numbers []MagazineNumber) error {
	return s.inTx("magazine numbers", func(tx *sql.Tx) error {
		for _, n := range numbers {
			if _, err := tx.Exec(
				"INSERT INTO magazine_numbers (id, magazine_year_id, number, link) VALUES (?, ?, ?, ?)",
				n.ID, n.MagazineYearID, n.Number, n.Link,
			); err != nil {
				return fmt.Errorf("inserting number %d: %w", n.ID, err)
			}
		}
		return nil
	})
}

// ImportPages inserts page rows and their FTS index entries together, in
// one transaction, so the index can never drift from the content table.
func (s *Storage) ImportPages(pages []Page) error {
	if len(pages) == 0 {
		return nil
	}

	return s.inTx("pages", func(tx *sql.Tx) error {
		stmt, err := tx.Prepare("INSERT INTO pages (id, magazine_number_id, page, content) VALUES (?, ?, ?, ?)")
		if err != nil {
			return fmt.Errorf("preparing pages statement: %w", err)
		}
		defer stmt.Close()

		ftsStmt, err := tx.Prepare("INSERT INTO pages_fts (rowid, content) VALUES (?, ?)")
		if err != nil {
			return fmt.Errorf("preparing FTS statement: %w", err)
		}
		defer ftsStmt.Close()

		for _, p := range pages {
			if _, err := stmt.Exec(p.ID, p.MagazineNumberID, p.Page, p.Content); err != nil {
				return fmt.Errorf("inserting page %d: %w", p.ID, err)
			}
			if _, err := ftsStmt.Exec(p.ID, p.Content); err != nil {
				return fmt.Errorf("indexing page %d: %w", p.ID, err)
			}
		}
		return nil
	})
}

func (s *Storage) inTx(what string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %s: %w", what, err)
	}
	committed = true
	return nil
}
