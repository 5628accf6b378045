package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/mcostache/hemeroteca/pkg/config"
	"github.com/mcostache/hemeroteca/pkg/storage"
	"github.com/urfave/cli/v3"
)

// StatsCommand creates the stats command
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show corpus statistics",
		Action: func(ctx context.Context, c *cli.Command) error {
			return showStats(c.String("config"))
		},
	}
}

// showStats displays corpus row counts and per-magazine coverage
func showStats(configPath string) error {
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

	stats, err := store.Stats()
	if err != nil {
		return fmt.Errorf("getting stats: %w", err)
	}

	formatStats(stats)

	magazines, err := store.Magazines()
	if err != nil {
		return fmt.Errorf("listing magazines: %w", err)
	}

	if len(magazines) > 0 {
		fmt.Printf("\nMagazines:\n")
		fmt.Printf("──────────\n")
		for _, m := range magazines {
			details, err := store.MagazineDetails(m.ID)
			if err != nil {
				return fmt.Errorf("details for %s: %w", m.Name, err)
			}
			pages := 0
			for _, d := range details {
				pages += d.Pages
			}
			span := ""
			if len(details) > 0 {
				span = fmt.Sprintf(", %s-%s", details[0].Year, details[len(details)-1].Year)
			}
			fmt.Printf("  %s: %d years%s, %s pages\n", m.Name, len(details), span, formatNumber(pages))
		}
	}

	return nil
}

// formatNumber formats a number with K/M suffixes for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	} else if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	} else {
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
}

// formatStats formats the corpus table counts for display
func formatStats(stats map[string]int) {
	fmt.Printf("Corpus Statistics\n")
	fmt.Printf("═════════════════\n\n")

	tables := make([]string, 0, len(stats))
	for table := range stats {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	for _, table := range tables {
		fmt.Printf("%-18s %s\n", table+":", formatNumber(stats[table]))
	}
}
