package cmd

import (
	"context"
	"fmt"

	"github.com/mcostache/hemeroteca/pkg/config"
	"github.com/mcostache/hemeroteca/pkg/storage"
	"github.com/urfave/cli/v3"
)

// OptimizeCommand creates the optimize command
func OptimizeCommand() *cli.Command {
	return &cli.Command{
		Name:  "optimize",
		Usage: "Database optimization and maintenance commands",
		Commands: []*cli.Command{
			{
				Name:  "check",
				Usage: "Run integrity checks on the database",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "quick",
						Usage: "Skip deep FTS5-specific integrity checks",
						Value: false,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withStorage(c.String("config"), func(store *storage.Storage) error {
						fmt.Println("Running integrity checks...")
						if err := store.CheckIntegrity(c.Bool("quick")); err != nil {
							return err
						}
						fmt.Println("Database is healthy")
						return nil
					})
				},
			},
			{
				Name:  "fts-rebuild",
				Usage: "Rebuild the FTS5 index from the pages table",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withStorage(c.String("config"), func(store *storage.Storage) error {
						fmt.Println("Rebuilding FTS index...")
						if err := store.RebuildFTS(); err != nil {
							return err
						}
						fmt.Println("FTS index rebuilt")
						return nil
					})
				},
			},
			{
				Name:  "analyze",
				Usage: "Run ANALYZE to update query planner statistics",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withStorage(c.String("config"), func(store *storage.Storage) error {
						fmt.Println("Running ANALYZE...")
						if err := store.Analyze(); err != nil {
							return err
						}
						fmt.Println("Statistics updated")
						return nil
					})
				},
			},
			{
				Name:  "vacuum",
				Usage: "Run VACUUM to defragment the database",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withStorage(c.String("config"), func(store *storage.Storage) error {
						fmt.Println("Running VACUUM...")
						if err := store.Vacuum(); err != nil {
							return err
						}
						fmt.Println("Database defragmented")
						return nil
					})
				},
			},
			{
				Name:  "checkpoint",
				Usage: "Checkpoint and truncate the WAL",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withStorage(c.String("config"), func(store *storage.Storage) error {
						fmt.Println("Checkpointing WAL...")
						if err := store.WALCheckpoint(); err != nil {
							return err
						}
						fmt.Println("WAL checkpointed")
						return nil
					})
				},
			},
			{
				Name:  "all",
				Usage: "Run the full maintenance pass: optimize, analyze, checkpoint",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withStorage(c.String("config"), func(store *storage.Storage) error {
						fmt.Println("Running PRAGMA optimize...")
						if err := store.Optimize(); err != nil {
							return err
						}
						fmt.Println("Running ANALYZE...")
						if err := store.Analyze(); err != nil {
							return err
						}
						fmt.Println("Checkpointing WAL...")
						if err := store.WALCheckpoint(); err != nil {
							return err
						}
						fmt.Println("Maintenance complete")
						return nil
					})
				},
			},
		},
	}
}

// withStorage opens the configured database, runs fn, and closes it.
func withStorage(configPath string, fn func(*storage.Storage) error) error {
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

	return fn(store)
}
