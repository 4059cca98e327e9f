// Command export writes the preset_prompts table out as an export
// document, the same artifact the import command consumes.
//
// Usage: export [path-to-export.json]
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/photomaton/presetsync/internal/config"
	"github.com/photomaton/presetsync/internal/presets"
	"github.com/photomaton/presetsync/pkg/database"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	outPath := cfg.ExportFile
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Open(ctx); err != nil {
		return err
	}

	items, err := presets.New(db.Connection(), logger).List(ctx)
	if err != nil {
		return err
	}

	doc := presets.NewDocument(items)
	data, err := doc.Encode()
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	fmt.Printf("Exported %d presets to %s\n", doc.PresetsCount, outPath)
	return nil
}
