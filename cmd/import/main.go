// Command import loads a preset export document and reconciles it
// against the preset_prompts table, inserting new presets and
// updating existing ones by preset_id. Existing rows absent from the
// document are left untouched.
//
// Usage: import [path-to-export.json]
package main

import (
	"context"
	"errors"
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
		if errors.Is(err, presets.ErrFileNotFound) {
			fmt.Fprintln(os.Stderr, "\nusage: import [path-to-export.json]")
		}
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	filePath := cfg.ExportFile
	if len(os.Args) > 1 {
		filePath = os.Args[1]
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	fmt.Println("Importing presets into database...")
	fmt.Printf("Import file: %s\n", filePath)
	fmt.Printf("Database: %s\n\n", cfg.Database.Path)

	// The document is validated in full before the store is touched.
	doc, err := presets.ReadDocument(filePath)
	if err != nil {
		return err
	}

	fmt.Printf("Found %d presets in export file\n", doc.PresetsCount)
	fmt.Printf("Exported at: %s\n\n", doc.ExportedAt)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Open(ctx); err != nil {
		return err
	}

	result, err := presets.New(db.Connection(), logger).Import(ctx, doc)
	if err != nil {
		return err
	}

	report(result)
	return nil
}

func report(result *presets.ImportResult) {
	for _, rec := range result.Records {
		switch rec.Action {
		case presets.ActionInserted:
			fmt.Printf("  inserted: %s (%s)\n", rec.Name, rec.PresetID)
		case presets.ActionUpdated:
			fmt.Printf("  updated:  %s (%s)\n", rec.Name, rec.PresetID)
		case presets.ActionSkipped:
			fmt.Printf("  skipped:  %s (%s): %v\n", rec.Name, rec.PresetID, rec.Err)
		}
	}

	fmt.Println("\nImport complete!")
	fmt.Printf("  Inserted: %d\n", result.Inserted)
	fmt.Printf("  Updated: %d\n", result.Updated)
	fmt.Printf("  Skipped: %d\n", result.Skipped)
	fmt.Printf("  Total: %d\n", result.Total())

	if result.Skipped > 0 {
		fmt.Printf("\n%d presets were skipped due to errors\n", result.Skipped)
	}

	fmt.Println("\nNext steps:")
	fmt.Println("  1. Verify presets in the admin panel")
	fmt.Println("  2. Check that preset images are in /data/presets/")
	fmt.Println("  3. Restart the app if needed: docker compose restart")
}
