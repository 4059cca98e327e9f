package presets_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/photomaton/presetsync/internal/presets"
)

const schema = `
CREATE TABLE preset_prompts (
    id TEXT PRIMARY KEY,
    preset_id TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    description TEXT,
    enabled INTEGER NOT NULL DEFAULT 1,
    icon TEXT,
    image_path TEXT,
    prompt TEXT NOT NULL,
    order_index INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`

func ptr[T any](v T) *T { return &v }

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	return db
}

func testSystem(t *testing.T) presets.System {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return presets.New(openTestDB(t), logger)
}

func record(presetID, name string) presets.Record {
	return presets.Record{
		ID:         "id-" + presetID,
		PresetID:   presetID,
		Name:       name,
		Enabled:    ptr(true),
		Prompt:     "A " + name,
		OrderIndex: ptr(1),
		CreatedAt:  "2024-01-01T00:00:00Z",
	}
}

func document(records ...presets.Record) *presets.Document {
	return &presets.Document{
		Presets:      records,
		PresetsCount: len(records),
		ExportedAt:   "2024-01-01T00:00:00Z",
	}
}

func TestImportFreshRecords(t *testing.T) {
	sys := testSystem(t)
	ctx := context.Background()

	doc := document(
		record("sunset", "Sunset"),
		record("noir", "Noir"),
	)

	result, err := sys.Import(ctx, doc)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if result.Inserted != 2 || result.Updated != 0 || result.Skipped != 0 {
		t.Errorf("counts = %d/%d/%d, want 2/0/0",
			result.Inserted, result.Updated, result.Skipped)
	}

	for _, id := range []string{"sunset", "noir"} {
		p, err := sys.Find(ctx, id)
		if err != nil {
			t.Fatalf("find %s: %v", id, err)
		}
		if !p.Enabled {
			t.Errorf("preset %s not enabled", id)
		}
		if p.CreatedAt != "2024-01-01T00:00:00Z" {
			t.Errorf("created_at = %q, want record value", p.CreatedAt)
		}
		if p.UpdatedAt == "" {
			t.Error("updated_at not set")
		}
		if _, err := time.Parse(time.RFC3339, p.UpdatedAt); err != nil {
			t.Errorf("updated_at %q not RFC 3339: %v", p.UpdatedAt, err)
		}
	}
}

func TestImportIdempotent(t *testing.T) {
	sys := testSystem(t)
	ctx := context.Background()

	doc := document(
		record("sunset", "Sunset"),
		record("noir", "Noir"),
	)

	if _, err := sys.Import(ctx, doc); err != nil {
		t.Fatalf("first import failed: %v", err)
	}

	before, err := sys.Find(ctx, "sunset")
	if err != nil {
		t.Fatalf("find before: %v", err)
	}

	result, err := sys.Import(ctx, doc)
	if err != nil {
		t.Fatalf("second import failed: %v", err)
	}

	if result.Inserted != 0 || result.Updated != 2 || result.Skipped != 0 {
		t.Errorf("counts = %d/%d/%d, want 0/2/0",
			result.Inserted, result.Updated, result.Skipped)
	}

	after, err := sys.Find(ctx, "sunset")
	if err != nil {
		t.Fatalf("find after: %v", err)
	}

	if after.ID != before.ID {
		t.Errorf("id changed on update: %q -> %q", before.ID, after.ID)
	}
	if after.CreatedAt != before.CreatedAt {
		t.Errorf("created_at changed on update: %q -> %q", before.CreatedAt, after.CreatedAt)
	}
}

func TestImportUpdatePreservesIdentity(t *testing.T) {
	sys := testSystem(t)
	ctx := context.Background()

	original := record("sunset", "Sunset")
	original.ID = "original-id"
	original.CreatedAt = "2020-06-15T12:00:00Z"

	if _, err := sys.Import(ctx, document(original)); err != nil {
		t.Fatalf("seed import failed: %v", err)
	}

	incoming := record("sunset", "Golden Hour")
	incoming.ID = "different-id"
	incoming.CreatedAt = "2024-01-01T00:00:00Z"
	incoming.Description = ptr("warm tones")
	incoming.Enabled = ptr(false)
	incoming.Icon = ptr("sun")
	incoming.ImagePath = ptr("/data/presets/sunset.png")
	incoming.Prompt = "A golden hour portrait"
	incoming.OrderIndex = ptr(7)

	result, err := sys.Import(ctx, document(incoming))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if result.Updated != 1 {
		t.Fatalf("updated = %d, want 1", result.Updated)
	}

	p, err := sys.Find(ctx, "sunset")
	if err != nil {
		t.Fatalf("find: %v", err)
	}

	if p.ID != "original-id" {
		t.Errorf("id = %q, want original-id", p.ID)
	}
	if p.CreatedAt != "2020-06-15T12:00:00Z" {
		t.Errorf("created_at = %q, want original value", p.CreatedAt)
	}
	if p.Name != "Golden Hour" {
		t.Errorf("name = %q, want Golden Hour", p.Name)
	}
	if p.Description == nil || *p.Description != "warm tones" {
		t.Errorf("description = %v, want warm tones", p.Description)
	}
	if p.Enabled {
		t.Error("enabled should be false after update")
	}
	if p.Icon == nil || *p.Icon != "sun" {
		t.Errorf("icon = %v, want sun", p.Icon)
	}
	if p.ImagePath == nil || *p.ImagePath != "/data/presets/sunset.png" {
		t.Errorf("image_path = %v", p.ImagePath)
	}
	if p.Prompt != "A golden hour portrait" {
		t.Errorf("prompt = %q", p.Prompt)
	}
	if p.OrderIndex != 7 {
		t.Errorf("order_index = %d, want 7", p.OrderIndex)
	}
}

func TestImportEnabledStoredAsInteger(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := openTestDB(t)
	sys := presets.New(db, logger)
	ctx := context.Background()

	enabled := record("sunset", "Sunset")
	disabled := record("noir", "Noir")
	disabled.Enabled = ptr(false)

	if _, err := sys.Import(ctx, document(enabled, disabled)); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	tests := []struct {
		presetID string
		want     int
	}{
		{"sunset", 1},
		{"noir", 0},
	}

	for _, tt := range tests {
		t.Run(tt.presetID, func(t *testing.T) {
			var flag int
			err := db.QueryRow(
				"SELECT enabled FROM preset_prompts WHERE preset_id = ?",
				tt.presetID,
			).Scan(&flag)
			if err != nil {
				t.Fatalf("query enabled: %v", err)
			}
			if flag != tt.want {
				t.Errorf("enabled = %d, want %d", flag, tt.want)
			}
		})
	}
}

func TestImportSkipsInvalidRecord(t *testing.T) {
	sys := testSystem(t)
	ctx := context.Background()

	broken := record("broken", "Broken")
	broken.Prompt = ""

	doc := document(
		record("sunset", "Sunset"),
		broken,
		record("noir", "Noir"),
	)

	result, err := sys.Import(ctx, doc)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if result.Inserted != 2 || result.Skipped != 1 {
		t.Errorf("counts = %d/%d/%d, want inserted 2, skipped 1",
			result.Inserted, result.Updated, result.Skipped)
	}

	if _, err := sys.Find(ctx, "broken"); err == nil {
		t.Error("broken record should not have been persisted")
	}

	if _, err := sys.Find(ctx, "noir"); err != nil {
		t.Errorf("record after the broken one was not processed: %v", err)
	}
}

func TestImportSkipDoesNotTouchExistingRow(t *testing.T) {
	sys := testSystem(t)
	ctx := context.Background()

	if _, err := sys.Import(ctx, document(record("sunset", "Sunset"))); err != nil {
		t.Fatalf("seed import failed: %v", err)
	}

	invalid := record("sunset", "Sunset Reworked")
	invalid.Enabled = nil

	result, err := sys.Import(ctx, document(invalid))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if result.Skipped != 1 {
		t.Fatalf("skipped = %d, want 1", result.Skipped)
	}

	p, err := sys.Find(ctx, "sunset")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if p.Name != "Sunset" {
		t.Errorf("name = %q, existing row should be unchanged", p.Name)
	}
}

func TestImportEmptyDocument(t *testing.T) {
	sys := testSystem(t)

	result, err := sys.Import(context.Background(), document())
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if result.Total() != 0 {
		t.Errorf("total = %d, want 0", result.Total())
	}
}

func TestImportDuplicateKeyWithinDocument(t *testing.T) {
	sys := testSystem(t)
	ctx := context.Background()

	first := record("sunset", "Sunset")
	second := record("sunset", "Sunset Revised")

	result, err := sys.Import(ctx, document(first, second))
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	// the second occurrence sees the uncommitted insert and updates it
	if result.Inserted != 1 || result.Updated != 1 {
		t.Errorf("counts = %d/%d, want 1 inserted and 1 updated",
			result.Inserted, result.Updated)
	}

	p, err := sys.Find(ctx, "sunset")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if p.Name != "Sunset Revised" {
		t.Errorf("name = %q, want last value in document order", p.Name)
	}
}

func TestImportRecordOutcomesPreserveOrder(t *testing.T) {
	sys := testSystem(t)

	doc := document(
		record("first", "First"),
		record("second", "Second"),
		record("third", "Third"),
	)

	result, err := sys.Import(context.Background(), doc)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if len(result.Records) != 3 {
		t.Fatalf("len(Records) = %d, want 3", len(result.Records))
	}

	want := []string{"first", "second", "third"}
	for i, rec := range result.Records {
		if rec.PresetID != want[i] {
			t.Errorf("Records[%d].PresetID = %q, want %q", i, rec.PresetID, want[i])
		}
	}
}

func TestListOrdersByOrderIndex(t *testing.T) {
	sys := testSystem(t)
	ctx := context.Background()

	third := record("third", "Third")
	third.OrderIndex = ptr(3)
	first := record("first", "First")
	first.OrderIndex = ptr(1)
	second := record("second", "Second")
	second.OrderIndex = ptr(2)

	if _, err := sys.Import(ctx, document(third, first, second)); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	items, err := sys.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	want := []string{"first", "second", "third"}
	if len(items) != len(want) {
		t.Fatalf("len(items) = %d, want %d", len(items), len(want))
	}
	for i, p := range items {
		if p.PresetID != want[i] {
			t.Errorf("items[%d].PresetID = %q, want %q", i, p.PresetID, want[i])
		}
	}
}

func TestFindNotFound(t *testing.T) {
	sys := testSystem(t)

	_, err := sys.Find(context.Background(), "missing")
	if !errors.Is(err, presets.ErrNotFound) {
		t.Errorf("Find(missing) = %v, want ErrNotFound", err)
	}
}
