package presets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/photomaton/presetsync/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a preset repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "presets"),
	}
}

// Import runs the full reconciliation inside a single transaction:
// records are applied strictly in document order and nothing is
// persisted until the terminal commit. A failing record is recovered,
// counted as skipped, and does not abort the run; only a transaction
// level failure surfaces as an error.
func (r *repo) Import(ctx context.Context, doc *Document) (*ImportResult, error) {
	run := uuid.New()
	logger := r.logger.With("run", run)

	logger.Info(
		"import started",
		"records", len(doc.Presets),
		"declared_count", doc.PresetsCount,
		"exported_at", doc.ExportedAt,
	)

	result, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*ImportResult, error) {
		res := &ImportResult{}

		for _, rec := range doc.Presets {
			outcome := r.apply(ctx, tx, rec)
			res.Records = append(res.Records, outcome)

			switch outcome.Action {
			case ActionInserted:
				res.Inserted++
				logger.Info("preset inserted", "name", outcome.Name, "preset_id", outcome.PresetID)
			case ActionUpdated:
				res.Updated++
				logger.Info("preset updated", "name", outcome.Name, "preset_id", outcome.PresetID)
			case ActionSkipped:
				res.Skipped++
				logger.Warn("preset skipped", "name", outcome.Name, "preset_id", outcome.PresetID, "error", outcome.Err)
			}
		}

		return res, nil
	})

	if err != nil {
		return nil, fmt.Errorf("import presets: %w", err)
	}

	logger.Info(
		"import complete",
		"inserted", result.Inserted,
		"updated", result.Updated,
		"skipped", result.Skipped,
	)

	return result, nil
}

func (r *repo) apply(ctx context.Context, tx *sql.Tx, rec Record) RecordResult {
	out := RecordResult{
		Name:     rec.Name,
		PresetID: rec.PresetID,
	}

	if err := rec.Validate(); err != nil {
		out.Action = ActionSkipped
		out.Err = err
		return out
	}

	updatedAt := Timestamp()

	_, err := r.find(ctx, tx, rec.PresetID)
	switch {
	case err == nil:
		if err := r.update(ctx, tx, rec, updatedAt); err != nil {
			out.Action = ActionSkipped
			out.Err = err
			return out
		}
		out.Action = ActionUpdated
	case errors.Is(err, ErrNotFound):
		if err := r.insert(ctx, tx, rec, updatedAt); err != nil {
			out.Action = ActionSkipped
			out.Err = err
			return out
		}
		out.Action = ActionInserted
	default:
		out.Action = ActionSkipped
		out.Err = err
	}

	return out
}

func (r *repo) find(ctx context.Context, q repository.Querier, presetID string) (*Preset, error) {
	query := "SELECT " + columns + " FROM preset_prompts WHERE preset_id = ?"

	p, err := repository.QueryOne(ctx, q, query, []any{presetID}, scanPreset)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) insert(ctx context.Context, tx *sql.Tx, rec Record, updatedAt string) error {
	q := `
		INSERT INTO preset_prompts (` + columns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	args := []any{
		rec.ID,
		rec.PresetID,
		rec.Name,
		rec.Description,
		enabledFlag(rec.Enabled),
		rec.Icon,
		rec.ImagePath,
		rec.Prompt,
		*rec.OrderIndex,
		rec.CreatedAt,
		updatedAt,
	}

	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

// update leaves id and created_at untouched.
func (r *repo) update(ctx context.Context, tx *sql.Tx, rec Record, updatedAt string) error {
	q := `
		UPDATE preset_prompts
		SET name = ?,
			description = ?,
			enabled = ?,
			icon = ?,
			image_path = ?,
			prompt = ?,
			order_index = ?,
			updated_at = ?
		WHERE preset_id = ?`

	args := []any{
		rec.Name,
		rec.Description,
		enabledFlag(rec.Enabled),
		rec.Icon,
		rec.ImagePath,
		rec.Prompt,
		*rec.OrderIndex,
		updatedAt,
		rec.PresetID,
	}

	if err := repository.ExecExpectOne(ctx, tx, q, args...); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (r *repo) List(ctx context.Context) ([]Preset, error) {
	query := "SELECT " + columns + " FROM preset_prompts ORDER BY order_index, name"

	items, err := repository.QueryMany(ctx, r.db, query, nil, scanPreset)
	if err != nil {
		return nil, fmt.Errorf("query presets: %w", err)
	}
	return items, nil
}

func (r *repo) Find(ctx context.Context, presetID string) (*Preset, error) {
	return r.find(ctx, r.db, presetID)
}
