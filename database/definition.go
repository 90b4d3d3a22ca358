package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// DefinitionRow is a rendered chart definition. Hash identifies the
// chart input it was rendered from.
type DefinitionRow struct {
	ChartID   string
	Library   string
	Hash      string
	Body      string
	CreatedAt time.Time
}

// DefinitionKey identifies a cached definition without its body.
type DefinitionKey struct {
	ChartID   string    `yaml:"chart"`
	Library   string    `yaml:"library"`
	Hash      string    `yaml:"hash"`
	CreatedAt time.Time `yaml:"created_at"`
}

func (d *Database) SaveDefinition(ctx context.Context, row DefinitionRow) error {
	d.logger.Debug("saving definition",
		slog.String("chart", row.ChartID),
		slog.String("library", row.Library),
		slog.String("hash", row.Hash))

	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now()
	}

	_, err := d.write.ExecContext(ctx, `
		INSERT INTO definition (chart_id, library, hash, body, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(chart_id, library) DO UPDATE SET
			hash = excluded.hash,
			body = excluded.body,
			created_at = excluded.created_at`,
		row.ChartID,
		row.Library,
		row.Hash,
		row.Body,
		row.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving definition of %s for %s: %w", row.ChartID, row.Library, err)
	}
	return nil
}

// GetDefinition returns sql.ErrNoRows when nothing is cached for the
// chart and library.
func (d *Database) GetDefinition(ctx context.Context, chartID, library string) (DefinitionRow, error) {
	row := d.read.QueryRowContext(ctx, `
		SELECT chart_id, library, hash, body, created_at
		FROM definition
		WHERE chart_id = ? AND library = ?`,
		chartID, library)

	var def DefinitionRow
	var createdAt string
	err := row.Scan(&def.ChartID, &def.Library, &def.Hash, &def.Body, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return DefinitionRow{}, sql.ErrNoRows
	}
	if err != nil {
		return DefinitionRow{}, fmt.Errorf("reading definition of %s for %s: %w", chartID, library, err)
	}

	if def.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return DefinitionRow{}, fmt.Errorf("definition of %s for %s: %w", chartID, library, err)
	}
	return def, nil
}

// DefinitionIndex lists every cached definition, oldest chart id first.
func (d *Database) DefinitionIndex(ctx context.Context) ([]DefinitionKey, error) {
	rows, err := d.read.QueryContext(ctx, `
		SELECT chart_id, library, hash, created_at
		FROM definition
		ORDER BY chart_id, library`)
	if err != nil {
		return nil, fmt.Errorf("listing definitions: %w", err)
	}
	defer rows.Close()

	var keys []DefinitionKey
	for rows.Next() {
		var k DefinitionKey
		var createdAt string
		if err := rows.Scan(&k.ChartID, &k.Library, &k.Hash, &createdAt); err != nil {
			return nil, fmt.Errorf("listing definitions: %w", err)
		}
		if k.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("definition of %s for %s: %w", k.ChartID, k.Library, err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// DeleteDefinitions drops every cached definition of a chart.
func (d *Database) DeleteDefinitions(ctx context.Context, chartID string) error {
	if _, err := d.write.ExecContext(ctx, `DELETE FROM definition WHERE chart_id = ?`, chartID); err != nil {
		return fmt.Errorf("deleting definitions of %s: %w", chartID, err)
	}
	return nil
}

// PurgeDefinitions drops the definitions rendered more than
// retentionDays ago and returns how many went. They are rendered again
// on the next request.
func (d *Database) PurgeDefinitions(ctx context.Context, retentionDays int) (int64, error) {
	res, err := d.write.ExecContext(ctx, `DELETE FROM definition WHERE created_at < ?`, cutoff(retentionDays))
	if err != nil {
		return 0, fmt.Errorf("purging definitions: %w", err)
	}
	return res.RowsAffected()
}
