package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

type LogEntryRow struct {
	ID        int64
	Timestamp time.Time
	Level     slog.Level
	Message   string
	Attrs     string
}

// LogQuery selects a page of log entries, newest first.
type LogQuery struct {
	MinLevel slog.Level
	// Contains filters on the message, case-insensitively.
	Contains string
	Page     int
	PageSize int
}

type LogPage struct {
	Entries []LogEntryRow
	// Total counts every entry matching the query, not just this page.
	Total int
}

const defaultLogPageSize = 25

func (q LogQuery) normalize() LogQuery {
	q.Page = max(q.Page, 1)
	if q.PageSize < 1 {
		q.PageSize = defaultLogPageSize
	}
	q.Contains = strings.TrimSpace(q.Contains)
	return q
}

func (q LogQuery) where() (string, []any) {
	clause := "level >= ?"
	args := []any{int(q.MinLevel)}
	if q.Contains != "" {
		clause += ` AND message LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(q.Contains)+"%")
	}
	return clause, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (d *Database) SaveLogEntry(ctx context.Context, r LogEntryRow) error {
	_, err := d.write.ExecContext(ctx, `
		INSERT INTO log (timestamp, level, message, attrs)
		VALUES (?, ?, ?, ?)`,
		r.Timestamp.UTC().Format(time.RFC3339),
		int(r.Level),
		r.Message,
		r.Attrs)
	if err != nil {
		return fmt.Errorf("saving log entry: %w", err)
	}
	return nil
}

func (d *Database) GetLogEntries(ctx context.Context, q LogQuery) (LogPage, error) {
	q = q.normalize()
	where, args := q.where()

	var page LogPage
	if err := d.read.QueryRowContext(ctx, "SELECT COUNT(*) FROM log WHERE "+where, args...).Scan(&page.Total); err != nil {
		return LogPage{}, fmt.Errorf("counting log entries: %w", err)
	}

	rows, err := d.read.QueryContext(ctx, `
		SELECT id, timestamp, level, message, attrs
		FROM log
		WHERE `+where+`
		ORDER BY id DESC
		LIMIT ? OFFSET ?`,
		append(args, q.PageSize, (q.Page-1)*q.PageSize)...)
	if err != nil {
		return LogPage{}, fmt.Errorf("fetching log entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r LogEntryRow
		var ts string
		var level int
		if err := rows.Scan(&r.ID, &ts, &level, &r.Message, &r.Attrs); err != nil {
			return LogPage{}, fmt.Errorf("reading log entry: %w", err)
		}
		r.Level = slog.Level(level)
		if r.Timestamp, err = time.Parse(time.RFC3339, ts); err != nil {
			return LogPage{}, fmt.Errorf("log entry %d: %w", r.ID, err)
		}
		page.Entries = append(page.Entries, r)
	}
	if err := rows.Err(); err != nil {
		return LogPage{}, fmt.Errorf("reading log entries: %w", err)
	}

	return page, nil
}

// PurgeLog keeps the newest keep entries and returns how many were
// deleted.
func (d *Database) PurgeLog(ctx context.Context, keep int) (int64, error) {
	res, err := d.write.ExecContext(ctx, `
		DELETE FROM log WHERE id <= (SELECT id FROM log ORDER BY id DESC LIMIT 1 OFFSET ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("purging log: %w", err)
	}
	return res.RowsAffected()
}
