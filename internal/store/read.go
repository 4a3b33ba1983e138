package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vigil-run/vigil/internal/trace"
)

// ErrNotFound is returned when no archived trace matches the requested ID.
var ErrNotFound = errors.New("store: trace not found")

// TraceSummary is one row of a trace listing: the denormalized columns
// without the artifact body.
type TraceSummary struct {
	ID          string
	Name        string
	Domain      string
	StartTime   int64
	EndTime     int64
	Duration    int64
	Passed      bool
	EventCount  int
	ContentHash string
	ArchivedAt  int64
}

// GetTrace retrieves an archived trace by ID, decoded from its stored
// artifact. Returns ErrNotFound if the ID is not archived.
func (s *Store) GetTrace(ctx context.Context, id string) (*trace.Trace, error) {
	var artifact string
	err := s.db.QueryRowContext(ctx, `
		SELECT artifact FROM traces WHERE id = ?
	`, id).Scan(&artifact)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get trace: %w", err)
	}

	var tr trace.Trace
	if err := json.Unmarshal([]byte(artifact), &tr); err != nil {
		return nil, fmt.Errorf("get trace: decode artifact: %w", err)
	}
	return &tr, nil
}

// GetSummary retrieves the summary row for one archived trace.
// Returns ErrNotFound if the ID is not archived.
func (s *Store) GetSummary(ctx context.Context, id string) (TraceSummary, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, domain, start_time, end_time, duration, passed, event_count, content_hash, archived_at
		FROM traces
		WHERE id = ?
	`, id)

	summary, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return TraceSummary{}, ErrNotFound
	}
	if err != nil {
		return TraceSummary{}, fmt.Errorf("get summary: %w", err)
	}
	return summary, nil
}

// ListTraces returns summaries for all archived traces.
// Ordered deterministically: start_time ASC, then ID with binary collation.
// Returns an empty slice (not nil) when the archive is empty.
func (s *Store) ListTraces(ctx context.Context) ([]TraceSummary, error) {
	return s.listTraces(ctx, `
		SELECT id, name, domain, start_time, end_time, duration, passed, event_count, content_hash, archived_at
		FROM traces
		ORDER BY start_time ASC, id COLLATE BINARY ASC
	`)
}

// ListTracesByDomain returns summaries for one domain with the same
// deterministic ordering as ListTraces.
func (s *Store) ListTracesByDomain(ctx context.Context, domain string) ([]TraceSummary, error) {
	return s.listTraces(ctx, `
		SELECT id, name, domain, start_time, end_time, duration, passed, event_count, content_hash, archived_at
		FROM traces
		WHERE domain = ?
		ORDER BY start_time ASC, id COLLATE BINARY ASC
	`, domain)
}

func (s *Store) listTraces(ctx context.Context, query string, args ...any) ([]TraceSummary, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list traces: %w", err)
	}
	defer rows.Close()

	var summaries []TraceSummary
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("list traces: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list traces: iterate: %w", err)
	}

	if summaries == nil {
		summaries = []TraceSummary{}
	}

	return summaries, nil
}

// scanner abstracts sql.Row and sql.Rows for shared scan logic.
type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner) (TraceSummary, error) {
	var (
		summary TraceSummary
		passed  int
	)
	err := row.Scan(
		&summary.ID,
		&summary.Name,
		&summary.Domain,
		&summary.StartTime,
		&summary.EndTime,
		&summary.Duration,
		&passed,
		&summary.EventCount,
		&summary.ContentHash,
		&summary.ArchivedAt,
	)
	if err != nil {
		return TraceSummary{}, err
	}
	summary.Passed = passed != 0
	return summary, nil
}
