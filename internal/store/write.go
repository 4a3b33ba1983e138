package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vigil-run/vigil/internal/trace"
)

// SaveTrace inserts a finalized trace into the archive.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - archiving the same
// trace ID twice is a silent no-op, and the first artifact wins.
//
// Returns inserted=true if a new row was written, false if the ID was
// already archived.
func (s *Store) SaveTrace(ctx context.Context, tr trace.Trace, archivedAt int64) (inserted bool, err error) {
	artifact, err := json.Marshal(tr)
	if err != nil {
		return false, fmt.Errorf("save trace: marshal: %w", err)
	}

	hash, err := tr.ContentHash()
	if err != nil {
		return false, fmt.Errorf("save trace: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO traces
		(id, name, domain, start_time, end_time, duration, passed, event_count, content_hash, artifact, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		tr.ID,
		tr.Name,
		tr.Domain,
		tr.StartTime,
		tr.EndTime,
		tr.Metadata.Duration,
		boolToInt(tr.Metadata.Passed),
		len(tr.Events),
		hash,
		string(artifact),
		archivedAt,
	)
	if err != nil {
		return false, fmt.Errorf("save trace: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("save trace: rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// DeleteTrace removes an archived trace by ID.
// Deleting an absent ID is a no-op; returns whether a row was removed.
func (s *Store) DeleteTrace(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM traces WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete trace: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete trace: rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
