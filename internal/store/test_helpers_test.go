package store

import (
	"path/filepath"
	"testing"

	"github.com/vigil-run/vigil/internal/payload"
	"github.com/vigil-run/vigil/internal/testutil"
	"github.com/vigil-run/vigil/internal/trace"
)

// openTestStore opens a store backed by a per-test temp database and
// registers cleanup.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// makeTrace builds a deterministic finalized trace for archive tests.
func makeTrace(t *testing.T, id, domain, behavior string, start int64, passed bool) trace.Trace {
	t.Helper()
	e := trace.NewEmitterWithOptions(domain, behavior, trace.Options{
		Clock:   testutil.NewClock(start, 10),
		TraceID: id,
	})
	e.EmitCall(behavior, payload.Object{"user": payload.String("alice")})
	e.EmitReturn(behavior, payload.Object{"ok": payload.Bool(true)}, 5)
	return e.Finalize(passed)
}
