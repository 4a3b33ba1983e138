package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vigil-run/vigil/internal/payload"
	"github.com/vigil-run/vigil/internal/testutil"
	"github.com/vigil-run/vigil/internal/trace"
)

// executeCommand runs the root command with args and captures stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// writeTempFile writes content to a file under a fresh temp dir.
func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// writeTraceFile emits a small deterministic trace artifact to disk.
func writeTraceFile(t *testing.T, id string) string {
	t.Helper()
	e := trace.NewEmitterWithOptions("Auth", "Login", trace.Options{
		Clock:   testutil.NewClock(1000, 10),
		TraceID: id,
	})
	e.EmitCall("Login", payload.Object{"email": payload.String("alice@example.com")})
	e.EmitReturn("Login", payload.Object{"ok": payload.Bool(true)}, 7)

	path := filepath.Join(t.TempDir(), "trace.json")
	require.NoError(t, e.SaveToFile(path, true))
	return path
}
