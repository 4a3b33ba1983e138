package trace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigil-run/vigil/internal/payload"
	"github.com/vigil-run/vigil/internal/testutil"
)

func TestSaveToFileAndLoad(t *testing.T) {
	e := NewEmitterWithOptions("Auth", "Login", Options{
		Clock:   testutil.NewClock(1700000000000, 10),
		TraceID: "trace_io",
	})
	e.EmitCall("Login", payload.Object{"email": payload.String("alice@example.com")})

	path := filepath.Join(t.TempDir(), "trace.json")
	require.NoError(t, e.SaveToFile(path, true))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"trace_io"`)
	assert.Contains(t, string(raw), "a***@example.com")
	assert.NotContains(t, string(raw), "alice@example.com")

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "trace_io", loaded.ID)
	require.Len(t, loaded.Events, 1)
	assert.Equal(t, EventCall, loaded.Events[0].Type)
}

func TestSaveToFileBadPath(t *testing.T) {
	e := NewEmitter("Auth", "Login")
	err := e.SaveToFile(filepath.Join(t.TempDir(), "no", "such", "dir", "t.json"), true)
	assert.Error(t, err)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadFromFileInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}
