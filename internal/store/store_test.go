package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sabaki-dev/sabaki/internal/logger"
)

func newTestLogger(t *testing.T) logger.Logger {
	t.Helper()
	log, err := logger.New(logger.WithLevel("error"))
	require.NoError(t, err)
	return log
}

func TestStore_Load(t *testing.T) {
	log := newTestLogger(t)

	t.Run("正常系: ファイルが無ければ空のDB", func(t *testing.T) {
		s := New(filepath.Join(t.TempDir(), "missing.json"), log)
		s.Load()

		assert.Equal(t, 0, s.Len())
	})

	t.Run("正常系: 既存ファイルを読み込む", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "triage.json")
		data := `{"42": {"triaged_at": "2025-06-01T12:00:00Z", "summary": "crash bug", "reactions": 3}}`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

		s := New(path, log)
		s.Load()

		rec, ok := s.Get(42)
		require.True(t, ok)
		assert.Equal(t, "2025-06-01T12:00:00Z", rec.TriagedAt)
		assert.Equal(t, "crash bug", rec.Summary)
		assert.Equal(t, 3, rec.Reactions)
	})

	t.Run("異常系: 壊れたファイルは空のDBとして続行", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		s := New(path, log)
		s.Load()

		assert.Equal(t, 0, s.Len())
	})
}

func TestStore_SaveAndReload(t *testing.T) {
	log := newTestLogger(t)
	path := filepath.Join(t.TempDir(), "db", "triage.json")

	s := New(path, log)
	s.Load()
	s.Set(1, TriageRecord{TriagedAt: "2025-06-01T12:00:00Z", Summary: "a", Reasoning: "r", Reactions: 1})
	s.Set(2, TriageRecord{TriagedAt: "2025-06-02T12:00:00Z", Summary: "b"})
	require.NoError(t, s.Save())

	reloaded := New(path, log)
	reloaded.Load()

	assert.Equal(t, 2, reloaded.Len())
	rec, ok := reloaded.Get(1)
	require.True(t, ok)
	assert.Equal(t, "a", rec.Summary)
	assert.Equal(t, "r", rec.Reasoning)
	assert.Equal(t, []int{1, 2}, reloaded.Numbers())
}

func TestTriageRecord_TriagedAtMs(t *testing.T) {
	t.Run("正常系: RFC3339をパース", func(t *testing.T) {
		rec := TriageRecord{TriagedAt: "2025-06-01T12:00:00Z"}
		ms, ok := rec.TriagedAtMs()

		assert.True(t, ok)
		assert.Equal(t, int64(1748779200000), ms)
	})

	t.Run("異常系: パース不能", func(t *testing.T) {
		for _, v := range []string{"", "not a time", "2025-06-01"} {
			_, ok := TriageRecord{TriagedAt: v}.TriagedAtMs()
			assert.False(t, ok, "value %q should not parse", v)
		}
	})
}
