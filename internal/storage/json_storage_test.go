package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostCountRollsOverOnNewDate(t *testing.T) {
	s, err := NewJSONStorage(filepath.Join(t.TempDir(), "storage.json"))
	require.NoError(t, err)

	require.NoError(t, s.IncrementPostCount("stock_bot", "2026-09-01"))
	require.NoError(t, s.IncrementPostCount("stock_bot", "2026-09-01"))

	count, date, err := s.GetPostStats("stock_bot")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, "2026-09-01", date)

	require.NoError(t, s.IncrementPostCount("stock_bot", "2026-09-02"))
	count, date, err = s.GetPostStats("stock_bot")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "count resets on a new day")
	assert.Equal(t, "2026-09-02", date)
}

func TestCountersAreKeyedPerBot(t *testing.T) {
	s, err := NewJSONStorage(filepath.Join(t.TempDir(), "storage.json"))
	require.NoError(t, err)

	require.NoError(t, s.IncrementCommentCount("stock_bot", "2026-09-01"))
	require.NoError(t, s.IncrementCommentCount("news_bot", "2026-09-01"))
	require.NoError(t, s.IncrementCommentCount("news_bot", "2026-09-01"))

	count, _, err := s.GetCommentStats("news_bot")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, _, err = s.GetCommentStats("stock_bot")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDataSurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")

	s, err := NewJSONStorage(path)
	require.NoError(t, err)
	require.NoError(t, s.IncrementPostCount("stock_bot", "2026-09-01"))

	reloaded, err := NewJSONStorage(path)
	require.NoError(t, err)

	count, date, err := reloaded.GetPostStats("stock_bot")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "2026-09-01", date)
}
