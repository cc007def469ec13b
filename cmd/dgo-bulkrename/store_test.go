package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocx/dgo/snowflake"
)

func TestLoadResumeRecordsMissingFileIsEmpty(t *testing.T) {
	done, err := loadResumeRecords(filepath.Join(t.TempDir(), "old_1.txt"))
	require.NoError(t, err)
	assert.Empty(t, done)
}

func TestResumeWriterRoundTripsUnterminatedArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old_42.txt")

	w, err := openResumeWriter(path, false)
	require.NoError(t, err)
	require.NoError(t, w.Append(renameRecord{U: snowflake.ID(1), N: "a"}))
	require.NoError(t, w.Append(renameRecord{U: snowflake.ID(2), N: "b"}))
	require.NoError(t, w.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "]") // deliberately unterminated

	done, err := loadResumeRecords(path)
	require.NoError(t, err)
	assert.Equal(t, "a", done[snowflake.ID(1)])
	assert.Equal(t, "b", done[snowflake.ID(2)])
}

func TestResumeWriterFinalizeProducesValidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old_7.txt")

	w, err := openResumeWriter(path, false)
	require.NoError(t, err)
	require.NoError(t, w.Append(renameRecord{U: snowflake.ID(9), N: "x"}))
	require.NoError(t, w.Finalize())

	done, err := loadResumeRecords(path)
	require.NoError(t, err)
	assert.Equal(t, "x", done[snowflake.ID(9)])
}

func TestResumeWriterAppendsAcrossProcessRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old_3.txt")

	w1, err := openResumeWriter(path, false)
	require.NoError(t, err)
	require.NoError(t, w1.Append(renameRecord{U: snowflake.ID(1), N: "a"}))
	require.NoError(t, w1.Close())

	done, err := loadResumeRecords(path)
	require.NoError(t, err)
	require.Len(t, done, 1)

	w2, err := openResumeWriter(path, len(done) > 0)
	require.NoError(t, err)
	require.NoError(t, w2.Append(renameRecord{U: snowflake.ID(2), N: "b"}))
	require.NoError(t, w2.Finalize())

	done, err = loadResumeRecords(path)
	require.NoError(t, err)
	assert.Len(t, done, 2)
}
