package reclog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVWriterCreatesDailyFileWithHeader(t *testing.T) {
	dir := t.TempDir()
	w, err := NewCSVWriter(dir)
	require.NoError(t, err)
	defer w.Close()

	now := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	require.NoError(t, w.Write(Entry{Time: now, Mode: "M2400S", Accuracy: 0.98, Correlation: 0.91, ByteLength: 12, FirstBytes: "48656c6c6f"}))
	require.NoError(t, w.Write(Entry{Time: now.Add(time.Hour), Mode: "M1200L", Accuracy: 0.95, Correlation: 0.88, ByteLength: 8, FirstBytes: "deadbeef"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	contents, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(contents), "time,mode,accuracy,correlation,byte_length,first_bytes")
	assert.Contains(t, string(contents), "M2400S")
	assert.Contains(t, string(contents), "M1200L")
}

func TestCSVWriterRollsToNewFileOnNewDay(t *testing.T) {
	dir := t.TempDir()
	w, err := NewCSVWriter(dir)
	require.NoError(t, err)
	defer w.Close()

	day1 := time.Date(2026, 7, 30, 23, 59, 0, 0, time.UTC)
	day2 := day1.Add(2 * time.Minute)

	require.NoError(t, w.Write(Entry{Time: day1, Mode: "M600S"}))
	require.NoError(t, w.Write(Entry{Time: day2, Mode: "M300S"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
