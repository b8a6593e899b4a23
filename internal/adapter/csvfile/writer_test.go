package csvfile

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_WriteTable(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, slog.Default())

	df := dataframe.New(
		series.New([]string{"2016-01-01", "2016-01-02"}, series.String, "OCCURRED_ON_DATE"),
		series.New([]string{"2", "1"}, series.String, "count"),
	)

	path, err := w.WriteTable(df, "daily_counts_2016")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "daily_counts_2016.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	got := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	require.NoError(t, got.Err)
	assert.Equal(t, df.Records(), got.Records())
}

func TestWriter_CreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "artifacts")
	w := NewWriter(dir, slog.Default())

	df := dataframe.New(series.New([]string{"x"}, series.String, "v"))

	path, err := w.WriteTable(df, "table")
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestWriter_DirIsAFile(t *testing.T) {
	base := t.TempDir()
	blocked := filepath.Join(base, "occupied")
	require.NoError(t, os.WriteFile(blocked, []byte("not a dir"), 0o644))

	w := NewWriter(blocked, slog.Default())
	df := dataframe.New(series.New([]string{"x"}, series.String, "v"))

	_, err := w.WriteTable(df, "table")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create output dir")
}
