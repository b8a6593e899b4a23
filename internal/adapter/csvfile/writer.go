package csvfile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
)

// Writer materializes derived tables as CSV artifacts in one output
// directory. It implements pipeline.TableWriter.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates an artifact writer rooted at dir. The directory is
// created on first write, not here, so a dry run never touches disk.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

// WriteTable writes df to <dir>/<name>.csv and returns the path.
func (w *Writer) WriteTable(df dataframe.DataFrame, name string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(w.dir, name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create artifact %s: %w", name, err)
	}
	if err := df.WriteCSV(f); err != nil {
		f.Close()
		return "", fmt.Errorf("write artifact %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write artifact %s: %w", name, err)
	}

	w.logger.Debug("artifact written", "path", path, "rows", df.Nrow())
	return path, nil
}
