package output

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/tabclean/internal/logger"
	"github.com/jmylchreest/tabclean/pkg/table"
)

// Default export naming: cleaned_data1.csv, cleaned_data2.csv, ...
const (
	DefaultPrefix = "cleaned_data"
	DefaultFormat = FormatCSV
)

// maxExportAttempts bounds the create loop when other processes keep
// claiming the next name.
const maxExportAttempts = 100

// NextName returns the path dir/<prefix><N><ext> for the lowest positive N
// whose file does not exist yet.
func NextName(dir, prefix, ext string) (string, error) {
	path, _, err := nextFrom(dir, prefix, ext, 1)
	return path, err
}

func nextFrom(dir, prefix, ext string, n int) (string, int, error) {
	for ; ; n++ {
		path := filepath.Join(dir, prefix+strconv.Itoa(n)+ext)
		_, err := os.Lstat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return path, n, nil
		}
		if err != nil {
			return "", 0, fmt.Errorf("failed to check %s: %w", path, err)
		}
	}
}

// Export writes t to a new file in dir named after the first free
// <prefix><N> for the format's extension and returns its path. Existing
// files are never overwritten: the file is created exclusively and a name
// claimed concurrently is skipped. A partially written file is removed.
func Export(dir, prefix string, format Format, t *table.Table, opts ...WriterOption) (string, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if format == "" {
		format = DefaultFormat
	}
	if !slices.Contains(Formats, format) {
		return "", fmt.Errorf("unsupported output format: %s", format)
	}

	n := 1
	for attempt := 0; attempt < maxExportAttempts; attempt++ {
		path, next, err := nextFrom(dir, prefix, format.Ext(), n)
		if err != nil {
			return "", err
		}

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644) //#nosec G302 G304 -- export file in the user's directory
		if errors.Is(err, fs.ErrExist) {
			logger.Debug("export name taken, retrying", "path", path)
			n = next + 1
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create %s: %w", path, err)
		}

		if err := writeTable(f, format, t, opts); err != nil {
			_ = f.Close()
			_ = os.Remove(path)
			return "", fmt.Errorf("failed to export %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			_ = os.Remove(path)
			return "", fmt.Errorf("failed to export %s: %w", path, err)
		}

		if info, err := os.Stat(path); err == nil {
			logger.Debug("exported table", "path", path, "rows", t.NumRows(),
				"size", humanize.Bytes(uint64(info.Size())))
		}
		return path, nil
	}
	return "", fmt.Errorf("no free export name for %s after %d attempts", prefix, maxExportAttempts)
}

func writeTable(f *os.File, format Format, t *table.Table, opts []WriterOption) error {
	w, err := NewWriter(f, format, opts...)
	if err != nil {
		return err
	}
	if err := w.Write(t); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
