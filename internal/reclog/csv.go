// Package reclog records decoded packets: a CSV trail with daily
// rotating file names (mirroring log.go's daily_names scheme,
// adapted from its C-string strftime-style path building to
// lestrrat-go/strftime) and an optional SQLite-backed store for
// querying decode history (see sqlite.go).
package reclog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lestrrat-go/strftime"
)

// dailyPattern names one CSV file per day, the same "daily_names"
// scheme as log_init -- adapted from C's strftime call
// to the strftime package's compiled Pattern.
const dailyPattern = "%Y%m%d.log"

// Entry is one decoded-packet record.
type Entry struct {
	Time        time.Time
	Mode        string
	Accuracy    float64
	Correlation float64
	ByteLength  int
	FirstBytes  string // hex-encoded preview, capped by the caller
}

// CSVWriter appends Entry rows to a daily-rotating CSV file under Dir.
// Zero value is unusable; use NewCSVWriter.
type CSVWriter struct {
	dir     string
	pattern *strftime.Strftime

	mu       sync.Mutex
	openName string
	file     *os.File
	writer   *csv.Writer
}

// NewCSVWriter prepares a writer rooted at dir, creating dir if it
// doesn't exist yet (mirroring log_init's "doesn't exist, try to
// create it" fallback).
func NewCSVWriter(dir string) (*CSVWriter, error) {
	if stat, err := os.Stat(dir); err != nil {
		if mkErr := os.Mkdir(dir, 0o755); mkErr != nil {
			return nil, fmt.Errorf("reclog: log directory %q does not exist and could not be created: %w", dir, mkErr)
		}
	} else if !stat.IsDir() {
		return nil, fmt.Errorf("reclog: log location %q is not a directory", dir)
	}

	pattern, err := strftime.New(dailyPattern)
	if err != nil {
		return nil, err
	}
	return &CSVWriter{dir: dir, pattern: pattern}, nil
}

// rollIfNeeded opens today's file if it isn't already open, closing
// yesterday's first.
func (w *CSVWriter) rollIfNeeded(now time.Time) error {
	name := w.pattern.FormatString(now)
	if name == w.openName && w.file != nil {
		return nil
	}
	if w.file != nil {
		w.writer.Flush()
		w.file.Close()
	}

	path := filepath.Join(w.dir, name)
	fresh := true
	if _, err := os.Stat(path); err == nil {
		fresh = false
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	w.file = f
	w.writer = csv.NewWriter(f)
	w.openName = name

	if fresh {
		return w.writer.Write([]string{"time", "mode", "accuracy", "correlation", "byte_length", "first_bytes"})
	}
	return nil
}

// Write appends one entry, rolling to a new daily file if the date has
// changed since the last write.
func (w *CSVWriter) Write(e Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.rollIfNeeded(e.Time); err != nil {
		return err
	}
	row := []string{
		e.Time.Format(time.RFC3339),
		e.Mode,
		fmt.Sprintf("%.4f", e.Accuracy),
		fmt.Sprintf("%.4f", e.Correlation),
		fmt.Sprintf("%d", e.ByteLength),
		e.FirstBytes,
	}
	if err := w.writer.Write(row); err != nil {
		return err
	}
	w.writer.Flush()
	return w.writer.Error()
}

// Close flushes and closes the currently open file, if any.
func (w *CSVWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	w.writer.Flush()
	err := w.file.Close()
	w.file = nil
	return err
}
