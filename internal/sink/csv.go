// Package sink persists the records accumulated by a scrape run. Every
// sink writes once, after the loop has reached a terminal state, so a
// run that stops early still flushes its partial results.
package sink

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/quotetools/quotescrape/internal/scraper"
)

// WriteError reports a failed flush to durable storage. It is fatal for
// the run and surfaced to the operator via a non-zero exit.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// WriteCSV writes all records to path as UTF-8 comma-delimited text:
// one header row from the ordered field list, then one row per record
// with tags joined by scraper.TagSeparator inside a single cell. The
// file is created or truncated, never appended to, so writing the same
// records twice produces byte-identical output. Zero records still
// produce the header row, keeping the output parseable.
func WriteCSV(path string, fields []string, records []scraper.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	w := csv.NewWriter(f)
	if err := w.Write(fields); err != nil {
		f.Close()
		return &WriteError{Path: path, Err: err}
	}
	row := make([]string, len(fields))
	for _, rec := range records {
		for i, name := range fields {
			row[i] = rec.Field(name)
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return &WriteError{Path: path, Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return &WriteError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
