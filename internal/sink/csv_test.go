package sink

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quotetools/quotescrape/internal/scraper"
)

var testFields = []string{"quote", "author", "tags"}

func sampleRecords() []scraper.Record {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return []scraper.Record{
		{
			Quote:     "The world as we have created it is a process of our thinking.",
			Author:    "Albert Einstein",
			Tags:      []string{"change", "deep-thoughts", "thinking"},
			SourceURL: "https://quotes.toscrape.com/",
			ScrapedAt: now,
		},
		{
			Quote:     "Quote, with a comma",
			Author:    "",
			Tags:      nil,
			SourceURL: "https://quotes.toscrape.com/",
			ScrapedAt: now,
		},
	}
}

func TestWriteCSVZeroRecordsWritesHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteCSV(path, testFields, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "quote,author,tags\n", string(data))
}

func TestWriteCSVIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	records := sampleRecords()

	require.NoError(t, WriteCSV(path, testFields, records))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, WriteCSV(path, testFields, records))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	require.Equal(t, first, second, "repeated writes must be byte-identical")
}

func TestWriteCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	records := sampleRecords()
	require.NoError(t, WriteCSV(path, testFields, records))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(records)+1, "header plus one row per record")
	require.Equal(t, testFields, rows[0])

	require.Equal(t, records[0].Quote, rows[1][0])
	require.Equal(t, "Albert Einstein", rows[1][1])
	// tags reconstructible by splitting on the separator
	require.Equal(t,
		[]string{"change", "deep-thoughts", "thinking"},
		strings.Split(rows[1][2], scraper.TagSeparator))

	// blank fields survive as empty cells
	require.Equal(t, "Quote, with a comma", rows[2][0])
	require.Equal(t, "", rows[2][1])
	require.Equal(t, "", rows[2][2])
}

func TestWriteCSVBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "out.csv")
	err := WriteCSV(path, testFields, sampleRecords())
	require.Error(t, err)

	var we *WriteError
	require.True(t, errors.As(err, &we))
	require.Equal(t, path, we.Path)
}
