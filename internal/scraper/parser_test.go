package scraper

import (
	"os"
	"path/filepath"
	"testing"
)

func readHTML(t *testing.T, name string) []byte {
	t.Helper()
	html, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("Error at reading html: %v", err)
	}
	return html
}

func TestParseFullPage(t *testing.T) {
	p := NewParser(DefaultProfile())

	records, nextRef, err := p.Parse("https://quotes.toscrape.com/", readHTML(t, "page_full.html"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	if nextRef != "/page/2/" {
		t.Errorf("nextRef = %q, want /page/2/", nextRef)
	}

	// --- record #1: complete
	r1 := records[0]
	if got, want := r1.Quote, "“The world as we have created it is a process of our thinking.”"; got != want {
		t.Errorf("quote[0] = %q, want %q", got, want)
	}
	if r1.Author != "Albert Einstein" {
		t.Errorf("author[0] = %q, want Albert Einstein", r1.Author)
	}
	// tags preserve source order
	want := []string{"change", "deep-thoughts", "thinking"}
	if len(r1.Tags) != len(want) {
		t.Fatalf("tags[0] = %#v, want %v", r1.Tags, want)
	}
	for i := range want {
		if r1.Tags[i] != want[i] {
			t.Errorf("tags[0][%d] = %q, want %q", i, r1.Tags[i], want[i])
		}
	}
	if r1.SourceURL != "https://quotes.toscrape.com/" {
		t.Errorf("sourceURL[0] = %q", r1.SourceURL)
	}
	if r1.ScrapedAt.IsZero() {
		t.Errorf("ScrapedAt not set")
	}

	// --- record #2: missing author degrades to empty string
	r2 := records[1]
	if r2.Author != "" {
		t.Errorf("author[1] = %q, want empty", r2.Author)
	}
	if r2.Quote == "" {
		t.Errorf("quote[1] empty")
	}
	if len(r2.Tags) != 2 {
		t.Errorf("tags[1] = %#v, want 2 tags", r2.Tags)
	}

	// --- record #3: no tags block degrades to nil
	r3 := records[2]
	if len(r3.Tags) != 0 {
		t.Errorf("tags[2] = %#v, want empty", r3.Tags)
	}
	if r3.Author != "Leonardo da Vinci" {
		t.Errorf("author[2] = %q, want Leonardo da Vinci", r3.Author)
	}
}

func TestParseLastPage(t *testing.T) {
	p := NewParser(DefaultProfile())

	records, nextRef, err := p.Parse("https://quotes.toscrape.com/page/10/", readHTML(t, "page_last.html"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	// "li.next a" must not match the previous-page link
	if nextRef != "" {
		t.Errorf("nextRef = %q, want empty", nextRef)
	}
}

func TestParseEmptyPage(t *testing.T) {
	p := NewParser(DefaultProfile())

	records, nextRef, err := p.Parse("https://quotes.toscrape.com/page/11/", readHTML(t, "page_empty.html"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("records = %d, want 0", len(records))
	}
	if nextRef != "" {
		t.Errorf("nextRef = %q, want empty", nextRef)
	}
}
