package scraper

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Parser extracts quote records from one page of HTML using the
// profile's selector schema.
type Parser struct {
	profile Profile
}

func NewParser(p Profile) *Parser {
	return &Parser{profile: p}
}

// Parse walks the document for the container selector and extracts one
// record per match. A missing text or author sub-element degrades to an
// empty string and a missing tag list to nil; sub-element problems
// never fail the page.
//
// The second return value is the raw href of the next-page link, empty
// when the page has none. Zero container matches yield an empty record
// slice and an empty next reference, which the driver treats as the
// normal end of pagination.
func (p *Parser) Parse(pageURL string, html []byte) ([]Record, string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, "", fmt.Errorf("parse %s: %w", pageURL, err)
	}

	now := time.Now().UTC()
	sel := p.profile.Selectors

	var out []Record
	doc.Find(sel.Container).Each(func(_ int, blk *goquery.Selection) {
		quote := strings.TrimSpace(blk.Find(sel.Text).First().Text())
		author := strings.TrimSpace(blk.Find(sel.Author).First().Text())

		var tags []string
		blk.Find(sel.Tag).Each(func(_ int, a *goquery.Selection) {
			if t := strings.TrimSpace(a.Text()); t != "" {
				tags = append(tags, t)
			}
		})

		out = append(out, Record{
			Quote:     quote,
			Author:    author,
			Tags:      tags,
			SourceURL: pageURL,
			ScrapedAt: now,
		})
	})

	nextRef, _ := doc.Find(sel.NextPage).First().Attr("href")
	return out, strings.TrimSpace(nextRef), nil
}
