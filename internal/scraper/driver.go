package scraper

import (
	"context"
	"log/slog"
	"net/url"
	"time"
)

// State is the terminal condition of a scrape run. Every state except
// StateRunning stops the loop; all of them preserve the records
// collected so far.
type State int

const (
	StateRunning State = iota
	StateNoMorePages
	StatePageLimit
	StateFetchFailure
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateNoMorePages:
		return "no_more_pages"
	case StatePageLimit:
		return "page_limit"
	case StateFetchFailure:
		return "fetch_failure"
	default:
		return "unknown"
	}
}

// Config carries everything the driver, fetcher, and sinks need for one
// run. There is no other process-wide state.
type Config struct {
	Profile    Profile
	CSVPath    string
	SQLitePath string        // empty disables the SQLite sink
	PageLimit  int           // 0 means unlimited
	Delay      time.Duration // politeness delay between page fetches
	UserAgent  string
	Timeout    time.Duration // per-request HTTP timeout
}

// Result is what a finished run hands to the sinks: the ordered records
// from every successfully parsed page, the terminal state, and the
// fetch error when the state is StateFetchFailure.
type Result struct {
	Records []Record
	State   State
	Pages   int // successfully fetched and parsed pages
	Err     error
	Elapsed time.Duration
}

// Driver runs the fetch-parse-accumulate loop. It is strictly
// sequential: one fetch in flight at a time, with a blocking politeness
// delay between fetches. The only shared data is the record slice it
// owns exclusively.
type Driver struct {
	cfg    Config
	client *Client
	parser *Parser
	log    *slog.Logger

	// sleep is swapped out by tests to count and skip delays.
	sleep func(context.Context, time.Duration) error
}

func NewDriver(cfg Config, client *Client, logger *slog.Logger) *Driver {
	return &Driver{
		cfg:    cfg,
		client: client,
		parser: NewParser(cfg.Profile),
		log:    logger,
		sleep:  sleepCtx,
	}
}

// Run scrapes pages starting at the profile's start URL until one of
// the terminal conditions is hit. The page-limit check and the
// no-next-page check both happen before the politeness delay, so a run
// that fetches N pages sleeps exactly N-1 times.
func (d *Driver) Run(ctx context.Context) Result {
	start := time.Now()
	res := Result{State: StateRunning}
	pageURL := d.cfg.Profile.StartURL()

	for res.State == StateRunning {
		page := res.Pages + 1
		d.log.Info("fetching page", "page", page, "url", pageURL)

		body, err := d.client.Get(ctx, pageURL)
		if err != nil {
			res.State = StateFetchFailure
			res.Err = err
			break
		}

		records, nextRef, err := d.parser.Parse(pageURL, body)
		if err != nil {
			// A document-level parse failure means the page body was
			// unusable; treat it like a failed fetch of that page.
			res.State = StateFetchFailure
			res.Err = err
			break
		}
		if len(records) == 0 {
			res.State = StateNoMorePages
			break
		}

		res.Records = append(res.Records, records...)
		res.Pages = page
		d.log.Debug("parsed page", "page", page, "records", len(records))

		if d.cfg.PageLimit > 0 && page >= d.cfg.PageLimit {
			res.State = StatePageLimit
			break
		}
		if nextRef == "" {
			res.State = StateNoMorePages
			break
		}
		next, err := resolveRef(pageURL, nextRef)
		if err != nil {
			d.log.Warn("malformed next-page reference", "href", nextRef, "err", err)
			res.State = StateNoMorePages
			break
		}

		if err := d.sleep(ctx, d.cfg.Delay); err != nil {
			res.State = StateFetchFailure
			res.Err = err
			break
		}
		pageURL = next
	}

	res.Elapsed = time.Since(start)
	d.log.Info("run finished",
		"state", res.State.String(),
		"pages", res.Pages,
		"records", len(res.Records),
		"elapsed", res.Elapsed)
	return res
}

// resolveRef resolves a next-page href (usually relative, e.g.
// "/page/2/") against the URL of the page it appeared on.
func resolveRef(pageURL, ref string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	next, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(next).String(), nil
}
