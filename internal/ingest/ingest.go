// Package ingest wires the scrape pipeline end to end: fetch the fixture
// page, split it into listings, extract the free-text fragments, normalize
// everything into canonical fixtures and atomically replace the persisted
// snapshot.
//
// Per-fixture extraction failures are absorbed and counted; only a fetch
// failure, a wholly empty listing set or a snapshot write failure aborts a
// run, and all of them leave the previous snapshot untouched.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tbraun/spielplan/internal/extract"
	"github.com/tbraun/spielplan/internal/fetch"
	"github.com/tbraun/spielplan/internal/fixture"
	"github.com/tbraun/spielplan/internal/listing"
	"github.com/tbraun/spielplan/internal/logger"
	"github.com/tbraun/spielplan/internal/snapshot"
)

// ErrEmptyListing is returned when the fixture page parses but contains no
// fixture blocks at all. Unlike a legitimately empty schedule (a page with a
// fixture container but no dated blocks would still be suspicious), this
// points at a page-layout change and must not wipe the previous snapshot.
var ErrEmptyListing = errors.New("fixture page yielded no listings")

// Fetcher retrieves the raw fixture page. Satisfied by *fetch.Fetcher;
// narrowed to an interface so tests can feed canned pages.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
	URL() string
}

// Summary is what a run reports back to its trigger
type Summary struct {
	Fixtures     int    `json:"fixtures"`
	Dates        int    `json:"dates"`
	New          int    `json:"new"`
	Warnings     int    `json:"warnings"`
	Unidentified int    `json:"unidentified,omitempty"`
	ScrapedAt    string `json:"scrapedAt"`
}

// Runner executes scrape runs. The external trigger is responsible for not
// starting two runs at once; the Runner itself only guards the snapshot file
// through the store's atomic replace.
type Runner struct {
	fetcher     Fetcher
	store       *snapshot.Store
	club        snapshot.Club
	parallelism int
	now         func() time.Time
}

// NewRunner creates a Runner writing to the given store
func NewRunner(fetcher Fetcher, store *snapshot.Store, club snapshot.Club) *Runner {
	return &Runner{
		fetcher:     fetcher,
		store:       store,
		club:        club,
		parallelism: runtime.NumCPU(),
		now:         time.Now,
	}
}

// extraction carries the per-listing results of the parallel phase
type extraction struct {
	details  *extract.Details
	staff    *extract.Staff
	warnings []string
}

// Run executes one end-to-end scrape. The context bounds the whole run;
// parsing is CPU-bound and runs to completion once the page is fetched.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	started := r.now()
	logger.IncrCounter("ingest.runs")

	fetchStart := r.now()
	content, err := r.fetcher.Fetch(ctx)
	if err != nil {
		logger.IncrCounter("ingest.fetch_errors")
		return nil, err
	}
	logger.RecordTiming("ingest.fetch", r.now().Sub(fetchStart))

	doc, err := listing.Parse(content)
	if err != nil {
		return nil, err
	}
	listings := listing.Collect(doc.Listings())
	if len(listings) == 0 {
		return nil, ErrEmptyListing
	}
	// blocks discarded for lack of a date count as parse warnings
	warnings := doc.BlockCount() - len(listings)

	// Detail and staff extraction are pure functions over their fragment, so
	// different fixtures run in parallel. Results land in a pre-sized slice
	// indexed by listing position, which keeps source order without locking.
	results := make([]extraction, len(listings))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)
	for i, l := range listings {
		g.Go(func() error {
			details, detailWarnings := extract.ExtractDetails(l.VenueText)
			staff, staffWarnings := extract.ExtractStaff(l.StaffText)
			results[i] = extraction{
				details:  details,
				staff:    staff,
				warnings: append(detailWarnings, staffWarnings...),
			}
			return nil
		})
	}
	// barrier: grouping must not start before every extraction finished
	g.Wait()

	unidentified := 0
	fixtures := make([]*fixture.Fixture, 0, len(listings))
	for i, l := range listings {
		f := fixture.New(l, results[i].details, results[i].staff)
		if f.Unidentified {
			unidentified++
		}
		for _, w := range results[i].warnings {
			logger.Warn("fixture fragment incomplete", logger.Fields{
				"id":      f.ID,
				"date":    f.Date,
				"warning": w,
			})
			warnings++
		}
		fixtures = append(fixtures, f)
	}

	fixture.EnsureUniqueIDs(fixtures)
	matches := fixture.Group(fixtures)

	// count fixtures not present in the previous snapshot before replacing it
	newCount := r.countNew(fixtures)

	snap := snapshot.New(r.club, r.fetcher.URL(), r.now(), matches)
	if err := r.store.Write(snap); err != nil {
		logger.IncrCounter("ingest.write_errors")
		return nil, err
	}

	logger.AddCounter("ingest.fixtures", int64(len(fixtures)))
	logger.AddCounter("ingest.warnings", int64(warnings))
	logger.RecordTiming("ingest.run", r.now().Sub(started))

	summary := &Summary{
		Fixtures:     len(fixtures),
		Dates:        len(matches.Dates()),
		New:          newCount,
		Warnings:     warnings,
		Unidentified: unidentified,
		ScrapedAt:    snap.ScrapedAt,
	}
	logger.Info("scrape run finished", logger.Fields{
		"fixtures": summary.Fixtures,
		"dates":    summary.Dates,
		"warnings": summary.Warnings,
	})
	return summary, nil
}

// countNew compares the run's fixtures against the previous snapshot and
// counts identifiers seen for the first time. A missing or unreadable
// previous snapshot makes every fixture new.
func (r *Runner) countNew(fixtures []*fixture.Fixture) int {
	previous, err := r.store.Load()
	if err != nil {
		return len(fixtures)
	}

	known := make(map[string]bool)
	for _, f := range previous.Matches.All() {
		known[f.ID] = true
	}

	count := 0
	for _, f := range fixtures {
		if !known[f.ID] {
			count++
		}
	}
	return count
}

// ErrorCode maps a run failure to the stable code reported through the
// trigger interface
func ErrorCode(err error) string {
	var fetchErr *fetch.Error
	if errors.As(err, &fetchErr) {
		return fmt.Sprintf("fetch_%s", fetchErr.Kind)
	}
	var writeErr *snapshot.WriteError
	if errors.As(err, &writeErr) {
		return "snapshot_write"
	}
	if errors.Is(err, ErrEmptyListing) {
		return "empty_listing"
	}
	return "internal"
}
