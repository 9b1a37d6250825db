// Package listing splits the raw fixture page into one block per fixture and
// pulls out the coarse fields every block carries: date, teams, home/away
// marker, category label, competition, kickoff and meeting time. The free-text
// venue and officiating fragments are kept verbatim for the extract package.
//
// Blocks without a parseable date are skipped with a logged warning; the rest
// of the page is still processed.
package listing

import (
	"bytes"
	"fmt"
	"iter"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tbraun/spielplan/internal/logger"
)

// Selectors for the club CMS fixture markup. Every fixture sits in its own
// .match block inside the .spielplan container.
const (
	blockSelector       = ".spielplan .match"
	dateSelector        = ".match-date"
	categorySelector    = ".match-art"
	competitionSelector = ".match-competition"
	teamsSelector       = ".match-teams"
	timesSelector       = ".match-times"
	venueSelector       = ".match-venue"
	staffSelector       = ".match-staff"
	linkSelector        = "a.match-link"
	logoSelector        = "img.wappen"
)

// Listing is one raw fixture block with its coarse fields extracted. It lives
// only for the duration of a run; the fixture package turns it into the
// canonical record.
type Listing struct {
	Index         int    // position in the source page
	Date          string // as printed, e.g. "05.09.2026"
	Kickoff       string // e.g. "15:00"
	MeetingTime   string
	CategoryLabel string // e.g. "Meisterschaftsspiel", may be empty
	Competition   string
	Team          string // the club's own team as listed
	Opponent      string
	HomeAway      string // "H" or "A", straight from the source marker
	Link          string // canonical fixture link, may be empty
	TeamLogo      string
	OpponentLogo  string
	VenueText     string // raw venue/detail fragment
	StaffText     string // raw officiating fragment
	Raw           string // full block text
}

var (
	// "Sa. 05.09.2026"; the weekday prefix is optional and ignored
	datePattern  = regexp.MustCompile(`(\d{1,2}\.\d{1,2}\.\d{2,4})`)
	teamsPattern = regexp.MustCompile(`^(.+?)\s*[–—-]\s*(.+?)\s*\((H|A)\)\s*$`)

	kickoffPattern = regexp.MustCompile(`(?i)Ansto(?:ß|ss)\s*:?\s*(\d{1,2}[:.]\d{2})`)
	meetingPattern = regexp.MustCompile(`(?i)Treffpunkt\s*:?\s*(\d{1,2}[:.]\d{2})`)
)

// Document is a parsed fixture page, ready to be walked for listings
type Document struct {
	doc *goquery.Document
}

// Parse parses the raw page content. Only the initial HTML parse can fail;
// individual fixture blocks are dealt with lazily in Listings.
func Parse(content []byte) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parsing fixture page: %w", err)
	}
	return &Document{doc: doc}, nil
}

// BlockCount returns the number of fixture blocks in the page, parseable or
// not. The difference to the number of yielded listings is the number of
// skipped blocks.
func (d *Document) BlockCount() int {
	return d.doc.Find(blockSelector).Length()
}

// Listings returns the fixture listings of the page. The sequence is lazy
// and restartable: ranging over it re-walks the parsed document in source
// order. Blocks without a parseable date are skipped with a logged warning.
func (d *Document) Listings() iter.Seq[Listing] {
	return func(yield func(Listing) bool) {
		index := 0
		d.doc.Find(blockSelector).EachWithBreak(func(i int, sel *goquery.Selection) bool {
			l, ok := parseBlock(sel)
			if !ok {
				logger.Warn("listing block skipped", logger.Fields{
					"position": i,
					"reason":   "no parseable date",
				})
				return true
			}
			l.Index = index
			index++
			return yield(l)
		})
	}
}

// Collect materializes the sequence into a slice.
func Collect(seq iter.Seq[Listing]) []Listing {
	listings := make([]Listing, 0)
	for l := range seq {
		listings = append(listings, l)
	}
	return listings
}

// parseBlock extracts the coarse fields from one .match block. It returns
// false when the block has no parseable date, which is the only thing a block
// must have to count as a fixture.
func parseBlock(sel *goquery.Selection) (Listing, bool) {
	l := Listing{
		Raw:       collapseWhitespace(sel.Text()),
		VenueText: strings.TrimSpace(sel.Find(venueSelector).Text()),
		StaffText: strings.TrimSpace(sel.Find(staffSelector).Text()),
	}

	dateText := strings.TrimSpace(sel.Find(dateSelector).Text())
	date := datePattern.FindString(dateText)
	if date == "" || ParseDate(date).IsZero() {
		return Listing{}, false
	}
	l.Date = date
	l.CategoryLabel = strings.TrimSpace(sel.Find(categorySelector).Text())
	l.Competition = strings.TrimSpace(sel.Find(competitionSelector).Text())

	teams := strings.TrimSpace(sel.Find(teamsSelector).Text())
	if m := teamsPattern.FindStringSubmatch(teams); m != nil {
		l.Team = strings.TrimSpace(m[1])
		l.Opponent = strings.TrimSpace(m[2])
		l.HomeAway = m[3]
	}

	times := strings.TrimSpace(sel.Find(timesSelector).Text())
	if m := kickoffPattern.FindStringSubmatch(times); m != nil {
		l.Kickoff = normalizeTime(m[1])
	}
	if m := meetingPattern.FindStringSubmatch(times); m != nil {
		l.MeetingTime = normalizeTime(m[1])
	}

	if href, ok := sel.Find(linkSelector).First().Attr("href"); ok {
		l.Link = strings.TrimSpace(href)
	}

	logos := sel.Find(logoSelector)
	if src, ok := logos.Eq(0).Attr("src"); ok {
		l.TeamLogo = src
	}
	if src, ok := logos.Eq(1).Attr("src"); ok {
		l.OpponentLogo = src
	}

	return l, true
}

// ParseDate parses a printed fixture date. Returns the zero time when the
// text matches none of the formats the source uses.
func ParseDate(text string) time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}
	}

	for _, layout := range []string{"02.01.2006", "2.1.2006", "02.01.06", "2.1.06"} {
		if t, err := time.Parse(layout, text); err == nil {
			return t
		}
	}

	return time.Time{}
}

// normalizeTime turns "15.00" into "15:00" and leaves "15:00" untouched
func normalizeTime(s string) string {
	return strings.Replace(s, ".", ":", 1)
}

// collapseWhitespace flattens runs of whitespace so the retained raw text is
// stable across formatting-only changes in the page markup
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
