// Package fixture defines the canonical fixture record and the normalization
// steps that turn parsed listing fragments into it: stable identifier
// derivation, home/away classification, category mapping and date grouping.
package fixture

import (
	"crypto/sha1"
	"fmt"
	"strings"

	"github.com/tbraun/spielplan/internal/extract"
	"github.com/tbraun/spielplan/internal/listing"
)

// Venue classifies where the club plays, taken straight from the source's
// home/away marker. It is never inferred from team names.
type Venue string

const (
	VenueHome Venue = "home"
	VenueAway Venue = "away"
)

// Team is a team name with an optional logo reference
type Team struct {
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

// Fixture is one scheduled match, the canonical unit produced by ingestion.
// A Fixture is never mutated after creation; the next run replaces it with a
// fresh record carrying the same identifier.
type Fixture struct {
	ID           string           `json:"id"`
	Unidentified bool             `json:"unidentified,omitempty"`
	Date         string           `json:"date"`
	Kickoff      string           `json:"kickoff,omitempty"`
	MeetingTime  string           `json:"meetingTime,omitempty"`
	Competition  string           `json:"competition,omitempty"`
	Team         Team             `json:"team"`
	Opponent     Team             `json:"opponent"`
	Venue        Venue            `json:"venue,omitempty"`
	Category     *Category        `json:"category,omitempty"`
	Details      *extract.Details `json:"details"`
	Staff        *extract.Staff   `json:"staff"`
	Raw          string           `json:"raw"`
}

// New assembles a canonical Fixture from a parsed listing and its extracted
// fragments. A listing without a canonical link still yields a fixture; its
// identifier is then derived from the raw block and flagged as unidentified.
func New(l listing.Listing, details *extract.Details, staff *extract.Staff) *Fixture {
	f := &Fixture{
		Date:        l.Date,
		Kickoff:     l.Kickoff,
		MeetingTime: l.MeetingTime,
		Competition: l.Competition,
		Team:        Team{Name: l.Team, Logo: l.TeamLogo},
		Opponent:    Team{Name: l.Opponent, Logo: l.OpponentLogo},
		Category:    ParseCategory(l.CategoryLabel),
		Details:     details,
		Staff:       staff,
		Raw:         l.Raw,
	}

	switch l.HomeAway {
	case "H":
		f.Venue = VenueHome
	case "A":
		f.Venue = VenueAway
	}

	if slug := SlugFromLink(l.Link); slug != "" {
		f.ID = slug
	} else {
		f.ID = FallbackID(l.Raw)
		f.Unidentified = true
	}

	return f
}

// SlugFromLink derives the stable identifier from the fixture's canonical
// link, e.g. "/spiele/2026-09-05-sv-eichenried/" → "2026-09-05-sv-eichenried".
// Returns "" when the link is empty or carries no usable path segment.
func SlugFromLink(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	// drop query and fragment parts
	if i := strings.IndexAny(link, "?#"); i >= 0 {
		link = link[:i]
	}
	link = strings.Trim(link, "/")
	if link == "" {
		return ""
	}
	segments := strings.Split(link, "/")
	slug := segments[len(segments)-1]
	return strings.ToLower(slug)
}

// FallbackID derives a deterministic identifier from the raw block text for
// listings without a canonical link. Deterministic so that re-runs over
// byte-identical source content produce byte-identical snapshots.
func FallbackID(raw string) string {
	h := sha1.New()
	h.Write([]byte(raw))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

// EnsureUniqueIDs makes identifiers pairwise distinct within one run. When two
// fixtures resolve to the same identifier the later one gets a numeric suffix
// ("-2", "-3", ...) instead of being dropped.
func EnsureUniqueIDs(fixtures []*Fixture) {
	seen := make(map[string]bool, len(fixtures))
	for _, f := range fixtures {
		if !seen[f.ID] {
			seen[f.ID] = true
			continue
		}
		for n := 2; ; n++ {
			candidate := fmt.Sprintf("%s-%d", f.ID, n)
			if !seen[candidate] {
				f.ID = candidate
				seen[candidate] = true
				break
			}
		}
	}
}
