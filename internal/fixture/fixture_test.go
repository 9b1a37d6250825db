package fixture

import (
	"testing"

	"github.com/tbraun/spielplan/internal/listing"
)

func TestNewFromListing(t *testing.T) {
	l := listing.Listing{
		Index:         0,
		Date:          "05.09.2026",
		Kickoff:       "15:00",
		MeetingTime:   "13:45",
		CategoryLabel: "Meisterschaftsspiel",
		Competition:   "Kreisliga A",
		Team:          "TSV Brunntal",
		Opponent:      "SV Eichenried",
		HomeAway:      "H",
		Link:          "/spiele/2026-09-05-sv-eichenried",
		TeamLogo:      "/img/wappen/tsv-brunntal.png",
		OpponentLogo:  "/img/wappen/sv-eichenried.png",
		Raw:           "some raw block",
	}

	f := New(l, nil, nil)

	if f.ID != "2026-09-05-sv-eichenried" {
		t.Errorf("unexpected ID %q", f.ID)
	}
	if f.Unidentified {
		t.Error("fixture with a canonical link must not be unidentified")
	}
	if f.Venue != VenueHome {
		t.Errorf("expected home venue, got %q", f.Venue)
	}
	if f.Category == nil || f.Category.Kind != KindOfficial {
		t.Errorf("expected official category, got %+v", f.Category)
	}
	if f.Team.Name != "TSV Brunntal" || f.Team.Logo == "" {
		t.Errorf("unexpected team %+v", f.Team)
	}
	if f.Details != nil || f.Staff != nil {
		t.Error("details and staff should stay nil when not extracted")
	}
	if f.Raw != "some raw block" {
		t.Error("raw block text should be retained")
	}
}

func TestNewWithoutLink(t *testing.T) {
	l := listing.Listing{Date: "26.09.2026", Raw: "block without link"}

	f := New(l, nil, nil)
	if !f.Unidentified {
		t.Error("fixture without a canonical link must be flagged unidentified")
	}
	if f.ID == "" {
		t.Error("unidentified fixture still needs an identifier")
	}

	// deterministic across runs over identical input
	again := New(l, nil, nil)
	if f.ID != again.ID {
		t.Errorf("fallback ID not deterministic: %q vs %q", f.ID, again.ID)
	}
}

func TestSlugFromLink(t *testing.T) {
	tests := []struct {
		link string
		want string
	}{
		{"/spiele/2026-09-05-sv-eichenried", "2026-09-05-sv-eichenried"},
		{"/spiele/2026-09-05-sv-eichenried/", "2026-09-05-sv-eichenried"},
		{"https://tsv-brunntal.de/spiele/2026-09-05-SV-Eichenried?utm=x", "2026-09-05-sv-eichenried"},
		{"/spiele/abc#anchor", "abc"},
		{"", ""},
		{"/", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := SlugFromLink(tt.link); got != tt.want {
			t.Errorf("SlugFromLink(%q) = %q, want %q", tt.link, got, tt.want)
		}
	}
}

func TestEnsureUniqueIDs(t *testing.T) {
	fixtures := []*Fixture{
		{ID: "2026-10-03-fc-dorfen"},
		{ID: "2026-10-03-fc-dorfen"},
		{ID: "2026-10-03-fc-dorfen"},
		{ID: "other"},
	}

	EnsureUniqueIDs(fixtures)

	if fixtures[0].ID != "2026-10-03-fc-dorfen" {
		t.Errorf("first fixture must keep its ID, got %q", fixtures[0].ID)
	}
	if fixtures[1].ID != "2026-10-03-fc-dorfen-2" {
		t.Errorf("expected -2 suffix, got %q", fixtures[1].ID)
	}
	if fixtures[2].ID != "2026-10-03-fc-dorfen-3" {
		t.Errorf("expected -3 suffix, got %q", fixtures[2].ID)
	}

	seen := make(map[string]bool)
	for _, f := range fixtures {
		if seen[f.ID] {
			t.Errorf("duplicate ID %q after EnsureUniqueIDs", f.ID)
		}
		seen[f.ID] = true
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		label string
		want  Kind
	}{
		{"Meisterschaftsspiel", KindOfficial},
		{"punktspiel", KindOfficial},
		{"Freundschaftsspiel", KindFriendly},
		{"Testspiel", KindFriendly},
		{"Training", KindTraining},
		{"Einlagespiel", KindShowcase},
	}
	for _, tt := range tests {
		c := ParseCategory(tt.label)
		if c == nil || c.Kind != tt.want {
			t.Errorf("ParseCategory(%q) = %+v, want kind %q", tt.label, c, tt.want)
		}
	}

	if c := ParseCategory(""); c != nil {
		t.Errorf("empty label should yield nil category, got %+v", c)
	}

	c := ParseCategory("Pokalspiel")
	if c == nil || c.Kind != KindUnrecognized {
		t.Fatalf("unknown label should yield unrecognized category, got %+v", c)
	}
	if c.Label != "Pokalspiel" {
		t.Errorf("unrecognized category must preserve the raw label, got %q", c.Label)
	}
}
