package extract

import "strings"

// Details holds the structured venue information of a fixture. Adresse is a
// pointer because some venues have no published address; the raw fragment is
// always retained for manual correction later.
type Details struct {
	Venue   string  `json:"venue,omitempty"`
	Adresse *string `json:"adresse"`
	Ground  string  `json:"ground,omitempty"`
	MapLink string  `json:"mapLink,omitempty"`
	Raw     string  `json:"raw"`
}

// detailRules extract from fragments like
//
//	"Sportplatz am Wald · Waldstraße 12, 71111 Musterstadt · Rasen · https://maps.example.com/abc"
//
// The segments are ·-separated; any of them may be missing or reordered.
var detailRules = []Rule{
	// venue name is the leading segment before the first separator
	Regex("venue", `^\s*([^·|]+?)\s*(?:[·|]|$)`),
	// a street address carries a five-digit postal code somewhere in its segment
	Regex("adresse", `(?:^|[·|])\s*([^·|]*\b\d{5}\b[^·|]*?)\s*(?:[·|]|$)`),
	// ground surface, longest label first so "Kunstrasen" wins over "Rasen"
	Regex("ground", `(?i)\b(Kunstrasen|Hartplatz|Rasen|Asche|Halle)\b`),
	Regex("mapLink", `(https?://\S+)`),
}

// ExtractDetails parses the venue fragment of one fixture. It returns nil for
// an empty fragment, and nil plus a warning when a non-empty fragment matches
// no rule at all. Otherwise each unmatched sub-field is reported as a warning
// and left absent.
func ExtractDetails(fragment string) (*Details, []string) {
	if isBlank(fragment) {
		return nil, nil
	}

	fields, missing := Apply(detailRules, fragment)
	if len(fields) == 0 {
		return nil, []string{"details: fragment unparseable"}
	}

	d := &Details{
		Venue:   fields["venue"],
		Ground:  canonicalGround(fields["ground"]),
		MapLink: fields["mapLink"],
		Raw:     fragment,
	}
	if adresse, ok := fields["adresse"]; ok {
		d.Adresse = &adresse
	}

	warnings := make([]string, 0, len(missing))
	for _, field := range missing {
		warnings = append(warnings, "details: no "+field+" matched")
	}
	return d, warnings
}

// groundLabels maps folded ground matches back to their canonical casing
var groundLabels = []string{"Kunstrasen", "Rasen", "Hartplatz", "Asche", "Halle"}

// canonicalGround normalizes the casing of the matched ground label
func canonicalGround(label string) string {
	for _, canonical := range groundLabels {
		if strings.EqualFold(label, canonical) {
			return canonical
		}
	}
	return label
}
