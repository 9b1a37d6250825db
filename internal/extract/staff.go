package extract

import "strings"

// Staff holds the officiating crew of a fixture. Each name is independently
// optional; the raw fragment is always retained.
type Staff struct {
	Referee      string `json:"referee,omitempty"`
	AssistantOne string `json:"assistantOne,omitempty"`
	AssistantTwo string `json:"assistantTwo,omitempty"`
	Raw          string `json:"raw"`
}

// staffRules extract from fragments like
//
//	"SR: M. Huber · SRA1: K. Lang · SRA2: P. Weiß"
//
// Both the short SR/SRA forms and the spelled-out German labels appear in the
// wild. "SR" only matches as a whole word, so it never eats the SRA labels.
var staffRules = []Rule{
	Regex("referee", `(?i)\b(?:SR|Schiedsrichter)\b\s*:?\s*([^·;,|]+)`),
	Regex("assistantOne", `(?i)\b(?:SRA\s*1|Assistent\s*1)\b\s*:?\s*([^·;,|]+)`),
	Regex("assistantTwo", `(?i)\b(?:SRA\s*2|Assistent\s*2)\b\s*:?\s*([^·;,|]+)`),
}

// ExtractStaff parses the officiating fragment of one fixture with the same
// tolerance model as ExtractDetails: nil for an empty fragment, nil plus a
// warning for an unparseable one, absent sub-fields otherwise.
func ExtractStaff(fragment string) (*Staff, []string) {
	if isBlank(fragment) {
		return nil, nil
	}

	fields, missing := Apply(staffRules, fragment)
	if len(fields) == 0 {
		return nil, []string{"staff: fragment unparseable"}
	}

	s := &Staff{
		Referee:      fields["referee"],
		AssistantOne: fields["assistantOne"],
		AssistantTwo: fields["assistantTwo"],
		Raw:          fragment,
	}

	warnings := make([]string, 0, len(missing))
	for _, field := range missing {
		warnings = append(warnings, "staff: no "+field+" matched")
	}
	return s, warnings
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
