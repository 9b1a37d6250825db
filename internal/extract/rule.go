// Package extract pulls structured fields out of the free-text fragments of a
// fixture block: the venue/detail fragment and the officiating fragment.
//
// Extraction is expressed as an ordered list of independent rules. Each rule
// attempts to pull exactly one field out of the fragment and reports
// present-or-absent; a rule that does not match never fails the others. This
// keeps partial fragments useful and makes each rule testable on its own.
package extract

import (
	"regexp"
	"strings"
)

// Rule attempts to pull one named field out of a text fragment.
type Rule struct {
	Field   string
	Attempt func(fragment string) (string, bool)
}

// Regex builds a rule that matches a pattern with exactly one capture group.
// The captured text is trimmed; an empty capture counts as no match.
func Regex(field, pattern string) Rule {
	re := regexp.MustCompile(pattern)
	return Rule{
		Field: field,
		Attempt: func(fragment string) (string, bool) {
			m := re.FindStringSubmatch(fragment)
			if m == nil {
				return "", false
			}
			value := strings.TrimSpace(m[1])
			return value, value != ""
		},
	}
}

// Apply runs the rules in order over the fragment. It returns the matched
// fields and the names of the rules that found nothing.
func Apply(rules []Rule, fragment string) (fields map[string]string, missing []string) {
	fields = make(map[string]string, len(rules))
	for _, rule := range rules {
		value, ok := rule.Attempt(fragment)
		if !ok {
			missing = append(missing, rule.Field)
			continue
		}
		fields[rule.Field] = value
	}
	return fields, missing
}
