package fixture

import "strings"

// Kind is the closed set of fixture categories the club distinguishes
type Kind string

const (
	KindOfficial Kind = "official"
	KindFriendly Kind = "friendly"
	KindTraining Kind = "training"
	KindShowcase Kind = "showcase"
	// KindUnrecognized keeps a label the mapping does not know. The raw label
	// survives in Category.Label so consumers can tell "set to something
	// unexpected" apart from "not set at all".
	KindUnrecognized Kind = "unrecognized"
)

// Category is the tagged category of a fixture. A nil *Category means the
// source carried no label.
type Category struct {
	Kind  Kind   `json:"kind"`
	Label string `json:"label,omitempty"`
}

// categoryLabels maps the source's German labels to canonical kinds
var categoryLabels = map[string]Kind{
	"meisterschaftsspiel": KindOfficial,
	"punktspiel":          KindOfficial,
	"pflichtspiel":        KindOfficial,
	"freundschaftsspiel":  KindFriendly,
	"testspiel":           KindFriendly,
	"training":            KindTraining,
	"einlagespiel":        KindShowcase,
	"schauturnier":        KindShowcase,
}

// ParseCategory maps a source category label to its canonical kind. An empty
// label yields nil; an unknown label yields KindUnrecognized with the original
// label preserved, never a rejected fixture.
func ParseCategory(label string) *Category {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil
	}
	if kind, ok := categoryLabels[strings.ToLower(label)]; ok {
		return &Category{Kind: kind}
	}
	return &Category{Kind: KindUnrecognized, Label: label}
}
