package fixture

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Matches is an ordered mapping from date key to the fixtures on that date.
// Both the date keys and the fixtures within a date keep their first-seen
// source order; nothing is re-sorted. It marshals as a plain JSON object whose
// keys appear in insertion order.
type Matches struct {
	dates  []string
	byDate map[string][]*Fixture
}

// NewMatches returns an empty ordered mapping
func NewMatches() *Matches {
	return &Matches{
		byDate: make(map[string][]*Fixture),
	}
}

// Group buckets fixtures by their date key in first-seen order
func Group(fixtures []*Fixture) *Matches {
	m := NewMatches()
	for _, f := range fixtures {
		m.Add(f)
	}
	return m
}

// Add appends a fixture to its date bucket, creating the bucket on first use
func (m *Matches) Add(f *Fixture) {
	if _, ok := m.byDate[f.Date]; !ok {
		m.dates = append(m.dates, f.Date)
	}
	m.byDate[f.Date] = append(m.byDate[f.Date], f)
}

// Dates returns the date keys in first-seen order
func (m *Matches) Dates() []string {
	return m.dates
}

// On returns the fixtures on a date in source order
func (m *Matches) On(date string) []*Fixture {
	return m.byDate[date]
}

// Len returns the total number of fixtures across all dates
func (m *Matches) Len() int {
	total := 0
	for _, fixtures := range m.byDate {
		total += len(fixtures)
	}
	return total
}

// All returns every fixture in bucket order then source order
func (m *Matches) All() []*Fixture {
	fixtures := make([]*Fixture, 0, m.Len())
	for _, date := range m.dates {
		fixtures = append(fixtures, m.byDate[date]...)
	}
	return fixtures
}

// MarshalJSON emits the mapping as a JSON object with keys in insertion order
func (m *Matches) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, date := range m.dates {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(date)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(m.byDate[date])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the mapping back preserving the key order of the
// document, which a plain map[string][]*Fixture would lose
func (m *Matches) UnmarshalJSON(data []byte) error {
	m.dates = nil
	m.byDate = make(map[string][]*Fixture)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("matches: expected JSON object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		date, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("matches: expected string key, got %v", keyTok)
		}

		var fixtures []*Fixture
		if err := dec.Decode(&fixtures); err != nil {
			return fmt.Errorf("matches: decoding fixtures for %s: %w", date, err)
		}

		m.dates = append(m.dates, date)
		m.byDate[date] = fixtures
	}

	// consume closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
