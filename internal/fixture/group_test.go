package fixture

import (
	"encoding/json"
	"strings"
	"testing"
)

func sample() []*Fixture {
	return []*Fixture{
		{ID: "a", Date: "05.09.2026"},
		{ID: "b", Date: "12.09.2026"},
		{ID: "c", Date: "05.09.2026"},
		{ID: "d", Date: "03.10.2026"},
	}
}

func TestGroupOrder(t *testing.T) {
	m := Group(sample())

	wantDates := []string{"05.09.2026", "12.09.2026", "03.10.2026"}
	gotDates := m.Dates()
	if len(gotDates) != len(wantDates) {
		t.Fatalf("expected %d dates, got %d", len(wantDates), len(gotDates))
	}
	for i := range wantDates {
		if gotDates[i] != wantDates[i] {
			t.Errorf("date %d = %q, want %q", i, gotDates[i], wantDates[i])
		}
	}

	// fixtures within a bucket keep first-seen order
	bucket := m.On("05.09.2026")
	if len(bucket) != 2 || bucket[0].ID != "a" || bucket[1].ID != "c" {
		t.Errorf("unexpected bucket order: %+v", bucket)
	}

	if m.Len() != 4 {
		t.Errorf("expected 4 fixtures total, got %d", m.Len())
	}

	all := m.All()
	wantIDs := []string{"a", "c", "b", "d"}
	for i, f := range all {
		if f.ID != wantIDs[i] {
			t.Errorf("All()[%d] = %q, want %q", i, f.ID, wantIDs[i])
		}
	}
}

func TestMatchesJSONKeyOrder(t *testing.T) {
	m := Group(sample())

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	// keys must appear in first-seen order, not sorted
	text := string(data)
	i1 := strings.Index(text, `"05.09.2026"`)
	i2 := strings.Index(text, `"12.09.2026"`)
	i3 := strings.Index(text, `"03.10.2026"`)
	if i1 < 0 || i2 < 0 || i3 < 0 {
		t.Fatalf("missing date keys in %s", text)
	}
	if !(i1 < i2 && i2 < i3) {
		t.Errorf("date keys out of source order: %s", text)
	}
}

func TestMatchesJSONRoundTrip(t *testing.T) {
	m := Group(sample())

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	decoded := NewMatches()
	if err := json.Unmarshal(data, decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if len(decoded.Dates()) != len(m.Dates()) {
		t.Fatalf("expected %d dates after round trip, got %d", len(m.Dates()), len(decoded.Dates()))
	}
	for i, date := range m.Dates() {
		if decoded.Dates()[i] != date {
			t.Errorf("date order lost in round trip: %q vs %q", decoded.Dates()[i], date)
		}
		if len(decoded.On(date)) != len(m.On(date)) {
			t.Errorf("bucket %q size changed in round trip", date)
		}
	}

	// second marshal must be byte-identical
	again, err := json.Marshal(decoded)
	if err != nil {
		t.Fatalf("second marshal failed: %v", err)
	}
	if string(again) != string(data) {
		t.Error("round trip is not stable")
	}
}
