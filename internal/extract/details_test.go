package extract

import "testing"

func TestExtractDetailsFull(t *testing.T) {
	fragment := "Sportplatz am Wald · Waldstraße 12, 85567 Brunntal · Rasen · https://maps.example.com/sportplatz-am-wald"

	d, warnings := ExtractDetails(fragment)
	if d == nil {
		t.Fatal("expected details, got nil")
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
	if d.Venue != "Sportplatz am Wald" {
		t.Errorf("unexpected venue %q", d.Venue)
	}
	if d.Adresse == nil || *d.Adresse != "Waldstraße 12, 85567 Brunntal" {
		t.Errorf("unexpected adresse %v", d.Adresse)
	}
	if d.Ground != "Rasen" {
		t.Errorf("unexpected ground %q", d.Ground)
	}
	if d.MapLink != "https://maps.example.com/sportplatz-am-wald" {
		t.Errorf("unexpected map link %q", d.MapLink)
	}
	if d.Raw != fragment {
		t.Error("raw fragment should be retained verbatim")
	}
}

func TestExtractDetailsMissingAddress(t *testing.T) {
	fragment := "Sportanlage Süd · Kunstrasen · https://maps.example.com/sportanlage-sued"

	d, warnings := ExtractDetails(fragment)
	if d == nil {
		t.Fatal("expected details, got nil")
	}
	if d.Adresse != nil {
		t.Errorf("expected nil adresse, got %q", *d.Adresse)
	}
	if d.Venue != "Sportanlage Süd" {
		t.Errorf("unexpected venue %q", d.Venue)
	}
	if d.Ground != "Kunstrasen" {
		t.Errorf("unexpected ground %q", d.Ground)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected exactly 1 warning, got %v", warnings)
	}
	if warnings[0] != "details: no adresse matched" {
		t.Errorf("unexpected warning %q", warnings[0])
	}
}

func TestExtractDetailsReordered(t *testing.T) {
	// ground and map link swapped, address first after the venue still works
	fragment := "Waldstadion · https://maps.example.com/waldstadion · Hartplatz"

	d, _ := ExtractDetails(fragment)
	if d == nil {
		t.Fatal("expected details, got nil")
	}
	if d.Venue != "Waldstadion" {
		t.Errorf("unexpected venue %q", d.Venue)
	}
	if d.Ground != "Hartplatz" {
		t.Errorf("unexpected ground %q", d.Ground)
	}
	if d.MapLink != "https://maps.example.com/waldstadion" {
		t.Errorf("unexpected map link %q", d.MapLink)
	}
}

func TestExtractDetailsEmpty(t *testing.T) {
	d, warnings := ExtractDetails("   ")
	if d != nil {
		t.Errorf("expected nil details for blank fragment, got %+v", d)
	}
	if warnings != nil {
		t.Errorf("expected no warnings for blank fragment, got %v", warnings)
	}
}

func TestCanonicalGround(t *testing.T) {
	tests := map[string]string{
		"rasen":      "Rasen",
		"KUNSTRASEN": "Kunstrasen",
		"Halle":      "Halle",
		"Tartan":     "Tartan", // unknown labels pass through
	}
	for in, want := range tests {
		if got := canonicalGround(in); got != want {
			t.Errorf("canonicalGround(%q) = %q, want %q", in, got, want)
		}
	}
}
