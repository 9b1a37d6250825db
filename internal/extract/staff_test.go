package extract

import "testing"

func TestExtractStaffFull(t *testing.T) {
	fragment := "SR: M. Huber · SRA1: K. Lang · SRA2: P. Weiß"

	s, warnings := ExtractStaff(fragment)
	if s == nil {
		t.Fatal("expected staff, got nil")
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
	if s.Referee != "M. Huber" {
		t.Errorf("unexpected referee %q", s.Referee)
	}
	if s.AssistantOne != "K. Lang" {
		t.Errorf("unexpected assistant one %q", s.AssistantOne)
	}
	if s.AssistantTwo != "P. Weiß" {
		t.Errorf("unexpected assistant two %q", s.AssistantTwo)
	}
	if s.Raw != fragment {
		t.Error("raw fragment should be retained verbatim")
	}
}

func TestExtractStaffLongLabels(t *testing.T) {
	fragment := "Schiedsrichter: Max Huber · Assistent 1: Karl Lang · Assistent 2: Peter Weiß"

	s, _ := ExtractStaff(fragment)
	if s == nil {
		t.Fatal("expected staff, got nil")
	}
	if s.Referee != "Max Huber" {
		t.Errorf("unexpected referee %q", s.Referee)
	}
	if s.AssistantOne != "Karl Lang" {
		t.Errorf("unexpected assistant one %q", s.AssistantOne)
	}
	if s.AssistantTwo != "Peter Weiß" {
		t.Errorf("unexpected assistant two %q", s.AssistantTwo)
	}
}

func TestExtractStaffRefereeOnly(t *testing.T) {
	s, warnings := ExtractStaff("SR: T. Brandl")
	if s == nil {
		t.Fatal("expected staff, got nil")
	}
	if s.Referee != "T. Brandl" {
		t.Errorf("unexpected referee %q", s.Referee)
	}
	if s.AssistantOne != "" || s.AssistantTwo != "" {
		t.Errorf("expected absent assistants, got %q / %q", s.AssistantOne, s.AssistantTwo)
	}
	if len(warnings) != 2 {
		t.Errorf("expected 2 warnings for the missing assistants, got %v", warnings)
	}
}

func TestExtractStaffUnparseable(t *testing.T) {
	s, warnings := ExtractStaff("Besetzung folgt")
	if s != nil {
		t.Errorf("expected nil staff, got %+v", s)
	}
	if len(warnings) != 1 || warnings[0] != "staff: fragment unparseable" {
		t.Errorf("expected unparseable warning, got %v", warnings)
	}
}

func TestExtractStaffEmpty(t *testing.T) {
	s, warnings := ExtractStaff("")
	if s != nil || warnings != nil {
		t.Errorf("expected nil, nil for empty fragment, got %+v, %v", s, warnings)
	}
}
