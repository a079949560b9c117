package extract

import (
	"testing"
	"time"
)

func TestExtractInfoMeetingNote(t *testing.T) {
	e := newTestExtractor(t, time.Now())

	info := e.ExtractInfo("Meeting with John about the project report")

	if len(info.People) != 1 || info.People[0] != "John" {
		t.Fatalf("people = %v, want [John]", info.People)
	}
	if !contains(info.Topics, "project") || !contains(info.Topics, "report") {
		t.Fatalf("topics = %v, want project and report", info.Topics)
	}
	if !contains(info.Actions, "meeting") {
		t.Fatalf("actions = %v, want meeting", info.Actions)
	}
}

func TestExtractInfoLowercaseNameNotCaptured(t *testing.T) {
	e := newTestExtractor(t, time.Now())

	// The name capture requires a capitalized word; "with lunch" must not
	// produce a person.
	info := e.ExtractInfo("went for a walk with lunch after")
	if len(info.People) != 0 {
		t.Fatalf("people = %v, want none", info.People)
	}
}

func TestExtractInfoSubstringContainment(t *testing.T) {
	e := newTestExtractor(t, time.Now())

	// Keyword matching is containment, not word-boundary: "reporting"
	// carries "report".
	info := e.ExtractInfo("reporting on the quarterly numbers")
	if !contains(info.Topics, "report") {
		t.Fatalf("topics = %v, want report", info.Topics)
	}
}

func TestExtractInfoEmptyFieldsAreNonNil(t *testing.T) {
	e := newTestExtractor(t, time.Now())

	info := e.ExtractInfo("nothing interesting here")
	if info.People == nil || info.Topics == nil || info.Actions == nil {
		t.Fatalf("extracted fields must be non-nil slices: %+v", info)
	}
	if len(info.People)+len(info.Topics)+len(info.Actions) != 0 {
		t.Fatalf("expected empty extraction, got %+v", info)
	}
}

func TestExtractInfoIdempotent(t *testing.T) {
	e := newTestExtractor(t, time.Now())

	text := "Call Sara about the deadline, then buy groceries"
	a := e.ExtractInfo(text)
	b := e.ExtractInfo(text)
	if len(a.People) != len(b.People) || len(a.Topics) != len(b.Topics) || len(a.Actions) != len(b.Actions) {
		t.Fatalf("extraction not deterministic: %+v vs %+v", a, b)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.PeoplePattern == "" {
		t.Fatalf("default config missing people pattern")
	}
	if len(cfg.TopicKeywords) == 0 || len(cfg.ActionKeywords) == 0 {
		t.Fatalf("default config missing vocabulary: %+v", cfg)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/vocab.yaml"); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
