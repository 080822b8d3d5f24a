package narrative

import (
	"strings"
	"testing"
	"time"
)

func TestComposeReport_RoundTrip(t *testing.T) {
	scores := map[string]float64{
		"Cardiomegaly": 0.42,
		"Pneumonia":    0.12,
	}
	report := ComposeReport("Mild cardiomegaly is suspected.", scores, time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC))

	sections := SplitSections(report)
	if len(sections) != 4 {
		t.Fatalf("expected 4 sections, got %d", len(sections))
	}

	titles := []string{"CHEST X-RAY ANALYSIS", "RAW MODEL RESULTS", "MEDICAL INTERPRETATION", "DISCLAIMER"}
	for i, want := range titles {
		if sections[i].Title != want {
			t.Errorf("section %d: expected title %q, got %q", i, want, sections[i].Title)
		}
	}

	if !strings.Contains(sections[1].Body, "Cardiomegaly: 0.4200") {
		t.Errorf("raw results section missing score line: %q", sections[1].Body)
	}
	if sections[2].Body != "Mild cardiomegaly is suspected." {
		t.Errorf("unexpected interpretation body: %q", sections[2].Body)
	}
}

func TestComposeReport_ScoresSorted(t *testing.T) {
	scores := map[string]float64{
		"Pneumonia":    0.12,
		"Atelectasis":  0.05,
		"Cardiomegaly": 0.42,
	}
	report := ComposeReport("x", scores, time.Now())

	atel := strings.Index(report, "Atelectasis")
	card := strings.Index(report, "Cardiomegaly")
	pneu := strings.Index(report, "Pneumonia")
	if !(atel < card && card < pneu) {
		t.Error("expected score lines in label order")
	}
}

func TestSplitSections_NoDivider(t *testing.T) {
	sections := SplitSections("just a flat paragraph of text")
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Title != "" {
		t.Errorf("expected untitled section, got %q", sections[0].Title)
	}
	if sections[0].Body != "just a flat paragraph of text" {
		t.Errorf("unexpected body: %q", sections[0].Body)
	}
}

func TestSplitSections_Empty(t *testing.T) {
	if sections := SplitSections(""); len(sections) != 0 {
		t.Errorf("expected no sections for empty input, got %d", len(sections))
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	scores := map[string]float64{
		"Pneumonia":    0.12,
		"Cardiomegaly": 0.42,
	}
	a := BuildPrompt(scores, "")
	b := BuildPrompt(scores, "")
	if a != b {
		t.Error("expected identical prompts for identical input")
	}
	if !strings.Contains(a, "- Cardiomegaly: 0.4200") {
		t.Errorf("prompt missing score line:\n%s", a)
	}
}

func TestBuildPrompt_PatientContext(t *testing.T) {
	p := BuildPrompt(map[string]float64{"Edema": 0.2}, "72-year-old male, smoker")
	if !strings.Contains(p, "Patient Information:\n72-year-old male, smoker") {
		t.Error("prompt missing patient context")
	}
}
