package radiology

import "testing"

func TestSignificantFindingsStrictThreshold(t *testing.T) {
	scores := map[string]float64{
		"Cardiomegaly": 0.42,
		"Pneumonia":    0.12,
		"Edema":        0.3,
		"Atelectasis":  0.300001,
	}
	findings := SignificantFindings(scores, SignificanceThreshold)
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d: %v", len(findings), findings)
	}
	if findings[0].Label != "Cardiomegaly" || findings[1].Label != "Atelectasis" {
		t.Errorf("wrong order: %v", findings)
	}
	for _, f := range findings {
		if f.Label == "Edema" {
			t.Error("score equal to the threshold must be excluded")
		}
	}
}

func TestSignificantFindingsPreservesScores(t *testing.T) {
	scores := map[string]float64{"Cardiomegaly": 0.42}
	findings := SignificantFindings(scores, SignificanceThreshold)
	if len(findings) != 1 || findings[0].Score != 0.42 {
		t.Errorf("score must pass through unmodified: %v", findings)
	}
}

func TestSignificantFindingsEmpty(t *testing.T) {
	if got := SignificantFindings(map[string]float64{}, SignificanceThreshold); len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
	if got := SignificantFindings(nil, SignificanceThreshold); len(got) != 0 {
		t.Errorf("expected empty for nil, got %v", got)
	}
}

func TestSignificantFindingsTieBreakByLabel(t *testing.T) {
	scores := map[string]float64{"Pneumonia": 0.6, "Consolidation": 0.6}
	findings := SignificantFindings(scores, SignificanceThreshold)
	if len(findings) != 2 || findings[0].Label != "Consolidation" {
		t.Errorf("equal scores must order by label: %v", findings)
	}
}

func TestSeverityForScore(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0.31, "Moderate"},
		{0.5, "Moderate"},
		{0.51, "High"},
		{0.99, "High"},
	}
	for _, tc := range cases {
		if got := SeverityForScore(tc.score); got != tc.want {
			t.Errorf("SeverityForScore(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}
