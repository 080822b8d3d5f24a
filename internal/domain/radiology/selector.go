package radiology

import "sort"

// SignificanceThreshold is the minimum classifier score a pathology must
// exceed before it is written to the chart. Scores equal to the threshold
// are excluded.
const SignificanceThreshold = 0.3

// Finding is a pathology label paired with its classifier score.
type Finding struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// SignificantFindings filters the score map to entries strictly above the
// threshold, ordered by descending score for stable output.
func SignificantFindings(scores map[string]float64, threshold float64) []Finding {
	var findings []Finding
	for label, score := range scores {
		if score > threshold {
			findings = append(findings, Finding{Label: label, Score: score})
		}
	}
	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Score != findings[j].Score {
			return findings[i].Score > findings[j].Score
		}
		return findings[i].Label < findings[j].Label
	})
	return findings
}

// SeverityForScore maps a classifier score to a chart severity.
func SeverityForScore(score float64) string {
	if score > 0.5 {
		return "High"
	}
	return "Moderate"
}
