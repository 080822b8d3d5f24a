package narrative

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SectionDivider separates report sections. It is the only structural marker
// in stored report text, so SplitSections can recover the sections later.
var SectionDivider = strings.Repeat("-", 60)

// DegradedReport is stored verbatim when narrative generation fails. The
// findings themselves are unaffected.
const DegradedReport = "Automated interpretation is temporarily unavailable. " +
	"The pathology scores below were recorded and require review by a radiologist."

// Section is one titled block of a composed report.
type Section struct {
	Title string
	Body  string
}

// ComposeReport assembles the stored report text from the narrative and the
// raw score map.
func ComposeReport(analysis string, scores map[string]float64, analyzedAt time.Time) string {
	labels := make([]string, 0, len(scores))
	for label := range scores {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var scoreLines []string
	for _, label := range labels {
		scoreLines = append(scoreLines, fmt.Sprintf("%s: %.4f", label, scores[label]))
	}

	sections := []Section{
		{
			Title: "CHEST X-RAY ANALYSIS",
			Body:  fmt.Sprintf("Analysis Date: %s", analyzedAt.Format("2006-01-02 15:04:05")),
		},
		{
			Title: "RAW MODEL RESULTS",
			Body:  strings.Join(scoreLines, "\n"),
		},
		{
			Title: "MEDICAL INTERPRETATION",
			Body:  analysis,
		},
		{
			Title: "DISCLAIMER",
			Body: "This analysis is for educational/research purposes only.\n" +
				"Always consult with qualified medical professionals for actual diagnosis.\n" +
				"AI analysis should supplement, not replace, clinical expertise.",
		},
	}

	return JoinSections(sections)
}

// JoinSections renders sections as title, divider, body blocks.
func JoinSections(sections []Section) string {
	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(s.Title)
		b.WriteString("\n")
		b.WriteString(SectionDivider)
		b.WriteString("\n")
		b.WriteString(s.Body)
	}
	return b.String()
}

// SplitSections recovers the ordered sections of a composed report. Text
// before the first titled section is ignored. Input that contains no divider
// yields a single untitled section holding the whole text.
func SplitSections(report string) []Section {
	lines := strings.Split(report, "\n")

	var sections []Section
	var current *Section

	for i := 0; i < len(lines); i++ {
		if i+1 < len(lines) && lines[i+1] == SectionDivider && strings.TrimSpace(lines[i]) != "" {
			if current != nil {
				current.Body = strings.TrimSpace(current.Body)
				sections = append(sections, *current)
			}
			current = &Section{Title: lines[i]}
			i++ // skip divider
			continue
		}
		if current != nil {
			if current.Body != "" {
				current.Body += "\n"
			}
			current.Body += lines[i]
		}
	}

	if current != nil {
		current.Body = strings.TrimSpace(current.Body)
		sections = append(sections, *current)
	}

	if len(sections) == 0 && strings.TrimSpace(report) != "" {
		sections = append(sections, Section{Body: strings.TrimSpace(report)})
	}

	return sections
}
