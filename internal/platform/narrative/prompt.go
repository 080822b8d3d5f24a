package narrative

import (
	"fmt"
	"sort"
	"strings"
)

// systemPrompt frames the model as a radiologist producing structured reports.
const systemPrompt = "You are an expert radiologist providing medical interpretations of X-ray analysis results. Provide structured, professional medical reports."

const promptTemplate = `You are an expert radiologist analyzing X-ray results from a deep learning model. The model has analyzed a chest X-ray and provided probability scores for various pathologies.
%s
X-ray Analysis Results:
%s

Please provide a comprehensive medical interpretation including:

1. **Primary Findings**: List the most significant findings (scores > 0.3 are typically considered positive)
2. **Clinical Significance**: Explain what these findings might indicate
3. **Differential Diagnosis**: List possible conditions based on the findings
4. **Recommended Actions**: Suggest appropriate follow-up care or additional testing
5. **Clinical Summary**: Provide a concise summary suitable for medical records

Important Guidelines:
- Scores > 0.5 are considered highly suggestive
- Scores 0.3-0.5 are moderately suggestive
- Scores < 0.3 are typically not clinically significant
- Always emphasize need for clinical correlation

Format your response as a structured medical report with clear sections.`

// BuildPrompt renders the interpretation request. Scores are listed in label
// order so repeated calls produce identical prompts for identical input.
func BuildPrompt(scores map[string]float64, patientContext string) string {
	labels := make([]string, 0, len(scores))
	for label := range scores {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var lines []string
	for _, label := range labels {
		lines = append(lines, fmt.Sprintf("- %s: %.4f", label, scores[label]))
	}

	ctx := ""
	if patientContext != "" {
		ctx = fmt.Sprintf("\nPatient Information:\n%s\n", patientContext)
	}

	return fmt.Sprintf(promptTemplate, ctx, strings.Join(lines, "\n"))
}
