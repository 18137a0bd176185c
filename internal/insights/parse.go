package insights

import "strings"

// Section names the model is instructed to use.
const (
	sectionExplanation     = "simple explanation"
	sectionRecommendations = "health recommendations"
	sectionContext         = "contextual insights"
	sectionTips            = "actionable tips"
)

// parseResponse splits a model reply into the four expected sections.
// Headers are matched loosely: markdown markers, numbering and trailing
// colons are all tolerated.
func parseResponse(content string) *Insights {
	insights := &Insights{}

	var summaryLines []string
	current := ""

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if section, rest := matchHeader(line); section != "" {
			current = section
			if rest != "" {
				appendToSection(insights, &summaryLines, current, rest)
			}
			continue
		}

		appendToSection(insights, &summaryLines, current, line)
	}

	insights.Summary = strings.Join(summaryLines, " ")
	return insights
}

func appendToSection(insights *Insights, summaryLines *[]string, section, line string) {
	text := trimBullet(line)
	if text == "" {
		return
	}
	switch section {
	case sectionExplanation:
		*summaryLines = append(*summaryLines, text)
	case sectionRecommendations:
		insights.HealthRecommendations = append(insights.HealthRecommendations, text)
	case sectionContext:
		insights.ContextualInsights = append(insights.ContextualInsights, text)
	case sectionTips:
		insights.ActionableTips = append(insights.ActionableTips, text)
	}
}

// matchHeader reports which section a line starts, plus any content that
// follows the header on the same line.
func matchHeader(line string) (section, rest string) {
	normalized := strings.ToLower(line)
	normalized = strings.TrimLeft(normalized, "#*-1234. ")

	for _, name := range []string{sectionExplanation, sectionRecommendations, sectionContext, sectionTips} {
		if !strings.HasPrefix(normalized, name) {
			continue
		}
		idx := strings.Index(strings.ToLower(line), name)
		rest = strings.TrimSpace(line[idx+len(name):])
		rest = strings.TrimLeft(rest, ":* ")
		return name, rest
	}
	return "", ""
}

// trimBullet strips list markers from a line.
func trimBullet(line string) string {
	line = strings.TrimSpace(line)
	for _, marker := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(line[len(marker):])
		}
	}
	for i := 0; i < len(line); i++ {
		if line[i] >= '0' && line[i] <= '9' {
			continue
		}
		if (line[i] == '.' || line[i] == ')') && i > 0 {
			return strings.TrimSpace(line[i+1:])
		}
		break
	}
	return line
}
