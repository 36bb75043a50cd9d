package services

import (
	"fmt"
	"strings"
)

// Model input is capped so an oversized resume cannot blow the prompt
// budget; everything past this many characters is dropped.
const maxResumeChars = 15000

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildResumeAnalysisPrompt creates the recruiter prompt for one resume.
// guidanceContext is optional retrieved reviewer guidance; empty means
// the model works from the resume text alone.
func (pb *PromptBuilder) BuildResumeAnalysisPrompt(resumeText, guidanceContext string) string {
	if len(resumeText) > maxResumeChars {
		resumeText = resumeText[:maxResumeChars]
	}

	contextSection := ""
	if strings.TrimSpace(guidanceContext) != "" {
		contextSection = fmt.Sprintf("\nREVIEWER GUIDANCE:\n%s\n", guidanceContext)
	}

	return fmt.Sprintf(`You are an expert technical recruiter and career coach. Analyze the following resume text.
%s
CRITICAL INSTRUCTIONS:
1. Respond with ONLY a valid JSON object, no additional text, markdown, or formatting
2. Do not include any explanations, comments, or emojis
3. The JSON must have these exact keys and structure:
{
  "summary": "concise professional summary in 2-3 sentences",
  "strengths": ["strength1", "strength2", "strength3", "strength4"],
  "areasForImprovement": ["improvement1", "improvement2", "improvement3"],
  "overallScore": 85
}

Resume Text:
---
%s
---

IMPORTANT: Your response must be a single JSON object parseable with no additional processing.`,
		contextSection, resumeText)
}

// FormatGuidanceContext renders retrieved guidance chunks for prompt
// injection, highest-scoring first.
func FormatGuidanceContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Guidance %d (Score: %.2f) ---\n%s",
			i+1, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}
