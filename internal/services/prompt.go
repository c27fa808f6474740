package services

import "fmt"

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildResumeAnalysisPrompt asks for a single JSON object describing the resume.
func (pb *PromptBuilder) BuildResumeAnalysisPrompt(resumeText string) string {
	return fmt.Sprintf(`Analyze the following resume text for HireWave, a college recruitment platform.
Return ONLY a JSON object with these keys:
{
  "summary": "<2-sentence overview>",
  "feedback": ["<critique point>", "..."],
  "scoreBreakdown": { "education": <0-25>, "skills": <0-25>, "projects": <0-25>, "experience": <0-25> },
  "placementProbability": <total score 0-100>,
  "categorizedSkills": { "technical": [], "tools": [], "soft": [] },
  "suitableRoles": ["<3 roles, best fit first>"],
  "companyTypes": ["<types of companies>"],
  "roadmap": [{ "suggestion": "<string>", "priority": "High" | "Medium" | "Optional" }],
  "atsCheck": { "keywords": "High" | "Low", "formatting": "Good" | "Bad", "readability": "Good" | "Bad" }
}

Text: %s`, resumeText)
}
