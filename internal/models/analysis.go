package models

// MaxSectionScore is the upper bound of every score breakdown field.
const MaxSectionScore = 25

type Priority string

const (
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityOptional Priority = "Optional"
)

type KeywordDensity string

const (
	KeywordsHigh KeywordDensity = "High"
	KeywordsLow  KeywordDensity = "Low"
)

type Quality string

const (
	QualityGood Quality = "Good"
	QualityBad  Quality = "Bad"
)

// ResumeAnalysis is the structured result of analysing a resume. Every
// collection is non-nil so it always serializes as an array.
type ResumeAnalysis struct {
	Summary            string            `json:"summary"`
	FeedbackPoints     []string          `json:"feedbackPoints"`
	ScoreBreakdown     ScoreBreakdown    `json:"scoreBreakdown"`
	OverallProbability int               `json:"overallProbability"`
	CategorizedSkills  CategorizedSkills `json:"categorizedSkills"`
	SuitableRoles      []string          `json:"suitableRoles"`
	CompanyTypes       []string          `json:"companyTypes"`
	Roadmap            []RoadmapItem     `json:"roadmap"`
	ATSCheck           ATSCheck          `json:"atsCheck"`
	// Degraded is set when no backend produced a usable analysis.
	Degraded bool `json:"degraded"`
}

type ScoreBreakdown struct {
	Education  int `json:"education"`
	Skills     int `json:"skills"`
	Projects   int `json:"projects"`
	Experience int `json:"experience"`
}

// Total is the sum of the four sections. It is not forced to match
// OverallProbability.
func (s ScoreBreakdown) Total() int {
	return s.Education + s.Skills + s.Projects + s.Experience
}

type CategorizedSkills struct {
	Technical []string `json:"technical"`
	Tools     []string `json:"tools"`
	Soft      []string `json:"soft"`
}

type RoadmapItem struct {
	Suggestion string   `json:"suggestion"`
	Priority   Priority `json:"priority"`
}

type ATSCheck struct {
	Keywords    KeywordDensity `json:"keywords"`
	Formatting  Quality        `json:"formatting"`
	Readability Quality        `json:"readability"`
}

// NewResumeAnalysis returns an analysis with every field at its safe default.
func NewResumeAnalysis() *ResumeAnalysis {
	return &ResumeAnalysis{
		FeedbackPoints: []string{},
		CategorizedSkills: CategorizedSkills{
			Technical: []string{},
			Tools:     []string{},
			Soft:      []string{},
		},
		SuitableRoles: []string{},
		CompanyTypes:  []string{},
		Roadmap:       []RoadmapItem{},
		ATSCheck: ATSCheck{
			Keywords:    KeywordsLow,
			Formatting:  QualityGood,
			Readability: QualityGood,
		},
	}
}

// TopRole returns the highest ranked suitable role, or "" when there is none.
func (a *ResumeAnalysis) TopRole() string {
	if a == nil || len(a.SuitableRoles) == 0 {
		return ""
	}
	return a.SuitableRoles[0]
}
