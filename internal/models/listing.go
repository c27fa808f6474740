package models

import "github.com/google/uuid"

type SourceType string

const (
	SourceInternal SourceType = "internal"
	SourceExternal SourceType = "external"
)

// JobListing is the unified view of an internal job posting or an
// externally sourced one.
type JobListing struct {
	ID                    *uuid.UUID         `json:"id,omitempty"`
	Title                 string             `json:"title"`
	Description           string             `json:"description"`
	RequiredQualification *float64           `json:"required_qualification,omitempty"`
	SourceType            SourceType         `json:"source_type"`
	CompanyName           string             `json:"company_name"`
	ApplicationStatus     *ApplicationStatus `json:"application_status,omitempty"`
	Eligible              bool               `json:"is_eligible"`
	PreMatched            bool               `json:"is_ai_matched"`
	Location              string             `json:"location,omitempty"`
	RedirectURL           string             `json:"redirect_url,omitempty"`
}

type MatchResult struct {
	Score           int      `json:"score"`
	MissingKeywords []string `json:"missing_keywords"`
}

type RankedListing struct {
	JobListing
	Match MatchResult `json:"match"`
}
