package models

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobOpen   JobStatus = "open"
	JobClosed JobStatus = "closed"
)

type Job struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index" json:"company_id"`
	Title       string    `gorm:"type:text;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	// EligibilityCriteria is free text as entered by the company; it is
	// coerced to a CGPA threshold when evaluated.
	EligibilityCriteria string    `gorm:"type:text" json:"eligibility_criteria"`
	Status              JobStatus `gorm:"type:text;not null;default:'open'" json:"status"`
	CreatedAt           time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt           time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Company Company `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Job) TableName() string {
	return "jobs"
}

// JobWithCompany is an open job joined with the posting company's name.
type JobWithCompany struct {
	Job
	CompanyName string `json:"company_name"`
}

// CompanyJob is a job as seen by its owner, with the number of applicants.
type CompanyJob struct {
	Job
	ApplicantCount int64 `json:"applicant_count"`
}
