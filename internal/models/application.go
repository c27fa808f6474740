package models

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	ApplicationApplied     ApplicationStatus = "applied"
	ApplicationShortlisted ApplicationStatus = "shortlisted"
	ApplicationInterview   ApplicationStatus = "interview"
	ApplicationRejected    ApplicationStatus = "rejected"
	ApplicationPlaced      ApplicationStatus = "placed"
)

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationApplied, ApplicationShortlisted, ApplicationInterview, ApplicationRejected, ApplicationPlaced:
		return true
	}
	return false
}

type Application struct {
	ID        uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	StudentID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_application_student_job" json:"student_id"`
	JobID     uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_application_student_job" json:"job_id"`
	Status    ApplicationStatus `gorm:"type:text;not null;default:'applied'" json:"status"`
	AppliedAt time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"applied_at"`
	UpdatedAt time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Student Student `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
	Job     Job     `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Application) TableName() string {
	return "applications"
}

// Applicant is an application joined with the applying student.
type Applicant struct {
	ApplicationID     uuid.UUID         `json:"app_id"`
	ApplicationStatus ApplicationStatus `json:"app_status"`
	StudentID         uuid.UUID         `json:"student_id"`
	FullName          string            `json:"full_name"`
	CGPA              float64           `json:"cgpa"`
	Department        string            `json:"department"`
	Skills            string            `json:"skills"`
	ResumePath        string            `json:"resume_path"`
	Username          string            `json:"username"`
}
