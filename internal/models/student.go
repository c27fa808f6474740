package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Student struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	FullName       string         `gorm:"type:text" json:"full_name"`
	CGPA           float64        `gorm:"type:decimal(4,2);default:0" json:"cgpa"`
	Department     string         `gorm:"type:text" json:"department"`
	Skills         string         `gorm:"type:text" json:"skills"`
	ResumePath     string         `gorm:"type:text" json:"resume_path"`
	ResumeAnalysis datatypes.JSON `gorm:"type:jsonb" json:"-"`
	CreatedAt      time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Student) TableName() string {
	return "students"
}

// Analysis decodes the stored resume analysis. It returns nil when the
// student has not uploaded a resume yet.
func (s *Student) Analysis() (*ResumeAnalysis, error) {
	if len(s.ResumeAnalysis) == 0 || string(s.ResumeAnalysis) == "null" {
		return nil, nil
	}

	analysis := NewResumeAnalysis()
	if err := json.Unmarshal(s.ResumeAnalysis, analysis); err != nil {
		return nil, fmt.Errorf("failed to decode resume analysis: %w", err)
	}
	return analysis, nil
}

// StudentProfile is the student record joined with the owning username.
type StudentProfile struct {
	Student
	Username string `json:"username"`
}
