package models

import "github.com/google/uuid"

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role" validate:"required,oneof=student company"`
}

type LoginRequest struct {
	// Identifier is a username or an email.
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token  string     `json:"token"`
	Role   Role       `json:"role"`
	Email  string     `json:"email"`
	Status UserStatus `json:"status"`
}

type ForgotPasswordRequest struct {
	Username    string `json:"username" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type UpdateProfileRequest struct {
	FullName   string  `json:"full_name" validate:"max=128"`
	CGPA       float64 `json:"cgpa" validate:"gte=0,lte=10"`
	Department string  `json:"department" validate:"max=128"`
	Skills     string  `json:"skills"`
}

type CreateJobRequest struct {
	Title               string `json:"title" validate:"required,max=200"`
	Description         string `json:"description"`
	EligibilityCriteria string `json:"eligibility_criteria"`
}

type UpdateApplicationStatusRequest struct {
	Status ApplicationStatus `json:"status" validate:"required,oneof=applied shortlisted interview rejected placed"`
}

type UploadResponse struct {
	Message    string          `json:"message"`
	ResumePath string          `json:"resume_path"`
	Analysis   *ResumeAnalysis `json:"analysis"`
}

type FeedResponse struct {
	Query             string          `json:"query"`
	AnalysisAvailable bool            `json:"analysis_available"`
	Items             []RankedListing `json:"items"`
}

type DepartmentStat struct {
	Department string `json:"department"`
	Total      int64  `json:"total"`
	Placed     int64  `json:"placed"`
}

type ReportResponse struct {
	Total            int64            `json:"total"`
	Placed           int64            `json:"placed"`
	Unplaced         int64            `json:"unplaced"`
	PendingStudents  int64            `json:"pendingStudents"`
	PendingCompanies int64            `json:"pendingCompanies"`
	DeptStats        []DepartmentStat `json:"deptStats"`
	RecentActions    []AdminLog       `json:"recentActions"`
}

type UserSummary struct {
	ID       uuid.UUID  `json:"id"`
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Role     Role       `json:"role"`
	Status   UserStatus `json:"status"`
}
