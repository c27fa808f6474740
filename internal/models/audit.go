package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminLog records administrative actions shown on the reports page.
type AdminLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Action    string    `gorm:"type:text;not null" json:"action"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

func (AdminLog) TableName() string {
	return "admin_logs"
}

// AuditEvent is one authenticated API request.
type AuditEvent struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    *uuid.UUID `gorm:"type:uuid" json:"user_id,omitempty"`
	Role      string     `gorm:"type:text" json:"role"`
	Method    string     `gorm:"type:text" json:"method"`
	Path      string     `gorm:"type:text" json:"path"`
	CreatedAt time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
