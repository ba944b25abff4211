package models

import (
	"time"
)

// Session is a server-side operator session. Token presence and liveness are
// the only authority; there is no refresh flow.
type Session struct {
	Token     string    `gorm:"primaryKey" json:"token"`
	Email     string    `gorm:"index;not null" json:"email"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Session) TableName() string {
	return "sessions"
}

// AuditEntry records one successful mutation issued through the dashboard.
type AuditEntry struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Actor     string    `gorm:"index;type:varchar(255)" json:"actor"`
	Action    string    `gorm:"type:varchar(100);not null" json:"action"`
	Entity    string    `gorm:"type:varchar(255)" json:"entity"`
	Detail    string    `gorm:"type:text" json:"detail"` // JSON payload
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AuditEntry) TableName() string {
	return "audit_entries"
}
