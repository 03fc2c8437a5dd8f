package models

import "time"

// Audited actions.
const (
	ActionSigninSuccess = "signin_success"
	ActionSigninFailure = "signin_failure"
	ActionSignup        = "signup"
)

// ActionLog is an audit record of a security-relevant action.
// Detail holds a short reason code, never a credential.
type ActionLog struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Action    string    `json:"action" gorm:"size:50;not null;index"`
	UserID    *int64    `json:"user_id" gorm:"index"`
	Username  string    `json:"username" gorm:"size:255"`
	Detail    string    `json:"detail" gorm:"size:100"`
	IPAddress string    `json:"ip_address" gorm:"size:45"`
	UserAgent string    `json:"user_agent" gorm:"size:255"`
	RequestID string    `json:"request_id" gorm:"size:128"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// TableName returns the database table name for the ActionLog model.
func (ActionLog) TableName() string {
	return "action_logs"
}
