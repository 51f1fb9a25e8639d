// internal/models/admin.go
package models

import (
	"crypto/subtle"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminCredentials is the single shared back-office login.
type AdminCredentials struct {
	Username     string
	Password     string
	PasswordHash string
}

// Configured reports whether a login is possible at all.
func (a AdminCredentials) Configured() bool {
	return a.Username != "" && (a.Password != "" || a.PasswordHash != "")
}

// Check compares a login attempt; a bcrypt hash takes precedence over a
// plain password.
func (a AdminCredentials) Check(username, password string) bool {
	if !a.Configured() {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.Username)) == 1
	if a.PasswordHash != "" {
		err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password))
		return userOK && err == nil
	}
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.Password)) == 1
	return userOK && passOK
}

// HashPassword returns a bcrypt hash suitable for ADMIN_PASS_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

type AuditLog struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	RequestID    string    `json:"request_id" gorm:"size:64;index"`
	Action       string    `json:"action" gorm:"size:200;not null;index"`
	ResourceType string    `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceID   string    `json:"resource_id" gorm:"size:255;index"`
	StatusCode   int       `json:"status_code"`
	NewValues    JSONB     `json:"new_values" gorm:"type:jsonb"`
	IPAddress    string    `json:"ip_address" gorm:"size:45"`
	UserAgent    string    `json:"user_agent" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
