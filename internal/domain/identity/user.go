package identity

import (
	"strings"
	"time"

	"github.com/bizcore/backend/internal/domain/shared"
)

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

// User is the account that owns user-scoped master data. Each user can
// manage several companies; the companies themselves live in the records
// table with the user's id as their scope.
type User struct {
	shared.BaseAggregateRoot
	Username    string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	Email       string     `gorm:"type:varchar(200);not null"`
	DisplayName string     `gorm:"type:varchar(100)"`
	Status      UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	LastLoginAt *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new user account
func NewUser(username, email string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(username) > 50 {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 50 characters")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email address")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          username,
		Email:             email,
		DisplayName:       username,
		Status:            UserStatusActive,
	}, nil
}

// Rename changes the user's display name
func (u *User) Rename(displayName string) error {
	if displayName == "" {
		return shared.NewDomainError("INVALID_NAME", "Display name cannot be empty")
	}
	if len(displayName) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Display name cannot exceed 100 characters")
	}

	u.DisplayName = displayName
	u.UpdatedAt = time.Now()
	return nil
}

// RecordLogin stores the time of a successful login
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
	u.UpdatedAt = at
}

// IsActive returns true if the account can be used
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// Disable blocks the account
func (u *User) Disable() {
	u.Status = UserStatusDisabled
	u.UpdatedAt = time.Now()
}

// Enable reactivates the account
func (u *User) Enable() {
	u.Status = UserStatusActive
	u.UpdatedAt = time.Now()
}
