package auth

import "time"

type Session struct {
	SessionID string    `gorm:"primaryKey" json:"-"`
	UserID    uint      `gorm:"not null;unique" json:"-"`
	ExpiresAt time.Time `gorm:"not null"`
}

// User is a credential + role record. PasswordHash must never appear in a
// response payload; json:"-" enforces that at the serialization boundary.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Name         string    `json:"name"`
	Role         string    `gorm:"default:'viewer'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Session) TableName() string { return "sessions" }
func (User) TableName() string    { return "users" }

const (
	RoleAdmin     = "admin"
	RoleVolunteer = "volunteer"
	RoleViewer    = "viewer"
)
