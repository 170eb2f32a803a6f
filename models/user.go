package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin Role = "admin"
)

// User is an admin account. Users are created by the seeder and never deleted.
type User struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Username  string    `json:"username" db:"username" gorm:"type:text;not null;uniqueIndex"`
	Email     string    `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex"`
	Password  string    `json:"-" db:"password" gorm:"type:text;not null"`
	Role      Role      `json:"role" db:"role" gorm:"type:text;not null;default:admin"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleAdmin
	}
	return nil
}
