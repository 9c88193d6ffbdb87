package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a marketplace account. Identity is delegated to an external
// provider; ExternalID is the opaque subject it issues.
type User struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ExternalID string    `gorm:"column:external_id;type:text;not null;uniqueIndex:uq_users_external_id"`
	Email      string    `gorm:"column:email;type:text;not null;uniqueIndex:uq_users_email"`
	Name       string    `gorm:"column:name;not null"`
	Location   *string   `gorm:"column:location"`
	Phone      *string   `gorm:"column:phone"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
