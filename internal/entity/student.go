package entity

import (
	"time"

	"github.com/google/uuid"
)

type Student struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash *string   `gorm:"type:text"`

	FullName   string `gorm:"type:varchar(255);not null"`
	Phone      string `gorm:"type:varchar(20)"`
	Guardian   string `gorm:"type:varchar(255)"`
	Institute  string `gorm:"type:varchar(255)"`
	RoomNumber *string

	IsActive bool `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Bookings []Booking
}
