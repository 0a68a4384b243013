package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Room struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Number string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	Floor  int       `gorm:"not null"`

	Type        string `gorm:"type:varchar(50);not null"`
	Capacity    int    `gorm:"not null"`
	MonthlyRent int    `gorm:"not null"`

	Amenities datatypes.JSON

	IsActive bool `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Bookings []Booking
}
