package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingCancelled  BookingStatus = "cancelled"
	BookingCheckedOut BookingStatus = "checked_out"
)

type Booking struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	StudentID uuid.UUID `gorm:"type:uuid;not null;index"`
	Student   Student   `gorm:"constraint:OnDelete:CASCADE"`

	RoomID uuid.UUID `gorm:"type:uuid;not null;index"`
	Room   Room      `gorm:"constraint:OnDelete:CASCADE"`

	Status BookingStatus `gorm:"type:booking_status;default:'pending';not null"`

	CheckIn  time.Time
	CheckOut *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
