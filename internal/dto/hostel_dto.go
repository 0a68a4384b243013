package dto

import (
	"time"

	"gorm.io/datatypes"
)

type CreateRoomRequest struct {
	Number      string         `json:"number" validate:"required,max=20"`
	Floor       int            `json:"floor" validate:"gte=0"`
	Type        string         `json:"type" validate:"required,max=50"`
	Capacity    int            `json:"capacity" validate:"required,gt=0"`
	MonthlyRent int            `json:"monthly_rent" validate:"required,gt=0"`
	Amenities   datatypes.JSON `json:"amenities" validate:"omitempty"`
}

type UpdateRoomRequest struct {
	Type        *string        `json:"type" validate:"omitempty,max=50"`
	Capacity    *int           `json:"capacity" validate:"omitempty,gt=0"`
	MonthlyRent *int           `json:"monthly_rent" validate:"omitempty,gt=0"`
	Amenities   datatypes.JSON `json:"amenities" validate:"omitempty"`
	IsActive    *bool          `json:"is_active"`
}

type CreateBookingRequest struct {
	RoomID  string    `json:"room_id" validate:"required,uuid"`
	CheckIn time.Time `json:"check_in" validate:"required"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled checked_out"`
}

type UpdateSettingsRequest struct {
	EmergencyLockdown *bool          `json:"emergency_lockdown"`
	BookingOpen       *bool          `json:"booking_open"`
	ContactEmail      *string        `json:"contact_email" validate:"omitempty,email"`
	ContactPhone      *string        `json:"contact_phone" validate:"omitempty,max=20"`
	Extra             datatypes.JSON `json:"extra" validate:"omitempty"`
}

type UpsertContentRequest struct {
	Slug      string         `json:"slug" validate:"required,max=100"`
	Title     string         `json:"title" validate:"required,max=255"`
	Body      datatypes.JSON `json:"body" validate:"omitempty"`
	Published *bool          `json:"published"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"omitempty,max=255"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	Guardian string `json:"guardian" validate:"omitempty,max=255"`
}
