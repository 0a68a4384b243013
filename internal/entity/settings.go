package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Settings is a singleton row; the gate reads EmergencyLockdown through the
// cache on every request.
type Settings struct {
	ID uint `gorm:"primaryKey"`

	EmergencyLockdown bool `gorm:"default:false"`
	BookingOpen       bool `gorm:"default:true"`

	ContactEmail string `gorm:"type:varchar(255)"`
	ContactPhone string `gorm:"type:varchar(20)"`

	Extra datatypes.JSON

	UpdatedAt time.Time
}
