package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PublicContent struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Slug string    `gorm:"type:varchar(100);uniqueIndex;not null"`

	Title string `gorm:"type:varchar(255);not null"`
	Body  datatypes.JSON

	Published bool `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
