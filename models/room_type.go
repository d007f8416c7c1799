package models

import (
	"time"

	"gorm.io/gorm"
)

// RoomType Struct (one definition for the whole project)
type RoomType struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TypeName    string `json:"typeName" gorm:"uniqueIndex;size:64"`
	Description string `json:"description"`
	MaxGuests   uint   `json:"max_guests"`

	CreatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
