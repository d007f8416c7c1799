package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Room struct {
	gorm.Model

	// Nullable so a missing FK from the frontend never inserts 0.
	RoomTypeID *uint  `json:"RoomTypeID,omitempty" gorm:"column:room_type_id"`
	RoomNumber string `json:"roomNumber" gorm:"column:room_number;uniqueIndex;type:varchar(50)"`

	Type         string          `json:"type" gorm:"size:64"`
	Floor        string          `json:"floor" gorm:"type:varchar(10)"`
	NightlyRate  decimal.Decimal `json:"nightlyRate" gorm:"column:nightly_rate;type:decimal(12,2)"`
	MaxOccupancy int             `json:"maxOccupancy" gorm:"column:max_occupancy"`
	Amenities    datatypes.JSON  `json:"amenities,omitempty" gorm:"column:amenities"`
	Maintenance  bool            `json:"maintenance" gorm:"column:maintenance;default:false"`
	Description  string          `json:"description" gorm:"type:text"`

	// Derived from reservations overlapping today plus the maintenance
	// flag. Never persisted; filled in by RoomService on read.
	Status string `json:"status" gorm:"-"`

	RoomType RoomType `gorm:"foreignKey:RoomTypeID" json:"roomType,omitempty"`
}

// Derived room statuses.
const (
	RoomAvailable   = "available"
	RoomOccupied    = "occupied"
	RoomMaintenance = "maintenance"
	RoomReserved    = "reserved"
)
