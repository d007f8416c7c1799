package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type HotelSetting struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:255" json:"name"`
	Address string `gorm:"type:text" json:"address"`
	Phone   string `gorm:"size:50" json:"phone"`
	Email   string `gorm:"size:150" json:"email"`
	Website string `gorm:"size:255" json:"website"`

	// Billing constants read by the core.
	TaxRate      decimal.Decimal `gorm:"column:tax_rate;type:decimal(6,4)" json:"tax_rate"`
	Currency     string          `gorm:"size:8" json:"currency"`
	CheckInHour  int             `gorm:"column:check_in_hour;default:14" json:"check_in_hour"`
	CheckOutHour int             `gorm:"column:check_out_hour;default:12" json:"check_out_hour"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
