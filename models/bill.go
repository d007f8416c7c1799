package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Bill statuses, all derived from the item/payment ledger on read.
const (
	BillDraft     = "draft"
	BillPending   = "pending"
	BillPartial   = "partial"
	BillPaid      = "paid"
	BillOverdue   = "overdue"
	BillCancelled = "cancelled"
)

// Bill holds only the ledger of facts (items and payments) plus the tax
// rate and discount. Subtotal/tax/total/balance are never stored — they
// are recomputed by services.ComputeTotals so they cannot drift.
type Bill struct {
	ID uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ReservationID uint `gorm:"column:reservation_id;index;not null" json:"reservation_id"`

	TaxRate  decimal.Decimal `gorm:"column:tax_rate;type:decimal(6,4)" json:"tax_rate"`
	Discount decimal.Decimal `gorm:"column:discount;type:decimal(12,2)" json:"discount"`
	Currency string          `gorm:"column:currency;size:8" json:"currency"`
	DueDate  *time.Time      `gorm:"column:due_date" json:"due_date,omitempty"`

	// Closed once paid and the stay is checked-out; reopened only by an
	// admin correction.
	Closed     bool       `gorm:"column:closed;default:false" json:"closed"`
	Cancelled  bool       `gorm:"column:cancelled;default:false" json:"cancelled"`
	ReopenedAt *time.Time `gorm:"column:reopened_at" json:"reopened_at,omitempty"`

	Items    []BillItem `gorm:"foreignKey:BillID" json:"items"`
	Payments []Payment  `gorm:"foreignKey:BillID" json:"payments"`
}

func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// BillItem rows are append-only; corrections go through the discount or
// a new item, never an edit.
type BillItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	BillID      uuid.UUID       `gorm:"column:bill_id;type:varchar(36);index;not null" json:"bill_id"`
	Description string          `gorm:"column:description;size:255" json:"description"`
	Quantity    int             `gorm:"column:quantity" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:decimal(12,2)" json:"unit_price"`
	Category    string          `gorm:"column:category;size:64" json:"category"`
}

// LineTotal = quantity x unit price.
func (i BillItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Payment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BillID uuid.UUID       `gorm:"column:bill_id;type:varchar(36);index;not null" json:"bill_id"`
	Amount decimal.Decimal `gorm:"column:amount;type:decimal(12,2)" json:"amount"`
	Method string          `gorm:"column:method;size:64" json:"method"`
	Note   string          `gorm:"column:note;size:255" json:"note,omitempty"`
	PaidAt time.Time       `gorm:"column:paid_at" json:"paid_at"`
}

// Item categories used by the core.
const (
	ItemCategoryRoom   = "room"
	ItemCategoryCustom = "custom"
)
