package models

import (
	"time"

	"gorm.io/gorm"
)

// Reservation statuses. Transitions are forward-only; the table lives in
// services/reservation_service.go.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusCheckedIn  = "checked-in"
	StatusCheckedOut = "checked-out"
	StatusCancelled  = "cancelled"
)

// Payment statuses derived from the bill ledger.
const (
	PayUnpaid   = "unpaid"
	PayPartial  = "partial"
	PayPaid     = "paid"
	PayRefunded = "refunded"
)

type Reservation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ReferenceCode string `gorm:"column:reference_code;uniqueIndex;size:64" json:"reference_code"`
	// Sibling reservations of a multi-room booking share this id.
	BookingGroupID string `gorm:"column:booking_group_id;index;size:36" json:"booking_group_id,omitempty"`

	// Guest identity is captured at booking time, not a live FK read.
	GuestName  string `gorm:"column:guest_name;size:255" json:"guest_name"`
	GuestEmail string `gorm:"column:guest_email;size:150" json:"guest_email"`
	GuestPhone string `gorm:"column:guest_phone;size:50" json:"guest_phone,omitempty"`

	CheckIn  time.Time `gorm:"column:check_in" json:"check_in"`
	CheckOut time.Time `gorm:"column:check_out" json:"check_out"`

	ActualCheckIn  *time.Time `gorm:"column:actual_check_in" json:"actual_check_in,omitempty"`
	ActualCheckOut *time.Time `gorm:"column:actual_check_out" json:"actual_check_out,omitempty"`

	Adults          int    `gorm:"column:adults;default:1" json:"adults"`
	Children        int    `gorm:"column:children;default:0" json:"children"`
	SpecialRequests string `gorm:"column:special_requests;type:text" json:"special_requests,omitempty"`

	// Nil until the allocation operation assigns a room together with
	// the transition to checked-in.
	RoomID *uint  `gorm:"column:room_id;index" json:"room_id,omitempty"`
	Status string `gorm:"column:status;size:32;index" json:"status"`

	ForceClosed      bool   `gorm:"column:force_closed;default:false" json:"force_closed,omitempty"`
	ForceCloseReason string `gorm:"column:force_close_reason;size:255" json:"force_close_reason,omitempty"`

	Room Room  `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
	Bill *Bill `gorm:"foreignKey:ReservationID" json:"bill,omitempty"`
}

// Nights between the booked dates, minimum one night.
func (r *Reservation) Nights() int {
	return NightsBetween(r.CheckIn, r.CheckOut)
}

func NightsBetween(checkIn, checkOut time.Time) int {
	if checkOut.Before(checkIn) {
		return 0
	}
	n := int(checkOut.Sub(checkIn).Hours() / 24)
	if n <= 0 {
		n = 1
	}
	return n
}
