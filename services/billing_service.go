// services/billing_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"horizon-backend/models"
	"horizon-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BillingService owns the bill ledger. Items and payments are the only
// stored facts; every total is derived on read.
type BillingService struct {
	DB *gorm.DB
}

func NewBillingService(db *gorm.DB) *BillingService {
	return &BillingService{DB: db}
}

// BillTotals is the derived view of a bill.
type BillTotals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
	Paid     decimal.Decimal `json:"paid_amount"`
	Balance  decimal.Decimal `json:"balance"`
	Status   string          `json:"status"`
}

// ComputeTotals derives subtotal/tax/total/paid/balance and the bill
// status from the ledger. Pure: identical item/payment sequences give
// identical results, and calling it never mutates the bill.
func ComputeTotals(b *models.Bill) BillTotals {
	return computeTotalsAt(b, time.Now().UTC())
}

func computeTotalsAt(b *models.Bill, now time.Time) BillTotals {
	subtotal := decimal.Zero
	for _, item := range b.Items {
		subtotal = subtotal.Add(item.LineTotal())
	}

	// Tax is applied once on the subtotal, never compounded per item.
	tax := subtotal.Mul(b.TaxRate).Round(2)

	discount := b.Discount
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}

	total := subtotal.Add(tax).Sub(discount)

	paid := decimal.Zero
	for _, p := range b.Payments {
		paid = paid.Add(p.Amount)
	}

	balance := total.Sub(paid)

	t := BillTotals{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: discount,
		Total:    total,
		Paid:     paid,
		Balance:  balance,
	}
	t.Status = billStatus(b, t, now)
	return t
}

func billStatus(b *models.Bill, t BillTotals, now time.Time) string {
	switch {
	case b.Cancelled:
		return models.BillCancelled
	case t.Total.GreaterThan(decimal.Zero) && t.Paid.GreaterThanOrEqual(t.Total):
		return models.BillPaid
	case t.Balance.GreaterThan(decimal.Zero) && b.DueDate != nil && now.After(*b.DueDate):
		return models.BillOverdue
	case t.Paid.GreaterThan(decimal.Zero) && t.Paid.LessThan(t.Total):
		return models.BillPartial
	case len(b.Items) > 0:
		return models.BillPending
	default:
		return models.BillDraft
	}
}

// PaymentStatusOf derives the reservation's payment-status axis from
// the bill. Nil bill means nothing was ever charged.
func PaymentStatusOf(b *models.Bill) string {
	if b == nil {
		return models.PayUnpaid
	}
	t := ComputeTotals(b)
	switch {
	case b.Cancelled && t.Paid.GreaterThan(decimal.Zero):
		return models.PayRefunded
	case t.Total.GreaterThan(decimal.Zero) && t.Paid.GreaterThanOrEqual(t.Total):
		return models.PayPaid
	case t.Paid.GreaterThan(decimal.Zero):
		return models.PayPartial
	default:
		return models.PayUnpaid
	}
}

// GetSummary loads the bill with its ledger and the derived totals.
func (s *BillingService) GetSummary(billID uuid.UUID) (*models.Bill, BillTotals, error) {
	var bill models.Bill
	err := s.DB.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&bill, "id = ?", billID.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, BillTotals{}, NotFoundError{Resource: "bill", Ref: billID.String()}
		}
		return nil, BillTotals{}, fmt.Errorf("failed to load bill: %w", err)
	}
	return &bill, ComputeTotals(&bill), nil
}

func validateItem(quantity int, unitPrice decimal.Decimal) error {
	if quantity < 1 {
		return ValidationError{Field: "quantity", Msg: "must be at least 1"}
	}
	if !unitPrice.GreaterThan(decimal.Zero) {
		return ValidationError{Field: "unit_price", Msg: "must be greater than zero"}
	}
	return nil
}

// AddItem appends a line item. All-or-nothing: validation failures and
// closed bills leave the ledger untouched.
func (s *BillingService) AddItem(billID uuid.UUID, description string, quantity int, unitPrice decimal.Decimal, category string) (*models.Bill, BillTotals, error) {
	if description == "" {
		return nil, BillTotals{}, ValidationError{Field: "description", Msg: "required"}
	}
	if err := validateItem(quantity, unitPrice); err != nil {
		return nil, BillTotals{}, err
	}
	if category == "" {
		category = models.ItemCategoryCustom
	}

	var bill models.Bill
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockBill(tx, billID, &bill); err != nil {
			return err
		}
		if err := rejectClosed(&bill); err != nil {
			return err
		}

		item := models.BillItem{
			BillID:      bill.ID,
			Description: description,
			Quantity:    quantity,
			UnitPrice:   unitPrice,
			Category:    category,
		}
		if err := tx.Create(&item).Error; err != nil {
			return fmt.Errorf("failed to append item: %w", err)
		}
		bill.Items = append(bill.Items, item)
		return nil
	})
	if err != nil {
		return nil, BillTotals{}, err
	}
	return &bill, ComputeTotals(&bill), nil
}

// AddPayment appends a payment. Serialized per bill via the row lock so
// the balance is never computed from a stale read; a payment that would
// drive the balance negative is rejected, not clamped.
func (s *BillingService) AddPayment(billID uuid.UUID, amount decimal.Decimal, method, note string) (*models.Bill, BillTotals, error) {
	if !amount.GreaterThan(decimal.Zero) {
		return nil, BillTotals{}, ValidationError{Field: "amount", Msg: "must be greater than zero"}
	}
	if method == "" {
		return nil, BillTotals{}, ValidationError{Field: "method", Msg: "required"}
	}

	var bill models.Bill
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockBill(tx, billID, &bill); err != nil {
			return err
		}
		if err := rejectClosed(&bill); err != nil {
			return err
		}

		totals := ComputeTotals(&bill)
		if amount.GreaterThan(totals.Balance) {
			return OverpaymentError{Attempted: amount, Max: totals.Balance}
		}

		payment := models.Payment{
			BillID: bill.ID,
			Amount: amount,
			Method: method,
			Note:   note,
			PaidAt: time.Now().UTC(),
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("failed to append payment: %w", err)
		}
		bill.Payments = append(bill.Payments, payment)
		return nil
	})
	if err != nil {
		return nil, BillTotals{}, err
	}
	return &bill, ComputeTotals(&bill), nil
}

// Reopen is the admin correction path for a closed bill.
func (s *BillingService) Reopen(billID uuid.UUID) (*models.Bill, error) {
	var bill models.Bill
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockBill(tx, billID, &bill); err != nil {
			return err
		}
		if !bill.Closed {
			return ValidationError{Field: "bill", Msg: "bill is not closed"}
		}
		now := time.Now().UTC()
		if err := tx.Model(&bill).Updates(map[string]interface{}{
			"closed":      false,
			"reopened_at": now,
		}).Error; err != nil {
			return err
		}
		bill.Closed = false
		bill.ReopenedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

// EmailBill sends the current summary to the recipient. Fire-and-forget
// from the ledger's perspective: a send failure never touches state.
func (s *BillingService) EmailBill(billID uuid.UUID, recipientEmail string) error {
	bill, totals, err := s.GetSummary(billID)
	if err != nil {
		return err
	}

	var resv models.Reservation
	if err := s.DB.First(&resv, bill.ReservationID).Error; err != nil {
		return fmt.Errorf("failed to load reservation for bill: %w", err)
	}
	if recipientEmail == "" {
		recipientEmail = resv.GuestEmail
	}
	if recipientEmail == "" {
		return ValidationError{Field: "email", Msg: "no recipient email on file"}
	}

	return utils.SendBillEmail(recipientEmail, utils.BillEmailData{
		ReferenceCode: resv.ReferenceCode,
		GuestName:     resv.GuestName,
		Subtotal:      totals.Subtotal.StringFixed(2),
		Tax:           totals.Tax.StringFixed(2),
		Discount:      totals.Discount.StringFixed(2),
		Total:         totals.Total.StringFixed(2),
		Paid:          totals.Paid.StringFixed(2),
		Balance:       totals.Balance.StringFixed(2),
		Currency:      bill.Currency,
	})
}

func lockBill(tx *gorm.DB, billID uuid.UUID, out *models.Bill) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(out, "id = ?", billID.String()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFoundError{Resource: "bill", Ref: billID.String()}
	}
	return err
}

func rejectClosed(bill *models.Bill) error {
	if bill.Cancelled {
		return ClosedBillError{Status: models.BillCancelled}
	}
	if bill.Closed {
		return ClosedBillError{Status: models.BillPaid}
	}
	return nil
}

// ensureBill creates the reservation's bill if it does not exist yet.
// Tax rate, currency and due date come from hotel settings and the
// booked checkout date.
func ensureBill(tx *gorm.DB, resv *models.Reservation) (*models.Bill, error) {
	var bill models.Bill
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").
		Preload("Payments").
		Where("reservation_id = ?", resv.ID).
		First(&bill).Error
	if err == nil {
		return &bill, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	taxRate, currency := billingDefaults(tx)
	due := resv.CheckOut

	bill = models.Bill{
		ReservationID: resv.ID,
		TaxRate:       taxRate,
		Discount:      decimal.Zero,
		Currency:      currency,
		DueDate:       &due,
	}
	if err := tx.Create(&bill).Error; err != nil {
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}
	return &bill, nil
}

// seedRoomCharges adds the base room-night item once.
func seedRoomCharges(tx *gorm.DB, bill *models.Bill, resv *models.Reservation, room *models.Room) error {
	for _, item := range bill.Items {
		if item.Category == models.ItemCategoryRoom {
			return nil
		}
	}
	if !room.NightlyRate.GreaterThan(decimal.Zero) {
		return nil
	}

	item := models.BillItem{
		BillID:      bill.ID,
		Description: fmt.Sprintf("Room %s (%d nights)", room.RoomNumber, resv.Nights()),
		Quantity:    resv.Nights(),
		UnitPrice:   room.NightlyRate,
		Category:    models.ItemCategoryRoom,
	}
	if err := tx.Create(&item).Error; err != nil {
		return fmt.Errorf("failed to seed room charges: %w", err)
	}
	bill.Items = append(bill.Items, item)
	return nil
}

// reconcileStay adjusts room-night charges to the actual checkout date.
// Extra nights become a new line item; unbilled-night credit for an
// early checkout raises the discount, keeping the item ledger
// append-only (line items cannot be negative). The credit is capped at
// the open balance so the balance never goes negative; anything already
// paid for unused nights is refundable outside the ledger.
func reconcileStay(tx *gorm.DB, bill *models.Bill, resv *models.Reservation, actualCheckOut time.Time, rate decimal.Decimal) error {
	if !rate.GreaterThan(decimal.Zero) {
		return nil
	}

	bookedNights := resv.Nights()
	actualNights := models.NightsBetween(DateOnly(resv.CheckIn), DateOnly(actualCheckOut))
	if actualNights < 1 {
		actualNights = 1
	}

	switch {
	case actualNights > bookedNights:
		extra := actualNights - bookedNights
		item := models.BillItem{
			BillID:      bill.ID,
			Description: fmt.Sprintf("Extended stay (%d extra nights)", extra),
			Quantity:    extra,
			UnitPrice:   rate,
			Category:    models.ItemCategoryRoom,
		}
		if err := tx.Create(&item).Error; err != nil {
			return fmt.Errorf("failed to bill extended stay: %w", err)
		}
		bill.Items = append(bill.Items, item)

	case actualNights < bookedNights:
		credit := rate.Mul(decimal.NewFromInt(int64(bookedNights - actualNights)))

		headroom := ComputeTotals(bill).Balance
		if headroom.IsNegative() {
			headroom = decimal.Zero
		}
		applied := credit
		if applied.GreaterThan(headroom) {
			applied = headroom
		}
		if refund := credit.Sub(applied); refund.IsPositive() {
			log.WithFields(log.Fields{
				"bill_id": bill.ID,
				"amount":  refund.StringFixed(2),
			}).Info("early checkout credit exceeds open balance, remainder refundable")
		}
		if !applied.IsPositive() {
			return nil
		}

		discount := bill.Discount.Add(applied)
		if err := tx.Model(bill).Update("discount", discount).Error; err != nil {
			return fmt.Errorf("failed to credit early checkout: %w", err)
		}
		bill.Discount = discount
	}
	return nil
}

func billingDefaults(tx *gorm.DB) (decimal.Decimal, string) {
	var settings models.HotelSetting
	if err := tx.First(&settings).Error; err != nil || settings.Currency == "" {
		return decimal.NewFromFloat(0.10), "USD"
	}
	return settings.TaxRate, settings.Currency
}
