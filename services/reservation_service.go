// services/reservation_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"horizon-backend/models"
	"horizon-backend/utils"

	mysql "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReservationService owns the reservation lifecycle. Every transition
// runs as one transaction holding the reservation's row lock, so racing
// callers observe committed state or fail with a typed error.
type ReservationService struct {
	DB *gorm.DB
}

func NewReservationService(db *gorm.DB) *ReservationService {
	return &ReservationService{DB: db}
}

// canTransition is the forward-only transition table. Cancellation is
// reachable from pending and confirmed only.
func canTransition(from, to string) bool {
	switch from {
	case models.StatusPending:
		return to == models.StatusConfirmed || to == models.StatusCancelled
	case models.StatusConfirmed:
		return to == models.StatusCheckedIn || to == models.StatusCancelled
	case models.StatusCheckedIn:
		return to == models.StatusCheckedOut
	}
	return false
}

type CreateReservationInput struct {
	GuestID         *uint
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	CheckIn         time.Time
	CheckOut        time.Time
	Adults          int
	Children        int
	SpecialRequests string
	// RoomCount > 1 creates sibling reservations sharing a booking
	// group id; each sibling is allocated a physical room on its own.
	RoomCount int
	// True when payment was captured at booking time; the reservation
	// is then created already confirmed.
	PaymentCaptured bool
}

// Create books one reservation per requested room. Guest identity is
// snapshotted onto the reservation; a supplied guestId only pre-fills
// missing fields from the directory.
func (s *ReservationService) Create(in CreateReservationInput) ([]models.Reservation, error) {
	if in.GuestID != nil {
		var profile models.GuestProfile
		if err := s.DB.First(&profile, *in.GuestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NotFoundError{Resource: "guest", Ref: fmt.Sprintf("%d", *in.GuestID)}
			}
			return nil, fmt.Errorf("failed to load guest profile: %w", err)
		}
		if strings.TrimSpace(in.GuestName) == "" {
			in.GuestName = profile.FullName
		}
		if strings.TrimSpace(in.GuestEmail) == "" {
			in.GuestEmail = profile.Email
		}
		if strings.TrimSpace(in.GuestPhone) == "" {
			in.GuestPhone = profile.Phone
		}
	}

	in.GuestName = strings.TrimSpace(in.GuestName)
	in.GuestEmail = strings.TrimSpace(in.GuestEmail)
	if in.GuestName == "" {
		return nil, ValidationError{Field: "guest_name", Msg: "required"}
	}
	if in.GuestEmail == "" {
		return nil, ValidationError{Field: "guest_email", Msg: "required"}
	}

	checkIn := DateOnly(in.CheckIn)
	checkOut := DateOnly(in.CheckOut)
	if !checkOut.After(checkIn) {
		return nil, ValidationError{Field: "check_out", Msg: "check-out must be after check-in"}
	}
	if in.Adults <= 0 {
		in.Adults = 1
	}
	if in.Children < 0 {
		return nil, ValidationError{Field: "children", Msg: "cannot be negative"}
	}
	if in.RoomCount <= 0 {
		in.RoomCount = 1
	}

	status := models.StatusPending
	if in.PaymentCaptured {
		status = models.StatusConfirmed
	}
	groupID := uuid.NewString()

	var created []models.Reservation
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < in.RoomCount; i++ {
			resv := models.Reservation{
				BookingGroupID:  groupID,
				GuestName:       in.GuestName,
				GuestEmail:      in.GuestEmail,
				GuestPhone:      strings.TrimSpace(in.GuestPhone),
				CheckIn:         checkIn,
				CheckOut:        checkOut,
				Adults:          in.Adults,
				Children:        in.Children,
				SpecialRequests: strings.TrimSpace(in.SpecialRequests),
				Status:          status,
			}
			if err := createWithReference(tx, &resv); err != nil {
				return err
			}
			if status == models.StatusConfirmed {
				if _, err := ensureBill(tx, &resv); err != nil {
					return err
				}
			}
			created = append(created, resv)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// createWithReference retries on the (unlikely) unique collision of a
// generated reference code.
func createWithReference(tx *gorm.DB, resv *models.Reservation) error {
	const maxRetries = 5
	var createErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		ref, err := utils.GenerateReferenceCode()
		if err != nil {
			return fmt.Errorf("failed to generate reference: %w", err)
		}
		resv.ReferenceCode = ref

		createErr = tx.Create(resv).Error
		if createErr == nil {
			return nil
		}
		if isDuplicateKey(createErr) {
			log.WithField("attempt", attempt+1).Warn("reference code collision, retrying")
			continue
		}
		return fmt.Errorf("failed to create reservation: %w", createErr)
	}
	return fmt.Errorf("failed to create reservation after retries: %w", createErr)
}

// isDuplicateKey recognizes a unique-index violation. MySQL error 1062;
// the string check covers other drivers in tests. Must stay narrow:
// classifying an FK failure as a collision would burn the retries.
func isDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	lc := strings.ToLower(err.Error())
	return strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique")
}

// Confirm moves pending -> confirmed. Guard: payment captured or an
// explicit admin override. Creates the (still empty) bill.
func (s *ReservationService) Confirm(reference string, paymentCaptured, adminOverride bool) (*models.Reservation, error) {
	if !paymentCaptured && !adminOverride {
		return nil, ValidationError{Field: "payment_captured", Msg: "payment must be captured or admin override set"}
	}

	var resv models.Reservation
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockReservation(tx, reference, &resv); err != nil {
			return err
		}
		if !canTransition(resv.Status, models.StatusConfirmed) {
			return InvalidTransitionError{From: resv.Status, Event: "confirm"}
		}
		if err := tx.Model(&resv).Update("status", models.StatusConfirmed).Error; err != nil {
			return err
		}
		resv.Status = models.StatusConfirmed
		_, err := ensureBill(tx, &resv)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &resv, nil
}

// Cancel is valid from pending/confirmed only. A held room is released
// in the same transaction, so the next availability query sees it
// immediately. Captured payments leave the bill cancelled and the
// payment status reads refunded; the refund itself is external.
func (s *ReservationService) Cancel(reference string) (*models.Reservation, error) {
	var resv models.Reservation
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockReservation(tx, reference, &resv); err != nil {
			return err
		}
		if !canTransition(resv.Status, models.StatusCancelled) {
			return InvalidTransitionError{From: resv.Status, Event: "cancel"}
		}

		updates := map[string]interface{}{"status": models.StatusCancelled}
		if resv.RoomID != nil {
			updates["room_id"] = nil
		}
		if err := tx.Model(&resv).Updates(updates).Error; err != nil {
			return err
		}
		resv.Status = models.StatusCancelled
		resv.RoomID = nil

		var bill models.Bill
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("reservation_id = ?", resv.ID).
			First(&bill).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		return tx.Model(&bill).Update("cancelled", true).Error
	})
	if err != nil {
		return nil, err
	}
	return &resv, nil
}

// CheckOut finishes the stay. The actual checkout date is ground truth
// over the booked date: unbilled nights are reconciled before the
// balance guard runs. A non-zero balance requires an admin force-close
// with a recorded reason.
func (s *ReservationService) CheckOut(reference string, forceClose bool, reason string) (*models.Reservation, BillTotals, error) {
	if forceClose && strings.TrimSpace(reason) == "" {
		return nil, BillTotals{}, ValidationError{Field: "reason", Msg: "required when force closing"}
	}

	var resv models.Reservation
	var totals BillTotals
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockReservation(tx, reference, &resv); err != nil {
			return err
		}
		if !canTransition(resv.Status, models.StatusCheckedOut) {
			return InvalidTransitionError{From: resv.Status, Event: "check-out"}
		}
		if resv.RoomID == nil {
			return InvalidTransitionError{From: resv.Status, Event: "check-out", Msg: "no room assigned"}
		}

		var room models.Room
		if err := tx.First(&room, *resv.RoomID).Error; err != nil {
			return fmt.Errorf("failed to load assigned room: %w", err)
		}

		bill, err := ensureBill(tx, &resv)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := reconcileStay(tx, bill, &resv, now, room.NightlyRate); err != nil {
			return err
		}

		totals = ComputeTotals(bill)
		if totals.Balance.IsPositive() && !forceClose {
			return InvalidTransitionError{
				From:  resv.Status,
				Event: "check-out",
				Msg:   fmt.Sprintf("outstanding balance %s", totals.Balance.StringFixed(2)),
			}
		}

		updates := map[string]interface{}{
			"status":           models.StatusCheckedOut,
			"actual_check_out": now,
		}
		if forceClose {
			updates["force_closed"] = true
			updates["force_close_reason"] = strings.TrimSpace(reason)
		}
		if err := tx.Model(&resv).Updates(updates).Error; err != nil {
			return err
		}
		resv.Status = models.StatusCheckedOut
		resv.ActualCheckOut = &now

		// Paid and checked-out: the bill becomes immutable.
		if !totals.Balance.IsPositive() {
			if err := tx.Model(bill).Update("closed", true).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, BillTotals{}, err
	}
	return &resv, totals, nil
}

// GetByReference loads a reservation with its room and bill ledger.
func (s *ReservationService) GetByReference(reference string) (*models.Reservation, error) {
	var resv models.Reservation
	err := s.DB.
		Preload("Room").
		Preload("Bill.Items").
		Preload("Bill.Payments").
		Where("reference_code = ?", utils.NormalizeReference(reference)).
		First(&resv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{Resource: "reservation", Ref: reference}
		}
		return nil, fmt.Errorf("failed to load reservation: %w", err)
	}
	return &resv, nil
}

// GetAllWithRelations lists reservations newest first.
func (s *ReservationService) GetAllWithRelations() ([]models.Reservation, error) {
	var list []models.Reservation
	err := s.DB.
		Preload("Room").
		Preload("Bill.Items").
		Preload("Bill.Payments").
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve reservations: %w", err)
	}
	if list == nil {
		list = []models.Reservation{}
	}
	return list, nil
}

// lockReservation loads the row FOR UPDATE by reference code.
func lockReservation(tx *gorm.DB, reference string, out *models.Reservation) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("reference_code = ?", utils.NormalizeReference(reference)).
		First(out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFoundError{Resource: "reservation", Ref: reference}
	}
	return err
}
