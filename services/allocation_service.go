// services/allocation_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"horizon-backend/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AllocationService binds a confirmed reservation to a physical room.
// Assignment and the transition to checked-in happen in one transaction;
// there is no "assigned but still pending" state. Availability is
// re-validated under the room's row lock, so the second of two racing
// allocations observes the first's committed state and fails with
// RoomUnavailableError instead of corrupting the overlap invariant.
type AllocationService struct {
	DB *gorm.DB
}

func NewAllocationService(db *gorm.DB) *AllocationService {
	return &AllocationService{DB: db}
}

// Allocate assigns the given room and checks the reservation in. Both
// failure modes (race lost, wrong state) are safe to retry after a
// fresh availability query.
func (s *AllocationService) Allocate(reference string, roomID uint) (*models.Reservation, error) {
	var resv models.Reservation
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockReservation(tx, reference, &resv); err != nil {
			return err
		}
		if err := guardAllocatable(&resv); err != nil {
			return err
		}
		return allocateLocked(tx, &resv, roomID)
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"reference": resv.ReferenceCode,
		"room_id":   roomID,
	}).Info("room allocated, guest checked in")
	return &resv, nil
}

// CheckIn is the front-desk shortcut: it auto-picks the cheapest
// available room for the reservation's window and runs the same atomic
// allocate. Candidates that lose a race in between are skipped.
func (s *AllocationService) CheckIn(reference string) (*models.Reservation, error) {
	var resv models.Reservation
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockReservation(tx, reference, &resv); err != nil {
			return err
		}
		if err := guardAllocatable(&resv); err != nil {
			return err
		}

		capacity := resv.Adults + resv.Children
		rooms, err := findAvailableRooms(tx, DateOnly(resv.CheckIn), DateOnly(resv.CheckOut), capacity, "")
		if err != nil {
			return err
		}
		if len(rooms) == 0 {
			return RoomUnavailableError{Reason: "no rooms available for the stay"}
		}

		var lastErr error
		for _, room := range rooms {
			lastErr = allocateLocked(tx, &resv, room.ID)
			if lastErr == nil {
				return nil
			}
			if !IsRoomUnavailable(lastErr) {
				return lastErr
			}
		}
		return lastErr
	})
	if err != nil {
		return nil, err
	}
	return &resv, nil
}

func guardAllocatable(resv *models.Reservation) error {
	if resv.Status != models.StatusConfirmed {
		return InvalidTransitionError{From: resv.Status, Event: "check-in", Msg: "reservation must be confirmed"}
	}
	if resv.RoomID != nil {
		return InvalidTransitionError{From: resv.Status, Event: "check-in", Msg: "room already assigned"}
	}
	return nil
}

// allocateLocked does the work under the caller's reservation lock:
// lock the room row, re-count overlaps, assign + transition, seed the
// bill with base room-night charges if not already seeded.
func allocateLocked(tx *gorm.DB, resv *models.Reservation, roomID uint) error {
	var room models.Room
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, roomID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError{Resource: "room", Ref: fmt.Sprintf("%d", roomID)}
		}
		return err
	}

	if room.Maintenance {
		return RoomUnavailableError{RoomNumber: room.RoomNumber, Reason: "under maintenance"}
	}
	if room.MaxOccupancy < resv.Adults+resv.Children {
		return RoomUnavailableError{RoomNumber: room.RoomNumber, Reason: "insufficient capacity"}
	}

	overlaps, err := countOverlapping(tx, room.ID, DateOnly(resv.CheckIn), DateOnly(resv.CheckOut), resv.ID)
	if err != nil {
		return err
	}
	if overlaps > 0 {
		return RoomUnavailableError{RoomNumber: room.RoomNumber, Reason: "overlapping stay"}
	}

	now := time.Now().UTC()
	if err := tx.Model(resv).Updates(map[string]interface{}{
		"room_id":         room.ID,
		"status":          models.StatusCheckedIn,
		"actual_check_in": now,
	}).Error; err != nil {
		return err
	}
	resv.RoomID = &room.ID
	resv.Status = models.StatusCheckedIn
	resv.ActualCheckIn = &now

	bill, err := ensureBill(tx, resv)
	if err != nil {
		return err
	}
	return seedRoomCharges(tx, bill, resv, &room)
}
