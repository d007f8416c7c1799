package services

import (
	"time"

	"horizon-backend/models"

	"gorm.io/gorm"
)

// activeStatuses are the reservation statuses that block a room.
var activeStatuses = []string{models.StatusConfirmed, models.StatusCheckedIn}

type AvailabilityService struct {
	DB *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{DB: db}
}

// DateOnly truncates to midnight UTC. Check-in/out times of day are
// business constants (hotel settings), not part of the overlap test.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Half-open: a checkout on day N and a check-in on day N do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// FindAvailableRooms returns rooms with no committed stay overlapping
// [checkIn, checkOut), cheapest first then by room number. An empty
// result is not an error. Runs in a transaction so the answer reflects
// a consistent snapshot of the reservation store.
func (s *AvailabilityService) FindAvailableRooms(checkIn, checkOut time.Time, minCapacity int, roomType string) ([]models.Room, error) {
	checkIn = DateOnly(checkIn)
	checkOut = DateOnly(checkOut)

	if !checkOut.After(checkIn) {
		return nil, ValidationError{Field: "check_out", Msg: "check-out must be after check-in"}
	}
	if minCapacity < 0 {
		return nil, ValidationError{Field: "capacity", Msg: "capacity cannot be negative"}
	}

	var rooms []models.Room
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		rooms, txErr = findAvailableRooms(tx, checkIn, checkOut, minCapacity, roomType)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	for i := range rooms {
		rooms[i].Status = models.RoomAvailable
	}
	return rooms, nil
}

// findAvailableRooms is the transactional core, shared with the
// allocation path so availability and assignment read the same state.
func findAvailableRooms(tx *gorm.DB, checkIn, checkOut time.Time, minCapacity int, roomType string) ([]models.Room, error) {
	blocked := tx.Model(&models.Reservation{}).
		Select("room_id").
		Where("room_id IS NOT NULL").
		Where("status IN ?", activeStatuses).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn)

	q := tx.Model(&models.Room{}).
		Where("maintenance = ?", false).
		Where("max_occupancy >= ?", minCapacity).
		Where("id NOT IN (?)", blocked).
		Order("nightly_rate ASC, room_number ASC")

	if roomType != "" {
		q = q.Where("type = ?", roomType)
	}

	var rooms []models.Room
	if err := q.Find(&rooms).Error; err != nil {
		return nil, err
	}
	if rooms == nil {
		rooms = []models.Room{}
	}
	return rooms, nil
}

// countOverlapping returns committed reservations for the room that
// intersect the window, excluding excludeID. Callers must hold the
// room's row lock when using the answer to allocate.
func countOverlapping(tx *gorm.DB, roomID uint, checkIn, checkOut time.Time, excludeID uint) (int64, error) {
	var n int64
	err := tx.Model(&models.Reservation{}).
		Where("room_id = ?", roomID).
		Where("status IN ?", activeStatuses).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn).
		Where("id <> ?", excludeID).
		Count(&n).Error
	return n, err
}
