package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"horizon-backend/models"

	"gorm.io/gorm"
)

type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

func (s *RoomService) Create(room *models.Room) error {
	room.RoomNumber = strings.TrimSpace(room.RoomNumber)
	if room.RoomNumber == "" {
		return ValidationError{Field: "roomNumber", Msg: "required"}
	}
	if room.NightlyRate.IsNegative() {
		return ValidationError{Field: "nightlyRate", Msg: "cannot be negative"}
	}
	if room.MaxOccupancy <= 0 {
		return ValidationError{Field: "maxOccupancy", Msg: "must be positive"}
	}

	// A zero/unknown FK from the frontend must not insert 0.
	if room.RoomTypeID != nil {
		var rt models.RoomType
		if err := s.DB.Where("id = ?", *room.RoomTypeID).First(&rt).Error; err != nil {
			room.RoomTypeID = nil
		} else if room.Type == "" {
			room.Type = rt.TypeName
		}
	}

	return s.DB.Create(room).Error
}

// GetAll returns all active rooms with their derived status filled in.
func (s *RoomService) GetAll(statusFilter string) ([]models.Room, error) {
	var rooms []models.Room
	if err := s.DB.Preload("RoomType").Order("room_number ASC").Find(&rooms).Error; err != nil {
		return nil, err
	}
	if err := s.fillStatuses(rooms); err != nil {
		return nil, err
	}

	if statusFilter == "" {
		return rooms, nil
	}
	filtered := make([]models.Room, 0, len(rooms))
	for _, r := range rooms {
		if r.Status == statusFilter {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func (s *RoomService) GetByID(id uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.Preload("RoomType").First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{Resource: "room", Ref: fmt.Sprintf("%d", id)}
		}
		return nil, err
	}
	if err := s.fillStatuses([]models.Room{room}); err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *RoomService) Update(id uint, updates map[string]interface{}) (*models.Room, error) {
	var room models.Room
	if err := s.DB.First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{Resource: "room", Ref: fmt.Sprintf("%d", id)}
		}
		return nil, err
	}
	// Identity is immutable once assigned.
	delete(updates, "room_number")
	delete(updates, "roomNumber")
	if err := s.DB.Model(&room).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Disable soft-deletes the room. History referencing it survives; it
// simply stops appearing in the registry and availability results.
func (s *RoomService) Disable(id uint) error {
	res := s.DB.Delete(&models.Room{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NotFoundError{Resource: "room", Ref: fmt.Sprintf("%d", id)}
	}
	return nil
}

// fillStatuses computes each room's status from the reservations
// overlapping today plus the maintenance flag. Status is never stored,
// so it cannot drift from the reservation ledger.
func (s *RoomService) fillStatuses(rooms []models.Room) error {
	if len(rooms) == 0 {
		return nil
	}

	today := DateOnly(time.Now().UTC())
	tomorrow := today.AddDate(0, 0, 1)

	ids := make([]uint, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}

	var current []models.Reservation
	err := s.DB.Model(&models.Reservation{}).
		Where("room_id IN ?", ids).
		Where("status IN ?", activeStatuses).
		Where("check_in < ? AND check_out > ?", tomorrow, today).
		Find(&current).Error
	if err != nil {
		return err
	}

	byRoom := map[uint]string{}
	for _, resv := range current {
		if resv.RoomID == nil {
			continue
		}
		// checked-in wins over a same-day confirmed arrival
		if resv.Status == models.StatusCheckedIn || byRoom[*resv.RoomID] == "" {
			byRoom[*resv.RoomID] = resv.Status
		}
	}

	for i := range rooms {
		switch {
		case rooms[i].Maintenance:
			rooms[i].Status = models.RoomMaintenance
		case byRoom[rooms[i].ID] == models.StatusCheckedIn:
			rooms[i].Status = models.RoomOccupied
		case byRoom[rooms[i].ID] == models.StatusConfirmed:
			rooms[i].Status = models.RoomReserved
		default:
			rooms[i].Status = models.RoomAvailable
		}
	}
	return nil
}
