package services

import (
	"errors"
	"fmt"
	"strings"

	"horizon-backend/models"

	"gorm.io/gorm"
)

// GuestDirectory is the CRM collaborator boundary. The core only reads
// profiles to pre-fill reservations; guest management itself lives in
// another system.
type GuestDirectory struct {
	DB *gorm.DB
}

func NewGuestDirectory(db *gorm.DB) *GuestDirectory {
	return &GuestDirectory{DB: db}
}

func (s *GuestDirectory) Create(profile *models.GuestProfile) error {
	profile.FullName = strings.TrimSpace(profile.FullName)
	profile.Email = strings.TrimSpace(profile.Email)
	if profile.FullName == "" {
		return ValidationError{Field: "fullName", Msg: "required"}
	}
	if profile.Email == "" {
		return ValidationError{Field: "email", Msg: "required"}
	}
	return s.DB.Create(profile).Error
}

func (s *GuestDirectory) GetProfile(id uint) (*models.GuestProfile, error) {
	var profile models.GuestProfile
	if err := s.DB.First(&profile, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{Resource: "guest", Ref: fmt.Sprintf("%d", id)}
		}
		return nil, err
	}
	return &profile, nil
}
