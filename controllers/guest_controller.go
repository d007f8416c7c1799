package controllers

import (
	"net/http"

	"horizon-backend/models"
	"horizon-backend/services"
	"horizon-backend/utils"

	"github.com/gin-gonic/gin"
)

type GuestController struct {
	Guests *services.GuestDirectory
}

func NewGuestController(guests *services.GuestDirectory) *GuestController {
	return &GuestController{Guests: guests}
}

// CreateGuest (POST /api/guests)
func (ctrl *GuestController) CreateGuest(c *gin.Context) {
	var profile models.GuestProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "invalid request payload")
		return
	}
	if err := ctrl.Guests.Create(&profile); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, profile)
}

// GetGuestByID (GET /api/guests/:id) — the getGuestProfile collaborator
// surface, used to pre-fill reservations.
func (ctrl *GuestController) GetGuestByID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	profile, err := ctrl.Guests.GetProfile(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"id":    profile.ID,
		"name":  profile.FullName,
		"email": profile.Email,
		"phone": profile.Phone,
	})
}
