// controllers/room_controller.go
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"horizon-backend/models"
	"horizon-backend/services"
	"horizon-backend/utils"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type RoomController struct {
	RoomSvc         *services.RoomService
	AvailabilitySvc *services.AvailabilityService
}

func NewRoomController(roomSvc *services.RoomService, availSvc *services.AvailabilityService) *RoomController {
	return &RoomController{RoomSvc: roomSvc, AvailabilitySvc: availSvc}
}

// GetRooms (GET /api/rooms?status=available)
func (ctrl *RoomController) GetRooms(c *gin.Context) {
	rooms, err := ctrl.RoomSvc.GetAll(c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// GetAvailableRooms (GET /api/rooms/available?check_in=&check_out=&capacity=&type=)
func (ctrl *RoomController) GetAvailableRooms(c *gin.Context) {
	checkIn, err := parseDate(c.Query("check_in"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.validation", "check_in must be YYYY-MM-DD")
		return
	}
	checkOut, err := parseDate(c.Query("check_out"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.validation", "check_out must be YYYY-MM-DD")
		return
	}

	capacity := 1
	if raw := c.Query("capacity"); raw != "" {
		capacity, err = strconv.Atoi(raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "error.validation", "capacity must be a number")
			return
		}
	}

	rooms, err := ctrl.AvailabilitySvc.FindAvailableRooms(checkIn, checkOut, capacity, c.Query("type"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// CreateRoom (POST /api/rooms)
func (ctrl *RoomController) CreateRoom(c *gin.Context) {
	var room models.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		log.WithError(err).Warn("CreateRoom: bad payload")
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "invalid request payload")
		return
	}

	if err := ctrl.RoomSvc.Create(&room); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

// UpdateRoom (PATCH/PUT /api/rooms/:id)
func (ctrl *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "invalid request payload")
		return
	}

	room, err := ctrl.RoomSvc.Update(id, updates)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// DeleteRoom (DELETE /api/rooms/:id) — soft-disable only; reservation
// history keeps referencing the row.
func (ctrl *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := ctrl.RoomSvc.Disable(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"disabled": id})
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "error.validation", "id must be a positive number")
		return 0, false
	}
	return uint(id), true
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", raw)
}
