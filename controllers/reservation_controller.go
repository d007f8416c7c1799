// controllers/reservation_controller.go
package controllers

import (
	"net/http"

	"horizon-backend/models"
	"horizon-backend/services"
	"horizon-backend/utils"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type CreateReservationRequest struct {
	GuestID         *uint  `json:"guest_id"`
	GuestName       string `json:"guest_name"`
	GuestEmail      string `json:"guest_email"`
	GuestPhone      string `json:"guest_phone"`
	CheckIn         string `json:"check_in" binding:"required"`
	CheckOut        string `json:"check_out" binding:"required"`
	Adults          int    `json:"adults"`
	Children        int    `json:"children"`
	SpecialRequests string `json:"special_requests"`
	RoomCount       int    `json:"room_count"`
	PaymentCaptured bool   `json:"payment_captured"`
}

type ConfirmReservationRequest struct {
	PaymentCaptured bool `json:"payment_captured"`
	AdminOverride   bool `json:"admin_override"`
}

type AllocateRoomRequest struct {
	RoomID uint `json:"room_id" binding:"required"`
}

type CheckOutRequest struct {
	ForceClose bool   `json:"force_close"`
	Reason     string `json:"reason"`
}

// ---------------------------
// Controller
// ---------------------------

type ReservationController struct {
	ReservationSvc *services.ReservationService
	AllocationSvc  *services.AllocationService
}

func NewReservationController(resvSvc *services.ReservationService, allocSvc *services.AllocationService) *ReservationController {
	return &ReservationController{ReservationSvc: resvSvc, AllocationSvc: allocSvc}
}

// reservationView adds the derived payment status and bill totals to
// the stored fields.
func reservationView(resv *models.Reservation) gin.H {
	view := gin.H{
		"reference_code":   resv.ReferenceCode,
		"booking_group_id": resv.BookingGroupID,
		"guest_name":       resv.GuestName,
		"guest_email":      resv.GuestEmail,
		"guest_phone":      resv.GuestPhone,
		"check_in":         resv.CheckIn.Format("2006-01-02"),
		"check_out":        resv.CheckOut.Format("2006-01-02"),
		"nights":           resv.Nights(),
		"adults":           resv.Adults,
		"children":         resv.Children,
		"special_requests": resv.SpecialRequests,
		"status":           resv.Status,
		"payment_status":   services.PaymentStatusOf(resv.Bill),
		"room_id":          resv.RoomID,
	}
	if resv.Room.ID != 0 {
		view["room_number"] = resv.Room.RoomNumber
	}
	if resv.Bill != nil {
		view["bill_id"] = resv.Bill.ID
		view["bill"] = services.ComputeTotals(resv.Bill)
	}
	if resv.ActualCheckOut != nil {
		view["actual_check_out"] = resv.ActualCheckOut
	}
	if resv.ForceClosed {
		view["force_closed"] = true
		view["force_close_reason"] = resv.ForceCloseReason
	}
	return view
}

// CreateReservation (POST /api/reservations)
func (ctrl *ReservationController) CreateReservation(c *gin.Context) {
	var payload CreateReservationRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.WithError(err).Warn("CreateReservation: bad payload")
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "check_in and check_out are required")
		return
	}

	checkIn, err := parseDate(payload.CheckIn)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.validation", "check_in must be YYYY-MM-DD")
		return
	}
	checkOut, err := parseDate(payload.CheckOut)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.validation", "check_out must be YYYY-MM-DD")
		return
	}

	created, err := ctrl.ReservationSvc.Create(services.CreateReservationInput{
		GuestID:         payload.GuestID,
		GuestName:       payload.GuestName,
		GuestEmail:      payload.GuestEmail,
		GuestPhone:      payload.GuestPhone,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Adults:          payload.Adults,
		Children:        payload.Children,
		SpecialRequests: payload.SpecialRequests,
		RoomCount:       payload.RoomCount,
		PaymentCaptured: payload.PaymentCaptured,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	refs := make([]string, 0, len(created))
	for _, resv := range created {
		refs = append(refs, resv.ReferenceCode)
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{
		"references":       refs,
		"booking_group_id": created[0].BookingGroupID,
		"status":           created[0].Status,
	})
}

// GetReservations (GET /api/reservations)
func (ctrl *ReservationController) GetReservations(c *gin.Context) {
	list, err := ctrl.ReservationSvc.GetAllWithRelations()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	views := make([]gin.H, 0, len(list))
	for i := range list {
		views = append(views, reservationView(&list[i]))
	}
	utils.JSONSuccess(c, http.StatusOK, views)
}

// GetReservation (GET /api/reservations/:ref)
func (ctrl *ReservationController) GetReservation(c *gin.Context) {
	resv, err := ctrl.ReservationSvc.GetByReference(c.Param("ref"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reservationView(resv))
}

// ConfirmReservation (POST /api/reservations/:ref/confirm)
func (ctrl *ReservationController) ConfirmReservation(c *gin.Context) {
	var payload ConfirmReservationRequest
	// body optional: default is a captured payment
	if err := c.ShouldBindJSON(&payload); err != nil {
		payload = ConfirmReservationRequest{PaymentCaptured: true}
	}

	resv, err := ctrl.ReservationSvc.Confirm(c.Param("ref"), payload.PaymentCaptured, payload.AdminOverride)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reservationView(resv))
}

// AllocateRoom (POST /api/reservations/:ref/allocate)
func (ctrl *ReservationController) AllocateRoom(c *gin.Context) {
	var payload AllocateRoomRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "room_id is required")
		return
	}

	resv, err := ctrl.AllocationSvc.Allocate(c.Param("ref"), payload.RoomID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reservationView(resv))
}

// CheckIn (POST /api/reservations/:ref/checkin) — auto-picks the
// cheapest available room.
func (ctrl *ReservationController) CheckIn(c *gin.Context) {
	resv, err := ctrl.AllocationSvc.CheckIn(c.Param("ref"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reservationView(resv))
}

// CheckOut (POST /api/reservations/:ref/checkout)
func (ctrl *ReservationController) CheckOut(c *gin.Context) {
	var payload CheckOutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "invalid request payload")
			return
		}
	}

	resv, totals, err := ctrl.ReservationSvc.CheckOut(c.Param("ref"), payload.ForceClose, payload.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	view := reservationView(resv)
	view["bill"] = totals
	utils.JSONSuccess(c, http.StatusOK, view)
}

// CancelReservation (POST /api/reservations/:ref/cancel)
func (ctrl *ReservationController) CancelReservation(c *gin.Context) {
	resv, err := ctrl.ReservationSvc.Cancel(c.Param("ref"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reservationView(resv))
}
