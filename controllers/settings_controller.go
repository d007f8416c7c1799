package controllers

import (
	"errors"
	"net/http"

	"horizon-backend/config"
	"horizon-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type hotelSettingsPayload struct {
	Name         string           `json:"name"`
	Address      string           `json:"address"`
	Phone        string           `json:"phone"`
	Email        string           `json:"email"`
	Website      string           `json:"website"`
	TaxRate      *decimal.Decimal `json:"tax_rate"`
	Currency     string           `json:"currency"`
	CheckInHour  *int             `json:"check_in_hour"`
	CheckOutHour *int             `json:"check_out_hour"`
}

func GetHotelSettings(c *gin.Context) {
	var hotel models.HotelSetting
	if err := config.DB.First(&hotel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"ok": true, "data": models.HotelSetting{}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": gin.H{"code": "error.internal", "message": err.Error()}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": hotel})
}

func UpdateHotelSettings(c *gin.Context) {
	var payload hotelSettingsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": gin.H{"code": "error.invalidPayload", "message": err.Error()}})
		return
	}

	if payload.TaxRate != nil && payload.TaxRate.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": gin.H{"code": "error.validation", "message": "tax_rate cannot be negative"}})
		return
	}

	var hotel models.HotelSetting
	err := config.DB.First(&hotel).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": gin.H{"code": "error.internal", "message": err.Error()}})
		return
	}

	hotel.Name = payload.Name
	hotel.Address = payload.Address
	hotel.Phone = payload.Phone
	hotel.Email = payload.Email
	hotel.Website = payload.Website
	if payload.TaxRate != nil {
		hotel.TaxRate = *payload.TaxRate
	}
	if payload.Currency != "" {
		hotel.Currency = payload.Currency
	}
	if payload.CheckInHour != nil {
		hotel.CheckInHour = *payload.CheckInHour
	}
	if payload.CheckOutHour != nil {
		hotel.CheckOutHour = *payload.CheckOutHour
	}

	if err := config.DB.Save(&hotel).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": gin.H{"code": "error.internal", "message": err.Error()}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": hotel})
}
