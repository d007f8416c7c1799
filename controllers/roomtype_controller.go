package controllers

import (
	"net/http"
	"strings"

	"horizon-backend/config"
	"horizon-backend/models"
	"horizon-backend/utils"

	"github.com/gin-gonic/gin"
)

func GetRoomTypes(c *gin.Context) {
	var types []models.RoomType
	if err := config.DB.Order("id ASC").Find(&types).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "error.internal", "failed to fetch room types")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, types)
}

func CreateRoomType(c *gin.Context) {
	var rt models.RoomType
	if err := c.ShouldBindJSON(&rt); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "invalid request payload")
		return
	}
	rt.TypeName = strings.TrimSpace(rt.TypeName)
	if rt.TypeName == "" {
		utils.JSONError(c, http.StatusBadRequest, "error.validation", "typeName is required")
		return
	}
	if err := config.DB.Create(&rt).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "error.internal", "failed to create room type")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, rt)
}
