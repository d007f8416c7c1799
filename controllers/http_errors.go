package controllers

import (
	"errors"
	"net/http"

	"horizon-backend/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// respondServiceError maps typed service errors onto the response
// envelope. Nothing here is fatal; unknown errors become 500s.
func respondServiceError(c *gin.Context, err error) {
	var (
		validation  services.ValidationError
		notFound    services.NotFoundError
		transition  services.InvalidTransitionError
		unavailable services.RoomUnavailableError
		overpayment services.OverpaymentError
		closed      services.ClosedBillError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": gin.H{
			"code":    "error.validation",
			"message": validation.Error(),
			"field":   validation.Field,
		}})

	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": gin.H{
			"code":    "error.notFound",
			"message": notFound.Error(),
		}})

	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": gin.H{
			"code":    "error.invalidTransition",
			"message": transition.Error(),
		}})

	case errors.As(err, &unavailable):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": gin.H{
			"code":    "error.roomUnavailable",
			"message": unavailable.Error(),
		}})

	case errors.As(err, &overpayment):
		// the caller needs the maximum acceptable amount
		c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "error": gin.H{
			"code":       "error.overpayment",
			"message":    overpayment.Error(),
			"maxPayment": overpayment.Max.StringFixed(2),
		}})

	case errors.As(err, &closed):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": gin.H{
			"code":    "error.billClosed",
			"message": closed.Error(),
		}})

	default:
		log.WithError(err).Error("unhandled service error")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": gin.H{
			"code":    "error.internal",
			"message": "internal error",
		}})
	}
}
