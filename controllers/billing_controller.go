// controllers/billing_controller.go
package controllers

import (
	"net/http"

	"horizon-backend/services"
	"horizon-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type AddBillItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    int             `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	Category    string          `json:"category"`
}

type AddPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Method string          `json:"method" binding:"required"`
	Note   string          `json:"note"`
}

type SendBillRequest struct {
	Email string `json:"email"`
}

type BillingController struct {
	BillingSvc *services.BillingService
	ReceiptSvc *services.ReceiptService
}

func NewBillingController(billingSvc *services.BillingService, receiptSvc *services.ReceiptService) *BillingController {
	return &BillingController{BillingSvc: billingSvc, ReceiptSvc: receiptSvc}
}

func paramBillID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.validation", "bill id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// GetBillSummary (GET /api/bills/:id)
func (ctrl *BillingController) GetBillSummary(c *gin.Context) {
	id, ok := paramBillID(c)
	if !ok {
		return
	}

	bill, totals, err := ctrl.BillingSvc.GetSummary(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"id":             bill.ID,
		"reservation_id": bill.ReservationID,
		"currency":       bill.Currency,
		"tax_rate":       bill.TaxRate,
		"due_date":       bill.DueDate,
		"closed":         bill.Closed,
		"items":          bill.Items,
		"payments":       bill.Payments,
		"subtotal":       totals.Subtotal,
		"tax":            totals.Tax,
		"discount":       totals.Discount,
		"total":          totals.Total,
		"paid_amount":    totals.Paid,
		"balance":        totals.Balance,
		"status":         totals.Status,
	})
}

// AddBillItem (POST /api/bills/:id/items)
func (ctrl *BillingController) AddBillItem(c *gin.Context) {
	id, ok := paramBillID(c)
	if !ok {
		return
	}

	var payload AddBillItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "description, quantity and unit_price are required")
		return
	}

	_, totals, err := ctrl.BillingSvc.AddItem(id, payload.Description, payload.Quantity, payload.UnitPrice, payload.Category)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, totals)
}

// AddPayment (POST /api/bills/:id/payments)
func (ctrl *BillingController) AddPayment(c *gin.Context) {
	id, ok := paramBillID(c)
	if !ok {
		return
	}

	var payload AddPaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "amount and method are required")
		return
	}

	_, totals, err := ctrl.BillingSvc.AddPayment(id, payload.Amount, payload.Method, payload.Note)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, totals)
}

// ReopenBill (POST /api/bills/:id/reopen) — admin correction path.
func (ctrl *BillingController) ReopenBill(c *gin.Context) {
	id, ok := paramBillID(c)
	if !ok {
		return
	}
	bill, err := ctrl.BillingSvc.Reopen(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": bill.ID, "closed": bill.Closed, "reopened_at": bill.ReopenedAt})
}

// SendBill (POST /api/bills/:id/send) — fire-and-forget email; a send
// failure is reported but billing state is untouched.
func (ctrl *BillingController) SendBill(c *gin.Context) {
	id, ok := paramBillID(c)
	if !ok {
		return
	}

	var payload SendBillRequest
	_ = c.ShouldBindJSON(&payload) // body optional

	if err := ctrl.BillingSvc.EmailBill(id, payload.Email); err != nil {
		if services.IsNotFound(err) || services.IsValidation(err) {
			respondServiceError(c, err)
			return
		}
		log.WithError(err).Warn("bill email failed")
		utils.JSONError(c, http.StatusBadGateway, "error.emailSendFailed", "bill stored but the email could not be sent")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"sent": true})
}

// GetReceipt (GET /api/bills/:id/receipt) — rendered PDF bytes.
func (ctrl *BillingController) GetReceipt(c *gin.Context) {
	id, ok := paramBillID(c)
	if !ok {
		return
	}

	pdfBytes, filename, err := ctrl.ReceiptSvc.GenerateReceipt(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
