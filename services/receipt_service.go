package services

import (
	"bytes"
	"fmt"

	"horizon-backend/models"

	"github.com/google/uuid"
	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

// ReceiptService renders a PDF receipt over the bill's public fields.
type ReceiptService struct {
	DB      *gorm.DB
	Billing *BillingService
}

func NewReceiptService(db *gorm.DB, billing *BillingService) *ReceiptService {
	return &ReceiptService{DB: db, Billing: billing}
}

func (s *ReceiptService) GenerateReceipt(billID uuid.UUID) ([]byte, string, error) {
	bill, totals, err := s.Billing.GetSummary(billID)
	if err != nil {
		return nil, "", err
	}

	var resv models.Reservation
	if err := s.DB.Preload("Room").First(&resv, bill.ReservationID).Error; err != nil {
		return nil, "", fmt.Errorf("failed to load reservation for receipt: %w", err)
	}

	var settings models.HotelSetting
	_ = s.DB.First(&settings).Error // header falls back to defaults

	pdfBytes, err := buildReceiptPDF(bill, totals, &resv, &settings)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("receipt-%s.pdf", resv.ReferenceCode)
	return pdfBytes, filename, nil
}

func buildReceiptPDF(bill *models.Bill, totals BillTotals, resv *models.Reservation, settings *models.HotelSetting) ([]byte, error) {
	hotelName := settings.Name
	if hotelName == "" {
		hotelName = "Horizon Hotel"
	}
	currency := bill.Currency
	if currency == "" {
		currency = "USD"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Receipt %s", resv.ReferenceCode), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, hotelName, "", 1, "C", false, 0, "")
	if settings.Address != "" {
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, 5, settings.Address, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 7, "RECEIPT", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 6, fmt.Sprintf("Reservation: %s", resv.ReferenceCode), "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, fmt.Sprintf("Guest: %s", resv.GuestName), "", 1, "L", false, 0, "")
	pdf.CellFormat(95, 6, fmt.Sprintf("Check-in: %s", resv.CheckIn.Format("2006-01-02")), "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, fmt.Sprintf("Check-out: %s", resv.CheckOut.Format("2006-01-02")), "", 1, "L", false, 0, "")
	if resv.Room.RoomNumber != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("Room: %s", resv.Room.RoomNumber), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// items table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(235, 238, 245)
	pdf.CellFormat(90, 7, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(40, 7, "Total", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range bill.Items {
		pdf.CellFormat(90, 7, item.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 7, item.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, item.LineTotal().StringFixed(2), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	line := func(label, value string, bold bool) {
		if bold {
			pdf.SetFont("Arial", "B", 10)
		} else {
			pdf.SetFont("Arial", "", 10)
		}
		pdf.CellFormat(150, 6, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, value+" "+currency, "", 1, "R", false, 0, "")
	}
	line("Subtotal", totals.Subtotal.StringFixed(2), false)
	line(fmt.Sprintf("Tax (%s%%)", bill.TaxRate.Mul(hundred).StringFixed(0)), totals.Tax.StringFixed(2), false)
	if totals.Discount.IsPositive() {
		line("Discount", "-"+totals.Discount.StringFixed(2), false)
	}
	line("Total", totals.Total.StringFixed(2), true)
	line("Paid", totals.Paid.StringFixed(2), false)
	line("Balance", totals.Balance.StringFixed(2), true)

	if len(bill.Payments) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, "Payments", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for _, p := range bill.Payments {
			pdf.CellFormat(0, 5, fmt.Sprintf("%s  %s %s  (%s)",
				p.PaidAt.Format("2006-01-02 15:04"), p.Amount.StringFixed(2), currency, p.Method),
				"", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
