package services

import (
	"testing"
	"time"

	"horizon-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReceiptPDF(t *testing.T) {
	bill := sampleBill()
	bill.Payments = []models.Payment{
		{Amount: dec("150.00"), Method: "card", PaidAt: time.Date(2026, 9, 12, 10, 30, 0, 0, time.UTC)},
	}
	totals := ComputeTotals(bill)

	resv := &models.Reservation{
		ReferenceCode: "HZ-K4DM-93XF",
		GuestName:     "Guest",
		CheckIn:       time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:      time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		Room:          models.Room{RoomNumber: "101"},
	}
	settings := &models.HotelSetting{Name: "Horizon Hotel", Address: "1 Seaside Ave"}

	pdfBytes, err := buildReceiptPDF(bill, totals, resv, settings)
	require.NoError(t, err)
	require.NotEmpty(t, pdfBytes)
	assert.Equal(t, "%PDF", string(pdfBytes[:4]))
}

func TestBuildReceiptPDF_DefaultsWithoutSettings(t *testing.T) {
	bill := &models.Bill{ID: uuid.New(), TaxRate: dec("0.10")}
	resv := &models.Reservation{
		ReferenceCode: "HZ-AAAA-BBBB",
		GuestName:     "Guest",
		CheckIn:       time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:      time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC),
	}

	pdfBytes, err := buildReceiptPDF(bill, ComputeTotals(bill), resv, &models.HotelSetting{})
	require.NoError(t, err)
	assert.NotEmpty(t, pdfBytes)
}
