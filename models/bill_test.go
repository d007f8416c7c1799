package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillItemLineTotal(t *testing.T) {
	price, err := decimal.NewFromString("100.50")
	require.NoError(t, err)

	item := BillItem{Quantity: 3, UnitPrice: price}
	assert.True(t, item.LineTotal().Equal(decimal.RequireFromString("301.50")),
		"got %s", item.LineTotal())
}

func TestBillBeforeCreateAssignsID(t *testing.T) {
	bill := Bill{}
	require.NoError(t, bill.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, bill.ID)

	fixed := uuid.New()
	bill = Bill{ID: fixed}
	require.NoError(t, bill.BeforeCreate(nil))
	assert.Equal(t, fixed, bill.ID)
}
