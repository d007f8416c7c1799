package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Typed errors returned by the services. Controllers map them to HTTP
// statuses with errors.As; none of them is fatal to the process.

type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	return e.Msg
}

type NotFoundError struct {
	Resource string
	Ref      string
}

func (e NotFoundError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("%s %s not found", e.Resource, e.Ref)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// InvalidTransitionError rejects a state change not permitted from the
// reservation's current status. The caller should re-fetch and decide.
type InvalidTransitionError struct {
	From  string
	Event string
	Msg   string
}

func (e InvalidTransitionError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("cannot %s from %s: %s", e.Event, e.From, e.Msg)
	}
	return fmt.Sprintf("cannot %s from %s", e.Event, e.From)
}

// RoomUnavailableError means another allocation won the race or the room
// does not qualify; retry with a fresh availability query.
type RoomUnavailableError struct {
	RoomNumber string
	Reason     string
}

func (e RoomUnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("room %s unavailable: %s", e.RoomNumber, e.Reason)
	}
	return fmt.Sprintf("room %s unavailable", e.RoomNumber)
}

// OverpaymentError carries the maximum acceptable amount so the caller
// can present it to the user.
type OverpaymentError struct {
	Attempted decimal.Decimal
	Max       decimal.Decimal
}

func (e OverpaymentError) Error() string {
	return fmt.Sprintf("payment %s exceeds balance, maximum is %s",
		e.Attempted.StringFixed(2), e.Max.StringFixed(2))
}

// ClosedBillError rejects mutation of a paid/cancelled bill.
type ClosedBillError struct {
	Status string
}

func (e ClosedBillError) Error() string {
	return fmt.Sprintf("bill is %s and cannot be modified", e.Status)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsRoomUnavailable(err error) bool {
	var target RoomUnavailableError
	return errors.As(err, &target)
}
