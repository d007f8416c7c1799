package services

import (
	"errors"
	"testing"
	"time"

	"horizon-backend/models"

	"github.com/DATA-DOG/go-sqlmock"
	mysql "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{models.StatusPending, models.StatusConfirmed, true},
		{models.StatusPending, models.StatusCancelled, true},
		{models.StatusPending, models.StatusCheckedIn, false},
		{models.StatusPending, models.StatusCheckedOut, false},

		{models.StatusConfirmed, models.StatusCheckedIn, true},
		{models.StatusConfirmed, models.StatusCancelled, true},
		{models.StatusConfirmed, models.StatusPending, false},
		{models.StatusConfirmed, models.StatusCheckedOut, false},

		{models.StatusCheckedIn, models.StatusCheckedOut, true},
		{models.StatusCheckedIn, models.StatusCancelled, false},
		{models.StatusCheckedIn, models.StatusConfirmed, false},

		// terminal states allow nothing
		{models.StatusCheckedOut, models.StatusPending, false},
		{models.StatusCheckedOut, models.StatusCancelled, false},
		{models.StatusCancelled, models.StatusConfirmed, false},
		{models.StatusCancelled, models.StatusCheckedIn, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, canTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestCreate_ValidatesInput(t *testing.T) {
	gdb, mock := newMockGorm(t)
	svc := NewReservationService(gdb)

	checkIn := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	checkOut := checkIn.AddDate(0, 0, 2)
	var ve ValidationError

	_, err := svc.Create(CreateReservationInput{GuestEmail: "g@x.io", CheckIn: checkIn, CheckOut: checkOut})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "guest_name", ve.Field)

	_, err = svc.Create(CreateReservationInput{GuestName: "Guest", CheckIn: checkIn, CheckOut: checkOut})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "guest_email", ve.Field)

	// zero-night and inverted windows are both rejected
	_, err = svc.Create(CreateReservationInput{GuestName: "Guest", GuestEmail: "g@x.io", CheckIn: checkIn, CheckOut: checkIn})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "check_out", ve.Field)

	_, err = svc.Create(CreateReservationInput{GuestName: "Guest", GuestEmail: "g@x.io", CheckIn: checkOut, CheckOut: checkIn})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "check_out", ve.Field)

	_, err = svc.Create(CreateReservationInput{GuestName: "Guest", GuestEmail: "g@x.io", CheckIn: checkIn, CheckOut: checkOut, Children: -1})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "children", ve.Field)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirm_RequiresPaymentOrOverride(t *testing.T) {
	gdb, mock := newMockGorm(t)
	svc := NewReservationService(gdb)

	_, err := svc.Confirm("HZ-AAAA-BBBB", false, false)
	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "payment_captured", ve.Field)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirm_RejectsNonPending(t *testing.T) {
	gdb, mock := newMockGorm(t)
	svc := NewReservationService(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `reservations`").
		WithArgs("HZ-AAAA-BBBB").
		WillReturnRows(reservationRow("HZ-AAAA-BBBB", models.StatusCheckedIn))
	mock.ExpectRollback()

	// lookup is case-insensitive on the reference
	_, err := svc.Confirm("hz-aaaa-bbbb", true, false)
	var ite InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, models.StatusCheckedIn, ite.From)
	assert.Equal(t, "confirm", ite.Event)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel_RejectsCheckedIn(t *testing.T) {
	gdb, mock := newMockGorm(t)
	svc := NewReservationService(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `reservations`").
		WithArgs("HZ-AAAA-BBBB").
		WillReturnRows(reservationRow("HZ-AAAA-BBBB", models.StatusCheckedIn))
	mock.ExpectRollback()

	_, err := svc.Cancel("HZ-AAAA-BBBB")
	var ite InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, "cancel", ite.Event)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel_ReleasesRoomAndCancelsBill(t *testing.T) {
	gdb, mock := newMockGorm(t)
	svc := NewReservationService(gdb)

	billID := uuid.New()
	checkIn := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	// confirmed reservation holding room 7; cancel must free the room
	// and cancel the bill inside the same transaction
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `reservations`").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "reference_code", "guest_name", "guest_email",
			"check_in", "check_out", "adults", "children", "status", "room_id",
		}).AddRow(1, "HZ-AAAA-BBBB", "Guest", "guest@example.com",
			checkIn, checkIn.AddDate(0, 0, 2), 2, 0, models.StatusConfirmed, 7))
	mock.ExpectExec("UPDATE `reservations` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM `bills`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "reservation_id", "cancelled"}).
			AddRow(billID.String(), 1, false))
	mock.ExpectExec("UPDATE `bills` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	resv, err := svc.Cancel("HZ-AAAA-BBBB")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, resv.Status)
	assert.Nil(t, resv.RoomID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, isDuplicateKey(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'HZ-AAAA-BBBB'"}))
	assert.True(t, isDuplicateKey(errors.New("UNIQUE constraint failed: reservations.reference_code")))

	// FK and other constraint failures are not collisions and must not
	// be retried
	assert.False(t, isDuplicateKey(&mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}))
	assert.False(t, isDuplicateKey(errors.New("FOREIGN KEY constraint failed")))
	assert.False(t, isDuplicateKey(errors.New("connection refused")))
}

func TestCheckOut_ForceCloseRequiresReason(t *testing.T) {
	gdb, mock := newMockGorm(t)
	svc := NewReservationService(gdb)

	_, _, err := svc.CheckOut("HZ-AAAA-BBBB", true, "  ")
	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "reason", ve.Field)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckOut_UnknownReference(t *testing.T) {
	gdb, mock := newMockGorm(t)
	svc := NewReservationService(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `reservations`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, _, err := svc.CheckOut("HZ-ZZZZ-ZZZZ", false, "")
	assert.True(t, IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// reservationRow builds a single-row result for the FOR UPDATE lookup.
func reservationRow(ref, status string) *sqlmock.Rows {
	checkIn := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "reference_code", "guest_name", "guest_email",
		"check_in", "check_out", "adults", "children", "status",
	}).AddRow(1, ref, "Guest", "guest@example.com",
		checkIn, checkIn.AddDate(0, 0, 2), 2, 0, status)
}
