package services

import (
	"testing"

	"horizon-backend/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardAllocatable(t *testing.T) {
	var ite InvalidTransitionError

	assert.NoError(t, guardAllocatable(&models.Reservation{Status: models.StatusConfirmed}))

	err := guardAllocatable(&models.Reservation{Status: models.StatusPending})
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, models.StatusPending, ite.From)
	assert.Equal(t, "check-in", ite.Event)

	roomID := uint(7)
	err = guardAllocatable(&models.Reservation{Status: models.StatusConfirmed, RoomID: &roomID})
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, "room already assigned", ite.Msg)
}

func TestAllocate_RejectsPendingReservation(t *testing.T) {
	gdb, mock := newMockGorm(t)
	svc := NewAllocationService(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `reservations`").
		WillReturnRows(reservationRow("HZ-AAAA-BBBB", models.StatusPending))
	mock.ExpectRollback()

	_, err := svc.Allocate("HZ-AAAA-BBBB", 5)
	var ite InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, models.StatusPending, ite.From)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocate_UnknownReservation(t *testing.T) {
	gdb, mock := newMockGorm(t)
	svc := NewAllocationService(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `reservations`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := svc.Allocate("HZ-ZZZZ-ZZZZ", 5)
	assert.True(t, IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocate_RejectsMaintenanceRoom(t *testing.T) {
	gdb, mock := newMockGorm(t)
	svc := NewAllocationService(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `reservations`").
		WillReturnRows(reservationRow("HZ-AAAA-BBBB", models.StatusConfirmed))
	mock.ExpectQuery("SELECT (.+) FROM `rooms`").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "room_number", "nightly_rate", "max_occupancy", "maintenance",
		}).AddRow(5, "101", "100.00", 2, true))
	mock.ExpectRollback()

	_, err := svc.Allocate("HZ-AAAA-BBBB", 5)
	var rue RoomUnavailableError
	require.ErrorAs(t, err, &rue)
	assert.Equal(t, "101", rue.RoomNumber)
	assert.Equal(t, "under maintenance", rue.Reason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocate_RejectsInsufficientCapacity(t *testing.T) {
	gdb, mock := newMockGorm(t)
	svc := NewAllocationService(gdb)

	// reservation row carries 2 adults; the room sleeps 1
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `reservations`").
		WillReturnRows(reservationRow("HZ-AAAA-BBBB", models.StatusConfirmed))
	mock.ExpectQuery("SELECT (.+) FROM `rooms`").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "room_number", "nightly_rate", "max_occupancy", "maintenance",
		}).AddRow(5, "101", "100.00", 1, false))
	mock.ExpectRollback()

	_, err := svc.Allocate("HZ-AAAA-BBBB", 5)
	var rue RoomUnavailableError
	require.ErrorAs(t, err, &rue)
	assert.Equal(t, "insufficient capacity", rue.Reason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocate_LosesRaceOnOverlap(t *testing.T) {
	gdb, mock := newMockGorm(t)
	svc := NewAllocationService(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `reservations`").
		WillReturnRows(reservationRow("HZ-AAAA-BBBB", models.StatusConfirmed))
	mock.ExpectQuery("SELECT (.+) FROM `rooms`").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "room_number", "nightly_rate", "max_occupancy", "maintenance",
		}).AddRow(5, "101", "100.00", 2, false))
	// the re-count under the room lock sees a committed competitor
	mock.ExpectQuery("SELECT count(.+) FROM `reservations`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err := svc.Allocate("HZ-AAAA-BBBB", 5)
	var rue RoomUnavailableError
	require.ErrorAs(t, err, &rue)
	assert.Equal(t, "overlapping stay", rue.Reason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckIn_NoRoomsAvailable(t *testing.T) {
	gdb, mock := newMockGorm(t)
	svc := NewAllocationService(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `reservations`").
		WillReturnRows(reservationRow("HZ-AAAA-BBBB", models.StatusConfirmed))
	mock.ExpectQuery("SELECT (.+) FROM `rooms`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_number"}))
	mock.ExpectRollback()

	_, err := svc.CheckIn("HZ-AAAA-BBBB")
	assert.True(t, IsRoomUnavailable(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
