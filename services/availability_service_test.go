package services

import (
	"testing"
	"time"

	"horizon-backend/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps_HalfOpen(t *testing.T) {
	// back-to-back stays share a date without overlapping: a checkout
	// on the 12th and a check-in on the 12th can use the same room
	assert.False(t, Overlaps(day(10), day(12), day(12), day(14)))
	assert.False(t, Overlaps(day(12), day(14), day(10), day(12)))

	// one shared night is an overlap
	assert.True(t, Overlaps(day(10), day(13), day(12), day(14)))
	assert.True(t, Overlaps(day(12), day(14), day(10), day(13)))

	// containment and identity
	assert.True(t, Overlaps(day(10), day(20), day(12), day(14)))
	assert.True(t, Overlaps(day(10), day(12), day(10), day(12)))

	// disjoint windows
	assert.False(t, Overlaps(day(1), day(5), day(20), day(25)))
}

func TestOnlyCommittedStaysBlockRooms(t *testing.T) {
	assert.ElementsMatch(t, []string{models.StatusConfirmed, models.StatusCheckedIn}, activeStatuses)

	// cancelled/pending/checked-out stays never block a room, so a
	// cancellation immediately frees the range it held
	assert.NotContains(t, activeStatuses, models.StatusCancelled)
	assert.NotContains(t, activeStatuses, models.StatusPending)
	assert.NotContains(t, activeStatuses, models.StatusCheckedOut)
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2026, 9, 10, 18, 45, 12, 999, time.UTC)
	got := DateOnly(in)
	assert.Equal(t, day(10), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestNightsBetween(t *testing.T) {
	assert.Equal(t, 2, models.NightsBetween(day(10), day(12)))
	assert.Equal(t, 1, models.NightsBetween(day(10), day(11)))
	// same-day checkout still bills one night
	assert.Equal(t, 1, models.NightsBetween(day(10), day(10)))
	assert.Equal(t, 0, models.NightsBetween(day(12), day(10)))
}

func TestFindAvailableRooms_ValidatesWindow(t *testing.T) {
	gdb, mock := newMockGorm(t)
	svc := NewAvailabilityService(gdb)

	var ve ValidationError

	_, err := svc.FindAvailableRooms(day(12), day(10), 1, "")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "check_out", ve.Field)

	_, err = svc.FindAvailableRooms(day(10), day(10), 1, "")
	require.ErrorAs(t, err, &ve)

	_, err = svc.FindAvailableRooms(day(10), day(12), -1, "")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "capacity", ve.Field)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAvailableRooms_CheapestFirst(t *testing.T) {
	gdb, mock := newMockGorm(t)
	svc := NewAvailabilityService(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `rooms`").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "room_number", "type", "nightly_rate", "max_occupancy", "maintenance",
		}).
			AddRow(3, "201", "Standard", "80.00", 2, false).
			AddRow(1, "101", "Deluxe", "120.00", 3, false))
	mock.ExpectCommit()

	rooms, err := svc.FindAvailableRooms(day(10), day(12), 2, "")
	require.NoError(t, err)
	require.Len(t, rooms, 2)

	assert.Equal(t, "201", rooms[0].RoomNumber)
	assert.Equal(t, "101", rooms[1].RoomNumber)
	// every returned room reads as available for the window
	assert.Equal(t, models.RoomAvailable, rooms[0].Status)
	assert.Equal(t, models.RoomAvailable, rooms[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAvailableRooms_EmptyIsNotAnError(t *testing.T) {
	gdb, mock := newMockGorm(t)
	svc := NewAvailabilityService(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `rooms`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_number"}))
	mock.ExpectCommit()

	rooms, err := svc.FindAvailableRooms(day(10), day(12), 1, "Suite")
	require.NoError(t, err)
	assert.NotNil(t, rooms)
	assert.Empty(t, rooms)
	assert.NoError(t, mock.ExpectationsWereMet())
}
