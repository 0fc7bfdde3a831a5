package appointmentRepo

import (
	"context"
	"sync"
	"testing"

	"voicedesk/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAppointment(t *testing.T, repo Repository, phone, date, timeOfDay string) *models.Appointment {
	t.Helper()
	appt, err := repo.Create(context.Background(), models.Appointment{
		UserPhone: phone,
		Date:      date,
		Time:      timeOfDay,
	})
	require.NoError(t, err)
	return appt
}

func TestCreateAssignsIDAndStatus(t *testing.T) {
	repo := NewMemoryAppointmentRepo()

	appt := seedAppointment(t, repo, "5551234567", "2030-01-07", "10:00")
	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, models.AppointmentBooked, appt.Status)
	assert.False(t, appt.CreatedAt.IsZero())
}

func TestCreateRejectsOccupiedSlot(t *testing.T) {
	repo := NewMemoryAppointmentRepo()
	seedAppointment(t, repo, "5551234567", "2030-01-07", "10:00")

	_, err := repo.Create(context.Background(), models.Appointment{
		UserPhone: "5559876543",
		Date:      "2030-01-07",
		Time:      "10:00",
	})
	assert.ErrorIs(t, err, ErrSlotTaken)

	// A different time on the same day is fine.
	_, err = repo.Create(context.Background(), models.Appointment{
		UserPhone: "5559876543",
		Date:      "2030-01-07",
		Time:      "11:00",
	})
	assert.NoError(t, err)
}

func TestConcurrentCreateSameSlotExactlyOneWins(t *testing.T) {
	repo := NewMemoryAppointmentRepo()

	const callers = 20
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Create(context.Background(), models.Appointment{
				UserPhone: "5551234567",
				Date:      "2030-01-07",
				Time:      "14:00",
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrSlotTaken)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one booking must win the slot")
}

func TestCancelFreesSlotAndKeepsRecord(t *testing.T) {
	repo := NewMemoryAppointmentRepo()
	appt := seedAppointment(t, repo, "5551234567", "2030-01-07", "10:00")

	cancelled, err := repo.Cancel(context.Background(), appt.ID, "5551234567")
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCancelled, cancelled.Status)

	booked, err := repo.IsSlotBooked(context.Background(), "2030-01-07", "10:00")
	require.NoError(t, err)
	assert.False(t, booked, "cancelled slot must be free again")

	all, err := repo.ListByPhone(context.Background(), "5551234567", "")
	require.NoError(t, err)
	assert.Len(t, all, 1, "cancellation must not delete the record")

	// The freed slot is bookable again.
	_, err = repo.Create(context.Background(), models.Appointment{
		UserPhone: "5559876543",
		Date:      "2030-01-07",
		Time:      "10:00",
	})
	assert.NoError(t, err)
}

func TestCancelEnforcesOwnership(t *testing.T) {
	repo := NewMemoryAppointmentRepo()
	appt := seedAppointment(t, repo, "5551234567", "2030-01-07", "10:00")

	_, err := repo.Cancel(context.Background(), appt.ID, "5559876543")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Cancel(context.Background(), "no-such-id", "5551234567")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelTwiceFails(t *testing.T) {
	repo := NewMemoryAppointmentRepo()
	appt := seedAppointment(t, repo, "5551234567", "2030-01-07", "10:00")

	_, err := repo.Cancel(context.Background(), appt.ID, "5551234567")
	require.NoError(t, err)
	_, err = repo.Cancel(context.Background(), appt.ID, "5551234567")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestModifyChecksConflictAgainstProposedSlot(t *testing.T) {
	repo := NewMemoryAppointmentRepo()
	appt := seedAppointment(t, repo, "5551234567", "2030-01-07", "10:00")
	seedAppointment(t, repo, "5559876543", "2030-01-07", "11:00")

	_, err := repo.Modify(context.Background(), appt.ID, "5551234567", ModifyFields{NewTime: "11:00"})
	assert.ErrorIs(t, err, ErrSlotTaken)

	updated, err := repo.Modify(context.Background(), appt.ID, "5551234567", ModifyFields{NewTime: "12:00"})
	require.NoError(t, err)
	assert.Equal(t, "12:00", updated.Time)
	assert.Equal(t, "2030-01-07", updated.Date)
}

func TestModifyKeepingOwnSlotIsAllowed(t *testing.T) {
	repo := NewMemoryAppointmentRepo()
	appt := seedAppointment(t, repo, "5551234567", "2030-01-07", "10:00")

	// Changing only the date keeps its own time; the appointment must
	// not conflict with itself.
	updated, err := repo.Modify(context.Background(), appt.ID, "5551234567", ModifyFields{NewDate: "2030-01-08"})
	require.NoError(t, err)
	assert.Equal(t, "2030-01-08", updated.Date)
	assert.Equal(t, "10:00", updated.Time)
}

func TestModifyEnforcesOwnershipAndStatus(t *testing.T) {
	repo := NewMemoryAppointmentRepo()
	appt := seedAppointment(t, repo, "5551234567", "2030-01-07", "10:00")

	_, err := repo.Modify(context.Background(), appt.ID, "5559876543", ModifyFields{NewTime: "12:00"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Cancel(context.Background(), appt.ID, "5551234567")
	require.NoError(t, err)
	_, err = repo.Modify(context.Background(), appt.ID, "5551234567", ModifyFields{NewTime: "12:00"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListByPhoneFiltersByStatus(t *testing.T) {
	repo := NewMemoryAppointmentRepo()
	a := seedAppointment(t, repo, "5551234567", "2030-01-07", "10:00")
	seedAppointment(t, repo, "5551234567", "2030-01-08", "11:00")
	seedAppointment(t, repo, "5559876543", "2030-01-09", "12:00")

	_, err := repo.Cancel(context.Background(), a.ID, "5551234567")
	require.NoError(t, err)

	booked, err := repo.ListByPhone(context.Background(), "5551234567", models.AppointmentBooked)
	require.NoError(t, err)
	require.Len(t, booked, 1)
	assert.Equal(t, "2030-01-08", booked[0].Date)

	all, err := repo.ListByPhone(context.Background(), "5551234567", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
