package appointmentRepo

import (
	"context"
	"sync"
	"time"

	"voicedesk/models"

	"github.com/google/uuid"
)

// memoryAppointmentRepo is an in-memory Repository for development and
// tests. The single mutex makes the slot check and insert atomic, so it
// honors the same double-booking guarantee as the Mongo backend.
type memoryAppointmentRepo struct {
	mu    sync.Mutex
	appts []models.Appointment
}

// NewMemoryAppointmentRepo returns an in-memory Repository.
func NewMemoryAppointmentRepo() Repository {
	return &memoryAppointmentRepo{}
}

func (r *memoryAppointmentRepo) Create(ctx context.Context, appt models.Appointment) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.appts {
		if a.Date == appt.Date && a.Time == appt.Time && a.Status == models.AppointmentBooked {
			return nil, ErrSlotTaken
		}
	}

	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	appt.Status = models.AppointmentBooked
	appt.CreatedAt = time.Now()
	r.appts = append(r.appts, appt)

	created := appt
	return &created, nil
}

func (r *memoryAppointmentRepo) ListByPhone(ctx context.Context, phone string, status models.AppointmentStatus) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []models.Appointment
	for _, a := range r.appts {
		if a.UserPhone != phone {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (r *memoryAppointmentRepo) Cancel(ctx context.Context, id, phone string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.appts {
		a := &r.appts[i]
		if a.ID != id {
			continue
		}
		if a.UserPhone != phone || a.Status != models.AppointmentBooked {
			return nil, ErrNotFound
		}
		a.Status = models.AppointmentCancelled
		a.UpdatedAt = time.Now()
		cancelled := *a
		return &cancelled, nil
	}
	return nil, ErrNotFound
}

func (r *memoryAppointmentRepo) Modify(ctx context.Context, id, phone string, fields ModifyFields) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var target *models.Appointment
	for i := range r.appts {
		if r.appts[i].ID == id {
			if r.appts[i].UserPhone != phone || r.appts[i].Status != models.AppointmentBooked {
				return nil, ErrNotFound
			}
			target = &r.appts[i]
			break
		}
	}
	if target == nil {
		return nil, ErrNotFound
	}

	checkDate := target.Date
	if fields.NewDate != "" {
		checkDate = fields.NewDate
	}
	checkTime := target.Time
	if fields.NewTime != "" {
		checkTime = fields.NewTime
	}

	for _, a := range r.appts {
		if a.ID != id && a.Date == checkDate && a.Time == checkTime && a.Status == models.AppointmentBooked {
			return nil, ErrSlotTaken
		}
	}

	if fields.NewDate != "" {
		target.Date = fields.NewDate
	}
	if fields.NewTime != "" {
		target.Time = fields.NewTime
	}
	target.UpdatedAt = time.Now()

	updated := *target
	return &updated, nil
}

func (r *memoryAppointmentRepo) IsSlotBooked(ctx context.Context, date, timeOfDay string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.appts {
		if a.Date == date && a.Time == timeOfDay && a.Status == models.AppointmentBooked {
			return true, nil
		}
	}
	return false, nil
}
