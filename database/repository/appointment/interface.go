package appointmentRepo

import (
	"context"
	"errors"

	"voicedesk/models"
)

// Domain failures surfaced to the conversation layer. Anything else
// returned by a repository is treated as an internal fault.
var (
	// ErrSlotTaken indicates another booked appointment already occupies
	// the requested (date, time) slot.
	ErrSlotTaken = errors.New("time slot is already booked")
	// ErrNotFound indicates no appointment matches the given id for the
	// given phone. Ownership mismatches are deliberately reported the
	// same way, so callers cannot probe other users' appointment ids.
	ErrNotFound = errors.New("appointment not found or not permitted")
)

// ModifyFields carries the optional changes for Modify. Empty fields are
// left untouched; at least one must be set.
type ModifyFields struct {
	NewDate string
	NewTime string
}

// Repository is the appointment store contract consumed by the
// conversation tools. Implementations must guarantee that no two
// appointments with status "booked" share the same (date, time) pair,
// atomically with respect to concurrent Create/Modify calls.
type Repository interface {
	// Create inserts a new booked appointment. Returns ErrSlotTaken if
	// the slot is already occupied by a booked appointment.
	Create(ctx context.Context, appt models.Appointment) (*models.Appointment, error)

	// ListByPhone returns the appointments owned by the given phone,
	// optionally filtered by status ("" means all).
	ListByPhone(ctx context.Context, phone string, status models.AppointmentStatus) ([]models.Appointment, error)

	// Cancel flips the appointment's status to cancelled. The record is
	// kept. Returns ErrNotFound if the id does not exist, is not owned
	// by phone, or is already cancelled.
	Cancel(ctx context.Context, id, phone string) (*models.Appointment, error)

	// Modify updates the date and/or time of a booked appointment,
	// re-checking the slot constraint against the proposed values and
	// excluding the appointment itself. Returns ErrNotFound on missing
	// id or ownership mismatch, ErrSlotTaken on conflict.
	Modify(ctx context.Context, id, phone string, fields ModifyFields) (*models.Appointment, error)

	// IsSlotBooked reports whether a booked appointment occupies the
	// given slot. Used by slot generation; the authoritative check stays
	// inside Create/Modify.
	IsSlotBooked(ctx context.Context, date, timeOfDay string) (bool, error)
}
