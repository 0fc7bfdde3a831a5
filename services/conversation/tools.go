package conversation

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	appointmentRepo "voicedesk/database/repository/appointment"
	"voicedesk/models"
	"voicedesk/utils"

	"go.uber.org/zap"
)

// Business hours: appointments start on the hour, 09:00 through 16:00,
// weekdays only.
var businessHours = []int{9, 10, 11, 12, 13, 14, 15, 16}

const slotLookaheadDays = 7
const maxSlotsReturned = 10

var phonePattern = regexp.MustCompile(`^\+?1?\d{10,}$`)

// ReminderScheduler schedules an appointment reminder after a booking
// succeeds. Failures are logged, never surfaced to the caller.
type ReminderScheduler interface {
	Schedule(ctx context.Context, appt models.Appointment) error
}

// Tools implements the seven domain operations. Each operation checks
// its preconditions, executes against the appointment store, mutates
// the conversation context, and reports expected domain conditions
// in-band via DispatchResult rather than as errors.
type Tools struct {
	Repo      appointmentRepo.Repository
	Reminders ReminderScheduler
}

// NewTools returns a Tools bound to the given store. reminders may be
// nil, in which case bookings are not followed by a reminder.
func NewTools(repo appointmentRepo.Repository, reminders ReminderScheduler) *Tools {
	return &Tools{Repo: repo, Reminders: reminders}
}

// NormalizePhone strips common separators from a phone number.
func NormalizePhone(phone string) string {
	r := strings.NewReplacer("-", "", ".", "", "(", "", ")", "", " ", "")
	return r.Replace(strings.TrimSpace(phone))
}

// IdentifyUser captures and validates the caller's phone number,
// moving the session from unidentified to identified.
func (t *Tools) IdentifyUser(ctx context.Context, c *Context, entities map[string]any) (*models.DispatchResult, error) {
	phone, err := stringEntity(entities, IntentIdentifyUser, "phone")
	if err != nil {
		return nil, err
	}
	name, _ := optionalString(entities, "name")

	phone = NormalizePhone(phone)
	if !phonePattern.MatchString(phone) {
		return &models.DispatchResult{
			Success: false,
			Error:   "Invalid phone number format. Please provide a valid 10-digit phone number.",
			Phone:   phone,
		}, nil
	}

	c.UserPhone = phone
	c.UserName = name
	c.TransitionTo(StateIdentified)

	greeting := name
	if greeting == "" {
		greeting = "there"
	}
	return &models.DispatchResult{
		Success: true,
		Message: fmt.Sprintf("Thank you %s! I've identified you with phone number %s. How can I help you today?", greeting, phone),
		Phone:   phone,
		Name:    name,
	}, nil
}

// FetchSlots computes the open slots over the next week, excluding any
// the store reports as already booked.
func (t *Tools) FetchSlots(ctx context.Context, c *Context, entities map[string]any) (*models.DispatchResult, error) {
	if !c.IsIdentified() {
		return identifyFirst("Please provide your phone number first so I can check available slots for you."), nil
	}

	t.enterWorkState(c, StateBrowsingSlots)

	var slots []models.AvailableSlot
	today := time.Now()
	for offset := 1; offset <= slotLookaheadDays; offset++ {
		day := today.AddDate(0, 0, offset)
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		date := day.Format("2006-01-02")
		for _, hour := range businessHours {
			slotTime := fmt.Sprintf("%02d:00", hour)
			booked, err := t.Repo.IsSlotBooked(ctx, date, slotTime)
			if err != nil {
				return nil, fmt.Errorf("fetch_slots: %w", err)
			}
			if booked {
				continue
			}
			slots = append(slots, models.AvailableSlot{Date: date, Time: slotTime, Available: true})
		}
	}

	shown := slots
	if len(shown) > maxSlotsReturned {
		shown = shown[:maxSlotsReturned]
	}
	return &models.DispatchResult{
		Success:        true,
		Message:        fmt.Sprintf("I found %d available slots in the next week.", len(slots)),
		Slots:          shown,
		TotalAvailable: len(slots),
	}, nil
}

// BookAppointment validates the requested slot and inserts it into the
// store; the store rejects the insert if the slot is already booked.
func (t *Tools) BookAppointment(ctx context.Context, c *Context, entities map[string]any) (*models.DispatchResult, error) {
	if !c.IsIdentified() {
		return identifyFirst("Please identify yourself first before booking an appointment."), nil
	}

	date, err := stringEntity(entities, IntentBookAppointment, "date")
	if err != nil {
		return nil, err
	}
	slotTime, err := stringEntity(entities, IntentBookAppointment, "time")
	if err != nil {
		return nil, err
	}
	notes, _ := optionalString(entities, "notes")

	day, derr := time.ParseInLocation("2006-01-02", date, time.Local)
	parsed, terr := time.Parse("15:04", slotTime)
	if derr != nil || terr != nil {
		return &models.DispatchResult{
			Success: false,
			Error:   "Invalid date or time format. Please use YYYY-MM-DD for date and HH:MM for time.",
		}, nil
	}

	today := time.Now()
	startOfToday := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.Local)
	if day.Before(startOfToday) {
		return &models.DispatchResult{
			Success: false,
			Error:   "Cannot book appointments in the past. Please choose a future date.",
		}, nil
	}

	if !withinBusinessHours(parsed.Hour()) {
		return &models.DispatchResult{
			Success: false,
			Error:   fmt.Sprintf("Appointments are only available between 9 AM and 5 PM. You requested %s.", slotTime),
		}, nil
	}

	appt, err := t.Repo.Create(ctx, models.Appointment{
		UserPhone: c.UserPhone,
		UserName:  c.UserName,
		Date:      date,
		Time:      slotTime,
		Notes:     notes,
	})
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrSlotTaken) {
			return &models.DispatchResult{
				Success: false,
				Error:   "This time slot is already booked. Please choose another time.",
			}, nil
		}
		return nil, fmt.Errorf("book_appointment: %w", err)
	}

	c.PendingAppointment = appt
	// From browsing, walk through the intermediate booking states so the
	// transition table is honored on the way to completed.
	if c.State == StateBrowsingSlots {
		c.TransitionTo(StateBooking)
		c.TransitionTo(StateConfirming)
	}
	c.TransitionTo(StateCompleted)

	if t.Reminders != nil {
		if rerr := t.Reminders.Schedule(ctx, *appt); rerr != nil {
			utils.GetLogger().Warn("failed to schedule appointment reminder",
				zap.String("appointmentId", appt.ID), zap.Error(rerr))
		}
	}

	return &models.DispatchResult{
		Success:        true,
		Message:        fmt.Sprintf("Perfect! I've booked your appointment for %s at %s. Confirmation ID: %s", date, slotTime, appt.ID),
		Appointment:    appt,
		ConfirmationID: appt.ID,
	}, nil
}

// RetrieveAppointments lists the caller's booked appointments.
func (t *Tools) RetrieveAppointments(ctx context.Context, c *Context, entities map[string]any) (*models.DispatchResult, error) {
	if !c.IsIdentified() {
		return identifyFirst("Please provide your phone number first."), nil
	}

	t.enterWorkState(c, StateRetrieving)

	appts, err := t.Repo.ListByPhone(ctx, c.UserPhone, models.AppointmentBooked)
	if err != nil {
		return nil, fmt.Errorf("retrieve_appointments: %w", err)
	}

	return &models.DispatchResult{
		Success:      true,
		Message:      fmt.Sprintf("You have %d upcoming appointment(s).", len(appts)),
		Appointments: appts,
		Phone:        c.UserPhone,
	}, nil
}

// CancelAppointment marks an owned appointment cancelled. Records are
// never deleted.
func (t *Tools) CancelAppointment(ctx context.Context, c *Context, entities map[string]any) (*models.DispatchResult, error) {
	if !c.IsIdentified() {
		return identifyFirst("Please identify yourself first."), nil
	}

	id, err := stringEntity(entities, IntentCancelAppointment, "appointment_id")
	if err != nil {
		return nil, err
	}

	t.enterWorkState(c, StateCancelling)

	if id == "" {
		return &models.DispatchResult{
			Success: false,
			Error:   "Please provide the appointment ID you want to cancel.",
		}, nil
	}

	appt, err := t.Repo.Cancel(ctx, id, c.UserPhone)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrNotFound) {
			return &models.DispatchResult{
				Success: false,
				Error:   "Appointment not found or you don't have permission to cancel it.",
			}, nil
		}
		return nil, fmt.Errorf("cancel_appointment: %w", err)
	}

	return &models.DispatchResult{
		Success:     true,
		Message:     "Your appointment has been cancelled successfully.",
		Appointment: appt,
	}, nil
}

// ModifyAppointment changes the date and/or time of an owned
// appointment, re-checking the slot constraint at the store.
func (t *Tools) ModifyAppointment(ctx context.Context, c *Context, entities map[string]any) (*models.DispatchResult, error) {
	if !c.IsIdentified() {
		return identifyFirst("Please identify yourself first."), nil
	}

	id, err := stringEntity(entities, IntentModifyAppointment, "appointment_id")
	if err != nil {
		return nil, err
	}

	t.enterWorkState(c, StateModifying)

	if id == "" {
		return &models.DispatchResult{
			Success: false,
			Error:   "Please provide the appointment ID you want to modify.",
		}, nil
	}

	newDate, _ := optionalString(entities, "new_date")
	newTime, _ := optionalString(entities, "new_time")
	if newDate == "" && newTime == "" {
		return &models.DispatchResult{
			Success: false,
			Error:   "Please specify what you'd like to change (date and/or time).",
		}, nil
	}

	appt, err := t.Repo.Modify(ctx, id, c.UserPhone, appointmentRepo.ModifyFields{
		NewDate: newDate,
		NewTime: newTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrNotFound):
			return &models.DispatchResult{
				Success: false,
				Error:   "Appointment not found or you don't have permission to modify it.",
			}, nil
		case errors.Is(err, appointmentRepo.ErrSlotTaken):
			return &models.DispatchResult{
				Success: false,
				Error:   "The new time slot is already booked.",
			}, nil
		}
		return nil, fmt.Errorf("modify_appointment: %w", err)
	}

	var changes []string
	if newDate != "" {
		changes = append(changes, fmt.Sprintf("date to %s", newDate))
	}
	if newTime != "" {
		changes = append(changes, fmt.Sprintf("time to %s", newTime))
	}
	return &models.DispatchResult{
		Success:     true,
		Message:     fmt.Sprintf("Your appointment has been modified: %s.", strings.Join(changes, ", ")),
		Appointment: appt,
	}, nil
}

// EndConversation closes the session from any state and returns its
// summary.
func (t *Tools) EndConversation(ctx context.Context, c *Context, entities map[string]any) (*models.DispatchResult, error) {
	if c.State != StateCompleted && !c.TransitionTo(StateCompleted) {
		// Identified working states reach completed through identified.
		// An unidentified session stays unidentified: phone and state
		// move in lock-step, so there is no completed-without-phone.
		if c.IsIdentified() {
			c.TransitionTo(StateIdentified)
			c.TransitionTo(StateCompleted)
		}
	}

	return &models.DispatchResult{
		Success: true,
		Message: "Thank you for using our appointment system. Here's a summary of our conversation.",
		Summary: c.Summary(),
	}, nil
}

// enterWorkState moves the context into a working state, first falling
// back to identified when coming from another working state.
func (t *Tools) enterWorkState(c *Context, target State) {
	if c.TransitionTo(target) {
		return
	}
	if c.State != target && c.CanTransitionTo(StateIdentified) {
		c.TransitionTo(StateIdentified)
		c.TransitionTo(target)
	}
}

func withinBusinessHours(hour int) bool {
	for _, h := range businessHours {
		if h == hour {
			return true
		}
	}
	return false
}

func identifyFirst(msg string) *models.DispatchResult {
	return &models.DispatchResult{Success: false, Error: msg}
}

func stringEntity(entities map[string]any, intent, key string) (string, error) {
	v, ok := entities[key]
	if !ok || v == nil {
		return "", &MissingParamError{Intent: intent, Param: key}
	}
	s, ok := v.(string)
	if !ok {
		return "", &MissingParamError{Intent: intent, Param: key}
	}
	return s, nil
}

func optionalString(entities map[string]any, key string) (string, bool) {
	v, ok := entities[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
