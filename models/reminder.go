package models

import "time"

// ReminderPayload is the asynq task payload for an appointment reminder.
type ReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
	UserPhone     string `json:"userPhone"`
	UserName      string `json:"userName,omitempty"`
	Date          string `json:"date"`
	Time          string `json:"time"`
}

// ReminderNotice is the materialized reminder delivered to the frontend
// (stored in Redis, keyed by phone, until the appointment passes).
type ReminderNotice struct {
	AppointmentID string    `json:"appointmentId"`
	Message       string    `json:"message"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	CreatedAt     time.Time `json:"createdAt"`
}
