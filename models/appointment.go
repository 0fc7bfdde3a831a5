package models

import "time"

// AppointmentStatus is the lifecycle status of an appointment record.
// Cancellation flips the status; records are never deleted.
type AppointmentStatus string

const (
	AppointmentBooked    AppointmentStatus = "booked"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Appointment represents a booked (or cancelled) appointment record.
type Appointment struct {
	ID        string            `bson:"id" json:"id"`                             // Unique appointment identifier (UUID)
	UserPhone string            `bson:"user_phone" json:"user_phone"`             // Normalized phone number of the owner
	UserName  string            `bson:"user_name,omitempty" json:"user_name,omitempty"`
	Date      string            `bson:"date" json:"date"`                         // Appointment date in "YYYY-MM-DD" format
	Time      string            `bson:"time" json:"time"`                         // Appointment time in "HH:MM" format
	Status    AppointmentStatus `bson:"status" json:"status"`
	Notes     string            `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time         `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// AvailableSlot is a bookable (date, time) pair within business hours.
type AvailableSlot struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	Available bool   `json:"available"`
}
