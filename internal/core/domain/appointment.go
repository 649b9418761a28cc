package domain

import (
	"errors"
	"time"
)

// AppointmentStatus represents the lifecycle state of a dental appointment.
// Values are stored uppercase.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "PENDING"
	AppointmentConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentCancelled AppointmentStatus = "CANCELLED"
	AppointmentAttended  AppointmentStatus = "ATTENDED"
)

// MaxTreatmentsPerAppointment caps how many treatments a single booking may
// reference.
const MaxTreatmentsPerAppointment = 2

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrMissingFields       = errors.New("required fields are missing")
	ErrInvalidEmail        = errors.New("the email address is not valid")
	ErrTooManyTreatments   = errors.New("at most 2 treatments are allowed per request")
	ErrScheduleInPast      = errors.New("the date has already passed, choose a future date")
	ErrSlotTaken           = errors.New("there is already an appointment at that hour, choose another time")
	ErrSlotBusy            = errors.New("that time slot is being booked right now, please retry")
)

// Appointment is a dental appointment occupying an hour-granularity slot.
// SlotKey is derived from ScheduledAt and backs the storage-level
// uniqueness constraint that prevents double booking.
type Appointment struct {
	ID           string
	PatientName  string
	ScheduledAt  time.Time
	Phone        string
	Email        string
	Status       AppointmentStatus
	TreatmentIDs []string
	SlotKey      string
	CreatedAt    time.Time
}
