package domain

import (
	"errors"
	"time"
)

// ReservationStatus represents the lifecycle state of a hall reservation.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationReady     ReservationStatus = "READY"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrInvalidAttendees    = errors.New("attendee count must be zero or greater")
)

// Reservation is an event-hall booking.
type Reservation struct {
	ID          string
	Reference   string
	ClientName  string
	ScheduledAt time.Time
	Phone       string
	Email       string
	Attendees   int
	Status      ReservationStatus
	CreatedAt   time.Time
}
