package models

import "time"

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"
	StatusApproved  ReservationStatus = "APPROVED"
	StatusCancelled ReservationStatus = "CANCELLED"
)

// Valid reports whether s is one of the three known statuses.
func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusCancelled:
		return true
	}
	return false
}

// Reservation represents a request to occupy a room over [StartDate, EndDate).
// A zero ID means the record has not been persisted yet and an empty Status
// means none was supplied.
type Reservation struct {
	ID        int64             `json:"id,omitempty"`
	UserID    int64             `json:"userId"`
	RoomID    int64             `json:"roomId"`
	StartDate Date              `json:"startDate"`
	EndDate   Date              `json:"endDate"`
	Status    ReservationStatus `json:"status,omitempty"`
}

// ErrorResponse is the body rendered for failed requests.
type ErrorResponse struct {
	Message         string    `json:"message"`
	DetailedMessage string    `json:"detailedMessage"`
	ErrorTime       time.Time `json:"errorTime"`
}

// Overlaps reports whether r and other cover intersecting [StartDate, EndDate)
// ranges. Ranges that only touch at an endpoint do not overlap.
func (r Reservation) Overlaps(other Reservation) bool {
	return r.StartDate.Before(other.EndDate) && other.StartDate.Before(r.EndDate)
}
