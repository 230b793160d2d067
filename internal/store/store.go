package store

import (
	"context"
	"errors"

	"github.com/EpicMandM/reservation-system/internal/models"
)

// ErrNotFound is returned when no reservation exists for the requested id.
var ErrNotFound = errors.New("reservation not found")

// Store defines the interface for reservation persistence.
// A single call is atomic; nothing spanning several calls is.
type Store interface {
	FindByID(ctx context.Context, id int64) (models.Reservation, error)
	FindAll(ctx context.Context) ([]models.Reservation, error)
	// Save inserts when r.ID is zero and assigns a fresh id, otherwise it
	// replaces the stored record.
	Save(ctx context.Context, r models.Reservation) (models.Reservation, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	// DeleteByID is a no-op for unknown ids.
	DeleteByID(ctx context.Context, id int64) error
	SetStatus(ctx context.Context, id int64, status models.ReservationStatus) error

	Close() error
}
