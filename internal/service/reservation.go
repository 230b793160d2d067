package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/EpicMandM/reservation-system/internal/logger"
	"github.com/EpicMandM/reservation-system/internal/models"
	"github.com/EpicMandM/reservation-system/internal/store"
)

// ReservationService enforces the reservation state machine on top of a Store.
// It keeps no reservation state of its own; the only thing shared between
// calls is the per-room lock table that serializes approvals.
type ReservationService struct {
	logger *logger.Logger
	store  store.Store
	locks  *roomLocks
}

func NewReservationService(log *logger.Logger, st store.Store) *ReservationService {
	if log == nil {
		log = logger.Discard()
	}
	return &ReservationService{
		logger: log,
		store:  st,
		locks:  newRoomLocks(),
	}
}

func (s *ReservationService) GetReservationByID(ctx context.Context, id int64) (models.Reservation, error) {
	return s.load(ctx, id)
}

func (s *ReservationService) FindAllReservations(ctx context.Context) ([]models.Reservation, error) {
	all, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return all, nil
}

// CreateReservation persists a new PENDING reservation. The input must not
// carry an id or a status.
func (s *ReservationService) CreateReservation(ctx context.Context, input models.Reservation) (models.Reservation, error) {
	if input.ID != 0 {
		return models.Reservation{}, fmt.Errorf("%w: id should be empty", ErrInvalidArgument)
	}
	if input.Status != "" {
		return models.Reservation{}, fmt.Errorf("%w: status should be empty", ErrInvalidArgument)
	}
	if err := validateDetails(input); err != nil {
		return models.Reservation{}, err
	}

	created, err := s.store.Save(ctx, models.Reservation{
		UserID:    input.UserID,
		RoomID:    input.RoomID,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Status:    models.StatusPending,
	})
	if err != nil {
		return models.Reservation{}, fmt.Errorf("failed to save reservation: %w", err)
	}

	s.logger.Info("Reservation created",
		logger.Action("create"),
		logger.Reservation(created.ID),
		logger.Room(created.RoomID),
		logger.User(created.UserID))
	return created, nil
}

// UpdateReservation replaces the user, room and dates of a PENDING
// reservation. It does not check for conflicts; approval does.
func (s *ReservationService) UpdateReservation(ctx context.Context, id int64, input models.Reservation) (models.Reservation, error) {
	if err := validateDetails(input); err != nil {
		return models.Reservation{}, err
	}

	current, unlock, err := s.lockReservation(ctx, id)
	if err != nil {
		return models.Reservation{}, err
	}
	defer unlock()

	if current.Status != models.StatusPending {
		return models.Reservation{}, fmt.Errorf("%w: cannot modify reservation with status %s", ErrInvalidState, current.Status)
	}

	updated, err := s.store.Save(ctx, models.Reservation{
		ID:        current.ID,
		UserID:    input.UserID,
		RoomID:    input.RoomID,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Status:    models.StatusPending,
	})
	if err != nil {
		return models.Reservation{}, fmt.Errorf("failed to save reservation %d: %w", id, err)
	}

	s.logger.Info("Reservation updated",
		logger.Action("update"),
		logger.Reservation(updated.ID),
		logger.Room(updated.RoomID))
	return updated, nil
}

// ApproveReservation moves a PENDING reservation to APPROVED unless an
// approved reservation for the same room overlaps it. The check and the
// write run under the room's lock.
func (s *ReservationService) ApproveReservation(ctx context.Context, id int64) (models.Reservation, error) {
	current, unlock, err := s.lockReservation(ctx, id)
	if err != nil {
		return models.Reservation{}, err
	}
	defer unlock()

	if current.Status != models.StatusPending {
		return models.Reservation{}, fmt.Errorf("%w: cannot approve reservation with status %s", ErrInvalidState, current.Status)
	}

	all, err := s.store.FindAll(ctx)
	if err != nil {
		return models.Reservation{}, fmt.Errorf("failed to list reservations: %w", err)
	}
	if other, found := findConflict(current, all); found {
		s.logger.Warn("Reservation approval rejected",
			logger.Action("approve"),
			logger.Reservation(current.ID),
			logger.Room(current.RoomID),
			logger.Reason("conflict"),
			logger.F("CONFLICTS_WITH", other.ID))
		return models.Reservation{}, fmt.Errorf("%w: cannot approve reservation %d, room %d is already booked from %s to %s by reservation %d",
			ErrConflict, current.ID, current.RoomID, other.StartDate, other.EndDate, other.ID)
	}

	current.Status = models.StatusApproved
	approved, err := s.store.Save(ctx, current)
	if err != nil {
		return models.Reservation{}, fmt.Errorf("failed to save reservation %d: %w", id, err)
	}

	s.logger.Info("Reservation approved",
		logger.Action("approve"),
		logger.Reservation(approved.ID),
		logger.Room(approved.RoomID),
		logger.Status(string(approved.Status)))
	return approved, nil
}

// CancelReservation soft-cancels a PENDING reservation. Approved reservations
// cannot be cancelled through this path.
func (s *ReservationService) CancelReservation(ctx context.Context, id int64) error {
	current, unlock, err := s.lockReservation(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	switch current.Status {
	case models.StatusApproved:
		return fmt.Errorf("%w: cannot cancel approved reservation %d", ErrInvalidState, id)
	case models.StatusCancelled:
		return fmt.Errorf("%w: reservation %d is already cancelled", ErrInvalidState, id)
	}

	if err := s.store.SetStatus(ctx, id, models.StatusCancelled); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(id)
		}
		return fmt.Errorf("failed to cancel reservation %d: %w", id, err)
	}

	s.logger.Info("Reservation cancelled",
		logger.Action("cancel"),
		logger.Reservation(id),
		logger.Room(current.RoomID))
	return nil
}

// DeleteReservation removes the reservation whatever its status.
func (s *ReservationService) DeleteReservation(ctx context.Context, id int64) error {
	exists, err := s.store.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to look up reservation %d: %w", id, err)
	}
	if !exists {
		return notFound(id)
	}

	if err := s.store.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete reservation %d: %w", id, err)
	}

	s.logger.Info("Reservation deleted", logger.Action("delete"), logger.Reservation(id))
	return nil
}

func (s *ReservationService) load(ctx context.Context, id int64) (models.Reservation, error) {
	r, err := s.store.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Reservation{}, notFound(id)
	}
	if err != nil {
		return models.Reservation{}, fmt.Errorf("failed to load reservation %d: %w", id, err)
	}
	return r, nil
}

// lockReservation loads the reservation and acquires its room's lock. The
// record is re-read under the lock; if its room moved in between, the lock
// is released and the sequence retried against the new room.
func (s *ReservationService) lockReservation(ctx context.Context, id int64) (models.Reservation, func(), error) {
	for {
		if err := ctx.Err(); err != nil {
			return models.Reservation{}, nil, err
		}

		seen, err := s.load(ctx, id)
		if err != nil {
			return models.Reservation{}, nil, err
		}

		unlock := s.locks.lock(seen.RoomID)
		current, err := s.load(ctx, id)
		if err != nil {
			unlock()
			return models.Reservation{}, nil, err
		}
		if current.RoomID == seen.RoomID {
			return current, unlock, nil
		}
		unlock()
	}
}

func validateDetails(r models.Reservation) error {
	if r.UserID <= 0 {
		return fmt.Errorf("%w: userId is required", ErrInvalidArgument)
	}
	if r.RoomID <= 0 {
		return fmt.Errorf("%w: roomId is required", ErrInvalidArgument)
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidArgument)
	}
	if !r.EndDate.After(r.StartDate) {
		return fmt.Errorf("%w: start date must be earlier than end date", ErrInvalidArgument)
	}
	return nil
}

func notFound(id int64) error {
	return fmt.Errorf("%w: there is no reservation with id: %d", ErrNotFound, id)
}
