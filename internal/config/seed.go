package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/EpicMandM/reservation-system/internal/models"
)

// SeedReservation is one fixture row of a seed file.
type SeedReservation struct {
	ID        int64                    `toml:"id"` // Optional: assigned by the store when zero
	UserID    int64                    `toml:"user_id"`
	RoomID    int64                    `toml:"room_id"`
	StartDate models.Date              `toml:"start_date"`
	EndDate   models.Date              `toml:"end_date"`
	Status    models.ReservationStatus `toml:"status"` // Optional: defaults to PENDING
}

// SeedConfig holds fixture data loaded into an empty store at startup.
// Source: TOML configuration file
type SeedConfig struct {
	Reservations []SeedReservation `toml:"reservations"`
}

// LoadSeedConfig loads and validates fixture data from a TOML file.
func LoadSeedConfig(path string) (*SeedConfig, error) {
	var cfg SeedConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load seed config: %w", err)
	}
	for i := range cfg.Reservations {
		if err := cfg.Reservations[i].normalize(); err != nil {
			return nil, fmt.Errorf("seed reservation #%d: %w", i+1, err)
		}
	}
	if err := cfg.validateSet(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validateSet rejects fixtures that would be inconsistent once stored:
// repeated explicit ids, and approved rows double-booking a room.
func (c *SeedConfig) validateSet() error {
	seenIDs := make(map[int64]int)
	for i, r := range c.Reservations {
		if r.ID == 0 {
			continue
		}
		if j, ok := seenIDs[r.ID]; ok {
			return fmt.Errorf("seed reservations #%d and #%d share id %d", j+1, i+1, r.ID)
		}
		seenIDs[r.ID] = i
	}

	fixtures := c.Fixtures()
	for i := range fixtures {
		if fixtures[i].Status != models.StatusApproved {
			continue
		}
		for j := i + 1; j < len(fixtures); j++ {
			other := fixtures[j]
			if other.Status != models.StatusApproved || other.RoomID != fixtures[i].RoomID {
				continue
			}
			if fixtures[i].Overlaps(other) {
				return fmt.Errorf("seed reservations #%d and #%d overlap in room %d", i+1, j+1, other.RoomID)
			}
		}
	}
	return nil
}

func (r *SeedReservation) normalize() error {
	if r.Status == "" {
		r.Status = models.StatusPending
	}
	if !r.Status.Valid() {
		return fmt.Errorf("unknown status %q", r.Status)
	}
	if r.UserID <= 0 || r.RoomID <= 0 {
		return fmt.Errorf("user_id and room_id are required")
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return fmt.Errorf("start_date and end_date are required")
	}
	if !r.EndDate.After(r.StartDate) {
		return fmt.Errorf("start_date must be earlier than end_date")
	}
	return nil
}

// Fixtures converts the seed rows to reservations ready for a store.
func (c *SeedConfig) Fixtures() []models.Reservation {
	out := make([]models.Reservation, 0, len(c.Reservations))
	for _, r := range c.Reservations {
		out = append(out, models.Reservation{
			ID:        r.ID,
			UserID:    r.UserID,
			RoomID:    r.RoomID,
			StartDate: r.StartDate,
			EndDate:   r.EndDate,
			Status:    r.Status,
		})
	}
	return out
}
