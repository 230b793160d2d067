package service

import "github.com/EpicMandM/reservation-system/internal/models"

// Overlaps reports whether [a.StartDate, a.EndDate) and [b.StartDate, b.EndDate)
// intersect. Ranges that only touch at an endpoint do not overlap.
func Overlaps(a, b models.Reservation) bool {
	return a.Overlaps(b)
}

// HasConflict reports whether any approved reservation in existing, other than
// candidate itself, occupies the candidate's room over an overlapping range.
func HasConflict(candidate models.Reservation, existing []models.Reservation) bool {
	_, found := findConflict(candidate, existing)
	return found
}

func findConflict(candidate models.Reservation, existing []models.Reservation) (models.Reservation, bool) {
	for _, e := range existing {
		if e.ID == candidate.ID {
			continue
		}
		if e.RoomID != candidate.RoomID {
			continue
		}
		if e.Status != models.StatusApproved {
			continue
		}
		if Overlaps(candidate, e) {
			return e, true
		}
	}
	return models.Reservation{}, false
}
