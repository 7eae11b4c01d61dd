package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jordankom/sofhair/internal/model"
	"github.com/jordankom/sofhair/pkg/errors"
)

// Opening window: 09:00 through 18:00 inclusive, every 30 minutes. 19
// candidate slots per day, anchored to the salon's reference timezone.
const (
	openHour        = 9
	closeHour       = 18
	slotStepMinutes = 30
)

const dateLayout = "2006-01-02"

// buildSlotsForDay expands the opening window into candidate start times for
// the calendar day containing day. Each slot is constructed from wall-clock
// components, not duration arithmetic, so the grid stays anchored at 09:00
// local time across DST transitions.
func buildSlotsForDay(day time.Time) []time.Time {
	slots := make([]time.Time, 0, 19)
	for m := openHour * 60; m <= closeHour*60; m += slotStepMinutes {
		slots = append(slots, time.Date(day.Year(), day.Month(), day.Day(), m/60, m%60, 0, 0, day.Location()))
	}
	return slots
}

// endOfDay returns the last instant of day's calendar day. Derived from the
// next midnight rather than a 24-hour offset, which would drift on 23 and
// 25 hour DST days.
func endOfDay(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, day.Location()).Add(-time.Nanosecond)
}

// GetAvailability returns the ordered candidate slots for one staff member
// on one calendar day, each flagged available or not. A slot is unavailable
// iff a booked appointment for that staff member starts at the exact
// instant.
func (s *Service) GetAvailability(ctx context.Context, date, staffID string) ([]model.Slot, error) {
	if staffID == "" {
		return nil, errors.Validation("staff_id is required", nil)
	}
	sid, err := uuid.Parse(staffID)
	if err != nil {
		return nil, errors.Validation("invalid staff_id", err)
	}

	day, err := time.ParseInLocation(dateLayout, date, s.loc)
	if err != nil {
		return nil, errors.Validation("invalid date, expected YYYY-MM-DD", err)
	}

	booked, err := s.appointments.ListBookedForStaff(ctx, sid, day, endOfDay(day))
	if err != nil {
		return nil, errors.Internal(err)
	}

	taken := make(map[int64]struct{}, len(booked))
	for _, apt := range booked {
		taken[apt.StartAt.Unix()] = struct{}{}
	}

	candidates := buildSlotsForDay(day)
	slots := make([]model.Slot, 0, len(candidates))
	for _, t := range candidates {
		_, busy := taken[t.Unix()]
		slots = append(slots, model.Slot{StartAt: t, Available: !busy})
	}
	return slots, nil
}
