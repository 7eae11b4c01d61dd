package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jordankom/sofhair/internal/model"
)

// Storage-level sentinels. Services translate these into the domain error
// taxonomy; repositories never import pkg/errors.
var (
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateSlot is returned when an insert or update trips the
	// partial unique index on (staff_id, start_at) for booked appointments.
	ErrDuplicateSlot = errors.New("slot already booked")
	// ErrStaleAppointment is returned when a compare-and-swap update finds
	// the appointment changed (or cancelled) since it was read.
	ErrStaleAppointment = errors.New("appointment changed concurrently")
)

type AppointmentRepository interface {
	Create(ctx context.Context, apt *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	// ListBookedForStaff returns booked appointments for one staff member
	// whose start falls within [from, to], chronological order.
	ListBookedForStaff(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]*model.Appointment, error)
	// ListForClient returns the client's appointments (booked and
	// cancelled) with service fields denormalized, chronological order.
	ListForClient(ctx context.Context, clientID uuid.UUID) ([]*model.AppointmentWithService, error)
	// ListBookedForDay returns every booked appointment of the day with
	// service fields denormalized, chronological order.
	ListBookedForDay(ctx context.Context, from, to time.Time) ([]*model.AppointmentWithService, error)
	// Cancel flips a booked appointment to cancelled. ErrStaleAppointment
	// when the appointment is no longer booked.
	Cancel(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	// Reschedule applies the new start/end/staff and bumps the reschedule
	// count, guarded by a compare-and-swap on the count read earlier.
	Reschedule(ctx context.Context, apt *model.Appointment, expectedCount int) error
}

type ServiceRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Service, error)
	ListActive(ctx context.Context) ([]*model.Service, error)
}

type StaffRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Staff, error)
	ListActive(ctx context.Context) ([]*model.Staff, error)
}

type PromotionRepository interface {
	// ListActiveFor returns promotions switched on, valid at now, whose
	// scope covers the service, most recently created first.
	ListActiveFor(ctx context.Context, svc *model.Service, now time.Time) ([]*model.Promotion, error)
}

type UserRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
}
