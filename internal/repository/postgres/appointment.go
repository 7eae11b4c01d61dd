package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jordankom/sofhair/internal/model"
	"github.com/jordankom/sofhair/internal/repository"
)

// The no-double-booking invariant lives in the schema: a partial unique
// index on (staff_id, start_at) WHERE status = 'booked'. Pre-checks in the
// service layer are advisory only; the insert/update here is the authority.

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) (err error) {
	done := r.track("appointment_create")
	defer func() { done(err) }()

	query := `
		INSERT INTO appointments (
			id, client_id, service_id, staff_id,
			start_at, end_at, status, reschedule_count,
			price_paid, promo_name, promo_kind, promo_value,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	apt.ID = uuid.New()
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = apt.CreatedAt

	_, err = r.db.ExecContext(ctx, query,
		apt.ID,
		apt.ClientID,
		apt.ServiceID,
		apt.StaffID,
		apt.StartAt,
		apt.EndAt,
		apt.Status,
		apt.RescheduleCount,
		apt.PricePaid,
		apt.PromoName,
		apt.PromoKind,
		apt.PromoValue,
		apt.CreatedAt,
		apt.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateSlot
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (_ *model.Appointment, err error) {
	done := r.track("appointment_get")
	defer func() { done(err) }()

	query := `
		SELECT id, client_id, service_id, staff_id,
			   start_at, end_at, status, reschedule_count,
			   price_paid, promo_name, promo_kind, promo_value,
			   created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var apt model.Appointment
	err = r.db.GetContext(ctx, &apt, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) ListBookedForStaff(ctx context.Context, staffID uuid.UUID, from, to time.Time) (_ []*model.Appointment, err error) {
	done := r.track("appointment_list_staff")
	defer func() { done(err) }()

	query := `
		SELECT id, client_id, service_id, staff_id,
			   start_at, end_at, status, reschedule_count,
			   price_paid, promo_name, promo_kind, promo_value,
			   created_at, updated_at
		FROM appointments
		WHERE staff_id = $1
		AND status = 'booked'
		AND start_at >= $2
		AND start_at <= $3
		ORDER BY start_at ASC
	`
	var appointments []*model.Appointment
	err = r.db.SelectContext(ctx, &appointments, query, staffID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListForClient(ctx context.Context, clientID uuid.UUID) (_ []*model.AppointmentWithService, err error) {
	done := r.track("appointment_list_client")
	defer func() { done(err) }()

	query := `
		SELECT a.id, a.client_id, a.service_id, a.staff_id,
			   a.start_at, a.end_at, a.status, a.reschedule_count,
			   a.price_paid, a.promo_name, a.promo_kind, a.promo_value,
			   a.created_at, a.updated_at,
			   s.name AS service_name,
			   s.category AS service_category,
			   s.price AS service_price,
			   s.duration_minutes AS service_duration
		FROM appointments a
		JOIN services s ON s.id = a.service_id
		WHERE a.client_id = $1
		ORDER BY a.start_at ASC
	`
	var appointments []*model.AppointmentWithService
	err = r.db.SelectContext(ctx, &appointments, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list client appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListBookedForDay(ctx context.Context, from, to time.Time) (_ []*model.AppointmentWithService, err error) {
	done := r.track("appointment_list_day")
	defer func() { done(err) }()

	query := `
		SELECT a.id, a.client_id, a.service_id, a.staff_id,
			   a.start_at, a.end_at, a.status, a.reschedule_count,
			   a.price_paid, a.promo_name, a.promo_kind, a.promo_value,
			   a.created_at, a.updated_at,
			   s.name AS service_name,
			   s.category AS service_category,
			   s.price AS service_price,
			   s.duration_minutes AS service_duration
		FROM appointments a
		JOIN services s ON s.id = a.service_id
		WHERE a.status = 'booked'
		AND a.start_at >= $1
		AND a.start_at <= $2
		ORDER BY a.start_at ASC
	`
	var appointments []*model.AppointmentWithService
	err = r.db.SelectContext(ctx, &appointments, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments for day: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) Cancel(ctx context.Context, id uuid.UUID) (_ *model.Appointment, err error) {
	done := r.track("appointment_cancel")
	defer func() { done(err) }()

	query := `
		UPDATE appointments
		SET status = 'cancelled', updated_at = $2
		WHERE id = $1 AND status = 'booked'
		RETURNING id, client_id, service_id, staff_id,
				  start_at, end_at, status, reschedule_count,
				  price_paid, promo_name, promo_kind, promo_value,
				  created_at, updated_at
	`
	var apt model.Appointment
	err = r.db.GetContext(ctx, &apt, query, id, time.Now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrStaleAppointment
		}
		return nil, fmt.Errorf("failed to cancel appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) Reschedule(ctx context.Context, apt *model.Appointment, expectedCount int) (err error) {
	done := r.track("appointment_reschedule")
	defer func() { done(err) }()

	query := `
		UPDATE appointments
		SET start_at = $1, end_at = $2, staff_id = $3,
			reschedule_count = reschedule_count + 1, updated_at = $4
		WHERE id = $5 AND status = 'booked' AND reschedule_count = $6
	`
	apt.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		apt.StartAt,
		apt.EndAt,
		apt.StaffID,
		apt.UpdatedAt,
		apt.ID,
		expectedCount,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateSlot
		}
		return fmt.Errorf("failed to reschedule appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrStaleAppointment
	}

	apt.RescheduleCount = expectedCount + 1
	return nil
}
