package booking

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jordankom/sofhair/internal/model"
	"github.com/jordankom/sofhair/internal/repository"
	"github.com/jordankom/sofhair/internal/service/promotion"
	"github.com/jordankom/sofhair/pkg/clock"
	"github.com/jordankom/sofhair/pkg/errors"
	"github.com/jordankom/sofhair/pkg/messaging"
	"github.com/jordankom/sofhair/pkg/metrics"
)

// Cancellation and reschedule require at least this much notice before the
// appointment's current start, measured as a fractional hour difference.
const minNoticeHours = 3.0

// Service owns the appointment lifecycle: availability, conflict-free
// creation, cancellation with the notice-window rule, and reschedule with
// re-validation. The no-double-booking guarantee rests on the appointment
// store's unique index, not on the advisory pre-checks here.
type Service struct {
	appointments repository.AppointmentRepository
	services     repository.ServiceRepository
	staff        repository.StaffRepository
	promotions   repository.PromotionRepository
	users        repository.UserRepository
	clock        clock.Clock
	loc          *time.Location
	broker       messaging.Broker
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

// Option configures optional collaborators.
type Option func(*Service)

// WithBroker enables lifecycle event publishing.
func WithBroker(b messaging.Broker) Option {
	return func(s *Service) { s.broker = b }
}

// WithMetrics enables booking counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(
	appointments repository.AppointmentRepository,
	services repository.ServiceRepository,
	staff repository.StaffRepository,
	promotions repository.PromotionRepository,
	users repository.UserRepository,
	clk clock.Clock,
	loc *time.Location,
	logger zerolog.Logger,
	opts ...Option,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	s := &Service{
		appointments: appointments,
		services:     services,
		staff:        staff,
		promotions:   promotions,
		users:        users,
		clock:        clk,
		loc:          loc,
		logger:       logger.With().Str("component", "booking").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateAppointment reserves a slot for the client. Price and promotion are
// snapshotted at this instant and never recomputed.
func (s *Service) CreateAppointment(ctx context.Context, clientID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return nil, errors.Validation("invalid service_id", err)
	}
	staffID, err := uuid.Parse(req.StaffID)
	if err != nil {
		return nil, errors.Validation("invalid staff_id", err)
	}

	svc, err := s.services.Get(ctx, serviceID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("service", err)
		}
		return nil, errors.Internal(err)
	}
	if !svc.Active {
		return nil, errors.Inactive("service")
	}

	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return nil, errors.Validation("invalid start_at, expected RFC3339 timestamp", err)
	}

	if err := s.checkStaffActive(ctx, staffID); err != nil {
		return nil, err
	}

	// Advisory pre-check so most conflicts fail before the insert; two
	// racing requests are still arbitrated by the unique index.
	if err := s.checkSlotFree(ctx, staffID, startAt, uuid.Nil); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	promos, err := s.promotions.ListActiveFor(ctx, svc, now)
	if err != nil {
		return nil, errors.Internal(err)
	}
	resolved := promotion.Resolve(svc, promos, now)

	apt := &model.Appointment{
		ClientID:  clientID,
		ServiceID: serviceID,
		StaffID:   staffID,
		StartAt:   startAt,
		EndAt:     startAt.Add(time.Duration(svc.DurationMinutes) * time.Minute),
		Status:    model.AppointmentStatusBooked,
		PricePaid: resolved.FinalPrice,
	}
	apt.SetPromotion(resolved.Snapshot())

	if err := s.appointments.Create(ctx, apt); err != nil {
		if stderrors.Is(err, repository.ErrDuplicateSlot) {
			s.countConflict()
			return nil, errors.Conflict("slot already booked", err)
		}
		return nil, errors.Internal(err)
	}

	if s.metrics != nil {
		s.metrics.AppointmentsBooked.Inc()
		if resolved.Promotion != nil {
			s.metrics.PromotionsApplied.WithLabelValues(string(resolved.Promotion.Kind)).Inc()
		}
	}
	s.publishEvent(ctx, EventAppointmentBooked, apt, svc)

	return apt, nil
}

// ListMyAppointments returns the client's appointments, booked and
// cancelled, with service display fields denormalized.
func (s *Service) ListMyAppointments(ctx context.Context, clientID uuid.UUID) ([]*model.AppointmentWithService, error) {
	appointments, err := s.appointments.ListForClient(ctx, clientID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return appointments, nil
}

// ListAppointmentsForDay returns the salon's booked appointments for one
// calendar day, chronological, for the owner's planning view.
func (s *Service) ListAppointmentsForDay(ctx context.Context, date string) ([]*model.AppointmentWithService, error) {
	day, err := time.ParseInLocation(dateLayout, date, s.loc)
	if err != nil {
		return nil, errors.Validation("invalid date, expected YYYY-MM-DD", err)
	}
	appointments, err := s.appointments.ListBookedForDay(ctx, day, endOfDay(day))
	if err != nil {
		return nil, errors.Internal(err)
	}
	return appointments, nil
}

// CancelAppointment transitions the client's own appointment to cancelled,
// irreversibly. Rejected inside the 3-hour notice window.
func (s *Service) CancelAppointment(ctx context.Context, id, clientID uuid.UUID) (*model.Appointment, error) {
	apt, err := s.getOwned(ctx, id, clientID)
	if err != nil {
		return nil, err
	}

	if err := s.checkNoticeWindow(apt, "cancel"); err != nil {
		return nil, err
	}

	cancelled, err := s.appointments.Cancel(ctx, apt.ID)
	if err != nil {
		if stderrors.Is(err, repository.ErrStaleAppointment) {
			return nil, errors.Conflict("appointment is already cancelled", err)
		}
		return nil, errors.Internal(err)
	}

	if s.metrics != nil {
		s.metrics.AppointmentsCancelled.Inc()
	}
	s.publishEvent(ctx, EventAppointmentCancelled, cancelled, nil)

	return cancelled, nil
}

// RescheduleAppointment moves a booked appointment to a new start and/or
// staff member, re-validating every booking invariant. The price paid and
// the promotion snapshot are deliberately left untouched so pricing stays
// predictable for the client.
func (s *Service) RescheduleAppointment(ctx context.Context, id, clientID uuid.UUID, req *model.RescheduleAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.getOwned(ctx, id, clientID)
	if err != nil {
		return nil, err
	}

	// The notice window applies to the appointment as it stands: how close
	// to the existing start one may still modify it.
	if err := s.checkNoticeWindow(apt, "reschedule"); err != nil {
		return nil, err
	}

	newStart, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return nil, errors.Validation("invalid start_at, expected RFC3339 timestamp", err)
	}

	newStaff := apt.StaffID
	if req.StaffID != "" {
		newStaff, err = uuid.Parse(req.StaffID)
		if err != nil {
			return nil, errors.Validation("invalid staff_id", err)
		}
	}

	if newStart.Equal(apt.StartAt) && newStaff == apt.StaffID {
		return nil, errors.Validation("new slot is identical to the current one", nil)
	}

	svc, err := s.services.Get(ctx, apt.ServiceID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("service", err)
		}
		return nil, errors.Internal(err)
	}
	if !svc.Active {
		return nil, errors.Inactive("service")
	}

	if newStaff != apt.StaffID {
		if err := s.checkStaffActive(ctx, newStaff); err != nil {
			return nil, err
		}
	}

	if err := s.checkSlotFree(ctx, newStaff, newStart, apt.ID); err != nil {
		return nil, err
	}

	expected := apt.RescheduleCount
	apt.StaffID = newStaff
	apt.StartAt = newStart
	apt.EndAt = newStart.Add(time.Duration(svc.DurationMinutes) * time.Minute)

	if err := s.appointments.Reschedule(ctx, apt, expected); err != nil {
		switch {
		case stderrors.Is(err, repository.ErrDuplicateSlot):
			s.countConflict()
			return nil, errors.Conflict("slot already booked", err)
		case stderrors.Is(err, repository.ErrStaleAppointment):
			return nil, errors.Conflict("appointment was modified concurrently, please retry", err)
		default:
			return nil, errors.Internal(err)
		}
	}

	if s.metrics != nil {
		s.metrics.AppointmentsRescheduled.Inc()
	}
	s.publishEvent(ctx, EventAppointmentRescheduled, apt, svc)

	return apt, nil
}

func (s *Service) getOwned(ctx context.Context, id, clientID uuid.UUID) (*model.Appointment, error) {
	apt, err := s.appointments.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFound("appointment", err)
		}
		return nil, errors.Internal(err)
	}
	if apt.ClientID != clientID {
		return nil, errors.Forbidden("appointment belongs to another client")
	}
	if apt.Status == model.AppointmentStatusCancelled {
		return nil, errors.Conflict("appointment is already cancelled", nil)
	}
	return apt, nil
}

func (s *Service) checkNoticeWindow(apt *model.Appointment, action string) error {
	hoursLeft := apt.StartAt.Sub(s.clock.Now()).Hours()
	if hoursLeft < minNoticeHours {
		if s.metrics != nil {
			s.metrics.NoticeWindowRejections.Inc()
		}
		return errors.NoticeWindow("cannot "+action+" less than 3 hours before the appointment", hoursLeft)
	}
	return nil
}

func (s *Service) checkStaffActive(ctx context.Context, staffID uuid.UUID) error {
	st, err := s.staff.Get(ctx, staffID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NotFound("staff member", err)
		}
		return errors.Internal(err)
	}
	if !st.Active {
		return errors.Inactive("staff member")
	}
	return nil
}

func (s *Service) checkSlotFree(ctx context.Context, staffID uuid.UUID, startAt time.Time, excludeID uuid.UUID) error {
	booked, err := s.appointments.ListBookedForStaff(ctx, staffID, startAt, startAt)
	if err != nil {
		return errors.Internal(err)
	}
	for _, other := range booked {
		if other.ID != excludeID && other.StartAt.Equal(startAt) {
			s.countConflict()
			return errors.Conflict("slot already booked", nil)
		}
	}
	return nil
}

func (s *Service) countConflict() {
	if s.metrics != nil {
		s.metrics.BookingConflicts.Inc()
	}
}
