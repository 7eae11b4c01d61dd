package booking

import (
	"context"
	"time"

	"github.com/jordankom/sofhair/internal/model"
)

// Broker channels for appointment lifecycle events.
const (
	EventAppointmentBooked      = "appointments.booked"
	EventAppointmentCancelled   = "appointments.cancelled"
	EventAppointmentRescheduled = "appointments.rescheduled"
)

// AppointmentEvent is the payload published on every lifecycle transition.
// Consumers (the notification worker) get everything needed to address the
// client without a database round-trip.
type AppointmentEvent struct {
	Type        string             `json:"type"`
	Appointment *model.Appointment `json:"appointment"`
	ClientEmail string             `json:"client_email,omitempty"`
	ClientName  string             `json:"client_name,omitempty"`
	ServiceName string             `json:"service_name,omitempty"`
	StaffName   string             `json:"staff_name,omitempty"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

// publishEvent pushes a lifecycle event to the broker, best effort. A
// booking must never fail because notifications are down.
func (s *Service) publishEvent(ctx context.Context, channel string, apt *model.Appointment, svc *model.Service) {
	if s.broker == nil {
		return
	}

	evt := AppointmentEvent{
		Type:        channel,
		Appointment: apt,
		OccurredAt:  s.clock.Now(),
	}
	if svc != nil {
		evt.ServiceName = svc.Name
	}
	if st, err := s.staff.Get(ctx, apt.StaffID); err == nil {
		evt.StaffName = st.FullName()
	}
	if user, err := s.users.Get(ctx, apt.ClientID); err == nil {
		evt.ClientEmail = user.Email
		evt.ClientName = user.FullName()
	} else {
		s.logger.Warn().Err(err).Stringer("client_id", apt.ClientID).Msg("could not resolve client for event")
	}

	if err := s.broker.Publish(ctx, channel, evt); err != nil {
		if s.metrics != nil {
			s.metrics.EventsFailed.WithLabelValues(channel).Inc()
		}
		s.logger.Error().Err(err).Str("channel", channel).Stringer("appointment_id", apt.ID).Msg("failed to publish event")
		return
	}
	if s.metrics != nil {
		s.metrics.EventsPublished.WithLabelValues(channel).Inc()
	}
}
