package notifier

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/jordankom/sofhair/internal/email"
	"github.com/jordankom/sofhair/internal/service/booking"
	"github.com/jordankom/sofhair/pkg/messaging"
)

// Notifier consumes appointment lifecycle events and sends the matching
// e-mails. Runs in the worker process, decoupled from request handling.
type Notifier struct {
	broker messaging.Broker
	email  email.Service
	logger zerolog.Logger
}

func New(broker messaging.Broker, emailSvc email.Service, logger zerolog.Logger) *Notifier {
	return &Notifier{
		broker: broker,
		email:  emailSvc,
		logger: logger.With().Str("component", "notifier").Logger(),
	}
}

// Run subscribes to all lifecycle channels and dispatches until ctx is done.
func (n *Notifier) Run(ctx context.Context) error {
	channels := []string{
		booking.EventAppointmentBooked,
		booking.EventAppointmentCancelled,
		booking.EventAppointmentRescheduled,
	}

	for _, channel := range channels {
		msgs, err := n.broker.Subscribe(ctx, channel)
		if err != nil {
			return err
		}
		go n.consume(ctx, channel, msgs)
	}

	<-ctx.Done()
	return ctx.Err()
}

func (n *Notifier) consume(ctx context.Context, channel string, msgs <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-msgs:
			if !ok {
				return
			}
			n.handle(channel, payload)
		}
	}
}

func (n *Notifier) handle(channel string, payload []byte) {
	var evt booking.AppointmentEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		n.logger.Error().Err(err).Str("channel", channel).Msg("malformed event payload")
		return
	}
	if evt.ClientEmail == "" || evt.Appointment == nil {
		n.logger.Warn().Str("channel", channel).Msg("event has no addressable client, skipping")
		return
	}

	var err error
	switch channel {
	case booking.EventAppointmentBooked:
		err = n.email.SendBookingConfirmation(evt.ClientEmail, evt.ClientName, evt.ServiceName, evt.StaffName, evt.Appointment.StartAt, evt.Appointment.PricePaid)
	case booking.EventAppointmentCancelled:
		err = n.email.SendCancellationNotice(evt.ClientEmail, evt.ClientName, evt.Appointment.StartAt)
	case booking.EventAppointmentRescheduled:
		err = n.email.SendRescheduleNotice(evt.ClientEmail, evt.ClientName, evt.ServiceName, evt.StaffName, evt.Appointment.StartAt)
	}
	if err != nil {
		n.logger.Error().Err(err).Str("channel", channel).Str("to", evt.ClientEmail).Msg("failed to send notification")
	}
}
