package email

import (
	"fmt"
	"time"

	gomail "gopkg.in/gomail.v2"
)

// Service sends transactional booking e-mails.
type Service interface {
	SendBookingConfirmation(to, name, serviceName, staffName string, startAt time.Time, price float64) error
	SendCancellationNotice(to, name string, startAt time.Time) error
	SendRescheduleNotice(to, name, serviceName, staffName string, startAt time.Time) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg Config) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}

func (s *smtpService) SendBookingConfirmation(to, name, serviceName, staffName string, startAt time.Time, price float64) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour appointment for %s%s on %s is confirmed.\nPrice: %.2f EUR.\n\nSee you soon!",
		name, serviceName, withStaff(staffName), startAt.Format("Monday 2 January at 15:04"), price,
	)
	return s.send(to, "Your appointment is confirmed", body)
}

func (s *smtpService) SendCancellationNotice(to, name string, startAt time.Time) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour appointment on %s has been cancelled.\n\nBook a new slot anytime.",
		name, startAt.Format("Monday 2 January at 15:04"),
	)
	return s.send(to, "Your appointment was cancelled", body)
}

func (s *smtpService) SendRescheduleNotice(to, name, serviceName, staffName string, startAt time.Time) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour appointment for %s%s has been moved to %s.\n\nSee you soon!",
		name, serviceName, withStaff(staffName), startAt.Format("Monday 2 January at 15:04"),
	)
	return s.send(to, "Your appointment was rescheduled", body)
}

func withStaff(staffName string) string {
	if staffName == "" {
		return ""
	}
	return " with " + staffName
}
