package postgres

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jordankom/sofhair/internal/repository"
	"github.com/jordankom/sofhair/pkg/metrics"
)

// instrumented records operation counts and latency for a repository. A nil
// metrics handle turns recording off, which keeps test wiring bare.
type instrumented struct {
	metrics *metrics.Metrics
}

// track starts timing one storage operation; the returned func records the
// outcome. Call it with the operation's error before returning.
func (i instrumented) track(op string) func(error) {
	if i.metrics == nil {
		return func(error) {}
	}
	start := time.Now()
	return func(err error) {
		i.metrics.DatabaseLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
		status := "ok"
		if err != nil {
			status = "error"
		}
		i.metrics.DatabaseOperations.WithLabelValues(op, status).Inc()
	}
}

type appointmentRepository struct {
	instrumented
	db *sqlx.DB
}

type serviceRepository struct {
	instrumented
	db *sqlx.DB
}

type staffRepository struct {
	instrumented
	db *sqlx.DB
}

type promotionRepository struct {
	instrumented
	db *sqlx.DB
}

type userRepository struct {
	instrumented
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB, m *metrics.Metrics) repository.AppointmentRepository {
	return &appointmentRepository{instrumented{m}, db}
}

func NewServiceRepository(db *sqlx.DB, m *metrics.Metrics) repository.ServiceRepository {
	return &serviceRepository{instrumented{m}, db}
}

func NewStaffRepository(db *sqlx.DB, m *metrics.Metrics) repository.StaffRepository {
	return &staffRepository{instrumented{m}, db}
}

func NewPromotionRepository(db *sqlx.DB, m *metrics.Metrics) repository.PromotionRepository {
	return &promotionRepository{instrumented{m}, db}
}

func NewUserRepository(db *sqlx.DB, m *metrics.Metrics) repository.UserRepository {
	return &userRepository{instrumented{m}, db}
}

// isUniqueViolation reports whether err is a postgres unique-index violation.
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
