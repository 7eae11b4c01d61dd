package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusBooked    AppointmentStatus = "booked"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Appointment is one client's reservation of one staff member for one
// service. Price and promotion are snapshotted at booking time and never
// recomputed afterwards.
type Appointment struct {
	Base
	ClientID        uuid.UUID         `db:"client_id" json:"client_id"`
	ServiceID       uuid.UUID         `db:"service_id" json:"service_id"`
	StaffID         uuid.UUID         `db:"staff_id" json:"staff_id"`
	StartAt         time.Time         `db:"start_at" json:"start_at"`
	EndAt           time.Time         `db:"end_at" json:"end_at"`
	Status          AppointmentStatus `db:"status" json:"status"`
	RescheduleCount int               `db:"reschedule_count" json:"reschedule_count"`
	PricePaid       float64           `db:"price_paid" json:"price_paid"`
	PromoName       *string           `db:"promo_name" json:"promo_name,omitempty"`
	PromoKind       *string           `db:"promo_kind" json:"promo_kind,omitempty"`
	PromoValue      *float64          `db:"promo_value" json:"promo_value,omitempty"`
}

// AppliedPromotion returns the promotion snapshot, or nil when the
// appointment was booked at the base price.
func (a *Appointment) AppliedPromotion() *PromotionSnapshot {
	if a.PromoName == nil || a.PromoKind == nil || a.PromoValue == nil {
		return nil
	}
	return &PromotionSnapshot{
		Name:  *a.PromoName,
		Kind:  PromotionKind(*a.PromoKind),
		Value: *a.PromoValue,
	}
}

// SetPromotion stores the snapshot fields from a resolved promotion.
func (a *Appointment) SetPromotion(snap *PromotionSnapshot) {
	if snap == nil {
		a.PromoName, a.PromoKind, a.PromoValue = nil, nil, nil
		return
	}
	name, kind, value := snap.Name, string(snap.Kind), snap.Value
	a.PromoName, a.PromoKind, a.PromoValue = &name, &kind, &value
}

// PromotionSnapshot is the discount captured on the appointment at booking
// time, kept even if the promotion is later edited or deleted.
type PromotionSnapshot struct {
	Name  string        `json:"name"`
	Kind  PromotionKind `json:"kind"`
	Value float64       `json:"value"`
}

// AppointmentWithService is an appointment with the referenced service's
// display fields denormalized for client-facing listings.
type AppointmentWithService struct {
	Appointment
	ServiceName     string  `db:"service_name" json:"service_name"`
	ServiceCategory string  `db:"service_category" json:"service_category"`
	ServicePrice    float64 `db:"service_price" json:"service_price"`
	ServiceDuration int     `db:"service_duration" json:"service_duration_minutes"`
}

// Slot is a candidate appointment start-time with its availability flag.
type Slot struct {
	StartAt   time.Time `json:"start_at"`
	Available bool      `json:"available"`
}

type CreateAppointmentRequest struct {
	ServiceID string `json:"service_id" binding:"required,uuid"`
	StaffID   string `json:"staff_id" binding:"required,uuid"`
	StartAt   string `json:"start_at" binding:"required,rfc3339"`
}

type RescheduleAppointmentRequest struct {
	StartAt string `json:"start_at" binding:"required,rfc3339"`
	StaffID string `json:"staff_id" binding:"omitempty,uuid"`
}
