package appointment

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jordankom/sofhair/internal/middleware"
	"github.com/jordankom/sofhair/internal/model"
	"github.com/jordankom/sofhair/pkg/errors"
	"github.com/jordankom/sofhair/pkg/httputil"
)

// BookingService is the slice of the booking engine the HTTP layer needs.
type BookingService interface {
	GetAvailability(ctx context.Context, date, staffID string) ([]model.Slot, error)
	CreateAppointment(ctx context.Context, clientID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error)
	ListMyAppointments(ctx context.Context, clientID uuid.UUID) ([]*model.AppointmentWithService, error)
	ListAppointmentsForDay(ctx context.Context, date string) ([]*model.AppointmentWithService, error)
	CancelAppointment(ctx context.Context, id, clientID uuid.UUID) (*model.Appointment, error)
	RescheduleAppointment(ctx context.Context, id, clientID uuid.UUID, req *model.RescheduleAppointmentRequest) (*model.Appointment, error)
}

type Handler struct {
	service BookingService
}

func NewHandler(service BookingService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("/availability", h.GetAvailability)
		appointments.POST("", h.CreateAppointment)
		appointments.GET("/my", h.ListMyAppointments)
		appointments.PATCH("/:id/cancel", h.CancelAppointment)
		appointments.PATCH("/:id/reschedule", h.RescheduleAppointment)
		appointments.GET("", auth.RequireOwner(), h.ListAppointmentsForDay)
	}
}

// GetAvailability handles GET /appointments/availability?date=YYYY-MM-DD&staff_id=...
func (h *Handler) GetAvailability(c *gin.Context) {
	slots, err := h.service.GetAvailability(c.Request.Context(), c.Query("date"), c.Query("staff_id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, slots)
}

// CreateAppointment handles POST /appointments
func (h *Handler) CreateAppointment(c *gin.Context) {
	clientID, err := middleware.ClientID(c)
	if err != nil {
		httputil.RespondWithError(c, errors.Forbidden("not authenticated"))
		return
	}

	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.Validation(err.Error(), err))
		return
	}

	apt, err := h.service.CreateAppointment(c.Request.Context(), clientID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, apt)
}

// ListMyAppointments handles GET /appointments/my
func (h *Handler) ListMyAppointments(c *gin.Context) {
	clientID, err := middleware.ClientID(c)
	if err != nil {
		httputil.RespondWithError(c, errors.Forbidden("not authenticated"))
		return
	}

	appointments, err := h.service.ListMyAppointments(c.Request.Context(), clientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, appointments)
}

// ListAppointmentsForDay handles GET /appointments?date=YYYY-MM-DD (owner)
func (h *Handler) ListAppointmentsForDay(c *gin.Context) {
	appointments, err := h.service.ListAppointmentsForDay(c.Request.Context(), c.Query("date"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, appointments)
}

// CancelAppointment handles PATCH /appointments/:id/cancel
func (h *Handler) CancelAppointment(c *gin.Context) {
	clientID, err := middleware.ClientID(c)
	if err != nil {
		httputil.RespondWithError(c, errors.Forbidden("not authenticated"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.Validation("invalid appointment ID", err))
		return
	}

	apt, err := h.service.CancelAppointment(c.Request.Context(), id, clientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, apt)
}

// RescheduleAppointment handles PATCH /appointments/:id/reschedule
func (h *Handler) RescheduleAppointment(c *gin.Context) {
	clientID, err := middleware.ClientID(c)
	if err != nil {
		httputil.RespondWithError(c, errors.Forbidden("not authenticated"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.Validation("invalid appointment ID", err))
		return
	}

	var req model.RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, errors.Validation(err.Error(), err))
		return
	}

	apt, err := h.service.RescheduleAppointment(c.Request.Context(), id, clientID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, apt)
}
