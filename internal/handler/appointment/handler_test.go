package appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordankom/sofhair/internal/middleware"
	"github.com/jordankom/sofhair/internal/model"
	"github.com/jordankom/sofhair/pkg/errors"
)

type stubBookingService struct {
	slots        []model.Slot
	appointment  *model.Appointment
	appointments []*model.AppointmentWithService
	err          error

	gotClientID uuid.UUID
	gotID       uuid.UUID
	gotCreate   *model.CreateAppointmentRequest
}

func (s *stubBookingService) GetAvailability(_ context.Context, date, staffID string) ([]model.Slot, error) {
	return s.slots, s.err
}

func (s *stubBookingService) CreateAppointment(_ context.Context, clientID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	s.gotClientID = clientID
	s.gotCreate = req
	return s.appointment, s.err
}

func (s *stubBookingService) ListMyAppointments(_ context.Context, clientID uuid.UUID) ([]*model.AppointmentWithService, error) {
	s.gotClientID = clientID
	return s.appointments, s.err
}

func (s *stubBookingService) ListAppointmentsForDay(_ context.Context, date string) ([]*model.AppointmentWithService, error) {
	return s.appointments, s.err
}

func (s *stubBookingService) CancelAppointment(_ context.Context, id, clientID uuid.UUID) (*model.Appointment, error) {
	s.gotID = id
	s.gotClientID = clientID
	return s.appointment, s.err
}

func (s *stubBookingService) RescheduleAppointment(_ context.Context, id, clientID uuid.UUID, _ *model.RescheduleAppointmentRequest) (*model.Appointment, error) {
	s.gotID = id
	s.gotClientID = clientID
	return s.appointment, s.err
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      int      `json:"code"`
		Message   string   `json:"message"`
		HoursLeft *float64 `json:"hours_left"`
	} `json:"error"`
}

// newTestRouter stands in for the real JWT middleware by injecting the
// identity keys directly into the request context.
func newTestRouter(stub *stubBookingService, clientID uuid.UUID, role model.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if clientID != uuid.Nil {
			c.Set(middleware.ContextClientID, clientID.String())
			c.Set(middleware.ContextRole, string(role))
		}
		c.Next()
	})
	NewHandler(stub).RegisterRoutes(r.Group("/api/v1"), middleware.NewAuthMiddleware("test-secret"))
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestGetAvailabilityEndpoint(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	stub := &stubBookingService{slots: []model.Slot{
		{StartAt: start, Available: true},
		{StartAt: start.Add(30 * time.Minute), Available: false},
	}}
	r := newTestRouter(stub, uuid.New(), model.UserRoleClient)

	w, resp := doRequest(t, r, http.MethodGet, "/api/v1/appointments/availability?date=2026-03-14&staff_id="+uuid.NewString(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)

	var slots []model.Slot
	require.NoError(t, json.Unmarshal(resp.Data, &slots))
	require.Len(t, slots, 2)
	assert.False(t, slots[1].Available)
}

func TestCreateAppointmentEndpoint(t *testing.T) {
	clientID := uuid.New()
	stub := &stubBookingService{appointment: &model.Appointment{
		Base:      model.Base{ID: uuid.New()},
		ClientID:  clientID,
		Status:    model.AppointmentStatusBooked,
		PricePaid: 27,
	}}
	r := newTestRouter(stub, clientID, model.UserRoleClient)

	body := model.CreateAppointmentRequest{
		ServiceID: uuid.NewString(),
		StaffID:   uuid.NewString(),
		StartAt:   "2026-03-14T10:00:00Z",
	}
	w, resp := doRequest(t, r, http.MethodPost, "/api/v1/appointments", body)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, clientID, stub.gotClientID)
	require.NotNil(t, stub.gotCreate)
	assert.Equal(t, body.ServiceID, stub.gotCreate.ServiceID)
}

func TestCreateAppointmentEndpointRejectsBadBody(t *testing.T) {
	stub := &stubBookingService{}
	r := newTestRouter(stub, uuid.New(), model.UserRoleClient)

	w, resp := doRequest(t, r, http.MethodPost, "/api/v1/appointments", map[string]string{"service_id": "not-a-uuid"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)
	assert.Nil(t, stub.gotCreate)
}

func TestCreateAppointmentEndpointRequiresIdentity(t *testing.T) {
	stub := &stubBookingService{}
	r := newTestRouter(stub, uuid.Nil, model.UserRoleClient)

	body := model.CreateAppointmentRequest{
		ServiceID: uuid.NewString(),
		StaffID:   uuid.NewString(),
		StartAt:   "2026-03-14T10:00:00Z",
	}
	w, _ := doRequest(t, r, http.MethodPost, "/api/v1/appointments", body)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", errors.Validation("bad input", nil), http.StatusBadRequest},
		{"not found", errors.NotFound("appointment", nil), http.StatusNotFound},
		{"inactive", errors.Inactive("service"), http.StatusUnprocessableEntity},
		{"forbidden", errors.Forbidden("not yours"), http.StatusForbidden},
		{"conflict", errors.Conflict("slot already booked", nil), http.StatusConflict},
		{"internal", errors.Internal(assert.AnError), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubBookingService{err: tt.err}
			r := newTestRouter(stub, uuid.New(), model.UserRoleClient)

			w, resp := doRequest(t, r, http.MethodGet, "/api/v1/appointments/availability?date=2026-03-14&staff_id="+uuid.NewString(), nil)

			assert.Equal(t, tt.status, w.Code)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.status, resp.Error.Code)
		})
	}
}

func TestCancelEndpointNoticeWindowPayload(t *testing.T) {
	clientID := uuid.New()
	stub := &stubBookingService{err: errors.NoticeWindow("cannot cancel less than 3 hours before the appointment", 2.5)}
	r := newTestRouter(stub, clientID, model.UserRoleClient)

	id := uuid.New()
	w, resp := doRequest(t, r, http.MethodPatch, "/api/v1/appointments/"+id.String()+"/cancel", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, resp.Error)
	require.NotNil(t, resp.Error.HoursLeft)
	assert.InDelta(t, 2.5, *resp.Error.HoursLeft, 0.001)
	assert.Equal(t, id, stub.gotID)
	assert.Equal(t, clientID, stub.gotClientID)
}

func TestCancelEndpointRejectsBadID(t *testing.T) {
	stub := &stubBookingService{}
	r := newTestRouter(stub, uuid.New(), model.UserRoleClient)

	w, _ := doRequest(t, r, http.MethodPatch, "/api/v1/appointments/nope/cancel", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRescheduleEndpoint(t *testing.T) {
	clientID := uuid.New()
	stub := &stubBookingService{appointment: &model.Appointment{
		Base:            model.Base{ID: uuid.New()},
		ClientID:        clientID,
		Status:          model.AppointmentStatusBooked,
		RescheduleCount: 1,
	}}
	r := newTestRouter(stub, clientID, model.UserRoleClient)

	id := uuid.New()
	w, resp := doRequest(t, r, http.MethodPatch, "/api/v1/appointments/"+id.String()+"/reschedule",
		model.RescheduleAppointmentRequest{StartAt: "2026-03-14T14:00:00Z"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, id, stub.gotID)
}

func TestListMyAppointmentsEndpoint(t *testing.T) {
	clientID := uuid.New()
	stub := &stubBookingService{appointments: []*model.AppointmentWithService{
		{
			Appointment: model.Appointment{Base: model.Base{ID: uuid.New()}, ClientID: clientID, Status: model.AppointmentStatusBooked},
			ServiceName: "Coupe homme",
		},
	}}
	r := newTestRouter(stub, clientID, model.UserRoleClient)

	w, resp := doRequest(t, r, http.MethodGet, "/api/v1/appointments/my", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, clientID, stub.gotClientID)
}

func TestDayPlanningRequiresOwner(t *testing.T) {
	stub := &stubBookingService{appointments: []*model.AppointmentWithService{}}

	t.Run("client is refused", func(t *testing.T) {
		r := newTestRouter(stub, uuid.New(), model.UserRoleClient)
		w, _ := doRequest(t, r, http.MethodGet, "/api/v1/appointments?date=2026-03-14", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("owner is allowed", func(t *testing.T) {
		r := newTestRouter(stub, uuid.New(), model.UserRoleOwner)
		w, resp := doRequest(t, r, http.MethodGet, "/api/v1/appointments?date=2026-03-14", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, resp.Success)
	})
}
