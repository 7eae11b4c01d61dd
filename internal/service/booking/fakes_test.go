package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jordankom/sofhair/internal/model"
	"github.com/jordankom/sofhair/internal/repository"
)

// In-memory repositories mirroring the storage contracts, including the
// unique-slot enforcement the postgres layer gets from its partial index.

type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*model.Appointment
	services     map[uuid.UUID]*model.Service
}

func newFakeAppointmentRepo(services ...*model.Service) *fakeAppointmentRepo {
	repo := &fakeAppointmentRepo{
		appointments: make(map[uuid.UUID]*model.Appointment),
		services:     make(map[uuid.UUID]*model.Service),
	}
	for _, svc := range services {
		repo.services[svc.ID] = svc
	}
	return repo
}

func (r *fakeAppointmentRepo) slotTaken(staffID uuid.UUID, startAt time.Time, excludeID uuid.UUID) bool {
	for _, apt := range r.appointments {
		if apt.ID != excludeID &&
			apt.Status == model.AppointmentStatusBooked &&
			apt.StaffID == staffID &&
			apt.StartAt.Equal(startAt) {
			return true
		}
	}
	return false
}

func (r *fakeAppointmentRepo) Create(_ context.Context, apt *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.slotTaken(apt.StaffID, apt.StartAt, uuid.Nil) {
		return repository.ErrDuplicateSlot
	}

	apt.ID = uuid.New()
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = apt.CreatedAt
	clone := *apt
	r.appointments[apt.ID] = &clone
	return nil
}

func (r *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	apt, ok := r.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *apt
	return &clone, nil
}

func (r *fakeAppointmentRepo) ListBookedForStaff(_ context.Context, staffID uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*model.Appointment
	for _, apt := range r.appointments {
		if apt.StaffID == staffID &&
			apt.Status == model.AppointmentStatusBooked &&
			!apt.StartAt.Before(from) && !apt.StartAt.After(to) {
			clone := *apt
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartAt.Before(result[j].StartAt) })
	return result, nil
}

func (r *fakeAppointmentRepo) denormalize(apt *model.Appointment) *model.AppointmentWithService {
	out := &model.AppointmentWithService{Appointment: *apt}
	if svc, ok := r.services[apt.ServiceID]; ok {
		out.ServiceName = svc.Name
		out.ServiceCategory = svc.Category
		out.ServicePrice = svc.Price
		out.ServiceDuration = svc.DurationMinutes
	}
	return out
}

func (r *fakeAppointmentRepo) ListForClient(_ context.Context, clientID uuid.UUID) ([]*model.AppointmentWithService, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*model.AppointmentWithService
	for _, apt := range r.appointments {
		if apt.ClientID == clientID {
			result = append(result, r.denormalize(apt))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartAt.Before(result[j].StartAt) })
	return result, nil
}

func (r *fakeAppointmentRepo) ListBookedForDay(_ context.Context, from, to time.Time) ([]*model.AppointmentWithService, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*model.AppointmentWithService
	for _, apt := range r.appointments {
		if apt.Status == model.AppointmentStatusBooked &&
			!apt.StartAt.Before(from) && !apt.StartAt.After(to) {
			result = append(result, r.denormalize(apt))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartAt.Before(result[j].StartAt) })
	return result, nil
}

func (r *fakeAppointmentRepo) Cancel(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	apt, ok := r.appointments[id]
	if !ok || apt.Status != model.AppointmentStatusBooked {
		return nil, repository.ErrStaleAppointment
	}
	apt.Status = model.AppointmentStatusCancelled
	apt.UpdatedAt = time.Now()
	clone := *apt
	return &clone, nil
}

func (r *fakeAppointmentRepo) Reschedule(_ context.Context, apt *model.Appointment, expectedCount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.appointments[apt.ID]
	if !ok || stored.Status != model.AppointmentStatusBooked || stored.RescheduleCount != expectedCount {
		return repository.ErrStaleAppointment
	}
	if r.slotTaken(apt.StaffID, apt.StartAt, apt.ID) {
		return repository.ErrDuplicateSlot
	}

	stored.StartAt = apt.StartAt
	stored.EndAt = apt.EndAt
	stored.StaffID = apt.StaffID
	stored.RescheduleCount = expectedCount + 1
	stored.UpdatedAt = time.Now()
	apt.RescheduleCount = stored.RescheduleCount
	return nil
}

type fakeServiceRepo struct {
	services map[uuid.UUID]*model.Service
}

func newFakeServiceRepo(services ...*model.Service) *fakeServiceRepo {
	repo := &fakeServiceRepo{services: make(map[uuid.UUID]*model.Service)}
	for _, svc := range services {
		repo.services[svc.ID] = svc
	}
	return repo
}

func (r *fakeServiceRepo) Get(_ context.Context, id uuid.UUID) (*model.Service, error) {
	svc, ok := r.services[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return svc, nil
}

func (r *fakeServiceRepo) ListActive(_ context.Context) ([]*model.Service, error) {
	var result []*model.Service
	for _, svc := range r.services {
		if svc.Active {
			result = append(result, svc)
		}
	}
	return result, nil
}

type fakeStaffRepo struct {
	staff map[uuid.UUID]*model.Staff
}

func newFakeStaffRepo(staff ...*model.Staff) *fakeStaffRepo {
	repo := &fakeStaffRepo{staff: make(map[uuid.UUID]*model.Staff)}
	for _, st := range staff {
		repo.staff[st.ID] = st
	}
	return repo
}

func (r *fakeStaffRepo) Get(_ context.Context, id uuid.UUID) (*model.Staff, error) {
	st, ok := r.staff[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return st, nil
}

func (r *fakeStaffRepo) ListActive(_ context.Context) ([]*model.Staff, error) {
	var result []*model.Staff
	for _, st := range r.staff {
		if st.Active {
			result = append(result, st)
		}
	}
	return result, nil
}

type fakePromotionRepo struct {
	promotions []*model.Promotion
}

func (r *fakePromotionRepo) ListActiveFor(_ context.Context, svc *model.Service, now time.Time) ([]*model.Promotion, error) {
	var result []*model.Promotion
	for _, p := range r.promotions {
		if p.ActiveAt(now) && p.AppliesTo(svc) {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

type fakeBroker struct {
	mu        sync.Mutex
	published []publishedEvent
}

type publishedEvent struct {
	channel string
	event   AppointmentEvent
}

func (b *fakeBroker) Publish(_ context.Context, channel string, message interface{}) error {
	evt, _ := message.(AppointmentEvent)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, publishedEvent{channel: channel, event: evt})
	return nil
}

func (b *fakeBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, nil
}

func (b *fakeBroker) Close() error { return nil }

func (b *fakeBroker) events(channel string) []AppointmentEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var result []AppointmentEvent
	for _, p := range b.published {
		if p.channel == channel {
			result = append(result, p.event)
		}
	}
	return result
}

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (r *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	if r.users == nil {
		return nil, repository.ErrNotFound
	}
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}
