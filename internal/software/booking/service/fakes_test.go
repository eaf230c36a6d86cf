package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"kids-carpool/internal/domain/carpool"
	"kids-carpool/internal/domain/directory"
	"kids-carpool/internal/domain/request"
	"kids-carpool/internal/domain/ride"
)

// fakeUoW runs the function directly; the mutex-guarded fakes below stand in
// for transactional isolation.
type fakeUoW struct{}

func (fakeUoW) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopPublisher struct{}

func (nopPublisher) Publish(exchange, routingKey string, body []byte) error { return nil }

// --- rides ---

type fakeRideRepo struct {
	mu    sync.Mutex
	rides map[string]*ride.Ride
	seq   int
}

func newFakeRideRepo() *fakeRideRepo {
	return &fakeRideRepo{rides: map[string]*ride.Ride{}}
}

func cloneRide(r *ride.Ride) *ride.Ride {
	c := *r
	return &c
}

func (f *fakeRideRepo) Create(ctx context.Context, r *ride.Ride) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	r.ID = fmt.Sprintf("ride-%d", f.seq)
	f.rides[r.ID] = cloneRide(r)
	return nil
}

func (f *fakeRideRepo) GetByID(ctx context.Context, id string) (*ride.Ride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rides[id]
	if !ok {
		return nil, fmt.Errorf("%w: ride %s", carpool.ErrNotFound, id)
	}
	return cloneRide(r), nil
}

func (f *fakeRideRepo) ListByDriver(ctx context.Context, driverID string) ([]*ride.Ride, error) {
	return f.listWhere(func(r *ride.Ride) bool { return r.DriverID == driverID }), nil
}

func (f *fakeRideRepo) ListBySchool(ctx context.Context, schoolID string) ([]*ride.Ride, error) {
	return f.listWhere(func(r *ride.Ride) bool { return r.SchoolID == schoolID }), nil
}

func (f *fakeRideRepo) ListByStatus(ctx context.Context, status ride.Status) ([]*ride.Ride, error) {
	return f.listWhere(func(r *ride.Ride) bool { return r.Status == status }), nil
}

func (f *fakeRideRepo) listWhere(keep func(*ride.Ride) bool) []*ride.Ride {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*ride.Ride
	for _, r := range f.rides {
		if keep(r) {
			out = append(out, cloneRide(r))
		}
	}
	return out
}

func (f *fakeRideRepo) UpdateStatus(ctx context.Context, id string, status ride.Status, ts time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rides[id]
	if !ok {
		return fmt.Errorf("%w: ride %s", carpool.ErrNotFound, id)
	}
	r.Status = status
	r.UpdatedAt = ts
	return nil
}

// TryReserveSeat mirrors the conditional UPDATE: check and decrement under
// one lock so concurrent callers cannot both win the last seat.
func (f *fakeRideRepo) TryReserveSeat(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rides[id]
	if !ok {
		return false, fmt.Errorf("%w: ride %s", carpool.ErrNotFound, id)
	}
	if r.Status != ride.StatusActive || r.AvailableSeats <= 0 {
		return false, nil
	}
	r.AvailableSeats--
	return true, nil
}

func (f *fakeRideRepo) ReleaseSeat(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rides[id]
	if !ok {
		return false, fmt.Errorf("%w: ride %s", carpool.ErrNotFound, id)
	}
	if r.AvailableSeats >= r.TotalSeats {
		return false, nil
	}
	r.AvailableSeats++
	return true, nil
}

// --- requests ---

type fakeRequestRepo struct {
	mu       sync.Mutex
	requests map[string]*request.Request
	seq      int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: map[string]*request.Request{}}
}

func cloneRequest(req *request.Request) *request.Request {
	c := *req
	return &c
}

func (f *fakeRequestRepo) Create(ctx context.Context, req *request.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	req.ID = fmt.Sprintf("req-%d", f.seq)
	f.requests[req.ID] = cloneRequest(req)
	return nil
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id string) (*request.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return nil, fmt.Errorf("%w: request %s", carpool.ErrNotFound, id)
	}
	return cloneRequest(req), nil
}

func (f *fakeRequestRepo) ListByRide(ctx context.Context, rideID string) ([]*request.Request, error) {
	return f.listWhere(func(req *request.Request) bool { return req.RideID == rideID }), nil
}

func (f *fakeRequestRepo) ListByRequester(ctx context.Context, requesterID string) ([]*request.Request, error) {
	return f.listWhere(func(req *request.Request) bool { return req.RequesterID == requesterID }), nil
}

func (f *fakeRequestRepo) listWhere(keep func(*request.Request) bool) []*request.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*request.Request
	for _, req := range f.requests {
		if keep(req) {
			out = append(out, cloneRequest(req))
		}
	}
	return out
}

// UpdateStatus re-checks the transition against the stored row, standing in
// for the row lock the real repository takes in GetByID.
func (f *fakeRequestRepo) UpdateStatus(ctx context.Context, id string, status request.Status, ts time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return fmt.Errorf("%w: request %s", carpool.ErrNotFound, id)
	}
	if !req.Status.CanTransitionTo(status) {
		return fmt.Errorf("%w: %s -> %s", carpool.ErrInvalidTransition, req.Status, status)
	}
	req.Status = status
	req.UpdatedAt = ts
	return nil
}

func (f *fakeRequestRepo) HasAcceptedRequester(ctx context.Context, rideID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, req := range f.requests {
		if req.RideID == rideID && req.RequesterID == userID && req.Status == request.StatusAccepted {
			return true, nil
		}
	}
	return false, nil
}

// --- children ---

type fakeChildRepo struct {
	mu       sync.Mutex
	children map[string]*directory.Child
}

func newFakeChildRepo() *fakeChildRepo {
	return &fakeChildRepo{children: map[string]*directory.Child{}}
}

func (f *fakeChildRepo) put(id, parentID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.children[id] = &directory.Child{ID: id, ParentID: parentID, Name: "kid", Age: 8}
}

func (f *fakeChildRepo) Create(ctx context.Context, c *directory.Child) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.children[c.ID] = c
	return nil
}

func (f *fakeChildRepo) GetByID(ctx context.Context, id string) (*directory.Child, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.children[id]
	if !ok {
		return nil, fmt.Errorf("%w: child %s", carpool.ErrNotFound, id)
	}
	cp := *c
	return &cp, nil
}

func (f *fakeChildRepo) ListByParent(ctx context.Context, parentID string) ([]*directory.Child, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*directory.Child
	for _, c := range f.children {
		if c.ParentID == parentID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeChildRepo) Delete(ctx context.Context, id, parentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.children[id]
	if !ok || c.ParentID != parentID {
		return fmt.Errorf("%w: child %s", carpool.ErrNotFound, id)
	}
	delete(f.children, id)
	return nil
}

// --- schools ---

type fakeSchoolRepo struct {
	mu      sync.Mutex
	schools map[string]*directory.School
}

func newFakeSchoolRepo() *fakeSchoolRepo {
	return &fakeSchoolRepo{schools: map[string]*directory.School{
		"school-1": {ID: "school-1", Name: "Lincoln Elementary"},
	}}
}

func (f *fakeSchoolRepo) Create(ctx context.Context, s *directory.School) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.schools[s.ID] = s
	return nil
}

func (f *fakeSchoolRepo) GetByID(ctx context.Context, id string) (*directory.School, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.schools[id]
	if !ok {
		return nil, fmt.Errorf("%w: school %s", carpool.ErrNotFound, id)
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSchoolRepo) List(ctx context.Context) ([]*directory.School, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*directory.School
	for _, s := range f.schools {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeSchoolRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.schools[id]; !ok {
		return fmt.Errorf("%w: school %s", carpool.ErrNotFound, id)
	}
	delete(f.schools, id)
	return nil
}
