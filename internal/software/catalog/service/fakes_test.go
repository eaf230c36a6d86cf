package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"kids-carpool/internal/domain/carpool"
	"kids-carpool/internal/domain/directory"
	"kids-carpool/internal/domain/ride"
	"kids-carpool/internal/general/cache"
)

type fakeUoW struct{}

func (fakeUoW) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopPublisher struct{}

func (nopPublisher) Publish(exchange, routingKey string, body []byte) error { return nil }

// spyCache is an in-memory listingCache that records which keys were
// invalidated.
type spyCache struct {
	mu          sync.Mutex
	store       map[string][]byte
	invalidated []string
}

func newSpyCache() *spyCache {
	return &spyCache{store: map[string][]byte{}}
}

func (s *spyCache) Get(ctx context.Context, key string, dest any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.store[key]
	if !ok {
		return cache.ErrMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *spyCache) Set(ctx context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = raw
	return nil
}

func (s *spyCache) Invalidate(ctx context.Context, keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.store, key)
		s.invalidated = append(s.invalidated, key)
	}
}

func (s *spyCache) wasInvalidated(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range s.invalidated {
		if k == key {
			return true
		}
	}
	return false
}

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

// TryReserveSeat checks and decrements under one lock, like the conditional
// UPDATE it stands in for.
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
