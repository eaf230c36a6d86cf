package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"kids-carpool/internal/domain/carpool"
	"kids-carpool/internal/domain/rating"
	"kids-carpool/internal/domain/request"
	"kids-carpool/internal/domain/ride"
	"kids-carpool/internal/domain/user"
	"kids-carpool/internal/general/logger"
	"kids-carpool/internal/ports"
)

type fakeUoW struct{}

func (fakeUoW) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopPublisher struct{}

func (nopPublisher) Publish(exchange, routingKey string, body []byte) error { return nil }

// fakeRideStore serves rides by id; only reads matter here.
type fakeRideStore struct {
	rides map[string]*ride.Ride
}

func (f *fakeRideStore) Create(ctx context.Context, r *ride.Ride) error { return nil }

func (f *fakeRideStore) GetByID(ctx context.Context, id string) (*ride.Ride, error) {
	r, ok := f.rides[id]
	if !ok {
		return nil, fmt.Errorf("%w: ride %s", carpool.ErrNotFound, id)
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRideStore) ListByDriver(ctx context.Context, driverID string) ([]*ride.Ride, error) {
	return nil, nil
}

func (f *fakeRideStore) ListBySchool(ctx context.Context, schoolID string) ([]*ride.Ride, error) {
	return nil, nil
}

func (f *fakeRideStore) ListByStatus(ctx context.Context, status ride.Status) ([]*ride.Ride, error) {
	return nil, nil
}

func (f *fakeRideStore) UpdateStatus(ctx context.Context, id string, status ride.Status, ts time.Time) error {
	return nil
}

func (f *fakeRideStore) TryReserveSeat(ctx context.Context, id string) (bool, error) {
	return false, nil
}

func (f *fakeRideStore) ReleaseSeat(ctx context.Context, id string) (bool, error) {
	return false, nil
}

// fakeRequestStore answers participation checks from a fixed accepted set.
type fakeRequestStore struct {
	accepted map[string]bool // key: rideID + "/" + userID
}

func (f *fakeRequestStore) Create(ctx context.Context, req *request.Request) error { return nil }

func (f *fakeRequestStore) GetByID(ctx context.Context, id string) (*request.Request, error) {
	return nil, fmt.Errorf("%w: request %s", carpool.ErrNotFound, id)
}

func (f *fakeRequestStore) ListByRide(ctx context.Context, rideID string) ([]*request.Request, error) {
	return nil, nil
}

func (f *fakeRequestStore) ListByRequester(ctx context.Context, requesterID string) ([]*request.Request, error) {
	return nil, nil
}

func (f *fakeRequestStore) UpdateStatus(ctx context.Context, id string, status request.Status, ts time.Time) error {
	return nil
}

func (f *fakeRequestStore) HasAcceptedRequester(ctx context.Context, rideID, userID string) (bool, error) {
	return f.accepted[rideID+"/"+userID], nil
}

// fakeRatingRepo stores appended rows under a mutex so concurrent Record
// calls exercise the same interleavings the real store would see.
type fakeRatingRepo struct {
	mu   sync.Mutex
	rows []*rating.Rating
	seq  int
}

func (f *fakeRatingRepo) Append(ctx context.Context, rt *rating.Rating) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	rt.ID = fmt.Sprintf("rating-%d", f.seq)
	cp := *rt
	f.rows = append(f.rows, &cp)
	return nil
}

func (f *fakeRatingRepo) ListForUser(ctx context.Context, userID string) ([]*rating.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*rating.Rating
	for _, rt := range f.rows {
		if rt.RatedID == userID {
			cp := *rt
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRatingRepo) AggregateForUser(ctx context.Context, userID string) (rating.Aggregate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var agg rating.Aggregate
	for _, rt := range f.rows {
		if rt.RatedID == userID {
			agg.Add(rt.Score)
		}
	}
	return agg, nil
}

func (f *fakeRatingRepo) count(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, rt := range f.rows {
		if rt.RatedID == userID {
			n++
		}
	}
	return n
}

// fakeUserStore knows a fixed set of user ids.
type fakeUserStore struct {
	known map[string]bool
}

func (f *fakeUserStore) Create(ctx context.Context, u *user.User) error { return nil }

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (*user.User, error) {
	return nil, fmt.Errorf("%w: user %s", carpool.ErrNotFound, id)
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, fmt.Errorf("%w: user %s", carpool.ErrNotFound, email)
}

func (f *fakeUserStore) Exists(ctx context.Context, id string) (bool, error) {
	return f.known[id], nil
}

type ratingFixture struct {
	ratings  *fakeRatingRepo
	rides    *fakeRideStore
	requests *fakeRequestStore
	users    *fakeUserStore
	svc      ports.RatingAggregator
}

// newRatingFixture wires a COMPLETED ride driven by driver-1 with parent-1
// and parent-2 as accepted requesters.
func newRatingFixture(t *testing.T) *ratingFixture {
	t.Helper()

	completed := &ride.Ride{ID: "ride-1", DriverID: "driver-1", Status: ride.StatusCompleted}
	active := &ride.Ride{ID: "ride-2", DriverID: "driver-1", Status: ride.StatusActive}
	rides := &fakeRideStore{rides: map[string]*ride.Ride{completed.ID: completed, active.ID: active}}

	requests := &fakeRequestStore{accepted: map[string]bool{
		"ride-1/parent-1": true,
		"ride-1/parent-2": true,
	}}
	users := &fakeUserStore{known: map[string]bool{
		"driver-1": true, "parent-1": true, "parent-2": true,
	}}
	ratings := &fakeRatingRepo{}

	svc := NewRatingService(logger.New("rating-test"), fakeUoW{}, ratings, requests, rides, users, nopPublisher{})
	return &ratingFixture{ratings: ratings, rides: rides, requests: requests, users: users, svc: svc}
}

func TestRecordThenAverage(t *testing.T) {
	fx := newRatingFixture(t)

	rt, err := fx.svc.Record(context.Background(), "parent-1", ports.RecordRatingInput{
		RatedID: "driver-1",
		RideID:  "ride-1",
		Score:   4,
		Comment: "always on time",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rt.ID == "" {
		t.Fatal("recorded rating has no id")
	}

	rep, err := fx.svc.AverageFor(context.Background(), "driver-1")
	if err != nil {
		t.Fatalf("AverageFor: %v", err)
	}
	if rep.Count != 1 || rep.Average != 4.0 {
		t.Fatalf("reputation = %+v, want average 4.0 count 1", rep)
	}
}

func TestRecordRejectsScoreOutOfRange(t *testing.T) {
	fx := newRatingFixture(t)

	for _, score := range []int{0, -3, 6, 42} {
		_, err := fx.svc.Record(context.Background(), "parent-1", ports.RecordRatingInput{
			RatedID: "driver-1",
			RideID:  "ride-1",
			Score:   score,
		})
		if !errors.Is(err, rating.ErrScoreOutOfRange) {
			t.Errorf("score %d: err = %v, want score out of range", score, err)
		}
	}
	if n := fx.ratings.count("driver-1"); n != 0 {
		t.Fatalf("stored rows = %d, want 0 after rejected scores", n)
	}
}

func TestRecordRejectsSelfRating(t *testing.T) {
	fx := newRatingFixture(t)

	_, err := fx.svc.Record(context.Background(), "driver-1", ports.RecordRatingInput{
		RatedID: "driver-1",
		RideID:  "ride-1",
		Score:   5,
	})
	if !errors.Is(err, rating.ErrSelfRating) {
		t.Fatalf("self rating: err = %v, want self rating error", err)
	}
}

func TestRecordRequiresCompletedRide(t *testing.T) {
	fx := newRatingFixture(t)

	_, err := fx.svc.Record(context.Background(), "parent-1", ports.RecordRatingInput{
		RatedID: "driver-1",
		RideID:  "ride-2",
		Score:   5,
	})
	if !errors.Is(err, carpool.ErrValidation) {
		t.Fatalf("rating an active ride: err = %v, want validation error", err)
	}
}

func TestRecordRequiresParticipants(t *testing.T) {
	fx := newRatingFixture(t)

	// rater never rode along
	_, err := fx.svc.Record(context.Background(), "parent-9", ports.RecordRatingInput{
		RatedID: "driver-1",
		RideID:  "ride-1",
		Score:   5,
	})
	if !errors.Is(err, carpool.ErrUnauthorized) {
		t.Fatalf("outsider rater: err = %v, want unauthorized", err)
	}

	// rated user never rode along
	_, err = fx.svc.Record(context.Background(), "parent-1", ports.RecordRatingInput{
		RatedID: "parent-9",
		RideID:  "ride-1",
		Score:   5,
	})
	if !errors.Is(err, carpool.ErrUnauthorized) {
		t.Fatalf("outsider rated: err = %v, want unauthorized", err)
	}
}

func TestAverageForUnknownUser(t *testing.T) {
	fx := newRatingFixture(t)

	_, err := fx.svc.AverageFor(context.Background(), "nobody")
	if !errors.Is(err, carpool.ErrNotFound) {
		t.Fatalf("AverageFor unknown user: err = %v, want not found", err)
	}
}

func TestAverageForUnratedUserIsZero(t *testing.T) {
	fx := newRatingFixture(t)

	rep, err := fx.svc.AverageFor(context.Background(), "parent-2")
	if err != nil {
		t.Fatalf("AverageFor: %v", err)
	}
	if rep.Count != 0 || rep.Average != 0 {
		t.Fatalf("reputation = %+v, want average 0 count 0", rep)
	}
}

// TestAggregateBackfillsFromStoredRows pre-seeds stored ratings the service
// has never seen, then checks that the first touch folds them in before the
// new score lands.
func TestAggregateBackfillsFromStoredRows(t *testing.T) {
	fx := newRatingFixture(t)
	fx.ratings.rows = []*rating.Rating{
		{ID: "rating-old-1", RaterID: "parent-1", RatedID: "driver-1", RideID: "ride-1", Score: 3},
		{ID: "rating-old-2", RaterID: "parent-2", RatedID: "driver-1", RideID: "ride-1", Score: 4},
	}

	if _, err := fx.svc.Record(context.Background(), "parent-1", ports.RecordRatingInput{
		RatedID: "driver-1",
		RideID:  "ride-1",
		Score:   5,
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	rep, err := fx.svc.AverageFor(context.Background(), "driver-1")
	if err != nil {
		t.Fatalf("AverageFor: %v", err)
	}
	if rep.Count != 3 || rep.Average != 4.0 {
		t.Fatalf("reputation = %+v, want average 4.0 count 3", rep)
	}
}

// TestConcurrentRatingsSameUser races several ratings of one user and checks
// no update is lost: the final aggregate matches the stored rows exactly.
func TestConcurrentRatingsSameUser(t *testing.T) {
	fx := newRatingFixture(t)
	scores := []int{5, 3, 4}
	raters := []string{"parent-1", "parent-2", "driver-1"}
	rated := []string{"driver-1", "driver-1", "parent-1"}

	// driver-1 receives 5 and 3, parent-1 receives 4
	var wg sync.WaitGroup
	errs := make([]error, len(scores))
	for i := range scores {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = fx.svc.Record(context.Background(), raters[i], ports.RecordRatingInput{
				RatedID: rated[i],
				RideID:  "ride-1",
				Score:   scores[i],
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	driverRep, err := fx.svc.AverageFor(context.Background(), "driver-1")
	if err != nil {
		t.Fatalf("AverageFor driver: %v", err)
	}
	if driverRep.Count != 2 || driverRep.Average != 4.0 {
		t.Fatalf("driver reputation = %+v, want average 4.0 count 2", driverRep)
	}

	parentRep, err := fx.svc.AverageFor(context.Background(), "parent-1")
	if err != nil {
		t.Fatalf("AverageFor parent: %v", err)
	}
	if parentRep.Count != 1 || parentRep.Average != 4.0 {
		t.Fatalf("parent reputation = %+v, want average 4.0 count 1", parentRep)
	}
}

func TestRatingsForListsStoredRows(t *testing.T) {
	fx := newRatingFixture(t)
	for _, score := range []int{5, 2} {
		if _, err := fx.svc.Record(context.Background(), "parent-1", ports.RecordRatingInput{
			RatedID: "driver-1",
			RideID:  "ride-1",
			Score:   score,
		}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	rows, err := fx.svc.RatingsFor(context.Background(), "driver-1")
	if err != nil {
		t.Fatalf("RatingsFor: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2", len(rows))
	}
}
