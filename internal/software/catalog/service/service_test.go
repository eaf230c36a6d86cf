package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"kids-carpool/internal/domain/carpool"
	"kids-carpool/internal/domain/ride"
	"kids-carpool/internal/general/logger"
	"kids-carpool/internal/ports"
)

func newCatalog(t *testing.T) (ports.RideCatalog, *fakeRideRepo) {
	t.Helper()
	rides := newFakeRideRepo()
	svc := NewCatalogService(logger.New("catalog-test"), fakeUoW{}, rides, newFakeSchoolRepo(), nil, nopPublisher{})
	return svc, rides
}

func validInput() ports.CreateRideInput {
	return ports.CreateRideInput{
		SchoolID:        "school-1",
		RideDate:        "2026-09-01",
		RideTime:        "07:45",
		PickupLocation:  "Maple & 3rd",
		DropoffLocation: "Lincoln Elementary",
		TotalSeats:      3,
	}
}

func TestCreateStartsActive(t *testing.T) {
	svc, _ := newCatalog(t)

	r, err := svc.Create(context.Background(), "driver-1", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if r.Status != ride.StatusActive {
		t.Fatalf("status = %s, want ACTIVE", r.Status)
	}
	if r.AvailableSeats != 3 {
		t.Fatalf("available seats = %d, want 3", r.AvailableSeats)
	}
	if r.ID == "" {
		t.Fatal("created ride has no id")
	}
}

func TestCreateRequiresExistingSchool(t *testing.T) {
	svc, _ := newCatalog(t)

	in := validInput()
	in.SchoolID = "school-404"
	if _, err := svc.Create(context.Background(), "driver-1", in); !errors.Is(err, carpool.ErrNotFound) {
		t.Fatalf("create with unknown school: err = %v, want not found", err)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc, _ := newCatalog(t)

	in := validInput()
	in.TotalSeats = 0
	if _, err := svc.Create(context.Background(), "driver-1", in); !errors.Is(err, carpool.ErrValidation) {
		t.Fatalf("create with zero seats: err = %v, want validation error", err)
	}
}

func TestSetStatusOwnerOnly(t *testing.T) {
	svc, _ := newCatalog(t)
	r, _ := svc.Create(context.Background(), "driver-1", validInput())

	if _, err := svc.SetStatus(context.Background(), r.ID, ride.StatusCompleted, "driver-2"); !errors.Is(err, carpool.ErrUnauthorized) {
		t.Fatalf("status change by non-owner: err = %v, want unauthorized", err)
	}

	got, err := svc.SetStatus(context.Background(), r.ID, ride.StatusCompleted, "driver-1")
	if err != nil {
		t.Fatalf("SetStatus by owner: %v", err)
	}
	if got.Status != ride.StatusCompleted {
		t.Fatalf("status = %s, want COMPLETED", got.Status)
	}
}

func TestSetStatusRejectsTerminalTransitions(t *testing.T) {
	svc, _ := newCatalog(t)
	r, _ := svc.Create(context.Background(), "driver-1", validInput())
	if _, err := svc.SetStatus(context.Background(), r.ID, ride.StatusCancelled, "driver-1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if _, err := svc.SetStatus(context.Background(), r.ID, ride.StatusActive, "driver-1"); !errors.Is(err, carpool.ErrInvalidTransition) {
		t.Fatalf("reactivating a cancelled ride: err = %v, want invalid transition", err)
	}
}

func TestListByStatusValidatesStatus(t *testing.T) {
	svc, _ := newCatalog(t)

	if _, err := svc.ListByStatus(context.Background(), ride.Status("SOMEDAY")); !errors.Is(err, ride.ErrInvalidStatus) {
		t.Fatalf("list with bogus status: err = %v, want invalid status", err)
	}
}

func TestListByOwnerFilters(t *testing.T) {
	svc, _ := newCatalog(t)
	svc.Create(context.Background(), "driver-1", validInput())
	svc.Create(context.Background(), "driver-1", validInput())
	svc.Create(context.Background(), "driver-2", validInput())

	mine, err := svc.ListByOwner(context.Background(), "driver-1")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("len = %d, want 2", len(mine))
	}
	for _, r := range mine {
		if r.DriverID != "driver-1" {
			t.Fatalf("listing leaked ride of %s", r.DriverID)
		}
	}
}

// TestSeatChangesInvalidateListings checks that reserving or releasing a
// seat drops the cached listings, so a listing read right after an accept or
// cancel serves the changed seat count instead of a stale entry.
func TestSeatChangesInvalidateListings(t *testing.T) {
	rides := newFakeRideRepo()
	spy := newSpyCache()
	svc := NewCatalogService(logger.New("catalog-test"), fakeUoW{}, rides, newFakeSchoolRepo(), nil, nopPublisher{}).(*catalogService)
	svc.cache = spy

	ctx := context.Background()
	r, err := svc.Create(ctx, "driver-1", validInput()) // 3 seats
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// warm the driver listing
	warm, err := svc.ListByOwner(ctx, "driver-1")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(warm) != 1 || warm[0].AvailableSeats != 3 {
		t.Fatalf("warm listing = %+v, want one ride with 3 seats", warm)
	}

	won, err := svc.TryReserveSeat(ctx, r.ID)
	if err != nil || !won {
		t.Fatalf("TryReserveSeat: won=%v err=%v", won, err)
	}
	if !spy.wasInvalidated(cacheKeyDriver("driver-1")) {
		t.Fatal("reserving a seat did not invalidate the driver listing")
	}
	if !spy.wasInvalidated(cacheKeySchool("school-1")) {
		t.Fatal("reserving a seat did not invalidate the school listing")
	}

	after, err := svc.ListByOwner(ctx, "driver-1")
	if err != nil {
		t.Fatalf("ListByOwner after reserve: %v", err)
	}
	if after[0].AvailableSeats != 2 {
		t.Fatalf("listing after reserve shows %d seats, want 2", after[0].AvailableSeats)
	}

	if err := svc.ReleaseSeat(ctx, r.ID); err != nil {
		t.Fatalf("ReleaseSeat: %v", err)
	}
	released, err := svc.ListByOwner(ctx, "driver-1")
	if err != nil {
		t.Fatalf("ListByOwner after release: %v", err)
	}
	if released[0].AvailableSeats != 3 {
		t.Fatalf("listing after release shows %d seats, want 3", released[0].AvailableSeats)
	}
}

// TestConcurrentSeatReservation hammers one ride with more reservation
// attempts than seats and checks that exactly TotalSeats of them win.
func TestConcurrentSeatReservation(t *testing.T) {
	const attempts = 16

	svc, _ := newCatalog(t)
	r, err := svc.Create(context.Background(), "driver-1", validInput()) // 3 seats
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var wg sync.WaitGroup
	wins := make([]bool, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			won, err := svc.TryReserveSeat(context.Background(), r.ID)
			if err != nil {
				t.Errorf("reserve %d: %v", i, err)
				return
			}
			wins[i] = won
		}(i)
	}
	wg.Wait()

	var won int
	for _, w := range wins {
		if w {
			won++
		}
	}
	if won != r.TotalSeats {
		t.Fatalf("winners = %d, want %d", won, r.TotalSeats)
	}

	got, _ := svc.Get(context.Background(), r.ID)
	if got.AvailableSeats != 0 {
		t.Fatalf("available seats = %d, want 0", got.AvailableSeats)
	}
}

func TestReleaseSeatGuardsOverflow(t *testing.T) {
	svc, _ := newCatalog(t)
	r, _ := svc.Create(context.Background(), "driver-1", validInput())

	if err := svc.ReleaseSeat(context.Background(), r.ID); !errors.Is(err, ride.ErrSeatOverflow) {
		t.Fatalf("release on a full ride: err = %v, want seat overflow", err)
	}

	if won, _ := svc.TryReserveSeat(context.Background(), r.ID); !won {
		t.Fatal("reserve after failed release should win")
	}
	if err := svc.ReleaseSeat(context.Background(), r.ID); err != nil {
		t.Fatalf("matched release: %v", err)
	}

	got, _ := svc.Get(context.Background(), r.ID)
	if got.AvailableSeats != got.TotalSeats {
		t.Fatalf("available seats = %d, want %d", got.AvailableSeats, got.TotalSeats)
	}
}

func TestReserveSeatOnInactiveRide(t *testing.T) {
	svc, _ := newCatalog(t)
	r, _ := svc.Create(context.Background(), "driver-1", validInput())
	if _, err := svc.SetStatus(context.Background(), r.ID, ride.StatusCancelled, "driver-1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	won, err := svc.TryReserveSeat(context.Background(), r.ID)
	if err != nil {
		t.Fatalf("TryReserveSeat: %v", err)
	}
	if won {
		t.Fatal("reserved a seat on a cancelled ride")
	}
}
