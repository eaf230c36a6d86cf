package request

import (
	"errors"
	"testing"

	"kids-carpool/internal/domain/carpool"
)

func newTestRequest(t *testing.T) *Request {
	t.Helper()
	req, err := NewRequest("ride-1", "parent-1", "child-1", "12 Elm St")
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	return req
}

func TestNewRequestStartsPending(t *testing.T) {
	req := newTestRequest(t)
	if req.Status != StatusPending {
		t.Fatalf("expected PENDING, got %s", req.Status)
	}
}

func TestNewRequestValidation(t *testing.T) {
	if _, err := NewRequest("", "p", "c", "a"); !errors.Is(err, ErrRideRequired) {
		t.Fatalf("expected ErrRideRequired, got %v", err)
	}
	if _, err := NewRequest("r", "p", "c", "  "); !errors.Is(err, carpool.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPendingDecisions(t *testing.T) {
	req := newTestRequest(t)
	if err := req.Accept(); err != nil {
		t.Fatalf("PENDING->ACCEPTED: %v", err)
	}

	req = newTestRequest(t)
	if err := req.Reject(); err != nil {
		t.Fatalf("PENDING->REJECTED: %v", err)
	}

	req = newTestRequest(t)
	if err := req.Cancel(); err != nil {
		t.Fatalf("PENDING->CANCELLED: %v", err)
	}
}

func TestRejectedIsTerminal(t *testing.T) {
	req := newTestRequest(t)
	if err := req.Reject(); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	if err := req.Accept(); !errors.Is(err, carpool.ErrInvalidTransition) {
		t.Fatalf("REJECTED->ACCEPTED must fail, got %v", err)
	}
	if err := req.Cancel(); !errors.Is(err, carpool.ErrInvalidTransition) {
		t.Fatalf("REJECTED->CANCELLED must fail, got %v", err)
	}
}

func TestAcceptedCanOnlyCancel(t *testing.T) {
	req := newTestRequest(t)
	if err := req.Accept(); err != nil {
		t.Fatalf("Accept: %v", err)
	}

	if err := req.Reject(); !errors.Is(err, carpool.ErrInvalidTransition) {
		t.Fatalf("ACCEPTED->REJECTED must fail, got %v", err)
	}
	if err := req.Cancel(); err != nil {
		t.Fatalf("ACCEPTED->CANCELLED: %v", err)
	}
}

func TestDoubleCancelFails(t *testing.T) {
	req := newTestRequest(t)
	if err := req.Cancel(); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	if err := req.Cancel(); !errors.Is(err, carpool.ErrInvalidTransition) {
		t.Fatalf("second cancel must fail, got %v", err)
	}
}

func TestParseStatusTotal(t *testing.T) {
	st, err := ParseStatus(" pending ")
	if err != nil || st != StatusPending {
		t.Fatalf("expected PENDING, got %s (%v)", st, err)
	}
	if _, err := ParseStatus("MAYBE"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}
