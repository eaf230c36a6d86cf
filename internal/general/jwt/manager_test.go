package jwt

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kids-carpool/internal/domain/user"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager("unit-test-secret", time.Hour)
}

func TestIssueAndValidateRoundTrip(t *testing.T) {
	mgr := testManager(t)

	signed, _, err := mgr.IssueUserToken("user-1", user.RoleParent)
	if err != nil {
		t.Fatalf("IssueUserToken: %v", err)
	}

	_, claims, err := mgr.ParseAndValidate(signed)
	if err != nil {
		t.Fatalf("ParseAndValidate: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("subject = %q, want user-1", claims.Subject)
	}
	if claims.Role != user.RoleParent {
		t.Errorf("role = %s, want PARENT", claims.Role)
	}
}

func TestIssueRejectsInvalidRole(t *testing.T) {
	mgr := testManager(t)

	if _, _, err := mgr.IssueUserToken("user-1", user.Role("WIZARD")); err == nil {
		t.Fatal("issued a token for an invalid role")
	}
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	signed, _, err := NewManager("other-secret", time.Hour).IssueUserToken("user-1", user.RoleParent)
	if err != nil {
		t.Fatalf("IssueUserToken: %v", err)
	}

	if _, _, err := testManager(t).ParseAndValidate(signed); err == nil {
		t.Fatal("accepted a token signed with a different secret")
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	signed, _, err := NewManager("unit-test-secret", -time.Minute).IssueUserToken("user-1", user.RoleParent)
	if err != nil {
		t.Fatalf("IssueUserToken: %v", err)
	}

	if _, _, err := testManager(t).ParseAndValidate(signed); err == nil {
		t.Fatal("accepted an expired token")
	}
}

func TestFromAuthorization(t *testing.T) {
	cases := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{"bearer token", "Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"missing header", "", "", ErrNoAuthHeader},
		{"wrong scheme", "Basic dXNlcg==", "", ErrBadAuthScheme},
		{"empty token", "Bearer   ", "", ErrEmptyToken},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/rides", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}

			got, err := FromAuthorization(r)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("token = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRoleAllowed(t *testing.T) {
	claims := NewUserClaims("user-1", user.RoleParent, time.Hour)

	if err := RoleAllowed(claims, user.RoleParent, user.RoleAdmin); err != nil {
		t.Errorf("parent against parent+admin: %v", err)
	}
	if err := RoleAllowed(claims, user.RoleAdmin); !errors.Is(err, ErrRoleForbidden) {
		t.Errorf("parent against admin-only: err = %v, want forbidden", err)
	}
}

func TestAuthMiddlewareGatesRequests(t *testing.T) {
	mgr := testManager(t)
	authed := AuthMiddlewareFunc(mgr, user.RoleAdmin)

	var reached bool
	handler := authed(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		if _, ok := FromContext(r.Context()); !ok {
			t.Error("claims missing from request context")
		}
	})

	// no token
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/schools", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", rec.Code)
	}

	// wrong role
	parentToken, _, _ := mgr.IssueUserToken("user-1", user.RoleParent)
	req := httptest.NewRequest(http.MethodPost, "/api/schools", nil)
	req.Header.Set("Authorization", "Bearer "+parentToken)
	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("wrong role: status = %d, want 403", rec.Code)
	}
	if reached {
		t.Fatal("handler ran without the required role")
	}

	// admin passes through
	adminToken, _, _ := mgr.IssueUserToken("admin-1", user.RoleAdmin)
	req = httptest.NewRequest(http.MethodPost, "/api/schools", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	handler(rec, req)
	if !reached {
		t.Fatal("handler not reached with a valid admin token")
	}
}
