package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"storeratings/internal/auth"
	"storeratings/internal/domain"
)

const testSigningKey = "middleware-test-signing-key"

func newBareServer(t *testing.T) *Server {
	t.Helper()
	return &Server{
		tokens: auth.NewTokenService([]byte(testSigningKey), time.Hour),
		logger: log.New(io.Discard, "", 0),
	}
}

// expiredToken signs a token whose expiry is already in the past.
func expiredToken(t *testing.T, role domain.Role) string {
	t.Helper()
	now := time.Now().Add(-2 * time.Hour)
	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "some-user",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
		Role: string(role),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSigningKey))
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}
	return signed
}

func probeHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthenticate(t *testing.T) {
	srv := newBareServer(t)

	validToken, err := srv.tokens.Issue("user-1", domain.RoleUser)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	cases := []struct {
		name        string
		header      string
		wantStatus  int
		wantMessage string
		wantNext    bool
	}{
		{"no header", "", http.StatusUnauthorized, "Missing or invalid authentication information", false},
		{"wrong scheme", "Basic abc123", http.StatusUnauthorized, "Missing or invalid authentication information", false},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized, "Invalid token", false},
		{"expired token", "Bearer " + expiredToken(t, domain.RoleUser), http.StatusUnauthorized, "Token expired", false},
		{"valid token", "Bearer " + validToken, http.StatusNoContent, "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var called bool
			handler := srv.authenticate(probeHandler(&called))

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if called != tc.wantNext {
				t.Fatalf("next called = %v, want %v", called, tc.wantNext)
			}
			if tc.wantMessage != "" {
				var body errorResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
					t.Fatalf("decode error body: %v", err)
				}
				if body.Message != tc.wantMessage {
					t.Fatalf("message = %q, want %q", body.Message, tc.wantMessage)
				}
			}
		})
	}
}

func TestAuthenticateAttachesIdentity(t *testing.T) {
	srv := newBareServer(t)

	token, err := srv.tokens.Issue("user-42", domain.RoleOwner)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	var got auth.Identity
	handler := srv.authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityFrom(r.Context())
		if !ok {
			t.Fatal("identity missing from context")
		}
		got = identity
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got.UserID != "user-42" {
		t.Fatalf("UserID = %q, want user-42", got.UserID)
	}
	if got.Role != domain.RoleOwner {
		t.Fatalf("Role = %q, want %q", got.Role, domain.RoleOwner)
	}
}

func TestRequireRole(t *testing.T) {
	srv := newBareServer(t)

	cases := []struct {
		name       string
		identity   *auth.Identity
		allowed    []domain.Role
		wantStatus int
		wantNext   bool
	}{
		{"no identity", nil, []domain.Role{domain.RoleAdmin}, http.StatusUnauthorized, false},
		{"role allowed", &auth.Identity{UserID: "u", Role: domain.RoleAdmin}, []domain.Role{domain.RoleAdmin}, http.StatusNoContent, true},
		{"role denied", &auth.Identity{UserID: "u", Role: domain.RoleUser}, []domain.Role{domain.RoleAdmin}, http.StatusForbidden, false},
		{"one of several", &auth.Identity{UserID: "u", Role: domain.RoleUser}, []domain.Role{domain.RoleUser, domain.RoleAdmin}, http.StatusNoContent, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var called bool
			handler := srv.requireRole(tc.allowed...)(probeHandler(&called))

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.identity != nil {
				ctx := context.WithValue(req.Context(), identityContextKey, *tc.identity)
				req = req.WithContext(ctx)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if called != tc.wantNext {
				t.Fatalf("next called = %v, want %v", called, tc.wantNext)
			}
		})
	}
}
