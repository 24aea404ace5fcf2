package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"storeratings/internal/domain"
)

func TestTokenService_RoundTrip(t *testing.T) {
	ts := NewTokenService([]byte("test-signing-key"), time.Hour)

	for _, role := range domain.AllRoles() {
		token, err := ts.Issue("user-123", role)
		if err != nil {
			t.Fatalf("Issue(%s): %v", role, err)
		}

		identity, err := ts.Verify(token)
		if err != nil {
			t.Fatalf("Verify(%s): %v", role, err)
		}
		if identity.UserID != "user-123" {
			t.Fatalf("UserID = %q, want user-123", identity.UserID)
		}
		if identity.Role != role {
			t.Fatalf("Role = %q, want %q", identity.Role, role)
		}
	}
}

func TestTokenService_Expired(t *testing.T) {
	// Negative window produces an already-expired token.
	ts := &TokenService{signingKey: []byte("test-signing-key"), ttl: -time.Minute}

	token, err := ts.Issue("user-123", domain.RoleUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := ts.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenService_WrongKey(t *testing.T) {
	issuer := NewTokenService([]byte("key-one"), time.Hour)
	verifier := NewTokenService([]byte("key-two"), time.Hour)

	token, err := issuer.Issue("user-123", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed for foreign signature, got %v", err)
	}
}

func TestTokenService_TamperedPayload(t *testing.T) {
	ts := NewTokenService([]byte("test-signing-key"), time.Hour)

	token, err := ts.Issue("user-123", domain.RoleUser)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token structure: %q", token)
	}
	// Swap the payload for one from a token with a different subject; the
	// original signature no longer covers it.
	other, err := ts.Issue("user-456", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	otherParts := strings.Split(other, ".")
	tampered := parts[0] + "." + otherParts[1] + "." + parts[2]

	if _, err := ts.Verify(tampered); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed for tampered payload, got %v", err)
	}
}

func TestTokenService_Garbage(t *testing.T) {
	ts := NewTokenService([]byte("test-signing-key"), time.Hour)

	for _, token := range []string{"", "garbage", "a.b", "a.b.c"} {
		if _, err := ts.Verify(token); !errors.Is(err, ErrTokenMalformed) {
			t.Fatalf("Verify(%q): expected ErrTokenMalformed, got %v", token, err)
		}
	}
}

func TestTokenService_UnknownRoleRejected(t *testing.T) {
	ts := NewTokenService([]byte("test-signing-key"), time.Hour)

	token, err := ts.Issue("user-123", domain.Role("SUPERUSER"))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := ts.Verify(token); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed for unknown role, got %v", err)
	}
}

func TestNewTokenService_DefaultTTL(t *testing.T) {
	ts := NewTokenService([]byte("test-signing-key"), 0)
	if ts.ttl != DefaultTokenTTL {
		t.Fatalf("ttl = %v, want %v", ts.ttl, DefaultTokenTTL)
	}
}
