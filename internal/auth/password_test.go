package auth

import (
	"errors"
	"testing"
)

func TestMeetsPasswordPolicy(t *testing.T) {
	cases := []struct {
		password string
		want     bool
	}{
		{"Abc123!@", true},             // 8 chars, uppercase, special
		{"abc123!@", false},            // no uppercase
		{"Abcdefgh", false},            // no special character
		{"Abc1!", false},               // 5 chars, too short
		{"Abcdefg!", true},             // exactly 8
		{"Abcdefghijk123!@", true},     // exactly 16
		{"Abcdefghijkl123!@", false},   // 17 chars, too long
		{"ABCDEFGH!", true},            // all uppercase plus special
		{"password123", false},         // neither uppercase nor special
		{"", false},                    // empty
	}

	for _, c := range cases {
		if got := MeetsPasswordPolicy(c.password); got != c.want {
			t.Errorf("MeetsPasswordPolicy(%q) = %v, want %v", c.password, got, c.want)
		}
	}
}

func TestMeetsPasswordPolicy_SpaceIsSpecial(t *testing.T) {
	if !MeetsPasswordPolicy("Abcd efgh") {
		t.Fatalf("expected a space to satisfy the non-alphanumeric requirement")
	}
}

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("Abcd1234!")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "Abcd1234!" {
		t.Fatalf("hash must not equal the cleartext password")
	}

	if err := ComparePasswordAndHash("Abcd1234!", hash); err != nil {
		t.Fatalf("ComparePasswordAndHash with correct password: %v", err)
	}

	if err := ComparePasswordAndHash("Wrong1234!", hash); !errors.Is(err, ErrMismatchedHashAndPassword) {
		t.Fatalf("expected ErrMismatchedHashAndPassword, got %v", err)
	}
}

func TestHashPassword_Empty(t *testing.T) {
	if _, err := HashPassword(""); !errors.Is(err, ErrNoEmptyPassword) {
		t.Fatalf("expected ErrNoEmptyPassword, got %v", err)
	}
}

func TestComparePasswordAndHash_MalformedDigest(t *testing.T) {
	err := ComparePasswordAndHash("Abcd1234!", "not-a-bcrypt-digest")
	if err == nil || errors.Is(err, ErrMismatchedHashAndPassword) {
		t.Fatalf("expected a digest format error, got %v", err)
	}
}
