package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/mkravets/userhub/internal/auth"
)

const testSecret = "test-secret-key"

func TestMintAndVerify(t *testing.T) {
	m := auth.NewManager(testSecret, time.Hour)

	token, err := m.Mint("alice")

	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	claims, err := m.Verify(token)

	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	if claims.Subject != "alice" {
		t.Errorf("subject = %q, want %q", claims.Subject, "alice")
	}

	if claims.ID == "" {
		t.Error("expected a jti")
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	now := time.Unix(1700000000, 0)

	m := auth.NewManagerWithClock(testSecret, time.Minute, func() time.Time { return now })

	token, err := m.Mint("alice")

	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	// still inside the TTL window
	now = now.Add(30 * time.Second)

	if _, err := m.Verify(token); err != nil {
		t.Fatalf("verify within TTL failed: %v", err)
	}

	// past the TTL
	now = now.Add(2 * time.Minute)

	if _, err := m.Verify(token); err == nil {
		t.Fatal("expected expired token to fail verification")
	}
}

func TestVerifyTamperedSignature(t *testing.T) {
	m := auth.NewManager(testSecret, time.Hour)

	token, err := m.Mint("alice")

	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	last := token[len(token)-1]
	flipped := byte('A')
	if last == 'A' {
		flipped = 'B'
	}
	tampered := token[:len(token)-1] + string(flipped)

	if _, err := m.Verify(tampered); err == nil {
		t.Fatal("expected tampered token to fail verification")
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	m := auth.NewManager(testSecret, time.Hour)
	other := auth.NewManager("some-other-secret", time.Hour)

	token, err := m.Mint("alice")

	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	if _, err := other.Verify(token); err == nil {
		t.Fatal("expected token signed with a different secret to fail")
	}
}

func TestVerifyGarbage(t *testing.T) {
	m := auth.NewManager(testSecret, time.Hour)

	for _, raw := range []string{"", "garbage", "a.b.c", strings.Repeat("x", 500)} {
		if _, err := m.Verify(raw); err == nil {
			t.Errorf("expected %q to fail verification", raw)
		}
	}
}
