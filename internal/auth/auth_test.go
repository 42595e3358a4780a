package auth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	return token
}

func TestStaticAndEnv(t *testing.T) {
	ctx := context.Background()
	if _, err := Static("  ").Token(ctx); !errors.Is(err, ErrNoCredential) {
		t.Fatalf("Static blank err = %v, want ErrNoCredential", err)
	}
	if got, err := Static(" abc ").Token(ctx); err != nil || got != "abc" {
		t.Fatalf("Static = %q, %v; want abc", got, err)
	}

	t.Setenv("LOSTFOUND_TEST_TOKEN", "")
	if _, err := Env("LOSTFOUND_TEST_TOKEN").Token(ctx); !errors.Is(err, ErrNoCredential) {
		t.Fatalf("Env unset err = %v, want ErrNoCredential", err)
	}
	t.Setenv("LOSTFOUND_TEST_TOKEN", "xyz")
	if got, err := Env("LOSTFOUND_TEST_TOKEN").Token(ctx); err != nil || got != "xyz" {
		t.Fatalf("Env = %q, %v; want xyz", got, err)
	}
}

func TestFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "token")

	if _, err := File(path).Token(ctx); !errors.Is(err, ErrNoCredential) {
		t.Fatalf("missing file err = %v, want ErrNoCredential", err)
	}
	if err := os.WriteFile(path, []byte("tok-1\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if got, err := File(path).Token(ctx); err != nil || got != "tok-1" {
		t.Fatalf("File = %q, %v; want tok-1", got, err)
	}
}

func TestChain_FirstHitWins(t *testing.T) {
	ctx := context.Background()
	chain := Chain{Static(""), nil, Static("second"), Static("third")}
	got, err := chain.Token(ctx)
	if err != nil || got != "second" {
		t.Fatalf("Chain = %q, %v; want second", got, err)
	}
	if _, err := (Chain{Static("")}).Token(ctx); !errors.Is(err, ErrNoCredential) {
		t.Fatalf("empty chain err = %v, want ErrNoCredential", err)
	}
}

func TestCheckExpiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	if err := CheckExpiry("opaque-token", now); err != nil {
		t.Fatalf("opaque token err = %v, want nil", err)
	}
	if err := CheckExpiry(signed(t, now.Add(time.Hour)), now); err != nil {
		t.Fatalf("valid jwt err = %v, want nil", err)
	}
	if err := CheckExpiry(signed(t, now.Add(-time.Minute)), now); !errors.Is(err, ErrExpired) {
		t.Fatalf("expired jwt err = %v, want ErrExpired", err)
	}
	if err := CheckExpiry("a.b.c", now); err != nil {
		t.Fatalf("malformed jwt err = %v, want nil", err)
	}
}
