package auth

import (
	"testing"
	"time"
)

func TestTokenService_SignAndParse(t *testing.T) {
	ts := TokenService{
		Secret:   []byte("test-secret"),
		Issuer:   "mangashelf-test",
		Duration: time.Hour,
	}

	u := &User{ID: "u1", Username: "tester", Email: "tester@example.com"}
	token, exp, err := ts.Sign(u)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if !exp.After(time.Now()) {
		t.Errorf("expected expiry in the future, got %v", exp)
	}

	claims, err := ts.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u1" || claims.Username != "tester" || claims.Email != "tester@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.Issuer != "mangashelf-test" {
		t.Errorf("expected issuer mangashelf-test, got %q", claims.Issuer)
	}
}

func TestTokenService_RejectsWrongSecret(t *testing.T) {
	signer := TokenService{Secret: []byte("secret-a"), Issuer: "x", Duration: time.Hour}
	verifier := TokenService{Secret: []byte("secret-b"), Issuer: "x", Duration: time.Hour}

	token, _, err := signer.Sign(&User{ID: "u1"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := verifier.Parse(token); err == nil {
		t.Fatal("expected parse to fail with wrong secret")
	}
}

func TestTokenService_RejectsExpired(t *testing.T) {
	ts := TokenService{Secret: []byte("test-secret"), Issuer: "x", Duration: -time.Minute}

	token, _, err := ts.Sign(&User{ID: "u1"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := ts.Parse(token); err == nil {
		t.Fatal("expected parse to fail for expired token")
	}
}
