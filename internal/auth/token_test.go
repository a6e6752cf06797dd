package auth

import (
	"testing"
	"time"
)

const (
	testKey    = "test-signing-key"
	testIssuer = "evalportal-test"
)

func TestIssueParse_RoundTripsClaims(t *testing.T) {
	token, exp, err := Issue("2021-1-60-123", "Jane Doe", "student", testIssuer, testKey, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !exp.After(time.Now()) {
		t.Error("expiry must be in the future")
	}

	claims, err := Parse(token, testKey, testIssuer)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "2021-1-60-123" {
		t.Errorf("subject = %q", claims.Subject)
	}
	if claims.Name != "Jane Doe" {
		t.Errorf("name = %q", claims.Name)
	}
	if claims.Role != "student" {
		t.Errorf("role = %q", claims.Role)
	}
}

func TestParse_WrongKey_Fails(t *testing.T) {
	token, _, err := Issue("42", "Jane", "student", testIssuer, testKey, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := Parse(token, "other-key", testIssuer); err == nil {
		t.Fatal("expected error for wrong signing key")
	}
}

func TestParse_IssuerMismatch_Fails(t *testing.T) {
	token, _, err := Issue("42", "Jane", "student", "someone-else", testKey, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := Parse(token, testKey, testIssuer); err == nil {
		t.Fatal("expected issuer mismatch error")
	}
}

func TestInspect_ReadsClaimsWithoutKey(t *testing.T) {
	token, _, err := Issue("42", "Jane", "student", testIssuer, testKey, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := Inspect(token)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if claims.Subject != "42" || claims.Name != "Jane" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.Expired(time.Now()) {
		t.Error("fresh token reported expired")
	}
}

func TestClaims_Expired_DetectsStaleToken(t *testing.T) {
	token, _, err := Issue("42", "Jane", "student", testIssuer, testKey, -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := Inspect(token)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if !claims.Expired(time.Now()) {
		t.Error("stale token not reported expired")
	}
}

func TestInspect_Garbage_Fails(t *testing.T) {
	if _, err := Inspect("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
