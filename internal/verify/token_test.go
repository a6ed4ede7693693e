package verify

import (
	"bytes"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/erazemk/najdeno/internal/model"
)

var tokenFormat = regexp.MustCompile(`^[A-Z]{3}-[A-Z0-9]{6}$`)

func TestIssueTokenFormat(t *testing.T) {
	var issuer Issuer
	for i := 0; i < 50; i++ {
		token, err := issuer.Issue(false, 0)
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		if !tokenFormat.MatchString(token.Value) {
			t.Errorf("token %q does not match PREFIX-SUFFIX format", token.Value)
		}
		if token.Expiry != nil {
			t.Errorf("expected no expiry, got %v", token.Expiry)
		}
	}
}

func TestIssueTokenDeterministicWithInjectedRand(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	issuer := Issuer{
		Rand: bytes.NewReader(make([]byte, 64)),
		Now:  func() time.Time { return now },
	}

	token, err := issuer.Issue(true, 7)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// An all-zero random source picks the first prefix and charset entry.
	if token.Value != "ITM-AAAAAA" {
		t.Errorf("expected ITM-AAAAAA, got %q", token.Value)
	}
	if token.Expiry == nil || !token.Expiry.Equal(now.AddDate(0, 0, 7)) {
		t.Errorf("expected expiry %v, got %v", now.AddDate(0, 0, 7), token.Expiry)
	}
}

func TestIssueTokenDefaultExpiry(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	issuer := Issuer{Now: func() time.Time { return now }}

	token, err := issuer.Issue(true, 0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token.Expiry == nil || !token.Expiry.Equal(now.AddDate(0, 0, DefaultExpiryDays)) {
		t.Errorf("expected default %d-day expiry, got %v", DefaultExpiryDays, token.Expiry)
	}
}

func TestCheckToken(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name    string
		token   string
		stored  string
		expiry  *time.Time
		wantErr error
	}{
		{"valid", "CLM-ABC123", "CLM-ABC123", &future, nil},
		{"no stored token", "ANY-CODE12", "", nil, ErrInvalidToken},
		{"no expiry", "CLM-ABC123", "CLM-ABC123", nil, ErrInvalidToken},
		{"mismatch", "TKN-WRONG1", "CLM-ABC123", &future, ErrInvalidToken},
		{"expired", "CLM-ABC123", "CLM-ABC123", &past, ErrExpiredToken},
		{"expiry boundary", "CLM-ABC123", "CLM-ABC123", &now, ErrExpiredToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := model.Item{ClaimToken: tt.stored, ClaimTokenExpiry: tt.expiry}
			err := CheckToken(tt.token, item, now)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckToken = %v, want %v", err, tt.wantErr)
			}
			if got := ValidateToken(tt.token, item, now); got != (tt.wantErr == nil) {
				t.Errorf("ValidateToken = %v, want %v", got, tt.wantErr == nil)
			}
		})
	}
}
