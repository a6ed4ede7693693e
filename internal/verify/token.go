// Package verify implements claim verification: claim tokens, verification
// questions, the quick quiz, and heuristic answer scoring.
package verify

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/erazemk/najdeno/internal/model"
)

// Verification error sentinels. Callers branch on these with errors.Is;
// none of them is fatal.
var (
	ErrInvalidToken          = errors.New("invalid claim token")
	ErrExpiredToken          = errors.New("claim token expired")
	ErrMissingRequiredAnswer = errors.New("required answer missing")
)

// tokenPrefixes is the fixed set of claim token prefixes.
var tokenPrefixes = []string{"ITM", "CLM", "TKN", "REF", "VRF", "SEC"}

const (
	suffixCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	suffixLength  = 6

	// DefaultExpiryDays is the claim token lifetime when none is given.
	DefaultExpiryDays = 7
)

// Token is an issued claim token. Expiry is set only when requested.
type Token struct {
	Value  string     `json:"token"`
	Expiry *time.Time `json:"expiry,omitempty"`
}

// Issuer generates claim tokens. The zero value uses crypto/rand and the
// wall clock; both sources are injectable for tests.
type Issuer struct {
	Rand io.Reader
	Now  func() time.Time
}

// Issue generates a token of the form PREFIX-SUFFIX, where PREFIX is drawn
// from a fixed set and SUFFIX is six uppercase alphanumeric characters.
// With expiry, the token expires days from now (DefaultExpiryDays if days
// is not positive).
func (i Issuer) Issue(withExpiry bool, days int) (Token, error) {
	src := i.Rand
	if src == nil {
		src = rand.Reader
	}

	prefix, err := randomIndex(src, len(tokenPrefixes))
	if err != nil {
		return Token{}, fmt.Errorf("picking token prefix: %w", err)
	}

	suffix := make([]byte, suffixLength)
	for j := range suffix {
		n, err := randomIndex(src, len(suffixCharset))
		if err != nil {
			return Token{}, fmt.Errorf("generating token suffix: %w", err)
		}
		suffix[j] = suffixCharset[n]
	}

	token := Token{Value: tokenPrefixes[prefix] + "-" + string(suffix)}

	if withExpiry {
		if days <= 0 {
			days = DefaultExpiryDays
		}
		now := time.Now
		if i.Now != nil {
			now = i.Now
		}
		expiry := now().UTC().AddDate(0, 0, days)
		token.Expiry = &expiry
	}

	return token, nil
}

func randomIndex(src io.Reader, n int) (int64, error) {
	v, err := rand.Int(src, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return v.Int64(), nil
}

// CheckToken verifies a presented token against the item's stored claim
// token. A missing stored token or expiry is an invalid token, not an
// error condition; claim flows for items without a token must not call
// this at all.
func CheckToken(token string, item model.Item, now time.Time) error {
	if item.ClaimToken == "" || item.ClaimTokenExpiry == nil {
		return ErrInvalidToken
	}
	if token != item.ClaimToken {
		return ErrInvalidToken
	}
	if !now.Before(*item.ClaimTokenExpiry) {
		return ErrExpiredToken
	}
	return nil
}

// ValidateToken reports whether the presented token is currently valid for
// the item.
func ValidateToken(token string, item model.Item, now time.Time) bool {
	return CheckToken(token, item, now) == nil
}
