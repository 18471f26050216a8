package domain

import (
	"crypto/rand"
	"strings"
	"time"
)

const (
	passwordPrefixLen = 3
	passwordFiller    = 'X'
	passwordSuffixLen = 2
	base36Alphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GeneratePassword derives a one-time login secret for the admin user created
// during conversion. Shape: three uppercase letters from the company name,
// the date as DDMMYY, and a two-character random base36 suffix. Company names
// with fewer than three alphabetic characters are padded with 'X'; the
// function never fails.
func GeneratePassword(companyName string, now time.Time) string {
	var b strings.Builder
	b.Grow(passwordPrefixLen + 6 + passwordSuffixLen)

	for _, r := range companyName {
		if b.Len() == passwordPrefixLen {
			break
		}
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		}
	}
	for b.Len() < passwordPrefixLen {
		b.WriteByte(passwordFiller)
	}

	b.WriteString(now.Format("020106"))

	raw := make([]byte, passwordSuffixLen)
	if _, err := rand.Read(raw); err != nil {
		// crypto/rand failure is unrecoverable noise; fall back to fillers
		// rather than failing conversion over a cosmetic suffix.
		for range raw {
			b.WriteByte(passwordFiller)
		}
		return b.String()
	}
	for _, v := range raw {
		b.WriteByte(base36Alphabet[int(v)%len(base36Alphabet)])
	}

	return b.String()
}
