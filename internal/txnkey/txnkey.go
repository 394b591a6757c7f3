package txnkey

import (
	"crypto/md5" //nolint:gosec // identity digest, not a security boundary
	"encoding/hex"
	"errors"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

const (
	separator   = "|"
	slugRunes   = 20
	hashChars   = 8
	fallbackTag = "transaction"
)

// ErrInvalidKey is returned by Split for strings that are not transaction keys.
var ErrInvalidKey = errors.New("invalid transaction key")

// Key returns the stable identifier for a transaction, e.g.
// "LocalMarketPurchas_" followed by 8 hex digits. An empty date is omitted from the digest,
// so the same row with and without a date produces different keys.
func Key(description string, amount decimal.Decimal, date string) string {
	parts := []string{strings.TrimSpace(description), amount.String()}
	if date != "" {
		parts = append(parts, date)
	}

	sum := md5.Sum([]byte(strings.Join(parts, separator))) //nolint:gosec
	return Slug(description) + "_" + hex.EncodeToString(sum[:])[:hashChars]
}

// Slug keeps the URL-safe characters of the first 20 runes of description.
func Slug(description string) string {
	runes := []rune(description)
	if len(runes) > slugRunes {
		runes = runes[:slugRunes]
	}

	var b strings.Builder
	for _, r := range runes {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return fallbackTag
	}
	return b.String()
}

// Split separates a key into its slug and hash parts.
func Split(key string) (slug, hash string, err error) {
	i := strings.LastIndexByte(key, '_')
	if i <= 0 || len(key)-i-1 != hashChars {
		return "", "", ErrInvalidKey
	}
	hash = key[i+1:]
	if _, err := hex.DecodeString(hash); err != nil {
		return "", "", ErrInvalidKey
	}
	return key[:i], hash, nil
}
