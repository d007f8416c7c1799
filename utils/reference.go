package utils

import (
	"crypto/rand"
	"errors"
	"math/big"
	"os"
	"regexp"
	"strings"
)

// EnvOrDefault returns ENV value or fallback default.
func EnvOrDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

const referenceCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateReferenceCode builds a human-shareable reservation reference
// like "HZ-K4DM-93XF". Uses crypto/rand + math/big to avoid modulo bias;
// the charset drops easily confused characters (0/O, 1/I).
func GenerateReferenceCode() (string, error) {
	raw, err := randomCode(8)
	if err != nil {
		return "", err
	}
	return "HZ-" + raw[:4] + "-" + raw[4:], nil
}

func randomCode(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("invalid length")
	}
	var sb strings.Builder
	alphaLen := big.NewInt(int64(len(referenceCharset)))
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, alphaLen)
		if err != nil {
			return "", err
		}
		sb.WriteByte(referenceCharset[num.Int64()])
	}
	return sb.String(), nil
}

var referencePattern = regexp.MustCompile(`^HZ-[A-Z2-9]{4}-[A-Z2-9]{4}$`)

// IsValidReferenceFormat checks "HZ-XXXX-XXXX".
func IsValidReferenceFormat(ref string) bool {
	return referencePattern.MatchString(strings.ToUpper(strings.TrimSpace(ref)))
}

// NormalizeReference uppercases and trims a user-typed reference.
func NormalizeReference(ref string) string {
	return strings.ToUpper(strings.TrimSpace(ref))
}
