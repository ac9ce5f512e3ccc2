package auth

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strings"
)

// Verification codes are 6 characters drawn from digits and uppercase
// letters, matching what the signup emails ask users to type back.
const (
	CodeLength   = 6
	codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var codeFormat = regexp.MustCompile(`^[0-9A-Z]{6}$`)

// GenerateCode creates a random verification code.
func GenerateCode() (string, error) {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	out := make([]byte, CodeLength)
	for i, b := range buf {
		out[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(out), nil
}

// NormalizeCode uppercases user input and reports whether it is a
// well-formed code. Codes are matched case-insensitively.
func NormalizeCode(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	return code, codeFormat.MatchString(code)
}
