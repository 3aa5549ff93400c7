// Package util provides common utility functions.
package util

import (
	"fmt"
	"regexp"
	"strings"
)

// Matches a canonical institutional student ID, e.g. "TUPM-25-0417".
var tupIDRe = regexp.MustCompile(`^TUPM-\d{2}-\d{4}$`)

// NormalizeTUPID converts user input to a canonical TUP student ID.
// The canonical form is the identity key for students.
//
// Normalization rules:
//  1. Trim whitespace and uppercase
//  2. Validate against TUPM-YY-NNNN
//
// Examples:
//
//	"tupm-25-0417"   → "TUPM-25-0417"
//	" TUPM-25-0417 " → "TUPM-25-0417"
//	"25-0417"        → error
func NormalizeTUPID(input string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(input))
	if !tupIDRe.MatchString(s) {
		return "", fmt.Errorf("invalid TUP ID %q (expected TUPM-YY-NNNN)", input)
	}
	return s, nil
}
