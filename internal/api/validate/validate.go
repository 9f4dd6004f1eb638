// Package validate holds request-level validation helpers shared by
// the HTTP handlers.
package validate

import (
	"fmt"
	"regexp"
	"strings"
)

// UserID must be lowercase letters, digits, underscore, 1-20 chars
var userIdRx = regexp.MustCompile(`^[a-z0-9_]{1,20}$`)

// UserID validates an explicit user identifier from a request body.
func UserID(v string) error {
	if !userIdRx.MatchString(v) {
		return fmt.Errorf("user_id must match %s", userIdRx.String())
	}
	return nil
}

// NonEmpty rejects empty or whitespace-only values.
func NonEmpty(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// MaxLen bounds a field's byte length.
func MaxLen(field, v string, limit int) error {
	if len(v) > limit {
		return fmt.Errorf("%s exceeds %d characters", field, limit)
	}
	return nil
}
