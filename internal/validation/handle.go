// Package validation checks user-supplied identifiers before they are stored.
package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

var handleRegex = regexp.MustCompile(`^[a-z0-9_]{3,24}$`)

// Handles that would shadow API paths or look official.
var reservedHandles = map[string]struct{}{
	"admin":         {},
	"api":           {},
	"health":        {},
	"login":         {},
	"metrics":       {},
	"notifications": {},
	"scream":        {},
	"screams":       {},
	"signup":        {},
	"user":          {},
}

// ValidateHandle validates handle format and reserved names.
func ValidateHandle(handle string) error {
	if !handleRegex.MatchString(handle) {
		return fmt.Errorf("handle must be 3-24 characters and contain only lowercase letters, numbers, and underscores")
	}

	if strings.HasPrefix(handle, "_") || strings.HasSuffix(handle, "_") {
		return fmt.Errorf("handle cannot start or end with an underscore")
	}

	if _, exists := reservedHandles[handle]; exists {
		return fmt.Errorf("handle is reserved")
	}

	return nil
}

// ValidateEmail accepts a bare address such as "alice@example.com".
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("must be a valid email address")
	}
	return nil
}
