package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateHandle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		handle string
		ok     bool
	}{
		{name: "valid", handle: "alice", ok: true},
		{name: "valid with digits", handle: "smith1234", ok: true},
		{name: "inner underscore", handle: "big_bob", ok: true},
		{name: "too short", handle: "ab", ok: false},
		{name: "minimum length", handle: "abc", ok: true},
		{name: "maximum length", handle: "abcdefghijklmnopqrstuvwx", ok: true},
		{name: "too long", handle: "abcdefghijklmnopqrstuvwxy", ok: false},
		{name: "uppercase", handle: "Alice", ok: false},
		{name: "hyphen", handle: "big-bob", ok: false},
		{name: "space", handle: "big bob", ok: false},
		{name: "leading underscore", handle: "_bob", ok: false},
		{name: "trailing underscore", handle: "bob_", ok: false},
		{name: "reserved admin", handle: "admin", ok: false},
		{name: "reserved signup", handle: "signup", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateHandle(tc.handle)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateEmail("alice@example.com"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("Alice <alice@example.com>"))
}
