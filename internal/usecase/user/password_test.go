package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		pw string
		ok bool
	}{
		{"correct-horse", true},
		{"Tr1cky!Pass", true},
		{"short", false},
		{"PASSWORD", false},
		{"football", false},
		{"aaaaaaaaaa", false},
		{"23456789", false},
		{"98765432", false},
		{"24681357", true},
	}
	for _, tt := range tests {
		t.Run(tt.pw, func(t *testing.T) {
			err := ValidatePassword(tt.pw)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
