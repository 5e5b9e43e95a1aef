package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"ok", "Passw0rd!", true},
		{"minimum length", "abc1@xy", true},
		{"too short", "ab1@xz", false},
		{"no digit", "Password!", false},
		{"no letter", "1234567!", false},
		{"no symbol", "Passw0rd", false},
		{"contains space", "Pass w0rd!", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidPassword(tt.password))
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"ok", "a@test.com", true},
		{"bare at", "a@b", true},
		{"no at", "test.com", false},
		{"contains space", "a @test.com", false},
		{"too short", "@", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidEmail(tt.email))
		})
	}
}
