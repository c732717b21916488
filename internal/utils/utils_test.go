package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecureToken(t *testing.T) {
	a, err := GenerateSecureToken(32)
	require.NoError(t, err)
	b, err := GenerateSecureToken(32)
	require.NoError(t, err)

	assert.Len(t, a, 43)
	assert.NotEqual(t, a, b)

	_, err = GenerateSecureToken(0)
	assert.Error(t, err)
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"taro@example.com", true},
		{"a.b+c@team.example.jp", true},
		{"no-at-sign.com", false},
		{"taro@localhost", false},
		{"Taro <taro@example.com>", false},
		{"@example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidEmail(tt.email))
		})
	}
}

func TestIsComplexPassword(t *testing.T) {
	assert.True(t, IsComplexPassword("Secret#123"))
	assert.False(t, IsComplexPassword("Sh#1a"), "too short")
	assert.False(t, IsComplexPassword("secret#123"), "no upper")
	assert.False(t, IsComplexPassword("SECRET#123"), "no lower")
	assert.False(t, IsComplexPassword("Secret#abc"), "no digit")
	assert.False(t, IsComplexPassword("Secret1234"), "no symbol")
}
