package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPresent(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"empty", "", false},
		{"spaces", "   ", false},
		{"tabs and newlines", " \t\n ", false},
		{"student id", "R123456", true},
		{"padded student id", "  R123456  ", true},
		{"single character", "x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPresent(tt.input))
		})
	}
}
