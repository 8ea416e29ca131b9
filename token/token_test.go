package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateFormat(t *testing.T) {
	tok := Generate("event-1", "alice@example.com")
	assert.Len(t, tok, 64)
	assert.True(t, Validate(tok))
}

func TestGenerateUnique(t *testing.T) {
	a := Generate("event-1", "alice@example.com")
	b := Generate("event-1", "alice@example.com")
	assert.NotEqual(t, a, b)
}

func TestValidate(t *testing.T) {
	valid := strings.Repeat("ab12", 16)

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"valid lowercase hex", valid, true},
		{"all zeros", strings.Repeat("0", 64), true},
		{"too short", valid[:63], false},
		{"too long", valid + "a", false},
		{"uppercase hex", strings.ToUpper(valid), false},
		{"non-hex character", strings.Repeat("g", 64), false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.token))
		})
	}
}
