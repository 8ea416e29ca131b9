package qr

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkin-backend/token"
)

func TestCheckInURL(t *testing.T) {
	r := NewRenderer("http://localhost:3000")
	tok := token.Generate("event-1", "alice@example.com")

	assert.Equal(t, "http://localhost:3000/checkin?token="+tok, r.CheckInURL(tok))
}

func TestDataURL(t *testing.T) {
	r := NewRenderer("http://localhost:3000")

	dataURL, err := r.DataURL(token.Generate("event-1", "alice@example.com"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dataURL, "data:image/png;base64,"))
	assert.Greater(t, len(dataURL), len("data:image/png;base64,"))
}
