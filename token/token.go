// Package token derives and validates the QR check-in credential: an
// opaque 64-character lowercase hex string bound to a participant at
// creation time.
package token

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

var tokenPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// Generate derives a fresh token for a participant. The uuid component
// carries the entropy; event id, email and timestamp are mixed in but the
// hash output is what matters: unguessable, fixed-length, URL-safe.
func Generate(eventID, email string) string {
	data := fmt.Sprintf("%s:%s:%d:%s", eventID, email, time.Now().UnixNano(), uuid.NewString())
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// Validate is a syntax check only. It does not confirm the token exists.
func Validate(token string) bool {
	return tokenPattern.MatchString(token)
}
