// Package qr renders a participant's check-in URL as a QR code image.
package qr

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const imageSize = 400

type Renderer struct {
	baseURL string
}

func NewRenderer(baseURL string) *Renderer {
	return &Renderer{baseURL: baseURL}
}

// CheckInURL is the payload the scanning device reads.
func (r *Renderer) CheckInURL(token string) string {
	return fmt.Sprintf("%s/checkin?token=%s", r.baseURL, token)
}

// DataURL encodes the check-in URL as a PNG QR code and returns it as a
// data URL for direct embedding. Highest error correction so badges
// survive print-and-scan.
func (r *Renderer) DataURL(token string) (string, error) {
	png, err := qrcode.Encode(r.CheckInURL(token), qrcode.Highest, imageSize)
	if err != nil {
		return "", fmt.Errorf("failed to render QR code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
