package imagepkg

import (
	qrcode "github.com/skip2/go-qrcode"
)

const (
	MinQRSize = 64
	MaxQRSize = 1024
)

// GenerateQRPNG returns PNG bytes of a QR code for the given text, with the
// size clamped to [MinQRSize, MaxQRSize].
func GenerateQRPNG(text string, size int) ([]byte, error) {
	size = min(max(size, MinQRSize), MaxQRSize)
	return qrcode.Encode(text, qrcode.Medium, size)
}
