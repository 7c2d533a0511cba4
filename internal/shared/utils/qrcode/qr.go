package qrcode

import (
	"bytes"
	"image/png"

	qr "github.com/skip2/go-qrcode"
)

const DefaultSize = 256

// PNG encodes content as a QR code image of size x size pixels
func PNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	code, err := qr.New(content, qr.Medium)
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, code.Image(size)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
