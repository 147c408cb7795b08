package utils

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"strings"

	"github.com/skip2/go-qrcode"
)

// GenerateQRCode renders content as a PNG QR code of size×size pixels.
func GenerateQRCode(content string, size int) ([]byte, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, qr.Image(size)); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func QRCodeDataURL(content string, size int) (string, error) {
	png, err := GenerateQRCode(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// TableURL is the address a table's QR code points at.
func TableURL(frontendURL string, restaurantID, tableID uint) string {
	return fmt.Sprintf("%s/%d/%d", strings.TrimRight(frontendURL, "/"), restaurantID, tableID)
}
