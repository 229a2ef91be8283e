// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package scan

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

const maxUploadSize = 10 << 20

var (
	ErrNoFrame  = errors.New("no frame available")
	ErrNoCode   = errors.New("no qr code found in image")
	ErrBadImage = errors.New("image could not be decoded")
)

var _ Decoder = (*QRDecoder)(nil)

// QRDecoder reads QR codes with gozxing. Not safe for concurrent use.
type QRDecoder struct {
	reader gozxing.Reader
	hints  map[gozxing.DecodeHintType]interface{}
}

func (d *QRDecoder) Decode(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadImage, err)
	}

	result, err := d.reader.Decode(bmp, d.hints)
	if err != nil {
		var readerErr gozxing.ReaderException
		if errors.As(err, &readerErr) {
			return "", ErrNoCode
		}
		return "", fmt.Errorf("failed to decode qr code: %w", err)
	}

	return strings.TrimSpace(result.GetText()), nil
}

func NewQRDecoder() *QRDecoder {
	d := new(QRDecoder)

	d.reader = qrcode.NewQRCodeReader()
	d.hints = map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}

	return d
}

// DecodeImage is the fallback for a still uploaded by hand, when no live
// camera is available.
func DecodeImage(r io.Reader, decoder Decoder) (string, error) {
	img, _, err := image.Decode(io.LimitReader(r, maxUploadSize))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadImage, err)
	}

	return decoder.Decode(img)
}

// TokenFromText accepts either a bare token or a landing link and returns the
// token.
func TokenFromText(text string) string {
	text = strings.TrimSpace(text)

	if i := strings.LastIndex(text, "/qr/"); i >= 0 {
		text = text[i+len("/qr/"):]
	}

	if i := strings.IndexAny(text, "?#/"); i >= 0 {
		text = text[:i]
	}

	return text
}
