// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package scan

import (
	"context"
	"image"
)

// FrameSource abstracts the camera. NextFrame returns ErrNoFrame when nothing
// new is available yet.
type FrameSource interface {
	NextFrame(ctx context.Context) (image.Image, error)
	Close() error
}

// Decoder extracts the text of a QR code, or ErrNoCode.
type Decoder interface {
	Decode(img image.Image) (string, error)
}
