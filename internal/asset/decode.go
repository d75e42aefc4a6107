package asset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/webp"
)

var (
	ErrInvalidFileType = errors.New("not an image file")
	ErrDecode          = errors.New("decode image")
	ErrTooLarge        = errors.New("upload too large")
)

// UserMessage returns the short inline message shown for an upload error.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidFileType):
		return "Please select an image file"
	case errors.Is(err, ErrDecode):
		return "Failed to load image. Please try another file."
	default:
		return "Upload failed"
	}
}

// Validate sniffs the content and returns its MIME type. Non-images are
// rejected before any decode is attempted.
func Validate(data []byte) (string, error) {
	if !filetype.IsImage(data) {
		return "", ErrInvalidFileType
	}
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return "", ErrInvalidFileType
	}
	return kind.MIME.Value, nil
}

// Decode decodes PNG, JPEG, GIF or WebP bytes.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrDecode)
	}
	return img, nil
}

// Result is the outcome of an asynchronous decode.
type Result struct {
	Ref   string
	Image image.Image
	Err   error
}

// DecodeAsync decodes data on its own goroutine and calls done with the
// result unless ctx is cancelled first. done is called at most once.
func DecodeAsync(ctx context.Context, ref string, data []byte, done func(Result)) {
	go func() {
		img, err := Decode(data)
		select {
		case <-ctx.Done():
		default:
			done(Result{Ref: ref, Image: img, Err: err})
		}
	}()
}
