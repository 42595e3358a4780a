// Package imaging turns a local image file into the inline payload attached
// to a new report.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// MaxDimension is the maximum width or height of an attached image.
const MaxDimension = 1024

// JPEGQuality is the compression quality for JPEG output.
const JPEGQuality = 85

// MaxInputBytes caps the size of a file accepted for attachment.
const MaxInputBytes = 20 << 20

// AllowedMIME lists the accepted input MIME types.
var AllowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// ErrCancelled is returned when no image was chosen.
var ErrCancelled = errors.New("image selection cancelled")

// PickError reports an image that could not be attached.
type PickError struct {
	Path string
	Err  error
}

func (e *PickError) Error() string {
	return fmt.Sprintf("attach image %s: %v", e.Path, e.Err)
}

func (e *PickError) Unwrap() error { return e.Err }

// Asset is a selected image: a display URI and the base64 encoding of the
// re-encoded bytes.
type Asset struct {
	URI    string
	Base64 string
	MIME   string
	Width  int
	Height int
}

// DataURI returns the image embedded as a data URI.
func (a Asset) DataURI() string {
	if a.Base64 == "" {
		return ""
	}
	return "data:" + a.MIME + ";base64," + a.Base64
}

// Pick loads the image at path. A blank path means the user cancelled.
func Pick(path string) (Asset, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Asset{}, ErrCancelled
	}
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Asset{}, &PickError{Path: path, Err: err}
	}

	info, err := os.Stat(abs)
	if err != nil {
		return Asset{}, &PickError{Path: abs, Err: err}
	}
	if info.Size() > MaxInputBytes {
		return Asset{}, &PickError{Path: abs, Err: fmt.Errorf("file is %d bytes, limit is %d", info.Size(), MaxInputBytes)}
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return Asset{}, &PickError{Path: abs, Err: err}
	}

	out, bounds, err := Process(data)
	if err != nil {
		return Asset{}, &PickError{Path: abs, Err: err}
	}
	return Asset{
		URI:    (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(),
		Base64: base64.StdEncoding.EncodeToString(out),
		MIME:   "image/jpeg",
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// Process validates the format by sniffing bytes, downscales anything larger
// than MaxDimension and re-encodes as JPEG. It returns the new bytes and the
// output bounds.
func Process(data []byte) ([]byte, image.Rectangle, error) {
	detected := http.DetectContentType(data)
	if !AllowedMIME[detected] {
		return nil, image.Rectangle{}, fmt.Errorf("unsupported image format: %s (only JPEG and PNG accepted)", detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, image.Rectangle{}, fmt.Errorf("decoding image: %w", err)
	}
	img = downscale(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, image.Rectangle{}, fmt.Errorf("encoding JPEG: %w", err)
	}
	return buf.Bytes(), img.Bounds(), nil
}

// downscale resizes img so neither dimension exceeds maxDim, preserving the
// aspect ratio.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}
	newW = max(newW, 1)
	newH = max(newH, 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

