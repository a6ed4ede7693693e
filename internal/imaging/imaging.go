// Package imaging processes uploaded item photos: validation, downscaling,
// re-encoding, and a privacy blur for postings that hide detail until a
// claim is verified.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

// MaxDimension is the maximum width or height for stored images.
const MaxDimension = 1024

// JPEGQuality is the compression quality for JPEG output.
const JPEGQuality = 85

// Blur parameters: the image is collapsed to a handful of pixels and
// stretched back, so no text or distinctive detail survives.
const (
	blurCoreDimension   = 12
	blurOutputDimension = 512
	blurJPEGQuality     = 70
)

// AllowedMIME lists the accepted input MIME types.
var AllowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// ProcessResult contains the processed image data.
type ProcessResult struct {
	Data []byte
	MIME string
}

// Process reads image data, validates the format by sniffing bytes,
// downscales if larger than MaxDimension, and re-encodes with compression.
// Always outputs JPEG for consistency and smaller file sizes.
func Process(r io.Reader) (*ProcessResult, error) {
	img, err := decode(r)
	if err != nil {
		return nil, err
	}

	img = scaleToFit(img, MaxDimension, draw.CatmullRom)
	return encodeJPEG(img, JPEGQuality)
}

// Blur produces a heavily blurred, downscaled rendition for privacy
// previews. Finders can show that a photo exists without revealing the
// detail a false claimant could parrot back.
func Blur(r io.Reader) (*ProcessResult, error) {
	img, err := decode(r)
	if err != nil {
		return nil, err
	}

	// Collapse to a tiny core, then smoothly stretch back up.
	core := scaleToFit(img, blurCoreDimension, draw.ApproxBiLinear)
	blurred := scaleUp(core, blurOutputDimension)
	return encodeJPEG(blurred, blurJPEGQuality)
}

func decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}

	// Sniff actual MIME type from bytes (not trusting client headers).
	detected := http.DetectContentType(data)
	if !AllowedMIME[detected] {
		return nil, fmt.Errorf("unsupported image format: %s (only JPEG and PNG accepted)", detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

func encodeJPEG(img image.Image, quality int) (*ProcessResult, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}
	return &ProcessResult{Data: buf.Bytes(), MIME: "image/jpeg"}, nil
}

// scaleToFit resizes the image so neither dimension exceeds maxDim,
// preserving aspect ratio. Returns the original if already within bounds.
func scaleToFit(img image.Image, maxDim int, scaler draw.Scaler) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := fitDimensions(w, h, maxDim)
	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	scaler.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// scaleUp stretches the image so its longer dimension equals dim.
func scaleUp(img image.Image, dim int) image.Image {
	bounds := img.Bounds()
	newW, newH := fitDimensions(bounds.Dx(), bounds.Dy(), dim)
	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// fitDimensions scales (w, h) so the longer side equals dim.
func fitDimensions(w, h, dim int) (int, int) {
	newW, newH := w, h
	if w > h {
		newW = dim
		newH = h * dim / w
	} else {
		newH = dim
		newW = w * dim / h
	}

	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	return newW, newH
}

func init() {
	// Register decoders (jpeg is registered by default, but be explicit).
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
