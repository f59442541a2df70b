// Package images provides product image standardization for depot storage.
package images

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/bbrks/go-blurhash"
	"github.com/disintegration/imaging"

	domainerrors "github.com/flyerforge/flyerforge-server/internal/errors"
)

// Quality grades assigned from the original image's resolution.
const (
	QualityHigh   = "high"
	QualityMedium = "medium"
	QualityLow    = "low"
)

// blurHashSize is the thumbnail size for BlurHash computation.
// BlurHash is a low-resolution placeholder; a small thumbnail produces
// nearly identical results in a fraction of the time.
const blurHashSize = 64

// Result is a standardized image ready for depot storage.
type Result struct {
	Data     []byte
	Quality  string
	Width    int
	Height   int
	BlurHash string
}

// Standardizer normalizes uploaded product images: any supported input
// format is decoded, downscaled to fit the dimension ceiling (never
// upscaled), and re-encoded as PNG. A BlurHash placeholder is computed for
// progressive loading in the catalog UI.
type Standardizer struct {
	maxDimension int
	logger       *slog.Logger
}

// NewStandardizer creates a Standardizer with the given dimension ceiling.
func NewStandardizer(maxDimension int, logger *slog.Logger) *Standardizer {
	if maxDimension <= 0 {
		maxDimension = 1024
	}
	return &Standardizer{
		maxDimension: maxDimension,
		logger:       logger,
	}
}

// Standardize decodes, grades, resizes, and re-encodes an image.
// Returns a validation error when the data is not a decodable image.
func (s *Standardizer) Standardize(ctx context.Context, data []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, domainerrors.Validation("image data cannot be empty")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, domainerrors.Validation("invalid image data").WithCause(err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	// Grade quality from the original resolution, before any downscale.
	quality := QualityLow
	minDim := min(width, height)
	switch {
	case minDim >= 1024:
		quality = QualityHigh
	case minDim >= 512:
		quality = QualityMedium
	}

	if width > s.maxDimension || height > s.maxDimension {
		img = imaging.Fit(img, s.maxDimension, s.maxDimension, imaging.Lanczos)
		bounds = img.Bounds()
		width, height = bounds.Dx(), bounds.Dy()
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, domainerrors.IO("encode standardized image", err)
	}

	// BlurHash failure is not fatal; the placeholder is a progressive
	// loading nicety, not part of the stored image.
	hash := ""
	thumb := imaging.Fit(img, blurHashSize, blurHashSize, imaging.NearestNeighbor)
	if hash, err = blurhash.Encode(4, 3, thumb); err != nil {
		if s.logger != nil {
			s.logger.Warn("blurhash computation failed", "error", err)
		}
		hash = ""
	}

	return &Result{
		Data:     buf.Bytes(),
		Quality:  quality,
		Width:    width,
		Height:   height,
		BlurHash: hash,
	}, nil
}
