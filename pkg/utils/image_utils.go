package utils

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
	"go.uber.org/zap"
)

// ErrUnsupportedImage is returned for content the image package cannot decode.
var ErrUnsupportedImage = errors.New("unsupported image format")

type ImageProcessor struct {
	log     *zap.Logger
	quality int
}

func NewImageProcessor(log *zap.Logger, quality int) *ImageProcessor {
	if quality <= 0 || quality > 100 {
		quality = jpeg.DefaultQuality
	}
	return &ImageProcessor{log: log, quality: quality}
}

// Thumbnail scales a JPEG or PNG to width, keeping the aspect ratio, and
// re-encodes it as JPEG. Images narrower than width are not enlarged.
func (p *ImageProcessor) Thumbnail(data []byte, width uint) ([]byte, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", ErrUnsupportedImage
	}

	if width > 0 && uint(img.Bounds().Dx()) > width {
		img = resize.Resize(width, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, "", err
	}

	p.log.Debug("Image resized",
		zap.String("source_format", format),
		zap.Uint("width", width),
		zap.Int("input_size", len(data)),
		zap.Int("output_size", buf.Len()))

	return buf.Bytes(), "image/jpeg", nil
}
