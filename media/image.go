package media

import (
	"bytes"
	"fmt"
	"image"
	"net/http"

	"github.com/disintegration/imaging"
)

// content types accepted for upload, mapped to the extension used for the
// stored blob filename
var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/bmp":  ".bmp",
	"image/tiff": ".tiff",
}

// SniffImage detects the payload's content type and reports whether it is an
// accepted image format. The returned extension includes the dot.
func SniffImage(data []byte) (contentType, ext string, ok bool) {
	contentType = http.DetectContentType(data)
	ext, ok = allowedContentTypes[contentType]
	return contentType, ext, ok
}

// Decode fully decodes an uploaded image, proving it is a real image and not
// just a payload with a plausible magic number.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Thumbnail scales img down to fit within maxSize on its longest side and
// returns it JPEG-encoded.
func Thumbnail(img image.Image, maxSize int) ([]byte, error) {
	thumb := imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
