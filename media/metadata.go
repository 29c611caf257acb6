package media

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

type Metadata struct {
	Width       *int
	Height      *int
	TakenAt     *int64 // Unix timestamp
	CameraMake  *string
	CameraModel *string
}

// helper to safely get a string tag, trimming null terminators
func getString(exifData *exif.Exif, tagName exif.FieldName) *string {
	tag, err := exifData.Get(tagName)
	if err != nil || tag == nil {
		return nil
	}
	val := strings.Trim(strings.TrimRight(tag.String(), "\x00"), "\"")
	if val == "" {
		return nil
	}
	return &val
}

// ExtractMetadata pulls dimensions and, when present, EXIF capture data from
// an uploaded image. Missing or unreadable EXIF is normal (screenshots, PNGs)
// and is not an error; only an undecodable image fails.
func ExtractMetadata(data []byte) (*Metadata, error) {
	meta := &Metadata{}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	meta.Width = &cfg.Width
	meta.Height = &cfg.Height

	exifData, err := exif.Decode(bytes.NewReader(data))
	if err != nil || exifData == nil {
		return meta, nil
	}

	if taken, err := exifData.DateTime(); err == nil {
		ts := taken.Unix()
		meta.TakenAt = &ts
	}
	meta.CameraMake = getString(exifData, exif.Make)
	meta.CameraModel = getString(exifData, exif.Model)

	return meta, nil
}
