package gallery

import (
	"bytes"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// Thumbnails fit inside this bounding box, preserving aspect ratio.
const thumbnailSize = 480

// makeThumbnail decodes the uploaded image and re-encodes a downscaled
// JPEG copy.
func makeThumbnail(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	thumb := imaging.Fit(img, thumbnailSize, thumbnailSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// extractTakenAt pulls the capture time out of the image's EXIF data.
// Returns nil when the image carries no usable timestamp.
func extractTakenAt(data []byte) *time.Time {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	t, err := x.DateTime()
	if err != nil {
		return nil
	}

	utc := t.UTC()
	return &utc
}
