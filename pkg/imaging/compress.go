package imaging

import (
	"bytes"
	"fmt"

	img "github.com/disintegration/imaging"
)

const (
	startQuality = 95
	qualityStep  = 5
	minQuality   = 5
)

// Compress re-encodes raw image data as JPEG, stepping the quality down
// until the result fits within maxSizeKB. The last attempt is returned
// even if it is still above the limit.
func Compress(data []byte, maxSizeKB int) ([]byte, error) {
	decoded, err := img.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	maxBytes := maxSizeKB * 1024

	var buf bytes.Buffer
	for quality := startQuality; quality > minQuality; quality -= qualityStep {
		buf.Reset()
		if err := img.Encode(&buf, decoded, img.JPEG, img.JPEGQuality(quality)); err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}
		if buf.Len() <= maxBytes {
			break
		}
	}

	return buf.Bytes(), nil
}
