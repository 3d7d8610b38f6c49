package products

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

const maxImageWidth = 800

// Optimize downscales PNG and JPEG files wider than maxImageWidth, keeping
// the aspect ratio, and re-encodes them as JPEG under a fresh name. Other
// files, and images already narrow enough, are returned unchanged.
func Optimize(f LocalFile) (LocalFile, error) {
	var (
		img image.Image
		err error
	)
	switch strings.ToLower(filepath.Ext(f.Name)) {
	case ".png":
		img, err = png.Decode(bytes.NewReader(f.Data))
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(bytes.NewReader(f.Data))
	default:
		return f, nil
	}
	if err != nil {
		return f, fmt.Errorf("decode %s: %w", f.Name, err)
	}
	if img.Bounds().Dx() <= maxImageWidth {
		return f, nil
	}

	resized := resize.Resize(maxImageWidth, 0, img, resize.Lanczos3)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 80}); err != nil {
		return f, fmt.Errorf("encode %s: %w", f.Name, err)
	}
	return LocalFile{Name: uuid.NewString() + ".jpg", Data: buf.Bytes()}, nil
}
