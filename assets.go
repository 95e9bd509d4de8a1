package pagesmith

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

// OptimizeImage decodes an image, scales it down to maxWidth if wider,
// and re-encodes it in its original format (JPEG at the given quality).
// The second return value reports whether the bytes were changed; files
// already within bounds pass through untouched so rebuilds stay
// byte-identical.
func OptimizeImage(src []byte, maxWidth, quality int) ([]byte, bool, error) {
	img, format, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, false, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxWidth {
		return src, false, nil
	}

	newH := h * maxWidth / w
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, dst)
	default:
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return nil, false, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), true, nil
}

// imageExts are the asset extensions the copy step runs through the
// optimizer. Everything else copies verbatim.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// CopyStatic mirrors staticDir into outDir, optimizing raster images on
// the way. A missing static directory is not an error.
func CopyStatic(staticDir, outDir string, cfg SiteConfig) error {
	if _, err := os.Stat(staticDir); os.IsNotExist(err) {
		return nil
	}

	return filepath.WalkDir(staticDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(staticDir, path)
		if err != nil {
			return err
		}
		target := filepath.Join(outDir, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read asset %s: %w", path, err)
		}
		if imageExts[strings.ToLower(filepath.Ext(path))] {
			optimized, changed, err := OptimizeImage(data, cfg.MaxImageWidth, cfg.JPEGQuality)
			if err != nil {
				// Corrupt or exotic images copy verbatim rather than
				// failing the whole build.
				optimized, changed = data, false
			}
			if changed {
				data = optimized
			}
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
}
