// Package texture loads the globe's surface imagery and samples it by UV
// coordinate. It is the texture facility the host framework is expected to
// provide: the globe component itself never touches files.
package texture

import (
	"errors"
	"fmt"
	"image"
	"math"
	"os"

	etiff "github.com/echoflaresat/tiff"
	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/echoflaresat/earthglobe/colors"
	"github.com/echoflaresat/earthglobe/texture/tiff"

	_ "image/jpeg" // register JPEG format with image.Decode
	_ "image/png"  // register PNG format with image.Decode
)

// Texture is a sampleable RGB image.
type Texture struct {
	Width  int
	Height int
	img    image.Image
}

// Load opens the image at path. TIFFs are tried first because the source
// imagery is huge and the mmap-backed readers avoid decoding it all: raw
// striped layout, then tiled, then the general TIFF codec, then the stdlib
// image codecs.
func Load(path string) (Texture, error) {
	img, err := loadImage(path)
	if err != nil {
		return Texture{}, fmt.Errorf("texture %s: %w", path, err)
	}

	return Texture{
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
		img:    img,
	}, nil
}

func loadImage(path string) (image.Image, error) {
	img, err := tiff.LoadStripedTiff(path)
	if err == nil {
		return img, nil
	}
	if !errors.Is(err, tiff.ErrInvalidTiffHeader) {
		zap.L().Warn("failed to load striped TIFF", zap.String("path", path), zap.Error(err))
	}

	img, err = tiff.LoadTiledTiff(path)
	if err == nil {
		return img, nil
	}
	if !errors.Is(err, tiff.ErrInvalidTiffHeader) {
		zap.L().Warn("failed to load tiled TIFF", zap.String("path", path), zap.Error(err))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if img, err := etiff.Decode(f); err == nil {
		return img, nil
	}

	// fallback to stdlib codecs
	if _, err := f.Seek(0, 0); err != nil {
		return nil, err
	}
	img, _, err = image.Decode(f)
	return img, err
}

// SampleUV returns the color at the given texture coordinate, nearest
// neighbor. u wraps around the horizontal seam; v clamps at the poles.
func (t Texture) SampleUV(u, v float64) colors.Color4 {
	u = math.Mod(u, 1.0)
	if u < 0 {
		u += 1.0
	}
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}

	x := int(u * float64(t.Width))
	if x >= t.Width {
		x = t.Width - 1
	}
	y := int(v * float64(t.Height-1))

	return colors.FromStandardColor(t.img.At(x, y))
}

// Downscale resamples the texture so its width is at most maxWidth,
// preserving aspect ratio. Interactive hosts use it to trade the full
// source resolution for per-frame sampling speed; rendering at or below
// maxWidth output size loses nothing visible.
func (t Texture) Downscale(maxWidth int) Texture {
	if maxWidth <= 0 || t.Width <= maxWidth {
		return t
	}

	h := t.Height * maxWidth / t.Width
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), t.img, t.img.Bounds(), draw.Src, nil)

	return Texture{Width: maxWidth, Height: h, img: dst}
}
