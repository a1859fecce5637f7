// Package tiff reads the two raw TIFF layouts NASA Blue Marble imagery
// ships in (striped and tiled) straight off an mmap, without decoding the
// whole multi-hundred-megabyte image up front.
package tiff

import (
	"errors"
	"image"
	"image/color"
	"io"

	"golang.org/x/exp/mmap"
)

type stripedTiff struct {
	header tiffHeader
	reader io.ReaderAt
}

// LoadStripedTiff opens an uncompressed strip-layout TIFF as a lazily
// sampled image.Image backed by the memory-mapped file.
func LoadStripedTiff(path string) (image.Image, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}

	header, err := parseTiffHeader(reader)
	if err != nil {
		return nil, err
	}

	if header.Compression != CompressionNone {
		return nil, errors.New("striped: unsupported compression")
	}
	if err := checkPixelFormat(header); err != nil {
		return nil, err
	}
	if len(header.StripOffsets) == 0 || len(header.StripOffsets) != len(header.StripByteCounts) {
		return nil, errors.New("striped: invalid strip offset/length")
	}

	return &stripedTiff{header: header, reader: reader}, nil
}

func (t *stripedTiff) ColorModel() color.Model {
	return color.RGBAModel
}

func (t *stripedTiff) Bounds() image.Rectangle {
	return image.Rect(0, 0, t.header.Width, t.header.Height)
}

func (t *stripedTiff) At(x, y int) color.Color {
	h := t.header

	strip := y / h.RowsPerStrip
	localY := y % h.RowsPerStrip
	idx := h.StripOffsets[strip] + (localY*h.Width+x)*h.SamplesPerPixel

	switch h.Photometric {
	case PhotometricRGB:
		var buf [3]byte
		if _, err := t.reader.ReadAt(buf[:], int64(idx)); err != nil {
			return color.RGBA{}
		}
		return color.RGBA{R: buf[0], G: buf[1], B: buf[2], A: 255}
	default: // BlackIsZero, validated at load
		var buf [1]byte
		if _, err := t.reader.ReadAt(buf[:], int64(idx)); err != nil {
			return color.RGBA{}
		}
		v := buf[0]
		return color.RGBA{R: v, G: v, B: v, A: 255}
	}
}
