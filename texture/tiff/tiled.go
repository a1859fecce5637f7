package tiff

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/exp/mmap"
)

// tileCacheSize bounds decompressed tiles held in memory. Equirectangular
// sampling walks tiles in longitude order, so a couple of rows of 256px
// tiles covers the working set.
const tileCacheSize = 200

type tiledTiff struct {
	header tiffHeader
	reader *mmap.ReaderAt
	cache  *lru.Cache // tileIndex -> []byte
}

// LoadTiledTiff opens a tile-layout TIFF (uncompressed or deflate) as a
// lazily sampled image.Image. Tiles are decompressed on first touch and
// kept in an LRU cache.
func LoadTiledTiff(path string) (image.Image, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}

	header, err := parseTiffHeader(reader)
	if err != nil {
		return nil, err
	}

	if header.Compression != CompressionNone && header.Compression != CompressionDeflate {
		return nil, errors.New("tiled: unsupported compression")
	}
	if err := checkPixelFormat(header); err != nil {
		return nil, err
	}
	if header.TileWidth <= 0 || header.TileHeight <= 0 {
		return nil, ErrInvalidTiffHeader
	}
	if len(header.TileOffsets) == 0 || len(header.TileOffsets) != len(header.TileByteCounts) {
		return nil, errors.New("tiled: invalid tile offset/length")
	}

	cache, _ := lru.New(tileCacheSize)

	return &tiledTiff{
		header: header,
		reader: reader,
		cache:  cache,
	}, nil
}

func (t *tiledTiff) ColorModel() color.Model {
	return color.RGBAModel
}

func (t *tiledTiff) Bounds() image.Rectangle {
	return image.Rect(0, 0, t.header.Width, t.header.Height)
}

func (t *tiledTiff) At(x, y int) color.Color {
	h := t.header

	tileX := x / h.TileWidth
	tileY := y / h.TileHeight
	tilesAcross := int(math.Ceil(float64(h.Width) / float64(h.TileWidth)))
	tileIndex := tileY*tilesAcross + tileX

	var tile []byte
	if val, ok := t.cache.Get(tileIndex); ok {
		tile = val.([]byte)
	} else {
		var err error
		tile, err = t.loadTile(tileIndex)
		if err != nil {
			return color.RGBA{}
		}
		t.cache.Add(tileIndex, tile)
	}

	localX := x % h.TileWidth
	localY := y % h.TileHeight
	rowStride := h.TileWidth * h.SamplesPerPixel
	pixOffset := localY*rowStride + localX*h.SamplesPerPixel
	if pixOffset+h.SamplesPerPixel > len(tile) {
		return color.RGBA{}
	}

	switch h.Photometric {
	case PhotometricRGB:
		return color.RGBA{
			R: tile[pixOffset],
			G: tile[pixOffset+1],
			B: tile[pixOffset+2],
			A: 255,
		}
	default: // BlackIsZero, validated at load
		v := tile[pixOffset]
		return color.RGBA{R: v, G: v, B: v, A: 255}
	}
}

func (t *tiledTiff) loadTile(index int) ([]byte, error) {
	h := t.header
	offset := h.TileOffsets[index]
	byteCount := h.TileByteCounts[index]

	buf := make([]byte, byteCount)
	if _, err := t.reader.ReadAt(buf, int64(offset)); err != nil {
		return nil, fmt.Errorf("read tile %d: %w", index, err)
	}

	if h.Compression == CompressionNone {
		return buf, nil
	}

	zr, err := zlib.NewReader(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("open tile %d: %w", index, err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("inflate tile %d: %w", index, err)
	}
	return raw, nil
}
