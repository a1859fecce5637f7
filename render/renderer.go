// Package render is a software host for the globe component: it raycasts
// the sphere on the CPU and runs the component's fragment formula per
// pixel, so frames can be produced headlessly (tests, stills, the preview
// server) without a GPU context.
package render

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/echoflaresat/earthglobe/colors"
	"github.com/echoflaresat/earthglobe/globe"
	"github.com/echoflaresat/earthglobe/texture"
	"github.com/echoflaresat/earthglobe/vectors"
)

// Options controls output size and quality.
type Options struct {
	// Size is the output width and height in pixels. Default 640.
	Size int
	// Supersample is the n in n×n samples per pixel. Default 3.
	Supersample int
	// Workers bounds the number of concurrently rendered rows. Default
	// GOMAXPROCS.
	Workers int
	// MaxTextureWidth downscales loaded textures to at most this width.
	// Zero keeps the source resolution.
	MaxTextureWidth int
}

// Renderer renders frames of one globe. It loads the globe's textures at
// construction, standing in for the host framework's loading facility.
type Renderer struct {
	cam   Camera
	opts  Options
	day   texture.Texture
	night texture.Texture
}

// New loads the globe's day and night textures and prepares a renderer.
func New(g *globe.Globe, cam Camera, opts Options) (*Renderer, error) {
	if opts.Size == 0 {
		opts.Size = 640
	}
	if opts.Supersample == 0 {
		opts.Supersample = 3
	}
	if opts.Workers == 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}

	day, err := texture.Load(g.Options().DayTexture)
	if err != nil {
		return nil, fmt.Errorf("day texture: %w", err)
	}
	night, err := texture.Load(g.Options().NightTexture)
	if err != nil {
		return nil, fmt.Errorf("night texture: %w", err)
	}
	if opts.MaxTextureWidth > 0 {
		day = day.Downscale(opts.MaxTextureWidth)
		night = night.Downscale(opts.MaxTextureWidth)
	}

	return &Renderer{cam: cam, opts: opts, day: day, night: night}, nil
}

// Size returns the output resolution in pixels.
func (r *Renderer) Size() int {
	return r.opts.Size
}

// Frame renders the globe in its current state (rotation and sun uniform
// as of the last Advance). The globe is only read; rows render in
// parallel.
func (r *Renderer) Frame(g *globe.Globe) (*image.NRGBA, error) {
	size := r.opts.Size
	radius := g.Options().Size
	rotation := g.Rotation()
	sunDir := g.SunDirection()

	offsets := GenerateSupersamplingOffsets(r.opts.Supersample)
	invN := 1.0 / float64(len(offsets))

	img := image.NewNRGBA(image.Rect(0, 0, size, size))

	var eg errgroup.Group
	eg.SetLimit(r.opts.Workers)
	for y := 0; y < size; y++ {
		eg.Go(func() error {
			for x := 0; x < size; x++ {
				var accum colors.Color4
				for _, off := range offsets {
					rayDir := r.cam.ComputeRay(float64(x)+off[0], float64(y)+off[1], size, size)
					accum = accum.Add(r.shadeRay(rayDir, radius, rotation, sunDir))
				}
				img.SetNRGBA(x, y, accum.Scale(invN).Clamp01().ToNRGBA())
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return img, nil
}

func (r *Renderer) shadeRay(rayDir vectors.Vec3, radius, rotation float64, sunDir vectors.Vec3) colors.Color4 {
	t := intersectSphere(r.cam.Position, rayDir, radius)
	if t < 0 {
		return colors.Black()
	}

	hit := r.cam.Position.Add(rayDir.Scale(t))
	normal := hit.Normalize()
	view := rayDir.Scale(-1)

	u, v := sphereUV(normal, rotation)
	day := r.day.SampleUV(u, v)
	night := r.night.SampleUV(u, v)

	return globe.Shade(day, night, normal, view, sunDir)
}

// sphereUV maps a unit surface normal to equirectangular texture
// coordinates, undoing the mesh's accumulated rotation so the texture
// spins with the globe.
func sphereUV(n vectors.Vec3, rotation float64) (float64, float64) {
	lon := math.Atan2(n.X, n.Z) - rotation
	u := math.Mod(lon/(2.0*math.Pi), 1.0)
	if u < 0 {
		u += 1.0
	}

	y := n.Y
	if y > 1 {
		y = 1
	} else if y < -1 {
		y = -1
	}
	v := math.Acos(y) / math.Pi

	return u, v
}

// GenerateSupersamplingOffsets returns n×n offsets in [-0.5, +0.5] for
// supersampling, as pairs (dx, dy) with pixel-center spacing.
func GenerateSupersamplingOffsets(n int) [][2]float64 {
	if n <= 0 {
		return nil
	}
	step := 1.0 / float64(n)
	out := make([][2]float64, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			dx := (float64(i)+0.5)*step - 0.5
			dy := (float64(j)+0.5)*step - 0.5
			out = append(out, [2]float64{dx, dy})
		}
	}
	return out
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return (&png.Encoder{CompressionLevel: png.BestSpeed}).Encode(f, img)
}
