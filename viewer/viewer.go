// Package viewer runs the globe under ebiten as a concrete interactive
// host: ebiten owns the window and the per-frame loop, the globe supplies
// the update callback and the frame content.
package viewer

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/echoflaresat/earthglobe/globe"
	"github.com/echoflaresat/earthglobe/render"
)

type game struct {
	globe    *globe.Globe
	renderer *render.Renderer
	frame    *ebiten.Image
}

func (g *game) Update() error {
	g.globe.Advance()

	img, err := g.renderer.Frame(g.globe)
	if err != nil {
		return err
	}
	if g.frame == nil {
		g.frame = ebiten.NewImageFromImage(img)
	} else {
		// Frames are fully opaque, so the straight-alpha pixels are
		// valid premultiplied pixels as-is.
		g.frame.WritePixels(img.Pix)
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.frame != nil {
		screen.DrawImage(g.frame, nil)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.renderer.Size(), g.renderer.Size()
}

// Run opens a window and drives the globe until it is closed. Rendering
// happens on the CPU every tick; keep the renderer size and supersampling
// modest.
func Run(gl *globe.Globe, r *render.Renderer, title string) error {
	ebiten.SetWindowSize(r.Size(), r.Size())
	ebiten.SetWindowTitle(title)
	return ebiten.RunGame(&game{globe: gl, renderer: r})
}
