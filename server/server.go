// Package server streams rendered globe frames over a websocket for
// visual calibration of the shading constants against real textures. Each
// client gets its own globe instance and frame loop, so connections never
// share mutable state.
package server

import (
	"bytes"
	"image/png"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/echoflaresat/earthglobe/globe"
	"github.com/echoflaresat/earthglobe/render"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local preview tool
	},
}

// Server accepts websocket clients on /ws and pushes them frames.
type Server struct {
	globeOpts  globe.Options
	renderOpts render.Options
	cam        render.Camera
	interval   time.Duration
}

// New prepares a server. fps bounds the frame rate per client.
func New(globeOpts globe.Options, renderOpts render.Options, cam render.Camera, fps int) *Server {
	if fps <= 0 {
		fps = 30
	}
	return &Server{
		globeOpts:  globeOpts,
		renderOpts: renderOpts,
		cam:        cam,
		interval:   time.Second / time.Duration(fps),
	}
}

// Handler returns the HTTP handler serving websocket clients on /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// ListenAndServe blocks serving websocket clients on addr.
func (s *Server) ListenAndServe(addr string) error {
	zap.L().Info("preview server listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, s.Handler())
}

// state is the JSON message sent after every frame.
type state struct {
	Type     string     `json:"type"`
	Frame    int        `json:"frame"`
	Rotation float64    `json:"rotation"`
	Sun      [3]float64 `json:"sun"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	log := zap.L().With(zap.String("client", conn.RemoteAddr().String()))

	g, err := globe.New(s.globeOpts)
	if err != nil {
		log.Error("globe setup failed", zap.Error(err))
		return
	}
	rend, err := render.New(g, s.cam, s.renderOpts)
	if err != nil {
		log.Error("renderer setup failed", zap.Error(err))
		return
	}

	// Drain incoming messages; a read error means the client is gone.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	log.Info("client connected")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	frame := 0
	for {
		select {
		case <-done:
			log.Info("client disconnected", zap.Int("frames", frame))
			return
		case <-ticker.C:
		}

		g.Advance()
		img, err := rend.Frame(g)
		if err != nil {
			log.Error("render failed", zap.Error(err))
			return
		}

		var buf bytes.Buffer
		if err := (&png.Encoder{CompressionLevel: png.BestSpeed}).Encode(&buf, img); err != nil {
			log.Error("png encode failed", zap.Error(err))
			return
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, buf.Bytes()); err != nil {
			log.Info("client write failed", zap.Error(err))
			return
		}

		sun := g.SunDirection()
		msg := state{
			Type:     "state",
			Frame:    frame,
			Rotation: g.Rotation(),
			Sun:      [3]float64{sun.X, sun.Y, sun.Z},
		}
		if err := conn.WriteJSON(msg); err != nil {
			log.Info("client write failed", zap.Error(err))
			return
		}
		frame++
	}
}
