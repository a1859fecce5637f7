package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/echoflaresat/earthglobe/globe"
	"github.com/echoflaresat/earthglobe/internal/config"
	"github.com/echoflaresat/earthglobe/internal/logger"
	"github.com/echoflaresat/earthglobe/render"
	"github.com/echoflaresat/earthglobe/server"
	"github.com/echoflaresat/earthglobe/vectors"
	"github.com/echoflaresat/earthglobe/viewer"
)

type cliFlags struct {
	configPath *string

	day, night          *string
	size, speed         *float64
	autoRotate          *bool
	sunMode, sun, timeS *string

	imgSize, supersample  *int
	dist, azim, elev, fov *float64

	out   *string
	serve *string
	fps   *int
	view  *bool

	showHelp *bool
}

func defineFlags() cliFlags {
	return cliFlags{
		configPath: flag.String("config", "", "Path to YAML config file"),

		day:        flag.String("day", "", "Day texture path"),
		night:      flag.String("night", "", "Night texture path"),
		size:       flag.Float64("size", 0, "Globe radius in scene units"),
		speed:      flag.Float64("speed", 0, "Rotation speed in radians per frame"),
		autoRotate: flag.Bool("autorotate", true, "Rotate the globe every frame"),
		sunMode:    flag.String("sunmode", "", "Sun mode: realtime, astro or manual"),
		sun:        flag.String("sun", "", "Manual sun direction as x,y,z (implies -sunmode manual)"),
		timeS:      flag.String("time", "", "Time in RFC3339 format (e.g., 2025-08-02T15:04:05Z); defaults to now"),

		imgSize:     flag.Int("imgsize", 0, "Output image size (width/height in pixels)"),
		supersample: flag.Int("supersample", 0, "Supersampling factor (higher is slower but smoother)"),
		dist:        flag.Float64("dist", 0, "Camera distance from the globe center"),
		azim:        flag.Float64("azimuth", 0, "Camera azimuth in degrees"),
		elev:        flag.Float64("elevation", 0, "Camera elevation in degrees"),
		fov:         flag.Float64("fov", 0, "Camera field of view in degrees"),

		out:   flag.String("out", "globe.png", "Output PNG file path"),
		serve: flag.String("serve", "", "Serve preview frames over websocket on this address"),
		fps:   flag.Int("fps", 0, "Preview frame rate"),
		view:  flag.Bool("view", false, "Open an interactive viewer window"),

		showHelp: flag.Bool("h", false, "Show this help message"),
	}
}

func printHelp() {
	fmt.Fprintf(os.Stderr, `Earth Globe - Day/Night Globe Renderer

Usage:
  %[1]s [options]            render a single PNG
  %[1]s -view [options]      open an interactive viewer
  %[1]s -serve addr:port     stream preview frames over websocket

`, os.Args[0])

	printGroup("Globe Options", []string{"day", "night", "size", "speed", "autorotate"})
	printGroup("Sun Options", []string{"sunmode", "sun", "time"})
	printGroup("Camera Options", []string{"dist", "azimuth", "elevation", "fov"})
	printGroup("Rendering Options", []string{"imgsize", "supersample"})
	printGroup("Output", []string{"out", "serve", "fps", "view"})
	printGroup("Misc", []string{"config", "h"})
}

func printGroup(title string, keys []string) {
	fmt.Fprintf(os.Stderr, "%s:\n", title)
	for _, name := range keys {
		if f := flag.Lookup(name); f != nil {
			fmt.Fprintf(os.Stderr, "  -%-12s %s (default %q)\n", f.Name, f.Usage, f.DefValue)
		}
	}
	fmt.Fprintln(os.Stderr)
}

func main() {
	flags := defineFlags()
	flag.Usage = printHelp
	flag.Parse()

	if *flags.showHelp {
		printHelp()
		return
	}

	conf, err := config.Load(*flags.configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyFlags(flags, conf)

	if err := logger.Init(conf.Logging.Level, conf.Logging.LogFile); err != nil {
		log.Fatalf("Failed to init logging: %v", err)
	}
	defer logger.Sync()

	opts, err := globeOptions(conf.Globe)
	if err != nil {
		logger.Sugar.Fatalf("Invalid globe configuration: %v", err)
	}

	cam := render.NewOrbitCamera(conf.Render.Distance, conf.Render.Azimuth, conf.Render.Elevation, conf.Render.FOV)
	renderOpts := render.Options{
		Size:            conf.Render.Size,
		Supersample:     conf.Render.Supersample,
		MaxTextureWidth: conf.Render.MaxTextureWidth,
	}

	switch {
	case *flags.serve != "":
		srv := server.New(opts, renderOpts, cam, conf.Server.FPS)
		if err := srv.ListenAndServe(conf.Server.Addr); err != nil {
			logger.Sugar.Fatalf("Server failed: %v", err)
		}

	case *flags.view:
		g, rend := mustSetup(opts, cam, renderOpts)
		if err := viewer.Run(g, rend, "earthglobe"); err != nil {
			logger.Sugar.Fatalf("Viewer failed: %v", err)
		}

	default:
		g, rend := mustSetup(opts, cam, renderOpts)
		logger.Sugar.Infof("Generating %s", *flags.out)
		img, err := rend.Frame(g)
		if err != nil {
			logger.Sugar.Fatalf("Render failed: %v", err)
		}
		if err := render.WritePNG(*flags.out, img); err != nil {
			logger.Sugar.Fatalf("Failed to write PNG: %v", err)
		}
	}
}

func mustSetup(opts globe.Options, cam render.Camera, renderOpts render.Options) (*globe.Globe, *render.Renderer) {
	g, err := globe.New(opts)
	if err != nil {
		logger.Sugar.Fatalf("Globe setup failed: %v", err)
	}
	rend, err := render.New(g, cam, renderOpts)
	if err != nil {
		logger.Sugar.Fatalf("Renderer setup failed: %v", err)
	}
	return g, rend
}

// applyFlags overrides config values with flags the user actually set.
func applyFlags(f cliFlags, conf *config.Config) {
	set := map[string]bool{}
	flag.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	if set["day"] {
		conf.Globe.DayTexture = *f.day
	}
	if set["night"] {
		conf.Globe.NightTexture = *f.night
	}
	if set["size"] {
		conf.Globe.Size = *f.size
	}
	if set["speed"] {
		conf.Globe.RotationSpeed = *f.speed
	}
	if set["autorotate"] {
		conf.Globe.AutoRotate = f.autoRotate
	}
	if set["sunmode"] {
		conf.Globe.SunMode = *f.sunMode
	}
	if set["sun"] {
		conf.Globe.SunMode = "manual"
		if v, err := parseVec3(*f.sun); err == nil {
			conf.Globe.SunDirection = v
		} else {
			log.Fatalf("Invalid -sun value %q: %v", *f.sun, err)
		}
	}
	if set["time"] {
		conf.Globe.Time = *f.timeS
	}

	if set["imgsize"] {
		conf.Render.Size = *f.imgSize
	}
	if set["supersample"] {
		conf.Render.Supersample = *f.supersample
	}
	if set["dist"] {
		conf.Render.Distance = *f.dist
	}
	if set["azimuth"] {
		conf.Render.Azimuth = *f.azim
	}
	if set["elevation"] {
		conf.Render.Elevation = *f.elev
	}
	if set["fov"] {
		conf.Render.FOV = *f.fov
	}

	if set["serve"] {
		conf.Server.Addr = *f.serve
	}
	if set["fps"] {
		conf.Server.FPS = *f.fps
	}
}

func parseVec3(s string) ([3]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return [3]float64{}, fmt.Errorf("want 3 components, got %d", len(parts))
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return [3]float64{}, err
		}
		v[i] = f
	}
	return v, nil
}

// globeOptions converts file/flag configuration into component options.
func globeOptions(gc config.GlobeConfig) (globe.Options, error) {
	opts := globe.Options{
		Size:          gc.Size,
		DayTexture:    gc.DayTexture,
		NightTexture:  gc.NightTexture,
		RotationSpeed: gc.RotationSpeed,
		AutoRotate:    gc.AutoRotateEnabled(),
	}

	var now func() time.Time
	if gc.Time != "" {
		t, err := time.Parse(time.RFC3339, gc.Time)
		if err != nil {
			return globe.Options{}, fmt.Errorf("invalid time %q: %w", gc.Time, err)
		}
		now = func() time.Time { return t }
	}

	switch gc.SunMode {
	case "", "realtime":
		opts.Sun = globe.RealTimeSun{Now: now}
	case "astro":
		opts.Sun = globe.AstronomicalSun{Now: now}
	case "manual":
		dir := vectors.New(gc.SunDirection[0], gc.SunDirection[1], gc.SunDirection[2])
		if dir.Norm() == 0 {
			return globe.Options{}, fmt.Errorf("sun_mode manual requires a non-zero sun_direction")
		}
		opts.Sun = globe.ManualSun{Direction: dir}
	default:
		return globe.Options{}, fmt.Errorf("unknown sun_mode %q", gc.SunMode)
	}

	return opts, nil
}
