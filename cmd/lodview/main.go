// lodview - Terminal LOD coloration viewer
// Renders a grid of LOD groups (or an MSFT_lod .glb) and colors every
// object by the LOD band it currently displays.
//
// Controls:
//
//	V           - Toggle the LOD Coloration view mode
//	1/2/3       - Generate in Performance, Quality or SafeMode
//	U           - Toggle live update
//	[ / ]       - Lower/raise the LOD bias
//	O           - Toggle orthographic projection
//	N / X       - Spawn / destroy a prefab
//	R           - Reset the palette and mode
//	+/- Scroll  - Dolly the camera
//	A/D         - Orbit
//	Esc         - Quit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/lodviz/pkg/coloration"
	"github.com/taigrr/lodviz/pkg/math3d"
	"github.com/taigrr/lodviz/pkg/models"
	"github.com/taigrr/lodviz/pkg/palette"
	"github.com/taigrr/lodviz/pkg/render"
	"github.com/taigrr/lodviz/pkg/scene"
	"github.com/taigrr/lodviz/pkg/sceneview"
	"github.com/taigrr/lodviz/pkg/settings"
)

func main() {
	fs := flag.NewFlagSet("lodview", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "lodview - Terminal LOD coloration viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: lodview [options] [model.glb]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  V           - Toggle LOD Coloration view\n")
		fmt.Fprintf(os.Stderr, "  1/2/3       - Performance / Quality / SafeMode\n")
		fmt.Fprintf(os.Stderr, "  U           - Toggle live update\n")
		fmt.Fprintf(os.Stderr, "  [ ]         - LOD bias\n")
		fmt.Fprintf(os.Stderr, "  O           - Orthographic projection\n")
		fmt.Fprintf(os.Stderr, "  N/X         - Spawn/destroy a prefab\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset settings\n")
		fmt.Fprintf(os.Stderr, "  +/- Scroll  - Dolly\n")
		fmt.Fprintf(os.Stderr, "  A/D         - Orbit\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}

	cfg, err := ParseConfig(fs, os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if cfg.ListShaders {
		listShaders(os.Stdout, render.DefaultShaderLibrary())
		return
	}

	if err := run(cfg, fs.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// listShaders prints one shader name per line, marking the one the LOD
// Coloration view mode installs.
func listShaders(w io.Writer, lib *render.ShaderLibrary) {
	for _, name := range lib.Names() {
		if name == render.LODColorationShaderName {
			fmt.Fprintf(w, "%s (LOD Coloration view)\n", name)
			continue
		}
		fmt.Fprintln(w, name)
	}
}

// Dolly moves the camera toward a target distance with spring smoothing.
type Dolly struct {
	Distance float64
	Target   float64
	Yaw      float64
	YawSpeed float64
	velocity float64
	spring   harmonica.Spring
	yawVel   float64
	yawDecay harmonica.Spring
}

// NewDolly creates a critically damped dolly starting at distance.
func NewDolly(fps int, distance float64) *Dolly {
	return &Dolly{
		Distance: distance,
		Target:   distance,
		spring:   harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
		yawDecay: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update advances one frame.
func (d *Dolly) Update() {
	d.Distance, d.velocity = d.spring.Update(d.Distance, d.velocity, d.Target)
	d.Yaw += d.YawSpeed
	d.YawSpeed, d.yawVel = d.yawDecay.Update(d.YawSpeed, d.yawVel, 0)
}

// Settled reports whether the camera has stopped moving.
func (d *Dolly) Settled() bool {
	return math.Abs(d.Distance-d.Target) < 1e-3 && math.Abs(d.velocity) < 1e-3 && math.Abs(d.YawSpeed) < 1e-5
}

// Place positions cam on its orbit looking at center.
func (d *Dolly) Place(cam *render.Camera, center math3d.Vec3) {
	offset := math3d.V3(math.Sin(d.Yaw), 0.35, math.Cos(d.Yaw)).Normalize().Scale(d.Distance)
	cam.SetPosition(center.Add(offset))
	cam.LookAt(center)
	cam.SetOrthographic(cam.Orthographic, d.Distance*0.4)
}

// app is the viewer state driven from the main loop.
type app struct {
	scene  *scene.Scene
	demo   *Demo
	engine *coloration.Engine
	prefs  settings.Prefs
	view   *sceneview.View
	dolly  *Dolly
	hud    *HUD
	dirty  bool
}

func setupLogger(path string) (io.Closer, error) {
	if path == "" {
		return io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	coloration.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return f, nil
}

func openPrefs(path string) (settings.Prefs, func() error, error) {
	if path == "" {
		return settings.NewMemoryPrefs(), func() error { return nil }, nil
	}
	p, err := settings.OpenSQLite(path)
	if err != nil {
		return nil, nil, err
	}
	return p, p.Close, nil
}

// buildScene fills s from modelPath, or with the demo grid when empty.
func buildScene(s *scene.Scene, demo *Demo, cfg Config, modelPath string) error {
	s.SetLODBias(cfg.LODBias)
	if modelPath == "" {
		demo.BuildGrid(cfg.Grid)
		return nil
	}
	doc, err := models.LoadLOD(modelPath)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	if len(doc.Nodes) == 0 {
		// No mesh nodes: show every mesh in the file merged as one band.
		mesh, err := models.LoadGLB(modelPath)
		if err != nil {
			return fmt.Errorf("load model: %w", err)
		}
		if mesh.TriangleCount() == 0 {
			return fmt.Errorf("load model: %s has no triangles", modelPath)
		}
		demo.AddMesh(filepath.Base(modelPath), mesh)
		return nil
	}
	if _, err := s.ImportGLTF(doc, nil, render.ColorGray); err != nil {
		return fmt.Errorf("import model: %w", err)
	}
	return nil
}

// newEngine loads the stored selection, applies cfg.Mode over it and
// generates once.
func newEngine(s *scene.Scene, prefs settings.Prefs, cfg Config) (*coloration.Engine, error) {
	stored := settings.Load(prefs, len(palette.Default()))
	colors := stored.Colors
	if colors == nil {
		colors = palette.Default()
	}
	mode := stored.Mode
	if cfg.Mode != "" {
		m, err := coloration.ParseMode(cfg.Mode)
		if err != nil {
			return nil, err
		}
		mode = m
	}

	e := coloration.New(coloration.Config{
		Scene:      s,
		Shaders:    render.DefaultShaderLibrary(),
		Settings:   settings.Store{Prefs: prefs},
		Mode:       mode,
		Palette:    colors,
		LiveUpdate: cfg.LiveUpdate,
	})
	if err := e.Generate(mode, colors); err != nil {
		return nil, err
	}
	return e, nil
}

func run(cfg Config, modelPath string) error {
	bg, err := parseRGB(cfg.Background)
	if err != nil {
		return err
	}

	logCloser, err := setupLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	prefs, closePrefs, err := openPrefs(cfg.Settings)
	if err != nil {
		return err
	}
	defer closePrefs()

	s := scene.New()
	demo := NewDemo(s)
	if err := buildScene(s, demo, cfg, modelPath); err != nil {
		return err
	}

	engine, err := newEngine(s, prefs, cfg)
	if err != nil {
		return err
	}
	cancelHierarchy := s.OnHierarchyChanged(engine.OnHierarchyChanged)
	defer cancelHierarchy()

	if cfg.Snapshot != "" {
		return snapshot(s, engine, bg, cfg)
	}

	// Create terminal
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	termRenderer := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := termRenderer.FramebufferSize()

	camera := render.NewCamera()
	camera.SetFOV(math.Pi / 3)
	camera.SetClipPlanes(0.1, 1000)

	view := sceneview.New(s, camera, fbWidth, fbHeight)
	view.Background = bg

	extent := float64(max(cfg.Grid, 1)) * demoSpacing
	a := &app{
		scene:  s,
		demo:   demo,
		engine: engine,
		prefs:  prefs,
		view:   view,
		dolly:  NewDolly(cfg.FPS, extent*1.5),
		hud:    NewHUD(),
		dirty:  true,
	}

	// Context for clean shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	targetDuration := time.Second / time.Duration(cfg.FPS)
	events := term.Events()

	for {
		now := time.Now()

		// Events are handled here so the scene is only touched by this goroutine.
	drain:
		for {
			select {
			case <-ctx.Done():
				cleanup()
				return nil
			case ev, ok := <-events:
				if !ok {
					cleanup()
					return nil
				}
				switch ev := ev.(type) {
				case uv.WindowSizeEvent:
					width, height = ev.Width, ev.Height
					term.Erase()
					term.Resize(width, height)
					termRenderer.Resize(width, height)
					view.Resize(termRenderer.FramebufferSize())
					a.dirty = true
				default:
					if a.handle(ev, cancel) {
						a.dirty = true
					}
				}
			default:
				break drain
			}
		}

		a.dolly.Update()
		a.dolly.Place(camera, math3d.Zero3())

		if a.dirty || !a.dolly.Settled() || view.TakeRepaint() {
			a.dirty = false
			view.Frame(engine)
			termRenderer.Render(view.Framebuffer())
			if err := termRenderer.Flush(); err != nil {
				cleanup()
				return fmt.Errorf("flush: %w", err)
			}
		}

		a.hud.UpdateFPS()
		a.hud.Render(width, height, engine, view, len(s.FindGroups()), s.LODBias())

		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

// snapshot renders a single LOD Coloration frame without a terminal.
func snapshot(s *scene.Scene, engine *coloration.Engine, bg render.Color, cfg Config) error {
	camera := render.NewCamera()
	camera.SetClipPlanes(0.1, 1000)
	view := sceneview.New(s, camera, 320, 180)
	view.Background = bg
	view.SetCameraMode(coloration.ViewModeName)

	extent := float64(max(cfg.Grid, 1)) * demoSpacing
	NewDolly(cfg.FPS, extent*1.5).Place(camera, math3d.Zero3())

	stats := view.Frame(engine)
	fb := view.Framebuffer()
	covered := len(fb.Pixels) - fb.CountColor(bg)
	coloration.Logger().Info("snapshot", "path", cfg.Snapshot, "drawn", stats.Renderers, "overlay", stats.Overlays, "covered_pixels", covered)
	if covered == 0 {
		coloration.Logger().Warn("snapshot is empty", "path", cfg.Snapshot)
	}
	return fb.SavePNG(cfg.Snapshot)
}

// handle applies one input event and reports whether a redraw is needed.
func (a *app) handle(ev uv.Event, quit func()) bool {
	switch ev := ev.(type) {
	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("escape", "ctrl+c"):
			quit()
		case ev.MatchString("v"):
			a.hud.Flash("view: " + a.view.CycleCameraMode())
		case ev.MatchString("1"):
			a.generate(coloration.Performance)
		case ev.MatchString("2"):
			a.generate(coloration.Quality)
		case ev.MatchString("3"):
			a.generate(coloration.SafeMode)
		case ev.MatchString("u"):
			a.engine.SetLiveUpdate(!a.engine.LiveUpdate())
		case ev.MatchString("["):
			a.scene.SetLODBias(math.Max(0.25, a.scene.LODBias()/1.25))
		case ev.MatchString("]"):
			a.scene.SetLODBias(math.Min(4, a.scene.LODBias()*1.25))
		case ev.MatchString("o"):
			cam := a.view.Camera3D
			cam.SetOrthographic(!cam.Orthographic, cam.OrthographicSize)
		case ev.MatchString("n"):
			pos := math3d.V3(float64(a.demo.Len()%7)-3, 0, 0).Scale(demoSpacing * 0.5)
			a.demo.Spawn(pos)
		case ev.MatchString("x"):
			if !a.demo.DestroyLast() {
				a.hud.Flash("nothing to destroy")
			}
		case ev.MatchString("r"):
			a.reset()
		case ev.MatchString("a", "left"):
			a.dolly.YawSpeed -= 0.02
		case ev.MatchString("d", "right"):
			a.dolly.YawSpeed += 0.02
		case ev.MatchString("+", "="):
			a.dolly.Target = math.Max(2, a.dolly.Target*0.8)
		case ev.MatchString("-", "_"):
			a.dolly.Target = math.Min(500, a.dolly.Target*1.25)
		default:
			return false
		}
		return true

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			a.dolly.Target = math.Max(2, a.dolly.Target*0.9)
		case uv.MouseWheelDown:
			a.dolly.Target = math.Min(500, a.dolly.Target*1.1)
		}
		return true
	}
	return false
}

func (a *app) generate(mode coloration.Mode) {
	if err := a.engine.Generate(mode, a.engine.Palette()); err != nil {
		a.hud.Flash(err.Error())
		return
	}
	a.hud.Flash("generated " + mode.String())
}

func (a *app) reset() {
	st, err := settings.Reset(a.prefs, len(a.engine.Palette()))
	if err != nil {
		a.hud.Flash(err.Error())
		return
	}
	a.engine.SetPalette(st.Colors)
	a.generate(st.Mode)
}
