// Package coloration colors objects by the LOD band they currently display.
//
// An Engine owns a snapshot of the scene's LOD groups and drives one of
// three strategies: Performance tags renderers once, Quality re-tags the
// selected band every frame, and SafeMode draws overlay copies without
// touching renderers. All methods must be called from the host's frame
// loop; the engine is not safe for concurrent use.
package coloration

import (
	"fmt"

	"github.com/taigrr/lodviz/pkg/lod"
	"github.com/taigrr/lodviz/pkg/palette"
	"github.com/taigrr/lodviz/pkg/render"
)

// Config wires an Engine to its host.
type Config struct {
	Scene    SceneQuery
	Shaders  ShaderFinder
	Settings SettingsStore // Optional

	Mode       Mode
	Palette    palette.Palette // Defaults to palette.Default()
	LiveUpdate bool
}

// FrameStats reports what one tick did.
type FrameStats struct {
	Groups  int // Groups classified
	Tagged  int // Renderers tagged (Quality)
	Drawn   int // Overlay draws queued (SafeMode)
	Skipped int // Instances skipped for a missing palette entry
	Stale   int // Destroyed references skipped
}

// Engine is the LOD coloration state machine.
type Engine struct {
	scene    SceneQuery
	shaders  ShaderFinder
	settings SettingsStore

	// Selection, as edited by the user. Applied by Generate.
	mode    Mode
	palette palette.Palette
	live    bool

	snapshot *Snapshot
	material *render.Material // Overlay material, created once

	prevCameraMode string
}

// New creates an engine. Nothing is discovered until Generate.
func New(cfg Config) *Engine {
	pal := cfg.Palette.Clone()
	if cfg.Palette == nil {
		pal = palette.Default()
	}
	return &Engine{
		scene:    cfg.Scene,
		shaders:  cfg.Shaders,
		settings: cfg.Settings,
		mode:     cfg.Mode,
		palette:  pal,
		live:     cfg.LiveUpdate,
	}
}

// Mode returns the selected mode.
func (e *Engine) Mode() Mode { return e.mode }

// SetMode selects a mode. It takes effect at the next Generate.
func (e *Engine) SetMode(m Mode) { e.mode = m }

// Palette returns a copy of the selected palette.
func (e *Engine) Palette() palette.Palette { return e.palette.Clone() }

// SetPalette selects a palette. It takes effect at the next Generate.
func (e *Engine) SetPalette(p palette.Palette) { e.palette = p.Clone() }

// LiveUpdate reports whether structural scene changes regenerate.
func (e *Engine) LiveUpdate() bool { return e.live }

// SetLiveUpdate enables or disables regeneration on structural changes.
func (e *Engine) SetLiveUpdate(on bool) { e.live = on }

// Active reports whether a snapshot is in place.
func (e *Engine) Active() bool { return e.snapshot != nil }

// Snapshot returns the current snapshot, or nil before the first
// successful Generate. Callers must not modify it.
func (e *Engine) Snapshot() *Snapshot { return e.snapshot }

// Generate switches to mode with colors: it persists the selection,
// discards cached state, rediscovers the scene's groups and runs the mode's
// initializer. If the overlay shader is missing nothing happens and
// ErrResourceUnavailable is returned. Calling it again with the same inputs
// on an unchanged scene yields the same result.
func (e *Engine) Generate(mode Mode, colors palette.Palette) error {
	if !mode.Valid() {
		return fmt.Errorf("generate: %w: %d", ErrInvalidMode, int(mode))
	}
	shader, ok := e.shaders.Find(render.LODColorationShaderName)
	if !ok {
		Logger().Error("LOD coloration shader not found", "shader", render.LODColorationShaderName)
		return fmt.Errorf("generate %s: %w", mode, ErrResourceUnavailable)
	}

	colors = colors.Clone()
	e.mode, e.palette = mode, colors

	if e.settings != nil {
		if err := e.settings.Save(mode, colors); err != nil {
			Logger().Warn("persist settings", "err", err)
		}
	}

	if e.material == nil {
		e.material = render.NewMaterial(shader)
	}
	e.material.Shader = shader

	e.snapshot = nil
	snap := discover(mode, colors, e.scene.FindGroups())
	var tagged int
	switch mode {
	case Performance:
		tagged = performanceStart(snap)
	case SafeMode:
		snap.flatten()
	}
	e.snapshot = snap

	Logger().Info("generated",
		"mode", mode,
		"groups", len(snap.Groups),
		"entities", len(snap.Entities),
		"tagged", tagged,
	)
	return nil
}

// OnHierarchyChanged regenerates with the selected mode and palette when
// live update is on and the host is not playing.
func (e *Engine) OnHierarchyChanged() {
	if !e.live || e.scene.Playing() {
		return
	}
	if err := e.Generate(e.mode, e.palette); err != nil {
		Logger().Debug("regenerate on hierarchy change", "err", err)
	}
}

// OnSceneView is the per-frame viewport callback. It swaps the replacement
// shader when the view enters or leaves ViewModeName and, while that mode
// is active, runs the strategy tick and requests a repaint.
func (e *Engine) OnSceneView(v View, d Drawer) FrameStats {
	mode := v.CameraMode()
	if mode != e.prevCameraMode {
		e.prevCameraMode = mode
		if mode == ViewModeName {
			shader, ok := e.shaders.Find(render.LODColorationShaderName)
			if !ok {
				Logger().Error("LOD coloration shader not found", "shader", render.LODColorationShaderName)
			}
			v.SetReplacementShader(shader)
		} else {
			v.SetReplacementShader(nil)
		}
		Logger().Info("camera mode changed", "mode", mode)
	}
	if mode != ViewModeName {
		return FrameStats{}
	}
	stats := e.Tick(v.Camera(), d)
	v.Repaint()
	return stats
}

// Tick runs the per-frame work of the applied mode for cam. Performance
// does nothing per frame.
func (e *Engine) Tick(cam lod.Camera, d Drawer) FrameStats {
	if e.snapshot == nil {
		return FrameStats{}
	}
	c := lod.NewClassifier(e.scene.LODBias())
	switch e.snapshot.Mode {
	case Quality:
		return qualityUpdate(e.snapshot, c, cam)
	case SafeMode:
		return safeModeUpdate(e.snapshot, c, cam, d, e.material)
	}
	return FrameStats{}
}

// Reset discards the snapshot and forgets the last camera mode. Renderer
// tags already applied stay in place.
func (e *Engine) Reset() {
	e.snapshot = nil
	e.prevCameraMode = ""
}
