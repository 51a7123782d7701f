package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/taigrr/lodviz/pkg/coloration"
	"github.com/taigrr/lodviz/pkg/palette"
	"github.com/taigrr/lodviz/pkg/sceneview"
)

// HUD draws the status line and palette legend over the viewport.
type HUD struct {
	fps       float64
	fpsFrames int
	fpsTime   time.Time
	message   string
	messageAt time.Time
}

// NewHUD creates a HUD.
func NewHUD() *HUD {
	return &HUD{fpsTime: time.Now()}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Flash shows msg on the status line for a few seconds.
func (h *HUD) Flash(msg string) {
	h.message = msg
	h.messageAt = time.Now()
}

const (
	reset     = "\x1b[0m"
	bold      = "\x1b[1m"
	dim       = "\x1b[2m"
	bgBlack   = "\x1b[40m"
	fgWhite   = "\x1b[97m"
	fgGreen   = "\x1b[92m"
	fgYellow  = "\x1b[93m"
	fgCyan    = "\x1b[96m"
	clearLine = "\x1b[2K"
)

func moveTo(row, col int) string {
	return fmt.Sprintf("\x1b[%d;%dH", row, col)
}

// legend renders one swatch per palette entry.
func legend(p palette.Palette) string {
	var b strings.Builder
	for i, c := range p {
		fmt.Fprintf(&b, "%s%s LOD%d \x1b[38;2;%d;%d;%dm██%s", bgBlack, fgWhite, i, c.R, c.G, c.B, reset)
	}
	return b.String()
}

// Render draws the HUD directly to the terminal.
func (h *HUD) Render(width, height int, engine *coloration.Engine, view *sceneview.View, groups int, bias float64) {
	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)

	fmt.Printf("%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, reset)

	applied := "none"
	if snap := engine.Snapshot(); snap != nil {
		applied = snap.Mode.String()
	}
	title := fmt.Sprintf(" %s | applied %s | selected %s ", view.CameraMode(), applied, engine.Mode())
	titleCol := max((width-len(title))/2, 1)
	fmt.Print(moveTo(1, titleCol) + bold + bgBlack + fgWhite + title + reset)

	groupStr := fmt.Sprintf(" %d groups ", groups)
	fmt.Print(moveTo(1, max(width-len(groupStr), 1)) + bgBlack + fgCyan + bold + groupStr + reset)

	if view.CameraMode() == coloration.ViewModeName {
		fmt.Print(moveTo(2, 1) + clearLine + legend(engine.Palette()))
	} else {
		fmt.Print(moveTo(2, 1) + clearLine)
	}

	live := "[ ]"
	if engine.LiveUpdate() {
		live = "[✓]"
	}
	stats := view.Stats()
	status := fmt.Sprintf("%s%s %s live  bias %.2f  drawn %d  overlay %d  stale %d  skipped %d %s",
		bgBlack, fgWhite, live, bias, stats.Renderers, stats.Overlays, stats.Engine.Stale, stats.Engine.Skipped, reset)
	fmt.Print(moveTo(height, 1) + status)

	if h.message != "" && time.Since(h.messageAt) < 3*time.Second {
		fmt.Print(moveTo(height-1, 1) + clearLine + bgBlack + fgYellow + " " + h.message + " " + reset)
	} else {
		fmt.Print(moveTo(height-1, 1) + clearLine)
	}

	hint := fmt.Sprintf("%s%s%s v view  1/2/3 mode  u live  [ ] bias  o ortho  n/x spawn  r reset %s", bgBlack, dim, fgYellow, reset)
	fmt.Print(moveTo(height, max(width-62, 1)) + hint)
}
