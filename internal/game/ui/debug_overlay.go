// Package ui provides game user interface components.
package ui

import (
	"fmt"
	"runtime"
)

// DebugOverlay collects the debug readout drawn over the game view.
type DebugOverlay struct {
	// Frame timing
	frameTime     float64 // ms
	fps           float64
	fpsUpdateTime float64 // seconds since last FPS update
	frameAccum    int

	// Memory stats
	memStats      runtime.MemStats
	memUpdateTime float64

	// View
	Width, Height    int
	Dimension        int
	CameraX, CameraY float64
	Scale            float64

	// Entities
	EntityCount int
	InView      int

	// Caches
	AssetsCached int
	SoundsCached int

	// Local player, when there is one
	HasLocal    bool
	LocalX      float64
	LocalY      float64
	LocalStates string
	MapName     string
	Online      bool
	GodMode     bool
	ShowMemory  bool
	Enabled     bool
}

// NewDebugOverlay creates a new debug overlay.
func NewDebugOverlay() *DebugOverlay {
	return &DebugOverlay{
		Enabled: true,
	}
}

// Update updates the debug overlay state.
// deltaMs is the frame time in milliseconds.
func (d *DebugOverlay) Update(deltaMs float64) {
	d.frameTime = deltaMs
	d.frameAccum++
	d.fpsUpdateTime += deltaMs / 1000.0

	// Update FPS every 0.5 seconds
	if d.fpsUpdateTime >= 0.5 {
		d.fps = float64(d.frameAccum) / d.fpsUpdateTime
		d.frameAccum = 0
		d.fpsUpdateTime = 0
	}

	if !d.ShowMemory {
		return
	}
	// Update memory stats every 2 seconds
	d.memUpdateTime += deltaMs / 1000.0
	if d.memUpdateTime >= 2.0 || d.memStats.Sys == 0 {
		runtime.ReadMemStats(&d.memStats)
		d.memUpdateTime = 0
	}
}

// FPS returns the smoothed tick rate.
func (d *DebugOverlay) FPS() float64 {
	return d.fps
}

// Lines returns the overlay text, one entry per row. A disabled overlay has
// no rows.
func (d *DebugOverlay) Lines() []string {
	if !d.Enabled {
		return nil
	}

	lines := []string{
		fmt.Sprintf("WIDTH: %d HEIGHT %d", d.Width, d.Height),
		fmt.Sprintf("DIMENSION: %d", d.Dimension),
		fmt.Sprintf("X: %.1f Y: %.1f", d.CameraX, d.CameraY),
		fmt.Sprintf("DELTA: %.2f ms (%.1f fps)", d.frameTime, d.fps),
		fmt.Sprintf("SCALE: %.6f", d.Scale),
		fmt.Sprintf("ENTITIES: %d", d.EntityCount),
		fmt.Sprintf("ENTITIES IN VIEW: %d", d.InView),
		fmt.Sprintf("ASSETS: %d SOUNDS: %d", d.AssetsCached, d.SoundsCached),
	}
	if d.HasLocal {
		lines = append(lines,
			fmt.Sprintf("LOCAL X: %.1f Y: %.1f", d.LocalX, d.LocalY),
			fmt.Sprintf("STATE: %s", d.LocalStates))
	}
	if d.MapName != "" {
		lines = append(lines, fmt.Sprintf("MAP: %s", d.MapName))
	}
	lines = append(lines,
		fmt.Sprintf("NETWORK: %s", onOff(d.Online, "online", "offline")),
		fmt.Sprintf("GOD MODE: %s", onOff(d.GodMode, "enabled", "disabled")))

	if d.ShowMemory {
		lines = append(lines,
			fmt.Sprintf("ALLOC: %s SYS: %s GC: %d",
				formatBytes(int64(d.memStats.Alloc)),
				formatBytes(int64(d.memStats.Sys)),
				d.memStats.NumGC))
	}
	return lines
}

func onOff(v bool, on, off string) string {
	if v {
		return on
	}
	return off
}

// formatBytes formats byte count to human readable string.
func formatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
