package ui

import (
	"strings"
	"testing"
)

func TestDebugOverlayLines(t *testing.T) {
	d := NewDebugOverlay()
	d.Width, d.Height = 480, 320
	d.Dimension = 16
	d.CameraX, d.CameraY = 12, 40
	d.Scale = 2
	d.EntityCount = 3
	d.InView = 2
	d.SoundsCached = 4

	lines := d.Lines()
	want := []string{
		"WIDTH: 480 HEIGHT 320",
		"DIMENSION: 16",
		"X: 12.0 Y: 40.0",
		"SCALE: 2.000000",
		"ENTITIES: 3",
		"ENTITIES IN VIEW: 2",
		"ASSETS: 0 SOUNDS: 4",
		"NETWORK: offline",
		"GOD MODE: disabled",
	}
	joined := strings.Join(lines, "\n")
	for _, w := range want {
		if !strings.Contains(joined, w) {
			t.Errorf("missing line %q in:\n%s", w, joined)
		}
	}
	if strings.Contains(joined, "LOCAL") {
		t.Error("local position shown without a local player")
	}
}

func TestDebugOverlayLocal(t *testing.T) {
	d := NewDebugOverlay()
	d.HasLocal = true
	d.LocalX, d.LocalY = 32, 48
	d.LocalStates = "WALKING"
	d.GodMode = true
	d.Online = true
	d.MapName = "town"

	joined := strings.Join(d.Lines(), "\n")
	for _, w := range []string{"LOCAL X: 32.0 Y: 48.0", "STATE: WALKING", "MAP: town", "NETWORK: online", "GOD MODE: enabled"} {
		if !strings.Contains(joined, w) {
			t.Errorf("missing %q in:\n%s", w, joined)
		}
	}
}

func TestDebugOverlayDisabled(t *testing.T) {
	d := NewDebugOverlay()
	d.Enabled = false
	if lines := d.Lines(); lines != nil {
		t.Errorf("expected no lines, got %v", lines)
	}
}

func TestDebugOverlayUpdate(t *testing.T) {
	d := NewDebugOverlay()
	d.ShowMemory = true
	for i := 0; i < 40; i++ {
		d.Update(1000.0 / 60)
	}
	if d.FPS() < 55 || d.FPS() > 65 {
		t.Errorf("expected ~60 fps, got %v", d.FPS())
	}

	joined := strings.Join(d.Lines(), "\n")
	if !strings.Contains(joined, "DELTA: 16.67 ms") || !strings.Contains(joined, "ALLOC:") {
		t.Errorf("unexpected lines:\n%s", joined)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.00 KB"},
		{3 * 1024 * 1024, "3.00 MB"},
		{5 * 1024 * 1024 * 1024, "5.00 GB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
