package entity

import (
	"testing"

	"github.com/Faultbox/tileclient/internal/network"
	"github.com/Faultbox/tileclient/internal/network/packets"
	"github.com/Faultbox/tileclient/pkg/math"
)

type sentMessage struct {
	kind    string
	payload []any
}

type fakeSender struct {
	sent []sentMessage
}

func (f *fakeSender) SendData(kind string, payload ...any) {
	f.sent = append(f.sent, sentMessage{kind: kind, payload: payload})
}

func (f *fakeSender) kinds(kind string) []sentMessage {
	var out []sentMessage
	for _, m := range f.sent {
		if m.kind == kind {
			out = append(out, m)
		}
	}
	return out
}

type fakeSound struct {
	played []string
}

func (f *fakeSound) PlaySound(name string) {
	f.played = append(f.played, name)
}

func (f *fakeSound) count(name string) int {
	n := 0
	for _, p := range f.played {
		if p == name {
			n++
		}
	}
	return n
}

type trigger struct {
	mapID string
	pos   math.Point
	p     *Player
}

type fakeMaps struct {
	triggers []trigger
}

func (f *fakeMaps) ActionTrigger(mapID string, pos math.Point, p *Player) {
	f.triggers = append(f.triggers, trigger{mapID, pos, p})
}

func floatPtr(v float64) *float64 { return &v }

// newTestPlayer builds a player wired to a real gate in front of a fake
// transport.
func newTestPlayer(t *testing.T, desc Descriptor, offline bool) (*Player, *fakeSender) {
	t.Helper()
	sender := &fakeSender{}
	gate, err := network.NewGate(sender, offline, nil)
	if err != nil {
		t.Fatalf("NewGate() error: %v", err)
	}
	p := NewPlayer(1, desc, DefaultConfig(), Deps{Sync: gate})
	return p, sender
}

func TestSetPlayerType(t *testing.T) {
	tests := []struct {
		name string
		desc Descriptor
		want Classification
	}{
		{"local", Descriptor{IsLocalPlayer: true}, ClassLocal},
		{"npc", Descriptor{IsNPC: true}, ClassNPC},
		{"network", Descriptor{IsNetworkPlayer: true}, ClassNetwork},
		{"no flags defaults to npc", Descriptor{}, ClassNPC},
		{"local beats npc", Descriptor{IsLocalPlayer: true, IsNPC: true}, ClassLocal},
		{"npc beats network", Descriptor{IsNPC: true, IsNetworkPlayer: true}, ClassNPC},
		{"local beats all", Descriptor{IsLocalPlayer: true, IsNPC: true, IsNetworkPlayer: true}, ClassLocal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlayer(1, tt.desc, DefaultConfig(), Deps{})
			if p.Classification() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, p.Classification())
			}

			flags := 0
			for _, b := range []bool{p.IsLocalPlayer(), p.IsNPC(), p.IsNetworkPlayer()} {
				if b {
					flags++
				}
			}
			if flags != 1 {
				t.Errorf("expected exactly one classification flag, got %d", flags)
			}
		})
	}
}

func TestSetPlayerTypeReclassifies(t *testing.T) {
	p := NewPlayer(1, Descriptor{IsLocalPlayer: true}, DefaultConfig(), Deps{})
	p.SetPlayerType(Descriptor{IsNetworkPlayer: true})
	if !p.IsNetworkPlayer() || p.IsLocalPlayer() || p.IsNPC() {
		t.Errorf("expected network only, got %s", p.Classification())
	}
}

func TestNewPlayerDefaults(t *testing.T) {
	p := NewPlayer(3, Descriptor{Map: "town"}, DefaultConfig(), Deps{})
	dim := float64(DefaultConfig().Dimension)

	if p.Facing() != 0 {
		t.Errorf("expected facing 0, got %v", p.Facing())
	}
	if p.Latency() != 0.5 {
		t.Errorf("expected latency 0.5, got %v", p.Latency())
	}
	if p.Gravity() != DefaultConfig().Gravity {
		t.Errorf("expected gravity %v, got %v", DefaultConfig().Gravity, p.Gravity())
	}
	if p.SoundSteps() != 2*dim {
		t.Errorf("expected soundSteps %v, got %v", 2*dim, p.SoundSteps())
	}
	if x, y := p.ShadowOffset(); x != 0 || y != -1.75*dim {
		t.Errorf("expected shadow (0, %v), got (%v, %v)", -1.75*dim, x, y)
	}
	if x, y := p.Margins(); x != -dim/2 || y != -dim {
		t.Errorf("unexpected margins (%v, %v)", x, y)
	}
	if p.MapID() != "town" {
		t.Errorf("expected map town, got %s", p.MapID())
	}
	if p.States() != 0 {
		t.Errorf("expected no states, got %s", p.States())
	}
}

func TestNewPlayerCoordinates(t *testing.T) {
	both := NewPlayer(1, Descriptor{X: floatPtr(32), Y: floatPtr(48)}, DefaultConfig(), Deps{})
	if both.X != 32 || both.Y != 48 {
		t.Errorf("expected (32, 48), got (%v, %v)", both.X, both.Y)
	}

	onlyX := NewPlayer(2, Descriptor{X: floatPtr(32)}, DefaultConfig(), Deps{})
	if onlyX.X != 0 || onlyX.Y != 0 {
		t.Errorf("coordinates must only apply when both are set, got (%v, %v)", onlyX.X, onlyX.Y)
	}

	shadow := NewPlayer(3, Descriptor{ShadowX: floatPtr(2), ShadowY: floatPtr(-4)}, DefaultConfig(), Deps{})
	if x, y := shadow.ShadowOffset(); x != 2 || y != -4 {
		t.Errorf("expected shadow override (2, -4), got (%v, %v)", x, y)
	}
}

func TestVelocityRoundTrip(t *testing.T) {
	p := NewPlayer(1, Descriptor{}, DefaultConfig(), Deps{})
	for _, v := range []float64{0, 0.5, 1, 2, 0.25, 3.75, -1} {
		p.SetVelocity(v)
		if p.Velocity() != v {
			t.Errorf("SetVelocity(%v) then Velocity() = %v", v, p.Velocity())
		}
		if p.Latency() != v/2 {
			t.Errorf("SetVelocity(%v): latency = %v, want %v", v, p.Latency(), v/2)
		}
	}
}

func TestRefreshStateRunning(t *testing.T) {
	tests := []struct {
		name     string
		walking  bool
		velocity float64
		want     bool
	}{
		{"run while walking", true, 1, true},
		{"run while standing", false, 1, false},
		{"walk speed while walking", true, 0.5, false},
		{"walk speed while standing", false, 0.5, false},
		{"other speed", true, 2, false},
		{"zero", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlayer(1, Descriptor{}, DefaultConfig(), Deps{})
			p.SetState(StateWalking, tt.walking)
			p.SetState(StateRunning, !tt.want)
			p.SetVelocity(tt.velocity)

			if p.Is(StateRunning) != tt.want {
				t.Errorf("expected RUNNING %v, got %v", tt.want, p.Is(StateRunning))
			}
			if p.Is(StateWalking) != tt.walking {
				t.Error("RefreshState must not touch WALKING")
			}
		})
	}
}

func TestRefreshStateJumping(t *testing.T) {
	p := NewPlayer(1, Descriptor{}, DefaultConfig(), Deps{})
	for _, z := range []float64{0, 3, -1, 0.001, 0} {
		p.Z = z
		p.RefreshState()
		if p.Is(StateJumping) != (z != 0) {
			t.Errorf("z=%v: expected JUMPING %v", z, z != 0)
		}
	}
}

func TestMoving(t *testing.T) {
	p := NewPlayer(1, Descriptor{}, DefaultConfig(), Deps{})

	p.SetMoving(true)
	if !p.Is(StateWalking) || !p.Is(StateRunning) || !p.Moving() {
		t.Errorf("SetMoving(true): states %s", p.States())
	}

	p.SetMoving(false)
	if p.Is(StateWalking) || p.Is(StateRunning) || p.Moving() {
		t.Errorf("SetMoving(false): states %s", p.States())
	}

	p.SetState(StateRunning, true)
	if !p.Moving() {
		t.Error("RUNNING alone should read as moving")
	}
}

func TestFrameIndex(t *testing.T) {
	p := NewPlayer(1, Descriptor{}, DefaultConfig(), Deps{})
	for _, walking := range []bool{false, true} {
		p.SetState(StateWalking, walking)

		p.SetState(StateRunning, false)
		if p.FrameIndex() != 0 {
			t.Errorf("walking=%v running=false: FrameIndex = %d", walking, p.FrameIndex())
		}
		p.SetState(StateRunning, true)
		if p.FrameIndex() != 2 {
			t.Errorf("walking=%v running=true: FrameIndex = %d", walking, p.FrameIndex())
		}
	}
}

func TestResetFrame(t *testing.T) {
	tests := []struct {
		frame   int
		running bool
		want    int
	}{
		{0, false, 0},
		{1, false, 2},
		{2, false, 2},
		{3, false, 0},
		{1, true, 4},
		{3, true, 2},
	}
	for _, tt := range tests {
		p := NewPlayer(1, Descriptor{}, DefaultConfig(), Deps{})
		p.Frame = tt.frame
		p.SetState(StateRunning, tt.running)
		p.ResetFrame()
		if p.Frame != tt.want {
			t.Errorf("frame %d running=%v: got %d, want %d", tt.frame, tt.running, p.Frame, tt.want)
		}
	}
}

func TestResetFramePanicsOutOfRange(t *testing.T) {
	p := NewPlayer(1, Descriptor{}, DefaultConfig(), Deps{})
	p.Frame = 4
	defer func() {
		if recover() == nil {
			t.Error("expected panic for frame outside the reset table")
		}
	}()
	p.ResetFrame()
}

func TestVelocitySync(t *testing.T) {
	tests := []struct {
		name    string
		desc    Descriptor
		offline bool
		want    int
	}{
		{"local online", Descriptor{IsLocalPlayer: true}, false, 1},
		{"local offline", Descriptor{IsLocalPlayer: true}, true, 0},
		{"npc online", Descriptor{IsNPC: true}, false, 0},
		{"network online", Descriptor{IsNetworkPlayer: true}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, sender := newTestPlayer(t, tt.desc, tt.offline)
			p.SetVelocity(1)

			msgs := sender.kinds(packets.KindVelocity)
			if len(msgs) != tt.want {
				t.Fatalf("expected %d Velocity messages, got %d", tt.want, len(msgs))
			}
			if tt.want == 0 {
				return
			}
			payload := msgs[0].payload
			if len(payload) != 2 || payload[0] != p.ID || payload[1] != 1.0 {
				t.Errorf("expected payload [%d 1], got %v", p.ID, payload)
			}
		})
	}
}

func TestVelocitySyncSendsRawValue(t *testing.T) {
	p, sender := newTestPlayer(t, Descriptor{IsLocalPlayer: true}, false)
	p.SetVelocity(3)
	msgs := sender.kinds(packets.KindVelocity)
	if len(msgs) != 1 || msgs[0].payload[1] != 3.0 {
		t.Errorf("expected raw velocity 3 on the wire, got %v", msgs)
	}
}

func TestAction(t *testing.T) {
	maps := &fakeMaps{}
	p := NewPlayer(1, Descriptor{Map: "route1", X: floatPtr(32.7), Y: floatPtr(48.2)}, DefaultConfig(), Deps{Maps: maps})

	tests := []struct {
		facing Facing
		want   math.Point
	}{
		{Up, math.Point{X: 32, Y: 32}},
		{Down, math.Point{X: 32, Y: 64}},
		{Left, math.Point{X: 16, Y: 48}},
		{Right, math.Point{X: 48, Y: 48}},
	}
	for _, tt := range tests {
		p.facing = tt.facing
		p.Action()
		got := maps.triggers[len(maps.triggers)-1]
		if got.mapID != "route1" || got.pos != tt.want || got.p != p {
			t.Errorf("facing %s: got trigger %+v, want pos %v", tt.facing, got, tt.want)
		}
	}
}

func TestUpdateIdle(t *testing.T) {
	p := NewPlayer(1, Descriptor{}, DefaultConfig(), Deps{})
	for i := 0; i < 5; i++ {
		p.Update()
	}
	if p.Idle() != 5 {
		t.Errorf("expected idle 5, got %d", p.Idle())
	}

	p.Step(Down)
	p.Update()
	if p.Idle() != 0 {
		t.Errorf("expected idle reset while walking, got %d", p.Idle())
	}
}

func TestCancel(t *testing.T) {
	p := NewPlayer(1, Descriptor{}, DefaultConfig(), Deps{})
	p.Step(Down)
	p.Step(Down)
	p.Update()
	if !p.Moving() {
		t.Fatal("expected player moving mid-step")
	}

	p.Cancel()
	if p.Animations.Len() != 0 || p.Moving() || p.Is(StateRunning) {
		t.Errorf("expected queue and gait cleared, got queue=%d states=%v", p.Animations.Len(), p.States())
	}
	for i := 0; i < 10; i++ {
		p.Update()
	}
	if p.Idle() != 10 {
		t.Errorf("expected idle to advance after cancel, got %d", p.Idle())
	}

	p.Jump()
	p.Update()
	if p.Z <= 0 {
		t.Fatal("expected player airborne")
	}
	p.Cancel()
	if p.Z != 0 || p.Jumping() {
		t.Errorf("expected landed player, got z=%v jumping=%v", p.Z, p.Jumping())
	}
}

func TestStateFlagString(t *testing.T) {
	if got := (StateWalking | StateRunning).String(); got != "WALKING|RUNNING" {
		t.Errorf("unexpected %q", got)
	}
	if got := StateFlag(0).String(); got != "NONE" {
		t.Errorf("unexpected %q", got)
	}
}

func TestDefaultGaitRuns(t *testing.T) {
	p := NewPlayer(9, Descriptor{IsNPC: true}, DefaultConfig(), Deps{})
	if p.Velocity() != VelocityRun {
		t.Fatalf("expected default velocity %v, got %v", VelocityRun, p.Velocity())
	}
	p.Step(Left)
	p.Update()
	if !p.Is(StateRunning) {
		t.Error("expected a player without a velocity message to run")
	}

	p.Cancel()
	p.SetVelocity(VelocityWalk)
	p.Step(Left)
	p.Update()
	if p.Is(StateRunning) || !p.Is(StateWalking) {
		t.Errorf("expected walking after velocity change, got %v", p.States())
	}
}
