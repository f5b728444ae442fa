package states

import (
	"testing"

	"github.com/Faultbox/tileclient/internal/game/entity"
	"github.com/Faultbox/tileclient/pkg/math"
)

func TestInGameEnterOffline(t *testing.T) {
	s := newSession(t, false)
	st := enterTown(t, s)

	local := st.Local()
	if local == nil {
		t.Fatal("expected local player after Enter")
	}
	if local.ID != offlineLocalID {
		t.Errorf("expected local id %d, got %d", offlineLocalID, local.ID)
	}
	if local.X != 16 || local.Y != 16 {
		t.Errorf("expected start (16,16), got (%v,%v)", local.X, local.Y)
	}
	if local.MapID() != "town" {
		t.Errorf("expected map town, got %q", local.MapID())
	}

	guard := s.Entities.Get(npcIDBase)
	if guard == nil || !guard.IsNPC() {
		t.Fatalf("expected guard npc with id %d, got %v", npcIDBase, guard)
	}
	if tileOf(guard) != (math.Point{X: 3, Y: 1}) {
		t.Errorf("expected guard on (3,1), got %v", tileOf(guard))
	}
	if guard.Facing() != entity.Up {
		t.Errorf("expected guard facing up, got %v", guard.Facing())
	}

	if s.Camera.BoundsWidth != 80 || s.Camera.BoundsHeight != 48 {
		t.Errorf("expected camera bounds 80x48, got %vx%v", s.Camera.BoundsWidth, s.Camera.BoundsHeight)
	}
}

func TestInGameEnterUnknownMap(t *testing.T) {
	s := newSession(t, false)
	st := NewInGameState(InGameStateConfig{MapName: "nowhere"}, s, NewManager())
	if err := st.Enter(); err == nil {
		t.Error("expected error entering a missing map")
	}
}

func TestInGameExtraNPCs(t *testing.T) {
	x, y := 50.0, 20.0
	cx, cy := 0.0, 0.0
	s := newSession(t, false)
	enterTown(t, s,
		entity.Descriptor{Name: "merchant", Map: "town", X: &x, Y: &y},
		entity.Descriptor{Name: "hermit", Map: "cave", X: &cx, Y: &cy},
		entity.Descriptor{Name: "ghost", Map: "town"},
	)

	if got := s.Entities.CountByClass(entity.ClassNPC); got != 2 {
		t.Fatalf("expected guard and merchant, got %d npcs", got)
	}
	merchant := s.Entities.At("town", math.Point{X: 3, Y: 1})
	if merchant == nil {
		t.Fatal("expected an npc on (3,1)")
	}
	for _, p := range s.Entities.OnMap("town") {
		if p.Name == "merchant" && (p.X != 48 || p.Y != 16) {
			t.Errorf("expected merchant snapped to (48,16), got (%v,%v)", p.X, p.Y)
		}
	}
	if len(s.Entities.OnMap("cave")) != 0 {
		t.Error("cave npcs should wait for the cave to load")
	}
}

func TestMoveLocal(t *testing.T) {
	s := newSession(t, false)
	st := enterTown(t, s)
	local := st.Local()

	if !st.MoveLocal(entity.Right, false) {
		t.Fatal("expected move right to be accepted")
	}
	if st.MoveLocal(entity.Right, false) {
		t.Error("expected input to be ignored while moving")
	}
	settle(t, st)
	if got := tileOf(local); got != (math.Point{X: 2, Y: 1}) {
		t.Errorf("expected local on (2,1), got %v", got)
	}

	// (3,1) holds the guard but the grid only knows collision tiles.
	if !st.MoveLocal(entity.Up, true) {
		t.Fatal("expected run up to be accepted")
	}
	settle(t, st)
	if got := tileOf(local); got != (math.Point{X: 2, Y: 0}) {
		t.Errorf("expected local on (2,0), got %v", got)
	}

	if st.MoveLocal(entity.Up, false) {
		t.Error("expected move off the map to bump")
	}
	settle(t, st)
	if got := tileOf(local); got != (math.Point{X: 2, Y: 0}) {
		t.Errorf("bump should not move the player, got %v", got)
	}
}

func TestMoveLocalTo(t *testing.T) {
	s := newSession(t, false)
	st := enterTown(t, s)

	path := st.MoveLocalTo(math.Point{X: 3, Y: 2}, false)
	if len(path) != 4 {
		t.Fatalf("expected 4 cell path, got %v", path)
	}
	settle(t, st)
	if got := tileOf(st.Local()); got != (math.Point{X: 3, Y: 2}) {
		t.Errorf("expected local on (3,2), got %v", got)
	}

	if st.MoveLocalTo(math.Point{X: 4, Y: 0}, false) != nil {
		t.Error("expected no path into a blocked cell")
	}
}

func TestJumpLocal(t *testing.T) {
	s := newSession(t, false)
	st := enterTown(t, s)

	st.JumpLocal()
	if !st.Local().Animations.Has(entity.AnimJump) {
		t.Error("expected a queued jump")
	}
	st.JumpLocal()
	if n := st.Local().Animations.Len(); n != 1 {
		t.Errorf("expected a single queued jump, got %d", n)
	}
}

func TestInteractSign(t *testing.T) {
	s := newSession(t, false)
	st := enterTown(t, s)

	st.Local().ChangeFacing(entity.Up)
	st.InteractLocal()
	msg, ok := s.Chat.Last()
	if !ok || msg.Message != "Hello" || msg.Sender != "board" {
		t.Errorf("expected sign text Hello from board, got %+v", msg)
	}
}

func TestInteractWarp(t *testing.T) {
	s := newSession(t, false)
	st := enterTown(t, s)
	local := st.Local()

	// The start cell faces the door.
	st.InteractLocal()

	if local.MapID() != "cave" {
		t.Fatalf("expected local on cave, got %q", local.MapID())
	}
	if local.X != 32 || local.Y != 16 {
		t.Errorf("expected (32,16) on the cave, got (%v,%v)", local.X, local.Y)
	}
	if s.Maps.Current().ID != "cave" {
		t.Errorf("expected current map cave, got %q", s.Maps.Current().ID)
	}
	if s.Camera.BoundsWidth != 48 {
		t.Errorf("expected camera bounds of the cave, got %v", s.Camera.BoundsWidth)
	}
	if s.Entities.Get(npcIDBase) == nil {
		t.Error("town npcs should stay registered")
	}
	if msg, _ := s.Chat.Last(); msg.Message != "Entered cave" {
		t.Errorf("expected warp notice, got %q", msg.Message)
	}
}

func TestInteractFacesNPC(t *testing.T) {
	s := newSession(t, false)
	st := enterTown(t, s)

	st.MoveLocal(entity.Right, false)
	settle(t, st)

	st.InteractLocal()
	guard := s.Entities.Get(npcIDBase)
	if guard.Facing() != entity.Left {
		t.Errorf("expected guard to face the player, got %v", guard.Facing())
	}
}

func TestNoLocalActions(t *testing.T) {
	s := newSession(t, true)
	st := enterTown(t, s)

	if st.Local() != nil {
		t.Fatal("online state should wait for Welcome")
	}
	if st.MoveLocal(entity.Up, false) {
		t.Error("expected no move without local player")
	}
	if st.MoveLocalTo(math.Point{X: 1, Y: 1}, false) != nil {
		t.Error("expected no path without local player")
	}
	st.JumpLocal()
	st.InteractLocal()
}

func TestUpdateRefreshesOverlay(t *testing.T) {
	s := newSession(t, false)
	st := enterTown(t, s)

	if err := st.Update(1.0 / 60); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	o := s.Overlay
	if !o.HasLocal || o.LocalX != 16 || o.LocalY != 16 {
		t.Errorf("expected local (16,16) in overlay, got %v (%v,%v)", o.HasLocal, o.LocalX, o.LocalY)
	}
	if o.MapName != "town" {
		t.Errorf("expected map town, got %q", o.MapName)
	}
	if o.EntityCount != 2 || o.InView != 2 {
		t.Errorf("expected 2 entities in view, got %d/%d", o.InView, o.EntityCount)
	}
	if o.Online {
		t.Error("expected offline overlay")
	}
}

func TestInGameExit(t *testing.T) {
	s := newSession(t, false)
	st := enterTown(t, s)
	if err := st.Exit(); err != nil {
		t.Errorf("Exit() error: %v", err)
	}
}
