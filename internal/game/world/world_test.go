package world

import (
	"errors"
	"testing"

	"github.com/Faultbox/tileclient/internal/game/entity"
	"github.com/Faultbox/tileclient/pkg/math"
)

func TestMapCells(t *testing.T) {
	m := NewMap("test", 3, 2, 16)

	if !m.IsWalkable(0, 0) {
		t.Error("new maps are walkable")
	}
	m.SetBlocked(1, 1, true)
	if m.IsWalkable(1, 1) {
		t.Error("expected (1,1) blocked")
	}
	m.SetBlocked(1, 1, false)
	if !m.IsWalkable(1, 1) {
		t.Error("expected (1,1) walkable again")
	}

	m.SetBlocked(9, 9, true)
	if m.IsWalkable(3, 0) || m.IsWalkable(0, -1) {
		t.Error("cells off the map are not walkable")
	}

	if got := m.WorldToCell(math.Point{X: 33, Y: 17}); got != pt(2, 1) {
		t.Errorf("WorldToCell = %v", got)
	}
	if got := m.CellToWorld(pt(2, 1)); got != (math.Point{X: 32, Y: 16}) {
		t.Errorf("CellToWorld = %v", got)
	}
}

func TestManagerLoadMap(t *testing.T) {
	mgr := NewManager(testFS(), "maps", nil)

	m, err := mgr.LoadMap("town")
	if err != nil {
		t.Fatalf("LoadMap() error: %v", err)
	}
	if mgr.Current() != m || mgr.IsLoading() {
		t.Error("expected town to be current and loading done")
	}

	again, err := mgr.LoadMap("town")
	if err != nil || again != m {
		t.Error("expected the cached map on a second load")
	}

	if _, err := mgr.LoadMap("cave"); err == nil {
		t.Error("expected error for a missing map file")
	}
	if mgr.Current() != m {
		t.Error("a failed load must keep the current map")
	}

	if _, err := mgr.Get("cave"); !errors.Is(err, ErrUnknownMap) {
		t.Errorf("expected ErrUnknownMap, got %v", err)
	}

	if !mgr.IsWalkable("town", pt(0, 0)) || mgr.IsWalkable("town", pt(1, 1)) {
		t.Error("unexpected walkability from the manager")
	}
	if mgr.IsWalkable("cave", pt(0, 0)) {
		t.Error("unknown maps are never walkable")
	}
}

func TestManagerWithoutFS(t *testing.T) {
	mgr := NewManager(nil, "", nil)
	if _, err := mgr.LoadMap("town"); !errors.Is(err, ErrUnknownMap) {
		t.Errorf("expected ErrUnknownMap, got %v", err)
	}

	mgr.Add(NewMap("town", 2, 2, 16))
	if _, err := mgr.LoadMap("town"); err != nil {
		t.Errorf("expected added map to load, got %v", err)
	}
}

func TestActionTrigger(t *testing.T) {
	mgr := NewManager(testFS(), "maps", nil)
	if _, err := mgr.LoadMap("town"); err != nil {
		t.Fatalf("LoadMap() error: %v", err)
	}

	var fired []*Trigger
	var by []*entity.Player
	mgr.Handle("sign", func(tr *Trigger, p *entity.Player) {
		fired = append(fired, tr)
		by = append(by, p)
	})

	x, y := 16.0, 0.0
	p := entity.NewPlayer(1, entity.Descriptor{Map: "town", X: &x, Y: &y, Facing: entity.Right},
		entity.DefaultConfig(), entity.Deps{Maps: mgr})
	p.Action()

	if len(fired) != 1 || fired[0].Name != "welcome" || by[0] != p {
		t.Fatalf("expected the sign to fire for the player, got %v", fired)
	}

	// Facing down at (1,0) there is a wall, not a trigger.
	p.ChangeFacing(entity.Down)
	p.Action()
	if len(fired) != 1 {
		t.Errorf("expected no trigger below, got %d fires", len(fired))
	}

	// Unknown maps and unhandled kinds are ignored.
	mgr.ActionTrigger("cave", math.Point{}, p)
	mgr.ActionTrigger("town", math.Point{X: 48, Y: 32}, p)
	if len(fired) != 1 {
		t.Errorf("unexpected fires: %d", len(fired))
	}
}

func TestTriggerAt(t *testing.T) {
	mgr := NewManager(nil, "", nil)
	m := NewMap("room", 4, 4, 16)
	m.AddTrigger(&Trigger{Kind: "sign", Name: "note", Cell: pt(1, 2)})
	mgr.Add(m)

	tr, err := mgr.TriggerAt("room", math.Point{X: 20, Y: 40})
	if err != nil || tr == nil || tr.Name != "note" {
		t.Errorf("expected note trigger, got %+v (%v)", tr, err)
	}
	tr, err = mgr.TriggerAt("room", math.Point{X: 0, Y: 0})
	if err != nil || tr != nil {
		t.Errorf("expected nothing at the origin, got %+v (%v)", tr, err)
	}
	if _, err := mgr.TriggerAt("hall", math.Point{}); !errors.Is(err, ErrUnknownMap) {
		t.Errorf("expected ErrUnknownMap, got %v", err)
	}
}
