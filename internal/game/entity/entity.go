// Package entity implements game entities: the generic positioned entity and
// the player/NPC state machine built on top of it.
package entity

import (
	"strings"

	"github.com/Faultbox/tileclient/pkg/math"
)

// StateFlag is one named boolean of an entity's state table.
// The table is stored as a bitmask of these flags.
type StateFlag uint8

const (
	StateWalking StateFlag = 1 << iota
	StateRunning
	StateBumping
	StateJumping
	StateFacing
)

var stateNames = []struct {
	flag StateFlag
	name string
}{
	{StateWalking, "WALKING"},
	{StateRunning, "RUNNING"},
	{StateBumping, "BUMPING"},
	{StateJumping, "JUMPING"},
	{StateFacing, "FACING"},
}

// String lists the set flags, e.g. "WALKING|RUNNING".
func (s StateFlag) String() string {
	var parts []string
	for _, n := range stateNames {
		if s&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "NONE"
	}
	return strings.Join(parts, "|")
}

// Entity is a positioned, renderable game object with a state table and an
// animation queue.
type Entity struct {
	ID   uint32
	Name string

	// World position. Z is the vertical offset, 0 means grounded.
	X, Y, Z float64

	Width  float64
	Height float64

	// Sprite column currently displayed.
	Frame int

	// Opacity in [0, 1], driven by fade animations.
	Opacity float64

	Animations AnimationQueue

	states StateFlag
}

// NewEntity creates a new entity.
func NewEntity(id uint32) *Entity {
	return &Entity{
		ID:      id,
		Opacity: 1,
	}
}

// SetPosition sets the entity position.
func (e *Entity) SetPosition(x, y, z float64) {
	e.X = x
	e.Y = y
	e.Z = z
}

// Position returns the entity position.
func (e *Entity) Position() (x, y, z float64) {
	return e.X, e.Y, e.Z
}

// Is reports whether the given state flag is set.
func (e *Entity) Is(flag StateFlag) bool {
	return e.states&flag != 0
}

// SetState sets or clears a state flag.
func (e *Entity) SetState(flag StateFlag, on bool) {
	if on {
		e.states |= flag
	} else {
		e.states &^= flag
	}
}

// States returns the full state table.
func (e *Entity) States() StateFlag {
	return e.states
}

// Tile returns the tile cell the entity's floored position falls in.
func (e *Entity) Tile(dimension int) math.Point {
	return math.Vec2{X: e.X, Y: e.Y}.Floor().ToCell(dimension)
}

// Release drops any queued animations. The owning collection calls it when
// the entity is removed.
func (e *Entity) Release() {
	e.Animations.Clear()
}
