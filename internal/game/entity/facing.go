package entity

import (
	"strings"

	"github.com/Faultbox/tileclient/internal/network/packets"
	"github.com/Faultbox/tileclient/pkg/math"
)

// Facing is the direction an entity is oriented toward.
type Facing int

const (
	Up Facing = iota
	Down
	Left
	Right
)

// NumFacings is the number of facing values.
const NumFacings = 4

var facingNames = [NumFacings]string{"UP", "DOWN", "LEFT", "RIGHT"}

func (f Facing) String() string {
	if !f.Valid() {
		return "INVALID"
	}
	return facingNames[f]
}

// ParseFacing parses a facing name such as "up" or "LEFT".
func ParseFacing(s string) (Facing, bool) {
	for i, name := range facingNames {
		if strings.EqualFold(s, name) {
			return Facing(i), true
		}
	}
	return Up, false
}

// Valid reports whether f is one of the four facings.
func (f Facing) Valid() bool {
	return f >= Up && f <= Right
}

// Opposite returns the facing pointing the other way.
func (f Facing) Opposite() Facing {
	switch f {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return f
}

// Delta returns the unit step for the facing. Y grows downward.
func (f Facing) Delta() (dx, dy int) {
	switch f {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// FacingFromDelta returns the facing for a unit grid step.
func FacingFromDelta(dx, dy int) (Facing, bool) {
	switch {
	case dx == 0 && dy < 0:
		return Up, true
	case dx == 0 && dy > 0:
		return Down, true
	case dx < 0 && dy == 0:
		return Left, true
	case dx > 0 && dy == 0:
		return Right, true
	}
	return Up, false
}

// TilePosition returns the world position of the tile immediately in front of
// (x, y) for the given facing, one dimension away.
func TilePosition(x, y int, f Facing, dimension int) math.Point {
	dx, dy := f.Delta()
	return math.Point{X: x + dx*dimension, Y: y + dy*dimension}
}

// ChangeFacing turns the player to f. The turn raises FACING for a few ticks,
// keeps the previous facing in lastFacing and advances the turn counter used
// for the shuffle sound. Local players report the turn to the server.
func (p *Player) ChangeFacing(f Facing) {
	if !f.Valid() || f == p.facing {
		return
	}
	p.lastFacing = p.facing
	p.facing = f
	p.SetState(StateFacing, true)
	p.faceTimer = p.cfg.FaceTicks

	p.faceCount = (p.faceCount + 1) % p.cfg.FaceCadence
	if p.faceCount == 0 {
		p.playSound(SoundFootstep)
	}

	p.sync.Sync(p.IsLocalPlayer(), packets.KindFacing, p.ID, int(f))
}

// FaceEntity turns the player toward other, so that both face each other.
func (p *Player) FaceEntity(other *Player) {
	if other == nil {
		return
	}
	facing := other.facing.Opposite()
	if p.facing != facing {
		p.ChangeFacing(facing)
	}
}

// updateFacing counts down the FACING flag raised by ChangeFacing.
func (p *Player) updateFacing() {
	if !p.Is(StateFacing) {
		return
	}
	p.faceTimer--
	if p.faceTimer <= 0 {
		p.faceTimer = 0
		p.SetState(StateFacing, false)
	}
}
