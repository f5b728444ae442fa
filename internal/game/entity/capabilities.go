package entity

import (
	"github.com/Faultbox/tileclient/pkg/math"
)

// Syncer forwards locally mutated state to the remote authority. local tells
// whether the mutated entity is this client's avatar. It returns true when a
// message was handed to the transport.
type Syncer interface {
	Sync(local bool, kind string, payload ...any) bool
}

// Maps resolves a map by id and fires the action trigger at pos.
type Maps interface {
	ActionTrigger(mapID string, pos math.Point, p *Player)
}

// SoundPlayer plays a named sound effect.
type SoundPlayer interface {
	PlaySound(name string)
}

// Facer is implemented by entities that can turn.
type Facer interface {
	Facing() Facing
	ChangeFacing(f Facing)
	FaceEntity(other *Player)
}

// Walker is implemented by entities that step across tiles.
type Walker interface {
	Walk(f Facing)
	Run(f Facing)
	Bump(f Facing)
	Moving() bool
	SetMoving(v bool)
}

// Jumper is implemented by entities that can leave the ground.
type Jumper interface {
	Jump()
	Jumping() bool
}

// SoundEmitter is implemented by entities that emit sounds.
type SoundEmitter interface {
	StepCount() float64
	SoundSteps() float64
}

var (
	_ Facer        = (*Player)(nil)
	_ Walker       = (*Player)(nil)
	_ Jumper       = (*Player)(nil)
	_ SoundEmitter = (*Player)(nil)
)

type nopSyncer struct{}

func (nopSyncer) Sync(bool, string, ...any) bool { return false }

type nopMaps struct{}

func (nopMaps) ActionTrigger(string, math.Point, *Player) {}

type nopSound struct{}

func (nopSound) PlaySound(string) {}
