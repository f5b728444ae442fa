package entity

import (
	"github.com/Faultbox/tileclient/internal/network/packets"
)

// Jump queues an in-place jump. Local players report it to the server.
func (p *Player) Jump() {
	p.Animations.Push(NewJump())
	p.sync.Sync(p.IsLocalPlayer(), packets.KindJump, p.ID)
}

// Jumping reports whether the player is off the ground as of the last
// refresh.
func (p *Player) Jumping() bool {
	return p.Is(StateJumping)
}

// jumpAnimation integrates one tick of the jump arc. Z returning to 0 ends
// the jump; JUMPING drops on the following refresh.
func (p *Player) jumpAnimation(a *Animation) bool {
	if !a.started {
		a.started = true
		a.vz = p.cfg.JumpImpulse
		p.playSound(SoundJump)
	}

	p.Z += a.vz
	a.vz -= p.gravity

	if p.Z > 0 {
		return false
	}
	p.Z = 0
	p.playSound(SoundLand)
	return true
}
