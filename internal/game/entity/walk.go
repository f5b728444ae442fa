package entity

import (
	"go.uber.org/zap"

	"github.com/Faultbox/tileclient/internal/network/packets"
	"github.com/Faultbox/tileclient/pkg/math"
)

// Stride columns used in frames; each step alternates between them.
var strideColumns = [2]int{1, 3}

// Walk queues a one-tile walk in direction f.
func (p *Player) Walk(f Facing) {
	p.setGait(VelocityWalk)
	p.Step(f)
}

// Run queues a one-tile run in direction f.
func (p *Player) Run(f Facing) {
	p.setGait(VelocityRun)
	p.Step(f)
}

// Step queues a one-tile move at the current velocity. Local players report
// the step to the server.
func (p *Player) Step(f Facing) {
	if !f.Valid() {
		return
	}
	p.Animations.Push(NewMove(f))
	p.sync.Sync(p.IsLocalPlayer(), packets.KindMove, p.ID, int(f))
}

// Bump queues a bump against the tile in direction f.
func (p *Player) Bump(f Facing) {
	if !f.Valid() {
		return
	}
	p.Animations.Push(NewBump(f))
}

// WalkPath queues one move per step of a tile path. The first cell is the
// cell the path starts from; steps that are not to an adjacent cell end the
// walk.
func (p *Player) WalkPath(path []math.Point) int {
	queued := 0
	for i := 1; i < len(path); i++ {
		f, ok := FacingFromDelta(path[i].X-path[i-1].X, path[i].Y-path[i-1].Y)
		if !ok || path[i].Manhattan(path[i-1]) != 1 {
			p.log.Debug("path step is not adjacent",
				zap.Uint32("entity", p.ID),
				zap.Int("index", i))
			break
		}
		p.Step(f)
		queued++
	}
	return queued
}

// FadeTo queues a fade toward target opacity.
func (p *Player) FadeTo(target, step float64) {
	p.Animations.Push(NewFade(target, step))
}

func (p *Player) setGait(v float64) {
	if p.Velocity() != v {
		p.SetVelocity(v)
	}
}

// turn faces f without raising FACING; used when a move or bump starts.
func (p *Player) turn(f Facing) {
	if f.Valid() && f != p.facing {
		p.lastFacing = p.facing
		p.facing = f
	}
}

func (p *Player) nextStride() int {
	p.stride = (p.stride + 1) % len(strideColumns)
	return p.frames[strideColumns[p.stride]]
}

// moveAnimation walks one tile along the descriptor facing.
func (p *Player) moveAnimation(a *Animation) bool {
	dim := float64(p.cfg.Dimension)
	dx, dy := a.Facing.Delta()

	if !a.started {
		a.started = true
		a.originX = p.X
		a.originY = p.Y
		p.turn(a.Facing)
		p.SetState(StateWalking, true)
		p.RefreshState()
	}

	speed := p.Velocity() * p.cfg.MoveSpeed
	if speed <= 0 {
		// A stopped entity discards its queued step.
		p.SetMoving(false)
		return true
	}

	remaining := dim - a.travelled
	if speed > remaining {
		speed = remaining
	}
	p.X += float64(dx) * speed
	p.Y += float64(dy) * speed
	a.travelled += speed
	p.advanceSteps(speed)

	if !a.halfway && a.travelled >= dim/2 {
		a.halfway = true
		p.Frame = p.nextStride()
	}

	if a.travelled < dim {
		return false
	}

	// Snap to the grid so float drift never accumulates across tiles.
	p.X = a.originX + float64(dx)*dim
	p.Y = a.originY + float64(dy)*dim
	p.ResetFrame()

	if next := p.Animations.Peek(1); next == nil || next.Type != AnimMove {
		p.SetMoving(false)
	}
	return true
}

// bumpAnimation plays a walk-in-place against a blocked tile.
func (p *Player) bumpAnimation(a *Animation) bool {
	if !a.started {
		a.started = true
		p.turn(a.Facing)
		p.SetState(StateBumping, true)
		p.Frame = p.nextStride()
		p.playSound(SoundBump)
	}

	a.ticks++
	if a.ticks == p.cfg.BumpTicks/2 {
		p.Frame = p.nextStride()
	}
	if a.ticks < p.cfg.BumpTicks {
		return false
	}

	p.SetState(StateBumping, false)
	p.ResetFrame()
	return true
}
