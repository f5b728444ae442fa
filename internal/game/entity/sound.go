package entity

import gomath "math"

// Sound effect names requested from the SoundPlayer.
const (
	SoundFootstep = "footstep"
	SoundBump     = "bump"
	SoundJump     = "jump"
	SoundLand     = "land"
)

// advanceSteps adds walked distance to the step counter and plays a footstep
// each time it crosses soundSteps. The counter stays in [0, soundSteps).
func (p *Player) advanceSteps(d float64) {
	if p.soundSteps <= 0 || d <= 0 {
		return
	}
	p.stepCount += d
	if p.stepCount >= p.soundSteps {
		p.stepCount = gomath.Mod(p.stepCount, p.soundSteps)
		p.playSound(SoundFootstep)
	}
}

func (p *Player) playSound(name string) {
	p.sound.PlaySound(name)
}
