package entity

import "go.uber.org/zap"

// AnimationType tags a queued animation descriptor.
type AnimationType string

const (
	AnimFade AnimationType = "fade"
	AnimJump AnimationType = "jump"
	AnimMove AnimationType = "move"
	AnimBump AnimationType = "bump"
)

// Animation is a queued instruction consumed by Player.Animate.
// Only the fields relevant to Type are read.
type Animation struct {
	Type AnimationType

	// move, bump
	Facing Facing

	// fade
	Target float64
	Step   float64

	// Progress, owned by the handler.
	started   bool
	halfway   bool
	travelled float64
	ticks     int
	vz        float64
	originX   float64
	originY   float64
}

// NewMove returns a one-tile move descriptor.
func NewMove(f Facing) *Animation {
	return &Animation{Type: AnimMove, Facing: f}
}

// NewBump returns a bump descriptor against the tile in direction f.
func NewBump(f Facing) *Animation {
	return &Animation{Type: AnimBump, Facing: f}
}

// NewJump returns an in-place jump descriptor.
func NewJump() *Animation {
	return &Animation{Type: AnimJump}
}

// NewFade returns a fade descriptor moving opacity toward target by step per
// tick.
func NewFade(target, step float64) *Animation {
	return &Animation{Type: AnimFade, Target: target, Step: step}
}

// AnimationQueue is a strict FIFO of animation descriptors. Only the head is
// ever active.
type AnimationQueue struct {
	items []*Animation
}

// Push appends an animation to the tail.
func (q *AnimationQueue) Push(a *Animation) {
	if a == nil {
		return
	}
	q.items = append(q.items, a)
}

// Head returns the active animation, or nil when the queue is empty.
func (q *AnimationQueue) Head() *Animation {
	if len(q.items) == 0 {
		return nil
	}
	return q.items[0]
}

// Peek returns the animation at position i, or nil.
func (q *AnimationQueue) Peek(i int) *Animation {
	if i < 0 || i >= len(q.items) {
		return nil
	}
	return q.items[i]
}

// Pop removes the head.
func (q *AnimationQueue) Pop() *Animation {
	if len(q.items) == 0 {
		return nil
	}
	head := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return head
}

// Len returns the number of queued animations.
func (q *AnimationQueue) Len() int {
	return len(q.items)
}

// Has reports whether any queued animation has the given type.
func (q *AnimationQueue) Has(t AnimationType) bool {
	for _, a := range q.items {
		if a.Type == t {
			return true
		}
	}
	return false
}

// Clear drops every queued animation.
func (q *AnimationQueue) Clear() {
	for i := range q.items {
		q.items[i] = nil
	}
	q.items = nil
}

// Animate advances the head of the animation queue by one tick. The head is
// removed once its handler reports completion; the next entry starts on the
// following tick. Entries with an unknown tag are dropped.
func (p *Player) Animate() {
	head := p.Animations.Head()
	if head == nil {
		return
	}

	var done bool
	switch head.Type {
	case AnimFade:
		done = p.fade(head)
	case AnimJump:
		done = p.jumpAnimation(head)
	case AnimMove:
		done = p.moveAnimation(head)
	case AnimBump:
		done = p.bumpAnimation(head)
	default:
		p.log.Warn("dropping unknown animation",
			zap.Uint32("entity", p.ID),
			zap.String("type", string(head.Type)))
		done = true
	}

	if done {
		p.Animations.Pop()
	}
}

// fade steps opacity toward the descriptor target.
func (p *Player) fade(a *Animation) bool {
	step := a.Step
	if step <= 0 {
		step = defaultFadeStep
	}
	switch {
	case p.Opacity < a.Target:
		p.Opacity += step
		if p.Opacity >= a.Target {
			p.Opacity = a.Target
		}
	case p.Opacity > a.Target:
		p.Opacity -= step
		if p.Opacity <= a.Target {
			p.Opacity = a.Target
		}
	}
	return p.Opacity == a.Target
}

const defaultFadeStep = 0.05
