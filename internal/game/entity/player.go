package entity

import (
	"fmt"
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/tileclient/internal/network/packets"
)

// Classification tells who drives a player entity.
type Classification uint8

const (
	// ClassNPC is a non-player, non-networked entity.
	ClassNPC Classification = iota
	// ClassLocal is the avatar controlled by this client.
	ClassLocal
	// ClassNetwork is a remote player mirrored locally.
	ClassNetwork
)

func (c Classification) String() string {
	switch c {
	case ClassLocal:
		return "local"
	case ClassNetwork:
		return "network"
	default:
		return "npc"
	}
}

// Velocity values understood by RefreshState.
const (
	VelocityWalk = 0.5
	VelocityRun  = 1.0
)

// Config holds the process-wide values a player reads. It is injected at
// construction instead of being read from globals.
type Config struct {
	Dimension   int     // Tile edge in world units
	Gravity     float64 // Subtracted from the jump speed every tick
	JumpImpulse float64 // Initial upward speed of a jump
	MoveSpeed   float64 // World units per tick at velocity 1
	BumpTicks   int     // Duration of a bump
	FaceTicks   int     // How long FACING stays raised after a turn
	FaceCadence int     // Turns per shuffle sound
}

// DefaultConfig returns the stock entity configuration.
func DefaultConfig() Config {
	return Config{
		Dimension:   16,
		Gravity:     0.35,
		JumpImpulse: 2.8,
		MoveSpeed:   2,
		BumpTicks:   24,
		FaceTicks:   6,
		FaceCadence: 4,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Dimension <= 0 {
		c.Dimension = d.Dimension
	}
	if c.Gravity <= 0 {
		c.Gravity = d.Gravity
	}
	if c.JumpImpulse <= 0 {
		c.JumpImpulse = d.JumpImpulse
	}
	if c.MoveSpeed <= 0 {
		c.MoveSpeed = d.MoveSpeed
	}
	if c.BumpTicks <= 0 {
		c.BumpTicks = d.BumpTicks
	}
	if c.FaceTicks <= 0 {
		c.FaceTicks = d.FaceTicks
	}
	if c.FaceCadence <= 0 {
		c.FaceCadence = d.FaceCadence
	}
	return c
}

// Descriptor describes a player at creation time.
type Descriptor struct {
	Name            string   `yaml:"name"`
	IsLocalPlayer   bool     `yaml:"local"`
	IsNPC           bool     `yaml:"npc"`
	IsNetworkPlayer bool     `yaml:"network"`
	Map             string   `yaml:"map"`
	X               *float64 `yaml:"x"`
	Y               *float64 `yaml:"y"`
	ShadowX         *float64 `yaml:"shadow_x"`
	ShadowY         *float64 `yaml:"shadow_y"`
	Facing          Facing   `yaml:"facing"`
}

// Deps are the collaborators a player talks to. Nil members are replaced by
// no-op implementations.
type Deps struct {
	Sync  Syncer
	Maps  Maps
	Sound SoundPlayer
	Log   *zap.Logger
}

// idleCap bounds the idle tick counter.
const idleCap = 1 << 20

// Player is the player/NPC entity: classification, facing, movement state and
// the animation queue processor.
type Player struct {
	*Entity

	cfg   Config
	sync  Syncer
	maps  Maps
	sound SoundPlayer
	log   *zap.Logger

	class   Classification
	mapID   string
	gravity float64

	// Half of the last velocity that was set.
	latency float64

	facing     Facing
	lastFacing Facing
	faceTimer  int
	faceCount  int

	// Distance walked since the last footstep, in world units.
	stepCount  float64
	soundSteps float64

	// Stride alternates between the two foot columns of frames.
	stride int
	frames [6]int
	// Reset column for each stride column.
	frameReset [4]int

	idle int

	shadowX, shadowY float64
	xMargin, yMargin float64
}

// NewPlayer creates a player from a descriptor.
func NewPlayer(id uint32, desc Descriptor, cfg Config, deps Deps) *Player {
	cfg = cfg.withDefaults()
	dim := float64(cfg.Dimension)

	p := &Player{
		Entity:     NewEntity(id),
		cfg:        cfg,
		sync:       deps.Sync,
		maps:       deps.Maps,
		sound:      deps.Sound,
		log:        deps.Log,
		mapID:      desc.Map,
		gravity:    cfg.Gravity,
		latency:    0.5,
		soundSteps: dim * 2,
		frames:     [6]int{0, 1, 0, 2, 3, 4},
		frameReset: [4]int{0, 2, 2, 0},
		shadowX:    0,
		shadowY:    -1.75 * dim,
		xMargin:    -(dim / 2),
		yMargin:    -dim,
	}
	if p.sync == nil {
		p.sync = nopSyncer{}
	}
	if p.maps == nil {
		p.maps = nopMaps{}
	}
	if p.sound == nil {
		p.sound = nopSound{}
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}

	p.Name = desc.Name
	p.Width = dim
	p.Height = dim
	if desc.Facing.Valid() {
		p.facing = desc.Facing
		p.lastFacing = desc.Facing
	}
	if desc.ShadowX != nil {
		p.shadowX = *desc.ShadowX
	}
	if desc.ShadowY != nil {
		p.shadowY = *desc.ShadowY
	}
	if desc.X != nil && desc.Y != nil {
		p.X = *desc.X
		p.Y = *desc.Y
	}

	p.SetPlayerType(desc)
	return p
}

// SetPlayerType classifies the player from the descriptor flags. Local wins
// over NPC, NPC over network; no flag means NPC.
func (p *Player) SetPlayerType(desc Descriptor) {
	switch {
	case desc.IsLocalPlayer:
		p.class = ClassLocal
	case desc.IsNPC:
		p.class = ClassNPC
	case desc.IsNetworkPlayer:
		p.class = ClassNetwork
	default:
		p.class = ClassNPC
	}
}

// Classification returns who drives the player.
func (p *Player) Classification() Classification { return p.class }

// IsLocalPlayer reports whether this is the avatar controlled by this client.
func (p *Player) IsLocalPlayer() bool { return p.class == ClassLocal }

// IsNPC reports whether the player is a non-networked NPC.
func (p *Player) IsNPC() bool { return p.class == ClassNPC }

// IsNetworkPlayer reports whether the player mirrors a remote client.
func (p *Player) IsNetworkPlayer() bool { return p.class == ClassNetwork }

// Velocity returns the current velocity, twice the stored latency.
func (p *Player) Velocity() float64 {
	return p.latency * 2
}

// Latency returns the stored half velocity.
func (p *Player) Latency() float64 {
	return p.latency
}

// SetVelocity stores v, reports the raw value to the server when this is the
// local player and refreshes the derived states.
func (p *Player) SetVelocity(v float64) {
	p.latency = v / 2
	p.sync.Sync(p.IsLocalPlayer(), packets.KindVelocity, p.ID, v)
	p.RefreshState()
}

// Moving reports whether the player is walking or running.
func (p *Player) Moving() bool {
	return p.Is(StateWalking) || p.Is(StateRunning)
}

// SetMoving sets WALKING and RUNNING together.
func (p *Player) SetMoving(v bool) {
	p.SetState(StateWalking, v)
	p.SetState(StateRunning, v)
}

// Cancel drops every queued animation and puts the player back on the
// ground in a standing pose. Moving, bumping and jumping all end here, so
// callers that teleport a player never leave derived states behind.
func (p *Player) Cancel() {
	p.Animations.Clear()
	p.SetMoving(false)
	p.SetState(StateBumping, false)
	p.Z = 0
	if p.Frame >= 0 && p.Frame < len(p.frameReset) {
		p.ResetFrame()
	} else {
		p.Frame = p.frames[0]
	}
	p.RefreshState()
}

// RefreshState recomputes RUNNING and JUMPING. It runs after every velocity
// change and at the end of every Update; WALKING is never touched here.
func (p *Player) RefreshState() {
	running := false
	switch p.Velocity() {
	case VelocityWalk:
		running = false
	case VelocityRun:
		running = p.Is(StateWalking)
	}
	p.SetState(StateRunning, running)
	p.SetState(StateJumping, p.Z != 0)
}

// FrameIndex returns the sprite column offset for the current gait.
func (p *Player) FrameIndex() int {
	if p.Is(StateRunning) {
		return 2
	}
	return 0
}

// ResetFrame puts the sprite back on the standing column matching the current
// stride. Frame must be one of the stride columns; anything else is a bug in
// the caller.
func (p *Player) ResetFrame() {
	if p.Frame < 0 || p.Frame >= len(p.frameReset) {
		panic(fmt.Sprintf("entity %d: reset of frame %d outside [0,%d)", p.ID, p.Frame, len(p.frameReset)))
	}
	p.Frame = p.frameReset[p.Frame] + p.FrameIndex()
}

// Action triggers whatever sits on the tile in front of the player.
func (p *Player) Action() {
	x := int(gomath.Floor(p.X))
	y := int(gomath.Floor(p.Y))
	pos := TilePosition(x, y, p.facing, p.cfg.Dimension)
	p.maps.ActionTrigger(p.mapID, pos, p)
}

// Update runs one tick: the animation queue, the facing timer, the idle
// counter and finally the derived state refresh.
func (p *Player) Update() {
	p.Animate()
	p.updateFacing()

	if p.Animations.Len() == 0 && !p.Moving() {
		if p.idle < idleCap {
			p.idle++
		}
	} else {
		p.idle = 0
	}

	p.RefreshState()
}

// Facing returns the current facing.
func (p *Player) Facing() Facing { return p.facing }

// LastFacing returns the facing before the last turn.
func (p *Player) LastFacing() Facing { return p.lastFacing }

// FaceCount returns the turn counter, modulo the shuffle cadence.
func (p *Player) FaceCount() int { return p.faceCount }

// StepCount returns the distance walked since the last footstep.
func (p *Player) StepCount() float64 { return p.stepCount }

// SoundSteps returns the walking distance between two footsteps.
func (p *Player) SoundSteps() float64 { return p.soundSteps }

// Gravity returns the gravity applied to jumps.
func (p *Player) Gravity() float64 { return p.gravity }

// Idle returns the number of ticks the player has had nothing to do.
func (p *Player) Idle() int { return p.idle }

// MapID returns the map the player is on.
func (p *Player) MapID() string { return p.mapID }

// SetMap moves the player to another map.
func (p *Player) SetMap(id string) { p.mapID = id }

// ShadowOffset returns the shadow offset used by the renderer.
func (p *Player) ShadowOffset() (x, y float64) { return p.shadowX, p.shadowY }

// Margins returns the sprite anchor offsets used by the renderer.
func (p *Player) Margins() (x, y float64) { return p.xMargin, p.yMargin }

// Config returns the player's configuration.
func (p *Player) Config() Config { return p.cfg }
