package states

import (
	"errors"
	"fmt"
	gomath "math"
	"path"

	"go.uber.org/zap"

	"github.com/Faultbox/tileclient/internal/game/entity"
	"github.com/Faultbox/tileclient/internal/game/ui"
	"github.com/Faultbox/tileclient/internal/game/world"
	"github.com/Faultbox/tileclient/pkg/math"
)

// Trigger kinds handled in game.
const (
	TriggerSign = "sign"
	TriggerWarp = "warp"
)

// Client-side ids. Server ids stay below npcIDBase.
const (
	offlineLocalID uint32 = 1
	npcIDBase      uint32 = 1 << 31
)

// ErrUnknownEntity is returned when a message names an entity that was never
// spawned.
var ErrUnknownEntity = errors.New("unknown entity")

// InGameStateConfig contains configuration for the in-game state.
type InGameStateConfig struct {
	MapName string
	NPCs    []entity.Descriptor // Extra NPCs, placed on their own map
}

// InGameState runs the world: inbound sync, movement, animation and camera.
type InGameState struct {
	config   InGameStateConfig
	session  *Session
	manager  *Manager
	movement *world.MovementController

	spawned map[string]bool
	nextNPC uint32

	ErrorMsg string
}

// NewInGameState creates a new in-game state.
func NewInGameState(cfg InGameStateConfig, session *Session, manager *Manager) *InGameState {
	return &InGameState{
		config:   cfg,
		session:  session,
		manager:  manager,
		movement: world.NewMovementController(nil, nil),
		spawned:  make(map[string]bool),
		nextNPC:  npcIDBase,
	}
}

// Enter loads the start map. Offline, the local player spawns on the map's
// start cell; online it waits for Welcome.
func (s *InGameState) Enter() error {
	s.session.Log.Info("entering InGameState", zap.String("map", s.config.MapName))

	s.session.Maps.Handle(TriggerSign, s.handleSign)
	s.session.Maps.Handle(TriggerWarp, s.handleWarp)
	if s.session.Client != nil {
		s.registerPacketHandlers()
	}

	mp, err := s.enterMap(s.config.MapName)
	if err != nil {
		return err
	}
	if !s.session.Online() {
		pos := mp.CellToWorld(mp.Start)
		s.spawnLocal(offlineLocalID, mp.ID, float64(pos.X), float64(pos.Y))
	}
	return nil
}

// Exit stops the map music.
func (s *InGameState) Exit() error {
	if s.session.Audio != nil {
		s.session.Audio.StopBGM()
	}
	return nil
}

// Update runs one tick.
func (s *InGameState) Update(dt float64) error {
	if s.session.Client != nil {
		if err := s.session.Client.Process(); err != nil {
			s.ErrorMsg = fmt.Sprintf("Network error: %v", err)
		}
	}

	s.movement.Update()
	s.session.Entities.Update()

	if local := s.session.Entities.Local(); local != nil {
		s.session.Camera.Follow(local.X, local.Y, local.Width, local.Height)
	}
	s.refreshOverlay()
	return nil
}

// Local returns the local player, or nil before it spawned.
func (s *InGameState) Local() *entity.Player {
	return s.session.Entities.Local()
}

// Movement returns the controller driving the local player.
func (s *InGameState) Movement() *world.MovementController {
	return s.movement
}

// MoveLocal steps the local player one tile, or bumps when the tile is
// blocked. Input is ignored while a previous move is still playing.
func (s *InGameState) MoveLocal(f entity.Facing, run bool) bool {
	local := s.Local()
	if local == nil || local.Animations.Len() > 0 {
		return false
	}
	s.movement.ClearPath()
	return s.movement.Step(f, run)
}

// MoveLocalTo walks the local player to a cell of its map.
func (s *InGameState) MoveLocalTo(cell math.Point, run bool) []math.Point {
	if s.Local() == nil {
		return nil
	}
	return s.movement.MoveTo(cell, run)
}

// JumpLocal makes the local player jump in place, once at a time.
func (s *InGameState) JumpLocal() {
	if local := s.Local(); local != nil && !local.Jumping() && !local.Animations.Has(entity.AnimJump) {
		local.Jump()
	}
}

// InteractLocal fires the trigger in front of the local player and turns an
// NPC standing there toward it.
func (s *InGameState) InteractLocal() {
	local := s.Local()
	if local == nil {
		return
	}
	local.Action()

	dim := local.Config().Dimension
	dx, dy := local.Facing().Delta()
	front := local.Tile(dim).Add(math.Point{X: dx, Y: dy})
	if npc := s.session.Entities.At(local.MapID(), front); npc != nil && npc.IsNPC() {
		npc.FaceEntity(local)
	}
}

// enterMap makes id the current map and prepares it for play.
func (s *InGameState) enterMap(id string) (*world.Map, error) {
	mp, err := s.session.Maps.LoadMap(id)
	if err != nil {
		return nil, err
	}
	if dim := s.session.Config.Game.Dimension; mp.TileSize != dim {
		s.session.Log.Warn("map tile size differs from entity dimension",
			zap.String("map", id), zap.Int("tile_size", mp.TileSize), zap.Int("dimension", dim))
	}

	s.movement.SetPathFinder(world.NewPathFinder(mp))
	s.session.Camera.SetBounds(float64(mp.Width*mp.TileSize), float64(mp.Height*mp.TileSize))
	s.spawnNPCs(mp)
	s.playMusic(mp)
	return mp, nil
}

// spawnNPCs adds the map's NPCs once per session.
func (s *InGameState) spawnNPCs(mp *world.Map) {
	if s.spawned[mp.ID] {
		return
	}
	s.spawned[mp.ID] = true

	descs := append([]entity.Descriptor(nil), mp.Spawns...)
	for _, d := range s.config.NPCs {
		if d.Map == mp.ID {
			descs = append(descs, d)
		}
	}

	for _, d := range descs {
		if d.X == nil || d.Y == nil {
			s.session.Log.Warn("npc without position", zap.String("map", mp.ID), zap.String("name", d.Name))
			continue
		}
		d.Map = mp.ID
		d.IsNPC = true
		cell := mp.WorldToCell(math.Point{X: int(gomath.Floor(*d.X)), Y: int(gomath.Floor(*d.Y))})
		pos := mp.CellToWorld(cell)
		x, y := float64(pos.X), float64(pos.Y)
		d.X, d.Y = &x, &y

		s.session.Entities.Add(s.session.NewPlayer(s.nextNPC, d))
		s.nextNPC++
	}
	s.session.Log.Debug("npcs spawned", zap.String("map", mp.ID), zap.Int("count", len(descs)))
}

// playMusic starts the map's track from the sound directory's music folder.
func (s *InGameState) playMusic(mp *world.Map) {
	a := s.session.Audio
	if mp.Music == "" || a == nil || !a.IsInitialized() {
		return
	}
	file := path.Join("music", mp.Music+".wav")
	if a.IsBGMPlaying() && a.GetBGMPath() == file {
		return
	}
	data, err := s.session.Assets.Load(file)
	if err != nil {
		s.session.Log.Warn("music unavailable", zap.String("map", mp.ID), zap.Error(err))
		return
	}
	if err := a.PlayBGM(data, file, true); err != nil {
		s.session.Log.Warn("music failed", zap.String("file", file), zap.Error(err))
	}
}

// spawnLocal replaces the local player with a new one at world (x, y).
func (s *InGameState) spawnLocal(id uint32, mapID string, x, y float64) *entity.Player {
	if old := s.session.Entities.Local(); old != nil {
		s.session.Entities.Remove(old.ID)
	}
	p := s.session.NewPlayer(id, entity.Descriptor{
		Name:          s.session.Config.Network.PlayerName,
		IsLocalPlayer: true,
		Map:           mapID,
		X:             &x,
		Y:             &y,
		Facing:        entity.Down,
	})
	s.session.Entities.Add(p)
	s.movement.SetPlayer(p)
	s.session.Log.Info("local player spawned",
		zap.Uint32("id", id), zap.String("map", mapID), zap.Float64("x", x), zap.Float64("y", y))
	return p
}

// warpTo moves p to the cell of another map.
func (s *InGameState) warpTo(p *entity.Player, mapID string, cell math.Point) error {
	mp, err := s.enterMap(mapID)
	if err != nil {
		return err
	}
	pos := mp.CellToWorld(cell)
	p.Cancel()
	p.SetMap(mp.ID)
	p.SetPosition(float64(pos.X), float64(pos.Y), 0)
	s.movement.ClearPath()
	return nil
}

func (s *InGameState) handleSign(t *world.Trigger, p *entity.Player) {
	text := t.Properties.GetString("text")
	if s.session.Chat != nil {
		s.session.Chat.AddMessage(ui.ChatChannelSign, t.Name, text)
	}
	s.session.Log.Debug("sign read", zap.String("sign", t.Name), zap.String("text", text))
}

func (s *InGameState) handleWarp(t *world.Trigger, p *entity.Player) {
	if !p.IsLocalPlayer() {
		return
	}
	target := t.Properties.GetString("map")
	if target == "" {
		s.session.Log.Warn("warp without target map", zap.String("warp", t.Name))
		return
	}
	cell := math.Point{X: t.Properties.GetInt("x"), Y: t.Properties.GetInt("y")}
	if err := s.warpTo(p, target, cell); err != nil {
		s.ErrorMsg = fmt.Sprintf("Warp failed: %v", err)
		s.session.Notify("Warp to %s failed", target)
		s.session.Log.Error("warp failed", zap.String("warp", t.Name), zap.Error(err))
		return
	}
	s.session.Notify("Entered %s", target)
	s.session.Log.Info("warped", zap.String("map", target), zap.Int("x", cell.X), zap.Int("y", cell.Y))
}

func (s *InGameState) refreshOverlay() {
	o := s.session.Overlay
	if o == nil {
		return
	}
	cam := s.session.Camera
	o.CameraX, o.CameraY = cam.X, cam.Y
	o.Scale = cam.Scale
	o.EntityCount = s.session.Entities.Count()
	o.InView = s.session.Entities.InView(cam)
	o.AssetsCached = s.session.Assets.CachedCount()
	if s.session.Audio != nil {
		o.SoundsCached = s.session.Audio.SoundCount()
	}
	o.Online = s.session.Online()
	if mp := s.session.Maps.Current(); mp != nil {
		o.MapName = mp.ID
	}

	local := s.Local()
	o.HasLocal = local != nil
	if local != nil {
		o.LocalX, o.LocalY = local.X, local.Y
		o.LocalStates = local.States().String()
	}
}
