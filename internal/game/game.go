// Package game wires the client together and runs the tick loop.
package game

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/tileclient/internal/assets"
	"github.com/Faultbox/tileclient/internal/config"
	"github.com/Faultbox/tileclient/internal/engine/audio"
	"github.com/Faultbox/tileclient/internal/engine/camera"
	"github.com/Faultbox/tileclient/internal/engine/input"
	"github.com/Faultbox/tileclient/internal/game/entity"
	"github.com/Faultbox/tileclient/internal/game/states"
	"github.com/Faultbox/tileclient/internal/game/ui"
	"github.com/Faultbox/tileclient/internal/game/world"
	"github.com/Faultbox/tileclient/internal/logger"
	"github.com/Faultbox/tileclient/internal/network"
	"github.com/Faultbox/tileclient/pkg/math"
)

// Sound effects loaded at startup.
var soundNames = []string{
	entity.SoundFootstep,
	entity.SoundBump,
	entity.SoundJump,
	entity.SoundLand,
}

// Game is the main game instance.
type Game struct {
	config  *config.Config
	running bool
	log     *zap.Logger

	session *states.Session
	states  *states.Manager
	ingame  *states.InGameState
	input   *input.Input
}

// New creates a new game instance.
func New(cfg *config.Config) (*Game, error) {
	log := logger.Named("game")

	a := assets.NewManager()
	if err := a.AddDir(cfg.Audio.SoundDir); err != nil {
		log.Warn("sound directory unavailable", zap.String("dir", cfg.Audio.SoundDir), zap.Error(err))
	}

	au := audio.New(logger.Named("audio"))
	au.SetMasterVolume(float64(cfg.Audio.MasterVolume))
	au.SetBGMVolume(float64(cfg.Audio.MusicVolume))
	au.SetSFXVolume(float64(cfg.Audio.SFXVolume))
	au.SetMuted(cfg.Audio.Muted)
	if !cfg.Audio.Muted {
		if err := au.Init(); err != nil {
			log.Warn("audio device unavailable", zap.Error(err))
		}
	}
	loaded := au.LoadSounds(a, ".", soundNames...)

	var client *network.Client
	var sender network.Sender
	if !cfg.Game.OfflineMode {
		c, err := network.New(network.Options{
			SendQueue: cfg.Network.SendQueue,
			Log:       logger.Named("network"),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create network client: %w", err)
		}
		client, sender = c, c
	}
	gate, err := network.NewGate(sender, cfg.Game.OfflineMode, logger.Named("sync"))
	if err != nil {
		return nil, fmt.Errorf("failed to create sync gate: %w", err)
	}

	npcs, err := config.LoadNPCs(cfg.Data.NPCFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load npcs: %w", err)
	}

	scale := cfg.Graphics.Scale
	if scale <= 0 {
		scale = 1
	}
	cam := camera.New(float64(cfg.Graphics.Width)/scale, float64(cfg.Graphics.Height)/scale, scale)

	overlay := ui.NewDebugOverlay()
	overlay.Enabled = cfg.Game.ShowDebug
	overlay.Width, overlay.Height = cfg.Graphics.Width, cfg.Graphics.Height
	overlay.Dimension = cfg.Game.Dimension
	overlay.GodMode = cfg.Game.GodMode

	chat := ui.NewChatBox(50)
	chat.OnMessage = func(m ui.ChatMessage) {
		log.Info("message", zap.Stringer("channel", m.Channel), zap.String("from", m.Sender), zap.String("text", m.Message))
	}

	g := &Game{
		config: cfg,
		log:    log,
		states: states.NewManager(),
		input:  input.New(),
		session: &states.Session{
			Config:   cfg,
			Assets:   a,
			Audio:    au,
			Entities: entity.NewManager(),
			Maps:     world.NewManager(os.DirFS(cfg.Data.MapsDir), ".", logger.Named("world")),
			Client:   client,
			Gate:     gate,
			Camera:   cam,
			Overlay:  overlay,
			Chat:     chat,
			Log:      log,
		},
	}

	g.states.OnChange = func(from, to states.State) {
		log.Debug("state changed", zap.String("from", fmt.Sprintf("%T", from)), zap.String("to", fmt.Sprintf("%T", to)))
	}

	g.ingame = states.NewInGameState(states.InGameStateConfig{
		MapName: cfg.Data.StartMap,
		NPCs:    npcs,
	}, g.session, g.states)

	if client != nil {
		g.states.Change(states.NewConnectingState(states.ConnectingStateConfig{
			Server:  cfg.Network.Server,
			Timeout: cfg.Network.ConnectTimeout,
		}, g.session, g.states, g.ingame))
	} else {
		g.states.Change(g.ingame)
	}

	log.Info("game created",
		zap.Bool("offline", cfg.Game.OfflineMode),
		zap.String("map", cfg.Data.StartMap),
		zap.Int("sounds", loaded),
		zap.Int("extra_npcs", len(npcs)))
	return g, nil
}

// Input returns the command input consumed every tick.
func (g *Game) Input() *input.Input {
	return g.input
}

// Session returns the services shared by the game states.
func (g *Game) Session() *states.Session {
	return g.session
}

// InGame returns the in-game state.
func (g *Game) InGame() *states.InGameState {
	return g.ingame
}

// Local returns the local player, or nil before it spawned.
func (g *Game) Local() *entity.Player {
	return g.session.Entities.Local()
}

// MoveLocal steps or runs the local player one tile.
func (g *Game) MoveLocal(f entity.Facing, run bool) bool {
	return g.ingame.MoveLocal(f, run)
}

// InteractLocal acts on the tile in front of the local player.
func (g *Game) InteractLocal() {
	g.ingame.InteractLocal()
}

// DebugLines returns the overlay readout, or nil when it is hidden.
func (g *Game) DebugLines() []string {
	if !g.session.Overlay.Enabled {
		return nil
	}
	return g.session.Overlay.Lines()
}

// Run ticks the game at the configured rate until ctx is done or a quit
// command arrives.
func (g *Game) Run(ctx context.Context) error {
	g.running = true

	ticker := time.NewTicker(g.config.TickInterval())
	defer ticker.Stop()

	// Timing
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	g.log.Info("starting game loop", zap.Duration("tick", g.config.TickInterval()))

	for g.running {
		select {
		case <-ctx.Done():
			g.running = false
			continue
		case err := <-g.input.Errors():
			g.log.Warn("bad command", zap.Error(err))
			continue
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now

			if err := g.Tick(dt); err != nil {
				return err
			}

			frameCount++
			if time.Since(fpsTimer) >= time.Second {
				g.log.Debug("fps", zap.Int("count", frameCount), zap.Float64("dt_ms", dt*1000))
				frameCount = 0
				fpsTimer = time.Now()
			}
		}
	}

	return nil
}

// Tick runs one step: input, then the current state, then the overlay.
func (g *Game) Tick(dt float64) error {
	if g.input.Update() {
		g.running = false
	}
	g.handleInput()

	if err := g.states.Update(dt); err != nil {
		return fmt.Errorf("update error: %w", err)
	}
	g.session.Overlay.Update(dt * 1000)
	return nil
}

func (g *Game) handleInput() {
	for _, ev := range g.input.Events() {
		switch ev.Type {
		case input.EventMove, input.EventRun:
			if f, ok := entity.ParseFacing(ev.Direction); ok {
				g.ingame.MoveLocal(f, ev.Type == input.EventRun)
			}
		case input.EventGoto:
			if g.ingame.MoveLocalTo(math.Point{X: ev.X, Y: ev.Y}, ev.Run) == nil {
				g.log.Info("no path", zap.Int("x", ev.X), zap.Int("y", ev.Y))
			}
		case input.EventJump:
			g.ingame.JumpLocal()
		case input.EventInteract:
			g.ingame.InteractLocal()
		case input.EventDebug:
			for _, line := range g.DebugLines() {
				g.log.Info(line)
			}
		}
	}
}

// Close cleans up game resources.
func (g *Game) Close() {
	g.log.Info("closing game")

	if err := g.states.Exit(); err != nil {
		g.log.Warn("leaving state", zap.Error(err))
	}
	if g.session.Client != nil {
		g.session.Client.Disconnect()
	}
	g.session.Audio.Close()
	g.session.Assets.Close()
	g.session.Entities.Clear()
}
