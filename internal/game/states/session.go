package states

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/tileclient/internal/assets"
	"github.com/Faultbox/tileclient/internal/config"
	"github.com/Faultbox/tileclient/internal/engine/audio"
	"github.com/Faultbox/tileclient/internal/engine/camera"
	"github.com/Faultbox/tileclient/internal/game/entity"
	"github.com/Faultbox/tileclient/internal/game/ui"
	"github.com/Faultbox/tileclient/internal/game/world"
	"github.com/Faultbox/tileclient/internal/network"
)

// Session holds the services shared by every state.
type Session struct {
	Config   *config.Config
	Assets   *assets.Manager
	Audio    *audio.Manager
	Entities *entity.Manager
	Maps     *world.Manager
	Client   *network.Client // nil in offline mode
	Gate     *network.Gate
	Camera   *camera.Camera
	Overlay  *ui.DebugOverlay
	Chat     *ui.ChatBox
	Log      *zap.Logger
}

// Online reports whether state changes reach a server.
func (s *Session) Online() bool {
	return s.Client != nil && !s.Gate.Offline()
}

// Notify adds a system message to the chat box.
func (s *Session) Notify(format string, args ...any) {
	if s.Chat != nil {
		s.Chat.AddSystemMessage(fmt.Sprintf(format, args...))
	}
}

// Deps returns the collaborators handed to every new player.
func (s *Session) Deps() entity.Deps {
	d := entity.Deps{
		Sync: s.Gate,
		Maps: s.Maps,
		Log:  s.Log.Named("entity"),
	}
	if s.Audio != nil {
		d.Sound = s.Audio
	}
	return d
}

// NewPlayer builds a player with the session's configuration.
func (s *Session) NewPlayer(id uint32, desc entity.Descriptor) *entity.Player {
	return entity.NewPlayer(id, desc, s.Config.Entity(), s.Deps())
}
