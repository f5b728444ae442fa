package states

import (
	"testing"
	"testing/fstest"

	"go.uber.org/zap"

	"github.com/Faultbox/tileclient/internal/assets"
	"github.com/Faultbox/tileclient/internal/config"
	"github.com/Faultbox/tileclient/internal/engine/camera"
	"github.com/Faultbox/tileclient/internal/game/entity"
	"github.com/Faultbox/tileclient/internal/game/ui"
	"github.com/Faultbox/tileclient/internal/game/world"
	"github.com/Faultbox/tileclient/internal/network"
	"github.com/Faultbox/tileclient/pkg/math"
)

// town is 5x3 with one blocked corner. The player starts on (1,1), a sign
// sits on (1,0), a warp to the cave on (1,2) and a guard on (3,1).
const townTMX = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" renderorder="right-down" width="5" height="3" tilewidth="16" tileheight="16" infinite="0" nextlayerid="4" nextobjectid="4">
 <properties>
  <property name="start_x" type="int" value="1"/>
  <property name="start_y" type="int" value="1"/>
 </properties>
 <tileset firstgid="1" name="terrain" tilewidth="16" tileheight="16" tilecount="2" columns="2">
  <image source="terrain.png" width="32" height="16"/>
 </tileset>
 <layer id="1" name="collision" width="5" height="3">
  <data encoding="csv">
0,0,0,0,1,
0,0,0,0,0,
0,0,0,0,0
</data>
 </layer>
 <objectgroup id="2" name="triggers">
  <object id="1" name="board" class="sign" x="16" y="0" width="16" height="16">
   <properties>
    <property name="text" value="Hello"/>
   </properties>
  </object>
  <object id="2" name="door" class="warp" x="16" y="32" width="16" height="16">
   <properties>
    <property name="map" value="cave"/>
    <property name="x" type="int" value="2"/>
    <property name="y" type="int" value="1"/>
   </properties>
  </object>
 </objectgroup>
 <objectgroup id="3" name="npcs">
  <object id="3" name="guard" x="48" y="16" width="16" height="16">
   <properties>
    <property name="facing" value="up"/>
   </properties>
  </object>
 </objectgroup>
</map>
`

const caveTMX = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" orientation="orthogonal" renderorder="right-down" width="3" height="3" tilewidth="16" tileheight="16" infinite="0" nextlayerid="2" nextobjectid="1">
 <tileset firstgid="1" name="terrain" tilewidth="16" tileheight="16" tilecount="2" columns="2">
  <image source="terrain.png" width="32" height="16"/>
 </tileset>
 <layer id="1" name="collision" width="3" height="3">
  <data encoding="csv">
0,0,0,
0,0,0,
0,0,0
</data>
 </layer>
</map>
`

func mapsFS() fstest.MapFS {
	return fstest.MapFS{
		"maps/town.tmx": {Data: []byte(townTMX)},
		"maps/cave.tmx": {Data: []byte(caveTMX)},
	}
}

// newSession builds an offline session, or an online one whose client is
// never connected.
func newSession(t *testing.T, online bool) *Session {
	t.Helper()
	cfg := config.Default()
	cfg.Game.OfflineMode = !online

	var client *network.Client
	var sender network.Sender
	if online {
		c, err := network.New(network.Options{})
		if err != nil {
			t.Fatalf("network.New() error: %v", err)
		}
		client, sender = c, c
	}
	gate, err := network.NewGate(sender, !online, nil)
	if err != nil {
		t.Fatalf("NewGate() error: %v", err)
	}

	return &Session{
		Config:   cfg,
		Assets:   assets.NewManager(),
		Entities: entity.NewManager(),
		Maps:     world.NewManager(mapsFS(), "maps", nil),
		Client:   client,
		Gate:     gate,
		Camera:   camera.New(160, 96, 1),
		Overlay:  ui.NewDebugOverlay(),
		Chat:     ui.NewChatBox(10),
		Log:      zap.NewNop(),
	}
}

func enterTown(t *testing.T, s *Session, npcs ...entity.Descriptor) *InGameState {
	t.Helper()
	st := NewInGameState(InGameStateConfig{MapName: "town", NPCs: npcs}, s, NewManager())
	if err := st.Enter(); err != nil {
		t.Fatalf("Enter() error: %v", err)
	}
	return st
}

// settle ticks the state until the local player has nothing queued.
func settle(t *testing.T, st *InGameState) {
	t.Helper()
	for i := 0; i < 1000; i++ {
		if err := st.Update(1.0 / 60); err != nil {
			t.Fatalf("Update() error: %v", err)
		}
		if l := st.Local(); l == nil || (l.Animations.Len() == 0 && !st.movement.IsFollowingPath) {
			return
		}
	}
	t.Fatal("local player never settled")
}

func tileOf(p *entity.Player) math.Point {
	return p.Tile(p.Config().Dimension)
}
