package world

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/lafriks/go-tiled"

	"github.com/Faultbox/tileclient/internal/game/entity"
	"github.com/Faultbox/tileclient/pkg/math"
)

// Layer and object group names read from TMX files.
const (
	CollisionLayer = "collision"
	TriggerGroup   = "triggers"
	NPCGroup       = "npcs"
)

// LoadTMX parses a Tiled map. Any non-empty tile of the collision layer blocks
// its cell; objects of the triggers group become triggers keyed by the cell
// under their origin and objects of the npcs group become NPC spawns.
func LoadTMX(fsys fs.FS, tmxPath string) (*Map, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}
	if levelMap.TileWidth != levelMap.TileHeight {
		return nil, fmt.Errorf("load TMX %s: tiles must be square, got %dx%d",
			tmxPath, levelMap.TileWidth, levelMap.TileHeight)
	}

	id := strings.TrimSuffix(path.Base(tmxPath), ".tmx")
	m := NewMap(id, levelMap.Width, levelMap.Height, levelMap.TileWidth)
	m.Music = levelMap.Properties.GetString("music")
	m.Start = math.Point{
		X: levelMap.Properties.GetInt("start_x"),
		Y: levelMap.Properties.GetInt("start_y"),
	}

	for _, layer := range levelMap.Layers {
		if layer.Name != CollisionLayer {
			continue
		}
		for y := 0; y < levelMap.Height; y++ {
			for x := 0; x < levelMap.Width; x++ {
				if !layer.Tiles[y*levelMap.Width+x].IsNil() {
					m.SetBlocked(x, y, true)
				}
			}
		}
		break
	}

	for _, og := range levelMap.ObjectGroups {
		switch og.Name {
		case TriggerGroup:
			for _, o := range og.Objects {
				kind := o.Class
				if kind == "" {
					kind = o.Type //nolint:staticcheck // TMX uses type= attribute
				}
				m.AddTrigger(&Trigger{
					Kind:       kind,
					Name:       o.Name,
					Cell:       objectCell(o, m.TileSize),
					Properties: o.Properties,
				})
			}
		case NPCGroup:
			for _, o := range og.Objects {
				m.Spawns = append(m.Spawns, npcDescriptor(o, m))
			}
		}
	}

	return m, nil
}

// objectCell returns the cell under an object's origin.
func objectCell(o *tiled.Object, tileSize int) math.Point {
	return math.Vec2{X: o.X, Y: o.Y}.Floor().ToCell(tileSize)
}

// npcDescriptor builds the spawn descriptor of an NPC object, snapped to the
// grid.
func npcDescriptor(o *tiled.Object, m *Map) entity.Descriptor {
	pos := m.CellToWorld(objectCell(o, m.TileSize))
	x, y := float64(pos.X), float64(pos.Y)

	desc := entity.Descriptor{
		Name:  o.Name,
		IsNPC: true,
		Map:   m.ID,
		X:     &x,
		Y:     &y,
	}
	if f, ok := entity.ParseFacing(o.Properties.GetString("facing")); ok {
		desc.Facing = f
	}
	if v := o.Properties.GetFloat("shadow_y"); v != 0 {
		desc.ShadowY = &v
	}
	return desc
}
