// Package world handles map loading and management.
package world

import (
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/lafriks/go-tiled"
	"go.uber.org/zap"

	"github.com/Faultbox/tileclient/internal/game/entity"
	"github.com/Faultbox/tileclient/pkg/math"
)

// ErrUnknownMap is returned when a map id is not loaded.
var ErrUnknownMap = errors.New("unknown map")

// Map represents a loaded game map.
type Map struct {
	ID       string
	Width    int // In cells
	Height   int // In cells
	TileSize int // Cell edge in world units

	// Music names the background track played on the map.
	Music string

	// Start is the cell new local players appear on.
	Start math.Point

	// NPCs placed on the map.
	Spawns []entity.Descriptor

	blocked  []bool
	triggers map[math.Point]*Trigger
}

// NewMap creates an empty, fully walkable map.
func NewMap(id string, width, height, tileSize int) *Map {
	return &Map{
		ID:       id,
		Width:    width,
		Height:   height,
		TileSize: tileSize,
		blocked:  make([]bool, width*height),
		triggers: make(map[math.Point]*Trigger),
	}
}

// Size returns the map size in cells.
func (m *Map) Size() (width, height int) {
	return m.Width, m.Height
}

// InBounds reports whether the cell lies on the map.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// SetBlocked marks a cell as blocked or walkable.
func (m *Map) SetBlocked(x, y int, blocked bool) {
	if m.InBounds(x, y) {
		m.blocked[y*m.Width+x] = blocked
	}
}

// IsWalkable checks if a cell is walkable. Cells off the map are not.
func (m *Map) IsWalkable(x, y int) bool {
	if !m.InBounds(x, y) {
		return false
	}
	return !m.blocked[y*m.Width+x]
}

// AddTrigger places a trigger on its cell, replacing any previous one.
func (m *Map) AddTrigger(t *Trigger) {
	m.triggers[t.Cell] = t
}

// TriggerAt returns the trigger on a cell, or nil.
func (m *Map) TriggerAt(cell math.Point) *Trigger {
	return m.triggers[cell]
}

// TriggerCount returns the number of triggers on the map.
func (m *Map) TriggerCount() int {
	return len(m.triggers)
}

// WorldToCell converts a world position to cell coordinates.
func (m *Map) WorldToCell(pos math.Point) math.Point {
	return pos.ToCell(m.TileSize)
}

// CellToWorld converts cell coordinates to the world position of the cell.
func (m *Map) CellToWorld(cell math.Point) math.Point {
	return cell.ToWorld(m.TileSize)
}

// Manager owns the loaded maps and implements entity.Maps.
type Manager struct {
	fsys     fs.FS
	dir      string
	maps     map[string]*Map
	current  *Map
	loading  bool
	handlers map[string]TriggerHandler
	log      *zap.Logger
}

var _ entity.Maps = (*Manager)(nil)

// NewManager creates a new world manager reading <dir>/<id>.tmx from fsys.
// fsys may be nil when maps are only added directly.
func NewManager(fsys fs.FS, dir string, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		fsys:     fsys,
		dir:      dir,
		maps:     make(map[string]*Map),
		handlers: make(map[string]TriggerHandler),
		log:      log,
	}
}

// Add registers an already built map.
func (m *Manager) Add(mp *Map) {
	m.maps[mp.ID] = mp
}

// Get returns a loaded map by id.
func (m *Manager) Get(id string) (*Map, error) {
	mp, ok := m.maps[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMap, id)
	}
	return mp, nil
}

// Current returns the current map.
func (m *Manager) Current() *Map {
	return m.current
}

// LoadMap makes the map current, loading it from disk the first time.
func (m *Manager) LoadMap(id string) (*Map, error) {
	if mp, ok := m.maps[id]; ok {
		m.current = mp
		return mp, nil
	}
	if m.fsys == nil {
		return nil, fmt.Errorf("loading map %s: %w", id, ErrUnknownMap)
	}

	m.loading = true
	defer func() { m.loading = false }()

	mp, err := LoadTMX(m.fsys, path.Join(m.dir, id+".tmx"))
	if err != nil {
		return nil, fmt.Errorf("loading map %s: %w", id, err)
	}
	mp.ID = id

	m.maps[id] = mp
	m.current = mp
	m.log.Info("map loaded",
		zap.String("map", id),
		zap.Int("width", mp.Width),
		zap.Int("height", mp.Height),
		zap.Int("triggers", mp.TriggerCount()),
		zap.Int("npcs", len(mp.Spawns)))
	return mp, nil
}

// IsLoading returns whether a map is currently loading.
func (m *Manager) IsLoading() bool {
	return m.loading
}

// IsWalkable reports whether a cell of a loaded map is walkable.
func (m *Manager) IsWalkable(mapID string, cell math.Point) bool {
	mp, ok := m.maps[mapID]
	if !ok {
		return false
	}
	return mp.IsWalkable(cell.X, cell.Y)
}

// Handle registers the handler run for triggers of the given kind.
func (m *Manager) Handle(kind string, h TriggerHandler) {
	m.handlers[kind] = h
}

// TriggerAt returns the trigger under a world position of a map.
func (m *Manager) TriggerAt(mapID string, pos math.Point) (*Trigger, error) {
	mp, err := m.Get(mapID)
	if err != nil {
		return nil, err
	}
	return mp.TriggerAt(mp.WorldToCell(pos)), nil
}

// ActionTrigger fires the trigger at pos on mapID, if any, for p.
func (m *Manager) ActionTrigger(mapID string, pos math.Point, p *entity.Player) {
	t, err := m.TriggerAt(mapID, pos)
	if err != nil {
		m.log.Warn("action on unloaded map", zap.String("map", mapID), zap.Error(err))
		return
	}
	if t == nil {
		return
	}

	h, ok := m.handlers[t.Kind]
	if !ok {
		m.log.Debug("unhandled trigger",
			zap.String("map", mapID),
			zap.String("kind", t.Kind),
			zap.String("name", t.Name))
		return
	}
	h(t, p)
}

// Trigger is an interactive object placed on a map cell.
type Trigger struct {
	Kind       string // e.g. "sign", "warp"
	Name       string
	Cell       math.Point
	Properties tiled.Properties
}

// TriggerHandler runs when a player activates a trigger.
type TriggerHandler func(t *Trigger, p *entity.Player)
