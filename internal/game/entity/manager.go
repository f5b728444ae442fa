package entity

import (
	"sort"

	"github.com/Faultbox/tileclient/pkg/math"
)

// Viewport reports whether a rectangle is visible.
type Viewport interface {
	IsInView(x, y, width, height float64) bool
}

// Manager manages all players on the client.
type Manager struct {
	players map[uint32]*Player
	order   []uint32 // Insertion order, ticks stay deterministic
	local   *Player
}

// NewManager creates a new entity manager.
func NewManager() *Manager {
	return &Manager{
		players: make(map[uint32]*Player),
	}
}

// Add adds a player. A local player also becomes the manager's local entity.
func (m *Manager) Add(p *Player) {
	if _, ok := m.players[p.ID]; !ok {
		m.order = append(m.order, p.ID)
	}
	m.players[p.ID] = p
	if p.IsLocalPlayer() {
		m.local = p
	}
}

// Remove removes a player and releases its animation queue.
func (m *Manager) Remove(id uint32) {
	p, ok := m.players[id]
	if !ok {
		return
	}
	p.Release()
	delete(m.players, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	if m.local == p {
		m.local = nil
	}
}

// Get returns a player by ID.
func (m *Manager) Get(id uint32) *Player {
	return m.players[id]
}

// Local returns the local player, or nil.
func (m *Manager) Local() *Player {
	return m.local
}

// Update ticks every player in insertion order.
func (m *Manager) Update() {
	for _, id := range m.order {
		m.players[id].Update()
	}
}

// All returns all players in insertion order.
func (m *Manager) All() []*Player {
	result := make([]*Player, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, m.players[id])
	}
	return result
}

// OnMap returns the players on a map, sorted by Y for draw order.
func (m *Manager) OnMap(mapID string) []*Player {
	var result []*Player
	for _, id := range m.order {
		if p := m.players[id]; p.MapID() == mapID {
			result = append(result, p)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Y < result[j].Y
	})
	return result
}

// At returns the first player on mapID whose tile cell is cell.
func (m *Manager) At(mapID string, cell math.Point) *Player {
	for _, id := range m.order {
		p := m.players[id]
		if p.MapID() == mapID && p.Tile(p.Config().Dimension) == cell {
			return p
		}
	}
	return nil
}

// Count returns the total number of players.
func (m *Manager) Count() int {
	return len(m.players)
}

// CountByClass returns the number of players with the given classification.
func (m *Manager) CountByClass(c Classification) int {
	count := 0
	for _, p := range m.players {
		if p.Classification() == c {
			count++
		}
	}
	return count
}

// InView returns how many players the viewport can see.
func (m *Manager) InView(v Viewport) int {
	if v == nil {
		return 0
	}
	count := 0
	for _, p := range m.players {
		if v.IsInView(p.X, p.Y, p.Width, p.Height) {
			count++
		}
	}
	return count
}

// Clear removes all players except the local one.
func (m *Manager) Clear() {
	for _, id := range append([]uint32(nil), m.order...) {
		if m.local != nil && id == m.local.ID {
			continue
		}
		m.Remove(id)
	}
}
