// Package states implements game state management.
package states

import "fmt"

// State is one phase of the client: connecting, then in game.
type State interface {
	Enter() error
	Exit() error
	// Update is called every tick while the state is current.
	Update(dt float64) error
}

// Manager runs one State at a time. Changes are deferred to the next
// Update so a state can request its successor from inside its own Update.
type Manager struct {
	current State
	next    State

	// OnChange, when set, is called after a new state has been entered.
	OnChange func(from, to State)
}

// NewManager creates a new state manager.
func NewManager() *Manager {
	return &Manager{}
}

// Current returns the current state.
func (m *Manager) Current() State {
	return m.current
}

// Pending reports whether a change is waiting for the next Update.
func (m *Manager) Pending() bool {
	return m.next != nil
}

// Change schedules a state change. A later call before Update wins.
func (m *Manager) Change(next State) {
	m.next = next
}

// Update applies a pending change, then ticks the current state.
func (m *Manager) Update(dt float64) error {
	if m.next != nil {
		from, to := m.current, m.next
		m.next = nil
		if from != nil {
			if err := from.Exit(); err != nil {
				return fmt.Errorf("leaving %T: %w", from, err)
			}
		}
		m.current = to
		if err := to.Enter(); err != nil {
			return fmt.Errorf("entering %T: %w", to, err)
		}
		if m.OnChange != nil {
			m.OnChange(from, to)
		}
	}

	if m.current == nil {
		return nil
	}
	return m.current.Update(dt)
}

// Exit leaves the current state, if any.
func (m *Manager) Exit() error {
	if m.current == nil {
		return nil
	}
	err := m.current.Exit()
	m.current = nil
	return err
}
