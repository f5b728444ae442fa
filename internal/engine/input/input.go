// Package input turns text commands into game input events.
package input

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// Event types for game use
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventMove
	EventRun
	EventJump
	EventInteract
	EventGoto
	EventDebug
)

// ErrUnknownCommand is returned by Parse for unrecognized commands.
var ErrUnknownCommand = errors.New("unknown command")

// Event represents a processed input event.
type Event struct {
	Type      EventType
	Direction string // move, run
	X, Y      int    // goto cell
	Run       bool   // goto at run speed
}

// Input collects events read from a command stream.
type Input struct {
	mu      sync.Mutex
	pending []Event
	events  []Event
	errs    chan error
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
		errs:   make(chan error, 16),
	}
}

// Start reads commands from r until it is exhausted or ctx is done. Bad
// lines are reported on Errors and skipped. The end of the stream queues a
// quit event.
func (i *Input) Start(ctx context.Context, r io.Reader) {
	go func() {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			if ctx.Err() != nil {
				return
			}
			line := strings.TrimSpace(sc.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			ev, err := Parse(line)
			if err != nil {
				select {
				case i.errs <- err:
				default:
				}
				continue
			}
			i.Push(ev)
		}
		i.Push(Event{Type: EventQuit})
	}()
}

// Push queues an event for the next Update.
func (i *Input) Push(ev Event) {
	i.mu.Lock()
	i.pending = append(i.pending, ev)
	i.mu.Unlock()
}

// Errors reports lines that failed to parse.
func (i *Input) Errors() <-chan error {
	return i.errs
}

// Update moves queued events into the current frame.
// Returns true if the game should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0] // Clear previous events

	i.mu.Lock()
	i.events = append(i.events, i.pending...)
	i.pending = i.pending[:0]
	i.mu.Unlock()

	for _, e := range i.events {
		if e.Type == EventQuit {
			return true
		}
	}
	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Parse converts one command line into an event. Commands:
//
//	up|down|left|right   walk one tile
//	run <direction>      run one tile
//	goto <x> <y> [run]   walk a path to a cell
//	jump, use, debug, quit
func Parse(line string) (Event, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Event{}, fmt.Errorf("%w: empty line", ErrUnknownCommand)
	}

	switch cmd := fields[0]; cmd {
	case "up", "down", "left", "right", "w", "a", "s", "d":
		return Event{Type: EventMove, Direction: direction(cmd)}, nil
	case "run":
		if len(fields) != 2 || direction(fields[1]) == "" {
			return Event{}, fmt.Errorf("run: want a direction, got %q", line)
		}
		return Event{Type: EventRun, Direction: direction(fields[1])}, nil
	case "goto":
		if len(fields) < 3 {
			return Event{}, fmt.Errorf("goto: want x and y, got %q", line)
		}
		x, err := strconv.Atoi(fields[1])
		if err != nil {
			return Event{}, fmt.Errorf("goto x: %w", err)
		}
		y, err := strconv.Atoi(fields[2])
		if err != nil {
			return Event{}, fmt.Errorf("goto y: %w", err)
		}
		return Event{Type: EventGoto, X: x, Y: y, Run: len(fields) > 3 && fields[3] == "run"}, nil
	case "jump", "j", "space":
		return Event{Type: EventJump}, nil
	case "use", "e", "action":
		return Event{Type: EventInteract}, nil
	case "debug":
		return Event{Type: EventDebug}, nil
	case "quit", "exit", "q":
		return Event{Type: EventQuit}, nil
	}
	return Event{}, fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
}

// direction normalizes a direction word or WASD key.
func direction(s string) string {
	switch s {
	case "up", "w":
		return "up"
	case "down", "s":
		return "down"
	case "left", "a":
		return "left"
	case "right", "d":
		return "right"
	}
	return ""
}
