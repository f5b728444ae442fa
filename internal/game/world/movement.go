package world

import (
	"github.com/Faultbox/tileclient/internal/game/entity"
	"github.com/Faultbox/tileclient/pkg/math"
)

// MovementController turns grid movement requests into queued moves and
// bumps on a player.
type MovementController struct {
	pathFinder *PathFinder
	player     *entity.Player

	// Current path, without the starting cell
	path      []math.Point
	pathIndex int
	run       bool

	// Movement state
	IsFollowingPath bool
}

// NewMovementController creates a new movement controller.
func NewMovementController(pathFinder *PathFinder, player *entity.Player) *MovementController {
	return &MovementController{
		pathFinder: pathFinder,
		player:     player,
	}
}

// SetPlayer sets the player to control.
func (mc *MovementController) SetPlayer(player *entity.Player) {
	mc.player = player
	mc.ClearPath()
}

// SetPathFinder switches to another map's pathfinder and drops the current
// path.
func (mc *MovementController) SetPathFinder(pf *PathFinder) {
	mc.pathFinder = pf
	mc.ClearPath()
}

// Step moves the player one cell toward f when that cell is walkable and
// bumps against it otherwise. It reports whether a move was queued.
func (mc *MovementController) Step(f entity.Facing, run bool) bool {
	if mc.player == nil || !f.Valid() {
		return false
	}
	dx, dy := f.Delta()
	next := mc.currentTile().Add(math.Point{X: dx, Y: dy})

	if !mc.CanWalkTo(next.X, next.Y) {
		mc.player.Bump(f)
		return false
	}
	if run {
		mc.player.Run(f)
	} else {
		mc.player.Walk(f)
	}
	return true
}

// MoveTo finds a path to a destination cell and starts following it.
// Returns the path if one exists, nil otherwise.
func (mc *MovementController) MoveTo(dest math.Point, run bool) []math.Point {
	if mc.player == nil || mc.pathFinder == nil {
		return nil
	}

	path := mc.pathFinder.FindPath(mc.currentTile(), dest)
	if len(path) < 2 {
		return nil
	}

	mc.path = path[1:]
	mc.pathIndex = 0
	mc.run = run
	mc.IsFollowingPath = true
	return path
}

// Update queues the next waypoint once the player's animation queue is
// drained. A waypoint that became blocked ends the path with a bump.
func (mc *MovementController) Update() {
	if mc.player == nil || !mc.IsFollowingPath {
		return
	}
	if mc.player.Animations.Len() > 0 {
		return
	}
	if mc.pathIndex >= len(mc.path) {
		mc.IsFollowingPath = false
		return
	}

	cur := mc.currentTile()
	next := mc.path[mc.pathIndex]
	f, ok := entity.FacingFromDelta(next.X-cur.X, next.Y-cur.Y)
	if !ok || next.Manhattan(cur) != 1 {
		// Knocked off the path, e.g. by a warp.
		mc.ClearPath()
		return
	}

	mc.pathIndex++
	if !mc.Step(f, mc.run) {
		mc.ClearPath()
	}
}

// ClearPath stops the current path following.
func (mc *MovementController) ClearPath() {
	mc.path = nil
	mc.pathIndex = 0
	mc.IsFollowingPath = false
}

// GetPath returns the current path.
func (mc *MovementController) GetPath() []math.Point {
	return mc.path
}

// GetPathIndex returns the current index in the path.
func (mc *MovementController) GetPathIndex() int {
	return mc.pathIndex
}

// CanWalkTo checks if a cell is walkable.
func (mc *MovementController) CanWalkTo(x, y int) bool {
	if mc.pathFinder == nil {
		return false
	}
	return mc.pathFinder.IsWalkable(x, y)
}

func (mc *MovementController) currentTile() math.Point {
	return mc.player.Tile(mc.player.Config().Dimension)
}
