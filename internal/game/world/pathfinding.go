package world

import (
	"container/heap"

	"github.com/Faultbox/tileclient/pkg/math"
)

// Grid is the walkability view pathfinding runs on.
type Grid interface {
	Size() (width, height int)
	IsWalkable(x, y int) bool
}

// PathNode represents a node in the A* pathfinding algorithm.
type PathNode struct {
	X, Y   int // Cell coordinates
	G      int // Cost from start
	H      int // Heuristic (estimated cost to goal)
	F      int // Total cost (G + H)
	Parent *PathNode
	Index  int // Index in heap
}

// PathHeap implements a priority queue for A* pathfinding.
type PathHeap []*PathNode

func (h PathHeap) Len() int { return len(h) }
func (h PathHeap) Less(i, j int) bool {
	if h[i].F == h[j].F {
		return h[i].H < h[j].H
	}
	return h[i].F < h[j].F
}
func (h PathHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].Index = i
	h[j].Index = j
}

func (h *PathHeap) Push(x interface{}) {
	n := len(*h)
	node := x.(*PathNode)
	node.Index = n
	*h = append(*h, node)
}

func (h *PathHeap) Pop() interface{} {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.Index = -1
	*h = old[0 : n-1]
	return node
}

// directions lists the four grid steps, in facing order: up, down, left,
// right.
var directions = [4]math.Point{
	{X: 0, Y: -1},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
	{X: 1, Y: 0},
}

// PathFinder handles pathfinding on a map grid.
type PathFinder struct {
	grid   Grid
	width  int
	height int
}

// NewPathFinder creates a new pathfinder.
func NewPathFinder(grid Grid) *PathFinder {
	if grid == nil {
		return nil
	}
	w, h := grid.Size()
	return &PathFinder{
		grid:   grid,
		width:  w,
		height: h,
	}
}

// FindPath finds a four-way path from start to goal using A*. The path
// includes both ends. Returns nil if no path exists.
func (pf *PathFinder) FindPath(start, goal math.Point) []math.Point {
	if pf == nil || pf.grid == nil {
		return nil
	}

	if !pf.inBounds(start.X, start.Y) || !pf.inBounds(goal.X, goal.Y) {
		return nil
	}

	if !pf.grid.IsWalkable(goal.X, goal.Y) {
		return nil
	}

	openSet := &PathHeap{}
	heap.Init(openSet)

	closedSet := make(map[int]bool)
	nodeMap := make(map[int]*PathNode)

	startNode := &PathNode{
		X: start.X,
		Y: start.Y,
		G: 0,
		H: start.Manhattan(goal),
	}
	startNode.F = startNode.G + startNode.H
	heap.Push(openSet, startNode)
	nodeMap[pf.key(start.X, start.Y)] = startNode

	maxIterations := pf.width * pf.height // Prevent infinite loops
	iterations := 0

	for openSet.Len() > 0 && iterations < maxIterations {
		iterations++

		current := heap.Pop(openSet).(*PathNode)

		if current.X == goal.X && current.Y == goal.Y {
			return pf.reconstructPath(current)
		}

		closedSet[pf.key(current.X, current.Y)] = true

		for _, dir := range directions {
			nx, ny := current.X+dir.X, current.Y+dir.Y

			if !pf.inBounds(nx, ny) || !pf.grid.IsWalkable(nx, ny) {
				continue
			}
			if closedSet[pf.key(nx, ny)] {
				continue
			}

			g := current.G + 1

			neighbor, exists := nodeMap[pf.key(nx, ny)]
			if !exists {
				neighbor = &PathNode{
					X:      nx,
					Y:      ny,
					G:      g,
					H:      math.Point{X: nx, Y: ny}.Manhattan(goal),
					Parent: current,
				}
				neighbor.F = neighbor.G + neighbor.H
				nodeMap[pf.key(nx, ny)] = neighbor
				heap.Push(openSet, neighbor)
			} else if g < neighbor.G {
				neighbor.G = g
				neighbor.F = neighbor.G + neighbor.H
				neighbor.Parent = current
				heap.Fix(openSet, neighbor.Index)
			}
		}
	}

	return nil
}

// IsWalkable checks if a cell is walkable.
func (pf *PathFinder) IsWalkable(x, y int) bool {
	if pf == nil || pf.grid == nil {
		return false
	}
	if !pf.inBounds(x, y) {
		return false
	}
	return pf.grid.IsWalkable(x, y)
}

func (pf *PathFinder) inBounds(x, y int) bool {
	return x >= 0 && x < pf.width && y >= 0 && y < pf.height
}

func (pf *PathFinder) key(x, y int) int {
	return y*pf.width + x
}

func (pf *PathFinder) reconstructPath(node *PathNode) []math.Point {
	var path []math.Point
	for node != nil {
		path = append(path, math.Point{X: node.X, Y: node.Y})
		node = node.Parent
	}
	// Reverse path (it's built from goal to start)
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
