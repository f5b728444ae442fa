package math

// Point is an integer position, either in world units or in tile cells
// depending on the caller.
type Point struct {
	X, Y int
}

// Add returns p + other.
func (p Point) Add(other Point) Point {
	return Point{p.X + other.X, p.Y + other.Y}
}

// ToCell converts a world-unit point to the tile cell containing it.
func (p Point) ToCell(tileSize int) Point {
	if tileSize <= 0 {
		return p
	}
	return Point{floorDiv(p.X, tileSize), floorDiv(p.Y, tileSize)}
}

// ToWorld converts a tile cell to the world-unit position of its origin.
func (p Point) ToWorld(tileSize int) Point {
	return Point{p.X * tileSize, p.Y * tileSize}
}

// Manhattan returns the grid distance between two points.
func (p Point) Manhattan(other Point) int {
	return abs(p.X-other.X) + abs(p.Y-other.Y)
}

// Vec2 converts the point to a float vector.
func (p Point) Vec2() Vec2 {
	return Vec2{float64(p.X), float64(p.Y)}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
