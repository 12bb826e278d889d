// Package grid holds the board-agnostic search algorithms used by the combat
// core: bounded reachability and shortest paths over a 4-connected grid.
package grid

import "fmt"

// Coord is an integer cell position. X grows to the right, Y downwards.
type Coord struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (c Coord) Add(d Coord) Coord { return Coord{c.X + d.X, c.Y + d.Y} }
func (c Coord) String() string    { return fmt.Sprintf("(%d,%d)", c.X, c.Y) }

// InBounds reports whether c lies on a width x height board.
func (c Coord) InBounds(width, height int) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < width && c.Y < height
}

// Manhattan is the 4-connected step distance between a and b.
func Manhattan(a, b Coord) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Manhattan is the step distance from c to o.
func (c Coord) Manhattan(o Coord) int { return Manhattan(c, o) }

// BlockedFunc answers whether a cell may not be entered.
type BlockedFunc func(Coord) bool

var directions = [4]Coord{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
