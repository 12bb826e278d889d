package combat

import (
	"fmt"

	"squadtactics/internal/config"
	"squadtactics/internal/grid"
)

// Board is the immutable terrain of one battle, stored row-major.
type Board struct {
	Width  int
	Height int
	cover  []Cover
}

// NewBoard lays out the configured cover. Obstacles outside the board or with
// an unknown cover class are skipped and reported as warnings.
func NewBoard(cfg *config.BoardConfig) (*Board, []string) {
	b := &Board{Width: cfg.Width, Height: cfg.Height}
	var warnings []string
	if b.Width <= 0 || b.Height <= 0 {
		warnings = append(warnings, fmt.Sprintf("board size %dx%d invalid, using 1x1", b.Width, b.Height))
		b.Width, b.Height = max(b.Width, 1), max(b.Height, 1)
	}
	b.cover = make([]Cover, b.Width*b.Height)
	for _, ob := range cfg.Obstacles {
		at := grid.Coord{X: ob.X, Y: ob.Y}
		if !b.InBounds(at) {
			warnings = append(warnings, fmt.Sprintf("obstacle %v outside %dx%d board, skipped", at, b.Width, b.Height))
			continue
		}
		c, ok := ParseCover(ob.Cover)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("obstacle %v has unknown cover %q, treated as low", at, ob.Cover))
			c = CoverLow
		}
		if c == CoverNone {
			c = CoverLow
		}
		b.cover[at.Y*b.Width+at.X] = c
	}
	return b, warnings
}

func (b *Board) InBounds(c grid.Coord) bool { return c.InBounds(b.Width, b.Height) }

// CoverAt returns the cover of c; out-of-bounds cells have none.
func (b *Board) CoverAt(c grid.Coord) Cover {
	if !b.InBounds(c) {
		return CoverNone
	}
	return b.cover[c.Y*b.Width+c.X]
}

// Impassable reports obstacles and off-board cells.
func (b *Board) Impassable(c grid.Coord) bool {
	return !b.InBounds(c) || b.CoverAt(c) == CoverHigh
}

// Cell is one entry of a board listing.
type Cell struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Cover string `json:"cover"`
}

// CoverCells lists every cell carrying cover, row by row.
func (b *Board) CoverCells() []Cell {
	var out []Cell
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if c := b.cover[y*b.Width+x]; c != CoverNone {
				out = append(out, Cell{X: x, Y: y, Cover: c.String()})
			}
		}
	}
	return out
}
