package grid

import (
	"math/rand"
	"testing"
)

func wallSet(cells ...Coord) BlockedFunc {
	m := map[Coord]bool{}
	for _, c := range cells {
		m[c] = true
	}
	return func(c Coord) bool { return m[c] }
}

func TestReachableTiles_ZeroRangeIsOrigin(t *testing.T) {
	nodes := ReachableTiles(Coord{2, 2}, 0, nil, 5, 5)
	if len(nodes) != 1 || nodes[0].Coord != (Coord{2, 2}) || nodes[0].Distance != 0 {
		t.Fatalf("expected only the origin, got %v", nodes)
	}
}

func TestReachableTiles_OriginIncludedEvenIfBlocked(t *testing.T) {
	origin := Coord{1, 1}
	nodes := ReachableTiles(origin, 2, wallSet(origin), 4, 4)
	if d, ok := Contains(nodes, origin); !ok || d != 0 {
		t.Fatal("origin must be reported at distance 0")
	}
	if len(nodes) < 2 {
		t.Fatal("neighbours of a blocked origin should still be expanded")
	}
}

func TestReachableTiles_DiamondOnOpenGrid(t *testing.T) {
	nodes := ReachableTiles(Coord{5, 5}, 2, nil, 11, 11)
	// 1 + 4 + 8 cells within Manhattan distance 2.
	if len(nodes) != 13 {
		t.Fatalf("expected 13 cells, got %d", len(nodes))
	}
	for _, n := range nodes {
		if n.Distance != Manhattan(n.Coord, Coord{5, 5}) {
			t.Fatalf("cell %v has distance %d, want Manhattan distance", n.Coord, n.Distance)
		}
	}
}

func TestReachableTiles_BoundaryClipped(t *testing.T) {
	nodes := ReachableTiles(Coord{0, 0}, 1, nil, 3, 3)
	if len(nodes) != 3 {
		t.Fatalf("corner with range 1 should reach 3 cells, got %d", len(nodes))
	}
}

func TestReachableTiles_WallForcesDetour(t *testing.T) {
	// Vertical wall at x=1 except y=3.
	blocked := wallSet(Coord{1, 0}, Coord{1, 1}, Coord{1, 2})
	nodes := ReachableTiles(Coord{0, 0}, 10, blocked, 4, 4)
	d, ok := Contains(nodes, Coord{2, 0})
	if !ok {
		t.Fatal("(2,0) should be reachable around the wall")
	}
	if d != 8 {
		t.Fatalf("detour distance = %d, want 8", d)
	}
	for _, n := range nodes {
		if blocked(n.Coord) {
			t.Fatalf("blocked cell %v reported reachable", n.Coord)
		}
	}
	near := ReachableTiles(Coord{0, 0}, 4, blocked, 4, 4)
	if _, ok := Contains(near, Coord{2, 0}); ok {
		t.Fatal("(2,0) must not be reachable within 4 steps")
	}
}

func TestShortestPath_StraightLine(t *testing.T) {
	path := ShortestPath(Coord{0, 0}, Coord{4, 0}, nil, 5, 1)
	if len(path) != 5 {
		t.Fatalf("expected 5 cells, got %v", path)
	}
	if path[0] != (Coord{0, 0}) || path[4] != (Coord{4, 0}) {
		t.Fatalf("path must start at start and end at goal: %v", path)
	}
}

func TestShortestPath_StartEqualsGoal(t *testing.T) {
	path := ShortestPath(Coord{2, 2}, Coord{2, 2}, nil, 5, 5)
	if len(path) != 1 {
		t.Fatalf("expected single cell path, got %v", path)
	}
}

func TestShortestPath_NoPath(t *testing.T) {
	goal := Coord{2, 2}
	blocked := wallSet(Coord{1, 2}, Coord{3, 2}, Coord{2, 1}, Coord{2, 3})
	if path := ShortestPath(Coord{0, 0}, goal, blocked, 5, 5); path != nil {
		t.Fatalf("expected nil for a walled-in goal, got %v", path)
	}
	if path := ShortestPath(Coord{0, 0}, Coord{9, 9}, nil, 5, 5); path != nil {
		t.Fatal("out-of-bounds goal should have no path")
	}
}

func TestShortestPath_StepsAreAdjacent(t *testing.T) {
	blocked := wallSet(Coord{2, 0}, Coord{2, 1}, Coord{2, 2}, Coord{2, 3})
	path := ShortestPath(Coord{0, 0}, Coord{4, 0}, blocked, 5, 5)
	if path == nil {
		t.Fatal("expected a path under the wall")
	}
	for i := 1; i < len(path); i++ {
		if Manhattan(path[i-1], path[i]) != 1 {
			t.Fatalf("non-adjacent step %v -> %v", path[i-1], path[i])
		}
		if blocked(path[i]) {
			t.Fatalf("path crosses blocked cell %v", path[i])
		}
	}
}

func TestShortestPath_Deterministic(t *testing.T) {
	a := ShortestPath(Coord{0, 0}, Coord{3, 3}, nil, 6, 6)
	for i := 0; i < 10; i++ {
		b := ShortestPath(Coord{0, 0}, Coord{3, 3}, nil, 6, 6)
		if len(a) != len(b) {
			t.Fatal("path length changed between runs")
		}
		for j := range a {
			if a[j] != b[j] {
				t.Fatalf("path differs at step %d: %v vs %v", j, a[j], b[j])
			}
		}
	}
}

// Path length must agree with the BFS distance on random boards, and a path
// exists exactly when BFS reaches the goal.
func TestShortestPath_MatchesBFS(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const w, h = 9, 7
	for trial := 0; trial < 300; trial++ {
		walls := map[Coord]bool{}
		for i := 0; i < 18; i++ {
			walls[Coord{rng.Intn(w), rng.Intn(h)}] = true
		}
		start := Coord{rng.Intn(w), rng.Intn(h)}
		goal := Coord{rng.Intn(w), rng.Intn(h)}
		delete(walls, start)
		delete(walls, goal)
		blocked := func(c Coord) bool { return walls[c] }

		reach := ReachableTiles(start, Unlimited, blocked, w, h)
		dist, reachable := Contains(reach, goal)
		path := ShortestPath(start, goal, blocked, w, h)

		if !reachable {
			if path != nil {
				t.Fatalf("trial %d: path %v found but BFS says unreachable", trial, path)
			}
			continue
		}
		if path == nil {
			t.Fatalf("trial %d: BFS reaches goal at %d but no path", trial, dist)
		}
		if len(path)-1 != dist {
			t.Fatalf("trial %d: path length %d, BFS distance %d", trial, len(path)-1, dist)
		}
	}
}

func TestCoordManhattanMatchesFunc(t *testing.T) {
	a, b := Coord{X: 1, Y: 5}, Coord{X: 4, Y: 2}
	if got := a.Manhattan(b); got != 6 || got != Manhattan(b, a) {
		t.Fatalf("Manhattan = %d, want 6 both ways", got)
	}
	n := Node{Coord: a, Distance: 3}
	if n.Manhattan(a) != 0 {
		t.Error("Node should expose its coord's distance method")
	}
}
