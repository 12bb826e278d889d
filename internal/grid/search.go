package grid

import (
	"container/heap"
	"math"
)

// Unlimited can be passed as a range to ReachableTiles to search the whole
// connected component.
const Unlimited = math.MaxInt32

// Node is a reachable cell tagged with its minimal step distance.
type Node struct {
	Coord
	Distance int `json:"distance"`
}

// ReachableTiles returns every cell reachable from start in at most rng steps,
// in breadth-first order. The origin is always included at distance 0 and is
// never tested against blocked. A negative range yields only the origin.
func ReachableTiles(start Coord, rng int, blocked BlockedFunc, width, height int) []Node {
	out := []Node{{Coord: start, Distance: 0}}
	if rng <= 0 {
		return out
	}
	visited := map[Coord]bool{start: true}
	queue := []Node{out[0]}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.Distance >= rng {
			continue
		}
		for _, d := range directions {
			next := cur.Coord.Add(d)
			if visited[next] || !next.InBounds(width, height) {
				continue
			}
			if blocked != nil && blocked(next) {
				continue
			}
			visited[next] = true
			n := Node{Coord: next, Distance: cur.Distance + 1}
			out = append(out, n)
			queue = append(queue, n)
		}
	}
	return out
}

// Contains reports whether c appears in nodes and returns its distance.
func Contains(nodes []Node, c Coord) (int, bool) {
	for _, n := range nodes {
		if n.Coord == c {
			return n.Distance, true
		}
	}
	return 0, false
}

// --- A* ---

type pathNode struct {
	at     Coord
	g, h   int
	seq    int
	parent *pathNode
	index  int
}

// openList orders by f = g+h, then by lower h (closer to goal), then by
// insertion sequence so equal candidates are expanded first-in first-out.
type openList []*pathNode

func (ol openList) Len() int { return len(ol) }
func (ol openList) Less(i, j int) bool {
	fi, fj := ol[i].g+ol[i].h, ol[j].g+ol[j].h
	if fi != fj {
		return fi < fj
	}
	if ol[i].h != ol[j].h {
		return ol[i].h < ol[j].h
	}
	return ol[i].seq < ol[j].seq
}
func (ol openList) Swap(i, j int) {
	ol[i], ol[j] = ol[j], ol[i]
	ol[i].index = i
	ol[j].index = j
}
func (ol *openList) Push(x any) {
	n := x.(*pathNode)
	n.index = len(*ol)
	*ol = append(*ol, n)
}
func (ol *openList) Pop() any {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

// ShortestPath runs a 4-directional A* from start to goal with the Manhattan
// heuristic. The returned path includes both endpoints; nil means the goal
// cannot be reached. The goal itself is subject to blocked like any other cell.
func ShortestPath(start, goal Coord, blocked BlockedFunc, width, height int) []Coord {
	if !start.InBounds(width, height) || !goal.InBounds(width, height) {
		return nil
	}
	if start == goal {
		return []Coord{start}
	}

	seq := 0
	first := &pathNode{at: start, h: Manhattan(start, goal)}
	ol := &openList{first}
	heap.Init(ol)
	bestG := map[Coord]int{start: 0}
	closed := map[Coord]bool{}

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*pathNode)
		if cur.at == goal {
			return buildPath(cur)
		}
		if closed[cur.at] {
			continue
		}
		closed[cur.at] = true

		for _, d := range directions {
			next := cur.at.Add(d)
			if closed[next] || !next.InBounds(width, height) {
				continue
			}
			if blocked != nil && blocked(next) {
				continue
			}
			g := cur.g + 1
			if old, ok := bestG[next]; ok && g >= old {
				continue
			}
			bestG[next] = g
			seq++
			heap.Push(ol, &pathNode{at: next, g: g, h: Manhattan(next, goal), seq: seq, parent: cur})
		}
	}
	return nil
}

func buildPath(n *pathNode) []Coord {
	var rev []Coord
	for ; n != nil; n = n.parent {
		rev = append(rev, n.at)
	}
	path := make([]Coord, len(rev))
	for i := range rev {
		path[i] = rev[len(rev)-1-i]
	}
	return path
}
