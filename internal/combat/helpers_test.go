package combat

import (
	"testing"

	"squadtactics/internal/config"
	"squadtactics/internal/grid"
)

// fixedRand returns the same roll every time. A roll of 0 always hits, 0.999
// always misses; pick selects the damage offset.
type fixedRand struct {
	roll float64
	pick int
}

func (r fixedRand) Float64() float64 { return r.roll }
func (r fixedRand) Intn(n int) int   { return min(r.pick, n-1) }

var (
	alwaysHit  = fixedRand{roll: 0}
	alwaysMiss = fixedRand{roll: 0.999}
)

func def(id string, x, y int) config.UnitDef {
	return config.UnitDef{ID: id, Name: id, HP: 6, Position: config.PosDef{X: x, Y: y}}
}

func encounter(players, enemies []config.UnitDef, obstacles ...config.ObstacleDef) *config.Encounter {
	enc := &config.Encounter{
		Squads: &config.SquadsConfig{Player: players, Enemy: enemies},
		Board:  &config.BoardConfig{Width: 8, Height: 6, Obstacles: obstacles},
	}
	enc.ApplyDefaults()
	return enc
}

type recorder struct{ events []Event }

func (r *recorder) emit(ev Event) { r.events = append(r.events, ev) }

func (r *recorder) count(kind string) int {
	n := 0
	for _, ev := range r.events {
		if ev.Type == kind {
			n++
		}
	}
	return n
}

func newBattle(t *testing.T, rng Rand, enc *config.Encounter) (*Battle, *recorder) {
	t.Helper()
	rec := &recorder{}
	b, warnings := NewBattle(Setup{Encounter: enc, Rng: rng, Emit: rec.emit})
	if len(warnings) > 0 {
		t.Fatalf("unexpected setup warnings: %v", warnings)
	}
	return b, rec
}

func mustOK(t *testing.T, r Result) Result {
	t.Helper()
	if !r.OK {
		t.Fatalf("command rejected: %s (%s)", r.Message, r.Code)
	}
	return r
}

func wantCode(t *testing.T, r Result, code Code) {
	t.Helper()
	if r.OK || r.Code != code {
		t.Fatalf("got ok=%v code=%s (%s), want rejection %s", r.OK, r.Code, r.Message, code)
	}
}

func view(t *testing.T, b *Battle, id string) UnitView {
	t.Helper()
	v, ok := b.Unit(id)
	if !ok {
		t.Fatalf("unit %s missing", id)
	}
	return v
}

func selected(b *Battle) string {
	id, _ := b.Selected()
	return id
}

func at(x, y int) grid.Coord { return grid.Coord{X: x, Y: y} }
