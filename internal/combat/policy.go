package combat

import (
	"squadtactics/internal/grid"
)

// PlayerPolicy drives the selected player unit during automated runs. Act
// may issue any number of commands; the runner ends the unit's turn
// afterwards if it is still selected.
type PlayerPolicy interface {
	Act(b *Battle, unitID string)
}

// GreedyPolicy patches up badly hurt units, shoots the weakest enemy in
// range and otherwise closes in, preferring cover. It dashes when a normal
// move cannot bring any enemy into range.
type GreedyPolicy struct{}

func (GreedyPolicy) Act(b *Battle, unitID string) {
	self, found := b.Unit(unitID)
	if !found {
		return
	}
	if hasAbility(self, AbilityRepair) && self.AbilityState.RepairCharges > 0 && self.HP*2 <= self.MaxHP {
		b.UseAbility(AbilityRepair.String(), "")
	}
	if shootWeakest(b) {
		return
	}

	tile, inRange := bestTile(b, unitID)
	if !inRange && hasAbility(self, AbilityDash) && !self.AbilityState.DashUsed {
		if r := b.UseAbility(AbilityDash.String(), ""); r.OK {
			tile, _ = bestTile(b, unitID)
		}
	}
	if self.Pos != tile {
		b.MoveSelectedTo(tile)
	}
	if sel, _ := b.Selected(); sel == unitID {
		shootWeakest(b)
	}
}

func hasAbility(v UnitView, k AbilityKind) bool {
	for _, a := range v.Abilities {
		if a == k.String() {
			return true
		}
	}
	return false
}

func shootWeakest(b *Battle) bool {
	ids := b.AttackableTargets()
	if len(ids) == 0 {
		return false
	}
	pick, pickHP := "", 0
	for _, id := range ids {
		v, _ := b.Unit(id)
		if pick == "" || v.HP < pickHP {
			pick, pickHP = id, v.HP
		}
	}
	return b.Attack(pick).OK
}

// bestTile scores every reachable tile: tiles with an enemy in attack range
// win, then better cover, then closeness to the nearest enemy, then the
// shorter walk.
func bestTile(b *Battle, unitID string) (grid.Coord, bool) {
	self, _ := b.Unit(unitID)
	var enemies []grid.Coord
	for _, v := range b.Units() {
		if v.Alive && v.Team != self.Team {
			enemies = append(enemies, v.Pos)
		}
	}
	best := self.Pos
	bestKey := [4]int{1 << 30}
	first := true
	bestInRange := false
	for _, n := range b.ReachableTiles() {
		near := 1 << 30
		for _, e := range enemies {
			near = min(near, n.Manhattan(e))
		}
		inRange := near <= self.AttackRange
		key := [4]int{1, near, -int(b.Board().CoverAt(n.Coord)), n.Distance}
		if inRange {
			key = [4]int{0, -int(b.Board().CoverAt(n.Coord)), near, n.Distance}
		}
		if first || less(key, bestKey) {
			best, bestKey, bestInRange, first = n.Coord, key, inRange, false
		}
	}
	return best, bestInRange
}

func less(a, b [4]int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
