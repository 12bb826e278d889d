package combat

import (
	"fmt"

	"squadtactics/internal/grid"
)

type EnemyActionKind string

const (
	EnemyAttack  EnemyActionKind = "attack"
	EnemyAdvance EnemyActionKind = "advance"
	EnemyStall   EnemyActionKind = "stall"
)

// EnemyAction is one enemy unit's decision for its turn. Path runs from the
// unit's tile to Destination inclusive and is only set for an advance.
type EnemyAction struct {
	UnitID          string          `json:"unit_id"`
	Kind            EnemyActionKind `json:"kind"`
	TargetID        string          `json:"target_id,omitempty"`
	Path            []grid.Coord    `json:"path,omitempty"`
	Destination     grid.Coord      `json:"destination"`
	AttackAfterMove bool            `json:"attack_after_move,omitempty"`
	Reason          string          `json:"reason,omitempty"`
	Attack          *AttackResult   `json:"attack,omitempty"`
}

// World is the read-only state an enemy decision looks at.
type World interface {
	Board() *Board
	Units() []UnitView
}

// DecideEnemyAction picks what unitID does: shoot the nearest living
// opponent if it is in range, otherwise walk toward it along the shortest
// path, at most MoveRange tiles, never ending on an occupied tile. It does
// not change anything.
func DecideEnemyAction(w World, unitID string) EnemyAction {
	units := w.Units()
	var self *UnitView
	for i := range units {
		if units[i].ID == unitID {
			self = &units[i]
			break
		}
	}
	if self == nil || !self.Alive {
		return EnemyAction{UnitID: unitID, Kind: EnemyStall, Reason: "unit cannot act"}
	}
	act := EnemyAction{UnitID: self.ID, Destination: self.Pos}

	var target *UnitView
	best := 0
	occupied := map[grid.Coord]string{}
	for i := range units {
		v := &units[i]
		if !v.Alive {
			continue
		}
		occupied[v.Pos] = v.ID
		if v.Team == self.Team {
			continue
		}
		if d := self.Pos.Manhattan(v.Pos); target == nil || d < best {
			target, best = v, d
		}
	}
	if target == nil {
		act.Kind, act.Reason = EnemyStall, "no target"
		return act
	}
	act.TargetID = target.ID
	if best <= self.AttackRange {
		act.Kind = EnemyAttack
		return act
	}

	board := w.Board()
	blocked := func(c grid.Coord) bool {
		if board.Impassable(c) {
			return true
		}
		id, taken := occupied[c]
		return taken && id != self.ID && id != target.ID
	}
	path := grid.ShortestPath(self.Pos, target.Pos, blocked, board.Width, board.Height)
	if len(path) < 2 {
		act.Kind, act.Reason = EnemyStall, fmt.Sprintf("no path to %s", target.ID)
		return act
	}
	steps := min(self.MoveRange, len(path)-1)
	for steps > 0 {
		if id, taken := occupied[path[steps]]; !taken || id == self.ID {
			break
		}
		steps--
	}
	if steps == 0 {
		act.Kind, act.Reason = EnemyStall, fmt.Sprintf("blocked short of %s", target.ID)
		return act
	}
	act.Kind = EnemyAdvance
	act.Path = append([]grid.Coord(nil), path[:steps+1]...)
	act.Destination = path[steps]
	act.AttackAfterMove = act.Destination.Manhattan(target.Pos) <= self.AttackRange
	return act
}

// EnemyPending reports how many enemy units still have to act this phase.
func (b *Battle) EnemyPending() int {
	if b.phase != PhaseEnemy {
		return 0
	}
	n := 0
	for _, id := range b.enemyQueue {
		if u := b.byID[id]; u != nil && u.Alive() {
			n++
		}
	}
	return n
}

// StepEnemy lets the next enemy unit act. After the last one the player
// phase begins.
func (b *Battle) StepEnemy() Result {
	if b.outcome != OutcomeOngoing {
		return b.reject(fail(CodeBattleOver, "The battle is over (%s).", b.outcome))
	}
	if b.phase != PhaseEnemy {
		return b.reject(fail(CodeWrongPhase, "Not the enemy phase."))
	}
	u := b.nextEnemy()
	if u == nil {
		b.enterPhase(PhasePlayer)
		return ok("Enemy phase complete.")
	}

	act := DecideEnemyAction(b, u.ID)
	res := ok("%s", b.applyEnemyAction(u, &act))
	res.Enemy = &act
	res.Attack = act.Attack
	u.Turn.Moved = u.Turn.Moved || act.Kind == EnemyAdvance
	u.Done = true

	if b.outcome == OutcomeOngoing && b.nextEnemyPeek() == nil {
		b.enterPhase(PhasePlayer)
	}
	return res
}

// RunEnemyPhase steps every remaining enemy unit and returns their actions.
func (b *Battle) RunEnemyPhase() []EnemyAction {
	var out []EnemyAction
	for b.outcome == OutcomeOngoing && b.phase == PhaseEnemy {
		r := b.StepEnemy()
		if !r.OK {
			break
		}
		if r.Enemy != nil {
			out = append(out, *r.Enemy)
		}
	}
	return out
}

func (b *Battle) applyEnemyAction(u *Unit, act *EnemyAction) string {
	target := b.byID[act.TargetID]
	switch act.Kind {
	case EnemyAttack:
		ar := b.fire(u, target)
		u.Turn.Acted = true
		act.Attack = &ar
		return describeAttack(u, target, ar)
	case EnemyAdvance:
		from := u.Pos
		b.relocate(u, act.Destination)
		u.Turn.Travelled = len(act.Path) - 1
		b.publish(EventUnitMoved, map[string]any{
			"unit": u.ID, "from": from, "to": act.Destination, "distance": len(act.Path) - 1,
		})
		msg := fmt.Sprintf("%s advances to %v.", u.Name, act.Destination)
		if target != nil && target.Alive() && u.Pos.Manhattan(target.Pos) <= u.AttackRange {
			ar := b.fire(u, target)
			u.Turn.Acted = true
			act.Attack = &ar
			msg += " " + describeAttack(u, target, ar)
		}
		return msg
	default:
		b.publish(EventEnemyStalled, map[string]any{"unit": u.ID, "reason": act.Reason})
		return fmt.Sprintf("%s holds position (%s).", u.Name, act.Reason)
	}
}

// nextEnemy pops the queue until a living unit comes up.
func (b *Battle) nextEnemy() *Unit {
	for len(b.enemyQueue) > 0 {
		id := b.enemyQueue[0]
		b.enemyQueue = b.enemyQueue[1:]
		if u := b.byID[id]; u != nil && u.Alive() {
			return u
		}
	}
	return nil
}

func (b *Battle) nextEnemyPeek() *Unit {
	for _, id := range b.enemyQueue {
		if u := b.byID[id]; u != nil && u.Alive() {
			return u
		}
	}
	return nil
}
