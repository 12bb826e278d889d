package combat

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"squadtactics/internal/config"
	"squadtactics/internal/grid"
)

// Setup is everything NewBattle needs. Only Encounter is required in
// practice; a nil Encounter falls back to the stock one.
type Setup struct {
	Encounter *config.Encounter
	Rng       Rand
	Emit      func(Event)
	Logger    *zap.Logger
	Abilities *AbilityBook
}

// Battle owns the whole combat state and is the only thing allowed to mutate
// it. It is not safe for concurrent use; callers serialize commands.
type Battle struct {
	board     *Board
	units     []*Unit
	byID      map[string]*Unit
	occupied  map[grid.Coord]string
	abilities *AbilityBook

	phase      Phase
	round      int
	selected   string
	outcome    Outcome
	enemyQueue []string

	rng  Rand
	emit func(Event)
	log  *zap.Logger
}

// NewBattle builds a battle from the encounter and enters the first player
// phase. Invalid entries are skipped; the returned warnings describe each one.
func NewBattle(s Setup) (*Battle, []string) {
	enc := s.Encounter
	if enc == nil {
		enc = config.Default()
	}
	enc.ApplyDefaults()

	b := &Battle{
		byID:      map[string]*Unit{},
		occupied:  map[grid.Coord]string{},
		abilities: s.Abilities,
		rng:       s.Rng,
		emit:      s.Emit,
		log:       s.Logger,
		round:     1,
	}
	if b.abilities == nil {
		b.abilities = NewAbilityBook(enc.Abilities)
	}
	if b.rng == nil {
		b.rng = rand.New(rand.NewSource(1))
	}
	if b.log == nil {
		b.log = zap.NewNop()
	}

	var warnings []string
	b.board, warnings = NewBoard(enc.Board)
	warnings = append(warnings, b.place(enc.Squads.Player, TeamPlayer, enc.Squads.Classes)...)
	warnings = append(warnings, b.place(enc.Squads.Enemy, TeamEnemy, enc.Squads.Classes)...)

	b.log.Info("battle created",
		zap.Int("width", b.board.Width),
		zap.Int("height", b.board.Height),
		zap.Int("units", len(b.units)),
		zap.Int("warnings", len(warnings)))

	b.checkResolution()
	b.enterPhase(PhasePlayer)
	return b, warnings
}

func (b *Battle) place(defs []config.UnitDef, team Team, classes map[string]config.ClassDef) []string {
	var warnings []string
	for _, def := range defs {
		u, notes, err := NewUnit(def, team, classes, b.abilities.RepairCharges())
		warnings = append(warnings, notes...)
		switch {
		case err != nil:
			warnings = append(warnings, fmt.Sprintf("%s unit skipped: %v", team, err))
			continue
		case b.byID[u.ID] != nil:
			warnings = append(warnings, fmt.Sprintf("duplicate unit id %q skipped", u.ID))
			continue
		case !b.board.InBounds(u.Pos):
			warnings = append(warnings, fmt.Sprintf("%s at %v is off the board, skipped", u.ID, u.Pos))
			continue
		case b.board.Impassable(u.Pos):
			warnings = append(warnings, fmt.Sprintf("%s at %v stands on high cover, skipped", u.ID, u.Pos))
			continue
		}
		if other, taken := b.occupied[u.Pos]; taken {
			warnings = append(warnings, fmt.Sprintf("%s at %v overlaps %s, skipped", u.ID, u.Pos, other))
			continue
		}
		b.units = append(b.units, u)
		b.byID[u.ID] = u
		b.occupied[u.Pos] = u.ID
	}
	return warnings
}

// ---- queries ----

func (b *Battle) Board() *Board    { return b.board }
func (b *Battle) Phase() Phase     { return b.phase }
func (b *Battle) Round() int       { return b.round }
func (b *Battle) Outcome() Outcome { return b.outcome }

// Selected returns the id of the selected player unit, if any.
func (b *Battle) Selected() (string, bool) {
	return b.selected, b.selected != ""
}

// Units lists every unit, downed ones included, players first in squad order.
func (b *Battle) Units() []UnitView {
	out := make([]UnitView, 0, len(b.units))
	for _, u := range b.units {
		out = append(out, u.View())
	}
	return out
}

func (b *Battle) Unit(id string) (UnitView, bool) {
	u := b.byID[id]
	if u == nil {
		return UnitView{}, false
	}
	return u.View(), true
}

// OccupantAt returns the living unit standing on c.
func (b *Battle) OccupantAt(c grid.Coord) (string, bool) {
	id, ok := b.occupied[c]
	return id, ok
}

// ReachableTiles is the move overlay of the selected unit, its own tile
// included. It is empty outside the player phase or without a selection.
func (b *Battle) ReachableTiles() []grid.Node {
	u := b.selectedUnit()
	if u == nil || b.phase != PhasePlayer || b.outcome != OutcomeOngoing {
		return nil
	}
	return grid.ReachableTiles(u.Pos, u.MoveBudget(), b.blockedFor(u.ID), b.board.Width, b.board.Height)
}

// AttackableTargets lists living enemies within the selected unit's attack
// range, in squad order. It is empty once the unit has acted.
func (b *Battle) AttackableTargets() []string {
	u := b.selectedUnit()
	if u == nil || b.phase != PhasePlayer || b.outcome != OutcomeOngoing || u.Turn.Acted {
		return nil
	}
	return b.targetsInRange(u)
}

func (b *Battle) targetsInRange(u *Unit) []string {
	var out []string
	for _, t := range b.units {
		if t.Team == u.Team || !t.Alive() {
			continue
		}
		if u.Pos.Manhattan(t.Pos) <= u.AttackRange {
			out = append(out, t.ID)
		}
	}
	return out
}

// Alive counts the living units of team.
func (b *Battle) Alive(team Team) int {
	n := 0
	for _, u := range b.units {
		if u.Team == team && u.Alive() {
			n++
		}
	}
	return n
}

// Snapshot is the full read model handed to presentation layers.
type Snapshot struct {
	Phase      string      `json:"phase"`
	Round      int         `json:"round"`
	Outcome    string      `json:"outcome"`
	Selected   string      `json:"selected,omitempty"`
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Cover      []Cell      `json:"cover"`
	Units      []UnitView  `json:"units"`
	Reachable  []grid.Node `json:"reachable,omitempty"`
	Attackable []string    `json:"attackable,omitempty"`
}

func (b *Battle) Snapshot() Snapshot {
	return Snapshot{
		Phase:      b.phase.String(),
		Round:      b.round,
		Outcome:    b.outcome.String(),
		Selected:   b.selected,
		Width:      b.board.Width,
		Height:     b.board.Height,
		Cover:      b.board.CoverCells(),
		Units:      b.Units(),
		Reachable:  b.ReachableTiles(),
		Attackable: b.AttackableTargets(),
	}
}

// ---- player commands ----

// SelectUnit makes id the acting player unit.
func (b *Battle) SelectUnit(id string) Result {
	if r, rejected := b.guardPlayer(); rejected {
		return r
	}
	u := b.byID[id]
	switch {
	case u == nil:
		return b.reject(fail(CodeUnknownUnit, "Unknown unit %q.", id))
	case u.Team != TeamPlayer:
		return b.reject(fail(CodeUnitUnavailable, "%s is not in your squad.", u.Name))
	case !u.Alive():
		return b.reject(fail(CodeUnitUnavailable, "%s is down.", u.Name))
	case u.Done:
		return b.reject(fail(CodeUnitUnavailable, "%s has finished its turn.", u.Name))
	}
	b.selected = u.ID
	b.publish(EventUnitSelected, map[string]any{"unit": u.ID})
	return ok("%s selected.", u.Name)
}

// MoveSelectedTo walks the selected unit to dest, which must be within its
// remaining movement budget along passable, unoccupied tiles.
func (b *Battle) MoveSelectedTo(dest grid.Coord) Result {
	u, r, rejected := b.actor()
	if rejected {
		return r
	}
	budget := u.MoveBudget()
	if budget <= 0 {
		return b.reject(fail(CodeAlreadyMoved, "%s has already moved.", u.Name))
	}
	if dest == u.Pos {
		return b.reject(fail(CodeUnreachable, "%s is already at %v.", u.Name, dest))
	}
	tiles := grid.ReachableTiles(u.Pos, budget, b.blockedFor(u.ID), b.board.Width, b.board.Height)
	dist, found := grid.Contains(tiles, dest)
	if !found {
		return b.reject(fail(CodeUnreachable, "%v is out of reach for %s.", dest, u.Name))
	}
	from := u.Pos
	b.relocate(u, dest)
	u.Turn.Travelled += dist
	if u.Turn.ExtraMovement == 0 || u.MoveBudget() == 0 {
		u.Turn.Moved = true
	}
	b.publish(EventUnitMoved, map[string]any{
		"unit": u.ID, "from": from, "to": dest, "distance": dist,
	})
	res := ok("%s moves to %v.", u.Name, dest)
	b.finishIfSpent(u)
	return res
}

// Attack fires the selected unit at targetID.
func (b *Battle) Attack(targetID string) Result {
	u, r, rejected := b.actor()
	if rejected {
		return r
	}
	if u.Turn.Acted {
		return b.reject(fail(CodeAlreadyActed, "%s has already acted.", u.Name))
	}
	t := b.byID[targetID]
	switch {
	case t == nil:
		return b.reject(fail(CodeInvalidTarget, "Unknown target %q.", targetID))
	case t.Team == u.Team:
		return b.reject(fail(CodeInvalidTarget, "%s is on your side.", t.Name))
	case !t.Alive():
		return b.reject(fail(CodeInvalidTarget, "%s is already down.", t.Name))
	case u.Pos.Manhattan(t.Pos) > u.AttackRange:
		return b.reject(fail(CodeOutOfRange, "%s is out of range.", t.Name))
	}
	ar := b.fire(u, t)
	u.Turn.Acted = true
	res := ok("%s", describeAttack(u, t, ar))
	res.Attack = &ar
	b.finishIfSpent(u)
	return res
}

// UseAbility triggers abilityID for the selected unit. targetID is optional:
// suppress defaults to the first attackable enemy and repair to the user.
func (b *Battle) UseAbility(abilityID, targetID string) Result {
	u, r, rejected := b.actor()
	if rejected {
		return r
	}
	if u.Turn.Acted {
		return b.reject(fail(CodeAlreadyActed, "%s has already acted.", u.Name))
	}
	k, known := ParseAbility(abilityID)
	if !known {
		return b.reject(fail(CodeUnknownAbility, "Ability %s not implemented.", abilityID))
	}
	if !u.HasAbility(k) {
		return b.reject(fail(CodeAbilityUnavailable, "%s cannot use %s.", u.Name, k))
	}

	var target *Unit
	switch k {
	case AbilitySuppress:
		if targetID == "" {
			if ids := b.targetsInRange(u); len(ids) > 0 {
				target = b.byID[ids[0]]
			}
			if target == nil {
				return b.reject(fail(CodeNoTarget, "No target for suppress."))
			}
			break
		}
		target = b.byID[targetID]
		switch {
		case target == nil || target.Team == u.Team || !target.Alive():
			return b.reject(fail(CodeInvalidTarget, "Cannot suppress %q.", targetID))
		case u.Pos.Manhattan(target.Pos) > u.AttackRange:
			return b.reject(fail(CodeOutOfRange, "%s is out of range.", target.Name))
		}
	case AbilityRepair:
		if targetID != "" {
			target = b.byID[targetID]
			if target == nil || target.Team != u.Team {
				return b.reject(fail(CodeInvalidTarget, "Cannot repair %q.", targetID))
			}
		}
	}

	ab := b.abilities.Resolve(k, u, target)
	if !ab.Success {
		res := b.reject(fail(CodeAbilityFailed, "%s", ab.Message))
		res.Ability = &ab
		return res
	}
	b.publish(EventAbilityUsed, map[string]any{
		"unit": u.ID, "ability": ab.Kind, "target": ab.TargetID,
		"extra_movement": ab.ExtraMovement, "heal": ab.Heal,
	})
	if k == AbilitySuppress && target != nil {
		b.publish(EventStatusApplied, map[string]any{
			"unit": target.ID, "status": StatusSuppressed, "penalty": ab.AccuracyPenalty,
		})
	}
	res := ok("%s", ab.Message)
	res.Ability = &ab
	b.finishIfSpent(u)
	return res
}

// EndTurn marks the selected unit finished and advances the selection, or
// hands over to the enemy when no player unit is left to act.
func (b *Battle) EndTurn() Result {
	if r, rejected := b.guardPlayer(); rejected {
		return r
	}
	name := "Squad"
	if u := b.selectedUnit(); u != nil {
		u.Done = true
		name = u.Name
	}
	b.advanceSelection()
	return ok("%s ends turn.", name)
}

// ---- internals ----

func (b *Battle) guardPlayer() (Result, bool) {
	if b.outcome != OutcomeOngoing {
		return b.reject(fail(CodeBattleOver, "The battle is over (%s).", b.outcome)), true
	}
	if b.phase != PhasePlayer {
		return b.reject(fail(CodeWrongPhase, "Not the player phase.")), true
	}
	return Result{}, false
}

func (b *Battle) actor() (*Unit, Result, bool) {
	if r, rejected := b.guardPlayer(); rejected {
		return nil, r, true
	}
	u := b.selectedUnit()
	if u == nil {
		return nil, b.reject(fail(CodeNoSelection, "No unit selected.")), true
	}
	if u.Done {
		return nil, b.reject(fail(CodeUnitUnavailable, "%s has finished its turn.", u.Name)), true
	}
	return u, Result{}, false
}

func (b *Battle) reject(r Result) Result {
	b.log.Debug("command rejected", zap.String("code", string(r.Code)), zap.String("reason", r.Message))
	return r
}

func (b *Battle) selectedUnit() *Unit {
	if b.selected == "" {
		return nil
	}
	return b.byID[b.selected]
}

// blockedFor treats obstacles and every living unit other than self as walls.
func (b *Battle) blockedFor(self string) grid.BlockedFunc {
	return func(c grid.Coord) bool {
		if b.board.Impassable(c) {
			return true
		}
		id, taken := b.occupied[c]
		return taken && id != self
	}
}

func (b *Battle) relocate(u *Unit, dest grid.Coord) {
	if b.occupied[u.Pos] == u.ID {
		delete(b.occupied, u.Pos)
	}
	u.Pos = dest
	b.occupied[dest] = u.ID
}

// fire resolves one attack, frees the tile of a downed defender and checks
// for the end of the battle.
func (b *Battle) fire(attacker, defender *Unit) AttackResult {
	cover := b.board.CoverAt(defender.Pos)
	ar := ResolveAttack(attacker, defender, cover, b.rng)
	b.publish(EventAttackResolved, map[string]any{
		"attacker": attacker.ID, "team": attacker.Team.String(), "target": defender.ID,
		"hit": ar.Hit, "damage": ar.Damage, "hit_chance": ar.HitChance,
		"cover": cover.String(), "hp": defender.HP,
	})
	if defender.Downed {
		if b.occupied[defender.Pos] == defender.ID {
			delete(b.occupied, defender.Pos)
		}
		b.publish(EventUnitDowned, map[string]any{"unit": defender.ID, "team": defender.Team.String()})
		b.checkResolution()
	}
	return ar
}

func describeAttack(attacker, defender *Unit, ar AttackResult) string {
	if !ar.Hit {
		return fmt.Sprintf("%s misses %s (%d%%).", attacker.Name, defender.Name, ar.HitChance)
	}
	if defender.Downed {
		return fmt.Sprintf("%s hits %s for %d. %s is down!", attacker.Name, defender.Name, ar.Damage, defender.Name)
	}
	return fmt.Sprintf("%s hits %s for %d (%d%%).", attacker.Name, defender.Name, ar.Damage, ar.HitChance)
}

// finishIfSpent completes a unit that has both moved and acted.
func (b *Battle) finishIfSpent(u *Unit) {
	if b.outcome != OutcomeOngoing || !u.Turn.Moved || !u.Turn.Acted {
		return
	}
	u.Done = true
	b.advanceSelection()
}

// advanceSelection picks the first living, unfinished player unit in squad
// order, or starts the enemy phase when there is none.
func (b *Battle) advanceSelection() {
	if b.outcome != OutcomeOngoing || b.phase != PhasePlayer {
		return
	}
	if u := b.selectedUnit(); u != nil && u.Alive() && !u.Done {
		return
	}
	b.selected = ""
	for _, u := range b.units {
		if u.Team == TeamPlayer && u.Alive() && !u.Done {
			b.selected = u.ID
			b.publish(EventUnitSelected, map[string]any{"unit": u.ID})
			return
		}
	}
	b.enterPhase(PhaseEnemy)
}

func (b *Battle) enterPhase(p Phase) {
	if b.outcome != OutcomeOngoing {
		return
	}
	if b.phase == PhaseEnemy && p == PhasePlayer {
		b.round++
		b.tickStatuses()
	}
	b.phase = p
	team := TeamPlayer
	if p == PhaseEnemy {
		team = TeamEnemy
	}
	b.selected = ""
	b.enemyQueue = b.enemyQueue[:0]
	for _, u := range b.units {
		if u.Team != team || !u.Alive() {
			continue
		}
		u.resetTurn()
		if p == PhaseEnemy {
			b.enemyQueue = append(b.enemyQueue, u.ID)
		}
	}
	b.log.Info("phase changed", zap.String("phase", p.String()), zap.Int("round", b.round))
	b.publish(EventPhaseChanged, map[string]any{"phase": p.String()})
	if p == PhasePlayer {
		b.advanceSelection()
	}
}

func (b *Battle) tickStatuses() {
	for _, u := range b.units {
		for _, id := range u.TickStatuses() {
			b.publish(EventStatusExpired, map[string]any{"unit": u.ID, "status": id})
		}
	}
}

// checkResolution settles the battle once a side has no living unit. Won
// takes precedence and the outcome never changes afterwards.
func (b *Battle) checkResolution() {
	if b.outcome != OutcomeOngoing {
		return
	}
	switch {
	case b.Alive(TeamEnemy) == 0:
		b.outcome = OutcomeWon
	case b.Alive(TeamPlayer) == 0:
		b.outcome = OutcomeLost
	default:
		return
	}
	b.selected = ""
	b.enemyQueue = nil
	b.log.Info("battle resolved", zap.Stringer("outcome", b.outcome), zap.Int("round", b.round))
	b.publish(EventBattleResolved, map[string]any{
		"outcome":       b.outcome.String(),
		"players_alive": b.Alive(TeamPlayer),
		"enemies_alive": b.Alive(TeamEnemy),
	})
}

func (b *Battle) publish(kind string, payload map[string]any) {
	if b.emit == nil {
		return
	}
	b.emit(Event{Round: b.round, Type: kind, Payload: payload})
}
