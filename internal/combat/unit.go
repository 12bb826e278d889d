package combat

import (
	"errors"
	"fmt"

	"squadtactics/internal/config"
	"squadtactics/internal/grid"
)

// TurnState is the per-phase action record. It is reset when the unit's own
// team enters its phase.
type TurnState struct {
	Moved         bool `json:"moved"`
	Acted         bool `json:"acted"`
	ExtraMovement int  `json:"extra_movement"`
	Travelled     int  `json:"travelled"`
}

type AbilityState struct {
	DashUsed      bool `json:"dash_used"`
	SuppressUsed  bool `json:"suppress_used"`
	RepairCharges int  `json:"repair_charges"`
}

type Unit struct {
	ID    string
	Name  string
	Team  Team
	Class string

	HP    int
	MaxHP int

	MoveRange   int
	AttackRange int
	Accuracy    int
	DamageMin   int
	DamageMax   int
	Abilities   []AbilityKind

	Pos grid.Coord

	Turn         TurnState
	AbilityState AbilityState
	Statuses     []Status

	// Done is the single "finished for this phase" flag used for selection.
	Done   bool
	Downed bool
}

// Alive reports whether the unit still takes part in the battle. Downed is
// terminal even if HP were later raised.
func (u *Unit) Alive() bool { return u.HP > 0 && !u.Downed }

func (u *Unit) HasAbility(k AbilityKind) bool {
	for _, a := range u.Abilities {
		if a == k {
			return true
		}
	}
	return false
}

// MoveBudget is how many tiles the unit may still cover with its next move.
func (u *Unit) MoveBudget() int {
	if u.Turn.Moved {
		return 0
	}
	return max(0, u.MoveRange+u.Turn.ExtraMovement-u.Turn.Travelled)
}

func (u *Unit) resetTurn() {
	u.Turn = TurnState{}
	u.Done = false
	u.AbilityState.DashUsed = false
	if u.Team == TeamPlayer {
		u.AbilityState.SuppressUsed = false
	}
}

var (
	errNoID       = errors.New("unit has no id")
	errNoHP       = errors.New("unit hp must be positive")
	errDamageSpan = errors.New("unit damage range is invalid")
)

// NewUnit builds a unit from its definition, filling zero fields from the
// class table and then the global fallbacks. Ability names that do not map
// to a known ability are dropped and reported in the returned notes.
func NewUnit(def config.UnitDef, team Team, classes map[string]config.ClassDef, repairCharges int) (*Unit, []string, error) {
	if def.ID == "" {
		return nil, nil, errNoID
	}
	if def.HP <= 0 {
		return nil, nil, fmt.Errorf("%s: %w", def.ID, errNoHP)
	}
	cls := classes[def.Class]

	u := &Unit{
		ID:          def.ID,
		Name:        def.Name,
		Team:        team,
		Class:       def.Class,
		HP:          def.HP,
		MaxHP:       firstPositive(def.MaxHP, def.HP),
		MoveRange:   firstPositive(def.MoveRange, cls.MoveRange, config.DefaultMoveRange),
		AttackRange: firstPositive(def.AttackRange, cls.AttackRange, config.DefaultAttackRange),
		Accuracy:    firstSet(def.Accuracy, cls.Accuracy, config.DefaultAccuracy),
		DamageMin:   config.DefaultDamageMin,
		DamageMax:   config.DefaultDamageMax,
		Pos:         grid.Coord{X: def.Position.X, Y: def.Position.Y},
		AbilityState: AbilityState{
			RepairCharges: repairCharges,
		},
	}
	if u.Name == "" {
		u.Name = u.ID
	}
	if u.HP > u.MaxHP {
		u.HP = u.MaxHP
	}
	u.Accuracy = min(100, max(0, u.Accuracy))

	dmg := def.Damage
	if len(dmg) == 0 {
		dmg = cls.Damage
	}
	if len(dmg) > 0 {
		if len(dmg) != 2 || dmg[0] < 0 || dmg[0] > dmg[1] {
			return nil, nil, fmt.Errorf("%s: %w: %v", def.ID, errDamageSpan, dmg)
		}
		u.DamageMin, u.DamageMax = dmg[0], dmg[1]
	}

	names := def.Abilities
	if len(names) == 0 {
		names = cls.Abilities
	}
	var notes []string
	for _, name := range names {
		k, ok := ParseAbility(name)
		if !ok {
			notes = append(notes, fmt.Sprintf("%s: unknown ability %q ignored", def.ID, name))
			continue
		}
		if !u.HasAbility(k) {
			u.Abilities = append(u.Abilities, k)
		}
	}
	return u, notes, nil
}

func firstSet(def, class *int, fallback int) int {
	switch {
	case def != nil:
		return *def
	case class != nil:
		return *class
	}
	return fallback
}

func firstPositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}

// UnitView is a read-only copy of a unit for the presentation layer.
type UnitView struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Team         string       `json:"team"`
	Class        string       `json:"class"`
	Pos          grid.Coord   `json:"pos"`
	HP           int          `json:"hp"`
	MaxHP        int          `json:"max_hp"`
	MoveRange    int          `json:"move_range"`
	AttackRange  int          `json:"attack_range"`
	Accuracy     int          `json:"accuracy"`
	DamageMin    int          `json:"damage_min"`
	DamageMax    int          `json:"damage_max"`
	Alive        bool         `json:"alive"`
	Downed       bool         `json:"downed"`
	Done         bool         `json:"done"`
	Turn         TurnState    `json:"turn"`
	AbilityState AbilityState `json:"ability_state"`
	Abilities    []string     `json:"abilities"`
	Statuses     []Status     `json:"statuses"`
}

func (u *Unit) View() UnitView {
	v := UnitView{
		ID: u.ID, Name: u.Name, Team: u.Team.String(), Class: u.Class,
		Pos: u.Pos, HP: u.HP, MaxHP: u.MaxHP,
		MoveRange: u.MoveRange, AttackRange: u.AttackRange, Accuracy: u.Accuracy,
		DamageMin: u.DamageMin, DamageMax: u.DamageMax,
		Alive: u.Alive(), Downed: u.Downed, Done: u.Done,
		Turn: u.Turn, AbilityState: u.AbilityState,
		Statuses: append([]Status(nil), u.Statuses...),
	}
	for _, a := range u.Abilities {
		v.Abilities = append(v.Abilities, a.String())
	}
	return v
}
