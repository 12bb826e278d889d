package config

// SquadsConfig is the roster for one encounter. Units keep the order they are
// listed in; that order drives selection and enemy activation.
type SquadsConfig struct {
	Classes map[string]ClassDef `yaml:"classes"`
	Player  []UnitDef           `yaml:"player"`
	Enemy   []UnitDef           `yaml:"enemy"`
}

// ClassDef holds per-class defaults applied to any unit field left at zero.
type ClassDef struct {
	MoveRange   int      `yaml:"move_range"`
	AttackRange int      `yaml:"attack_range"`
	Accuracy    *int     `yaml:"accuracy"`
	Damage      []int    `yaml:"damage"`
	Abilities   []string `yaml:"abilities"`
	Note        string   `yaml:"note"`
}

type UnitDef struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Class       string   `yaml:"class"`
	HP          int      `yaml:"hp"`
	MaxHP       int      `yaml:"max_hp"`
	MoveRange   int      `yaml:"move_range"`
	AttackRange int      `yaml:"attack_range"`
	Accuracy    *int     `yaml:"accuracy"`
	Damage      []int    `yaml:"damage"`
	Abilities   []string `yaml:"abilities"`
	Position    PosDef   `yaml:"position"`
}

type PosDef struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Fallback stats for units whose class is unknown or leaves a field unset.
const (
	DefaultMoveRange   = 4
	DefaultAttackRange = 3
	DefaultAccuracy    = 70
	DefaultDamageMin   = 1
	DefaultDamageMax   = 6
)

// Percent returns a pointer for the optional accuracy fields. A nil accuracy
// falls back to the class, then to DefaultAccuracy; an explicit 0 is kept.
func Percent(v int) *int { return &v }

// DefaultClasses mirrors the classes of the stock encounter.
func DefaultClasses() map[string]ClassDef {
	return map[string]ClassDef{
		"scout":    {MoveRange: 5, AttackRange: 3, Accuracy: Percent(75), Damage: []int{1, 6}, Abilities: []string{"dash"}},
		"soldier":  {MoveRange: 4, AttackRange: 4, Accuracy: Percent(70), Damage: []int{1, 8}, Abilities: []string{"suppress"}},
		"tech":     {MoveRange: 4, AttackRange: 3, Accuracy: Percent(65), Damage: []int{1, 6}, Abilities: []string{"repair"}},
		"raider":   {MoveRange: 4, AttackRange: 1, Accuracy: Percent(70), Damage: []int{1, 6}},
		"marksman": {MoveRange: 3, AttackRange: 5, Accuracy: Percent(75), Damage: []int{1, 6}},
	}
}
