package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Encounter bundles everything read once at battle setup.
type Encounter struct {
	Squads    *SquadsConfig
	Board     *BoardConfig
	Abilities *AbilitiesConfig
}

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// LoadAll reads squads.yaml and board.yaml from dir, plus abilities.yaml when
// present. Missing optional values fall back to the built-in defaults.
func LoadAll(dir string) (*Encounter, error) {
	var sc SquadsConfig
	var bc BoardConfig
	var ac AbilitiesConfig
	if err := loadYAML(filepath.Join(dir, "squads.yaml"), &sc); err != nil {
		return nil, fmt.Errorf("load squads: %w", err)
	}
	if err := loadYAML(filepath.Join(dir, "board.yaml"), &bc); err != nil {
		return nil, fmt.Errorf("load board: %w", err)
	}
	if err := loadYAML(filepath.Join(dir, "abilities.yaml"), &ac); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load abilities: %w", err)
	}
	enc := &Encounter{Squads: &sc, Board: &bc, Abilities: &ac}
	enc.ApplyDefaults()
	return enc, nil
}

// ApplyDefaults fills zero-valued settings. Unit stats are defaulted later,
// when units are built, so a class table can still override them.
func (e *Encounter) ApplyDefaults() {
	if e.Squads == nil {
		e.Squads = &SquadsConfig{}
	}
	if e.Board == nil {
		e.Board = &BoardConfig{}
	}
	if e.Abilities == nil {
		e.Abilities = &AbilitiesConfig{}
	}
	if e.Squads.Classes == nil {
		e.Squads.Classes = DefaultClasses()
	}
	if e.Board.Width == 0 {
		e.Board.Width = 8
	}
	if e.Board.Height == 0 {
		e.Board.Height = 6
	}
	if e.Abilities.Suppress.Duration == 0 {
		e.Abilities.Suppress.Duration = DefaultSuppressDuration
	}
	if e.Abilities.Repair.Heal == 0 {
		e.Abilities.Repair.Heal = DefaultRepairHeal
	}
	if e.Abilities.Repair.Charges == 0 {
		e.Abilities.Repair.Charges = DefaultRepairCharges
	}
}

// Default is the stock encounter: a three-unit squad against a raider patrol
// on an 8x6 board with a small cover cluster in the middle.
func Default() *Encounter {
	enc := &Encounter{
		Squads: &SquadsConfig{
			Classes: DefaultClasses(),
			Player: []UnitDef{
				{ID: "scout", Name: "Scout", Class: "scout", HP: 6, Position: PosDef{X: 1, Y: 2}},
				{ID: "soldier", Name: "Soldier", Class: "soldier", HP: 8, Position: PosDef{X: 1, Y: 3}},
				{ID: "tech", Name: "Tech", Class: "tech", HP: 7, Position: PosDef{X: 1, Y: 4}},
			},
			Enemy: []UnitDef{
				{ID: "raider-1", Name: "Raider", Class: "raider", HP: 6, Position: PosDef{X: 6, Y: 2}},
				{ID: "raider-2", Name: "Raider", Class: "raider", HP: 6, Position: PosDef{X: 6, Y: 4}},
				{ID: "marksman", Name: "Marksman", Class: "marksman", HP: 5, Position: PosDef{X: 5, Y: 3}},
			},
		},
		Board: &BoardConfig{
			Width:  8,
			Height: 6,
			Obstacles: []ObstacleDef{
				{X: 3, Y: 2, Cover: "low"},
				{X: 3, Y: 3, Cover: "high"},
				{X: 4, Y: 4, Cover: "low"},
			},
		},
		Abilities: &AbilitiesConfig{},
	}
	enc.ApplyDefaults()
	return enc
}
