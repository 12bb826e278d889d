package config

type AbilitiesConfig struct {
	Dash     DashConfig     `yaml:"dash"`
	Suppress SuppressConfig `yaml:"suppress"`
	Repair   RepairConfig   `yaml:"repair"`
}

// DashConfig.ExtraMovement of zero grants the unit's own move range.
type DashConfig struct {
	ExtraMovement int    `yaml:"extra_movement"`
	Note          string `yaml:"note"`
}

type SuppressConfig struct {
	Duration int    `yaml:"duration"`
	Note     string `yaml:"note"`
}

type RepairConfig struct {
	Heal    int    `yaml:"heal"`
	Charges int    `yaml:"charges"`
	Note    string `yaml:"note"`
}

const (
	DefaultSuppressDuration = 2
	DefaultRepairHeal       = 2
	DefaultRepairCharges    = 2
)
