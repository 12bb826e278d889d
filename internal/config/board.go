package config

type BoardConfig struct {
	Width     int           `yaml:"width"`
	Height    int           `yaml:"height"`
	Obstacles []ObstacleDef `yaml:"obstacles"`
	Note      string        `yaml:"note"`
}

// ObstacleDef places cover on a cell. Cover is "low" or "high"; anything else
// is treated as low cover by the board builder.
type ObstacleDef struct {
	X     int    `yaml:"x"`
	Y     int    `yaml:"y"`
	Cover string `yaml:"cover"`
}
