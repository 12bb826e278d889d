package combat

import "strings"

type Team int

const (
	TeamPlayer Team = iota
	TeamEnemy
)

func (t Team) String() string {
	switch t {
	case TeamPlayer:
		return "player"
	case TeamEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

type Phase int

const (
	PhasePlayer Phase = iota
	PhaseEnemy
)

func (p Phase) String() string {
	if p == PhaseEnemy {
		return "enemy"
	}
	return "player"
}

// Cover is the terrain class of a board cell.
type Cover int

const (
	CoverNone Cover = iota
	CoverLow
	CoverHigh
)

func (c Cover) String() string {
	switch c {
	case CoverLow:
		return "low"
	case CoverHigh:
		return "high"
	default:
		return "none"
	}
}

// ParseCover maps config strings to cover classes. Empty means no cover.
func ParseCover(s string) (Cover, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CoverNone, true
	case "low":
		return CoverLow, true
	case "high":
		return CoverHigh, true
	default:
		return CoverNone, false
	}
}

// Outcome is the battle-level result reported to the scene layer.
type Outcome int

const (
	OutcomeOngoing Outcome = iota
	OutcomeWon
	OutcomeLost
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	default:
		return "ongoing"
	}
}

// Rand is the random source consumed by attack and damage rolls.
// *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}
