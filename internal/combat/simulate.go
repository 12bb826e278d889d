package combat

import (
	"encoding/json"

	"go.uber.org/zap"

	"squadtactics/internal/config"
	"squadtactics/internal/util"
)

// DefaultMaxRounds caps automated battles that neither side can finish.
const DefaultMaxRounds = 50

type SimOptions struct {
	Seed      int64
	MaxRounds int
	Record    bool
	Policy    PlayerPolicy
	Logger    *zap.Logger
}

type SimResult struct {
	Seed         int64          `json:"seed"`
	Outcome      string         `json:"outcome"`
	Win          bool           `json:"win"`
	TimedOut     bool           `json:"timed_out,omitempty"`
	Rounds       int            `json:"rounds"`
	PlayersAlive int            `json:"players_alive"`
	EnemiesAlive int            `json:"enemies_alive"`
	Shots        map[string]int `json:"shots"`
	Hits         map[string]int `json:"hits"`
	DamageByUnit map[string]int `json:"damage_by_unit"`
	Final        Snapshot       `json:"final"`
	Warnings     []string       `json:"warnings,omitempty"`
	Events       []Event        `json:"events,omitempty"`
}

// RunAuto plays enc to the end with opts.Policy on the player side (the
// greedy policy when nil) and the built-in enemy behaviour on the other.
// The same seed and encounter always give the same result.
func RunAuto(enc *config.Encounter, opts SimOptions) SimResult {
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = DefaultMaxRounds
	}
	policy := opts.Policy
	if policy == nil {
		policy = GreedyPolicy{}
	}
	res := SimResult{
		Seed:         opts.Seed,
		Shots:        map[string]int{},
		Hits:         map[string]int{},
		DamageByUnit: map[string]int{},
	}
	emit := func(ev Event) {
		if ev.Type == EventAttackResolved {
			team := teamOf(ev.Payload)
			res.Shots[team]++
			if hit, _ := ev.Payload["hit"].(bool); hit {
				res.Hits[team]++
				attacker, _ := ev.Payload["attacker"].(string)
				dmg, _ := ev.Payload["damage"].(int)
				res.DamageByUnit[attacker] += dmg
			}
		}
		if opts.Record {
			res.Events = append(res.Events, ev)
		}
	}

	b, warnings := NewBattle(Setup{
		Encounter: enc,
		Rng:       util.Seed(opts.Seed).Rand(),
		Emit:      emit,
		Logger:    opts.Logger,
	})
	res.Warnings = warnings

	for b.Outcome() == OutcomeOngoing && b.Round() <= opts.MaxRounds {
		if b.Phase() == PhaseEnemy {
			b.RunEnemyPhase()
			continue
		}
		id, selected := b.Selected()
		if !selected {
			b.EndTurn()
			continue
		}
		policy.Act(b, id)
		if cur, still := b.Selected(); still && cur == id && b.Phase() == PhasePlayer {
			b.EndTurn()
		}
	}

	res.Outcome = b.Outcome().String()
	res.Win = b.Outcome() == OutcomeWon
	res.TimedOut = b.Outcome() == OutcomeOngoing
	res.Rounds = min(b.Round(), opts.MaxRounds)
	res.PlayersAlive = b.Alive(TeamPlayer)
	res.EnemiesAlive = b.Alive(TeamEnemy)
	res.Final = b.Snapshot()
	return res
}

// teamOf reads the attacker's side from an attack payload.
func teamOf(p map[string]any) string {
	if t, ok := p["team"].(string); ok {
		return t
	}
	return "unknown"
}

func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
