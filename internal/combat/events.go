package combat

// Event is what the presentation layer subscribes to. It never feeds back
// into the simulation.
type Event struct {
	Round   int            `json:"round"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

const (
	EventPhaseChanged   = "phase_changed"
	EventUnitSelected   = "unit_selected"
	EventUnitMoved      = "unit_moved"
	EventAttackResolved = "attack_resolved"
	EventUnitDowned     = "unit_downed"
	EventAbilityUsed    = "ability_used"
	EventStatusApplied  = "status_applied"
	EventStatusExpired  = "status_expired"
	EventEnemyStalled   = "enemy_stalled"
	EventBattleResolved = "battle_resolved"
)
