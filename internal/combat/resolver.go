package combat

const (
	minHitChance      = 5
	maxHitChance      = 95
	suppressedPenalty = -15
)

// AttackResult is the outcome of a single shot. Damage has already been
// applied to the defender when it is returned.
type AttackResult struct {
	Hit       bool `json:"hit"`
	Damage    int  `json:"damage"`
	HitChance int  `json:"hit_chance"`
}

// CoverModifier is the to-hit adjustment for shooting at a unit in cover.
func CoverModifier(c Cover) int {
	switch c {
	case CoverLow:
		return -10
	case CoverHigh:
		return -25
	default:
		return 0
	}
}

// HitChance is the percentage chance attacker hits defender standing in
// cover. It is always within [5, 95].
func HitChance(attacker, defender *Unit, cover Cover) int {
	chance := attacker.Accuracy + CoverModifier(cover) + defender.statusDefense()
	if defender.HasStatus(StatusSuppressed) {
		chance += suppressedPenalty
	}
	return min(maxHitChance, max(minHitChance, chance))
}

// ResolveAttack rolls one shot. On a hit the damage roll is subtracted from
// the defender's HP (floored at zero) and a defender brought to zero is marked
// downed. A miss changes nothing.
func ResolveAttack(attacker, defender *Unit, cover Cover, rng Rand) AttackResult {
	chance := HitChance(attacker, defender, cover)
	roll := rng.Float64() * 100
	if roll > float64(chance) {
		return AttackResult{Hit: false, Damage: 0, HitChance: chance}
	}
	dmg := RollDamage(attacker.DamageMin, attacker.DamageMax, rng)
	defender.HP = max(0, defender.HP-dmg)
	if defender.HP == 0 {
		defender.Downed = true
	}
	return AttackResult{Hit: true, Damage: dmg, HitChance: chance}
}

// RollDamage draws uniformly from [lo, hi].
func RollDamage(lo, hi int, rng Rand) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}
