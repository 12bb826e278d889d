package combat

import (
	"testing"

	"squadtactics/internal/util"
)

func shooter(acc int) *Unit {
	return &Unit{ID: "a", Name: "a", HP: 6, MaxHP: 6, Accuracy: acc, DamageMin: 2, DamageMax: 5}
}

func target(hp int) *Unit {
	return &Unit{ID: "d", Name: "d", HP: hp, MaxHP: 6}
}

func TestHitChanceCover(t *testing.T) {
	cases := []struct {
		cover Cover
		want  int
	}{
		{CoverNone, 70},
		{CoverLow, 60},
		{CoverHigh, 45},
	}
	for _, tc := range cases {
		if got := HitChance(shooter(70), target(6), tc.cover); got != tc.want {
			t.Errorf("cover %s: got %d want %d", tc.cover, got, tc.want)
		}
	}
}

func TestHitChanceSuppressedAndDefenseMods(t *testing.T) {
	d := target(6)
	d.ApplyStatus(Status{ID: StatusSuppressed, Duration: 2})
	if got := HitChance(shooter(70), d, CoverNone); got != 55 {
		t.Fatalf("suppressed: got %d want 55", got)
	}
	d.ApplyStatus(Status{ID: "braced", Duration: 1, DefenseMod: -5})
	if got := HitChance(shooter(70), d, CoverLow); got != 40 {
		t.Fatalf("suppressed+braced+low: got %d want 40", got)
	}
}

func TestHitChanceClamped(t *testing.T) {
	for acc := 0; acc <= 200; acc += 5 {
		for _, c := range []Cover{CoverNone, CoverLow, CoverHigh} {
			for mod := -60; mod <= 60; mod += 20 {
				d := target(6)
				d.ApplyStatus(Status{ID: "mod", Duration: 1, DefenseMod: mod})
				if acc%2 == 0 {
					d.ApplyStatus(Status{ID: StatusSuppressed, Duration: 2})
				}
				got := HitChance(shooter(acc), d, c)
				if got < 5 || got > 95 {
					t.Fatalf("acc=%d cover=%s mod=%d: chance %d out of [5,95]", acc, c, mod, got)
				}
			}
		}
	}
}

func TestResolveAttackHitBoundary(t *testing.T) {
	// A roll equal to the chance still hits.
	d := target(6)
	res := ResolveAttack(shooter(50), d, CoverNone, fixedRand{roll: 0.5, pick: 1})
	if !res.Hit || res.Damage != 3 || d.HP != 3 {
		t.Fatalf("got %+v hp=%d", res, d.HP)
	}
}

func TestResolveAttackMissLeavesHP(t *testing.T) {
	d := target(6)
	res := ResolveAttack(shooter(70), d, CoverHigh, fixedRand{roll: 0.46})
	if res.Hit || res.Damage != 0 || d.HP != 6 || res.HitChance != 45 {
		t.Fatalf("got %+v hp=%d", res, d.HP)
	}
}

func TestResolveAttackFloorsAndDowns(t *testing.T) {
	d := target(2)
	res := ResolveAttack(shooter(70), d, CoverNone, fixedRand{roll: 0, pick: 3})
	if !res.Hit || d.HP != 0 || !d.Downed || d.Alive() {
		t.Fatalf("got %+v hp=%d downed=%v", res, d.HP, d.Downed)
	}
}

func TestDamageWithinRange(t *testing.T) {
	rng := util.Seed(99).Rand()
	for i := 0; i < 500; i++ {
		d := target(100)
		d.MaxHP = 100
		res := ResolveAttack(shooter(95), d, CoverNone, rng)
		if !res.Hit {
			if d.HP != 100 {
				t.Fatalf("miss changed hp to %d", d.HP)
			}
			continue
		}
		if res.Damage < 2 || res.Damage > 5 {
			t.Fatalf("damage %d outside [2,5]", res.Damage)
		}
		if d.HP != 100-res.Damage {
			t.Fatalf("hp %d after %d damage", d.HP, res.Damage)
		}
	}
}

func TestRollDamageDegenerateRange(t *testing.T) {
	if got := RollDamage(4, 4, alwaysHit); got != 4 {
		t.Fatalf("got %d", got)
	}
}
