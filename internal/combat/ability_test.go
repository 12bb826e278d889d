package combat

import (
	"testing"

	"squadtactics/internal/config"
)

func abilityUnit(id string, team Team) *Unit {
	return &Unit{
		ID: id, Name: id, Team: team, HP: 4, MaxHP: 6, MoveRange: 4, Accuracy: 70,
		AbilityState: AbilityState{RepairCharges: 2},
	}
}

func TestDashOncePerTurn(t *testing.T) {
	ab := NewAbilityBook(nil)
	u := abilityUnit("scout", TeamPlayer)
	u.Turn.Moved = true

	res := ab.Resolve(AbilityDash, u, nil)
	if !res.Success || res.ExtraMovement != 4 {
		t.Fatalf("dash: %+v", res)
	}
	if u.Turn.Moved || u.MoveBudget() != 8 {
		t.Fatalf("after dash moved=%v budget=%d", u.Turn.Moved, u.MoveBudget())
	}
	if res := ab.Resolve(AbilityDash, u, nil); res.Success {
		t.Fatalf("second dash succeeded")
	}
	u.resetTurn()
	if res := ab.Resolve(AbilityDash, u, nil); !res.Success {
		t.Fatalf("dash after reset: %s", res.Message)
	}
}

func TestDashConfiguredExtra(t *testing.T) {
	ab := NewAbilityBook(&config.AbilitiesConfig{Dash: config.DashConfig{ExtraMovement: 2}})
	u := abilityUnit("scout", TeamPlayer)
	if res := ab.Resolve(AbilityDash, u, nil); res.ExtraMovement != 2 || u.MoveBudget() != 6 {
		t.Fatalf("got %+v budget %d", res, u.MoveBudget())
	}
}

func TestSuppressRefreshesWithoutStacking(t *testing.T) {
	ab := NewAbilityBook(nil)
	user := abilityUnit("soldier", TeamPlayer)
	foe := abilityUnit("raider", TeamEnemy)

	if res := ab.Resolve(AbilitySuppress, user, foe); !res.Success || res.AccuracyPenalty != -15 {
		t.Fatalf("suppress: %+v", res)
	}
	foe.TickStatuses()
	user.resetTurn()
	if res := ab.Resolve(AbilitySuppress, user, foe); !res.Success {
		t.Fatalf("second suppress: %s", res.Message)
	}
	if len(foe.Statuses) != 1 || foe.Statuses[0].Duration != 2 {
		t.Fatalf("statuses %+v, want one suppressed with duration 2", foe.Statuses)
	}
	if got := HitChance(user, foe, CoverNone); got != 55 {
		t.Fatalf("hit chance %d, want 55", got)
	}
}

func TestSuppressOncePerTurnAndNeedsTarget(t *testing.T) {
	ab := NewAbilityBook(nil)
	user := abilityUnit("soldier", TeamPlayer)
	if res := ab.Resolve(AbilitySuppress, user, nil); res.Success {
		t.Fatal("suppress without target succeeded")
	}
	if user.AbilityState.SuppressUsed {
		t.Fatal("failed suppress consumed the use")
	}
	foe := abilityUnit("raider", TeamEnemy)
	ab.Resolve(AbilitySuppress, user, foe)
	if res := ab.Resolve(AbilitySuppress, user, foe); res.Success {
		t.Fatal("second suppress in one turn succeeded")
	}
}

func TestSuppressUseSurvivesEnemyReset(t *testing.T) {
	u := abilityUnit("raider", TeamEnemy)
	u.AbilityState.SuppressUsed = true
	u.resetTurn()
	if !u.AbilityState.SuppressUsed {
		t.Fatal("enemy reset cleared suppress use")
	}
}

func TestRepairHealsAndSpendsCharges(t *testing.T) {
	ab := NewAbilityBook(nil)
	u := abilityUnit("tech", TeamPlayer)
	u.HP = 5

	res := ab.Resolve(AbilityRepair, u, nil)
	if !res.Success || res.Heal != 2 || res.TargetID != "tech" {
		t.Fatalf("repair: %+v", res)
	}
	if u.HP != 6 {
		t.Fatalf("hp %d, want clamp at 6", u.HP)
	}
	ab.Resolve(AbilityRepair, u, nil)
	if u.AbilityState.RepairCharges != 0 {
		t.Fatalf("charges %d", u.AbilityState.RepairCharges)
	}
	if res := ab.Resolve(AbilityRepair, u, nil); res.Success {
		t.Fatal("repair without charges succeeded")
	}
	u.resetTurn()
	if u.AbilityState.RepairCharges != 0 {
		t.Fatal("turn reset restored repair charges")
	}
}

func TestRepairNeverRevives(t *testing.T) {
	ab := NewAbilityBook(nil)
	u := abilityUnit("tech", TeamPlayer)
	ally := abilityUnit("scout", TeamPlayer)
	ally.HP, ally.Downed = 0, true

	if res := ab.Resolve(AbilityRepair, u, ally); res.Success {
		t.Fatal("repaired a downed unit")
	}
	if ally.HP != 0 || !ally.Downed || u.AbilityState.RepairCharges != 2 {
		t.Fatalf("ally hp=%d downed=%v charges=%d", ally.HP, ally.Downed, u.AbilityState.RepairCharges)
	}
}

func TestResolveUnknownKind(t *testing.T) {
	ab := NewAbilityBook(nil)
	res := ab.Resolve(AbilityKind(42), abilityUnit("x", TeamPlayer), nil)
	if res.Success || res.Message != "Ability ability(42) not implemented." {
		t.Fatalf("got %+v", res)
	}
}

func TestRegisterOverridesHandler(t *testing.T) {
	ab := NewAbilityBook(nil)
	ab.Register(AbilityDash, AbilityFunc(func(user, _ *Unit) AbilityResult {
		return AbilityResult{Success: true, Kind: "dash", Message: "custom"}
	}))
	if res := ab.Resolve(AbilityDash, abilityUnit("x", TeamPlayer), nil); res.Message != "custom" {
		t.Fatalf("got %+v", res)
	}
}

func TestParseAbility(t *testing.T) {
	for _, name := range []string{"dash", " Suppress ", "REPAIR"} {
		if _, ok := ParseAbility(name); !ok {
			t.Errorf("%q not parsed", name)
		}
	}
	if _, ok := ParseAbility("teleport"); ok {
		t.Error("teleport parsed")
	}
}

func TestStatusTickExpires(t *testing.T) {
	u := abilityUnit("x", TeamEnemy)
	u.ApplyStatus(Status{ID: StatusSuppressed, Duration: 2})
	if got := u.TickStatuses(); len(got) != 0 || !u.HasStatus(StatusSuppressed) {
		t.Fatalf("first tick expired %v", got)
	}
	got := u.TickStatuses()
	if len(got) != 1 || got[0] != StatusSuppressed || u.HasStatus(StatusSuppressed) {
		t.Fatalf("second tick expired %v, statuses %+v", got, u.Statuses)
	}
}

func TestApplyStatusIgnoresEmpty(t *testing.T) {
	u := abilityUnit("x", TeamEnemy)
	u.ApplyStatus(Status{ID: "", Duration: 2})
	u.ApplyStatus(Status{ID: StatusSuppressed, Duration: 0})
	if len(u.Statuses) != 0 {
		t.Fatalf("statuses %+v", u.Statuses)
	}
}
