package combat

import (
	"fmt"
	"strings"

	"squadtactics/internal/config"
)

// AbilityKind is the closed set of special actions.
type AbilityKind int

const (
	AbilityDash AbilityKind = iota + 1
	AbilitySuppress
	AbilityRepair
)

func (k AbilityKind) String() string {
	switch k {
	case AbilityDash:
		return "dash"
	case AbilitySuppress:
		return "suppress"
	case AbilityRepair:
		return "repair"
	default:
		return fmt.Sprintf("ability(%d)", int(k))
	}
}

func ParseAbility(s string) (AbilityKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dash":
		return AbilityDash, true
	case "suppress":
		return AbilitySuppress, true
	case "repair":
		return AbilityRepair, true
	default:
		return 0, false
	}
}

// AbilityResult reports what an ability did. Only the payload field matching
// Kind is meaningful.
type AbilityResult struct {
	Success         bool   `json:"success"`
	Kind            string `json:"kind"`
	Message         string `json:"message"`
	TargetID        string `json:"target_id,omitempty"`
	ExtraMovement   int    `json:"extra_movement,omitempty"`
	AccuracyPenalty int    `json:"accuracy_penalty,omitempty"`
	Heal            int    `json:"heal,omitempty"`
}

func abilityFailure(k AbilityKind, format string, args ...any) AbilityResult {
	return AbilityResult{Success: false, Kind: k.String(), Message: fmt.Sprintf(format, args...)}
}

// AbilityHandler applies one ability, enforcing its own usage limit. The
// controller has already checked phase, turn state and target legality.
type AbilityHandler interface {
	Use(user, target *Unit) AbilityResult
}

type AbilityFunc func(user, target *Unit) AbilityResult

func (f AbilityFunc) Use(user, target *Unit) AbilityResult { return f(user, target) }

// AbilityBook maps each ability kind to its handler.
type AbilityBook struct {
	handlers map[AbilityKind]AbilityHandler
	cfg      config.AbilitiesConfig
}

// NewAbilityBook registers the stock handlers tuned by cfg. A nil cfg uses
// the built-in defaults.
func NewAbilityBook(cfg *config.AbilitiesConfig) *AbilityBook {
	ab := &AbilityBook{handlers: map[AbilityKind]AbilityHandler{}}
	if cfg != nil {
		ab.cfg = *cfg
	}
	if ab.cfg.Suppress.Duration <= 0 {
		ab.cfg.Suppress.Duration = config.DefaultSuppressDuration
	}
	if ab.cfg.Repair.Heal <= 0 {
		ab.cfg.Repair.Heal = config.DefaultRepairHeal
	}
	if ab.cfg.Repair.Charges <= 0 {
		ab.cfg.Repair.Charges = config.DefaultRepairCharges
	}
	ab.Register(AbilityDash, AbilityFunc(ab.dash))
	ab.Register(AbilitySuppress, AbilityFunc(ab.suppress))
	ab.Register(AbilityRepair, AbilityFunc(ab.repair))
	return ab
}

// Register installs or replaces the handler for k.
func (ab *AbilityBook) Register(k AbilityKind, h AbilityHandler) {
	ab.handlers[k] = h
}

// RepairCharges is the per-battle pool every unit starts with.
func (ab *AbilityBook) RepairCharges() int { return ab.cfg.Repair.Charges }

// Resolve dispatches k. Kinds outside the closed set, or without a handler,
// fail without touching any unit.
func (ab *AbilityBook) Resolve(k AbilityKind, user, target *Unit) AbilityResult {
	switch k {
	case AbilityDash, AbilitySuppress, AbilityRepair:
	default:
		return abilityFailure(k, "Ability %s not implemented.", k)
	}
	h := ab.handlers[k]
	if h == nil {
		return abilityFailure(k, "Ability %s not implemented.", k)
	}
	return h.Use(user, target)
}

func (ab *AbilityBook) dash(user, _ *Unit) AbilityResult {
	if user.AbilityState.DashUsed {
		return abilityFailure(AbilityDash, "Dash already used.")
	}
	extra := ab.cfg.Dash.ExtraMovement
	if extra <= 0 {
		extra = user.MoveRange
	}
	user.AbilityState.DashUsed = true
	user.Turn.ExtraMovement += extra
	user.Turn.Moved = false
	return AbilityResult{
		Success:       true,
		Kind:          AbilityDash.String(),
		Message:       fmt.Sprintf("%s can move again.", user.Name),
		TargetID:      user.ID,
		ExtraMovement: extra,
	}
}

func (ab *AbilityBook) suppress(user, target *Unit) AbilityResult {
	if user.AbilityState.SuppressUsed {
		return abilityFailure(AbilitySuppress, "Suppress already used this turn.")
	}
	if target == nil {
		return abilityFailure(AbilitySuppress, "No target for suppress.")
	}
	user.AbilityState.SuppressUsed = true
	target.ApplyStatus(Status{ID: StatusSuppressed, Duration: ab.cfg.Suppress.Duration})
	return AbilityResult{
		Success:         true,
		Kind:            AbilitySuppress.String(),
		Message:         fmt.Sprintf("%s is suppressed and loses accuracy.", target.Name),
		TargetID:        target.ID,
		AccuracyPenalty: suppressedPenalty,
	}
}

// repair heals the target (the user when nil). A downed unit stays down: it
// is refused outright and no charge is spent.
func (ab *AbilityBook) repair(user, target *Unit) AbilityResult {
	if target == nil {
		target = user
	}
	if user.AbilityState.RepairCharges <= 0 {
		return abilityFailure(AbilityRepair, "No repair charges left.")
	}
	if target.Downed {
		return abilityFailure(AbilityRepair, "%s is down and cannot be repaired.", target.Name)
	}
	heal := ab.cfg.Repair.Heal
	user.AbilityState.RepairCharges--
	target.HP = min(target.MaxHP, max(0, target.HP+heal))
	return AbilityResult{
		Success:  true,
		Kind:     AbilityRepair.String(),
		Message:  fmt.Sprintf("%s repairs %s for %d HP.", user.Name, target.Name, heal),
		TargetID: target.ID,
		Heal:     heal,
	}
}
