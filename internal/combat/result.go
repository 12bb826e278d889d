package combat

import "fmt"

// Code classifies a command outcome for callers that branch on it.
type Code string

const (
	CodeOK                 Code = "ok"
	CodeBattleOver         Code = "battle_over"
	CodeWrongPhase         Code = "wrong_phase"
	CodeNoSelection        Code = "no_selection"
	CodeUnknownUnit        Code = "unknown_unit"
	CodeUnitUnavailable    Code = "unit_unavailable"
	CodeAlreadyMoved       Code = "already_moved"
	CodeUnreachable        Code = "unreachable"
	CodeAlreadyActed       Code = "already_acted"
	CodeInvalidTarget      Code = "invalid_target"
	CodeOutOfRange         Code = "out_of_range"
	CodeUnknownAbility     Code = "unknown_ability"
	CodeAbilityUnavailable Code = "ability_unavailable"
	CodeNoTarget           Code = "no_target"
	CodeAbilityFailed      Code = "ability_failed"
)

// Result is returned by every command. A rejected command has OK false, a
// non-OK Code and a message fit for display; it has changed nothing.
type Result struct {
	OK      bool           `json:"ok"`
	Code    Code           `json:"code"`
	Message string         `json:"message,omitempty"`
	Attack  *AttackResult  `json:"attack,omitempty"`
	Ability *AbilityResult `json:"ability,omitempty"`
	Enemy   *EnemyAction   `json:"enemy,omitempty"`
}

func ok(format string, args ...any) Result {
	return Result{OK: true, Code: CodeOK, Message: fmt.Sprintf(format, args...)}
}

func fail(code Code, format string, args ...any) Result {
	return Result{OK: false, Code: code, Message: fmt.Sprintf(format, args...)}
}
