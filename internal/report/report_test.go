package report

import (
	"bytes"
	"errors"
	"testing"

	"squadtactics/internal/combat"
	"squadtactics/internal/config"
)

func TestGenerate_Nil(t *testing.T) {
	b, err := Generate(nil, "x")
	if !errors.Is(err, errNilResult) {
		t.Fatalf("expected errNilResult, got %v", err)
	}
	if b != nil {
		t.Error("expected nil PDF for nil result")
	}
}

func TestGenerate_FinishedBattle(t *testing.T) {
	res := combat.RunAuto(config.Default(), combat.SimOptions{Seed: 11, Record: true})
	b, err := Generate(&res, "Seed 11")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(b) < 500 {
		t.Errorf("PDF too short: %d bytes", len(b))
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Error("output is not a PDF (missing %PDF header)")
	}
}

func TestGenerate_WarningsAndEmptyBoard(t *testing.T) {
	res := &combat.SimResult{Outcome: "ongoing", TimedOut: true, Warnings: []string{"obstacle (9,9) outside 8x6 board, skipped"}}
	b, err := Generate(res, "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Error("output is not a PDF (missing %PDF header)")
	}
}

func TestCellSizeCapped(t *testing.T) {
	if got := cellSize(2, 2); got != maxCell {
		t.Errorf("small board cell %.1f, want %.1f", got, maxCell)
	}
	if got := cellSize(40, 10); got >= maxCell {
		t.Errorf("wide board cell %.1f not shrunk", got)
	}
}

func TestEventLine(t *testing.T) {
	ev := combat.Event{Round: 2, Type: combat.EventAttackResolved, Payload: map[string]any{
		"attacker": "scout", "target": "raider-1", "hit": true, "damage": 4, "hit_chance": 60,
	}}
	if got, want := eventLine(ev), "R2   scout hits raider-1 for 4 (60%)"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if got := eventLine(combat.Event{Round: 1, Type: "custom"}); got != "R1   custom" {
		t.Errorf("got %q", got)
	}
}
