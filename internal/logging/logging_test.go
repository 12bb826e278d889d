package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Levels(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		log, err := New(lvl, true)
		if err != nil {
			t.Fatalf("New(%q): %v", lvl, err)
		}
		_ = log.Sync()
	}
	if _, err := New("loud", false); err == nil {
		t.Fatal("unknown level should be rejected")
	}
}

func TestWarnings(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	Warnings(zap.New(core), []string{"obstacle (9,9) outside board", "unit x skipped"})
	if logs.Len() != 2 {
		t.Fatalf("expected 2 warnings, got %d", logs.Len())
	}
	if got := logs.All()[0].ContextMap()["warning"]; got != "obstacle (9,9) outside board" {
		t.Errorf("warning field = %v", got)
	}
}
