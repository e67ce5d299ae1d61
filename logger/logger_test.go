package logger_test

import (
	"testing"

	"github.com/trema-go/trema/logger"
)

func TestInitStartedAndIdent(t *testing.T) {
	l := logger.New()
	if l.Started() {
		t.Fatal("new logger should not be started")
	}
	if err := l.Init("test-app", false); err != nil {
		t.Fatal(err)
	}
	if !l.Started() {
		t.Error("Init should mark the logger started")
	}
	if l.Ident() != "test-app" {
		t.Errorf("ident = %q, want test-app", l.Ident())
	}
}

func TestSetLevelRejectsUnknown(t *testing.T) {
	l := logger.New()
	_ = l.Init("test-app", false)
	if err := l.SetLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
	if err := l.SetLevel(logger.LevelDebug); err != nil {
		t.Errorf("SetLevel(debug) failed: %v", err)
	}
}

func TestEmitFunctionsDoNotPanicBeforeInit(t *testing.T) {
	l := logger.New()
	l.Info("never initialised: %d", 1)
	l.Critical("still fine")
}
