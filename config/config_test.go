package config_test

import (
	"testing"

	"github.com/trema-go/trema/config"
)

func TestSetAndSnapshot(t *testing.T) {
	s := config.NewStore()
	s.Set(map[string]any{"name": "svc", "daemon": true})

	snap := s.Snapshot()
	if snap["name"] != "svc" || snap["daemon"] != true {
		t.Errorf("snapshot = %v, want name=svc daemon=true", snap)
	}
}

func TestOnReloadFiresOnSet(t *testing.T) {
	s := config.NewStore()
	var fired int
	s.OnReload(func() { fired++ })

	s.Set(map[string]any{"a": 1})
	s.Set(map[string]any{"b": 2})

	if fired != 2 {
		t.Errorf("fired = %d, want 2", fired)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := config.NewStore()
	s.Set(map[string]any{"k": "v"})
	snap := s.Snapshot()
	snap["k"] = "mutated"

	if s.Snapshot()["k"] != "v" {
		t.Error("mutating a snapshot should not affect the store")
	}
}
