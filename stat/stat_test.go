package stat_test

import (
	"testing"

	"github.com/trema-go/trema/stat"
)

func TestDumpMergesMetricsAndProbes(t *testing.T) {
	s := stat.Init()
	s.Set("connections", 3)
	s.RegisterProbe("uptime", func() any { return "1h" })

	snap := s.Dump()
	if snap.Values["connections"] != 3 {
		t.Errorf("connections = %v, want 3", snap.Values["connections"])
	}
	if snap.Values["uptime"] != "1h" {
		t.Errorf("uptime = %v, want 1h", snap.Values["uptime"])
	}
}

func TestHistoryIsBoundedAndOrdered(t *testing.T) {
	s := stat.Init()
	// 70 dumps against the default cap of 64: the 6 oldest are evicted.
	for i := 0; i < 70; i++ {
		s.Set("n", i)
		s.Dump()
	}
	hist := s.History()
	if len(hist) != 64 {
		t.Fatalf("history length = %d, want 64", len(hist))
	}
	if hist[0].Values["n"] != 6 {
		t.Errorf("first history entry n = %v, want 6", hist[0].Values["n"])
	}
	if hist[len(hist)-1].Values["n"] != 69 {
		t.Errorf("last history entry n = %v, want 69", hist[len(hist)-1].Values["n"])
	}
}

func TestFinalizeStopsMutation(t *testing.T) {
	s := stat.Init()
	if err := s.Finalize(); err != nil {
		t.Fatal(err)
	}
	s.Set("ignored", true)
	snap := s.Dump()
	if _, ok := snap.Values["ignored"]; ok {
		t.Error("Set after Finalize should be ignored")
	}
}
