package pathresolver_test

import (
	"reflect"
	"testing"

	"github.com/trema-go/trema/pathresolver"
	"github.com/trema-go/trema/topology"
)

func TestResolveSingleSwitch(t *testing.T) {
	// S3
	snap := topology.Snapshot{Switches: []topology.Switch{{DPID: 1}}}
	got := pathresolver.Resolve(snap, 1, 10, 1, 20)
	want := pathresolver.Path{{DPID: 1, InPort: 10, OutPort: 20}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestResolveTwoHop(t *testing.T) {
	// S4
	snap := topology.Snapshot{
		Switches: []topology.Switch{{DPID: 1}, {DPID: 2}, {DPID: 3}},
		Links: []topology.Link{
			{FromDPID: 1, FromPort: 2, ToDPID: 2, ToPort: 1, Up: true},
			{FromDPID: 2, FromPort: 1, ToDPID: 1, ToPort: 2, Up: true},
			{FromDPID: 2, FromPort: 2, ToDPID: 3, ToPort: 1, Up: true},
			{FromDPID: 3, FromPort: 1, ToDPID: 2, ToPort: 2, Up: true},
		},
	}
	got := pathresolver.Resolve(snap, 1, 100, 3, 200)
	want := pathresolver.Path{
		{DPID: 1, InPort: 100, OutPort: 2},
		{DPID: 2, InPort: 1, OutPort: 2},
		{DPID: 3, InPort: 1, OutPort: 200},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestResolveNoRoute(t *testing.T) {
	// S5
	snap := topology.Snapshot{Switches: []topology.Switch{{DPID: 1}, {DPID: 2}}}
	got := pathresolver.Resolve(snap, 1, 10, 2, 20)
	if len(got) != 0 {
		t.Errorf("got %+v, want empty path", got)
	}
}

func TestResolvePathCallbackInvokedOnce(t *testing.T) {
	snap := topology.Snapshot{Switches: []topology.Switch{{DPID: 1}}}
	r := pathresolver.New(topology.NewStaticProvider(snap))

	calls := 0
	var result pathresolver.Path
	var gotUserData any
	r.ResolvePath(1, 10, 1, 20, "ctx", func(p pathresolver.Path, userData any) {
		calls++
		result = p
		gotUserData = userData
	})
	if calls != 1 {
		t.Fatalf("callback invoked %d times, want 1", calls)
	}
	if gotUserData != "ctx" {
		t.Errorf("userData = %v, want ctx", gotUserData)
	}
	if len(result) != 1 || result[0].DPID != 1 {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestResolveNoSwitchRepeatsAndEndpointsMatch(t *testing.T) {
	// Property 5, over a small diamond topology with two equal-cost routes.
	snap := topology.Snapshot{
		Switches: []topology.Switch{{DPID: 1}, {DPID: 2}, {DPID: 3}, {DPID: 4}},
		Links: []topology.Link{
			{FromDPID: 1, FromPort: 1, ToDPID: 2, ToPort: 1, Up: true},
			{FromDPID: 2, FromPort: 2, ToDPID: 4, ToPort: 1, Up: true},
			{FromDPID: 1, FromPort: 2, ToDPID: 3, ToPort: 1, Up: true},
			{FromDPID: 3, FromPort: 2, ToDPID: 4, ToPort: 2, Up: true},
		},
	}
	got := pathresolver.Resolve(snap, 1, 10, 4, 20)
	if len(got) != 3 {
		t.Fatalf("expected 3 hops, got %+v", got)
	}
	seen := map[topology.DPID]bool{}
	for _, hop := range got {
		if seen[hop.DPID] {
			t.Fatalf("switch %d repeated in path %+v", hop.DPID, got)
		}
		seen[hop.DPID] = true
	}
	if got[0].DPID != 1 || got[0].InPort != 10 {
		t.Errorf("first hop = %+v", got[0])
	}
	last := got[len(got)-1]
	if last.DPID != 4 || last.OutPort != 20 {
		t.Errorf("last hop = %+v", last)
	}
	// Deterministic tie-break: switch 2 sorts before switch 3.
	if got[1].DPID != 2 {
		t.Errorf("expected tie-break to choose switch 2, got %+v", got[1])
	}
}

func TestResolveIgnoresDownLinks(t *testing.T) {
	snap := topology.Snapshot{
		Switches: []topology.Switch{{DPID: 1}, {DPID: 2}},
		Links: []topology.Link{
			{FromDPID: 1, FromPort: 1, ToDPID: 2, ToPort: 1, Up: false},
		},
	}
	got := pathresolver.Resolve(snap, 1, 10, 2, 20)
	if len(got) != 0 {
		t.Errorf("got %+v, want no route over a down link", got)
	}
}
