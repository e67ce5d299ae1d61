package lifecycle

import (
	"reflect"
	"testing"
)

func TestParseOptionsS6(t *testing.T) {
	argv := []string{"app", "HELLO", "-d", "-n", "svc", "-u"}
	opts, rest := parseOptions(argv)

	wantRest := []string{"app", "HELLO", "-u"}
	if !reflect.DeepEqual(rest, wantRest) {
		t.Errorf("rest = %v, want %v", rest, wantRest)
	}
	if len(rest) != 3 {
		t.Errorf("argc = %d, want 3", len(rest))
	}
	if opts.Name != "svc" {
		t.Errorf("Name = %q, want svc", opts.Name)
	}
	if !opts.Daemonize {
		t.Error("Daemonize = false, want true")
	}
}

func TestParseOptionsEqualsForm(t *testing.T) {
	argv := []string{"app", "--name=svc2", "--logging_level=debug"}
	opts, rest := parseOptions(argv)

	if opts.Name != "svc2" {
		t.Errorf("Name = %q, want svc2", opts.Name)
	}
	if opts.LoggingLevel != "debug" {
		t.Errorf("LoggingLevel = %q, want debug", opts.LoggingLevel)
	}
	if !reflect.DeepEqual(rest, []string{"app"}) {
		t.Errorf("rest = %v, want [app]", rest)
	}
}

func TestParseOptionsHelp(t *testing.T) {
	opts, rest := parseOptions([]string{"app", "-h"})
	if !opts.Help {
		t.Error("Help = false, want true")
	}
	if !reflect.DeepEqual(rest, []string{"app"}) {
		t.Errorf("rest = %v, want [app]", rest)
	}
}

func TestParseOptionsIdempotentOnRemainder(t *testing.T) {
	argv := []string{"app", "HELLO", "-d", "-n", "svc", "-u"}
	_, rest1 := parseOptions(argv)
	_, rest2 := parseOptions(rest1)
	if !reflect.DeepEqual(rest1, rest2) {
		t.Errorf("parse not idempotent on remainder: %v != %v", rest1, rest2)
	}
}
