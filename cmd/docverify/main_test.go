package main

import (
	"testing"
)

func TestRootCommandShowsHelp(t *testing.T) {
	out, errOut, err := runCLI(t, nil, "")
	if err != nil {
		t.Fatalf("root: %v", err)
	}
	combined := out + errOut
	for _, sub := range []string{"run", "ingest", "queue", "show", "config", "deps"} {
		requireContains(t, combined, sub)
	}
}

func TestRootCommandRejectsUnknownSubcommand(t *testing.T) {
	_, _, err := runCLI(t, []string{"does-not-exist"}, "")
	if err == nil {
		t.Fatal("expected unknown command error")
	}
}
