package main

import "testing"

func TestNeedsLoad(t *testing.T) {
	tests := []struct {
		command string
		want    bool
	}{
		{"init", false},
		{"config set-connection <connection-string>", false},
		{"config show", false},
		{"habit templates", false},
		{"challenge templates", false},
		{"habit add <name>", true},
		{"today", true},
		{"challenge start <template> <habits> ...", true},
		{"backup create", true},
		{"group show <group>", true},
		{"trigger add <source> <condition> <target>", true},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			if got := needsLoad(tt.command); got != tt.want {
				t.Errorf("needsLoad(%q) = %v, want %v", tt.command, got, tt.want)
			}
		})
	}
}
