// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The hostbrain authors

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vexsim/hostbrain/pkg/sim"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.TickMillis != 10 {
		t.Errorf("TickMillis = %d, want 10", cfg.TickMillis)
	}
	if cfg.BaudRate != 115200 {
		t.Errorf("BaudRate = %d, want 115200", cfg.BaudRate)
	}
	if cfg.LeftMotor.Port != 1 || cfg.RightMotor.Port != 2 {
		t.Errorf("drive ports = %d/%d, want 1/2", cfg.LeftMotor.Port, cfg.RightMotor.Port)
	}
	if !cfg.RightMotor.Reversed {
		t.Error("right motor should default to reversed")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hostbrain.yaml")
	contents := `
viewer_url: ws://viewer.local:7071/
tick_millis: 20
left_motor:
  port: 11
  gearset: "6"
right_motor:
  port: 12
  gearset: "36"
  reversed: true
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ViewerURL != "ws://viewer.local:7071/" {
		t.Errorf("ViewerURL = %q", cfg.ViewerURL)
	}
	if cfg.TickMillis != 20 {
		t.Errorf("TickMillis = %d, want 20", cfg.TickMillis)
	}
	if cfg.LeftMotor.Port != 11 || cfg.LeftMotor.GearsetValue() != sim.Gearset06 {
		t.Errorf("left motor = %+v", cfg.LeftMotor)
	}
	if cfg.RightMotor.GearsetValue() != sim.Gearset36 {
		t.Errorf("right motor gearset = %v", cfg.RightMotor.GearsetValue())
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hostbrain.yaml")
	if err := os.WriteFile(path, []byte("viewer_url: ws://from-file/\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOSTBRAIN_VIEWER_URL", "ws://from-env/")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ViewerURL != "ws://from-env/" {
		t.Errorf("ViewerURL = %q, want the environment value", cfg.ViewerURL)
	}
}

func TestLoadConfigRejectsBadTick(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hostbrain.yaml")
	if err := os.WriteFile(path, []byte("tick_millis: -5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig accepted a negative tick")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/hostbrain.yaml"); err == nil {
		t.Error("LoadConfig succeeded on a missing explicit config file")
	}
}

func TestGearsetValue(t *testing.T) {
	tests := []struct {
		in   string
		want sim.Gearset
	}{
		{"36", sim.Gearset36},
		{"18", sim.Gearset18},
		{"6", sim.Gearset06},
		{"", sim.Gearset18},
		{"bogus", sim.Gearset18},
	}
	for _, tt := range tests {
		m := MotorConfig{Gearset: tt.in}
		if got := m.GearsetValue(); got != tt.want {
			t.Errorf("GearsetValue(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
