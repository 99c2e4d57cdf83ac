// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The hostbrain authors

package sim

import "testing"

func TestMotorVoltageClamp(t *testing.T) {
	tests := []struct {
		name    string
		voltage int
		want    int
	}{
		{"in range", 64, 64},
		{"max", 127, 127},
		{"min", -127, -127},
		{"above max", 200, 127},
		{"below min", -300, -127},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(0)
			s.SetMotorVoltage(1, tt.voltage)
			if got := s.MotorVoltage(1); got != tt.want {
				t.Errorf("MotorVoltage(1) = %d after SetMotorVoltage(%d), want %d",
					got, tt.voltage, tt.want)
			}
		})
	}
}

func TestOutOfRangePortsAreInert(t *testing.T) {
	s := NewStore(0)

	for _, port := range []int{0, -3, NumPorts + 1, 100} {
		s.SetMotorVoltage(port, 100)
		s.SetMotorConnected(port, true)
		s.SetMotorPosition(port, 42)

		if got := s.MotorVoltage(port); got != 0 {
			t.Errorf("MotorVoltage(%d) = %d, want 0", port, got)
		}
		if got := s.MotorGearset(port); got != GearsetInvalid {
			t.Errorf("MotorGearset(%d) = %v, want GearsetInvalid", port, got)
		}
		if s.MotorConnected(port) {
			t.Errorf("MotorConnected(%d) = true", port)
		}
		if got := s.MotorSnapshot(port); got != (MotorState{}) {
			t.Errorf("MotorSnapshot(%d) = %+v, want zero", port, got)
		}
	}

	// Writes to bad ports must not leak into real ports.
	for port := 1; port <= NumPorts; port++ {
		if got := s.MotorVoltage(port); got != 0 {
			t.Errorf("port %d voltage = %d after out-of-range writes", port, got)
		}
	}
}

func TestControllerAnalogClamp(t *testing.T) {
	s := NewStore(0)
	s.SetControllerAnalog(ControllerMaster, AnalogLeftY, 300)
	if got := s.ControllerAnalog(ControllerMaster, AnalogLeftY); got != 127 {
		t.Errorf("analog = %d, want clamped 127", got)
	}
	s.SetControllerAnalog(ControllerMaster, AnalogLeftY, -300)
	if got := s.ControllerAnalog(ControllerMaster, AnalogLeftY); got != -127 {
		t.Errorf("analog = %d, want clamped -127", got)
	}
}

func TestControllerOutOfRange(t *testing.T) {
	s := NewStore(0)

	s.SetControllerAnalog(ControllerID(5), AnalogLeftX, 50)
	s.SetControllerAnalog(ControllerMaster, 99, 50)
	s.SetControllerDigital(ControllerMaster, NumButtons, true)

	if got := s.ControllerAnalog(ControllerID(5), AnalogLeftX); got != 0 {
		t.Errorf("analog on bad controller = %d, want 0", got)
	}
	if got := s.ControllerAnalog(ControllerMaster, 99); got != 0 {
		t.Errorf("analog on bad channel = %d, want 0", got)
	}
	if s.ControllerDigital(ControllerMaster, NumButtons) {
		t.Error("digital on bad button = true")
	}
	if s.ControllerConnected(ControllerID(5)) {
		t.Error("bad controller reports connected")
	}
}

func TestDefaults(t *testing.T) {
	s := NewStore(0)

	if got := s.MotorGearset(1); got != Gearset18 {
		t.Errorf("default gearset = %v, want Gearset18", got)
	}
	if got := s.MotorTemperature(1); got != 25 {
		t.Errorf("default motor temperature = %v, want 25", got)
	}
	if s.MotorConnected(1) {
		t.Error("motors default to connected")
	}
	if !s.ControllerConnected(ControllerMaster) {
		t.Error("master controller defaults to disconnected")
	}
	if got := s.BatteryVoltage(); got != 12600 {
		t.Errorf("default battery voltage = %d, want 12600", got)
	}
	if got := s.Mode(); got != ModeDisabled {
		t.Errorf("default mode = %v, want disabled", got)
	}
	if got := s.LCDTextColor(); got != 0xFFFF {
		t.Errorf("default text color = %#x, want 0xFFFF", got)
	}
}

func TestGearsetMaxRPM(t *testing.T) {
	tests := []struct {
		gearset Gearset
		want    float64
	}{
		{Gearset36, 100},
		{Gearset18, 200},
		{Gearset06, 600},
		{GearsetInvalid, 200},
		{Gearset(99), 200},
	}
	for _, tt := range tests {
		if got := tt.gearset.MaxRPM(); got != tt.want {
			t.Errorf("Gearset(%d).MaxRPM() = %v, want %v", tt.gearset, got, tt.want)
		}
	}
}

func TestModeRoundTrip(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"disabled", ModeDisabled},
		{"autonomous", ModeAutonomous},
		{"opcontrol", ModeOpControl},
		{"bogus", ModeDisabled},
		{"", ModeDisabled},
	}
	for _, tt := range tests {
		if got := ParseMode(tt.in); got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, mode := range []Mode{ModeDisabled, ModeAutonomous, ModeOpControl} {
		if got := ParseMode(mode.String()); got != mode {
			t.Errorf("ParseMode(%q) = %v, want %v", mode.String(), got, mode)
		}
	}
}

func TestLCDLines(t *testing.T) {
	s := NewStore(0)

	s.SetLCDLine(0, "first")
	s.SetLCDLine(7, "last")
	s.SetLCDLine(8, "ignored")
	s.SetLCDLine(-1, "ignored")

	if got := s.LCDLine(0); got != "first" {
		t.Errorf("line 0 = %q", got)
	}
	if got := s.LCDLine(7); got != "last" {
		t.Errorf("line 7 = %q", got)
	}
	if got := s.LCDLine(8); got != "" {
		t.Errorf("line 8 = %q, want empty", got)
	}

	s.ClearLCDLine(0)
	if got := s.LCDLine(0); got != "" {
		t.Errorf("line 0 = %q after ClearLCDLine", got)
	}

	s.ClearLCD()
	if lines := s.LCDLines(); lines != ([NumLCDLines]string{}) {
		t.Errorf("lines = %v after ClearLCD, want all empty", lines)
	}
}

func TestLCDButtons(t *testing.T) {
	s := NewStore(0)

	s.SetLCDButton(0b100, true)
	s.SetLCDButton(0b001, true)
	if got := s.LCDButtons(); got != 0b101 {
		t.Errorf("buttons = %03b, want 101", got)
	}
	s.SetLCDButton(0b100, false)
	if got := s.LCDButtons(); got != 0b001 {
		t.Errorf("buttons = %03b after clear, want 001", got)
	}
}
