// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The hostbrain authors

// Package sim owns the canonical simulated hardware state: motors,
// controllers, battery, the brain LCD and the competition mode. A
// single Store instance is the source of truth for the whole process
// and is safe for concurrent use from robot tasks and the transport's
// receive path.
//
// None of the Store operations fail. Out-of-range ports, controller
// ids and LCD lines are silently ignored by setters; the matching
// getters return zero-value sentinels.
package sim

import (
	"time"

	"github.com/vexsim/hostbrain/pkg/rtos"
)

// Hardware limits of the simulated brain.
const (
	NumPorts       = 21 // smart ports 1..21
	NumControllers = 2  // master, partner
	NumAnalog      = 4  // LX, LY, RX, RY
	NumButtons     = 18
	NumLCDLines    = 8
)

// Gearset is a motor cartridge. It bounds the motor's maximum velocity.
type Gearset int

// Motor gearsets, in PROS enumeration order.
const (
	Gearset36 Gearset = iota // 36:1, 100 rpm
	Gearset18                // 18:1, 200 rpm
	Gearset06                // 6:1, 600 rpm
	GearsetInvalid
)

// MaxRPM returns the free-speed bound for the gearset. Unknown
// gearsets behave like the stock 18:1 cartridge.
func (g Gearset) MaxRPM() float64 {
	switch g {
	case Gearset36:
		return 100
	case Gearset06:
		return 600
	default:
		return 200
	}
}

// ControllerID selects one of the two paired controllers.
type ControllerID int

// Controller identities.
const (
	ControllerMaster ControllerID = iota
	ControllerPartner
)

// Analog channel indices.
const (
	AnalogLeftX = iota
	AnalogLeftY
	AnalogRightX
	AnalogRightY
)

// Digital button indices, matching the PROS controller enumeration.
const (
	ButtonL1 = iota + 6
	ButtonL2
	ButtonR1
	ButtonR2
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
	ButtonX
	ButtonB
	ButtonY
	ButtonA
)

// Mode is the competition mode of the robot.
type Mode int

// Competition modes.
const (
	ModeDisabled Mode = iota
	ModeAutonomous
	ModeOpControl
)

func (m Mode) String() string {
	switch m {
	case ModeAutonomous:
		return "autonomous"
	case ModeOpControl:
		return "opcontrol"
	default:
		return "disabled"
	}
}

// ParseMode maps a wire-format mode string to a Mode. Unknown strings
// map to ModeDisabled, the safe state.
func ParseMode(s string) Mode {
	switch s {
	case "autonomous":
		return ModeAutonomous
	case "opcontrol":
		return ModeOpControl
	default:
		return ModeDisabled
	}
}

// MotorState is the full simulated state of one smart motor.
type MotorState struct {
	Voltage        int     // commanded, -127..127
	TargetVelocity int     // rpm, from velocity moves
	Position       float64 // accumulated, degrees
	ActualVelocity float64 // filtered, rpm
	Current        int     // mA
	Temperature    float64 // Celsius
	Gearset        Gearset
	Reversed       bool
	Connected      bool
}

// ControllerState is the state of one paired controller.
type ControllerState struct {
	Analog          [NumAnalog]int // -127..127
	Digital         [NumButtons]bool
	Connected       bool
	BatteryCapacity int
	BatteryLevel    int
}

// BatteryState is the state of the main robot battery.
type BatteryState struct {
	Capacity    float64 // percent
	Current     int     // mA
	Temperature float64 // Celsius
	Voltage     int     // mV
}

// DisplayState is the text portion of the brain screen (LLEMU).
type DisplayState struct {
	Lines           [NumLCDLines]string
	Buttons         uint8
	BackgroundColor uint32
	TextColor       uint32
}

// Store holds all simulated hardware state behind a single mutex.
// Construct one per process with NewStore and share the pointer.
type Store struct {
	mu rtos.Mutex

	motors      [NumPorts]MotorState
	controllers [NumControllers]ControllerState
	battery     BatteryState
	display     DisplayState
	mode        Mode
	fieldLink   bool

	tick  time.Duration
	alpha float64

	onTick func()
}

// Reference physics cadence. The filter constant below is specified at
// this tick length and scaled for other cadences.
const (
	baseTick  = 10 * time.Millisecond
	baseAlpha = 0.1
)

// NewStore creates a Store whose physics step is tuned for the given
// tick interval. A non-positive tick selects the 10 ms reference
// cadence. Callers must then invoke Update at roughly that period; the
// interval is part of the simulated dynamics.
func NewStore(tick time.Duration) *Store {
	if tick <= 0 {
		tick = baseTick
	}
	alpha := baseAlpha * float64(tick) / float64(baseTick)
	if alpha > 1 {
		alpha = 1
	}

	s := &Store{tick: tick, alpha: alpha}
	for i := range s.motors {
		s.motors[i] = MotorState{Gearset: Gearset18, Temperature: 25}
	}
	for i := range s.controllers {
		s.controllers[i] = ControllerState{
			Connected:       true,
			BatteryCapacity: 100,
			BatteryLevel:    100,
		}
	}
	s.battery = BatteryState{
		Capacity:    100,
		Temperature: 25,
		Voltage:     12600,
	}
	s.display.TextColor = 0xFFFF
	return s
}

// Tick returns the physics tick interval the store was built for.
func (s *Store) Tick() time.Duration { return s.tick }

// SetUpdateCallback registers a hook that fires after each physics
// tick, outside the store's mutex. It decouples the store from the
// transport: the driving loop registers a telemetry publisher here.
func (s *Store) SetUpdateCallback(fn func()) {
	s.mu.Lock()
	s.onTick = fn
	s.mu.Unlock()
}

func validPort(port int) bool { return port >= 1 && port <= NumPorts }

func validController(id ControllerID) bool {
	return id >= 0 && id < NumControllers
}

// SetMotorVoltage commands a motor. The voltage is clamped to
// [-127, 127]; out-of-range ports are ignored.
func (s *Store) SetMotorVoltage(port, voltage int) {
	if !validPort(port) {
		return
	}
	s.mu.Lock()
	s.motors[port-1].Voltage = clamp(voltage, -127, 127)
	s.mu.Unlock()
}

// SetMotorTargetVelocity records the commanded velocity in rpm.
func (s *Store) SetMotorTargetVelocity(port, velocity int) {
	if !validPort(port) {
		return
	}
	s.mu.Lock()
	s.motors[port-1].TargetVelocity = velocity
	s.mu.Unlock()
}

// SetMotorPosition overwrites the accumulated position, in degrees.
func (s *Store) SetMotorPosition(port int, position float64) {
	if !validPort(port) {
		return
	}
	s.mu.Lock()
	s.motors[port-1].Position = position
	s.mu.Unlock()
}

// SetMotorGearset sets the simulated cartridge.
func (s *Store) SetMotorGearset(port int, gearset Gearset) {
	if !validPort(port) {
		return
	}
	s.mu.Lock()
	s.motors[port-1].Gearset = gearset
	s.mu.Unlock()
}

// SetMotorReversed sets the reversed flag.
func (s *Store) SetMotorReversed(port int, reversed bool) {
	if !validPort(port) {
		return
	}
	s.mu.Lock()
	s.motors[port-1].Reversed = reversed
	s.mu.Unlock()
}

// SetMotorConnected plugs a motor in or out. Disconnected motors are
// skipped by the physics tick and excluded from telemetry.
func (s *Store) SetMotorConnected(port int, connected bool) {
	if !validPort(port) {
		return
	}
	s.mu.Lock()
	s.motors[port-1].Connected = connected
	s.mu.Unlock()
}

// MotorVoltage returns the commanded voltage, or 0 for a bad port.
func (s *Store) MotorVoltage(port int) int {
	if !validPort(port) {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.motors[port-1].Voltage
}

// MotorTargetVelocity returns the commanded velocity in rpm.
func (s *Store) MotorTargetVelocity(port int) int {
	if !validPort(port) {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.motors[port-1].TargetVelocity
}

// MotorPosition returns the accumulated position in degrees.
func (s *Store) MotorPosition(port int) float64 {
	if !validPort(port) {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.motors[port-1].Position
}

// MotorActualVelocity returns the filtered velocity in rpm.
func (s *Store) MotorActualVelocity(port int) float64 {
	if !validPort(port) {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.motors[port-1].ActualVelocity
}

// MotorCurrent returns the simulated current draw in mA.
func (s *Store) MotorCurrent(port int) int {
	if !validPort(port) {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.motors[port-1].Current
}

// MotorTemperature returns the simulated temperature in Celsius.
func (s *Store) MotorTemperature(port int) float64 {
	if !validPort(port) {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.motors[port-1].Temperature
}

// MotorGearset returns the cartridge, or GearsetInvalid for a bad port.
func (s *Store) MotorGearset(port int) Gearset {
	if !validPort(port) {
		return GearsetInvalid
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.motors[port-1].Gearset
}

// MotorReversed reports the reversed flag.
func (s *Store) MotorReversed(port int) bool {
	if !validPort(port) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.motors[port-1].Reversed
}

// MotorConnected reports whether a motor is plugged in.
func (s *Store) MotorConnected(port int) bool {
	if !validPort(port) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.motors[port-1].Connected
}

// MotorSnapshot returns a copy of the full motor state, for telemetry.
// A bad port returns the zero MotorState.
func (s *Store) MotorSnapshot(port int) MotorState {
	if !validPort(port) {
		return MotorState{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.motors[port-1]
}

// SetControllerAnalog writes one analog channel, clamped to
// [-127, 127]. Bad ids and channels are ignored.
func (s *Store) SetControllerAnalog(id ControllerID, channel, value int) {
	if !validController(id) || channel < 0 || channel >= NumAnalog {
		return
	}
	s.mu.Lock()
	s.controllers[id].Analog[channel] = clamp(value, -127, 127)
	s.mu.Unlock()
}

// SetControllerDigital writes one button state.
func (s *Store) SetControllerDigital(id ControllerID, button int, pressed bool) {
	if !validController(id) || button < 0 || button >= NumButtons {
		return
	}
	s.mu.Lock()
	s.controllers[id].Digital[button] = pressed
	s.mu.Unlock()
}

// SetControllerConnected pairs or unpairs a controller.
func (s *Store) SetControllerConnected(id ControllerID, connected bool) {
	if !validController(id) {
		return
	}
	s.mu.Lock()
	s.controllers[id].Connected = connected
	s.mu.Unlock()
}

// ControllerAnalog returns one analog channel, or 0 when out of range.
func (s *Store) ControllerAnalog(id ControllerID, channel int) int {
	if !validController(id) || channel < 0 || channel >= NumAnalog {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controllers[id].Analog[channel]
}

// ControllerDigital returns one button state, or false when out of range.
func (s *Store) ControllerDigital(id ControllerID, button int) bool {
	if !validController(id) || button < 0 || button >= NumButtons {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controllers[id].Digital[button]
}

// ControllerConnected reports whether a controller is paired.
func (s *Store) ControllerConnected(id ControllerID) bool {
	if !validController(id) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controllers[id].Connected
}

// ControllerBatteryCapacity returns the controller battery capacity in
// percent.
func (s *Store) ControllerBatteryCapacity(id ControllerID) int {
	if !validController(id) {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controllers[id].BatteryCapacity
}

// ControllerBatteryLevel returns the controller battery level in
// percent.
func (s *Store) ControllerBatteryLevel(id ControllerID) int {
	if !validController(id) {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controllers[id].BatteryLevel
}

// BatterySnapshot returns a copy of the main battery state.
func (s *Store) BatterySnapshot() BatteryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.battery
}

// BatteryCapacity returns the battery capacity in percent.
func (s *Store) BatteryCapacity() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.battery.Capacity
}

// BatteryCurrent returns the battery current in mA.
func (s *Store) BatteryCurrent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.battery.Current
}

// BatteryTemperature returns the battery temperature in Celsius.
func (s *Store) BatteryTemperature() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.battery.Temperature
}

// BatteryVoltage returns the battery voltage in mV.
func (s *Store) BatteryVoltage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.battery.Voltage
}

// SetMode switches the competition mode.
func (s *Store) SetMode(mode Mode) {
	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()
}

// Mode returns the current competition mode.
func (s *Store) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// IsAutonomous reports whether the robot is in autonomous mode.
func (s *Store) IsAutonomous() bool { return s.Mode() == ModeAutonomous }

// IsDisabled reports whether the robot is disabled.
func (s *Store) IsDisabled() bool { return s.Mode() == ModeDisabled }

// SetFieldConnected records whether a competition field link is up.
func (s *Store) SetFieldConnected(connected bool) {
	s.mu.Lock()
	s.fieldLink = connected
	s.mu.Unlock()
}

// FieldConnected reports whether a competition field link is up.
func (s *Store) FieldConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fieldLink
}

// SetLCDLine writes one LCD line. Lines outside [0, 7] are ignored.
func (s *Store) SetLCDLine(line int, text string) {
	if line < 0 || line >= NumLCDLines {
		return
	}
	s.mu.Lock()
	s.display.Lines[line] = text
	s.mu.Unlock()
}

// LCDLine returns one LCD line, or "" when out of range.
func (s *Store) LCDLine(line int) string {
	if line < 0 || line >= NumLCDLines {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display.Lines[line]
}

// LCDLines returns a copy of all eight LCD lines.
func (s *Store) LCDLines() [NumLCDLines]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display.Lines
}

// ClearLCD blanks every LCD line.
func (s *Store) ClearLCD() {
	s.mu.Lock()
	for i := range s.display.Lines {
		s.display.Lines[i] = ""
	}
	s.mu.Unlock()
}

// ClearLCDLine blanks one LCD line.
func (s *Store) ClearLCDLine(line int) {
	if line < 0 || line >= NumLCDLines {
		return
	}
	s.mu.Lock()
	s.display.Lines[line] = ""
	s.mu.Unlock()
}

// SetLCDButton sets or clears bits in the LCD button bitmask.
func (s *Store) SetLCDButton(mask uint8, pressed bool) {
	s.mu.Lock()
	if pressed {
		s.display.Buttons |= mask
	} else {
		s.display.Buttons &^= mask
	}
	s.mu.Unlock()
}

// LCDButtons returns the LCD button bitmask.
func (s *Store) LCDButtons() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display.Buttons
}

// SetLCDBackgroundColor sets the LCD background color.
func (s *Store) SetLCDBackgroundColor(color uint32) {
	s.mu.Lock()
	s.display.BackgroundColor = color
	s.mu.Unlock()
}

// SetLCDTextColor sets the LCD text color.
func (s *Store) SetLCDTextColor(color uint32) {
	s.mu.Lock()
	s.display.TextColor = color
	s.mu.Unlock()
}

// LCDBackgroundColor returns the LCD background color.
func (s *Store) LCDBackgroundColor() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display.BackgroundColor
}

// LCDTextColor returns the LCD text color.
func (s *Store) LCDTextColor() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display.TextColor
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
