// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The hostbrain authors

package vex

import "github.com/vexsim/hostbrain/pkg/sim"

// Battery reads the main robot battery from the state store.
type Battery struct {
	store *sim.Store
}

// NewBattery binds to the main battery.
func NewBattery(store *sim.Store) *Battery {
	return &Battery{store: store}
}

// Capacity returns the remaining charge in percent.
func (b *Battery) Capacity() float64 { return b.store.BatteryCapacity() }

// Current returns the draw in mA.
func (b *Battery) Current() int { return b.store.BatteryCurrent() }

// Temperature returns the pack temperature in Celsius.
func (b *Battery) Temperature() float64 { return b.store.BatteryTemperature() }

// Voltage returns the pack voltage in mV.
func (b *Battery) Voltage() int { return b.store.BatteryVoltage() }

// Competition reads the competition control state.
type Competition struct {
	store *sim.Store
}

// NewCompetition binds to the competition state.
func NewCompetition(store *sim.Store) *Competition {
	return &Competition{store: store}
}

// IsAutonomous reports autonomous mode.
func (c *Competition) IsAutonomous() bool { return c.store.IsAutonomous() }

// IsDisabled reports the disabled state.
func (c *Competition) IsDisabled() bool { return c.store.IsDisabled() }

// IsConnected reports whether a field controller link is up.
func (c *Competition) IsConnected() bool { return c.store.FieldConnected() }
