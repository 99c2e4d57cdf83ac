// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The hostbrain authors

package vex

import (
	"sync"

	"github.com/vexsim/hostbrain/pkg/sim"
)

// Controller reads one paired controller from the state store.
type Controller struct {
	store *sim.Store
	id    sim.ControllerID

	mu   sync.Mutex
	last [sim.NumButtons]bool // for rising-edge detection
}

// NewController binds to the master or partner controller.
func NewController(store *sim.Store, id sim.ControllerID) *Controller {
	return &Controller{store: store, id: id}
}

// Analog returns one stick axis in [-127, 127].
func (c *Controller) Analog(channel int) int {
	return c.store.ControllerAnalog(c.id, channel)
}

// Digital returns one button's current state.
func (c *Controller) Digital(button int) bool {
	return c.store.ControllerDigital(c.id, button)
}

// DigitalNewPress reports a rising edge since the previous call for
// the same button.
func (c *Controller) DigitalNewPress(button int) bool {
	if button < 0 || button >= sim.NumButtons {
		return false
	}
	now := c.store.ControllerDigital(c.id, button)
	c.mu.Lock()
	defer c.mu.Unlock()
	pressed := now && !c.last[button]
	c.last[button] = now
	return pressed
}

// IsConnected reports whether the controller is paired.
func (c *Controller) IsConnected() bool {
	return c.store.ControllerConnected(c.id)
}

// BatteryCapacity returns the controller battery capacity in percent.
func (c *Controller) BatteryCapacity() int {
	return c.store.ControllerBatteryCapacity(c.id)
}

// BatteryLevel returns the controller battery level in percent.
func (c *Controller) BatteryLevel() int {
	return c.store.ControllerBatteryLevel(c.id)
}
