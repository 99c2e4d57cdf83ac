// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The hostbrain authors

package sim

import "math"

// Update advances the motor simulation by one tick. It runs in O(ports)
// under the store's mutex; the registered update callback fires after
// the mutex is released so it may read the store freely.
//
// The model is deliberately coarse: commanded voltage maps linearly to
// a target velocity bounded by the gearset, the actual velocity chases
// it through a first-order filter, and current and temperature are
// derived from the velocity fraction. Callers must invoke Update at
// roughly the tick interval the store was built for.
func (s *Store) Update() {
	s.mu.Lock()
	for i := range s.motors {
		m := &s.motors[i]
		if !m.Connected {
			continue
		}

		maxRPM := m.Gearset.MaxRPM()
		target := float64(m.Voltage) / 127.0 * maxRPM

		m.ActualVelocity = m.ActualVelocity*(1-s.alpha) + target*s.alpha

		// rpm integrated over one tick, expressed in degrees
		m.Position += m.ActualVelocity * s.tick.Minutes() * 360

		m.Current = int(math.Abs(m.ActualVelocity) / maxRPM * 2000)
		m.Temperature = 25 + float64(m.Current)/2500*30
	}
	onTick := s.onTick
	s.mu.Unlock()

	if onTick != nil {
		onTick()
	}
}
