// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The hostbrain authors

package link

import (
	"fmt"
	"sync"
	"time"
)

// Stats tracks inbound message statistics and error rates for a viewer
// connection. Safe for concurrent use.
type Stats struct {
	mu        sync.Mutex
	startTime time.Time

	Total        uint64
	Valid        uint64
	DecodeErrors uint64
	UnknownTypes uint64
	ByType       map[string]uint64

	// Calculated by Snapshot.
	MessageRate float64 // messages/sec
	ErrorRate   float64 // errors/sec
}

// NewStats creates a statistics tracker starting now.
func NewStats() *Stats {
	return &Stats{
		startTime: time.Now(),
		ByType:    make(map[string]uint64),
	}
}

// Update records one inbound message. msgType is the wire
// discriminator when decoding succeeded, "" otherwise.
func (s *Stats) Update(msgType string, decodeErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Total++
	switch {
	case decodeErr == nil:
		s.Valid++
		s.ByType[msgType]++
	case decodeErr == ErrUnknownType:
		s.UnknownTypes++
	default:
		s.DecodeErrors++
	}
}

// Snapshot returns a copy with the rates filled in.
func (s *Stats) Snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := Stats{
		startTime:    s.startTime,
		Total:        s.Total,
		Valid:        s.Valid,
		DecodeErrors: s.DecodeErrors,
		UnknownTypes: s.UnknownTypes,
		ByType:       make(map[string]uint64, len(s.ByType)),
	}
	for k, v := range s.ByType {
		out.ByType[k] = v
	}

	elapsed := time.Since(s.startTime).Seconds()
	if elapsed > 0 {
		out.MessageRate = float64(out.Total) / elapsed
		out.ErrorRate = float64(out.DecodeErrors+out.UnknownTypes) / elapsed
	}
	return out
}

// Reset zeroes every counter and restarts the clock.
func (s *Stats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startTime = time.Now()
	s.Total = 0
	s.Valid = 0
	s.DecodeErrors = 0
	s.UnknownTypes = 0
	s.ByType = make(map[string]uint64)
	s.MessageRate = 0
	s.ErrorRate = 0
}

// String returns a one-line summary for logs.
func (s *Stats) String() string {
	snap := s.Snapshot()
	var validPercent float64
	if snap.Total > 0 {
		validPercent = float64(snap.Valid) * 100.0 / float64(snap.Total)
	}
	return fmt.Sprintf("%d messages, %.1f%% valid, %.1f msg/s",
		snap.Total, validPercent, snap.MessageRate)
}
