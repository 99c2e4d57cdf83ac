// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The hostbrain authors

// Package auton keeps the registry of autonomous routines and the
// viewer-driven selection. Routines are listed in registration order,
// split into match and skills categories.
package auton

import "sync"

// Category names one routine list.
type Category string

// Routine categories, matching the wire protocol strings.
const (
	CategoryMatch  Category = "match"
	CategorySkills Category = "skills"
)

// Routine is one registered autonomous program.
type Routine struct {
	Name string
	Run  func()
}

// Selector holds the routine registry and the current selection. The
// zero value has nothing registered and nothing selected.
type Selector struct {
	mu       sync.Mutex
	match    []Routine
	skills   []Routine
	selected Category
	index    int
	chosen   bool
}

// NewSelector creates an empty selector.
func NewSelector() *Selector {
	return &Selector{}
}

// Register appends a routine to its category's list. Unknown
// categories are ignored.
func (s *Selector) Register(cat Category, name string, run func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch cat {
	case CategoryMatch:
		s.match = append(s.match, Routine{Name: name, Run: run})
	case CategorySkills:
		s.skills = append(s.skills, Routine{Name: name, Run: run})
	}
}

// Names returns the routine names of one category, in registration
// order.
func (s *Selector) Names(cat Category) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.list(cat)
	names := make([]string, len(list))
	for i, r := range list {
		names[i] = r.Name
	}
	return names
}

// Select records the viewer's choice. An unknown category or an index
// outside the category's list leaves the current selection untouched.
func (s *Selector) Select(cat Category, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.list(cat)) {
		return
	}
	s.selected = cat
	s.index = index
	s.chosen = true
}

// Selected returns the current choice, if any.
func (s *Selector) Selected() (Category, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected, s.index, s.chosen
}

// RunSelected executes the chosen routine on the calling task. With
// nothing selected it is a no-op.
func (s *Selector) RunSelected() {
	s.mu.Lock()
	var run func()
	if s.chosen {
		if list := s.list(s.selected); s.index < len(list) {
			run = list[s.index].Run
		}
	}
	s.mu.Unlock()

	if run != nil {
		run()
	}
}

// list must be called with s.mu held.
func (s *Selector) list(cat Category) []Routine {
	switch cat {
	case CategoryMatch:
		return s.match
	case CategorySkills:
		return s.skills
	}
	return nil
}
