// Copyright (C) 2020 The CodeActual Go Environment Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package strings

// Set holds a unique string set.
type Set struct {
	m map[string]struct{}
}

func NewSet() *Set {
	return &Set{m: make(map[string]struct{})}
}

func (s *Set) Add(v string) *Set {
	s.m[v] = struct{}{}
	return s
}

func (s *Set) AddSlice(v []string) *Set {
	for _, e := range v {
		s.Add(e)
	}
	return s
}

func (s *Set) Contains(v string) bool {
	_, ok := s.m[v]
	return ok
}

func (s *Set) Len() int {
	return len(s.m)
}

func (s *Set) Slice() (v []string) {
	for e := range s.m {
		v = append(v, e)
	}
	return v
}

func (s *Set) SortedSlice() []string {
	v := s.Slice()
	SortStable(v)
	return v
}
