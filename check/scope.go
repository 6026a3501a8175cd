// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package check

import (
	"sort"
	"strings"
)

// A Scope is the set of function names declared by the statements
// visited so far in a unit. Names are stored lower-cased, since
// function names are case-insensitive, and are never removed.
//
// The zero Scope is empty and ready to use. A Scope is owned by the
// host: it may start each unit with a fresh one or hand a Scope from
// one unit to the next.
type Scope struct {
	names map[string]struct{}
}

// NewScope returns a scope containing the specified names.
func NewScope(names ...string) *Scope {
	s := new(Scope)
	for _, name := range names {
		s.Declare(name)
	}
	return s
}

// Declare adds a fully-qualified name to the scope.
func (s *Scope) Declare(name string) {
	if s.names == nil {
		s.names = make(map[string]struct{})
	}
	s.names[strings.ToLower(name)] = struct{}{}
}

// Has reports whether the scope contains name, ignoring case.
func (s *Scope) Has(name string) bool {
	_, ok := s.names[strings.ToLower(name)]
	return ok
}

// Len returns the number of names in the scope.
func (s *Scope) Len() int { return len(s.names) }

// Names returns the lower-cased names in the scope in sorted order.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.names))
	for name := range s.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
