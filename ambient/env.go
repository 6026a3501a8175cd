// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ambient models the functions already defined in the running
// process: the built-in functions of the Universe plus any functions
// declared by earlier, accepted units of a session.
//
// Function names are case-insensitive and a leading namespace
// separator is ignored, so Exists("STRLEN") and Exists(`\strlen`) both
// report the built-in strlen.
//
// An Env is not safe for concurrent mutation. Callers that check
// several units in parallel give each one its own Clone.
package ambient // import "github.com/replguard/fncheck/ambient"

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// An Env is a set of defined function names.
type Env struct {
	funcs map[string]string // normalized name -> name as first defined
}

// New returns an environment containing the Universe and the
// specified extra names.
func New(extra ...string) *Env {
	env := &Env{funcs: make(map[string]string, len(Universe)+len(extra))}
	env.Define(Universe...)
	env.Define(extra...)
	return env
}

// Empty returns an environment with no functions defined.
func Empty() *Env {
	return &Env{funcs: make(map[string]string)}
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimPrefix(name, `\`))
}

// Exists reports whether a function of the specified name is defined.
func (env *Env) Exists(name string) bool {
	_, ok := env.funcs[normalize(name)]
	return ok
}

// Define adds functions to the environment.
// Redefining an existing name has no effect.
func (env *Env) Define(names ...string) {
	for _, name := range names {
		key := normalize(name)
		if key == "" {
			continue
		}
		if _, ok := env.funcs[key]; !ok {
			env.funcs[key] = strings.TrimPrefix(name, `\`)
		}
	}
}

// Len returns the number of defined functions.
func (env *Env) Len() int { return len(env.funcs) }

// Names returns the defined function names in sorted order,
// spelled as they were first defined.
func (env *Env) Names() []string {
	names := make([]string, 0, len(env.funcs))
	for _, name := range env.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy of the environment.
func (env *Env) Clone() *Env {
	clone := &Env{funcs: make(map[string]string, len(env.funcs))}
	for k, v := range env.funcs {
		clone.funcs[k] = v
	}
	return clone
}

// ReadNames reads function names, one per line.
// Blank lines and lines starting with # are ignored.
func ReadNames(r io.Reader) ([]string, error) {
	var names []string
	sc := bufio.NewScanner(r)
	for linenum := 1; sc.Scan(); linenum++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.ContainsAny(line, " \t();") {
			return nil, fmt.Errorf("line %d: invalid function name %q", linenum, line)
		}
		names = append(names, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return names, nil
}
