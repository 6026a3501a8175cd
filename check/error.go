// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package check

import "fmt"

// Kind classifies a check failure.
type Kind uint8

const (
	DuplicateFunctionDeclaration Kind = iota + 1 // a function is declared twice
	UndefinedFunctionCall                        // a literal callee is not defined
)

var kindNames = [...]string{
	DuplicateFunctionDeclaration: "DuplicateFunctionDeclaration",
	UndefinedFunctionCall:        "UndefinedFunctionCall",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Severity distinguishes an error caught ahead of execution from one
// that ends the process.
type Severity uint8

const (
	// SeverityFatal marks an error after which the session cannot go on.
	SeverityFatal Severity = iota

	// SeverityCaught marks an error that would have been fatal at run
	// time but was detected before execution. The unit is rejected
	// and the session continues.
	SeverityCaught
)

func (s Severity) String() string {
	switch s {
	case SeverityFatal:
		return "fatal"
	case SeverityCaught:
		return "caught"
	}
	return fmt.Sprintf("Severity(%d)", s)
}

// An Error reports a function declaration or call that would abort
// the runtime. The unit that contains it must not be executed.
type Error struct {
	Kind     Kind
	Msg      string // e.g. "Call to undefined function foo()"
	Name     string // the offending function name
	Severity Severity
	File     string // empty for interactive input
	Line     int    // 1-based
	Hint     string // optional suggestion, e.g. "did you mean strlen?"
}

func (e *Error) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}
