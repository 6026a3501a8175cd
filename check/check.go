// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package check validates function declarations and calls in a unit of
// input before it is executed.
//
// Two conditions abort the runtime irrecoverably and are reported here
// instead, as an *Error:
//
//   - a function declared under a name that is already defined, either
//     in the running environment or earlier in the same unit
//     (DuplicateFunctionDeclaration);
//   - a call whose callee is a literal name that is neither defined in
//     the running environment nor declared earlier in the unit
//     (UndefinedFunctionCall).
//
// A call through a computed callee, such as $fn() or $obj->m(), is
// never checked.
//
// The pass sees each node once, children before parents, and registers
// a declaration only when its node is visited. A call that is visited
// before the declaration it refers to is therefore reported, even when
// it could not run before the declaration: for example a recursive call
// within the function's own body, or a call to a function declared
// later in the unit from inside an earlier function body.
package check // import "github.com/replguard/fncheck/check"

import (
	"fmt"

	"github.com/replguard/fncheck/syntax"
)

// A Pass checks the nodes of one unit against a Scope.
type Pass struct {
	scope   *Scope
	qualify func(*syntax.Name) string
	exists  func(name string) bool

	// Candidates, if non-nil, returns the names of defined functions
	// to consider when suggesting a replacement for an undefined call.
	Candidates func() []string
}

// New returns a pass that records declarations in scope.
//
// qualify returns the fully-qualified name of a name node, taking into
// account the namespace context at its position (see resolve.Qualify).
// exists reports whether a function of the given name is already
// defined in the running environment.
func New(scope *Scope, qualify func(*syntax.Name) string, exists func(name string) bool) *Pass {
	return &Pass{scope: scope, qualify: qualify, exists: exists}
}

// Scope returns the scope the pass records declarations in.
func (p *Pass) Scope() *Scope { return p.scope }

// Visit checks a single node. Nodes must be visited in post-order.
// After Visit returns an error, the remaining nodes of the unit must
// not be visited and the unit must not be executed.
func (p *Pass) Visit(n syntax.Node) error {
	switch n := n.(type) {
	case *syntax.FuncDecl:
		return p.funcDecl(n)
	case *syntax.CallExpr:
		return p.call(n)
	default:
		// Other nodes declare or call nothing.
		return nil
	}
}

func (p *Pass) funcDecl(decl *syntax.FuncDecl) error {
	written := decl.Name.String()
	full := p.qualify(decl.Name)
	if p.exists(written) || p.exists(full) || p.scope.Has(full) {
		return p.errorf(decl, DuplicateFunctionDeclaration, full, "Cannot redeclare %s()", full)
	}
	p.scope.Declare(full)
	return nil
}

func (p *Pass) call(call *syntax.CallExpr) error {
	name, ok := call.Fn.(*syntax.Name)
	if !ok {
		// The callee is computed at run time.
		return nil
	}
	short := name.String()
	full := p.qualify(name)
	if p.scope.Has(full) || p.exists(short) || p.exists(full) {
		return nil
	}
	err := p.errorf(call, UndefinedFunctionCall, short, "Call to undefined function %s()", short)
	if hint := p.suggest(short); hint != "" {
		err.Hint = fmt.Sprintf("did you mean %s?", hint)
	}
	return err
}

func (p *Pass) errorf(n syntax.Node, kind Kind, name, format string, args ...interface{}) *Error {
	pos := syntax.Start(n)
	return &Error{
		Kind:     kind,
		Msg:      fmt.Sprintf(format, args...),
		Name:     name,
		Severity: SeverityCaught,
		File:     pos.Filename(),
		Line:     int(pos.Line),
	}
}

func (p *Pass) suggest(name string) string {
	candidates := p.scope.Names()
	if p.Candidates != nil {
		candidates = append(candidates, p.Candidates()...)
	}
	return nearest(name, candidates)
}

// File checks every node of f in post-order, recording declarations
// in scope, and returns the first error.
func File(f *syntax.File, scope *Scope, qualify func(*syntax.Name) string, exists func(name string) bool) error {
	return New(scope, qualify, exists).File(f)
}

// File checks every node of f in post-order and returns the first error.
func (p *Pass) File(f *syntax.File) error {
	return syntax.PostOrder(f, p.Visit)
}
