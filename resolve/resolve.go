// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolve defines a name-resolution pass for script units.
//
// The resolver computes the fully-qualified name that the runtime's
// loader would use for every function declaration and every call whose
// callee is written as a literal name. It records the result in the
// Resolved field of each syntax.Name.
//
// Resolution follows the namespace rules of the language:
//
//	\A\f          A\f
//	namespace\f   <current namespace>\f
//	f             the target of 'use function X\f' if any, else <ns>\f
//	A\f           the target of 'use X\A' followed by \f if any, else <ns>\A\f
//
// An unqualified call also falls back to the global function of the
// same name at run time; the resolver does not model that fallback,
// which is why the function-name checks consult both the written and
// the resolved form.
//
// Use declarations apply to the statements that follow them, up to
// the end of the enclosing namespace. Alias comparison is
// case-insensitive.
package resolve // import "github.com/replguard/fncheck/resolve"

import (
	"fmt"
	"sort"
	"strings"

	"github.com/replguard/fncheck/syntax"
)

const debug = false

// An ErrorList is a non-empty list of resolver error messages.
type ErrorList []Error // len > 0

func (e ErrorList) Error() string { return e[0].Error() }

// An Error describes the nature and position of a resolver error.
type Error struct {
	Pos syntax.Position
	Msg string
}

func (e Error) Error() string { return e.Pos.String() + ": " + e.Msg }

// File resolves the names in the specified file, starting in the
// global namespace.
func File(file *syntax.File) error {
	return REPLChunk(file, "")
}

// REPLChunk is a variant of File for interactive input, where a
// namespace declared by an earlier input remains in effect.
// Statements of file that precede any namespace declaration belong
// to the specified namespace.
func REPLChunk(file *syntax.File, namespace string) error {
	r := newResolver()
	r.enter(strings.TrimPrefix(namespace, `\`))
	r.stmts(file.Stmts, fileLevel)

	if len(r.errors) > 0 {
		sort.SliceStable(r.errors, func(i, j int) bool {
			pi, pj := r.errors[i].Pos, r.errors[j].Pos
			if pi.Line != pj.Line {
				return pi.Line < pj.Line
			}
			return pi.Col < pj.Col
		})
		return r.errors
	}
	return nil
}

// Qualify returns the fully-qualified name of n.
// A name not annotated by the resolver is treated as if it appeared
// in the global namespace with no use declarations in effect.
func Qualify(n *syntax.Name) string {
	if n.Resolved != "" {
		return n.Resolved
	}
	return n.String()
}

// Join qualifies name with namespace ns.
func Join(ns, name string) string {
	if ns == "" {
		return name
	}
	return ns + `\` + name
}

// The level at which a statement appears.
type level int

const (
	fileLevel      level = iota // outside any namespace declaration
	namespaceLevel              // directly within a namespace declaration
	nestedLevel                 // within a function, closure or block
)

type resolver struct {
	namespace string

	// aliases introduced by use declarations, keyed by lowercase alias
	names  map[string]string // use A\B [as C]
	funcs  map[string]string // use function A\f [as g]
	consts map[string]string // use const A\C [as D]

	errors ErrorList
}

func newResolver() *resolver {
	return new(resolver)
}

func (r *resolver) errorf(posn syntax.Position, format string, args ...interface{}) {
	r.errors = append(r.errors, Error{posn, fmt.Sprintf(format, args...)})
}

// enter starts a new namespace, discarding all aliases.
func (r *resolver) enter(ns string) {
	if debug {
		fmt.Printf("enter namespace %q\n", ns)
	}
	r.namespace = ns
	r.names = make(map[string]string)
	r.funcs = make(map[string]string)
	r.consts = make(map[string]string)
}

func (r *resolver) stmts(stmts []syntax.Stmt, lvl level) {
	for _, stmt := range stmts {
		r.stmt(stmt, lvl)
	}
}

func (r *resolver) stmt(stmt syntax.Stmt, lvl level) {
	switch stmt := stmt.(type) {
	case *syntax.NamespaceStmt:
		if lvl != fileLevel {
			r.errorf(stmt.Namespace, "namespace declarations cannot be nested")
			return
		}
		r.enter(stmt.NameString())
		r.stmts(stmt.Body, namespaceLevel)
		if stmt.Braced {
			// Code after a braced namespace is global.
			r.enter("")
		}

	case *syntax.UseStmt:
		if lvl == nestedLevel {
			r.errorf(stmt.Use, "use declarations are only permitted at namespace level")
			return
		}
		r.use(stmt)

	case *syntax.FuncDecl:
		r.declare(stmt.Name)
		r.body(stmt)

	default:
		r.body(stmt)
	}
}

// body annotates the names within a statement other than a
// namespace or use declaration.
func (r *resolver) body(stmt syntax.Stmt) {
	syntax.Walk(stmt, func(n syntax.Node) bool {
		switch n := n.(type) {
		case *syntax.FuncDecl:
			if n != stmt {
				// A function declared inside a function body or block
				// is still a global declaration of this namespace.
				r.declare(n.Name)
			}
		case *syntax.CallExpr:
			if name, ok := n.Fn.(*syntax.Name); ok {
				name.Resolved = r.call(name)
			}
		case *syntax.NamespaceStmt:
			r.errorf(n.Namespace, "namespace declarations cannot be nested")
			return false
		case *syntax.UseStmt:
			r.errorf(n.Use, "use declarations are only permitted at namespace level")
			return false
		}
		return true
	})
}

// use records the aliases introduced by a use declaration.
func (r *resolver) use(stmt *syntax.UseStmt) {
	table := r.names
	switch stmt.Kind {
	case syntax.UseFunction:
		table = r.funcs
	case syntax.UseConst:
		table = r.consts
	}
	for _, item := range stmt.Items {
		target := item.Name.String()
		item.Name.Resolved = target
		alias := item.AliasName()
		key := strings.ToLower(alias)
		if prev, ok := table[key]; ok && !strings.EqualFold(prev, target) {
			r.errorf(syntax.Start(item), "Cannot use %s as %s because the name is already in use", target, alias)
			continue
		}
		table[key] = target
	}
}

// declare resolves the name of a function declaration.
func (r *resolver) declare(name *syntax.Name) {
	full := Join(r.namespace, name.String())
	if target, ok := r.funcs[strings.ToLower(name.String())]; ok && !strings.EqualFold(target, full) {
		r.errorf(name.NamePos, "Cannot declare function %s because the name is already in use", full)
	}
	name.Resolved = full
}

// call resolves the literal callee of a call expression.
func (r *resolver) call(name *syntax.Name) string {
	switch name.Kind {
	case syntax.FullyQualified:
		return name.String()

	case syntax.Relative:
		return Join(r.namespace, name.String())

	case syntax.Unqualified:
		if target, ok := r.funcs[strings.ToLower(name.Parts[0])]; ok {
			return target
		}

	case syntax.Qualified:
		if target, ok := r.names[strings.ToLower(name.Parts[0])]; ok {
			return target + `\` + strings.Join(name.Parts[1:], `\`)
		}
	}
	return Join(r.namespace, name.String())
}
