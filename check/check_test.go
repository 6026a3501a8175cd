// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package check_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/replguard/fncheck/ambient"
	"github.com/replguard/fncheck/check"
	"github.com/replguard/fncheck/internal/chunkedfile"
	"github.com/replguard/fncheck/resolve"
	"github.com/replguard/fncheck/syntax"
)

// checkUnit parses, resolves and checks src against env,
// recording declarations in scope.
func checkUnit(t *testing.T, filename, src string, env *ambient.Env, scope *check.Scope) error {
	t.Helper()
	f, err := syntax.Parse(filename, src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	if err := resolve.File(f); err != nil {
		t.Fatalf("resolve %q: %v", src, err)
	}
	pass := check.New(scope, resolve.Qualify, env.Exists)
	pass.Candidates = env.Names
	return pass.File(f)
}

func TestCheck(t *testing.T) {
	filename := "testdata/check.txtar"
	for _, chunk := range chunkedfile.Read(filename, t) {
		f, err := syntax.Parse(filename, chunk.Source)
		if err != nil {
			t.Error(err)
			continue
		}
		if err := resolve.File(f); err != nil {
			t.Errorf("%s: %v", chunk.Name, err)
			continue
		}
		env := ambient.New(`App\helper`, "MyFunc")
		if err := check.File(f, new(check.Scope), resolve.Qualify, env.Exists); err != nil {
			chunk.GotError(err.(*check.Error).Line, err.(*check.Error).Msg)
		}
		chunk.Done()
	}
}

func TestErrorFields(t *testing.T) {
	for _, test := range []struct {
		src  string
		want *check.Error // nil => accepted
	}{
		{"function foo() {}\nfunction foo() {}", &check.Error{
			Kind:     check.DuplicateFunctionDeclaration,
			Msg:      "Cannot redeclare foo()",
			Name:     "foo",
			Severity: check.SeverityCaught,
			File:     "unit.php",
			Line:     2,
		}},
		{"\n\nundefinedThing();", &check.Error{
			Kind:     check.UndefinedFunctionCall,
			Msg:      "Call to undefined function undefinedThing()",
			Name:     "undefinedThing",
			Severity: check.SeverityCaught,
			File:     "unit.php",
			Line:     3,
		}},
		{"namespace App;\nfunction strlen() {}", &check.Error{
			Kind:     check.DuplicateFunctionDeclaration,
			Msg:      `Cannot redeclare App\strlen()`,
			Name:     `App\strlen`,
			Severity: check.SeverityCaught,
			File:     "unit.php",
			Line:     2,
		}},
		{`\Foo\bar();`, &check.Error{
			Kind:     check.UndefinedFunctionCall,
			Msg:      `Call to undefined function Foo\bar()`,
			Name:     `Foo\bar`,
			Severity: check.SeverityCaught,
			File:     "unit.php",
			Line:     1,
		}},
		{"function bar() {}\nbar();", nil},
		{`strlen("x");`, nil},
		{`$fn(); $obj->m(); $a[0]();`, nil},
	} {
		err := checkUnit(t, "unit.php", test.src, ambient.New(), new(check.Scope))
		if test.want == nil {
			if err != nil {
				t.Errorf("check %q: unexpected error: %v", test.src, err)
			}
			continue
		}
		got, ok := err.(*check.Error)
		if !ok {
			t.Errorf("check %q: got %v, want *check.Error", test.src, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("check %q: mismatch (-want +got):\n%s", test.src, diff)
		}
	}
}

func TestErrorString(t *testing.T) {
	err := &check.Error{Msg: "Call to undefined function f()", File: "a.php", Line: 3}
	if got, want := err.Error(), "a.php:3: Call to undefined function f()"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	err.File = ""
	if got, want := err.Error(), "line 3: Call to undefined function f()"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if got := check.UndefinedFunctionCall.String(); got != "UndefinedFunctionCall" {
		t.Errorf("Kind.String() = %q", got)
	}
	if got := check.Kind(9).String(); got != "Kind(9)" {
		t.Errorf("Kind(9).String() = %q", got)
	}
	if got := check.SeverityCaught.String(); got != "caught" {
		t.Errorf("Severity.String() = %q", got)
	}
}

func TestFirstErrorOnly(t *testing.T) {
	for _, test := range []struct {
		src, want string
	}{
		{"a();\nb();", "a"},
		{`strlen(nope());`, "nope"},
		{`outer(inner());`, "inner"},
		{"function f() {}\nfunction f() {}\nmissing();", "f"},
		{"missing();\nfunction f() {}\nfunction f() {}", "missing"},
	} {
		err := checkUnit(t, "", test.src, ambient.New(), new(check.Scope))
		got, ok := err.(*check.Error)
		if !ok {
			t.Errorf("check %q: got %v, want *check.Error", test.src, err)
			continue
		}
		if got.Name != test.want {
			t.Errorf("check %q: reported %s, want %s", test.src, got.Name, test.want)
		}
	}
}

func TestScopeGrowsUntilError(t *testing.T) {
	scope := new(check.Scope)
	err := checkUnit(t, "", "function a() {}\nnope();\nfunction b() {}", ambient.New(), scope)
	if err == nil {
		t.Fatal("unexpected success")
	}
	if diff := cmp.Diff([]string{"a"}, scope.Names()); diff != "" {
		t.Errorf("scope mismatch (-want +got):\n%s", diff)
	}

	// A scope handed to a second unit carries its declarations.
	err = checkUnit(t, "", "function A() {}", ambient.New(), scope)
	if e, ok := err.(*check.Error); !ok || e.Kind != check.DuplicateFunctionDeclaration {
		t.Errorf("second unit: got %v, want duplicate declaration", err)
	}

	scope = new(check.Scope)
	if err := checkUnit(t, "", "namespace N;\nfunction a() {}\nfunction B() {}", ambient.New(), scope); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{`n\a`, `n\b`}, scope.Names()); diff != "" {
		t.Errorf("scope mismatch (-want +got):\n%s", diff)
	}
}

func TestHint(t *testing.T) {
	env := ambient.Empty()
	env.Define("strlen", "strtolower")
	for _, test := range []struct {
		src, want string
	}{
		{`strln("x");`, "did you mean strlen?"},
		{"function helper() {}\nhelpr();", "did you mean helper?"},
		{`zzzzzzzz();`, ""},
	} {
		err := checkUnit(t, "", test.src, env, new(check.Scope))
		got, ok := err.(*check.Error)
		if !ok {
			t.Errorf("check %q: got %v, want *check.Error", test.src, err)
			continue
		}
		if got.Hint != test.want {
			t.Errorf("check %q: hint %q, want %q", test.src, got.Hint, test.want)
		}
	}
}

func TestVisitIgnoresOtherNodes(t *testing.T) {
	pass := check.New(new(check.Scope), resolve.Qualify, ambient.Empty().Exists)
	for _, n := range []syntax.Node{
		&syntax.Variable{Name: "x"},
		&syntax.Literal{Token: syntax.INT, Raw: "1", Value: int64(1)},
		&syntax.CallExpr{Fn: &syntax.Variable{Name: "fn"}},
		&syntax.BlockStmt{},
	} {
		if err := pass.Visit(n); err != nil {
			t.Errorf("Visit(%T) = %v", n, err)
		}
	}
	if pass.Scope().Len() != 0 {
		t.Errorf("scope modified: %v", pass.Scope().Names())
	}
}
