// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntax provides a parser and abstract syntax tree for
// script units submitted to the interactive shell.
//
// The language is a small PHP-like subset: namespaces, use
// declarations, free-standing functions, closures, variables and
// calls. It is just rich enough to exercise the function-name checks
// performed before a unit is evaluated.
package syntax

import "strings"

// A Node is a node in a syntax tree.
type Node interface {
	// Span returns the start and end position of the node.
	Span() (start, end Position)
}

// Start returns the start position of the node.
func Start(n Node) Position {
	start, _ := n.Span()
	return start
}

// End returns the end position of the node.
func End(n Node) Position {
	_, end := n.Span()
	return end
}

// A File represents one parsed unit of input.
type File struct {
	Path  string
	Stmts []Stmt
}

func (x *File) Span() (start, end Position) {
	if len(x.Stmts) == 0 {
		return
	}
	start, _ = x.Stmts[0].Span()
	_, end = x.Stmts[len(x.Stmts)-1].Span()
	return start, end
}

// A Stmt is a statement.
type Stmt interface {
	Node
	stmt()
}

func (*BlockStmt) stmt()     {}
func (*EchoStmt) stmt()      {}
func (*ExprStmt) stmt()      {}
func (*FuncDecl) stmt()      {}
func (*IfStmt) stmt()        {}
func (*NamespaceStmt) stmt() {}
func (*ReturnStmt) stmt()    {}
func (*UseStmt) stmt()       {}
func (*WhileStmt) stmt()     {}

// A NamespaceStmt declares the namespace of the statements it encloses:
//
//	namespace A\B;
//	namespace A\B { ... }
//	namespace { ... }
//
// The unbraced form extends to the next namespace declaration or the
// end of the unit; the parser places those statements in Body.
type NamespaceStmt struct {
	Namespace Position
	Name      *Name // nil for the global namespace
	Braced    bool
	Body      []Stmt
	End       Position // closing brace, or end of the last statement
}

func (x *NamespaceStmt) Span() (start, end Position) {
	end = x.End
	if !end.IsValid() {
		end = x.Namespace.add("namespace")
	}
	return x.Namespace, end
}

// NameString returns the declared namespace, or "" for the global one.
func (x *NamespaceStmt) NameString() string {
	if x.Name == nil {
		return ""
	}
	return x.Name.String()
}

// UseKind distinguishes the forms of the use statement.
type UseKind uint8

const (
	UseNormal   UseKind = iota // use A\B;
	UseFunction                // use function A\f;
	UseConst                   // use const A\C;
)

var useKindNames = [...]string{
	UseNormal:   "normal",
	UseFunction: "function",
	UseConst:    "const",
}

func (k UseKind) String() string { return useKindNames[k] }

// A UseStmt imports names into the current namespace:
//
//	use function A\f, B\g as h;
type UseStmt struct {
	Use   Position
	Kind  UseKind
	Items []*UseItem
	Semi  Position
}

func (x *UseStmt) Span() (start, end Position) {
	return x.Use, x.Semi.add(";")
}

// A UseItem is a single imported name with its optional alias.
type UseItem struct {
	Name  *Name
	Alias *Ident // may be nil
}

func (x *UseItem) Span() (start, end Position) {
	start, end = x.Name.Span()
	if x.Alias != nil {
		_, end = x.Alias.Span()
	}
	return start, end
}

// AliasName returns the name under which the item is imported.
func (x *UseItem) AliasName() string {
	if x.Alias != nil {
		return x.Alias.Name
	}
	return x.Name.Parts[len(x.Name.Parts)-1]
}

// A FuncDecl represents a named function declaration:
//
//	function f($x, $y = 1) { ... }
type FuncDecl struct {
	Function Position
	Name     *Name // always Unqualified
	Params   []*Param
	Body     []Stmt
	Rbrace   Position
}

func (x *FuncDecl) Span() (start, end Position) {
	return x.Function, x.Rbrace.add("}")
}

// A Param is a parameter of a function or closure.
type Param struct {
	Type    *Name // optional type hint
	Var     *Variable
	Default Expr // may be nil
}

func (x *Param) Span() (start, end Position) {
	start, end = x.Var.Span()
	if x.Type != nil {
		start, _ = x.Type.Span()
	}
	if x.Default != nil {
		_, end = x.Default.Span()
	}
	return start, end
}

// An ExprStmt is an expression evaluated for side effects.
type ExprStmt struct {
	X Expr
}

func (x *ExprStmt) Span() (start, end Position) {
	return x.X.Span()
}

// An EchoStmt prints its operands: echo X, Y;
type EchoStmt struct {
	Echo Position
	Args []Expr
}

func (x *EchoStmt) Span() (start, end Position) {
	_, end = x.Args[len(x.Args)-1].Span()
	return x.Echo, end
}

// A ReturnStmt returns from a function.
type ReturnStmt struct {
	Return Position
	Result Expr // may be nil
}

func (x *ReturnStmt) Span() (start, end Position) {
	if x.Result == nil {
		return x.Return, x.Return.add("return")
	}
	_, end = x.Result.Span()
	return x.Return, end
}

// An IfStmt is a conditional: if (Cond) True else False.
// 'elseif' is desugared into a chain of IfStmts.
type IfStmt struct {
	If      Position // IF or ELSEIF
	Cond    Expr
	True    Stmt
	ElsePos Position // ELSE or ELSEIF
	False   Stmt     // optional
}

func (x *IfStmt) Span() (start, end Position) {
	body := x.False
	if body == nil {
		body = x.True
	}
	_, end = body.Span()
	return x.If, end
}

// A WhileStmt is a loop: while (Cond) Body.
type WhileStmt struct {
	While Position
	Cond  Expr
	Body  Stmt
}

func (x *WhileStmt) Span() (start, end Position) {
	_, end = x.Body.Span()
	return x.While, end
}

// A BlockStmt is a braced statement list: { ... }.
type BlockStmt struct {
	Lbrace Position
	List   []Stmt
	Rbrace Position
}

func (x *BlockStmt) Span() (start, end Position) {
	return x.Lbrace, x.Rbrace.add("}")
}

// An Expr is an expression.
type Expr interface {
	Node
	expr()
}

func (*ArrayExpr) expr()    {}
func (*AssignExpr) expr()   {}
func (*BinaryExpr) expr()   {}
func (*CallExpr) expr()     {}
func (*ClosureExpr) expr()  {}
func (*IndexExpr) expr()    {}
func (*Literal) expr()      {}
func (*Name) expr()         {}
func (*ParenExpr) expr()    {}
func (*PropertyExpr) expr() {}
func (*UnaryExpr) expr()    {}
func (*Variable) expr()     {}

// NameKind records how a name was written.
type NameKind uint8

const (
	Unqualified    NameKind = iota // f
	Qualified                      // A\f
	FullyQualified                 // \A\f
	Relative                       // namespace\f
)

var nameKindNames = [...]string{
	Unqualified:    "unqualified",
	Qualified:      "qualified",
	FullyQualified: "fully qualified",
	Relative:       "relative",
}

func (k NameKind) String() string { return nameKindNames[k] }

// A Name is a literal, possibly namespaced, identifier path such as
// the callee of f(), A\f() or \A\f().
type Name struct {
	NamePos Position
	Kind    NameKind
	Parts   []string // segments, without any leading \ or namespace\
	Raw     string   // text as written

	// set by resolver:
	Resolved string // fully-qualified form, without a leading \
}

func (x *Name) Span() (start, end Position) {
	return x.NamePos, x.NamePos.add(x.Raw)
}

// String returns the segments of the name joined by the namespace
// separator, with no qualification applied.
func (x *Name) String() string { return strings.Join(x.Parts, `\`) }

// An Ident is a bare identifier such as a property name or an alias.
type Ident struct {
	NamePos Position
	Name    string
}

func (x *Ident) Span() (start, end Position) {
	return x.NamePos, x.NamePos.add(x.Name)
}

// A Variable is a variable reference: $x.
type Variable struct {
	NamePos Position
	Name    string // without the $
}

func (x *Variable) Span() (start, end Position) {
	return x.NamePos, x.NamePos.add("$" + x.Name)
}

// A Literal represents a literal string or number.
type Literal struct {
	Token    Token // = STRING | INT | FLOAT
	TokenPos Position
	Raw      string      // uninterpreted text
	Value    interface{} // = string | int64 | float64
}

func (x *Literal) Span() (start, end Position) {
	return x.TokenPos, x.TokenPos.add(x.Raw)
}

// A CallExpr represents a function call expression: Fn(Args).
//
// Fn is a *Name when the callee is written literally; any other
// expression denotes a callee computed at run time.
type CallExpr struct {
	Fn     Expr
	Lparen Position
	Args   []Expr
	Rparen Position
}

func (x *CallExpr) Span() (start, end Position) {
	start, _ = x.Fn.Span()
	return start, x.Rparen.add(")")
}

// A PropertyExpr represents a property or method selector: X->Name.
type PropertyExpr struct {
	X     Expr
	Arrow Position
	Name  *Ident
}

func (x *PropertyExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	_, end = x.Name.Span()
	return
}

// An IndexExpr represents an index expression: X[Y].
type IndexExpr struct {
	X      Expr
	Lbrack Position
	Y      Expr // nil in $a[] = v
	Rbrack Position
}

func (x *IndexExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	return start, x.Rbrack.add("]")
}

// A ParenExpr represents a parenthesized expression: (X).
type ParenExpr struct {
	Lparen Position
	X      Expr
	Rparen Position
}

func (x *ParenExpr) Span() (start, end Position) {
	return x.Lparen, x.Rparen.add(")")
}

// A UnaryExpr represents a unary expression: Op X.
type UnaryExpr struct {
	OpPos Position
	Op    Token
	X     Expr
}

func (x *UnaryExpr) Span() (start, end Position) {
	_, end = x.X.Span()
	return x.OpPos, end
}

// A BinaryExpr represents a binary expression: X Op Y.
type BinaryExpr struct {
	X     Expr
	OpPos Position
	Op    Token
	Y     Expr
}

func (x *BinaryExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	_, end = x.Y.Span()
	return start, end
}

// An AssignExpr represents an assignment: LHS Op RHS,
// where Op is one of = .= += -=.
type AssignExpr struct {
	LHS   Expr
	OpPos Position
	Op    Token
	RHS   Expr
}

func (x *AssignExpr) Span() (start, end Position) {
	start, _ = x.LHS.Span()
	_, end = x.RHS.Span()
	return start, end
}

// An ArrayExpr represents an array literal: [List].
// Keyed elements are represented as BinaryExprs with Op DOUBLE_ARROW.
type ArrayExpr struct {
	Lbrack Position
	List   []Expr
	Rbrack Position
}

func (x *ArrayExpr) Span() (start, end Position) {
	return x.Lbrack, x.Rbrack.add("]")
}

// A ClosureExpr represents an anonymous function:
//
//	function ($x) use ($y) { ... }
//
// It declares no name and is never a FuncDecl.
type ClosureExpr struct {
	Function Position
	Params   []*Param
	Uses     []*Variable
	Body     []Stmt
	Rbrace   Position
}

func (x *ClosureExpr) Span() (start, end Position) {
	return x.Function, x.Rbrace.add("}")
}
