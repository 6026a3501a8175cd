// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// Walk traverses a syntax tree in depth-first order.
// It starts by calling f(n); n must not be nil.
// If f returns true, Walk calls itself
// recursively for each non-nil child of n.
// Walk then calls f(nil).
func Walk(n Node, f func(Node) bool) {
	if n == nil {
		panic("nil")
	}
	if !f(n) {
		return
	}

	switch n := n.(type) {
	case *File:
		walkStmts(n.Stmts, f)

	case *NamespaceStmt:
		if n.Name != nil {
			Walk(n.Name, f)
		}
		walkStmts(n.Body, f)

	case *UseStmt:
		for _, item := range n.Items {
			Walk(item, f)
		}

	case *UseItem:
		Walk(n.Name, f)
		if n.Alias != nil {
			Walk(n.Alias, f)
		}

	case *FuncDecl:
		Walk(n.Name, f)
		walkParams(n.Params, f)
		walkStmts(n.Body, f)

	case *Param:
		if n.Type != nil {
			Walk(n.Type, f)
		}
		Walk(n.Var, f)
		if n.Default != nil {
			Walk(n.Default, f)
		}

	case *ExprStmt:
		Walk(n.X, f)

	case *EchoStmt:
		walkExprs(n.Args, f)

	case *ReturnStmt:
		if n.Result != nil {
			Walk(n.Result, f)
		}

	case *IfStmt:
		Walk(n.Cond, f)
		Walk(n.True, f)
		if n.False != nil {
			Walk(n.False, f)
		}

	case *WhileStmt:
		Walk(n.Cond, f)
		Walk(n.Body, f)

	case *BlockStmt:
		walkStmts(n.List, f)

	case *Name, *Ident, *Variable, *Literal:
		// no children

	case *CallExpr:
		Walk(n.Fn, f)
		walkExprs(n.Args, f)

	case *PropertyExpr:
		Walk(n.X, f)
		Walk(n.Name, f)

	case *IndexExpr:
		Walk(n.X, f)
		if n.Y != nil {
			Walk(n.Y, f)
		}

	case *ParenExpr:
		Walk(n.X, f)

	case *UnaryExpr:
		Walk(n.X, f)

	case *BinaryExpr:
		Walk(n.X, f)
		Walk(n.Y, f)

	case *AssignExpr:
		Walk(n.LHS, f)
		Walk(n.RHS, f)

	case *ArrayExpr:
		walkExprs(n.List, f)

	case *ClosureExpr:
		walkParams(n.Params, f)
		for _, v := range n.Uses {
			Walk(v, f)
		}
		walkStmts(n.Body, f)

	default:
		panic(n)
	}

	f(nil)
}

func walkStmts(stmts []Stmt, f func(Node) bool) {
	for _, stmt := range stmts {
		Walk(stmt, f)
	}
}

func walkExprs(exprs []Expr, f func(Node) bool) {
	for _, expr := range exprs {
		Walk(expr, f)
	}
}

func walkParams(params []*Param, f func(Node) bool) {
	for _, param := range params {
		Walk(param, f)
	}
}

// PostOrder calls visit for each node of the tree rooted at n,
// children before their parent and siblings in source order.
// It stops at the first non-nil error returned by visit and returns it.
func PostOrder(n Node, visit func(Node) error) error {
	var (
		stack []Node
		err   error
	)
	Walk(n, func(n Node) bool {
		if err != nil {
			return false
		}
		if n != nil {
			stack = append(stack, n)
			return true
		}
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		err = visit(top)
		return true
	})
	return err
}
