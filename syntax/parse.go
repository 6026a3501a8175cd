// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// This file defines a recursive-descent parser for script units.
//
// Grammar, informally:
//
//	File       = {Stmt} .
//	Stmt       = NamespaceStmt | UseStmt | FuncDecl | ReturnStmt | EchoStmt
//	           | IfStmt | WhileStmt | Block | ';' | Expr ';' .
//	FuncDecl   = 'function' IDENT '(' [Params] ')' Block .
//	Expr       = Assign .
//	Assign     = Coalesce [('=' | '.=' | '+=' | '-=') Assign] .
//	Coalesce   = Or ['??' Coalesce] .
//	...        binary operators in order of increasing precedence
//	Unary      = ('!' | '-' | '+') Unary | Postfix .
//	Postfix    = Primary {'(' [Args] ')' | '[' [Expr] ']' | '->' IDENT} .
//	Primary    = Name | VARIABLE | literal | '(' Expr ')' | '[' [Elems] ']' | Closure .
//
// The final statement of a unit may omit its semicolon.

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// Parse parses the input data and returns the corresponding parse tree.
//
// If src != nil, Parse parses the source from src and the filename
// is only used when recording position information.
// The type of the argument for the src parameter must be string,
// []byte, or io.Reader.
// If src == nil, Parse parses the file specified by filename.
func Parse(filename string, src interface{}) (f *File, err error) {
	data, err := readSource(filename, src)
	if err != nil {
		return nil, err
	}
	p := parser{in: newScanner(filename, data)}
	defer p.in.recover(&err)

	p.nextToken() // read first lookahead token
	f = p.parseFile()
	f.Path = filename
	return f, nil
}

// ParseUnit parses a single unit of interactive input, which may span
// several lines. It calls readline, which must return each line of
// input including its newline, until the accumulated text is a
// complete unit; input that ends inside an open block, bracket, string
// or comment causes another line to be read.
//
// A unit containing only white space and comments yields a File with
// no statements.
func ParseUnit(filename string, readline func() ([]byte, error)) (*File, error) {
	var buf bytes.Buffer
	for {
		line, err := readline()
		if err != nil {
			return nil, err
		}
		buf.Write(line)

		f, err := Parse(filename, buf.Bytes())
		if err != nil && IsIncomplete(err) {
			continue
		}
		return f, err
	}
}

func readSource(filename string, src interface{}) ([]byte, error) {
	switch src := src.(type) {
	case string:
		return []byte(src), nil
	case []byte:
		return src, nil
	case io.Reader:
		return io.ReadAll(src)
	case nil:
		return os.ReadFile(filename)
	default:
		panic("invalid source type")
	}
}

type parser struct {
	in     *scanner
	tok    Token
	tokval tokenValue

	// one token of extra lookahead
	peeked     bool
	peekTok    Token
	peekTokval tokenValue
}

// nextToken advances the scanner and returns the position of the
// previous token.
func (p *parser) nextToken() Position {
	oldpos := p.tokval.pos
	if p.peeked {
		p.tok, p.tokval = p.peekTok, p.peekTokval
		p.peeked = false
	} else {
		p.tok = p.in.nextToken(&p.tokval)
	}
	return oldpos
}

// peek returns the token after the current one without consuming it.
func (p *parser) peek() Token {
	if !p.peeked {
		p.peekTok = p.in.nextToken(&p.peekTokval)
		p.peeked = true
	}
	return p.peekTok
}

// consume consumes a token of the specified type and returns its position.
func (p *parser) consume(t Token) Position {
	if p.tok != t {
		p.errorf(p.tokval.pos, "got %#v, want %#v", p.tok, t)
	}
	return p.nextToken()
}

// errorf reports a syntax error at pos. An error found at end of input
// is marked as incomplete input.
func (p *parser) errorf(pos Position, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if p.tok == EOF {
		p.in.errorEOF(pos, msg)
	}
	p.in.error(pos, msg)
}

func (p *parser) parseFile() *File {
	var stmts []Stmt
	for p.tok != EOF {
		stmts = p.parseTopStmt(stmts)
	}
	return &File{Stmts: stmts}
}

// parseTopStmt parses a statement at file level, where an unbraced
// namespace declaration absorbs the statements that follow it.
func (p *parser) parseTopStmt(stmts []Stmt) []Stmt {
	if p.tok == NAMESPACE && p.peek() != BACKSLASH {
		ns := p.parseNamespaceStmt()
		if !ns.Braced {
			for p.tok != EOF && !(p.tok == NAMESPACE && p.peek() != BACKSLASH) {
				if stmt := p.parseStmt(); stmt != nil {
					ns.Body = append(ns.Body, stmt)
				}
			}
			if len(ns.Body) > 0 {
				ns.End = End(ns.Body[len(ns.Body)-1])
			}
		}
		return append(stmts, ns)
	}
	if stmt := p.parseStmt(); stmt != nil {
		stmts = append(stmts, stmt)
	}
	return stmts
}

// parseNamespaceStmt parses the header of a namespace declaration,
// and its body if braced.
func (p *parser) parseNamespaceStmt() *NamespaceStmt {
	ns := &NamespaceStmt{Namespace: p.nextToken()}
	if p.tok == IDENT {
		ns.Name = p.parseName()
		if ns.Name.Kind != Unqualified && ns.Name.Kind != Qualified {
			p.errorf(ns.Name.NamePos, "invalid namespace name %s", ns.Name.Raw)
		}
	}
	if p.tok == LBRACE || ns.Name == nil {
		ns.Braced = true
		p.consume(LBRACE)
		for p.tok != RBRACE {
			if p.tok == EOF {
				p.errorf(p.tokval.pos, "unexpected end of input in namespace block")
			}
			if p.tok == NAMESPACE && p.peek() != BACKSLASH {
				p.errorf(p.tokval.pos, "namespace declarations cannot be nested")
			}
			if stmt := p.parseStmt(); stmt != nil {
				ns.Body = append(ns.Body, stmt)
			}
		}
		ns.End = p.nextToken().add("}")
		return ns
	}
	p.endStmt()
	return ns
}

// endStmt consumes the semicolon that terminates a simple statement.
// It may be omitted before end of input.
func (p *parser) endStmt() Position {
	if p.tok == EOF {
		return p.tokval.pos
	}
	return p.consume(SEMI)
}

// parseStmt parses a statement. It returns nil for an empty statement.
func (p *parser) parseStmt() Stmt {
	switch p.tok {
	case SEMI:
		p.nextToken()
		return nil

	case NAMESPACE:
		if p.peek() != BACKSLASH {
			// Accepted by the parser so that the resolver can report
			// a precise error for a misplaced declaration.
			return p.parseNamespaceStmt()
		}

	case USE:
		return p.parseUseStmt()

	case FUNCTION:
		if p.peek() == IDENT {
			return p.parseFuncDecl()
		}

	case RETURN:
		pos := p.nextToken()
		var result Expr
		if p.tok != SEMI && p.tok != EOF && p.tok != RBRACE {
			result = p.parseExpr()
		}
		p.endStmt()
		return &ReturnStmt{Return: pos, Result: result}

	case ECHO:
		pos := p.nextToken()
		args := []Expr{p.parseExpr()}
		for p.tok == COMMA {
			p.nextToken()
			args = append(args, p.parseExpr())
		}
		p.endStmt()
		return &EchoStmt{Echo: pos, Args: args}

	case IF:
		return p.parseIfStmt()

	case WHILE:
		pos := p.nextToken()
		p.consume(LPAREN)
		cond := p.parseExpr()
		p.consume(RPAREN)
		return &WhileStmt{While: pos, Cond: cond, Body: p.parseBody()}

	case LBRACE:
		return p.parseBlock()
	}

	x := p.parseExpr()
	p.endStmt()
	return &ExprStmt{X: x}
}

// parseBody parses the body of a compound statement: a block or a
// single statement.
func (p *parser) parseBody() Stmt {
	if p.tok == LBRACE {
		return p.parseBlock()
	}
	stmt := p.parseStmt()
	if stmt == nil {
		return &BlockStmt{}
	}
	return stmt
}

func (p *parser) parseBlock() *BlockStmt {
	block := &BlockStmt{Lbrace: p.consume(LBRACE)}
	block.List = p.parseStmtsUntilRbrace()
	block.Rbrace = p.nextToken()
	return block
}

// parseStmtsUntilRbrace parses statements up to, but not including,
// a closing brace.
func (p *parser) parseStmtsUntilRbrace() []Stmt {
	var stmts []Stmt
	for p.tok != RBRACE {
		if p.tok == EOF {
			p.errorf(p.tokval.pos, "unexpected end of input, expecting }")
		}
		if stmt := p.parseStmt(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func (p *parser) parseIfStmt() *IfStmt {
	ifpos := p.nextToken() // IF or ELSEIF
	p.consume(LPAREN)
	cond := p.parseExpr()
	p.consume(RPAREN)
	stmt := &IfStmt{If: ifpos, Cond: cond, True: p.parseBody()}
	switch p.tok {
	case ELSEIF:
		stmt.ElsePos = p.tokval.pos
		stmt.False = p.parseIfStmt()
	case ELSE:
		stmt.ElsePos = p.nextToken()
		if p.tok == IF {
			stmt.False = p.parseIfStmt()
		} else {
			stmt.False = p.parseBody()
		}
	}
	return stmt
}

// parseUseStmt parses: use [function|const] Name [as IDENT] {, ...};
func (p *parser) parseUseStmt() *UseStmt {
	stmt := &UseStmt{Use: p.nextToken()}
	switch {
	case p.tok == FUNCTION:
		p.nextToken()
		stmt.Kind = UseFunction
	case p.tok == IDENT && strings.EqualFold(p.tokval.raw, "const"):
		p.nextToken()
		stmt.Kind = UseConst
	}
	for {
		item := &UseItem{Name: p.parseName()}
		if item.Name.Kind == Relative {
			p.errorf(item.Name.NamePos, "invalid use of relative name %s", item.Name.Raw)
		}
		if p.tok == AS {
			p.nextToken()
			item.Alias = p.parseIdent()
		}
		stmt.Items = append(stmt.Items, item)
		if p.tok != COMMA {
			break
		}
		p.nextToken()
	}
	stmt.Semi = p.endStmt()
	return stmt
}

func (p *parser) parseFuncDecl() *FuncDecl {
	decl := &FuncDecl{Function: p.nextToken()}
	id := p.parseIdent()
	decl.Name = &Name{NamePos: id.NamePos, Kind: Unqualified, Parts: []string{id.Name}, Raw: id.Name}
	decl.Params = p.parseParams()
	p.consume(LBRACE)
	decl.Body = p.parseStmtsUntilRbrace()
	decl.Rbrace = p.nextToken()
	return decl
}

// parseParams parses a parenthesized parameter list.
func (p *parser) parseParams() []*Param {
	p.consume(LPAREN)
	var params []*Param
	for p.tok != RPAREN {
		param := new(Param)
		if p.tok == IDENT || p.tok == BACKSLASH || p.tok == NAMESPACE {
			param.Type = p.parseName()
		}
		if p.tok != VARIABLE {
			p.errorf(p.tokval.pos, "got %#v, want parameter variable", p.tok)
		}
		param.Var = p.parseVariable()
		if p.tok == EQ {
			p.nextToken()
			param.Default = p.parseExpr()
		}
		params = append(params, param)
		if p.tok != COMMA {
			break
		}
		p.nextToken()
	}
	p.consume(RPAREN)
	return params
}

func (p *parser) parseIdent() *Ident {
	if p.tok != IDENT {
		p.errorf(p.tokval.pos, "got %#v, want identifier", p.tok)
	}
	id := &Ident{NamePos: p.tokval.pos, Name: p.tokval.raw}
	p.nextToken()
	return id
}

func (p *parser) parseVariable() *Variable {
	v := &Variable{NamePos: p.tokval.pos, Name: p.tokval.string}
	p.consume(VARIABLE)
	return v
}

// parseName parses a literal name path: f, A\f, \A\f or namespace\f.
func (p *parser) parseName() *Name {
	name := &Name{NamePos: p.tokval.pos, Kind: Unqualified}
	var raw strings.Builder
	switch p.tok {
	case BACKSLASH:
		name.Kind = FullyQualified
		raw.WriteString(`\`)
		p.nextToken()
	case NAMESPACE:
		name.Kind = Relative
		raw.WriteString(p.tokval.raw + `\`)
		p.nextToken()
		p.consume(BACKSLASH)
	}
	for {
		if p.tok != IDENT {
			p.errorf(p.tokval.pos, "got %#v, want identifier", p.tok)
		}
		name.Parts = append(name.Parts, p.tokval.raw)
		raw.WriteString(p.tokval.raw)
		p.nextToken()
		if p.tok != BACKSLASH {
			break
		}
		raw.WriteString(`\`)
		p.nextToken()
	}
	if name.Kind == Unqualified && len(name.Parts) > 1 {
		name.Kind = Qualified
	}
	name.Raw = raw.String()
	return name
}

// Expressions

func (p *parser) parseExpr() Expr {
	x := p.parseBinary(0)
	switch p.tok {
	case EQ, DOT_EQ, PLUS_EQ, MINUS_EQ:
		switch x.(type) {
		case *Variable, *IndexExpr, *PropertyExpr:
		default:
			p.errorf(Start(x), "cannot assign to this expression")
		}
		op := p.tok
		pos := p.nextToken()
		return &AssignExpr{LHS: x, OpPos: pos, Op: op, RHS: p.parseExpr()}
	}
	return x
}

// precedence maps each binary operator to its precedence (0-6).
// Higher numbers bind tighter.
var precedence [maxToken]int8

// preclevels groups operators of equal precedence.
var preclevels = [...][]Token{
	{COALESCE},
	{OROR},
	{ANDAND},
	{EQL, NEQ, IDENTICAL, NOT_IDENTICAL},
	{LT, LE, GT, GE},
	{PLUS, MINUS, DOT},
	{STAR, SLASH, PERCENT},
}

func init() {
	for i := range precedence {
		precedence[i] = -1
	}
	for level, tokens := range preclevels {
		for _, tok := range tokens {
			precedence[tok] = int8(level)
		}
	}
}

// parseBinary parses binary expressions whose operators bind at
// least as tightly as prec. COALESCE is right-associative.
func (p *parser) parseBinary(prec int) Expr {
	x := p.parseUnary()
	for {
		opprec := int(precedence[p.tok])
		if opprec < prec {
			return x
		}
		op := p.tok
		pos := p.nextToken()
		next := opprec + 1
		if op == COALESCE {
			next = opprec
		}
		y := p.parseBinary(next)
		x = &BinaryExpr{X: x, OpPos: pos, Op: op, Y: y}
	}
}

func (p *parser) parseUnary() Expr {
	switch p.tok {
	case NOT, MINUS, PLUS:
		op := p.tok
		pos := p.nextToken()
		return &UnaryExpr{OpPos: pos, Op: op, X: p.parseUnary()}
	}
	return p.parsePostfix(p.parsePrimary())
}

func (p *parser) parsePostfix(x Expr) Expr {
	for {
		switch p.tok {
		case LPAREN:
			lparen := p.nextToken()
			var args []Expr
			for p.tok != RPAREN {
				args = append(args, p.parseExpr())
				if p.tok != COMMA {
					break
				}
				p.nextToken()
			}
			rparen := p.consume(RPAREN)
			x = &CallExpr{Fn: x, Lparen: lparen, Args: args, Rparen: rparen}
		case LBRACK:
			lbrack := p.nextToken()
			var y Expr
			if p.tok != RBRACK {
				y = p.parseExpr()
			}
			rbrack := p.consume(RBRACK)
			x = &IndexExpr{X: x, Lbrack: lbrack, Y: y, Rbrack: rbrack}
		case ARROW:
			arrow := p.nextToken()
			x = &PropertyExpr{X: x, Arrow: arrow, Name: p.parseIdent()}
		default:
			return x
		}
	}
}

func (p *parser) parsePrimary() Expr {
	switch p.tok {
	case IDENT, BACKSLASH:
		return p.parseName()

	case NAMESPACE:
		if p.peek() == BACKSLASH {
			return p.parseName()
		}

	case VARIABLE:
		return p.parseVariable()

	case INT, FLOAT, STRING:
		var val interface{}
		switch p.tok {
		case INT:
			val = p.tokval.int
		case FLOAT:
			val = p.tokval.float
		case STRING:
			val = p.tokval.string
		}
		lit := &Literal{Token: p.tok, TokenPos: p.tokval.pos, Raw: p.tokval.raw, Value: val}
		p.nextToken()
		return lit

	case LPAREN:
		lparen := p.nextToken()
		x := p.parseExpr()
		rparen := p.consume(RPAREN)
		return &ParenExpr{Lparen: lparen, X: x, Rparen: rparen}

	case LBRACK:
		lbrack := p.nextToken()
		var list []Expr
		for p.tok != RBRACK {
			elem := p.parseExpr()
			if p.tok == DOUBLE_ARROW {
				pos := p.nextToken()
				elem = &BinaryExpr{X: elem, OpPos: pos, Op: DOUBLE_ARROW, Y: p.parseExpr()}
			}
			list = append(list, elem)
			if p.tok != COMMA {
				break
			}
			p.nextToken()
		}
		rbrack := p.consume(RBRACK)
		return &ArrayExpr{Lbrack: lbrack, List: list, Rbrack: rbrack}

	case FUNCTION:
		return p.parseClosure()
	}
	p.errorf(p.tokval.pos, "got %#v, want primary expression", p.tok)
	panic("unreachable")
}

// parseClosure parses: function (Params) [use (Vars)] { Body }
func (p *parser) parseClosure() *ClosureExpr {
	fn := &ClosureExpr{Function: p.nextToken()}
	fn.Params = p.parseParams()
	if p.tok == USE {
		p.nextToken()
		p.consume(LPAREN)
		for p.tok != RPAREN {
			if p.tok != VARIABLE {
				p.errorf(p.tokval.pos, "got %#v, want variable", p.tok)
			}
			fn.Uses = append(fn.Uses, p.parseVariable())
			if p.tok != COMMA {
				break
			}
			p.nextToken()
		}
		p.consume(RPAREN)
	}
	p.consume(LBRACE)
	fn.Body = p.parseStmtsUntilRbrace()
	fn.Rbrace = p.nextToken()
	return fn
}
