// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// A lexical scanner for script units.

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// A Token represents a lexical token.
type Token int8

const (
	ILLEGAL Token = iota
	EOF

	// tokens with values
	IDENT    // x
	VARIABLE // $x
	INT      // 123
	FLOAT    // 1.23
	STRING   // "foo" or 'foo'

	// punctuation
	BACKSLASH     // \
	LPAREN        // (
	RPAREN        // )
	LBRACK        // [
	RBRACK        // ]
	LBRACE        // {
	RBRACE        // }
	SEMI          // ;
	COMMA         // ,
	EQ            // =
	DOT           // .
	PLUS          // +
	MINUS         // -
	STAR          // *
	SLASH         // /
	PERCENT       // %
	EQL           // ==
	NEQ           // !=
	IDENTICAL     // ===
	NOT_IDENTICAL // !==
	LT            // <
	LE            // <=
	GT            // >
	GE            // >=
	NOT           // !
	ANDAND        // &&
	OROR          // ||
	ARROW         // ->
	DOUBLE_ARROW  // =>
	COALESCE      // ??
	DOT_EQ        // .=
	PLUS_EQ       // +=
	MINUS_EQ      // -=

	// keywords
	AS
	ECHO
	ELSE
	ELSEIF
	FUNCTION
	IF
	NAMESPACE
	RETURN
	USE
	WHILE

	maxToken
)

func (tok Token) String() string { return tokenNames[tok] }

// GoString is like String but quotes punctuation and keyword tokens.
func (tok Token) GoString() string {
	if tok >= BACKSLASH {
		return "'" + tokenNames[tok] + "'"
	}
	return tokenNames[tok]
}

var tokenNames = [...]string{
	ILLEGAL:       "illegal token",
	EOF:           "end of file",
	IDENT:         "identifier",
	VARIABLE:      "variable",
	INT:           "int literal",
	FLOAT:         "float literal",
	STRING:        "string literal",
	BACKSLASH:     `\`,
	LPAREN:        "(",
	RPAREN:        ")",
	LBRACK:        "[",
	RBRACK:        "]",
	LBRACE:        "{",
	RBRACE:        "}",
	SEMI:          ";",
	COMMA:         ",",
	EQ:            "=",
	DOT:           ".",
	PLUS:          "+",
	MINUS:         "-",
	STAR:          "*",
	SLASH:         "/",
	PERCENT:       "%",
	EQL:           "==",
	NEQ:           "!=",
	IDENTICAL:     "===",
	NOT_IDENTICAL: "!==",
	LT:            "<",
	LE:            "<=",
	GT:            ">",
	GE:            ">=",
	NOT:           "!",
	ANDAND:        "&&",
	OROR:          "||",
	ARROW:         "->",
	DOUBLE_ARROW:  "=>",
	COALESCE:      "??",
	DOT_EQ:        ".=",
	PLUS_EQ:       "+=",
	MINUS_EQ:      "-=",
	AS:            "as",
	ECHO:          "echo",
	ELSE:          "else",
	ELSEIF:        "elseif",
	FUNCTION:      "function",
	IF:            "if",
	NAMESPACE:     "namespace",
	RETURN:        "return",
	USE:           "use",
	WHILE:         "while",
}

// Keywords are matched case-insensitively.
var keywordToken = map[string]Token{
	"as":        AS,
	"echo":      ECHO,
	"else":      ELSE,
	"elseif":    ELSEIF,
	"function":  FUNCTION,
	"if":        IF,
	"namespace": NAMESPACE,
	"return":    RETURN,
	"use":       USE,
	"while":     WHILE,
}

// Operators, longest first within each leading byte.
var operators = []struct {
	text string
	tok  Token
}{
	{"===", IDENTICAL},
	{"!==", NOT_IDENTICAL},
	{"==", EQL},
	{"=>", DOUBLE_ARROW},
	{"!=", NEQ},
	{"<=", LE},
	{">=", GE},
	{"&&", ANDAND},
	{"||", OROR},
	{"->", ARROW},
	{"-=", MINUS_EQ},
	{"??", COALESCE},
	{".=", DOT_EQ},
	{"+=", PLUS_EQ},
	{`\`, BACKSLASH},
	{"(", LPAREN},
	{")", RPAREN},
	{"[", LBRACK},
	{"]", RBRACK},
	{"{", LBRACE},
	{"}", RBRACE},
	{";", SEMI},
	{",", COMMA},
	{"=", EQ},
	{".", DOT},
	{"+", PLUS},
	{"-", MINUS},
	{"*", STAR},
	{"/", SLASH},
	{"%", PERCENT},
	{"<", LT},
	{">", GT},
	{"!", NOT},
}

// A Position describes the location of a rune of input.
type Position struct {
	file *string // filename (indirect for compactness)
	Line int32   // 1-based line number; 0 if line unknown
	Col  int32   // 1-based column (rune) number; 0 if column unknown
}

// IsValid reports whether the position is valid.
func (p Position) IsValid() bool { return p.file != nil }

// Filename returns the name of the file containing this position.
func (p Position) Filename() string {
	if p.file != nil {
		return *p.file
	}
	return ""
}

// MakePosition returns position with the specified components.
func MakePosition(file *string, line, col int32) Position { return Position{file, line, col} }

// add returns the position at the end of s, assuming it starts at p.
func (p Position) add(s string) Position {
	if n := strings.Count(s, "\n"); n > 0 {
		p.Line += int32(n)
		s = s[strings.LastIndex(s, "\n")+1:]
		p.Col = 1
	}
	p.Col += int32(utf8.RuneCountInString(s))
	return p
}

func (p Position) String() string {
	file := p.Filename()
	if p.Line > 0 {
		if p.Col > 0 {
			if file == "" {
				return fmt.Sprintf("%d:%d", p.Line, p.Col)
			}
			return fmt.Sprintf("%s:%d:%d", file, p.Line, p.Col)
		}
		if file == "" {
			return fmt.Sprintf("%d", p.Line)
		}
		return fmt.Sprintf("%s:%d", file, p.Line)
	}
	return file
}

// An Error is a syntax error, reported with the position of the
// offending token.
type Error struct {
	Pos Position
	Msg string

	eof bool // the error arose at end of input
}

func (e Error) Error() string {
	if s := e.Pos.String(); s != "" {
		return s + ": " + e.Msg
	}
	return e.Msg
}

// IsIncomplete reports whether err is a syntax error caused by input
// that ended too early, such as an unclosed block or string.
// Appending more input may make it parse.
func IsIncomplete(err error) bool {
	e, ok := err.(Error)
	return ok && e.eof
}

// A tokenValue holds the value of a token.
type tokenValue struct {
	raw    string  // raw text of token
	int    int64   // decoded int
	float  float64 // decoded float
	string string  // decoded string or variable name
	pos    Position
}

type scanner struct {
	rest     []byte // rest of input
	token    []byte // token being scanned
	pos      Position
	skipOpen bool // a leading <?php tag may follow
}

func newScanner(filename string, src []byte) *scanner {
	return &scanner{
		rest:     src,
		pos:      MakePosition(&filename, 1, 1),
		skipOpen: true,
	}
}

// error aborts the scan with a syntax error at pos.
func (sc *scanner) error(pos Position, msg string) {
	panic(Error{Pos: pos, Msg: msg})
}

// errorEOF is like error but marks the failure as caused by
// premature end of input.
func (sc *scanner) errorEOF(pos Position, msg string) {
	panic(Error{Pos: pos, Msg: msg, eof: true})
}

func (sc *scanner) recover(err *error) {
	switch e := recover().(type) {
	case nil:
		// no panic
	case Error:
		*err = e
	default:
		panic(e)
	}
}

func (sc *scanner) eof() bool { return len(sc.rest) == 0 }

// peekRune returns the next rune in the input without consuming it.
func (sc *scanner) peekRune() rune {
	if len(sc.rest) == 0 {
		return 0
	}
	if b := sc.rest[0]; b < utf8.RuneSelf {
		return rune(b)
	}
	r, _ := utf8.DecodeRune(sc.rest)
	return r
}

// readRune consumes and returns the next rune in the input.
func (sc *scanner) readRune() rune {
	if len(sc.rest) == 0 {
		sc.errorEOF(sc.pos, "internal scanner error: readRune at EOF")
	}
	r, size := rune(sc.rest[0]), 1
	if r >= utf8.RuneSelf {
		r, size = utf8.DecodeRune(sc.rest)
		if r == utf8.RuneError && size == 1 {
			sc.error(sc.pos, "invalid UTF-8 encoding")
		}
	}
	sc.rest = sc.rest[size:]
	if r == '\n' {
		sc.pos.Line++
		sc.pos.Col = 1
	} else {
		sc.pos.Col++
	}
	return r
}

func (sc *scanner) startToken(val *tokenValue) {
	sc.token = sc.rest
	val.pos = sc.pos
}

func (sc *scanner) endToken(val *tokenValue) {
	if sc.token != nil {
		val.raw = string(sc.token[:len(sc.token)-len(sc.rest)])
		sc.token = nil
	}
}

func (sc *scanner) hasPrefix(s string) bool {
	return len(sc.rest) >= len(s) && string(sc.rest[:len(s)]) == s
}

// skip consumes whitespace and comments.
func (sc *scanner) skip() {
	if sc.skipOpen {
		sc.skipOpen = false
		if len(sc.rest) >= 5 && strings.EqualFold(string(sc.rest[:5]), "<?php") {
			for i := 0; i < 5; i++ {
				sc.readRune()
			}
		}
	}
	for !sc.eof() {
		switch c := sc.peekRune(); {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			sc.readRune()
		case c == '#' || sc.hasPrefix("//"):
			for !sc.eof() && sc.peekRune() != '\n' {
				sc.readRune()
			}
		case sc.hasPrefix("/*"):
			start := sc.pos
			sc.readRune()
			sc.readRune()
			for !sc.hasPrefix("*/") {
				if sc.eof() {
					sc.errorEOF(start, "unterminated comment")
				}
				sc.readRune()
			}
			sc.readRune()
			sc.readRune()
		default:
			return
		}
	}
}

// nextToken is called by the parser to obtain the next input token.
// It returns the token value and sets val to the data associated with
// the token.
func (sc *scanner) nextToken(val *tokenValue) Token {
	sc.skip()
	sc.startToken(val)
	defer sc.endToken(val)

	if sc.eof() {
		return EOF
	}

	c := sc.peekRune()
	switch {
	case isIdentStart(c):
		for isIdent(sc.peekRune()) {
			sc.readRune()
		}
		sc.endToken(val)
		if k, ok := keywordToken[strings.ToLower(val.raw)]; ok {
			return k
		}
		return IDENT

	case c == '$':
		sc.readRune()
		if !isIdentStart(sc.peekRune()) {
			sc.error(val.pos, "invalid variable name")
		}
		for isIdent(sc.peekRune()) {
			sc.readRune()
		}
		sc.endToken(val)
		val.string = val.raw[1:]
		return VARIABLE

	case isDigit(c):
		return sc.scanNumber(val)

	case c == '\'' || c == '"':
		return sc.scanString(val, c)
	}

	for _, op := range operators {
		if sc.hasPrefix(op.text) {
			for range op.text {
				sc.readRune()
			}
			return op.tok
		}
	}
	sc.error(sc.pos, fmt.Sprintf("unexpected input character %#q", c))
	panic("unreachable")
}

func (sc *scanner) scanNumber(val *tokenValue) Token {
	start := sc.pos
	if sc.hasPrefix("0x") || sc.hasPrefix("0X") {
		sc.readRune()
		sc.readRune()
		for isHex(sc.peekRune()) {
			sc.readRune()
		}
	} else {
		for isDigit(sc.peekRune()) {
			sc.readRune()
		}
		if sc.peekRune() == '.' && len(sc.rest) > 1 && isDigit(rune(sc.rest[1])) {
			sc.readRune()
			for isDigit(sc.peekRune()) {
				sc.readRune()
			}
			sc.endToken(val)
			f, err := strconv.ParseFloat(val.raw, 64)
			if err != nil {
				sc.error(start, "invalid float literal")
			}
			val.float = f
			return FLOAT
		}
	}
	sc.endToken(val)
	i, err := strconv.ParseInt(val.raw, 0, 64)
	if err != nil {
		sc.error(start, "invalid int literal")
	}
	val.int = i
	return INT
}

func (sc *scanner) scanString(val *tokenValue, quote rune) Token {
	start := sc.pos
	sc.readRune()
	var buf strings.Builder
	for {
		if sc.eof() {
			sc.errorEOF(start, "unterminated string literal")
		}
		c := sc.readRune()
		if c == quote {
			break
		}
		if c != '\\' {
			buf.WriteRune(c)
			continue
		}
		if sc.eof() {
			sc.errorEOF(start, "unterminated string literal")
		}
		e := sc.peekRune()
		switch {
		case e == quote || e == '\\':
			buf.WriteRune(sc.readRune())
		case quote == '"' && e == 'n':
			sc.readRune()
			buf.WriteByte('\n')
		case quote == '"' && e == 't':
			sc.readRune()
			buf.WriteByte('\t')
		case quote == '"' && e == 'r':
			sc.readRune()
			buf.WriteByte('\r')
		case quote == '"' && e == '$':
			sc.readRune()
			buf.WriteByte('$')
		default:
			buf.WriteByte('\\')
		}
	}
	sc.endToken(val)
	val.string = buf.String()
	return STRING
}

func isDigit(c rune) bool { return '0' <= c && c <= '9' }

func isHex(c rune) bool {
	return isDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func isIdentStart(c rune) bool {
	return 'a' <= c && c <= 'z' ||
		'A' <= c && c <= 'Z' ||
		c == '_' ||
		c >= utf8.RuneSelf
}

func isIdent(c rune) bool { return isIdentStart(c) || isDigit(c) }
