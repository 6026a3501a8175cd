// Package repl provides a read/check/print loop for script units.
//
// It supports readline-style command editing,
// and interrupts through Control-C.
//
// The REPL reads lines until they form a complete unit, then resolves
// and checks the unit against the functions defined so far in the
// session. A rejected unit is reported and discarded; the session
// continues. The functions declared by an accepted unit become part
// of the session's environment, so a later unit may call them but not
// declare them again.
package repl // import "github.com/replguard/fncheck/repl"

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"

	"github.com/replguard/fncheck/ambient"
	"github.com/replguard/fncheck/check"
	"github.com/replguard/fncheck/resolve"
	"github.com/replguard/fncheck/syntax"
)

// A Session holds the state that carries over from one unit of input
// to the next.
type Session struct {
	Env      *ambient.Env // functions defined in the running process
	Filename string       // reported in positions; empty for interactive input

	// Namespace is the namespace in effect at the start of the next
	// unit. An unbraced namespace declaration in an accepted unit
	// remains in effect until another one replaces it.
	Namespace string
}

// NewSession returns a session whose environment is env.
func NewSession(env *ambient.Env) *Session {
	return &Session{Env: env}
}

// Check resolves and checks f against the session's environment,
// starting from an empty scope. It does not modify the session.
func (s *Session) Check(f *syntax.File) error {
	if err := resolve.REPLChunk(f, s.Namespace); err != nil {
		return err
	}
	pass := check.New(new(check.Scope), resolve.Qualify, s.Env.Exists)
	pass.Candidates = s.Env.Names
	return pass.File(f)
}

// Commit records the effects of an accepted unit on the session:
// the functions it declares at file or namespace level are added to
// the environment and its last namespace declaration takes effect.
// It returns the fully-qualified names of those functions in source
// order.
//
// A function declared inside a function body or a block is not
// committed, since the runtime defines it only when that code runs.
//
// Commit must only be called for a unit that Check accepted.
func (s *Session) Commit(f *syntax.File) []string {
	var declared []string
	for _, stmt := range f.Stmts {
		switch stmt := stmt.(type) {
		case *syntax.FuncDecl:
			declared = append(declared, resolve.Qualify(stmt.Name))
		case *syntax.NamespaceStmt:
			for _, stmt := range stmt.Body {
				if decl, ok := stmt.(*syntax.FuncDecl); ok {
					declared = append(declared, resolve.Qualify(decl.Name))
				}
			}
			if stmt.Braced {
				// Code after a braced namespace is global.
				s.Namespace = ""
			} else {
				s.Namespace = stmt.NameString()
			}
		}
	}
	s.Env.Define(declared...)
	return declared
}

// Eval parses, checks and commits one unit of input.
// See syntax.Parse for the allowed types of src.
func (s *Session) Eval(src interface{}) ([]string, error) {
	f, err := syntax.Parse(s.Filename, src)
	if err != nil {
		return nil, err
	}
	if err := s.Check(f); err != nil {
		return nil, err
	}
	return s.Commit(f), nil
}

// REPL executes a read, check, print loop.
func REPL(sess *Session) {
	rl, err := readline.New(">>> ")
	if err != nil {
		PrintError(err)
		return
	}
	defer rl.Close()
	for {
		if err := rep(rl, sess); err != nil {
			if err == readline.ErrInterrupt {
				fmt.Println(err)
				continue
			}
			break
		}
	}
	fmt.Println()
}

// rep reads, checks, and prints one unit.
//
// It returns an error (possibly readline.ErrInterrupt)
// only if readline failed. Syntax and check errors are printed.
func rep(rl *readline.Instance, sess *Session) error {
	eof := false

	// readline returns EOF, ErrInterrupted, or a line including "\n".
	rl.SetPrompt(">>> ")
	readline := func() ([]byte, error) {
		line, err := rl.Readline()
		rl.SetPrompt("... ")
		if err != nil {
			if err == io.EOF {
				eof = true
			}
			return nil, err
		}
		return []byte(line + "\n"), nil
	}

	// parse
	f, err := syntax.ParseUnit(sess.Filename, readline)
	if err != nil {
		if eof {
			return io.EOF
		}
		PrintError(err)
		return nil
	}

	// check
	if err := sess.Check(f); err != nil {
		PrintError(err)
		return nil
	}

	// print
	for _, name := range sess.Commit(f) {
		fmt.Printf("%s()\n", name)
	}
	return nil
}

// PrintError prints the error to stderr,
// followed by its hint if it is a check error.
func PrintError(err error) {
	FprintError(os.Stderr, err)
}

// FprintError is like PrintError but writes to w.
// Every error of a resolve.ErrorList is printed.
func FprintError(w io.Writer, err error) {
	var (
		checkErr *check.Error
		list     resolve.ErrorList
	)
	switch {
	case errors.As(err, &checkErr):
		if checkErr.Hint != "" {
			fmt.Fprintf(w, "%s (%s)\n", checkErr, checkErr.Hint)
		} else {
			fmt.Fprintln(w, checkErr)
		}
	case errors.As(err, &list):
		for _, e := range list {
			fmt.Fprintln(w, e)
		}
	default:
		fmt.Fprintln(w, err)
	}
}
