// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The fncheck command checks script units for duplicate function
// declarations and calls to undefined functions.
//
// With file arguments, it checks each file as an independent unit.
// With -c, it checks the given program. Otherwise it reads a unit from
// standard input, or, if standard input is a terminal, starts a
// read-check-print loop (REPL) in which each accepted unit's functions
// remain defined for the inputs that follow.
package main // import "github.com/replguard/fncheck/cmd/fncheck"

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/replguard/fncheck/ambient"
	"github.com/replguard/fncheck/repl"
	"github.com/replguard/fncheck/report"
)

// flags
var (
	cpuprofile = flag.String("cpuprofile", "", "gather Go CPU profile in this file")
	memprofile = flag.String("memprofile", "", "gather Go memory profile in this file")
	execprog   = flag.String("c", "", "check program `prog`")
	builtins   = flag.String("builtins", "", "read additional predefined function names from `file`")
	format     = flag.String("format", "text", "diagnostic output format ("+strings.Join(report.Formats, ", ")+")")
	jobs       = flag.Int("j", runtime.GOMAXPROCS(0), "check up to `n` files in parallel")
	session    = flag.Bool("session", false, "check files in order as consecutive inputs of one session")
	showscope  = flag.Bool("showscope", false, "on success, print the functions each unit declares")
)

func main() {
	os.Exit(doMain())
}

func doMain() int {
	log.SetPrefix("fncheck: ")
	log.SetFlags(0)
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		check(err)
		err = pprof.StartCPUProfile(f)
		check(err)
		defer func() {
			pprof.StopCPUProfile()
			err := f.Close()
			check(err)
		}()
	}
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		check(err)
		defer func() {
			runtime.GC()
			err := pprof.Lookup("heap").WriteTo(f, 0)
			check(err)
			err = f.Close()
			check(err)
		}()
	}

	env := ambient.New()
	if *builtins != "" {
		f, err := os.Open(*builtins)
		check(err)
		names, err := ambient.ReadNames(f)
		f.Close()
		if err != nil {
			log.Printf("%s: %v", *builtins, err)
			return 1
		}
		env.Define(names...)
	}

	var results []result
	switch {
	case *execprog != "":
		if flag.NArg() > 0 {
			log.Print("-c and file arguments are mutually exclusive")
			return 1
		}
		results = checkSession(env, []unit{{filename: "cmdline", src: *execprog}})

	case flag.NArg() == 0 && term.IsTerminal(int(os.Stdin.Fd())):
		fmt.Println("Welcome to fncheck. Each input is checked before it would run.")
		repl.REPL(repl.NewSession(env))
		return 0

	case flag.NArg() == 0:
		data, err := io.ReadAll(os.Stdin)
		check(err)
		results = checkSession(env, []unit{{filename: "<stdin>", src: data}})

	case *session:
		units := make([]unit, flag.NArg())
		for i, filename := range flag.Args() {
			units[i] = unit{filename: filename}
		}
		results = checkSession(env, units)

	default:
		results = checkFiles(env, flag.Args(), *jobs)
	}

	var diags []report.Diagnostic
	for _, r := range results {
		diags = append(diags, r.diags...)
		if *showscope && len(r.diags) == 0 {
			for _, name := range r.declared {
				fmt.Fprintf(os.Stderr, "%s: %s()\n", r.filename, name)
			}
		}
	}

	out := io.Writer(os.Stdout)
	if *format == "text" {
		out = os.Stderr
	}
	if err := report.Write(out, *format, diags); err != nil {
		log.Print(err)
		return 1
	}
	if len(diags) > 0 {
		return 1
	}
	return 0
}

// A unit is one input to check. A nil src is read from filename.
type unit struct {
	filename string
	src      interface{}
}

// The result of checking a unit.
type result struct {
	filename string
	declared []string
	diags    []report.Diagnostic
}

// checkSession checks units in order as consecutive inputs of a
// single session, so each may call the functions of those before it.
func checkSession(env *ambient.Env, units []unit) []result {
	sess := repl.NewSession(env)
	results := make([]result, len(units))
	for i, u := range units {
		sess.Filename = u.filename
		results[i] = eval(sess, u)
	}
	return results
}

// checkFiles checks each file as an independent unit against a private
// copy of env, using up to n goroutines.
func checkFiles(env *ambient.Env, filenames []string, n int) []result {
	results := make([]result, len(filenames))
	var g errgroup.Group
	if n > 0 {
		g.SetLimit(n)
	}
	for i, filename := range filenames {
		i, filename := i, filename
		g.Go(func() error {
			sess := repl.NewSession(env.Clone())
			sess.Filename = filename
			results[i] = eval(sess, unit{filename: filename})
			return nil
		})
	}
	g.Wait() // errors are recorded in results
	return results
}

func eval(sess *repl.Session, u unit) result {
	declared, err := sess.Eval(u.src)
	return result{
		filename: u.filename,
		declared: declared,
		diags:    report.FromError(u.filename, err),
	}
}

func check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
