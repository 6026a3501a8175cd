// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chunkedfile provides utilities for testing that source code
// errors are reported in the appropriate places.
//
// A chunked file is a txtar archive. Each file in the archive is a
// chunk: one input to the program under test, such as the checker.
// Lines containing "###" are interpreted as expectations of failure:
// the following text is a Go string literal denoting a regular
// expression that should match the failure message reported for that
// line. Line numbers count from the first line of the chunk.
//
// Example:
//
//	-- undefined --
//	nope(); // ### "Call to undefined function nope"
//	-- declared --
//	function f() {}
//	f();
//
// A client test feeds each chunk of text into the program under test,
// then calls chunk.GotError for each error that actually occurred.  Any
// discrepancy between the actual and expected errors is reported using
// the client's reporter, which is typically a testing.T.
package chunkedfile // import "github.com/replguard/fncheck/internal/chunkedfile"

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/tools/txtar"
)

const debug = false

// A Chunk is one file of a chunked archive.
// It contains a set of expected errors.
type Chunk struct {
	Name     string // name of the archive member
	Source   string
	filename string
	report   Reporter
	wantErrs map[int]*regexp.Regexp
}

// Reporter is implemented by *testing.T.
type Reporter interface {
	Errorf(format string, args ...interface{})
}

// Read parses a chunked archive and returns its chunks.
// It reports failures using the reporter.
//
// Error messages of the form "file.txtar:chunk:line: ..." are prefixed
// by a newline so that the Go source position added by (*testing.T).Errorf
// appears on a separate line so as not to confuse editors.
func Read(filename string, report Reporter) []Chunk {
	ar, err := txtar.ParseFile(filename)
	if err != nil {
		report.Errorf("%s", err)
		return nil
	}
	return readArchive(filename, ar, report)
}

func readArchive(filename string, ar *txtar.Archive, report Reporter) (chunks []Chunk) {
	for i, f := range ar.Files {
		src := string(f.Data)
		if debug {
			fmt.Printf("chunk %d (%s): %s\n", i, f.Name, src)
		}

		wantErrs := make(map[int]*regexp.Regexp)

		// Parse comments of the form:
		// ### "expected error".
		for j, line := range strings.Split(src, "\n") {
			linenum := j + 1
			hashes := strings.Index(line, "###")
			if hashes < 0 {
				continue
			}
			rest := strings.TrimSpace(line[hashes+len("###"):])
			pattern, err := strconv.Unquote(rest)
			if err != nil {
				report.Errorf("\n%s:%s:%d: not a quoted regexp: %s", filename, f.Name, linenum, rest)
				continue
			}
			rx, err := regexp.Compile(pattern)
			if err != nil {
				report.Errorf("\n%s:%s:%d: %v", filename, f.Name, linenum, err)
				continue
			}
			wantErrs[linenum] = rx
			if debug {
				fmt.Printf("\t%d\t%s\n", linenum, rx)
			}
		}

		chunks = append(chunks, Chunk{f.Name, src, filename, report, wantErrs})
	}
	return chunks
}

// GotError should be called by the client to report an error at a particular line.
// GotError reports unexpected errors to the chunk's reporter.
func (chunk *Chunk) GotError(linenum int, msg string) {
	if rx, ok := chunk.wantErrs[linenum]; ok {
		delete(chunk.wantErrs, linenum)
		if !rx.MatchString(msg) {
			chunk.report.Errorf("\n%s:%s:%d: error %q does not match pattern %q", chunk.filename, chunk.Name, linenum, msg, rx)
		}
	} else {
		chunk.report.Errorf("\n%s:%s:%d: unexpected error: %v", chunk.filename, chunk.Name, linenum, msg)
	}
}

// Done should be called by the client to indicate that the chunk has no more errors.
// Done reports expected errors that did not occur to the chunk's reporter.
func (chunk *Chunk) Done() {
	for linenum, rx := range chunk.wantErrs {
		chunk.report.Errorf("\n%s:%s:%d: expected error matching %q", chunk.filename, chunk.Name, linenum, rx)
	}
}
