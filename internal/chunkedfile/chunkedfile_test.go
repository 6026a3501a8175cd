// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package chunkedfile

import (
	"fmt"
	"testing"

	"golang.org/x/tools/txtar"
)

type testReporter struct {
	reported []string
}

func (r *testReporter) Errorf(format string, args ...interface{}) {
	formatted := fmt.Sprintf(format, args...)
	r.reported = append(r.reported, formatted)
}

func (r *testReporter) assertNone(t *testing.T) {
	if len(r.reported) > 0 {
		t.Errorf("reporter expected no errors, got %d: %q", len(r.reported), r.reported)
	}
}

func (r *testReporter) assertOne(t *testing.T, exp string) {
	if len(r.reported) != 1 {
		t.Fatalf("reporter expected 1 error, got %d", len(r.reported))
	}
	if r.reported[0] != exp {
		t.Fatalf("reporter expected %q, got %q", exp, r.reported[0])
	}
}

func (r *testReporter) reset() {
	r.reported = nil
}

func TestChunkedFile(t *testing.T) {
	data := []byte(`leading comment is ignored
-- undefined --
nope(); // ### "undefined function nope"
-- ok --
function f() {}
f();
`)

	reporter := &testReporter{}
	chunks := readArchive("test.txtar", txtar.Parse(data), reporter)

	reporter.assertNone(t) // should not have reported any errors

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}

	// Check the first chunk
	exp := "nope(); // ### \"undefined function nope\"\n"
	chunk := chunks[0]
	if chunk.Name != "undefined" {
		t.Fatalf("expected chunk name %q, got %q", "undefined", chunk.Name)
	}
	if chunk.Source != exp {
		t.Fatalf("expected %q, got %q", exp, chunk.Source)
	}

	// First chunk has an expected error

	if len(chunk.wantErrs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(chunk.wantErrs))
	}

	exp = "undefined function nope"
	for _, re := range chunk.wantErrs {
		if re.String() != exp {
			t.Fatalf("expected %q, got %q", exp, re.String())
		}
	}

	reporter.assertNone(t) // still should not have reported any errors

	// Send an error that is expected.

	chunk.GotError(1, "Call to undefined function nope()")

	reporter.assertNone(t) // should not have reported any errors because the error was expected

	if len(chunk.wantErrs) != 0 {
		// We should have gobbled up the expected error from the chunk
		t.Fatalf("expected 0 errors, got %d", len(chunk.wantErrs))
	}

	// Send an error that is not expected (the same error as before).
	// Now the reporter should report it as an unexpected error.

	chunk.GotError(1, "Call to undefined function nope()")

	exp = "\ntest.txtar:undefined:1: unexpected error: Call to undefined function nope()"
	reporter.assertOne(t, exp)

	// Check the second chunk

	exp = "function f() {}\nf();\n"
	chunk = chunks[1]
	if chunk.Source != exp {
		t.Fatalf("expected %q, got %q", exp, chunk.Source)
	}

	// Second chunk does not have any expected errors

	if len(chunk.wantErrs) != 0 {
		t.Fatalf("expected 0 errors, got %d", len(chunk.wantErrs))
	}

	// Send an error that is not expected.
	// The reporter should make it an unexpected error.

	reporter.reset()
	chunk.GotError(2, "foobar")

	exp = "\ntest.txtar:ok:2: unexpected error: foobar"
	reporter.assertOne(t, exp)
}

func TestChunkedFileMissingError(t *testing.T) {
	data := []byte(`-- a --
f(); // ### "boom"
-- b --
g(); // ### not quoted
`)
	reporter := &testReporter{}
	chunks := readArchive("test.txtar", txtar.Parse(data), reporter)
	reporter.assertOne(t, "\ntest.txtar:b:1: not a quoted regexp: not quoted")

	reporter.reset()
	chunks[0].Done()
	reporter.assertOne(t, "\ntest.txtar:a:1: expected error matching \"boom\"")
}
