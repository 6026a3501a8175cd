package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/replguard/fncheck/ambient"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o666); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// summary returns, for each result, its declared functions or the
// names of its diagnostics.
func summary(results []result) []string {
	var out []string
	for _, r := range results {
		s := filepath.Base(r.filename) + ":"
		if len(r.diags) == 0 {
			for _, name := range r.declared {
				s += " " + name
			}
		} else {
			for _, d := range r.diags {
				s += " " + d.Kind + " " + d.Name
			}
		}
		out = append(out, s)
	}
	return out
}

func TestCheckFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.php": "<?php\nfunction helper() {}\nhelper();\n",
		"b.php": "<?php\nhelper();\n",
		"c.php": "<?php\nfunction strlen() {}\n",
	})
	env := ambient.New()
	var filenames []string
	for _, name := range []string{"a.php", "b.php", "c.php"} {
		filenames = append(filenames, filepath.Join(dir, name))
	}

	// Independent units: b.php cannot see a.php's helper.
	got := summary(checkFiles(env, filenames, 2))
	want := []string{
		"a.php: helper",
		"b.php: UndefinedFunctionCall helper",
		"c.php: DuplicateFunctionDeclaration strlen",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("checkFiles mismatch (-want +got):\n%s", diff)
	}
	if env.Exists("helper") {
		t.Error("checkFiles modified the shared environment")
	}

	// One session: b.php follows a.php.
	var units []unit
	for _, filename := range filenames {
		units = append(units, unit{filename: filename})
	}
	got = summary(checkSession(ambient.New(), units))
	want[1] = "b.php:"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("checkSession mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckMissingFile(t *testing.T) {
	results := checkFiles(ambient.New(), []string{filepath.Join(t.TempDir(), "missing.php")}, 0)
	if len(results) != 1 || len(results[0].diags) != 1 || results[0].diags[0].Kind != "Error" {
		t.Errorf("got %+v, want one Error diagnostic", results)
	}
}
