package ambient_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/replguard/fncheck/ambient"
)

func TestExists(t *testing.T) {
	env := ambient.New(`App\helper`)
	for _, test := range []struct {
		name string
		want bool
	}{
		{"strlen", true},
		{"STRLEN", true},
		{`\strlen`, true},
		{`App\helper`, true},
		{`\app\HELPER`, true},
		{"helper", false},
		{`Other\strlen`, false},
		{"", false},
		{"undefinedThing", false},
	} {
		if got := env.Exists(test.name); got != test.want {
			t.Errorf("Exists(%q) = %t, want %t", test.name, got, test.want)
		}
	}
}

func TestDefine(t *testing.T) {
	env := ambient.Empty()
	env.Define("Foo", `\A\Bar`, "foo", "")
	if diff := cmp.Diff([]string{`A\Bar`, "Foo"}, env.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
	if env.Len() != 2 {
		t.Errorf("Len = %d, want 2", env.Len())
	}
}

func TestClone(t *testing.T) {
	env := ambient.New()
	clone := env.Clone()
	clone.Define("mine")
	if env.Exists("mine") {
		t.Error("Define on clone leaked into original")
	}
	if !clone.Exists("mine") || !clone.Exists("strlen") {
		t.Error("clone lost definitions")
	}
	if clone.Len() != env.Len()+1 {
		t.Errorf("clone.Len = %d, want %d", clone.Len(), env.Len()+1)
	}
}

func TestUniverseUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, name := range ambient.Universe {
		key := strings.ToLower(name)
		if seen[key] {
			t.Errorf("duplicate universe name %s", name)
		}
		seen[key] = true
	}
	if got, want := ambient.New().Len(), len(ambient.Universe); got != want {
		t.Errorf("New().Len() = %d, want %d", got, want)
	}
}

func TestReadNames(t *testing.T) {
	const input = `
# project helpers
helper
  App\format

`
	names, err := ambient.ReadNames(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"helper", `App\format`}, names); diff != "" {
		t.Errorf("ReadNames mismatch (-want +got):\n%s", diff)
	}

	_, err = ambient.ReadNames(strings.NewReader("ok\nnot ok()\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("ReadNames of bad input returned %v, want error at line 2", err)
	}
}
