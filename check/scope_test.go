package check_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/replguard/fncheck/check"
)

func TestScope(t *testing.T) {
	var scope check.Scope
	if scope.Has("f") || scope.Len() != 0 {
		t.Fatal("zero Scope is not empty")
	}
	scope.Declare(`App\Helper`)
	scope.Declare("f")
	scope.Declare("F")
	for _, name := range []string{"f", "F", `app\helper`, `APP\HELPER`} {
		if !scope.Has(name) {
			t.Errorf("Has(%q) = false", name)
		}
	}
	if scope.Has("helper") {
		t.Error(`Has("helper") = true`)
	}
	if diff := cmp.Diff([]string{`app\helper`, "f"}, scope.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}

	s := check.NewScope("a", "B")
	if s.Len() != 2 || !s.Has("b") {
		t.Errorf("NewScope = %v", s.Names())
	}
}
