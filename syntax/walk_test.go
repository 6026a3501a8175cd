package syntax_test

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"
	"testing"

	"github.com/replguard/fncheck/syntax"
)

func TestWalk(t *testing.T) {
	const src = `
namespace A;
function f($x) {
  if ($x) {
    g();
  } else {
    $h(1);
  }
}
`
	f, err := syntax.Parse("hello.php", src)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	var depth int
	syntax.Walk(f, func(n syntax.Node) bool {
		if n == nil {
			depth--
			return true
		}
		fmt.Fprintf(&buf, "%s%s\n",
			strings.Repeat("  ", depth),
			strings.TrimPrefix(reflect.TypeOf(n).String(), "*syntax."))
		depth++
		return true
	})
	got := buf.String()
	want := `
File
  NamespaceStmt
    Name
    FuncDecl
      Name
      Param
        Variable
      IfStmt
        Variable
        BlockStmt
          ExprStmt
            CallExpr
              Name
        BlockStmt
          ExprStmt
            CallExpr
              Variable
              Literal`
	got = strings.TrimSpace(got)
	want = strings.TrimSpace(want)
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestPostOrder(t *testing.T) {
	const src = `function f() { g(h()); } f();`
	f, err := syntax.Parse("hello.php", src)
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	err = syntax.PostOrder(f, func(n syntax.Node) error {
		switch n := n.(type) {
		case *syntax.FuncDecl:
			got = append(got, "decl "+n.Name.String())
		case *syntax.CallExpr:
			got = append(got, "call "+n.Fn.(*syntax.Name).String())
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := "call h, call g, decl f, call f"
	if s := strings.Join(got, ", "); s != want {
		t.Errorf("got %s, want %s", s, want)
	}
}

func TestPostOrderStops(t *testing.T) {
	f, err := syntax.Parse("hello.php", `a(); b(); c();`)
	if err != nil {
		t.Fatal(err)
	}

	stop := errors.New("stop")
	var visited []string
	err = syntax.PostOrder(f, func(n syntax.Node) error {
		if call, ok := n.(*syntax.CallExpr); ok {
			name := call.Fn.(*syntax.Name).String()
			visited = append(visited, name)
			if name == "b" {
				return stop
			}
		}
		return nil
	})
	if err != stop {
		t.Errorf("PostOrder returned %v, want %v", err, stop)
	}
	if s := strings.Join(visited, " "); s != "a b" {
		t.Errorf("visited %s, want a b", s)
	}
}

// ExampleWalk demonstrates the use of Walk to
// enumerate the called names in a source file.
func ExampleWalk() {
	const src = `
use function Lib\format;

function greet($who) {
    echo format("hello %s", strtoupper($who));
}

greet(\Lib\name());
$callback = 'greet';
$callback("x");
`
	f, err := syntax.Parse("hello.php", src)
	if err != nil {
		log.Fatal(err)
	}

	var names []string
	syntax.Walk(f, func(n syntax.Node) bool {
		if call, ok := n.(*syntax.CallExpr); ok {
			if name, ok := call.Fn.(*syntax.Name); ok {
				names = append(names, name.Raw)
			}
		}
		return true
	})
	fmt.Println(strings.Join(names, " "))

	// Output:
	// format strtoupper greet \Lib\name
}
