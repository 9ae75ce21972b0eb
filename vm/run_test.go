package vm_test

import (
	"strings"
	"testing"

	"github.com/danswartzendruber/basic-core/ast"
	"github.com/danswartzendruber/basic-core/compiler"
	"github.com/danswartzendruber/basic-core/errinfo"
	"github.com/danswartzendruber/basic-core/token"
	"github.com/danswartzendruber/basic-core/vm"
)

// runProgram drives the full tokenize -> parse -> compile -> run pipeline
// over src and returns the accumulated print output.
func runProgram(t *testing.T, src string) (string, error) {
	t.Helper()

	toks, err := token.Tokenize([]byte(src))
	if err != nil {
		return "", err
	}
	stmts, err := ast.Parse(toks)
	if err != nil {
		return "", err
	}
	prog, err := compiler.Compile(stmts, compiler.Config{})
	if err != nil {
		return "", err
	}

	effects := vm.NewBufferEffects()
	machine := vm.New(effects, prog.SlotTypes, prog.Ranges)

	var info errinfo.ErrorInfo
	if err := machine.Run(prog.Code, &info); err != nil {
		return effects.String(), err
	}
	return effects.String(), nil
}

func TestEndToEndScenarios(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"precedence", "PRINT 1 + 2 * 3\n", " 7 \n"},
		{"string concat", `print "a"+"b"` + "\n", "ab\n"},
		{"trailing semicolons", `a$ = "koer"` + "\n" + `print a$;"a";a$;`, "koerakoer"},
		{"mixed coercion", "a! = 1 + 1.5\nb& = 1 + 32768\nPRINT a!; b&\n", " 2.5  32769 \n"},
		{"autoviv default single/string", "a = 1 * b\na$ = \"x\" + b$\nprint a; a$\n", " 0 x\n"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := runProgram(t, c.src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != c.want {
				t.Errorf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestPrintCommaZones(t *testing.T) {
	got, err := runProgram(t, `print "a", "b", "c"`+"\n")
	if err != nil {
		t.Fatal(err)
	}
	want := "a             b             c\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStringAddTypeMismatch(t *testing.T) {
	_, err := runProgram(t, `print "a"+2`+"\n")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "cannot coerce INTEGER to STRING") {
		t.Errorf("got %q", err.Error())
	}
}

func TestLongToIntegerOverflow(t *testing.T) {
	_, err := runProgram(t, "a% = 70000\n")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "overflow coercing LONG to INTEGER") {
		t.Errorf("got %q", err.Error())
	}
}

func TestEmptyStackOnSuccessfulRun(t *testing.T) {
	// Run itself asserts this via assert.That; a clean return is the
	// positive half of the invariant.
	if _, err := runProgram(t, "a = 1\nPRINT a\n"); err != nil {
		t.Fatal(err)
	}
}

func TestStringConcatAssociative(t *testing.T) {
	left, err := runProgram(t, `PRINT "a"+("b"+"c")`+"\n")
	if err != nil {
		t.Fatal(err)
	}
	right, err := runProgram(t, `PRINT ("a"+"b")+"c"`+"\n")
	if err != nil {
		t.Fatal(err)
	}
	if left != right {
		t.Errorf("got %q vs %q", left, right)
	}
}
