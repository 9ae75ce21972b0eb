package ast

import (
	"testing"

	"github.com/danswartzendruber/basic-core/token"
)

func mustTokenize(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, err := token.Tokenize([]byte(src))
	if err != nil {
		t.Fatalf("tokenize %q: %v", src, err)
	}
	return toks
}

func TestParseImplicitLet(t *testing.T) {
	stmts, err := Parse(mustTokenize(t, "a% = 1 + 2\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(stmts) != 1 || stmts[0].Kind != SLet {
		t.Fatalf("got %+v", stmts)
	}
	if stmts[0].LHS.Name != "a%" {
		t.Fatalf("got LHS %q", stmts[0].LHS.Name)
	}
	if stmts[0].Kw {
		t.Fatal("implicit LET should have Kw == false")
	}
}

func TestParseExplicitLet(t *testing.T) {
	stmts, err := Parse(mustTokenize(t, "LET a = 1\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(stmts) != 1 || stmts[0].Kind != SLet || !stmts[0].Kw {
		t.Fatalf("got %+v", stmts)
	}
}

func TestParseCallNoArgs(t *testing.T) {
	stmts, err := Parse(mustTokenize(t, "foo\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(stmts) != 1 || stmts[0].Kind != SCall || len(stmts[0].Args) != 0 {
		t.Fatalf("got %+v", stmts)
	}
}

func TestParsePrintSeps(t *testing.T) {
	stmts, err := Parse(mustTokenize(t, `print a$;"a";a$;`))
	if err != nil {
		t.Fatal(err)
	}
	call := stmts[0]
	if call.Kind != SCall || len(call.Args) != 3 {
		t.Fatalf("got %+v", call)
	}
	want := []byte{';', ';', ';'}
	for i, sep := range want {
		if call.Seps[i] != sep {
			t.Errorf("Seps[%d] = %q, want %q", i, call.Seps[i], sep)
		}
	}
}

func TestParsePrintCommaSepsNoTrailing(t *testing.T) {
	stmts, err := Parse(mustTokenize(t, `print "a", "b", "c"`))
	if err != nil {
		t.Fatal(err)
	}
	call := stmts[0]
	if len(call.Args) != 3 {
		t.Fatalf("got %d args", len(call.Args))
	}
	if call.Seps[0] != ',' || call.Seps[1] != ',' || call.Seps[2] != 0 {
		t.Fatalf("got seps %v", call.Seps)
	}
}

func TestParseOperatorPrecedence(t *testing.T) {
	// 1 + 2 * 3 should parse as 1 + (2 * 3), i.e. the top-level op is '+'.
	stmts, err := Parse(mustTokenize(t, "print 1 + 2 * 3\n"))
	if err != nil {
		t.Fatal(err)
	}
	expr := stmts[0].Args[0]
	if expr.Kind != BinOp || expr.Bin != OpAdd {
		t.Fatalf("got %+v", expr)
	}
	if expr.RHS.Kind != BinOp || expr.RHS.Bin != OpMul {
		t.Fatalf("got RHS %+v", expr.RHS)
	}
}

func TestParseAndTighterThanOr(t *testing.T) {
	// a OR b AND c should parse as a OR (b AND c), i.e. the top-level op
	// is OR, not AND.
	stmts, err := Parse(mustTokenize(t, "print a OR b AND c\n"))
	if err != nil {
		t.Fatal(err)
	}
	expr := stmts[0].Args[0]
	if expr.Kind != BinOp || expr.Bin != OpOr {
		t.Fatalf("got %+v", expr)
	}
	if expr.RHS.Kind != BinOp || expr.RHS.Bin != OpAnd {
		t.Fatalf("got RHS %+v", expr.RHS)
	}
}

func TestParseIfThenElse(t *testing.T) {
	stmts, err := Parse(mustTokenize(t, "IF a = 1 THEN b = 2 ELSE b = 3\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(stmts) != 1 || stmts[0].Kind != SIf2 {
		t.Fatalf("got %+v", stmts)
	}
}

func TestParseForStep(t *testing.T) {
	stmts, err := Parse(mustTokenize(t, "FOR i = 1 TO 10 STEP 2\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(stmts) != 1 || stmts[0].Kind != SForStep {
		t.Fatalf("got %+v", stmts)
	}
}

func TestParseTrailingRemark(t *testing.T) {
	stmts, err := Parse(mustTokenize(t, "a = 1 ' set a\nb = 2\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(stmts) != 3 {
		t.Fatalf("got %d statements", len(stmts))
	}
	if stmts[0].Kind != SLet || stmts[1].Kind != SRemark || stmts[2].Kind != SLet {
		t.Fatalf("got %+v", stmts)
	}
}

func TestParseUnexpectedTokenError(t *testing.T) {
	_, err := Parse(mustTokenize(t, "* 1\n"))
	if err == nil {
		t.Fatal("expected error")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("got %T", err)
	}
	if pe.Kind != UnexpectedToken {
		t.Fatalf("got kind %v", pe.Kind)
	}
}

func TestParseNeverMutatesTokens(t *testing.T) {
	toks := mustTokenize(t, "a = 1\n")
	before := make([]token.Token, len(toks))
	copy(before, toks)
	if _, err := Parse(toks); err != nil {
		t.Fatal(err)
	}
	for i := range toks {
		if toks[i] != before[i] {
			t.Fatalf("token %d mutated: %+v != %+v", i, toks[i], before[i])
		}
	}
}
