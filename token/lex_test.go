package token

import (
	"strings"
	"testing"
)

// sliceRange extracts the text a Range covers from src, for the
// tokenize-render round-trip invariant.
func sliceRange(src string, r Range) string {
	lines := strings.Split(src, "\n")
	if r.StartLine != r.EndLine {
		// not exercised by these single-line tests
		return ""
	}
	line := lines[r.StartLine-1]
	if r.StartCol-1 < 0 || r.EndCol > len(line) {
		return ""
	}
	return line[r.StartCol-1 : r.EndCol]
}

func TestTokenizeRoundTrip(t *testing.T) {
	src := `a% = 1 + 2 * foo$`
	toks, err := Tokenize([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	for _, tok := range toks {
		if tok.Kind == EOF || tok.Kind == Linefeed {
			continue
		}
		got := sliceRange(src, tok.Range)
		if got == "" {
			t.Fatalf("empty slice for token %v range %v", tok.Kind, tok.Range)
		}
	}
}

func TestTokenizeNumericSigils(t *testing.T) {
	cases := []struct {
		src  string
		kind Kind
	}{
		{"1%", Integer},
		{"1&", Long},
		{"1.5!", Single},
		{"1.5#", Double},
		{"32767", Integer},
		{"70000", Long},
		{"1.5", Single},
		{"0.1", Single},
	}
	for _, c := range cases {
		toks, err := Tokenize([]byte(c.src))
		if err != nil {
			t.Fatalf("%s: %v", c.src, err)
		}
		if len(toks) < 1 || toks[0].Kind != c.kind {
			t.Errorf("%s: got %v, want %v", c.src, toks[0].Kind, c.kind)
		}
	}
}

func TestTokenizeStringLiteral(t *testing.T) {
	toks, err := Tokenize([]byte(`"koer"`))
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Kind != String || toks[0].Lit.Str != "koer" {
		t.Fatalf("got %v %q", toks[0].Kind, toks[0].Lit.Str)
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, err := Tokenize([]byte(`"koer`))
	if err == nil {
		t.Fatal("expected error")
	}
	var lexErr *LexError
	if e, ok := err.(*LexError); !ok {
		t.Fatalf("got %T, want *LexError", err)
	} else {
		lexErr = e
	}
	if _, ok := lexErr.Range(); !ok {
		t.Fatal("expected a range")
	}
}

func TestTokenizeJumpLabel(t *testing.T) {
	toks, err := Tokenize([]byte("top: a = 1\ngoto top\n"))
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Kind != JumpLabel || toks[0].Lit.Str != "top" {
		t.Fatalf("got %v %q", toks[0].Kind, toks[0].Lit.Str)
	}
}

func TestTokenizeKeywordsCaseInsensitive(t *testing.T) {
	toks, err := Tokenize([]byte("If x Then End If"))
	if err != nil {
		t.Fatal(err)
	}
	want := []Kind{KwIf, Label, KwThen, KwEnd, KwIf, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestTokenizeRemark(t *testing.T) {
	toks, err := Tokenize([]byte("REM a comment\n' another\n"))
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Kind != Remark || toks[0].Lit.Str != "REM a comment" {
		t.Fatalf("got %v %q", toks[0].Kind, toks[0].Lit.Str)
	}
}

func TestTokenizeOperators(t *testing.T) {
	toks, err := Tokenize([]byte("<= <> >= < > = + - * / \\"))
	if err != nil {
		t.Fatal(err)
	}
	want := []Kind{Le, Ne, Ge, Lt, Gt, Equals, Plus, Minus, Asterisk, Slash, Backslash, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Kind, k)
		}
	}
}

func TestTokenizeCRLFNormalized(t *testing.T) {
	toks, err := Tokenize([]byte("a\r\nb\n"))
	if err != nil {
		t.Fatal(err)
	}
	linefeeds := 0
	for _, tok := range toks {
		if tok.Kind == Linefeed {
			linefeeds++
		}
	}
	if linefeeds != 2 {
		t.Fatalf("got %d linefeeds, want 2", linefeeds)
	}
}
