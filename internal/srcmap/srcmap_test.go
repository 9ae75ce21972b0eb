package srcmap

import (
	"testing"

	"github.com/danswartzendruber/basic-core/token"
)

func rng(line int) token.Range {
	return token.Range{StartLine: line, StartCol: 1, EndLine: line, EndCol: 1}
}

func TestLookupEmpty(t *testing.T) {
	var tbl Table
	if _, ok := tbl.Lookup(0); ok {
		t.Fatal("expected no entry in an empty table")
	}
}

func TestLookupBeforeFirstEntry(t *testing.T) {
	var tbl Table
	tbl.Insert(10, rng(1))
	if _, ok := tbl.Lookup(5); ok {
		t.Fatal("expected no entry for an offset before the first insert")
	}
}

func TestLookupFloor(t *testing.T) {
	var tbl Table
	tbl.Insert(0, rng(1))
	tbl.Insert(5, rng(2))
	tbl.Insert(12, rng(3))

	cases := []struct {
		ip   int
		want int
	}{
		{0, 1},
		{3, 1},
		{5, 2},
		{11, 2},
		{12, 3},
		{100, 3},
	}
	for _, c := range cases {
		got, ok := tbl.Lookup(c.ip)
		if !ok {
			t.Fatalf("Lookup(%d): no entry", c.ip)
		}
		if got.StartLine != c.want {
			t.Errorf("Lookup(%d) = line %d, want %d", c.ip, got.StartLine, c.want)
		}
	}
}
