// Package srcmap is the compiler's sparse bytecode-offset-to-source-range
// side table: the VM consults it to populate ErrorInfo.Range on failure.
// One entry per statement is enough; a dense per-instruction table would
// be wasted bookkeeping.
//
// The underlying ordered structure is an avl.AvlNode embedded in the
// payload, walked with FirstInOrder/NextInOrder, keyed by the statement's
// starting bytecode offset.
package srcmap

import (
	"github.com/danswartzendruber/avl"
	"github.com/danswartzendruber/basic-core/token"
)

type entry struct {
	avl    avl.AvlNode
	offset int32
	rng    token.Range
}

// Table maps bytecode offsets to the source Range of the statement that
// emitted the instruction at that offset.
type Table struct {
	root *avl.AvlNode
}

func cmpOffsetNode(n1, n2 any) int {
	return cmpInt32(n1.(*entry).offset, n2.(*entry).offset)
}

func cmpInt32(a, b int32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Insert records that offset begins a new statement spanning rng. Offsets
// must be inserted in increasing order, matching the compiler's
// monotonically growing emission position.
func (t *Table) Insert(offset int, rng token.Range) {
	e := &entry{offset: int32(offset), rng: rng}
	avl.AvlTreeInsert(&t.root, &e.avl, e, cmpOffsetNode)
}

// Lookup returns the Range of the statement enclosing instruction pointer
// ip: the entry with the greatest offset <= ip. ok is false if the table
// is empty or ip precedes every entry.
func (t *Table) Lookup(ip int) (token.Range, bool) {
	if t.root == nil {
		return token.Range{}, false
	}

	p := avl.AvlTreeFirstInOrder(t.root)
	if p == nil {
		return token.Range{}, false
	}

	cur := p.(*entry)
	if int(cur.offset) > ip {
		return token.Range{}, false
	}

	for {
		next := avl.AvlTreeNextInOrder(&cur.avl)
		if next == nil {
			break
		}
		nextEntry := next.(*entry)
		if int(nextEntry.offset) > ip {
			break
		}
		cur = nextEntry
	}

	return cur.rng, true
}
