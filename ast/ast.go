// Package ast defines the unannotated abstract syntax produced by Parse.
package ast

import "github.com/danswartzendruber/basic-core/token"

// ExprKind tags the variant an Expr carries.
type ExprKind int

const (
	ImmInteger ExprKind = iota
	ImmLong
	ImmSingle
	ImmDouble
	ImmString
	VarRef
	BinOp
	UnOp
)

// BinOpKind enumerates the binary operators the grammar accepts.
type BinOpKind int

const (
	OpMul BinOpKind = iota
	OpDiv           // float divide, '/'
	OpIDiv          // integer divide, '\'
	OpAdd
	OpSub
	OpEq
	OpNeq
	OpLt
	OpGt
	OpLte
	OpGte
	OpAnd
	OpOr
	OpXor
	OpMod
)

// UnOpKind enumerates the unary operators the grammar accepts.
type UnOpKind int

const (
	OpNeg UnOpKind = iota
)

// Expr is a node of the expression tree. Only the fields relevant to Kind
// are populated; children are owned (boxed) pointers.
type Expr struct {
	Kind  ExprKind
	Range token.Range

	I16 int16
	I32 int32
	F32 float32
	F64 float64
	Str string

	Name string // VarRef: sigil-qualified variable name

	Bin BinOpKind
	Un  UnOpKind

	LHS *Expr
	RHS *Expr // nil for UnOp
}

// StmtKind tags the variant a Stmt carries.
type StmtKind int

const (
	SRemark StmtKind = iota
	SCall
	SLet
	SIf
	SIf1
	SIf2
	SFor
	SForStep
	SEnd
	SEndIf
)

// Stmt is a node of the statement list. Nested statements (If1/If2) are
// boxed the same way Expr children are.
type Stmt struct {
	Kind  StmtKind
	Range token.Range

	// SRemark
	Text string

	// SCall. Seps[i] is the separator that followed Args[i] in source:
	// ',' or ';', or 0 if Args[i] was the last argument with nothing
	// trailing it. A trailing ',' or ';' (as in `PRINT a;b;`) suppresses
	// the call's closing newline; see compiler.Compile.
	Name string
	Args []*Expr
	Seps []byte

	// SLet
	Kw  bool // true for `LET A=1`, false for `A=1`
	LHS *Expr
	RHS *Expr

	// SIf / SIf1 / SIf2
	Cond     *Expr
	StmtThen *Stmt
	StmtElse *Stmt

	// SFor / SForStep
	LoopVar *Expr
	From    *Expr
	To      *Expr
	Step    *Expr
}

// ParseError reports a parser failure.
type ParseError struct {
	Kind ParseErrorKind
	Msg  string
	Rng  token.Range
}

type ParseErrorKind int

const (
	UnexpectedToken ParseErrorKind = iota
	UnexpectedEnd
	ExpectedTerminator
)

func (e *ParseError) Error() string { return e.Msg }

func (e *ParseError) Range() (token.Range, bool) { return e.Rng, true }
