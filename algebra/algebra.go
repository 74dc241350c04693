// Package algebra defines the closed tagged union of query algebra
// operations produced by the translator, consumed by the optimizer and
// executor. There is no open subclassing: the executor exhaustively
// switches over the concrete types defined here.
package algebra

import (
	"github.com/kbvault/sparql/term"
)

// Op is one algebra tree node.
type Op interface {
	isOp()
}

// BGP is a basic graph pattern: an ordered list of triple patterns to
// be matched in sequence against the store, extending the current
// solution at each step. Order matters post-optimization: the
// optimizer reorders Patterns by estimated selectivity.
type BGP struct {
	Patterns []TriplePattern
}

// TriplePattern is one pattern within a BGP, using algebra-level terms
// (variables kept symbolic, everything else resolved to term.Term).
type TriplePattern struct {
	Subject   Term
	Predicate Path
	Object    Term
	Graph     *term.IRI // nil = default graph; GraphVar set instead for a variable graph name
	GraphVar  string
}

// Term is either a bound term.Term value or a variable reference.
type Term struct {
	Var   string // "" if Value is set
	Value term.Term
}

// IsVar reports whether this algebra term is a variable reference.
func (t Term) IsVar() bool { return t.Var != "" }

// Path mirrors ast.PathExpr at the algebra level, over algebra Terms.
type Path interface {
	isPath()
}

type PathTerm struct{ Term Term }
type PathSeq struct{ Left, Right Path }
type PathAlt struct{ Left, Right Path }
type PathInverse struct{ Path Path }
type PathZeroOrMore struct{ Path Path }
type PathOneOrMore struct{ Path Path }
type PathZeroOrOne struct{ Path Path }
type PathNegatedSet struct {
	IRIs    []term.IRI
	Inverse []bool
}

func (PathTerm) isPath()       {}
func (PathSeq) isPath()        {}
func (PathAlt) isPath()        {}
func (PathInverse) isPath()    {}
func (PathZeroOrMore) isPath() {}
func (PathOneOrMore) isPath()  {}
func (PathZeroOrOne) isPath()  {}
func (PathNegatedSet) isPath() {}

// Join is an inner join of two sub-operations on shared variables.
type Join struct{ Left, Right Op }

// LeftJoin is OPTIONAL: Left rows survive unmatched, gated by Filter.
type LeftJoin struct {
	Left, Right Op
	Filter      Expr // nil = no extra condition
}

// Union concatenates Left and Right solution streams.
type Union struct{ Left, Right Op }

// Minus removes Left rows compatible with some Right row.
type Minus struct{ Left, Right Op }

// Values yields each row of Bindings directly; a nil entry at an
// index means that variable is UNDEF for that row.
type Values struct {
	Vars     []string
	Bindings [][]term.Term
}

// Filter evaluates Expr per row, dropping rows where it is false or
// errors.
type Filter struct {
	Input Op
	Expr  Expr
}

// Extend binds Expr's value to Var, leaving Var unbound on error.
type Extend struct {
	Input Op
	Var   string
	Expr  Expr
}

// Project restricts the output schema to Vars, in order.
type Project struct {
	Input Op
	Vars  []string
}

// OrderBy totally (stably) orders rows by Conditions.
type OrderBy struct {
	Input      Op
	Conditions []OrderCondition
}

type OrderCondition struct {
	Expr Expr
	Desc bool
}

// Slice drops Offset rows then takes at most Limit (negative = unbounded).
type Slice struct {
	Input  Op
	Offset int
	Limit  int
}

// Distinct deduplicates rows by full term-wise solution equality.
type Distinct struct{ Input Op }

// Reduced permits (but does not require) dropping duplicate rows.
type Reduced struct{ Input Op }

// Group partitions Input by Keys and computes Aggregates per partition.
type Group struct {
	Input      Op
	Keys       []Expr
	Aggregates []AggregateBinding
}

// AggregateBinding names one aggregate call's fresh internal variable.
type AggregateBinding struct {
	Var  string
	Call Expr // always a CallExpr-shaped Expr
}

// Subquery evaluates Inner independently; its solutions outer-join
// with the surrounding context on shared variables.
type Subquery struct{ Inner Op }

// LateralJoin evaluates Right once per Left row, substituting Left's
// bindings into Right first; inner-join semantics.
type LateralJoin struct{ Left, Right Op }

// Service delegates evaluation to an external adapter.
type Service struct {
	Endpoint Term
	Silent   bool
	Input    Op
}

// Graph restricts matching inside Input to the named graph; a
// variable graph name binds to each graph in turn.
type Graph struct {
	Name  Term
	Input Op
}

// Construct instantiates Template once per Where solution.
type Construct struct {
	Template []TriplePattern
	Where    Op
}

// Ask is true iff Where produces at least one solution.
type Ask struct{ Where Op }

// Describe performs the bounded breadth-first resource walk.
type Describe struct {
	Seeds     []Term
	Where     Op // nil if DESCRIBE has no WHERE clause
	Depth     *int
	Symmetric bool
}

func (BGP) isOp()         {}
func (Join) isOp()        {}
func (LeftJoin) isOp()    {}
func (Union) isOp()       {}
func (Minus) isOp()       {}
func (Values) isOp()      {}
func (Filter) isOp()      {}
func (Extend) isOp()      {}
func (Project) isOp()     {}
func (OrderBy) isOp()     {}
func (Slice) isOp()       {}
func (Distinct) isOp()    {}
func (Reduced) isOp()     {}
func (Group) isOp()       {}
func (Subquery) isOp()    {}
func (LateralJoin) isOp() {}
func (Service) isOp()     {}
func (Graph) isOp()       {}
func (Construct) isOp()   {}
func (Ask) isOp()         {}
func (Describe) isOp()    {}

// Expr mirrors ast.Expr at the algebra level, with variables resolved
// symbolically the same way Term does.
type Expr interface {
	isAlgExpr()
}

type TermExpr struct{ Term Term }
type BinaryExpr struct {
	Op          string
	Left, Right Expr
}
type UnaryExpr struct {
	Op      string
	Operand Expr
}
type CallExpr struct {
	Name     string
	Args     []Expr
	Distinct bool
}
type ExistsExpr struct {
	Negated bool
	Pattern Op
}
type InExpr struct {
	Negated bool
	Operand Expr
	Set     []Expr
}

func (TermExpr) isAlgExpr()   {}
func (BinaryExpr) isAlgExpr() {}
func (UnaryExpr) isAlgExpr()  {}
func (CallExpr) isAlgExpr()   {}
func (ExistsExpr) isAlgExpr() {}
func (InExpr) isAlgExpr()     {}
