package optimize

import "github.com/kbvault/sparql/algebra"

// exprVars collects every variable referenced by e.
func exprVars(e algebra.Expr) []string {
	var out []string
	var walk func(algebra.Expr)
	walk = func(e algebra.Expr) {
		switch v := e.(type) {
		case algebra.TermExpr:
			if v.Term.IsVar() {
				out = append(out, v.Term.Var)
			}
		case algebra.BinaryExpr:
			walk(v.Left)
			walk(v.Right)
		case algebra.UnaryExpr:
			walk(v.Operand)
		case algebra.CallExpr:
			for _, a := range v.Args {
				walk(a)
			}
		case algebra.ExistsExpr:
			out = append(out, outputVars(v.Pattern)...)
		case algebra.InExpr:
			walk(v.Operand)
			for _, s := range v.Set {
				walk(s)
			}
		}
	}
	walk(e)
	return out
}

// outputVars estimates the set of variables an operation can bind. It
// is conservative (may over-report for Union/Minus/Optional branches)
// which is safe for pushdown: over-reporting only prevents a push that
// would still have been legal, never permits an illegal one.
func outputVars(op algebra.Op) []string {
	seen := map[string]bool{}
	var walk func(algebra.Op)
	walk = func(op algebra.Op) {
		switch v := op.(type) {
		case algebra.BGP:
			for _, tp := range v.Patterns {
				addTermVar(seen, tp.Subject)
				addTermVar(seen, tp.Object)
				addPathVars(seen, tp.Predicate)
				if tp.GraphVar != "" {
					seen[tp.GraphVar] = true
				}
			}
		case algebra.Values:
			for _, v := range v.Vars {
				seen[v] = true
			}
		case algebra.Extend:
			seen[v.Var] = true
			walk(v.Input)
		case algebra.Group:
			for _, a := range v.Aggregates {
				seen[a.Var] = true
			}
			walk(v.Input)
		case algebra.Project:
			for _, n := range v.Vars {
				seen[n] = true
			}
		default:
			for _, c := range algebra.Children(op) {
				walk(c)
			}
		}
	}
	walk(op)
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	return out
}

func addTermVar(seen map[string]bool, t algebra.Term) {
	if t.IsVar() {
		seen[t.Var] = true
	}
}

func addPathVars(seen map[string]bool, p algebra.Path) {
	switch v := p.(type) {
	case algebra.PathTerm:
		addTermVar(seen, v.Term)
	case algebra.PathSeq:
		addPathVars(seen, v.Left)
		addPathVars(seen, v.Right)
	case algebra.PathAlt:
		addPathVars(seen, v.Left)
		addPathVars(seen, v.Right)
	case algebra.PathInverse:
		addPathVars(seen, v.Path)
	case algebra.PathZeroOrMore:
		addPathVars(seen, v.Path)
	case algebra.PathOneOrMore:
		addPathVars(seen, v.Path)
	case algebra.PathZeroOrOne:
		addPathVars(seen, v.Path)
	}
}
