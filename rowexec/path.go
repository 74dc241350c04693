package rowexec

import (
	"github.com/kbvault/sparql/algebra"
	"github.com/kbvault/sparql/store"
	"github.com/kbvault/sparql/term"
)

// matchPattern resolves tp against the store under env's current
// bindings, yielding one extended Solution per matching triple. A
// PathTerm predicate (the common case: a fixed IRI or a variable) goes
// straight to the store; any other Path shape goes through the
// BFS-based path evaluator.
func (ex *Executor) matchPattern(tp algebra.TriplePattern, env Solution, scope graphScope) ([]Solution, error) {
	if pt, ok := tp.Predicate.(algebra.PathTerm); ok {
		return ex.matchSimple(tp, pt, env, scope)
	}
	return ex.matchPath(tp, env, scope)
}

func (ex *Executor) matchSimple(tp algebra.TriplePattern, pt algebra.PathTerm, env Solution, scope graphScope) ([]Solution, error) {
	subj, subjBound := resolveTerm(tp.Subject, env)
	obj, objBound := resolveTerm(tp.Object, env)
	var pred term.Term
	predBound := false
	if !pt.Term.IsVar() {
		pred = pt.Term.Value
		predBound = true
	} else if v, ok := env.Get(pt.Term.Var); ok {
		pred = v
		predBound = true
	}

	pattern := store.Pattern{Graph: scope.iri, AnyGraph: scope.anyGraph}
	if subjBound {
		pattern.Subject = subj
	}
	if predBound {
		pattern.Predicate = pred
	}
	if objBound {
		pattern.Object = obj
	}

	var out []Solution
	it := ex.Store.Match(pattern)
	for it.Next() {
		t := it.Triple()
		next := env.Clone()
		if !bindTerm(next, tp.Subject, t.Subject) {
			continue
		}
		if !pt.Term.IsVar() {
			// fixed predicate IRI, nothing to bind
		} else if !bindVar(next, pt.Term.Var, t.Predicate) {
			continue
		}
		if !bindTerm(next, tp.Object, t.Object) {
			continue
		}
		out = append(out, next)
	}
	return out, nil
}

// resolveTerm returns tp's bound value, consulting env for a variable.
func resolveTerm(t algebra.Term, env Solution) (term.Term, bool) {
	if !t.IsVar() {
		return t.Value, true
	}
	v, ok := env.Get(t.Var)
	return v, ok
}

// bindTerm extends next so that t's position holds value: a no-op check
// for a bound term (must already match), a fresh binding for an unbound
// variable, or a compatibility check for an already-bound variable.
// Returns false if value is incompatible with an existing binding.
func bindTerm(next Solution, t algebra.Term, value term.Term) bool {
	if !t.IsVar() {
		return t.Value.Equals(value)
	}
	return bindVar(next, t.Var, value)
}

func bindVar(next Solution, name string, value term.Term) bool {
	if existing, ok := next[name]; ok {
		return existing.Equals(value)
	}
	next[name] = value
	return true
}

// matchPath evaluates a composite property path (sequence, alternative,
// inverse, the three repetition operators, or a negated property set).
// At least one of subject/object must already be bound; if both are
// unbound, every distinct subject in scope is tried as a starting point,
// a correctness-preserving but unindexed fallback.
func (ex *Executor) matchPath(tp algebra.TriplePattern, env Solution, scope graphScope) ([]Solution, error) {
	subj, subjBound := resolveTerm(tp.Subject, env)
	obj, objBound := resolveTerm(tp.Object, env)

	var pairs [][2]term.Term
	switch {
	case subjBound && objBound:
		if ex.pathConnects(subj, obj, tp.Predicate, scope) {
			pairs = append(pairs, [2]term.Term{subj, obj})
		}
	case subjBound:
		for _, o := range ex.pathReachable(subj, tp.Predicate, scope, false) {
			pairs = append(pairs, [2]term.Term{subj, o})
		}
	case objBound:
		for _, s := range ex.pathReachable(obj, tp.Predicate, scope, true) {
			pairs = append(pairs, [2]term.Term{s, obj})
		}
	default:
		for _, s := range ex.allSubjects(scope) {
			for _, o := range ex.pathReachable(s, tp.Predicate, scope, false) {
				pairs = append(pairs, [2]term.Term{s, o})
			}
		}
	}

	var out []Solution
	for _, p := range pairs {
		next := env.Clone()
		if !bindTerm(next, tp.Subject, p[0]) {
			continue
		}
		if !bindTerm(next, tp.Object, p[1]) {
			continue
		}
		out = append(out, next)
	}
	return out, nil
}

func (ex *Executor) pathConnects(subj, obj term.Term, path algebra.Path, scope graphScope) bool {
	for _, o := range ex.pathReachable(subj, path, scope, false) {
		if o.Equals(obj) {
			return true
		}
	}
	return false
}

func (ex *Executor) allSubjects(scope graphScope) []term.Term {
	seen := map[string]term.Term{}
	it := ex.Store.Match(store.Pattern{Graph: scope.iri, AnyGraph: scope.anyGraph})
	for it.Next() {
		s := it.Triple().Subject
		seen[s.String()] = s
	}
	out := make([]term.Term, 0, len(seen))
	for _, s := range seen {
		out = append(out, s)
	}
	return out
}

// pathReachable returns every node reachable from start by path, one
// hop computed by oneHop. If inverse is true the whole path is walked
// backwards (start plays the role of the path's object).
func (ex *Executor) pathReachable(start term.Term, path algebra.Path, scope graphScope, inverse bool) []term.Term {
	switch p := path.(type) {
	case algebra.PathTerm:
		return ex.oneHop(start, p.Term, scope, inverse)
	case algebra.PathSeq:
		left, right := p.Left, p.Right
		if inverse {
			left, right = p.Right, p.Left
		}
		mids := ex.pathReachable(start, left, scope, inverse)
		seen := map[string]term.Term{}
		for _, m := range mids {
			for _, end := range ex.pathReachable(m, right, scope, inverse) {
				seen[end.String()] = end
			}
		}
		return mapValues(seen)
	case algebra.PathAlt:
		seen := map[string]term.Term{}
		for _, end := range ex.pathReachable(start, p.Left, scope, inverse) {
			seen[end.String()] = end
		}
		for _, end := range ex.pathReachable(start, p.Right, scope, inverse) {
			seen[end.String()] = end
		}
		return mapValues(seen)
	case algebra.PathInverse:
		return ex.pathReachable(start, p.Path, scope, !inverse)
	case algebra.PathZeroOrMore:
		return ex.bfsClosure(start, p.Path, scope, inverse, true)
	case algebra.PathOneOrMore:
		return ex.bfsClosure(start, p.Path, scope, inverse, false)
	case algebra.PathZeroOrOne:
		seen := map[string]term.Term{start.String(): start}
		for _, end := range ex.pathReachable(start, p.Path, scope, inverse) {
			seen[end.String()] = end
		}
		return mapValues(seen)
	case algebra.PathNegatedSet:
		return ex.negatedSetHop(start, p, scope, inverse)
	default:
		return nil
	}
}

// bfsClosure implements * (includeStart=true) and + (includeStart=false)
// as a breadth-first search over one-hop expansions of inner, visiting
// each node at most once so a cycle in the data terminates the walk.
func (ex *Executor) bfsClosure(start term.Term, inner algebra.Path, scope graphScope, inverse, includeStart bool) []term.Term {
	visited := map[string]bool{}
	var frontier []term.Term
	if includeStart {
		visited[start.String()] = true
		frontier = append(frontier, start)
	}
	next := ex.pathReachable(start, inner, scope, inverse)
	queue := next
	for _, n := range next {
		visited[n.String()] = true
	}
	var out []term.Term
	if includeStart {
		out = append(out, start)
	}
	out = append(out, next...)

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range ex.pathReachable(cur, inner, scope, inverse) {
			key := n.String()
			if visited[key] {
				continue
			}
			visited[key] = true
			out = append(out, n)
			queue = append(queue, n)
		}
	}
	return out
}

func (ex *Executor) oneHop(start term.Term, t algebra.Term, scope graphScope, inverse bool) []term.Term {
	if t.IsVar() {
		return nil // a variable predicate cannot appear inside a composite path
	}
	pattern := store.Pattern{Predicate: t.Value, Graph: scope.iri, AnyGraph: scope.anyGraph}
	if inverse {
		pattern.Object = start
	} else {
		pattern.Subject = start
	}
	var out []term.Term
	it := ex.Store.Match(pattern)
	for it.Next() {
		tr := it.Triple()
		if inverse {
			out = append(out, tr.Subject)
		} else {
			out = append(out, tr.Object)
		}
	}
	return out
}

// negatedSetHop evaluates !(iri|^iri|...): a single-hop move allowing any
// predicate except the listed ones, in the direction (forward for a
// plain member, backward for a ^-prefixed one) each member names. An
// enclosing PathInverse flips both directions at once via outerInverse.
func (ex *Executor) negatedSetHop(start term.Term, p algebra.PathNegatedSet, scope graphScope, outerInverse bool) []term.Term {
	excludedForward := map[string]bool{}
	excludedBackward := map[string]bool{}
	for i, iri := range p.IRIs {
		if i < len(p.Inverse) && p.Inverse[i] {
			excludedBackward[iri.Value] = true
		} else {
			excludedForward[iri.Value] = true
		}
	}

	scan := func(subjectIsStart bool, excluded map[string]bool) []term.Term {
		pattern := store.Pattern{Graph: scope.iri, AnyGraph: scope.anyGraph}
		if subjectIsStart {
			pattern.Subject = start
		} else {
			pattern.Object = start
		}
		var out []term.Term
		it := ex.Store.Match(pattern)
		for it.Next() {
			tr := it.Triple()
			pr, ok := tr.Predicate.(term.IRI)
			if !ok || excluded[pr.Value] {
				continue
			}
			if subjectIsStart {
				out = append(out, tr.Object)
			} else {
				out = append(out, tr.Subject)
			}
		}
		return out
	}

	var out []term.Term
	if !outerInverse {
		out = append(out, scan(true, excludedForward)...)
		out = append(out, scan(false, excludedBackward)...)
	} else {
		out = append(out, scan(false, excludedForward)...)
		out = append(out, scan(true, excludedBackward)...)
	}
	return out
}

func mapValues(m map[string]term.Term) []term.Term {
	out := make([]term.Term, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}
