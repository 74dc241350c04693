package langparse

import "github.com/kbvault/sparql/ast"

// parseTriplesBlock parses one `subject predicate object [{| p v |}] ;
// predicate2 object2 , object3` group (a single subject), stopping at
// the terminating `.`, `}`, or a keyword that starts a new group
// element, which it leaves unconsumed.
func (p *parser) parseTriplesBlock() ([]ast.TriplePattern, error) {
	var out []ast.TriplePattern
	for {
		subj, err := p.parseVarOrTerm()
		if err != nil {
			return nil, err
		}
		more, err := p.parsePredicateObjectList(subj, &out)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}
	return out, nil
}

// parsePredicateObjectList parses `p1 o1, o2 ; p2 o3` for a fixed
// subject, appending each resulting triple to out. Returns whether
// another triples block (a new subject) might follow — always false,
// since a `.` or block terminator ends the whole statement; kept as a
// return value to mirror the grammar's production shape.
func (p *parser) parsePredicateObjectList(subj ast.Term, out *[]ast.TriplePattern) (bool, error) {
	for {
		path, err := p.parsePath()
		if err != nil {
			return false, err
		}
		if err := p.parseObjectList(subj, path, out); err != nil {
			return false, err
		}
		if ok, err := p.acceptPunct(";"); err != nil {
			return false, err
		} else if !ok {
			return false, nil
		}
		if p.isPunct(".") || p.isPunct("}") {
			return false, nil
		}
	}
}

func (p *parser) parseObjectList(subj ast.Term, pred ast.PathExpr, out *[]ast.TriplePattern) error {
	for {
		obj, err := p.parseVarOrTerm()
		if err != nil {
			return err
		}
		tp := ast.TriplePattern{Subject: subj, Predicate: pred, Object: obj}
		if p.isPunct("{") && p.isAnnotationOpen() {
			anns, err := p.parseAnnotationBlock()
			if err != nil {
				return err
			}
			tp.Annotations = anns
		}
		*out = append(*out, tp)
		if ok, err := p.acceptPunct(","); err != nil {
			return err
		} else if !ok {
			return nil
		}
	}
}

// isAnnotationOpen reports whether the current `{` begins an
// annotation block `{| ... |}` rather than an ordinary group; it peeks
// without consuming by checking the lexer's raw next byte.
func (p *parser) isAnnotationOpen() bool {
	return p.lex.pos < len(p.lex.src) && p.lex.src[p.lex.pos] == '|'
}

// parseAnnotationBlock parses `{| p1 v1 ; p2 v2 |}` following a triple.
func (p *parser) parseAnnotationBlock() ([]ast.AnnotationPredicateValue, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	if err := p.expectPunct("|"); err != nil {
		return nil, err
	}
	var anns []ast.AnnotationPredicateValue
	for {
		path, err := p.parsePath()
		if err != nil {
			return nil, err
		}
		val, err := p.parseVarOrTerm()
		if err != nil {
			return nil, err
		}
		anns = append(anns, ast.AnnotationPredicateValue{Predicate: path, Object: val})
		if ok, err := p.acceptPunct(";"); err != nil {
			return nil, err
		} else if !ok {
			break
		}
	}
	if err := p.expectPunct("|"); err != nil {
		return nil, err
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return anns, nil
}
