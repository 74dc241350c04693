package translate

import (
	"github.com/kbvault/sparql/ast"
	"github.com/kbvault/sparql/rewrite"
)

// ApplyDescribeOptions threads the DEPTH/SYMMETRIC options the DESCRIBE
// options pre-parse transform stripped out of the query text back onto
// the parsed DescribeQuery, since the parser never saw them.
func ApplyDescribeOptions(q *ast.Query, opts rewrite.DescribeOptions) *ast.Query {
	if q.Describe == nil {
		return q
	}
	q.Describe.Depth = opts.Depth
	q.Describe.Symmetric = opts.Symmetric
	return q
}
