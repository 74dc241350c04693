package rewrite

import "context"

// Result bundles the side channels every transform in the pipeline may
// extract, to be attached to the algebra tree once translation runs.
type Result struct {
	Text             string
	Describe         DescribeOptions
	DirectionOfLang  map[string]string
}

// Run executes the synchronous pipeline: DESCRIBE options, directional
// language tags, LATERAL, triple-term, CASE WHEN, in that fixed order.
// PREFIX* is rejected outright, since resolving a vocabulary IRI may
// require I/O that only the async path is allowed to perform.
func Run(query string) (Result, error) {
	if err := RequireSync(query); err != nil {
		return Result{}, err
	}
	return runRest(query)
}

// RunAsync executes the full pipeline including PREFIX* vocabulary
// resolution, which is why it alone takes a context and a resolver.
func RunAsync(ctx context.Context, query string, resolver VocabularyResolver) (Result, error) {
	query, err := PrefixStarTransform(ctx, query, resolver)
	if err != nil {
		return Result{}, err
	}
	return runRest(query)
}

// runRest applies the transforms shared by both the sync and async
// paths, in the fixed order: DESCRIBE options, directional language
// tags, LATERAL, triple-term, CASE WHEN.
func runRest(query string) (Result, error) {
	query, opts, err := DescribeOptionsTransform(query)
	if err != nil {
		return Result{}, err
	}

	query, directions := DirectionalLanguageTransform(query)

	query, err = LateralTransform(query)
	if err != nil {
		return Result{}, err
	}

	query, err = TripleTermTransform(query)
	if err != nil {
		return Result{}, err
	}

	query, err = CaseWhenTransform(query)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Text:            query,
		Describe:        opts,
		DirectionOfLang: directions,
	}, nil
}
