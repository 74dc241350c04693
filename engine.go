// Package sparql wires the pipeline's stages - pre-parse transformers,
// parser, translator, optimizer, executor, result cache - into a single
// Engine, the way the teacher's root package wires analyzer stages
// behind sqle.Engine.
package sparql

import (
	"context"
	"io"

	"github.com/lithammer/shortuuid/v3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/kbvault/sparql/algebra"
	"github.com/kbvault/sparql/ast"
	"github.com/kbvault/sparql/expression"
	"github.com/kbvault/sparql/kerrors"
	"github.com/kbvault/sparql/langparse"
	"github.com/kbvault/sparql/optimize"
	"github.com/kbvault/sparql/resultcache"
	"github.com/kbvault/sparql/rewrite"
	"github.com/kbvault/sparql/rowexec"
	"github.com/kbvault/sparql/store"
	"github.com/kbvault/sparql/term"
	"github.com/kbvault/sparql/translate"
)

// Engine runs the full pipeline against one Store. It holds no
// per-query mutable state of its own (the Store and Cache are
// independently synchronized), so one Engine safely serves concurrent
// callers.
type Engine struct {
	Store    *store.Store
	Executor *rowexec.Executor
	Cache    *resultcache.Cache // nil when Config.CacheSize < 0
	Indexer  *resultcache.Indexer
	log      *logrus.Entry
}

// New builds an Engine over st. A nil cfg uses every default the way a
// bare New(st) is meant to.
func New(st *store.Store, cfg *Config) (*Engine, error) {
	executor := rowexec.New(rowexec.Config{
		Store:      st,
		Functions:  cfg.functions(),
		Aggregates: cfg.aggregates(),
		Service:    cfg.service(),
	})

	e := &Engine{
		Store:    st,
		Executor: executor,
		log:      cfg.logger().WithField("system", "engine"),
	}

	if cfg.cacheSize() < 0 {
		return e, nil
	}
	cache, err := resultcache.New(cfg.cacheSize(), cfg.cacheOptions()...)
	if err != nil {
		return nil, errors.Wrap(err, "sparql: constructing result cache")
	}
	e.Cache = cache
	e.Indexer = resultcache.NewIndexer(cache, cfg.throttle())
	return e, nil
}

// Parse parses a complete query, synchronously, rejecting PREFIX*
// (which may require I/O to resolve a vocabulary) outright; use
// ParseAsync for queries that may use it.
func (e *Engine) Parse(text string) (*ast.Query, error) {
	rw, err := rewrite.Run(text)
	if err != nil {
		return nil, err
	}
	return finishParse(rw)
}

// ParseAsync parses a complete query, resolving any PREFIX* directive
// through resolver.
func (e *Engine) ParseAsync(ctx context.Context, text string, resolver rewrite.VocabularyResolver) (*ast.Query, error) {
	rw, err := rewrite.RunAsync(ctx, text, resolver)
	if err != nil {
		return nil, err
	}
	return finishParse(rw)
}

func finishParse(rw rewrite.Result) (*ast.Query, error) {
	q, err := langparse.Parse(rw.Text)
	if err != nil {
		return nil, err
	}
	q = translate.ApplyDirections(q, rw.DirectionOfLang)
	q = translate.ApplyDescribeOptions(q, rw.Describe)
	q = langparse.ExpandAnnotations(q)
	return q, nil
}

// Translate lowers a parsed query into its algebra form.
func (e *Engine) Translate(q *ast.Query) (algebra.Op, error) {
	return translate.Translate(q)
}

// Optimize rewrites op into an equivalent, cheaper-to-execute form
// using the Engine's store for selectivity estimates.
func (e *Engine) Optimize(op algebra.Op) algebra.Op {
	return optimize.Optimize(op, e.Store)
}

// Execute runs a Solution-shaped algebra op (everything but Construct,
// Ask and Describe, whose result shapes differ) and returns its
// solution stream.
func (e *Engine) Execute(ctx context.Context, op algebra.Op) (rowexec.Iterator, error) {
	return e.Executor.Execute(ctx, op)
}

// ResultKind distinguishes the three shapes a query can produce.
type ResultKind int

const (
	// ResultSolutions holds SELECT's sequence of variable bindings.
	ResultSolutions ResultKind = iota
	// ResultTriples holds CONSTRUCT/DESCRIBE's triple set.
	ResultTriples
	// ResultBoolean holds ASK's single true/false.
	ResultBoolean
)

// Result is Engine.Query's uniform return value, shaped according to
// Kind: exactly one of Solutions, Triples or Boolean is meaningful.
type Result struct {
	Kind      ResultKind
	Vars      []string
	Solutions []rowexec.Solution
	Triples   []term.Triple
	Boolean   bool
}

// Query runs the full pipeline - parse, translate, optimize, execute -
// over text and collects its result, checking the result cache first
// and populating it afterward. INSERT DATA/DELETE DATA updates bypass
// the algebra pipeline entirely: a ground quad list applies directly to
// the store.
func (e *Engine) Query(ctx context.Context, text string) (Result, error) {
	return e.QueryWithDependencies(ctx, text, nil)
}

// QueryWithDependencies is Query plus an explicit list of file paths
// the result depends on, for callers (a vault-backed store, say) that
// know which source files a query's answer would change with. A later
// NotifyChange/Watch event on any of these paths evicts this entry.
func (e *Engine) QueryWithDependencies(ctx context.Context, text string, files []string) (Result, error) {
	qid := shortuuid.New()
	log := e.log.WithField("query_id", qid)

	if e.Cache != nil {
		if entry, ok := e.Cache.Get(text); ok {
			log.Debug("result cache hit")
			if r, ok := entry.Result.(Result); ok {
				return r, nil
			}
		}
	}

	q, err := e.Parse(text)
	if err != nil {
		log.WithError(err).Debug("parse failed")
		return Result{}, err
	}

	if q.Update != nil {
		if err := e.applyUpdate(q.Update); err != nil {
			return Result{}, err
		}
		return Result{Kind: ResultBoolean, Boolean: true}, nil
	}

	op, err := e.Translate(q)
	if err != nil {
		log.WithError(err).Debug("translate failed")
		return Result{}, err
	}
	op = e.Optimize(op)

	result, err := e.executeTop(ctx, op)
	if err != nil {
		log.WithError(err).Debug("execute failed")
		return Result{}, err
	}

	if e.Cache != nil {
		e.Cache.Set(text, result, "", files)
	}
	return result, nil
}

// executeTop runs the three top-level query forms whose result shape
// isn't a Solution stream (Construct/Ask/Describe) directly, and drains
// everything else (Select and friends) into a Result.
func (e *Engine) executeTop(ctx context.Context, op algebra.Op) (Result, error) {
	switch v := op.(type) {
	case algebra.Construct:
		triples, err := e.Executor.Construct(ctx, v)
		if err != nil {
			return Result{}, err
		}
		return Result{Kind: ResultTriples, Triples: triples}, nil

	case algebra.Ask:
		ok, err := e.Executor.Ask(ctx, v)
		if err != nil {
			return Result{}, err
		}
		return Result{Kind: ResultBoolean, Boolean: ok}, nil

	case algebra.Describe:
		triples, err := e.Executor.Describe(ctx, v)
		if err != nil {
			return Result{}, err
		}
		return Result{Kind: ResultTriples, Triples: triples}, nil

	default:
		it, err := e.Execute(ctx, op)
		if err != nil {
			return Result{}, err
		}
		rows, vars, err := drainSolutions(ctx, it)
		if err != nil {
			return Result{}, err
		}
		return Result{Kind: ResultSolutions, Vars: vars, Solutions: rows}, nil
	}
}

func drainSolutions(ctx context.Context, it rowexec.Iterator) ([]rowexec.Solution, []string, error) {
	defer it.Close()
	seen := map[string]bool{}
	var vars []string
	var rows []rowexec.Solution
	for {
		row, err := it.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		rows = append(rows, row)
		for name := range row {
			if !seen[name] {
				seen[name] = true
				vars = append(vars, name)
			}
		}
	}
	return rows, vars, nil
}

// applyUpdate grounds and applies an INSERT DATA/DELETE DATA operation
// directly to the store; these never go through the algebra pipeline
// since they carry no variables to evaluate.
func (e *Engine) applyUpdate(u *ast.UpdateOperation) error {
	triples := make([]term.Triple, 0, len(u.Quads))
	for _, q := range u.Quads {
		tr, err := groundQuad(q)
		if err != nil {
			return err
		}
		triples = append(triples, tr)
	}
	if u.Insert {
		e.Store.AddAll(triples)
		return nil
	}
	for _, tr := range triples {
		e.Store.Delete(tr)
	}
	return nil
}

func groundQuad(q ast.QuadPattern) (term.Triple, error) {
	s, err := translate.GroundTerm(q.Subject)
	if err != nil {
		return term.Triple{}, err
	}
	p, err := translate.GroundTerm(q.Predicate)
	if err != nil {
		return term.Triple{}, err
	}
	pIRI, ok := p.(term.IRI)
	if !ok {
		return term.Triple{}, kerrors.New(kerrors.KindTypeError, "INSERT DATA/DELETE DATA predicate must be an IRI")
	}
	o, err := translate.GroundTerm(q.Object)
	if err != nil {
		return term.Triple{}, err
	}
	tr := term.Triple{Subject: s, Predicate: pIRI, Object: o}
	if q.Graph != "" {
		g := term.IRI{Value: q.Graph}
		tr.Graph = &g
	}
	return tr, nil
}

// Exists implements expression.PatternExister by delegating to the
// Executor, so the root package's own nested-pattern callers (tests,
// future EXISTS-from-outside-rowexec use) share the same evaluation
// path the FILTER/EXTEND evaluator uses internally.
func (e *Engine) Exists(pattern algebra.Op, env expression.Env) (bool, error) {
	return e.Executor.Exists(pattern, env)
}

// Close releases resources the Engine owns. Present for symmetry with
// callers that expect a paired New/Close lifecycle; currently a no-op
// since neither the Store nor the Cache hold any closeable handle.
func (e *Engine) Close() error {
	return nil
}

// RunIndexer drains the result cache's incremental indexer until ctx is
// done. A no-op on an Engine built with caching disabled. Callers
// typically run this in its own goroutine alongside the Engine.
func (e *Engine) RunIndexer(ctx context.Context) error {
	if e.Indexer == nil {
		return nil
	}
	return e.Indexer.Run(ctx)
}

// NotifyChange reports a file change so the cache can invalidate the
// query results that depended on it, once the change settles past the
// indexer's debounce window. A no-op on an Engine built with caching
// disabled.
func (e *Engine) NotifyChange(c resultcache.Change) {
	if e.Indexer == nil {
		return
	}
	e.Indexer.Push(c)
}

// Watch attaches an fsnotify-backed Watcher feeding this Engine's
// indexer from real filesystem events under the given paths, for
// callers that would rather not call NotifyChange themselves.
func (e *Engine) Watch(paths ...string) (*resultcache.Watcher, error) {
	if e.Indexer == nil {
		return nil, kerrors.New(kerrors.KindUnsupportedFeature, "sparql: result cache disabled, nothing to watch")
	}
	w, err := resultcache.NewWatcher(e.Indexer)
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		if err := w.Add(p); err != nil {
			w.Close()
			return nil, err
		}
	}
	return w, nil
}
