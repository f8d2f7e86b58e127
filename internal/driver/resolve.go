package driver

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"jsfront/internal/ast"
	"jsfront/internal/diag"
	"jsfront/internal/observ"
	"jsfront/internal/project/dag"
	"jsfront/internal/resolver"
	"jsfront/internal/sema"
	"jsfront/internal/source"
	"jsfront/internal/trace"
)

// Options configure ResolveAll.
type Options struct {
	// Jobs bounds the number of modules resolved at once; <= 0 means
	// GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps each module's bag; <= 0 is unlimited.
	MaxDiagnostics int
	Limits         sema.Limits
	Progress       ProgressSink
	Timer          *observ.Timer
	// Filter selects the modules to resolve; nil resolves all of them.
	// Require cycles are only reported for unfiltered runs.
	Filter func(*source.File) bool
}

// ModuleResult is the outcome for one module. Sema is nil when the dump
// could not be loaded or decoded; it is partial when Err is set.
type ModuleResult struct {
	File    source.FileID
	Path    string
	Module  string
	Strings *source.Interner
	Tree    *ast.Tree
	Sema    *sema.Context
	Bag     *diag.Bag
	// Err is the fatal error that stopped resolution of this module.
	Err error
}

// Result is the outcome of ResolveAll.
type Result struct {
	Files *source.FileSet
	// Modules are sorted by path.
	Modules []*ModuleResult
	// Order is a load order over the require graph, nil for filtered runs.
	Order *dag.Topo
}

// HasErrors reports whether any module has an error diagnostic.
func (r *Result) HasErrors() bool {
	for _, m := range r.Modules {
		if m.Bag.HasErrors() {
			return true
		}
	}
	return false
}

// Diagnostics merges every module's diagnostics.
func (r *Result) Diagnostics() []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, m := range r.Modules {
		out = append(out, m.Bag.Items()...)
	}
	return out
}

// ResolveAll resolves every module of w. Each module gets its own interner,
// tree and semantic context; modules share only the read-only file set and
// module index. Per-module failures become diagnostics; the returned error
// is reserved for cancellation.
func ResolveAll(ctx context.Context, w *Workspace, opts Options) (*Result, error) {
	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopeDriver, "resolve-all", trace.ParentID(ctx))
	defer span.End("")
	ctx = trace.WithParent(ctx, span)

	timer := opts.Timer
	if timer == nil {
		timer = observ.NewTimer()
	}

	var files []*source.File
	all := w.Files.Files()
	for i := range all {
		f := &all[i]
		if opts.Filter == nil || opts.Filter(f) {
			files = append(files, f)
		}
	}
	span.WithExtra("modules", strconv.Itoa(len(files)))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]*ModuleResult, len(files))
	var done atomic.Int64
	progress := func(module string, status ProgressStatus) {
		if opts.Progress == nil {
			return
		}
		n := done.Load()
		if status == ProgressDone || status == ProgressFailed {
			n = done.Add(1)
		}
		opts.Progress.OnProgress(ProgressEvent{Module: module, Status: status, Done: int(n), Total: len(files)})
	}
	for _, f := range files {
		progress(f.Module, ProgressQueued)
	}

	phase := timer.Begin("resolve")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(files))))
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			progress(f.Module, ProgressWorking)
			res, err := resolveModule(gctx, w, f, opts)
			if err != nil {
				return err
			}
			results[i] = res
			if res.Err != nil {
				progress(f.Module, ProgressFailed)
			} else {
				progress(f.Module, ProgressDone)
			}
			return nil
		})
	}
	err := g.Wait()
	timer.End(phase, fmt.Sprintf("%d modules", len(files)))
	if err != nil {
		return nil, err
	}

	out := &Result{Files: w.Files, Modules: results}
	if opts.Filter == nil {
		phase = timer.Begin("graph")
		out.Order = orderModules(w, results)
		timer.End(phase, "")
	}
	slices.SortFunc(out.Modules, func(a, b *ModuleResult) int {
		return cmp.Compare(a.Path, b.Path)
	})
	return out, nil
}

// resolveModule runs the resolver for one file. Only cancellation is
// returned as an error.
func resolveModule(ctx context.Context, w *Workspace, f *source.File, opts Options) (*ModuleResult, error) {
	res := &ModuleResult{
		File:    f.ID,
		Path:    f.Path,
		Module:  f.Module,
		Strings: source.NewInterner(),
		Bag:     diag.NewBag(opts.MaxDiagnostics),
	}
	bagReporter := diag.BagReporter{Bag: res.Bag}
	whole := source.Span{File: f.ID}

	if err := w.LoadError(f.ID); err != nil {
		res.Err = err
		diag.ReportError(bagReporter, diag.IOLoadError, whole, "failed to load file: "+err.Error()).Emit()
		return res, nil
	}

	tree, err := ast.LoadESTree(f.Content, f.ID, res.Strings)
	if err != nil {
		res.Err = err
		diag.ReportError(bagReporter, diag.IOESTreeError, whole, "invalid ESTree dump: "+err.Error()).Emit()
		return res, nil
	}
	res.Tree = tree
	res.Sema = sema.NewContext(sema.Options{
		Limits: opts.Limits,
		Hints:  sema.Hints{Decls: tree.Len() / 4, Scopes: tree.Len() / 16},
	})

	err = sema.CatchContract(func() error {
		return resolver.Resolve(ctx, tree, res.Strings, res.Sema, resolver.Options{
			Module:   f.Module,
			Modules:  w.Index,
			Reporter: diag.NewDedupReporter(bagReporter),
		})
	})

	var capErr *sema.CapacityError
	var contractErr *sema.ContractError
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, err
	case errors.As(err, &capErr):
		res.Err = err
		diag.ReportError(bagReporter, diag.SemaCapacityExceeded, whole,
			fmt.Sprintf("module has too many %ss (limit %d)", capErr.Entity, capErr.Limit)).Emit()
	case errors.As(err, &contractErr):
		res.Err = err
		diag.ReportError(bagReporter, diag.SemaContractViolation, whole,
			"internal error while resolving: "+contractErr.Error()).Emit()
	default:
		res.Err = err
		diag.ReportError(bagReporter, diag.SemaContractViolation, whole, err.Error()).Emit()
	}
	return res, nil
}

// orderModules builds the require graph of the resolved modules, sorts it
// and warns about modules caught in cycles.
func orderModules(w *Workspace, results []*ModuleResult) *dag.Topo {
	byFile := make(map[source.FileID]*ModuleResult, len(results))
	var edges []dag.Edge
	for _, m := range results {
		byFile[m.File] = m
		if m.Sema == nil {
			continue
		}
		calls := m.Sema.AllRequires()
		nodes := make([]ast.NodeID, 0, len(calls))
		for n := range calls {
			nodes = append(nodes, n)
		}
		slices.Sort(nodes)
		for _, n := range nodes {
			edges = append(edges, dag.Edge{From: m.File, To: calls[n], Span: m.Tree.Node(n).Span})
		}
	}

	topo := dag.ToposortKahn(dag.BuildGraph(w.Files.Len(), edges))
	dag.ReportCycles(w.Files, topo, func(id source.FileID) diag.Reporter {
		if m := byFile[id]; m != nil {
			return diag.BagReporter{Bag: m.Bag}
		}
		return nil
	})
	return topo
}
