// Package resolver walks an ESTree program and builds its semantic context:
// it decides which bindings exist, where they live, and which declaration
// every identifier refers to. The sema package only records the results.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"jsfront/internal/ast"
	"jsfront/internal/diag"
	"jsfront/internal/sema"
	"jsfront/internal/source"
	"jsfront/internal/trace"
)

var (
	// ErrNoProgram is returned for a tree without a Program root.
	ErrNoProgram = errors.New("resolver: tree has no program")
	// ErrContextInUse is returned when the context already holds a program.
	ErrContextInUse = errors.New("resolver: semantic context is not empty")
)

// ModuleResolver finds the module a require specifier names.
// *project.ModuleIndex implements it.
type ModuleResolver interface {
	Resolve(fromModule, spec string) (source.FileID, bool)
}

type Options struct {
	// Module is the logical path of the module being resolved; relative
	// require specifiers are interpreted against it.
	Module string
	// Modules resolves require/import specifiers. Nil disables module
	// resolution.
	Modules ModuleResolver
	// Reporter receives redeclaration and unresolved-require diagnostics.
	Reporter diag.Reporter
}

// Resolve fills sc, which must be empty, from tree. Names are interned in
// strs, the same table the tree was built with.
//
// Capacity errors from sc and context cancellation stop the walk and are
// returned; sc is left partially built. Contract violations are bugs and
// panic with *sema.ContractError.
func Resolve(ctx context.Context, tree *ast.Tree, strs *source.Interner, sc *sema.Context, opts Options) (err error) {
	if tree == nil || tree.Kind(tree.Root) != ast.KindProgram {
		return ErrNoProgram
	}
	if _, ok := sc.GlobalFunctionID(); ok {
		return ErrContextInUse
	}

	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopeModule, "resolve "+opts.Module, trace.ParentID(ctx))
	defer func() {
		detail := ""
		if err != nil {
			detail = err.Error()
		}
		span.WithExtra("functions", strconv.Itoa(sc.NumFunctions())).
			WithExtra("scopes", strconv.Itoa(sc.NumScopes())).
			WithExtra("decls", strconv.Itoa(sc.NumDecls())).
			End(detail)
	}()

	r := &resolver{
		ctx:    ctx,
		tree:   tree,
		sc:     sc,
		opts:   opts,
		strs:   strs,
		tr:     tr,
		span:   span.ID(),
		sites:  make(map[sema.DeclID]ast.NodeID),
		fnDone: make(map[ast.NodeID]bool),

		atomArguments: strs.Intern("arguments"),
		atomEval:      strs.Intern("eval"),
		atomRequire:   strs.Intern("require"),
		atomUseStrict: strs.Intern("use strict"),
	}
	if r.opts.Reporter == nil {
		r.opts.Reporter = diag.BagReporter{}
	}

	defer func() {
		if rec := recover(); rec != nil {
			a, ok := rec.(abort)
			if !ok {
				panic(rec)
			}
			err = a.err
		}
	}()
	r.program(tree.Root)
	return nil
}

// abort unwinds the walk on a capacity error or cancellation.
type abort struct{ err error }

func (r *resolver) check(err error) {
	if err != nil {
		panic(abort{err: err})
	}
}

type funcState struct {
	id     sema.FunctionID
	scope  sema.ScopeID // function scope
	arrow  bool
	strict bool
	parent *funcState
}

type scopeState struct {
	parent sema.ScopeID
	names  map[source.StringID]sema.DeclID
}

type resolver struct {
	ctx  context.Context
	tree *ast.Tree
	sc   *sema.Context
	opts Options
	strs *source.Interner
	tr   trace.Tracer
	span uint64

	module bool
	fn     *funcState
	scope  sema.ScopeID
	strict bool

	// per scope, indexed by ScopeID.Index()
	scopes []scopeState
	// identifier that introduced each declaration, for notes
	sites map[sema.DeclID]ast.NodeID
	// function declarations already bound by a hoisting pass
	fnDone map[ast.NodeID]bool

	atomArguments source.StringID
	atomEval      source.StringID
	atomRequire   source.StringID
	atomUseStrict source.StringID
}

// ---- entity creation ----

func (r *resolver) newFunction(node ast.NodeID, arrow, strict bool) *funcState {
	var parent sema.FunctionID
	if r.fn != nil {
		parent = r.fn.id
	}
	id, err := r.sc.NewFunction(parent, r.scope, strict)
	r.check(err)
	trace.Point(r.tr, trace.ScopeNode, "function", id.String(), r.span)

	fs := &funcState{id: id, arrow: arrow, strict: strict, parent: r.fn}
	fs.scope = r.newScopeFor(id, node)
	return fs
}

func (r *resolver) newScope(node ast.NodeID) sema.ScopeID {
	return r.newScopeFor(r.fn.id, node)
}

func (r *resolver) newScopeFor(fn sema.FunctionID, node ast.NodeID) sema.ScopeID {
	id, err := r.sc.NewScope(fn, r.scope)
	r.check(err)
	r.scopes = append(r.scopes, scopeState{parent: r.scope})
	if node.IsValid() {
		r.sc.SetNodeScope(node, id)
	}
	return id
}

func (r *resolver) bindings(scope sema.ScopeID) map[source.StringID]sema.DeclID {
	st := &r.scopes[scope.Index()]
	if st.names == nil {
		st.names = make(map[source.StringID]sema.DeclID)
	}
	return st.names
}

// declare binds the identifier node ident in scope. Compatible
// redeclarations (var over var, var over a parameter, sloppy block
// functions) share the existing declaration; conflicting ones are reported
// and also resolve to the earlier declaration.
func (r *resolver) declare(scope sema.ScopeID, ident ast.NodeID, kind sema.DeclKind) sema.DeclID {
	n := r.tree.Node(ident)
	if n == nil {
		return sema.NoDeclID
	}
	names := r.bindings(scope)
	// any declaration in a function body shadows the expression's own name
	if prev, ok := names[n.Name]; ok && r.sc.Decl(prev).Kind != sema.DeclFunctionExprName {
		pk := r.sc.Decl(prev).Kind
		conflict := false
		switch {
		case kind.IsLetLike() || pk.IsLetLike():
			conflict = true
		case kind == sema.DeclParameter && pk == sema.DeclParameter:
			conflict = r.strict
		case kind == sema.DeclScopedFunction && pk == sema.DeclScopedFunction:
			conflict = r.strict
		}
		if conflict {
			r.redeclared(ident, r.sites[prev])
		}
		r.sc.SetIdentDecl(ident, prev)
		return prev
	}
	id, err := r.sc.NewDecl(scope, n.Name, kind)
	r.check(err)
	names[n.Name] = id
	r.sites[id] = ident
	r.sc.SetIdentDecl(ident, id)
	return id
}

func (r *resolver) redeclared(ident, prev ast.NodeID) {
	n := r.tree.Node(ident)
	b := diag.ReportError(r.opts.Reporter, diag.SemaRedeclaration, n.Span,
		fmt.Sprintf("'%s' has already been declared", r.strs.Name(n.Name)))
	if p := r.tree.Node(prev); p != nil {
		b.WithNote(p.Span, "previous declaration is here")
	}
	b.Emit()
}

// varKind is the kind of a var-scoped binding in the current function.
func (r *resolver) varKind() sema.DeclKind {
	if r.fn.id.IsGlobal() && !r.module {
		return sema.DeclGlobalProperty
	}
	return sema.DeclVar
}

// ---- program and functions ----

func (r *resolver) program(root ast.NodeID) {
	n := r.tree.Node(root)
	r.module = n.Has(ast.FlagModule)
	r.strict = r.module || r.hasUseStrict(n.Kids)
	r.fn = r.newFunction(root, false, r.strict)
	r.scope = r.fn.scope

	r.hoistFunctionBody(n.Kids)
	r.walkList(n.Kids)
}

func (r *resolver) function(node ast.NodeID) {
	if err := r.ctx.Err(); err != nil {
		panic(abort{err: err})
	}
	n := r.tree.Node(node)
	body := n.Kid(ast.FuncSlotBody)
	bodyNode := r.tree.Node(body)
	blockBody := bodyNode != nil && bodyNode.Kind == ast.KindBlockStatement
	arrow := n.Kind == ast.KindArrowFunctionExpression

	strict := r.strict
	if blockBody && r.hasUseStrict(bodyNode.Kids) {
		strict = true
	}

	savedFn, savedScope, savedStrict := r.fn, r.scope, r.strict
	r.fn = r.newFunction(node, arrow, strict)
	r.scope = r.fn.scope
	r.strict = strict
	defer func() { r.fn, r.scope, r.strict = savedFn, savedScope, savedStrict }()

	if n.Kind == ast.KindFunctionExpression {
		if name := n.Kid(ast.FuncSlotID); name.IsValid() {
			r.declare(r.scope, name, sema.DeclFunctionExprName)
		}
	}
	params := n.From(ast.FuncSlotParams)
	for _, p := range params {
		for _, id := range r.tree.BindingIdentifiers(p) {
			r.declare(r.scope, id, sema.DeclParameter)
		}
	}
	if blockBody {
		r.hoistFunctionBody(bodyNode.Kids)
	}
	for _, p := range params {
		r.patternExprs(p)
	}
	if blockBody {
		r.walkList(bodyNode.Kids)
	} else {
		r.walk(body)
	}
}

func (r *resolver) hasUseStrict(stmts []ast.NodeID) bool {
	for _, id := range stmts {
		n := r.tree.Node(id)
		if n == nil || n.Kind != ast.KindExpressionStatement || !n.Has(ast.FlagDirective) {
			return false
		}
		if n.Name == r.atomUseStrict {
			return true
		}
	}
	return false
}

func (r *resolver) class(node ast.NodeID) {
	n := r.tree.Node(node)
	savedScope, savedStrict := r.scope, r.strict
	r.strict = true
	defer func() { r.scope, r.strict = savedScope, savedStrict }()

	if n.Kind == ast.KindClassExpression {
		if name := n.Kid(ast.ClassSlotID); name.IsValid() {
			r.scope = r.newScope(node)
			r.declare(r.scope, name, sema.DeclClass)
		}
	}
	r.walk(n.Kid(ast.ClassSlotSuper))
	r.walkList(n.From(ast.ClassSlotMembers))
}
