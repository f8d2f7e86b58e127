package resolver

import (
	"fmt"

	"jsfront/internal/ast"
	"jsfront/internal/diag"
	"jsfront/internal/sema"
	"jsfront/internal/source"
)

func (r *resolver) walkList(ids []ast.NodeID) {
	for _, id := range ids {
		r.walk(id)
	}
}

// walk resolves every reference under id. Statements that open scopes
// push and pop them here.
func (r *resolver) walk(id ast.NodeID) {
	n := r.tree.Node(id)
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KindIdentifier:
		r.reference(id)

	case ast.KindFunctionDeclaration:
		r.declareScopedFunction(r.scope, id)
		r.function(id)
	case ast.KindFunctionExpression, ast.KindArrowFunctionExpression:
		r.function(id)
	case ast.KindClassDeclaration, ast.KindClassExpression:
		r.class(id)

	case ast.KindVariableDeclaration:
		_, lexical := declarationKind(n)
		for _, d := range n.Kids {
			dn := r.tree.Node(d)
			if !lexical {
				for _, ident := range r.tree.BindingIdentifiers(dn.Kid(0)) {
					r.checkVarAgainstBlocks(ident)
				}
			}
			r.patternExprs(dn.Kid(0))
			r.walk(dn.Kid(1))
		}

	case ast.KindBlockStatement:
		r.block(id, n.Kids)
	case ast.KindIfStatement:
		r.walk(n.Kid(0))
		for _, clause := range n.From(1) {
			r.clause(clause)
		}
	case ast.KindForStatement, ast.KindForInStatement, ast.KindForOfStatement:
		r.loop(id, n)
	case ast.KindSwitchStatement:
		r.walk(n.Kid(0))
		saved := r.scope
		r.scope = r.newScope(id)
		var stmts []ast.NodeID
		for _, c := range n.From(1) {
			stmts = append(stmts, r.tree.Node(c).From(1)...)
		}
		r.declareBlock(r.scope, stmts)
		r.walkList(n.From(1))
		r.scope = saved
	case ast.KindCatchClause:
		r.catch(id, n)

	case ast.KindImportDeclaration:
		// locals were bound when the program body was hoisted
		if src := r.tree.Node(n.Kid(0)); src != nil && src.Kind == ast.KindStringLiteral {
			r.requireModule(id, r.strs.Name(src.Name), n.Span)
		}

	case ast.KindMemberExpression:
		r.walk(n.Kid(0))
		if n.Has(ast.FlagComputed) {
			r.walk(n.Kid(1))
		}
	case ast.KindProperty:
		if n.Has(ast.FlagComputed) {
			r.walk(n.Kid(0))
		}
		r.walk(n.Kid(1))
	case ast.KindCallExpression:
		r.walkList(n.Kids)
		r.checkRequire(id, n)

	case ast.KindStringLiteral, ast.KindLiteral, ast.KindThisExpression:
	default:
		r.walkList(n.Kids)
	}
}

func (r *resolver) block(id ast.NodeID, stmts []ast.NodeID) {
	saved := r.scope
	r.scope = r.newScope(id)
	r.declareBlock(r.scope, stmts)
	r.walkList(stmts)
	r.scope = saved
}

// clause walks an if branch. A bare function declaration there behaves
// as if wrapped in a block, so it gets a scope of its own.
func (r *resolver) clause(id ast.NodeID) {
	n := r.tree.Node(id)
	if n == nil || n.Kind != ast.KindFunctionDeclaration {
		r.walk(id)
		return
	}
	saved := r.scope
	r.scope = r.newScope(ast.NoNodeID)
	r.walk(id)
	r.scope = saved
}

// loop gives for/for-in/for-of heads with let or const their own scope.
func (r *resolver) loop(id ast.NodeID, n *ast.Node) {
	head := r.tree.Node(n.Kid(0))
	lexicalHead := false
	if head != nil && head.Kind == ast.KindVariableDeclaration {
		_, lexicalHead = declarationKind(head)
	}
	if !lexicalHead {
		r.walkList(n.Kids)
		return
	}
	saved := r.scope
	r.scope = r.newScope(id)
	r.declareBlock(r.scope, n.Kids[:1])
	r.walkList(n.Kids)
	r.scope = saved
}

// catch opens one scope holding the parameter and the body's own lexical
// declarations, so `catch (e) { let e }` is a redeclaration.
func (r *resolver) catch(id ast.NodeID, n *ast.Node) {
	saved := r.scope
	r.scope = r.newScope(id)
	defer func() { r.scope = saved }()

	param := n.Kid(0)
	if r.tree.Kind(param) == ast.KindIdentifier {
		r.declare(r.scope, param, sema.DeclES5Catch)
	} else {
		for _, ident := range r.tree.BindingIdentifiers(param) {
			r.declare(r.scope, ident, sema.DeclLet)
		}
		r.patternExprs(param)
	}

	body := r.tree.Node(n.Kid(1))
	if body == nil {
		return
	}
	r.sc.SetNodeScope(n.Kid(1), r.scope)
	r.declareBlock(r.scope, body.Kids)
	r.walkList(body.Kids)
}

// patternExprs resolves the expressions inside a binding pattern: default
// values and computed keys. The bound identifiers themselves are resolved
// when they are declared.
func (r *resolver) patternExprs(id ast.NodeID) {
	n := r.tree.Node(id)
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KindAssignmentPattern:
		r.patternExprs(n.Kid(0))
		r.walk(n.Kid(1))
	case ast.KindProperty:
		if n.Has(ast.FlagComputed) {
			r.walk(n.Kid(0))
		}
		r.patternExprs(n.Kid(1))
	case ast.KindRestElement, ast.KindArrayPattern, ast.KindObjectPattern:
		for _, kid := range n.Kids {
			r.patternExprs(kid)
		}
	case ast.KindMemberExpression:
		r.walk(id)
	}
}

// checkVarAgainstBlocks reports a var whose name is bound lexically in a
// block between its statement and the function scope. A simple catch
// parameter may be redeclared by var.
func (r *resolver) checkVarAgainstBlocks(ident ast.NodeID) {
	name := r.tree.Node(ident).Name
	for s := r.scope; s.IsValid() && s != r.fn.scope; s = r.scopes[s.Index()].parent {
		prev, ok := r.scopes[s.Index()].names[name]
		if !ok {
			continue
		}
		if k := r.sc.Decl(prev).Kind; k.IsLetLike() && k != sema.DeclES5Catch {
			r.redeclared(ident, r.sites[prev])
			return
		}
	}
}

// ---- references ----

func (r *resolver) lookup(name source.StringID, stop sema.ScopeID) (sema.DeclID, bool) {
	for s := r.scope; s.IsValid(); s = r.scopes[s.Index()].parent {
		if d, ok := r.scopes[s.Index()].names[name]; ok {
			return d, true
		}
		if s == stop {
			break
		}
	}
	return sema.NoDeclID, false
}

// argumentsOwner is the nearest enclosing non-arrow function, nil when that
// is the global function.
func (r *resolver) argumentsOwner() *funcState {
	f := r.fn
	for f != nil && f.arrow {
		f = f.parent
	}
	if f == nil || f.id.IsGlobal() {
		return nil
	}
	return f
}

func (r *resolver) reference(ident ast.NodeID) {
	name := r.tree.Node(ident).Name

	if name == r.atomArguments {
		if owner := r.argumentsOwner(); owner != nil {
			d, ok := r.lookup(name, owner.scope)
			if !ok {
				var err error
				d, err = r.sc.FuncArgumentsDecl(owner.id, name)
				r.check(err)
			}
			r.sc.SetIdentDecl(ident, d)
			return
		}
	}

	if d, ok := r.lookup(name, sema.NoScopeID); ok {
		r.sc.SetIdentDecl(ident, d)
		return
	}

	special := sema.NotSpecial
	if name == r.atomEval {
		special = sema.SpecialEval
	}
	global, _ := r.sc.GlobalScopeID()
	d, err := r.sc.NewDeclSpecial(global, name, sema.DeclUndeclaredGlobalProperty, special)
	r.check(err)
	r.bindings(global)[name] = d
	r.sc.SetIdentDecl(ident, d)
}

// ---- modules ----

// checkRequire records require("spec") calls whose callee is the undeclared
// global require.
func (r *resolver) checkRequire(id ast.NodeID, n *ast.Node) {
	if len(n.Kids) != 2 {
		return
	}
	callee := r.tree.Node(n.Kid(0))
	arg := r.tree.Node(n.Kid(1))
	if callee == nil || callee.Kind != ast.KindIdentifier || callee.Name != r.atomRequire ||
		arg == nil || arg.Kind != ast.KindStringLiteral {
		return
	}
	d, ok := r.sc.IdentDecl(n.Kid(0))
	if !ok || r.sc.Decl(d).Kind != sema.DeclUndeclaredGlobalProperty {
		return
	}
	r.requireModule(id, r.strs.Name(arg.Name), n.Span)
}

func (r *resolver) requireModule(node ast.NodeID, spec string, span source.Span) {
	if r.opts.Modules == nil {
		return
	}
	if target, ok := r.opts.Modules.Resolve(r.opts.Module, spec); ok {
		r.sc.AddRequire(node, target)
		return
	}
	diag.ReportWarning(r.opts.Reporter, diag.SemaUnresolvedRequire, span,
		fmt.Sprintf("cannot resolve module %q from %q", spec, r.opts.Module)).Emit()
}
