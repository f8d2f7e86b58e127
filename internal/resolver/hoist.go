package resolver

import (
	"jsfront/internal/ast"
	"jsfront/internal/sema"
	"jsfront/internal/source"
)

type hoistKind uint8

const (
	hoistVar      hoistKind = iota // var binding
	hoistFunction                  // function declared at function top level
	hoistAnnexB                    // sloppy block function, also var-bound
	hoistLexical                   // let/const/class/import at function top level
)

type hoisted struct {
	kind    hoistKind
	ident   ast.NodeID
	lexical sema.DeclKind
	fn      ast.NodeID
}

// hoistFunctionBody binds everything a function body declares in its
// function scope before any of it runs: var bindings from every nested
// block, top-level function declarations and top-level lexical bindings.
// Bindings are created in source order.
func (r *resolver) hoistFunctionBody(stmts []ast.NodeID) {
	var items []hoisted
	for _, id := range stmts {
		items = r.collect(items, id, true)
	}

	lexical := make(map[source.StringID]bool)
	for _, it := range items {
		if it.kind == hoistLexical {
			lexical[r.tree.Node(it.ident).Name] = true
		}
	}

	fs := r.fn.scope
	for _, it := range items {
		switch it.kind {
		case hoistVar:
			r.declare(fs, it.ident, r.varKind())
		case hoistFunction:
			// a conflicting let-like binding keeps its own kind
			d := r.declare(fs, it.ident, r.varKind())
			if d.IsValid() && r.sc.Decl(d).Kind.IsVarLikeOrScopedFunction() {
				r.sc.SetFunctionInScope(d)
			}
			r.sc.AddHoistedFunction(fs, it.fn)
			r.fnDone[it.fn] = true
		case hoistAnnexB:
			if !lexical[r.tree.Node(it.ident).Name] {
				r.declare(fs, it.ident, r.varKind())
			}
		case hoistLexical:
			r.declare(fs, it.ident, it.lexical)
		}
	}
}

// collect gathers hoisted bindings from statement id. top is true for the
// statements directly in the function body.
func (r *resolver) collect(items []hoisted, id ast.NodeID, top bool) []hoisted {
	n := r.tree.Node(id)
	if n == nil {
		return items
	}
	switch n.Kind {
	case ast.KindVariableDeclaration:
		lexKind, lexical := declarationKind(n)
		if lexical && !top {
			return items
		}
		for _, d := range n.Kids {
			for _, ident := range r.tree.BindingIdentifiers(r.tree.Node(d).Kid(0)) {
				if lexical {
					items = append(items, hoisted{kind: hoistLexical, ident: ident, lexical: lexKind})
				} else {
					items = append(items, hoisted{kind: hoistVar, ident: ident})
				}
			}
		}
	case ast.KindFunctionDeclaration:
		name := n.Kid(ast.FuncSlotID)
		switch {
		case !name.IsValid():
		case top:
			items = append(items, hoisted{kind: hoistFunction, ident: name, fn: id})
		case !r.fn.strict:
			items = append(items, hoisted{kind: hoistAnnexB, ident: name, fn: id})
		}
	case ast.KindClassDeclaration:
		if name := n.Kid(ast.ClassSlotID); top && name.IsValid() {
			items = append(items, hoisted{kind: hoistLexical, ident: name, lexical: sema.DeclClass})
		}
	case ast.KindImportDeclaration:
		if !top {
			return items
		}
		for _, spec := range n.From(1) {
			if local := r.tree.Node(spec).Kid(0); local.IsValid() {
				items = append(items, hoisted{kind: hoistLexical, ident: local, lexical: sema.DeclImport})
			}
		}
	case ast.KindBlockStatement, ast.KindIfStatement, ast.KindForStatement, ast.KindForInStatement,
		ast.KindForOfStatement, ast.KindWhileStatement, ast.KindTryStatement, ast.KindCatchClause,
		ast.KindSwitchStatement, ast.KindSwitchCase, ast.KindOther:
		for _, kid := range n.Kids {
			items = r.collect(items, kid, false)
		}
	}
	return items
}

// declarationKind maps a VariableDeclaration to its lexical kind; lexical
// is false for var.
func declarationKind(n *ast.Node) (kind sema.DeclKind, lexical bool) {
	switch {
	case n.Has(ast.FlagConst):
		return sema.DeclConst, true
	case n.Has(ast.FlagLet):
		return sema.DeclLet, true
	}
	return sema.DeclVar, false
}

// declareBlock binds the lexical declarations made directly in stmts into
// scope: let, const, class, and function declarations as scoped functions.
func (r *resolver) declareBlock(scope sema.ScopeID, stmts []ast.NodeID) {
	for _, id := range stmts {
		n := r.tree.Node(id)
		if n == nil {
			continue
		}
		switch n.Kind {
		case ast.KindVariableDeclaration:
			kind, lexical := declarationKind(n)
			if !lexical {
				continue
			}
			for _, d := range n.Kids {
				for _, ident := range r.tree.BindingIdentifiers(r.tree.Node(d).Kid(0)) {
					r.declare(scope, ident, kind)
				}
			}
		case ast.KindClassDeclaration:
			if name := n.Kid(ast.ClassSlotID); name.IsValid() {
				r.declare(scope, name, sema.DeclClass)
			}
		case ast.KindFunctionDeclaration:
			r.declareScopedFunction(scope, id)
		}
	}
}

func (r *resolver) declareScopedFunction(scope sema.ScopeID, fn ast.NodeID) {
	if r.fnDone[fn] {
		return
	}
	r.fnDone[fn] = true
	if name := r.tree.Node(fn).Kid(ast.FuncSlotID); name.IsValid() {
		r.declare(scope, name, sema.DeclScopedFunction)
	}
	r.sc.AddHoistedFunction(scope, fn)
}
