package resolver

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"jsfront/internal/ast"
	"jsfront/internal/diag"
	"jsfront/internal/sema"
	"jsfront/internal/source"
)

type mapModules map[string]source.FileID

func (m mapModules) Resolve(_, spec string) (source.FileID, bool) {
	id, ok := m[spec]
	return id, ok
}

func resolve(t *testing.T, b *ast.Builder, opts Options) (*sema.Context, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(0)
	if opts.Reporter == nil {
		opts.Reporter = diag.BagReporter{Bag: bag}
	}
	sc := sema.NewContext(sema.Options{})
	if err := Resolve(context.Background(), b.Tree, b.Strings, sc, opts); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if err := sc.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return sc, bag
}

// declsOf lists "name:Kind" for every declaration of scope.
func declsOf(sc *sema.Context, strs *source.Interner, scope sema.ScopeID) []string {
	var out []string
	for _, id := range sc.Scope(scope).Decls {
		d := sc.Decl(id)
		out = append(out, strs.Name(d.Name)+":"+d.Kind.String())
	}
	return out
}

func mustIdent(t *testing.T, sc *sema.Context, node ast.NodeID) sema.Decl {
	t.Helper()
	id, ok := sc.IdentDecl(node)
	if !ok {
		t.Fatalf("identifier node %d not resolved", node)
	}
	return sc.Decl(id)
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

// var a; function f(x) { let b = x; return b; }
func TestResolveScriptEndToEnd(t *testing.T) {
	b := ast.NewBuilder(0, nil)
	aID := b.Ident("a")
	varA := b.Decl(ast.Var, aID, ast.NoNodeID)
	xParam := b.Ident("x")
	bID, xRef := b.Ident("b"), b.Ident("x")
	letB := b.Decl(ast.Let, bID, xRef)
	bRef := b.Ident("b")
	fName := b.Ident("f")
	fn := b.FuncDecl(fName, b.Block(letB, b.Return(bRef)), xParam)
	prog := b.Program(false, varA, fn)

	sc, bag := resolve(t, b, Options{})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if sc.NumFunctions() != 2 || sc.NumScopes() != 2 || sc.NumDecls() != 4 {
		t.Fatalf("counts = %d/%d/%d", sc.NumFunctions(), sc.NumScopes(), sc.NumDecls())
	}

	gs, _ := sc.GlobalScopeID()
	if diff := cmp.Diff([]string{"a:GlobalProperty", "f:GlobalProperty"}, declsOf(sc, b.Strings, gs)); diff != "" {
		t.Fatalf("global decls (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]ast.NodeID{fn}, sc.Scope(gs).HoistedFunctions); diff != "" {
		t.Fatalf("hoisted (-want +got):\n%s", diff)
	}
	if !mustIdent(t, sc, fName).FunctionInScope {
		t.Fatalf("f not flagged functionInScope")
	}

	fs, ok := sc.NodeScope(fn)
	if !ok {
		t.Fatalf("function node has no scope")
	}
	if diff := cmp.Diff([]string{"x:Parameter", "b:Let"}, declsOf(sc, b.Strings, fs)); diff != "" {
		t.Fatalf("function decls (-want +got):\n%s", diff)
	}
	f := sc.Function(sc.Scope(fs).ParentFunction)
	if f.ParentFunction != sema.GlobalFunctionID || f.ParentScope != gs || f.Strict {
		t.Fatalf("function info = %+v", f)
	}
	if got, _ := sc.NodeScope(prog); got != gs {
		t.Fatalf("program scope = %v", got)
	}

	if mustIdent(t, sc, xRef) != mustIdent(t, sc, xParam) || mustIdent(t, sc, bRef) != mustIdent(t, sc, bID) {
		t.Fatalf("references do not reach their declarations")
	}
	if n := len(sc.AllIdentDecls()); n != 6 {
		t.Fatalf("ident resolutions = %d, want 6", n)
	}

	var buf bytes.Buffer
	if err := sc.Dump(&buf, b.Strings, b.Tree, sema.DumpOptions{}); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	want := strings.Join([]string{
		"SemContext",
		"      2 functions",
		"      2 lexical scopes",
		"      4 declarations",
		"      6 ident resolutions",
		"",
		"  Decl#0 'a' GlobalProperty NotSpecial",
		"  Decl#1 'f' GlobalProperty NotSpecial functionInScope",
		" Func#0",
		"  Scope#0",
		"   Decl#0 'a' GlobalProperty NotSpecial",
		"   Decl#1 'f' GlobalProperty NotSpecial functionInScope",
		"   hoistedFunction f",
		"  Func#1",
		"   Scope#1",
		"    Decl#2 'x' Parameter NotSpecial",
		"    Decl#3 'b' Let NotSpecial",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("dump (-want +got):\n%s", diff)
	}
}

func TestResolveModuleTopLevel(t *testing.T) {
	b := ast.NewBuilder(0, nil)
	b.Program(true,
		b.Decl(ast.Var, b.Ident("a"), ast.NoNodeID),
		b.FuncDecl(b.Ident("f"), b.Block()),
		b.Import("./dep", b.Ident("dep")),
	)
	sc, _ := resolve(t, b, Options{})

	gs, _ := sc.GlobalScopeID()
	if diff := cmp.Diff([]string{"a:Var", "f:Var", "dep:Import"}, declsOf(sc, b.Strings, gs)); diff != "" {
		t.Fatalf("module decls (-want +got):\n%s", diff)
	}
	if !sc.Function(sema.GlobalFunctionID).Strict {
		t.Fatalf("module code must be strict")
	}
}

func TestResolveUndeclaredGlobals(t *testing.T) {
	b := ast.NewBuilder(0, nil)
	foo1, foo2 := b.Ident("foo"), b.Ident("foo")
	evalRef, x := b.Ident("eval"), b.Ident("x")
	b.Program(false,
		b.ExprStmt(b.Call(foo1)),
		b.ExprStmt(foo2),
		b.ExprStmt(b.Call(evalRef, x)),
	)
	sc, _ := resolve(t, b, Options{})

	gs, _ := sc.GlobalScopeID()
	want := []string{"foo:UndeclaredGlobalProperty", "eval:UndeclaredGlobalProperty", "x:UndeclaredGlobalProperty"}
	if diff := cmp.Diff(want, declsOf(sc, b.Strings, gs)); diff != "" {
		t.Fatalf("globals (-want +got):\n%s", diff)
	}
	if mustIdent(t, sc, foo1) != mustIdent(t, sc, foo2) {
		t.Fatalf("one declaration per undeclared name expected")
	}
	if d := mustIdent(t, sc, evalRef); d.Special != sema.SpecialEval {
		t.Fatalf("eval special = %v", d.Special)
	}
}

// function g() { return () => arguments; } arguments;
func TestResolveArguments(t *testing.T) {
	b := ast.NewBuilder(0, nil)
	inner := b.Ident("arguments")
	arrow := b.Arrow(inner)
	again := b.Ident("arguments")
	g := b.FuncDecl(b.Ident("g"), b.Block(b.Return(arrow), b.ExprStmt(again)))
	top := b.Ident("arguments")
	b.Program(false, g, b.ExprStmt(top))

	sc, _ := resolve(t, b, Options{})

	gScope, _ := sc.NodeScope(g)
	gFn := sc.Scope(gScope).ParentFunction
	argDecl, ok := sc.FuncArgumentsOpt(gFn)
	if !ok {
		t.Fatalf("g has no arguments declaration")
	}
	if got, _ := sc.IdentDecl(inner); got != argDecl {
		t.Fatalf("arrow's arguments resolved to %v, want %v", got, argDecl)
	}
	if got, _ := sc.IdentDecl(again); got != argDecl {
		t.Fatalf("second use created another declaration")
	}
	if d := sc.Decl(argDecl); d.Special != sema.SpecialArguments || d.Scope != gScope {
		t.Fatalf("arguments decl = %+v", d)
	}
	arrowScope, _ := sc.NodeScope(arrow)
	if _, ok := sc.FuncArgumentsOpt(sc.Scope(arrowScope).ParentFunction); ok {
		t.Fatalf("arrow function got its own arguments")
	}
	if d := mustIdent(t, sc, top); d.Kind != sema.DeclUndeclaredGlobalProperty {
		t.Fatalf("top-level arguments = %v", d.Kind)
	}
}

func TestResolveRedeclarations(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *ast.Builder)
		want  int
	}{
		{"let then var", func(b *ast.Builder) {
			b.Program(false, b.Decl(ast.Let, b.Ident("x"), 0), b.Decl(ast.Var, b.Ident("x"), 0))
		}, 1},
		{"var twice", func(b *ast.Builder) {
			b.Program(false, b.Decl(ast.Var, b.Ident("x"), 0), b.Decl(ast.Var, b.Ident("x"), 0))
		}, 0},
		{"var over catch param", func(b *ast.Builder) {
			b.Program(false, b.Try(b.Block(), b.Catch(b.Ident("e"), b.Block(b.Decl(ast.Var, b.Ident("e"), 0))), 0))
		}, 0},
		{"let over catch param", func(b *ast.Builder) {
			b.Program(false, b.Try(b.Block(), b.Catch(b.Ident("e"), b.Block(b.Decl(ast.Let, b.Ident("e"), 0))), 0))
		}, 1},
		{"var inside let block", func(b *ast.Builder) {
			b.Program(false, b.Block(b.Decl(ast.Let, b.Ident("y"), 0), b.Block(b.Decl(ast.Var, b.Ident("y"), 0))))
		}, 1},
		{"strict duplicate params", func(b *ast.Builder) {
			b.Program(false, b.Directive("use strict"), b.FuncDecl(b.Ident("f"), b.Block(), b.Ident("p"), b.Ident("p")))
		}, 1},
		{"sloppy duplicate params", func(b *ast.Builder) {
			b.Program(false, b.FuncDecl(b.Ident("f"), b.Block(), b.Ident("p"), b.Ident("p")))
		}, 0},
		{"param then var", func(b *ast.Builder) {
			b.Program(false, b.FuncDecl(b.Ident("f"), b.Block(b.Decl(ast.Var, b.Ident("p"), 0)), b.Ident("p")))
		}, 0},
		{"param then let", func(b *ast.Builder) {
			b.Program(false, b.FuncDecl(b.Ident("f"), b.Block(b.Decl(ast.Let, b.Ident("p"), 0)), b.Ident("p")))
		}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := ast.NewBuilder(0, nil)
			tt.build(b)
			_, bag := resolve(t, b, Options{})
			if bag.Len() != tt.want {
				t.Fatalf("got %d diagnostics, want %d: %v", bag.Len(), tt.want, bag.Items())
			}
			for _, c := range codes(bag) {
				if c != diag.SemaRedeclaration {
					t.Fatalf("unexpected code %v", c)
				}
			}
		})
	}
}

// { function h() {} } h();
func TestResolveBlockFunctions(t *testing.T) {
	for _, strict := range []bool{false, true} {
		b := ast.NewBuilder(0, nil)
		inBlock := b.FuncDecl(b.Ident("h"), b.Block())
		block := b.Block(inBlock)
		call := b.Ident("h")
		var body []ast.NodeID
		if strict {
			body = append(body, b.Directive("use strict"))
		}
		body = append(body, block, b.ExprStmt(b.Call(call)))
		b.Program(false, body...)

		sc, _ := resolve(t, b, Options{})
		bs, ok := sc.NodeScope(block)
		if !ok {
			t.Fatalf("block has no scope")
		}
		if diff := cmp.Diff([]string{"h:ScopedFunction"}, declsOf(sc, b.Strings, bs)); diff != "" {
			t.Fatalf("block decls (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]ast.NodeID{inBlock}, sc.Scope(bs).HoistedFunctions); diff != "" {
			t.Fatalf("block hoisted (-want +got):\n%s", diff)
		}
		want := sema.DeclGlobalProperty
		if strict {
			want = sema.DeclUndeclaredGlobalProperty
		}
		if got := mustIdent(t, sc, call).Kind; got != want {
			t.Fatalf("strict=%v: outer h resolves to %v, want %v", strict, got, want)
		}
	}
}

func TestResolveScopesAndNames(t *testing.T) {
	b := ast.NewBuilder(0, nil)
	// (function fact(n) { return fact(n); });
	factRef := b.Ident("fact")
	fexpr := b.FuncExpr(b.Ident("fact"), b.Block(b.Return(b.Call(factRef, b.Ident("n")))), b.Ident("n"))
	// for (let i = 0; i; ) { i; }
	iRef := b.Ident("i")
	loopBody := b.Block(b.ExprStmt(iRef))
	loop := b.For(b.Decl(ast.Let, b.Ident("i"), b.Num()), b.Ident("i"), 0, loopBody)
	// class C { m() { this; } }
	method := b.FuncExpr(0, b.Block(b.ExprStmt(b.This())))
	cls := b.ClassDecl(b.Ident("C"), 0, b.Prop(b.Ident("m"), method, false))
	// o.p; o[q];
	memberOK := b.Member(b.Ident("o"), b.Ident("p"), false)
	computed := b.Member(b.Ident("o"), b.Ident("q"), true)
	b.Program(false, b.ExprStmt(fexpr), loop, cls, b.ExprStmt(memberOK), b.ExprStmt(computed))

	sc, _ := resolve(t, b, Options{})

	if d := mustIdent(t, sc, factRef); d.Kind != sema.DeclFunctionExprName {
		t.Fatalf("fact resolves to %v", d.Kind)
	}
	loopScope, ok := sc.NodeScope(loop)
	if !ok {
		t.Fatalf("for with let head has no scope")
	}
	if d := mustIdent(t, sc, iRef); d.Kind != sema.DeclLet || d.Scope != loopScope {
		t.Fatalf("i resolves to %+v", d)
	}
	if bs, _ := sc.NodeScope(loopBody); sc.Scope(bs).ParentScope != loopScope {
		t.Fatalf("loop body scope not nested in loop scope")
	}
	ms, _ := sc.NodeScope(method)
	if !sc.Function(sc.Scope(ms).ParentFunction).Strict {
		t.Fatalf("class methods must be strict")
	}
	if _, ok := sc.IdentDecl(b.Tree.Node(memberOK).Kid(1)); ok {
		t.Fatalf("non-computed property name was resolved")
	}
	if _, ok := sc.IdentDecl(b.Tree.Node(computed).Kid(1)); !ok {
		t.Fatalf("computed property was not resolved")
	}
	gs, _ := sc.GlobalScopeID()
	want := []string{"C:Class", "o:UndeclaredGlobalProperty", "q:UndeclaredGlobalProperty"}
	if diff := cmp.Diff(want, declsOf(sc, b.Strings, gs)); diff != "" {
		t.Fatalf("global decls (-want +got):\n%s", diff)
	}
}

func TestResolveRequire(t *testing.T) {
	b := ast.NewBuilder(0, nil)
	ok := b.Call(b.Ident("require"), b.Str("./lib"))
	missing := b.Call(b.Ident("require"), b.Str("./missing"))
	dynamic := b.Call(b.Ident("require"), b.Ident("name"))
	b.Program(false,
		b.Decl(ast.Const, b.Ident("lib"), ok),
		b.ExprStmt(missing),
		b.ExprStmt(dynamic),
	)
	sc, bag := resolve(t, b, Options{Module: "src/app.js", Modules: mapModules{"./lib": 7}})

	if got, found := sc.Require(ok); !found || got != 7 {
		t.Fatalf("Require = %v, %v", got, found)
	}
	if n := len(sc.AllRequires()); n != 1 {
		t.Fatalf("requires = %d", n)
	}
	if diff := cmp.Diff([]diag.Code{diag.SemaUnresolvedRequire}, codes(bag)); diff != "" {
		t.Fatalf("codes (-want +got):\n%s", diff)
	}
	if bag.HasErrors() {
		t.Fatalf("unresolved require must be a warning")
	}
}

func TestResolveShadowedRequireIgnored(t *testing.T) {
	b := ast.NewBuilder(0, nil)
	call := b.Call(b.Ident("require"), b.Str("./lib"))
	b.Program(false, b.FuncDecl(b.Ident("require"), b.Block()), b.ExprStmt(call))
	sc, bag := resolve(t, b, Options{Modules: mapModules{"./lib": 1}})
	if _, ok := sc.Require(call); ok || bag.Len() != 0 {
		t.Fatalf("local require function treated as module loader")
	}
}

func TestResolveCapacityExceeded(t *testing.T) {
	b := ast.NewBuilder(0, nil)
	b.Program(false, b.Decl(ast.Var, b.Ident("a"), 0), b.Decl(ast.Var, b.Ident("b"), 0))
	sc := sema.NewContext(sema.Options{Limits: sema.Limits{Decls: 1}})
	err := Resolve(context.Background(), b.Tree, b.Strings, sc, Options{})
	if !errors.Is(err, sema.ErrCapacityExceeded) {
		t.Fatalf("err = %v", err)
	}
	if sc.NumDecls() != 1 {
		t.Fatalf("decls = %d", sc.NumDecls())
	}
}

func TestResolvePreconditions(t *testing.T) {
	b := ast.NewBuilder(0, nil)
	if err := Resolve(context.Background(), b.Tree, b.Strings, sema.NewContext(sema.Options{}), Options{}); !errors.Is(err, ErrNoProgram) {
		t.Fatalf("empty tree err = %v", err)
	}
	b.Program(false)
	sc := sema.NewContext(sema.Options{})
	if err := Resolve(context.Background(), b.Tree, b.Strings, sc, Options{}); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if err := Resolve(context.Background(), b.Tree, b.Strings, sc, Options{}); !errors.Is(err, ErrContextInUse) {
		t.Fatalf("reuse err = %v", err)
	}
}

func TestResolveCancelled(t *testing.T) {
	b := ast.NewBuilder(0, nil)
	b.Program(false, b.FuncDecl(b.Ident("f"), b.Block()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Resolve(ctx, b.Tree, b.Strings, sema.NewContext(sema.Options{}), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestResolveESTree(t *testing.T) {
	const src = `{
	  "type": "Program", "sourceType": "script", "start": 0, "end": 60,
	  "body": [
	    {"type": "ExpressionStatement", "directive": "use strict", "start": 0, "end": 13,
	     "expression": {"type": "Literal", "value": "use strict", "start": 0, "end": 12}},
	    {"type": "VariableDeclaration", "kind": "const", "start": 14, "end": 40,
	     "declarations": [{"type": "VariableDeclarator", "start": 20, "end": 39,
	       "id": {"type": "ObjectPattern", "start": 20, "end": 25, "properties": [
	         {"type": "Property", "shorthand": true, "computed": false, "kind": "init", "start": 21, "end": 22,
	          "key": {"type": "Identifier", "name": "a", "start": 21, "end": 22},
	          "value": {"type": "Identifier", "name": "a", "start": 21, "end": 22}}]},
	       "init": {"type": "CallExpression", "start": 28, "end": 39,
	         "callee": {"type": "Identifier", "name": "require", "start": 28, "end": 35},
	         "arguments": [{"type": "Literal", "value": "./a", "start": 36, "end": 41}]}}]},
	    {"type": "ExpressionStatement", "start": 42, "end": 60,
	     "expression": {"type": "CallExpression", "start": 42, "end": 59,
	       "callee": {"type": "MemberExpression", "computed": false, "start": 42, "end": 53,
	         "object": {"type": "Identifier", "name": "console", "start": 42, "end": 49},
	         "property": {"type": "Identifier", "name": "log", "start": 50, "end": 53}},
	       "arguments": [{"type": "Identifier", "name": "a", "start": 54, "end": 55}]}}
	  ]
	}`
	strs := source.NewInterner()
	tree, err := ast.LoadESTree([]byte(src), 3, strs)
	if err != nil {
		t.Fatalf("LoadESTree: %v", err)
	}
	sc := sema.NewContext(sema.Options{})
	if err := Resolve(context.Background(), tree, strs, sc, Options{Module: "m.js", Modules: mapModules{"./a": 0}}); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !sc.Function(sema.GlobalFunctionID).Strict {
		t.Fatalf("directive not honored")
	}
	gs, _ := sc.GlobalScopeID()
	want := []string{"a:Const", "require:UndeclaredGlobalProperty", "console:UndeclaredGlobalProperty"}
	if diff := cmp.Diff(want, declsOf(sc, strs, gs)); diff != "" {
		t.Fatalf("decls (-want +got):\n%s", diff)
	}
	if n := len(sc.AllRequires()); n != 1 {
		t.Fatalf("requires = %d", n)
	}
}

// let z = 1; export { x } from "./m"; export * from "./n"; export { z };
func TestResolveReExports(t *testing.T) {
	const src = `{"type":"Program","sourceType":"module","start":0,"end":80,"body":[
	  {"type":"VariableDeclaration","kind":"let","start":0,"end":10,"declarations":[
	    {"type":"VariableDeclarator","start":4,"end":9,
	     "id":{"type":"Identifier","name":"z","start":4,"end":5},
	     "init":{"type":"Literal","value":1,"start":8,"end":9}}]},
	  {"type":"ExportNamedDeclaration","declaration":null,"start":11,"end":35,
	   "source":{"type":"Literal","value":"./m","start":29,"end":34},
	   "specifiers":[{"type":"ExportSpecifier","start":20,"end":21,
	     "local":{"type":"Identifier","name":"x","start":20,"end":21},
	     "exported":{"type":"Identifier","name":"x","start":20,"end":21}}]},
	  {"type":"ExportAllDeclaration","exported":null,"start":36,"end":57,
	   "source":{"value":"./n","start":50,"end":55}},
	  {"type":"ExportNamedDeclaration","declaration":null,"source":null,"start":58,"end":71,
	   "specifiers":[{"type":"ExportSpecifier","start":67,"end":68,
	     "local":{"type":"Identifier","name":"z","start":67,"end":68},
	     "exported":{"type":"Identifier","name":"z","start":67,"end":68}}]}
	]}`
	strs := source.NewInterner()
	tree, err := ast.LoadESTree([]byte(src), 1, strs)
	if err != nil {
		t.Fatalf("LoadESTree: %v", err)
	}
	bag := diag.NewBag(0)
	sc := sema.NewContext(sema.Options{})
	opts := Options{
		Module:   "app.js",
		Modules:  mapModules{"./m": 4, "./n": 5},
		Reporter: diag.BagReporter{Bag: bag},
	}
	if err := Resolve(context.Background(), tree, strs, sc, opts); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	gs, _ := sc.GlobalScopeID()
	if diff := cmp.Diff([]string{"z:Let"}, declsOf(sc, strs, gs)); diff != "" {
		t.Fatalf("global decls (-want +got):\n%s", diff)
	}
	for _, d := range sc.AllDecls() {
		if d.Kind == sema.DeclUndeclaredGlobalProperty {
			t.Fatalf("re-export created undeclared global %q", strs.Name(d.Name))
		}
	}
	var targets []source.FileID
	for _, f := range sc.AllRequires() {
		targets = append(targets, f)
	}
	slices.Sort(targets)
	if diff := cmp.Diff([]source.FileID{4, 5}, targets); diff != "" {
		t.Fatalf("require edges (-want +got):\n%s", diff)
	}
	// every resolved identifier is a z
	for node, did := range sc.AllIdentDecls() {
		if name := strs.Name(tree.Node(node).Name); name != "z" || sc.Decl(did).Kind != sema.DeclLet {
			t.Fatalf("identifier %q resolved to %v", name, sc.Decl(did).Kind)
		}
	}
}

// let f; function f() {}
func TestResolveFunctionOverLet(t *testing.T) {
	b := ast.NewBuilder(0, nil)
	b.Program(false, b.Decl(ast.Let, b.Ident("f"), 0), b.FuncDecl(b.Ident("f"), b.Block()))
	sc, bag := resolve(t, b, Options{})

	if diff := cmp.Diff([]diag.Code{diag.SemaRedeclaration}, codes(bag)); diff != "" {
		t.Fatalf("codes (-want +got):\n%s", diff)
	}
	gs, _ := sc.GlobalScopeID()
	if diff := cmp.Diff([]string{"f:Let"}, declsOf(sc, b.Strings, gs)); diff != "" {
		t.Fatalf("global decls (-want +got):\n%s", diff)
	}
	if d := sc.Decl(sc.Scope(gs).Decls[0]); d.FunctionInScope {
		t.Fatalf("let binding flagged as function in scope")
	}
}

// if (c) function g() {}
func TestResolveIfClauseFunction(t *testing.T) {
	b := ast.NewBuilder(0, nil)
	fn := b.FuncDecl(b.Ident("g"), b.Block())
	b.Program(false, b.If(b.Ident("c"), fn, 0))
	sc, bag := resolve(t, b, Options{})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}

	gs, _ := sc.GlobalScopeID()
	if hoisted := sc.Scope(gs).HoistedFunctions; len(hoisted) != 0 {
		t.Fatalf("conditional function hoisted into the global scope: %v", hoisted)
	}
	want := []string{"g:GlobalProperty", "c:UndeclaredGlobalProperty"}
	if diff := cmp.Diff(want, declsOf(sc, b.Strings, gs)); diff != "" {
		t.Fatalf("global decls (-want +got):\n%s", diff)
	}

	fs, ok := sc.NodeScope(fn)
	if !ok {
		t.Fatalf("function has no scope")
	}
	clause := sc.Scope(fs).ParentScope
	if clause == gs || sc.Scope(clause).ParentScope != gs {
		t.Fatalf("function scope parent = %v, want a block scope under %v", clause, gs)
	}
	if diff := cmp.Diff([]string{"g:ScopedFunction"}, declsOf(sc, b.Strings, clause)); diff != "" {
		t.Fatalf("clause decls (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]ast.NodeID{fn}, sc.Scope(clause).HoistedFunctions); diff != "" {
		t.Fatalf("clause hoisted (-want +got):\n%s", diff)
	}
}
