package ast

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"jsfront/internal/source"
)

func kinds(t *Tree, ids []NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = t.Kind(id).String()
	}
	return out
}

func TestLoadESTreeStatements(t *testing.T) {
	const src = `{"type":"Program","sourceType":"module","start":0,"end":90,"body":[
	  {"type":"ExpressionStatement","directive":"use strict","start":0,"end":13,
	   "expression":{"type":"Literal","value":"use strict","start":0,"end":12}},
	  {"type":"ImportDeclaration","start":14,"end":40,
	   "source":{"type":"Literal","value":"./dep","start":30,"end":37},
	   "specifiers":[{"type":"ImportDefaultSpecifier","start":21,"end":24,
	     "local":{"type":"Identifier","name":"dep","start":21,"end":24}}]},
	  {"type":"ExportNamedDeclaration","start":41,"end":60,
	   "declaration":{"type":"VariableDeclaration","kind":"let","start":48,"end":60,
	     "declarations":[{"type":"VariableDeclarator","start":52,"end":59,
	       "id":{"type":"Identifier","name":"x","start":52,"end":53},
	       "init":{"type":"Literal","value":1,"start":56,"end":57}}]}},
	  {"type":"ExportDefaultDeclaration","start":61,"end":90,
	   "declaration":{"type":"FunctionDeclaration","id":null,"params":[],"start":76,"end":90,
	     "body":{"type":"BlockStatement","body":[],"start":88,"end":90}}}
	]}`
	strs := source.NewInterner()
	tree, err := LoadESTree([]byte(src), 2, strs)
	if err != nil {
		t.Fatalf("LoadESTree: %v", err)
	}
	root := tree.Node(tree.Root)
	if root.Kind != KindProgram || !root.Has(FlagModule) {
		t.Fatalf("root = %v flags %b", root.Kind, root.Flags)
	}
	want := []string{"ExpressionStatement", "ImportDeclaration", "VariableDeclaration", "ExpressionStatement"}
	if diff := cmp.Diff(want, kinds(tree, root.Kids)); diff != "" {
		t.Fatalf("body kinds (-want +got):\n%s", diff)
	}

	dir := tree.Node(root.Kid(0))
	if !dir.Has(FlagDirective) || strs.Name(dir.Name) != "use strict" {
		t.Fatalf("directive not recorded: %+v", dir)
	}
	imp := tree.Node(root.Kid(1))
	if src := tree.Node(imp.Kid(0)); src.Kind != KindStringLiteral || strs.Name(src.Name) != "./dep" {
		t.Fatalf("import source = %+v", src)
	}
	if local := tree.Node(tree.Node(imp.Kid(1)).Kid(0)); strs.Name(local.Name) != "dep" {
		t.Fatalf("import local = %q", strs.Name(local.Name))
	}
	if !tree.Node(root.Kid(2)).Has(FlagLet) {
		t.Fatalf("let flag lost on exported declaration")
	}
	def := tree.Node(root.Kid(3))
	if fn := tree.Kind(def.Kid(0)); fn != KindFunctionExpression {
		t.Fatalf("anonymous default export = %v", fn)
	}
	if got := tree.Node(root.Kid(1)).Span; got != (source.Span{File: 2, Start: 14, End: 40}) {
		t.Fatalf("span = %+v", got)
	}
}

// export { x as y } from "./m"; export * from "./n"; export { z };
func TestLoadESTreeReExports(t *testing.T) {
	const src = `{"type":"Program","sourceType":"module","start":0,"end":70,"body":[
	  {"type":"ExportNamedDeclaration","declaration":null,"start":0,"end":30,
	   "source":{"type":"Literal","value":"./m","start":24,"end":29},
	   "specifiers":[{"type":"ExportSpecifier","start":9,"end":15,
	     "local":{"type":"Identifier","name":"x","start":9,"end":10},
	     "exported":{"type":"Identifier","name":"y","start":14,"end":15}}]},
	  {"type":"ExportAllDeclaration","exported":null,"start":31,"end":52,
	   "source":{"value":"./n","start":45,"end":50}},
	  {"type":"ExportNamedDeclaration","declaration":null,"source":null,"start":53,"end":66,
	   "specifiers":[{"type":"ExportSpecifier","start":62,"end":63,
	     "local":{"type":"Identifier","name":"z","start":62,"end":63},
	     "exported":{"type":"Identifier","name":"z","start":62,"end":63}}]}
	]}`
	strs := source.NewInterner()
	tree, err := LoadESTree([]byte(src), 1, strs)
	if err != nil {
		t.Fatalf("LoadESTree: %v", err)
	}
	root := tree.Node(tree.Root)
	want := []string{"ImportDeclaration", "ImportDeclaration", "Other"}
	if diff := cmp.Diff(want, kinds(tree, root.Kids)); diff != "" {
		t.Fatalf("body kinds (-want +got):\n%s", diff)
	}
	for i, spec := range []string{"./m", "./n"} {
		n := tree.Node(root.Kid(i))
		if len(n.Kids) != 1 {
			t.Fatalf("re-export %d kept %d kids, want only the source", i, len(n.Kids))
		}
		if src := tree.Node(n.Kid(0)); src.Kind != KindStringLiteral || strs.Name(src.Name) != spec {
			t.Fatalf("re-export %d source = %+v", i, src)
		}
	}
	for id := NodeID(1); int(id) <= tree.Len(); id++ {
		if n := tree.Node(id); n.Kind == KindIdentifier && strs.Name(n.Name) != "z" {
			t.Fatalf("re-exported name %q kept as identifier", strs.Name(n.Name))
		}
	}
	local := tree.Node(tree.Node(root.Kid(2)).Kid(0))
	if local.Kind != KindOther {
		t.Fatalf("local export specifier = %v", local.Kind)
	}
	if id := tree.Node(local.Kid(0)); id.Kind != KindIdentifier || strs.Name(id.Name) != "z" {
		t.Fatalf("local export lost its reference: %+v", id)
	}
}

func TestLoadESTreeClassAndUnknown(t *testing.T) {
	const src = `{"type":"Program","sourceType":"script","body":[
	  {"type":"ClassDeclaration","id":{"type":"Identifier","name":"C"},"superClass":null,
	   "body":{"type":"ClassBody","body":[
	     {"type":"MethodDefinition","computed":true,"key":{"type":"Identifier","name":"k"},
	      "value":{"type":"FunctionExpression","id":null,"params":[],"body":{"type":"BlockStatement","body":[]}}}]}},
	  {"type":"LabeledStatement","label":{"type":"Identifier","name":"outer"},
	   "body":{"type":"ExpressionStatement","expression":{"type":"Identifier","name":"y"}}},
	  {"type":"ArrowFunctionExpression","expression":true,"params":[],
	   "body":{"type":"Identifier","name":"z"}}
	]}`
	tree, err := LoadESTree([]byte(src), 0, source.NewInterner())
	if err != nil {
		t.Fatalf("LoadESTree: %v", err)
	}
	root := tree.Node(tree.Root)

	class := tree.Node(root.Kid(0))
	if diff := cmp.Diff([]string{"Identifier", "Invalid", "Property"}, kinds(tree, class.Kids)); diff != "" {
		t.Fatalf("class kids (-want +got):\n%s", diff)
	}
	if !tree.Node(class.Kid(2)).Has(FlagComputed) {
		t.Fatalf("computed member key lost")
	}

	// the label is skipped, the body is kept
	labeled := tree.Node(root.Kid(1))
	if labeled.Kind != KindOther || len(labeled.Kids) != 1 {
		t.Fatalf("labeled = %v with %d kids", labeled.Kind, len(labeled.Kids))
	}
	if !tree.Node(root.Kid(2)).Has(FlagExprBody) {
		t.Fatalf("arrow expression body not flagged")
	}
}

func TestLoadESTreeErrors(t *testing.T) {
	strs := source.NewInterner()
	if _, err := LoadESTree([]byte(`{"type":"Identifier"}`), 0, strs); !errors.Is(err, ErrNotProgram) {
		t.Fatalf("non-program err = %v", err)
	}
	if _, err := LoadESTree([]byte(`{`), 0, strs); err == nil {
		t.Fatalf("malformed JSON accepted")
	}
	if _, err := LoadESTree([]byte(`{"type":"Program","body":[{"start":1}]}`), 0, strs); err == nil {
		t.Fatalf("untyped node accepted")
	}
}

func TestLoadESTreeRangePositions(t *testing.T) {
	const src = `{"type":"Program","range":[0,5],"body":[
	  {"type":"ExpressionStatement","range":[0,5],"expression":{"type":"Identifier","name":"a","range":[0,1]}}]}`
	tree, err := LoadESTree([]byte(src), 0, source.NewInterner())
	if err != nil {
		t.Fatalf("LoadESTree: %v", err)
	}
	id := tree.Node(tree.Node(tree.Root).Kid(0)).Kid(0)
	if sp := tree.Node(id).Span; sp.Start != 0 || sp.End != 1 {
		t.Fatalf("span = %+v", sp)
	}
}
