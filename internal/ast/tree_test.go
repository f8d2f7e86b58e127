package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBindingIdentifiers(t *testing.T) {
	b := NewBuilder(0, nil)
	a, c, rest := b.Ident("a"), b.Ident("c"), b.Ident("rest")
	def := b.Ident("notBound")
	// [a, , {k: c = notBound}, ...rest]
	obj := b.Tree.Add(Node{Kind: KindObjectPattern, Kids: []NodeID{
		b.Prop(b.Ident("k"), b.DefaultParam(c, def), false),
	}})
	pattern := b.ArrayPattern(a, NoNodeID, obj, b.Rest(rest))

	if diff := cmp.Diff([]NodeID{a, c, rest}, b.Tree.BindingIdentifiers(pattern)); diff != "" {
		t.Fatalf("bindings (-want +got):\n%s", diff)
	}
	if got := b.Tree.BindingIdentifiers(NoNodeID); len(got) != 0 {
		t.Fatalf("empty pattern bound %v", got)
	}
}

func TestTreeAccessors(t *testing.T) {
	b := NewBuilder(4, nil)
	name := b.Ident("f")
	fn := b.FuncDecl(name, b.Block())
	anon := b.FuncExpr(NoNodeID, b.Block())

	if b.Tree.Len() != 5 {
		t.Fatalf("Len = %d", b.Tree.Len())
	}
	if b.Tree.FunctionName(fn) != name || b.Tree.FunctionName(anon).IsValid() {
		t.Fatalf("FunctionName mismatch")
	}
	if b.Tree.FunctionName(name).IsValid() {
		t.Fatalf("identifier has no function name")
	}
	if b.Tree.Node(NoNodeID) != nil || b.Tree.Node(999) != nil {
		t.Fatalf("out-of-range lookup returned a node")
	}
	if b.Tree.Kind(999) != KindInvalid {
		t.Fatalf("Kind of unknown id")
	}
	if b.Tree.Node(fn).Span.File != 4 {
		t.Fatalf("span file not stamped")
	}

	n := b.Tree.Node(fn)
	if n.Kid(7) != NoNodeID || n.From(7) != nil || len(n.From(FuncSlotParams)) != 0 {
		t.Fatalf("slot accessors out of range")
	}
	var nilNode *Node
	if nilNode.Has(FlagLet) || nilNode.Kid(0) != NoNodeID {
		t.Fatalf("nil node accessors")
	}
}

func TestKindString(t *testing.T) {
	if KindArrowFunctionExpression.String() != "ArrowFunctionExpression" {
		t.Fatalf("String = %q", KindArrowFunctionExpression.String())
	}
	if !KindArrowFunctionExpression.IsFunction() || KindClassDeclaration.IsFunction() {
		t.Fatalf("IsFunction")
	}
	if !KindClassExpression.IsClass() {
		t.Fatalf("IsClass")
	}
}
