package ast

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"jsfront/internal/source"
)

// ErrNotProgram is returned when the top-level ESTree object is not a Program.
var ErrNotProgram = errors.New("estree: root node is not a Program")

// LoadESTree decodes an ESTree JSON document (acorn, espree, esprima or
// hermes-parser output) into a Tree. Node positions come from "start"/"end"
// or "range".
func LoadESTree(data []byte, file source.FileID, strs *source.Interner) (*Tree, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("estree: %w", err)
	}
	if typ, _ := raw["type"].(string); typ != "Program" {
		return nil, ErrNotProgram
	}
	d := &decoder{tree: NewTree(file, uint(len(data)/64)), strs: strs}
	root, err := d.node(raw)
	if err != nil {
		return nil, err
	}
	d.tree.Root = root
	return d.tree, nil
}

type decoder struct {
	tree *Tree
	strs *source.Interner
}

// fields that hold non-reference identifiers or metadata
var skippedFields = map[string]bool{
	"type": true, "loc": true, "range": true, "start": true, "end": true,
	"label": true, "exported": true, "meta": true, "comments": true, "tokens": true,
}

func (d *decoder) add(kind Kind, obj map[string]any, name string, flags Flags, kids ...NodeID) NodeID {
	var atom source.StringID
	if name != "" {
		atom = d.strs.Intern(name)
	}
	return d.tree.Add(Node{Kind: kind, Span: span(obj), Name: atom, Flags: flags, Kids: kids})
}

func span(obj map[string]any) source.Span {
	var sp source.Span
	if r, ok := obj["range"].([]any); ok && len(r) == 2 {
		sp.Start, sp.End = offset(r[0]), offset(r[1])
		return sp
	}
	sp.Start, sp.End = offset(obj["start"]), offset(obj["end"])
	return sp
}

func offset(v any) uint32 {
	f, ok := v.(float64)
	if !ok || f < 0 || f > float64(^uint32(0)) {
		return 0
	}
	return uint32(f)
}

// child decodes obj[key]; null or missing yields NoNodeID.
func (d *decoder) child(obj map[string]any, key string) (NodeID, error) {
	v, ok := obj[key].(map[string]any)
	if !ok {
		return NoNodeID, nil
	}
	return d.node(v)
}

// list decodes obj[key] as an array; null entries become NoNodeID holes.
func (d *decoder) list(obj map[string]any, key string) ([]NodeID, error) {
	arr, _ := obj[key].([]any)
	out := make([]NodeID, 0, len(arr))
	for _, el := range arr {
		m, ok := el.(map[string]any)
		if !ok {
			out = append(out, NoNodeID)
			continue
		}
		id, err := d.node(m)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// kids decodes the named single-node fields in order, then appends the
// elements of listKey if it is non-empty.
func (d *decoder) kids(obj map[string]any, fields []string, listKey string) ([]NodeID, error) {
	out := make([]NodeID, 0, len(fields)+2)
	for _, f := range fields {
		id, err := d.child(obj, f)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if listKey != "" {
		rest, err := d.list(obj, listKey)
		if err != nil {
			return nil, err
		}
		out = append(out, rest...)
	}
	return out, nil
}

func (d *decoder) simple(kind Kind, obj map[string]any, name string, flags Flags, fields []string, listKey string) (NodeID, error) {
	kids, err := d.kids(obj, fields, listKey)
	if err != nil {
		return NoNodeID, err
	}
	return d.add(kind, obj, name, flags, kids...), nil
}

func (d *decoder) node(obj map[string]any) (NodeID, error) {
	typ, _ := obj["type"].(string)
	str := func(key string) string { s, _ := obj[key].(string); return s }
	flag := func(key string, f Flags) Flags {
		if b, _ := obj[key].(bool); b {
			return f
		}
		return 0
	}

	switch typ {
	case "Program":
		flags := Flags(0)
		if str("sourceType") == "module" {
			flags |= FlagModule
		}
		return d.simple(KindProgram, obj, "", flags, nil, "body")
	case "Identifier":
		return d.add(KindIdentifier, obj, str("name"), 0), nil
	case "Literal", "StringLiteral":
		if s, ok := obj["value"].(string); ok {
			return d.tree.Add(Node{Kind: KindStringLiteral, Span: span(obj), Name: d.strs.Intern(s)}), nil
		}
		return d.add(KindLiteral, obj, "", 0), nil
	case "NumericLiteral", "BooleanLiteral", "NullLiteral", "RegExpLiteral", "BigIntLiteral", "TemplateElement":
		return d.add(KindLiteral, obj, "", 0), nil
	case "ThisExpression":
		return d.add(KindThisExpression, obj, "", 0), nil
	case "Super", "PrivateIdentifier", "PrivateName", "MetaProperty",
		"BreakStatement", "ContinueStatement", "EmptyStatement", "DebuggerStatement":
		return d.add(KindOther, obj, typ, 0), nil
	case "ExportAllDeclaration":
		return d.reexport(obj, typ), nil

	case "ExpressionStatement":
		directive := str("directive")
		flags := Flags(0)
		if directive != "" {
			flags = FlagDirective
		}
		return d.simple(KindExpressionStatement, obj, directive, flags, []string{"expression"}, "")
	case "BlockStatement", "StaticBlock":
		return d.simple(KindBlockStatement, obj, "", 0, nil, "body")
	case "VariableDeclaration":
		var flags Flags
		switch str("kind") {
		case "let":
			flags = FlagLet
		case "const", "using", "await using":
			flags = FlagConst
		}
		return d.simple(KindVariableDeclaration, obj, "", flags, nil, "declarations")
	case "VariableDeclarator":
		return d.simple(KindVariableDeclarator, obj, "", 0, []string{"id", "init"}, "")
	case "ReturnStatement":
		return d.simple(KindReturnStatement, obj, "", 0, []string{"argument"}, "")
	case "ThrowStatement":
		return d.simple(KindThrowStatement, obj, "", 0, []string{"argument"}, "")
	case "IfStatement":
		return d.simple(KindIfStatement, obj, "", 0, []string{"test", "consequent", "alternate"}, "")
	case "ConditionalExpression":
		return d.simple(KindConditionalExpression, obj, "", 0, []string{"test", "consequent", "alternate"}, "")
	case "ForStatement":
		return d.simple(KindForStatement, obj, "", 0, []string{"init", "test", "update", "body"}, "")
	case "ForInStatement":
		return d.simple(KindForInStatement, obj, "", 0, []string{"left", "right", "body"}, "")
	case "ForOfStatement":
		return d.simple(KindForOfStatement, obj, "", 0, []string{"left", "right", "body"}, "")
	case "WhileStatement", "DoWhileStatement":
		return d.simple(KindWhileStatement, obj, "", 0, []string{"test", "body"}, "")
	case "TryStatement":
		return d.simple(KindTryStatement, obj, "", 0, []string{"block", "handler", "finalizer"}, "")
	case "CatchClause":
		return d.simple(KindCatchClause, obj, "", 0, []string{"param", "body"}, "")
	case "SwitchStatement":
		return d.simple(KindSwitchStatement, obj, "", 0, []string{"discriminant"}, "cases")
	case "SwitchCase":
		return d.simple(KindSwitchCase, obj, "", 0, []string{"test"}, "consequent")
	case "ImportDeclaration":
		return d.simple(KindImportDeclaration, obj, "", 0, []string{"source"}, "specifiers")
	case "ImportSpecifier", "ImportDefaultSpecifier", "ImportNamespaceSpecifier":
		return d.simple(KindImportSpecifier, obj, "", 0, []string{"local"}, "")
	case "ExportNamedDeclaration", "ExportDefaultDeclaration":
		return d.export(obj)
	case "ExportSpecifier":
		return d.simple(KindOther, obj, typ, 0, []string{"local"}, "")

	case "FunctionDeclaration":
		return d.simple(KindFunctionDeclaration, obj, "", 0, []string{"id", "body"}, "params")
	case "FunctionExpression":
		return d.simple(KindFunctionExpression, obj, "", 0, []string{"id", "body"}, "params")
	case "ArrowFunctionExpression":
		flags := flag("expression", FlagExprBody)
		if body, ok := obj["body"].(map[string]any); ok && body["type"] != "BlockStatement" {
			flags |= FlagExprBody
		}
		return d.simple(KindArrowFunctionExpression, obj, "", flags, []string{"id", "body"}, "params")
	case "ClassDeclaration", "ClassExpression":
		return d.class(obj, typ)
	case "MethodDefinition", "PropertyDefinition", "ClassProperty", "ClassMethod":
		return d.simple(KindProperty, obj, "", flag("computed", FlagComputed), []string{"key", "value"}, "")

	case "CallExpression":
		return d.simple(KindCallExpression, obj, "", 0, []string{"callee"}, "arguments")
	case "NewExpression":
		return d.simple(KindNewExpression, obj, "", 0, []string{"callee"}, "arguments")
	case "MemberExpression":
		return d.simple(KindMemberExpression, obj, "", flag("computed", FlagComputed), []string{"object", "property"}, "")
	case "AssignmentExpression", "BinaryExpression", "LogicalExpression":
		kind := KindBinaryExpression
		if typ == "AssignmentExpression" {
			kind = KindAssignmentExpression
		}
		return d.simple(kind, obj, str("operator"), 0, []string{"left", "right"}, "")
	case "UnaryExpression", "AwaitExpression", "YieldExpression":
		return d.simple(KindUnaryExpression, obj, str("operator"), 0, []string{"argument"}, "")
	case "UpdateExpression":
		return d.simple(KindUpdateExpression, obj, str("operator"), 0, []string{"argument"}, "")
	case "SequenceExpression":
		return d.simple(KindSequenceExpression, obj, "", 0, nil, "expressions")
	case "ArrayExpression":
		return d.simple(KindArrayExpression, obj, "", 0, nil, "elements")
	case "ObjectExpression":
		return d.simple(KindObjectExpression, obj, "", 0, nil, "properties")
	case "Property", "ObjectProperty":
		flags := flag("computed", FlagComputed) | flag("shorthand", FlagShorthand)
		return d.simple(KindProperty, obj, "", flags, []string{"key", "value"}, "")
	case "SpreadElement":
		return d.simple(KindSpreadElement, obj, "", 0, []string{"argument"}, "")
	case "RestElement":
		return d.simple(KindRestElement, obj, "", 0, []string{"argument"}, "")
	case "AssignmentPattern":
		return d.simple(KindAssignmentPattern, obj, "", 0, []string{"left", "right"}, "")
	case "ArrayPattern":
		return d.simple(KindArrayPattern, obj, "", 0, nil, "elements")
	case "ObjectPattern":
		return d.simple(KindObjectPattern, obj, "", 0, nil, "properties")
	case "":
		return NoNodeID, fmt.Errorf("estree: node without type at %v", span(obj))
	}
	return d.generic(obj, typ)
}

// class flattens ClassBody members into the class node.
func (d *decoder) class(obj map[string]any, typ string) (NodeID, error) {
	kind := KindClassDeclaration
	if typ == "ClassExpression" {
		kind = KindClassExpression
	}
	kids, err := d.kids(obj, []string{"id", "superClass"}, "")
	if err != nil {
		return NoNodeID, err
	}
	if body, ok := obj["body"].(map[string]any); ok {
		members, err := d.list(body, "body")
		if err != nil {
			return NoNodeID, err
		}
		kids = append(kids, members...)
	}
	return d.add(kind, obj, "", 0, kids...), nil
}

// export unwraps export declarations: the exported declaration takes the
// statement's place, anonymous defaults become expression statements and
// specifier lists keep their local references unless they re-export
// from another module.
func (d *decoder) export(obj map[string]any) (NodeID, error) {
	decl, ok := obj["declaration"].(map[string]any)
	if !ok {
		if _, from := obj["source"].(map[string]any); from {
			return d.reexport(obj, "ExportNamedDeclaration"), nil
		}
		return d.simple(KindOther, obj, "ExportNamedDeclaration", 0, nil, "specifiers")
	}
	id, err := d.node(decl)
	if err != nil {
		return NoNodeID, err
	}
	n := d.tree.Node(id)
	switch {
	case n.Kind == KindFunctionDeclaration && !n.Kid(FuncSlotID).IsValid():
		n.Kind = KindFunctionExpression
	case n.Kind == KindClassDeclaration && !n.Kid(ClassSlotID).IsValid():
		n.Kind = KindClassExpression
	case n.Kind == KindFunctionDeclaration, n.Kind == KindClassDeclaration, n.Kind == KindVariableDeclaration:
		return id, nil
	}
	return d.add(KindExpressionStatement, obj, "", 0, id), nil
}

// reexport decodes `export ... from "m"` as an import without locals:
// the specifiers name bindings of the other module, only the source
// string is kept.
func (d *decoder) reexport(obj map[string]any, typ string) NodeID {
	src, _ := obj["source"].(map[string]any)
	spec, ok := src["value"].(string)
	if !ok {
		return d.add(KindOther, obj, typ, 0)
	}
	lit := d.tree.Add(Node{Kind: KindStringLiteral, Span: span(src), Name: d.strs.Intern(spec)})
	return d.add(KindImportDeclaration, obj, "", 0, lit)
}

// generic walks every object-valued field of an unknown node type in a
// stable key order.
func (d *decoder) generic(obj map[string]any, typ string) (NodeID, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		if !skippedFields[k] {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	var kids []NodeID
	for _, k := range keys {
		switch v := obj[k].(type) {
		case map[string]any:
			if _, ok := v["type"].(string); !ok {
				continue
			}
			id, err := d.node(v)
			if err != nil {
				return NoNodeID, err
			}
			kids = append(kids, id)
		case []any:
			for _, el := range v {
				m, ok := el.(map[string]any)
				if !ok {
					continue
				}
				if _, ok := m["type"].(string); !ok {
					continue
				}
				id, err := d.node(m)
				if err != nil {
					return NoNodeID, err
				}
				kids = append(kids, id)
			}
		}
	}
	return d.add(KindOther, obj, typ, 0, kids...), nil
}
