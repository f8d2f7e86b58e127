package ast

import "jsfront/internal/source"

// Builder assembles a Tree by hand. Tests and tools that do not start from
// an ESTree dump use it; spans are left empty.
type Builder struct {
	Tree    *Tree
	Strings *source.Interner
}

func NewBuilder(file source.FileID, strs *source.Interner) *Builder {
	if strs == nil {
		strs = source.NewInterner()
	}
	return &Builder{Tree: NewTree(file, 64), Strings: strs}
}

func (b *Builder) node(kind Kind, name string, flags Flags, kids ...NodeID) NodeID {
	var atom source.StringID
	if name != "" {
		atom = b.Strings.Intern(name)
	}
	return b.Tree.Add(Node{Kind: kind, Name: atom, Flags: flags, Kids: kids})
}

// Program sets the tree root. module selects sourceType "module".
func (b *Builder) Program(module bool, body ...NodeID) NodeID {
	var flags Flags
	if module {
		flags = FlagModule
	}
	id := b.node(KindProgram, "", flags, body...)
	b.Tree.Root = id
	return id
}

func (b *Builder) Ident(name string) NodeID {
	return b.node(KindIdentifier, name, 0)
}

func (b *Builder) Str(value string) NodeID {
	return b.Tree.Add(Node{Kind: KindStringLiteral, Name: b.Strings.Intern(value)})
}

func (b *Builder) Num() NodeID {
	return b.node(KindLiteral, "", 0)
}

// Directive builds a directive prologue entry such as "use strict".
func (b *Builder) Directive(text string) NodeID {
	return b.node(KindExpressionStatement, text, FlagDirective, b.Str(text))
}

func (b *Builder) ExprStmt(expr NodeID) NodeID {
	return b.node(KindExpressionStatement, "", 0, expr)
}

func (b *Builder) Block(body ...NodeID) NodeID {
	return b.node(KindBlockStatement, "", 0, body...)
}

// VarKind selects the declaration keyword for Decl.
type VarKind uint8

const (
	Var VarKind = iota
	Let
	Const
)

// Decl builds `kind id = init` with a single declarator. init may be NoNodeID.
func (b *Builder) Decl(kind VarKind, id, init NodeID) NodeID {
	var flags Flags
	switch kind {
	case Let:
		flags = FlagLet
	case Const:
		flags = FlagConst
	}
	d := b.node(KindVariableDeclarator, "", 0, id, init)
	return b.node(KindVariableDeclaration, "", flags, d)
}

func (b *Builder) Return(arg NodeID) NodeID {
	return b.node(KindReturnStatement, "", 0, arg)
}

func (b *Builder) If(test, cons, alt NodeID) NodeID {
	return b.node(KindIfStatement, "", 0, test, cons, alt)
}

func (b *Builder) For(init, test, update, body NodeID) NodeID {
	return b.node(KindForStatement, "", 0, init, test, update, body)
}

func (b *Builder) Try(block, handler, finalizer NodeID) NodeID {
	return b.node(KindTryStatement, "", 0, block, handler, finalizer)
}

func (b *Builder) Catch(param, body NodeID) NodeID {
	return b.node(KindCatchClause, "", 0, param, body)
}

// Import builds `import {a, b} from "src"` (locals only).
func (b *Builder) Import(src string, locals ...NodeID) NodeID {
	kids := []NodeID{b.Str(src)}
	for _, l := range locals {
		kids = append(kids, b.node(KindImportSpecifier, "", 0, l))
	}
	return b.node(KindImportDeclaration, "", 0, kids...)
}

// FuncDecl builds a function declaration; body must be a BlockStatement.
func (b *Builder) FuncDecl(name NodeID, body NodeID, params ...NodeID) NodeID {
	return b.node(KindFunctionDeclaration, "", 0, append([]NodeID{name, body}, params...)...)
}

// FuncExpr builds a function expression; name may be NoNodeID.
func (b *Builder) FuncExpr(name NodeID, body NodeID, params ...NodeID) NodeID {
	return b.node(KindFunctionExpression, "", 0, append([]NodeID{name, body}, params...)...)
}

// Arrow builds an arrow function; an expression body sets FlagExprBody.
func (b *Builder) Arrow(body NodeID, params ...NodeID) NodeID {
	var flags Flags
	if b.Tree.Kind(body) != KindBlockStatement {
		flags = FlagExprBody
	}
	return b.node(KindArrowFunctionExpression, "", flags, append([]NodeID{NoNodeID, body}, params...)...)
}

func (b *Builder) ClassDecl(name, super NodeID, members ...NodeID) NodeID {
	return b.node(KindClassDeclaration, "", 0, append([]NodeID{name, super}, members...)...)
}

func (b *Builder) Call(callee NodeID, args ...NodeID) NodeID {
	return b.node(KindCallExpression, "", 0, append([]NodeID{callee}, args...)...)
}

// Member builds `object.property` (computed=false) or `object[property]`.
func (b *Builder) Member(object, property NodeID, computed bool) NodeID {
	var flags Flags
	if computed {
		flags = FlagComputed
	}
	return b.node(KindMemberExpression, "", flags, object, property)
}

func (b *Builder) Assign(left, right NodeID) NodeID {
	return b.node(KindAssignmentExpression, "=", 0, left, right)
}

func (b *Builder) Binary(op string, left, right NodeID) NodeID {
	return b.node(KindBinaryExpression, op, 0, left, right)
}

func (b *Builder) Object(props ...NodeID) NodeID {
	return b.node(KindObjectExpression, "", 0, props...)
}

func (b *Builder) Prop(key, value NodeID, computed bool) NodeID {
	var flags Flags
	if computed {
		flags = FlagComputed
	}
	return b.node(KindProperty, "", flags, key, value)
}

func (b *Builder) ArrayPattern(elems ...NodeID) NodeID {
	return b.node(KindArrayPattern, "", 0, elems...)
}

func (b *Builder) DefaultParam(left, right NodeID) NodeID {
	return b.node(KindAssignmentPattern, "", 0, left, right)
}

func (b *Builder) Rest(arg NodeID) NodeID {
	return b.node(KindRestElement, "", 0, arg)
}

func (b *Builder) This() NodeID {
	return b.node(KindThisExpression, "", 0)
}
