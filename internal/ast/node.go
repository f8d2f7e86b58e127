package ast

import "jsfront/internal/source"

// Flags carry the few boolean ESTree attributes the resolver needs.
type Flags uint16

const (
	FlagModule    Flags = 1 << iota // Program: sourceType "module"
	FlagLet                         // VariableDeclaration: kind "let"
	FlagConst                       // VariableDeclaration: kind "const"
	FlagComputed                    // MemberExpression / Property: computed key
	FlagShorthand                   // Property: `{a}` shorthand
	FlagDirective                   // ExpressionStatement: part of a directive prologue
	FlagExprBody                    // ArrowFunctionExpression: expression body
)

// Node is one ESTree node. Kids holds the children in a kind-specific slot
// layout:
//
//	Program, BlockStatement          body...
//	ExpressionStatement              expr            (Name = directive text)
//	VariableDeclaration              declarators...  (FlagLet/FlagConst)
//	VariableDeclarator               id, init
//	Return/ThrowStatement            arg
//	IfStatement                      test, consequent, alternate
//	ConditionalExpression            test, consequent, alternate
//	ForStatement                     init, test, update, body
//	ForIn/ForOfStatement             left, right, body
//	WhileStatement                   test, body
//	TryStatement                     block, handler, finalizer
//	CatchClause                      param, body
//	SwitchStatement                  discriminant, cases...
//	SwitchCase                       test, consequent...
//	ImportDeclaration                source, specifiers...
//	ImportSpecifier                  local
//	Function*/Arrow                  id, body, params...
//	Class*                           id, superClass, members...
//	Call/NewExpression               callee, args...
//	MemberExpression                 object, property
//	Assignment/BinaryExpression      left, right     (Name = operator)
//	Unary/UpdateExpression           arg             (Name = operator)
//	Sequence/Array/Object/Pattern    elements...
//	Property                         key, value
//	Spread/RestElement               arg
//	AssignmentPattern                left, right
//	Identifier                       -               (Name = identifier)
//	StringLiteral                    -               (Name = value)
type Node struct {
	Kind  Kind
	Span  source.Span
	Name  source.StringID
	Flags Flags
	Kids  []NodeID
}

// Kid returns child slot i, or NoNodeID when the slot does not exist.
func (n *Node) Kid(i int) NodeID {
	if n == nil || i < 0 || i >= len(n.Kids) {
		return NoNodeID
	}
	return n.Kids[i]
}

// From returns the children from slot i on (params, args, members, ...).
func (n *Node) From(i int) []NodeID {
	if n == nil || i >= len(n.Kids) {
		return nil
	}
	return n.Kids[i:]
}

func (n *Node) Has(f Flags) bool {
	return n != nil && n.Flags&f != 0
}

// Function slots.
const (
	FuncSlotID     = 0
	FuncSlotBody   = 1
	FuncSlotParams = 2
)

// Class slots.
const (
	ClassSlotID      = 0
	ClassSlotSuper   = 1
	ClassSlotMembers = 2
)
