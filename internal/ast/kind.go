package ast

// Kind is the ESTree node type of a Node.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindProgram
	KindIdentifier
	KindStringLiteral
	KindLiteral // numbers, booleans, null, regexps, bigints
	KindThisExpression

	// statements
	KindExpressionStatement
	KindBlockStatement
	KindVariableDeclaration
	KindVariableDeclarator
	KindReturnStatement
	KindThrowStatement
	KindIfStatement
	KindForStatement
	KindForInStatement
	KindForOfStatement
	KindWhileStatement
	KindTryStatement
	KindCatchClause
	KindSwitchStatement
	KindSwitchCase
	KindImportDeclaration
	KindImportSpecifier

	// functions and classes
	KindFunctionDeclaration
	KindFunctionExpression
	KindArrowFunctionExpression
	KindClassDeclaration
	KindClassExpression

	// expressions
	KindCallExpression
	KindNewExpression
	KindMemberExpression
	KindAssignmentExpression
	KindBinaryExpression
	KindUnaryExpression
	KindUpdateExpression
	KindConditionalExpression
	KindSequenceExpression
	KindArrayExpression
	KindObjectExpression
	KindProperty
	KindSpreadElement

	// patterns
	KindRestElement
	KindAssignmentPattern
	KindArrayPattern
	KindObjectPattern

	// KindOther covers ESTree types without dedicated handling; their
	// children are walked generically.
	KindOther
)

var kindNames = [...]string{
	KindInvalid:                 "Invalid",
	KindProgram:                 "Program",
	KindIdentifier:              "Identifier",
	KindStringLiteral:           "StringLiteral",
	KindLiteral:                 "Literal",
	KindThisExpression:          "ThisExpression",
	KindExpressionStatement:     "ExpressionStatement",
	KindBlockStatement:          "BlockStatement",
	KindVariableDeclaration:     "VariableDeclaration",
	KindVariableDeclarator:      "VariableDeclarator",
	KindReturnStatement:         "ReturnStatement",
	KindThrowStatement:          "ThrowStatement",
	KindIfStatement:             "IfStatement",
	KindForStatement:            "ForStatement",
	KindForInStatement:          "ForInStatement",
	KindForOfStatement:          "ForOfStatement",
	KindWhileStatement:          "WhileStatement",
	KindTryStatement:            "TryStatement",
	KindCatchClause:             "CatchClause",
	KindSwitchStatement:         "SwitchStatement",
	KindSwitchCase:              "SwitchCase",
	KindImportDeclaration:       "ImportDeclaration",
	KindImportSpecifier:         "ImportSpecifier",
	KindFunctionDeclaration:     "FunctionDeclaration",
	KindFunctionExpression:      "FunctionExpression",
	KindArrowFunctionExpression: "ArrowFunctionExpression",
	KindClassDeclaration:        "ClassDeclaration",
	KindClassExpression:         "ClassExpression",
	KindCallExpression:          "CallExpression",
	KindNewExpression:           "NewExpression",
	KindMemberExpression:        "MemberExpression",
	KindAssignmentExpression:    "AssignmentExpression",
	KindBinaryExpression:        "BinaryExpression",
	KindUnaryExpression:         "UnaryExpression",
	KindUpdateExpression:        "UpdateExpression",
	KindConditionalExpression:   "ConditionalExpression",
	KindSequenceExpression:      "SequenceExpression",
	KindArrayExpression:         "ArrayExpression",
	KindObjectExpression:        "ObjectExpression",
	KindProperty:                "Property",
	KindSpreadElement:           "SpreadElement",
	KindRestElement:             "RestElement",
	KindAssignmentPattern:       "AssignmentPattern",
	KindArrayPattern:            "ArrayPattern",
	KindObjectPattern:           "ObjectPattern",
	KindOther:                   "Other",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Invalid"
}

// IsFunction reports function declarations, expressions and arrows.
func (k Kind) IsFunction() bool {
	return k == KindFunctionDeclaration || k == KindFunctionExpression || k == KindArrowFunctionExpression
}

// IsClass reports class declarations and expressions.
func (k Kind) IsClass() bool {
	return k == KindClassDeclaration || k == KindClassExpression
}
