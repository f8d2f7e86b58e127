package sema

import "fmt"

// DeclKind classifies a declaration. The declaration order groups the kinds
// (let-like, other, var-like) but classification never depends on it: every
// predicate reads declKindTraits.
type DeclKind uint8

const (
	// let-like
	DeclLet DeclKind = iota
	DeclConst
	DeclClass
	DeclImport
	// DeclES5Catch is a single catch variable as in `catch (e)`, see ES10
	// B.3.5 VariableStatements in Catch Blocks.
	DeclES5Catch

	// DeclFunctionExprName is the name of a named function expression,
	// visible inside the function only.
	DeclFunctionExprName
	// DeclScopedFunction is a function declaration visible only in its
	// lexical scope.
	DeclScopedFunction

	// var-like
	// DeclVar is "var" in a function scope.
	DeclVar
	DeclParameter
	// DeclGlobalProperty is "var" in the global scope.
	DeclGlobalProperty
	DeclUndeclaredGlobalProperty

	declKindCount
)

type kindTraits struct {
	name                    string
	letLike                 bool
	varLike                 bool
	varLikeOrScopedFunction bool
	global                  bool
}

var declKindTraits = [declKindCount]kindTraits{
	DeclLet:                      {name: "Let", letLike: true},
	DeclConst:                    {name: "Const", letLike: true},
	DeclClass:                    {name: "Class", letLike: true},
	DeclImport:                   {name: "Import", letLike: true},
	DeclES5Catch:                 {name: "ES5Catch", letLike: true},
	DeclFunctionExprName:         {name: "FunctionExprName"},
	DeclScopedFunction:           {name: "ScopedFunction", varLikeOrScopedFunction: true},
	DeclVar:                      {name: "Var", varLike: true, varLikeOrScopedFunction: true},
	DeclParameter:                {name: "Parameter", varLike: true, varLikeOrScopedFunction: true},
	DeclGlobalProperty:           {name: "GlobalProperty", varLike: true, varLikeOrScopedFunction: true, global: true},
	DeclUndeclaredGlobalProperty: {name: "UndeclaredGlobalProperty", varLike: true, varLikeOrScopedFunction: true, global: true},
}

func (k DeclKind) traits() kindTraits {
	if k >= declKindCount {
		return kindTraits{}
	}
	return declKindTraits[k]
}

// Valid reports whether k is one of the declared kinds.
func (k DeclKind) Valid() bool { return k < declKindCount }

// IsLetLike reports lexically scoped kinds that cannot be re-declared.
func (k DeclKind) IsLetLike() bool { return k.traits().letLike }

// IsVarLike reports function-scoped kinds that can be re-declared.
func (k DeclKind) IsVarLike() bool { return k.traits().varLike }

func (k DeclKind) IsVarLikeOrScopedFunction() bool { return k.traits().varLikeOrScopedFunction }

// IsGlobal reports kinds that live as properties of the global object.
func (k DeclKind) IsGlobal() bool { return k.traits().global }

func (k DeclKind) String() string {
	if t := k.traits(); t.name != "" {
		return t.name
	}
	return fmt.Sprintf("DeclKind(%d)", uint8(k))
}

// AllDeclKinds lists every kind in declaration order.
func AllDeclKinds() []DeclKind {
	out := make([]DeclKind, 0, declKindCount)
	for k := DeclKind(0); k < declKindCount; k++ {
		out = append(out, k)
	}
	return out
}

// Special marks implicit bindings the programmer never wrote.
type Special uint8

const (
	NotSpecial Special = iota
	SpecialArguments
	SpecialEval
)

func (s Special) String() string {
	switch s {
	case NotSpecial:
		return "NotSpecial"
	case SpecialArguments:
		return "Arguments"
	case SpecialEval:
		return "Eval"
	default:
		return fmt.Sprintf("Special(%d)", uint8(s))
	}
}
