package sema

import (
	"slices"

	"jsfront/internal/ast"
	"jsfront/internal/source"
)

// Decl is one named binding.
type Decl struct {
	Name    source.StringID
	Kind    DeclKind
	Special Special
	// FunctionInScope is set for a function declared directly in Scope.
	FunctionInScope bool
	// Scope is the scope the declaration was created in. Special
	// declarations are technically unscoped but still record it.
	Scope ScopeID
}

// LexicalScope is one node of the static scope tree.
type LexicalScope struct {
	// ParentFunction owns the scope; always valid.
	ParentFunction FunctionID
	// ParentScope is the lexically enclosing scope, possibly owned by
	// another function. NoScopeID for roots.
	ParentScope ScopeID
	// Decls in creation (source) order.
	Decls []DeclID
	// HoistedFunctions are function declarations that must be materialized
	// before the rest of the scope runs.
	HoistedFunctions []ast.NodeID
}

// FunctionInfo describes one function, including the implicit global one.
type FunctionInfo struct {
	ParentFunction FunctionID
	// ParentScope is the scope of the enclosing function that lexically
	// contains this function's definition.
	ParentScope ScopeID
	Strict      bool
	// Scopes belonging to the function; Scopes[0] is the function scope.
	Scopes []ScopeID
	// ArgumentsDecl is created on first use of `arguments`.
	ArgumentsDecl DeclID
}

// FunctionScope returns Scopes[0], or NoScopeID if no scope exists yet.
func (f FunctionInfo) FunctionScope() ScopeID {
	if len(f.Scopes) == 0 {
		return NoScopeID
	}
	return f.Scopes[0]
}

// views handed out clip their slices so a caller's append reallocates
// instead of writing past len into the store.

func (s LexicalScope) view() LexicalScope {
	s.Decls = slices.Clip(s.Decls)
	s.HoistedFunctions = slices.Clip(s.HoistedFunctions)
	return s
}

func (f FunctionInfo) view() FunctionInfo {
	f.Scopes = slices.Clip(f.Scopes)
	return f
}
