package sema

import "fmt"

// Ids store index+1 so the zero value is the "none" handle and every minted
// id is non-zero. Index() recovers the arena slot.

// DeclID identifies a declaration.
type DeclID uint32

// ScopeID identifies a lexical scope.
type ScopeID uint32

// FunctionID identifies a function, the top-level one included.
type FunctionID uint32

const (
	NoDeclID     DeclID     = 0
	NoScopeID    ScopeID    = 0
	NoFunctionID FunctionID = 0

	// GlobalScopeID is the reserved id of the global scope (index 0).
	GlobalScopeID ScopeID = 1
	// GlobalFunctionID is the reserved id of the global function (index 0).
	GlobalFunctionID FunctionID = 1
)

func (id DeclID) IsValid() bool     { return id != NoDeclID }
func (id ScopeID) IsValid() bool    { return id != NoScopeID }
func (id FunctionID) IsValid() bool { return id != NoFunctionID }

func (id DeclID) Index() int     { return int(id) - 1 }
func (id ScopeID) Index() int    { return int(id) - 1 }
func (id FunctionID) Index() int { return int(id) - 1 }

func (id ScopeID) IsGlobal() bool    { return id == GlobalScopeID }
func (id FunctionID) IsGlobal() bool { return id == GlobalFunctionID }

func (id DeclID) String() string {
	if !id.IsValid() {
		return "Decl#none"
	}
	return fmt.Sprintf("Decl#%d", id.Index())
}

func (id ScopeID) String() string {
	if !id.IsValid() {
		return "Scope#none"
	}
	return fmt.Sprintf("Scope#%d", id.Index())
}

func (id FunctionID) String() string {
	if !id.IsValid() {
		return "Func#none"
	}
	return fmt.Sprintf("Func#%d", id.Index())
}
