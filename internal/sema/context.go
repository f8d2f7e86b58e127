package sema

import (
	"maps"
	"slices"

	"jsfront/internal/ast"
	"jsfront/internal/source"
)

// Hints are optional initial capacities for the arenas.
type Hints struct{ Decls, Scopes, Functions int }

// Options configure a Context.
type Options struct {
	Limits Limits
	Hints  Hints
}

// Context is the semantic context of one compilation unit: the arenas of
// declarations, scopes and functions plus the maps tying AST nodes to them.
// A Context is built by a single resolver pass and is not safe for
// concurrent mutation.
type Context struct {
	decls  arena[Decl]
	scopes arena[LexicalScope]
	funcs  arena[FunctionInfo]

	// set once the first scope/function exists
	globalScope    ScopeID
	globalFunction FunctionID

	// identifier node -> declaration it resolves to
	identDecls map[ast.NodeID]DeclID
	// node -> scope it opens (usually a BlockStatement)
	nodeScopes map[ast.NodeID]ScopeID
	// call node -> module a `require` resolved to
	requires map[ast.NodeID]source.FileID
}

func NewContext(opts Options) *Context {
	hint := func(v, def int) int {
		if v <= 0 {
			return def
		}
		return v
	}
	return &Context{
		decls:      newArena[Decl]("declaration", opts.Limits.Decls, hint(opts.Hints.Decls, 64)),
		scopes:     newArena[LexicalScope]("scope", opts.Limits.Scopes, hint(opts.Hints.Scopes, 16)),
		funcs:      newArena[FunctionInfo]("function", opts.Limits.Functions, hint(opts.Hints.Functions, 8)),
		identDecls: make(map[ast.NodeID]DeclID),
		nodeScopes: make(map[ast.NodeID]ScopeID),
		requires:   make(map[ast.NodeID]source.FileID),
	}
}

// ---- checked slot access ----

func (c *Context) declSlot(op string, id DeclID) *Decl {
	d := c.decls.at(uint32(id))
	if d == nil {
		contractf(op, "unknown declaration %v (have %d)", id, c.decls.len())
	}
	return d
}

func (c *Context) scopeSlot(op string, id ScopeID) *LexicalScope {
	s := c.scopes.at(uint32(id))
	if s == nil {
		contractf(op, "unknown scope %v (have %d)", id, c.scopes.len())
	}
	return s
}

func (c *Context) funcSlot(op string, id FunctionID) *FunctionInfo {
	f := c.funcs.at(uint32(id))
	if f == nil {
		contractf(op, "unknown function %v (have %d)", id, c.funcs.len())
	}
	return f
}

// ---- construction ----

// NewFunction creates a function. The first function of a context becomes
// the global function and must not have parents; every later function must
// name an existing parent function.
func (c *Context) NewFunction(parentFunction FunctionID, parentScope ScopeID, strict bool) (FunctionID, error) {
	const op = "NewFunction"
	if !c.globalFunction.IsValid() {
		if parentFunction.IsValid() || parentScope.IsValid() {
			contractf(op, "global function cannot have parent %v/%v", parentFunction, parentScope)
		}
	} else {
		if !parentFunction.IsValid() {
			contractf(op, "only the global function may omit its parent")
		}
		c.funcSlot(op, parentFunction)
	}
	if parentScope.IsValid() {
		c.scopeSlot(op, parentScope)
	}

	raw, err := c.funcs.push(FunctionInfo{
		ParentFunction: parentFunction,
		ParentScope:    parentScope,
		Strict:         strict,
	})
	if err != nil {
		return NoFunctionID, err
	}
	id := FunctionID(raw)
	if !c.globalFunction.IsValid() {
		c.globalFunction = id
	}
	return id, nil
}

// NewScope creates a scope owned by fn and appends it to fn's scope list.
// The first scope created for a function is its function scope; the first
// scope of the context is the global scope and must belong to the global
// function.
func (c *Context) NewScope(fn FunctionID, parentScope ScopeID) (ScopeID, error) {
	const op = "NewScope"
	c.funcSlot(op, fn)
	if parentScope.IsValid() {
		c.scopeSlot(op, parentScope)
	}
	if !c.globalScope.IsValid() && fn != c.globalFunction {
		contractf(op, "first scope must belong to the global function, got %v", fn)
	}

	raw, err := c.scopes.push(LexicalScope{
		ParentFunction: fn,
		ParentScope:    parentScope,
	})
	if err != nil {
		return NoScopeID, err
	}
	id := ScopeID(raw)
	f := c.funcSlot(op, fn)
	f.Scopes = append(f.Scopes, id)
	if !c.globalScope.IsValid() {
		c.globalScope = id
	}
	return id, nil
}

// NewDeclSpecial creates a declaration in scope and appends it to the
// scope's declaration list.
func (c *Context) NewDeclSpecial(scope ScopeID, name source.StringID, kind DeclKind, special Special) (DeclID, error) {
	const op = "NewDecl"
	c.scopeSlot(op, scope)
	if !kind.Valid() {
		contractf(op, "invalid declaration kind %v", kind)
	}

	raw, err := c.decls.push(Decl{
		Name:    name,
		Kind:    kind,
		Special: special,
		Scope:   scope,
	})
	if err != nil {
		return NoDeclID, err
	}
	id := DeclID(raw)
	s := c.scopeSlot(op, scope)
	s.Decls = append(s.Decls, id)
	return id, nil
}

func (c *Context) NewDecl(scope ScopeID, name source.StringID, kind DeclKind) (DeclID, error) {
	return c.NewDeclSpecial(scope, name, kind, NotSpecial)
}

// NewGlobal declares name in the global scope, which must already exist.
func (c *Context) NewGlobal(name source.StringID, kind DeclKind) (DeclID, error) {
	if !c.globalScope.IsValid() {
		contractf("NewGlobal", "global scope has not been created")
	}
	return c.NewDecl(c.globalScope, name, kind)
}

// FuncArgumentsDecl returns the `arguments` declaration of fn, creating it
// in fn's function scope on first use. name is the atom for "arguments";
// the context has no access to the atom table.
func (c *Context) FuncArgumentsDecl(fn FunctionID, name source.StringID) (DeclID, error) {
	const op = "FuncArgumentsDecl"
	f := c.funcSlot(op, fn)
	if f.ArgumentsDecl.IsValid() {
		return f.ArgumentsDecl, nil
	}
	scope := f.FunctionScope()
	if !scope.IsValid() {
		contractf(op, "%v has no function scope", fn)
	}
	decl, err := c.NewDeclSpecial(scope, name, DeclVar, SpecialArguments)
	if err != nil {
		return NoDeclID, err
	}
	f.ArgumentsDecl = decl
	return decl, nil
}

// SetFunctionInScope flags decl as a function declared directly in its scope.
func (c *Context) SetFunctionInScope(decl DeclID) {
	c.declSlot("SetFunctionInScope", decl).FunctionInScope = true
}

// AddHoistedFunction queues a function declaration for materialization at
// the top of scope.
func (c *Context) AddHoistedFunction(scope ScopeID, fn ast.NodeID) {
	s := c.scopeSlot("AddHoistedFunction", scope)
	s.HoistedFunctions = append(s.HoistedFunctions, fn)
}

// ---- resolution recorders (last write wins) ----

func (c *Context) SetIdentDecl(node ast.NodeID, decl DeclID) {
	c.declSlot("SetIdentDecl", decl)
	c.identDecls[node] = decl
}

func (c *Context) SetNodeScope(node ast.NodeID, scope ScopeID) {
	c.scopeSlot("SetNodeScope", scope)
	c.nodeScopes[node] = scope
}

func (c *Context) AddRequire(call ast.NodeID, module source.FileID) {
	c.requires[call] = module
}

// ---- queries ----

func (c *Context) Decl(id DeclID) Decl {
	return *c.declSlot("Decl", id)
}

func (c *Context) Scope(id ScopeID) LexicalScope {
	return c.scopeSlot("Scope", id).view()
}

func (c *Context) Function(id FunctionID) FunctionInfo {
	return c.funcSlot("Function", id).view()
}

func (c *Context) NumDecls() int     { return c.decls.len() }
func (c *Context) NumScopes() int    { return c.scopes.len() }
func (c *Context) NumFunctions() int { return c.funcs.len() }

// AllDecls returns the declarations in creation order; index i is the
// declaration with Index() == i.
func (c *Context) AllDecls() []Decl {
	return slices.Clone(c.decls.data)
}

func (c *Context) AllScopes() []LexicalScope {
	out := make([]LexicalScope, len(c.scopes.data))
	for i := range c.scopes.data {
		out[i] = c.scopes.data[i].view()
	}
	return out
}

func (c *Context) AllFunctions() []FunctionInfo {
	out := make([]FunctionInfo, len(c.funcs.data))
	for i := range c.funcs.data {
		out[i] = c.funcs.data[i].view()
	}
	return out
}

func (c *Context) IdentDecl(node ast.NodeID) (DeclID, bool) {
	d, ok := c.identDecls[node]
	return d, ok
}

func (c *Context) NodeScope(node ast.NodeID) (ScopeID, bool) {
	s, ok := c.nodeScopes[node]
	return s, ok
}

func (c *Context) Require(call ast.NodeID) (source.FileID, bool) {
	f, ok := c.requires[call]
	return f, ok
}

func (c *Context) AllIdentDecls() map[ast.NodeID]DeclID {
	return maps.Clone(c.identDecls)
}

func (c *Context) AllNodeScopes() map[ast.NodeID]ScopeID {
	return maps.Clone(c.nodeScopes)
}

func (c *Context) AllRequires() map[ast.NodeID]source.FileID {
	return maps.Clone(c.requires)
}

// GlobalScopeID returns the global scope once it has been created. The id
// itself is constant; ok tells whether the scope exists yet.
func (c *Context) GlobalScopeID() (ScopeID, bool) {
	return c.globalScope, c.globalScope.IsValid()
}

// GlobalFunctionID returns the global function once it has been created.
func (c *Context) GlobalFunctionID() (FunctionID, bool) {
	return c.globalFunction, c.globalFunction.IsValid()
}

// FuncArgumentsOpt returns fn's `arguments` declaration without creating it.
func (c *Context) FuncArgumentsOpt(fn FunctionID) (DeclID, bool) {
	d := c.funcSlot("FuncArgumentsOpt", fn).ArgumentsDecl
	return d, d.IsValid()
}
