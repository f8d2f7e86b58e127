package sema

import (
	"errors"
	"fmt"
	"slices"
)

// Validate cross-checks the links between functions, scopes and
// declarations and reports every broken invariant it finds.
func (c *Context) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.funcs.len() > 0 && c.globalFunction != GlobalFunctionID {
		fail("global function handle is %v, want %v", c.globalFunction, GlobalFunctionID)
	}
	if c.scopes.len() > 0 && c.globalScope != GlobalScopeID {
		fail("global scope handle is %v, want %v", c.globalScope, GlobalScopeID)
	}

	for i := range c.funcs.data {
		id := FunctionID(i + 1)
		f := &c.funcs.data[i]
		if id != GlobalFunctionID {
			if f.ParentFunction == NoFunctionID || f.ParentFunction.Index() >= i {
				fail("%v: parent function %v does not precede it", id, f.ParentFunction)
			}
		}
		for _, sid := range f.Scopes {
			s := c.scopes.at(uint32(sid))
			if s == nil {
				fail("%v: unknown scope %v", id, sid)
				continue
			}
			if s.ParentFunction != id {
				fail("%v lists %v owned by %v", id, sid, s.ParentFunction)
			}
		}
		if f.ArgumentsDecl.IsValid() {
			d := c.decls.at(uint32(f.ArgumentsDecl))
			switch {
			case d == nil:
				fail("%v: unknown arguments declaration %v", id, f.ArgumentsDecl)
			case d.Special != SpecialArguments:
				fail("%v: arguments declaration %v is %v", id, f.ArgumentsDecl, d.Special)
			case d.Scope != f.FunctionScope():
				fail("%v: arguments declaration lives in %v, not the function scope", id, d.Scope)
			}
		}
	}

	for i := range c.scopes.data {
		id := ScopeID(i + 1)
		s := &c.scopes.data[i]
		f := c.funcs.at(uint32(s.ParentFunction))
		if f == nil {
			fail("%v: unknown owner %v", id, s.ParentFunction)
		} else if !slices.Contains(f.Scopes, id) {
			fail("%v: owner %v does not list it", id, s.ParentFunction)
		}
		if s.ParentScope.IsValid() && s.ParentScope.Index() >= i {
			fail("%v: parent scope %v does not precede it", id, s.ParentScope)
		}
		for _, did := range s.Decls {
			d := c.decls.at(uint32(did))
			if d == nil {
				fail("%v: unknown declaration %v", id, did)
			} else if d.Scope != id {
				fail("%v lists %v created in %v", id, did, d.Scope)
			}
		}
	}

	for node, did := range c.identDecls {
		if c.decls.at(uint32(did)) == nil {
			fail("identifier node %d resolves to unknown %v", node, did)
		}
	}
	for node, sid := range c.nodeScopes {
		if c.scopes.at(uint32(sid)) == nil {
			fail("node %d maps to unknown %v", node, sid)
		}
	}
	return errors.Join(errs...)
}
