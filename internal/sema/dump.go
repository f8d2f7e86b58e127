package sema

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"jsfront/internal/ast"
	"jsfront/internal/source"
)

// NameTable turns atoms back into text for dumps.
type NameTable interface {
	Name(source.StringID) string
}

// DumpOptions control Dump output.
type DumpOptions struct {
	// Color enables ANSI colors regardless of the terminal.
	Color bool
}

type dumpStyle struct {
	header *color.Color
	entity *color.Color
	name   *color.Color
	kind   *color.Color
}

func newDumpStyle(enabled bool) dumpStyle {
	st := dumpStyle{
		header: color.New(color.Bold),
		entity: color.New(color.FgCyan),
		name:   color.New(color.FgYellow),
		kind:   color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{st.header, st.entity, st.name, st.kind} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return st
}

type dumper struct {
	c     *Context
	w     *bufio.Writer
	names NameTable
	tree  *ast.Tree
	st    dumpStyle
}

// Dump writes a human-readable tree of the context: counters, the global
// properties, then every function with its scopes nested by parent links.
// tree is used to name hoisted functions and may be nil.
func (c *Context) Dump(w io.Writer, names NameTable, tree *ast.Tree, opts DumpOptions) error {
	d := &dumper{c: c, w: bufio.NewWriter(w), names: names, tree: tree, st: newDumpStyle(opts.Color)}

	fmt.Fprintln(d.w, d.st.header.Sprint("SemContext"))
	fmt.Fprintf(d.w, "%7d functions\n", c.NumFunctions())
	fmt.Fprintf(d.w, "%7d lexical scopes\n", c.NumScopes())
	fmt.Fprintf(d.w, "%7d declarations\n", c.NumDecls())
	fmt.Fprintf(d.w, "%7d ident resolutions\n", len(c.identDecls))
	if len(c.requires) > 0 {
		fmt.Fprintf(d.w, "%7d require resolutions\n", len(c.requires))
	}
	d.w.WriteByte('\n')

	for i := range c.decls.data {
		if c.decls.data[i].Kind == DeclGlobalProperty {
			d.decl(DeclID(i+1), 1)
		}
	}

	if gf, ok := c.GlobalFunctionID(); ok {
		children := make(map[FunctionID][]FunctionID)
		for i := range c.funcs.data {
			if p := c.funcs.data[i].ParentFunction; p.IsValid() {
				children[p] = append(children[p], FunctionID(i+1))
			}
		}
		d.function(children, gf, 0)
	}
	return d.w.Flush()
}

func (d *dumper) line(indent int, text string) {
	d.w.WriteString(strings.Repeat(" ", indent))
	d.w.WriteByte(' ')
	d.w.WriteString(text)
	d.w.WriteByte('\n')
}

func (d *dumper) name(id source.StringID) string {
	if d.names == nil {
		return fmt.Sprintf("<atom %d>", id)
	}
	return d.names.Name(id)
}

func (d *dumper) decl(id DeclID, indent int) {
	decl := d.c.decls.at(uint32(id))
	text := fmt.Sprintf("%s '%s' %s %s",
		d.st.entity.Sprint(id), d.st.name.Sprint(d.name(decl.Name)), d.st.kind.Sprint(decl.Kind), decl.Special)
	if decl.FunctionInScope {
		text += " functionInScope"
	}
	d.line(indent, text)
}

func (d *dumper) function(children map[FunctionID][]FunctionID, id FunctionID, indent int) {
	d.line(indent, d.st.entity.Sprint(id))
	f := d.c.funcs.at(uint32(id))

	scopeKids := make(map[ScopeID][]ScopeID)
	for _, sid := range f.Scopes {
		if p := d.c.scopes.at(uint32(sid)).ParentScope; p.IsValid() {
			scopeKids[p] = append(scopeKids[p], sid)
		}
	}
	if root := f.FunctionScope(); root.IsValid() {
		d.scope(scopeKids, root, indent+1)
	}
	for _, kid := range children[id] {
		d.function(children, kid, indent+1)
	}
}

func (d *dumper) scope(kids map[ScopeID][]ScopeID, id ScopeID, indent int) {
	s := d.c.scopes.at(uint32(id))
	d.line(indent, d.st.entity.Sprint(id))
	for _, did := range s.Decls {
		d.decl(did, indent+1)
	}
	for _, fn := range s.HoistedFunctions {
		d.line(indent+1, "hoistedFunction "+d.hoistedName(fn))
	}
	for _, kid := range kids[id] {
		d.scope(kids, kid, indent+1)
	}
}

func (d *dumper) hoistedName(fn ast.NodeID) string {
	if d.tree != nil {
		if n := d.tree.Node(d.tree.FunctionName(fn)); n != nil {
			return d.name(n.Name)
		}
	}
	return fmt.Sprintf("<node %d>", fn)
}
