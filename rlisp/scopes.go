package rlisp

import (
	"fmt"
	"sort"
)

// Scope is one frame of the lexical chain: interned-symbol map plus a
// parent pointer. Closures keep a pointer to the frame they closed
// over, so frames form a DAG shared between siblings; the Go collector
// keeps a frame alive as long as any closure still references it.
type Scope struct {
	vals   map[int]Sexp
	parent *Scope
	env    *Rlisp
	name   string
}

func (env *Rlisp) NewScope(parent *Scope, name string) *Scope {
	return &Scope{
		vals:   make(map[int]Sexp),
		parent: parent,
		env:    env,
		name:   name,
	}
}

// LookupSymbol walks the parent chain outward.
func (scope *Scope) LookupSymbol(sym SexpSymbol) (Sexp, error) {
	for s := scope; s != nil; s = s.parent {
		expr, ok := s.vals[sym.number]
		if ok {
			return expr, nil
		}
	}
	return SexpNull, ErrUndefined(sym.name)
}

// Define binds in this frame only, shadowing any outer binding. A
// reserved identifier (special forms, session builtins) cannot be
// redefined.
func (scope *Scope) Define(sym SexpSymbol, expr Sexp) error {
	if scope.env.reserved[sym.number] {
		return ErrReserved(sym.name)
	}
	scope.vals[sym.number] = expr
	return nil
}

// Assign walks outward and mutates the frame that owns the binding.
func (scope *Scope) Assign(sym SexpSymbol, expr Sexp) error {
	for s := scope; s != nil; s = s.parent {
		if _, ok := s.vals[sym.number]; ok {
			s.vals[sym.number] = expr
			return nil
		}
	}
	return ErrUndefined(sym.name)
}

// bind skips the reserved check; the session uses it to install
// builtins and the repl's `_`.
func (scope *Scope) bind(sym SexpSymbol, expr Sexp) {
	scope.vals[sym.number] = expr
}

func (scope *Scope) Show() string {
	names := make([]string, 0, len(scope.vals))
	for num := range scope.vals {
		names = append(names, scope.env.revsymtable[num])
	}
	sort.Strings(names)

	str := fmt.Sprintf("scope %s (%d symbols):\n", scope.name, len(names))
	for _, name := range names {
		sym := scope.env.MakeSymbol(name)
		str += fmt.Sprintf("  %s -> %s\n", name, scope.vals[sym.number].SexpString())
	}
	return str
}
