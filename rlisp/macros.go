package rlisp

// lookupMacro resolves a call head to a macro binding, if any. A
// symbol shadowed by a non-macro value is not a macro call.
func (env *Rlisp) lookupMacro(sym SexpSymbol, scope *Scope) (*SexpMacro, bool) {
	val, err := scope.LookupSymbol(sym)
	if err != nil {
		return nil, false
	}
	mac, isMac := val.(*SexpMacro)
	return mac, isMac
}

// ExpandMacro rewrites a macro call into a new term. Both transformer
// kinds substitute the literal call-site terms, never their values,
// and neither renames anything: expansion is non-hygienic, so a
// macro's introduced bindings can capture call-site names. The
// standard library's swap!-style macros depend on exactly that.
func (env *Rlisp) ExpandMacro(mac *SexpMacro, args []Sexp) (Sexp, error) {
	if len(args) != len(mac.params) {
		return SexpNull, ErrArity(len(mac.params), len(args))
	}
	V("expanding macro %s with %d args", mac.name, len(args))

	switch mac.kind {
	case MacroRule:
		subs := make(map[int]Sexp, len(mac.params))
		for i, p := range mac.params {
			subs[p.number] = args[i]
		}
		return substituteSymbols(mac.template, subs), nil

	case MacroTemplate:
		// the template is a quasiquote form; binding the formals
		// to the unevaluated call-site terms makes each ~hole
		// splice in the literal term.
		macScope := env.NewScope(env.global, "macro "+mac.name)
		for i, p := range mac.params {
			macScope.bind(p, args[i])
		}
		return env.Eval(mac.template, macScope)
	}
	return SexpNull, Condition(ErrParseExpression)
}

// substituteSymbols is the rule-transformer engine: plain textual
// replacement of pattern names throughout the template.
func substituteSymbols(template Sexp, subs map[int]Sexp) Sexp {
	switch t := template.(type) {
	case SexpSymbol:
		if rep, ok := subs[t.number]; ok {
			return rep
		}
		return t
	case *SexpPair:
		return Cons(
			substituteSymbols(t.Head, subs),
			substituteSymbols(t.Tail, subs),
		)
	}
	return template
}

// evalQuasiquote walks a quasiquoted term, splicing in the value of
// each unquote hole at depth 1. Nested quasiquotes stay literal until
// their own evaluation.
func (env *Rlisp) evalQuasiquote(expr Sexp, scope *Scope, depth int) (Sexp, error) {
	pair, isPair := expr.(*SexpPair)
	if !isPair {
		return expr, nil
	}

	if sym, isSym := pair.Head.(SexpSymbol); isSym {
		switch sym.name {
		case "unquote":
			arr, proper := ListToArray(pair)
			if !proper || len(arr) != 2 {
				return SexpNull, Condition(ErrParseExpression)
			}
			if depth == 1 {
				return env.Eval(arr[1], scope)
			}
			inner, err := env.evalQuasiquote(arr[1], scope, depth-1)
			if err != nil {
				return SexpNull, err
			}
			return MakeList([]Sexp{sym, inner}), nil

		case "quasiquote":
			arr, proper := ListToArray(pair)
			if !proper || len(arr) != 2 {
				return SexpNull, Condition(ErrParseExpression)
			}
			inner, err := env.evalQuasiquote(arr[1], scope, depth+1)
			if err != nil {
				return SexpNull, err
			}
			return MakeList([]Sexp{sym, inner}), nil
		}
	}

	head, err := env.evalQuasiquote(pair.Head, scope, depth)
	if err != nil {
		return SexpNull, err
	}
	tail, err := env.evalQuasiquote(pair.Tail, scope, depth)
	if err != nil {
		return SexpNull, err
	}
	return Cons(head, tail), nil
}
