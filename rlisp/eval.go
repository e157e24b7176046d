package rlisp

// specialFormNames are handled by dedicated evaluator logic and are
// reserved identifiers in every session.
var specialFormNames = []string{
	"define", "lambda", "fn", "cond", "let", "begin",
	"quote", "quasiquote", "unquote",
	"set!", "try", "import",
	"define-struct", "define-macro", "define-macro-rule",
	"else", "nil",
}

// resolveNilAtoms rewrites the symbol nil to the nil value throughout
// quoted data. The atom cannot resolve at read time: unquoted, the
// same spelling doubles as the empty application form, which must
// keep raising ErrNoFunction.
func resolveNilAtoms(expr Sexp) Sexp {
	switch e := expr.(type) {
	case SexpSymbol:
		if e.name == "nil" {
			return SexpNull
		}
	case *SexpPair:
		return Cons(resolveNilAtoms(e.Head), resolveNilAtoms(e.Tail))
	}
	return expr
}

// Eval reduces a term to a value. The loop reassigns expr/scope and
// continues instead of recursing for every tail position (cond and let
// consequents, begin and closure bodies, macro expansions), so
// accumulator-style recursion runs in constant stack.
func (env *Rlisp) Eval(expr Sexp, scope *Scope) (Sexp, error) {
	for {
		switch e := expr.(type) {
		case SexpSymbol:
			if e.name == "nil" {
				return SexpNull, nil
			}
			val, err := scope.LookupSymbol(e)
			if err != nil {
				if env.isStructFieldMiss(e.name) {
					return SexpNull, Condition(ErrStructNoField)
				}
				return SexpNull, err
			}
			return val, nil
		case SexpSentinel:
			if e == SexpNull {
				// a bare () reaching the evaluator is an
				// application with nothing to apply.
				return SexpNull, Condition(ErrNoFunction)
			}
			return e, nil
		case *SexpPair:
			// fallthrough to the list logic below
		default:
			return expr, nil
		}

		arr, proper := ListToArray(expr)
		if !proper {
			return SexpNull, Condition(ErrParseExpression)
		}

		if head, isSym := arr[0].(SexpSymbol); isSym {
			handled, res, err, tailExpr, tailScope := env.evalSpecial(head, arr, scope)
			if handled {
				if err != nil {
					return SexpNull, err
				}
				if tailExpr != nil {
					expr = tailExpr
					if tailScope != nil {
						scope = tailScope
					}
					continue
				}
				return res, nil
			}

			// a head symbol bound to a macro rewrites the call
			// site before anything is evaluated.
			if mac, found := env.lookupMacro(head, scope); found {
				expanded, err := env.ExpandMacro(mac, arr[1:])
				if err != nil {
					return SexpNull, err
				}
				expr = expanded
				continue
			}
		}

		// ordinary application
		headval, err := env.Eval(arr[0], scope)
		if err != nil {
			return SexpNull, err
		}

		fun, isFun := headval.(*SexpFunction)
		if !isFun {
			return SexpNull, Condition(ErrNotCallable)
		}

		args := make([]Sexp, len(arr)-1)
		for i, a := range arr[1:] {
			args[i], err = env.Eval(a, scope)
			if err != nil {
				return SexpNull, err
			}
		}

		if fun.user {
			return fun.userfun(env, fun.name, args)
		}

		if len(args) != len(fun.args) {
			return SexpNull, ErrArity(len(fun.args), len(args))
		}
		funcScope := env.NewScope(fun.closeScope, fun.name)
		for i, p := range fun.args {
			funcScope.bind(p, args[i])
		}
		expr = fun.body
		scope = funcScope
	}
}

// evalSpecial evaluates special forms. handled reports whether head
// named one. On success either res is the final value, or tailExpr
// (with optional tailScope) hands the caller a tail position to loop
// on.
func (env *Rlisp) evalSpecial(head SexpSymbol, arr []Sexp, scope *Scope) (handled bool, res Sexp, err error, tailExpr Sexp, tailScope *Scope) {
	switch head.name {
	case "quote":
		if len(arr) != 2 {
			return true, SexpNull, Condition(ErrParseExpression), nil, nil
		}
		return true, resolveNilAtoms(arr[1]), nil, nil, nil

	case "quasiquote":
		if len(arr) != 2 {
			return true, SexpNull, Condition(ErrParseExpression), nil, nil
		}
		res, err = env.evalQuasiquote(arr[1], scope, 1)
		return true, res, err, nil, nil

	case "unquote":
		return true, SexpNull, ConditionDetail(ErrParseExpression, "unquote outside quasiquote"), nil, nil

	case "define":
		res, err = env.evalDefine(arr, scope)
		return true, res, err, nil, nil

	case "lambda", "fn":
		res, err = env.makeClosure(head.name, arr, scope)
		return true, res, err, nil, nil

	case "cond":
		tailExpr, res, err = env.evalCond(arr, scope)
		return true, res, err, tailExpr, nil

	case "let":
		tailExpr, tailScope, err = env.evalLet(arr, scope)
		return true, SexpNull, err, tailExpr, tailScope

	case "begin":
		if len(arr) == 1 {
			return true, SexpNull, nil, nil, nil
		}
		for _, e := range arr[1 : len(arr)-1] {
			if _, err = env.Eval(e, scope); err != nil {
				return true, SexpNull, err, nil, nil
			}
		}
		return true, SexpNull, nil, arr[len(arr)-1], nil

	case "set!":
		res, err = env.evalSet(arr, scope)
		return true, res, err, nil, nil

	case "try":
		res, err = env.evalTry(arr, scope)
		return true, res, err, nil, nil

	case "import":
		res, err = env.evalImport(arr, scope)
		return true, res, err, nil, nil

	case "define-struct":
		res, err = env.DefineStructForm(arr, scope)
		return true, res, err, nil, nil

	case "define-macro":
		res, err = env.evalDefineMacro(MacroTemplate, arr, scope)
		return true, res, err, nil, nil

	case "define-macro-rule":
		res, err = env.evalDefineMacro(MacroRule, arr, scope)
		return true, res, err, nil, nil
	}
	return false, nil, nil, nil, nil
}

// evalDefine handles both (define name value) and
// (define (name args...) body...).
func (env *Rlisp) evalDefine(arr []Sexp, scope *Scope) (Sexp, error) {
	if len(arr) < 3 {
		return SexpNull, Condition(ErrDefineShape)
	}

	switch target := arr[1].(type) {
	case SexpSymbol:
		if len(arr) != 3 {
			return SexpNull, Condition(ErrDefineShape)
		}
		val, err := env.Eval(arr[2], scope)
		if err != nil {
			return SexpNull, err
		}
		if err := scope.Define(target, val); err != nil {
			return SexpNull, err
		}
		return SexpNull, nil

	case *SexpPair:
		sig, proper := ListToArray(target)
		if !proper || len(sig) == 0 {
			return SexpNull, Condition(ErrDefineShape)
		}
		name, isSym := sig[0].(SexpSymbol)
		if !isSym {
			return SexpNull, Condition(ErrDefineTarget)
		}
		params, err := paramSymbols(sig[1:])
		if err != nil {
			return SexpNull, err
		}
		fun := &SexpFunction{
			name:       name.name,
			args:       params,
			body:       bodyExpr(env, arr[2:]),
			closeScope: scope,
			orig:       MakeList(arr),
		}
		if err := scope.Define(name, fun); err != nil {
			return SexpNull, err
		}
		return SexpNull, nil
	}

	return SexpNull, Condition(ErrDefineTarget)
}

func (env *Rlisp) makeClosure(name string, arr []Sexp, scope *Scope) (Sexp, error) {
	if len(arr) < 3 {
		return SexpNull, Condition(ErrLambdaSyntax)
	}

	var sig []Sexp
	switch p := arr[1].(type) {
	case SexpSentinel:
		if p != SexpNull {
			return SexpNull, Condition(ErrLambdaSyntax)
		}
	case *SexpPair:
		var proper bool
		sig, proper = ListToArray(p)
		if !proper {
			return SexpNull, Condition(ErrLambdaSyntax)
		}
	default:
		return SexpNull, Condition(ErrLambdaSyntax)
	}

	params, err := paramSymbols(sig)
	if err != nil {
		return SexpNull, err
	}

	return &SexpFunction{
		name:       name,
		args:       params,
		body:       bodyExpr(env, arr[2:]),
		closeScope: scope,
		orig:       MakeList(arr),
	}, nil
}

func paramSymbols(sig []Sexp) ([]SexpSymbol, error) {
	params := make([]SexpSymbol, len(sig))
	for i, p := range sig {
		sym, isSym := p.(SexpSymbol)
		if !isSym {
			return nil, Condition(ErrParamNotSymbol)
		}
		params[i] = sym
	}
	return params, nil
}

// bodyExpr wraps multi-expression bodies in begin so a closure holds
// one body term.
func bodyExpr(env *Rlisp, body []Sexp) Sexp {
	if len(body) == 1 {
		return body[0]
	}
	wrapped := make([]Sexp, 0, len(body)+1)
	wrapped = append(wrapped, env.MakeSymbol("begin"))
	wrapped = append(wrapped, body...)
	return MakeList(wrapped)
}

// evalCond returns the chosen consequent as a tail expression, or
// (nil, SexpNull, nil) when no clause matches.
func (env *Rlisp) evalCond(arr []Sexp, scope *Scope) (Sexp, Sexp, error) {
	for _, clause := range arr[1:] {
		pair, isPair := clause.(*SexpPair)
		if !isPair {
			return nil, SexpNull, Condition(ErrCondClauseList)
		}
		parts, proper := ListToArray(pair)
		if !proper || len(parts) != 2 {
			return nil, SexpNull, Condition(ErrCondClauseLen)
		}

		if sym, isSym := parts[0].(SexpSymbol); isSym && sym.name == "else" {
			return parts[1], SexpNull, nil
		}

		condval, err := env.Eval(parts[0], scope)
		if err != nil {
			return nil, SexpNull, err
		}
		b, isBool := condval.(SexpBool)
		if !isBool {
			return nil, SexpNull, Condition(ErrCondNotBool)
		}
		if bool(b) {
			return parts[1], SexpNull, nil
		}
	}
	return nil, SexpNull, nil
}

// evalLet binds sequentially in a fresh child frame and returns the
// final body expression as a tail position in that frame.
func (env *Rlisp) evalLet(arr []Sexp, scope *Scope) (Sexp, *Scope, error) {
	if len(arr) < 2 {
		return nil, nil, Condition(ErrBindingList)
	}

	var bindings []Sexp
	switch b := arr[1].(type) {
	case SexpSentinel:
		if b != SexpNull {
			return nil, nil, Condition(ErrBindingList)
		}
	case *SexpPair:
		var proper bool
		bindings, proper = ListToArray(b)
		if !proper {
			return nil, nil, Condition(ErrBindingList)
		}
	default:
		return nil, nil, Condition(ErrBindingList)
	}

	if len(arr) < 3 {
		return nil, nil, Condition(ErrLetNoBody)
	}

	letScope := env.NewScope(scope, "let")
	for _, binding := range bindings {
		bpair, isPair := binding.(*SexpPair)
		if !isPair {
			return nil, nil, Condition(ErrBindingPair)
		}
		parts, proper := ListToArray(bpair)
		if !proper || len(parts) != 2 {
			return nil, nil, Condition(ErrBindingPair)
		}
		sym, isSym := parts[0].(SexpSymbol)
		if !isSym {
			return nil, nil, Condition(ErrBindingIdent)
		}
		val, err := env.Eval(parts[1], letScope)
		if err != nil {
			return nil, nil, err
		}
		letScope.bind(sym, val)
	}

	for _, e := range arr[2 : len(arr)-1] {
		if _, err := env.Eval(e, letScope); err != nil {
			return nil, nil, err
		}
	}
	return arr[len(arr)-1], letScope, nil
}

func (env *Rlisp) evalSet(arr []Sexp, scope *Scope) (Sexp, error) {
	if len(arr) != 3 {
		return SexpNull, Condition(ErrBindingPair)
	}
	sym, isSym := arr[1].(SexpSymbol)
	if !isSym {
		return SexpNull, Condition(ErrBindingIdent)
	}
	val, err := env.Eval(arr[2], scope)
	if err != nil {
		return SexpNull, err
	}
	if err := scope.Assign(sym, val); err != nil {
		return SexpNull, err
	}
	return SexpNull, nil
}

// evalTry evaluates a body; a raised condition is handed to the
// handler instead of propagating. Genuine Go-level panics still crash:
// only numbered conditions are catchable.
func (env *Rlisp) evalTry(arr []Sexp, scope *Scope) (Sexp, error) {
	if len(arr) != 3 {
		return SexpNull, ErrArity(2, len(arr)-1)
	}

	res, err := env.Eval(arr[1], scope)
	if err == nil {
		return res, nil
	}

	handlerval, herr := env.Eval(arr[2], scope)
	if herr != nil {
		return SexpNull, herr
	}
	handler, isFun := handlerval.(*SexpFunction)
	if !isFun {
		return SexpNull, Condition(ErrNotCallable)
	}
	return env.Apply(handler, []Sexp{AsSexpError(err)})
}

func (env *Rlisp) evalImport(arr []Sexp, scope *Scope) (Sexp, error) {
	if len(arr) != 2 {
		return SexpNull, ErrArity(1, len(arr)-1)
	}
	pathval, err := env.Eval(arr[1], scope)
	if err != nil {
		return SexpNull, err
	}
	path, isStr := pathval.(SexpStr)
	if !isStr {
		return SexpNull, ErrSignature("string", kindName(pathval))
	}
	return env.SourceFile(string(path))
}

func (env *Rlisp) evalDefineMacro(kind MacroKind, arr []Sexp, scope *Scope) (Sexp, error) {
	if len(arr) != 3 {
		return SexpNull, Condition(ErrDefineShape)
	}
	sigpair, isPair := arr[1].(*SexpPair)
	if !isPair {
		return SexpNull, Condition(ErrDefineShape)
	}
	sig, proper := ListToArray(sigpair)
	if !proper || len(sig) == 0 {
		return SexpNull, Condition(ErrDefineShape)
	}
	name, isSym := sig[0].(SexpSymbol)
	if !isSym {
		return SexpNull, Condition(ErrDefineTarget)
	}
	params, err := paramSymbols(sig[1:])
	if err != nil {
		return SexpNull, err
	}

	mac := &SexpMacro{
		name:     name.name,
		kind:     kind,
		params:   params,
		template: arr[2],
	}
	if err := scope.Define(name, mac); err != nil {
		return SexpNull, err
	}
	return SexpNull, nil
}

// Apply calls a function value outside a tail position (apply builtin,
// try handlers, struct accessors).
func (env *Rlisp) Apply(fun *SexpFunction, args []Sexp) (Sexp, error) {
	if fun.user {
		return fun.userfun(env, fun.name, args)
	}
	if len(args) != len(fun.args) {
		return SexpNull, ErrArity(len(fun.args), len(args))
	}
	funcScope := env.NewScope(fun.closeScope, fun.name)
	for i, p := range fun.args {
		funcScope.bind(p, args[i])
	}
	return env.Eval(fun.body, funcScope)
}
