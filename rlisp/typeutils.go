package rlisp

// kindName is the structural type vocabulary used in signature
// conditions and type predicates.
func kindName(expr Sexp) string {
	switch e := expr.(type) {
	case SexpInt:
		return "int"
	case SexpFloat:
		return "float"
	case SexpStr:
		return "string"
	case SexpBool:
		return "bool"
	case SexpSymbol:
		return "symbol"
	case *SexpPair:
		return "list"
	case SexpSentinel:
		if e == SexpNull {
			return "nil"
		}
		return "end"
	case *SexpFunction:
		return "function"
	case *SexpMacro:
		return "macro"
	case *SexpStructDef:
		return "struct-type"
	case *SexpStruct:
		return "struct"
	case *SexpError:
		return "error"
	case SexpRaw:
		return "raw"
	}
	return "unknown"
}

func TypeQueryFunction(env *Rlisp, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, ErrArity(1, len(args))
	}

	var result bool
	switch name {
	case "type":
		return SexpStr(kindName(args[0])), nil
	case "int?":
		_, result = args[0].(SexpInt)
	case "float?":
		_, result = args[0].(SexpFloat)
	case "number?":
		switch args[0].(type) {
		case SexpInt, SexpFloat:
			result = true
		}
	case "string?":
		_, result = args[0].(SexpStr)
	case "symbol?":
		_, result = args[0].(SexpSymbol)
	case "bool?":
		_, result = args[0].(SexpBool)
	case "list?":
		switch t := args[0].(type) {
		case *SexpPair:
			result = true
		case SexpSentinel:
			result = t == SexpNull
		}
	case "nil?":
		if t, isSent := args[0].(SexpSentinel); isSent {
			result = t == SexpNull
		}
	case "error?":
		_, result = args[0].(*SexpError)
	case "struct?":
		_, result = args[0].(*SexpStruct)
	case "function?":
		_, result = args[0].(*SexpFunction)
	case "empty?":
		switch t := args[0].(type) {
		case SexpSentinel:
			result = t == SexpNull
		case *SexpPair:
			result = false
		case SexpStr:
			result = len(t) == 0
		default:
			return SexpNull, ErrSignature("list or string", kindName(args[0]))
		}
	}
	return SexpBool(result), nil
}

// CheckSigFunction is the argument-type-checking helper behind code
// 009. The comparison policy is configurable: with TypeCheckStrict a
// struct instance must name its exact struct type; otherwise the
// structural kind ("struct") suffices.
func CheckSigFunction(env *Rlisp, name string, args []Sexp) (Sexp, error) {
	if len(args) != 2 {
		return SexpNull, ErrArity(2, len(args))
	}
	expected, isStr := args[1].(SexpStr)
	if !isStr {
		return SexpNull, ErrSignature("string", kindName(args[1]))
	}

	found := kindName(args[0])
	if env.TypeCheckStrict {
		if st, isStruct := args[0].(*SexpStruct); isStruct {
			found = st.def.name
		}
	}
	if found != string(expected) {
		return SexpNull, ErrSignature(string(expected), found)
	}
	return SexpBool(true), nil
}
