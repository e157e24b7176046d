package rlisp

import (
	"fmt"
	"os"
)

func CompareFunction(env *Rlisp, name string, args []Sexp) (Sexp, error) {
	if len(args) != 2 {
		return SexpNull, ErrArity(2, len(args))
	}

	res, err := Compare(args[0], args[1])
	if err != nil {
		return SexpNull, err
	}

	cond := false
	switch name {
	case "<":
		cond = res < 0
	case ">":
		cond = res > 0
	case "<=":
		cond = res <= 0
	case ">=":
		cond = res >= 0
	case "==":
		cond = res == 0
	case "!=":
		cond = res != 0
	}

	return SexpBool(cond), nil
}

func NumericFunction(env *Rlisp, name string, args []Sexp) (Sexp, error) {
	if len(args) < 1 {
		return SexpNull, ErrArity(1, len(args))
	}

	var op NumericOp
	switch name {
	case "+":
		op = Add
	case "-":
		op = Sub
	case "*":
		op = Mult
	case "/":
		op = Div
	case "**":
		op = Pow
	case "mod":
		op = Modulo
	}

	if len(args) == 1 && name == "-" {
		return NumericDo(Sub, SexpInt(0), args[0])
	}

	accum := args[0]
	var err error
	for _, expr := range args[1:] {
		accum, err = NumericDo(op, accum, expr)
		if err != nil {
			return SexpNull, err
		}
	}
	return accum, nil
}

func ConsFunction(env *Rlisp, name string, args []Sexp) (Sexp, error) {
	if len(args) != 2 {
		return SexpNull, ErrArity(2, len(args))
	}
	return Cons(args[0], args[1]), nil
}

func HeadFunction(env *Rlisp, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, ErrArity(1, len(args))
	}
	switch t := args[0].(type) {
	case *SexpPair:
		return t.Head, nil
	case SexpSentinel:
		if t == SexpNull {
			return SexpNull, Condition(ErrHeadEmptyList)
		}
	}
	return SexpNull, ErrSignature("list", kindName(args[0]))
}

func TailFunction(env *Rlisp, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, ErrArity(1, len(args))
	}
	switch t := args[0].(type) {
	case *SexpPair:
		return t.Tail, nil
	case SexpSentinel:
		if t == SexpNull {
			return SexpNull, Condition(ErrTailEmptyList)
		}
	}
	return SexpNull, ErrSignature("list", kindName(args[0]))
}

func ConstructorFunction(env *Rlisp, name string, args []Sexp) (Sexp, error) {
	switch name {
	case "list":
		return MakeList(args), nil
	}
	return SexpNull, ConditionDetail(ErrParseExpression, "invalid constructor")
}

func LenFunction(env *Rlisp, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, ErrArity(1, len(args))
	}
	switch t := args[0].(type) {
	case SexpSentinel:
		if t == SexpNull {
			return SexpInt(0), nil
		}
	case *SexpPair:
		return SexpInt(ListLen(t)), nil
	case SexpStr:
		return SexpInt(len(t)), nil
	}
	return SexpNull, ErrSignature("list or string", kindName(args[0]))
}

func AppendFunction(env *Rlisp, name string, args []Sexp) (Sexp, error) {
	if len(args) != 2 {
		return SexpNull, ErrArity(2, len(args))
	}
	arr, proper := ListToArray(args[0])
	if !proper {
		return SexpNull, ErrSignature("list", kindName(args[0]))
	}
	return MakeList(append(arr, args[1])), nil
}

func ConcatFunction(env *Rlisp, name string, args []Sexp) (Sexp, error) {
	joined := make([]Sexp, 0, SliceDefaultCap)
	for _, a := range args {
		arr, proper := ListToArray(a)
		if !proper {
			return SexpNull, ErrSignature("list", kindName(a))
		}
		joined = append(joined, arr...)
	}
	return MakeList(joined), nil
}

func NotFunction(env *Rlisp, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, ErrArity(1, len(args))
	}
	b, isBool := args[0].(SexpBool)
	if !isBool {
		return SexpNull, ErrSignature("bool", kindName(args[0]))
	}
	return SexpBool(!b), nil
}

// PrintFunction writes then flushes explicitly, so a broken sink is a
// numbered condition instead of silent loss.
func PrintFunction(env *Rlisp, name string, args []Sexp) (Sexp, error) {
	switch name {
	case "println":
		fmt.Fprintln(env.out, stringifyAll(args))
	case "print":
		fmt.Fprint(env.out, stringifyAll(args))
	case "printf":
		if len(args) < 1 {
			return SexpNull, ErrArity(1, len(args))
		}
		format, isStr := args[0].(SexpStr)
		if !isStr {
			return SexpNull, ErrSignature("string", kindName(args[0]))
		}
		rest := make([]interface{}, len(args)-1)
		for i, a := range args[1:] {
			rest[i] = stringify(a)
		}
		fmt.Fprintf(env.out, string(format), rest...)
	}
	if err := env.flush(); err != nil {
		return SexpNull, err
	}
	return SexpNull, nil
}

func StringifyFunction(env *Rlisp, name string, args []Sexp) (Sexp, error) {
	return SexpStr(stringifyAll(args)), nil
}

func ReadLineFunction(env *Rlisp, name string, args []Sexp) (Sexp, error) {
	if len(args) != 0 {
		return SexpNull, ErrArity(0, len(args))
	}
	line, err := env.in.ReadString('\n')
	if err != nil && len(line) == 0 {
		return SexpNull, Condition(ErrStdinRead)
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return SexpStr(line), nil
}

func ReadFileFunction(env *Rlisp, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, ErrArity(1, len(args))
	}
	path, isStr := args[0].(SexpStr)
	if !isStr {
		return SexpNull, ErrSignature("string", kindName(args[0]))
	}
	data, err := os.ReadFile(string(path))
	if err != nil {
		return SexpNull, ConditionDetail(ErrFileRead, "%s", path)
	}
	return SexpStr(data), nil
}

func ApplyFunction(env *Rlisp, name string, args []Sexp) (Sexp, error) {
	if len(args) != 2 {
		return SexpNull, ErrArity(2, len(args))
	}
	fun, isFun := args[0].(*SexpFunction)
	if !isFun {
		return SexpNull, Condition(ErrNotCallable)
	}
	funargs, proper := ListToArray(args[1])
	if !proper {
		return SexpNull, ErrSignature("list", kindName(args[1]))
	}
	return env.Apply(fun, funargs)
}

// MakeErrorFunction builds a condition value: (make-error code
// description payload). The payload is optional.
func MakeErrorFunction(env *Rlisp, name string, args []Sexp) (Sexp, error) {
	if len(args) != 2 && len(args) != 3 {
		return SexpNull, ErrArity(2, len(args))
	}
	code, isInt := args[0].(SexpInt)
	if !isInt {
		return SexpNull, ErrSignature("int", kindName(args[0]))
	}
	desc, isStr := args[1].(SexpStr)
	if !isStr {
		return SexpNull, ErrSignature("string", kindName(args[1]))
	}
	payload := Sexp(SexpNull)
	if len(args) == 3 {
		payload = args[2]
	}
	return &SexpError{Code: ErrorCode(code), Description: string(desc), Payload: payload}, nil
}

func ErrorAccessFunction(env *Rlisp, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, ErrArity(1, len(args))
	}
	serr, isErr := args[0].(*SexpError)
	if !isErr {
		return SexpNull, ErrSignature("error", kindName(args[0]))
	}
	switch name {
	case "error-code":
		return SexpInt(serr.Code), nil
	case "error-description":
		return SexpStr(serr.Description), nil
	case "error-payload":
		return serr.Payload, nil
	}
	return SexpNull, ConditionDetail(ErrParseExpression, "unknown error accessor")
}

// RaiseFunction turns a condition value into an evaluator failure, so
// library code can signal the same way the core does.
func RaiseFunction(env *Rlisp, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, ErrArity(1, len(args))
	}
	serr, isErr := args[0].(*SexpError)
	if !isErr {
		return SexpNull, ErrSignature("error", kindName(args[0]))
	}
	return SexpNull, serr
}

func GensymFunction(env *Rlisp, name string, args []Sexp) (Sexp, error) {
	if len(args) != 0 {
		return SexpNull, ErrArity(0, len(args))
	}
	return env.GenSymbol("__gensym"), nil
}

func ExitFunction(env *Rlisp, name string, args []Sexp) (Sexp, error) {
	code := 0
	if len(args) > 1 {
		return SexpNull, ErrArity(1, len(args))
	}
	if len(args) == 1 {
		i, isInt := args[0].(SexpInt)
		if !isInt {
			return SexpNull, ErrSignature("int", kindName(args[0]))
		}
		code = int(i)
	}
	env.out.Flush()
	os.Exit(code)
	return SexpNull, nil
}

var BuiltinFunctions = map[string]RlispUserFunction{
	"<":                 CompareFunction,
	">":                 CompareFunction,
	"<=":                CompareFunction,
	">=":                CompareFunction,
	"==":                CompareFunction,
	"!=":                CompareFunction,
	"+":                 NumericFunction,
	"-":                 NumericFunction,
	"*":                 NumericFunction,
	"**":                NumericFunction,
	"/":                 NumericFunction,
	"mod":               NumericFunction,
	"cons":              ConsFunction,
	"head":              HeadFunction,
	"tail":              TailFunction,
	"car":               HeadFunction,
	"cdr":               TailFunction,
	"list":              ConstructorFunction,
	"len":               LenFunction,
	"append":            AppendFunction,
	"concat":            ConcatFunction,
	"not":               NotFunction,
	"println":           PrintFunction,
	"print":             PrintFunction,
	"printf":            PrintFunction,
	"str":               StringifyFunction,
	"read-line":         ReadLineFunction,
	"read-file":         ReadFileFunction,
	"apply":             ApplyFunction,
	"make-error":        MakeErrorFunction,
	"error-code":        ErrorAccessFunction,
	"error-description": ErrorAccessFunction,
	"error-payload":     ErrorAccessFunction,
	"raise":             RaiseFunction,
	"gensym":            GensymFunction,
	"exit":              ExitFunction,
	"type":              TypeQueryFunction,
	"int?":              TypeQueryFunction,
	"float?":            TypeQueryFunction,
	"number?":           TypeQueryFunction,
	"string?":           TypeQueryFunction,
	"symbol?":           TypeQueryFunction,
	"bool?":             TypeQueryFunction,
	"list?":             TypeQueryFunction,
	"nil?":              TypeQueryFunction,
	"error?":            TypeQueryFunction,
	"struct?":           TypeQueryFunction,
	"function?":         TypeQueryFunction,
	"empty?":            TypeQueryFunction,
	"check-sig":         CheckSigFunction,
	"json":              JsonFunction,
	"unjson":            JsonFunction,
	"msgpack":           JsonFunction,
	"unmsgpack":         JsonFunction,
	"dump":              GoonDumpFunction,
	"bsave":             BsaveFunction,
	"bload":             BloadFunction,
	"hash64":            Hash64Function,
}
