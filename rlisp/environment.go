package rlisp

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Rlisp is one interpreter session: symbol table, global scope,
// builtins, the struct registry and the I/O endpoints. It is not safe
// for concurrent use from multiple goroutines; evaluation is
// single-threaded by design.
type Rlisp struct {
	symtable    map[string]int
	revsymtable map[int]string
	nextsymbol  int

	global   *Scope
	reserved map[int]bool

	structDefs map[int]*SexpStructDef
	numStructs int

	in  *bufio.Reader
	out *bufio.Writer

	// TypeCheckStrict selects nominal struct-type comparison in
	// check-sig; structural kind names otherwise.
	TypeCheckStrict bool
}

func NewRlisp() *Rlisp {
	env := &Rlisp{
		symtable:    make(map[string]int),
		revsymtable: make(map[int]string),
		nextsymbol:  1,
		reserved:    make(map[int]bool),
		structDefs:  make(map[int]*SexpStructDef),
		in:          bufio.NewReader(os.Stdin),
		out:         bufio.NewWriter(os.Stdout),
	}
	env.global = env.NewScope(nil, "global")

	for key, function := range BuiltinFunctions {
		sym := env.MakeSymbol(key)
		env.global.bind(sym, MakeUserFunction(key, function))
		env.reserved[sym.number] = true
	}
	for _, key := range specialFormNames {
		env.reserved[env.MakeSymbol(key).number] = true
	}

	return env
}

// SetReader redirects read-line; used by tests and embedders.
func (env *Rlisp) SetReader(r io.Reader) {
	env.in = bufio.NewReader(r)
}

// SetWriter redirects the print family.
func (env *Rlisp) SetWriter(w io.Writer) {
	env.out = bufio.NewWriter(w)
}

func (env *Rlisp) GlobalScope() *Scope {
	return env.global
}

func (env *Rlisp) MakeSymbol(name string) SexpSymbol {
	symnum, ok := env.symtable[name]
	if ok {
		return SexpSymbol{name: name, number: symnum}
	}
	symbol := SexpSymbol{name: name, number: env.nextsymbol}
	env.symtable[name] = symbol.number
	env.revsymtable[symbol.number] = name
	env.nextsymbol++
	return symbol
}

func (env *Rlisp) GenSymbol(prefix string) SexpSymbol {
	symname := prefix + strconv.Itoa(env.nextsymbol)
	return env.MakeSymbol(symname)
}

// ParseString reads every top-level form in str.
func (env *Rlisp) ParseString(str string) ([]Sexp, error) {
	return env.ParseStream(NewLexerFromString(str))
}

// EvalString parses and evaluates every form in str against the global
// scope, returning the value of the last form.
func (env *Rlisp) EvalString(str string) (Sexp, error) {
	exprs, err := env.ParseString(str)
	if err != nil {
		return SexpNull, err
	}

	result := Sexp(SexpNull)
	for _, expr := range exprs {
		result, err = env.Eval(expr, env.global)
		if err != nil {
			return SexpNull, err
		}
	}
	return result, nil
}

// LoadStream evaluates a whole stream of forms; parse failures abort.
func (env *Rlisp) LoadStream(stream io.RuneScanner) (Sexp, error) {
	exprs, err := env.ParseStream(NewLexer(stream))
	if err != nil {
		return SexpNull, err
	}

	result := Sexp(SexpNull)
	for _, expr := range exprs {
		result, err = env.Eval(expr, env.global)
		if err != nil {
			return SexpNull, err
		}
	}
	return result, nil
}

// SourceFile reads and evaluates a file of forms in this session; the
// import special form and the repl both land here.
func (env *Rlisp) SourceFile(path string) (Sexp, error) {
	file, err := os.Open(path)
	if err != nil {
		return SexpNull, ConditionDetail(ErrFileRead, "%s", path)
	}
	defer file.Close()

	res, err := env.LoadStream(bufio.NewReader(file))
	if err != nil {
		return SexpNull, err
	}
	return res, nil
}

// FindObject looks a name up in the global scope.
func (env *Rlisp) FindObject(name string) (Sexp, bool) {
	sym := env.MakeSymbol(name)
	obj, err := env.global.LookupSymbol(sym)
	if err != nil {
		return SexpNull, false
	}
	return obj, true
}

// DumpEnvironment prints the global frame, sorted; the repl's `dump`
// command with no argument.
func (env *Rlisp) DumpEnvironment() {
	fmt.Print(env.global.Show())
}

func (env *Rlisp) flush() error {
	if err := env.out.Flush(); err != nil {
		return Condition(ErrStdoutFlush)
	}
	return nil
}

// StandardSetup installs the bootstrap macros every session gets.
// They are ordinary language-level definitions, kept textual so the
// prelude exercises the same parser and macro machinery users do.
func (env *Rlisp) StandardSetup() {
	swapMacro := `(define-macro-rule (swap! a b)
  (let [[tmp a]]
    (begin (set! a b) (set! b tmp))))`
	_, err := env.EvalString(swapMacro)
	panicOn(err)

	unlessMacro := `(define-macro (unless c body)
  ^(cond [~c nil] [else ~body]))`
	_, err = env.EvalString(unlessMacro)
	panicOn(err)

	whenMacro := `(define-macro (when c body)
  ^(cond [~c ~body]))`
	_, err = env.EvalString(whenMacro)
	panicOn(err)
}

func panicOn(err error) {
	if err != nil {
		panic(err)
	}
}

// Version of the interpreter library.
func Version() string {
	return "1.0.0"
}

// stringify renders a value for str/print: strings unquoted, all else
// in display form.
func stringify(expr Sexp) string {
	switch e := expr.(type) {
	case SexpStr:
		return string(e)
	case SexpSentinel:
		if e == SexpNull {
			return "nil"
		}
	}
	return expr.SexpString()
}

func stringifyAll(args []Sexp) string {
	var sb strings.Builder
	for _, a := range args {
		sb.WriteString(stringify(a))
	}
	return sb.String()
}
