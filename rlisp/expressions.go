package rlisp

import (
	"strconv"
)

// Sexp is the universal term/value representation. Parsed source and
// computed results share it; the evaluator consumes and produces it.
type Sexp interface {
	SexpString() string
}

type SexpSentinel int

const (
	SexpNull SexpSentinel = iota
	SexpEnd
)

func (sent SexpSentinel) SexpString() string {
	if sent == SexpNull {
		return "nil"
	}
	if sent == SexpEnd {
		return "End"
	}
	return ""
}

type SexpInt int64
type SexpFloat float64
type SexpBool bool
type SexpStr string
type SexpRaw []byte

func (i SexpInt) SexpString() string {
	return strconv.FormatInt(int64(i), 10)
}

func (f SexpFloat) SexpString() string {
	return strconv.FormatFloat(float64(f), 'g', -1, 64)
}

func (b SexpBool) SexpString() string {
	if b {
		return "true"
	}
	return "false"
}

func (s SexpStr) SexpString() string {
	return strconv.Quote(string(s))
}

func (r SexpRaw) SexpString() string {
	return "raw[" + strconv.Itoa(len(r)) + "]"
}

// SexpSymbol is interned: symbols with the same name inside one session
// share a number, so scope maps can key on ints.
type SexpSymbol struct {
	name   string
	number int
}

func (sym SexpSymbol) SexpString() string {
	return sym.name
}

func (sym SexpSymbol) Name() string {
	return sym.name
}

func (sym SexpSymbol) Number() int {
	return sym.number
}

// SexpPair is a cons cell. Proper lists are right-nested pairs ending
// in SexpNull.
type SexpPair struct {
	Head Sexp
	Tail Sexp
}

func Cons(a Sexp, b Sexp) *SexpPair {
	return &SexpPair{Head: a, Tail: b}
}

func (pair *SexpPair) SexpString() string {
	str := "("

	for {
		switch t := pair.Tail.(type) {
		case *SexpPair:
			str += pair.Head.SexpString() + " "
			pair = t
			continue
		}
		break
	}

	str += pair.Head.SexpString()

	if pair.Tail == SexpNull {
		str += ")"
	} else {
		str += " . " + pair.Tail.SexpString() + ")"
	}

	return str
}

// MakeList turns a slice into a right-nested pair chain.
func MakeList(expressions []Sexp) Sexp {
	if len(expressions) == 0 {
		return SexpNull
	}

	return Cons(expressions[0], MakeList(expressions[1:]))
}

// ListToArray flattens a proper list. Returns false if the chain does
// not terminate in SexpNull.
func ListToArray(expr Sexp) ([]Sexp, bool) {
	arr := make([]Sexp, 0, SliceDefaultCap)
	for {
		switch e := expr.(type) {
		case SexpSentinel:
			if e == SexpNull {
				return arr, true
			}
			return arr, false
		case *SexpPair:
			arr = append(arr, e.Head)
			expr = e.Tail
		default:
			return arr, false
		}
	}
}

func ListLen(expr Sexp) int {
	n := 0
	for {
		pair, ok := expr.(*SexpPair)
		if !ok {
			return n
		}
		n++
		expr = pair.Tail
	}
}

// RlispUserFunction is the Go signature for builtin primitives.
type RlispUserFunction func(env *Rlisp, name string, args []Sexp) (Sexp, error)

// SexpFunction covers both builtins (user == true, userfun set) and
// closures (args/body/closeScope set). A closure keeps a live pointer
// to the scope it closed over; sibling closures may share one parent
// frame, so the captured graph is a DAG handled by the Go collector.
type SexpFunction struct {
	name       string
	user       bool
	nargs      int
	varargs    bool
	userfun    RlispUserFunction
	args       []SexpSymbol
	body       Sexp
	closeScope *Scope
	orig       Sexp
}

func MakeUserFunction(name string, ufun RlispUserFunction) *SexpFunction {
	return &SexpFunction{
		name:    name,
		user:    true,
		userfun: ufun,
	}
}

func (sf *SexpFunction) SexpString() string {
	if sf.orig == nil {
		return "fn [" + sf.name + "]"
	}
	return sf.orig.SexpString()
}

// MacroKind distinguishes the two transformer families; expansion is
// non-hygienic in both.
type MacroKind int

const (
	MacroTemplate MacroKind = iota
	MacroRule
)

// SexpMacro rewrites call-site terms before evaluation. Template
// macros substitute unquote holes in a quasiquoted body; rule macros
// substitute pattern symbols positionally throughout the template.
type SexpMacro struct {
	name     string
	kind     MacroKind
	params   []SexpSymbol
	template Sexp
}

func (m *SexpMacro) SexpString() string {
	return "macro [" + m.name + "]"
}

// SexpStructDef is a registered record shape.
type SexpStructDef struct {
	name   string
	fields []SexpSymbol
}

func (sd *SexpStructDef) SexpString() string {
	str := "(struct " + sd.name + " ["
	for i, f := range sd.fields {
		if i > 0 {
			str += " "
		}
		str += f.name
	}
	return str + "])"
}

func (sd *SexpStructDef) Name() string { return sd.name }

// SexpStruct is an instance; values are positional and always exactly
// as long as the definition's field list.
type SexpStruct struct {
	def    *SexpStructDef
	values []Sexp
}

func (st *SexpStruct) SexpString() string {
	str := "(" + st.def.name
	for i, f := range st.def.fields {
		str += " " + f.name + ": " + st.values[i].SexpString()
	}
	return str + ")"
}

func IsTruthy(expr Sexp) bool {
	switch e := expr.(type) {
	case SexpBool:
		return bool(e)
	case SexpSentinel:
		return e != SexpNull
	}
	return true
}
