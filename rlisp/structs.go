package rlisp

import (
	"strings"
)

// MaxStructDefs bounds the struct registry. The ceiling is a
// deliberate resource limit: registering past it raises code 030
// rather than growing without bound.
const MaxStructDefs = 1024

// DefineStructForm handles (define-struct name [field...]): registers
// the shape and synthesizes make-<name>, is-<name>? and one
// <name>-<field> accessor per field in the global scope.
func (env *Rlisp) DefineStructForm(arr []Sexp, scope *Scope) (Sexp, error) {
	if len(arr) != 3 {
		return SexpNull, Condition(ErrStructDefine)
	}
	name, isSym := arr[1].(SexpSymbol)
	if !isSym {
		return SexpNull, Condition(ErrStructDefine)
	}

	var fieldTerms []Sexp
	switch f := arr[2].(type) {
	case SexpSentinel:
		if f != SexpNull {
			return SexpNull, Condition(ErrStructDefine)
		}
	case *SexpPair:
		var proper bool
		fieldTerms, proper = ListToArray(f)
		if !proper {
			return SexpNull, Condition(ErrStructDefine)
		}
	default:
		return SexpNull, Condition(ErrStructDefine)
	}

	fields := make([]SexpSymbol, len(fieldTerms))
	for i, ft := range fieldTerms {
		sym, isSym := ft.(SexpSymbol)
		if !isSym {
			return SexpNull, Condition(ErrStructDefine)
		}
		fields[i] = sym
	}

	if _, exists := env.structDefs[name.number]; !exists {
		if env.numStructs >= MaxStructDefs {
			return SexpNull, Condition(ErrStructOverflow)
		}
		env.numStructs++
	}

	def := &SexpStructDef{name: name.name, fields: fields}
	env.structDefs[name.number] = def

	global := env.global
	global.bind(env.MakeSymbol("make-"+name.name),
		MakeUserFunction("make-"+name.name, structConstructor(def)))
	global.bind(env.MakeSymbol("is-"+name.name+"?"),
		MakeUserFunction("is-"+name.name+"?", structPredicate(def)))
	for i, f := range fields {
		accname := name.name + "-" + f.name
		global.bind(env.MakeSymbol(accname),
			MakeUserFunction(accname, structAccessor(def, i)))
	}

	return SexpNull, nil
}

func structConstructor(def *SexpStructDef) RlispUserFunction {
	return func(env *Rlisp, name string, args []Sexp) (Sexp, error) {
		if len(args) != len(def.fields) {
			return SexpNull, ErrArity(len(def.fields), len(args))
		}
		values := make([]Sexp, len(args))
		copy(values, args)
		return &SexpStruct{def: def, values: values}, nil
	}
}

func structPredicate(def *SexpStructDef) RlispUserFunction {
	return func(env *Rlisp, name string, args []Sexp) (Sexp, error) {
		if len(args) != 1 {
			return SexpNull, ErrArity(1, len(args))
		}
		st, isStruct := args[0].(*SexpStruct)
		return SexpBool(isStruct && st.def == def), nil
	}
}

func structAccessor(def *SexpStructDef, idx int) RlispUserFunction {
	return func(env *Rlisp, name string, args []Sexp) (Sexp, error) {
		if len(args) != 1 {
			return SexpNull, ErrArity(1, len(args))
		}
		st, isStruct := args[0].(*SexpStruct)
		if !isStruct {
			return SexpNull, ErrSignature(def.name, kindName(args[0]))
		}
		if st.def != def {
			return SexpNull, Condition(ErrStructNoField)
		}
		return st.values[idx], nil
	}
}

// StructDef exposes a registered shape by name.
func (env *Rlisp) StructDef(name string) (*SexpStructDef, bool) {
	def, ok := env.structDefs[env.MakeSymbol(name).number]
	return def, ok
}

// isStructFieldMiss reports whether an unresolved identifier looks
// like an accessor for a registered struct with a field that was never
// declared; those resolve to code 029 instead of 001.
func (env *Rlisp) isStructFieldMiss(name string) bool {
	for _, def := range env.structDefs {
		if strings.HasPrefix(name, def.name+"-") {
			return true
		}
	}
	return false
}
