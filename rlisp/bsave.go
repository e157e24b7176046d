package rlisp

import (
	"os"

	"github.com/glycerine/greenpack/msgp"
)

// (bsave value path) writes value in a compact binary form.
// (bload path) reads it back into the current session.
//
// Every value is a two-element msgpack array [tag, payload]; lists and
// struct fields nest. Struct instances resolve against the loading
// session's registry by type name.

const (
	btagNil = iota
	btagInt
	btagFloat
	btagStr
	btagBool
	btagSymbol
	btagList
	btagStruct
	btagRaw
	btagError
)

func appendSexp(b []byte, sexp Sexp) ([]byte, error) {
	switch e := sexp.(type) {
	case SexpSentinel:
		if e != SexpNull {
			return b, ErrSignature("serializable value", "end sentinel")
		}
		b = msgp.AppendArrayHeader(b, 2)
		b = msgp.AppendInt64(b, btagNil)
		return msgp.AppendNil(b), nil
	case SexpInt:
		b = msgp.AppendArrayHeader(b, 2)
		b = msgp.AppendInt64(b, btagInt)
		return msgp.AppendInt64(b, int64(e)), nil
	case SexpFloat:
		b = msgp.AppendArrayHeader(b, 2)
		b = msgp.AppendInt64(b, btagFloat)
		return msgp.AppendFloat64(b, float64(e)), nil
	case SexpStr:
		b = msgp.AppendArrayHeader(b, 2)
		b = msgp.AppendInt64(b, btagStr)
		return msgp.AppendString(b, string(e)), nil
	case SexpBool:
		b = msgp.AppendArrayHeader(b, 2)
		b = msgp.AppendInt64(b, btagBool)
		return msgp.AppendBool(b, bool(e)), nil
	case SexpSymbol:
		b = msgp.AppendArrayHeader(b, 2)
		b = msgp.AppendInt64(b, btagSymbol)
		return msgp.AppendString(b, e.name), nil
	case SexpRaw:
		b = msgp.AppendArrayHeader(b, 2)
		b = msgp.AppendInt64(b, btagRaw)
		return msgp.AppendBytes(b, []byte(e)), nil
	case *SexpPair:
		arr, proper := ListToArray(e)
		if !proper {
			return b, ErrSignature("list", "improper list")
		}
		b = msgp.AppendArrayHeader(b, 2)
		b = msgp.AppendInt64(b, btagList)
		b = msgp.AppendArrayHeader(b, uint32(len(arr)))
		var err error
		for _, x := range arr {
			b, err = appendSexp(b, x)
			if err != nil {
				return b, err
			}
		}
		return b, nil
	case *SexpStruct:
		b = msgp.AppendArrayHeader(b, 3)
		b = msgp.AppendInt64(b, btagStruct)
		b = msgp.AppendString(b, e.def.name)
		b = msgp.AppendArrayHeader(b, uint32(len(e.values)))
		var err error
		for _, x := range e.values {
			b, err = appendSexp(b, x)
			if err != nil {
				return b, err
			}
		}
		return b, nil
	case *SexpError:
		b = msgp.AppendArrayHeader(b, 2)
		b = msgp.AppendInt64(b, btagError)
		b = msgp.AppendArrayHeader(b, 3)
		b = msgp.AppendInt64(b, int64(e.Code))
		b = msgp.AppendString(b, e.Description)
		return appendSexp(b, e.Payload)
	}
	return b, ErrSignature("serializable value", kindName(sexp))
}

// The greenpack read helpers live on a NilBitsStack; we never push
// always-nil state, so one zero-value stack serves every decode.
var nbs msgp.NilBitsStack

func readSexp(b []byte, env *Rlisp) (Sexp, []byte, error) {
	badBytes := func(err error) error {
		return ConditionDetail(ErrParseExpression, "bad binary value: %v", err)
	}

	sz, b, err := nbs.ReadArrayHeaderBytes(b)
	if err != nil {
		return SexpNull, b, badBytes(err)
	}
	tag, b, err := nbs.ReadInt64Bytes(b)
	if err != nil {
		return SexpNull, b, badBytes(err)
	}

	switch tag {
	case btagNil:
		b, err = nbs.ReadNilBytes(b)
		return SexpNull, b, err
	case btagInt:
		i, b, err := nbs.ReadInt64Bytes(b)
		return SexpInt(i), b, err
	case btagFloat:
		f, b, err := nbs.ReadFloat64Bytes(b)
		return SexpFloat(f), b, err
	case btagStr:
		s, b, err := nbs.ReadStringBytes(b)
		return SexpStr(s), b, err
	case btagBool:
		v, b, err := nbs.ReadBoolBytes(b)
		return SexpBool(v), b, err
	case btagSymbol:
		s, b, err := nbs.ReadStringBytes(b)
		if err != nil {
			return SexpNull, b, err
		}
		return env.MakeSymbol(s), b, nil
	case btagRaw:
		by, b, err := nbs.ReadBytesBytes(b, nil)
		return SexpRaw(by), b, err
	case btagList:
		n, b, err := nbs.ReadArrayHeaderBytes(b)
		if err != nil {
			return SexpNull, b, badBytes(err)
		}
		arr := make([]Sexp, n)
		for i := range arr {
			arr[i], b, err = readSexp(b, env)
			if err != nil {
				return SexpNull, b, err
			}
		}
		return MakeList(arr), b, nil
	case btagStruct:
		if sz != 3 {
			return SexpNull, b, badBytes(nil)
		}
		name, b, err := nbs.ReadStringBytes(b)
		if err != nil {
			return SexpNull, b, badBytes(err)
		}
		n, b, err := nbs.ReadArrayHeaderBytes(b)
		if err != nil {
			return SexpNull, b, badBytes(err)
		}
		values := make([]Sexp, n)
		for i := range values {
			values[i], b, err = readSexp(b, env)
			if err != nil {
				return SexpNull, b, err
			}
		}
		def, ok := env.StructDef(name)
		if !ok || len(def.fields) != len(values) {
			return SexpNull, b, ConditionDetail(ErrParseExpression,
				"binary value names unregistered struct '%s'", name)
		}
		return &SexpStruct{def: def, values: values}, b, nil
	case btagError:
		_, b, err := nbs.ReadArrayHeaderBytes(b)
		if err != nil {
			return SexpNull, b, badBytes(err)
		}
		code, b, err := nbs.ReadInt64Bytes(b)
		if err != nil {
			return SexpNull, b, badBytes(err)
		}
		desc, b, err := nbs.ReadStringBytes(b)
		if err != nil {
			return SexpNull, b, badBytes(err)
		}
		payload, b, err := readSexp(b, env)
		if err != nil {
			return SexpNull, b, err
		}
		return &SexpError{Code: ErrorCode(code), Description: desc, Payload: payload}, b, nil
	}
	return SexpNull, b, badBytes(nil)
}

func BsaveFunction(env *Rlisp, name string, args []Sexp) (Sexp, error) {
	if len(args) != 2 {
		return SexpNull, ErrArity(2, len(args))
	}
	path, isStr := args[1].(SexpStr)
	if !isStr {
		return SexpNull, ErrSignature("string", kindName(args[1]))
	}

	by, err := appendSexp(nil, args[0])
	if err != nil {
		return SexpNull, err
	}
	if err := os.WriteFile(string(path), by, 0644); err != nil {
		return SexpNull, ConditionDetail(ErrFileRead, "%s", path)
	}
	return SexpNull, nil
}

func BloadFunction(env *Rlisp, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, ErrArity(1, len(args))
	}
	path, isStr := args[0].(SexpStr)
	if !isStr {
		return SexpNull, ErrSignature("string", kindName(args[0]))
	}
	by, err := os.ReadFile(string(path))
	if err != nil {
		return SexpNull, ConditionDetail(ErrFileRead, "%s", path)
	}
	res, _, rerr := readSexp(by, env)
	if rerr != nil {
		return SexpNull, rerr
	}
	return res, nil
}
