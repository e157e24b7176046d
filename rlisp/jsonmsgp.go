package rlisp

import (
	"fmt"
	"sort"

	"github.com/shurcooL/go-goon"
	"github.com/ugorji/go/codec"
)

/*
 Conversion map

 lisp value <--(1)--> Go interface{} tree <--(2)--> json / msgpack

(1) SexpToGo() / GoToSexp(), herein.
(2) ugorji/go/codec with JsonHandle / MsgpackHandle.

 Struct instances cross as maps carrying their type name under
 structTagKey; GoToSexp() rebuilds an instance when the named type is
 registered in the decoding session and the field sets line up.
*/

const structTagKey = "#struct"

var jsonHandle codec.JsonHandle
var msgpackHandle codec.MsgpackHandle

func JsonFunction(env *Rlisp, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, ErrArity(1, len(args))
	}

	switch name {
	case "json":
		by, err := SexpToJson(args[0])
		if err != nil {
			return SexpNull, err
		}
		return SexpRaw(by), nil
	case "unjson":
		raw, isRaw := args[0].(SexpRaw)
		if !isRaw {
			return SexpNull, ErrSignature("raw", kindName(args[0]))
		}
		return JsonToSexp([]byte(raw), env)
	case "msgpack":
		by, err := SexpToMsgpack(args[0])
		if err != nil {
			return SexpNull, err
		}
		return SexpRaw(by), nil
	case "unmsgpack":
		raw, isRaw := args[0].(SexpRaw)
		if !isRaw {
			return SexpNull, ErrSignature("raw", kindName(args[0]))
		}
		return MsgpackToSexp([]byte(raw), env)
	}
	return SexpNull, ConditionDetail(ErrParseExpression, "unrecognized function '%s'", name)
}

// SexpToGo lowers a value to the interface{} vocabulary codec
// understands.
func SexpToGo(sexp Sexp) (interface{}, error) {
	switch e := sexp.(type) {
	case SexpInt:
		return int64(e), nil
	case SexpFloat:
		return float64(e), nil
	case SexpStr:
		return string(e), nil
	case SexpBool:
		return bool(e), nil
	case SexpSymbol:
		return e.name, nil
	case SexpRaw:
		return []byte(e), nil
	case SexpSentinel:
		if e == SexpNull {
			return nil, nil
		}
	case *SexpPair:
		arr, proper := ListToArray(e)
		if !proper {
			return nil, ErrSignature("list", "improper list")
		}
		out := make([]interface{}, len(arr))
		for i, x := range arr {
			conv, err := SexpToGo(x)
			if err != nil {
				return nil, err
			}
			out[i] = conv
		}
		return out, nil
	case *SexpStruct:
		m := make(map[string]interface{}, len(e.def.fields)+1)
		m[structTagKey] = e.def.name
		for i, f := range e.def.fields {
			conv, err := SexpToGo(e.values[i])
			if err != nil {
				return nil, err
			}
			m[f.name] = conv
		}
		return m, nil
	case *SexpError:
		return map[string]interface{}{
			"code":        int64(e.Code),
			"description": e.Description,
		}, nil
	}
	return nil, ErrSignature("serializable value", kindName(sexp))
}

// GoToSexp raises a decoded interface{} tree back to values. Maps
// tagged with a registered struct type become instances; other maps
// become association lists sorted by key for stable output.
func GoToSexp(v interface{}, env *Rlisp) (Sexp, error) {
	switch t := v.(type) {
	case nil:
		return SexpNull, nil
	case bool:
		return SexpBool(t), nil
	case int64:
		return SexpInt(t), nil
	case uint64:
		return SexpInt(int64(t)), nil
	case float64:
		return SexpFloat(t), nil
	case string:
		return SexpStr(t), nil
	case []byte:
		return SexpStr(t), nil
	case []interface{}:
		arr := make([]Sexp, len(t))
		for i, x := range t {
			conv, err := GoToSexp(x, env)
			if err != nil {
				return SexpNull, err
			}
			arr[i] = conv
		}
		return MakeList(arr), nil
	case map[string]interface{}:
		return goMapToSexp(t, env)
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, x := range t {
			m[fmt.Sprintf("%v", k)] = x
		}
		return goMapToSexp(m, env)
	}
	return SexpNull, ErrSignature("decodable value", fmt.Sprintf("%T", v))
}

func goMapToSexp(m map[string]interface{}, env *Rlisp) (Sexp, error) {
	if tag, tagged := m[structTagKey].(string); tagged {
		if def, ok := env.StructDef(tag); ok {
			values := make([]Sexp, len(def.fields))
			complete := true
			for i, f := range def.fields {
				raw, present := m[f.name]
				if !present {
					complete = false
					break
				}
				conv, err := GoToSexp(raw, env)
				if err != nil {
					return SexpNull, err
				}
				values[i] = conv
			}
			if complete {
				return &SexpStruct{def: def, values: values}, nil
			}
		}
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]Sexp, 0, len(m))
	for _, k := range keys {
		val, err := GoToSexp(m[k], env)
		if err != nil {
			return SexpNull, err
		}
		pairs = append(pairs, MakeList([]Sexp{SexpStr(k), val}))
	}
	return MakeList(pairs), nil
}

func SexpToJson(sexp Sexp) ([]byte, error) {
	v, err := SexpToGo(sexp)
	if err != nil {
		return nil, err
	}
	var out []byte
	enc := codec.NewEncoderBytes(&out, &jsonHandle)
	if err := enc.Encode(v); err != nil {
		return nil, ConditionDetail(ErrParseExpression, "json encode: %v", err)
	}
	return out, nil
}

func JsonToSexp(json []byte, env *Rlisp) (Sexp, error) {
	var v interface{}
	dec := codec.NewDecoderBytes(json, &jsonHandle)
	if err := dec.Decode(&v); err != nil {
		return SexpNull, ConditionDetail(ErrParseExpression, "json decode: %v", err)
	}
	return GoToSexp(v, env)
}

func SexpToMsgpack(sexp Sexp) ([]byte, error) {
	v, err := SexpToGo(sexp)
	if err != nil {
		return nil, err
	}
	var out []byte
	enc := codec.NewEncoderBytes(&out, &msgpackHandle)
	if err := enc.Encode(v); err != nil {
		return nil, ConditionDetail(ErrParseExpression, "msgpack encode: %v", err)
	}
	return out, nil
}

func MsgpackToSexp(raw []byte, env *Rlisp) (Sexp, error) {
	var v interface{}
	dec := codec.NewDecoderBytes(raw, &msgpackHandle)
	if err := dec.Decode(&v); err != nil {
		return SexpNull, ConditionDetail(ErrParseExpression, "msgpack decode: %v", err)
	}
	return GoToSexp(v, env)
}

func GoonDumpFunction(env *Rlisp, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, ErrArity(1, len(args))
	}
	fmt.Printf("\n")
	goon.Dump(args[0])
	return SexpNull, nil
}
