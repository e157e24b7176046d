package rlisp

import (
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test080JsonRoundTrip(t *testing.T) {

	cv.Convey(`A list survives the trip through json and back`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `(unjson (json '(1 2 3)))`), cv.ShouldEqual, `(1 2 3)`)
		cv.So(evalStr(env, `(unjson (json '("a" true nil)))`), cv.ShouldEqual, `("a" true nil)`)
		cv.So(evalStr(env, `(type (json '(1)))`), cv.ShouldEqual, `"raw"`)
	})

	cv.Convey(`unjson insists on a raw value`, t, func() {

		env := NewRlisp()
		cv.So(evalCode(env, `(unjson "not raw")`), cv.ShouldEqual, ErrSignatureMismatch)
	})

	cv.Convey(`An improper list cannot be serialized`, t, func() {

		env := NewRlisp()
		cv.So(evalCode(env, `(json (cons 1 2))`), cv.ShouldEqual, ErrSignatureMismatch)
	})
}

func Test081MsgpackRoundTrip(t *testing.T) {

	cv.Convey(`Nested lists survive the trip through msgpack and back`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `(unmsgpack (msgpack '(1 (2 3) "x")))`),
			cv.ShouldEqual, `(1 (2 3) "x")`)
	})
}

func Test082StructsCrossTheCodecBoundary(t *testing.T) {

	cv.Convey(`A struct instance decodes back into an instance when its type is registered`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `
(define-struct point [x y])
(define p2 (unjson (json (make-point 3 4))))
(list (is-point? p2) (point-x p2) (point-y p2))`),
			cv.ShouldEqual, `(true 3 4)`)
	})

	cv.Convey(`Without the registered type, the same bytes decode to a sorted association list`, t, func() {

		producer := NewRlisp()
		_, err := producer.EvalString(`(define-struct point [x y])`)
		panicOn(err)
		raw, err := producer.EvalString(`(json (make-point 3 4))`)
		panicOn(err)

		consumer := NewRlisp()
		res, err := JsonToSexp([]byte(raw.(SexpRaw)), consumer)
		panicOn(err)
		cv.So(res.SexpString(), cv.ShouldEqual, `(("#struct" "point") ("x" 3) ("y" 4))`)
	})
}

func Test083SexpToGoVocabulary(t *testing.T) {

	cv.Convey(`Symbols lower to their names; errors lower to code/description maps`, t, func() {

		v, err := SexpToGo(SexpSymbol{name: "abc", number: 1})
		panicOn(err)
		cv.So(v, cv.ShouldEqual, "abc")

		v, err = SexpToGo(Condition(ErrNoFunction))
		panicOn(err)
		m := v.(map[string]interface{})
		cv.So(m["code"], cv.ShouldEqual, int64(3))
		cv.So(m["description"], cv.ShouldEqual, "no function to call")
	})

	cv.Convey(`Functions have no serialized form`, t, func() {

		env := NewRlisp()
		cv.So(evalCode(env, `(json head)`), cv.ShouldEqual, ErrSignatureMismatch)
	})
}
