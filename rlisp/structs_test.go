package rlisp

import (
	"fmt"
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test050StructDefineAndAccess(t *testing.T) {

	cv.Convey(`define-struct synthesizes a constructor, a predicate and one accessor per field`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `
(define-struct point [x y])
(define p (make-point 3 4))
(list (point-x p) (point-y p) (is-point? p) (is-point? 5))`),
			cv.ShouldEqual, `(3 4 true false)`)

		cv.So(evalStr(env, `(struct? (make-point 1 2))`), cv.ShouldEqual, `true`)
		cv.So(evalStr(env, `(make-point 1 2)`), cv.ShouldEqual, `(point x: 1 y: 2)`)
	})

	cv.Convey(`The constructor checks its arity`, t, func() {

		env := NewRlisp()
		_, err := env.EvalString(`(define-struct point [x y]) (make-point 1)`)
		cv.So(AsSexpError(err).Code, cv.ShouldEqual, ErrArityMismatch)
	})

	cv.Convey(`A malformed define-struct raises condition 013`, t, func() {

		env := NewRlisp()
		cv.So(evalCode(env, `(define-struct 5 [x])`), cv.ShouldEqual, ErrStructDefine)
		cv.So(evalCode(env, `(define-struct point [1])`), cv.ShouldEqual, ErrStructDefine)
		cv.So(evalCode(env, `(define-struct point)`), cv.ShouldEqual, ErrStructDefine)
	})
}

func Test051StructFieldMisses(t *testing.T) {

	cv.Convey(`Referencing an accessor for a field the struct never declared raises 029, not 001`, t, func() {

		env := NewRlisp()
		cv.So(evalCode(env, `
(define-struct point [x y])
(point-z (make-point 1 2))`), cv.ShouldEqual, ErrStructNoField)
	})

	cv.Convey(`An accessor applied to the wrong struct type also raises 029`, t, func() {

		env := NewRlisp()
		cv.So(evalCode(env, `
(define-struct point [x y])
(define-struct pair2 [a b])
(point-x (make-pair2 1 2))`), cv.ShouldEqual, ErrStructNoField)
	})

	cv.Convey(`An accessor applied to a non-struct raises a signature condition`, t, func() {

		env := NewRlisp()
		cv.So(evalCode(env, `
(define-struct point [x y])
(point-x 5)`), cv.ShouldEqual, ErrSignatureMismatch)
	})
}

func Test052StructRedefinition(t *testing.T) {

	cv.Convey(`Redefining an existing struct replaces its shape without consuming a registry slot`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `
(define-struct point [x y])
(define-struct point [x y z])
(point-z (make-point 1 2 3))`), cv.ShouldEqual, `3`)
		cv.So(env.numStructs, cv.ShouldEqual, 1)
	})
}

func Test053StructRegistryCeiling(t *testing.T) {

	cv.Convey(`Registering more than the registry ceiling of distinct structs raises condition 030`, t, func() {

		env := NewRlisp()
		for i := 0; i < MaxStructDefs; i++ {
			_, err := env.EvalString(fmt.Sprintf(`(define-struct s%d [v])`, i))
			panicOn(err)
		}
		cv.So(evalCode(env, `(define-struct straw [v])`), cv.ShouldEqual, ErrStructOverflow)

		// an existing name still redefines fine at the ceiling
		cv.So(evalStr(env, `(define-struct s0 [v w]) (s0-w (make-s0 1 2))`), cv.ShouldEqual, `2`)
	})
}

func Test054StrictSignatureChecking(t *testing.T) {

	cv.Convey(`With strict checking a struct must match its exact type name in check-sig`, t, func() {

		env := NewRlisp()
		env.TypeCheckStrict = true
		cv.So(evalStr(env, `
(define-struct point [x y])
(check-sig (make-point 1 2) "point")`), cv.ShouldEqual, `true`)
		cv.So(evalCode(env, `(check-sig (make-point 1 2) "struct")`),
			cv.ShouldEqual, ErrSignatureMismatch)
	})

	cv.Convey(`Without strict checking the structural kind suffices`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `
(define-struct point [x y])
(check-sig (make-point 1 2) "struct")`), cv.ShouldEqual, `true`)
	})
}
