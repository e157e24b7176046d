package rlisp

import (
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test040TemplateMacros(t *testing.T) {

	cv.Convey(`A template macro splices the literal call-site terms into its quasiquoted body`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `
(define-macro (twice e) ^(begin ~e ~e))
(define n 0)
(twice (set! n {n + 1}))
n`), cv.ShouldEqual, `2`)
	})

	cv.Convey(`The terms arrive unevaluated, so a macro can skip evaluating an arm entirely`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `
(define-macro (my-if c a b) ^(cond [~c ~a] [else ~b]))
(my-if true "yes" (head '()))`), cv.ShouldEqual, `"yes"`)
	})

	cv.Convey(`Calling a macro with the wrong term count raises condition 004`, t, func() {

		env := NewRlisp()
		_, err := env.EvalString(`(define-macro (two a b) ^(list ~a ~b)) (two 1)`)
		cv.So(AsSexpError(err).Code, cv.ShouldEqual, ErrArityMismatch)
	})
}

func Test041RuleMacros(t *testing.T) {

	cv.Convey(`A rule macro substitutes pattern symbols positionally throughout its template`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `
(define-macro-rule (unless-zero n e) (cond [{n == 0} nil] [else e]))
(unless-zero 3 "ran")`), cv.ShouldEqual, `"ran"`)
	})
}

func Test042ExpansionIsNotHygienic(t *testing.T) {

	cv.Convey(`Macro-introduced bindings can capture call-site names; swap! depends on exactly that`, t, func() {

		env := NewRlisp()
		env.StandardSetup()
		cv.So(evalStr(env, `
(define a 1)
(define b 2)
(swap! a b)
(list a b)`), cv.ShouldEqual, `(2 1)`)
	})
}

func Test043StandardMacros(t *testing.T) {

	cv.Convey(`The bootstrap when/unless macros only evaluate their body on the right branch`, t, func() {

		env := NewRlisp()
		env.StandardSetup()
		cv.So(evalStr(env, `(when true 5)`), cv.ShouldEqual, `5`)
		cv.So(evalStr(env, `(when false 5)`), cv.ShouldEqual, `nil`)
		cv.So(evalStr(env, `(unless false 5)`), cv.ShouldEqual, `5`)
		cv.So(evalStr(env, `(unless true (head '()))`), cv.ShouldEqual, `nil`)
	})
}
