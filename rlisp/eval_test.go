package rlisp

import (
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func evalStr(env *Rlisp, src string) string {
	res, err := env.EvalString(src)
	panicOn(err)
	return res.SexpString()
}

func evalCode(env *Rlisp, src string) ErrorCode {
	_, err := env.EvalString(src)
	if err == nil {
		panic("expected a condition from: " + src)
	}
	return AsSexpError(err).Code
}

func Test020EvalLiteralsAndDefines(t *testing.T) {

	cv.Convey(`Given literals, eval should be identity; given defines, the symbol should resolve afterwards`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `42`), cv.ShouldEqual, `42`)
		cv.So(evalStr(env, `3.5`), cv.ShouldEqual, `3.5`)
		cv.So(evalStr(env, `true`), cv.ShouldEqual, `true`)
		cv.So(evalStr(env, `"hi"`), cv.ShouldEqual, `"hi"`)
		cv.So(evalStr(env, `nil`), cv.ShouldEqual, `nil`)

		cv.So(evalStr(env, `(define x 7) x`), cv.ShouldEqual, `7`)
		cv.So(evalStr(env, `(define x 8) x`), cv.ShouldEqual, `8`)
	})
}

func Test021EvalArithmeticTower(t *testing.T) {

	cv.Convey(`Given mixed int/float arithmetic, ints should promote and inexact division should give a float`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `{1 + 2 + 3}`), cv.ShouldEqual, `6`)
		cv.So(evalStr(env, `{1 + 2.5}`), cv.ShouldEqual, `3.5`)
		cv.So(evalStr(env, `{7 / 2}`), cv.ShouldEqual, `3.5`)
		cv.So(evalStr(env, `{8 / 2}`), cv.ShouldEqual, `4`)
		cv.So(evalStr(env, `{10 mod 3}`), cv.ShouldEqual, `1`)
		cv.So(evalStr(env, `(** 2 10)`), cv.ShouldEqual, `1024`)
		cv.So(evalStr(env, `(- 5)`), cv.ShouldEqual, `-5`)
	})

	cv.Convey(`Given a non-number operand, arithmetic should raise condition 009`, t, func() {

		env := NewRlisp()
		cv.So(evalCode(env, `{1 + "two"}`), cv.ShouldEqual, ErrSignatureMismatch)
	})
}

func Test022EvalComparisons(t *testing.T) {

	cv.Convey(`Given comparable values, the comparison builtins should order them`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `{1 < 2}`), cv.ShouldEqual, `true`)
		cv.So(evalStr(env, `{2.5 >= 2.5}`), cv.ShouldEqual, `true`)
		cv.So(evalStr(env, `{"a" < "b"}`), cv.ShouldEqual, `true`)
		cv.So(evalStr(env, `{'(1 2) == '(1 2)}`), cv.ShouldEqual, `true`)
		cv.So(evalStr(env, `{true > false}`), cv.ShouldEqual, `true`)
		cv.So(evalStr(env, `{1 != 2}`), cv.ShouldEqual, `true`)
	})
}

func Test023EvalListPrimitives(t *testing.T) {

	cv.Convey(`Given list primitives, head/tail/cons/len/append/concat should behave`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `(head (tail '(10 20 30)))`), cv.ShouldEqual, `20`)
		cv.So(evalStr(env, `(cons 1 '(2 3))`), cv.ShouldEqual, `(1 2 3)`)
		cv.So(evalStr(env, `(cons 1 2)`), cv.ShouldEqual, `(1 . 2)`)
		cv.So(evalStr(env, `(len '(1 2 3))`), cv.ShouldEqual, `3`)
		cv.So(evalStr(env, `(len "abcd")`), cv.ShouldEqual, `4`)
		cv.So(evalStr(env, `(append '(1 2) 3)`), cv.ShouldEqual, `(1 2 3)`)
		cv.So(evalStr(env, `(concat '(1) '(2 3))`), cv.ShouldEqual, `(1 2 3)`)
		cv.So(evalStr(env, `(car '(9 8))`), cv.ShouldEqual, `9`)
		cv.So(evalStr(env, `(cdr '(9 8))`), cv.ShouldEqual, `(8)`)
	})

	cv.Convey(`Taking the head or tail of an empty list should raise conditions 010 and 011`, t, func() {

		env := NewRlisp()
		cv.So(evalCode(env, `(head '())`), cv.ShouldEqual, ErrHeadEmptyList)
		cv.So(evalCode(env, `(tail '())`), cv.ShouldEqual, ErrTailEmptyList)
	})
}

func Test024EvalFunctionsAndRecursion(t *testing.T) {

	cv.Convey(`Given a recursive definition written with infix groups, a fibonacci of 10 should be 55`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `
(define (fib n)
  (cond [{n < 2} n]
        [else {(fib {n - 1}) + (fib {n - 2})}]))
(fib 10)`), cv.ShouldEqual, `55`)
	})

	cv.Convey(`Lambdas close over their defining scope`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `
(define (adder n) (lambda [m] {n + m}))
((adder 3) 4)`), cv.ShouldEqual, `7`)
	})

	cv.Convey(`fn is a synonym for lambda`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `((fn [x] {x * x}) 6)`), cv.ShouldEqual, `36`)
	})

	cv.Convey(`Calling with the wrong number of arguments raises condition 004 with the counts`, t, func() {

		env := NewRlisp()
		_, err := env.EvalString(`((lambda [x] x) 1 2)`)
		se := AsSexpError(err)
		cv.So(se.Code, cv.ShouldEqual, ErrArityMismatch)
		cv.So(se.Description, cv.ShouldEqual, "arity mismatch: expected 1, found 2")
	})

	cv.Convey(`Applying a non-function raises 002, an empty call raises 003`, t, func() {

		env := NewRlisp()
		cv.So(evalCode(env, `(5 1 2)`), cv.ShouldEqual, ErrNotCallable)
		cv.So(evalCode(env, `()`), cv.ShouldEqual, ErrNoFunction)
	})
}

func Test025EvalTailCalls(t *testing.T) {

	cv.Convey(`Given a deeply self-recursive countdown in tail position, evaluation should run in constant stack`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `
(define (countdown n)
  (cond [{n == 0} "done"]
        [else (countdown {n - 1})]))
(countdown 1000000)`), cv.ShouldEqual, `"done"`)
	})

	cv.Convey(`Tail positions inside let and begin also loop rather than recurse`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `
(define (spin n acc)
  (cond [{n == 0} acc]
        [else (let [[m {n - 1}]]
                (begin (spin m {acc + 1})))]))
(spin 100000 0)`), cv.ShouldEqual, `100000`)
	})
}

func Test026EvalCond(t *testing.T) {

	cv.Convey(`Given cond clauses, the first true clause wins, else is the fallback, no match is nil`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `(cond [false 1] [true 2] [else 3])`), cv.ShouldEqual, `2`)
		cv.So(evalStr(env, `(cond [false 1] [else 3])`), cv.ShouldEqual, `3`)
		cv.So(evalStr(env, `(cond [false 1])`), cv.ShouldEqual, `nil`)
	})

	cv.Convey(`Malformed cond forms raise conditions 018, 019 and 020`, t, func() {

		env := NewRlisp()
		cv.So(evalCode(env, `(cond [1 2])`), cv.ShouldEqual, ErrCondNotBool)
		cv.So(evalCode(env, `(cond [true])`), cv.ShouldEqual, ErrCondClauseLen)
		cv.So(evalCode(env, `(cond true)`), cv.ShouldEqual, ErrCondClauseList)
	})
}

func Test027EvalLet(t *testing.T) {

	cv.Convey(`Given let bindings, later bindings see earlier ones and the body sees them all`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `(let [[a 1] [b {a + 1}]] {a + b})`), cv.ShouldEqual, `3`)
	})

	cv.Convey(`Let bindings shadow outer definitions without mutating them`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `(define x 1) (let [[x 99]] x)`), cv.ShouldEqual, `99`)
		cv.So(evalStr(env, `x`), cv.ShouldEqual, `1`)
	})

	cv.Convey(`Malformed let forms raise conditions 021 through 024`, t, func() {

		env := NewRlisp()
		cv.So(evalCode(env, `(let 5 x)`), cv.ShouldEqual, ErrBindingList)
		cv.So(evalCode(env, `(let [[5 2]] 1)`), cv.ShouldEqual, ErrBindingIdent)
		cv.So(evalCode(env, `(let [[x]] 1)`), cv.ShouldEqual, ErrBindingPair)
		cv.So(evalCode(env, `(let [x] 1)`), cv.ShouldEqual, ErrBindingPair)
		cv.So(evalCode(env, `(let [[x 1]])`), cv.ShouldEqual, ErrLetNoBody)
	})
}

func Test028EvalDefineErrors(t *testing.T) {

	cv.Convey(`Malformed defines raise conditions 025 through 027`, t, func() {

		env := NewRlisp()
		cv.So(evalCode(env, `(define 3 4)`), cv.ShouldEqual, ErrDefineTarget)
		cv.So(evalCode(env, `(define x)`), cv.ShouldEqual, ErrDefineShape)
		cv.So(evalCode(env, `(define (f 1) 2)`), cv.ShouldEqual, ErrParamNotSymbol)
		cv.So(evalCode(env, `(lambda [1] 2)`), cv.ShouldEqual, ErrParamNotSymbol)
		cv.So(evalCode(env, `(lambda 5 5)`), cv.ShouldEqual, ErrLambdaSyntax)
	})

	cv.Convey(`Redefining a builtin or special form raises condition 028`, t, func() {

		env := NewRlisp()
		cv.So(evalCode(env, `(define head 5)`), cv.ShouldEqual, ErrReservedIdent)
		cv.So(evalCode(env, `(define cond 5)`), cv.ShouldEqual, ErrReservedIdent)
	})
}

func Test029EvalSetAndBegin(t *testing.T) {

	cv.Convey(`set! mutates the owning frame, wherever it is in the chain`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `(define x 1) (set! x 5) x`), cv.ShouldEqual, `5`)
		cv.So(evalStr(env, `
(define y 1)
(define (bump) (set! y {y + 1}))
(bump) (bump) y`), cv.ShouldEqual, `3`)
	})

	cv.Convey(`set! on an unbound name raises 001; a non-symbol target raises 022`, t, func() {

		env := NewRlisp()
		cv.So(evalCode(env, `(set! nowhere 1)`), cv.ShouldEqual, ErrUndefinedSymbol)
		cv.So(evalCode(env, `(set! 5 1)`), cv.ShouldEqual, ErrBindingIdent)
	})

	cv.Convey(`begin evaluates in order and yields the last value`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `(begin 1 2 3)`), cv.ShouldEqual, `3`)
		cv.So(evalStr(env, `(begin)`), cv.ShouldEqual, `nil`)
	})
}

func Test030EvalUndefinedSymbols(t *testing.T) {

	cv.Convey(`An unbound identifier raises condition 001 naming the symbol`, t, func() {

		env := NewRlisp()
		_, err := env.EvalString(`(+ missing 1)`)
		se := AsSexpError(err)
		cv.So(se.Code, cv.ShouldEqual, ErrUndefinedSymbol)
		cv.So(se.Description, cv.ShouldEqual, "undefined identifier: `missing`")
	})
}

func Test031EvalTry(t *testing.T) {

	cv.Convey(`try hands a raised condition to the handler as an error value`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `(try (head '()) (lambda [e] (error-code e)))`),
			cv.ShouldEqual, `10`)
		cv.So(evalStr(env, `(try 42 (lambda [e] 0))`), cv.ShouldEqual, `42`)
	})

	cv.Convey(`raise turns a constructed error value into a live condition`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `
(try (raise (make-error 99 "custom" '(1 2)))
     (lambda [e] (list (error-code e) (error-description e) (error-payload e))))`),
			cv.ShouldEqual, `(99 "custom" (1 2))`)
	})

	cv.Convey(`a non-callable handler raises 002; the wrong shape raises 004`, t, func() {

		env := NewRlisp()
		cv.So(evalCode(env, `(try (head '()) 5)`), cv.ShouldEqual, ErrNotCallable)
		cv.So(evalCode(env, `(try 1)`), cv.ShouldEqual, ErrArityMismatch)
	})
}

func Test032EvalQuasiquote(t *testing.T) {

	cv.Convey(`quasiquote splices unquote holes at depth one and leaves nested templates alone`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `(define x 9) ^(a ~x)`), cv.ShouldEqual, `(a 9)`)
		cv.So(evalStr(env, `^(a ^(b ~x))`), cv.ShouldEqual, `(a (quasiquote (b (unquote x))))`)
		cv.So(evalStr(env, `'(1 2 3)`), cv.ShouldEqual, `(1 2 3)`)
	})
}

func Test033EvalInterpolation(t *testing.T) {

	cv.Convey(`A format string evaluates its holes in the current scope and concatenates`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `(define who "world") #"hello #{who}!"`),
			cv.ShouldEqual, `"hello world!"`)
		cv.So(evalStr(env, `(define n 4) #"n+1 = #{{n + 1}}"`),
			cv.ShouldEqual, `"n+1 = 5"`)
	})
}

func Test034EvalStrAndTypes(t *testing.T) {

	cv.Convey(`str stringifies and concatenates; type predicates answer structurally`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `(str 1 " and " 2.5)`), cv.ShouldEqual, `"1 and 2.5"`)
		cv.So(evalStr(env, `(type 1.5)`), cv.ShouldEqual, `"float"`)
		cv.So(evalStr(env, `(int? 3)`), cv.ShouldEqual, `true`)
		cv.So(evalStr(env, `(number? 3.5)`), cv.ShouldEqual, `true`)
		cv.So(evalStr(env, `(list? '())`), cv.ShouldEqual, `true`)
		cv.So(evalStr(env, `(nil? nil)`), cv.ShouldEqual, `true`)
		cv.So(evalStr(env, `(empty? "")`), cv.ShouldEqual, `true`)
		cv.So(evalStr(env, `(empty? '())`), cv.ShouldEqual, `true`)
		cv.So(evalStr(env, `(empty? '(1 2))`), cv.ShouldEqual, `false`)
		cv.So(evalStr(env, `(function? (lambda [] 1))`), cv.ShouldEqual, `true`)
		cv.So(evalCode(env, `(empty? 5)`), cv.ShouldEqual, ErrSignatureMismatch)
	})

	cv.Convey(`check-sig verifies a value against a kind name, raising 009 with both sides on mismatch`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `(check-sig 5 "int")`), cv.ShouldEqual, `true`)
		_, err := env.EvalString(`(check-sig 5 "string")`)
		se := AsSexpError(err)
		cv.So(se.Code, cv.ShouldEqual, ErrSignatureMismatch)
		cv.So(se.Description, cv.ShouldEqual, "signature mismatch: expected string, found int")
	})
}

func Test035EvalApplyNotGensym(t *testing.T) {

	cv.Convey(`apply spreads a list over a function; not negates; gensym yields fresh names`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `(apply + '(1 2 3))`), cv.ShouldEqual, `6`)
		cv.So(evalStr(env, `(not false)`), cv.ShouldEqual, `true`)
		cv.So(evalCode(env, `(not 1)`), cv.ShouldEqual, ErrSignatureMismatch)

		a, err := env.EvalString(`(gensym)`)
		panicOn(err)
		b, err := env.EvalString(`(gensym)`)
		panicOn(err)
		cv.So(a.SexpString(), cv.ShouldNotEqual, b.SexpString())
	})
}

func Test036EvalZeroDivisors(t *testing.T) {

	cv.Convey(`Division and mod by zero should fall back to float semantics instead of crashing`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `{1 / 0}`), cv.ShouldEqual, `+Inf`)
		cv.So(evalStr(env, `{-1 / 0}`), cv.ShouldEqual, `-Inf`)
		cv.So(evalStr(env, `{0 / 0}`), cv.ShouldEqual, `NaN`)
		cv.So(evalStr(env, `(mod 1 0)`), cv.ShouldEqual, `NaN`)
		cv.So(evalStr(env, `{1.0 / 0.0}`), cv.ShouldEqual, `+Inf`)
	})
}

func Test037EvalQuotedNil(t *testing.T) {

	cv.Convey(`nil inside quoted data should be the nil value, not a leftover symbol`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `(nil? 'nil)`), cv.ShouldEqual, `true`)
		cv.So(evalStr(env, `(nil? (head '(nil)))`), cv.ShouldEqual, `true`)
		cv.So(evalStr(env, `(nil? (head (tail (tail '("a" true nil)))))`), cv.ShouldEqual, `true`)
		cv.So(evalStr(env, `'("a" true nil)`), cv.ShouldEqual, `("a" true nil)`)
	})

	cv.Convey(`the bare atom still evaluates to nil and () still has nothing to apply`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `nil`), cv.ShouldEqual, `nil`)
		cv.So(evalCode(env, `()`), cv.ShouldEqual, ErrNoFunction)
	})
}
