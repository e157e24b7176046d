package rlisp

import (
	"errors"
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test060ErrorCatalogIsClosed(t *testing.T) {

	cv.Convey(`Every code from 1 to 32 has a description, and nothing outside that range does`, t, func() {

		cv.So(len(errorCatalog), cv.ShouldEqual, 32)
		for code := ErrorCode(1); code <= 32; code++ {
			cv.So(ErrorText(code), cv.ShouldNotEqual, "")
		}
		cv.So(ErrorText(0), cv.ShouldEqual, "")
		cv.So(ErrorText(33), cv.ShouldEqual, "")
	})

	cv.Convey(`The descriptions scripts match on are stable`, t, func() {

		cv.So(ErrorText(ErrUndefinedSymbol), cv.ShouldEqual, "undefined identifier")
		cv.So(ErrorText(ErrUnclosedString), cv.ShouldEqual, "unclosed string literal")
		cv.So(ErrorText(ErrHeadEmptyList), cv.ShouldEqual, "cannot get the head of an empty list")
		cv.So(ErrorText(ErrLambdaSyntax), cv.ShouldEqual, "(lambda [args...] body)")
		cv.So(ErrorText(ErrStructOverflow), cv.ShouldEqual, "failed to define new struct; too many structs")
		cv.So(ErrorText(ErrFmtUnclosedExpr), cv.ShouldEqual, "unclosed expression while interpolating string")
	})
}

func Test061ConditionFormatting(t *testing.T) {

	cv.Convey(`A condition prints as error(N): description, with the code unpadded`, t, func() {

		cv.So(Condition(ErrNoFunction).SexpString(), cv.ShouldEqual, "error(3): no function to call")
		cv.So(ErrArity(2, 5).Error(), cv.ShouldEqual, "error(4): arity mismatch: expected 2, found 5")
		cv.So(ErrSignature("int", "string").Error(), cv.ShouldEqual,
			"error(9): signature mismatch: expected int, found string")
		cv.So(Condition(ErrHeadEmptyList).SexpString(), cv.ShouldEqual,
			"error(10): cannot get the head of an empty list")
	})
}

func Test062AsSexpErrorWrapsForeignErrors(t *testing.T) {

	cv.Convey(`A condition passes through untouched; anything else is wrapped under code 016`, t, func() {

		orig := Condition(ErrFileRead)
		cv.So(AsSexpError(orig), cv.ShouldEqual, orig)

		wrapped := AsSexpError(errors.New("disk on fire"))
		cv.So(wrapped.Code, cv.ShouldEqual, ErrParseExpression)
		cv.So(wrapped.Description, cv.ShouldEqual, "could not parse expression: disk on fire")

		cv.So(AsSexpError(nil), cv.ShouldBeNil)
	})
}

func Test063ErrorsAreValues(t *testing.T) {

	cv.Convey(`An error value is inspectable from scripts and error? recognizes it`, t, func() {

		env := NewRlisp()
		cv.So(evalStr(env, `(error? (make-error 7 "boom"))`), cv.ShouldEqual, `true`)
		cv.So(evalStr(env, `(error-code (make-error 7 "boom"))`), cv.ShouldEqual, `7`)
		cv.So(evalStr(env, `(error-description (make-error 7 "boom"))`), cv.ShouldEqual, `"boom"`)
		cv.So(evalStr(env, `(error-payload (make-error 7 "boom"))`), cv.ShouldEqual, `nil`)
		cv.So(evalStr(env, `(type (make-error 7 "boom"))`), cv.ShouldEqual, `"error"`)
	})
}
