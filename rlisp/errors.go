package rlisp

import (
	"fmt"
)

// ErrorCode numbers the closed set of conditions the interpreter can
// raise. Every failure surfaced to a caller carries exactly one of
// these; there are no untyped failures.
type ErrorCode int

const (
	ErrUndefinedSymbol   ErrorCode = 1
	ErrNotCallable       ErrorCode = 2
	ErrNoFunction        ErrorCode = 3
	ErrArityMismatch     ErrorCode = 4
	ErrUnclosedList      ErrorCode = 5
	ErrInfixMixed        ErrorCode = 6
	ErrUnclosedInfix     ErrorCode = 7
	ErrUnclosedString    ErrorCode = 8
	ErrSignatureMismatch ErrorCode = 9
	ErrHeadEmptyList     ErrorCode = 10
	ErrTailEmptyList     ErrorCode = 11
	ErrStdoutFlush       ErrorCode = 12
	ErrStructDefine      ErrorCode = 13
	ErrFileRead          ErrorCode = 14
	ErrStdinRead         ErrorCode = 15
	ErrParseExpression   ErrorCode = 16
	ErrLambdaSyntax      ErrorCode = 17
	ErrCondNotBool       ErrorCode = 18
	ErrCondClauseLen     ErrorCode = 19
	ErrCondClauseList    ErrorCode = 20
	ErrBindingList       ErrorCode = 21
	ErrBindingIdent      ErrorCode = 22
	ErrBindingPair       ErrorCode = 23
	ErrLetNoBody         ErrorCode = 24
	ErrDefineTarget      ErrorCode = 25
	ErrDefineShape       ErrorCode = 26
	ErrParamNotSymbol    ErrorCode = 27
	ErrReservedIdent     ErrorCode = 28
	ErrStructNoField     ErrorCode = 29
	ErrStructOverflow    ErrorCode = 30
	ErrFmtNoExpression   ErrorCode = 31
	ErrFmtUnclosedExpr   ErrorCode = 32
)

// errorCatalog is the canonical code -> description table. The texts
// are load-bearing: error-description and repl output report them
// verbatim, and scripts match on them.
var errorCatalog = map[ErrorCode]string{
	ErrUndefinedSymbol:   "undefined identifier",
	ErrNotCallable:       "not a callable value",
	ErrNoFunction:        "no function to call",
	ErrArityMismatch:     "arity mismatch",
	ErrUnclosedList:      "unclosed list",
	ErrInfixMixed:        "infix functions must be identical",
	ErrUnclosedInfix:     "unclosed infix list",
	ErrUnclosedString:    "unclosed string literal",
	ErrSignatureMismatch: "signature mismatch",
	ErrHeadEmptyList:     "cannot get the head of an empty list",
	ErrTailEmptyList:     "cannot get the tail of an empty list",
	ErrStdoutFlush:       "could not flush stdout",
	ErrStructDefine:      "could not define struct",
	ErrFileRead:          "could not read file",
	ErrStdinRead:         "failed to read stdin",
	ErrParseExpression:   "could not parse expression",
	ErrLambdaSyntax:      "(lambda [args...] body)",
	ErrCondNotBool:       "condition must be a boolean value",
	ErrCondClauseLen:     "condition case must contain 2 elements",
	ErrCondClauseList:    "condition case must be a list",
	ErrBindingList:       "binding list must be a list of bindings",
	ErrBindingIdent:      "identifier in binding must be a symbol",
	ErrBindingPair:       "binding must be a list containing a symbol and a value",
	ErrLetNoBody:         "let body not found",
	ErrDefineTarget:      "value must be bound to a symbol",
	ErrDefineShape:       "define must bind either a function or a symbol",
	ErrParamNotSymbol:    "function parameters must be symbols",
	ErrReservedIdent:     "reserved identifier",
	ErrStructNoField:     "struct does not contain specified field",
	ErrStructOverflow:    "failed to define new struct; too many structs",
	ErrFmtNoExpression:   "format string must contain expression to interpolate",
	ErrFmtUnclosedExpr:   "unclosed expression while interpolating string",
}

// ErrorText returns the catalog description for a code, or "" for
// codes outside 1..32.
func ErrorText(code ErrorCode) string {
	return errorCatalog[code]
}

// SexpError is a condition. It is both a value (Sexp) so scripts can
// build and inspect errors, and a Go error so it unwinds through the
// evaluator to the nearest try handler or the repl.
type SexpError struct {
	Code        ErrorCode
	Description string
	Payload     Sexp
}

func (e *SexpError) SexpString() string {
	return fmt.Sprintf("error(%d): %s", e.Code, e.Description)
}

func (e *SexpError) Error() string {
	return e.SexpString()
}

// Condition makes the plain catalog condition for a code.
func Condition(code ErrorCode) *SexpError {
	return &SexpError{Code: code, Description: errorCatalog[code], Payload: SexpNull}
}

// ConditionDetail makes a condition whose description carries detail
// after the catalog text.
func ConditionDetail(code ErrorCode, format string, args ...interface{}) *SexpError {
	return &SexpError{
		Code:        code,
		Description: errorCatalog[code] + ": " + fmt.Sprintf(format, args...),
		Payload:     SexpNull,
	}
}

func ErrUndefined(name string) *SexpError {
	return ConditionDetail(ErrUndefinedSymbol, "`%s`", name)
}

func ErrArity(expected int, found int) *SexpError {
	return ConditionDetail(ErrArityMismatch, "expected %d, found %d", expected, found)
}

func ErrSignature(expected string, found string) *SexpError {
	return ConditionDetail(ErrSignatureMismatch, "expected %s, found %s", expected, found)
}

func ErrReserved(name string) *SexpError {
	return ConditionDetail(ErrReservedIdent, "`%s`", name)
}

// AsSexpError pulls the condition out of any error the evaluator
// returns. Non-condition errors (host I/O, liner) come back wrapped
// under code 16 so callers always see a numbered failure.
func AsSexpError(err error) *SexpError {
	if err == nil {
		return nil
	}
	if se, ok := err.(*SexpError); ok {
		return se
	}
	return &SexpError{
		Code:        ErrParseExpression,
		Description: errorCatalog[ErrParseExpression] + ": " + err.Error(),
		Payload:     SexpNull,
	}
}
