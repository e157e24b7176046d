package rlisp

import (
	"math"
	"strconv"
)

type NumericOp int

const (
	Add NumericOp = iota
	Sub
	Mult
	Div
	Pow
	Modulo
)

func parseInt(str string) (Sexp, error) {
	i, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return SexpNull, err
	}
	return SexpInt(i), nil
}

func parseFloat(str string) (Sexp, error) {
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return SexpNull, err
	}
	return SexpFloat(f), nil
}

func NumericFloatDo(op NumericOp, a, b SexpFloat) Sexp {
	switch op {
	case Add:
		return a + b
	case Sub:
		return a - b
	case Mult:
		return a * b
	case Div:
		return a / b
	case Pow:
		return SexpFloat(math.Pow(float64(a), float64(b)))
	}
	return SexpNull
}

func NumericIntDo(op NumericOp, a, b SexpInt) Sexp {
	switch op {
	case Add:
		return a + b
	case Sub:
		return a - b
	case Mult:
		return a * b
	case Div:
		// Zero divisors fall through to float division, which yields
		// Inf or NaN instead of a runtime panic.
		if b != 0 && a%b == 0 {
			return a / b
		}
		return SexpFloat(float64(a) / float64(b))
	case Pow:
		return SexpFloat(math.Pow(float64(a), float64(b)))
	case Modulo:
		if b == 0 {
			return SexpFloat(math.Mod(float64(a), float64(b)))
		}
		return a % b
	}
	return SexpNull
}

func NumericMatchFloat(op NumericOp, a SexpFloat, b Sexp) (Sexp, error) {
	var fb SexpFloat
	switch tb := b.(type) {
	case SexpFloat:
		fb = tb
	case SexpInt:
		fb = SexpFloat(tb)
	default:
		return SexpNull, ErrSignature("number", kindName(b))
	}
	return NumericFloatDo(op, a, fb), nil
}

func NumericMatchInt(op NumericOp, a SexpInt, b Sexp) (Sexp, error) {
	switch tb := b.(type) {
	case SexpFloat:
		return NumericFloatDo(op, SexpFloat(a), tb), nil
	case SexpInt:
		return NumericIntDo(op, a, tb), nil
	}
	return SexpNull, ErrSignature("number", kindName(b))
}

func NumericDo(op NumericOp, a, b Sexp) (Sexp, error) {
	switch ta := a.(type) {
	case SexpFloat:
		return NumericMatchFloat(op, ta, b)
	case SexpInt:
		return NumericMatchInt(op, ta, b)
	}
	return SexpNull, ErrSignature("number", kindName(a))
}
