package rlisp

import (
	"bytes"
)

func signumFloat(f SexpFloat) int {
	if f > 0 {
		return 1
	}
	if f < 0 {
		return -1
	}
	return 0
}

func signumInt(i SexpInt) int {
	if i > 0 {
		return 1
	}
	if i < 0 {
		return -1
	}
	return 0
}

func compareFloat(f SexpFloat, expr Sexp) (int, error) {
	switch e := expr.(type) {
	case SexpInt:
		return signumFloat(f - SexpFloat(e)), nil
	case SexpFloat:
		return signumFloat(f - e), nil
	}
	return 0, ErrSignature("number", kindName(expr))
}

func compareInt(i SexpInt, expr Sexp) (int, error) {
	switch e := expr.(type) {
	case SexpInt:
		return signumInt(i - e), nil
	case SexpFloat:
		return signumFloat(SexpFloat(i) - e), nil
	}
	return 0, ErrSignature("number", kindName(expr))
}

func compareString(s SexpStr, expr Sexp) (int, error) {
	switch e := expr.(type) {
	case SexpStr:
		return bytes.Compare([]byte(s), []byte(e)), nil
	}
	return 0, ErrSignature("string", kindName(expr))
}

func compareBool(b SexpBool, expr Sexp) (int, error) {
	e, isBool := expr.(SexpBool)
	if !isBool {
		return 0, ErrSignature("bool", kindName(expr))
	}

	// true > false
	if bool(b) == bool(e) {
		return 0, nil
	}
	if bool(b) {
		return 1, nil
	}
	return -1, nil
}

func comparePair(a *SexpPair, expr Sexp) (int, error) {
	switch e := expr.(type) {
	case *SexpPair:
		res, err := Compare(a.Head, e.Head)
		if err != nil || res != 0 {
			return res, err
		}
		return Compare(a.Tail, e.Tail)
	case SexpSentinel:
		if e == SexpNull {
			return 1, nil
		}
	}
	return 0, ErrSignature("list", kindName(expr))
}

func compareNull(expr Sexp) (int, error) {
	switch e := expr.(type) {
	case SexpSentinel:
		if e == SexpNull {
			return 0, nil
		}
	case *SexpPair:
		return -1, nil
	}
	return 0, ErrSignature("list", kindName(expr))
}

// Compare orders two values, or fails with a signature condition when
// their kinds are not comparable.
func Compare(a Sexp, b Sexp) (int, error) {
	switch at := a.(type) {
	case SexpInt:
		return compareInt(at, b)
	case SexpFloat:
		return compareFloat(at, b)
	case SexpStr:
		return compareString(at, b)
	case SexpBool:
		return compareBool(at, b)
	case SexpSymbol:
		if bt, isSym := b.(SexpSymbol); isSym {
			return bytes.Compare([]byte(at.name), []byte(bt.name)), nil
		}
	case *SexpPair:
		return comparePair(at, b)
	case SexpSentinel:
		if at == SexpNull {
			return compareNull(b)
		}
	}
	return 0, ErrSignature(kindName(a), kindName(b))
}
