package rlisp

type Parser struct {
	lexer *Lexer
	env   *Rlisp
}

const SliceDefaultCap = 10

func (env *Rlisp) NewParser(lexer *Lexer) *Parser {
	return &Parser{lexer: lexer, env: env}
}

func (env *Rlisp) ParseStream(lexer *Lexer) ([]Sexp, error) {
	return env.NewParser(lexer).ParseTokens()
}

// ParseTokens reads top-level forms until end of input.
func (parser *Parser) ParseTokens() ([]Sexp, error) {
	expressions := make([]Sexp, 0, SliceDefaultCap)

	for {
		expr, err := parser.ParseExpression(0)
		if err != nil {
			return expressions, err
		}
		if expr == SexpEnd {
			break
		}
		expressions = append(expressions, expr)
	}
	return expressions, nil
}

func (parser *Parser) ParseList(depth int) (Sexp, error) {
	lexer := parser.lexer
	tok, err := lexer.PeekNextToken()
	if err != nil {
		return SexpNull, err
	}
	if tok.typ == TokenEnd {
		_, _ = lexer.GetNextToken()
		return SexpNull, Condition(ErrUnclosedList)
	}

	if tok.typ == TokenRParen {
		_, _ = lexer.GetNextToken()
		return SexpNull, nil
	}

	var start SexpPair

	expr, err := parser.ParseExpression(depth + 1)
	if err != nil {
		return SexpNull, err
	}
	start.Head = expr

	expr, err = parser.ParseList(depth + 1)
	if err != nil {
		return SexpNull, err
	}
	start.Tail = expr

	return &start, nil
}

// ParseArray reads a square-bracket group. It is an ordinary list; the
// bracket form only exists so parameter and binding lists read well.
func (parser *Parser) ParseArray(depth int) (Sexp, error) {
	lexer := parser.lexer
	arr := make([]Sexp, 0, SliceDefaultCap)

	for {
		tok, err := lexer.PeekNextToken()
		if err != nil {
			return SexpNull, err
		}
		if tok.typ == TokenEnd {
			return SexpNull, Condition(ErrUnclosedList)
		}
		if tok.typ == TokenRSquare {
			_, _ = lexer.GetNextToken()
			break
		}

		expr, err := parser.ParseExpression(depth + 1)
		if err != nil {
			return SexpNull, err
		}
		arr = append(arr, expr)
	}

	return MakeList(arr), nil
}

// ParseInfix reads a curly group {a op b op c}. Every other element
// must be the same operator symbol; the group folds to the prefix call
// (op a b c) so nothing downstream sees infix syntax.
func (parser *Parser) ParseInfix(depth int) (Sexp, error) {
	lexer := parser.lexer
	arr := make([]Sexp, 0, SliceDefaultCap)

	for {
		tok, err := lexer.PeekNextToken()
		if err != nil {
			return SexpNull, err
		}
		if tok.typ == TokenEnd {
			return SexpNull, Condition(ErrUnclosedInfix)
		}
		if tok.typ == TokenRCurly {
			_, _ = lexer.GetNextToken()
			break
		}

		expr, err := parser.ParseExpression(depth + 1)
		if err != nil {
			return SexpNull, err
		}
		arr = append(arr, expr)
	}

	switch len(arr) {
	case 0:
		return SexpNull, nil
	case 1:
		return arr[0], nil
	}

	if len(arr)%2 == 0 {
		return SexpNull, ConditionDetail(ErrParseExpression, "infix list needs operand after operator")
	}

	var op SexpSymbol
	operands := make([]Sexp, 0, len(arr)/2+2)
	operands = append(operands, nil) // head slot for the operator
	for i, expr := range arr {
		if i%2 == 0 {
			operands = append(operands, expr)
			continue
		}
		sym, isSym := expr.(SexpSymbol)
		if !isSym {
			return SexpNull, Condition(ErrInfixMixed)
		}
		if i == 1 {
			op = sym
		} else if sym.number != op.number {
			return SexpNull, Condition(ErrInfixMixed)
		}
	}
	operands[0] = op

	return MakeList(operands), nil
}

func (parser *Parser) ParseExpression(depth int) (Sexp, error) {
	lexer := parser.lexer
	env := parser.env

	tok, err := lexer.GetNextToken()
	if err != nil {
		return SexpEnd, err
	}

	switch tok.typ {
	case TokenLParen:
		return parser.ParseList(depth + 1)
	case TokenLSquare:
		return parser.ParseArray(depth + 1)
	case TokenLCurly:
		return parser.ParseInfix(depth + 1)
	case TokenQuote:
		expr, err := parser.ParseExpression(depth + 1)
		if err != nil {
			return SexpNull, err
		}
		return MakeList([]Sexp{env.MakeSymbol("quote"), expr}), nil
	case TokenCaret:
		expr, err := parser.ParseExpression(depth + 1)
		if err != nil {
			return SexpNull, err
		}
		return MakeList([]Sexp{env.MakeSymbol("quasiquote"), expr}), nil
	case TokenTilde:
		expr, err := parser.ParseExpression(depth + 1)
		if err != nil {
			return SexpNull, err
		}
		return MakeList([]Sexp{env.MakeSymbol("unquote"), expr}), nil
	case TokenSymbol:
		return env.MakeSymbol(tok.str), nil
	case TokenBool:
		return SexpBool(tok.str == "true"), nil
	case TokenDecimal:
		i, err := parseInt(tok.str)
		if err != nil {
			return SexpNull, Condition(ErrParseExpression)
		}
		return i, nil
	case TokenFloat:
		f, err := parseFloat(tok.str)
		if err != nil {
			return SexpNull, Condition(ErrParseExpression)
		}
		return f, nil
	case TokenString:
		return SexpStr(tok.str), nil
	case TokenFmtString:
		return parser.parseFmtString(tok.str)
	case TokenEnd:
		return SexpEnd, nil
	}
	return SexpNull, ConditionDetail(ErrParseExpression, "unexpected token %s", tok)
}

// parseFmtString splits the raw contents of #"..." into literal spans
// and embedded #{expr} spans, and desugars to (str "lit" expr ...).
// Only `#{` opens an embedded expression; its closing brace balances
// nested braces within the expression.
func (parser *Parser) parseFmtString(raw string) (Sexp, error) {
	env := parser.env
	runes := []rune(raw)

	parts := make([]Sexp, 0, 4)
	parts = append(parts, env.MakeSymbol("str"))

	sawExpr := false
	lit := make([]rune, 0, len(runes))
	i := 0
	for i < len(runes) {
		r := runes[i]

		if r == '\\' && i+1 < len(runes) {
			char, err := EscapeChar(runes[i+1])
			if err != nil {
				return SexpNull, err
			}
			lit = append(lit, char)
			i += 2
			continue
		}

		if r == '#' && i+1 < len(runes) && runes[i+1] == '{' {
			if len(lit) > 0 {
				parts = append(parts, SexpStr(string(lit)))
				lit = lit[:0]
			}

			depth := 1
			j := i + 2
			for j < len(runes) && depth > 0 {
				switch runes[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
				j++
			}
			if depth != 0 {
				return SexpNull, Condition(ErrFmtUnclosedExpr)
			}

			src := string(runes[i+2 : j-1])
			sub := parser.env.NewParser(NewLexerFromString(src))
			exprs, err := sub.ParseTokens()
			if err != nil {
				return SexpNull, err
			}
			if len(exprs) != 1 {
				return SexpNull, Condition(ErrFmtUnclosedExpr)
			}
			parts = append(parts, exprs[0])
			sawExpr = true
			i = j
			continue
		}

		lit = append(lit, r)
		i++
	}

	if !sawExpr {
		return SexpNull, Condition(ErrFmtNoExpression)
	}
	if len(lit) > 0 {
		parts = append(parts, SexpStr(string(lit)))
	}

	return MakeList(parts), nil
}
