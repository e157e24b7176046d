package rlisp

import (
	"bufio"
	"bytes"
	"io"
	"regexp"
	"strings"
)

type TokenType int

const (
	TokenLParen TokenType = iota
	TokenRParen
	TokenLSquare
	TokenRSquare
	TokenLCurly
	TokenRCurly
	TokenQuote
	TokenCaret
	TokenTilde
	TokenSymbol
	TokenBool
	TokenDecimal
	TokenFloat
	TokenString
	TokenFmtString
	TokenEnd
)

type Token struct {
	typ TokenType
	str string
}

var EndTk = Token{typ: TokenEnd}

func (t Token) String() string {
	switch t.typ {
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenLSquare:
		return "["
	case TokenRSquare:
		return "]"
	case TokenLCurly:
		return "{"
	case TokenRCurly:
		return "}"
	case TokenQuote:
		return "'"
	case TokenCaret:
		return "^"
	case TokenTilde:
		return "~"
	case TokenString:
		return `"` + t.str + `"`
	case TokenFmtString:
		return `#"` + t.str + `"`
	}
	return t.str
}

type LexerState int

const (
	LexerNormal LexerState = iota
	LexerComment
	LexerStrLit
	LexerStrEscaped
	LexerFmtLit
	LexerFmtEscaped
	LexerHash
)

type Lexer struct {
	state   LexerState
	tokens  []Token
	buffer  *bytes.Buffer
	stream  io.RuneScanner
	linenum int
}

func NewLexer(stream io.RuneScanner) *Lexer {
	return &Lexer{
		state:   LexerNormal,
		tokens:  make([]Token, 0, 10),
		buffer:  new(bytes.Buffer),
		stream:  stream,
		linenum: 1,
	}
}

func NewLexerFromString(str string) *Lexer {
	return NewLexer(bufio.NewReader(strings.NewReader(str)))
}

func (lexer *Lexer) Linenum() int {
	return lexer.linenum
}

var (
	BoolRegex    = regexp.MustCompile("^(true|false)$")
	DecimalRegex = regexp.MustCompile("^-?[0-9]+$")
	FloatRegex   = regexp.MustCompile("^-?(([0-9]+\\.[0-9]*)|(\\.[0-9]+)|([0-9]+(\\.[0-9]*)?[eE]-?[0-9]+))$")

	// Symbols cannot contain whitespace nor `(`, `)`, `[`, `]`, `{`,
	// `}`, `'`, `#`, `;`, `^`, `~`, `"`.
	SymbolRegex = regexp.MustCompile(`^[^'#;~\[\]{}\^"()\s]+$`)
)

func EscapeChar(char rune) (rune, error) {
	switch char {
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 'a':
		return '\a', nil
	case 't':
		return '\t', nil
	case '\\':
		return '\\', nil
	case '"':
		return '"', nil
	case '\'':
		return '\'', nil
	case '#':
		return '#', nil
	}
	return ' ', Condition(ErrParseExpression)
}

func (lexer *Lexer) Token(typ TokenType, str string) Token {
	return Token{typ: typ, str: str}
}

func (lexer *Lexer) EmptyToken() Token {
	return Token{}
}

func (lexer *Lexer) DecodeAtom(atom string) (Token, error) {
	if BoolRegex.MatchString(atom) {
		return lexer.Token(TokenBool, atom), nil
	}
	if DecimalRegex.MatchString(atom) {
		return lexer.Token(TokenDecimal, atom), nil
	}
	if FloatRegex.MatchString(atom) {
		return lexer.Token(TokenFloat, atom), nil
	}
	if SymbolRegex.MatchString(atom) {
		return lexer.Token(TokenSymbol, atom), nil
	}
	return lexer.EmptyToken(), ConditionDetail(ErrParseExpression, "unrecognized atom: '%s'", atom)
}

func (lexer *Lexer) dumpBuffer() error {
	if lexer.buffer.Len() <= 0 {
		return nil
	}

	tok, err := lexer.DecodeAtom(lexer.buffer.String())
	if err != nil {
		return err
	}

	lexer.buffer.Reset()
	lexer.tokens = append(lexer.tokens, tok)
	return nil
}

func (lexer *Lexer) dumpString(typ TokenType) {
	str := lexer.buffer.String()
	lexer.buffer.Reset()
	lexer.tokens = append(lexer.tokens, lexer.Token(typ, str))
}

func (lexer *Lexer) DecodeBrace(brace rune) Token {
	switch brace {
	case '(':
		return lexer.Token(TokenLParen, "")
	case ')':
		return lexer.Token(TokenRParen, "")
	case '[':
		return lexer.Token(TokenLSquare, "")
	case ']':
		return lexer.Token(TokenRSquare, "")
	case '{':
		return lexer.Token(TokenLCurly, "")
	case '}':
		return lexer.Token(TokenRCurly, "")
	}
	return EndTk
}

func (lexer *Lexer) LexNextRune(r rune) error {
	switch lexer.state {
	case LexerComment:
		if r == '\n' {
			lexer.linenum++
			lexer.state = LexerNormal
		}
		return nil

	case LexerStrLit:
		if r == '\\' {
			lexer.state = LexerStrEscaped
			return nil
		}
		if r == '"' {
			lexer.dumpString(TokenString)
			lexer.state = LexerNormal
			return nil
		}
		lexer.buffer.WriteRune(r)
		return nil

	case LexerStrEscaped:
		char, err := EscapeChar(r)
		if err != nil {
			return err
		}
		lexer.buffer.WriteRune(char)
		lexer.state = LexerStrLit
		return nil

	case LexerFmtLit:
		if r == '\\' {
			lexer.state = LexerFmtEscaped
			return nil
		}
		if r == '"' {
			lexer.dumpString(TokenFmtString)
			lexer.state = LexerNormal
			return nil
		}
		lexer.buffer.WriteRune(r)
		return nil

	case LexerFmtEscaped:
		// keep the backslash: interpolation splits the raw text
		// later and undoes escapes there.
		lexer.buffer.WriteRune('\\')
		lexer.buffer.WriteRune(r)
		lexer.state = LexerFmtLit
		return nil

	case LexerHash:
		lexer.state = LexerNormal
		if r == '"' {
			lexer.state = LexerFmtLit
			return nil
		}
		lexer.buffer.WriteRune('#')
		return lexer.LexNextRune(r)
	}

	if r == '"' {
		if lexer.buffer.Len() > 0 {
			return ConditionDetail(ErrParseExpression, "unexpected quote")
		}
		lexer.state = LexerStrLit
		return nil
	}

	if r == '#' {
		if lexer.buffer.Len() > 0 {
			err := lexer.dumpBuffer()
			if err != nil {
				return err
			}
		}
		lexer.state = LexerHash
		return nil
	}

	if r == ';' {
		lexer.state = LexerComment
		return nil
	}

	if r == '\'' {
		if lexer.buffer.Len() > 0 {
			return ConditionDetail(ErrParseExpression, "unexpected quote mark")
		}
		lexer.tokens = append(lexer.tokens, lexer.Token(TokenQuote, ""))
		return nil
	}

	// caret starts a macro template, tilde an unquote hole inside one.
	if r == '^' {
		if lexer.buffer.Len() > 0 {
			return ConditionDetail(ErrParseExpression, "unexpected ^ caret")
		}
		lexer.tokens = append(lexer.tokens, lexer.Token(TokenCaret, ""))
		return nil
	}

	if r == '~' {
		if lexer.buffer.Len() > 0 {
			return ConditionDetail(ErrParseExpression, "unexpected tilde")
		}
		lexer.tokens = append(lexer.tokens, lexer.Token(TokenTilde, ""))
		return nil
	}

	if r == '(' || r == ')' || r == '[' || r == ']' || r == '{' || r == '}' {
		err := lexer.dumpBuffer()
		if err != nil {
			return err
		}
		lexer.tokens = append(lexer.tokens, lexer.DecodeBrace(r))
		return nil
	}

	if r == ' ' || r == '\n' || r == '\t' || r == '\r' {
		if r == '\n' {
			lexer.linenum++
		}
		return lexer.dumpBuffer()
	}

	_, err := lexer.buffer.WriteRune(r)
	return err
}

func (lexer *Lexer) PeekNextToken() (Token, error) {
	if lexer.stream == nil {
		return EndTk, nil
	}

	for len(lexer.tokens) == 0 {
		r, _, err := lexer.stream.ReadRune()
		if err != nil {
			// end of input: an open string state is a hard error,
			// a pending atom is flushed.
			switch lexer.state {
			case LexerStrLit, LexerStrEscaped, LexerFmtLit, LexerFmtEscaped:
				return EndTk, Condition(ErrUnclosedString)
			}
			err2 := lexer.dumpBuffer()
			if err2 != nil {
				return EndTk, err2
			}
			if len(lexer.tokens) > 0 {
				break
			}
			return EndTk, nil
		}

		err = lexer.LexNextRune(r)
		if err != nil {
			return EndTk, err
		}
	}

	return lexer.tokens[0], nil
}

func (lexer *Lexer) GetNextToken() (Token, error) {
	tok, err := lexer.PeekNextToken()
	if err != nil || tok.typ == TokenEnd {
		return EndTk, err
	}
	lexer.tokens = lexer.tokens[1:]
	return tok, nil
}
