package parse

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tEOF tokenKind = iota
	tNewline
	tEvent // lowercase identifier
	tName  // uppercase identifier (process reference)
	tStop  // STOP
	tSkip  // SKIP
	tArrow // ->
	tBox   // []
	tSqcap // |~|
	tSemi  // ;
	tEq    // =
	tLParen
	tRParen
	tLBrace
	tRBrace
	tComma
)

func (k tokenKind) String() string {
	switch k {
	case tEOF:
		return "end of input"
	case tNewline:
		return "end of line"
	case tEvent:
		return "event"
	case tName:
		return "process name"
	case tStop:
		return "STOP"
	case tSkip:
		return "SKIP"
	case tArrow:
		return "'->'"
	case tBox:
		return "'[]'"
	case tSqcap:
		return "'|~|'"
	case tSemi:
		return "';'"
	case tEq:
		return "'='"
	case tLParen:
		return "'('"
	case tRParen:
		return "')'"
	case tLBrace:
		return "'{'"
	case tRBrace:
		return "'}'"
	case tComma:
		return "','"
	default:
		return "unknown token"
	}
}

type token struct {
	kind tokenKind
	text string
	line int
}

// lex tokenizes source text. Newlines are significant only at bracket depth
// zero (they terminate definitions); "--" starts a comment that runs to the
// end of the line.
func lex(src, filename string) ([]token, error) {
	var tokens []token
	line := 1
	depth := 0
	i := 0

	emit := func(kind tokenKind, text string) {
		tokens = append(tokens, token{kind: kind, text: text, line: line})
	}

	for i < len(src) {
		c := src[i]
		switch {
		case c == '\n':
			if depth == 0 {
				emit(tNewline, "\n")
			}
			line++
			i++
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case strings.HasPrefix(src[i:], "--"):
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case strings.HasPrefix(src[i:], "->"):
			emit(tArrow, "->")
			i += 2
		case strings.HasPrefix(src[i:], "[]"):
			emit(tBox, "[]")
			i += 2
		case strings.HasPrefix(src[i:], "|~|"):
			emit(tSqcap, "|~|")
			i += 3
		case c == ';':
			emit(tSemi, ";")
			i++
		case c == '=':
			emit(tEq, "=")
			i++
		case c == '(':
			depth++
			emit(tLParen, "(")
			i++
		case c == ')':
			// A stray closer must not drive depth negative, or newlines
			// would stop terminating definitions for the rest of the file.
			if depth > 0 {
				depth--
			}
			emit(tRParen, ")")
			i++
		case c == '{':
			depth++
			emit(tLBrace, "{")
			i++
		case c == '}':
			if depth > 0 {
				depth--
			}
			emit(tRBrace, "}")
			i++
		case c == ',':
			emit(tComma, ",")
			i++
		case isIdentStart(rune(c)):
			start := i
			for i < len(src) && isIdentRune(rune(src[i])) {
				i++
			}
			word := src[start:i]
			switch {
			case word == "STOP":
				emit(tStop, word)
			case word == "SKIP":
				emit(tSkip, word)
			case unicode.IsUpper(rune(word[0])):
				emit(tName, word)
			default:
				emit(tEvent, word)
			}
		default:
			return nil, &Error{
				Kind: ErrSyntax,
				File: filename,
				Line: line,
				Msg:  fmt.Sprintf("unexpected character %q", string(c)),
			}
		}
	}
	emit(tNewline, "\n")
	emit(tEOF, "")
	return tokens, nil
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '\'' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
