// Boolean query parsing.
//
// A keyword query such as `foo & !bar | (baz qux)` is tokenized by padding
// the operator characters & | ! ( ) with spaces and splitting on whitespace.
// Adjacent operands are joined by an implicit AND, so `baz qux` means
// `baz & qux`. The infix token stream is then converted to postfix with the
// shunting-yard algorithm: NOT binds tightest and is right-associative, AND
// binds tighter than OR, both left-associative.
//
// The parser never rejects input. Unbalanced parentheses are closed at end
// of input and stray closing parentheses are dropped; an operator without
// enough operands is left for the evaluator, which fails closed.
package trdb

import (
	"strings"
)

// TokenKind classifies a query token.
type TokenKind int

const (
	TokenTerm TokenKind = iota
	TokenAnd
	TokenOr
	TokenNot
	TokenOpen
	TokenClose
)

// Token is a single element of a parsed query. Text is only meaningful for
// TokenTerm.
type Token struct {
	Kind TokenKind
	Text string
}

func (t Token) String() string {
	switch t.Kind {
	case TokenAnd:
		return "AND"
	case TokenOr:
		return "OR"
	case TokenNot:
		return "NOT"
	case TokenOpen:
		return "("
	case TokenClose:
		return ")"
	default:
		return t.Text
	}
}

func (t Token) isOperator() bool {
	return t.Kind == TokenAnd || t.Kind == TokenOr || t.Kind == TokenNot
}

var operatorPad = strings.NewReplacer(
	"&", " & ",
	"|", " | ",
	"!", " ! ",
	"(", " ( ",
	")", " ) ",
)

// Tokenize splits a keyword query into tokens and inserts an implicit AND
// wherever a term or closing parenthesis is directly followed by a term, an
// opening parenthesis or NOT. An empty or blank query yields no tokens.
func Tokenize(query string) []Token {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	parts := strings.Fields(operatorPad.Replace(query))
	tokens := make([]Token, 0, len(parts)*2)

	var prev *Token
	for _, part := range parts {
		tok := classify(part)
		if prev != nil && (prev.Kind == TokenTerm || prev.Kind == TokenClose) &&
			(tok.Kind == TokenTerm || tok.Kind == TokenOpen || tok.Kind == TokenNot) {
			tokens = append(tokens, Token{Kind: TokenAnd})
		}
		tokens = append(tokens, tok)
		prev = &tokens[len(tokens)-1]
	}
	return tokens
}

func classify(part string) Token {
	switch part {
	case "&":
		return Token{Kind: TokenAnd}
	case "|":
		return Token{Kind: TokenOr}
	case "!":
		return Token{Kind: TokenNot}
	case "(":
		return Token{Kind: TokenOpen}
	case ")":
		return Token{Kind: TokenClose}
	}
	return Token{Kind: TokenTerm, Text: part}
}

func precedence(k TokenKind) int {
	switch k {
	case TokenNot:
		return 3
	case TokenAnd:
		return 2
	case TokenOr:
		return 1
	}
	return 0
}

// ToRPN converts an infix token sequence to postfix order. Parentheses do not
// appear in the output.
func ToRPN(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	var ops []Token

	for _, tok := range tokens {
		switch tok.Kind {
		case TokenTerm:
			out = append(out, tok)
		case TokenOpen:
			ops = append(ops, tok)
		case TokenClose:
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				ops = ops[:len(ops)-1]
				if top.Kind == TokenOpen {
					break
				}
				out = append(out, top)
			}
		default:
			right := tok.Kind == TokenNot
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				if !top.isOperator() {
					break
				}
				tp, cp := precedence(top.Kind), precedence(tok.Kind)
				if (right && cp < tp) || (!right && cp <= tp) {
					out = append(out, top)
					ops = ops[:len(ops)-1]
					continue
				}
				break
			}
			ops = append(ops, tok)
		}
	}

	for i := len(ops) - 1; i >= 0; i-- {
		if ops[i].Kind == TokenOpen {
			continue
		}
		out = append(out, ops[i])
	}
	return out
}

// EvalRPN evaluates a postfix expression with a boolean stack, resolving each
// term through leaf. An empty expression is true. A missing operand makes
// the whole expression false.
func EvalRPN(rpn []Token, leaf func(term string) bool) bool {
	if len(rpn) == 0 {
		return true
	}

	stack := make([]bool, 0, len(rpn))
	for _, tok := range rpn {
		switch tok.Kind {
		case TokenTerm:
			stack = append(stack, leaf(tok.Text))
		case TokenNot:
			if len(stack) < 1 {
				return false
			}
			stack[len(stack)-1] = !stack[len(stack)-1]
		case TokenAnd, TokenOr:
			if len(stack) < 2 {
				return false
			}
			l, r := stack[len(stack)-2], stack[len(stack)-1]
			stack = stack[:len(stack)-2]
			if tok.Kind == TokenAnd {
				stack = append(stack, l && r)
			} else {
				stack = append(stack, l || r)
			}
		}
	}

	if len(stack) == 0 {
		return false
	}
	return stack[len(stack)-1]
}
