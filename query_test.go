// Query parsing tests.
//
// Tokenize and ToRPN turn free text into a postfix boolean expression. The
// cases below pin implicit AND insertion, operator precedence and the
// lenient handling of unbalanced parentheses, since any change there alters
// which records a saved query returns.
package trdb

import (
	"slices"
	"strings"
	"testing"
)

func render(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"", ""},
		{"   ", ""},
		{"foo", "foo"},
		{"a b", "a AND b"},
		{"a & b", "a AND b"},
		{"a|b", "a OR b"},
		{"!a", "NOT a"},
		{"a !b", "a AND NOT b"},
		{"(a b) c", "( a AND b ) AND c"},
		{"a (b)", "a AND ( b )"},
		{"foo & !bar | (baz qux)", "foo AND NOT bar OR ( baz AND qux )"},
		{"日本 語", "日本 AND 語"},
		{"a&&b", "a AND AND b"},
	}

	for _, tt := range tests {
		got := render(Tokenize(tt.query))
		if got != tt.want {
			t.Errorf("Tokenize(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

// TestTokenizeImplicitAnd verifies that a space between terms is the same
// as an explicit &.
func TestTokenizeImplicitAnd(t *testing.T) {
	if !slices.Equal(Tokenize("a b"), Tokenize("a & b")) {
		t.Errorf("Tokenize(%q) != Tokenize(%q)", "a b", "a & b")
	}
}

func TestToRPN(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"a", "a"},
		{"a b", "a b AND"},
		{"a | b c", "a b c AND OR"},
		{"a b | c", "a b AND c OR"},
		{"(a | b) c", "a b OR c AND"},
		{"!a b", "a NOT b AND"},
		{"!!a", "a NOT NOT"},
		{"a | !b & c", "a b NOT c AND OR"},
		{"a | b | c", "a b OR c OR"},
		// Unclosed parentheses are closed at the end.
		{"(a | b", "a b OR"},
		{"((a", "a"},
		// A stray closing parenthesis is dropped.
		{"a) b", "a b AND"},
	}

	for _, tt := range tests {
		got := render(ToRPN(Tokenize(tt.query)))
		if got != tt.want {
			t.Errorf("ToRPN(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestEvalRPN(t *testing.T) {
	present := map[string]bool{"a": true, "b": false, "c": true}
	leaf := func(term string) bool { return present[term] }

	tests := []struct {
		query string
		want  bool
	}{
		{"a", true},
		{"b", false},
		{"a b", false},
		{"a | b", true},
		{"!b", true},
		{"a !b", true},
		{"(a | b) c", true},
		{"b | !a", false},
	}

	for _, tt := range tests {
		got := EvalRPN(ToRPN(Tokenize(tt.query)), leaf)
		if got != tt.want {
			t.Errorf("EvalRPN(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

// TestEvalRPNMissingOperand verifies that malformed expressions fail closed
// instead of panicking on an empty stack.
func TestEvalRPNMissingOperand(t *testing.T) {
	always := func(string) bool { return true }

	tests := []struct {
		name string
		rpn  []Token
	}{
		{"lone AND", []Token{{Kind: TokenAnd}}},
		{"lone NOT", []Token{{Kind: TokenNot}}},
		{"AND with one operand", []Token{{Kind: TokenTerm, Text: "a"}, {Kind: TokenAnd}}},
		{"OR with one operand", []Token{{Kind: TokenTerm, Text: "a"}, {Kind: TokenOr}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if EvalRPN(tt.rpn, always) {
				t.Errorf("EvalRPN = true, want false")
			}
		})
	}

	// "a & | b" parses to an operator chain that runs out of operands.
	if EvalRPN(ToRPN(Tokenize("a & | b")), always) {
		t.Error(`EvalRPN("a & | b") = true, want false`)
	}
}

func TestEvalRPNEmpty(t *testing.T) {
	if !EvalRPN(nil, func(string) bool { return false }) {
		t.Error("empty expression should be true")
	}
}
