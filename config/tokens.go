package config

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes for the ${...} placeholder tokenizer used by Expand.
const (
	literalCode = iota
	placeholderOpenCode
	placeholderKeyCode
	placeholderCloseCode
)

var (
	literalToken          = parsly.NewToken(literalCode, "Literal", newLiteralMatcher())
	placeholderOpenToken  = parsly.NewToken(placeholderOpenCode, "${", newPlaceholderOpenMatcher())
	placeholderKeyToken   = parsly.NewToken(placeholderKeyCode, "PlaceholderKey", newPlaceholderKeyMatcher())
	placeholderCloseToken = parsly.NewToken(placeholderCloseCode, "}", matcher.NewByte('}'))
)

func newPlaceholderOpenMatcher() parsly.Matcher { return &placeholderOpenMatcher{} }
func newPlaceholderKeyMatcher() parsly.Matcher  { return &placeholderKeyMatcher{} }
func newLiteralMatcher() parsly.Matcher         { return &literalMatcher{} }

// placeholderOpenMatcher matches the two byte "${" sequence that introduces
// a placeholder reference.
type placeholderOpenMatcher struct{}

func (m *placeholderOpenMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos+1 >= size {
		return 0
	}
	if input[pos] == '$' && input[pos+1] == '{' {
		return 2
	}
	return 0
}

// placeholderKeyMatcher captures everything up to the closing brace. The
// key's own meaning (a property name, or an "env." prefixed environment
// variable name) is decided by the caller, not by the tokenizer.
type placeholderKeyMatcher struct{}

func (m *placeholderKeyMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	matched := 0
	for i := pos; i < size; i++ {
		if input[i] == '}' {
			break
		}
		matched++
	}
	return matched
}

// literalMatcher captures everything up to (but not including) the next
// "${" sequence, or to the end of input if no placeholder follows.
type literalMatcher struct{}

func (m *literalMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	matched := 0
	for i := pos; i < size; i++ {
		if input[i] == '$' && i+1 < size && input[i+1] == '{' {
			break
		}
		matched++
	}
	return matched
}
