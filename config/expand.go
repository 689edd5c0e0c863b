package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/viant/parsly"
)

// maxExpansionDepth bounds how many times ExpandString re-scans a value
// after a substitution, guarding against a placeholder cycle (e.g. a
// property whose value resolves back to itself, directly or through a
// chain of other properties).
const maxExpansionDepth = 8

// Lookup resolves a placeholder key to its replacement text. ok is false
// when the key is unknown, in which case the placeholder is left untouched
// in the expanded output rather than raising an error - the same
// leave-as-is fallback viant-fluxor's model/expander.expand applies to an
// unresolved $var reference.
type Lookup func(key string) (string, bool)

// PropertyLookup builds a Lookup over p: "${name}" resolves against p's own
// keys, stringified with Convert, and "${env.NAME}" resolves against the
// process environment. It is the default Lookup Expand uses, and the one a
// caller assembling proxel properties from a config bag plus the shell
// environment would pass to ExpandString directly.
func PropertyLookup(p PropertyList) Lookup {
	return func(key string) (string, bool) {
		if env, ok := strings.CutPrefix(key, "env."); ok {
			return os.LookupEnv(env)
		}

		raw, ok := p.Raw(key)
		if !ok {
			return "", false
		}
		if s, err := Convert[string](p, key); err == nil {
			return s, true
		}
		return fmt.Sprint(raw), true
	}
}

// Expand returns a copy of p with every ${...} placeholder inside its
// string values - including values nested in maps and slices - replaced
// using PropertyLookup(p). Grounded on viant-fluxor's model/expander.Expand,
// which walks the same map/slice/string shapes; Expand tokenizes
// placeholders with github.com/viant/parsly instead of viant-fluxor's
// regexp-plus-expression-evaluator pair, trading viant-fluxor's inline
// arithmetic expressions for a single-reference grammar.
func Expand(p Properties) (Properties, error) {
	lookup := PropertyLookup(p)
	out := make(Properties, len(p))
	for k, v := range p {
		expanded, err := expandValue(v, lookup)
		if err != nil {
			return nil, fmt.Errorf("config: expand %q: %w", k, err)
		}
		out[k] = expanded
	}
	return out, nil
}

func expandValue(v any, lookup Lookup) (any, error) {
	switch actual := v.(type) {
	case string:
		return ExpandString(actual, lookup)
	case Properties:
		out := make(Properties, len(actual))
		for k, item := range actual {
			expanded, err := expandValue(item, lookup)
			if err != nil {
				return nil, err
			}
			out[k] = expanded
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(actual))
		for k, item := range actual {
			expanded, err := expandValue(item, lookup)
			if err != nil {
				return nil, err
			}
			out[k] = expanded
		}
		return out, nil
	case []any:
		out := make([]any, len(actual))
		for i, item := range actual {
			expanded, err := expandValue(item, lookup)
			if err != nil {
				return nil, err
			}
			out[i] = expanded
		}
		return out, nil
	default:
		return v, nil
	}
}

// ExpandString replaces every ${key} placeholder in s using lookup. A
// substitution's own value may itself contain further placeholders (a
// chain of property references); ExpandString keeps re-scanning its output
// until nothing new resolves or maxExpansionDepth is reached.
func ExpandString(s string, lookup Lookup) (string, error) {
	return expandString(s, lookup, 0)
}

func expandString(s string, lookup Lookup, depth int) (string, error) {
	if !strings.Contains(s, "${") {
		return s, nil
	}
	if depth >= maxExpansionDepth {
		return "", fmt.Errorf("config: placeholder expansion exceeded depth %d, possible cycle in %q", maxExpansionDepth, s)
	}

	cursor := parsly.NewCursor("", []byte(s), 0)
	var out strings.Builder
	expandedAny := false

	for cursor.Pos < cursor.InputSize {
		matched := cursor.MatchAny(placeholderOpenToken, literalToken)
		switch matched.Code {
		case placeholderOpenCode:
			key, err := matchPlaceholderKey(cursor)
			if err != nil {
				return "", err
			}
			value, ok := lookup(key)
			if !ok {
				out.WriteString("${" + key + "}")
				continue
			}
			expandedAny = true
			out.WriteString(value)
		case literalCode:
			out.WriteString(matched.Text(cursor))
		default:
			return "", cursor.NewError(literalToken)
		}
	}

	result := out.String()
	if !expandedAny || !strings.Contains(result, "${") {
		return result, nil
	}
	return expandString(result, lookup, depth+1)
}

func matchPlaceholderKey(cursor *parsly.Cursor) (string, error) {
	matched := cursor.MatchOne(placeholderKeyToken)
	if matched.Code != placeholderKeyToken.Code {
		return "", cursor.NewError(placeholderKeyToken)
	}
	key := matched.Text(cursor)

	closing := cursor.MatchOne(placeholderCloseToken)
	if closing.Code != placeholderCloseToken.Code {
		return "", cursor.NewError(placeholderCloseToken)
	}
	return key, nil
}
