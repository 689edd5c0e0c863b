package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Diff renders a unified diff between two Properties bags, one "key: value"
// line per entry, keys sorted for a stable, reviewable rendering - used by
// configuration reload tooling to show an operator what changed between two
// loads of the same graph configuration. Grounded on viant-fluxor's
// service/action/system/patch.GenerateDiff, which builds the same kind of
// unified diff with github.com/pmezard/go-difflib over in-memory content
// instead of files on disk.
func Diff(from, to Properties, label string) (string, error) {
	fromLines := renderLines(from)
	toLines := renderLines(to)

	if strings.Join(fromLines, "") == strings.Join(toLines, "") {
		return "", nil
	}

	ud := difflib.UnifiedDiff{
		A:        fromLines,
		B:        toLines,
		FromFile: label + " (before)",
		ToFile:   label + " (after)",
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(ud)
}

func renderLines(p Properties) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %v\n", k, p[k]))
	}
	return lines
}
