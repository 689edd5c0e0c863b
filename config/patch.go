package config

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	sgdiff "github.com/sourcegraph/go-diff/diff"
)

// ApplyPatch applies a single-file unified diff - the kind Diff produces -
// to old, returning the patched content. Grounded on viant-fluxor's
// service/action/system/patch.Session.ApplyPatch and its helper applyHunks,
// trimmed to the in-memory single-file case a config reload actually needs:
// no filesystem session, rollback, rename, or add/delete handling, since
// those exist to apply a patch to files on disk rather than to a config
// document already held in memory.
func ApplyPatch(old []byte, patchText string) ([]byte, error) {
	fd, err := sgdiff.ParseFileDiff([]byte(patchText))
	if err != nil {
		return nil, fmt.Errorf("config: parse patch: %w", err)
	}

	var buf bytes.Buffer
	if err := applyHunks(old, fd.Hunks, &buf); err != nil {
		return nil, fmt.Errorf("config: apply patch: %w", err)
	}
	return buf.Bytes(), nil
}

// applyHunks walks oldData's lines sequentially against hunks, verifying
// every context and delete line for consistency and emitting additions; any
// mismatch aborts with an error instead of producing a corrupted result.
func applyHunks(oldData []byte, hunks []*sgdiff.Hunk, w io.Writer) error {
	oldLines := strings.SplitAfter(string(oldData), "\n")
	origIdx := 0

	linesEqual := func(a, b string) bool {
		if a == b {
			return true
		}
		// SplitAfter leaves a trailing empty string where the hunk instead
		// encodes an explicit "\n" context line for the same end-of-file.
		return (a == "" && b == "\n") || (a == "\n" && b == "")
	}

	for _, h := range hunks {
		targetIdx := int(h.OrigStartLine) - 1
		for origIdx < targetIdx && origIdx < len(oldLines) {
			if _, err := io.WriteString(w, oldLines[origIdx]); err != nil {
				return err
			}
			origIdx++
		}

		for _, hl := range strings.SplitAfter(string(h.Body), "\n") {
			if hl == "" {
				continue
			}
			tag := hl[0]
			line := hl[1:]

			switch tag {
			case ' ':
				if origIdx >= len(oldLines) || !linesEqual(oldLines[origIdx], line) {
					return fmt.Errorf("context mismatch at original line %d", origIdx+1)
				}
				if !(oldLines[origIdx] == "" && line == "\n") {
					if _, err := io.WriteString(w, line); err != nil {
						return err
					}
				}
				origIdx++

			case '-':
				if origIdx >= len(oldLines) || !linesEqual(oldLines[origIdx], line) {
					return fmt.Errorf("delete mismatch at original line %d", origIdx+1)
				}
				origIdx++

			case '+':
				if _, err := io.WriteString(w, line); err != nil {
					return err
				}

			case '\\':
				continue

			default:
				return fmt.Errorf("unexpected hunk tag %q", tag)
			}
		}
	}

	for origIdx < len(oldLines) {
		if _, err := io.WriteString(w, oldLines[origIdx]); err != nil {
			return err
		}
		origIdx++
	}
	return nil
}
