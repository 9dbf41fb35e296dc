// Package detect scans extracted document text for bracket-delimited fill-in
// markers and produces an ordered, de-duplicated field list.
package detect

import (
	"errors"
	"regexp"
	"strings"

	"github.com/tbxark/docfill/types"
)

// ErrNoFields is returned by Require when a document contains no fillable
// markers. Detect itself never fails; an empty list is a valid result that
// the caller interprets.
var ErrNoFields = errors.New("no fillable fields detected in document")

var (
	markerRe   = regexp.MustCompile(`\[([^\[\]]*)\]`)
	blankRe    = regexp.MustCompile(`^[_\s]+$`)
	nonAlnumRe = regexp.MustCompile(`[^A-Z0-9]+`)
)

const (
	contextBefore = 80
	contextAfter  = 20
)

// Detect scans text for `[NAME]` and `[____]` markers and returns the field
// list in first-occurrence order. Duplicate names collapse to one entry; the
// first occurrence's literal text and description win. Deterministic: the
// same text always yields the same list.
func Detect(text string) []*types.Field {
	var ordered []*types.Field
	byName := make(map[string]*types.Field)
	seenOffsets := make(map[int]bool)

	for _, span := range markerRe.FindAllStringSubmatchIndex(text, -1) {
		start, end := span[0], span[1]
		if seenOffsets[start] {
			continue
		}
		seenOffsets[start] = true

		literal := text[span[2]:span[3]]
		content := strings.TrimSpace(literal)
		if content == "" {
			continue
		}

		var field *types.Field
		if blankRe.MatchString(content) {
			field = inferBlankField(text, start, end, literal)
		} else {
			field = buildNamedField(literal, content)
		}
		if field == nil {
			continue
		}
		if _, ok := byName[field.Name]; ok {
			continue
		}
		byName[field.Name] = field
		ordered = append(ordered, field)
	}
	return ordered
}

// Require rejects a zero-field document at the boundary.
func Require(fields []*types.Field) error {
	if len(fields) == 0 {
		return ErrNoFields
	}
	return nil
}

func buildNamedField(literal, content string) *types.Field {
	name := NormalizeName(content)
	if name == "" {
		return nil
	}
	ftype, desc := classifyName(name)
	return &types.Field{
		Name:         name,
		OriginalText: literal,
		Type:         ftype,
		Description:  desc,
	}
}

func inferBlankField(text string, start, end int, literal string) *types.Field {
	lo := start - contextBefore
	if lo < 0 {
		lo = 0
	}
	hi := end + contextAfter
	if hi > len(text) {
		hi = len(text)
	}
	window := text[lo:start] + text[end:hi]

	rule, ok := inferFromContext(window)
	if !ok {
		return nil
	}
	return &types.Field{
		Name:         rule.name,
		OriginalText: literal,
		Type:         rule.ftype,
		Description:  rule.description,
	}
}

// NormalizeName converts literal marker content to its stable identifier:
// upper-case, every run of non [A-Z0-9] becomes one underscore, leading and
// trailing underscores trimmed.
func NormalizeName(content string) string {
	name := strings.ToUpper(content)
	name = nonAlnumRe.ReplaceAllString(name, "_")
	return strings.Trim(name, "_")
}
