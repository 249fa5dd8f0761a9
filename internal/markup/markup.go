// Package markup interprets the inline syntax of displayed text: action links
// written as [label] or [label(shown text)], variable interpolations written
// as [:name:], and the optional leading "(stage direction)" of a dialogue line.
package markup

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	actionRe      = regexp.MustCompile(`\[([^\[\]():]+)(?:\(([^()]+)\))?\]`)
	interpolateRe = regexp.MustCompile(`\[:([A-Za-z_][A-Za-z0-9_]*):\]`)
	directionRe   = regexp.MustCompile(`^\(([^()]+)\)\s+(.+)$`)
)

// Segment is a run of displayed text. Action is set when the run is a link.
type Segment struct {
	Text   string `json:"text"`
	Action string `json:"action,omitempty"`
}

// Parse splits text into plain runs and action links.
func Parse(text string) []Segment {
	var segs []Segment
	last := 0
	for _, m := range actionRe.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			segs = append(segs, Segment{Text: text[last:m[0]]})
		}
		label := text[m[2]:m[3]]
		shown := label
		if m[4] >= 0 {
			shown = text[m[4]:m[5]]
		}
		segs = append(segs, Segment{Text: shown, Action: strings.TrimRight(label, " \t")})
		last = m[1]
	}
	if last < len(text) {
		segs = append(segs, Segment{Text: text[last:]})
	}
	return segs
}

// Actions returns the label names linked from text, in order.
func Actions(text string) []string {
	var names []string
	for _, seg := range Parse(text) {
		if seg.Action != "" {
			names = append(names, seg.Action)
		}
	}
	return names
}

// Interpolate replaces every [:name:] with the value returned by lookup.
func Interpolate(text string, lookup func(name string) int64) string {
	return interpolateRe.ReplaceAllStringFunc(text, func(m string) string {
		name := interpolateRe.FindStringSubmatch(m)[1]
		return strconv.FormatInt(lookup(name), 10)
	})
}

// SplitDirection separates a leading "(stage direction)" from dialogue text.
// The direction is returned without parentheses and is empty when absent.
func SplitDirection(text string) (direction, rest string) {
	m := directionRe.FindStringSubmatch(text)
	if m == nil {
		return "", text
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
}

// Plain renders segments as text, with links shown by their display text.
func Plain(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Text)
	}
	return b.String()
}
