package quick

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// setLineRe matches: "bench 8, 8, 7 x 100", "deadlift 10 x 225 lbs",
// "barbell bench press 8 x 100", "curl 10 x 50,5 kg".
// The label is non-greedy and the set list and weight anchor on rigid
// numeric shapes, so multi-word exercise names never swallow the digits.
var setLineRe = regexp.MustCompile(`^\s*(.+?)\s+(\d+(?:\s*[,\s]\s*\d+)*)\s*x\s*(\d+(?:[.,]\d+)?)\s*(kg|lbs|lb)?\s*$`)

// ErrMalformedEntry is returned when a line matches the set-line shape but a
// captured numeric token does not parse (in practice only integer overflow).
// The policy is a deterministic hard failure, never a silent NoMatch.
var ErrMalformedEntry = errors.New("quick: malformed set entry")

// SetLine recognizes exercise-set lines of the shape
// <exercise> <reps>[, <reps>...] x <weight>[<unit>].
type SetLine struct {
	now func() time.Time
}

// NewSetLine creates a set-line recognizer. A nil clock means time.Now.
func NewSetLine(now func() time.Time) SetLine {
	if now == nil {
		now = time.Now
	}
	return SetLine{now: now}
}

// CanHandle reports whether the case-folded text matches the set-line shape.
func (r SetLine) CanHandle(text string) bool {
	return setLineRe.MatchString(strings.ToLower(text))
}

// Parse extracts a SetEntry from a set line. The whole input is case-folded
// first, so the stored exercise name is lowercase. The weight accepts both
// "." and "," as fractional separator; a missing unit suffix defaults to kg,
// and an explicit suffix is kept as typed ("lb" and "lbs" stay distinct).
func (r SetLine) Parse(text string) (Outcome, error) {
	m := setLineRe.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return nil, fmt.Errorf("quick: not a set line: %q", text)
	}

	reps, err := parseReps(m[2])
	if err != nil {
		return nil, err
	}

	weight, err := parseDecimal(m[3])
	if err != nil {
		return nil, fmt.Errorf("%w: weight %q", ErrMalformedEntry, m[3])
	}

	unit := UnitKg
	if m[4] != "" {
		unit = Unit(m[4])
	}

	return SetEntry{
		Exercise:   strings.TrimSpace(m[1]),
		Reps:       reps,
		Weight:     weight,
		Unit:       unit,
		CapturedAt: r.now(),
	}, nil
}

// parseReps splits a set list on commas and whitespace and parses each token
// as an integer. Splitting on both separators keeps the accepted grammar
// ("8, 8, 7", "8 8 7", "8,8,7") and the extractor in exact agreement: every
// list CanHandle accepts yields one rep count per set, in set order.
func parseReps(s string) ([]int, error) {
	tokens := strings.FieldsFunc(s, func(c rune) bool {
		return c == ',' || unicode.IsSpace(c)
	})
	reps := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: reps token %q", ErrMalformedEntry, tok)
		}
		reps = append(reps, n)
	}
	return reps, nil
}

// parseDecimal converts a decimal string to float64, accepting "," as the
// fractional separator ("50,5" -> 50.5).
func parseDecimal(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	return strconv.ParseFloat(s, 64)
}
