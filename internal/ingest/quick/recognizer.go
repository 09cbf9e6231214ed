// Package quick parses one-line quick-entry text into structured workout
// data. A fixed chain of recognizers is tried in priority order; the first
// recognizer that can handle a line produces its outcome.
package quick

import "errors"

// ErrUnimplemented is returned by UnimplementedRecognizer.Parse. It signals
// a recognizer that was wired into a chain without a concrete Parse.
var ErrUnimplemented = errors.New("quick: recognizer not implemented")

// Recognizer interprets a single line of raw text. CanHandle must be a pure
// predicate and must agree with Parse: a recognizer may not accept a line and
// then fail unconditionally to parse it. The catch-all Fallback is the one
// exception; it accepts everything and always reports NoMatch. Parse assumes
// CanHandle returned true for the same text.
type Recognizer interface {
	CanHandle(text string) bool
	Parse(text string) (Outcome, error)
}

// UnimplementedRecognizer can be embedded by recognizers under construction.
// CanHandle reports true so that a recognizer missing a concrete Parse fails
// loudly with ErrUnimplemented on first use instead of silently matching
// nothing.
type UnimplementedRecognizer struct{}

func (UnimplementedRecognizer) CanHandle(string) bool { return true }

func (UnimplementedRecognizer) Parse(string) (Outcome, error) {
	return nil, ErrUnimplemented
}
