package quick

import "strings"

// Command recognizes command lines. It runs before the set-line recognizer
// so a bare "end" can never be misread as exercise data.
type Command struct{}

// CanHandle reports whether the folded, trimmed text is exactly
// "end workout" or "end".
func (Command) CanHandle(text string) bool {
	switch strings.TrimSpace(strings.ToLower(text)) {
	case "end workout", "end":
		return true
	}
	return false
}

// Parse returns the end-workout command regardless of which variant matched.
func (Command) Parse(text string) (Outcome, error) {
	return CommandEntry{Action: ActionEndWorkout}, nil
}
