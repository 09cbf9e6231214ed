package quick

// Fallback is the catch-all recognizer, placed last in the chain. It accepts
// every line and always reports NoMatch, so the dispatcher never runs out of
// candidates.
type Fallback struct{}

// CanHandle always reports true.
func (Fallback) CanHandle(string) bool { return true }

// Parse always returns NoMatch; the fallback never produces a real record.
func (Fallback) Parse(string) (Outcome, error) {
	return NoMatch{}, nil
}
