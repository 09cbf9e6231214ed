package quick

import "time"

// Dispatcher tries recognizers in fixed priority order and returns the first
// applicable one's outcome. The chain is immutable after construction and
// holds no mutable state, so a single Dispatcher is safe for concurrent use.
type Dispatcher struct {
	recognizers []Recognizer
}

// New returns a Dispatcher over the default chain: commands first, then set
// lines, then the catch-all fallback. The order is a contract: "end" must
// resolve as a command even though an exercise could be named "end", and a
// real set line must never be lost to the fallback.
func New() *Dispatcher {
	return NewWith(time.Now)
}

// NewWith returns a Dispatcher over the default chain with a custom clock
// for the set-line capture timestamp. Extra recognizers, when given, replace
// the default chain entirely (used by tests to inject a custom order).
func NewWith(now func() time.Time, recognizers ...Recognizer) *Dispatcher {
	if len(recognizers) == 0 {
		recognizers = []Recognizer{Command{}, NewSetLine(now), Fallback{}}
	}
	return &Dispatcher{recognizers: recognizers}
}

// Parse returns the outcome of the first recognizer that accepts the line.
// With the default chain this is total: the fallback accepts everything, so
// the trailing NoMatch return is only reachable through a custom chain that
// omits a catch-all.
func (d *Dispatcher) Parse(text string) (Outcome, error) {
	for _, r := range d.recognizers {
		if r.CanHandle(text) {
			return r.Parse(text)
		}
	}
	return NoMatch{}, nil
}
