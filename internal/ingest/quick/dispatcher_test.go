package quick

import (
	"errors"
	"testing"
)

// stubRecognizer returns a canned outcome for inputs it claims.
type stubRecognizer struct {
	claims  func(string) bool
	outcome Outcome
}

func (s stubRecognizer) CanHandle(text string) bool    { return s.claims(text) }
func (s stubRecognizer) Parse(string) (Outcome, error) { return s.outcome, nil }

// TestDispatcherSetLine verifies a set line flows through the default chain
// to the set-line recognizer.
func TestDispatcherSetLine(t *testing.T) {
	d := NewWith(testClock)
	out, err := d.Parse("bench 8, 8, 7 x 100")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	entry, ok := out.(SetEntry)
	if !ok {
		t.Fatalf("Parse = %T, want SetEntry", out)
	}
	if entry.Exercise != "bench" || len(entry.Reps) != 3 {
		t.Errorf("entry = %+v, want bench with 3 sets", entry)
	}
}

// TestDispatcherCommandWinsOverSetLine verifies chain order: command text
// resolves to a CommandEntry because the command recognizer is consulted
// before the set-line recognizer.
func TestDispatcherCommandWinsOverSetLine(t *testing.T) {
	d := NewWith(testClock)
	for _, text := range []string{"end workout", "end", "END"} {
		out, err := d.Parse(text)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", text, err)
		}
		cmd, ok := out.(CommandEntry)
		if !ok {
			t.Fatalf("Parse(%q) = %T, want CommandEntry", text, out)
		}
		if cmd.Action != ActionEndWorkout {
			t.Errorf("Parse(%q) action = %q, want %q", text, cmd.Action, ActionEndWorkout)
		}
	}
}

// TestDispatcherGarbageIsNoMatch verifies unrecognized input reaches the
// fallback and comes back as NoMatch with no error.
func TestDispatcherGarbageIsNoMatch(t *testing.T) {
	d := New()
	for _, text := range []string{"", "just some text", "invalid input", "!!!", "1234"} {
		out, err := d.Parse(text)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", text, err)
			continue
		}
		if _, ok := out.(NoMatch); !ok {
			t.Errorf("Parse(%q) = %T, want NoMatch", text, out)
		}
	}
}

// TestDispatcherDeterministic verifies parsing the same line twice with the
// same clock yields identical entries.
func TestDispatcherDeterministic(t *testing.T) {
	d := NewWith(testClock)
	first, err := d.Parse("squat 5, 5 x 120 kg")
	if err != nil {
		t.Fatalf("first Parse error: %v", err)
	}
	second, err := d.Parse("squat 5, 5 x 120 kg")
	if err != nil {
		t.Fatalf("second Parse error: %v", err)
	}
	a, b := first.(SetEntry), second.(SetEntry)
	if a.Exercise != b.Exercise || a.Weight != b.Weight || a.Unit != b.Unit ||
		!equalReps(a.Reps, b.Reps) || !a.CapturedAt.Equal(b.CapturedAt) {
		t.Errorf("parses differ: %+v vs %+v", a, b)
	}
}

// TestDispatcherCustomChain verifies an injected chain replaces the default
// one and is consulted in the given order.
func TestDispatcherCustomChain(t *testing.T) {
	claimed := stubRecognizer{
		claims:  func(text string) bool { return text == "claimed" },
		outcome: CommandEntry{Action: ActionEndWorkout},
	}
	d := NewWith(testClock, claimed, Fallback{})

	out, err := d.Parse("claimed")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if _, ok := out.(CommandEntry); !ok {
		t.Errorf("Parse(claimed) = %T, want CommandEntry from stub", out)
	}

	out, err = d.Parse("bench 8 x 100")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if _, ok := out.(NoMatch); !ok {
		t.Errorf("Parse without set-line recognizer = %T, want NoMatch", out)
	}
}

// TestDispatcherWithoutFallback verifies a chain where nothing claims the
// input still returns NoMatch rather than an error.
func TestDispatcherWithoutFallback(t *testing.T) {
	d := NewWith(testClock, Command{})
	out, err := d.Parse("bench 8 x 100")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if _, ok := out.(NoMatch); !ok {
		t.Errorf("Parse = %T, want NoMatch", out)
	}
}

// TestUnimplementedRecognizerFailsLoudly verifies an embedded
// UnimplementedRecognizer claims everything and surfaces ErrUnimplemented,
// so a recognizer missing its Parse override cannot silently swallow input.
func TestUnimplementedRecognizerFailsLoudly(t *testing.T) {
	type draft struct{ UnimplementedRecognizer }
	d := NewWith(testClock, draft{}, Fallback{})
	_, err := d.Parse("bench 8 x 100")
	if !errors.Is(err, ErrUnimplemented) {
		t.Errorf("Parse error = %v, want ErrUnimplemented", err)
	}
}
