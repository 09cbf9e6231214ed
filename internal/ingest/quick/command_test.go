package quick

import "testing"

// TestCommandEndWorkout verifies every accepted spelling of the end-workout
// command, including case and surrounding whitespace.
func TestCommandEndWorkout(t *testing.T) {
	r := Command{}
	for _, text := range []string{
		"end workout",
		"end",
		"END",
		"End Workout",
		"  end  ",
		"\tend workout\n",
	} {
		if !r.CanHandle(text) {
			t.Errorf("CanHandle(%q) = false, want true", text)
			continue
		}
		out, err := r.Parse(text)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", text, err)
			continue
		}
		cmd, ok := out.(CommandEntry)
		if !ok {
			t.Errorf("Parse(%q) = %T, want CommandEntry", text, out)
			continue
		}
		if cmd.Action != ActionEndWorkout {
			t.Errorf("Parse(%q) action = %q, want %q", text, cmd.Action, ActionEndWorkout)
		}
	}
}

// TestCommandRejects verifies near-miss phrases are not treated as
// commands. Matching is exact after trimming and folding, not prefix-based.
func TestCommandRejects(t *testing.T) {
	r := Command{}
	for _, text := range []string{
		"",
		"ending",
		"end it",
		"end the workout",
		"workout end",
		"bench 8 x 100",
	} {
		if r.CanHandle(text) {
			t.Errorf("CanHandle(%q) = true, want false", text)
		}
	}
}
