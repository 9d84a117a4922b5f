package diagnostics

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	crawlerverse "github.com/crawlerverse/crawlerverse-go"
)

func testObservation(t *testing.T) *crawlerverse.Observation {
	t.Helper()
	var obs crawlerverse.Observation
	err := json.Unmarshal([]byte(`{
		"turn": 1,
		"floor": 1,
		"player": {"position": [5, 5], "hp": 20, "maxHp": 20, "attack": 5, "defense": 3},
		"inventory": [],
		"visibleTiles": [
			{"x": 5, "y": 5, "type": "floor", "items": []},
			{"x": 5, "y": 4, "type": "wall", "items": []},
			{"x": 6, "y": 5, "type": "floor", "items": [],
				"monster": {"type": "goblin", "hp": 6, "maxHp": 8}},
			{"x": 4, "y": 5, "type": "floor", "items": []},
			{"x": 5, "y": 6, "type": "stairs_down", "items": []}
		],
		"messages": []
	}`), &obs)
	if err != nil {
		t.Fatalf("Failed to unmarshal observation: %v", err)
	}
	return &obs
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"yes", true},
		{" yes ", true},
		{"", false},
		{"0", false},
		{"no", false},
	}
	for _, tt := range tests {
		t.Setenv("CRAWLERVERSE_DEBUG", tt.value)
		if got := Enabled(); got != tt.want {
			t.Errorf("Enabled() with %q = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestRenderMap(t *testing.T) {
	out := RenderMap(testObservation(t), 1)

	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 rows for radius 1, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "#") {
		t.Errorf("Expected a wall north of the player: %q", lines[0])
	}
	if !strings.Contains(lines[1], "@") {
		t.Errorf("Expected the player in the middle row: %q", lines[1])
	}
	if !strings.Contains(lines[1], "M") {
		t.Errorf("Expected the goblin east of the player: %q", lines[1])
	}
	if !strings.Contains(lines[2], ">") {
		t.Errorf("Expected stairs south of the player: %q", lines[2])
	}
	if !strings.Contains(out, "?") {
		t.Errorf("Expected unseen tiles rendered as ?: %q", out)
	}
}

func newEnabledTracker(t *testing.T) (*Tracker, *bytes.Buffer) {
	t.Helper()
	t.Setenv("CRAWLERVERSE_DEBUG", "1")
	var buf bytes.Buffer
	return NewTracker(&buf), &buf
}

func TestTrackerFlagsBlockedMove(t *testing.T) {
	tracker, buf := newEnabledTracker(t)

	tracker.OnAction(testObservation(t), crawlerverse.Move{Direction: crawlerverse.North})

	out := buf.String()
	if !strings.Contains(out, "INVALID MOVE") {
		t.Errorf("Expected an invalid-move warning, got:\n%s", out)
	}
	if !strings.Contains(out, "wall") {
		t.Errorf("Expected the target tile description, got:\n%s", out)
	}
}

func TestTrackerAcceptsValidMove(t *testing.T) {
	tracker, buf := newEnabledTracker(t)

	tracker.OnAction(testObservation(t), crawlerverse.Move{Direction: crawlerverse.West})

	if strings.Contains(buf.String(), "INVALID MOVE") {
		t.Errorf("Valid move flagged as invalid:\n%s", buf.String())
	}
}

func TestTrackerPositionMismatch(t *testing.T) {
	tracker, buf := newEnabledTracker(t)

	obs := testObservation(t)
	tracker.OnAction(obs, crawlerverse.Move{Direction: crawlerverse.West})

	// The service reports a move east even though west was requested.
	next := testObservation(t)
	next.Player.Position = crawlerverse.Position{X: 6, Y: 5}
	tracker.OnResult(next)

	if !strings.Contains(buf.String(), "POSITION MISMATCH") {
		t.Errorf("Expected a position mismatch warning, got:\n%s", buf.String())
	}
}

func TestTrackerUnexpectedMovement(t *testing.T) {
	tracker, buf := newEnabledTracker(t)

	obs := testObservation(t)
	tracker.OnAction(obs, crawlerverse.Wait{})

	next := testObservation(t)
	next.Player.Position = crawlerverse.Position{X: 4, Y: 5}
	tracker.OnResult(next)

	if !strings.Contains(buf.String(), "UNEXPECTED MOVEMENT") {
		t.Errorf("Expected an unexpected-movement warning, got:\n%s", buf.String())
	}
}

func TestTrackerBlockedMoveIsNotMismatch(t *testing.T) {
	tracker, buf := newEnabledTracker(t)

	obs := testObservation(t)
	tracker.OnAction(obs, crawlerverse.Move{Direction: crawlerverse.West})
	// Position unchanged: the move was blocked server-side. Normal.
	tracker.OnResult(testObservation(t))

	if strings.Contains(buf.String(), "POSITION MISMATCH") {
		t.Errorf("Blocked move flagged as mismatch:\n%s", buf.String())
	}
}

func TestTrackerDisabled(t *testing.T) {
	t.Setenv("CRAWLERVERSE_DEBUG", "")
	var buf bytes.Buffer
	tracker := NewTracker(&buf)

	tracker.OnAction(testObservation(t), crawlerverse.Move{Direction: crawlerverse.North})
	if buf.Len() != 0 {
		t.Errorf("Disabled tracker must stay silent, got:\n%s", buf.String())
	}
	if tracker.StepCallback() != nil {
		t.Error("Disabled tracker must return a nil step callback")
	}
}
