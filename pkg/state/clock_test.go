package state

import "testing"

func TestAdvanceTime(t *testing.T) {
	gs := NewGameState()
	if gs.CurrentTime != "23:00" {
		t.Fatalf("start time = %s, want 23:00", gs.CurrentTime)
	}

	if sunrise := gs.AdvanceTime(30); sunrise {
		t.Error("23:30 is not sunrise")
	}
	if gs.CurrentTime != "23:30" {
		t.Errorf("time = %s, want 23:30", gs.CurrentTime)
	}

	gs.AdvanceTime(30)
	if gs.CurrentTime != "00:00" {
		t.Errorf("time = %s, want 00:00 after midnight wrap", gs.CurrentTime)
	}

	if sunrise := gs.AdvanceTime(6 * 60); !sunrise {
		t.Error("expected sunrise at 06:00")
	}
	if gs.CurrentTime != "06:00" {
		t.Errorf("time = %s, want 06:00", gs.CurrentTime)
	}

	// Clock pins at sunrise.
	if gs.AdvanceTime(60) {
		t.Error("advancing past sunrise should not report sunrise again")
	}
	if gs.CurrentTime != "06:00" {
		t.Errorf("time moved past sunrise: %s", gs.CurrentTime)
	}
}

func TestAdvanceTimeDeadSession(t *testing.T) {
	gs := NewGameState()
	gs.Kill()
	if gs.AdvanceTime(60) {
		t.Error("dead session should not reach sunrise")
	}
	if gs.CurrentTime != "23:00" {
		t.Errorf("dead session clock moved: %s", gs.CurrentTime)
	}
}

func TestElapsedMinutes(t *testing.T) {
	tests := []struct {
		clock string
		want  int
	}{
		{"23:00", 0},
		{"23:45", 45},
		{"00:00", 60},
		{"03:30", 270},
		{"06:00", 420},
	}
	for _, tt := range tests {
		gs := NewGameState()
		gs.CurrentTime = tt.clock
		if got := gs.ElapsedMinutes(); got != tt.want {
			t.Errorf("ElapsedMinutes at %s = %d, want %d", tt.clock, got, tt.want)
		}
	}
}

func TestHourCrossed(t *testing.T) {
	if HourCrossed(50, 59) {
		t.Error("no hour boundary between 50 and 59")
	}
	if !HourCrossed(59, 61) {
		t.Error("expected boundary between 59 and 61")
	}
	if !HourCrossed(119, 180) {
		t.Error("expected boundary between 119 and 180")
	}
}
