package state

import (
	"encoding/json"
	"testing"
	"time"
)

func TestUpdateFearClamping(t *testing.T) {
	gs := NewGameState()

	deltas := []float64{50, 200, -500, 30, -10, 1000, -1000, 5}
	for _, d := range deltas {
		gs.UpdateFear(d)
		if gs.FearLevel < 0 || gs.FearLevel > 100 {
			t.Fatalf("fear level %f out of [0,100] after delta %f", gs.FearLevel, d)
		}
	}
}

func TestUpdateFearTransitions(t *testing.T) {
	gs := NewGameState()

	// 0 -> 5 stays calm: no transition.
	if ch := gs.UpdateFear(5); ch.Transition {
		t.Error("expected no transition within the calm bucket")
	}
	// 5 -> 15 crosses into nervous.
	ch := gs.UpdateFear(10)
	if !ch.Transition || ch.State != FearNervous {
		t.Errorf("expected transition to nervous, got %+v", ch)
	}
	// 15 -> 95 crosses to overwhelmed.
	ch = gs.UpdateFear(80)
	if !ch.Transition || ch.State != FearOverwhelmed {
		t.Errorf("expected transition to overwhelmed, got %+v", ch)
	}
}

func TestDiscretizeFear(t *testing.T) {
	tests := []struct {
		level float64
		want  FearState
	}{
		{0, FearCalm},
		{9.9, FearCalm},
		{10, FearNervous},
		{25, FearScared},
		{49, FearScared},
		{50, FearTerrified},
		{75, FearPanicked},
		{89.9, FearPanicked},
		{90, FearOverwhelmed},
		{100, FearOverwhelmed},
	}
	for _, tt := range tests {
		if got := DiscretizeFear(tt.level); got != tt.want {
			t.Errorf("DiscretizeFear(%f) = %s, want %s", tt.level, got, tt.want)
		}
	}
}

func TestDiscretizeHealth(t *testing.T) {
	tests := []struct {
		level float64
		want  HealthState
	}{
		{100, HealthExcellent},
		{90, HealthExcellent},
		{75, HealthGood},
		{50, HealthInjured},
		{25, HealthWounded},
		{10, HealthCritical},
		{9, HealthDying},
		{0, HealthDying},
	}
	for _, tt := range tests {
		if got := DiscretizeHealth(tt.level); got != tt.want {
			t.Errorf("DiscretizeHealth(%f) = %s, want %s", tt.level, got, tt.want)
		}
	}
}

func TestDeathIsIrreversible(t *testing.T) {
	gs := NewGameState()
	if gs.FearLevel != 0 || gs.Health != 100 || !gs.IsAlive {
		t.Fatalf("unexpected starting state: %+v", gs)
	}

	ch := gs.UpdateHealth(-100)
	if !ch.Died || gs.IsAlive {
		t.Fatalf("expected death at zero health, got %+v alive=%v", ch, gs.IsAlive)
	}
	if ch.ChangeType != "damage" {
		t.Errorf("expected changeType damage, got %q", ch.ChangeType)
	}

	gs.UpdateHealth(50)
	if gs.IsAlive {
		t.Error("healing a dead session must not revive it")
	}
	if gs.Health != 0 {
		t.Errorf("dead session health changed to %f", gs.Health)
	}
	gs.UpdateFear(-10)
	if gs.FearLevel != 0 && gs.FearLevel != gs.Snapshot().FearLevel {
		t.Error("dead session fear mutated inconsistently")
	}
	if gs.Outcome != OutcomeDied {
		t.Errorf("expected outcome died, got %q", gs.Outcome)
	}
}

func TestHealthChangeType(t *testing.T) {
	gs := NewGameState()
	gs.UpdateHealth(-30)

	ch := gs.UpdateHealth(10)
	if ch.ChangeType != "heal" {
		t.Errorf("expected heal, got %q", ch.ChangeType)
	}
	ch = gs.UpdateHealth(-10)
	if ch.ChangeType != "damage" {
		t.Errorf("expected damage, got %q", ch.ChangeType)
	}
}

func TestMarkSurvived(t *testing.T) {
	gs := NewGameState()
	gs.MarkSurvived()
	if gs.Outcome != OutcomeSurvived || !gs.Ended() {
		t.Errorf("expected survived outcome, got %q", gs.Outcome)
	}

	dead := NewGameState()
	dead.Kill()
	dead.MarkSurvived()
	if dead.Outcome != OutcomeDied {
		t.Errorf("dead session must not become survived, got %q", dead.Outcome)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	gs := NewGameState()
	dur := 80
	gs.AddItem(Item{Name: "Flashlight", Type: ItemTool, Durability: &dur})
	gs.RecordCommand("hide", time.Now())

	snap := gs.Snapshot()
	*snap.Inventory[0].Durability = 1
	snap.Inventory[0].Name = "changed"
	snap.CommandsIssued[0].Command = "changed"

	if *gs.Inventory[0].Durability != 80 {
		t.Error("snapshot durability aliases live state")
	}
	if gs.Inventory[0].Name != "Flashlight" {
		t.Error("snapshot item aliases live state")
	}
	if gs.CommandsIssued[0].Command != "hide" {
		t.Error("snapshot command log aliases live state")
	}
}

func TestSnapshotSerializesForCheckpoint(t *testing.T) {
	gs := NewGameState()
	qty := 2
	gs.AddItem(Item{Name: "Bandage", Type: ItemConsumable, Quantity: &qty})
	gs.UpdateFear(42)

	data, err := json.Marshal(gs)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var restored GameState
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if restored.CurrentTime != gs.CurrentTime ||
		restored.FearLevel != gs.FearLevel ||
		restored.Health != gs.Health ||
		restored.IsAlive != gs.IsAlive ||
		len(restored.Inventory) != 1 {
		t.Errorf("round-trip mismatch: %+v", restored)
	}
	if *restored.Inventory[0].Quantity != 2 {
		t.Errorf("quantity lost in round-trip: %+v", restored.Inventory[0])
	}
}
