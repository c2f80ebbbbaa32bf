package state

import "fmt"

// The night runs from 23:00 to 06:00 on the game clock.
const (
	NightStart = "23:00"
	Sunrise    = "06:00"
)

// nightLength is the full night in game minutes.
const nightLength = 7 * 60

func parseClock(hhmm string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", hhmm, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock value %q", hhmm)
	}
	return h*60 + m, nil
}

func formatClock(minutes int) string {
	minutes = ((minutes % 1440) + 1440) % 1440
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ElapsedMinutes returns how many game minutes have passed since 23:00.
func (gs *GameState) ElapsedMinutes() int {
	cur, err := parseClock(gs.CurrentTime)
	if err != nil {
		return 0
	}
	start, _ := parseClock(NightStart)
	elapsed := cur - start
	if elapsed < 0 {
		elapsed += 1440
	}
	if elapsed > nightLength {
		elapsed = nightLength
	}
	return elapsed
}

// AdvanceTime moves the game clock forward. The clock pins at 06:00 once
// sunrise is reached; the return value reports whether this call reached
// it. Dead sessions and negative advances are ignored.
func (gs *GameState) AdvanceTime(minutes int) bool {
	if minutes <= 0 || !gs.IsAlive {
		return false
	}
	elapsed := gs.ElapsedMinutes()
	if elapsed >= nightLength {
		return false
	}
	elapsed += minutes
	if elapsed >= nightLength {
		gs.CurrentTime = Sunrise
		return true
	}
	start, _ := parseClock(NightStart)
	gs.CurrentTime = formatClock(start + elapsed)
	return false
}

// HourCrossed reports whether advancing from one elapsed-minute count to
// another crosses a full game-hour boundary. Used to pace night events.
func HourCrossed(beforeElapsed, afterElapsed int) bool {
	return afterElapsed/60 > beforeElapsed/60
}
