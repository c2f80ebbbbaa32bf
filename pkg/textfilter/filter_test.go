package textfilter

import "testing"

func TestScrub(t *testing.T) {
	s := NewScrubber()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain transcript untouched",
			input:    "hide behind the couch",
			expected: "hide behind the couch",
		},
		{
			name:     "bracketed annotation removed",
			input:    "[inaudible] turn on the flashlight",
			expected: "turn on the flashlight",
		},
		{
			name:     "parenthesized annotation removed",
			input:    "lock the door (breathing heavily)",
			expected: "lock the door",
		},
		{
			name:     "annotation mid-sentence",
			input:    "barricade [noise] the door",
			expected: "barricade the door",
		},
		{
			name:     "stutter collapsed",
			input:    "h-h-hide",
			expected: "hide",
		},
		{
			name:     "panicked repeats collapsed",
			input:    "hide hide hide",
			expected: "hide",
		},
		{
			name:     "repeats case insensitive",
			input:    "Run RUN run away",
			expected: "Run away",
		},
		{
			name:     "whitespace folded",
			input:    "  wait   quietly  ",
			expected: "wait quietly",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "annotation only",
			input:    "[silence]",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Scrub(tt.input); got != tt.expected {
				t.Errorf("Scrub(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
