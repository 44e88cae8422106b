package keyer

import "testing"

func TestConfig_Clamp(t *testing.T) {
	tests := []struct {
		name string
		in   Config
		want Config
	}{
		{"default", DefaultConfig(), Config{Speed: 15, Frequency: 600}},
		{"too_slow", Config{Speed: 1, Frequency: 600}, Config{Speed: 6, Frequency: 600}},
		{"too_fast", Config{Speed: 99, Frequency: 600}, Config{Speed: 48, Frequency: 600}},
		{"too_low", Config{Speed: 15, Frequency: 100}, Config{Speed: 15, Frequency: 300}},
		{"too_high", Config{Speed: 15, Frequency: 2000}, Config{Speed: 15, Frequency: 900}},
		{"off_grid", Config{Speed: 15, Frequency: 615}, Config{Speed: 15, Frequency: 600}},
		{"zero", Config{}, Config{Speed: 6, Frequency: 300}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Clamp(); got != tt.want {
				t.Errorf("Clamp(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSettings_ApplyLimits(t *testing.T) {
	tests := []struct {
		name  string
		start Config
		key   Key
		want  Config
	}{
		{"speed_up", Config{15, 600}, KeySpeedUp, Config{16, 600}},
		{"speed_down", Config{15, 600}, KeySpeedDown, Config{14, 600}},
		{"speed_up_at_max", Config{48, 600}, KeySpeedUp, Config{48, 600}},
		{"speed_down_at_min", Config{6, 600}, KeySpeedDown, Config{6, 600}},
		{"freq_up", Config{15, 600}, KeyFreqUp, Config{15, 620}},
		{"freq_down", Config{15, 600}, KeyFreqDown, Config{15, 580}},
		{"freq_up_at_max", Config{15, 900}, KeyFreqUp, Config{15, 900}},
		{"freq_down_at_min", Config{15, 300}, KeyFreqDown, Config{15, 300}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSettings(tt.start)
			if !s.Apply(Press(tt.key)) {
				t.Fatalf("Apply(%v) = false", tt.key)
			}
			if got := s.Load(); got != tt.want {
				t.Errorf("after %v: %+v, want %+v", tt.key, got, tt.want)
			}
		})
	}
}

func TestSettings_ApplyIgnoresOtherEvents(t *testing.T) {
	s := NewSettings(DefaultConfig())

	if !s.Apply(Release(KeySpeedUp)) {
		t.Error("Apply(release speed_up) should still report an adjust key")
	}
	for _, k := range []Key{KeyDit, KeyDah, KeyStraight, KeyTalk, KeyQuit, KeyNone} {
		if s.Apply(Press(k)) {
			t.Errorf("Apply(%v) = true", k)
		}
	}
	if got := s.Load(); got != DefaultConfig() {
		t.Errorf("config changed to %+v", got)
	}
}

func TestSettings_RepeatedStepsStayInRange(t *testing.T) {
	s := NewSettings(DefaultConfig())
	for i := 0; i < 100; i++ {
		s.Apply(Press(KeySpeedUp))
		s.Apply(Press(KeyFreqDown))
	}
	if got := s.Load(); got.Speed != MaxSpeed || got.Frequency != MinFrequency {
		t.Errorf("after 100 steps: %+v", got)
	}
}

func TestKey_String(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{KeyNone, "none"},
		{KeyStraight, "straight"},
		{KeyTalk, "talk"},
		{KeyDit, "dit"},
		{KeyDah, "dah"},
		{KeySpeedUp, "speed_up"},
		{KeySpeedDown, "speed_down"},
		{KeyFreqDown, "freq_down"},
		{KeyFreqUp, "freq_up"},
		{KeyQuit, "quit"},
	}
	for _, tt := range tests {
		if got := tt.key.String(); got != tt.want {
			t.Errorf("Key(%d).String() = %q, want %q", tt.key, got, tt.want)
		}
	}
}
