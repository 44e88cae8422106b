package keyer

import "sync/atomic"

// Speed and tone frequency limits.
const (
	MinSpeed     = 6
	MaxSpeed     = 48
	DefaultSpeed = 15

	MinFrequency     = 300
	MaxFrequency     = 900
	FrequencyStep    = 20
	DefaultFrequency = 600
)

// Config is the operator-adjustable keyer setting.
type Config struct {
	Speed     int // words per minute
	Frequency int // tone frequency in Hz
}

// DefaultConfig returns 15 WPM at 600 Hz.
func DefaultConfig() Config {
	return Config{Speed: DefaultSpeed, Frequency: DefaultFrequency}
}

// Clamp returns c with both values forced into their valid range. The
// frequency is also snapped down onto the 20 Hz grid.
func (c Config) Clamp() Config {
	c.Speed = min(max(c.Speed, MinSpeed), MaxSpeed)
	c.Frequency = min(max(c.Frequency, MinFrequency), MaxFrequency)
	c.Frequency -= (c.Frequency - MinFrequency) % FrequencyStep
	return c
}

// Settings holds a Config that one goroutine adjusts and others read.
type Settings struct {
	speed     atomic.Int32
	frequency atomic.Int32
}

// NewSettings returns Settings initialised from c after clamping.
func NewSettings(c Config) *Settings {
	s := &Settings{}
	s.Store(c)
	return s
}

// Load returns the current config.
func (s *Settings) Load() Config {
	return Config{
		Speed:     int(s.speed.Load()),
		Frequency: int(s.frequency.Load()),
	}
}

// Store replaces the config after clamping.
func (s *Settings) Store(c Config) {
	c = c.Clamp()
	s.speed.Store(int32(c.Speed))
	s.frequency.Store(int32(c.Frequency))
}

// Apply adjusts the config for a speed or frequency key-down. It reports
// whether ev was such a key. Adjustments past a limit are ignored.
func (s *Settings) Apply(ev Event) bool {
	if !ev.Key.IsAdjust() {
		return false
	}
	if !ev.Down {
		return true
	}
	c := s.Load()
	switch ev.Key {
	case KeySpeedUp:
		if c.Speed < MaxSpeed {
			c.Speed++
		}
	case KeySpeedDown:
		if c.Speed > MinSpeed {
			c.Speed--
		}
	case KeyFreqUp:
		if c.Frequency < MaxFrequency {
			c.Frequency += FrequencyStep
		}
	case KeyFreqDown:
		if c.Frequency > MinFrequency {
			c.Frequency -= FrequencyStep
		}
	}
	s.Store(c)
	return true
}
