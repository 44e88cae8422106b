package keyer

// Key identifies an operator control.
type Key int

const (
	KeyNone Key = iota
	KeyStraight
	KeyTalk
	KeyDit
	KeyDah
	KeySpeedUp
	KeySpeedDown
	KeyFreqDown
	KeyFreqUp
	KeyQuit
)

// String returns the string representation of the key.
func (k Key) String() string {
	switch k {
	case KeyStraight:
		return "straight"
	case KeyTalk:
		return "talk"
	case KeyDit:
		return "dit"
	case KeyDah:
		return "dah"
	case KeySpeedUp:
		return "speed_up"
	case KeySpeedDown:
		return "speed_down"
	case KeyFreqDown:
		return "freq_down"
	case KeyFreqUp:
		return "freq_up"
	case KeyQuit:
		return "quit"
	default:
		return "none"
	}
}

// IsAdjust reports whether the key changes speed or frequency.
func (k Key) IsAdjust() bool {
	switch k {
	case KeySpeedUp, KeySpeedDown, KeyFreqDown, KeyFreqUp:
		return true
	default:
		return false
	}
}

// Event is a key-down or key-up from the operator.
type Event struct {
	Key  Key
	Down bool
}

// Press returns the key-down event for k.
func Press(k Key) Event { return Event{Key: k, Down: true} }

// Release returns the key-up event for k.
func Release(k Key) Event { return Event{Key: k} }
