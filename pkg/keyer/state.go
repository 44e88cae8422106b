package keyer

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// State is the keyer state. Exactly one is active at a time.
type State int32

const (
	// Silent is idle: nothing is sent or played.
	Silent State = iota
	// Stop lasts one evaluation: it emits the mute marker and becomes Silent.
	Stop
	Straight
	ShortMark
	LongMark
	Squeeze
	Voice
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Silent:
		return "silent"
	case Stop:
		return "stop"
	case Straight:
		return "straight"
	case ShortMark:
		return "short_mark"
	case LongMark:
		return "long_mark"
	case Squeeze:
		return "squeeze"
	case Voice:
		return "voice"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *State) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	*s = ParseState(name)
	return nil
}

// MarshalMsgpack implements msgpack.Marshaler.
func (s State) MarshalMsgpack() ([]byte, error) {
	return msgpack.Marshal(s.String())
}

// UnmarshalMsgpack implements msgpack.Unmarshaler.
func (s *State) UnmarshalMsgpack(b []byte) error {
	var name string
	if err := msgpack.Unmarshal(b, &name); err != nil {
		return err
	}
	*s = ParseState(name)
	return nil
}

// ParseState returns the state named name, or Silent for unknown names.
func ParseState(name string) State {
	switch name {
	case "stop":
		return Stop
	case "straight":
		return Straight
	case "short_mark":
		return ShortMark
	case "long_mark":
		return LongMark
	case "squeeze":
		return Squeeze
	case "voice":
		return Voice
	default:
		return Silent
	}
}

// IsKeying returns true while a tone is being produced.
func (s State) IsKeying() bool {
	switch s {
	case Straight, ShortMark, LongMark, Squeeze:
		return true
	default:
		return false
	}
}
