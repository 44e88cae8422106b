package keyer

import "sync/atomic"

// Output is what one evaluation of the machine asks the bridge to do.
type Output struct {
	// Samples is the tone element to send and play as sidetone.
	Samples []float32
	// Mute asks for exactly one mute marker and a local playback stop.
	Mute bool
	// Voice asks for microphone passthrough.
	Voice bool
}

// Idle reports whether the output carries nothing.
func (o Output) Idle() bool {
	return len(o.Samples) == 0 && !o.Mute && !o.Voice
}

// Machine is the keyer state machine, including iambic paddle memory.
//
// Handle and Next must be called from a single goroutine. State may be
// called from any goroutine.
type Machine struct {
	state       atomic.Int32
	lastWasLong bool
	busy        func() bool
}

// MachineOption configures a Machine.
type MachineOption func(*Machine)

// WithBusy installs a hook that blocks keying from Silent while it returns
// true, typically while the peer's audio is playing. Keying from Stop is
// still allowed.
func WithBusy(fn func() bool) MachineOption {
	return func(m *Machine) {
		m.busy = fn
	}
}

// NewMachine returns a machine in the Silent state.
func NewMachine(opts ...MachineOption) *Machine {
	m := &Machine{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state.
func (m *Machine) State() State {
	return State(m.state.Load())
}

// LastWasLong returns the paddle memory.
func (m *Machine) LastWasLong() bool {
	return m.lastWasLong
}

func (m *Machine) set(s State) {
	m.state.Store(int32(s))
}

func (m *Machine) idle() bool {
	switch m.State() {
	case Stop:
		return true
	case Silent:
		return m.busy == nil || !m.busy()
	default:
		return false
	}
}

// Handle applies a key event. It reports whether the state changed.
// Events that do not apply in the current state are ignored.
func (m *Machine) Handle(ev Event) bool {
	before := m.State()
	if ev.Down {
		m.press(ev.Key)
	} else {
		m.release(ev.Key)
	}
	return m.State() != before
}

func (m *Machine) press(k Key) {
	s := m.State()
	switch k {
	case KeyStraight:
		if m.idle() {
			m.set(Straight)
		}
	case KeyTalk:
		if m.idle() {
			m.set(Voice)
		}
	case KeyDit:
		if s == LongMark {
			m.lastWasLong = true
			m.set(Squeeze)
		} else if m.idle() {
			m.set(ShortMark)
		}
	case KeyDah:
		if s == ShortMark {
			m.lastWasLong = false
			m.set(Squeeze)
		} else if m.idle() {
			m.set(LongMark)
		}
	}
}

func (m *Machine) release(k Key) {
	s := m.State()
	switch k {
	case KeyStraight:
		if s == Straight {
			m.set(Stop)
		}
	case KeyTalk:
		if s == Voice {
			m.set(Stop)
		}
	case KeyDit:
		if s == Squeeze {
			m.set(LongMark)
		} else if s == ShortMark {
			m.set(Stop)
		}
	case KeyDah:
		if s == Squeeze {
			m.set(ShortMark)
		} else if s == LongMark {
			m.set(Stop)
		}
	}
}

// Next evaluates the output for the current state, synthesizing tones from
// c. Stop yields the mute request and moves to Silent in the same call.
func (m *Machine) Next(c Config) Output {
	switch m.State() {
	case Stop:
		m.set(Silent)
		return Output{Mute: true}
	case Straight:
		return Output{Samples: Synthesize(c).Short}
	case ShortMark:
		m.lastWasLong = false
		return Output{Samples: Synthesize(c).Dit()}
	case LongMark:
		m.lastWasLong = true
		return Output{Samples: Synthesize(c).Dah()}
	case Squeeze:
		tones := Synthesize(c)
		if m.lastWasLong {
			m.lastWasLong = false
			return Output{Samples: tones.Dit()}
		}
		m.lastWasLong = true
		return Output{Samples: tones.Dah()}
	case Voice:
		return Output{Voice: true}
	default:
		return Output{}
	}
}
