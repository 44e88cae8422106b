// Package keyer implements the CW keyer: tone synthesis, the keying state
// machine with iambic paddle memory, and the live speed/frequency setting.
//
// The machine is driven by key-down/key-up events and evaluated once per
// element boundary. Each evaluation returns an Output telling the caller to
// send a tone element, send the mute marker, forward microphone audio, or do
// nothing:
//
//	m := keyer.NewMachine()
//	m.Handle(keyer.Press(keyer.KeyDit))
//	out := m.Next(keyer.DefaultConfig()) // one dit plus gap
//	m.Handle(keyer.Release(keyer.KeyDit))
//	out = m.Next(keyer.DefaultConfig()) // out.Mute, state is Silent again
package keyer
