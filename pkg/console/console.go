// Package console is the operator surface: it turns key presses into keyer
// events for the bridge and renders the bridge snapshot.
//
// Two consoles are available. The window console reports real key-down and
// key-up. The terminal console cannot see key releases, so keying keys latch:
// the first press holds the key down and the second releases it.
package console

import (
	"fmt"
	"net"
	"strings"

	"github.com/haivivi/cwlink/pkg/bridge"
	"github.com/haivivi/cwlink/pkg/keyer"
)

// Target is what a console drives. *bridge.Bridge implements it.
type Target interface {
	Post(keyer.Event)
	Snapshot() bridge.Snapshot
	Done() <-chan struct{}
}

// StatusLines returns the status text for s, one entry per display line.
func StatusLines(s bridge.Snapshot) []string {
	lines := make([]string, 0, 7)
	if s.Role == bridge.RoleServer {
		lines = append(lines, "SERVER MODE")
	} else {
		lines = append(lines, "CLIENT MODE")
	}
	lines = append(lines, fmt.Sprintf("WPM: %d    FREQ: %d", s.Speed, s.Frequency))

	if s.Connected {
		lines = append(lines, "CONNECTED", addrLabel(peerRole(s.Role))+": "+hostOnly(s.PeerAddr))
	} else {
		lines = append(lines, "CONNECTION STOPPED", addrLabel(s.Role)+": "+hostOnly(s.LocalAddr))
	}
	lines = append(lines, fmt.Sprintf("PORT: %d", s.Port))

	if s.Talking() {
		lines = append(lines, "TALKING")
	}
	lines = append(lines, "KEYER: "+strings.ToUpper(s.State.String()))
	return lines
}

func peerRole(r bridge.Role) bridge.Role {
	if r == bridge.RoleServer {
		return bridge.RoleClient
	}
	return bridge.RoleServer
}

func addrLabel(r bridge.Role) string {
	if r == bridge.RoleServer {
		return "SERVER IP"
	}
	return "CLIENT IP"
}

func hostOnly(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// Latch turns single key presses into held keys for consoles that do not
// report key release.
type Latch struct {
	down map[keyer.Key]bool
}

// NewLatch returns a latch with every key up.
func NewLatch() *Latch {
	return &Latch{down: make(map[keyer.Key]bool)}
}

// Press returns the events for one press of k. Keying keys toggle between
// down and up; adjust and quit keys produce a press and release pair.
func (l *Latch) Press(k keyer.Key) []keyer.Event {
	switch k {
	case keyer.KeyNone:
		return nil
	case keyer.KeyStraight, keyer.KeyTalk, keyer.KeyDit, keyer.KeyDah:
		if l.down[k] {
			delete(l.down, k)
			return []keyer.Event{keyer.Release(k)}
		}
		l.down[k] = true
		return []keyer.Event{keyer.Press(k)}
	default:
		return []keyer.Event{keyer.Press(k), keyer.Release(k)}
	}
}

// ReleaseAll returns release events for every held key.
func (l *Latch) ReleaseAll() []keyer.Event {
	var evs []keyer.Event
	for _, k := range []keyer.Key{keyer.KeyStraight, keyer.KeyTalk, keyer.KeyDit, keyer.KeyDah} {
		if l.down[k] {
			evs = append(evs, keyer.Release(k))
		}
	}
	clear(l.down)
	return evs
}

// Held returns the names of the held keys.
func (l *Latch) Held() []string {
	var names []string
	for _, k := range []keyer.Key{keyer.KeyStraight, keyer.KeyTalk, keyer.KeyDit, keyer.KeyDah} {
		if l.down[k] {
			names = append(names, k.String())
		}
	}
	return names
}
