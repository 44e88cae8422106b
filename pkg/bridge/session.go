package bridge

import (
	"net"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/haivivi/cwlink/pkg/keyer"
	"github.com/haivivi/cwlink/pkg/link"
)

// Role is the side of the connection this process plays.
type Role string

const (
	RoleServer Role = "server"
	RoleClient Role = "client"
)

// Session is the connection state of one process run. Once disconnected a
// session stays disconnected.
type Session struct {
	role Role
	id   string
	host string

	connected atomic.Bool
	port      atomic.Int32

	mu        sync.RWMutex
	localAddr string
	peerAddr  string
}

func newSession(role Role, id, host string, port int, localIP string) *Session {
	s := &Session{role: role, id: id, host: host, localAddr: localIP}
	s.port.Store(int32(port))
	return s
}

// Role returns server or client.
func (s *Session) Role() Role { return s.role }

// ID returns the session ID used to correlate logs.
func (s *Session) ID() string { return s.id }

// Port returns the TCP port. For a server listening on port 0 it is the
// port actually bound.
func (s *Session) Port() int { return int(s.port.Load()) }

// Connected reports whether a peer is attached.
func (s *Session) Connected() bool { return s.connected.Load() }

// LocalAddr returns this side's address: the outbound IP before the
// connection, the socket address after.
func (s *Session) LocalAddr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.localAddr
}

// PeerAddr returns the peer's address, empty until connected.
func (s *Session) PeerAddr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.peerAddr
}

func (s *Session) listening(addr net.Addr) {
	if a, ok := addr.(*net.TCPAddr); ok {
		s.port.Store(int32(a.Port))
	}
}

func (s *Session) attach(c *link.Conn) {
	s.mu.Lock()
	s.localAddr = c.LocalAddr().String()
	s.peerAddr = c.RemoteAddr().String()
	s.mu.Unlock()
	s.connected.Store(true)
}

// disconnect clears the connected flag. It reports whether the session was
// connected.
func (s *Session) disconnect() bool {
	return s.connected.Swap(false)
}

// Snapshot is a read-only view of the bridge for display.
type Snapshot struct {
	Role           Role        `json:"role" msgpack:"role"`
	SessionID      string      `json:"session_id" msgpack:"session_id"`
	Connected      bool        `json:"connected" msgpack:"connected"`
	LocalAddr      string      `json:"local_addr" msgpack:"local_addr"`
	PeerAddr       string      `json:"peer_addr,omitempty" msgpack:"peer_addr,omitempty"`
	Host           string      `json:"host,omitempty" msgpack:"host,omitempty"`
	Port           int         `json:"port" msgpack:"port"`
	Speed          int         `json:"speed" msgpack:"speed"`
	Frequency      int         `json:"frequency" msgpack:"frequency"`
	State          keyer.State `json:"state" msgpack:"state"`
	PlaybackActive bool        `json:"playback_active" msgpack:"playback_active"`
	FramesSent     int64       `json:"frames_sent" msgpack:"frames_sent"`
	FramesReceived int64       `json:"frames_received" msgpack:"frames_received"`
	MutesSent      int64       `json:"mutes_sent" msgpack:"mutes_sent"`
	MutesReceived  int64       `json:"mutes_received" msgpack:"mutes_received"`
}

// Talking reports whether the operator is sending microphone audio.
func (s Snapshot) Talking() bool {
	return s.State == keyer.Voice
}

// Address returns the address to show: the peer's when connected,
// otherwise this side's.
func (s Snapshot) Address() string {
	if s.Connected && s.PeerAddr != "" {
		return s.PeerAddr
	}
	if s.Role == RoleClient && s.Host != "" {
		return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
	}
	return s.LocalAddr
}
