package bridge

import (
	"testing"

	"github.com/haivivi/cwlink/pkg/audio/nulldev"
	"github.com/haivivi/cwlink/pkg/audio/pcm"
)

func TestResume(t *testing.T) {
	tests := []struct {
		name  string
		prime int
	}{
		{"no_prime", 0},
		{"peer_prime", PeerPrime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &nulldev.Playback{}
			if err := resume(p, tt.prime); err != nil {
				t.Fatal(err)
			}
			if !p.Active() || p.Written() != int64(tt.prime) {
				t.Errorf("active=%v written=%d", p.Active(), p.Written())
			}
			if err := resume(p, tt.prime); err != nil {
				t.Fatal(err)
			}
			if p.Starts() != 1 || p.Written() != int64(tt.prime) {
				t.Errorf("resume on active device: starts=%d written=%d", p.Starts(), p.Written())
			}
		})
	}
}

func TestPlayer(t *testing.T) {
	dev := &nulldev.Playback{}
	p := &player{dev: dev}
	var f pcm.Frame
	f[3] = 0.1

	if err := p.write(&f, 2); err != nil {
		t.Fatal(err)
	}
	if dev.Written() != 3 {
		t.Errorf("written = %d, want 3", dev.Written())
	}
	if err := p.stop(); err != nil {
		t.Fatal(err)
	}
	if p.active() {
		t.Error("still active after stop")
	}
	if err := p.stop(); err != nil || dev.Stops() != 1 {
		t.Errorf("second stop: err=%v stops=%d", err, dev.Stops())
	}

	p.write(&f, 0)
	if err := p.close(); err != nil {
		t.Fatal(err)
	}
	if !dev.Closed() || dev.Active() {
		t.Error("device not closed")
	}
	if err := p.write(&f, 0); err != nil {
		t.Errorf("write after close = %v", err)
	}
	if dev.Written() != 4 {
		t.Errorf("written after close = %d, want 4", dev.Written())
	}
}

func TestSnapshot_Address(t *testing.T) {
	tests := []struct {
		name string
		s    Snapshot
		want string
	}{
		{"server_waiting", Snapshot{Role: RoleServer, LocalAddr: "10.0.0.2", Port: 5000}, "10.0.0.2"},
		{"client_dialing", Snapshot{Role: RoleClient, LocalAddr: "10.0.0.3", Host: "10.0.0.2", Port: 5000}, "10.0.0.2:5000"},
		{"connected", Snapshot{Role: RoleServer, Connected: true, LocalAddr: "10.0.0.2:5000", PeerAddr: "10.0.0.3:41234"}, "10.0.0.3:41234"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Address(); got != tt.want {
				t.Errorf("Address() = %q, want %q", got, tt.want)
			}
		})
	}
}
