// Package link carries audio frames between the two peers over one TCP
// connection.
//
// The stream has no framing: every message is exactly one 4096-byte frame
// (1024 native-endian float32 samples). A frame whose samples are all 1.0
// is the mute marker.
package link

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"

	"github.com/haivivi/cwlink/pkg/audio/pcm"
)

var (
	// ErrClosed means the peer shut down its sending side. A torn final
	// frame counts as an orderly close.
	ErrClosed = errors.New("link: connection closed")

	// ErrConnection means the socket failed.
	ErrConnection = errors.New("link: connection error")
)

// Listener accepts the single peer connection of a server session.
type Listener struct {
	ln net.Listener
}

// Listen listens on host:port. An empty host listens on all interfaces.
func Listen(ctx context.Context, host string, port int) (*Listener, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("link: listen: %w", err)
	}
	return &Listener{ln: ln}, nil
}

// Addr returns the listening address.
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Accept waits for a peer. Cancelling ctx closes the listener and returns
// ctx.Err().
func (l *Listener) Accept(ctx context.Context) (*Conn, error) {
	stop := context.AfterFunc(ctx, func() { l.ln.Close() })
	defer stop()

	c, err := l.ln.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("link: accept: %w", err)
	}
	return newConn(c), nil
}

// Close stops listening.
func (l *Listener) Close() error {
	err := l.ln.Close()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

// Dial connects to host:port.
func Dial(ctx context.Context, host string, port int) (*Conn, error) {
	var d net.Dialer
	c, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("link: dial: %w", err)
	}
	return newConn(c), nil
}

// Conn is an established frame stream. Send and Recv may be called
// concurrently from one goroutine each.
type Conn struct {
	c         net.Conn
	wbuf      [pcm.FrameBytes]byte
	rbuf      [pcm.FrameBytes]byte
	closeOnce sync.Once
	closeErr  error
}

func newConn(c net.Conn) *Conn {
	if tc, ok := c.(*net.TCPConn); ok {
		tc.SetNoDelay(true)
	}
	return &Conn{c: c}
}

// Send writes one frame. A failed or short write returns an error wrapping
// ErrConnection.
func (c *Conn) Send(f *pcm.Frame) error {
	f.PutBytes(c.wbuf[:])
	if _, err := c.c.Write(c.wbuf[:]); err != nil {
		return fmt.Errorf("%w: send: %w", ErrConnection, err)
	}
	return nil
}

// Recv reads exactly one frame. It returns ErrClosed when the peer has
// half-closed or the connection was closed locally, and an error wrapping
// ErrConnection otherwise.
func (c *Conn) Recv(f *pcm.Frame) error {
	if _, err := io.ReadFull(c.c, c.rbuf[:]); err != nil {
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, net.ErrClosed):
			return ErrClosed
		default:
			return fmt.Errorf("%w: recv: %w", ErrConnection, err)
		}
	}
	return f.SetBytes(c.rbuf[:])
}

// CloseWrite shuts down the sending side so the peer's Recv returns
// ErrClosed. Receiving keeps working.
func (c *Conn) CloseWrite() error {
	type closeWriter interface{ CloseWrite() error }
	if cw, ok := c.c.(closeWriter); ok {
		return cw.CloseWrite()
	}
	return c.Close()
}

// Close closes the connection. It is safe to call more than once.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.c.Close()
	})
	return c.closeErr
}

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.c.RemoteAddr()
}

// LocalAddr returns the local address.
func (c *Conn) LocalAddr() net.Addr {
	return c.c.LocalAddr()
}

// OutboundIP returns the address this host would use to reach the
// internet, for display while waiting for a peer. No packet is sent.
// It falls back to the loopback address when there is no route.
func OutboundIP() string {
	c, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer c.Close()
	if a, ok := c.LocalAddr().(*net.UDPAddr); ok {
		return a.IP.String()
	}
	return "127.0.0.1"
}
