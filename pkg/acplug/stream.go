package acplug

import (
	"bytes"
	"context"
	"io"
	"net"
	"sync"
)

// DefaultSocket is acpid's event socket path.
const DefaultSocket = "/var/run/acpid.socket"

// DialConfig holds the paths used to establish a stream.
// Zero values mean "use the package defaults".
type DialConfig struct {
	Socket          string
	PrimaryStatus   string
	SecondaryStatus string
}

func (c *DialConfig) applyDefaults() {
	if c.Socket == "" {
		c.Socket = DefaultSocket
	}
	if c.PrimaryStatus == "" {
		c.PrimaryStatus = DefaultPrimaryStatus
	}
	if c.SecondaryStatus == "" {
		c.SecondaryStatus = DefaultSecondaryStatus
	}
}

// Connect dials the default acpid socket and resolves the initial adapter
// state from the default sysfs attributes.
func Connect(ctx context.Context) (*Stream, error) {
	return ConnectConfig(ctx, DialConfig{})
}

// ConnectSocket is Connect with a custom socket path.
func ConnectSocket(ctx context.Context, socket string) (*Stream, error) {
	return ConnectConfig(ctx, DialConfig{Socket: socket})
}

// ConnectConfig dials cfg.Socket, resolves the initial state from the
// configured battery attributes, and returns a live stream. A bootstrap
// failure abandons the freshly dialed connection.
func ConnectConfig(ctx context.Context, cfg DialConfig) (*Stream, error) {
	cfg.applyDefaults()
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", cfg.Socket)
	if err != nil {
		return nil, err
	}
	initial, err := ReadInitialState(cfg.PrimaryStatus, cfg.SecondaryStatus)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return NewStream(conn, initial), nil
}

// chunk is one reader handoff: bytes read (possibly none) and the read error,
// if any. A non-nil err is terminal for the reader.
type chunk struct {
	data []byte
	err  error
}

// Stream turns the raw acpid byte stream into deduplicated plug events.
// It owns its connection for its whole lifetime; Close releases it.
//
// Next is single-consumer: the stream holds no lock around the line buffer
// and must not be advanced from two goroutines at once. State and Close are
// safe to call concurrently with Next.
type Stream struct {
	conn   net.Conn
	chunks chan chunk
	quit   chan struct{}

	// buf accumulates bytes that do not yet form a terminated line.
	// Touched only by Next, so an abandoned (context-cancelled) advance
	// leaves it exactly as the next advance expects to find it.
	buf []byte

	// eofSeen means the reader delivered a clean EOF but buffered lines may
	// remain to be interpreted. Touched only by Next, like buf. The stream
	// turns terminal once the buffer is spent.
	eofSeen bool

	mu    sync.Mutex
	state PowerState
	done  error

	closeOnce sync.Once
	closeErr  error
}

// NewStream wraps an already-established connection, seeding dedup with
// initial. The stream takes ownership of conn. Intended for callers that
// dial their own transport (and for tests); most callers want Connect.
func NewStream(conn net.Conn, initial PowerState) *Stream {
	s := &Stream{
		conn:   conn,
		chunks: make(chan chunk, 1),
		quit:   make(chan struct{}),
		state:  initial,
	}
	go s.readLoop()
	return s
}

// readLoop owns the blocking reads. It hands each chunk to Next over the
// channel and exits on the first read error or when the stream is closed.
func (s *Stream) readLoop() {
	buf := make([]byte, 4096)
	for {
		n, err := s.conn.Read(buf)
		if n == 0 && err == nil {
			continue
		}
		c := chunk{err: err}
		if n > 0 {
			c.data = append([]byte(nil), buf[:n]...)
		}
		select {
		case s.chunks <- c:
		case <-s.quit:
			return
		}
		if err != nil {
			return
		}
	}
}

// Next blocks until the adapter actually changes state, then returns the
// transition as an Event. Lines that do not match the adapter grammar, and
// announcements of the state already held, are consumed silently.
//
// When the peer closes the socket Next returns io.EOF; any other read
// failure is returned as-is. Both are sticky: every later call returns the
// same error. Cancelling ctx returns ctx.Err() and leaves the stream intact,
// partial line included, so the caller may simply call Next again.
func (s *Stream) Next(ctx context.Context) (Event, error) {
	if err := s.terminal(); err != nil {
		return 0, err
	}
	for {
		if ev, ok := s.drainLines(); ok {
			return ev, nil
		}
		if s.eofSeen {
			// Peer closed cleanly and every terminated line has been
			// consumed. A trailing unterminated line is still interpreted,
			// as if the terminator had arrived.
			ev, ok := s.flushTail()
			s.setTerminal(io.EOF)
			if ok {
				return ev, nil
			}
			return 0, io.EOF
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-s.quit:
			return 0, net.ErrClosed
		case c := <-s.chunks:
			if len(c.data) > 0 {
				s.buf = append(s.buf, c.data...)
			}
			if c.err == nil {
				continue
			}
			if c.err == io.EOF {
				// Data may have arrived together with the EOF; loop so the
				// terminated lines in it are interpreted one by one first.
				s.eofSeen = true
				continue
			}
			// A read error caused by our own Close is reported as such,
			// not as whatever the transport says about closed reads.
			select {
			case <-s.quit:
				s.setTerminal(net.ErrClosed)
				return 0, net.ErrClosed
			default:
			}
			s.setTerminal(c.err)
			return 0, c.err
		}
	}
}

// drainLines consumes every complete line currently buffered, stopping early
// if one of them fires an event.
func (s *Stream) drainLines() (Event, bool) {
	for {
		i := bytes.IndexByte(s.buf, '\n')
		if i < 0 {
			return 0, false
		}
		line := string(s.buf[:i])
		s.buf = s.buf[i+1:]
		if ev, ok := s.apply(line); ok {
			return ev, true
		}
	}
}

// flushTail interprets whatever unterminated bytes remain, for the clean-EOF
// path only.
func (s *Stream) flushTail() (Event, bool) {
	if len(s.buf) == 0 {
		return 0, false
	}
	line := string(s.buf)
	s.buf = nil
	return s.apply(line)
}

func (s *Stream) apply(line string) (Event, bool) {
	s.mu.Lock()
	next, ev, ok := Transition(s.state, line)
	s.state = next
	s.mu.Unlock()
	return ev, ok
}

func (s *Stream) terminal() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *Stream) setTerminal(err error) {
	s.mu.Lock()
	s.done = err
	s.mu.Unlock()
}

// State returns the adapter state the stream currently believes to be true:
// the bootstrap value until the first event, then the polarity of the last
// event returned.
func (s *Stream) State() PowerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close releases the connection and stops the reader. Safe to call more than
// once and concurrently with a blocked Next, which will return net.ErrClosed.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		close(s.quit)
		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}
