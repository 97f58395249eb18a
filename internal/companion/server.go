package companion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
)

const (
	DEFAULT_CHUNK_SIZE = 1024
	DEFAULT_REPLY      = "Thank you for sharing. I'm here for you."
)

var (
	ErrAccept        = errors.New("accept failed")
	ErrRead          = errors.New("read failed")
	ErrWrite         = errors.New("write failed")
	ErrAlreadyServed = errors.New("server has already served its client")
)

// Server answers exactly one client with a fixed reply per chunk read.
// Once that client is accepted the listener is closed, so later connection
// attempts are refused.
type Server struct {
	listener  net.Listener
	reply     []byte
	chunkSize int

	state  atomic.Int32
	served atomic.Bool

	mu   sync.Mutex
	conn net.Conn
}

type Option func(*Server)

func WithReply(reply string) Option {
	return func(s *Server) { s.reply = []byte(reply) }
}

func WithChunkSize(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

// Listen binds a TCP listener on addr.
func Listen(addr string, opts ...Option) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return NewServer(ln, opts...), nil
}

func NewServer(ln net.Listener, opts ...Option) *Server {
	s := &Server{
		listener:  ln,
		reply:     []byte(DEFAULT_REPLY),
		chunkSize: DEFAULT_CHUNK_SIZE,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state.Store(int32(StateListening))
	return s
}

func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *Server) State() State {
	return State(s.state.Load())
}

// Serve accepts one connection and replies to every chunk it reads until
// the peer closes the connection, which returns nil. Accept, read and write
// failures are returned wrapped in ErrAccept, ErrRead and ErrWrite. Cancelling
// ctx closes the listener and the connection and returns ctx.Err().
func (s *Server) Serve(ctx context.Context) error {
	if !s.served.CompareAndSwap(false, true) {
		return ErrAlreadyServed
	}
	defer s.state.Store(int32(StateClosed))

	stop := context.AfterFunc(ctx, s.closeAll)
	defer stop()

	slog.Info("[Companion] Waiting for client...", slog.String("addr", s.Addr().String()))

	conn, err := s.listener.Accept()
	s.listener.Close()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %w", ErrAccept, err)
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	defer conn.Close()

	// ctx may have been cancelled between Accept and storing conn
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.state.Store(int32(StateConnected))
	slog.Info("[Companion] Connected", slog.String("remote_addr", conn.RemoteAddr().String()))

	err = s.converse(conn)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (s *Server) converse(conn net.Conn) error {
	buf := make([]byte, s.chunkSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			slog.Info("[Companion] Client says", slog.String("data", string(buf[:n])))
			if _, werr := conn.Write(s.reply); werr != nil {
				return fmt.Errorf("%w: %w", ErrWrite, werr)
			}
		}

		if errors.Is(err, io.EOF) {
			slog.Info("[Companion] Client disconnected", slog.String("remote_addr", conn.RemoteAddr().String()))
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrRead, err)
		}
	}
}

func (s *Server) closeAll() {
	s.listener.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Close()
	}
}
