package ipc

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/user"
	"path/filepath"
	"sync"

	"github.com/bnema/waydock/internal/logger"
)

// Handler answers socket requests. Implementations must be safe to call
// from the connection goroutines.
type Handler interface {
	HandleState() (Snapshot, error)
	HandleAction(req Request) error
}

// SocketServer handles incoming IPC connections
type SocketServer struct {
	mu         sync.Mutex
	listener   net.Listener
	socketPath string
	handler    Handler
	conns      map[net.Conn]chan Snapshot // nil channel for request/response clients
	wg         sync.WaitGroup
	cancel     context.CancelFunc
	running    bool
}

// NewSocketServer creates a socket server listening on socketPath, or on
// the default path when socketPath is empty.
func NewSocketServer(socketPath string, handler Handler) (*SocketServer, error) {
	if socketPath == "" {
		var err error
		socketPath, err = DefaultSocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get socket path: %w", err)
		}
	}

	return &SocketServer{
		socketPath: socketPath,
		handler:    handler,
		conns:      make(map[net.Conn]chan Snapshot),
	}, nil
}

// Path returns the socket path.
func (s *SocketServer) Path() string { return s.socketPath }

// Start starts the socket server
func (s *SocketServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	// Remove existing socket file if it exists
	if err := os.RemoveAll(s.socketPath); err != nil {
		return fmt.Errorf("failed to remove existing socket: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0755); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create socket listener: %w", err)
	}

	// Set socket permissions (user only)
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.listener = listener
	s.running = true

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go s.acceptConnections(ctx)

	logger.Infof("IPC socket server started at %s", s.socketPath)
	return nil
}

// Stop stops the socket server
func (s *SocketServer) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}

	s.running = false
	if s.cancel != nil {
		s.cancel()
	}
	if s.listener != nil {
		s.listener.Close()
	}
	// Connection goroutines block reading; closing the conn releases them.
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()

	os.RemoveAll(s.socketPath)

	logger.Info("IPC socket server stopped")
}

// Publish pushes a snapshot to every subscriber. Slow subscribers miss
// intermediate snapshots rather than stalling the caller.
func (s *SocketServer) Publish(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.conns {
		if ch == nil {
			continue
		}
		select {
		case ch <- snap:
		default:
			// Drop the stale one and keep the newest.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// acceptConnections accepts and handles incoming connections
func (s *SocketServer) acceptConnections(ctx context.Context) {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				logger.Errorf("Failed to accept connection: %v", err)
				continue
			}
		}

		s.mu.Lock()
		if !s.running {
			s.mu.Unlock()
			conn.Close()
			return
		}
		s.conns[conn] = nil
		s.wg.Add(1)
		s.mu.Unlock()

		go s.handleConnection(ctx, conn)
	}
}

// handleConnection handles a single client connection
func (s *SocketServer) handleConnection(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	logger.Debug("New IPC connection established")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msg, err := readMessage(conn)
		if err != nil {
			logger.Debugf("Connection closed or read error: %v", err)
			return
		}

		if msg.Type == MessageTypeSubscribe {
			s.serveSubscriber(ctx, conn)
			return
		}

		if err := writeMessage(conn, s.handleMessage(msg)); err != nil {
			logger.Errorf("Failed to send response: %v", err)
			return
		}
	}
}

// serveSubscriber sends the current snapshot and then every published one
// until the client goes away.
func (s *SocketServer) serveSubscriber(ctx context.Context, conn net.Conn) {
	ch := make(chan Snapshot, 1)

	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.conns[conn] = ch
	s.mu.Unlock()

	if snap, err := s.handler.HandleState(); err == nil {
		if err := writeMessage(conn, NewStateResponseMessage(snap)); err != nil {
			return
		}
	}

	// A read returning means the client hung up.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		var buf [1]byte
		for {
			if _, err := conn.Read(buf[:]); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-gone:
			return
		case snap := <-ch:
			if err := writeMessage(conn, NewStateResponseMessage(snap)); err != nil {
				logger.Debugf("Subscriber write failed: %v", err)
				return
			}
		}
	}
}

// handleMessage processes a single message and returns a response
func (s *SocketServer) handleMessage(msg *Message) *Message {
	switch msg.Type {
	case MessageTypeState:
		snap, err := s.handler.HandleState()
		if err != nil {
			return NewErrorMessage(err.Error())
		}
		return NewStateResponseMessage(snap)

	case MessageTypeAction:
		if msg.Request == nil {
			return NewErrorMessage("action message without request")
		}
		if err := s.handler.HandleAction(*msg.Request); err != nil {
			return NewErrorMessage(err.Error())
		}
		return NewOKMessage()

	default:
		return NewErrorMessage(fmt.Sprintf("Unknown message type: %s", msg.Type))
	}
}

// DefaultSocketPath returns $XDG_RUNTIME_DIR/waydock.sock, or a per-user
// path under /tmp when no runtime dir is set.
func DefaultSocketPath() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "waydock.sock"), nil
	}

	currentUser, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("failed to get current user: %w", err)
	}
	return filepath.Join("/tmp", fmt.Sprintf("waydock-%s.sock", currentUser.Username)), nil
}
