// Package network exposes the workspace monitor to remote terminals over SSH.
package network

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/bnema/waydock/internal/config"
	"github.com/bnema/waydock/internal/logger"
	"github.com/bnema/waydock/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bm "github.com/charmbracelet/wish/bubbletea"
	gossh "golang.org/x/crypto/ssh"
)

// SSHServer serves one workspace monitor per SSH session
type SSHServer struct {
	addr        string
	hostKeyPath string
	source      ui.Source
	sshServer   *ssh.Server
	listener    net.Listener

	// Active sessions
	mu       sync.Mutex
	sessions map[string]string // sessionID -> key fingerprint

	// Lifecycle
	stopOnce sync.Once
	wg       sync.WaitGroup

	// OnAuthRequest decides on keys that are not whitelisted when
	// whitelist-only mode is on. Approved keys are added to the whitelist.
	OnAuthRequest func(addr, fingerprint string) bool
}

// NewSSHServer creates a server listening on addr whose sessions follow source
func NewSSHServer(addr, hostKeyPath string, source ui.Source) *SSHServer {
	return &SSHServer{
		addr:        addr,
		hostKeyPath: hostKeyPath,
		source:      source,
		sessions:    make(map[string]string),
	}
}

// Start begins listening for SSH connections
func (s *SSHServer) Start(ctx context.Context) error {
	server, err := wish.NewServer(
		wish.WithAddress(s.addr),
		wish.WithHostKeyPath(s.hostKeyPath),
		wish.WithPublicKeyAuth(s.publicKeyAuth),
		wish.WithMiddleware(
			bm.Middleware(s.teaHandler),
			activeterm.Middleware(),
			s.sessionTracker(),
			s.loggingMiddleware(),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create SSH server: %w", err)
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	s.sshServer = server
	s.listener = ln

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		logger.Infof("SSH monitor listening on %s", ln.Addr())
		if err := server.Serve(ln); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Errorf("SSH server error: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Addr returns the bound address once started
func (s *SSHServer) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Sessions returns the number of connected monitors
func (s *SSHServer) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Stop shuts down the SSH server
func (s *SSHServer) Stop() {
	s.stopOnce.Do(func() {
		if s.sshServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = s.sshServer.Shutdown(ctx)
		}
		s.wg.Wait()
	})
}

// publicKeyAuth handles SSH public key authentication
func (s *SSHServer) publicKeyAuth(ctx ssh.Context, key ssh.PublicKey) bool {
	fingerprint := gossh.FingerprintSHA256(key)
	addr := ctx.RemoteAddr().String()

	logger.Infof("SSH authentication attempt addr=%s user=%s key=%s", addr, ctx.User(), fingerprint)
	return s.authorize(addr, fingerprint)
}

// authorize applies the whitelist policy to a key fingerprint
func (s *SSHServer) authorize(addr, fingerprint string) bool {
	if config.IsWhitelisted(fingerprint) {
		logger.Debugf("SSH key is whitelisted key=%s", fingerprint)
		return true
	}

	if !config.Get().Remote.WhitelistOnly {
		logger.Info("Accepting SSH key (whitelist-only mode disabled)")
		return true
	}

	if s.OnAuthRequest == nil {
		logger.Infof("SSH key denied (not whitelisted) key=%s addr=%s", fingerprint, addr)
		return false
	}

	if !s.OnAuthRequest(addr, fingerprint) {
		logger.Infof("SSH key denied key=%s addr=%s", fingerprint, addr)
		return false
	}
	if err := config.AddToWhitelist(fingerprint); err != nil {
		logger.Errorf("Failed to add key to whitelist: %v", err)
	}
	logger.Infof("SSH key approved and added to whitelist key=%s addr=%s", fingerprint, addr)
	return true
}

// teaHandler builds the monitor for a session. The subscription lives as
// long as the session does.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	updates, err := s.source.Watch(sess.Context())
	if err != nil {
		logger.Warnf("Cannot follow the workspace for %s: %v", sess.RemoteAddr(), err)
		wish.Fatalln(sess, "waydock: workspace state unavailable")
		return nil, nil
	}
	return ui.NewMonitorModel(s.source, updates), []tea.ProgramOption{tea.WithAltScreen()}
}

// sessionTracker keeps the session table current
func (s *SSHServer) sessionTracker() wish.Middleware {
	return func(h ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			id := sess.Context().SessionID()
			var fingerprint string
			if sess.PublicKey() != nil {
				fingerprint = gossh.FingerprintSHA256(sess.PublicKey())
			}

			s.mu.Lock()
			s.sessions[id] = fingerprint
			s.mu.Unlock()

			defer func() {
				s.mu.Lock()
				delete(s.sessions, id)
				s.mu.Unlock()
			}()

			h(sess)
		}
	}
}

// loggingMiddleware provides custom logging using our internal logger
func (s *SSHServer) loggingMiddleware() wish.Middleware {
	return func(h ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			logger.Debugf("SSH session started: user=%s addr=%s", sess.User(), sess.RemoteAddr())
			h(sess)
			logger.Debugf("SSH session ended: addr=%s", sess.RemoteAddr())
		}
	}
}
