package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/bnema/waydock/internal/logger"
)

// ErrNotRunning means nothing is listening on the socket.
var ErrNotRunning = errors.New("waydock is not running")

// Client handles IPC communication with a running compositor
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for socketPath, or for the default path when
// socketPath is empty.
func NewClient(socketPath string) (*Client, error) {
	if socketPath == "" {
		var err error
		socketPath, err = DefaultSocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get socket path: %w", err)
		}
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}, nil
}

// SetTimeout changes the per-request deadline.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
}

// State fetches the current workspace snapshot
func (c *Client) State() (Snapshot, error) {
	response, err := c.sendMessage(NewStateMessage())
	if err != nil {
		return Snapshot{}, err
	}

	switch response.Type {
	case MessageTypeStateResponse:
		if response.State == nil {
			return NewSnapshot(), nil
		}
		return *response.State, nil
	case MessageTypeError:
		return Snapshot{}, fmt.Errorf("server error: %s", response.Error)
	default:
		return Snapshot{}, fmt.Errorf("unexpected response type: %s", response.Type)
	}
}

// Do applies an action in the compositor
func (c *Client) Do(req Request) error {
	response, err := c.sendMessage(NewActionMessage(req))
	if err != nil {
		return err
	}

	switch response.Type {
	case MessageTypeOK:
		return nil
	case MessageTypeError:
		return fmt.Errorf("server error: %s", response.Error)
	default:
		return fmt.Errorf("unexpected response type: %s", response.Type)
	}
}

// Subscribe streams snapshots until ctx is cancelled or the compositor goes
// away; the channel is closed then.
func (c *Client) Subscribe(ctx context.Context) (<-chan Snapshot, error) {
	conn, err := c.dial()
	if err != nil {
		return nil, err
	}
	if err := writeMessage(conn, NewSubscribeMessage()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan Snapshot)
	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	go func() {
		defer close(out)
		defer conn.Close()
		for {
			msg, err := readMessage(conn)
			if err != nil {
				logger.Debugf("Subscription ended: %v", err)
				return
			}
			if msg.Type != MessageTypeStateResponse || msg.State == nil {
				continue
			}
			select {
			case out <- *msg.State:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// IsRunning reports whether a compositor answers on the socket.
func (c *Client) IsRunning() bool {
	_, err := c.State()
	return err == nil
}

func (c *Client) dial() (net.Conn, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		if isConnectionRefused(err) {
			return nil, ErrNotRunning
		}
		return nil, fmt.Errorf("failed to connect to waydock: %w", err)
	}
	return conn, nil
}

// sendMessage sends a message and returns the response
func (c *Client) sendMessage(msg *Message) (*Message, error) {
	conn, err := c.dial()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Errorf("Failed to close IPC connection: %v", err)
		}
	}()

	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		logger.Warnf("Failed to set connection deadline: %v", err)
	}

	if err := writeMessage(conn, msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	response, err := readMessage(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return response, nil
}

// isConnectionRefused checks if the error is a connection refused error
func isConnectionRefused(err error) bool {
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return netErr.Op == "dial"
	}
	return false
}
