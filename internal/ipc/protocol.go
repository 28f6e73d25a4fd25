package ipc

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// MessageType tags every socket frame.
type MessageType string

const (
	MessageTypeState         MessageType = "state"
	MessageTypeAction        MessageType = "action"
	MessageTypeSubscribe     MessageType = "subscribe"
	MessageTypeStateResponse MessageType = "state_response"
	MessageTypeOK            MessageType = "ok"
	MessageTypeError         MessageType = "error"
)

// maxFrameSize caps a single frame; snapshots are a few KiB at most.
const maxFrameSize = 4 << 20

// Message is one frame on the socket.
type Message struct {
	Type    MessageType `json:"type"`
	Request *Request    `json:"request,omitempty"`
	State   *Snapshot   `json:"state,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// NewStateMessage creates a state query
func NewStateMessage() *Message {
	return &Message{Type: MessageTypeState}
}

// NewActionMessage creates an action request
func NewActionMessage(req Request) *Message {
	return &Message{Type: MessageTypeAction, Request: &req}
}

// NewSubscribeMessage asks the server to push every published snapshot
func NewSubscribeMessage() *Message {
	return &Message{Type: MessageTypeSubscribe}
}

// NewStateResponseMessage carries a snapshot
func NewStateResponseMessage(s Snapshot) *Message {
	return &Message{Type: MessageTypeStateResponse, State: &s}
}

// NewOKMessage acknowledges a request
func NewOKMessage() *Message {
	return &Message{Type: MessageTypeOK}
}

// NewErrorMessage creates a new error message
func NewErrorMessage(errMsg string) *Message {
	return &Message{Type: MessageTypeError, Error: errMsg}
}

// readMessage reads a length-prefixed JSON frame
func readMessage(r io.Reader) (*Message, error) {
	// Read message length (4 bytes, big endian)
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return nil, fmt.Errorf("failed to read message length: %w", err)
	}
	if length > maxFrameSize {
		return nil, fmt.Errorf("message too large: %d bytes", length)
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("failed to read message data: %w", err)
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	return &msg, nil
}

// writeMessage writes a length-prefixed JSON frame
func writeMessage(w io.Writer, msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	length := uint32(len(data)) //nolint:gosec // bounded by maxFrameSize on the read side
	if err := binary.Write(w, binary.BigEndian, length); err != nil {
		return fmt.Errorf("failed to write message length: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write message data: %w", err)
	}
	return nil
}
