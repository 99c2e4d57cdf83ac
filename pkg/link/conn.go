// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The hostbrain authors

package link

import (
	"bufio"
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"go.bug.st/serial"
)

// Conn is one message-oriented viewer connection. WebSocket is the
// normal transport; a serial port can stand in for a tethered viewer.
type Conn interface {
	// ReadMessage blocks until one complete inbound message arrives.
	ReadMessage() ([]byte, error)
	// WriteMessage sends one complete outbound message.
	WriteMessage(data []byte) error
	Close() error
}

// DialOptions configure the WebSocket handshake. The zero value is
// fine for a local unauthenticated viewer.
type DialOptions struct {
	Username           string
	Password           string
	InsecureSkipVerify bool // wss:// only
	HandshakeTimeout   time.Duration
}

// wsConn frames messages as WebSocket text frames. The library
// produces the standard 7/16/64-bit payload length encoding; one
// frame per message, no continuation frames.
type wsConn struct {
	conn *websocket.Conn
}

func (w *wsConn) ReadMessage() ([]byte, error) {
	for {
		messageType, data, err := w.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		// The protocol is JSON text; skip anything else.
		if messageType != websocket.TextMessage {
			continue
		}
		return data, nil
	}
}

func (w *wsConn) WriteMessage(data []byte) error {
	return w.conn.WriteMessage(websocket.TextMessage, data)
}

func (w *wsConn) Close() error {
	return w.conn.Close()
}

// serialConn frames messages as newline-delimited JSON, since a serial
// byte stream has no message boundaries of its own.
type serialConn struct {
	port serial.Port
	r    *bufio.Reader
}

func (s *serialConn) ReadMessage() ([]byte, error) {
	line, err := s.r.ReadBytes('\n')
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(line, "\r\n"), nil
}

func (s *serialConn) WriteMessage(data []byte) error {
	if _, err := s.port.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}

func (s *serialConn) Close() error {
	return s.port.Close()
}

// DialWebSocket opens the viewer connection with a compliant RFC 6455
// client handshake, optionally carrying HTTP Basic auth.
func DialWebSocket(wsURL string, opts DialOptions) (Conn, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("link: invalid URL: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("link: unsupported URL scheme %q (use ws:// or wss://)", u.Scheme)
	}

	timeout := opts.HandshakeTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	dialer := websocket.Dialer{HandshakeTimeout: timeout}
	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: opts.InsecureSkipVerify,
		}
	}

	headers := http.Header{}
	if opts.Username != "" && opts.Password != "" {
		credentials := base64.StdEncoding.EncodeToString(
			[]byte(opts.Username + ":" + opts.Password))
		headers.Set("Authorization", "Basic "+credentials)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	conn, resp, err := dialer.DialContext(ctx, wsURL, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("link: handshake failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("link: dial failed: %w", err)
	}
	return &wsConn{conn: conn}, nil
}

// OpenSerial opens a serial viewer link at 8N1.
func OpenSerial(portName string, baudRate int) (Conn, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("link: open serial port %s: %w", portName, err)
	}
	return &serialConn{port: port, r: bufio.NewReader(port)}, nil
}

// NewWebSocketConn wraps an already-established WebSocket connection,
// e.g. one accepted by the monitor's upgrade handler.
func NewWebSocketConn(conn *websocket.Conn) Conn {
	return &wsConn{conn: conn}
}
