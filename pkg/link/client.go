// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The hostbrain authors

package link

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/vexsim/hostbrain/pkg/rtos"
)

// Client maintains the single viewer connection. All Send methods are
// safe for concurrent use from multiple producers; a dedicated send
// lock keeps frames from interleaving. While offline every Send is a
// silent no-op, so the simulator keeps ticking with no viewer
// attached.
//
// Inbound callbacks run directly on the receive task and must not
// block; in particular they must not call Disconnect.
type Client struct {
	opts DialOptions

	mu        sync.Mutex // connection lifecycle
	conn      Conn
	recv      *rtos.Task
	connected bool

	sendMu sync.Mutex // serializes frame writes

	cbMu         sync.Mutex
	onTouch      func(TouchInput)
	onController func(ControllerInput)
	onMode       func(value string)
	onSelectAuto func(category string, index int)
}

// NewClient creates a disconnected client.
func NewClient(opts DialOptions) *Client {
	return &Client{opts: opts}
}

// Connect dials ws://host:port/ and starts the receive task. It is
// idempotent while connected. Failure to resolve or dial is non-fatal:
// Connect logs, returns false and leaves the client offline.
func (c *Client) Connect(host string, port uint16) bool {
	return c.ConnectURL(fmt.Sprintf("ws://%s:%d/", host, port))
}

// ConnectURL is Connect for a full ws:// or wss:// URL.
func (c *Client) ConnectURL(wsURL string) bool {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return true
	}
	c.mu.Unlock()

	conn, err := DialWebSocket(wsURL, c.opts)
	if err != nil {
		log.Printf("link: connect %s: %v", wsURL, err)
		return false
	}
	c.Attach(conn)
	log.Printf("link: connected to %s", wsURL)
	return true
}

// Attach adopts an established connection (WebSocket or serial) and
// spawns the single background receive task. An existing connection
// is torn down first.
func (c *Client) Attach(conn Conn) {
	c.detach()

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.recv = rtos.NewTask(func() { c.receiveLoop(conn) }, rtos.PriorityDefault, "link-recv")
	c.mu.Unlock()
}

// Disconnect stops the receive task, joins it and closes the
// connection. It is idempotent.
func (c *Client) Disconnect() {
	c.detach()
}

func (c *Client) detach() {
	c.mu.Lock()
	conn, recv := c.conn, c.recv
	c.conn = nil
	c.recv = nil
	c.connected = false
	c.mu.Unlock()

	if conn != nil {
		conn.Close() // unblocks the receive loop's read
	}
	if recv != nil {
		recv.Remove()
		recv.Join()
	}
}

// Connected reports whether a viewer connection is up.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// SetTouchCallback registers the handler for touch messages.
func (c *Client) SetTouchCallback(fn func(TouchInput)) {
	c.cbMu.Lock()
	c.onTouch = fn
	c.cbMu.Unlock()
}

// SetControllerCallback registers the handler for controller samples.
func (c *Client) SetControllerCallback(fn func(ControllerInput)) {
	c.cbMu.Lock()
	c.onController = fn
	c.cbMu.Unlock()
}

// SetModeCallback registers the handler for mode changes.
func (c *Client) SetModeCallback(fn func(value string)) {
	c.cbMu.Lock()
	c.onMode = fn
	c.cbMu.Unlock()
}

// SetSelectAutoCallback registers the handler for routine selection.
func (c *Client) SetSelectAutoCallback(fn func(category string, index int)) {
	c.cbMu.Lock()
	c.onSelectAuto = fn
	c.cbMu.Unlock()
}

func (c *Client) receiveLoop(conn Conn) {
	for {
		data, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			lost := c.connected && c.conn == conn
			if lost {
				c.connected = false
			}
			c.mu.Unlock()
			if lost {
				log.Printf("link: connection lost: %v", err)
				conn.Close()
			}
			return
		}
		c.dispatch(data)
	}
}

// dispatch decodes one inbound message and invokes its callback. A
// malformed message is dropped and the receive loop stays alive.
func (c *Client) dispatch(data []byte) {
	msg, err := Decode(data)
	if errors.Is(err, ErrUnknownType) {
		return
	}
	if err != nil {
		log.Printf("link: dropping inbound message: %v", err)
		return
	}

	c.cbMu.Lock()
	onTouch, onController := c.onTouch, c.onController
	onMode, onSelectAuto := c.onMode, c.onSelectAuto
	c.cbMu.Unlock()

	switch m := msg.(type) {
	case *TouchInput:
		if onTouch != nil {
			onTouch(*m)
		}
	case *ControllerInput:
		if onController != nil {
			onController(*m)
		}
	case *ModeUpdate:
		if onMode != nil {
			onMode(m.Value)
		}
	case *SelectAuto:
		if onSelectAuto != nil {
			onSelectAuto(m.Category, m.Index)
		}
	}
}

// send marshals and writes one frame. Offline sends are dropped.
func (c *Client) send(msg any) {
	c.mu.Lock()
	conn, ok := c.conn, c.connected
	c.mu.Unlock()
	if !ok {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("link: encode: %v", err)
		return
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if err := conn.WriteMessage(data); err != nil {
		log.Printf("link: send: %v", err)
	}
}

// SendScreen mirrors one rectangle of the brain screen. Pixels are
// the rect's contents, row-major.
func (c *Client) SendScreen(x1, y1, x2, y2 int, pixels []uint16) {
	c.send(&ScreenUpdate{
		Type: TypeScreen,
		X1:   x1, Y1: y1, X2: x2, Y2: y2,
		Data: EncodePixels(pixels),
	})
}

// SendMotorTelemetry reports one motor's state.
func (c *Client) SendMotorTelemetry(port, voltage int, velocity, position float64) {
	c.send(&MotorTelemetry{
		Type: TypeMotor,
		Port: port, Voltage: voltage,
		Velocity: velocity, Position: position,
	})
}

// SendLog forwards a log line to the viewer.
func (c *Client) SendLog(level, msg string) {
	c.send(&LogEntry{Type: TypeLog, Level: level, Msg: msg})
}

// SendAutonList publishes the registered routines, preserving order.
func (c *Client) SendAutonList(match, skills []string) {
	c.send(&AutonList{
		Type:   TypeAutons,
		Match:  autonNames(match),
		Skills: autonNames(skills),
	})
}

// SendLCD mirrors the LLEMU text lines. The wire shape always carries
// exactly eight lines.
func (c *Client) SendLCD(lines []string) {
	fixed := make([]string, 8)
	copy(fixed, lines)
	c.send(&LCDUpdate{Type: TypeLCD, Lines: fixed})
}

// SendMode reports the competition mode.
func (c *Client) SendMode(mode string) {
	c.send(&ModeUpdate{Type: TypeMode, Value: mode})
}
