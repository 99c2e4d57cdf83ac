// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The hostbrain authors

// Package link maintains the real-time connection between the
// simulator and an external viewer. Outbound state snapshots are
// serialized into typed JSON messages, one WebSocket text frame per
// message; inbound control messages are decoded and dispatched to
// registered callbacks on a single background receive task.
package link

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
)

// Message type discriminators. Outbound: simulator → viewer.
const (
	TypeScreen = "screen"
	TypeMotor  = "motor"
	TypeLog    = "log"
	TypeAutons = "autons"
	TypeLCD    = "lcd"
	TypeMode   = "mode"
)

// Inbound: viewer → simulator. Mode is used in both directions.
const (
	TypeTouch      = "touch"
	TypeController = "controller"
	TypeSelectAuto = "select_auto"
)

// Controller bitmask layout for ControllerInput.Buttons.
const (
	BitA = 1 << iota
	BitB
	BitX
	BitY
	BitUp
	BitDown
	BitLeft
	BitRight
	BitL1
	BitL2
	BitR1
	BitR2
)

// ErrUnknownType marks an inbound message whose discriminator is not
// part of the protocol. Such messages are dropped, not surfaced.
var ErrUnknownType = errors.New("link: unknown message type")

// ScreenUpdate mirrors a rectangle of the brain screen. Data is the
// base64 encoding of the rect's 16-bit pixels, row-major,
// little-endian.
type ScreenUpdate struct {
	Type string `json:"type"`
	X1   int    `json:"x1"`
	Y1   int    `json:"y1"`
	X2   int    `json:"x2"`
	Y2   int    `json:"y2"`
	Data string `json:"data"`
}

// MotorTelemetry reports one motor's commanded voltage, filtered
// velocity and accumulated position.
type MotorTelemetry struct {
	Type     string  `json:"type"`
	Port     int     `json:"port"`
	Voltage  int     `json:"voltage"`
	Velocity float64 `json:"velocity"`
	Position float64 `json:"position"`
}

// LogEntry forwards a log line to the viewer.
type LogEntry struct {
	Type  string `json:"type"`
	Level string `json:"level"`
	Msg   string `json:"msg"`
}

// AutonName is one selectable routine in an AutonList.
type AutonName struct {
	Name string `json:"name"`
}

// AutonList publishes the registered autonomous routines, in
// registration order, split by category.
type AutonList struct {
	Type   string      `json:"type"`
	Match  []AutonName `json:"match"`
	Skills []AutonName `json:"skills"`
}

// LCDUpdate mirrors the eight LLEMU text lines.
type LCDUpdate struct {
	Type  string   `json:"type"`
	Lines []string `json:"lines"`
}

// ModeUpdate carries the competition mode: "disabled", "autonomous"
// or "opcontrol".
type ModeUpdate struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// TouchInput is a viewer touch/click on the mirrored screen.
type TouchInput struct {
	Type    string `json:"type"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Pressed bool   `json:"pressed"`
}

// ControllerInput is a full controller sample: four analog sticks in
// [-127, 127] and the button bitmask (see the Bit* constants).
type ControllerInput struct {
	Type    string `json:"type"`
	LX      int    `json:"lx"`
	LY      int    `json:"ly"`
	RX      int    `json:"rx"`
	RY      int    `json:"ry"`
	Buttons uint16 `json:"buttons"`
}

// SelectAuto asks the simulator to select one autonomous routine.
type SelectAuto struct {
	Type     string `json:"type"`
	Category string `json:"category"`
	Index    int    `json:"index"`
}

// Decode parses one wire message into its concrete struct pointer.
// Messages with an unrecognized discriminator return ErrUnknownType.
func Decode(data []byte) (any, error) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("link: bad envelope: %w", err)
	}

	var msg any
	switch env.Type {
	case TypeScreen:
		msg = &ScreenUpdate{}
	case TypeMotor:
		msg = &MotorTelemetry{}
	case TypeLog:
		msg = &LogEntry{}
	case TypeAutons:
		msg = &AutonList{}
	case TypeLCD:
		msg = &LCDUpdate{}
	case TypeMode:
		msg = &ModeUpdate{}
	case TypeTouch:
		msg = &TouchInput{}
	case TypeController:
		msg = &ControllerInput{}
	case TypeSelectAuto:
		msg = &SelectAuto{}
	default:
		return nil, ErrUnknownType
	}

	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("link: bad %q message: %w", env.Type, err)
	}
	return msg, nil
}

// EncodePixels packs 16-bit pixels into the wire's base64 form.
func EncodePixels(pixels []uint16) string {
	buf := make([]byte, len(pixels)*2)
	for i, p := range pixels {
		binary.LittleEndian.PutUint16(buf[i*2:], p)
	}
	return base64.StdEncoding.EncodeToString(buf)
}

// DecodePixels is the inverse of EncodePixels.
func DecodePixels(data string) ([]uint16, error) {
	buf, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("link: bad pixel data: %w", err)
	}
	if len(buf)%2 != 0 {
		return nil, errors.New("link: odd pixel byte count")
	}
	pixels := make([]uint16, len(buf)/2)
	for i := range pixels {
		pixels[i] = binary.LittleEndian.Uint16(buf[i*2:])
	}
	return pixels, nil
}

// autonNames wraps plain routine names for the wire shape.
func autonNames(names []string) []AutonName {
	out := make([]AutonName, len(names))
	for i, n := range names {
		out[i] = AutonName{Name: n}
	}
	return out
}
