// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The hostbrain authors
//
// Hostbrain - VEX V5 host-mode simulator
//
// Runs PROS-style robot control code on a development machine with
// simulated hardware, mirroring the brain screen and telemetry to an
// external viewer over WebSocket.

package main

import (
	"os"

	"github.com/vexsim/hostbrain/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
