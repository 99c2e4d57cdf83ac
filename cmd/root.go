// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The hostbrain authors

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Config file
	configPath string

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// Serial connection flags
	portName string
	baudRate int
)

var rootCmd = &cobra.Command{
	Use:   "hostbrain",
	Short: "VEX V5 brain simulator",
	Long: `Hostbrain - a host-mode simulator for VEX V5 robot programs.

Runs robot control code against simulated motors, controllers and the
brain screen, streaming the simulated state to an external viewer over
WebSocket and accepting controller, touch and competition-mode input
back from it.

Connection modes:
  WebSocket: --url ws://host:port/ [--username user]
  Serial:    --port /dev/ttyUSB0 [--baud 115200]

For WebSocket authentication, the password is read from the
HOSTBRAIN_PASSWORD environment variable, or prompted interactively if
not set. The --password flag is intentionally not provided to avoid
leaking credentials in shell history.`,
	Version: "1.0.0",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (YAML)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "Viewer WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device (viewer over serial)")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 115200, "Baud rate (serial only)")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
