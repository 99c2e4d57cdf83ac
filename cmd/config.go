// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The hostbrain authors

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/caarlos0/env/v11"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/vexsim/hostbrain/pkg/sim"
)

// MotorConfig describes one configured motor.
type MotorConfig struct {
	Port     int    `yaml:"port"`
	Gearset  string `yaml:"gearset"` // "36", "18" or "6"
	Reversed bool   `yaml:"reversed"`
}

// Config is the simulator configuration. Values come from the YAML
// file, then environment variables, then command-line flags, each
// layer overriding the previous one.
type Config struct {
	ViewerURL   string `yaml:"viewer_url" env:"HOSTBRAIN_VIEWER_URL"`
	Username    string `yaml:"username" env:"HOSTBRAIN_USERNAME"`
	NoSSLVerify bool   `yaml:"no_ssl_verify" env:"HOSTBRAIN_NO_SSL_VERIFY"`

	SerialPort string `yaml:"serial_port" env:"HOSTBRAIN_SERIAL_PORT"`
	BaudRate   int    `yaml:"baud_rate" env:"HOSTBRAIN_BAUD_RATE"`

	// Physics tick in milliseconds. The filter dynamics scale with it.
	TickMillis int `yaml:"tick_millis" env:"HOSTBRAIN_TICK_MILLIS"`

	// Tank drive for the built-in demo program.
	LeftMotor  MotorConfig `yaml:"left_motor"`
	RightMotor MotorConfig `yaml:"right_motor"`
}

func defaultConfig() Config {
	return Config{
		BaudRate:   115200,
		TickMillis: 10,
		LeftMotor:  MotorConfig{Port: 1, Gearset: "18"},
		RightMotor: MotorConfig{Port: 2, Gearset: "18", Reversed: true},
	}
}

// LoadConfig builds the effective configuration. A missing path means
// no config file; an unreadable or malformed file is an error.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}

	// Flags win over file and environment.
	if wsURL != "" {
		cfg.ViewerURL = wsURL
	}
	if wsUsername != "" {
		cfg.Username = wsUsername
	}
	if wsNoSSLVerify {
		cfg.NoSSLVerify = true
	}
	if portName != "" {
		cfg.SerialPort = portName
	}
	if baudRate != 115200 {
		cfg.BaudRate = baudRate
	}

	if cfg.TickMillis <= 0 {
		return cfg, fmt.Errorf("tick_millis must be positive, got %d", cfg.TickMillis)
	}
	return cfg, nil
}

// Gearset maps the config string to the simulated cartridge.
func (m MotorConfig) GearsetValue() sim.Gearset {
	switch m.Gearset {
	case "36":
		return sim.Gearset36
	case "6":
		return sim.Gearset06
	default:
		return sim.Gearset18
	}
}

// GetPassword retrieves the viewer password from the environment or
// prompts for it without echo.
func GetPassword() (string, error) {
	if pw := os.Getenv("HOSTBRAIN_PASSWORD"); pw != "" {
		return pw, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		// Fallback to regular input if terminal functions fail
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		fmt.Fprintln(os.Stderr)
		return strings.TrimSpace(password), nil
	}

	fmt.Fprintln(os.Stderr)
	return string(passwordBytes), nil
}
