// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The hostbrain authors

package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vexsim/hostbrain/pkg/auton"
	"github.com/vexsim/hostbrain/pkg/display"
	"github.com/vexsim/hostbrain/pkg/link"
	"github.com/vexsim/hostbrain/pkg/rtos"
	"github.com/vexsim/hostbrain/pkg/sim"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulator with the built-in demo robot program",
	Long: `Runs the simulated brain: the physics tick, the robot program's
tasks and the viewer link. Without a reachable viewer the simulator
still runs; it simply has nobody watching.`,
	RunE: runSimulator,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// Wire bitmask bit to controller button index.
var buttonBits = []struct {
	bit    uint16
	button int
}{
	{link.BitA, sim.ButtonA},
	{link.BitB, sim.ButtonB},
	{link.BitX, sim.ButtonX},
	{link.BitY, sim.ButtonY},
	{link.BitUp, sim.ButtonUp},
	{link.BitDown, sim.ButtonDown},
	{link.BitLeft, sim.ButtonLeft},
	{link.BitRight, sim.ButtonRight},
	{link.BitL1, sim.ButtonL1},
	{link.BitL2, sim.ButtonL2},
	{link.BitR1, sim.ButtonR1},
	{link.BitR2, sim.ButtonR2},
}

func runSimulator(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	store := sim.NewStore(time.Duration(cfg.TickMillis) * time.Millisecond)
	selector := auton.NewSelector()

	opts := link.DialOptions{InsecureSkipVerify: cfg.NoSSLVerify}
	if cfg.Username != "" && cfg.ViewerURL != "" {
		opts.Username = cfg.Username
		password, err := GetPassword()
		if err != nil {
			return err
		}
		opts.Password = password
	}
	client := link.NewClient(opts)
	screen := display.New(client.SendScreen)

	// Inbound control messages drive the store.
	client.SetTouchCallback(func(t link.TouchInput) {
		screen.SetTouch(t.X, t.Y, t.Pressed)
		applyLCDTouch(store, t)
	})
	client.SetControllerCallback(func(c link.ControllerInput) {
		applyController(store, c)
	})
	client.SetModeCallback(func(value string) {
		store.SetMode(sim.ParseMode(value))
		store.SetFieldConnected(true)
	})
	client.SetSelectAutoCallback(func(category string, index int) {
		selector.Select(auton.Category(category), index)
	})

	// Telemetry rides on the physics tick.
	store.SetUpdateCallback(func() {
		for port := 1; port <= sim.NumPorts; port++ {
			m := store.MotorSnapshot(port)
			if !m.Connected {
				continue
			}
			client.SendMotorTelemetry(port, m.Voltage, m.ActualVelocity, m.Position)
		}
	})

	switch {
	case cfg.SerialPort != "":
		conn, err := link.OpenSerial(cfg.SerialPort, cfg.BaudRate)
		if err != nil {
			log.Printf("run: viewer unreachable, running offline: %v", err)
		} else {
			client.Attach(conn)
			log.Printf("run: viewer on %s @ %d baud", cfg.SerialPort, cfg.BaudRate)
		}
	case cfg.ViewerURL != "":
		client.ConnectURL(cfg.ViewerURL) // logs and stays offline on failure
	default:
		log.Printf("run: no viewer configured, running offline")
	}
	defer client.Disconnect()

	r := newRobot(store, selector, cfg)
	r.initialize()

	client.SendAutonList(
		selector.Names(auton.CategoryMatch),
		selector.Names(auton.CategorySkills))
	lastLCD := store.LCDLines()
	client.SendLCD(lastLCD[:])
	lastMode := store.Mode()
	client.SendMode(lastMode.String())

	modes := &modeTasks{r: r}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(store.Tick())
	defer ticker.Stop()

	log.Printf("run: simulating at %v tick", store.Tick())
	for {
		select {
		case <-sig:
			log.Printf("run: shutting down")
			modes.halt()
			return nil

		case <-ticker.C:
			store.Update()
			r.lcd.CheckButtons()

			if mode := store.Mode(); mode != lastMode {
				log.Printf("run: mode %s -> %s", lastMode, mode)
				lastMode = mode
				modes.dispatch(mode)
				client.SendMode(mode.String())
			}
			if lines := store.LCDLines(); lines != lastLCD {
				lastLCD = lines
				client.SendLCD(lines[:])
			}
			screen.Flush()
		}
	}
}

// modeTasks runs the robot's competition entry points, one rtos task
// per mode. A mode change stops the previous task cooperatively and
// joins it before the next one starts. Only opcontrol takes a stop
// channel; autonomous and disabled run to completion on their own.
type modeTasks struct {
	r    *robot
	task *rtos.Task
	stop chan struct{}
}

func (m *modeTasks) dispatch(mode sim.Mode) {
	m.halt()
	switch mode {
	case sim.ModeDisabled:
		m.task = rtos.NewTask(m.r.disabled, rtos.PriorityDefault, "disabled")
	case sim.ModeAutonomous:
		m.task = rtos.NewTask(m.r.autonomous, rtos.PriorityDefault, "autonomous")
	case sim.ModeOpControl:
		m.stop = make(chan struct{})
		stop := m.stop
		m.task = rtos.NewTask(func() { m.r.opControl(stop) }, rtos.PriorityDefault, "opcontrol")
	}
}

func (m *modeTasks) halt() {
	if m.task == nil {
		return
	}
	if m.stop != nil {
		close(m.stop)
	}
	m.task.Remove()
	m.task.Join()
	m.task, m.stop = nil, nil
	m.r.stopMotors()
}

// applyController writes one controller sample into the store.
func applyController(store *sim.Store, c link.ControllerInput) {
	store.SetControllerAnalog(sim.ControllerMaster, sim.AnalogLeftX, c.LX)
	store.SetControllerAnalog(sim.ControllerMaster, sim.AnalogLeftY, c.LY)
	store.SetControllerAnalog(sim.ControllerMaster, sim.AnalogRightX, c.RX)
	store.SetControllerAnalog(sim.ControllerMaster, sim.AnalogRightY, c.RY)
	for _, b := range buttonBits {
		store.SetControllerDigital(sim.ControllerMaster, b.button, c.Buttons&b.bit != 0)
	}
}

// applyLCDTouch maps touches on the bottom strip of the screen to the
// three LLEMU buttons. A release clears all of them.
func applyLCDTouch(store *sim.Store, t link.TouchInput) {
	const buttonStripTop = display.Height - 40

	if !t.Pressed {
		store.SetLCDButton(0b111, false)
		return
	}
	if t.Y < buttonStripTop {
		return
	}
	switch {
	case t.X < display.Width/3:
		store.SetLCDButton(0b100, true) // left
	case t.X < 2*display.Width/3:
		store.SetLCDButton(0b010, true) // center
	default:
		store.SetLCDButton(0b001, true) // right
	}
}
