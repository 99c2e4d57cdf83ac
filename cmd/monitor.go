// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The hostbrain authors

package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/vexsim/hostbrain/pkg/link"
)

var monitorListen string

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Terminal viewer for a running simulator",
	Long: `Serves the viewer side of the protocol and shows the simulated
brain in the terminal: competition mode, LCD lines, motor telemetry
and the simulator's log stream.

The simulator connects here:
  hostbrain run --url ws://localhost:7071/

Commands (type into the input line):
  mode disabled|autonomous|opcontrol
  auton match|skills <index>
  stick <lx> <ly> <rx> <ry>
  press <a|b|x|y|up|down|left|right|l1|l2|r1|r2>...
  release
  touch <x> <y>`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().StringVarP(&monitorListen, "listen", "l", ":7071", "Listen address for the simulator connection")
	rootCmd.AddCommand(monitorCmd)
}

//////////////////////////////////////////////////////////////
// Simulator connection plumbing
//////////////////////////////////////////////////////////////

// simSession is the monitor's side of one simulator connection.
type simSession struct {
	mu   sync.Mutex
	conn link.Conn
}

func (s *simSession) set(conn link.Conn) {
	s.mu.Lock()
	old := s.conn
	s.conn = conn
	s.mu.Unlock()
	if old != nil {
		old.Close()
	}
}

// send marshals and writes one control message to the simulator.
func (s *simSession) send(msg any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return fmt.Errorf("no simulator connected")
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.conn.WriteMessage(data)
}

type simConnectedMsg struct{ remote string }
type simDisconnectedMsg struct{ err error }
type simDataMsg struct{ msg any }
type monitorTickMsg time.Time

// serveSimulator accepts simulator connections and pumps their
// messages into the TUI. One simulator at a time; a new connection
// replaces the old one.
func serveSimulator(addr string, session *simSession, stats *link.Stats, program *tea.Program) error {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		wsConn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("monitor: upgrade: %v", err)
			return
		}
		conn := link.NewWebSocketConn(wsConn)
		session.set(conn)
		program.Send(simConnectedMsg{remote: r.RemoteAddr})

		for {
			data, err := conn.ReadMessage()
			if err != nil {
				program.Send(simDisconnectedMsg{err: err})
				return
			}
			msg, err := link.Decode(data)
			msgType := ""
			if err == nil {
				msgType = wireType(msg)
			}
			stats.Update(msgType, err)
			if err != nil {
				continue
			}
			program.Send(simDataMsg{msg: msg})
		}
	})

	return http.ListenAndServe(addr, nil)
}

func wireType(msg any) string {
	switch msg.(type) {
	case *link.ScreenUpdate:
		return link.TypeScreen
	case *link.MotorTelemetry:
		return link.TypeMotor
	case *link.LogEntry:
		return link.TypeLog
	case *link.AutonList:
		return link.TypeAutons
	case *link.LCDUpdate:
		return link.TypeLCD
	case *link.ModeUpdate:
		return link.TypeMode
	}
	return ""
}

//////////////////////////////////////////////////////////////
// Bubble Tea model
//////////////////////////////////////////////////////////////

type monitorLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

type monitorModel struct {
	session *simSession
	stats   *link.Stats

	connected bool
	simRemote string

	mode   string
	lcd    []string
	motors map[int]*link.MotorTelemetry
	autons *link.AutonList

	logEntries    []monitorLogEntry
	maxLogEntries int

	input textinput.Model

	width    int
	height   int
	quitting bool
}

func initialMonitorModel(session *simSession, stats *link.Stats) monitorModel {
	ti := textinput.New()
	ti.Placeholder = "mode opcontrol"
	ti.CharLimit = 64
	ti.Width = 40
	ti.Focus()

	return monitorModel{
		session:       session,
		stats:         stats,
		mode:          "disabled",
		lcd:           make([]string, 8),
		motors:        make(map[int]*link.MotorTelemetry),
		maxLogEntries: 100,
		input:         ti,
		width:         80,
		height:        24,
	}
}

func (m monitorModel) Init() tea.Cmd {
	return monitorTickCmd()
}

func monitorTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return monitorTickMsg(t)
	})
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			m.runCommand(strings.TrimSpace(m.input.Value()))
			m.input.SetValue("")
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case monitorTickMsg:
		return m, monitorTickCmd()

	case simConnectedMsg:
		m.connected = true
		m.simRemote = msg.remote
		m.addLog(fmt.Sprintf("Simulator connected from %s", msg.remote), false)

	case simDisconnectedMsg:
		m.connected = false
		m.addLog(fmt.Sprintf("Simulator disconnected: %v", msg.err), true)

	case simDataMsg:
		m.applyData(msg.msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *monitorModel) applyData(msg any) {
	switch data := msg.(type) {
	case *link.ModeUpdate:
		if data.Value != m.mode {
			m.addLog(fmt.Sprintf("Mode: %s -> %s", m.mode, data.Value), false)
		}
		m.mode = data.Value
	case *link.LCDUpdate:
		m.lcd = data.Lines
	case *link.MotorTelemetry:
		m.motors[data.Port] = data
	case *link.AutonList:
		m.autons = data
		m.addLog(fmt.Sprintf("Routines: %d match, %d skills",
			len(data.Match), len(data.Skills)), false)
	case *link.LogEntry:
		m.addLog(fmt.Sprintf("[%s] %s", data.Level, data.Msg), data.Level == "error")
	}
}

//////////////////////////////////////////////////////////////
// Commands
//////////////////////////////////////////////////////////////

var monitorButtonBits = map[string]uint16{
	"a": link.BitA, "b": link.BitB, "x": link.BitX, "y": link.BitY,
	"up": link.BitUp, "down": link.BitDown, "left": link.BitLeft, "right": link.BitRight,
	"l1": link.BitL1, "l2": link.BitL2, "r1": link.BitR1, "r2": link.BitR2,
}

func (m *monitorModel) runCommand(line string) {
	if line == "" {
		return
	}
	fields := strings.Fields(line)

	var err error
	switch fields[0] {
	case "mode":
		if len(fields) != 2 {
			err = fmt.Errorf("usage: mode disabled|autonomous|opcontrol")
			break
		}
		err = m.session.send(&link.ModeUpdate{Type: link.TypeMode, Value: fields[1]})

	case "auton":
		if len(fields) != 3 {
			err = fmt.Errorf("usage: auton match|skills <index>")
			break
		}
		index, convErr := strconv.Atoi(fields[2])
		if convErr != nil {
			err = fmt.Errorf("bad index %q", fields[2])
			break
		}
		err = m.session.send(&link.SelectAuto{
			Type: link.TypeSelectAuto, Category: fields[1], Index: index,
		})

	case "stick":
		if len(fields) != 5 {
			err = fmt.Errorf("usage: stick <lx> <ly> <rx> <ry>")
			break
		}
		var axes [4]int
		for i, f := range fields[1:] {
			axes[i], err = strconv.Atoi(f)
			if err != nil {
				err = fmt.Errorf("bad axis %q", f)
				break
			}
		}
		if err != nil {
			break
		}
		err = m.session.send(&link.ControllerInput{
			Type: link.TypeController,
			LX:   axes[0], LY: axes[1], RX: axes[2], RY: axes[3],
		})

	case "press":
		var buttons uint16
		for _, name := range fields[1:] {
			bit, ok := monitorButtonBits[strings.ToLower(name)]
			if !ok {
				err = fmt.Errorf("unknown button %q", name)
				break
			}
			buttons |= bit
		}
		if err != nil {
			break
		}
		err = m.session.send(&link.ControllerInput{
			Type: link.TypeController, Buttons: buttons,
		})

	case "release":
		err = m.session.send(&link.ControllerInput{Type: link.TypeController})

	case "touch":
		if len(fields) != 3 {
			err = fmt.Errorf("usage: touch <x> <y>")
			break
		}
		x, errX := strconv.Atoi(fields[1])
		y, errY := strconv.Atoi(fields[2])
		if errX != nil || errY != nil {
			err = fmt.Errorf("bad coordinates")
			break
		}
		err = m.session.send(&link.TouchInput{
			Type: link.TypeTouch, X: x, Y: y, Pressed: true,
		})
		if err == nil {
			err = m.session.send(&link.TouchInput{
				Type: link.TypeTouch, X: x, Y: y,
			})
		}

	default:
		err = fmt.Errorf("unknown command %q", fields[0])
	}

	if err != nil {
		m.addLog(err.Error(), true)
	} else {
		m.addLog("> "+line, false)
	}
}

//////////////////////////////////////////////////////////////
// View
//////////////////////////////////////////////////////////////

func (m monitorModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	var s strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	// Header
	s.WriteString(titleStyle.Render("HOSTBRAIN MONITOR"))
	s.WriteString(" ")
	connStatus := warningStyle.Render("WAITING FOR SIMULATOR on " + monitorListen)
	if m.connected {
		connStatus = valueStyle.Render(m.simRemote)
	}
	s.WriteString(headerStyle.Render(fmt.Sprintf("| %s | esc=quit", connStatus)))
	s.WriteString("\n\n")

	// Mode and stats line
	snap := m.stats.Snapshot()
	s.WriteString(fmt.Sprintf("%s %s  %s %s  %s %s\n\n",
		labelStyle.Render("Mode:"), valueStyle.Render(m.mode),
		labelStyle.Render("Messages:"), valueStyle.Render(fmt.Sprintf("%d", snap.Total)),
		labelStyle.Render("Rate:"), valueStyle.Render(fmt.Sprintf("%.1f msg/s", snap.MessageRate))))

	// LCD panel
	var lcd strings.Builder
	lcd.WriteString(labelStyle.Render("LCD"))
	lcd.WriteString("\n")
	for i, line := range m.lcd {
		lcd.WriteString(fmt.Sprintf("%d %s\n", i, line))
	}
	s.WriteString(boxStyle.Width(m.width - 4).Render(strings.TrimRight(lcd.String(), "\n")))
	s.WriteString("\n\n")

	// Motor telemetry
	var motors strings.Builder
	motors.WriteString(labelStyle.Render("MOTORS"))
	motors.WriteString("\n")
	if len(m.motors) == 0 {
		motors.WriteString(headerStyle.Render("  (no telemetry yet)"))
	} else {
		ports := make([]int, 0, len(m.motors))
		for port := range m.motors {
			ports = append(ports, port)
		}
		sort.Ints(ports)
		for _, port := range ports {
			t := m.motors[port]
			motors.WriteString(fmt.Sprintf("  port %2d  volt %4d  %s  pos %8.1f deg\n",
				t.Port, t.Voltage,
				valueStyle.Render(fmt.Sprintf("%7.1f rpm", t.Velocity)),
				t.Position))
		}
	}
	s.WriteString(boxStyle.Width(m.width - 4).Render(strings.TrimRight(motors.String(), "\n")))
	s.WriteString("\n\n")

	// Autonomous routines
	if m.autons != nil {
		var autons strings.Builder
		autons.WriteString(labelStyle.Render("ROUTINES"))
		autons.WriteString("  match:")
		for i, r := range m.autons.Match {
			autons.WriteString(fmt.Sprintf(" [%d] %s", i, r.Name))
		}
		autons.WriteString("  skills:")
		for i, r := range m.autons.Skills {
			autons.WriteString(fmt.Sprintf(" [%d] %s", i, r.Name))
		}
		s.WriteString(autons.String())
		s.WriteString("\n\n")
	}

	// Event log
	var events strings.Builder
	events.WriteString(labelStyle.Render("EVENTS"))
	events.WriteString("\n")
	logHeight := 8
	startIdx := len(m.logEntries) - logHeight
	if startIdx < 0 {
		startIdx = 0
	}
	if len(m.logEntries) == 0 {
		events.WriteString(headerStyle.Render("  (no events yet)"))
	} else {
		for _, entry := range m.logEntries[startIdx:] {
			style := headerStyle
			if entry.isError {
				style = errorStyle
			}
			events.WriteString(fmt.Sprintf("%s %s\n",
				headerStyle.Render(entry.timestamp.Format("15:04:05.000")),
				style.Render(entry.message)))
		}
	}
	s.WriteString(boxStyle.Width(m.width - 4).Render(strings.TrimRight(events.String(), "\n")))
	s.WriteString("\n\n")

	// Command input
	s.WriteString(m.input.View())
	s.WriteString("\n")

	return s.String()
}

func (m *monitorModel) addLog(message string, isError bool) {
	m.logEntries = append(m.logEntries, monitorLogEntry{
		timestamp: time.Now(),
		message:   message,
		isError:   isError,
	})
	if len(m.logEntries) > m.maxLogEntries {
		m.logEntries = m.logEntries[len(m.logEntries)-m.maxLogEntries:]
	}
}

//////////////////////////////////////////////////////////////
// Entry point
//////////////////////////////////////////////////////////////

func runMonitor(cmd *cobra.Command, args []string) error {
	session := &simSession{}
	stats := link.NewStats()

	program := tea.NewProgram(
		initialMonitorModel(session, stats),
		tea.WithAltScreen(),
	)

	go func() {
		if err := serveSimulator(monitorListen, session, stats, program); err != nil {
			log.Printf("monitor: server: %v", err)
			program.Quit()
		}
	}()

	_, err := program.Run()
	return err
}
