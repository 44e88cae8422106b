package console

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/haivivi/cwlink/pkg/audio/pcm"
	"github.com/haivivi/cwlink/pkg/bridge"
	"github.com/haivivi/cwlink/pkg/cli"
	"github.com/haivivi/cwlink/pkg/keyer"
)

const terminalRefresh = 50 * time.Millisecond

const terminalHelp = "space=straight  t=talk  v=dit  b=dah  ↑↓=wpm  ←→=freq  (press again to release)  q/esc=quit"

// terminalKey maps a bubbletea key name to a keyer key.
func terminalKey(name string) keyer.Key {
	switch name {
	case " ", "space":
		return keyer.KeyStraight
	case "t", "T":
		return keyer.KeyTalk
	case "v", "V":
		return keyer.KeyDit
	case "b", "B":
		return keyer.KeyDah
	case "up":
		return keyer.KeySpeedUp
	case "down":
		return keyer.KeySpeedDown
	case "left":
		return keyer.KeyFreqDown
	case "right":
		return keyer.KeyFreqUp
	case "q", "Q", "esc", "ctrl+c":
		return keyer.KeyQuit
	default:
		return keyer.KeyNone
	}
}

type tickMsg time.Time

type doneMsg struct{}

// terminalModel is the bubbletea model of the terminal console.
type terminalModel struct {
	target Target
	logs   *cli.LogWriter
	latch  *Latch
	styles cli.Styles

	snap     bridge.Snapshot
	logLines []string
	width    int
	height   int

	// quitRequested is set once the operator asked to quit. Only then does
	// the end of the session close the console.
	quitRequested bool
	done          bool
	quitting      bool
}

func newTerminalModel(t Target, logs *cli.LogWriter) *terminalModel {
	return &terminalModel{
		target: t,
		logs:   logs,
		latch:  NewLatch(),
		styles: cli.NewStyles(cli.DefaultTheme),
		snap:   t.Snapshot(),
	}
}

func (m *terminalModel) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.waitDone(), m.listenLogs())
}

func (m *terminalModel) tick() tea.Cmd {
	return tea.Tick(terminalRefresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *terminalModel) waitDone() tea.Cmd {
	done := m.target.Done()
	return func() tea.Msg {
		<-done
		return doneMsg{}
	}
}

func (m *terminalModel) listenLogs() tea.Cmd {
	if m.logs == nil {
		return nil
	}
	ch := m.logs.Channel()
	return func() tea.Msg {
		line, ok := <-ch
		if !ok {
			return nil
		}
		return logMsg(line)
	}
}

type logMsg string

func (m *terminalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(terminalKey(msg.String()))

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		m.snap = m.target.Snapshot()
		return m, m.tick()

	case logMsg:
		if m.logs != nil {
			m.logLines = m.logs.Lines()
		}
		return m, m.listenLogs()

	case doneMsg:
		m.done = true
		m.snap = m.target.Snapshot()
		if m.quitRequested {
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *terminalModel) handleKey(k keyer.Key) tea.Cmd {
	if k == keyer.KeyQuit {
		for _, ev := range m.latch.ReleaseAll() {
			m.target.Post(ev)
		}
		m.target.Post(keyer.Press(keyer.KeyQuit))
		m.quitRequested = true
		if m.done {
			m.quitting = true
			return tea.Quit
		}
		return nil
	}
	for _, ev := range m.latch.Press(k) {
		m.target.Post(ev)
	}
	return nil
}

func (m *terminalModel) View() string {
	if m.quitting {
		return ""
	}

	status := "CONNECTION STOPPED"
	if m.snap.Connected {
		status = "CONNECTED " + m.snap.Address()
	}
	held := m.latch.Held()

	frame := cli.Frame{
		Styles: m.styles,
		Title:  "CWLINK // " + strings.ToUpper(string(m.snap.Role)),
		Status: status,
		Alert:  !m.snap.Connected,
		Sections: []cli.Section{
			{Label: "Status", Height: 7, Content: func() []string { return StatusLines(m.snap) }},
			{Label: "Link", Height: 1, Content: func() []string { return []string{trafficLine(m.snap)} }},
			{Label: "Held", Height: 1, Content: func() []string { return []string{strings.Join(held, " ")} }},
			{Label: "Log", Content: func() []string { return m.logLines }},
		},
		Help: terminalHelp,
	}
	return frame.Render(m.width, m.height)
}

// trafficLine summarizes link traffic in bytes on the wire.
func trafficLine(s bridge.Snapshot) string {
	return fmt.Sprintf("PLAYBACK: %s  SENT: %s  RECV: %s  MUTES: %d/%d",
		cli.FormatOnOff(s.PlaybackActive),
		cli.FormatBytes(s.FramesSent*pcm.FrameBytes),
		cli.FormatBytes(s.FramesReceived*pcm.FrameBytes),
		s.MutesSent, s.MutesReceived)
}

// RunTerminal runs the terminal console until the operator quits and the
// target is done, or ctx is canceled. After a peer disconnect the console
// keeps showing the stopped connection. Log lines captured by logs are shown below the status.
func RunTerminal(ctx context.Context, t Target, logs *cli.LogWriter) error {
	p := tea.NewProgram(newTerminalModel(t, logs), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
