package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/grandline/bot"
	"github.com/nathoo/grandline/cli"
	"github.com/nathoo/grandline/loader"
	"github.com/nathoo/grandline/types"
)

// origin says who produced a transcript entry.
type origin int

const (
	fromBot origin = iota
	fromPlayer
	fromSystem
)

// entry is one unstyled transcript line. Styling and wrapping happen at
// render time so a resize can redo them.
type entry struct {
	text string
	kind lineKind
	from origin
}

// replyMsg delivers the lines produced by one command.
type replyMsg struct {
	command string
	lines   []string
	system  bool
}

type keyMap struct {
	Quit   key.Binding
	Submit key.Binding
	Older  key.Binding
	Newer  key.Binding
}

var keys = keyMap{
	Quit:   key.NewBinding(key.WithKeys("ctrl+c")),
	Submit: key.NewBinding(key.WithKeys("enter")),
	Older:  key.NewBinding(key.WithKeys("up")),
	Newer:  key.NewBinding(key.WithKeys("down")),
}

// Model is the Bubble Tea model for the Grand Line TUI.
type Model struct {
	ctx      context.Context
	bot      *bot.Bot
	playerID string
	meta     loader.Meta

	viewport viewport.Model
	input    textinput.Model
	history  *History

	transcript []entry

	// Refreshed after every command for the status bar.
	player  types.Player
	session *types.Session

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
	saveDir  string
}

// New creates a TUI model that plays as playerID.
func New(ctx context.Context, b *bot.Bot, playerID string, meta loader.Meta) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.CharLimit = 256
	ti.Focus()

	home, _ := os.UserHomeDir()
	m := Model{
		ctx:      ctx,
		bot:      b,
		playerID: playerID,
		meta:     meta,
		input:    ti,
		history:  NewHistory(100),
		saveDir:  filepath.Join(home, ".grandline", "saves"),
	}
	m.refreshStatus()
	return m
}

// Run starts the Bubble Tea program and blocks until the player quits or
// ctx is cancelled.
func Run(ctx context.Context, b *bot.Bot, playerID string, meta loader.Meta) error {
	p := tea.NewProgram(New(ctx, b, playerID, meta),
		tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.greet())
}

// greet shows the content banner followed by the player's profile.
func (m Model) greet() tea.Cmd {
	return func() tea.Msg {
		lines := banner(m.meta)
		lines = append(lines, m.bot.Handle(m.ctx, m.playerID, "status").Output...)
		return replyMsg{lines: lines}
	}
}

func banner(meta loader.Meta) []string {
	var lines []string
	if meta.Title != "" {
		title := meta.Title
		if meta.Version != "" {
			title += " v" + meta.Version
		}
		if meta.Author != "" {
			title += " by " + meta.Author
		}
		lines = append(lines, title, "")
	}
	if meta.Intro != "" {
		lines = append(lines, meta.Intro, "")
	}
	return lines
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case replyMsg:
		m = m.record(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// layout sizes the viewport to everything above the status bar and input.
func (m *Model) layout(width, height int) {
	m.width, m.height = width, height
	vpHeight := max(height-2, 1)
	if m.ready {
		m.viewport.Width, m.viewport.Height = width, vpHeight
	} else {
		m.viewport = viewport.New(width, vpHeight)
		m.viewport.KeyMap = scrollKeys()
		m.ready = true
	}
	m.render()
}

// handleKey deals with the keys the model owns. Anything else goes on to
// the text input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	vk := m.viewport.KeyMap
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit, true
	case key.Matches(msg, keys.Submit):
		next, cmd := m.submit()
		return next, cmd, true
	case key.Matches(msg, keys.Older):
		if cmd, ok := m.history.Prev(); ok {
			m.recall(cmd)
		}
		return m, nil, true
	case key.Matches(msg, keys.Newer):
		// Past the newest entry Next returns "", which clears the input.
		cmd, _ := m.history.Next()
		m.recall(cmd)
		return m, nil, true
	case key.Matches(msg, vk.PageUp, vk.PageDown, vk.HalfPageUp, vk.HalfPageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd, true
	}
	return m, nil, false
}

func (m *Model) recall(cmd string) {
	m.input.SetValue(cmd)
	m.input.CursorEnd()
}

// submit runs the typed command. Slash commands stay in the front end;
// everything else goes to the bot.
func (m Model) submit() (Model, tea.Cmd) {
	typed := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	if typed == "" {
		return m, nil
	}

	command, ok := m.expandRepeat(typed)
	if !ok {
		return m.record(replyMsg{command: typed, lines: []string{"Nothing to repeat."}, system: true}), nil
	}
	m.history.Push(command)
	m.history.ResetCursor()

	if strings.HasPrefix(command, "/") {
		lines, quit := m.handleMeta(command)
		m.refreshStatus()
		m = m.record(replyMsg{command: command, lines: lines, system: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	result := m.bot.Handle(m.ctx, m.playerID, command)
	lines := result.Output
	if m.trace {
		lines = append(lines, cli.FormatTrace(result)...)
	}
	m.refreshStatus()
	return m.record(replyMsg{command: command, lines: lines}), nil
}

// expandRepeat swaps "again" or "g" for the newest history entry.
func (m Model) expandRepeat(typed string) (string, bool) {
	switch strings.ToLower(typed) {
	case "again", "g":
		return m.history.Last()
	}
	return typed, true
}

// refreshStatus reloads the player and battle shown in the status bar.
// On error the previous values stay.
func (m *Model) refreshStatus() {
	p, s, err := m.bot.Snapshot(m.ctx, m.playerID)
	if err != nil {
		return
	}
	m.player, m.session = p, s
}

// record appends a reply to the transcript, closed by a blank spacer.
func (m Model) record(msg replyMsg) Model {
	if msg.command != "" {
		m.transcript = append(m.transcript, entry{text: msg.command, from: fromPlayer})
	}
	for _, line := range msg.lines {
		e := entry{text: line, from: fromBot}
		if msg.system {
			e.from = fromSystem
		} else {
			e.kind = classifyLine(line)
		}
		m.transcript = append(m.transcript, e)
	}
	m.transcript = append(m.transcript, entry{})
	m.render()
	return m
}

// render wraps and styles the transcript for the current width and pins
// the viewport to the newest line.
func (m *Model) render() {
	if !m.ready {
		return
	}
	width := max(m.width, 10)
	out := make([]string, 0, len(m.transcript))
	for _, e := range m.transcript {
		if e.text == "" {
			out = append(out, "")
			continue
		}
		text := wrap(e.text, width)
		switch e.from {
		case fromPlayer:
			out = append(out, styledPlayerInput(text))
		case fromSystem:
			out = append(out, styledSystemMsg(text))
		default:
			out = append(out, kindStyle(e.kind).Render(text))
		}
	}
	m.viewport.SetContent(strings.Join(out, "\n"))
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	switch {
	case m.quitting:
		return ""
	case !m.ready:
		return "Loading..."
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), m.renderStatusBar(), m.input.View())
}

// handleMeta runs a slash command and reports whether to quit.
func (m *Model) handleMeta(input string) ([]string, bool) {
	fields := strings.Fields(input)
	name, args := fields[0], fields[1:]
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}

	switch name {
	case "/quit", "/exit":
		return []string{"Fair winds."}, true
	case "/save":
		return cli.SavePlayer(m.ctx, m.bot, m.playerID, m.saveDir, arg), false
	case "/load":
		out, ok := cli.LoadPlayer(m.ctx, m.bot, m.playerID, m.saveDir, arg)
		if ok {
			out = append(out, m.bot.Handle(m.ctx, m.playerID, "status").Output...)
		}
		return out, false
	case "/help":
		return m.help(), false
	case "/state":
		return cli.State(m.ctx, m.bot, m.playerID), false
	case "/buff":
		return cli.GrantBuff(m.ctx, m.bot, m.playerID, args), false
	case "/fruit":
		return cli.GrantFruit(m.ctx, m.bot, m.playerID, args), false
	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false
	}
	return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", name)}, false
}

func (m *Model) help() []string {
	out := append(cli.MetaHelp(), "")
	out = append(out, m.bot.Handle(m.ctx, m.playerID, "help").Output...)
	return append(out,
		"  again (g)                Repeat your last command",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for command history",
	)
}

// scrollKeys leaves Up and Down to command history.
func scrollKeys() viewport.KeyMap {
	km := viewport.DefaultKeyMap()
	km.PageUp = key.NewBinding(key.WithKeys("pgup"))
	km.PageDown = key.NewBinding(key.WithKeys("pgdown"))
	km.HalfPageUp = key.NewBinding(key.WithKeys("ctrl+u"))
	km.HalfPageDown = key.NewBinding(key.WithKeys("ctrl+d"))
	km.Up.SetEnabled(false)
	km.Down.SetEnabled(false)
	km.Left.SetEnabled(false)
	km.Right.SetEnabled(false)
	return km
}
