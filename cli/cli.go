// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for playing the bot from a plain terminal or a script file.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathoo/grandline/bot"
	"github.com/nathoo/grandline/loader"
	"github.com/nathoo/grandline/types"
)

// CLI handles terminal interaction for a single local player.
type CLI struct {
	Bot       *bot.Bot
	PlayerID  string
	Meta      loader.Meta
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI that plays as playerID.
func New(b *bot.Bot, playerID string, meta loader.Meta) *CLI {
	home, _ := os.UserHomeDir()
	return &CLI{
		Bot:      b,
		PlayerID: playerID,
		Meta:     meta,
		In:       os.Stdin,
		Out:      os.Stdout,
		SaveDir:  filepath.Join(home, ".grandline", "saves"),
	}
}

// Run shows the intro and the player's profile, then loops:
// prompt → input → dispatch → output.
func (c *CLI) Run(ctx context.Context) {
	if c.Meta.Title != "" {
		c.printLine(c.Meta.Title)
	}
	if c.Meta.Intro != "" {
		c.printLine(c.Meta.Intro)
		c.printLine("")
	}
	c.printResult(c.Bot.Handle(ctx, c.PlayerID, "status"))

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(ctx, input) {
				return // /quit
			}
			continue
		}

		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result := c.Bot.Handle(ctx, c.PlayerID, input)
		c.printResult(result)

		if c.Trace {
			c.printTrace(result)
		}
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(ctx context.Context, input string) bool {
	parts := strings.Fields(input)
	cmd, args := parts[0], parts[1:]
	var arg string
	if len(args) > 0 {
		arg = args[0]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Fair winds.")
		return true

	case "/save":
		c.printSystemLines(SavePlayer(ctx, c.Bot, c.PlayerID, c.SaveDir, arg))

	case "/load":
		lines, ok := LoadPlayer(ctx, c.Bot, c.PlayerID, c.SaveDir, arg)
		c.printSystemLines(lines)
		if ok {
			c.printResult(c.Bot.Handle(ctx, c.PlayerID, "status"))
		}

	case "/help":
		c.cmdHelp(ctx)

	case "/state":
		c.printSystemLines(State(ctx, c.Bot, c.PlayerID))

	case "/buff":
		c.printSystemLines(GrantBuff(ctx, c.Bot, c.PlayerID, args))

	case "/fruit":
		c.printSystemLines(GrantFruit(ctx, c.Bot, c.PlayerID, args))

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdHelp(ctx context.Context) {
	for _, line := range MetaHelp() {
		c.printLine(line)
	}
	c.printLine("")
	c.printResult(c.Bot.Handle(ctx, c.PlayerID, "help"))
	c.printLine("  again (g)                Repeat your last command")
}

func (c *CLI) printSystemLines(lines []string) {
	for _, line := range lines {
		c.printSystem(line)
	}
}

func (c *CLI) printTrace(result types.Result) {
	for _, line := range FormatTrace(result) {
		c.printLine(line)
	}
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
