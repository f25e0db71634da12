package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mmdatafocus/tfd_bot/tfdapi"
)

const (
	msgOUIDNotFound       = "Could not find OUID for player '%s'."
	msgDescendantNotFound = "Could not find descendant information for player '%s'."
	msgWeaponsNotFound    = "Could not find weapon information for player '%s'."
)

type command struct {
	name        string
	aliases     []string
	args        string
	description string
	run         func(ctx context.Context, inv *Invocation) (string, error)
}

func (c *command) Name() string        { return c.name }
func (c *command) Description() string { return c.description }
func (c *command) Aliases() []string   { return c.aliases }
func (c *command) Args() string        { return c.args }

func (c *command) Run(ctx context.Context, inv *Invocation) (string, error) {
	return c.run(ctx, inv)
}

func (b *Bot) defaultCommands() []Command {
	return []Command{
		&command{
			name:        "descendant",
			args:        "USERNAME",
			description: "Fetches and displays detailed information about the equipped descendant for the given username.",
			run: b.withPlayer(func(ctx context.Context, p tfdapi.Player) string {
				return b.descendantText(ctx, p, false)
			}),
		},
		&command{
			name:        "build",
			args:        "USERNAME",
			description: "Same as descendant, plus the equipped external components.",
			run: b.withPlayer(func(ctx context.Context, p tfdapi.Player) string {
				return b.descendantText(ctx, p, true)
			}),
		},
		&command{
			name:        "weapons",
			args:        "USERNAME",
			description: "Fetches and displays detailed information about the equipped weapons for the given username.",
			run:         b.withPlayer(b.weaponsText),
		},
		&command{
			name:        "help",
			aliases:     []string{"tfd_help"},
			description: "Lists the available commands.",
			run: func(ctx context.Context, inv *Invocation) (string, error) {
				return b.HelpText(), nil
			},
		},
	}
}

// withPlayer resolves the username argument before running fn. Every
// resolution failure becomes the same "could not find OUID" reply.
func (b *Bot) withPlayer(fn func(ctx context.Context, p tfdapi.Player) string) func(context.Context, *Invocation) (string, error) {
	return func(ctx context.Context, inv *Invocation) (string, error) {
		if len(inv.Args) == 0 || strings.TrimSpace(inv.Args[0]) == "" {
			return "", ErrUsage
		}
		username := strings.TrimSpace(inv.Args[0])
		player, err := b.players.Resolve(ctx, username)
		if err != nil {
			if !errors.Is(err, tfdapi.ErrPlayerNotFound) {
				return "", err
			}
			name := player.Name
			if name == "" {
				name = b.players.FullName(username)
			}
			return fmt.Sprintf(msgOUIDNotFound, name), nil
		}
		return fn(ctx, player), nil
	}
}

// Execute runs a parsed invocation and returns the full reply text.
func (b *Bot) Execute(ctx context.Context, inv *Invocation) (string, error) {
	cmd, ok := b.commands[strings.ToLower(inv.Command)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCommand, inv.Command)
	}
	text, err := cmd.Run(ctx, inv)
	if errors.Is(err, ErrUsage) {
		return "Usage: " + b.usage(cmd), nil
	}
	return text, err
}

func (b *Bot) usage(c Command) string {
	u := b.prefix + c.Name()
	if a, ok := c.(interface{ Args() string }); ok && a.Args() != "" {
		u += " " + a.Args()
	}
	return "`" + u + "`"
}

// HelpText lists every command except help itself.
func (b *Bot) HelpText() string {
	var entries []string
	for _, c := range b.ordered {
		if c.Name() == "help" {
			continue
		}
		entries = append(entries, fmt.Sprintf("%s\n   #%s\n", b.usage(c), c.Description()))
	}
	return strings.Join(entries, "\n")
}
