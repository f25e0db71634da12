// Package bot is the transport-agnostic command core. A command has a name,
// a description and Run; how it is registered and delivered (Discord
// gateway, HTTP, CLI) is left to the adapters that wrap a *Bot.
package bot

import (
	"context"
	"errors"
	"strings"

	"github.com/mmdatafocus/tfd_bot/config"
	"github.com/mmdatafocus/tfd_bot/tfdapi"
	"github.com/sirupsen/logrus"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("missing username")
)

// PlayerResolver maps a display name to a player identity.
type PlayerResolver interface {
	FullName(displayName string) string
	Resolve(ctx context.Context, displayName string) (tfdapi.Player, error)
}

// EquipmentSource fetches a player's equipped items. Each call returns
// false on any failure.
type EquipmentSource interface {
	FetchDescendant(ctx context.Context, ouid string) (tfdapi.DescendantInfo, bool)
	FetchWeapons(ctx context.Context, ouid string) (tfdapi.WeaponInfo, bool)
	FetchReactor(ctx context.Context, ouid string) (tfdapi.ReactorInfo, bool)
	FetchExternalComponents(ctx context.Context, ouid string) (tfdapi.ExternalComponentInfo, bool)
}

// CatalogSource serves metadata catalogs for a single invocation.
type CatalogSource interface {
	Descendants(ctx context.Context) (tfdapi.Index[tfdapi.DescendantMeta], bool)
	Modules(ctx context.Context) (tfdapi.Index[tfdapi.ModuleMeta], bool)
	Weapons(ctx context.Context) (tfdapi.Index[tfdapi.WeaponMeta], bool)
	Reactors(ctx context.Context) (tfdapi.Index[tfdapi.ReactorMeta], bool)
	ExternalComponents(ctx context.Context) (tfdapi.Index[tfdapi.ExternalComponentMeta], bool)
}

// Invocation is one parsed command. It must not be retained after Run
// returns.
type Invocation struct {
	Command   string
	Args      []string
	AuthorID  string
	ChannelID string
}

// Command is the contract every bot command implements.
type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) (string, error)
}

type Bot struct {
	prefix     string
	concurrent bool
	logger     *logrus.Logger

	players     PlayerResolver
	equipment   EquipmentSource
	newCatalogs func() CatalogSource

	commands map[string]Command
	ordered  []Command
}

type Option func(*Bot)

// WithCatalogs replaces the per-invocation catalog factory.
func WithCatalogs(fn func() CatalogSource) Option {
	return func(b *Bot) { b.newCatalogs = fn }
}

func WithLogger(logger *logrus.Logger) Option {
	return func(b *Bot) { b.logger = logger }
}

// New wires the bot against the live API client.
func New(s config.Settings, client *tfdapi.Client, opts ...Option) *Bot {
	return NewWithSources(s,
		tfdapi.NewResolver(client, s.Aliases),
		client,
		func() CatalogSource { return tfdapi.NewLoaders(client) },
		opts...,
	)
}

func NewWithSources(s config.Settings, players PlayerResolver, equipment EquipmentSource, catalogs func() CatalogSource, opts ...Option) *Bot {
	b := &Bot{
		prefix:      s.CommandPrefix,
		concurrent:  s.Features.ConcurrentFetch,
		logger:      config.GetLogger(),
		players:     players,
		equipment:   equipment,
		newCatalogs: catalogs,
		commands:    map[string]Command{},
	}
	if b.prefix == "" {
		b.prefix = "!"
	}
	for _, opt := range opts {
		opt(b)
	}
	b.register(b.defaultCommands()...)
	return b
}

func (b *Bot) Prefix() string {
	return b.prefix
}

func (b *Bot) register(cmds ...Command) {
	for _, c := range cmds {
		b.ordered = append(b.ordered, c)
		b.commands[strings.ToLower(c.Name())] = c
		if a, ok := c.(interface{ Aliases() []string }); ok {
			for _, alias := range a.Aliases() {
				b.commands[strings.ToLower(alias)] = c
			}
		}
	}
}

// Commands lists the registered commands in registration order.
func (b *Bot) Commands() []Command {
	out := make([]Command, len(b.ordered))
	copy(out, b.ordered)
	return out
}
