package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmdatafocus/tfd_bot/config"
	"github.com/mmdatafocus/tfd_bot/report"
	"github.com/mmdatafocus/tfd_bot/utils"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Message is an incoming chat message, already stripped of transport detail.
type Message struct {
	ChannelID   string
	AuthorID    string
	AuthorIsBot bool
	Content     string
}

// Sender delivers one reply segment to a channel.
type Sender interface {
	Send(ctx context.Context, channelID string, content string) error
}

// ParseCommand splits "<prefix><command> [args...]". It reports false when
// content does not start with prefix or names no command.
func ParseCommand(prefix string, content string) (*Invocation, bool) {
	content = strings.TrimSpace(content)
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return nil, false
	}
	fields := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(fields) == 0 {
		return nil, false
	}
	return &Invocation{Command: fields[0], Args: fields[1:]}, true
}

// HandleMessage answers one chat message. Messages that are not commands
// for this bot are ignored. The reply is chunked and sent in order; sending
// stops at the first failed segment.
func (b *Bot) HandleMessage(ctx context.Context, msg Message, sender Sender) error {
	if msg.AuthorIsBot {
		return nil
	}
	inv, ok := ParseCommand(b.prefix, msg.Content)
	if !ok {
		return nil
	}
	if _, known := b.commands[strings.ToLower(inv.Command)]; !known {
		return nil
	}
	inv.AuthorID = msg.AuthorID
	inv.ChannelID = msg.ChannelID

	start := time.Now()
	ctx = b.invocationContext(ctx, inv)
	cid, _ := utils.GetCorrelationIdFromContext(ctx)

	ctx, span := tracer.Start(ctx, "bot.command")
	defer span.End()
	span.SetAttributes(
		attribute.String("bot.command", inv.Command),
		attribute.String("bot.correlation_id", cid),
	)

	text, err := b.Execute(ctx, inv)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		config.LogError(b.logger, "bot/handle.go", "HandleMessage", "Execute", inv, err)
		text = "Something went wrong while handling that command."
	}

	var sendErr error
	for _, chunk := range report.Chunk(text, report.MaxMessageLength) {
		if err := sender.Send(ctx, msg.ChannelID, chunk); err != nil {
			sendErr = fmt.Errorf("send reply: %w", err)
			config.LogError(b.logger, "bot/handle.go", "HandleMessage", "sender.Send", map[string]any{"channel_id": msg.ChannelID}, err)
			break
		}
	}

	b.logger.WithFields(logrus.Fields{
		"command":        inv.Command,
		"author_id":      inv.AuthorID,
		"channel_id":     inv.ChannelID,
		"correlation_id": cid,
		"latency":        time.Since(start).String(),
	}).Info("command")
	return sendErr
}

// Run executes an invocation outside the chat transport (HTTP API, CLI) and
// returns the reply already chunked.
func (b *Bot) Run(ctx context.Context, inv *Invocation) ([]string, error) {
	ctx = b.invocationContext(ctx, inv)
	text, err := b.Execute(ctx, inv)
	if err != nil {
		return nil, err
	}
	return report.Chunk(text, report.MaxMessageLength), nil
}

// IsUnknownCommand reports whether err came from an unregistered command.
func IsUnknownCommand(err error) bool {
	return errors.Is(err, ErrUnknownCommand)
}

func (b *Bot) invocationContext(ctx context.Context, inv *Invocation) context.Context {
	if _, ok := utils.GetCorrelationIdFromContext(ctx); !ok {
		ctx = utils.SetCorrelationIdInContext(ctx, uuid.NewString())
	}
	ctx = utils.SetCommandInContext(ctx, inv.Command)
	if inv.ChannelID != "" {
		ctx = utils.SetChannelIdInContext(ctx, inv.ChannelID)
	}
	if inv.AuthorID != "" {
		ctx = utils.SetAuthorIdInContext(ctx, inv.AuthorID)
	}
	return ctx
}
