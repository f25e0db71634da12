package appctx

import "context"

// ContextKey is the shared type for all context keys in this codebase.
type ContextKey string

func (c ContextKey) String() string { return string(c) }

var (
	ContextKeyCorrelationId = ContextKey("CorrelationId")
	ContextKeyCommand       = ContextKey("Command")
	ContextKeyChannelId     = ContextKey("ChannelId")

	// ContextKeyAuthorId is the chat user who issued the command, not the
	// game player the command asks about.
	ContextKeyAuthorId = ContextKey("AuthorId")
)

func GetString(ctx context.Context, key ContextKey) (string, bool) {
	v, ok := ctx.Value(key).(string)
	return v, ok
}

func Set(ctx context.Context, key ContextKey, value any) context.Context {
	return context.WithValue(ctx, key, value)
}
