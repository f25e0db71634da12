package utils

import (
	"context"

	"github.com/mmdatafocus/tfd_bot/appctx"
)

var (
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId
	ContextKeyCommand       = appctx.ContextKeyCommand
	ContextKeyChannelId     = appctx.ContextKeyChannelId
	ContextKeyAuthorId      = appctx.ContextKeyAuthorId
)

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}

func GetCommandFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCommand)
}

func SetCommandInContext(ctx context.Context, command string) context.Context {
	return appctx.Set(ctx, ContextKeyCommand, command)
}

func GetChannelIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyChannelId)
}

func SetChannelIdInContext(ctx context.Context, channelId string) context.Context {
	return appctx.Set(ctx, ContextKeyChannelId, channelId)
}

func GetAuthorIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyAuthorId)
}

func SetAuthorIdInContext(ctx context.Context, authorId string) context.Context {
	return appctx.Set(ctx, ContextKeyAuthorId, authorId)
}
