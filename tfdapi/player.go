package tfdapi

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

var ErrPlayerNotFound = errors.New("player not found")

// AliasTable substitutes short names with full "name#tag" identities.
type AliasTable interface {
	Canonical(name string) string
}

type Resolver struct {
	client  *Client
	aliases AliasTable
}

func NewResolver(client *Client, aliases AliasTable) *Resolver {
	return &Resolver{client: client, aliases: aliases}
}

// FullName applies the alias table to a display name.
func (r *Resolver) FullName(displayName string) string {
	if r.aliases == nil {
		return displayName
	}
	return r.aliases.Canonical(displayName)
}

// Resolve looks up the OUID for a display name. A missing OUID and a failed
// request both return ErrPlayerNotFound; the failed request has already been
// logged by the client.
func (r *Resolver) Resolve(ctx context.Context, displayName string) (Player, error) {
	full := r.FullName(displayName)
	params := url.Values{}
	params.Set("user_name", full)

	var resp ouidResponse
	if !r.client.getJSON(ctx, "OUID", userAPIPrefix+"/id", params, &resp) {
		return Player{Name: full}, ErrPlayerNotFound
	}
	if strings.TrimSpace(resp.OUID) == "" {
		return Player{Name: full}, ErrPlayerNotFound
	}
	return Player{Name: full, OUID: resp.OUID}, nil
}
