package tfdapi

import (
	"context"
	"net/url"
)

func userParams(ouid string, localized bool) url.Values {
	params := url.Values{}
	params.Set("ouid", ouid)
	if localized {
		params.Set("language_code", "en")
	}
	return params
}

func (c *Client) FetchDescendant(ctx context.Context, ouid string) (DescendantInfo, bool) {
	var info DescendantInfo
	ok := c.getJSON(ctx, "descendant info", userAPIPrefix+"/user/descendant", userParams(ouid, false), &info)
	return info, ok
}

func (c *Client) FetchWeapons(ctx context.Context, ouid string) (WeaponInfo, bool) {
	var info WeaponInfo
	ok := c.getJSON(ctx, "weapon info", userAPIPrefix+"/user/weapon", userParams(ouid, true), &info)
	return info, ok
}

func (c *Client) FetchReactor(ctx context.Context, ouid string) (ReactorInfo, bool) {
	var info ReactorInfo
	ok := c.getJSON(ctx, "reactor info", userAPIPrefix+"/user/reactor", userParams(ouid, true), &info)
	return info, ok
}

func (c *Client) FetchExternalComponents(ctx context.Context, ouid string) (ExternalComponentInfo, bool) {
	var info ExternalComponentInfo
	ok := c.getJSON(ctx, "external component info", userAPIPrefix+"/user/external-component", userParams(ouid, true), &info)
	return info, ok
}
