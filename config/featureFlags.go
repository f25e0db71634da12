package config

import (
	"strings"
)

// flagValue parses the boolean spellings accepted for feature-flag env vars.
// Anything unrecognised (including empty) yields def.
func flagValue(raw string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "y", "on":
		return true
	case "false", "0", "no", "n", "off":
		return false
	default:
		return def
	}
}

// Feature flags, all read once by LoadSettings:
//
//   - GATEWAY_COMPRESS=true asks Discord for zlib-compressed gateway payloads.
//   - ENABLE_HTTP_API=true serves the JSON report API next to the gateway.
//   - CONCURRENT_FETCH=false fetches equipment and catalogs one after another
//     instead of fanning out. Useful when debugging upstream failures.
type FeatureFlags struct {
	GatewayCompress bool
	EnableHTTPAPI   bool
	ConcurrentFetch bool
}

func defaultFeatureFlags() FeatureFlags {
	return FeatureFlags{
		GatewayCompress: false,
		EnableHTTPAPI:   false,
		ConcurrentFetch: true,
	}
}
