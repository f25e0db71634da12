package tfdapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Catalog names a static metadata file under /static/tfd/meta/en.
type Catalog string

const (
	CatalogDescendant        Catalog = "descendant"
	CatalogModule            Catalog = "module"
	CatalogWeapon            Catalog = "weapon"
	CatalogReactor           Catalog = "reactor"
	CatalogExternalComponent Catalog = "external-component"
)

// FetchCatalog downloads one catalog as raw JSON. Nothing is memoized; every
// call is a fresh request.
func (c *Client) FetchCatalog(ctx context.Context, cat Catalog) (json.RawMessage, bool) {
	var raw json.RawMessage
	path := fmt.Sprintf("%s/%s.json", metaPrefix, cat)
	if !c.getJSON(ctx, string(cat)+" metadata", path, nil, &raw) {
		return nil, false
	}
	return raw, true
}

// decodeCatalog turns a raw catalog into an Index. A body that is not a JSON
// array of records, or an empty one, is treated the same as a failed fetch.
func decodeCatalog[T Keyed](logger *logrus.Logger, cat Catalog, raw json.RawMessage) (Index[T], bool) {
	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		logger.WithFields(logrus.Fields{"catalog": string(cat)}).Warn(fmt.Sprintf("Failed to decode %s metadata: %v", cat, err))
		return Index[T]{}, false
	}
	if len(records) == 0 {
		logger.WithFields(logrus.Fields{"catalog": string(cat)}).Warn(fmt.Sprintf("%s metadata is empty", cat))
		return Index[T]{}, false
	}
	return NewIndex(records), true
}
