package tfdapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/graph-gophers/dataloader/v7"
	"golang.org/x/sync/errgroup"
)

var errCatalogUnavailable = errors.New("catalog unavailable")

type catalogReader struct {
	client *Client
}

// getCatalogs issues one request per requested catalog, concurrently.
func (r *catalogReader) getCatalogs(ctx context.Context, cats []Catalog) []*dataloader.Result[json.RawMessage] {
	results := make([]*dataloader.Result[json.RawMessage], len(cats))
	var g errgroup.Group
	for i, cat := range cats {
		i, cat := i, cat
		g.Go(func() error {
			raw, ok := r.client.FetchCatalog(ctx, cat)
			if !ok {
				results[i] = &dataloader.Result[json.RawMessage]{Error: fmt.Errorf("%s: %w", cat, errCatalogUnavailable)}
				return nil
			}
			results[i] = &dataloader.Result[json.RawMessage]{Data: raw}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Loaders batch the catalog requests made while assembling one report. A
// Loaders value must not outlive the command invocation that created it, so
// no catalog is ever reused across invocations.
type Loaders struct {
	client   *Client
	catalogs *dataloader.Loader[Catalog, json.RawMessage]
}

func NewLoaders(client *Client) *Loaders {
	reader := &catalogReader{client: client}
	return &Loaders{
		client:   client,
		catalogs: dataloader.NewBatchedLoader(reader.getCatalogs, dataloader.WithWait[Catalog, json.RawMessage](time.Millisecond)),
	}
}

func (l *Loaders) load(ctx context.Context, cat Catalog) (json.RawMessage, bool) {
	raw, err := l.catalogs.Load(ctx, cat)()
	if err != nil {
		return nil, false
	}
	return raw, true
}

func (l *Loaders) Descendants(ctx context.Context) (Index[DescendantMeta], bool) {
	raw, ok := l.load(ctx, CatalogDescendant)
	if !ok {
		return Index[DescendantMeta]{}, false
	}
	return decodeCatalog[DescendantMeta](l.client.logger, CatalogDescendant, raw)
}

func (l *Loaders) Modules(ctx context.Context) (Index[ModuleMeta], bool) {
	raw, ok := l.load(ctx, CatalogModule)
	if !ok {
		return Index[ModuleMeta]{}, false
	}
	return decodeCatalog[ModuleMeta](l.client.logger, CatalogModule, raw)
}

func (l *Loaders) Weapons(ctx context.Context) (Index[WeaponMeta], bool) {
	raw, ok := l.load(ctx, CatalogWeapon)
	if !ok {
		return Index[WeaponMeta]{}, false
	}
	return decodeCatalog[WeaponMeta](l.client.logger, CatalogWeapon, raw)
}

func (l *Loaders) Reactors(ctx context.Context) (Index[ReactorMeta], bool) {
	raw, ok := l.load(ctx, CatalogReactor)
	if !ok {
		return Index[ReactorMeta]{}, false
	}
	return decodeCatalog[ReactorMeta](l.client.logger, CatalogReactor, raw)
}

func (l *Loaders) ExternalComponents(ctx context.Context) (Index[ExternalComponentMeta], bool) {
	raw, ok := l.load(ctx, CatalogExternalComponent)
	if !ok {
		return Index[ExternalComponentMeta]{}, false
	}
	return decodeCatalog[ExternalComponentMeta](l.client.logger, CatalogExternalComponent, raw)
}
