package bot

import (
	"context"
	"fmt"

	"github.com/mmdatafocus/tfd_bot/report"
	"github.com/mmdatafocus/tfd_bot/tfdapi"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("tfd_bot/bot")

// gather runs every fetch to completion. Fetches report failure through
// their own results, never through the group, so one failure does not cancel
// the others.
func (b *Bot) gather(ctx context.Context, fetches ...func(context.Context)) {
	if !b.concurrent {
		for _, f := range fetches {
			f(ctx)
		}
		return
	}
	var g errgroup.Group
	for _, f := range fetches {
		f := f
		g.Go(func() error {
			f(ctx)
			return nil
		})
	}
	_ = g.Wait()
}

func (b *Bot) descendantText(ctx context.Context, player tfdapi.Player, withComponents bool) string {
	ctx, span := tracer.Start(ctx, "report.descendant")
	defer span.End()
	span.SetAttributes(attribute.Bool("report.components", withComponents))

	catalogs := b.newCatalogs()
	in := report.DescendantInput{PlayerName: player.Name}
	var comps report.ComponentsInput
	var okDesc, okDescMeta, okModMeta, okReactor, okReactorMeta bool
	okComp, okCompMeta := true, true

	fetches := []func(context.Context){
		func(ctx context.Context) { in.Descendant, okDesc = b.equipment.FetchDescendant(ctx, player.OUID) },
		func(ctx context.Context) { in.Descendants, okDescMeta = catalogs.Descendants(ctx) },
		func(ctx context.Context) { in.Modules, okModMeta = catalogs.Modules(ctx) },
		func(ctx context.Context) { in.Reactor, okReactor = b.equipment.FetchReactor(ctx, player.OUID) },
		func(ctx context.Context) { in.Reactors, okReactorMeta = catalogs.Reactors(ctx) },
	}
	if withComponents {
		fetches = append(fetches,
			func(ctx context.Context) { comps.Info, okComp = b.equipment.FetchExternalComponents(ctx, player.OUID) },
			func(ctx context.Context) { comps.Catalog, okCompMeta = catalogs.ExternalComponents(ctx) },
		)
	}
	b.gather(ctx, fetches...)

	if !(okDesc && okDescMeta && okModMeta && okReactor && okReactorMeta && okComp && okCompMeta) {
		span.SetAttributes(attribute.Bool("report.incomplete", true))
		return fmt.Sprintf(msgDescendantNotFound, player.Name)
	}
	if withComponents {
		in.Components = &comps
	}
	return report.Descendant(in).Text()
}

func (b *Bot) weaponsText(ctx context.Context, player tfdapi.Player) string {
	ctx, span := tracer.Start(ctx, "report.weapons")
	defer span.End()

	catalogs := b.newCatalogs()
	in := report.WeaponsInput{PlayerName: player.Name}
	var okInfo, okWeaponMeta, okModMeta bool

	b.gather(ctx,
		func(ctx context.Context) { in.Weapons, okInfo = b.equipment.FetchWeapons(ctx, player.OUID) },
		func(ctx context.Context) { in.Catalog, okWeaponMeta = catalogs.Weapons(ctx) },
		func(ctx context.Context) { in.Modules, okModMeta = catalogs.Modules(ctx) },
	)

	if !(okInfo && okWeaponMeta && okModMeta) {
		span.SetAttributes(attribute.Bool("report.incomplete", true))
		return fmt.Sprintf(msgWeaponsNotFound, player.Name)
	}
	return report.Weapons(in).Text()
}
