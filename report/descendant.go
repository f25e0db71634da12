package report

import (
	"fmt"

	"github.com/mmdatafocus/tfd_bot/tfdapi"
	"github.com/shopspring/decimal"
)

// ComponentsInput is the external component part of a build report.
type ComponentsInput struct {
	Info    tfdapi.ExternalComponentInfo
	Catalog tfdapi.Index[tfdapi.ExternalComponentMeta]
}

// DescendantInput carries every fetched piece a descendant report joins.
type DescendantInput struct {
	PlayerName  string
	Descendant  tfdapi.DescendantInfo
	Descendants tfdapi.Index[tfdapi.DescendantMeta]
	Modules     tfdapi.Index[tfdapi.ModuleMeta]
	Reactor     tfdapi.ReactorInfo
	Reactors    tfdapi.Index[tfdapi.ReactorMeta]

	// Components is nil for report types without the external component
	// section.
	Components *ComponentsInput
}

func Descendant(in DescendantInput) Lines {
	var out Lines

	name := "Unknown"
	if meta, ok := in.Descendants.Lookup(in.Descendant.DescendantID); ok {
		name = valueOr(meta.Name, name)
	}
	out.add(fmt.Sprintf("**Equipped Descendant for %s**", in.PlayerName))
	out.add(fmt.Sprintf("%s%s (%s)", indent, name, in.Descendant.Level))
	out.blank()

	out.add("**Descendant Modules:**")
	out = append(out, moduleLines(in.Descendant.Modules, in.Modules, indent)...)

	totals := AggregateModuleStats(in.Descendant.Modules, in.Modules)
	if totals.Len() > 0 {
		out.blank()
		out.add("**Module Stat Totals:**")
		for _, stat := range totals.Names() {
			v, _ := totals.Get(stat)
			out.add(fmt.Sprintf("%s%s: %s", indent, stat, FormatModuleTotal(v)))
		}
	}

	if meta, ok := in.Reactors.Lookup(in.Reactor.ID); ok {
		out.blank()
		out.add("**Reactor:**")
		out.add(fmt.Sprintf("%s%s (%s)",
			indent,
			valueOr(meta.Name, "Unknown Reactor"),
			valueOr(meta.OptimizedConditionType, notAvailable),
		))
		for _, stat := range in.Reactor.AdditionalStats {
			v, err := decimal.NewFromString(string(stat.Value))
			if err != nil {
				continue
			}
			out.add(fmt.Sprintf("%s%s: %s", indent, stat.Name, FormatReactorStat(v)))
		}
	}

	if in.Components != nil {
		out.blank()
		out.add("**External Components:**")
		for _, comp := range in.Components.Info.Components {
			meta, ok := in.Components.Catalog.Lookup(comp.ID)
			if !ok {
				continue
			}
			out.add(indent + valueOr(meta.Name, "Unknown External Component"))
			for _, stat := range comp.AdditionalStats {
				v, err := decimal.NewFromString(string(stat.Value))
				if err != nil {
					continue
				}
				out.add(fmt.Sprintf("%s%s%s: %s", indent, indent, stat.Name, FormatComponentStat(v)))
			}
		}
	}

	return out
}

// moduleLines renders "<name> (<level>)(<socket initial>)" for each module
// found in the catalog. Unknown modules are left out.
func moduleLines(modules []tfdapi.EquippedModule, catalog tfdapi.Index[tfdapi.ModuleMeta], prefix string) Lines {
	var out Lines
	for _, m := range modules {
		meta, ok := catalog.Lookup(m.ID)
		if !ok {
			continue
		}
		out.add(fmt.Sprintf("%s%s (%s)(%s)",
			prefix,
			valueOr(meta.Name, "Unknown Module"),
			m.EnchantLevel,
			socketInitial(meta.SocketType),
		))
	}
	return out
}
