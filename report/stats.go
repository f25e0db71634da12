package report

import (
	"strings"

	"github.com/mmdatafocus/tfd_bot/tfdapi"
	"github.com/shopspring/decimal"
)

// StatTotals accumulates module stat bonuses by name, remembering the order
// in which each name was first seen. Sums are float64, so 0.7 + 0.1 totals
// just under 0.8 and floors to 0.7.
type StatTotals struct {
	order []string
	sums  map[string]float64
}

func NewStatTotals() *StatTotals {
	return &StatTotals{sums: map[string]float64{}}
}

func (t *StatTotals) Add(name string, v decimal.Decimal) {
	cur, ok := t.sums[name]
	if !ok {
		t.order = append(t.order, name)
	}
	t.sums[name] = cur + v.InexactFloat64()
}

func (t *StatTotals) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

func (t *StatTotals) Get(name string) (float64, bool) {
	v, ok := t.sums[name]
	return v, ok
}

func (t *StatTotals) Len() int {
	return len(t.order)
}

// StatToken is one "<name> <signed value>[%]" entry of a module stat row.
type StatToken struct {
	Name  string
	Value decimal.Decimal
}

// ParseStatTokens splits a stat row such as "Firearm ATK +3.5%, Max HP -10%".
// Tokens without a space, or whose value does not parse as a number, are
// dropped.
func ParseStatTokens(value string) []StatToken {
	var out []StatToken
	for _, token := range strings.Split(value, ", ") {
		i := strings.LastIndex(token, " ")
		if i < 0 {
			continue
		}
		name, raw := token[:i], token[i+1:]
		raw = strings.TrimRight(raw, "%")
		v, err := decimal.NewFromString(raw)
		if err != nil {
			continue
		}
		out = append(out, StatToken{Name: name, Value: v})
	}
	return out
}

// AggregateModuleStats sums the stat row of every equipped module at its
// current enchant level. Modules missing from the catalog, or without a row
// for their level, contribute nothing.
func AggregateModuleStats(modules []tfdapi.EquippedModule, catalog tfdapi.Index[tfdapi.ModuleMeta]) *StatTotals {
	totals := NewStatTotals()
	for _, m := range modules {
		meta, ok := catalog.Lookup(m.ID)
		if !ok {
			continue
		}
		row, ok := meta.StatAt(m.EnchantLevel)
		if !ok {
			continue
		}
		for _, tok := range ParseStatTokens(row.Value) {
			totals.Add(tok.Name, tok.Value)
		}
	}
	return totals
}
