package report

import (
	"fmt"

	"github.com/mmdatafocus/tfd_bot/tfdapi"
)

type WeaponsInput struct {
	PlayerName string
	Weapons    tfdapi.WeaponInfo
	Catalog    tfdapi.Index[tfdapi.WeaponMeta]
	Modules    tfdapi.Index[tfdapi.ModuleMeta]
}

// Weapons renders every equipped weapon found in the weapon catalog.
// Weapons missing from the catalog are skipped without a placeholder.
func Weapons(in WeaponsInput) Lines {
	var out Lines
	out.add(fmt.Sprintf("**Weapons for %s**", in.PlayerName))
	out.blank()

	for _, w := range in.Weapons.Weapons {
		meta, ok := in.Catalog.Lookup(w.ID)
		if !ok {
			continue
		}
		out.add("**Weapon Name**: " + valueOr(meta.Name, "Unknown Weapon Name"))
		out.add("**Type**: " + valueOr(meta.Type, notAvailable))
		out.add("**Rounds**: " + valueOr(meta.RoundsType, notAvailable))
		out.add(fmt.Sprintf("**Enchantment Level**: %s", w.PerkAbilityEnchantLevel))
		out.blank()

		out.add("**Additional Stats**:")
		for _, stat := range w.AdditionalStats {
			out.add(fmt.Sprintf("  %s: %s", stat.Name, FormatWeaponStat(string(stat.Value))))
		}
		out.blank()

		out.add("**Modules**:")
		out = append(out, moduleLines(w.Modules, in.Modules, indent)...)
		out.blank()
	}
	return out
}
