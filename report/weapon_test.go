package report

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mmdatafocus/tfd_bot/tfdapi"
)

func TestWeapons_RendersMatchedWeaponsOnly(t *testing.T) {
	in := WeaponsInput{
		PlayerName: "p#1",
		Weapons: tfdapi.WeaponInfo{Weapons: []tfdapi.EquippedWeapon{
			{
				ID:                      "w1",
				PerkAbilityEnchantLevel: tfdapi.Int(4),
				AdditionalStats: []tfdapi.AdditionalStat{
					{Name: "Firearm ATK", Value: "150.0"},
					{Name: "Crit Rate", Value: "2.25"},
					{Name: "Odd", Value: "Varies"},
				},
				Modules: []tfdapi.EquippedModule{{ID: "m1", EnchantLevel: tfdapi.Int(5)}},
			},
			{ID: "w-unknown"},
		}},
		Catalog: tfdapi.NewIndex([]tfdapi.WeaponMeta{
			{ID: "w1", Name: strPtr("Thunder Cage"), Type: strPtr("Hand Cannon")},
		}),
		Modules: tfdapi.NewIndex([]tfdapi.ModuleMeta{
			{ID: "m1", Name: strPtr("Rifling Reinforcement"), SocketType: strPtr("Almandine")},
		}),
	}
	want := Lines{
		"**Weapons for p#1**",
		"",
		"**Weapon Name**: Thunder Cage",
		"**Type**: Hand Cannon",
		"**Rounds**: N/A",
		"**Enchantment Level**: 4",
		"",
		"**Additional Stats**:",
		"  Firearm ATK: 150",
		"  Crit Rate: 2.2",
		"  Odd: Varies",
		"",
		"**Modules**:",
		"   Rifling Reinforcement (5)(A)",
		"",
	}
	if diff := cmp.Diff(want, Weapons(in)); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestLines_Text(t *testing.T) {
	if (Lines{}).Text() != "" {
		t.Fatalf("expected empty text")
	}
	if got := (Lines{"a", "", "b"}).Text(); got != "a\n\nb\n" {
		t.Fatalf("unexpected text %q", got)
	}
}
