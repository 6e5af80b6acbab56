// Package priority derives the list of slots worth working on next.
package priority

import (
	"sort"
	"strings"

	"github.com/meur/bistracker/internal/models"
)

// Placeholder shown when the BIS table has no value for a field.
const Placeholder = "—"

// MinKeystone returns the lowest keystone level at which an upgrade over
// the given tier drops. Mythic has no upgrade, so ok is false.
func MinKeystone(tier models.Tier) (level int, ok bool) {
	switch {
	case tier < models.TierChampion:
		return 2, true
	case tier == models.TierChampion:
		return 6, true
	case tier == models.TierMythic:
		return 0, false
	}
	return 6, true
}

// NeedsEnchant reports whether a BIS item in the slot is still missing its enchant
func NeedsEnchant(r models.SlotRecord) bool {
	if !r.BIS || r.Enchant || !r.Slot.Enchantable() {
		return false
	}
	return r.Tier == models.TierHero || r.Tier == models.TierMythic
}

// Compute builds the priority list. Pending enchants come first, in the
// order of records; upgrades follow, lowest tier first, non-BIS before BIS
// at equal tier, then by slot name. Excluded records never appear.
func Compute(records []models.SlotRecord, bis models.BisTable) []models.PriorityEntry {
	var enchants, upgrades []models.PriorityEntry

	for _, r := range records {
		if r.Exclude {
			continue
		}
		entry, _ := bis.Lookup(r.Slot)

		if NeedsEnchant(r) {
			enchants = append(enchants, models.PriorityEntry{
				Kind:    models.PriorityEnchant,
				Slot:    r.Slot,
				Tier:    r.Tier,
				BIS:     r.BIS,
				Enchant: orPlaceholder(entry.Enchant),
			})
		}

		if r.Tier == models.TierMythic && r.BIS {
			continue
		}
		level, ok := MinKeystone(r.Tier)
		if !ok {
			continue
		}
		upgrades = append(upgrades, models.PriorityEntry{
			Kind:        models.PriorityUpgrade,
			Slot:        r.Slot,
			Tier:        r.Tier,
			BIS:         r.BIS,
			Item:        orPlaceholder(entry.Item),
			Source:      orPlaceholder(entry.Source),
			MinKeystone: level,
		})
	}

	sort.SliceStable(upgrades, func(i, j int) bool {
		a, b := upgrades[i], upgrades[j]
		if a.Tier != b.Tier {
			return a.Tier.Rank() < b.Tier.Rank()
		}
		if a.BIS != b.BIS {
			return !a.BIS
		}
		return strings.Compare(string(a.Slot), string(b.Slot)) < 0
	})

	out := make([]models.PriorityEntry, 0, len(enchants)+len(upgrades))
	out = append(out, enchants...)
	out = append(out, upgrades...)
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func orPlaceholder(v string) string {
	if v == "" {
		return Placeholder
	}
	return v
}
