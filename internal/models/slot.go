package models

import (
	"errors"
	"fmt"
)

// Slot is an equipment slot name
type Slot string

const (
	SlotHead      Slot = "Head"
	SlotNeck      Slot = "Neck"
	SlotShoulders Slot = "Shoulders"
	SlotBack      Slot = "Back"
	SlotChest     Slot = "Chest"
	SlotWrist     Slot = "Wrist"
	SlotHands     Slot = "Hands"
	SlotWaist     Slot = "Waist"
	SlotLegs      Slot = "Legs"
	SlotFeet      Slot = "Feet"
	SlotRing1     Slot = "Ring 1"
	SlotRing2     Slot = "Ring 2"
	SlotTrinket1  Slot = "Trinket 1"
	SlotTrinket2  Slot = "Trinket 2"
	SlotOneHand   Slot = "One-Hand"
	SlotTwoHand   Slot = "Two-Hand"
)

// ErrUnknownSlot is returned when a name does not resolve to a known slot
var ErrUnknownSlot = errors.New("unknown slot")

// Slots returns every known slot in display order. This order is also the
// order pending enchants are listed in.
func Slots() []Slot {
	return []Slot{
		SlotHead, SlotNeck, SlotShoulders, SlotBack,
		SlotChest, SlotWrist, SlotHands, SlotWaist,
		SlotLegs, SlotFeet, SlotRing1, SlotRing2,
		SlotTrinket1, SlotTrinket2, SlotOneHand, SlotTwoHand,
	}
}

var enchantable = map[Slot]bool{
	SlotBack:    true,
	SlotChest:   true,
	SlotWrist:   true,
	SlotLegs:    true,
	SlotFeet:    true,
	SlotRing1:   true,
	SlotRing2:   true,
	SlotTwoHand: true,
	SlotOneHand: true,
}

// Spanish slot names used by older state and BIS files.
var slotAliases = map[string]Slot{
	"cabeza":     SlotHead,
	"cuello":     SlotNeck,
	"hombreras":  SlotShoulders,
	"capa":       SlotBack,
	"cloak":      SlotBack,
	"pechera":    SlotChest,
	"brazales":   SlotWrist,
	"guantes":    SlotHands,
	"cinturon":   SlotWaist,
	"pantalones": SlotLegs,
	"botas":      SlotFeet,
	"anillo1":    SlotRing1,
	"anillo2":    SlotRing2,
	"abalorio1":  SlotTrinket1,
	"abalorio2":  SlotTrinket2,
	"arma1m":     SlotOneHand,
	"arma2m":     SlotTwoHand,
}

var slotKeys = func() map[string]Slot {
	keys := make(map[string]Slot, len(slotAliases)+16)
	for alias, slot := range slotAliases {
		keys[alias] = slot
	}
	for _, slot := range Slots() {
		keys[normalizeKey(string(slot))] = slot
	}
	return keys
}()

// ParseSlot resolves a slot from its display name, its slug or a Spanish alias
func ParseSlot(s string) (Slot, error) {
	if slot, ok := slotKeys[normalizeKey(s)]; ok {
		return slot, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSlot, s)
}

// Known reports whether s is one of the fixed slots
func (s Slot) Known() bool {
	for _, slot := range Slots() {
		if slot == s {
			return true
		}
	}
	return false
}

// Enchantable reports whether the slot accepts an enchant
func (s Slot) Enchantable() bool {
	return enchantable[s]
}

// Slug is the URL form of the slot name
func (s Slot) Slug() string {
	return Slug(string(s))
}

// SlotInfo is the catalog view of a slot
type SlotInfo struct {
	Name        Slot   `json:"name"`
	Slug        string `json:"slug"`
	Enchantable bool   `json:"enchantable"`
}

// SlotCatalog lists every slot with its properties
func SlotCatalog() []SlotInfo {
	slots := Slots()
	out := make([]SlotInfo, 0, len(slots))
	for _, s := range slots {
		out = append(out, SlotInfo{Name: s, Slug: s.Slug(), Enchantable: s.Enchantable()})
	}
	return out
}
