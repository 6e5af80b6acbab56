package models

import (
	"errors"
	"fmt"
)

// Tier is the quality rank of the item equipped in a slot
type Tier int

const (
	TierNaked Tier = iota
	TierExplorer
	TierAdventurer
	TierVeteran
	TierChampion
	TierHero
	TierMythic
)

// ErrUnknownTier is returned when a tier name is not part of the tier list
var ErrUnknownTier = errors.New("unknown tier")

var tierNames = [...]string{
	TierNaked:      "Naked",
	TierExplorer:   "Explorer",
	TierAdventurer: "Adventurer",
	TierVeteran:    "Veteran",
	TierChampion:   "Champion",
	TierHero:       "Hero",
	TierMythic:     "Mythic",
}

// Spanish names used by older state files.
var tierAliases = map[string]Tier{
	"desnudo":    TierNaked,
	"explorador": TierExplorer,
	"aventurero": TierAdventurer,
	"veterano":   TierVeteran,
	"campeon":    TierChampion,
	"heroe":      TierHero,
	"mitico":     TierMythic,
}

// Tiers returns every tier, lowest first
func Tiers() []Tier {
	return []Tier{TierNaked, TierExplorer, TierAdventurer, TierVeteran, TierChampion, TierHero, TierMythic}
}

// Valid reports whether t is one of the known tiers
func (t Tier) Valid() bool {
	return t >= TierNaked && t <= TierMythic
}

// Rank is the position of the tier in the ordered tier list
func (t Tier) Rank() int {
	return int(t)
}

func (t Tier) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Tier(%d)", int(t))
	}
	return tierNames[t]
}

// ParseTier resolves a tier by its name. Matching ignores case and accents,
// and the Spanish tier names are accepted as well.
func ParseTier(s string) (Tier, error) {
	key := normalizeKey(s)
	for i, name := range tierNames {
		if normalizeKey(name) == key {
			return Tier(i), nil
		}
	}
	if t, ok := tierAliases[key]; ok {
		return t, nil
	}
	return TierNaked, fmt.Errorf("%w: %q", ErrUnknownTier, s)
}

// MarshalText implements encoding.TextMarshaler
func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTier, int(t))
	}
	return []byte(tierNames[t]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *Tier) UnmarshalText(text []byte) error {
	parsed, err := ParseTier(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TierConfig describes how a tier is presented
type TierConfig struct {
	Tier  Tier   `json:"name"`
	Rank  int    `json:"rank"`
	Color string `json:"color"`
}

// TierConfigs returns display configuration for every tier
func TierConfigs() []TierConfig {
	return []TierConfig{
		{Tier: TierNaked, Rank: 0, Color: "#9d9d9d"},
		{Tier: TierExplorer, Rank: 1, Color: "#ffffff"},
		{Tier: TierAdventurer, Rank: 2, Color: "#1eff00"},
		{Tier: TierVeteran, Rank: 3, Color: "#0070dd"},
		{Tier: TierChampion, Rank: 4, Color: "#a335ee"},
		{Tier: TierHero, Rank: 5, Color: "#ff8000"},
		{Tier: TierMythic, Rank: 6, Color: "#e6cc80"},
	}
}
