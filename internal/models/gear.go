package models

// SlotRecord is the user's current state for one equipment slot
type SlotRecord struct {
	Slot    Slot `json:"slot"`
	Tier    Tier `json:"tier"`
	BIS     bool `json:"bis"`
	Enchant bool `json:"enchant"`
	Exclude bool `json:"exclude"` // left out of the priority list
}

// NewSlotRecord returns the record of an empty slot
func NewSlotRecord(slot Slot) SlotRecord {
	return SlotRecord{Slot: slot, Tier: TierNaked}
}

// DefaultRecords returns an empty record for every known slot, in slot order
func DefaultRecords() []SlotRecord {
	slots := Slots()
	out := make([]SlotRecord, 0, len(slots))
	for _, s := range slots {
		out = append(out, NewSlotRecord(s))
	}
	return out
}

// SlotRecordUpdate is the request body for editing a slot
type SlotRecordUpdate struct {
	Tier    *Tier `json:"tier,omitempty"`
	BIS     *bool `json:"bis,omitempty"`
	Enchant *bool `json:"enchant,omitempty"`
	Exclude *bool `json:"exclude,omitempty"`
}

// Apply returns r with every non-nil field of u set
func (u SlotRecordUpdate) Apply(r SlotRecord) SlotRecord {
	if u.Tier != nil {
		r.Tier = *u.Tier
	}
	if u.BIS != nil {
		r.BIS = *u.BIS
	}
	if u.Enchant != nil {
		r.Enchant = *u.Enchant
	}
	if u.Exclude != nil {
		r.Exclude = *u.Exclude
	}
	return r
}

// BisEntry is the reference best-in-slot item for a slot
type BisEntry struct {
	Item    string `json:"Item" yaml:"item"`
	Source  string `json:"Source" yaml:"source"`
	Enchant string `json:"Enchant,omitempty" yaml:"enchant,omitempty"`
}

// BisTable maps slot names to their best-in-slot entry. Keys that are not
// known slots are kept as-is.
type BisTable map[string]BisEntry

// Lookup returns the entry for a slot
func (t BisTable) Lookup(slot Slot) (BisEntry, bool) {
	e, ok := t[string(slot)]
	return e, ok
}

// Clone returns a copy of the table
func (t BisTable) Clone() BisTable {
	out := make(BisTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// PriorityKind tells what a priority entry asks the user to do
type PriorityKind string

const (
	PriorityEnchant PriorityKind = "enchant"
	PriorityUpgrade PriorityKind = "upgrade"
)

// PriorityEntry is one row of the priority list
type PriorityEntry struct {
	Rank        int          `json:"rank"`
	Kind        PriorityKind `json:"kind"`
	Slot        Slot         `json:"slot"`
	Tier        Tier         `json:"tier"`
	BIS         bool         `json:"bis"`
	Item        string       `json:"item,omitempty"`
	Source      string       `json:"source,omitempty"`
	Enchant     string       `json:"enchant,omitempty"`
	MinKeystone int          `json:"min_keystone,omitempty"` // upgrades only
}
