// Package tracker holds the gear state the user is editing.
package tracker

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/meur/bistracker/internal/models"
	"github.com/meur/bistracker/internal/priority"
	"github.com/meur/bistracker/internal/storage"
)

// Tracker owns the slot records and the BIS table. Methods are safe for
// concurrent use.
type Tracker struct {
	mu      sync.Mutex
	store   *storage.GearStore
	records []models.SlotRecord // one per known slot, in slot order
	bis     models.BisTable

	// Documents that exist but could not be read at the last Load, and
	// whether the user has changed their content since.
	unreadable map[storage.Document]bool
	edited     map[storage.Document]bool
}

// New creates a tracker with every slot empty
func New(store *storage.GearStore) *Tracker {
	return &Tracker{
		store:      store,
		records:    models.DefaultRecords(),
		bis:        models.BisTable{},
		unreadable: map[storage.Document]bool{},
		edited:     map[storage.Document]bool{},
	}
}

// Load reads the saved state and BIS table. Problems with either document
// are logged and the affected data is left at its previous value; the
// returned error only summarises what was skipped. A document that could
// not be read at all is left untouched by Save until it is edited.
func (t *Tracker) Load() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	records, stateErr := t.store.LoadState(t.records)
	t.records = records
	if stateErr != nil {
		log.Printf("Warning: gear state partially loaded: %v", stateErr)
	}

	bis, bisErr := t.store.LoadBis()
	if bisErr != nil {
		log.Printf("Warning: bis table not loaded: %v", bisErr)
	} else {
		t.bis = bis
	}

	t.unreadable[storage.StateDocument] = errors.Is(stateErr, storage.ErrUnreadable)
	t.unreadable[storage.BisDocument] = errors.Is(bisErr, storage.ErrUnreadable)
	clear(t.edited)

	if stateErr != nil || bisErr != nil {
		return fmt.Errorf("load incomplete: %w", errors.Join(stateErr, bisErr))
	}
	return nil
}

// Save writes the state and the BIS table. Both are attempted even if the
// first fails.
//
// A document that was unreadable at Load is skipped unless it has been
// edited since; an edited one is first copied to its backup so the
// original bytes survive.
func (t *Tracker) Save() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	stateErr := t.saveDocument(storage.StateDocument, func() error {
		return t.store.SaveState(t.records)
	})
	if stateErr != nil {
		log.Printf("Error: failed to save gear state: %v", stateErr)
	}
	bisErr := t.saveDocument(storage.BisDocument, func() error {
		return t.store.SaveBis(t.bis)
	})
	if bisErr != nil {
		log.Printf("Error: failed to save bis table: %v", bisErr)
	}
	return errors.Join(stateErr, bisErr)
}

func (t *Tracker) saveDocument(doc storage.Document, write func() error) error {
	if t.unreadable[doc] {
		if !t.edited[doc] {
			log.Printf("Warning: %s document was not loaded, leaving it as is", doc)
			return nil
		}
		if err := t.store.Backup(doc); err != nil {
			return fmt.Errorf("keeping unreadable %s document: %w", doc, err)
		}
		log.Printf("Warning: unreadable %s document copied to %s", doc, doc.Backup())
	}
	if err := write(); err != nil {
		return err
	}
	t.unreadable[doc] = false
	return nil
}

// Records returns a copy of every slot record in slot order
func (t *Tracker) Records() []models.SlotRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.SlotRecord(nil), t.records...)
}

// Record returns the record of one slot
func (t *Tracker) Record(slot models.Slot) (models.SlotRecord, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i, err := t.indexOf(slot)
	if err != nil {
		return models.SlotRecord{}, err
	}
	return t.records[i], nil
}

// UpdateRecord applies a partial update to a slot and returns the new record
func (t *Tracker) UpdateRecord(slot models.Slot, update models.SlotRecordUpdate) (models.SlotRecord, error) {
	if update.Tier != nil && !update.Tier.Valid() {
		return models.SlotRecord{}, fmt.Errorf("%w: %d", models.ErrUnknownTier, int(*update.Tier))
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	i, err := t.indexOf(slot)
	if err != nil {
		return models.SlotRecord{}, err
	}
	t.records[i] = update.Apply(t.records[i])
	t.edited[storage.StateDocument] = true
	return t.records[i], nil
}

// Bis returns a copy of the BIS table
func (t *Tracker) Bis() models.BisTable {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bis.Clone()
}

// SetBisEntry sets the BIS entry of one slot
func (t *Tracker) SetBisEntry(slot models.Slot, entry models.BisEntry) error {
	if !slot.Known() {
		return fmt.Errorf("%w: %q", models.ErrUnknownSlot, slot)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.bis[string(slot)] = entry
	t.edited[storage.BisDocument] = true
	return nil
}

// ReplaceBis replaces the whole BIS table
func (t *Tracker) ReplaceBis(table models.BisTable) {
	table = storage.CanonicalBisTable(table)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.bis = table
	t.edited[storage.BisDocument] = true
}

// MergeBis sets every entry of table, keeping entries it does not mention
func (t *Tracker) MergeBis(table models.BisTable) {
	table = storage.CanonicalBisTable(table)

	t.mu.Lock()
	defer t.mu.Unlock()
	for k, v := range table {
		t.bis[k] = v
	}
	t.edited[storage.BisDocument] = true
}

// Priority computes the priority list for the current state
func (t *Tracker) Priority() []models.PriorityEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return priority.Compute(t.records, t.bis)
}

// State returns copies of the records and the BIS table taken together
func (t *Tracker) State() ([]models.SlotRecord, models.BisTable) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.SlotRecord(nil), t.records...), t.bis.Clone()
}

// Restore replaces the current state. Records for unknown slots are
// ignored and slots missing from records are reset to empty.
func (t *Tracker) Restore(records []models.SlotRecord, bis models.BisTable) {
	next := models.DefaultRecords()
	index := make(map[models.Slot]int, len(next))
	for i, r := range next {
		index[r.Slot] = i
	}
	for _, r := range records {
		if i, ok := index[r.Slot]; ok && r.Tier.Valid() {
			next[i] = r
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = next
	t.bis = storage.CanonicalBisTable(bis)
	t.edited[storage.StateDocument] = true
	t.edited[storage.BisDocument] = true
}

func (t *Tracker) indexOf(slot models.Slot) (int, error) {
	for i, r := range t.records {
		if r.Slot == slot {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", models.ErrUnknownSlot, slot)
}
