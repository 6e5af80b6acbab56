package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/meur/bistracker/internal/models"
	"gopkg.in/yaml.v3"
)

// stateEntry is the on-disk form of a slot record
type stateEntry struct {
	Tier    string `json:"Tier"`
	BIS     bool   `json:"BIS"`
	Enchant bool   `json:"Enchant"`
	Exclude bool   `json:"Exclude"`
}

// rawStateEntry holds the fields of a stateEntry undecoded, so that one
// value of the wrong type does not cost the others. encoding/json matches
// keys case-insensitively, so lowercase files load as well.
type rawStateEntry struct {
	Tier    json.RawMessage
	BIS     json.RawMessage
	Enchant json.RawMessage
	Exclude json.RawMessage
}

// ErrUnreadable marks a document that exists but could not be read or
// parsed at all, as opposed to one with a few unusable entries.
var ErrUnreadable = errors.New("document unreadable")

// GearStore reads and writes the user state and BIS documents
type GearStore struct {
	blobs Blobs
}

// NewGearStore creates a GearStore on top of blobs
func NewGearStore(blobs Blobs) *GearStore {
	return &GearStore{blobs: blobs}
}

// LoadState applies the saved user state on top of records and returns the
// result. Loading is best effort: a missing document leaves records as they
// are, and every value that cannot be used keeps its previous setting.
// Problems are reported through the returned error, alongside a usable
// result; it wraps ErrUnreadable when nothing could be applied.
func (s *GearStore) LoadState(records []models.SlotRecord) ([]models.SlotRecord, error) {
	out := append([]models.SlotRecord(nil), records...)

	data, err := s.blobs.Load(StateDocument)
	if isNotExist(err) {
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("failed to read state: %w: %w", ErrUnreadable, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return out, fmt.Errorf("failed to parse state: %w: %w", ErrUnreadable, err)
	}

	index := make(map[models.Slot]int, len(out))
	for i, r := range out {
		index[r.Slot] = i
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, key := range keys {
		slot, err := models.ParseSlot(key)
		if err != nil {
			continue
		}
		i, ok := index[slot]
		if !ok {
			continue
		}

		var entry rawStateEntry
		if err := json.Unmarshal(raw[key], &entry); err != nil {
			errs = append(errs, fmt.Errorf("slot %q: %w", key, err))
			continue
		}

		r := out[i]
		if tier, err := decodeTier(entry.Tier, r.Tier); err != nil {
			errs = append(errs, fmt.Errorf("slot %q tier: %w", key, err))
		} else {
			r.Tier = tier
		}
		for _, f := range []struct {
			name string
			raw  json.RawMessage
			dst  *bool
		}{
			{"BIS", entry.BIS, &r.BIS},
			{"Enchant", entry.Enchant, &r.Enchant},
			{"Exclude", entry.Exclude, &r.Exclude},
		} {
			if err := decodeFlag(f.raw, f.dst); err != nil {
				errs = append(errs, fmt.Errorf("slot %q %s: %w", key, f.name, err))
			}
		}
		out[i] = r
	}

	return out, errors.Join(errs...)
}

// decodeTier returns prior when raw is absent, null or empty
func decodeTier(raw json.RawMessage, prior models.Tier) (models.Tier, error) {
	if isAbsent(raw) {
		return prior, nil
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return prior, err
	}
	if name == "" {
		return prior, nil
	}
	return models.ParseTier(name)
}

// decodeFlag sets *dst from raw. An absent flag is false; a value of the
// wrong type leaves *dst alone.
func decodeFlag(raw json.RawMessage, dst *bool) error {
	if isAbsent(raw) {
		*dst = false
		return nil
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	*dst = v
	return nil
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// SaveState writes records as the user state document
func (s *GearStore) SaveState(records []models.SlotRecord) error {
	state := make(map[string]stateEntry, len(records))
	for _, r := range records {
		state[string(r.Slot)] = stateEntry{
			Tier:    r.Tier.String(),
			BIS:     r.BIS,
			Enchant: r.Enchant,
			Exclude: r.Exclude,
		}
	}
	data, err := encodeDocument(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if err := s.blobs.Save(StateDocument, data); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	return nil
}

// LoadBis reads the BIS reference table. A missing document is an empty
// table; a malformed one is reported, wrapping ErrUnreadable, along with an
// empty table.
func (s *GearStore) LoadBis() (models.BisTable, error) {
	data, err := s.blobs.Load(BisDocument)
	if isNotExist(err) {
		return models.BisTable{}, nil
	}
	if err != nil {
		return models.BisTable{}, fmt.Errorf("failed to read bis table: %w: %w", ErrUnreadable, err)
	}

	var table models.BisTable
	if err := json.Unmarshal(data, &table); err != nil {
		return models.BisTable{}, fmt.Errorf("failed to parse bis table: %w: %w", ErrUnreadable, err)
	}
	return CanonicalBisTable(table), nil
}

// SaveBis writes the BIS reference table
func (s *GearStore) SaveBis(table models.BisTable) error {
	if table == nil {
		table = models.BisTable{}
	}
	data, err := encodeDocument(table)
	if err != nil {
		return fmt.Errorf("failed to encode bis table: %w", err)
	}
	if err := s.blobs.Save(BisDocument, data); err != nil {
		return fmt.Errorf("failed to write bis table: %w", err)
	}
	return nil
}

// Backup copies the stored bytes of doc to doc.Backup(). A missing
// document is not copied.
func (s *GearStore) Backup(doc Document) error {
	data, err := s.blobs.Load(doc)
	if isNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", doc, err)
	}
	if err := s.blobs.Save(doc.Backup(), data); err != nil {
		return fmt.Errorf("failed to write %s: %w", doc.Backup(), err)
	}
	return nil
}

// CanonicalBisTable renames keys that resolve to a known slot to that
// slot's display name. Other keys are kept.
func CanonicalBisTable(table models.BisTable) models.BisTable {
	out := make(models.BisTable, len(table))
	for key, entry := range table {
		if slot, err := models.ParseSlot(key); err == nil {
			key = string(slot)
		}
		out[key] = entry
	}
	return out
}

// ImportBisTable reads a BIS table from a .json, .yaml or .yml file
func ImportBisTable(path string) (models.BisTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var table models.BisTable
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &table)
	case ".json":
		err = json.Unmarshal(data, &table)
	default:
		return nil, fmt.Errorf("unsupported bis file %q", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return CanonicalBisTable(table), nil
}

func encodeDocument(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
