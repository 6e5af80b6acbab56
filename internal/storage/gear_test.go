package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/meur/bistracker/internal/models"
)

func newFileStore(t *testing.T) (*GearStore, *FileBlobs) {
	t.Helper()
	dir := t.TempDir()
	blobs := NewFileBlobs(filepath.Join(dir, "gear_state.json"), filepath.Join(dir, "bis.json"))
	return NewGearStore(blobs), blobs
}

func TestLoadStateMissingFile(t *testing.T) {
	store, _ := newFileStore(t)

	records, err := store.LoadState(models.DefaultRecords())
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	for _, r := range records {
		if r != models.NewSlotRecord(r.Slot) {
			t.Errorf("expected empty record, got %+v", r)
		}
	}
}

func TestStateRoundTrip(t *testing.T) {
	store, _ := newFileStore(t)

	records := models.DefaultRecords()
	for i := range records {
		records[i].Tier = models.Tiers()[i%len(models.Tiers())]
		records[i].BIS = i%2 == 0
		records[i].Enchant = i%3 == 0
		records[i].Exclude = i%5 == 0
	}

	if err := store.SaveState(records); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}

	loaded, err := store.LoadState(models.DefaultRecords())
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	if len(loaded) != len(records) {
		t.Fatalf("got %d records, want %d", len(loaded), len(records))
	}
	for i := range records {
		if loaded[i] != records[i] {
			t.Errorf("record %d: got %+v, want %+v", i, loaded[i], records[i])
		}
	}
}

func TestLoadStateKeepsTierOnUnknownValue(t *testing.T) {
	store, blobs := newFileStore(t)
	doc := `{
		"Head": {"Tier": "Legendary", "BIS": true},
		"Neck": {"Tier": "Hero", "Enchant": true}
	}`
	if err := os.WriteFile(blobs.StatePath, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	start := models.DefaultRecords()
	start[0].Tier = models.TierChampion

	loaded, err := store.LoadState(start)
	if err == nil {
		t.Error("expected an error describing the unknown tier")
	}
	if loaded[0].Tier != models.TierChampion || !loaded[0].BIS {
		t.Errorf("head = %+v, want Champion kept and BIS set", loaded[0])
	}
	if loaded[1].Tier != models.TierHero || !loaded[1].Enchant {
		t.Errorf("neck = %+v", loaded[1])
	}
}

func TestLoadStateLegacyNames(t *testing.T) {
	store, blobs := newFileStore(t)
	doc := `{
		"Capa": {"Tier": "Héroe", "BIS": true, "Enchant": false, "Exclude": false},
		"Anillo 2": {"Tier": "Mítico", "BIS": true, "Enchant": true, "Exclude": true},
		"Arma 2M": {"Tier": "Campeón"},
		"Tabardo": {"Tier": "Mítico"}
	}`
	if err := os.WriteFile(blobs.StatePath, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.LoadState(models.DefaultRecords())
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	bySlot := map[models.Slot]models.SlotRecord{}
	for _, r := range loaded {
		bySlot[r.Slot] = r
	}
	if r := bySlot[models.SlotBack]; r.Tier != models.TierHero || !r.BIS {
		t.Errorf("back = %+v", r)
	}
	if r := bySlot[models.SlotRing2]; r.Tier != models.TierMythic || !r.Enchant || !r.Exclude {
		t.Errorf("ring 2 = %+v", r)
	}
	if r := bySlot[models.SlotTwoHand]; r.Tier != models.TierChampion {
		t.Errorf("two-hand = %+v", r)
	}
}

func TestLoadStateMalformed(t *testing.T) {
	store, blobs := newFileStore(t)
	if err := os.WriteFile(blobs.StatePath, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	start := models.DefaultRecords()
	start[2].Tier = models.TierVeteran
	loaded, err := store.LoadState(start)
	if !errors.Is(err, ErrUnreadable) {
		t.Errorf("expected ErrUnreadable, got %v", err)
	}
	if loaded[2].Tier != models.TierVeteran {
		t.Errorf("malformed file changed records: %+v", loaded[2])
	}
}

func TestLoadStateDecodesFieldsSeparately(t *testing.T) {
	store, blobs := newFileStore(t)
	doc := `{
		"Head": {"Tier": 5, "BIS": true, "Enchant": true},
		"Neck": {"Tier": "Veteran", "BIS": 1, "Exclude": true},
		"Back": {"BIS": "yes"},
		"Chest": 7
	}`
	if err := os.WriteFile(blobs.StatePath, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	start := models.DefaultRecords()
	start[0].Tier = models.TierChampion
	start[1].BIS = true
	start[4].Tier = models.TierHero

	loaded, err := store.LoadState(start)
	if err == nil {
		t.Error("expected errors for the wrong-typed values")
	}
	if errors.Is(err, ErrUnreadable) {
		t.Errorf("per-value problems reported as unreadable document: %v", err)
	}
	if h := loaded[0]; h.Tier != models.TierChampion || !h.BIS || !h.Enchant {
		t.Errorf("head = %+v, want Champion kept with BIS and Enchant set", h)
	}
	if n := loaded[1]; n.Tier != models.TierVeteran || !n.BIS || !n.Exclude {
		t.Errorf("neck = %+v, want Veteran, prior BIS kept, Exclude set", n)
	}
	if loaded[3].BIS {
		t.Errorf("back = %+v, wrong-typed BIS should keep false", loaded[3])
	}
	if loaded[4].Tier != models.TierHero {
		t.Errorf("chest = %+v, non-object entry should be skipped", loaded[4])
	}
	for _, want := range []string{`"Head" tier`, `"Neck" BIS`, `"Back" BIS`, `"Chest"`} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoadStateAbsentFlagsAreFalse(t *testing.T) {
	store, blobs := newFileStore(t)
	if err := os.WriteFile(blobs.StatePath, []byte(`{"Feet": {"Tier": null}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	start := models.DefaultRecords()
	start[9] = models.SlotRecord{Slot: models.SlotFeet, Tier: models.TierAdventurer, BIS: true, Enchant: true, Exclude: true}

	loaded, err := store.LoadState(start)
	if err != nil {
		t.Fatal(err)
	}
	want := models.SlotRecord{Slot: models.SlotFeet, Tier: models.TierAdventurer}
	if loaded[9] != want {
		t.Errorf("feet = %+v, want %+v", loaded[9], want)
	}
}

func TestSaveStateFormat(t *testing.T) {
	store, blobs := newFileStore(t)
	records := models.DefaultRecords()
	records[3].Tier = models.TierChampion

	if err := store.SaveState(records); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(blobs.StatePath)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{`"Back": {`, `"Tier": "Champion"`, `"BIS": false`, `"Exclude": false`, "\n    \""} {
		if !strings.Contains(text, want) {
			t.Errorf("state file missing %q:\n%s", want, text)
		}
	}
}

func TestBisRoundTrip(t *testing.T) {
	store, _ := newFileStore(t)

	table, err := store.LoadBis()
	if err != nil || len(table) != 0 {
		t.Fatalf("missing bis file: table=%v err=%v", table, err)
	}

	table = models.BisTable{
		"Head":   {Item: "Crown <of> Flames", Source: "Raid — Boss 3"},
		"Back":   {Item: "Cloak", Source: "Dungeon", Enchant: "Leech"},
		"Tabard": {Item: "Guild Tabard"},
	}
	if err := store.SaveBis(table); err != nil {
		t.Fatal(err)
	}
	loaded, err := store.LoadBis()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != len(table) {
		t.Fatalf("got %d entries, want %d", len(loaded), len(table))
	}
	for k, v := range table {
		if loaded[k] != v {
			t.Errorf("%s: got %+v, want %+v", k, loaded[k], v)
		}
	}
}

func TestLoadBisCanonicalizesLegacyKeys(t *testing.T) {
	store, blobs := newFileStore(t)
	doc := `{"Capa": {"Item": "Manto", "Source": "Banda", "Enchant": "Evasión"}}`
	if err := os.WriteFile(blobs.BisPath, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := store.LoadBis()
	if err != nil {
		t.Fatal(err)
	}
	entry, ok := table.Lookup(models.SlotBack)
	if !ok || entry.Item != "Manto" || entry.Enchant != "Evasión" {
		t.Errorf("back entry = %+v (%v)", entry, ok)
	}
}

func TestLoadBisMalformed(t *testing.T) {
	store, blobs := newFileStore(t)
	if err := os.WriteFile(blobs.BisPath, []byte(`[1,2,3]`), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := store.LoadBis()
	if !errors.Is(err, ErrUnreadable) {
		t.Errorf("expected ErrUnreadable, got %v", err)
	}
	if table == nil || len(table) != 0 {
		t.Errorf("expected empty table, got %v", table)
	}
}

func TestBackup(t *testing.T) {
	store, blobs := newFileStore(t)
	if err := store.Backup(BisDocument); err != nil {
		t.Fatalf("backing up a missing document: %v", err)
	}
	if _, err := os.Stat(blobs.BisPath + ".bak"); !os.IsNotExist(err) {
		t.Errorf("backup written for a missing document: %v", err)
	}

	bad := []byte(`{"Head": {"Item": "Crown",}}`)
	if err := os.WriteFile(blobs.BisPath, bad, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := store.Backup(BisDocument); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(blobs.BisPath + ".bak")
	if err != nil {
		t.Fatalf("backup not written: %v", err)
	}
	if string(data) != string(bad) {
		t.Errorf("backup = %q, want %q", data, bad)
	}
}

func TestImportBisTable(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "seed.yaml")
	yamlDoc := "Head:\n  item: Crown\n  source: Raid\nring-1:\n  item: Band\n  source: Dungeon\n  enchant: Haste\n"
	if err := os.WriteFile(yamlPath, []byte(yamlDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := ImportBisTable(yamlPath)
	if err != nil {
		t.Fatalf("yaml import failed: %v", err)
	}
	if e, _ := table.Lookup(models.SlotRing1); e.Item != "Band" || e.Enchant != "Haste" {
		t.Errorf("ring 1 = %+v", e)
	}
	if e, _ := table.Lookup(models.SlotHead); e.Source != "Raid" {
		t.Errorf("head = %+v", e)
	}

	jsonPath := filepath.Join(dir, "seed.json")
	if err := os.WriteFile(jsonPath, []byte(`{"Botas": {"Item": "Boots", "Source": "Vendor"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err = ImportBisTable(jsonPath)
	if err != nil {
		t.Fatalf("json import failed: %v", err)
	}
	if e, _ := table.Lookup(models.SlotFeet); e.Item != "Boots" {
		t.Errorf("feet = %+v", e)
	}

	if _, err := ImportBisTable(filepath.Join(dir, "seed.toml")); err == nil {
		t.Error("expected error for missing file")
	}
	txtPath := filepath.Join(dir, "seed.txt")
	os.WriteFile(txtPath, []byte("x"), 0o644)
	if _, err := ImportBisTable(txtPath); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestMemoryBlobs(t *testing.T) {
	store := NewGearStore(NewMemoryBlobs())
	records := models.DefaultRecords()
	records[0].Tier = models.TierMythic
	records[0].BIS = true

	if err := store.SaveState(records); err != nil {
		t.Fatal(err)
	}
	loaded, err := store.LoadState(models.DefaultRecords())
	if err != nil {
		t.Fatal(err)
	}
	if loaded[0] != records[0] {
		t.Errorf("got %+v, want %+v", loaded[0], records[0])
	}
}

func TestOpenBlobsUnknownKind(t *testing.T) {
	if _, err := OpenBlobs("cloud", "a", "b", "c"); err == nil {
		t.Error("expected error for unknown store kind")
	}
	blobs, err := OpenBlobs("file", "a.json", "b.json", "")
	if err != nil {
		t.Fatal(err)
	}
	if fb, ok := blobs.(*FileBlobs); !ok || fb.StatePath != "a.json" || fb.BisPath != "b.json" {
		t.Errorf("unexpected blobs %#v", blobs)
	}
}
