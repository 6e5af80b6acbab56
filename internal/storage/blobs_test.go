package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/meur/bistracker/internal/models"
)

func TestFileBlobsSaveCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	blobs := NewFileBlobs(filepath.Join(dir, "nested", "state.json"), filepath.Join(dir, "bis.json"))

	if err := blobs.Save(StateDocument, []byte(`{}`)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := blobs.Load(StateDocument)
	if err != nil || string(data) != `{}` {
		t.Fatalf("Load = %q, %v", data, err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestFileBlobsMissing(t *testing.T) {
	blobs := NewFileBlobs(filepath.Join(t.TempDir(), "none.json"), "")
	if _, err := blobs.Load(StateDocument); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
	if _, err := blobs.Load(Document("other")); err == nil {
		t.Error("expected error for unknown document")
	}
	if _, err := blobs.Load(Document("other").Backup()); err == nil {
		t.Error("expected error for backup of unknown document")
	}
}

func TestFileBlobsBackupPath(t *testing.T) {
	dir := t.TempDir()
	blobs := NewFileBlobs(filepath.Join(dir, "state.json"), filepath.Join(dir, "bis.json"))

	if err := blobs.Save(BisDocument.Backup(), []byte(`old`)); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "bis.json.bak"))
	if err != nil || string(data) != "old" {
		t.Errorf("backup file = %q, %v", data, err)
	}
	if _, err := os.Stat(blobs.BisPath); !os.IsNotExist(err) {
		t.Errorf("backup save touched the document itself: %v", err)
	}
}

func TestFileBlobsSaveFailureIsReported(t *testing.T) {
	dir := t.TempDir()
	// A directory where the state file should be makes the rename fail.
	statePath := filepath.Join(dir, "state.json")
	if err := os.Mkdir(statePath, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(statePath, "keep"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewGearStore(NewFileBlobs(statePath, filepath.Join(dir, "bis.json")))
	if err := store.SaveState(models.DefaultRecords()); err == nil {
		t.Error("expected save error")
	}
}

func createTestProfile(t *testing.T, name string) *ProfileBlobs {
	t.Helper()
	appName := "bistracker_test_" + name
	blobs, err := OpenProfile(appName)
	if err != nil {
		return nil
	}

	t.Cleanup(func() {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			os.RemoveAll(filepath.Join(homeDir, ".local", "share", appName))
		}
	})
	return blobs
}

func TestProfileBlobsRoundTrip(t *testing.T) {
	blobs := createTestProfile(t, "roundtrip")
	if blobs == nil {
		t.Skip("Cannot open profile storage for testing")
	}

	if _, err := blobs.Load(BisDocument); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected ErrNotExist before first save, got %v", err)
	}

	store := NewGearStore(blobs)
	table := models.BisTable{"Neck": {Item: "Amulet", Source: "World boss"}}
	if err := store.SaveBis(table); err != nil {
		t.Fatalf("SaveBis failed: %v", err)
	}
	loaded, err := store.LoadBis()
	if err != nil {
		t.Fatalf("LoadBis failed: %v", err)
	}
	if loaded["Neck"] != table["Neck"] {
		t.Errorf("got %+v", loaded)
	}
}
