package main

import (
	"flag"
	"log"

	"github.com/meur/bistracker/internal/config"
	"github.com/meur/bistracker/internal/storage"
	"github.com/meur/bistracker/internal/tracker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	statePath := flag.String("state", cfg.StateFile, "Gear state JSON path")
	bisPath := flag.String("bis", cfg.BisFile, "BIS table JSON path")
	storeKind := flag.String("store", cfg.Store, "Where gear documents live: file or profile")
	replace := flag.Bool("replace", false, "Replace the whole BIS table instead of merging")
	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatalf("Usage: seed [flags] <bis.yaml|bis.json>...")
	}

	blobs, err := storage.OpenBlobs(*storeKind, *statePath, *bisPath, cfg.Profile)
	if err != nil {
		log.Fatalf("Failed to open gear documents: %v", err)
	}

	gear := tracker.New(storage.NewGearStore(blobs))
	if err := gear.Load(); err != nil {
		log.Printf("Warning: existing data only partially loaded")
	}

	if *replace {
		gear.ReplaceBis(nil)
	}

	for _, file := range flag.Args() {
		table, err := storage.ImportBisTable(file)
		if err != nil {
			log.Printf("Warning: failed to seed %s: %v", file, err)
			continue
		}
		gear.MergeBis(table)
		log.Printf("✓ Seeded %d BIS entries from %s", len(table), file)
	}

	if err := gear.Save(); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Println("🌱 Seeding complete!")
}
