package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/meur/bistracker/internal/config"
	"github.com/meur/bistracker/internal/models"
	"github.com/meur/bistracker/internal/storage"
	"github.com/meur/bistracker/internal/tracker"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

const usage = `Usage: gear [flags] <command> [command flags]

Commands:
  list        show every slot
  priority    show what to work on next
  set         edit a slot:   set -slot Head -tier Hero -bis
  bis         edit BIS data: bis -slot Head -item "..." -source "..."
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("%s✗ Failed to load config: %v%s", colorRed, err, colorReset)
	}

	statePath := flag.String("state", cfg.StateFile, "Gear state JSON path")
	bisPath := flag.String("bis", cfg.BisFile, "BIS table JSON path")
	storeKind := flag.String("store", cfg.Store, "Where gear documents live: file or profile")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	blobs, err := storage.OpenBlobs(*storeKind, *statePath, *bisPath, cfg.Profile)
	if err != nil {
		log.Fatalf("%s✗ Failed to open gear documents: %v%s", colorRed, err, colorReset)
	}

	gear := tracker.New(storage.NewGearStore(blobs))
	if err := gear.Load(); err != nil {
		log.Printf("%s⚠ Warning: some saved data was skipped%s", colorYellow, colorReset)
	}

	out := newPrinter(os.Stdout, !*noColor)
	args := flag.Args()

	switch args[0] {
	case "list":
		out.records(gear.Records())
	case "priority":
		out.priority(gear.Priority())
	case "set":
		if err := runSet(gear, args[1:]); err != nil {
			log.Fatalf("%s✗ %v%s", colorRed, err, colorReset)
		}
		save(gear)
		out.priority(gear.Priority())
	case "bis":
		if err := runBis(gear, args[1:]); err != nil {
			log.Fatalf("%s✗ %v%s", colorRed, err, colorReset)
		}
		save(gear)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func save(gear *tracker.Tracker) {
	if err := gear.Save(); err != nil {
		log.Fatalf("%s✗ Failed to save: %v%s", colorRed, err, colorReset)
	}
	fmt.Printf("%s✓ Saved%s\n", colorGreen, colorReset)
}

// runSet applies "set" flags to a slot. Only flags present on the command
// line change the record.
func runSet(gear *tracker.Tracker, args []string) error {
	fs := flag.NewFlagSet("set", flag.ContinueOnError)
	slotName := fs.String("slot", "", "Slot to edit")
	tierName := fs.String("tier", "", "New tier")
	bis := fs.Bool("bis", false, "Item is best in slot")
	enchant := fs.Bool("enchant", false, "Item is enchanted")
	exclude := fs.Bool("exclude", false, "Leave the slot out of the priority list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	update, err := buildUpdate(fs, *tierName, *bis, *enchant, *exclude)
	if err != nil {
		return err
	}
	slot, err := models.ParseSlot(*slotName)
	if err != nil {
		return err
	}
	_, err = gear.UpdateRecord(slot, update)
	return err
}

func buildUpdate(fs *flag.FlagSet, tierName string, bis, enchant, exclude bool) (models.SlotRecordUpdate, error) {
	var update models.SlotRecordUpdate
	var err error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "tier":
			tier, perr := models.ParseTier(tierName)
			if perr != nil {
				err = perr
				return
			}
			update.Tier = &tier
		case "bis":
			update.BIS = &bis
		case "enchant":
			update.Enchant = &enchant
		case "exclude":
			update.Exclude = &exclude
		}
	})
	return update, err
}

// runBis edits the BIS entry of a slot, keeping fields not given
func runBis(gear *tracker.Tracker, args []string) error {
	fs := flag.NewFlagSet("bis", flag.ContinueOnError)
	slotName := fs.String("slot", "", "Slot to edit")
	item := fs.String("item", "", "Best-in-slot item")
	source := fs.String("source", "", "Where the item drops")
	enchant := fs.String("enchant", "", "Enchant to apply")
	if err := fs.Parse(args); err != nil {
		return err
	}

	slot, err := models.ParseSlot(*slotName)
	if err != nil {
		return err
	}

	entry, _ := gear.Bis().Lookup(slot)
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "item":
			entry.Item = *item
		case "source":
			entry.Source = *source
		case "enchant":
			entry.Enchant = *enchant
		}
	})
	return gear.SetBisEntry(slot, entry)
}
