package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/meur/bistracker/internal/models"
	"github.com/meur/bistracker/internal/priority"
)

var tierColors = map[models.Tier]string{
	models.TierNaked:      "\033[90m",
	models.TierExplorer:   "\033[37m",
	models.TierAdventurer: colorGreen,
	models.TierVeteran:    "\033[34m",
	models.TierChampion:   "\033[35m",
	models.TierHero:       colorYellow,
	models.TierMythic:     colorCyan,
}

type printer struct {
	w     io.Writer
	color bool
}

func newPrinter(w io.Writer, color bool) *printer {
	return &printer{w: w, color: color}
}

func (p *printer) tier(t models.Tier) string {
	if !p.color {
		return t.String()
	}
	return tierColors[t] + t.String() + colorReset
}

func (p *printer) records(records []models.SlotRecord) {
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Slot\tTier\tBIS\tEnchanted\tExcluded")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Slot, p.tier(r.Tier), mark(r.BIS), mark(r.Enchant), mark(r.Exclude))
	}
	tw.Flush()
}

func (p *printer) priority(entries []models.PriorityEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(p.w, "Nothing left to upgrade.")
		return
	}
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSlot\tTier\tItem\tSource\tM+")
	for _, e := range entries {
		switch e.Kind {
		case models.PriorityEnchant:
			fmt.Fprintf(tw, "%d\t%s\t%s\tEnchant: %s\t%s\t%s\n",
				e.Rank, e.Slot, priority.Placeholder, e.Enchant, priority.Placeholder, priority.Placeholder)
		default:
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t+%d\n",
				e.Rank, e.Slot, p.tier(e.Tier), e.Item, e.Source, e.MinKeystone)
		}
	}
	tw.Flush()
}

func mark(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}
