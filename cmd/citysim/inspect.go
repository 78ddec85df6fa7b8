package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nairobi-skylines/citysim/internal/catalog"
	"github.com/nairobi-skylines/citysim/internal/persistence"
)

var (
	showMap    bool
	listEvents int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print a saved city",
	Args:  cobra.NoArgs,
	RunE:  inspectCity,
}

func init() {
	inspectCmd.Flags().BoolVar(&showMap, "map", false, "draw the tile map")
	inspectCmd.Flags().IntVar(&listEvents, "events", 10, "recent events to list")
}

func inspectCity(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	store, closeStore, err := openStore(ctx, db)
	if err != nil {
		return err
	}
	defer closeStore()

	slots, err := store.Slots(ctx)
	if err != nil {
		return err
	}
	out, err := store.Load(ctx, persistence.LoadInput{Slot: slot})
	if err != nil {
		return fmt.Errorf("slot %q (have %v): %w", slot, slots, err)
	}

	st := out.State.Stats
	fmt.Printf("Slot %s, saved %s (day %d)\n", out.Info.Slot, humanize.Time(out.Info.SavedAt), st.TickCount)
	fmt.Printf("  Money       KES %s\n", humanize.Commaf(st.Money))
	fmt.Printf("  Population  %s\n", humanize.Comma(int64(st.Population)))
	fmt.Printf("  Happiness   %d\n", st.Happiness)
	fmt.Printf("  Insecurity  %d\n", st.Insecurity)
	fmt.Printf("  Corruption  %d\n", st.Corruption)
	fmt.Printf("  Pollution   %.1f\n", st.Pollution)
	fmt.Printf("  Power       %d / %d\n", st.PowerDemand, st.PowerCapacity)
	fmt.Printf("  Traffic     %.1f\n", st.TrafficDensity)
	fmt.Printf("  Tax rate    %.2f\n", st.TaxRate)
	fmt.Printf("  Score       %s\n", humanize.Comma(persistence.Score(st)))
	if out.State.EventPending() {
		fmt.Printf("  Pending     %s\n", st.ActiveEvent)
	}
	if st.GameWon {
		fmt.Println("  NBK Tower built. City won.")
	}
	fmt.Println()
	fmt.Println(out.State.Report.String())

	fmt.Println("Buildings:")
	for _, k := range catalog.Kinds() {
		if k == catalog.Reserved {
			continue
		}
		if n := out.State.Grid.Count(k); n > 0 {
			fmt.Printf("  %-22s %d\n", catalog.MustLookup(k).Label, n)
		}
	}
	if fires := out.State.Fires.Coords(); len(fires) > 0 {
		fmt.Printf("Burning: %v\n", fires)
	}

	if showMap {
		fmt.Println()
		fmt.Print(out.State.Grid.String())
	}

	if listEvents > 0 {
		events, err := db.RecentEvents(listEvents)
		if err != nil {
			return err
		}
		if len(events) > 0 {
			fmt.Println()
			fmt.Println("Recent events:")
			for _, ev := range events {
				fmt.Printf("  [%d] %-10s %s\n", ev.Tick, ev.Category, ev.Description)
			}
		}
	}
	return nil
}
