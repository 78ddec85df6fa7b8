package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nairobi-skylines/citysim/internal/engine"
	"github.com/nairobi-skylines/citysim/internal/persistence"
)

var tenderCmd = &cobra.Command{
	Use:   "tender <standard|bribe|reject>",
	Short: "Answer the pending expressway tender in a save slot",
	Long: `Tender resolves the expressway tender that holds a saved city and writes
the slot back. A run holding on that slot picks the answer up on its next
tick; otherwise the next run starts from it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		choice, err := engine.ParseTenderChoice(args[0])
		if err != nil {
			return err
		}
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

		res, err := resolveSavedTender(ctx, store, slot, choice)
		if err != nil {
			return err
		}
		if err := db.SaveEvents([]engine.Event{res.Event}); err != nil {
			slog.Error("failed to persist events", "error", err)
		}
		fmt.Printf("Tender answered with %s: cost KES %s, %d expressway pillars.\n",
			res.Choice, humanize.Commaf(res.Cost), len(res.Pillars))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tenderCmd)
}

// resolveSavedTender loads a slot, answers its pending tender and saves it
// back. The slot is left untouched when the answer is refused.
func resolveSavedTender(ctx context.Context, store persistence.Store, slot string, choice engine.TenderChoice) (*engine.TenderResult, error) {
	out, err := store.Load(ctx, persistence.LoadInput{Slot: slot})
	if err != nil {
		return nil, fmt.Errorf("load slot %s: %w", slot, err)
	}
	res, err := engine.ResolveTender(out.State, choice)
	if err != nil {
		return nil, err
	}
	if _, err := store.Save(ctx, persistence.SaveInput{Slot: slot, State: out.State}); err != nil {
		return nil, fmt.Errorf("save slot %s: %w", slot, err)
	}
	slog.Info("tender answered", "slot", slot, "choice", res.Choice, "tick", out.State.Stats.TickCount)
	return res, nil
}
