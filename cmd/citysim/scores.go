package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the high-score leaderboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		scores, err := db.TopScores(cmd.Context())
		if err != nil {
			return err
		}
		if len(scores) == 0 {
			fmt.Println("No high scores yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "RANK\tSCORE\tMONEY\tPOP\tHAPPY\tDAYS\tWON\tWHEN")
		for i, hs := range scores {
			won := ""
			if hs.Won {
				won = "yes"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
				i+1, humanize.Comma(hs.Score), humanize.Commaf(hs.Money),
				hs.Population, hs.Happiness, hs.Ticks, won, humanize.Time(hs.RecordedAt))
		}
		return w.Flush()
	},
}
