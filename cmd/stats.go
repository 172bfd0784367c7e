/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show library statistics and recent review history",
	RunE: func(cmd *cobra.Command, args []string) error {
		historyLimit, _ := cmd.Flags().GetInt("history")

		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		stats, err := app.words.Statistics(cmd.Context())
		if err != nil {
			return err
		}
		cmd.Printf("total words:     %d\n", stats.Total)
		cmd.Printf("new words:       %d\n", stats.NewCount)
		cmd.Printf("due for review:  %d\n", stats.DueCount)
		cmd.Printf("mastered:        %d\n", stats.MasteredCount)
		cmd.Printf("not due today:   %d\n", stats.TotalMastered)

		if historyLimit <= 0 {
			return nil
		}
		entries, err := app.words.History(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		cmd.Println("\nrecent reviews:")
		for _, entry := range entries {
			cmd.Printf("  %s  %-10s %s\n",
				entry.ReviewTime.Local().Format("2006-01-02 15:04"),
				entry.Rating.String(),
				entry.Term)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().Int("history", 0, "also print the N most recent reviews")
}
