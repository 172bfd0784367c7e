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
	"time"

	"github.com/spf13/cobra"

	"github.com/eslsoft/wordcard/internal/entity"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List words in the library",
	RunE: func(cmd *cobra.Command, args []string) error {
		dueOnly, _ := cmd.Flags().GetBool("due")
		newOnly, _ := cmd.Flags().GetBool("new")

		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		var (
			ctx   = cmd.Context()
			words []*entity.Word
		)
		switch {
		case dueOnly:
			words, err = app.words.DueWords(ctx)
		case newOnly:
			words, err = app.words.NewWords(ctx)
		default:
			words, err = app.words.List(ctx)
		}
		if err != nil {
			return err
		}

		if len(words) == 0 {
			cmd.Println("no words")
			return nil
		}
		for _, word := range words {
			cmd.Printf("%-20s %s%s\n", word.Term, word.Definition, wordMarker(word))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().Bool("due", false, "only words due for review")
	listCmd.Flags().Bool("new", false, "only words never reviewed")
}

func wordMarker(word *entity.Word) string {
	switch {
	case word.Mastered:
		return "  [mastered]"
	case isDue(word):
		return "  [due]"
	default:
		return ""
	}
}

func isDue(word *entity.Word) bool {
	if word.NextReview == nil {
		return true
	}
	return !word.NextReview.After(time.Now())
}
