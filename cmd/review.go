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
	"bufio"
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eslsoft/wordcard/internal/entity"
	"github.com/eslsoft/wordcard/internal/usecase"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Run an interactive flashcard session",
	Long: `Walks through the word list one card at a time. Commands:

  <enter>       reveal the meaning
  f, forgot     rate the card as forgotten and advance
  m, mastered   rate the card as recalled and advance
  n             next card
  p             previous card
  d             delete the current card
  q             quit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		return runReviewLoop(cmd, app.session)
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func runReviewLoop(cmd *cobra.Command, session usecase.SessionUsecase) error {
	ctx := cmd.Context()
	scanner := bufio.NewScanner(cmd.InOrStdin())

	if err := showCard(ctx, cmd, session); err != nil {
		return err
	}
	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		input := strings.ToLower(strings.TrimSpace(scanner.Text()))

		switch input {
		case "":
			word, err := session.Current(ctx)
			if err != nil {
				return err
			}
			if word == nil {
				cmd.Println("the library is empty, add some words first")
				continue
			}
			cmd.Printf("  %s\n", word.Definition)
		case "f", "forgot", "m", "mastered":
			rating, ok := entity.ParseRating(input)
			if !ok {
				cmd.Printf("unknown rating %q\n", input)
				continue
			}
			if err := rateAndAdvance(ctx, cmd, session, rating); err != nil {
				return err
			}
		case "n", "next":
			if err := session.Next(ctx); err != nil {
				return err
			}
			if err := showCard(ctx, cmd, session); err != nil {
				return err
			}
		case "p", "prev":
			if err := session.Prev(ctx); err != nil {
				return err
			}
			if err := showCard(ctx, cmd, session); err != nil {
				return err
			}
		case "d", "delete":
			if err := session.DeleteCurrent(ctx); err != nil {
				return err
			}
			cmd.Println("deleted")
			if err := showCard(ctx, cmd, session); err != nil {
				return err
			}
		case "q", "quit", "exit":
			return nil
		default:
			cmd.Printf("unknown command %q\n", input)
		}
	}
}

func rateAndAdvance(ctx context.Context, cmd *cobra.Command, session usecase.SessionUsecase, rating entity.Rating) error {
	updated, err := session.Rate(ctx, rating)
	if errors.Is(err, entity.ErrNoCurrentWord) {
		cmd.Println("nothing to rate, the library is empty")
		return nil
	}
	if err != nil {
		return err
	}

	if updated.Mastered {
		cmd.Printf("  %q mastered, next review in %d days\n", updated.Term, updated.IntervalDays)
	} else {
		cmd.Printf("  next review of %q in %d days\n", updated.Term, updated.IntervalDays)
	}
	if err := session.Next(ctx); err != nil {
		return err
	}
	return showCard(ctx, cmd, session)
}

func showCard(ctx context.Context, cmd *cobra.Command, session usecase.SessionUsecase) error {
	word, err := session.Current(ctx)
	if err != nil {
		return err
	}
	if word == nil {
		cmd.Println("the library is empty, add some words first")
		return nil
	}
	words, err := session.Words(ctx)
	if err != nil {
		return err
	}
	position := 0
	for i, w := range words {
		if w.ID == word.ID {
			position = i + 1
			break
		}
	}
	cmd.Printf("[%d/%d] %s\n", position, len(words), word.Term)
	return nil
}
