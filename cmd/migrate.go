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
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eslsoft/wordcard/internal/entity"
)

const migrateInputKey = "review.migrate.input"

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Import a legacy JSON backup into the database",
	Long: `Reads the pre-database JSON word file and upserts every entry by
term. Missing scheduling fields get defaults and malformed dates are recovered
so a partially corrupt backup still imports.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		inputPath := viper.GetString(migrateInputKey)
		if inputPath == "" {
			return fmt.Errorf("specify the backup file with --input or use - for stdin")
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		reader, closers, err := openInput(inputPath, cmd.InOrStdin())
		if err != nil {
			return err
		}
		defer func() {
			if cerr := closeAll(closers); cerr != nil && err == nil {
				err = cerr
			}
		}()

		var backup entity.LegacyBackup
		if err := json.NewDecoder(reader).Decode(&backup); err != nil {
			return fmt.Errorf("parse backup: %w", err)
		}

		migrated, err := app.migrate.Migrate(cmd.Context(), &backup)
		if err != nil {
			return fmt.Errorf("migrate backup: %w", err)
		}
		cmd.Printf("migration complete: %d words\n", migrated)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().StringP("input", "i", "", "legacy JSON backup path, - for stdin")

	bindFlagToViper(migrateInputKey, migrateCmd.Flags().Lookup("input"))
}
