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
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const exportOutputKey = "review.export.output"

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the library as a JSON backup",
	Long: `Writes every word with its full scheduling state plus the current
card position in the legacy JSON backup layout. The file round-trips through
the migrate command.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		outputPath := viper.GetString(exportOutputKey)
		if outputPath == "" {
			outputPath = defaultExportFilename()
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		backup, err := app.migrate.Export(cmd.Context())
		if err != nil {
			return fmt.Errorf("export library: %w", err)
		}

		writer, closers, err := openOutput(outputPath, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer func() {
			if cerr := closeAll(closers); cerr != nil && err == nil {
				err = cerr
			}
		}()

		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(backup); err != nil {
			return fmt.Errorf("write backup: %w", err)
		}

		if outputPath == "-" {
			return nil
		}
		cmd.Printf("export complete: %d words -> %s\n", len(backup.Words), outputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("output", "o", "", "backup file path, - for stdout")

	bindFlagToViper(exportOutputKey, exportCmd.Flags().Lookup("output"))
}

func defaultExportFilename() string {
	ts := time.Now().UTC().Format("20060102-150405")
	return fmt.Sprintf("wordcard-backup-%s.json", ts)
}
