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
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eslsoft/wordcard/internal/entity"
)

const (
	importInputKey = "review.import.input"
	importBatchKey = "review.import.batch_size"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import word pairs from a CSV or TSV file",
	Long: `Reads word/meaning pairs from a delimited file and adds them to the
library. The delimiter is sniffed from the first line (comma, semicolon or
tab), a header row is skipped and duplicates are ignored case-insensitively.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		inputPath := viper.GetString(importInputKey)
		batchSize := viper.GetInt(importBatchKey)
		if inputPath == "" {
			return fmt.Errorf("specify the input file with --input or use - for stdin")
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		if batchSize <= 0 {
			batchSize = app.cfg.Review.ImportBatchSize
		}

		reader, closers, err := openInput(inputPath, cmd.InOrStdin())
		if err != nil {
			return err
		}
		defer func() {
			if cerr := closeAll(closers); cerr != nil && err == nil {
				err = cerr
			}
		}()

		pairs, err := readPairs(reader)
		if err != nil {
			return err
		}

		added, skipped, err := app.words.Import(cmd.Context(), pairs, batchSize)
		if err != nil {
			return fmt.Errorf("import words: %w", err)
		}
		cmd.Printf("import complete: %d added, %d skipped\n", added, skipped)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringP("input", "i", "", "CSV/TSV file path, - for stdin")
	importCmd.Flags().Int("batch-size", 0, "insert batch size (default from config)")

	bindFlagToViper(importInputKey, importCmd.Flags().Lookup("input"))
	bindFlagToViper(importBatchKey, importCmd.Flags().Lookup("batch-size"))
}

// readPairs parses delimited word/meaning rows. The first two columns are
// used, rows with fewer than two non-blank columns are skipped.
func readPairs(r io.Reader) ([]entity.WordPair, error) {
	buffered := bufio.NewReader(r)
	delimiter, err := sniffDelimiter(buffered)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(buffered)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var pairs []entity.WordPair
	first := true
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse input: %w", err)
		}
		if first {
			first = false
			if isHeaderRow(record) {
				continue
			}
		}
		if len(record) < 2 {
			continue
		}
		term := strings.TrimSpace(record[0])
		definition := strings.TrimSpace(record[1])
		if term == "" || definition == "" {
			continue
		}
		pairs = append(pairs, entity.WordPair{Term: term, Definition: definition})
	}
	return pairs, nil
}

// sniffDelimiter peeks at the first line and picks the candidate that splits
// it into the most columns. Comma wins ties.
func sniffDelimiter(r *bufio.Reader) (rune, error) {
	peeked, err := r.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return 0, fmt.Errorf("read input: %w", err)
	}
	line := string(peeked)
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}

	best := ','
	bestCount := strings.Count(line, ",")
	for _, candidate := range []rune{';', '\t'} {
		if count := strings.Count(line, string(candidate)); count > bestCount {
			best = candidate
			bestCount = count
		}
	}
	return best, nil
}

func isHeaderRow(record []string) bool {
	if len(record) == 0 {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(record[0])) {
	case "word", "term":
		return true
	}
	return false
}
