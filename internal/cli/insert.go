package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/timon-db/timon/internal/timon"
)

var insertFilePath string

var insertCmd = &cobra.Command{
	Use:   "insert [db] [table]",
	Short: "Insert JSON records from a file (--file path.json) or stdin",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := ensureCatalog(); err != nil {
			return err
		}

		var raw []byte
		var err error
		if insertFilePath != "" {
			raw, err = os.ReadFile(insertFilePath)
		} else {
			raw, err = readAllStdin()
		}
		if err != nil {
			return fmt.Errorf("read records: %w", err)
		}

		records, err := decodeRecords(raw)
		if err != nil {
			return err
		}

		return printEnvelope(timon.Insert(args[0], args[1], records))
	},
}

func decodeRecords(raw []byte) ([]map[string]any, error) {
	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err == nil {
		return records, nil
	}
	var single map[string]any
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("records must be a JSON object or array of objects: %w", err)
	}
	return []map[string]any{single}, nil
}

func readAllStdin() ([]byte, error) {
	return io.ReadAll(os.Stdin)
}

func init() {
	insertCmd.Flags().StringVar(&insertFilePath, "file", "", "path to a JSON file (object or array of objects)")
	rootCmd.AddCommand(insertCmd)
}
