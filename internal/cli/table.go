package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/timon-db/timon/internal/schema"
	"github.com/timon-db/timon/internal/timon"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Manage tables",
}

var tableSchemaPath string

var tableCreateCmd = &cobra.Command{
	Use:   "create [db] [table]",
	Short: "Create a table from a schema document (--schema path.json)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := ensureCatalog(); err != nil {
			return err
		}
		if tableSchemaPath == "" {
			return fmt.Errorf("--schema is required")
		}
		raw, err := os.ReadFile(tableSchemaPath)
		if err != nil {
			return fmt.Errorf("read schema file: %w", err)
		}
		var doc schema.Doc
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("parse schema file: %w", err)
		}
		return printEnvelope(timon.CreateTable(args[0], args[1], doc))
	},
}

var tableDeleteCmd = &cobra.Command{
	Use:   "delete [db] [table]",
	Short: "Delete a table and its partition files",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := ensureCatalog(); err != nil {
			return err
		}
		return printEnvelope(timon.DeleteTable(args[0], args[1]))
	},
}

var tableListCmd = &cobra.Command{
	Use:   "list [db]",
	Short: "List tables in a database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := ensureCatalog(); err != nil {
			return err
		}
		return printEnvelope(timon.ListTables(args[0]))
	},
}

func init() {
	tableCreateCmd.Flags().StringVar(&tableSchemaPath, "schema", "", "path to a JSON schema document")
	tableCmd.AddCommand(tableCreateCmd, tableDeleteCmd, tableListCmd)
	rootCmd.AddCommand(tableCmd)
}
