package cli

import (
	"github.com/spf13/cobra"

	"github.com/timon-db/timon/internal/timon"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage databases",
}

var dbCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := ensureCatalog(); err != nil {
			return err
		}
		return printEnvelope(timon.CreateDatabase(args[0]))
	},
}

var dbDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a database and its data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := ensureCatalog(); err != nil {
			return err
		}
		return printEnvelope(timon.DeleteDatabase(args[0]))
	},
}

var dbListCmd = &cobra.Command{
	Use:   "list",
	Short: "List databases",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := ensureCatalog(); err != nil {
			return err
		}
		return printEnvelope(timon.ListDatabases())
	},
}

func init() {
	dbCmd.AddCommand(dbCreateCmd, dbDeleteCmd, dbListCmd)
	rootCmd.AddCommand(dbCmd)
}
