package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize (or reopen) the catalog at the configured storage path",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := ensureCatalog()
		if err != nil {
			return err
		}
		fmt.Printf("catalog ready at %s\n", cfg.Storage.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
