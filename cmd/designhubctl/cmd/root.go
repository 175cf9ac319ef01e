package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "designhubctl",
	Short:        "DesignHub admin tool",
	Long:         `designhubctl runs maintenance tasks against a DesignHub deployment: hashing admin passwords, applying migrations, syncing and exporting orders.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(syncCmd())
	rootCmd.AddCommand(exportCmd())
}

func Execute() error {
	return rootCmd.Execute()
}
