// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "store-admin",
	Short: "StoreAdmin is the access control and navigation backend of the store console",
	Long: `StoreAdmin serves the role based access control API of the store console:
roles, permissions, user role assignment, the navigation menu and its layouts.`,
	Args: cobra.OnlyValidArgs,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "Path to the configuration directory")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
