package app

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/StoreAdmin/StoreAdmin/internal/auth/publicendpoint"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(publicEndpointsCmd)
}

var publicEndpointsCmd = &cobra.Command{
	Use:   "public-endpoints",
	Short: "List the routes reachable without authentication",
	RunE: func(cmd *cobra.Command, _ []string) error {
		registry := publicendpoint.New()
		if err := publicendpoint.RegisterDefaults(registry); err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0) //nolint:mnd
		_, _ = fmt.Fprintln(w, "METHOD\tPATTERN\tDESCRIPTION")

		for _, d := range registry.List() {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", d.Method, d.Pattern, d.Description)
		}

		return w.Flush()
	},
}
