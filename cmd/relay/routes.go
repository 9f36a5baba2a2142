package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/relay/core/config"
)

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the route table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var cfg cliConfig
			if err := config.Load(&cfg); err != nil {
				return err
			}

			app, err := build(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "METHOD\tPATTERN")
			for _, r := range app.Routes() {
				fmt.Fprintf(w, "%s\t%s\n", r.Method, r.Pattern)
			}
			return w.Flush()
		},
	}
}
