package main

import (
	"github.com/spf13/cobra"
)

func browseCommand() *cobra.Command {
	var server string
	var filter string
	var order string
	var versions bool

	cmd := &cobra.Command{
		Use:   "browse <library-key>",
		Short: "List the items of one library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			view, err := parseView(filter, order, versions)
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd.Context(), app.timeout)
			defer cancel()

			result, err := app.service.Browse(ctx, server, args[0], view)
			if err != nil {
				return err
			}
			return app.printer.Print(result)
		},
	}

	cmd.Flags().StringVarP(&server, "server", "s", "", "server id, name or alias")
	cmd.Flags().StringVar(&filter, "type", "", "all|movie|show")
	cmd.Flags().StringVar(&order, "sort", "", "default|title-asc|title-desc|year-desc|year-asc")
	cmd.Flags().BoolVar(&versions, "versions", false, "show resolution badges")

	return cmd
}
