package main

import (
	"github.com/spf13/cobra"
)

func mediaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "media <guid>",
		Short: "Show a title and the servers it is available on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			ctx, cancel := withTimeout(cmd.Context(), app.timeout)
			defer cancel()

			result, err := app.service.Details(ctx, args[0])
			if err != nil {
				return err
			}
			return app.printer.Print(result)
		},
	}
}

func seasonsCommand() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "seasons <show-id>",
		Short: "List the seasons of a show on one server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			ctx, cancel := withTimeout(cmd.Context(), app.timeout)
			defer cancel()

			result, err := app.service.Seasons(ctx, server, args[0])
			if err != nil {
				return err
			}
			return app.printer.Print(result)
		},
	}

	cmd.Flags().StringVarP(&server, "server", "s", "", "server id, name or alias")
	return cmd
}

func episodesCommand() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "episodes <season-id>",
		Short: "List the episodes of a season with versions and subtitles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			ctx, cancel := withTimeout(cmd.Context(), app.timeout)
			defer cancel()

			result, err := app.service.Episodes(ctx, server, args[0])
			if err != nil {
				return err
			}
			return app.printer.Print(result)
		},
	}

	cmd.Flags().StringVarP(&server, "server", "s", "", "server id, name or alias")
	return cmd
}
