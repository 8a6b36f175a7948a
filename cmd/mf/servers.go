package main

import (
	"github.com/spf13/cobra"
)

func serversCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "servers",
		Short: "List federated servers and their status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			ctx, cancel := withTimeout(cmd.Context(), app.timeout)
			defer cancel()

			result, err := app.service.Servers(ctx)
			if err != nil {
				return err
			}
			return app.printer.Print(result)
		},
	}
}

func libsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "libs [server]",
		Short: "List the libraries of a server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			ctx, cancel := withTimeout(cmd.Context(), app.timeout)
			defer cancel()

			selector := ""
			if len(args) == 1 {
				selector = args[0]
			}
			result, err := app.service.Libraries(ctx, selector)
			if err != nil {
				return err
			}
			return app.printer.Print(result)
		},
	}
}
