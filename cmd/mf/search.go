package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mikey-austin/media_federation/internal/core"
)

func searchCommand() *cobra.Command {
	var filter string
	var order string
	var versions bool
	var last bool

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search every server and group matching titles",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			view, err := parseView(filter, order, versions)
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd.Context(), app.timeout)
			defer cancel()

			var result core.GroupedResults
			if last {
				if len(args) > 0 {
					return &core.CLIError{Code: core.ExitUsage, Msg: "--last takes no query"}
				}
				result, err = app.service.LastSearch(ctx, view)
			} else {
				result, err = app.service.Search(ctx, strings.Join(args, " "), view)
			}
			if err != nil {
				return err
			}
			return app.printer.Print(result)
		},
	}

	cmd.Flags().StringVar(&filter, "type", "", "all|movie|show")
	cmd.Flags().StringVar(&order, "sort", "", "default|title-asc|title-desc|year-desc|year-asc")
	cmd.Flags().BoolVar(&versions, "versions", false, "show resolution badges for single-server movies")
	cmd.Flags().BoolVar(&last, "last", false, "show the previous search of this session")

	return cmd
}
