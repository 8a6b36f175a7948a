package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/mikey-austin/media_federation/internal/adapters/output"
	"github.com/mikey-austin/media_federation/internal/assets"
	"github.com/mikey-austin/media_federation/internal/core"
	"github.com/mikey-austin/media_federation/pkg/mf"
)

const posterRowPx = 300

func postersCommand() *cobra.Command {
	var dir string
	var window int
	var pages int
	var filter string
	var order string

	cmd := &cobra.Command{
		Use:   "posters [query...]",
		Short: "Download result thumbnails the way a scrolling grid would load them",
		Long: "Lays the results out as one poster per row and scrolls a window of --window px\n" +
			"through --pages screens. Only posters that come within the configured margin of\n" +
			"the window are fetched. Without a query the session's last search is used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			if window <= 0 || pages <= 0 {
				return &core.CLIError{Code: core.ExitUsage, Msg: "--window and --pages must be positive"}
			}
			view, err := parseView(filter, order, false)
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd.Context(), app.timeout)
			defer cancel()

			var result core.GroupedResults
			if len(args) == 0 {
				result, err = app.service.LastSearch(ctx, view)
			} else {
				result, err = app.service.Search(ctx, strings.Join(args, " "), view)
			}
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return core.WrapError(core.ExitRuntime, "create output dir", err)
			}

			written, err := loadPosters(ctx, app, result.Results, dir, window, pages)
			if err != nil {
				return err
			}
			for _, w := range written {
				if err := app.printer.Print(w); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "output directory")
	cmd.Flags().IntVar(&window, "window", 900, "viewport height in px")
	cmd.Flags().IntVar(&pages, "pages", 1, "number of screens to scroll through")
	cmd.Flags().StringVar(&filter, "type", "", "all|movie|show")
	cmd.Flags().StringVar(&order, "sort", "", "default|title-asc|title-desc|year-desc|year-asc")

	return cmd
}

func loadPosters(ctx context.Context, app *app, results []mf.GroupedResult, dir string, window int, pages int) ([]output.AssetOutput, error) {
	store, err := newAssetStore(app)
	if err != nil {
		return nil, core.WrapError(core.ExitRuntime, "asset store", err)
	}
	defer store.Close()

	viewport := assets.NewViewport(window)
	loader, err := newLoader(app, store, viewport.Observer)
	if err != nil {
		return nil, core.WrapError(core.ExitRuntime, "asset loader", err)
	}
	defer loader.Close()

	slots := make([]*assets.Slot, len(results))
	streams := make([]<-chan assets.State, len(results))
	for i, r := range results {
		serverID := ""
		if len(r.Servers) > 0 {
			serverID = r.Servers[0].ID
		}
		slots[i] = loader.NewSlot(assets.Target{Top: i * posterRowPx, Height: posterRowPx})
		streams[i] = slots[i].Attach(serverID, r.ThumbPath)
	}
	for page := 1; page < pages; page++ {
		viewport.Scroll(page * window)
	}

	// Posters never scrolled near the window stay pending; drop them.
	for _, slot := range slots {
		if !slot.Started() {
			slot.Detach()
		}
	}

	written := make([]output.AssetOutput, 0)
	for i, stream := range streams {
		state, err := assets.Await(ctx, stream)
		if err != nil {
			return written, core.WrapError(core.ExitRuntime, "fetch posters", err)
		}
		if state.Kind != assets.Ready {
			continue
		}
		r := results[i]
		dest := filepath.Join(dir, fmt.Sprintf("%03d-%s%s", i+1, unsafeName.Replace(r.Title), filepath.Ext(state.Handle.Name)))
		if err := copyHandle(store, state.Handle, dest); err != nil {
			pterm.Warning.WithWriter(os.Stderr).Printfln("skipping %s: %v", r.Title, err)
			continue
		}
		written = append(written, output.AssetOutput{
			GUID:     r.GUID,
			ServerID: r.Servers[0].ID,
			Kind:     "thumb",
			Path:     dest,
			MIME:     state.Handle.MIME,
			Size:     state.Handle.Size,
		})
	}
	for _, slot := range slots {
		slot.Detach()
	}
	return written, nil
}
