package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mikey-austin/media_federation/internal/adapters/output"
	"github.com/mikey-austin/media_federation/internal/assets"
	"github.com/mikey-austin/media_federation/internal/core"
	"github.com/mikey-austin/media_federation/pkg/mf"
)

func artCommand() *cobra.Command {
	var server string
	var kind string
	var out string

	cmd := &cobra.Command{
		Use:   "art <guid>",
		Short: "Download a title's poster or background art",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fromContext(cmd)
			ctx, cancel := withTimeout(cmd.Context(), app.timeout)
			defer cancel()

			details, err := app.service.Details(ctx, args[0])
			if err != nil {
				return err
			}
			serverID, err := artServer(cmd, app, details.Details, server)
			if err != nil {
				return err
			}
			assetPath, err := artPath(details.Details, kind)
			if err != nil {
				return err
			}

			store, err := newAssetStore(app)
			if err != nil {
				return core.WrapError(core.ExitRuntime, "asset store", err)
			}
			defer store.Close()
			loader, err := newLoader(app, store, assets.AlwaysVisible)
			if err != nil {
				return core.WrapError(core.ExitRuntime, "asset loader", err)
			}
			defer loader.Close()

			slot := loader.NewSlot(assets.Target{})
			defer slot.Detach()
			state, err := assets.Await(ctx, slot.Attach(serverID, assetPath))
			if err != nil {
				return core.WrapError(core.ExitRuntime, "fetch artwork", err)
			}
			if state.Kind != assets.Ready {
				return &core.CLIError{Code: core.ExitHTTP, Msg: fmt.Sprintf("artwork unavailable on server %s", serverID)}
			}

			if out == "" {
				out = defaultArtName(details.Details.GUID, kind, state.Handle)
			}
			if err := copyHandle(store, state.Handle, out); err != nil {
				return core.WrapError(core.ExitRuntime, "write artwork", err)
			}
			if out == "-" {
				return nil
			}
			return app.printer.Print(output.AssetOutput{
				GUID:     details.Details.GUID,
				ServerID: serverID,
				Kind:     kind,
				Path:     out,
				MIME:     state.Handle.MIME,
				Size:     state.Handle.Size,
			})
		},
	}

	cmd.Flags().StringVarP(&server, "server", "s", "", "server to fetch from (default: first available)")
	cmd.Flags().StringVar(&kind, "kind", "thumb", "thumb|art")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file, - for stdout")

	return cmd
}

func artServer(cmd *cobra.Command, app *app, details mf.MediaDetails, selector string) (string, error) {
	if selector == "" {
		if len(details.AvailableOn) == 0 {
			return "", &core.CLIError{Code: core.ExitNotFound, Msg: "title is not available on any server"}
		}
		return details.AvailableOn[0].ServerID, nil
	}
	ctx, cancel := withTimeout(cmd.Context(), app.timeout)
	defer cancel()
	server, err := app.service.Resolver.ResolveServer(ctx, selector)
	if err != nil {
		return "", err
	}
	if _, ok := details.Availability(server.ID); !ok {
		return "", &core.CLIError{Code: core.ExitNotFound, Msg: fmt.Sprintf("title is not available on %s", server.Name)}
	}
	return server.ID, nil
}

func artPath(details mf.MediaDetails, kind string) (string, error) {
	switch strings.ToLower(kind) {
	case "", "thumb":
		return details.ThumbPath, nil
	case "art":
		return details.ArtPath, nil
	default:
		return "", &core.CLIError{Code: core.ExitUsage, Msg: "kind must be thumb|art"}
	}
}

var unsafeName = strings.NewReplacer("/", "_", ":", "_", "\\", "_", " ", "_")

func defaultArtName(guid string, kind string, h assets.Handle) string {
	return unsafeName.Replace(guid) + "." + kind + filepath.Ext(h.Name)
}

func copyHandle(store assets.Store, h assets.Handle, dest string) error {
	r, err := store.Open(h)
	if err != nil {
		return err
	}
	defer r.Close()

	if dest == "-" {
		_, err = io.Copy(os.Stdout, r)
		return err
	}
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
