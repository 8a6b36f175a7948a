package main

import (
	"context"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey-austin/media_federation/internal/adapters/api"
	"github.com/mikey-austin/media_federation/internal/adapters/clock"
	"github.com/mikey-austin/media_federation/internal/adapters/config"
	"github.com/mikey-austin/media_federation/internal/adapters/idgen"
	"github.com/mikey-austin/media_federation/internal/adapters/output"
	"github.com/mikey-austin/media_federation/internal/adapters/session"
	"github.com/mikey-austin/media_federation/internal/assets"
	"github.com/mikey-austin/media_federation/internal/core"
	"github.com/mikey-austin/media_federation/internal/enrich"
	"github.com/mikey-austin/media_federation/internal/logging"
	"github.com/mikey-austin/media_federation/pkg/mf"
)

type app struct {
	service core.Service
	client  *api.Client
	printer output.Printer
	log     *zap.Logger
	config  config.Config
	json    bool
	timeout time.Duration
}

func main() {
	root := &cobra.Command{
		Use:           "mf",
		Short:         "Media federation CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var (
		baseURL string
		token   string
		timeout time.Duration
		jsonOut bool
		noColor bool
		verbose bool
	)

	root.PersistentFlags().StringVar(&baseURL, "base-url", "", "federation backend URL")
	root.PersistentFlags().StringVar(&token, "token", "", "bearer token for /api requests")
	root.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 0, "request timeout (default 10s)")
	root.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output json")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable color")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return core.WrapError(core.ExitUsage, "load config", err)
		}
		if baseURL != "" {
			cfg.BaseURL = baseURL
		}
		if token != "" {
			cfg.Token = token
		}
		if timeout == 0 {
			timeout = cfg.Timeout()
		}
		if verbose {
			cfg.Log.Level = "debug"
		}
		if noColor {
			pterm.DisableColor()
		}

		logger := logging.New(logging.Config{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
			Output: cfg.Log.Output,
			File:   logging.FileConfig{Path: cfg.Log.File, MaxSizeMB: 10, MaxBackups: 3},
		})

		client, err := api.NewClient(logger.With(zap.String("component", "api")), api.Config{
			BaseURL:       cfg.BaseURL,
			Token:         cfg.Token,
			Timeout:       timeout,
			MaxAssetBytes: cfg.Assets.MaxBytes,
		})
		if err != nil {
			return core.WrapError(core.ExitUsage, "configure client (set --base-url, MF_BASE_URL or config)", err)
		}
		if timeout == 0 {
			timeout = 10 * time.Second
		}

		filter, err := mf.ParseFilter(cfg.Defaults.Filter)
		if err != nil {
			return core.WrapError(core.ExitUsage, "config defaults", err)
		}
		order, err := mf.ParseSort(cfg.Defaults.Sort)
		if err != nil {
			return core.WrapError(core.ExitUsage, "config defaults", err)
		}
		coreCfg := core.Config{
			Locale:  cfg.Locale,
			Aliases: cfg.Aliases,
			Defaults: core.Defaults{
				Server: cfg.Defaults.Server,
				Filter: filter,
				Sort:   order,
			},
		}

		searches, err := session.NewStore()
		if err != nil {
			return err
		}
		enricher, err := enrich.New(logger, client, enrich.Config{})
		if err != nil {
			return err
		}

		service := core.Service{
			Backend:  client,
			Resolver: core.Resolver{Servers: client, Config: coreCfg},
			Pipeline: core.NewPipeline(cfg.Locale),
			Versions: enricher,
			Searches: searches,
			Clock:    clock.Clock{},
			Config:   coreCfg,
			Log:      logger.With(zap.String("component", "service")),
		}

		var printer output.Printer
		if jsonOut {
			printer = output.JSONPrinter{}
		} else {
			printer = output.HumanPrinter{Color: !noColor}
		}

		cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, &app{
			service: service,
			client:  client,
			printer: printer,
			log:     logger,
			config:  cfg,
			json:    jsonOut,
			timeout: timeout,
		}))
		return nil
	}
	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if app := fromContext(cmd); app != nil {
			_ = app.log.Sync()
		}
	}

	root.AddCommand(serversCommand())
	root.AddCommand(libsCommand())
	root.AddCommand(browseCommand())
	root.AddCommand(searchCommand())
	root.AddCommand(mediaCommand())
	root.AddCommand(seasonsCommand())
	root.AddCommand(episodesCommand())
	root.AddCommand(artCommand())
	root.AddCommand(postersCommand())

	if err := root.ExecuteContext(context.Background()); err != nil {
		pterm.Error.WithWriter(os.Stderr).Println(err.Error())
		os.Exit(core.ExitCode(err))
	}
}

type appKey struct{}

func fromContext(cmd *cobra.Command) *app {
	val := cmd.Context().Value(appKey{})
	if val == nil {
		return nil
	}
	return val.(*app)
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

// newAssetStore returns a disk store under the configured dir, or a memory store.
func newAssetStore(app *app) (*assets.FileStore, error) {
	if app.config.Assets.Dir == "" {
		return assets.NewMemStore(idgen.Generator{}), nil
	}
	return assets.NewFileStore(afero.NewOsFs(), app.config.Assets.Dir, idgen.Generator{})
}

func newLoader(app *app, store assets.Store, observers assets.ObserverFactory) (*assets.Loader, error) {
	return assets.NewLoader(app.log.With(zap.String("component", "assets")), app.client, store, idgen.Generator{}, assets.Config{
		MarginPx:    app.config.Assets.MarginPx,
		NewObserver: observers,
	})
}

func parseView(filter string, order string, versions bool) (core.View, error) {
	view := core.View{Versions: versions}
	if filter != "" {
		f, err := mf.ParseFilter(filter)
		if err != nil {
			return core.View{}, &core.CLIError{Code: core.ExitUsage, Msg: err.Error()}
		}
		view.Filter = f
	}
	if order != "" {
		o, err := mf.ParseSort(order)
		if err != nil {
			return core.View{}, &core.CLIError{Code: core.ExitUsage, Msg: err.Error()}
		}
		view.Sort = o
	}
	return view, nil
}
