package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/rfcsite/internal/api"
	"github.com/dgallion1/rfcsite/internal/metrics"
	"github.com/dgallion1/rfcsite/internal/site"
	"github.com/dgallion1/rfcsite/internal/watch"
)

func newServeCommand(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site over HTTP, rebuilding on content changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), g)
		},
	}
	f := cmd.Flags()
	f.StringVar(&g.cfg.Port, "port", g.cfg.Port, "HTTP port")
	f.BoolVar(&g.cfg.Watch, "watch", g.cfg.Watch, "rebuild and live reload when content changes")
	f.DurationVar(&g.cfg.Debounce, "debounce", g.cfg.Debounce, "quiet period before a rebuild")
	return cmd
}

func runServe(ctx context.Context, g *globals) error {
	log, err := g.logger(os.Stdout)
	if err != nil {
		return err
	}
	if err := g.cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		return err
	}

	m := metrics.New(version)

	initial, err := g.buildSite(ctx, log, g.cfg.Watch)
	if err != nil {
		return err
	}

	var reload *api.LiveReload
	if g.cfg.Watch {
		reload = api.NewLiveReload(log, m)
		defer reload.Close()
	}
	rb := watch.NewRebuilder(initial, func(ctx context.Context) (*site.Site, error) {
		return g.buildSite(ctx, log, true)
	}, notifier(reload), m, log)
	rb.Start(ctx)
	defer rb.Stop()

	if g.cfg.Watch {
		w, err := watch.NewWatcher(g.cfg.ContentDir, g.cfg.Debounce, rb, log)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			w.Stop()
			return err
		}
		defer w.Stop()
	}

	srv := api.NewServer(rb, reload, m, log, g.cfg)

	httpServer := &http.Server{
		Addr:         ":" + g.cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		<-ctx.Done()
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting rfcsite", "port", g.cfg.Port, "content", g.cfg.ContentDir, "watch", g.cfg.Watch)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		return err
	}
	return nil
}

// notifier avoids handing a typed nil hub to the rebuilder.
func notifier(reload *api.LiveReload) watch.Notifier {
	if reload == nil {
		return nil
	}
	return reload
}
