// Command rfcsite serves and builds the RFC documentation site.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dgallion1/rfcsite/internal/config"
	"github.com/dgallion1/rfcsite/internal/pdfexport"
	"github.com/dgallion1/rfcsite/internal/site"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// globals are the flags shared by every subcommand. Their defaults come
// from the environment.
type globals struct {
	cfg      config.Config
	logLevel string
}

func newRootCommand() *cobra.Command {
	g := &globals{cfg: config.Load()}
	cmd := &cobra.Command{
		Use:           "rfcsite",
		Short:         "Serve and build the RFC documentation site",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	f := cmd.PersistentFlags()
	f.StringVar(&g.cfg.ContentDir, "content", g.cfg.ContentDir, "directory of RFC documents")
	f.StringVar(&g.cfg.SiteConfigPath, "site-config", g.cfg.SiteConfigPath, "site TOML file (defaults apply when missing)")
	f.StringVar(&g.cfg.StaticDir, "static", g.cfg.StaticDir, "directory of static files served from the site root")
	f.StringVar(&g.cfg.PDFPath, "pdf", g.cfg.PDFPath, "PDF export of the RFCs offered for download")
	f.StringVar(&g.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	cmd.AddCommand(
		newServeCommand(g),
		newBuildCommand(g),
		newTOCCommand(g),
		newShowCommand(g),
	)
	return cmd
}

func (g *globals) logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(g.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", g.logLevel)
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// buildSite loads the site config and PDF and renders the content
// directory. A PDF that fails to open is logged and left out.
func (g *globals) buildSite(ctx context.Context, log *slog.Logger, liveReload bool) (*site.Site, error) {
	siteCfg, err := config.LoadSite(g.cfg.SiteConfigPath)
	if err != nil {
		return nil, err
	}

	pdf, err := pdfexport.Open(g.cfg.PDFPath)
	switch {
	case errors.Is(err, pdfexport.ErrNotConfigured):
	case err != nil:
		log.Warn("pdf export unavailable", "path", g.cfg.PDFPath, "error", err)
	default:
		log.Info("pdf export loaded", "path", pdf.Path, "pages", pdf.Pages)
	}

	return site.Build(ctx, os.DirFS(g.cfg.ContentDir), site.Options{
		Site:       siteCfg,
		PDF:        pdf,
		LiveReload: liveReload,
		Workers:    g.cfg.BuildWorkers,
		Log:        log,
	})
}
