package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newBuildCommand(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the site to a directory of static files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := g.logger(os.Stderr)
			if err != nil {
				return err
			}
			start := time.Now()
			s, err := g.buildSite(cmd.Context(), log, false)
			if err != nil {
				return err
			}
			res, err := s.WriteStatic(cmd.Context(), g.cfg.OutDir, g.cfg.StaticDir, g.cfg.BuildWorkers)
			if err != nil {
				return err
			}
			log.Info("static build complete",
				"out", g.cfg.OutDir,
				"pages", res.Pages,
				"assets", res.Assets,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&g.cfg.OutDir, "out", g.cfg.OutDir, "output directory")
	f.IntVar(&g.cfg.BuildWorkers, "workers", g.cfg.BuildWorkers, "pages rendered concurrently")
	return cmd
}
