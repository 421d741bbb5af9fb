package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/rfcsite/internal/content"
	"github.com/dgallion1/rfcsite/internal/sidebar"
	"github.com/dgallion1/rfcsite/internal/termview"
	"github.com/dgallion1/rfcsite/internal/toc"
)

func newTOCCommand(g *globals) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "toc",
		Short: "Print the RFC table of contents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			coll, err := content.LoadDir(g.cfg.ContentDir)
			if err != nil {
				return err
			}
			tree := sidebar.Generate(coll)
			entries := toc.FilterEntries(tree)

			out := cmd.OutOrStdout()
			if !asJSON {
				return termview.TOC(out, entries)
			}
			if entries == nil {
				entries = []toc.Entry{}
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(entries); err != nil {
				return fmt.Errorf("encode toc: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")
	return cmd
}
