package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/rfcsite/internal/content"
	"github.com/dgallion1/rfcsite/internal/termview"
)

func newShowCommand(g *globals) *cobra.Command {
	var opts termview.Options
	cmd := &cobra.Command{
		Use:   "show <RFC-id|route>",
		Short: "Render one RFC in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coll, err := content.LoadDir(g.cfg.ContentDir)
			if err != nil {
				return err
			}
			doc, ok := coll.Find(args[0])
			if !ok {
				return fmt.Errorf("no document matches %q", args[0])
			}
			return termview.Document(cmd.OutOrStdout(), doc, opts)
		},
	}
	f := cmd.Flags()
	f.IntVar(&opts.Width, "width", 80, "word wrap column")
	f.StringVar(&opts.Style, "style", "auto", "glamour style: auto, dark, light, notty")
	return cmd
}
