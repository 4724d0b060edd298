package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rompick/internal/config"
	"rompick/internal/dat"
	"rompick/internal/report"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <dat-file>",
		Short: "Check a DAT catalog for structural problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			catalog, err := dat.ParseFile(path)
			if err != nil {
				return err
			}
			check := catalog.Inspect()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, report.CatalogCheck(catalog.Header.Name, catalog.Header.Version, check))
			if !check.HasCloneOf {
				fmt.Fprintln(out, "Warning: without clone relationships one-per-family selection degrades to one-per-entry")
			}
			if check.MissingSHA1 != "" {
				fmt.Fprintln(out, "Warning: entries without sha1 digests cannot be resolved with --use-hashes")
			}
			return nil
		},
	}
}
