// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/suksuki/bazi-sub001/pattern"
	"github.com/suksuki/bazi-sub001/registry"
)

var errNotFileBackend = errors.New("watch needs the file registry backend")

func newPatternsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Inspect and manage registry patterns",
		Long: `Inspect and manage registry patterns.

Subcommands:
  list     - List pattern ids, optionally filtered by a glob
  show     - Print one pattern as JSON
  import   - Validate and store the patterns of a YAML file
  watch    - Reload a file-backed registry whenever the file changes`,
	}
	cmd.AddCommand(
		newPatternsListCmd(a),
		newPatternsShowCmd(a),
		newPatternsImportCmd(a),
		newPatternsWatchCmd(a),
	)

	return cmd
}

func newPatternsListCmd(a *app) *cobra.Command {
	var expr string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pattern ids",
		Long: `List pattern ids in sorted order. --match takes a glob where '*'
stays within one dot-separated segment and '**' crosses segments.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, closeFn, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			ids, err := registry.Match(ctx, store, expr)
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(a.out, id)
			}

			return nil
		},
	}
	cmd.Flags().StringVar(&expr, "match", "", "glob filter on pattern ids")

	return cmd
}

func newPatternsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Print one pattern as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, closeFn, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			p, found, err := store.GetPattern(ctx, args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("pattern %q not found", args[0])
			}
			data, err := pattern.EncodeJSON(p)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.out, string(data))

			return err
		},
	}
}

func newPatternsImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE.yaml",
		Short: "Validate and store the patterns of a YAML file",
		Long: `Import decodes a YAML pattern file, validates every pattern and writes
them to the registry, replacing patterns with the same id. Nothing is
written when any pattern is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			list, err := pattern.DecodeYAML(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			store, closeFn, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := registry.Import(ctx, store, list...); err != nil {
				return err
			}
			a.logger.Info("patterns imported", "file", args[0], "count", len(list))
			for _, p := range list {
				fmt.Fprintln(a.out, p.ID)
			}

			return nil
		},
	}
}

func newPatternsWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Reload a file-backed registry on change",
		Long: `Watch follows the registry YAML file and reloads it after edits settle.
A file that fails to decode or validate is logged and the previous patterns
stay in place. Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, closeFn, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			cached, _ := store.(*registry.CachedStore)
			inner := registry.Store(store)
			if cached != nil {
				inner = cached.Store
			}
			fs, ok := inner.(*registry.FileStore)
			if !ok {
				return errNotFileBackend
			}

			err = fs.Watch(ctx, a.logger, func(ids []string, err error) {
				if err != nil {
					return
				}
				if cached != nil {
					cached.Purge()
				}
				a.logger.Info("registry reloaded", "path", fs.Path(), "patterns", len(ids))
			})
			if err != nil {
				return err
			}
			a.logger.Info("watching registry", "path", fs.Path())
			<-ctx.Done()

			return nil
		},
	}
}
