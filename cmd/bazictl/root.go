// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/suksuki/bazi-sub001/config"
	"github.com/suksuki/bazi-sub001/registry"
)

// app holds the global flags and what PersistentPreRunE derives from them.
type app struct {
	configPath string
	store      string
	dbPath     string
	seed       string

	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer
	errOut io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "bazictl",
		Short: "Chart evaluation and pattern registry tool",
		Long: `bazictl projects a chart into the five-axis tensor, recognizes it
against registry patterns and trains the per-pattern transfer matrices.

Examples:
  bazictl evaluate --pillars 甲子,丙寅,甲申,乙亥 --ref 甲 --pattern wealth_flow
  bazictl fit --pattern wealth_flow --data samples/wealth_flow.csv
  bazictl patterns list --match 'parallel_*'`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	pf.StringVar(&a.store, "store", "", "registry backend: memory, sqlite or file")
	pf.StringVar(&a.dbPath, "db-path", "", "registry database or YAML file path")
	pf.StringVar(&a.seed, "seed", "", "YAML patterns imported into an empty registry")

	root.AddCommand(
		newEvaluateCmd(a),
		newFitCmd(a),
		newFitBatchCmd(a),
		newPatternsCmd(a),
	)

	return root
}

// load reads the configuration and lets explicit flags override it.
func (a *app) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("store") {
		cfg.Registry.Backend = a.store
	}
	if flags.Changed("db-path") {
		cfg.Registry.Path = a.dbPath
	}
	if flags.Changed("seed") {
		cfg.Registry.Seed = a.seed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = cfg.Logger(a.errOut)

	return nil
}

// openStore opens the configured registry. The returned func releases it.
func (a *app) openStore(ctx context.Context) (registry.Store, func(), error) {
	s, err := a.cfg.OpenStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := registry.CloseIfSupported(s); err != nil {
			a.logger.Warn("closing registry", "error", err)
		}
	}

	return s, closeFn, nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	return enc.Encode(v)
}
