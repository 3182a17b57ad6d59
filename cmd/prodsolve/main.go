// SPDX-License-Identifier: MIT

// Command prodsolve loads a production document, solves its root table and
// prints per-row throughput, link balance and the aggregated flow.
//
//	prodsolve -doc factory.yaml [-config settings.yaml] [-tiers] [-chain recipe] [-timeout 10s]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/prodnet/catalog"
	"github.com/katalvlaran/prodnet/config"
	"github.com/katalvlaran/prodnet/core"
	"github.com/katalvlaran/prodnet/model"
	"github.com/katalvlaran/prodnet/page"
	"github.com/katalvlaran/prodnet/solver"
	"github.com/katalvlaran/prodnet/tier"
)

func main() {
	var (
		docPath    = flag.String("doc", "", "path to the production document (.yaml, .json, optionally .zst)")
		configPath = flag.String("config", "", "path to solver settings (optional)")
		showTiers  = flag.Bool("tiers", false, "print the recipe tiers of the root table")
		tierLimit  = flag.Int("tier_limit", 0, "cap the number of tiers (0 = no cap)")
		chainOf    = flag.String("chain", "", "print the supply chain of the named recipe")
		timeout    = flag.Duration("timeout", 30*time.Second, "solve timeout")
		production = flag.Bool("production", false, "use JSON production logging")
	)
	flag.Parse()

	if *docPath == "" {
		fmt.Fprintln(os.Stderr, "missing -doc")
		os.Exit(2)
	}

	logger, err := newLogger(*production)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger, runConfig{
		doc:       *docPath,
		config:    *configPath,
		tiers:     *showTiers,
		tierLimit: *tierLimit,
		chain:     *chainOf,
		timeout:   *timeout,
	}, os.Stdout); err != nil {
		logger.Error("prodsolve failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(production bool) (*zap.Logger, error) {
	if production {
		return zap.NewProduction()
	}

	return zap.NewDevelopment()
}

type runConfig struct {
	doc, config string
	tiers       bool
	tierLimit   int
	chain       string
	timeout     time.Duration
}

func run(logger *zap.Logger, rc runConfig, out io.Writer) error {
	settings := config.Default()
	if rc.config != "" {
		var err error
		if settings, err = config.Load(rc.config); err != nil {
			return err
		}
	}

	cat, err := catalog.Load(rc.doc)
	if err != nil {
		return err
	}
	logger.Info("document loaded",
		zap.String("path", rc.doc),
		zap.Int("goods", len(cat.Goods)),
		zap.Int("recipes", len(cat.Recipes)))

	pg, err := page.New(cat.Network, cat.Root,
		page.WithLogger(logger),
		page.WithName(rc.doc),
		page.WithSolverOptions(solver.WithLogger(logger), solver.WithSettings(settings)))
	if err != nil {
		return err
	}
	defer pg.Close()

	if err := pg.Update(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), rc.timeout)
	defer cancel()
	if err := pg.Wait(ctx); err != nil {
		return fmt.Errorf("wait for solve: %w", err)
	}
	msg, err := pg.Result()
	if err != nil {
		return err
	}
	if msg != "" {
		fmt.Fprintln(out, "warning:", msg)
	}

	var chainRecipe *model.Recipe
	if rc.chain != "" {
		if chainRecipe = cat.Recipes[rc.chain]; chainRecipe == nil {
			return fmt.Errorf("chain: recipe %q: %w", rc.chain, catalog.ErrUnknownName)
		}
	}

	pg.View(func(net *model.Network) {
		report(out, net, cat.Root)
		if !rc.tiers && chainRecipe == nil {
			return
		}
		g := tier.BuildGraph(tier.Recipes(net, cat.Root))
		if rc.tiers {
			opts := []tier.Option{tier.WithLogger(logger)}
			if rc.tierLimit > 0 {
				opts = append(opts, tier.WithTierLimit(rc.tierLimit))
			}
			if err = printTiers(out, g, opts); err != nil {
				return
			}
		}
		if chainRecipe != nil {
			err = printChain(out, g, chainRecipe)
		}
	})

	return err
}

func report(out io.Writer, net *model.Network, root model.TableID) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RECIPE\tPER SECOND\tBUILDINGS\tWARNINGS")
	for _, id := range net.ActiveRows(root) {
		row := net.Row(id)
		fmt.Fprintf(tw, "%s%s\t%.4g\t%.4g\t%s\n",
			indent(net, row), row.Recipe.Name, row.RecipesPerSecond, row.BuildingCount(), row.Parameters.Warnings)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "GOODS\tAMOUNT\tFLOW\tUNMATCHED\tFLAGS")
	for _, id := range net.ActiveLinks(root) {
		l := net.Link(id)
		fmt.Fprintf(tw, "%s\t%.4g\t%.4g\t%.4g\t%s\n", l.Goods, l.Amount, l.LinkFlow, l.NotMatchedFlow, l.Flags)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "FLOW\tAMOUNT\tLINKED")
	for _, f := range net.Table(root).Flow {
		fmt.Fprintf(tw, "%s\t%.4g\t%t\n", f.Goods, f.Amount, f.Link != model.NoLink)
	}
	_ = tw.Flush()
}

func indent(net *model.Network, row *model.Row) string {
	depth := 0
	for t := net.Table(row.Owner()); t != nil && !t.IsRoot(); t = net.Table(net.Row(t.Owner()).Owner()) {
		depth++
	}

	return strings.Repeat("  ", depth)
}

func printTiers(out io.Writer, g *core.Graph[*model.Recipe], opts []tier.Option) error {
	tiers, err := tier.Compute(g, opts...)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	for i, t := range tiers {
		names := make([]string, len(t.Recipes))
		for j, r := range t.Recipes {
			names[j] = r.Name
		}
		var tags []string
		if t.Looped {
			tags = append(tags, "loop")
		}
		if t.Forced {
			tags = append(tags, "forced")
		}
		suffix := ""
		if len(tags) > 0 {
			suffix = " (" + strings.Join(tags, ", ") + ")"
		}
		fmt.Fprintf(out, "tier %d%s: %s\n", i+1, suffix, strings.Join(names, ", "))
	}

	return nil
}

func printChain(out io.Writer, g *core.Graph[*model.Recipe], r *model.Recipe) error {
	steps, err := tier.SupplyChain(g, r, 0)
	if err != nil {
		return fmt.Errorf("chain %q: %w", r.Name, err)
	}
	fmt.Fprintf(out, "\nsupply chain of %s:\n", r.Name)
	for _, s := range steps {
		if len(s.Path) <= 2 {
			fmt.Fprintf(out, "  %d  %s\n", s.Distance, s.Recipe.Name)
			continue
		}
		via := make([]string, 0, len(s.Path)-2)
		for _, r := range s.Path[1 : len(s.Path)-1] {
			via = append(via, r.Name)
		}
		fmt.Fprintf(out, "  %d  %s (via %s)\n", s.Distance, s.Recipe.Name, strings.Join(via, ", "))
	}

	return nil
}
