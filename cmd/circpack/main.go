// Command circpack packs circles of given radii into the smallest enclosing
// circle it can find.  It runs the constructive packing search, refines its
// best packing with every configured step-size controller variant and
// writes a YAML report.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	_ "github.com/mxk/go-sqlite/sqlite3"
	"github.com/rwcarlsen/circpack"
	"github.com/rwcarlsen/circpack/bench"
	"github.com/rwcarlsen/circpack/pack"
	"github.com/rwcarlsen/circpack/ralgo"
	"github.com/rwcarlsen/circpack/render"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "circpack <radii-file>",
		Short: "Pack circles into the smallest enclosing circle",
		Long: `circpack reads a radius list (the number of circles on the first line,
then one radius per line), searches for a small enclosing circle with the
constructive packer and refines the result with the r-algorithm.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgPath, cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), args[0], cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	p := ralgo.DefaultParams()
	f := cmd.Flags()
	f.StringVar(&cfgPath, "config", "", "YAML config file")
	f.Int("rounds", 100, "packing search rounds")
	f.Int64("seed", 1, "random seed")
	f.Int("keep", 5, "number of best packings to keep")
	f.String("answer", "", "file holding the reference radius on its first line")
	f.Int("random", 0, "also refine this many random starting arrangements")
	f.String("out", "", "YAML report file (default stdout)")
	f.String("png", "", "draw the best packing to this image file")
	f.String("db", "", "sqlite database to trace the run into")
	f.String("metrics", "", "prometheus textfile to write metrics to")
	f.String("log-level", "info", "log level (debug, info, warn, error)")
	f.String("log-format", "text", "log format (text, json)")
	f.Float64("alpha", p.Alpha, "r-algorithm space dilation factor")
	f.Float64("q1", p.Q1, "r-algorithm step decrease factor")
	f.Float64("epsx", p.Epsx, "r-algorithm step tolerance")
	f.Float64("epsg", p.Epsg, "r-algorithm subgradient tolerance")
	f.Int("max-iterations", p.MaxIterations, "r-algorithm iteration cap")
	f.Float64("penalty-eps", ralgo.DefaultPenaltyEps, "penalty constraint slack")
	return cmd
}

func run(ctx context.Context, path string, cfg Config, stdout, stderr io.Writer) error {
	inst, err := readInstance(path, cfg.Answer)
	if err != nil {
		return err
	}

	log, err := newLogger(stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	var db *sql.DB
	if cfg.DB != "" {
		if db, err = sql.Open("sqlite3", cfg.DB); err != nil {
			return err
		}
		defer db.Close()
		// concurrent variants share one sqlite connection
		db.SetMaxOpenConns(1)
	}

	var metrics circpack.MetricsCollector = circpack.NoopMetricsCollector{}
	if cfg.Metrics != "" {
		pm := newPromMetrics()
		metrics = pm
		defer func() {
			if err := pm.Dump(cfg.Metrics); err != nil {
				log.LogError(ctx, "writing metrics", err)
			}
		}()
	}

	rep := bench.Report{Instance: inst.Name, Best: inst.Best}
	h, circles, err := bench.Heuristic(inst, cfg.Rounds,
		pack.Seed(cfg.Seed),
		pack.Keep(cfg.Keep),
		pack.DB(db),
		pack.WithLogger(log),
		pack.WithMetrics(metrics),
	)
	if err != nil {
		return err
	} else if math.IsInf(h.Radius, 1) {
		return fmt.Errorf("%v: %w", inst.Name, bench.ErrNoPacking)
	}
	rep.Heuristic = h
	log.InfoContext(ctx, "heuristic done", "radius", h.Radius, "points", h.Points, "duration", h.Duration)

	params := cfg.Ralgo.Params()
	opts := []ralgo.Option{
		ralgo.PenaltyEps(cfg.Ralgo.PenaltyEps),
		ralgo.DB(db),
		ralgo.WithLogger(log),
		ralgo.WithMetrics(metrics),
	}

	rep.Variants = make([]bench.Outcome, len(cfg.Variants))
	g, gctx := errgroup.WithContext(ctx)
	for i, v := range cfg.Variants {
		i, v := i, v
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			o, err := bench.Refine(inst, h.Radius, circles, v, params, opts...)
			if err != nil {
				return fmt.Errorf("variant %v: %w", v, err)
			}
			log.InfoContext(gctx, "variant done", "variant", o.Method, "radius", o.Radius, "valid", o.Valid, "ralgo_calls", o.RalgoCalls)
			rep.Variants[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if cfg.Random > 0 {
		rng := rand.New(rand.NewSource(cfg.Seed))
		o, err := bench.RandomStarts(inst, rng, cfg.Random, cfg.Variants[0], params, opts...)
		if err != nil {
			return err
		}
		rep.Random = &o
	}

	if err := writeReport(cfg.Out, stdout, rep); err != nil {
		return err
	}

	if cfg.PNG != "" {
		best := bestOutcome(rep)
		if err := render.Save(cfg.PNG, best.Radius, circlesOf(best.Circles), 6*vg.Inch); err != nil {
			return err
		}
	}
	return nil
}

func readInstance(path, answer string) (bench.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return bench.Instance{}, err
	}
	defer f.Close()

	radii, err := bench.ReadRadii(f)
	if err != nil {
		return bench.Instance{}, fmt.Errorf("%v: %w", path, err)
	}
	inst := bench.Instance{Name: filepath.Base(path), Radii: radii}

	if answer != "" {
		af, err := os.Open(answer)
		if err != nil {
			return bench.Instance{}, err
		}
		defer af.Close()
		if inst.Best, err = bench.ReadAnswer(af); err != nil {
			return bench.Instance{}, fmt.Errorf("%v: %w", answer, err)
		}
	}
	return inst, nil
}

func writeReport(path string, stdout io.Writer, rep bench.Report) error {
	data, err := yaml.Marshal(rep)
	if err != nil {
		return err
	}
	if path == "" || path == "-" {
		_, err = stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// bestOutcome returns the smallest valid outcome of rep, falling back to
// the heuristic.
func bestOutcome(rep bench.Report) bench.Outcome {
	best := rep.Heuristic
	candidates := append([]bench.Outcome{}, rep.Variants...)
	if rep.Random != nil {
		candidates = append(candidates, *rep.Random)
	}
	for _, o := range candidates {
		if o.Valid && o.Radius < best.Radius {
			best = o
		}
	}
	return best
}

func circlesOf(ps []bench.Placement) []circpack.Circle {
	circles := make([]circpack.Circle, len(ps))
	for i, p := range ps {
		circles[i] = circpack.At(p.R, circpack.Point{X: p.X, Y: p.Y})
	}
	return circles
}
