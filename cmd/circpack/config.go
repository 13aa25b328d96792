package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rwcarlsen/circpack"
	"github.com/rwcarlsen/circpack/bench"
	"github.com/rwcarlsen/circpack/ralgo"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type RalgoConfig struct {
	Alpha         float64 `mapstructure:"alpha" yaml:"alpha"`
	Q1            float64 `mapstructure:"q1" yaml:"q1"`
	Epsx          float64 `mapstructure:"epsx" yaml:"epsx"`
	Epsg          float64 `mapstructure:"epsg" yaml:"epsg"`
	MaxIterations int     `mapstructure:"max_iterations" yaml:"max_iterations"`
	PenaltyEps    float64 `mapstructure:"penalty_eps" yaml:"penalty_eps"`
}

func (rc RalgoConfig) Params() ralgo.Params {
	return ralgo.DefaultParams().
		WithAlpha(rc.Alpha).
		WithQ1(rc.Q1).
		WithEpsx(rc.Epsx).
		WithEpsg(rc.Epsg).
		WithMaxIterations(rc.MaxIterations)
}

type Config struct {
	Rounds    int             `mapstructure:"rounds" yaml:"rounds"`
	Seed      int64           `mapstructure:"seed" yaml:"seed"`
	Keep      int             `mapstructure:"keep" yaml:"keep"`
	Answer    string          `mapstructure:"answer" yaml:"answer"`
	Random    int             `mapstructure:"random" yaml:"random"`
	Out       string          `mapstructure:"out" yaml:"out"`
	PNG       string          `mapstructure:"png" yaml:"png"`
	DB        string          `mapstructure:"db" yaml:"db"`
	Metrics   string          `mapstructure:"metrics" yaml:"metrics"`
	LogLevel  string          `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string          `mapstructure:"log_format" yaml:"log_format"`
	Variants  []bench.Variant `mapstructure:"variants" yaml:"variants"`
	Ralgo     RalgoConfig     `mapstructure:"ralgo" yaml:"ralgo"`
}

func setDefaults(v *viper.Viper) {
	p := ralgo.DefaultParams()

	v.SetDefault("rounds", 100)
	v.SetDefault("seed", 1)
	v.SetDefault("keep", 5)
	v.SetDefault("random", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("ralgo.alpha", p.Alpha)
	v.SetDefault("ralgo.q1", p.Q1)
	v.SetDefault("ralgo.epsx", p.Epsx)
	v.SetDefault("ralgo.epsg", p.Epsg)
	v.SetDefault("ralgo.max_iterations", p.MaxIterations)
	v.SetDefault("ralgo.penalty_eps", ralgo.DefaultPenaltyEps)
}

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"rounds":         "rounds",
	"seed":           "seed",
	"keep":           "keep",
	"answer":         "answer",
	"random":         "random",
	"out":            "out",
	"png":            "png",
	"db":             "db",
	"metrics":        "metrics",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"alpha":          "ralgo.alpha",
	"q1":             "ralgo.q1",
	"epsx":           "ralgo.epsx",
	"epsg":           "ralgo.epsg",
	"max-iterations": "ralgo.max_iterations",
	"penalty-eps":    "ralgo.penalty_eps",
}

// loadConfig merges defaults, the optional YAML config file and the
// command line flags, in increasing order of precedence.
func loadConfig(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %v: %w", path, err)
		}
	}

	for flag, key := range flagKeys {
		if f := flags.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if len(cfg.Variants) == 0 {
		cfg.Variants = bench.DefaultVariants
	}
	if err := cfg.Ralgo.Params().Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, level, format string) (*circpack.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	switch strings.ToLower(format) {
	case "", "text":
		return circpack.NewTextLogger(w, lvl), nil
	case "json":
		return circpack.NewJSONLogger(w, lvl), nil
	}
	return nil, fmt.Errorf("unknown log format %q", format)
}
