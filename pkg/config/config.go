// Package config loads treesynth settings from TOML.
//
// A configuration file has four optional sections:
//
//	[synthesis]
//	strategy = "rank-aware"     # or "baseline"
//	exact_threshold = 16        # candidates above this use the greedy solver
//	taxonomy_rank = 0
//	descent = ["source", "taxonomy"]
//	candidates = ["source", "taxonomy"]
//	root = 0                    # external vertex id; 0 finds the root
//	min_absorb = 2
//
//	[bipart]
//	workers = 0                 # 0 uses GOMAXPROCS
//	shared_evidence = false
//	include_inputs = false
//
//	[cache]
//	backend = "file"            # "file", "redis" or "none"
//	dir = ""                    # defaults to the user cache directory
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[log]
//	level = "info"
//
// Missing keys keep the values from [Default].
package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/treesynth/pkg/cache"
	"github.com/matzehuels/treesynth/pkg/dag"
	"github.com/matzehuels/treesynth/pkg/errors"
	"github.com/matzehuels/treesynth/pkg/mwis"
	"github.com/matzehuels/treesynth/pkg/synth"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Backends lists the valid cache backends.
var Backends = []string{BackendFile, BackendRedis, BackendNone}

// LogLevels lists the valid log levels.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Config is the full treesynth configuration.
type Config struct {
	Synthesis Synthesis `toml:"synthesis"`
	Bipart    Bipart    `toml:"bipart"`
	Cache     Cache     `toml:"cache"`
	Log       Log       `toml:"log"`
}

// Synthesis configures the synthesis run.
type Synthesis struct {
	Strategy       string   `toml:"strategy"`
	ExactThreshold int      `toml:"exact_threshold"`
	TaxonomyRank   int      `toml:"taxonomy_rank"`
	Descent        []string `toml:"descent"`
	Candidates     []string `toml:"candidates"`
	Root           uint64   `toml:"root"`
	MinAbsorb      int      `toml:"min_absorb"`
}

// Bipart configures the bipartition sum.
type Bipart struct {
	Workers        int  `toml:"workers"`
	SharedEvidence bool `toml:"shared_evidence"`
	IncludeInputs  bool `toml:"include_inputs"`
}

// Cache selects and configures the result cache.
type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

// Log configures logging.
type Log struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration written as a string such as "90m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Synthesis: Synthesis{
			Strategy:       string(synth.StrategyRankAware),
			ExactThreshold: mwis.DefaultThreshold,
			Descent:        typeNames(synth.DefaultTypes),
			Candidates:     typeNames(synth.DefaultTypes),
			MinAbsorb:      synth.DefaultMinAbsorb,
		},
		Cache: Cache{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
			TTL:       Duration{cache.DefaultTTL},
		},
		Log: Log{Level: "info"},
	}
}

// Load reads and validates the TOML file at path on top of [Default].
func Load(path string) (Config, error) {
	if err := errors.ValidatePath(path); err != nil {
		return Config{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open config")
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads TOML from r on top of [Default] and validates the result.
// Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks every section.
func (c *Config) Validate() error {
	s := c.Synthesis
	if err := errors.ValidateChoice(errors.ErrCodeInvalidStrategy, "strategy", s.Strategy, synth.Strategies); err != nil {
		return err
	}
	if s.ExactThreshold < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "exact_threshold must not be negative")
	}
	if s.MinAbsorb < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "min_absorb must be at least 1")
	}
	if _, err := s.DescentTypes(); err != nil {
		return err
	}
	if _, err := s.CandidateTypes(); err != nil {
		return err
	}
	if c.Bipart.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "workers must not be negative")
	}
	if err := errors.ValidateChoice(errors.ErrCodeInvalidConfig, "cache backend", c.Cache.Backend, Backends); err != nil {
		return err
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "redis backend requires redis_addr")
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "ttl must not be negative")
	}
	return errors.ValidateChoice(errors.ErrCodeInvalidConfig, "log level", c.Log.Level, LogLevels)
}

// DescentTypes parses the descent edge types.
func (s Synthesis) DescentTypes() ([]dag.EdgeType, error) {
	return parseTypes("descent", s.Descent)
}

// CandidateTypes parses the candidate edge types.
func (s Synthesis) CandidateTypes() ([]dag.EdgeType, error) {
	return parseTypes("candidates", s.Candidates)
}

// Selector builds the configured selection strategy.
func (s Synthesis) Selector() (synth.Selector, error) {
	return synth.NewSelector(synth.Strategy(s.Strategy), synth.SelectorOptions{
		ExactThreshold: s.ExactThreshold,
		MinAbsorb:      s.MinAbsorb,
	})
}

func parseTypes(key string, names []string) ([]dag.EdgeType, error) {
	out := make([]dag.EdgeType, 0, len(names))
	for _, n := range names {
		t, err := dag.ParseEdgeType(n)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", key)
		}
		out = append(out, t)
	}
	return out, nil
}

func typeNames(types []dag.EdgeType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}
