package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML configs accept "30s" / "2m" syntax.
// Bare numbers are interpreted as seconds.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, perr := time.ParseDuration(s)
		if perr != nil {
			return fmt.Errorf("config: bad duration %q: %w", s, perr)
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("config: bad duration node: %w", err)
	}
	*d = Duration(time.Duration(n) * time.Second)
	return nil
}

// Config is the top-level configuration struct.  All fields have safe defaults
// so callers can start with Default() and override only what they need.
type Config struct {
	// Worker pool controls.
	WorkerCount int      `yaml:"worker_count"` // default: runtime.NumCPU()
	QueueSize   int      `yaml:"queue_size"`   // max queued jobs before backpressure; default: 256
	JobTimeout  Duration `yaml:"job_timeout"`  // per-request wall clock; default 30s

	// Intake / memory limits.
	MaxSourceBytes int64 `yaml:"max_source_bytes"` // 0 = no limit
	ChunkSize      int   `yaml:"chunk_size"`       // streaming chunk size in bytes; default 32 KiB

	// Candidate search tuning.
	Search SearchConfig `yaml:"search"`

	// Strategy selection tuning.
	Strategy StrategyConfig `yaml:"strategy"`

	// Logging.
	LogLevel string `yaml:"log_level"` // "debug", "info", "warn", "error"
}

// SearchConfig controls the candidate search acceptance rules.
type SearchConfig struct {
	// SoftBudgetRatio positions the soft target below the hard ceiling;
	// default 0.85.
	SoftBudgetRatio float64 `yaml:"soft_budget_ratio"`

	// ToleranceRatio is the early-exit band around the soft target;
	// default 0.10.
	ToleranceRatio float64 `yaml:"tolerance_ratio"`

	// OvercompressionRatio marks results below this fraction of the soft
	// target as over-compressed; default 0.90.
	OvercompressionRatio float64 `yaml:"overcompression_ratio"`
}

// StrategyConfig controls tier selection and the pre-compression pass.
type StrategyConfig struct {
	// PreCompressThresholdKB triggers a coarse size reduction for sources
	// above it; default 5120.
	PreCompressThresholdKB int `yaml:"pre_compress_threshold_kb"`

	// PreCompressCeilingKB caps the pre-compression target; default 2048.
	PreCompressCeilingKB int `yaml:"pre_compress_ceiling_kb"`

	// QualityFloors overrides the built-in per-document-type floors, keyed
	// by document type name.
	QualityFloors map[string]int `yaml:"quality_floors"`
}

// Default returns a Config populated with sensible production defaults.
func Default() Config {
	return Config{
		WorkerCount: 0, // resolved at runtime to NumCPU
		QueueSize:   256,
		JobTimeout:  Duration(30 * time.Second),
		ChunkSize:   32 * 1024,
		Search: SearchConfig{
			SoftBudgetRatio:      0.85,
			ToleranceRatio:       0.10,
			OvercompressionRatio: 0.90,
		},
		Strategy: StrategyConfig{
			PreCompressThresholdKB: 5120,
			PreCompressCeilingKB:   2048,
		},
		LogLevel: "info",
	}
}

// Load reads a YAML file over Default() and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate returns an error if the configuration is inconsistent.
func Validate(c Config) error {
	if c.QueueSize < 0 {
		return errors.New("config: QueueSize must not be negative")
	}
	if c.ChunkSize <= 0 {
		return errors.New("config: ChunkSize must be positive")
	}
	if r := c.Search.SoftBudgetRatio; r <= 0 || r > 1 {
		return errors.New("config: Search.SoftBudgetRatio must be in (0, 1]")
	}
	if r := c.Search.ToleranceRatio; r < 0 || r > 0.5 {
		return errors.New("config: Search.ToleranceRatio must be in [0, 0.5]")
	}
	if r := c.Search.OvercompressionRatio; r <= 0 || r >= 1 {
		return errors.New("config: Search.OvercompressionRatio must be in (0, 1)")
	}
	if c.Strategy.PreCompressThresholdKB <= 0 {
		return errors.New("config: Strategy.PreCompressThresholdKB must be positive")
	}
	if c.Strategy.PreCompressCeilingKB <= 0 {
		return errors.New("config: Strategy.PreCompressCeilingKB must be positive")
	}
	if c.Strategy.PreCompressCeilingKB > c.Strategy.PreCompressThresholdKB {
		return errors.New("config: Strategy.PreCompressCeilingKB must not exceed the threshold")
	}
	for name, floor := range c.Strategy.QualityFloors {
		if floor < 1 || floor > 100 {
			return fmt.Errorf("config: quality floor for %q must be between 1 and 100", name)
		}
	}
	return nil
}
