package kernel

import (
	"os"
	"time"

	yaml "github.com/goccy/go-yaml"
)

// TaskConfig holds the schedule knobs for one demo task.
type TaskConfig struct {
	PeriodMS int `yaml:"period_ms"`
	Priority int `yaml:"priority"`
}

// Period converts the configured millisecond value to a duration.
func (tc TaskConfig) Period() time.Duration {
	return time.Duration(tc.PeriodMS) * time.Millisecond
}

// Config mirrors config.yml
type Config struct {
	Completion  TaskConfig `yaml:"completion"`  // 200 ms, priority 1 (by default)
	Temperature TaskConfig `yaml:"temperature"` // 500 ms, priority 2 (by default)
	Multiply    TaskConfig `yaml:"multiply"`    // 1000 ms, priority 3 (by default)
	Search      TaskConfig `yaml:"search"`      // 100 ms, priority 4 (by default)

	TraceLog    string `yaml:"trace_log"`    // CSV activation trace path; empty = off
	MetricsAddr string `yaml:"metrics_addr"` // prometheus listen address; empty = off
	PrettyLogs  bool   `yaml:"pretty_logs"`  // console-friendly log output
}

// If the config file is not found, we use default values
func defaultConfig() Config {
	return Config{
		Completion:  TaskConfig{PeriodMS: 200, Priority: 1},
		Temperature: TaskConfig{PeriodMS: 500, Priority: 2},
		Multiply:    TaskConfig{PeriodMS: 1000, Priority: 3},
		Search:      TaskConfig{PeriodMS: 100, Priority: 4},
		PrettyLogs:  true,
	}
}

// Load reads YAML and overrides defaults; empty path = defaults only
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	_ = yaml.Unmarshal(data, &cfg)

	// sanity clamps
	def := defaultConfig()
	clampTask(&cfg.Completion, def.Completion)
	clampTask(&cfg.Temperature, def.Temperature)
	clampTask(&cfg.Multiply, def.Multiply)
	clampTask(&cfg.Search, def.Search)

	return cfg
}

func clampTask(tc *TaskConfig, def TaskConfig) {
	if tc.PeriodMS <= 0 {
		tc.PeriodMS = def.PeriodMS
	}
	if tc.Priority < MinPriority || tc.Priority > MaxPriority {
		tc.Priority = def.Priority
	}
}
