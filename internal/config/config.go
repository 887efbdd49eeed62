package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v2"
)

const (
	OnShardErrorAbort = "abort"
	OnShardErrorSkip  = "skip"
)

type InputConfig struct {
	Archive     string `yaml:"archive"`
	ShardPrefix string `yaml:"shard_prefix"`
	ShardExt    string `yaml:"shard_ext"`
}

type OutputConfig struct {
	Path  string `yaml:"path"`
	Plain bool   `yaml:"plain"`
}

type LogicConfig struct {
	MaxConcurrentWorkers int    `yaml:"max_concurrent_workers"`
	Metrics              bool   `yaml:"metrics"`
	OnShardError         string `yaml:"on_shard_error"`
}

type DBConfig struct {
	Connection  string `yaml:"connection"`
	Database    string `yaml:"database"`
	Collections struct {
		Documents string `yaml:"documents"`
	} `yaml:"collections"`
}

// ExportConfig drives building a shard archive out of crawled documents.
type ExportConfig struct {
	Archive    string `yaml:"archive"`
	Folder     string `yaml:"folder"`
	ShardSize  int    `yaml:"shard_size"`
	Source     string `yaml:"source"`
	MinTextLen int    `yaml:"min_text_len"`
}

type StatsConfig struct {
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	Logic  LogicConfig  `yaml:"logic"`
	DB     DBConfig     `yaml:"db"`
	Export ExportConfig `yaml:"export"`
}

func Default() *StatsConfig {
	cfg := &StatsConfig{
		Input: InputConfig{
			Archive:  "dataset/test.zip",
			ShardExt: ".json",
		},
		Output: OutputConfig{Path: "stats.json"},
		Logic:  LogicConfig{OnShardError: OnShardErrorAbort},
		Export: ExportConfig{
			Archive:   "dataset/corpus.zip",
			Folder:    "folder/",
			ShardSize: 1000,
		},
	}
	cfg.DB.Connection = "mongodb://localhost:27017"
	cfg.DB.Database = "spider"
	cfg.DB.Collections.Documents = "documents"
	return cfg
}

// LoadConfig reads a YAML file over the defaults; keys missing from the file
// keep their default value.
func LoadConfig(path string) (*StatsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Workers is the batch size of the scheduler.
func (c *StatsConfig) Workers() int {
	if c.Logic.MaxConcurrentWorkers > 0 {
		return c.Logic.MaxConcurrentWorkers
	}
	return runtime.NumCPU()
}

func (c *StatsConfig) Validate() error {
	var problems []string
	if c.Input.Archive == "" {
		problems = append(problems, "input.archive is empty")
	}
	if c.Output.Path == "" {
		problems = append(problems, "output.path is empty")
	}
	if c.Logic.MaxConcurrentWorkers < 0 {
		problems = append(problems, "logic.max_concurrent_workers must not be negative")
	}
	switch c.Logic.OnShardError {
	case OnShardErrorAbort, OnShardErrorSkip:
	default:
		problems = append(problems, fmt.Sprintf("logic.on_shard_error %q is not one of abort, skip", c.Logic.OnShardError))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *StatsConfig) ValidateExport() error {
	var problems []string
	if c.DB.Connection == "" || c.DB.Database == "" || c.DB.Collections.Documents == "" {
		problems = append(problems, "db connection, database and collections.documents are required")
	}
	if c.Export.Archive == "" {
		problems = append(problems, "export.archive is empty")
	}
	if c.Export.ShardSize <= 0 {
		problems = append(problems, "export.shard_size must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid export config: %s", strings.Join(problems, "; "))
	}
	return nil
}
