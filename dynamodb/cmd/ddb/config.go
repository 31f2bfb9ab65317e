package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/acksell/ddbtable/dynamodb/tabledef"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"gopkg.in/yaml.v3"
)

const configFilename = "ddb.yaml"

// Config holds the settings shared by all ddb commands.
// Loaded from ddb.yaml if present; flags override file values.
type Config struct {
	// SchemaPattern is a glob for schema descriptor files. When empty, ddb
	// searches the repository for *.ddb.yaml files.
	SchemaPattern string `yaml:"schemaPattern"`

	// SourceDir is a Go package directory whose struct types carry
	// tabledef.Table markers. It takes precedence over SchemaPattern.
	SourceDir string `yaml:"sourceDir"`

	// DataDir is where the local BadgerDB catalog lives. When set, create,
	// describe, list and delete work against it instead of AWS.
	DataDir string `yaml:"dataDir"`

	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	Profile  string `yaml:"profile"`

	BillingMode      string   `yaml:"billingMode"`
	ReadCapacity     int64    `yaml:"readCapacity"`
	WriteCapacity    int64    `yaml:"writeCapacity"`
	Projection       string   `yaml:"projection"`
	NonKeyAttributes []string `yaml:"nonKeyAttributes"`
}

// LoadConfig searches for ddb.yaml starting from dir and walking up to the
// filesystem root. Returns an empty config if not found.
func LoadConfig(dir string) (Config, error) {
	var cfg Config

	configPath := findConfigFile(dir)
	if configPath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", configPath, err)
	}

	// Relative paths are relative to the config file.
	base := filepath.Dir(configPath)
	if cfg.DataDir != "" && !filepath.IsAbs(cfg.DataDir) {
		cfg.DataDir = filepath.Join(base, cfg.DataDir)
	}
	if cfg.SchemaPattern != "" && !filepath.IsAbs(cfg.SchemaPattern) {
		cfg.SchemaPattern = filepath.Join(base, cfg.SchemaPattern)
	}
	if cfg.SourceDir != "" && !filepath.IsAbs(cfg.SourceDir) {
		cfg.SourceDir = filepath.Join(base, cfg.SourceDir)
	}
	return cfg, nil
}

// findConfigFile searches for ddb.yaml walking up from dir.
func findConfigFile(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, configFilename)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return ""
		}
		dir = parent
	}
}

func (c *Config) bindSchemaFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.SchemaPattern, "schema", c.SchemaPattern, "glob pattern for schema descriptor files (default: discover *.ddb.yaml)")
	fs.StringVar(&c.SourceDir, "dir", c.SourceDir, "read table types from the Go package in this directory instead")
}

func (c *Config) bindTargetFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.DataDir, "db", c.DataDir, "local catalog directory; when set, AWS is not contacted")
	fs.StringVar(&c.Region, "region", c.Region, "AWS region")
	fs.StringVar(&c.Endpoint, "endpoint", c.Endpoint, "DynamoDB endpoint override, e.g. http://localhost:8000")
	fs.StringVar(&c.Profile, "profile", c.Profile, "AWS shared config profile")
}

func (c *Config) bindBuildFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.BillingMode, "billing", c.BillingMode, "billing mode: PAY_PER_REQUEST or PROVISIONED")
	fs.Int64Var(&c.ReadCapacity, "rcu", c.ReadCapacity, "read capacity units for PROVISIONED billing")
	fs.Int64Var(&c.WriteCapacity, "wcu", c.WriteCapacity, "write capacity units for PROVISIONED billing")
	fs.StringVar(&c.Projection, "projection", c.Projection, "secondary index projection: ALL, KEYS_ONLY or INCLUDE")
}

// BuildOptions translates the billing and projection settings.
func (c Config) BuildOptions() ([]tabledef.BuildOption, error) {
	var opts []tabledef.BuildOption

	switch mode := types.BillingMode(strings.ToUpper(c.BillingMode)); mode {
	case "", types.BillingModePayPerRequest:
		if c.ReadCapacity != 0 || c.WriteCapacity != 0 {
			return nil, fmt.Errorf("read/write capacity requires PROVISIONED billing")
		}
	case types.BillingModeProvisioned:
		if c.ReadCapacity <= 0 || c.WriteCapacity <= 0 {
			return nil, fmt.Errorf("PROVISIONED billing requires positive read and write capacity")
		}
		opts = append(opts, tabledef.WithProvisionedThroughput(c.ReadCapacity, c.WriteCapacity))
	default:
		return nil, fmt.Errorf("unknown billing mode %q", c.BillingMode)
	}

	switch projection := types.ProjectionType(strings.ToUpper(c.Projection)); projection {
	case "":
	case types.ProjectionTypeAll, types.ProjectionTypeKeysOnly:
		opts = append(opts, tabledef.WithProjection(projection))
	case types.ProjectionTypeInclude:
		if len(c.NonKeyAttributes) == 0 {
			return nil, fmt.Errorf("INCLUDE projection requires nonKeyAttributes")
		}
		opts = append(opts, tabledef.WithProjection(projection, c.NonKeyAttributes...))
	default:
		return nil, fmt.Errorf("unknown projection %q", c.Projection)
	}
	return opts, nil
}
