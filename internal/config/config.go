package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultLibrary  = "dunbrack.dbrk"
	DefaultDataDir  = "runs"
	DefaultPsi      = -40.0
	DefaultStep     = 10.0
	DefaultSamples  = 100
	DefaultWorkers  = 4
	DefaultLogLevel = "info"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid value")

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("output", validateOutput)
	_ = validate.RegisterValidation("loglevel", validateLogLevel)
}

func validateOutput(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case "table", "csv", "json":
		return true
	}
	return false
}

func validateLogLevel(fl validator.FieldLevel) bool {
	var l slog.Level
	return l.UnmarshalText([]byte(fl.Field().String())) == nil
}

type Config struct {
	Library  string       `yaml:"library"`
	Format   string       `yaml:"format"`
	DataDir  string       `yaml:"data_dir"`
	LogLevel string       `yaml:"log_level" validate:"loglevel"`
	Output   string       `yaml:"output" validate:"output"`
	Workers  int          `yaml:"workers" validate:"min=1"`
	Sweep    SweepConfig  `yaml:"sweep"`
	Sample   SampleConfig `yaml:"sample"`
}

// SweepConfig is a φ scan at fixed ψ.
type SweepConfig struct {
	Psi  float64 `yaml:"psi"`
	From float64 `yaml:"from" validate:"ltefield=To"`
	To   float64 `yaml:"to"`
	Step float64 `yaml:"step" validate:"gt=0"`
}

type SampleConfig struct {
	Count int    `yaml:"count" validate:"gte=0"`
	Seed  uint64 `yaml:"seed"`
}

func DefaultConfig() *Config {
	lib := os.Getenv("DUNBRACK_LIB")
	if lib == "" {
		lib = DefaultLibrary
	}
	return &Config{
		Library:  lib,
		Format:   "auto",
		DataDir:  DefaultDataDir,
		LogLevel: DefaultLogLevel,
		Output:   "table",
		Workers:  DefaultWorkers,
		Sweep: SweepConfig{
			Psi:  DefaultPsi,
			From: -180,
			To:   180,
			Step: DefaultStep,
		},
		Sample: SampleConfig{
			Count: DefaultSamples,
			Seed:  1,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the struct tags and reports the first failing field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		fe := errs[0]
		return fmt.Errorf("%w: %s %v (%s)", ErrInvalid, strings.ToLower(fe.Namespace()), fe.Value(), fe.Tag())
	}
	return fmt.Errorf("%w: %v", ErrInvalid, err)
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalid, c.LogLevel)
	}
	return l, nil
}
