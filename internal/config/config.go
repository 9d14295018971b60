// Package config resolves and validates the run configuration from command
// line flags, CONTENT_FILTER_* environment variables and an optional dotenv
// file. Flags take precedence over the environment, the environment over
// defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/eunmann/content-filter/pkg/fileutil"
	"github.com/eunmann/content-filter/pkg/pipeline"
	"github.com/eunmann/content-filter/pkg/report"
)

// EnvPrefix is the prefix of environment variables read into the config.
const EnvPrefix = "CONTENT_FILTER"

// DefaultEnvFile is loaded when present and no explicit env file is given.
const DefaultEnvFile = ".env"

// Keys shared by flags, viper and environment variables.
const (
	KeyOutput           = "output"
	KeyPrefix           = "prefix"
	KeyAppend           = "append"
	KeyStats            = "stats"
	KeyFullStats        = "full-stats"
	KeyPreserveExisting = "preserve-existing"
	KeyLogLevel         = "log-level"
	KeyLogHuman         = "log-human"
	KeyEnvFile          = "env-file"
	KeyHistoryDB        = "history-db"
)

// Config is the resolved configuration of one run.
type Config struct {
	Inputs           []string `validate:"required,min=1,dive,required"`
	OutputDir        string   `validate:"required"`
	Prefix           string
	Append           bool
	Stats            bool
	FullStats        bool
	PreserveExisting bool
	LogLevel         string `validate:"omitempty,oneof=trace debug info warn error disabled"`
	LogHuman         bool
	// HistoryDB is the SQLite file runs are recorded in. Empty disables it.
	HistoryDB string
}

// NewViper returns a viper instance with defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyOutput, ".")
	v.SetDefault(KeyLogLevel, "warn")
	return v
}

// LoadEnvFile loads path into the process environment without overriding
// variables that are already set. An empty path loads DefaultEnvFile when
// it exists.
func LoadEnvFile(path string) error {
	if path == "" {
		if !fileutil.Exists(DefaultEnvFile) {
			return nil
		}
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// FromViper builds a Config from v and the positional inputs.
func FromViper(v *viper.Viper, inputs []string) Config {
	return Config{
		Inputs:           inputs,
		OutputDir:        v.GetString(KeyOutput),
		Prefix:           v.GetString(KeyPrefix),
		Append:           v.GetBool(KeyAppend),
		Stats:            v.GetBool(KeyStats),
		FullStats:        v.GetBool(KeyFullStats),
		PreserveExisting: v.GetBool(KeyPreserveExisting),
		LogLevel:         strings.ToLower(v.GetString(KeyLogLevel)),
		LogHuman:         v.GetBool(KeyLogHuman),
		HistoryDB:        v.GetString(KeyHistoryDB),
	}
}

// Validate checks the config against its struct tags.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fieldName(fe)+": "+fieldMessage(fe))
	}
	return errors.New(strings.Join(messages, "; "))
}

// StatsLevel returns the report level selected by the stats flags.
func (c Config) StatsLevel() report.Level {
	return report.LevelFromFlags(c.Stats, c.FullStats)
}

// PipelineOptions returns the pipeline options for this config.
func (c Config) PipelineOptions() pipeline.Options {
	prune := pipeline.PruneAlways
	if c.PreserveExisting {
		prune = pipeline.PrunePreserveExisting
	}
	return pipeline.Options{
		OutputDir: c.OutputDir,
		Prefix:    c.Prefix,
		Append:    c.Append,
		Prune:     prune,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func fieldName(fe validator.FieldError) string {
	switch fe.StructField() {
	case "Inputs":
		return "inputs"
	case "OutputDir":
		return KeyOutput
	case "LogLevel":
		return KeyLogLevel
	}
	if strings.HasPrefix(fe.StructNamespace(), "Config.Inputs[") {
		return "inputs"
	}
	return strings.ToLower(fe.Field())
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "at least " + fe.Param() + " input file is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s] (got: %v)", fe.Param(), fe.Value())
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
