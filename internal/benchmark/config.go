package benchmark

import (
	"errors"
	"fmt"

	"github.com/drakos74/free-knn/internal/math/ml"
	"github.com/rs/zerolog"
)

// ConfigKey is the key of the benchmark config file.
const ConfigKey = "knn"

// Config captures the knobs of a benchmark run.
type Config struct {
	// Train is the path of the training csv file.
	Train string `json:"train"`
	// Validation is the path of the held-out csv file.
	Validation string `json:"validation"`
	// TrainLimit caps the training records read, 0 reads all of them.
	TrainLimit int `json:"train_limit"`
	// ValidationLimit caps the validation records read, 0 reads all of them.
	ValidationLimit int `json:"validation_limit"`
	// Model is the classifier config.
	Model ml.Config `json:"model"`
	// Report prints the per class summary after the run figures.
	Report bool `json:"report"`
	// Store persists the run report as json.
	Store bool `json:"store"`
	// Metrics is the prometheus textfile to write, empty disables it.
	Metrics  string `json:"metrics"`
	LogLevel string `json:"log_level"`
}

// DefaultConfig returns the config matching the plain mnist run.
func DefaultConfig() Config {
	return Config{
		Train:      "mnist_train.csv",
		Validation: "mnist_test.csv",
		Model:      ml.DefaultConfig(),
		LogLevel:   zerolog.InfoLevel.String(),
	}
}

// Validate verifies the config is runnable.
func (c Config) Validate() error {
	if c.Train == "" {
		return errors.New("train file must be set")
	}
	if c.Validation == "" {
		return errors.New("validation file must be set")
	}
	if c.TrainLimit < 0 || c.ValidationLimit < 0 {
		return fmt.Errorf("limits must be >= 0 (got %d and %d)", c.TrainLimit, c.ValidationLimit)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level '%s': %w", c.LogLevel, err)
	}
	return c.Model.Validate()
}

// Level returns the configured log level, info if it cannot be parsed.
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return level
}
