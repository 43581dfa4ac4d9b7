// Package config assembles runtime settings from .env, the environment
// and command-line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/abhisek/lessonkit/internal/generation"
	"github.com/abhisek/lessonkit/internal/llm"
)

// ErrMissingAPIKey is returned when the selected provider has no key.
var ErrMissingAPIKey = errors.New("API key not found")

// MissingKeyError names the variable the user has to set.
type MissingKeyError struct {
	Var string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s not found. Please check your .env file.", e.Var)
}

func (e *MissingKeyError) Unwrap() error { return ErrMissingAPIKey }

type Config struct {
	LLM llm.Config

	ReferenceDir     string
	ReferencePattern string
	OutputDir        string
	Policy           generation.Policy

	// DBPath enables the LLM request log when non-empty.
	DBPath string

	LogMode string
	LogFile string

	Addr string
}

// Load reads the configuration like Read and fails with a
// *MissingKeyError when no API key is available.
func Load(envFile string) (*Config, error) {
	cfg, err := Read(envFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read loads envFile (".env" when empty; a missing file is fine) and
// builds the configuration without checking the API key. Commands that
// never call the model use it.
func Read(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := &Config{
		LLM:              llm.ConfigFromEnv(),
		ReferenceDir:     envOr("LESSONKIT_REFERENCE_DIR", "reference_materials"),
		ReferencePattern: os.Getenv("LESSONKIT_REFERENCE_PATTERN"),
		OutputDir:        envOr("LESSONKIT_OUTPUT_DIR", "."),
		DBPath:           os.Getenv("LESSONKIT_DB"),
		LogMode:          envOr("LESSONKIT_LOG_MODE", "dev"),
		LogFile:          os.Getenv("LESSONKIT_LOG_FILE"),
		Addr:             envOr("LESSONKIT_ADDR", ":8080"),
	}

	policy, err := generation.ParsePolicy(os.Getenv("LESSONKIT_ON_FAILURE"))
	if err != nil {
		return nil, err
	}
	cfg.Policy = policy
	return cfg, nil
}

// Validate checks the LLM provider selection and key.
func (c *Config) Validate() error {
	if !c.LLM.HasKey() {
		switch c.LLM.Provider {
		case "gemini", "openai", "anthropic", "openrouter":
			return &MissingKeyError{Var: c.LLM.KeyVar()}
		}
	}
	return c.LLM.Validate()
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
