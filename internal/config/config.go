package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvAPIKey  = "OPENAI_API_KEY"
	EnvBaseURL = "OPENAI_BASE_URL"

	DefaultEnvFile = ".env"
)

var ErrMissingCredential = errors.New("API key not found; set the " + EnvAPIKey + " environment variable")

type LookupFunc func(key string) (string, bool)

// Remote is everything needed to reach the hosted speech endpoints.
type Remote struct {
	APIKey  string
	BaseURL string
}

type Options struct {
	// EnvFile is a dotenv file to read. Empty means DefaultEnvFile, which is
	// skipped silently when absent; an explicit file must exist.
	EnvFile string

	// UserEnvFile is an optional per-user dotenv file consulted after EnvFile.
	UserEnvFile string

	Lookup LookupFunc
}

// LoadRemote resolves the credential and endpoint. Precedence is process
// environment, then EnvFile, then UserEnvFile. Files are only read, never
// exported into the environment.
func LoadRemote(opts Options) (Remote, error) {
	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	fileValues, err := readEnvFile(opts.EnvFile)
	if err != nil {
		return Remote{}, err
	}
	userValues, err := readOptionalEnvFile(opts.UserEnvFile)
	if err != nil {
		return Remote{}, err
	}

	get := func(key string) string {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
		if value := strings.TrimSpace(fileValues[key]); value != "" {
			return value
		}
		return strings.TrimSpace(userValues[key])
	}

	remote := Remote{
		APIKey:  get(EnvAPIKey),
		BaseURL: get(EnvBaseURL),
	}
	if remote.APIKey == "" {
		return Remote{}, ErrMissingCredential
	}

	return remote, nil
}

func readEnvFile(path string) (map[string]string, error) {
	if strings.TrimSpace(path) == "" {
		return readOptionalEnvFile(DefaultEnvFile)
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return values, nil
}

func readOptionalEnvFile(path string) (map[string]string, error) {
	if strings.TrimSpace(path) == "" {
		return map[string]string{}, nil
	}

	values, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return values, nil
}
