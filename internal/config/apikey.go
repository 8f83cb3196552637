package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables checked for the Gemini API key, in order
var apiKeyEnvVars = []string{"GEMINI_API_KEY", "API_KEY"}

// ErrNoAPIKey is returned when no API key can be found
var ErrNoAPIKey = errors.New("gemini API key not set (export GEMINI_API_KEY or add it to .env)")

// LoadEnv loads variables from dotenv files into the process environment
// without overriding variables that are already set. With no arguments it
// reads .env in the working directory. Missing files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// APIKey looks the key up in APIKeyEnv (if set), then GEMINI_API_KEY, then
// API_KEY. Call LoadEnv first to pick up .env files.
func (g GeminiConfig) APIKey() (string, error) {
	vars := apiKeyEnvVars
	if g.APIKeyEnv != "" {
		vars = append([]string{g.APIKeyEnv}, vars...)
	}
	for _, name := range vars {
		if key := os.Getenv(name); key != "" {
			return key, nil
		}
	}
	return "", ErrNoAPIKey
}
