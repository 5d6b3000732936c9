package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// EnvPrefix is the prefix of environment variables read by the CLI.
const EnvPrefix = "MARKUPDOWN_"

var envFiles = []string{".env", ".env.local"}

// LoadEnvFiles loads .env and .env.local from dir into the process
// environment. Existing variables are not overwritten and missing files are
// skipped. It returns the files that were loaded.
func LoadEnvFiles(dir string) ([]string, error) {
	var loaded []string
	for _, name := range envFiles {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return loaded, ConfigFileError(p, err)
		}
		slog.Debug("Loaded environment file", slog.String("file", p))
		loaded = append(loaded, p)
	}
	return loaded, nil
}
