package config

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"

	"github.com/joho/godotenv"
)

// envFiles are tried in order; variables already set in the process win.
var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads every env file present in dir and returns the ones loaded.
func loadEnvFiles(dir string) ([]string, error) {
	var loaded []string
	for _, name := range envFiles {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return loaded, err
		}
		loaded = append(loaded, p)
	}
	return loaded, nil
}

var envRef = regexp.MustCompile(`\$\{[A-Za-z_][A-Za-z0-9_]*\}`)

// expandEnv replaces ${NAME} references with environment values. Other
// dollar signs are left alone; unset names expand to the empty string.
func expandEnv(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(ref []byte) []byte {
		return []byte(os.Getenv(string(ref[2 : len(ref)-1])))
	})
}
