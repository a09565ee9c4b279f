package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads local env files before the YAML config is read, so
// overrides like DB_PASSWORD and JWT_SECRET are visible to config.Load.
// Priority: .env.local > .env; godotenv.Load never overwrites vars that
// are already set, so deployment env vars always win. Returns the files
// actually loaded.
func LoadDotEnv() []string {
	var loaded []string
	for _, f := range []string{".env.local", ".env"} {
		if _, err := os.Stat(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}
