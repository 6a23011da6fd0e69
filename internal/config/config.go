// Package config implements the ambient configuration loader: an optional
// .env is loaded (a missing file is tolerated, not fatal), then a small
// set of named environment variables populate a Config value passed
// explicitly to constructors, never read ad hoc from os.Getenv deep in
// handler code.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds every environment-derived setting this module reads.
type Config struct {
	Port       string
	NumWorkers int
	ProofDir   string
}

const (
	defaultPort       = "3030"
	defaultNumWorkers = 2
	defaultProofDir   = "proofs"
)

// Load reads .env (if present) then the process environment, falling back
// to the documented defaults for anything unset.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("config: .env present but unreadable, continuing with process environment")
	}

	return Config{
		Port:       getEnvOr("PORT", defaultPort),
		NumWorkers: getEnvIntOr("NUM_WORKERS", defaultNumWorkers),
		ProofDir:   getEnvOr("PROOF_DIR", defaultProofDir),
	}
}

func getEnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.WithField(key, v).Warn("config: not an integer, using default")
		return fallback
	}
	return n
}
