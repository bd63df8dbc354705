package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the insights server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where nutrisense stores its own data
	DSN string
	// Driver is the database driver (sqlite)
	Driver string
	// Version is the current version of server
	Version string

	// Engine configuration
	AnalyzerConcurrency int  // NUTRISENSE_ANALYZER_CONCURRENCY (default: 8)
	CacheCapacity       int  // NUTRISENSE_CACHE_CAPACITY (default: 1000)
	CacheTTLMinutes     int  // NUTRISENSE_CACHE_TTL_MINUTES (default: 5)
	PersistSnapshots    bool // NUTRISENSE_PERSIST_SNAPSHOTS (default: false)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from NUTRISENSE_* environment variables.
func (p *Profile) FromEnv() {
	getIntEnv := func(key string, defaultValue int) int {
		val := os.Getenv(key)
		if val == "" {
			return defaultValue
		}
		var n int
		if _, err := fmt.Sscanf(val, "%d", &n); err != nil || n <= 0 {
			return defaultValue
		}
		return n
	}

	p.AnalyzerConcurrency = getIntEnv("NUTRISENSE_ANALYZER_CONCURRENCY", 8)
	p.CacheCapacity = getIntEnv("NUTRISENSE_CACHE_CAPACITY", 1000)
	p.CacheTTLMinutes = getIntEnv("NUTRISENSE_CACHE_TTL_MINUTES", 5)
	p.PersistSnapshots = getEnvOrDefault("NUTRISENSE_PERSIST_SNAPSHOTS", "false") == "true"
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "nutrisense")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/nutrisense"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("nutrisense_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	return nil
}
