package profile

import (
	"os"
	"testing"
)

func TestEngineProfileDefaults(t *testing.T) {
	clearEngineEnvVars()

	profile := &Profile{}
	profile.FromEnv()

	if profile.AnalyzerConcurrency != 8 {
		t.Errorf("AnalyzerConcurrency: expected 8, got %d", profile.AnalyzerConcurrency)
	}
	if profile.CacheCapacity != 1000 {
		t.Errorf("CacheCapacity: expected 1000, got %d", profile.CacheCapacity)
	}
	if profile.CacheTTLMinutes != 5 {
		t.Errorf("CacheTTLMinutes: expected 5, got %d", profile.CacheTTLMinutes)
	}
	if profile.PersistSnapshots {
		t.Error("PersistSnapshots: expected false by default")
	}
}

func TestEngineProfileFromEnv(t *testing.T) {
	clearEngineEnvVars()
	os.Setenv("NUTRISENSE_ANALYZER_CONCURRENCY", "4")
	os.Setenv("NUTRISENSE_CACHE_CAPACITY", "250")
	os.Setenv("NUTRISENSE_PERSIST_SNAPSHOTS", "true")
	defer clearEngineEnvVars()

	profile := &Profile{}
	profile.FromEnv()

	if profile.AnalyzerConcurrency != 4 {
		t.Errorf("AnalyzerConcurrency: expected 4, got %d", profile.AnalyzerConcurrency)
	}
	if profile.CacheCapacity != 250 {
		t.Errorf("CacheCapacity: expected 250, got %d", profile.CacheCapacity)
	}
	if !profile.PersistSnapshots {
		t.Error("PersistSnapshots: expected true")
	}
}

func TestEngineProfileRejectsBadValues(t *testing.T) {
	clearEngineEnvVars()
	os.Setenv("NUTRISENSE_ANALYZER_CONCURRENCY", "not-a-number")
	os.Setenv("NUTRISENSE_CACHE_CAPACITY", "-3")
	defer clearEngineEnvVars()

	profile := &Profile{}
	profile.FromEnv()

	if profile.AnalyzerConcurrency != 8 {
		t.Errorf("AnalyzerConcurrency: expected fallback 8, got %d", profile.AnalyzerConcurrency)
	}
	if profile.CacheCapacity != 1000 {
		t.Errorf("CacheCapacity: expected fallback 1000, got %d", profile.CacheCapacity)
	}
}

func TestValidateModeFallback(t *testing.T) {
	profile := &Profile{Mode: "weird", Data: t.TempDir(), Driver: "sqlite"}
	if err := profile.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if profile.Mode != "demo" {
		t.Errorf("Mode: expected demo fallback, got %q", profile.Mode)
	}
	if profile.DSN == "" {
		t.Error("DSN: expected sqlite DSN to be derived from data dir")
	}
}

func clearEngineEnvVars() {
	for _, envVar := range []string{
		"NUTRISENSE_ANALYZER_CONCURRENCY",
		"NUTRISENSE_CACHE_CAPACITY",
		"NUTRISENSE_CACHE_TTL_MINUTES",
		"NUTRISENSE_PERSIST_SNAPSHOTS",
	} {
		os.Unsetenv(envVar)
	}
}
