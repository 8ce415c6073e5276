package depforge

import (
	"bufio"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Config holds raw KEY=VALUE settings from the config file plus
// DEPFORGE_* environment overrides.
type Config struct {
	Values map[string]string
}

// LoadConfig reads an optional KEY=VALUE config file and applies defaults.
// A missing file is not an error; the environment overlay still applies.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{Values: make(map[string]string)}

	file, err := os.Open(path)
	if err == nil {
		defer file.Close()
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}
			key := strings.TrimSpace(parts[0])
			val := strings.TrimSpace(parts[1])
			val = strings.Trim(val, `"'`)
			cfg.Values[key] = val
		}
		if err := scanner.Err(); err != nil {
			return cfg, err
		}
	}

	mergeEnvOverrides(cfg)

	if cfg.Values["DEPFORGE_WORK"] == "" {
		cfg.Values["DEPFORGE_WORK"] = filepath.Join(os.TempDir(), "depforge")
	}
	if cfg.Values["DEPFORGE_CACHE"] == "" {
		home, _ := os.UserCacheDir()
		if home == "" {
			home = os.TempDir()
		}
		cfg.Values["DEPFORGE_CACHE"] = filepath.Join(home, "depforge", "download")
	}

	return cfg, nil
}

// Merge DEPFORGE_* env overrides
func mergeEnvOverrides(cfg *Config) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "DEPFORGE_") {
			parts := strings.SplitN(env, "=", 2)
			if len(parts) == 2 {
				cfg.Values[parts[0]] = parts[1]
			}
		}
	}
}

// Get returns the configured value for key, or fallback when unset.
func (c *Config) Get(key, fallback string) string {
	if v := c.Values[key]; v != "" {
		return v
	}
	return fallback
}

// GetInt returns the configured integer for key, or fallback when unset
// or unparsable.
func (c *Config) GetInt(key string, fallback int) int {
	v := c.Values[key]
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// DefaultJobs picks the compile fan-out when none is configured.
func DefaultJobs() int {
	n := runtime.NumCPU()
	if n < 1 {
		n = 1
	}
	return n
}
