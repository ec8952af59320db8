package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBackupSuffix = ".backup"
	defaultMaxFileBytes = 64 << 20 // 64 MiB
)

type Config struct {
	// SettingsPath is the YAML file that remembers the last save path.
	SettingsPath string

	// BackupSuffix is appended to the save path to name the backup copy.
	BackupSuffix string

	// WriteTimeout bounds how long the final write keeps retrying while the
	// save file is locked (e.g. by the running game or a sync client).
	WriteTimeout time.Duration

	// MaxFileBytes caps how much of a save file is read into memory.
	MaxFileBytes int64
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		SettingsPath: strings.TrimSpace(os.Getenv("SAVE_EDITOR_SETTINGS")),
		BackupSuffix: getenv("SAVE_EDITOR_BACKUP_SUFFIX", defaultBackupSuffix),
	}

	if cfg.SettingsPath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("SAVE_EDITOR_SETTINGS is unset and no user config dir: %w", err)
		}
		cfg.SettingsPath = filepath.Join(dir, "silksave", "settings.yaml")
	}

	timeoutSecs := getenv("SAVE_EDITOR_WRITE_TIMEOUT_SECS", "10")
	n, err := strconv.Atoi(timeoutSecs)
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("SAVE_EDITOR_WRITE_TIMEOUT_SECS must be a positive integer, got %q", timeoutSecs)
	}
	cfg.WriteTimeout = time.Duration(n) * time.Second

	maxBytes := getenv("SAVE_EDITOR_MAX_FILE_BYTES", strconv.Itoa(defaultMaxFileBytes))
	m, err := strconv.ParseInt(maxBytes, 10, 64)
	if err != nil || m <= 0 {
		return nil, fmt.Errorf("SAVE_EDITOR_MAX_FILE_BYTES must be a positive integer, got %q", maxBytes)
	}
	cfg.MaxFileBytes = m

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields that callers may override after FromEnv.
func (c *Config) Validate() error {
	if c.SettingsPath == "" {
		return fmt.Errorf("settings path is empty")
	}
	if c.BackupSuffix == "" || strings.ContainsAny(c.BackupSuffix, `/\`) {
		return fmt.Errorf("backup suffix must be non-empty without path separators, got %q", c.BackupSuffix)
	}
	return nil
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}
