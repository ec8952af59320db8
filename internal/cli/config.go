package cli

import (
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/silksave/save-editor/internal/config"
)

type Config struct {
	*config.Config

	LogLevel   string
	OutputFile string
	Logger     *slog.Logger
}

func GetLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewConfigFromCLI layers command-line flags over the environment defaults.
func NewConfigFromCLI(c *cli.Context) (*Config, error) {
	base, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	if v := c.String(SettingsFileFlag.Name); v != "" {
		base.SettingsPath = v
	}
	if v := c.String(BackupSuffixFlag.Name); v != "" {
		base.BackupSuffix = v
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}

	cfg := &Config{
		Config:     base,
		LogLevel:   c.String(LogLevelFlag.Name),
		OutputFile: c.String(OutputFileFlag.Name),
	}
	cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: GetLogLevel(cfg.LogLevel)}))
	return cfg, nil
}
