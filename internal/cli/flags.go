package cli

import "github.com/urfave/cli/v2"

var (
	LogLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Value:   "warn",
		Usage:   "Log level (debug, info, warn, error)",
		EnvVars: []string{"LOG_LEVEL"},
	}

	SettingsFileFlag = &cli.StringFlag{
		Name:    "settings",
		Usage:   "Path to the settings file that remembers the last save path",
		EnvVars: []string{"SAVE_EDITOR_SETTINGS"},
	}

	BackupSuffixFlag = &cli.StringFlag{
		Name:    "backup-suffix",
		Usage:   "Suffix appended to the save path for the backup copy",
		EnvVars: []string{"SAVE_EDITOR_BACKUP_SUFFIX"},
	}

	OutputFileFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Write the decrypted document to this file instead of stdout",
	}
)
