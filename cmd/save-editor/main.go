package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	editcli "github.com/silksave/save-editor/internal/cli"
	"github.com/silksave/save-editor/internal/config"
	"github.com/silksave/save-editor/internal/editor"
	"github.com/silksave/save-editor/internal/prompt"
)

const usageText = `save-editor                   interactive mode
   save-editor <path to userX.dat> <mode>
   save-editor show <path>
   save-editor export [--output file.json] <path>
   save-editor import <file.json> <path>

Modes:
   0 - Normal mode
   1 - Steel Soul mode (modded - can continue after death)
   2 - Steel Soul mode (original permadeath)

Note: userX.dat where X is your save slot (1, 2, 3, etc.)`

func main() {
	app := &cli.App{
		Name:      "save-editor",
		Usage:     "Change the permadeath mode of a Hollow Knight Silksong save file",
		UsageText: usageText,
		Flags: []cli.Flag{
			editcli.LogLevelFlag,
			editcli.SettingsFileFlag,
			editcli.BackupSuffixFlag,
		},
		Action: runSetMode,
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Print the envelope layout and current mode of a save",
				ArgsUsage: "<path>",
				Action:    runShow,
			},
			{
				Name:      "export",
				Usage:     "Decrypt a save to JSON",
				ArgsUsage: "<path>",
				Flags:     []cli.Flag{editcli.OutputFileFlag},
				Action:    runExport,
			},
			{
				Name:      "import",
				Usage:     "Encrypt a JSON document into a save (the old save is backed up)",
				ArgsUsage: "<file.json> <path>",
				Action:    runImport,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func newEditor(c *cli.Context) (*editcli.Config, *editor.Editor, error) {
	cfg, err := editcli.NewConfigFromCLI(c)
	if err != nil {
		return nil, nil, err
	}
	ed, err := editor.New(cfg.Logger, cfg.Config)
	if err != nil {
		return nil, nil, err
	}
	return cfg, ed, nil
}

func runSetMode(c *cli.Context) error {
	cfg, ed, err := newEditor(c)
	if err != nil {
		return err
	}

	var (
		path string
		mode editor.Mode
	)
	switch c.NArg() {
	case 0:
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			cli.ShowAppHelpAndExit(c, 1)
		}
		path, mode, err = interactive(cfg)
		if errors.Is(err, prompt.ErrCancelled) {
			fmt.Println("Operation cancelled.")
			return nil
		}
		if err != nil {
			return err
		}
	case 2:
		path = c.Args().Get(0)
		mode, err = editor.ParseMode(c.Args().Get(1))
		if err != nil {
			return err
		}
	default:
		cli.ShowAppHelpAndExit(c, 1)
	}

	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("file %s does not exist", path)
	}

	fmt.Printf("\nModifying permadeathMode to %d...\n", int(mode))
	res, err := ed.SetMode(c.Context, path, mode)
	if err != nil {
		return err
	}
	fmt.Printf("Backup created: %s\n", res.BackupPath)
	fmt.Printf("permadeathMode changed from %d (%s) to %d (%s)\n",
		int(res.OldMode), res.OldMode, int(res.NewMode), res.NewMode)

	rememberMode(cfg, mode)

	fmt.Println()
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("FILE MODIFIED SUCCESSFULLY!")
	fmt.Printf("Backup saved in: %s\n", res.BackupPath)
	fmt.Println(strings.Repeat("=", 50))
	return nil
}

func interactive(cfg *editcli.Config) (string, editor.Mode, error) {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("  HOLLOW KNIGHT SILKSONG - SAVE FILE EDITOR")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()

	settings, err := config.LoadSettings(cfg.SettingsPath)
	if err != nil {
		cfg.Logger.Warn("Ignoring unreadable settings", "path", cfg.SettingsPath, "err", err)
		settings = &config.Settings{}
	}

	p := prompt.New(os.Stdin, os.Stdout)
	path, fresh, err := p.SavePath(settings.SavePath)
	if err != nil {
		return "", 0, err
	}
	if fresh {
		settings.SavePath = path
		if err := settings.Save(cfg.SettingsPath); err != nil {
			cfg.Logger.Warn("Could not remember save path", "err", err)
		}
	}

	mode, err := p.Mode()
	if err != nil {
		return "", 0, err
	}
	return path, mode, nil
}

func rememberMode(cfg *editcli.Config, mode editor.Mode) {
	settings, err := config.LoadSettings(cfg.SettingsPath)
	if err != nil {
		cfg.Logger.Debug("Skipping settings update", "err", err)
		return
	}
	m := int(mode)
	settings.LastMode = &m
	if err := settings.Save(cfg.SettingsPath); err != nil {
		cfg.Logger.Debug("Skipping settings update", "err", err)
	}
}

func runShow(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: save-editor show <path>")
	}
	_, ed, err := newEditor(c)
	if err != nil {
		return err
	}
	r, err := ed.Inspect(c.Args().First())
	if err != nil {
		return err
	}

	fmt.Printf("File:             %s (%d bytes)\n", r.Path, r.FileSize)
	fmt.Printf("Length prefix:    %d (%d bytes)\n", r.DeclaredLength, r.PrefixLength)
	fmt.Printf("Payload:          %d bytes\n", r.PayloadLength)
	if r.DeclaredLength != r.PayloadLength {
		fmt.Println("                  warning: length prefix does not match payload")
	}
	fmt.Printf("Document:         %d bytes\n", r.CleartextSize)
	if r.HasMode {
		fmt.Printf("permadeathMode:   %d (%s)\n", int(r.Mode), r.Mode)
	} else {
		fmt.Println("permadeathMode:   not found in save file")
	}
	return nil
}

func runExport(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: save-editor export [--output file.json] <path>")
	}
	cfg, ed, err := newEditor(c)
	if err != nil {
		return err
	}
	doc, err := ed.Export(c.Args().First())
	if err != nil {
		return err
	}

	if cfg.OutputFile == "" {
		fmt.Printf("%s\n", doc)
		return nil
	}
	if err := os.WriteFile(cfg.OutputFile, doc, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	cfg.Logger.Info("Document written to file", "file", cfg.OutputFile, "bytes", len(doc))
	return nil
}

func runImport(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: save-editor import <file.json> <path>")
	}
	_, ed, err := newEditor(c)
	if err != nil {
		return err
	}
	backupPath, err := ed.Import(c.Context, c.Args().Get(0), c.Args().Get(1))
	if err != nil {
		return err
	}
	if backupPath != "" {
		fmt.Printf("Backup created: %s\n", backupPath)
	}
	fmt.Printf("Wrote %s\n", c.Args().Get(1))
	return nil
}
