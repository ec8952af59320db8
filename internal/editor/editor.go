// Package editor applies edits to save files on disk. Every write is preceded
// by a verified backup, and the original is replaced only after the new
// contents were fully built in memory.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/crypto/blake2b"

	"github.com/silksave/save-editor/internal/config"
	"github.com/silksave/save-editor/internal/document"
	"github.com/silksave/save-editor/internal/savefile"
)

// ModeField is the document path of the permadeath setting.
const ModeField = "playerData.permadeathMode"

const (
	initialInterval = 100 * time.Millisecond
	maxInterval     = 2 * time.Second
	multiplier      = 2.0
)

type Editor struct {
	logger *slog.Logger
	cfg    *config.Config
}

func New(logger *slog.Logger, cfg *config.Config) (*Editor, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	return &Editor{logger: logger, cfg: cfg}, nil
}

// Result describes a completed SetMode.
type Result struct {
	Path       string
	BackupPath string
	OldMode    Mode
	NewMode    Mode
}

// Report is what Inspect finds in a save file.
type Report struct {
	Path           string
	FileSize       int
	DeclaredLength int
	PayloadLength  int
	PrefixLength   int
	CleartextSize  int
	Mode           Mode
	HasMode        bool
}

// SetMode rewrites the permadeath mode of the save at path.
func (e *Editor) SetMode(ctx context.Context, path string, mode Mode) (*Result, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMode, int(mode))
	}

	data, err := e.readSave(path)
	if err != nil {
		return nil, err
	}
	backupPath, err := e.backup(path, data)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("Decrypting save", "path", path, "bytes", len(data))
	doc, err := e.decode(path, data)
	if err != nil {
		return nil, err
	}

	old, err := doc.Int(ModeField)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ModeField, err)
	}
	updated, err := doc.Set(ModeField, int(mode))
	if err != nil {
		return nil, err
	}

	out, err := savefile.Encode(updated.Bytes())
	if err != nil {
		return nil, fmt.Errorf("encode save: %w", err)
	}
	if err := e.replace(ctx, path, out); err != nil {
		return nil, err
	}

	e.logger.Info("Permadeath mode changed",
		"path", path,
		"old", int(old),
		"new", int(mode),
	)
	return &Result{
		Path:       path,
		BackupPath: backupPath,
		OldMode:    Mode(old),
		NewMode:    mode,
	}, nil
}

// Export returns the decrypted save document, indented.
func (e *Editor) Export(path string) ([]byte, error) {
	data, err := e.readSave(path)
	if err != nil {
		return nil, err
	}
	doc, err := e.decode(path, data)
	if err != nil {
		return nil, err
	}
	return doc.Pretty(), nil
}

// Import encrypts the JSON document at jsonPath into the save at path. An
// existing save is backed up first. It returns the backup path, or "" when
// there was nothing to back up.
func (e *Editor) Import(ctx context.Context, jsonPath, path string) (string, error) {
	text, err := readFileLimited(jsonPath, e.cfg.MaxFileBytes)
	if err != nil {
		return "", err
	}
	doc, err := document.ParseLenient(text)
	if err != nil {
		return "", fmt.Errorf("%s: %w", jsonPath, err)
	}
	out, err := savefile.Encode(doc.Bytes())
	if err != nil {
		return "", fmt.Errorf("encode save: %w", err)
	}

	var backupPath string
	existing, err := readFileLimited(path, e.cfg.MaxFileBytes)
	switch {
	case err == nil:
		if backupPath, err = e.backup(path, existing); err != nil {
			return "", err
		}
	case errors.Is(err, fs.ErrNotExist):
		e.logger.Debug("No existing save to back up", "path", path)
	default:
		return "", err
	}

	if err := e.replace(ctx, path, out); err != nil {
		return "", err
	}
	e.logger.Info("Imported document", "from", jsonPath, "to", path, "bytes", len(out))
	return backupPath, nil
}

// Inspect decodes the save at path without modifying anything.
func (e *Editor) Inspect(path string) (*Report, error) {
	data, err := e.readSave(path)
	if err != nil {
		return nil, err
	}
	env, cleartext, err := savefile.DecodeEnvelope(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	r := &Report{
		Path:           path,
		FileSize:       len(data),
		DeclaredLength: env.Length,
		PayloadLength:  len(env.Payload),
		PrefixLength:   env.PrefixLen,
		CleartextSize:  len(cleartext),
	}
	doc, err := document.Parse(cleartext)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if n, err := doc.Int(ModeField); err == nil {
		r.Mode = Mode(n)
		r.HasMode = true
	}
	return r, nil
}

func (e *Editor) readSave(path string) ([]byte, error) {
	data, err := readFileLimited(path, e.cfg.MaxFileBytes)
	if err != nil {
		return nil, fmt.Errorf("read save: %w", err)
	}
	return data, nil
}

func (e *Editor) decode(path string, data []byte) (*document.Document, error) {
	env, cleartext, err := savefile.DecodeEnvelope(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if !env.LengthMatches() {
		e.logger.Warn("Length prefix disagrees with payload; using payload",
			"path", path,
			"declared", env.Length,
			"actual", len(env.Payload),
		)
	}
	doc, err := document.Parse(cleartext)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return doc, nil
}

// backup writes data next to path and checks the copy reads back identical.
func (e *Editor) backup(path string, data []byte) (string, error) {
	backupPath := path + e.cfg.BackupSuffix

	perm := fs.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		perm = fi.Mode().Perm()
	}
	if err := os.WriteFile(backupPath, data, perm); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}

	written, err := os.ReadFile(backupPath)
	if err != nil {
		return "", fmt.Errorf("verify backup: %w", err)
	}
	if blake2b.Sum256(written) != blake2b.Sum256(data) {
		return "", fmt.Errorf("verify backup: %s does not match %s", backupPath, path)
	}

	e.logger.Info("Backup created", "path", backupPath, "bytes", len(data))
	return backupPath, nil
}

// replace atomically swaps the file at path for data. The rename is retried
// with exponential backoff while it fails, up to the configured write timeout.
func (e *Editor) replace(ctx context.Context, path string, data []byte) error {
	perm := fs.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		perm = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	retries := 0
	rename := func() (struct{}, error) {
		if retries > 0 {
			e.logger.Info("Retrying save write", "path", path, "retries", retries)
		}
		retries++
		return struct{}{}, os.Rename(tmpPath, path)
	}

	exponentialBackoff := backoff.NewExponentialBackOff()
	exponentialBackoff.InitialInterval = initialInterval
	exponentialBackoff.MaxInterval = maxInterval
	exponentialBackoff.Multiplier = multiplier

	_, err = backoff.Retry(
		ctx,
		rename,
		backoff.WithBackOff(exponentialBackoff),
		backoff.WithMaxElapsedTime(e.cfg.WriteTimeout),
		backoff.WithNotify(func(err error, next time.Duration) {
			e.logger.Warn("Save file busy", "path", path, "err", err, "next", next)
		}),
	)
	if err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func readFileLimited(path string, max int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := io.ReadAll(io.LimitReader(f, max+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if int64(len(b)) > max {
		return nil, fmt.Errorf("%s is too large (max %d bytes)", path, max)
	}
	return b, nil
}
