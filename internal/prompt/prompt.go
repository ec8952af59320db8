// Package prompt asks the user for a save path and a mode on a terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/silksave/save-editor/internal/editor"
)

// DefaultSavePath is the usual location of a save slot on Windows.
const DefaultSavePath = `C:\Users\{USERNAME}\AppData\LocalLow\Team Cherry\Hollow Knight Silksong\{PROFILE_ID}\userX.dat`

// ErrCancelled is returned when the user declines to continue.
var ErrCancelled = errors.New("operation cancelled")

type Prompter struct {
	in  *bufio.Reader
	out io.Writer

	// exists reports whether a save path points at a file.
	exists func(string) bool
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:     bufio.NewReader(in),
		out:    out,
		exists: fileExists,
	}
}

// SavePath offers the remembered path, if it still exists, and otherwise asks
// until the user names an existing file or gives up. fresh is true when the
// returned path was typed in rather than taken from saved.
func (p *Prompter) SavePath(saved string) (path string, fresh bool, err error) {
	if saved != "" && p.exists(saved) {
		fmt.Fprintf(p.out, "Found saved path: %s\n", saved)
		answer, err := p.ask("Use this path? (Y/n): ")
		if err != nil {
			return "", false, err
		}
		if !strings.EqualFold(answer, "n") {
			return saved, false, nil
		}
	}

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "Please enter your save file path.")
	fmt.Fprintf(p.out, "Default template: %s\n", DefaultSavePath)
	fmt.Fprintln(p.out, "Where:")
	fmt.Fprintln(p.out, "  {USERNAME} = Your Windows username")
	fmt.Fprintln(p.out, "  {PROFILE_ID} = Your profile ID (numbers like 114294607)")
	fmt.Fprintln(p.out, "  X = Your save slot number (1, 2, 3, etc.)")
	fmt.Fprintln(p.out)

	for {
		answer, err := p.ask("Enter the full path to your userX.dat file: ")
		if err != nil {
			return "", false, err
		}
		path := strings.Trim(answer, `"`)
		if path != "" && p.exists(path) {
			return path, true, nil
		}

		fmt.Fprintf(p.out, "Error: File not found at %s\n", path)
		fmt.Fprintln(p.out, "Please check the path and try again.")
		retry, err := p.ask("Try again? (Y/n): ")
		if err != nil {
			return "", false, err
		}
		if strings.EqualFold(retry, "n") {
			return "", false, ErrCancelled
		}
	}
}

// Mode asks for a permadeath mode until a valid one is given.
func (p *Prompter) Mode() (editor.Mode, error) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "Select the desired permadeath mode:")
	for _, m := range editor.Modes() {
		fmt.Fprintf(p.out, "  %d - %s\n", int(m), m)
	}
	fmt.Fprintln(p.out)

	for {
		answer, err := p.ask("Enter your choice (0, 1, or 2): ")
		if err != nil {
			return 0, err
		}
		m, err := editor.ParseMode(answer)
		if err == nil {
			return m, nil
		}
		fmt.Fprintln(p.out, "Please enter 0, 1, or 2")
	}
}

// ask prints question and returns the trimmed reply. A final line without a
// newline still counts; io.EOF is returned only when nothing was read.
func (p *Prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
