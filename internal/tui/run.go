package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// RunConfig wires the editor to a terminal.
type RunConfig struct {
	Input     io.Reader
	Output    io.Writer
	AltScreen bool
}

// Run drives the editor until the user quits or ctx is cancelled, and
// returns its final state.
func Run(ctx context.Context, editor NoteEditor, cfg RunConfig) (NoteEditor, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.Input != nil {
		opts = append(opts, tea.WithInput(cfg.Input))
	}
	if cfg.Output != nil {
		opts = append(opts, tea.WithOutput(cfg.Output))
	}
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
		defer cleanupTerminal()
	}

	final, err := tea.NewProgram(editor, opts...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return editor, ctx.Err()
		}
		return editor, fmt.Errorf("note editor: %w", err)
	}

	m, ok := final.(NoteEditor)
	if !ok {
		return editor, fmt.Errorf("note editor: unexpected model %T", final)
	}
	return m, nil
}

// cleanupTerminal restores the terminal if the program exits abnormally.
func cleanupTerminal() {
	// Best-effort; write errors are ignored.
	_, _ = os.Stdout.Write([]byte("\033[?1049l")) // Exit alternate screen
	_, _ = os.Stdout.Write([]byte("\033[?25h"))   // Show cursor
	_, _ = os.Stdout.Write([]byte("\033[m"))      // Reset colors
}
