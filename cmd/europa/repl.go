package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"

	"github.com/dueldanov/europa/internal/engine"
	"github.com/dueldanov/europa/internal/environment"
	"github.com/dueldanov/europa/internal/value"
)

const prompt = "> "

// lineReader yields one input line per call; io.EOF ends the session.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

// scanReader reads lines from a plain reader when stdin is not the terminal
type scanReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (s *scanReader) Prompt(p string) (string, error) {
	fmt.Fprint(s.out, p)
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

type repl struct {
	engine *engine.Engine
	env    *environment.Environment
	ctx    context.Context
	out    io.Writer
	errOut io.Writer
}

// runInteractive drives the REPL from stdin. The terminal gets line
// editing and a persistent history file; other readers are read plainly.
func (r *repl) runInteractive(stdin io.Reader, historyFile string) error {
	if stdin != os.Stdin {
		return r.loop(&scanReader{scanner: bufio.NewScanner(stdin), out: r.out}, nil)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := historyPath(historyFile)
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	return r.loop(ln, ln.AppendHistory)
}

// historyPath places relative history files in the home directory
func historyPath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, name)
}

func (r *repl) loop(in lineReader, remember func(string)) error {
	for {
		line, err := in.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out)
			return nil
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return errors.Wrap(err, "read input")
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if remember != nil {
			remember(line)
		}

		switch input {
		case "exit":
			return nil
		case ":env":
			for _, binding := range bindings(r.env) {
				fmt.Fprintln(r.out, binding)
			}
			continue
		case ":help":
			fmt.Fprintln(r.out, "Commands:")
			fmt.Fprintln(r.out, "  :env  - List global bindings")
			fmt.Fprintln(r.out, "  :help - Show this help")
			fmt.Fprintln(r.out, "  exit  - Leave the REPL (or Ctrl-D)")
			continue
		}

		// a failed input leaves the session as it was before the line
		snap := r.env.Snapshot()
		v, err := r.engine.EvalContext(r.ctx, line, r.env)
		if err != nil {
			r.env.Restore(snap)
			displayError(r.errOut, err)
			continue
		}
		if v != nil && v != value.Nil {
			fmt.Fprintln(r.out, value.Quote(v))
		}
	}
}
