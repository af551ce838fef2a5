package lox

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"go.followtheprocess.codes/lox/internal/config"
	"go.followtheprocess.codes/lox/internal/interp/builtins"
	"go.followtheprocess.codes/lox/internal/syntax/parser"
)

// REPL implements the interactive session.
//
// Each submitted chunk of input is compiled and executed independently
// against one persistent [Session], so globals defined on earlier lines
// remain visible. Compile and runtime errors are printed but never exit the
// session; only Ctrl+D (EOF), or a failure reading input, does.
func (l Lox) REPL(cfg config.Config) error {
	fmt.Fprintf(l.stdout, "Lox %s REPL\nCtrl+C cancels input, Ctrl+D exits.\n", l.version)

	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	historyPath := cfg.REPL.HistoryFile
	if !filepath.IsAbs(historyPath) {
		if home, err := os.UserHomeDir(); err == nil {
			historyPath = filepath.Join(home, historyPath)
		}
	}

	if f, err := os.Open(historyPath); err == nil {
		_, _ = line.ReadHistory(f)
		_ = f.Close()
	}

	defer func() {
		if f, err := os.Create(historyPath); err == nil {
			_, _ = line.WriteHistory(f)
			_ = f.Close()
		}
	}()

	session := NewSession(l.stdout, builtins.Standard())

	for {
		code, ok := l.read(line, cfg)
		if !ok {
			fmt.Fprintln(l.stdout)
			return nil
		}

		if strings.TrimSpace(code) == "" {
			continue
		}

		compiled := session.Compile("repl", []byte(code), false)
		l.report(compiled.Diagnostics)

		if compiled.Errored() {
			continue
		}

		if err := session.Execute(compiled); err != nil {
			fmt.Fprintln(l.stderr, errorStyle.Text(err.Error()))
			continue
		}

		line.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// read reads one complete chunk of input, prompting for continuation lines
// while a probe parse reports that the input ran out mid-construct (e.g. an
// unclosed block). It returns false when the user closes the session.
func (l Lox) read(line *liner.State, cfg config.Config) (string, bool) {
	var b strings.Builder

	for {
		prompt := cfg.REPL.Prompt
		if b.Len() > 0 {
			prompt = cfg.REPL.Continuation
		}

		text, err := line.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}

		if errors.Is(err, liner.ErrPromptAborted) {
			// Ctrl+C drops the input gathered so far
			return "", true
		}

		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}

		b.WriteString(text)

		src := b.String()

		// Probe parse with a throwaway parser: an error at EOF means the
		// construct is unfinished and we should keep reading
		probe := parser.New("repl", []byte(src))
		if _, err := probe.Parse(); err != nil && probe.Incomplete() {
			continue
		}

		return src, true
	}
}
