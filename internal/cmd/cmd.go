// Package cmd implements lox's CLI.
package cmd

import (
	"github.com/charmbracelet/huh"
	"go.followtheprocess.codes/cli"
	"go.followtheprocess.codes/lox/internal/config"
	"go.followtheprocess.codes/lox/internal/lox"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

// Build builds and returns the lox CLI.
func Build() (*cli.Command, error) {
	var debug bool

	return cli.New(
		"lox",
		cli.Short("A tree-walking interpreter for the Lox language"),
		cli.Version(version),
		cli.Commit(commit),
		cli.BuildDate(date),
		cli.Example("Pick a mode interactively", "lox"),
		cli.Example("Run a Lox script", "lox run ./demo.lox"),
		cli.Example("Start an interactive session", "lox repl"),
		cli.Example("Check for compile errors in multiple files (recursively)", "lox check ./examples"),
		cli.Allow(cli.NoArgs()),
		cli.Flag(&debug, "debug", 'd', false, "Enable debug logs"),
		cli.SubCommands(run, repl, check),
		cli.Run(func(cmd *cli.Command, args []string) error {
			return pick(cmd, debug)
		}),
	)
}

// pick is the interactive mode picker shown when lox is invoked with no
// arguments: choose between running a file, the REPL, and checking files.
func pick(cmd *cli.Command, debug bool) error {
	const (
		modeRun   = "run"
		modeREPL  = "repl"
		modeCheck = "check"
	)

	var mode string

	err := huh.NewSelect[string]().
		Title("What would you like to do?").
		Options(
			huh.NewOption("Run a Lox file", modeRun),
			huh.NewOption("Start the REPL", modeREPL),
			huh.NewOption("Check files for errors", modeCheck),
		).
		Value(&mode).
		Run()
	if err != nil {
		return err
	}

	app := lox.New(debug, version, cmd.Stdout(), cmd.Stderr())

	switch mode {
	case modeRun:
		var file string

		err := huh.NewInput().
			Title("Path to the .lox file").
			Value(&file).
			Run()
		if err != nil {
			return err
		}

		return app.Run(file)
	case modeCheck:
		path := "."

		err := huh.NewInput().
			Title("Path to check (file or directory)").
			Value(&path).
			Run()
		if err != nil {
			return err
		}

		return app.Check(path, lox.CheckOptions{Format: "text", Debug: debug})
	default:
		cfg, err := config.FindAndLoad(".")
		if err != nil {
			return err
		}

		return app.REPL(cfg)
	}
}
