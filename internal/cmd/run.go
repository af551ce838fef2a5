package cmd

import (
	"go.followtheprocess.codes/cli"
	"go.followtheprocess.codes/lox/internal/lox"
)

const runLong = `
The file is scanned, parsed and resolved; if any of those stages report
an error the program is not executed and lox exits with code 65.

An uncaught runtime error aborts execution and exits with code 70.
`

// run returns the lox run subcommand.
func run() (*cli.Command, error) {
	var debug bool

	return cli.New(
		"run",
		cli.Short("Run a Lox script"),
		cli.Long(runLong),
		cli.RequiredArg("file", "Path to the .lox file"),
		cli.Flag(&debug, "debug", 'd', false, "Enable debug logging"),
		cli.Run(func(cmd *cli.Command, args []string) error {
			app := lox.New(debug, version, cmd.Stdout(), cmd.Stderr())
			return app.Run(cmd.Arg("file"))
		}),
	)
}
