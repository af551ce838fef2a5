package cmd

import (
	"go.followtheprocess.codes/cli"
	"go.followtheprocess.codes/lox/internal/lox"
)

const checkLong = `
The path argument may be a directory or a file.

If it is the name of a .lox file, then this file alone is checked
for validity.

If it is a directory, this directory is scanned recursively for all
files with the '.lox' extension and any matching files will be checked.

Nothing is ever executed, check runs the compile stages only (scanner,
parser and resolver).
`

// check returns the lox check subcommand.
func check() (*cli.Command, error) {
	var options lox.CheckOptions

	return cli.New(
		"check",
		cli.Short("Check Lox files for compile errors"),
		cli.Long(checkLong),
		cli.OptionalArg("path", "Path to check, may be directory or file", "."),
		cli.Flag(&options.Format, "format", 'f', "text", "Diagnostic output format (text, json, yaml)"),
		cli.Flag(&options.Debug, "debug", 'd', false, "Enable debug logging"),
		cli.Run(func(cmd *cli.Command, args []string) error {
			app := lox.New(options.Debug, version, cmd.Stdout(), cmd.Stderr())
			return app.Check(cmd.Arg("path"), options)
		}),
	)
}
