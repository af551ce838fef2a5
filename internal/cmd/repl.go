package cmd

import (
	"go.followtheprocess.codes/cli"
	"go.followtheprocess.codes/lox/internal/config"
	"go.followtheprocess.codes/lox/internal/lox"
)

const replLong = `
Each line is compiled and executed independently; compile errors are
printed but do not exit the session, and globals defined on earlier
lines remain visible.

Input that ends mid-construct (an unclosed block, say) switches to a
continuation prompt until the construct is complete.

The prompt strings and history file location can be customised with a
lox.toml file, found by searching upwards from the working directory.
`

// repl returns the lox repl subcommand.
func repl() (*cli.Command, error) {
	var debug bool

	return cli.New(
		"repl",
		cli.Short("Start an interactive Lox session"),
		cli.Long(replLong),
		cli.Allow(cli.NoArgs()),
		cli.Flag(&debug, "debug", 'd', false, "Enable debug logging"),
		cli.Run(func(cmd *cli.Command, args []string) error {
			cfg, err := config.FindAndLoad(".")
			if err != nil {
				return err
			}

			app := lox.New(debug, version, cmd.Stdout(), cmd.Stderr())

			return app.REPL(cfg)
		}),
	)
}
