// Command wisp is the CLI entry point: compile and run a single script
// file, per §6's contract of one positional argument and no flags.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"

	"github.com/wisp-lang/wisp/compiler"
	"github.com/wisp-lang/wisp/corelib"
	wisperrors "github.com/wisp-lang/wisp/errors"
	"github.com/wisp-lang/wisp/values"
	"github.com/wisp-lang/wisp/vm"
)

func main() {
	app := &cli.Command{
		Name:      "wisp",
		Usage:     "run a script",
		ArgsUsage: "<file>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return wisperrors.IO("", 0, "usage: wisp <file>")
			}
			return runFile(path)
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		reportAndExit(err)
	}
}

// runFile reads, compiles, and interprets the script at path on a freshly
// bootstrapped machine, deriving §6's rootDir from the script's own
// directory so that sibling modules resolve relative to it.
func runFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return wisperrors.IO(path, 0, "%v", err)
	}

	machine := vm.New()
	if err := corelib.Bootstrap(machine); err != nil {
		return wisperrors.Mem("%v", err)
	}
	machine.Heap.Enable()
	machine.RootDir = filepath.Dir(path)

	module := values.NewModule("main")
	corelib.PrepareModule(machine, module)

	fn, err := compiler.Compile(path, string(src), module, machine.MethodNames)
	if err != nil {
		return err
	}

	return machine.Interpret(fn)
}

// reportAndExit implements §6's error contract: a file:line-qualified
// message on stderr (colorized red when stderr is a terminal, per
// go-isatty) and a non-zero exit code. A runtime error carries no
// file/line and prints only its message, per §7.
func reportAndExit(err error) {
	msg := err.Error()
	if isatty.IsTerminal(os.Stderr.Fd()) {
		fmt.Fprintf(os.Stderr, "\x1b[31m%s\x1b[0m\n", msg)
	} else {
		fmt.Fprintln(os.Stderr, msg)
	}
	os.Exit(1)
}
