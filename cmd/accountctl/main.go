package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/davidmdm/x/xcontext"

	"github.com/opsline/accountd/internal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		if internal.IsWarning(err) {
			return
		}
		os.Exit(1)
	}
}

//go:embed cmd_help.txt
var rootHelp string

func init() {
	rootHelp = strings.TrimSpace(internal.Colorize(rootHelp))
}

func run() error {
	ctx, done := xcontext.WithSignalCancelation(context.Background(), syscall.SIGINT)
	defer done()

	var settings GlobalSettings
	RegisterGlobalFlags(flag.CommandLine, &settings)

	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), rootHelp)
		flag.PrintDefaults()
		fmt.Fprintln(flag.CommandLine.Output())
	}

	flag.Parse()

	ctx = internal.WithDebugFlag(ctx, &settings.Debug)

	if len(flag.Args()) == 0 {
		flag.Usage()
		return fmt.Errorf("no command provided")
	}

	subcmdArgs := flag.Args()[1:]

	switch cmd := flag.Arg(0); cmd {
	case "render":
		{
			params, err := GetRenderParams(settings, subcmdArgs)
			if err != nil {
				return err
			}
			return Render(ctx, *params)
		}
	case "lint":
		{
			var source io.Reader
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				source = os.Stdin
			}
			params, err := GetLintParams(settings, source, subcmdArgs)
			if err != nil {
				return err
			}
			return Lint(ctx, *params)
		}
	case "preflight":
		{
			params, err := GetPreflightParams(settings, subcmdArgs)
			if err != nil {
				return err
			}
			return Preflight(ctx, *params)
		}
	case "deploy", "up", "apply":
		{
			params, err := GetDeployParams(settings, subcmdArgs)
			if err != nil {
				return err
			}
			return Deploy(ctx, *params)
		}
	case "drift":
		{
			params, err := GetDriftParams(settings, subcmdArgs)
			if err != nil {
				return err
			}
			return Drift(ctx, *params)
		}
	case "status":
		{
			params, err := GetStatusParams(settings, subcmdArgs)
			if err != nil {
				return err
			}
			return Status(ctx, *params)
		}
	case "destroy", "down", "delete":
		{
			params, err := GetDestroyParams(settings, subcmdArgs)
			if err != nil {
				return err
			}
			return Destroy(ctx, *params)
		}
	case "version":
		{
			return Version()
		}
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}
