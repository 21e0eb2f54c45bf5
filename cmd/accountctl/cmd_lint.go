package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/opsline/accountd/internal"
	"github.com/opsline/accountd/pkg/manifest"
)

type LintParams struct {
	GlobalSettings
	Manifest manifest.Config
	Filename string
	Source   io.Reader
}

//go:embed cmd_lint_help.txt
var lintHelp string

func init() {
	lintHelp = strings.TrimSpace(internal.Colorize(lintHelp))
}

func GetLintParams(settings GlobalSettings, source io.Reader, args []string) (*LintParams, error) {
	flagset := flag.NewFlagSet("lint", flag.ExitOnError)

	flagset.Usage = func() {
		fmt.Fprintln(flagset.Output(), lintHelp)
		flagset.PrintDefaults()
	}

	params := LintParams{GlobalSettings: settings, Source: source}

	RegisterGlobalFlags(flagset, &params.GlobalSettings)
	RegisterManifestFlags(flagset, &params.Manifest)
	flagset.StringVar(&params.Filename, "f", "", "lint a manifest file instead of the built-in rendering (use - for stdin)")

	flagset.Parse(args)

	return &params, nil
}

func Lint(ctx context.Context, params LintParams) error {
	resources, err := lintInput(ctx, params)
	if err != nil {
		return err
	}

	if err := manifest.Lint(params.Manifest, resources); err != nil {
		return err
	}

	fmt.Fprintf(internal.Stdout(ctx), "lint passed: %d resource(s) ok\n", len(resources))
	return nil
}

func lintInput(ctx context.Context, params LintParams) ([]*unstructured.Unstructured, error) {
	switch {
	case params.Filename == "-" || (params.Filename == "" && params.Source != nil):
		source := params.Source
		if source == nil {
			source = internal.Stdin(ctx)
		}
		return manifest.ParseResources(source)
	case params.Filename != "":
		file, err := os.Open(params.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to open manifest: %w", err)
		}
		defer file.Close()
		return manifest.ParseResources(file)
	default:
		return manifest.Build(params.Manifest)
	}
}
