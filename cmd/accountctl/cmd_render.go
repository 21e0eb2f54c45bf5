package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"flag"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/opsline/accountd/internal"
	"github.com/opsline/accountd/pkg/manifest"
)

type RenderParams struct {
	GlobalSettings
	Manifest manifest.Config
	Format   string
}

//go:embed cmd_render_help.txt
var renderHelp string

func init() {
	renderHelp = strings.TrimSpace(internal.Colorize(renderHelp))
}

func GetRenderParams(settings GlobalSettings, args []string) (*RenderParams, error) {
	flagset := flag.NewFlagSet("render", flag.ExitOnError)

	flagset.Usage = func() {
		fmt.Fprintln(flagset.Output(), renderHelp)
		flagset.PrintDefaults()
	}

	params := RenderParams{GlobalSettings: settings}

	RegisterGlobalFlags(flagset, &params.GlobalSettings)
	RegisterManifestFlags(flagset, &params.Manifest)
	flagset.StringVar(&params.Format, "o", "yaml", "output format: yaml or json")

	flagset.Parse(args)

	if params.Format != "yaml" && params.Format != "json" {
		return nil, fmt.Errorf("unsupported output format: %s", params.Format)
	}

	return &params, nil
}

func Render(ctx context.Context, params RenderParams) error {
	resources, err := manifest.Build(params.Manifest)
	if err != nil {
		return err
	}

	stdout := internal.Stdout(ctx)

	if params.Format == "json" {
		encoder := json.NewEncoder(stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(resources)
	}

	encoder := yaml.NewEncoder(stdout)
	encoder.SetIndent(2)
	defer encoder.Close()

	for _, resource := range resources {
		if err := encoder.Encode(resource.Object); err != nil {
			return fmt.Errorf("failed to encode %s: %w", internal.Canonical(resource), err)
		}
	}

	return nil
}
