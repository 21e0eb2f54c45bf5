package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"strings"

	"github.com/opsline/accountd/internal"
	"github.com/opsline/accountd/internal/k8s"
	"github.com/opsline/accountd/pkg/manifest"
)

type DestroyParams struct {
	GlobalSettings
	Manifest manifest.Config
}

//go:embed cmd_destroy_help.txt
var destroyHelp string

func init() {
	destroyHelp = strings.TrimSpace(internal.Colorize(destroyHelp))
}

func GetDestroyParams(settings GlobalSettings, args []string) (*DestroyParams, error) {
	flagset := flag.NewFlagSet("destroy", flag.ExitOnError)

	flagset.Usage = func() {
		fmt.Fprintln(flagset.Output(), destroyHelp)
		flagset.PrintDefaults()
	}

	params := DestroyParams{GlobalSettings: settings}

	RegisterGlobalFlags(flagset, &params.GlobalSettings)
	RegisterManifestFlags(flagset, &params.Manifest)

	flagset.Parse(args)

	return &params, nil
}

func Destroy(ctx context.Context, params DestroyParams) error {
	resources, err := manifest.Build(params.Manifest)
	if err != nil {
		return err
	}

	client, err := k8s.NewClientFromKubeConfig(params.KubeConfigPath)
	if err != nil {
		return err
	}

	removed, err := client.DeleteResources(ctx, resources)
	if err != nil {
		return fmt.Errorf("failed to delete resources: %w", err)
	}

	// the external secret is deliberately left alone: it is owned by the
	// database, not this deployment.

	if len(removed) == 0 {
		return internal.Warningf("no resources found in cluster: nothing to remove")
	}

	stdout := internal.Stdout(ctx)
	for _, name := range internal.CanonicalNameList(removed) {
		fmt.Fprintf(stdout, "removed: %s\n", name)
	}
	return nil
}
