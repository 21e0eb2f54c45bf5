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

type PreflightParams struct {
	GlobalSettings
	Manifest manifest.Config
}

//go:embed cmd_preflight_help.txt
var preflightHelp string

func init() {
	preflightHelp = strings.TrimSpace(internal.Colorize(preflightHelp))
}

func GetPreflightParams(settings GlobalSettings, args []string) (*PreflightParams, error) {
	flagset := flag.NewFlagSet("preflight", flag.ExitOnError)

	flagset.Usage = func() {
		fmt.Fprintln(flagset.Output(), preflightHelp)
		flagset.PrintDefaults()
	}

	params := PreflightParams{GlobalSettings: settings}

	RegisterGlobalFlags(flagset, &params.GlobalSettings)
	RegisterManifestFlags(flagset, &params.Manifest)

	flagset.Parse(args)

	return &params, nil
}

func Preflight(ctx context.Context, params PreflightParams) error {
	client, err := k8s.NewClientFromKubeConfig(params.KubeConfigPath)
	if err != nil {
		return err
	}

	cfg := params.Manifest.WithDefaults()

	if err := client.EnsureSecretKeys(ctx, cfg.Namespace, cfg.SecretName, manifest.SecretKeys()...); err != nil {
		return err
	}

	fmt.Fprintf(
		internal.Stdout(ctx),
		"secret %s/%s: all required keys present (%s)\n",
		cfg.Namespace, cfg.SecretName, strings.Join(manifest.SecretKeys(), ", "),
	)
	return nil
}
