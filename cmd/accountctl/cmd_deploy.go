package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/opsline/accountd/internal"
	"github.com/opsline/accountd/internal/k8s"
	"github.com/opsline/accountd/pkg/manifest"
)

type DeployParams struct {
	GlobalSettings
	Manifest       manifest.Config
	SkipDryRun     bool
	SkipPreflight  bool
	ForceConflicts bool
	Wait           time.Duration
	Poll           time.Duration
}

//go:embed cmd_deploy_help.txt
var deployHelp string

func init() {
	deployHelp = strings.TrimSpace(internal.Colorize(deployHelp))
}

func GetDeployParams(settings GlobalSettings, args []string) (*DeployParams, error) {
	flagset := flag.NewFlagSet("deploy", flag.ExitOnError)

	flagset.Usage = func() {
		fmt.Fprintln(flagset.Output(), deployHelp)
		flagset.PrintDefaults()
	}

	params := DeployParams{GlobalSettings: settings}

	RegisterGlobalFlags(flagset, &params.GlobalSettings)
	RegisterManifestFlags(flagset, &params.Manifest)

	flagset.BoolVar(&params.SkipDryRun, "skip-dry-run", false, "disables dry run before applying resources")
	flagset.BoolVar(&params.SkipPreflight, "skip-preflight", false, "skip the database secret preflight check")
	flagset.BoolVar(&params.ForceConflicts, "force-conflicts", false, "force apply changes on field manager conflicts")
	flagset.DurationVar(&params.Wait, "wait", 2*time.Minute, "time to wait for the deployment to become ready (0 to skip)")
	flagset.DurationVar(&params.Poll, "poll", 5*time.Second, "interval to poll deployment state at. Used with -wait")

	flagset.Parse(args)

	return &params, nil
}

func Deploy(ctx context.Context, params DeployParams) error {
	cfg := params.Manifest.WithDefaults()

	resources, err := manifest.Build(cfg)
	if err != nil {
		return err
	}

	if err := manifest.Lint(cfg, resources); err != nil {
		return err
	}

	client, err := k8s.NewClientFromKubeConfig(params.KubeConfigPath)
	if err != nil {
		return err
	}

	if !params.SkipPreflight {
		if err := client.EnsureSecretKeys(ctx, cfg.Namespace, cfg.SecretName, manifest.SecretKeys()...); err != nil {
			return fmt.Errorf("preflight: %w", err)
		}
	}

	applyOpts := k8s.ApplyResourcesOpts{
		SkipDryRun:     params.SkipDryRun,
		ForceConflicts: params.ForceConflicts,
	}
	if err := client.ApplyResources(ctx, resources, applyOpts); err != nil {
		return fmt.Errorf("failed to apply resources: %w", err)
	}

	stdout := internal.Stdout(ctx)
	for _, name := range internal.CanonicalNameList(resources) {
		fmt.Fprintf(stdout, "applied: %s\n", name)
	}

	if params.Wait <= 0 {
		return nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, params.Wait)
	defer cancel()

	if err := client.WaitDeploymentReady(waitCtx, cfg.Namespace, cfg.Name, params.Poll); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "deployment %s/%s ready\n", cfg.Namespace, cfg.Name)
	return nil
}
