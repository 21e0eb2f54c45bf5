package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	corev1 "k8s.io/api/core/v1"

	"github.com/opsline/accountd/internal"
	"github.com/opsline/accountd/internal/k8s"
	"github.com/opsline/accountd/pkg/manifest"
)

type StatusParams struct {
	GlobalSettings
	Manifest manifest.Config
}

//go:embed cmd_status_help.txt
var statusHelp string

func init() {
	statusHelp = strings.TrimSpace(internal.Colorize(statusHelp))
}

func GetStatusParams(settings GlobalSettings, args []string) (*StatusParams, error) {
	flagset := flag.NewFlagSet("status", flag.ExitOnError)

	flagset.Usage = func() {
		fmt.Fprintln(flagset.Output(), statusHelp)
		flagset.PrintDefaults()
	}

	params := StatusParams{GlobalSettings: settings}

	RegisterGlobalFlags(flagset, &params.GlobalSettings)
	RegisterManifestFlags(flagset, &params.Manifest)

	flagset.Parse(args)

	return &params, nil
}

func Status(ctx context.Context, params StatusParams) error {
	client, err := k8s.NewClientFromKubeConfig(params.KubeConfigPath)
	if err != nil {
		return err
	}

	cfg := params.Manifest.WithDefaults()

	deployment, err := client.GetDeployment(ctx, cfg.Namespace, cfg.Name)
	if err != nil {
		return fmt.Errorf("failed to get deployment %s/%s: %w", cfg.Namespace, cfg.Name, err)
	}

	desired := int32(1)
	if deployment.Spec.Replicas != nil {
		desired = *deployment.Spec.Replicas
	}

	state := "NotReady"
	if k8s.DeploymentReady(deployment) {
		state = "Ready"
	}

	var conditions []string
	for _, condition := range deployment.Status.Conditions {
		if condition.Status == corev1.ConditionTrue {
			conditions = append(conditions, string(condition.Type))
		}
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleRounded)

	tbl.AppendHeader(table.Row{"deployment", "desired", "updated", "ready", "available", "state", "conditions"})
	tbl.AppendRow(table.Row{
		cfg.Namespace + "/" + deployment.Name,
		desired,
		deployment.Status.UpdatedReplicas,
		deployment.Status.ReadyReplicas,
		deployment.Status.AvailableReplicas,
		state,
		strings.Join(conditions, ","),
	})

	_, err = io.WriteString(internal.Stdout(ctx), tbl.Render()+"\n")
	return err
}
