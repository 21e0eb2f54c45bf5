package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/opsline/accountd/internal"
	"github.com/opsline/accountd/internal/k8s"
	"github.com/opsline/accountd/internal/text"
	"github.com/opsline/accountd/pkg/manifest"
)

type DriftParams struct {
	GlobalSettings
	Manifest      manifest.Config
	Context       int
	ConflictsOnly bool
	Color         bool
}

//go:embed cmd_drift_help.txt
var driftHelp string

func init() {
	driftHelp = strings.TrimSpace(internal.Colorize(driftHelp))
}

func GetDriftParams(settings GlobalSettings, args []string) (*DriftParams, error) {
	flagset := flag.NewFlagSet("drift", flag.ExitOnError)

	flagset.Usage = func() {
		fmt.Fprintln(flagset.Output(), driftHelp)
		flagset.PrintDefaults()
	}

	params := DriftParams{GlobalSettings: settings}

	RegisterGlobalFlags(flagset, &params.GlobalSettings)
	RegisterManifestFlags(flagset, &params.Manifest)
	flagset.IntVar(&params.Context, "context", 4, "number of lines of context in diff")
	flagset.BoolVar(
		&params.ConflictsOnly,
		"conflict-only",
		true,
		""+
			"only show drift for declared state.\n"+
			"If false, will show diff against state that was not declared;\n"+
			"such as server generated annotations, status, defaults and more",
	)
	flagset.BoolVar(&params.Color, "color", term.IsTerminal(int(os.Stdout.Fd())), "outputs diff with color")

	flagset.Parse(args)

	return &params, nil
}

func Drift(ctx context.Context, params DriftParams) error {
	resources, err := manifest.Build(params.Manifest)
	if err != nil {
		return err
	}

	client, err := k8s.NewClientFromKubeConfig(params.KubeConfigPath)
	if err != nil {
		return err
	}

	stdout := internal.Stdout(ctx)

	var drifted int
	for _, desired := range resources {
		name := internal.Canonical(desired)

		live, err := client.GetLiveResource(ctx, desired)
		if k8s.IsNotFound(err) {
			fmt.Fprintf(stdout, "%s: not found in cluster\n", name)
			drifted++
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to get live state of %s: %w", name, err)
		}

		actual := func() map[string]any {
			if params.ConflictsOnly {
				return internal.Intersect(desired.Object, live.Object)
			}
			scrubServerFields(live)
			return live.Object
		}()

		desiredFile, err := text.ToYamlFile(name+" (desired)", desired.Object)
		if err != nil {
			return err
		}
		actualFile, err := text.ToYamlFile(name+" (live)", actual)
		if err != nil {
			return err
		}

		diff := func() string {
			if params.Color {
				return text.DiffColorized(desiredFile, actualFile, params.Context)
			}
			return text.Diff(desiredFile, actualFile, params.Context)
		}()

		if diff != "" {
			fmt.Fprint(stdout, diff)
			drifted++
		}
	}

	if drifted == 0 {
		fmt.Fprintln(stdout, "no drift detected")
		return nil
	}

	return fmt.Errorf("drift detected in %d of %d resource(s)", drifted, len(resources))
}

func scrubServerFields(resource *unstructured.Unstructured) {
	for _, fields := range [][]string{
		{"metadata", "managedFields"},
		{"metadata", "resourceVersion"},
		{"metadata", "uid"},
		{"metadata", "generation"},
		{"metadata", "creationTimestamp"},
		{"status"},
	} {
		unstructured.RemoveNestedField(resource.Object, fields...)
	}
}
