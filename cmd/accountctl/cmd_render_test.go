package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/opsline/accountd/internal"
	"github.com/opsline/accountd/pkg/manifest"
)

func TestGetRenderParams(t *testing.T) {
	params, err := GetRenderParams(GlobalSettings{}, []string{"-o", "json", "-replicas", "5", "-namespace", "prod"})
	require.NoError(t, err)
	require.Equal(t, "json", params.Format)
	require.Equal(t, 5, params.Manifest.Replicas)
	require.Equal(t, "prod", params.Manifest.Namespace)
}

func TestGetRenderParamsRejectsUnknownFormat(t *testing.T) {
	_, err := GetRenderParams(GlobalSettings{}, []string{"-o", "toml"})
	require.ErrorContains(t, err, "unsupported output format")
}

func TestRenderYamlIsLintable(t *testing.T) {
	params, err := GetRenderParams(GlobalSettings{}, nil)
	require.NoError(t, err)

	var stdout bytes.Buffer
	ctx := internal.WithStdout(context.Background(), &stdout)

	require.NoError(t, Render(ctx, *params))
	require.Contains(t, stdout.String(), "kind: Deployment")
	require.Contains(t, stdout.String(), "DATABASE_URI")

	resources, err := manifest.ParseResources(&stdout)
	require.NoError(t, err)
	require.Len(t, resources, 2)
	require.NoError(t, manifest.Lint(params.Manifest, resources))
}

func TestRenderJSON(t *testing.T) {
	params, err := GetRenderParams(GlobalSettings{}, []string{"-o", "json"})
	require.NoError(t, err)

	var stdout bytes.Buffer
	ctx := internal.WithStdout(context.Background(), &stdout)

	require.NoError(t, Render(ctx, *params))

	var resources []*unstructured.Unstructured
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resources))
	require.Len(t, resources, 2)
	require.Equal(t, "Deployment", resources[0].GetKind())
	require.Equal(t, "Service", resources[1].GetKind())
}

func TestLintFromSource(t *testing.T) {
	var rendered bytes.Buffer
	renderParams, err := GetRenderParams(GlobalSettings{}, nil)
	require.NoError(t, err)
	require.NoError(t, Render(internal.WithStdout(context.Background(), &rendered), *renderParams))

	params, err := GetLintParams(GlobalSettings{}, &rendered, nil)
	require.NoError(t, err)

	var stdout bytes.Buffer
	require.NoError(t, Lint(internal.WithStdout(context.Background(), &stdout), *params))
	require.Contains(t, stdout.String(), "lint passed")
}

func TestLintCatchesBrokenManifest(t *testing.T) {
	broken := bytes.NewBufferString(`
apiVersion: apps/v1
kind: Deployment
metadata:
  name: accounts
spec:
  replicas: 3
  selector:
    matchLabels:
      app: accounts
  template:
    metadata:
      labels:
        app: payments
    spec:
      containers:
        - name: accounts
          image: accounts:1.0
          ports:
            - containerPort: 99999
`)

	params, err := GetLintParams(GlobalSettings{}, broken, nil)
	require.NoError(t, err)

	err = Lint(context.Background(), *params)
	require.ErrorContains(t, err, "is not present in template labels")
	require.ErrorContains(t, err, "containerPort 99999 out of range")
}
