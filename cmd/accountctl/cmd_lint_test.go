package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opsline/accountd/internal"
)

func TestLintReadsStdinWhenFilenameIsDash(t *testing.T) {
	var rendered bytes.Buffer
	renderParams, err := GetRenderParams(GlobalSettings{}, nil)
	require.NoError(t, err)
	require.NoError(t, Render(internal.WithStdout(context.Background(), &rendered), *renderParams))

	params, err := GetLintParams(GlobalSettings{}, nil, []string{"-f", "-"})
	require.NoError(t, err)

	var stdout bytes.Buffer
	ctx := internal.WithStdout(internal.WithStdin(context.Background(), &rendered), &stdout)

	require.NoError(t, Lint(ctx, *params))
	require.Contains(t, stdout.String(), "lint passed")
}

func TestLintStdinViolations(t *testing.T) {
	manifests := strings.NewReader(`
apiVersion: apps/v1
kind: Deployment
metadata:
  name: accounts
spec:
  replicas: 0
  selector:
    matchLabels:
      app: accounts
  template:
    metadata:
      labels:
        app: accounts
    spec:
      containers:
        - name: accounts
          image: accounts:1.0
`)

	params, err := GetLintParams(GlobalSettings{}, nil, []string{"-f", "-"})
	require.NoError(t, err)

	err = Lint(internal.WithStdin(context.Background(), manifests), *params)
	require.ErrorContains(t, err, "spec.replicas must be at least 1")
}
