package text

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	expected := File{Name: "desired", Content: "replicas: 3\nimage: accounts:1.0\n"}
	actual := File{Name: "live", Content: "replicas: 2\nimage: accounts:1.0\n"}

	diff := Diff(expected, actual, 4)
	require.Contains(t, diff, "--- desired")
	require.Contains(t, diff, "+++ live")
	require.Contains(t, diff, "-replicas: 3")
	require.Contains(t, diff, "+replicas: 2")
}

func TestDiffIdenticalIsEmpty(t *testing.T) {
	file := File{Name: "same", Content: "a: 1\n"}
	require.Empty(t, Diff(file, file, 4))
}

func TestToYamlFile(t *testing.T) {
	file, err := ToYamlFile("resource", map[string]any{"kind": "Deployment"})
	require.NoError(t, err)
	require.Equal(t, "resource", file.Name)
	require.Equal(t, "kind: Deployment\n", file.Content)
}
