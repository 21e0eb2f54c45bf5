package internal

import (
	"testing"

	"github.com/stretchr/testify/require"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

func TestCanonical(t *testing.T) {
	deployment := &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "apps/v1",
		"kind":       "Deployment",
		"metadata": map[string]any{
			"name":      "accounts",
			"namespace": "prod",
		},
	}}
	require.Equal(t, "prod.apps.v1.deployment.accounts", Canonical(deployment))

	namespace := &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "v1",
		"kind":       "Namespace",
		"metadata":   map[string]any{"name": "prod"},
	}}
	require.Equal(t, "_.core.v1.namespace.prod", Canonical(namespace))
}

func TestIntersectPrunesUndeclaredState(t *testing.T) {
	desired := map[string]any{
		"metadata": map[string]any{
			"name": "accounts",
		},
		"spec": map[string]any{
			"replicas": int64(3),
		},
	}

	actual := map[string]any{
		"metadata": map[string]any{
			"name":            "accounts",
			"resourceVersion": "123456",
			"uid":             "e2b9",
		},
		"spec": map[string]any{
			"replicas":                int64(2),
			"progressDeadlineSeconds": int64(600),
		},
		"status": map[string]any{"readyReplicas": int64(2)},
	}

	require.Equal(t, map[string]any{
		"metadata": map[string]any{"name": "accounts"},
		"spec":     map[string]any{"replicas": int64(2)},
	}, Intersect(desired, actual))
}

func TestIntersectListsOfObjects(t *testing.T) {
	desired := map[string]any{
		"containers": []any{
			map[string]any{"name": "accounts", "image": "accounts:1.0"},
		},
	}

	actual := map[string]any{
		"containers": []any{
			map[string]any{
				"name":            "accounts",
				"image":           "accounts:1.1",
				"imagePullPolicy": "IfNotPresent",
			},
		},
	}

	require.Equal(t, map[string]any{
		"containers": []any{
			map[string]any{"name": "accounts", "image": "accounts:1.1"},
		},
	}, Intersect(desired, actual))
}
