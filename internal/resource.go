package internal

import (
	"cmp"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Canonical returns a stable lowercase identifier for a resource:
// namespace.group.version.kind.name. Cluster-scoped resources use "_" for
// the namespace segment.
func Canonical(resource *unstructured.Unstructured) string {
	gvk := resource.GetObjectKind().GroupVersionKind()

	return strings.ToLower(strings.Join(
		[]string{
			cmp.Or(resource.GetNamespace(), "_"),
			cmp.Or(gvk.Group, "core"),
			gvk.Version,
			resource.GetKind(),
			resource.GetName(),
		},
		".",
	))
}

func CanonicalNameList(resources []*unstructured.Unstructured) []string {
	result := make([]string, len(resources))
	for i, resource := range resources {
		result[i] = Canonical(resource)
	}
	return result
}

// Intersect prunes actual down to the keys declared in desired. It is used
// for conflict-only drift reporting: server-populated fields such as status,
// defaults, and managed-fields metadata never appear in the declared state
// and are skipped rather than reported as drift.
func Intersect(desired, actual map[string]any) map[string]any {
	result := make(map[string]any, len(desired))
	for key, desiredValue := range desired {
		actualValue, ok := actual[key]
		if !ok {
			continue
		}

		desiredMap, desiredIsMap := desiredValue.(map[string]any)
		actualMap, actualIsMap := actualValue.(map[string]any)
		if desiredIsMap && actualIsMap {
			result[key] = Intersect(desiredMap, actualMap)
			continue
		}

		desiredSlice, desiredIsSlice := desiredValue.([]any)
		actualSlice, actualIsSlice := actualValue.([]any)
		if desiredIsSlice && actualIsSlice {
			pruned := make([]any, 0, len(actualSlice))
			for i, actualElem := range actualSlice {
				if i >= len(desiredSlice) {
					pruned = append(pruned, actualElem)
					continue
				}
				desiredElem, dOK := desiredSlice[i].(map[string]any)
				actualElem, aOK := actualElem.(map[string]any)
				if dOK && aOK {
					pruned = append(pruned, Intersect(desiredElem, actualElem))
					continue
				}
				pruned = append(pruned, actualSlice[i])
			}
			result[key] = pruned
			continue
		}

		result[key] = actualValue
	}
	return result
}
