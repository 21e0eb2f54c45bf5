package manifest

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/davidmdm/x/xerr"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
)

// Lint statically checks resources against the properties the orchestrator
// and the service contract require: schema conformance of the deployment,
// selector labels matching the pod template, valid container ports, secret
// key references within the declared secret contract, and env interpolation
// that the container runtime can actually resolve.
//
// It never touches the cluster; use preflight for live secret checks.
func Lint(cfg Config, resources []*unstructured.Unstructured) error {
	cfg = cfg.WithDefaults()

	var (
		errs        []error
		deployments int
	)

	for _, resource := range resources {
		gvk := resource.GroupVersionKind()
		if gvk.Kind != "Deployment" || gvk.Group != "apps" {
			continue
		}

		deployments++

		if gvk.Version != "v1" {
			errs = append(errs, fmt.Errorf("%s: unsupported apiVersion %q: want apps/v1", resource.GetName(), resource.GetAPIVersion()))
			continue
		}

		var deployment appsv1.Deployment
		if err := runtime.DefaultUnstructuredConverter.FromUnstructured(resource.Object, &deployment); err != nil {
			errs = append(errs, fmt.Errorf("%s: does not conform to the deployment schema: %w", resource.GetName(), err))
			continue
		}

		errs = append(errs, lintDeployment(cfg, &deployment)...)
	}

	if deployments == 0 {
		errs = append(errs, errors.New("no apps/v1 Deployment present"))
	}

	return xerr.MultiErrOrderedFrom("lint", errs...)
}

func lintDeployment(cfg Config, deployment *appsv1.Deployment) []error {
	var errs []error

	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if deployment.Name == "" {
		fail("metadata.name is required")
	}

	if replicas := deployment.Spec.Replicas; replicas == nil {
		fail("spec.replicas is required")
	} else if *replicas < 1 {
		fail("spec.replicas must be at least 1 but got %d", *replicas)
	}

	templateLabels := deployment.Spec.Template.Labels

	if selector := deployment.Spec.Selector; selector == nil || len(selector.MatchLabels) == 0 {
		fail("spec.selector.matchLabels is required")
	} else {
		for key, value := range selector.MatchLabels {
			if actual, ok := templateLabels[key]; !ok || actual != value {
				fail("selector label %s=%s is not present in template labels: deployment would be rejected", key, value)
			}
		}
	}

	containers := deployment.Spec.Template.Spec.Containers
	if len(containers) == 0 {
		fail("template must declare at least one container")
	}

	for _, container := range containers {
		errs = append(errs, lintContainer(cfg, container)...)
	}

	return errs
}

func lintContainer(cfg Config, container corev1.Container) []error {
	var errs []error

	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("container %s: "+format, append([]any{container.Name}, args...)...))
	}

	if container.Name == "" {
		errs = append(errs, errors.New("container name is required"))
	}
	if container.Image == "" {
		fail("image is required")
	}

	for _, port := range container.Ports {
		if port.ContainerPort < 1 || port.ContainerPort > 65535 {
			fail("containerPort %d out of range [1, 65535]", port.ContainerPort)
		}
	}

	secretKeys := SecretKeys()
	seen := map[string]bool{}

	for _, env := range container.Env {
		if seen[env.Name] {
			fail("duplicate environment variable %s", env.Name)
		}

		if ref := secretKeyRef(env); ref != nil {
			switch {
			case ref.Name != cfg.SecretName:
				fail("env %s references secret %q: contract declares only %q", env.Name, ref.Name, cfg.SecretName)
			case !slices.Contains(secretKeys, ref.Key):
				fail("env %s references key %q absent from secret %q (keys: %s)", env.Name, ref.Key, ref.Name, strings.Join(secretKeys, ", "))
			}
		}

		// $(VAR) expansion is done by the container runtime against
		// variables defined earlier in the list only.
		for _, name := range envRefs(env.Value) {
			if !seen[name] {
				fail("env %s references $(%s) which is not defined earlier in the env list", env.Name, name)
			}
		}

		seen[env.Name] = true
	}

	return errs
}

func secretKeyRef(env corev1.EnvVar) *corev1.SecretKeySelector {
	if env.ValueFrom == nil {
		return nil
	}
	return env.ValueFrom.SecretKeyRef
}

var envRefPattern = regexp.MustCompile(`\$\(([A-Za-z_][A-Za-z0-9_]*)\)`)

func envRefs(value string) []string {
	// $$ escapes a literal dollar sign and never starts a reference.
	value = strings.ReplaceAll(value, "$$", "")

	var names []string
	for _, match := range envRefPattern.FindAllStringSubmatch(value, -1) {
		names = append(names, match[1])
	}
	return names
}
