package manifest

import (
	"testing"

	"github.com/stretchr/testify/require"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
)

func toUnstructured(t *testing.T, object runtime.Object) *unstructured.Unstructured {
	t.Helper()
	data, err := runtime.DefaultUnstructuredConverter.ToUnstructured(object)
	require.NoError(t, err)
	return &unstructured.Unstructured{Object: data}
}

func lintOne(t *testing.T, deployment *appsv1.Deployment) error {
	t.Helper()
	return Lint(Config{}, []*unstructured.Unstructured{toUnstructured(t, deployment)})
}

func TestLintAcceptsBuiltManifests(t *testing.T) {
	resources, err := Build(Config{})
	require.NoError(t, err)
	require.NoError(t, Lint(Config{}, resources))
}

func TestLintRequiresDeployment(t *testing.T) {
	err := Lint(Config{}, []*unstructured.Unstructured{toUnstructured(t, Service(Config{}))})
	require.ErrorContains(t, err, "no apps/v1 Deployment present")
}

func TestLintSelectorMismatch(t *testing.T) {
	deployment := Deployment(Config{})
	deployment.Spec.Selector.MatchLabels = map[string]string{"app": "payments"}

	err := lintOne(t, deployment)
	require.ErrorContains(t, err, "selector label app=payments is not present in template labels")
}

func TestLintPortOutOfRange(t *testing.T) {
	deployment := Deployment(Config{})
	deployment.Spec.Template.Spec.Containers[0].Ports[0].ContainerPort = 70000

	err := lintOne(t, deployment)
	require.ErrorContains(t, err, "containerPort 70000 out of range")
}

func TestLintUnknownSecretKey(t *testing.T) {
	deployment := Deployment(Config{})
	env := deployment.Spec.Template.Spec.Containers[0].Env
	env[1].ValueFrom.SecretKeyRef.Key = "database-hostname"

	err := lintOne(t, deployment)
	require.ErrorContains(t, err, `references key "database-hostname" absent from secret "postgresql"`)
}

func TestLintUndeclaredSecret(t *testing.T) {
	deployment := Deployment(Config{})
	env := deployment.Spec.Template.Spec.Containers[0].Env
	env[2].ValueFrom.SecretKeyRef.Name = "mysql"

	err := lintOne(t, deployment)
	require.ErrorContains(t, err, `references secret "mysql"`)
}

func TestLintForwardEnvReference(t *testing.T) {
	deployment := Deployment(Config{})
	container := &deployment.Spec.Template.Spec.Containers[0]

	// move the URI to the front: its references now point forward and the
	// runtime would leave them unexpanded.
	env := container.Env
	container.Env = append([]corev1.EnvVar{env[len(env)-1]}, env[:len(env)-1]...)

	err := lintOne(t, deployment)
	require.ErrorContains(t, err, "$(DATABASE_USER) which is not defined earlier")
}

func TestLintEscapedDollarIsNotAReference(t *testing.T) {
	deployment := Deployment(Config{})
	container := &deployment.Spec.Template.Spec.Containers[0]
	container.Env = append(container.Env, corev1.EnvVar{Name: "MOTD", Value: "cost is $$(UNDEFINED)"})

	require.NoError(t, lintOne(t, deployment))
}

func TestLintDuplicateEnv(t *testing.T) {
	deployment := Deployment(Config{})
	container := &deployment.Spec.Template.Spec.Containers[0]
	container.Env = append(container.Env, corev1.EnvVar{Name: EnvDatabaseHost, Value: "other"})

	err := lintOne(t, deployment)
	require.ErrorContains(t, err, "duplicate environment variable DATABASE_HOST")
}

func TestLintMissingReplicas(t *testing.T) {
	deployment := Deployment(Config{})
	deployment.Spec.Replicas = nil

	err := lintOne(t, deployment)
	require.ErrorContains(t, err, "spec.replicas is required")
}
