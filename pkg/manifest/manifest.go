// Package manifest is the typed, in-process representation of the accounts
// service deployment. It builds the Deployment and Service resources that
// describe how the service runs in-cluster, and lints them against the
// contracts the service depends on at pod start.
package manifest

import (
	"cmp"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/intstr"
)

// Environment contract exposed to the running container. The URI is not
// composed by this code: the container runtime expands the $(VAR) references
// at process start, and only against variables defined earlier in the env
// list. Env returns the list in a valid order.
const (
	EnvDatabaseHost     = "DATABASE_HOST"
	EnvDatabaseName     = "DATABASE_NAME"
	EnvDatabaseUser     = "DATABASE_USER"
	EnvDatabasePassword = "DATABASE_PASSWORD"
	EnvDatabaseURI      = "DATABASE_URI"
)

// Keys the external secret must carry before pods can schedule.
const (
	KeyDatabaseName     = "database-name"
	KeyDatabaseUser     = "database-user"
	KeyDatabasePassword = "database-password"
)

const DatabaseURITemplate = "postgresql://$(DATABASE_USER):$(DATABASE_PASSWORD)@$(DATABASE_HOST):5432/$(DATABASE_NAME)"

const (
	DefaultName       = "accounts"
	DefaultImage      = "accounts:1.0"
	DefaultReplicas   = 3
	DefaultPort       = 8080
	DefaultSecretName = "postgresql"
)

func SecretKeys() []string {
	return []string{KeyDatabaseName, KeyDatabaseUser, KeyDatabasePassword}
}

type Config struct {
	Name         string
	Namespace    string
	Image        string
	Replicas     int
	Port         int
	DatabaseHost string
	SecretName   string
}

func (cfg Config) WithDefaults() Config {
	cfg.Name = cmp.Or(cfg.Name, DefaultName)
	cfg.Namespace = cmp.Or(cfg.Namespace, "default")
	cfg.Image = cmp.Or(cfg.Image, DefaultImage)
	cfg.Replicas = cmp.Or(cfg.Replicas, DefaultReplicas)
	cfg.Port = cmp.Or(cfg.Port, DefaultPort)
	cfg.DatabaseHost = cmp.Or(cfg.DatabaseHost, DefaultSecretName)
	cfg.SecretName = cmp.Or(cfg.SecretName, DefaultSecretName)
	return cfg
}

func (cfg Config) labels() map[string]string {
	return map[string]string{"app": cfg.Name}
}

// Env returns the container environment in contract order: the literal host,
// the three secret-sourced variables, then the URI that references them.
func Env(cfg Config) []corev1.EnvVar {
	secretRef := func(key string) *corev1.EnvVarSource {
		return &corev1.EnvVarSource{
			SecretKeyRef: &corev1.SecretKeySelector{
				LocalObjectReference: corev1.LocalObjectReference{Name: cfg.SecretName},
				Key:                  key,
			},
		}
	}

	return []corev1.EnvVar{
		{Name: EnvDatabaseHost, Value: cfg.DatabaseHost},
		{Name: EnvDatabaseName, ValueFrom: secretRef(KeyDatabaseName)},
		{Name: EnvDatabaseUser, ValueFrom: secretRef(KeyDatabaseUser)},
		{Name: EnvDatabasePassword, ValueFrom: secretRef(KeyDatabasePassword)},
		{Name: EnvDatabaseURI, Value: DatabaseURITemplate},
	}
}

func Deployment(cfg Config) *appsv1.Deployment {
	cfg = cfg.WithDefaults()
	labels := cfg.labels()
	replicas := int32(cfg.Replicas)

	return &appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "apps/v1",
			Kind:       "Deployment",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      cfg.Name,
			Namespace: cfg.Namespace,
			Labels:    labels,
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Selector: &metav1.LabelSelector{MatchLabels: labels},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{
						{
							Name:  cfg.Name,
							Image: cfg.Image,
							Ports: []corev1.ContainerPort{
								{
									ContainerPort: int32(cfg.Port),
									Protocol:      corev1.ProtocolTCP,
								},
							},
							Env: Env(cfg),
						},
					},
				},
			},
		},
	}
}

func Service(cfg Config) *corev1.Service {
	cfg = cfg.WithDefaults()

	return &corev1.Service{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "Service",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      cfg.Name,
			Namespace: cfg.Namespace,
			Labels:    cfg.labels(),
		},
		Spec: corev1.ServiceSpec{
			Selector: cfg.labels(),
			Ports: []corev1.ServicePort{
				{
					Protocol:   corev1.ProtocolTCP,
					Port:       int32(cfg.Port),
					TargetPort: intstr.FromInt32(int32(cfg.Port)),
				},
			},
		},
	}
}

// Build renders the full resource set as unstructured objects ready for
// encoding or server-side apply.
func Build(cfg Config) ([]*unstructured.Unstructured, error) {
	var resources []*unstructured.Unstructured
	for _, object := range []runtime.Object{Deployment(cfg), Service(cfg)} {
		data, err := runtime.DefaultUnstructuredConverter.ToUnstructured(object)
		if err != nil {
			return nil, fmt.Errorf("failed to convert %T to unstructured: %w", object, err)
		}

		resource := &unstructured.Unstructured{Object: data}

		// scrub the zero-value fields the typed conversion insists on;
		// they are server-owned and never part of declared state.
		unstructured.RemoveNestedField(resource.Object, "status")
		unstructured.RemoveNestedField(resource.Object, "metadata", "creationTimestamp")
		unstructured.RemoveNestedField(resource.Object, "spec", "template", "metadata", "creationTimestamp")

		resources = append(resources, resource)
	}
	return resources, nil
}

// ParseResources decodes a yaml document stream (or a json array) of
// resources. Documents that are empty or null are skipped.
func ParseResources(r io.Reader) ([]*unstructured.Unstructured, error) {
	var resources []*unstructured.Unstructured

	decoder := yaml.NewDecoder(r)
	for {
		var doc any
		if err := decoder.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		if doc == nil {
			continue
		}

		switch doc := normalize(doc).(type) {
		case []any:
			for _, elem := range doc {
				object, ok := elem.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("expected resource object but got %T", elem)
				}
				resources = append(resources, &unstructured.Unstructured{Object: object})
			}
		case map[string]any:
			resources = append(resources, &unstructured.Unstructured{Object: doc})
		default:
			return nil, fmt.Errorf("expected resource object but got %T", doc)
		}
	}

	return resources, nil
}

// normalize converts decoded yaml values to the types unstructured objects
// expect: int64 for whole numbers, float64 otherwise.
func normalize(value any) any {
	switch value := value.(type) {
	case map[string]any:
		for key, elem := range value {
			value[key] = normalize(elem)
		}
		return value
	case []any:
		for i, elem := range value {
			value[i] = normalize(elem)
		}
		return value
	case int:
		return int64(value)
	case int32:
		return int64(value)
	case uint:
		return int64(value)
	case uint32:
		return int64(value)
	case uint64:
		return int64(value)
	case float32:
		return float64(value)
	default:
		return value
	}
}
