package main

import (
	"flag"

	"github.com/opsline/accountd/internal/home"
	"github.com/opsline/accountd/pkg/manifest"
)

type GlobalSettings struct {
	KubeConfigPath string
	Debug          bool
}

func RegisterGlobalFlags(flagset *flag.FlagSet, settings *GlobalSettings) {
	flagset.StringVar(&settings.KubeConfigPath, "kubeconfig", home.Kubeconfig, "path to kube config")
	flagset.BoolVar(&settings.Debug, "debug", false, "print debug timings to stderr")
}

func RegisterManifestFlags(flagset *flag.FlagSet, cfg *manifest.Config) {
	flagset.StringVar(&cfg.Name, "name", manifest.DefaultName, "deployment name and app label")
	flagset.StringVar(&cfg.Namespace, "namespace", "default", "namespace for all resources")
	flagset.StringVar(&cfg.Image, "image", manifest.DefaultImage, "container image for the service")
	flagset.IntVar(&cfg.Replicas, "replicas", manifest.DefaultReplicas, "desired replica count")
	flagset.IntVar(&cfg.Port, "port", manifest.DefaultPort, "container and service port")
	flagset.StringVar(&cfg.DatabaseHost, "database-host", manifest.DefaultSecretName, "host injected as DATABASE_HOST")
	flagset.StringVar(&cfg.SecretName, "secret", manifest.DefaultSecretName, "secret carrying the database credentials")
}
