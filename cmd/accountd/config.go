package main

import (
	"cmp"
	"fmt"

	"github.com/davidmdm/conf"
	"github.com/davidmdm/x/xerr"

	"github.com/opsline/accountd/pkg/manifest"
)

// Config mirrors the environment contract the deployment manifest exposes to
// the container.
type Config struct {
	Port             int
	DatabaseURI      string
	DatabaseHost     string
	DatabaseName     string
	DatabaseUser     string
	DatabasePassword string
}

func getConfig() (cfg Config, err error) {
	conf.Var(conf.Environ, &cfg.Port, "PORT")
	conf.Var(conf.Environ, &cfg.DatabaseURI, manifest.EnvDatabaseURI)
	conf.Var(conf.Environ, &cfg.DatabaseHost, manifest.EnvDatabaseHost)
	conf.Var(conf.Environ, &cfg.DatabaseName, manifest.EnvDatabaseName)
	conf.Var(conf.Environ, &cfg.DatabaseUser, manifest.EnvDatabaseUser)
	conf.Var(conf.Environ, &cfg.DatabasePassword, manifest.EnvDatabasePassword)

	if err = conf.Environ.Parse(); err != nil {
		return
	}

	cfg.Port = cmp.Or(cfg.Port, manifest.DefaultPort)
	return
}

// URI returns DATABASE_URI as expanded by the container runtime, or composes
// it from the individual variables when the runtime did not provide it
// (local runs outside the cluster).
func (cfg Config) URI() (string, error) {
	if cfg.DatabaseURI != "" {
		return cfg.DatabaseURI, nil
	}

	var errs []error
	for name, value := range map[string]string{
		manifest.EnvDatabaseHost:     cfg.DatabaseHost,
		manifest.EnvDatabaseName:     cfg.DatabaseName,
		manifest.EnvDatabaseUser:     cfg.DatabaseUser,
		manifest.EnvDatabasePassword: cfg.DatabasePassword,
	} {
		if value == "" {
			errs = append(errs, fmt.Errorf("%s is not set", name))
		}
	}
	if err := xerr.MultiErrOrderedFrom("cannot compose database uri", errs...); err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"postgresql://%s:%s@%s:5432/%s",
		cfg.DatabaseUser, cfg.DatabasePassword, cfg.DatabaseHost, cfg.DatabaseName,
	), nil
}
