package app

import (
	"fmt"
	"os"
	"path"

	"github.com/uber/sharpd/src/sharpd/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Context describes the environment the daemon runs in.
type Context struct {
	Environment        string `yaml:"environment"`
	RuntimeEnvironment string `yaml:"runtimeEnvironment"`
}

const (
	// EnvLocal indicates that the service is running locally.
	EnvLocal = "local"

	// EnvDevelopment indicates that the service is running in a development environment.
	EnvDevelopment = "development"

	// Environment variables
	_envSharpdEnvironment = "SHARPD_ENVIRONMENT"
)

func decorateEnvContext(env Context) Context {
	envValue := EnvLocal
	if os.Getenv(_envSharpdEnvironment) == EnvDevelopment {
		envValue = EnvDevelopment
	}

	env.Environment = envValue
	env.RuntimeEnvironment = envValue
	return env
}

// DecorateConfigParams is the set of dependencies required to decorate the config.Provider.
type DecorateConfigParams struct {
	fx.In

	Env Context
	Cfg config.Provider
	FS  fs.SharpFS
}

// decorateConfigProvider includes any steps that modify the config.Provider before it is used, or use its data for any startup related activities.
func decorateConfigProvider(p DecorateConfigParams) (config.Provider, error) {
	combined, err := ensureLogFolder(p.Cfg, p.FS)
	if err != nil {
		return nil, fmt.Errorf("ensuring log folder: %v", err)
	}

	return combined, nil
}

// Ensure that all configured logging output directories exist or create if necessary.
func ensureLogFolder(cfg config.Provider, fs fs.SharpFS) (config.Provider, error) {
	var c zap.Config
	if err := cfg.Get("logging").Populate(&c); err != nil {
		return nil, fmt.Errorf("loading logging config: %v", err)
	}

	for _, outputPath := range c.OutputPaths {
		dir := path.Dir(outputPath)
		if err := fs.MkdirAll(dir); err != nil {
			return nil, fmt.Errorf("creating logging directory: %v", err)
		}
	}

	return cfg, nil
}
