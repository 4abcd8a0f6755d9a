// Package config layers flags, environment, .env files and an optional
// YAML file into a single view.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"
)

// DotEnvFiles are loaded, if present, before the environment is read.
var DotEnvFiles = []string{".env", ".env.local"}

// Load returns settings where a flag set on the command line beats
// {PREFIX}_{NAME} in the environment, which beats the file named by the
// "config" flag, which beats the flag default. Dashes in flag names become
// underscores in variable names.
func Load(flags *pflag.FlagSet, prefix string) (*viper.Viper, error) {
	for _, f := range DotEnvFiles {
		if err := godotenv.Load(f); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("load %s: %w", f, err)
			}
			continue
		}
		klog.V(1).Infof("loaded %s", f)
	}

	v := viper.New()
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		klog.V(1).Infof("loaded config from %s", path)
	}

	return v, nil
}
